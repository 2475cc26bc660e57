package event

import (
	"context"
	"log/slog"
)

func (s *Service) handleProductCreatedEvent(ctx context.Context, ev ProductEvent) error {
	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", ev.ProductID),
		slog.String("slug", ev.Slug),
		slog.String("category", ev.Category),
		slog.String("price", ev.Price),
	)
	return nil
}

func (s *Service) handleProductUpdatedEvent(ctx context.Context, ev ProductEvent) error {
	attrs := []any{
		slog.String("product_id", ev.ProductID),
		slog.String("slug", ev.Slug),
		slog.Bool("availability", ev.Availability),
	}
	if ev.PreviousSlug != "" {
		attrs = append(attrs, slog.String("previous_slug", ev.PreviousSlug))
	}

	s.logger.InfoContext(ctx, "product updated", attrs...)
	return nil
}

func (s *Service) handleProductDeletedEvent(ctx context.Context, ev ProductEvent) error {
	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", ev.ProductID),
		slog.String("slug", ev.Slug),
	)
	return nil
}
