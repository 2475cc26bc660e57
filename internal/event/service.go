package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/product-catalog/internal/storage/mq"
)

// Service consumes the catalog's own product events.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.RegisterHandlers(); err != nil {
		return nil, err
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

func (s *Service) RegisterHandlers() error {
	handlers := map[string]func(context.Context, ProductEvent) error{
		TopicProductCreated: s.handleProductCreatedEvent,
		TopicProductUpdated: s.handleProductUpdatedEvent,
		TopicProductDeleted: s.handleProductDeletedEvent,
	}

	for _, topic := range Topics() {
		handle := handlers[topic]
		if err := s.mqConsumer.RegisterHandler(topic, func(ctx context.Context, msg mq.Message) error {
			var ev ProductEvent
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				return fmt.Errorf("unmarshal %s event: %w", topic, err)
			}

			return handle(ctx, ev)
		}); err != nil {
			return fmt.Errorf("register %s event handler: %w", topic, err)
		}
	}

	return nil
}
