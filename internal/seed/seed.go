// Package seed loads the default admin and the sample catalog.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/query"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
)

type Seeder struct {
	logger     *slog.Logger
	authSvc    service.AuthService
	productSvc service.ProductService
}

func New(logger *slog.Logger, authSvc service.AuthService, productSvc service.ProductService) *Seeder {
	return &Seeder{
		logger:     logger.With(slog.String("service", "seed")),
		authSvc:    authSvc,
		productSvc: productSvc,
	}
}

// Run seeds the admin, then the sample products when enabled.
func (s *Seeder) Run(ctx context.Context, cfg config.Seed) error {
	if err := s.SeedAdmin(ctx, cfg); err != nil {
		return err
	}

	if !cfg.Products {
		return nil
	}

	return s.SeedProducts(ctx)
}

// SeedAdmin creates the configured admin. An existing admin with the same
// email is left untouched.
func (s *Seeder) SeedAdmin(ctx context.Context, cfg config.Seed) error {
	_, err := s.authSvc.Register(ctx, service.RegisterParams{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     cfg.AdminName,
	})
	if errors.Is(err, apperr.EmailTakenErr) {
		s.logger.InfoContext(ctx, "admin already exists", slog.String("email", cfg.AdminEmail))
		return nil
	}
	if err != nil {
		return fmt.Errorf("register admin: %w", err)
	}

	s.logger.InfoContext(ctx, "admin created", slog.String("email", cfg.AdminEmail))
	return nil
}

// SeedProducts inserts the sample catalog into an empty store. A non empty
// catalog is never touched.
func (s *Seeder) SeedProducts(ctx context.Context) error {
	params := query.DefaultParams()
	params.Limit = 1

	existing, err := s.productSvc.ListProducts(ctx, params)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if existing.Pagination.Total > 0 {
		s.logger.InfoContext(ctx, "catalog not empty, skipping sample products",
			slog.Int64("total", existing.Pagination.Total))
		return nil
	}

	var errs []error
	created := 0
	for _, p := range SampleProducts() {
		product, err := s.productSvc.CreateProduct(ctx, p)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to create sample product",
				slog.String("title", p.Title), slog.Any("error", err))
			errs = append(errs, fmt.Errorf("create %q: %w", p.Title, err))
			continue
		}
		created++
		s.logger.DebugContext(ctx, "sample product created", slog.String("slug", product.Slug))
	}

	s.logger.InfoContext(ctx, "sample products seeded", slog.Int("created", created))
	return errors.Join(errs...)
}

// SampleProducts is the demo catalog. Images are remote URLs.
func SampleProducts() []service.CreateProductParams {
	return []service.CreateProductParams{
		sample("Sneakers", "Classic white canvas sneakers with comfortable cushioning and durable rubber sole. Perfect for everyday casual wear.",
			model.CategoryShoes, "49", "https://images.unsplash.com/photo-1549298916-b41d501d3772?w=800&q=80"),
		sample("T-Shirt", "Premium cotton t-shirt in burnt orange color. Soft, breathable fabric with a relaxed fit for maximum comfort.",
			model.CategoryClothing, "13", "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=800&q=80"),
		sample("Headphones", "High-quality over-ear wireless headphones with active noise cancellation and premium sound quality. Up to 30 hours battery life.",
			model.CategoryElectronics, "38", "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=800&q=80"),
		sample("Smartphone", "Latest generation smartphone with stunning display, powerful processor, and advanced camera system. Available in white.",
			model.CategoryElectronics, "699", "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=800&q=80"),
		sample("Watch", "Elegant minimalist analog watch with black dial and premium leather strap. Water-resistant and scratch-proof glass.",
			model.CategoryAccessories, "149", "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=800&q=80"),
		sample("Bag", "Stylish leather crossbody bag in camel color. Compact design with adjustable strap and secure magnetic closure.",
			model.CategoryAccessories, "89", "https://images.unsplash.com/photo-1548036328-c9fa89d128fa?w=800&q=80"),
		sample("Jeans", "Classic blue denim jeans with comfortable stretch fabric. Modern slim fit design suitable for any occasion.",
			model.CategoryClothing, "59", "https://images.unsplash.com/photo-1542272604-787c3835535d?w=800&q=80"),
		sample("Laptop", "Powerful laptop with high-resolution display, fast processor, and all-day battery life. Perfect for work and entertainment.",
			model.CategoryElectronics, "999", "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=800&q=80"),
		sample("Wireless Earbuds", "High-quality wireless earbuds with noise cancellation and long battery life. Comfortable fit for extended listening sessions.",
			model.CategoryElectronics, "99.99", "https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800&q=80"),
	}
}

func sample(title, description string, category model.Category, price, image string) service.CreateProductParams {
	return service.CreateProductParams{
		Title:        title,
		Description:  description,
		Category:     category,
		Price:        ptr.New(decimal.RequireFromString(price)),
		Availability: ptr.New(true),
		ImageURL:     image,
	}
}
