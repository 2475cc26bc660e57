// Package app wires the catalog services shared by the API, standalone and
// seed commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"github.com/tuanvumaihuynh/product-catalog/internal/auth"
	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/internal/http"
	"github.com/tuanvumaihuynh/product-catalog/internal/ratelimit"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/blob"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
)

const loginLimiterPrefix = "login"

type Config struct {
	Auth    config.Auth
	Storage config.Storage
	Redis   config.Redis
}

type Services struct {
	Product service.ProductService
	Auth    service.AuthService
	Tokens  *auth.TokenManager

	storageCfg config.Storage
	uploads    *blob.LocalStore
	redis      *redis.Client
}

// NewServices builds the product and auth services over dbClient. The login
// limiter is backed by Redis only when an address is configured.
func NewServices(ctx context.Context, cfg Config, logger *slog.Logger, dbClient db.DB) (*Services, error) {
	v, err := validator.NewDefaultValidator()
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}

	store, err := blob.NewStore(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("create image store: %w", err)
	}

	s := &Services{
		Tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		storageCfg: cfg.Storage,
	}
	if local, ok := store.(*blob.LocalStore); ok {
		s.uploads = local
	}

	var limiter ratelimit.Limiter = ratelimit.NopLimiter{}
	if cfg.Redis.Addr != "" {
		s.redis, err = ratelimit.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("create redis client: %w", err)
		}
		limiter = ratelimit.NewRedisLimiter(s.redis, loginLimiterPrefix, cfg.Redis.LoginMaxAttempts, cfg.Redis.LoginWindow)
	} else {
		logger.InfoContext(ctx, "redis not configured, login rate limiting disabled")
	}

	productRepository := repository.NewProductRepository(dbClient)
	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)
	adminRepository := repository.NewAdminRepository(dbClient)

	s.Product = service.NewProductService(logger, dbClient, v, productRepository, outboxMsgRepository,
		blob.NewImageStore(store, cfg.Storage.MaxImageWidth))
	s.Auth = service.NewAuthService(logger, v, adminRepository, s.Tokens, limiter, cfg.Auth.BcryptCost)

	return s, nil
}

// NewHTTP builds the HTTP service. Local uploads are served by the same
// server.
func (s *Services) NewHTTP(cfg config.HTTP, logger *slog.Logger, health db.HealthChecker) *http.Service {
	svc := http.New(cfg, logger, s.Product, s.Auth, s.Tokens, health)
	if s.uploads != nil {
		svc.ServeUploads(s.storageCfg.PublicPath, s.uploads.Dir())
	}
	return svc
}

func (s *Services) Close() error {
	if s.redis == nil {
		return nil
	}

	if err := s.redis.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("close redis client: %w", err)
	}
	return nil
}
