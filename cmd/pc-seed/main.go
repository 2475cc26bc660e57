package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuanvumaihuynh/product-catalog/internal/app"
	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/internal/log"
	"github.com/tuanvumaihuynh/product-catalog/internal/seed"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running seed application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		Auth     config.Auth
		Storage  config.Storage
		Seed     config.Seed
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	services, err := app.NewServices(ctx, app.Config{
		Auth:    cfg.Auth,
		Storage: cfg.Storage,
	}, logger, db.NewClient(pgxPool))
	if err != nil {
		return fmt.Errorf("error creating services: %w", err)
	}
	defer func() {
		if err := services.Close(); err != nil {
			logger.ErrorContext(ctx, "error closing services", slog.Any("error", err))
		}
	}()

	logger.InfoContext(ctx, "starting seed")

	if err := seed.New(logger, services.Auth, services.Product).Run(ctx, cfg.Seed); err != nil {
		return fmt.Errorf("error seeding database: %w", err)
	}

	logger.InfoContext(ctx, "seed completed successfully")

	return nil
}
