package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
)

// setupTestDB starts a PostgreSQL container with every migration applied.
func setupTestDB(t *testing.T) *db.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pgContainer.Terminate(ctx)
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	version, err := db.Migrate(pool)
	require.NoError(t, err)
	require.EqualValues(t, 3, version)

	return db.NewClient(pool)
}

var baseTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestProduct(title string, category model.Category, price string, createdAt time.Time) model.Product {
	return model.Product{
		ID:           uuid.Must(uuid.NewV7()),
		Title:        title,
		Description:  title + " description",
		Image:        "https://example.com/" + uuid.NewString() + ".jpg",
		Category:     category,
		Price:        decimal.RequireFromString(price),
		Availability: true,
		Slug:         "p-" + uuid.NewString(),
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func seedProducts(t *testing.T, repo ProductRepository, products ...model.Product) {
	t.Helper()
	for _, p := range products {
		require.NoError(t, repo.CreateProduct(context.Background(), p))
	}
}
