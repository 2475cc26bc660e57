package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/query"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
)

func TestProductRepository_CreateAndGet(t *testing.T) {
	client := setupTestDB(t)
	repo := NewProductRepository(client)
	ctx := context.Background()

	p := newTestProduct("Red Running Shoe", model.CategoryShoes, "59.90", baseTime)
	p.Slug = "red-running-shoe"
	require.NoError(t, repo.CreateProduct(ctx, p))

	got, err := repo.GetProductBySlug(ctx, "red-running-shoe")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, p.Category, got.Category)
	assert.True(t, p.Price.Equal(got.Price), "price %s != %s", p.Price, got.Price)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

	t.Run("Should report duplicate slug", func(t *testing.T) {
		dup := newTestProduct("Red Running Shoe", model.CategoryShoes, "10", baseTime)
		dup.Slug = "red-running-shoe"
		err := repo.CreateProduct(ctx, dup)
		require.ErrorIs(t, err, apperr.SlugTakenErr)
	})

	t.Run("Should return not found for unknown slug", func(t *testing.T) {
		_, err := repo.GetProductBySlug(ctx, "missing")
		require.ErrorIs(t, err, apperr.ProductNotFoundErr)
	})
}

func TestProductRepository_SlugExists(t *testing.T) {
	client := setupTestDB(t)
	repo := NewProductRepository(client)
	ctx := context.Background()

	p := newTestProduct("Lamp", model.CategoryHomeDecor, "20", baseTime)
	p.Slug = "lamp"
	seedProducts(t, repo, p)

	exists, err := repo.SlugExists(ctx, "lamp", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SlugExists(ctx, "lamp", &p.ID)
	require.NoError(t, err)
	assert.False(t, exists, "own slug must not count as taken")

	exists, err = repo.SlugExists(ctx, "lamp-1", nil)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProductRepository_UpdateAndDelete(t *testing.T) {
	client := setupTestDB(t)
	repo := NewProductRepository(client)
	ctx := context.Background()

	p := newTestProduct("Desk", model.CategoryHomeDecor, "120.00", baseTime)
	p.Slug = "desk"
	other := newTestProduct("Chair", model.CategoryHomeDecor, "40", baseTime)
	other.Slug = "chair"
	seedProducts(t, repo, p, other)

	p.Title = "Standing Desk"
	p.Slug = "standing-desk"
	p.Price = decimal.RequireFromString("199.99")
	p.UpdatedAt = baseTime.Add(time.Hour)

	updated, err := repo.UpdateProduct(ctx, "desk", p)
	require.NoError(t, err)
	assert.Equal(t, "standing-desk", updated.Slug)
	assert.Equal(t, "199.99", updated.Price.String())
	assert.True(t, baseTime.Equal(updated.CreatedAt))

	_, err = repo.GetProductBySlug(ctx, "desk")
	require.ErrorIs(t, err, apperr.ProductNotFoundErr)

	t.Run("Should reject slug owned by another product", func(t *testing.T) {
		p.Slug = "chair"
		_, err := repo.UpdateProduct(ctx, "standing-desk", p)
		require.ErrorIs(t, err, apperr.SlugTakenErr)
	})

	t.Run("Should return not found when updating unknown slug", func(t *testing.T) {
		_, err := repo.UpdateProduct(ctx, "missing", p)
		require.ErrorIs(t, err, apperr.ProductNotFoundErr)
	})

	deleted, err := repo.DeleteProduct(ctx, "standing-desk")
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)

	_, err = repo.DeleteProduct(ctx, "standing-desk")
	require.ErrorIs(t, err, apperr.ProductNotFoundErr)
}

func TestProductRepository_ListProducts(t *testing.T) {
	client := setupTestDB(t)
	repo := NewProductRepository(client)
	ctx := context.Background()

	t.Run("Should paginate newest first", func(t *testing.T) {
		for i := range 25 {
			seedProducts(t, repo, newTestProduct(
				fmt.Sprintf("Book %02d", i), model.CategoryBooks, "10", baseTime.Add(time.Duration(i)*time.Minute),
			))
		}

		result, err := repo.ListProducts(ctx, ListProductsParams{
			Filter: query.Filter{Categories: []string{string(model.CategoryBooks)}},
			Sort:   query.Sort{Field: query.SortFieldCreatedAt, Descending: true},
			Skip:   12,
			Limit:  12,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 25, result.Total)
		require.Len(t, result.Products, 12)
		assert.Equal(t, "Book 12", result.Products[0].Title)
		assert.Equal(t, "Book 01", result.Products[11].Title)
	})

	t.Run("Should filter by price range and category", func(t *testing.T) {
		seedProducts(t, repo,
			newTestProduct("Red Sneaker", model.CategoryShoes, "49.99", baseTime),
			newTestProduct("Red Boot", model.CategoryShoes, "150", baseTime.Add(time.Minute)),
			newTestProduct("Blue Sneaker", model.CategoryShoes, "55", baseTime.Add(2*time.Minute)),
			newTestProduct("Red Scarf", model.CategoryAccessories, "20", baseTime.Add(3*time.Minute)),
		)

		result, err := repo.ListProducts(ctx, ListProductsParams{
			Filter: query.Filter{
				TitleContains: "red",
				Categories:    []string{string(model.CategoryShoes)},
				MinPrice:      ptr.New(decimal.NewFromInt(10)),
				MaxPrice:      ptr.New(decimal.NewFromInt(100)),
			},
			Sort:  query.Sort{Field: query.SortFieldPrice},
			Limit: 12,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, result.Total)
		require.Len(t, result.Products, 1)
		assert.Equal(t, "Red Sneaker", result.Products[0].Title)
	})

	t.Run("Should sort by price descending", func(t *testing.T) {
		result, err := repo.ListProducts(ctx, ListProductsParams{
			Filter: query.Filter{Categories: []string{string(model.CategoryShoes)}},
			Sort:   query.Sort{Field: query.SortFieldPrice, Descending: true},
			Limit:  12,
		})
		require.NoError(t, err)
		require.Len(t, result.Products, 3)
		assert.Equal(t, []string{"Red Boot", "Blue Sneaker", "Red Sneaker"}, titles(result.Products))
	})

	t.Run("Should treat like wildcards literally", func(t *testing.T) {
		seedProducts(t, repo, newTestProduct("100% Cotton Tee", model.CategoryClothing, "15", baseTime))

		result, err := repo.ListProducts(ctx, ListProductsParams{
			Filter: query.Filter{TitleContains: "%"},
			Sort:   query.Sort{Field: query.SortFieldCreatedAt, Descending: true},
			Limit:  12,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"100% Cotton Tee"}, titles(result.Products))
	})

	t.Run("Should return empty page past the end", func(t *testing.T) {
		result, err := repo.ListProducts(ctx, ListProductsParams{
			Sort:  query.Sort{Field: query.SortFieldCreatedAt, Descending: true},
			Skip:  1000,
			Limit: 12,
		})
		require.NoError(t, err)
		assert.Empty(t, result.Products)
		assert.Positive(t, result.Total)
	})
}

func TestProductRepository_ListRelatedProducts(t *testing.T) {
	client := setupTestDB(t)
	repo := NewProductRepository(client)
	ctx := context.Background()

	self := newTestProduct("Toy 0", model.CategoryToys, "5", baseTime)
	seedProducts(t, repo, self)
	for i := 1; i <= 5; i++ {
		seedProducts(t, repo, newTestProduct(fmt.Sprintf("Toy %d", i), model.CategoryToys, "5", baseTime.Add(time.Duration(i)*time.Minute)))
	}
	seedProducts(t, repo, newTestProduct("Lipstick", model.CategoryBeauty, "5", baseTime))

	related, err := repo.ListRelatedProducts(ctx, ListRelatedProductsParams{
		Category:  model.CategoryToys,
		ExcludeID: self.ID,
		Limit:     4,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Toy 5", "Toy 4", "Toy 3", "Toy 2"}, titles(related))
}

func TestProductRepository_WithTx(t *testing.T) {
	client := setupTestDB(t)
	repo := NewProductRepository(client)
	ctx := context.Background()

	p := newTestProduct("Rolled Back", model.CategoryBooks, "1", baseTime)
	err := client.WithTx(ctx, func(tx db.DB) error {
		if err := repo.WithDB(tx).CreateProduct(ctx, p); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	require.EqualError(t, err, "abort")

	_, err = repo.GetProductBySlug(ctx, p.Slug)
	require.ErrorIs(t, err, apperr.ProductNotFoundErr)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\o/`, escapeLike(`50% off_now \o/`))
}

func TestProductOrderClause(t *testing.T) {
	assert.Equal(t, " ORDER BY created_at DESC, id DESC",
		productOrderClause(query.Sort{Field: query.SortFieldCreatedAt, Descending: true}))
	assert.Equal(t, " ORDER BY price ASC, created_at DESC, id DESC",
		productOrderClause(query.Sort{Field: query.SortFieldPrice}))
	assert.True(t, strings.HasPrefix(productOrderClause(query.Sort{Field: "1; DROP TABLE products"}), " ORDER BY created_at"))
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "19.99", "1000000.5", "0.0001"} {
		d := decimal.RequireFromString(s)
		got, err := numericToDecimal(decimalToNumeric(d))
		require.NoError(t, err)
		assert.True(t, d.Equal(got), s)
	}

	_, err := numericToDecimal(pgtype.Numeric{NaN: true, Valid: true})
	require.Error(t, err)
}

func titles(products []model.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Title)
	}
	return out
}
