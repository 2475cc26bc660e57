package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/query"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
)

const (
	productSlugConstraint = "products_slug_key"

	productColumns = `id, title, description, image, category, price, availability, slug, created_at, updated_at`
)

type ListProductsParams struct {
	Filter query.Filter
	Sort   query.Sort
	Skip   int
	Limit  int
}

type ListProductsResult struct {
	Products []model.Product
	Total    int64
}

type ListRelatedProductsParams struct {
	Category  model.Category
	ExcludeID uuid.UUID
	Limit     int
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) error
	UpdateProduct(ctx context.Context, slug string, product model.Product) (model.Product, error)
	DeleteProduct(ctx context.Context, slug string) (model.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (model.Product, error)
	SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	ListProducts(ctx context.Context, params ListProductsParams) (ListProductsResult, error)
	ListRelatedProducts(ctx context.Context, params ListRelatedProductsParams) ([]model.Product, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

type productRow struct {
	ID           uuid.UUID      `db:"id"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Image        string         `db:"image"`
	Category     string         `db:"category"`
	Price        pgtype.Numeric `db:"price"`
	Availability bool           `db:"availability"`
	Slug         string         `db:"slug"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) error {
	args := productArgs(product)

	if _, err := r.db.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (@id, @title, @description, @image, @category, @price, @availability, @slug, @created_at, @updated_at)
	`, args); err != nil {
		if db.IsUniqueViolation(err, productSlugConstraint) {
			return apperr.SlugTakenErr.WrapParent(err)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r productRepository) UpdateProduct(ctx context.Context, slug string, product model.Product) (model.Product, error) {
	args := productArgs(product)
	args["current_slug"] = slug

	rows, err := r.db.Query(ctx, `
		UPDATE products
		SET
			title        = @title,
			description  = @description,
			image        = @image,
			category     = @category,
			price        = @price,
			availability = @availability,
			slug         = @slug,
			updated_at   = @updated_at
		WHERE slug = @current_slug
		RETURNING `+productColumns, args)
	if err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return model.Product{}, apperr.ProductNotFoundErr
		case db.IsUniqueViolation(err, productSlugConstraint):
			return model.Product{}, apperr.SlugTakenErr.WrapParent(err)
		}
		return model.Product{}, fmt.Errorf("collect updated product: %w", err)
	}

	return rowToProduct(row)
}

func (r productRepository) DeleteProduct(ctx context.Context, slug string) (model.Product, error) {
	rows, err := r.db.Query(ctx, `
		DELETE FROM products
		WHERE slug = @slug
		RETURNING `+productColumns, pgx.NamedArgs{"slug": slug})
	if err != nil {
		return model.Product{}, fmt.Errorf("delete product: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, apperr.ProductNotFoundErr
		}
		return model.Product{}, fmt.Errorf("collect deleted product: %w", err)
	}

	return rowToProduct(row)
}

func (r productRepository) GetProductBySlug(ctx context.Context, slug string) (model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE slug = @slug
	`, pgx.NamedArgs{"slug": slug})
	if err != nil {
		return model.Product{}, fmt.Errorf("get product by slug: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, apperr.ProductNotFoundErr
		}
		return model.Product{}, fmt.Errorf("collect product: %w", err)
	}

	return rowToProduct(row)
}

func (r productRepository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM products
			WHERE slug = @slug
				AND (@exclude_id::uuid IS NULL OR id <> @exclude_id::uuid)
		)
	`, pgx.NamedArgs{
		"slug":       slug,
		"exclude_id": excludeID,
	}).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slug exists: %w", err)
	}

	return exists, nil
}

// ListProducts sends the page query and the count query in one batch. Both
// use the same predicate but do not share a snapshot.
func (r productRepository) ListProducts(ctx context.Context, params ListProductsParams) (ListProductsResult, error) {
	where, args := productWhereClause(params.Filter)

	pageArgs := pgx.NamedArgs{"limit": params.Limit, "offset": params.Skip}
	for k, v := range args {
		pageArgs[k] = v
	}

	batch := &pgx.Batch{}
	batch.Queue(`SELECT `+productColumns+` FROM products`+where+productOrderClause(params.Sort)+
		` LIMIT @limit OFFSET @offset`, pageArgs)
	batch.Queue(`SELECT COUNT(*) FROM products`+where, args)

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	rows, err := br.Query()
	if err != nil {
		return ListProductsResult{}, fmt.Errorf("list products: %w", err)
	}

	productRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return ListProductsResult{}, fmt.Errorf("collect products: %w", err)
	}

	var total int64
	if err := br.QueryRow().Scan(&total); err != nil {
		return ListProductsResult{}, fmt.Errorf("count products: %w", err)
	}

	products, err := rowsToProducts(productRows)
	if err != nil {
		return ListProductsResult{}, err
	}

	return ListProductsResult{
		Products: products,
		Total:    total,
	}, nil
}

func (r productRepository) ListRelatedProducts(ctx context.Context, params ListRelatedProductsParams) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE category = @category
			AND id <> @exclude_id
		ORDER BY created_at DESC, id DESC
		LIMIT @limit
	`, pgx.NamedArgs{
		"category":   string(params.Category),
		"exclude_id": params.ExcludeID,
		"limit":      params.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list related products: %w", err)
	}

	productRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return nil, fmt.Errorf("collect related products: %w", err)
	}

	return rowsToProducts(productRows)
}

func productWhereClause(f query.Filter) (string, pgx.NamedArgs) {
	var conds []string
	args := pgx.NamedArgs{}

	if f.TitleContains != "" {
		conds = append(conds, "title ILIKE @search")
		args["search"] = "%" + escapeLike(f.TitleContains) + "%"
	}
	if len(f.Categories) > 0 {
		conds = append(conds, "category = ANY(@categories)")
		args["categories"] = f.Categories
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= @min_price")
		args["min_price"] = decimalToNumeric(*f.MinPrice)
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= @max_price")
		args["max_price"] = decimalToNumeric(*f.MaxPrice)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// productOrderClause only ever emits whitelisted columns.
func productOrderClause(s query.Sort) string {
	dir := "ASC"
	if s.Descending {
		dir = "DESC"
	}

	switch s.Field {
	case query.SortFieldPrice:
		return " ORDER BY price " + dir + ", created_at DESC, id DESC"
	default:
		return " ORDER BY created_at " + dir + ", id " + dir
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func productArgs(p model.Product) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":           p.ID,
		"title":        p.Title,
		"description":  p.Description,
		"image":        p.Image,
		"category":     string(p.Category),
		"price":        decimalToNumeric(p.Price),
		"availability": p.Availability,
		"slug":         p.Slug,
		"created_at":   p.CreatedAt,
		"updated_at":   p.UpdatedAt,
	}
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   d.Coefficient(),
		Exp:   d.Exponent(),
		Valid: true,
	}
}

func numericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil {
		return decimal.Decimal{}, fmt.Errorf("numeric is not a finite value")
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}

func rowToProduct(row productRow) (model.Product, error) {
	price, err := numericToDecimal(row.Price)
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price of product %s: %w", row.ID, err)
	}

	return model.Product{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		Image:        row.Image,
		Category:     model.Category(row.Category),
		Price:        price,
		Availability: row.Availability,
		Slug:         row.Slug,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}

func rowsToProducts(rows []productRow) ([]model.Product, error) {
	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		p, err := rowToProduct(row)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
