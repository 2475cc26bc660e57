package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/event"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/query"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/internal/slug"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/product-catalog/pkg/outbox"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
)

const (
	// RelatedProductsLimit is the maximum number of related products returned.
	RelatedProductsLimit = 4

	// maxSlugAttempts bounds how often a write is retried after losing a
	// slug race to a concurrent writer.
	maxSlugAttempts = 3
)

// ImageStore persists uploaded product images.
type ImageStore interface {
	Save(ctx context.Context, data []byte) (string, error)
	Remove(ctx context.Context, url string) error
}

type CreateProductParams struct {
	Title        string           `json:"title" validate:"required,max=200"`
	Description  string           `json:"description" validate:"required"`
	Category     model.Category   `json:"category" validate:"required,enum"`
	Price        *decimal.Decimal `json:"price" validate:"required,nonnegative"`
	Availability *bool            `json:"availability"`
	// ImageURL is used when no file is uploaded.
	ImageURL  string `json:"image" validate:"omitempty,max=2048"`
	ImageFile []byte `json:"-"`
}

// UpdateProductParams is a partial update. Nil and blank fields are left
// unchanged.
type UpdateProductParams struct {
	Title        *string          `json:"title" validate:"omitempty,max=200"`
	Description  *string          `json:"description"`
	Category     *model.Category  `json:"category" validate:"omitempty,enum"`
	Price        *decimal.Decimal `json:"price" validate:"omitempty,nonnegative"`
	Availability *bool            `json:"availability"`
	ImageURL     *string          `json:"image" validate:"omitempty,max=2048"`
	ImageFile    []byte           `json:"-"`
}

type ListProductsResult struct {
	Products   []model.Product
	Pagination query.Pagination
}

type ProductService interface {
	ListProducts(ctx context.Context, params query.Params) (ListProductsResult, error)
	GetProduct(ctx context.Context, slug string) (model.Product, error)
	ListRelatedProducts(ctx context.Context, slug string) ([]model.Product, error)
	ListCategories(ctx context.Context) []model.Category
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, slug string, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, slug string) error
}

type productService struct {
	logger        *slog.Logger
	db            db.DB
	validator     validator.Validator
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
	images        ImageStore
	slugs         *slug.Generator
	now           func() time.Time
}

func NewProductService(
	logger *slog.Logger,
	db db.DB,
	validator validator.Validator,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	images ImageStore,
) ProductService {
	return &productService{
		logger:        logger.With(slog.String("service", "product")),
		db:            db,
		validator:     validator,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
		images:        images,
		slugs:         slug.NewGenerator(productRepo.SlugExists),
		now:           time.Now,
	}
}

func (s *productService) ListProducts(ctx context.Context, params query.Params) (ListProductsResult, error) {
	filter, sort, page := query.Build(params)

	res, err := s.productRepo.ListProducts(ctx, repository.ListProductsParams{
		Filter: filter,
		Sort:   sort,
		Skip:   page.Skip,
		Limit:  page.Limit,
	})
	if err != nil {
		return ListProductsResult{}, fmt.Errorf("product repository list products: %w", err)
	}

	return ListProductsResult{
		Products:   res.Products,
		Pagination: query.NewPagination(page, res.Total),
	}, nil
}

func (s *productService) GetProduct(ctx context.Context, slug string) (model.Product, error) {
	product, err := s.productRepo.GetProductBySlug(ctx, slug)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product by slug: %w", err)
	}

	return product, nil
}

func (s *productService) ListRelatedProducts(ctx context.Context, slug string) ([]model.Product, error) {
	product, err := s.productRepo.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("product repository get product by slug: %w", err)
	}

	related, err := s.productRepo.ListRelatedProducts(ctx, repository.ListRelatedProductsParams{
		Category:  product.Category,
		ExcludeID: product.ID,
		Limit:     RelatedProductsLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("product repository list related products: %w", err)
	}

	return related, nil
}

func (s *productService) ListCategories(_ context.Context) []model.Category {
	return model.Categories()
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	params.Title = strings.TrimSpace(params.Title)
	params.Description = strings.TrimSpace(params.Description)
	params.ImageURL = strings.TrimSpace(params.ImageURL)

	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, fmt.Errorf("validate params: %w", err)
	}

	if len(params.ImageFile) == 0 && params.ImageURL == "" {
		return model.Product{}, apperr.ImageRequiredErr
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	image := params.ImageURL
	if len(params.ImageFile) > 0 {
		if image, err = s.images.Save(ctx, params.ImageFile); err != nil {
			return model.Product{}, fmt.Errorf("save image: %w", err)
		}
	}

	now := s.now()
	product := model.Product{
		ID:           id,
		Title:        params.Title,
		Description:  params.Description,
		Image:        image,
		Category:     params.Category,
		Price:        *params.Price,
		Availability: ptr.Deref(params.Availability, true),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.writeWithSlugRetry(ctx, &product, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}

		return s.publish(ctx, db, event.TopicProductCreated, event.NewProductEvent(product))
	}, nil)
	if err != nil {
		if len(params.ImageFile) > 0 {
			s.removeImage(ctx, image)
		}
		return model.Product{}, err
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, currentSlug string, params UpdateProductParams) (model.Product, error) {
	params.Title = trimToNil(params.Title)
	params.Description = trimToNil(params.Description)
	params.ImageURL = trimToNil(params.ImageURL)

	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, fmt.Errorf("validate params: %w", err)
	}

	existing, err := s.productRepo.GetProductBySlug(ctx, currentSlug)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product by slug: %w", err)
	}

	product := existing
	if params.Description != nil {
		product.Description = *params.Description
	}
	if params.Category != nil {
		product.Category = *params.Category
	}
	if params.Price != nil {
		product.Price = *params.Price
	}
	if params.Availability != nil {
		product.Availability = *params.Availability
	}
	if params.ImageURL != nil {
		product.Image = *params.ImageURL
	}

	if len(params.ImageFile) > 0 {
		if product.Image, err = s.images.Save(ctx, params.ImageFile); err != nil {
			return model.Product{}, fmt.Errorf("save image: %w", err)
		}
	}

	reslug := params.Title != nil && *params.Title != existing.Title
	if reslug {
		product.Title = *params.Title
	}
	product.UpdatedAt = s.now()

	write := func(db db.DB) error {
		updated, err := s.productRepo.
			WithDB(db).
			UpdateProduct(ctx, currentSlug, product)
		if err != nil {
			return fmt.Errorf("product repository update product: %w", err)
		}
		product = updated

		ev := event.NewProductEvent(product)
		if product.Slug != currentSlug {
			ev.PreviousSlug = currentSlug
		}
		return s.publish(ctx, db, event.TopicProductUpdated, ev)
	}

	if reslug {
		err = s.writeWithSlugRetry(ctx, &product, write, &product.ID)
	} else {
		err = s.db.WithTx(ctx, write)
		if err != nil {
			err = fmt.Errorf("db with tx: %w", err)
		}
	}
	if err != nil {
		if len(params.ImageFile) > 0 {
			s.removeImage(ctx, product.Image)
		}
		return model.Product{}, err
	}

	if existing.Image != product.Image {
		s.removeImage(ctx, existing.Image)
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, slug string) error {
	var deleted model.Product
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		var err error
		deleted, err = s.productRepo.
			WithDB(db).
			DeleteProduct(ctx, slug)
		if err != nil {
			return fmt.Errorf("product repository delete product: %w", err)
		}

		return s.publish(ctx, db, event.TopicProductDeleted, event.NewProductEvent(deleted))
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	s.removeImage(ctx, deleted.Image)

	return nil
}

// writeWithSlugRetry assigns a fresh slug to product and runs write in a
// transaction. Losing the slug to a concurrent writer regenerates it.
func (s *productService) writeWithSlugRetry(
	ctx context.Context,
	product *model.Product,
	write func(db.DB) error,
	excludeID *uuid.UUID,
) error {
	for attempt := 1; ; attempt++ {
		slug, err := s.slugs.Generate(ctx, product.Title, excludeID)
		if err != nil {
			return fmt.Errorf("generate slug: %w", err)
		}
		product.Slug = slug

		err = s.db.WithTx(ctx, write)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperr.SlugTakenErr) {
			return fmt.Errorf("db with tx: %w", err)
		}
		if attempt >= maxSlugAttempts {
			return apperr.SlugConflictErr.WrapParent(err)
		}

		s.logger.WarnContext(ctx, "slug taken by concurrent write, retrying",
			slog.String("slug", slug),
			slog.Int("attempt", attempt),
		)
	}
}

func (s *productService) publish(ctx context.Context, db db.DB, topic string, ev event.ProductEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := s.outboxMsgRepo.
		WithDB(db).
		CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      outbox.BuildHeaders(ctx),
			Payload:      payload,
			PartitionKey: ptr.New(ev.ProductID),
		}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}

func (s *productService) removeImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Remove(ctx, url); err != nil {
		s.logger.WarnContext(ctx, "error removing image",
			slog.String("image", url),
			slog.Any("error", err),
		)
	}
}

func trimToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
