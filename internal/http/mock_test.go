package http_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/query"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
)

type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) ListProducts(ctx context.Context, params query.Params) (service.ListProductsResult, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(service.ListProductsResult), args.Error(1)
}

func (m *mockProductService) GetProduct(ctx context.Context, slug string) (model.Product, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductService) ListRelatedProducts(ctx context.Context, slug string) ([]model.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockProductService) ListCategories(context.Context) []model.Category {
	return model.Categories()
}

func (m *mockProductService) CreateProduct(ctx context.Context, params service.CreateProductParams) (model.Product, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductService) UpdateProduct(ctx context.Context, slug string, params service.UpdateProductParams) (model.Product, error) {
	args := m.Called(ctx, slug, params)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductService) DeleteProduct(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Login(ctx context.Context, params service.LoginParams) (service.AuthResult, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(service.AuthResult), args.Error(1)
}

func (m *mockAuthService) Register(ctx context.Context, params service.RegisterParams) (service.AuthResult, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(service.AuthResult), args.Error(1)
}

func (m *mockAuthService) GetAdmin(ctx context.Context, id uuid.UUID) (model.Admin, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Admin), args.Error(1)
}

type stubHealthChecker struct {
	healthy bool
	err     error
}

func (s stubHealthChecker) IsHealthy(context.Context) (bool, error) {
	return s.healthy, s.err
}
