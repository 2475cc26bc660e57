package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
)

// fakeDB runs transactions inline against itself.
type fakeDB struct {
	db.DB
	txCount int
}

func (f *fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	f.txCount++
	return txFunc(f)
}

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) WithDB(db.DB) repository.ProductRepository {
	return m
}

func (m *mockProductRepository) CreateProduct(ctx context.Context, product model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) UpdateProduct(ctx context.Context, slug string, product model.Product) (model.Product, error) {
	args := m.Called(ctx, slug, product)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductRepository) DeleteProduct(ctx context.Context, slug string) (model.Product, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductRepository) GetProductBySlug(ctx context.Context, slug string) (model.Product, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductRepository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockProductRepository) ListProducts(ctx context.Context, params repository.ListProductsParams) (repository.ListProductsResult, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(repository.ListProductsResult), args.Error(1)
}

func (m *mockProductRepository) ListRelatedProducts(ctx context.Context, params repository.ListRelatedProductsParams) ([]model.Product, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

type mockOutboxMsgRepository struct {
	mock.Mock
}

func (m *mockOutboxMsgRepository) WithDB(db.DB) repository.OutboxMsgRepository {
	return m
}

func (m *mockOutboxMsgRepository) CreateOutboxMsg(ctx context.Context, params repository.CreateOutboxMsgParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *mockOutboxMsgRepository) ListUnprocessedOutboxMsgs(ctx context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ListUnprocessedOutboxMsgsResult), args.Error(1)
}

func (m *mockOutboxMsgRepository) BulkUpdateOutboxMsgs(ctx context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *mockOutboxMsgRepository) DeleteProcessedOutboxMsgs(ctx context.Context, params repository.DeleteProcessedOutboxMsgsParams) (int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Error(1)
}

type mockAdminRepository struct {
	mock.Mock
}

func (m *mockAdminRepository) WithDB(db.DB) repository.AdminRepository {
	return m
}

func (m *mockAdminRepository) CreateAdmin(ctx context.Context, admin model.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *mockAdminRepository) GetAdminByEmail(ctx context.Context, email string) (model.Admin, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.Admin), args.Error(1)
}

func (m *mockAdminRepository) GetAdminByID(ctx context.Context, id uuid.UUID) (model.Admin, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Admin), args.Error(1)
}

type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) Save(ctx context.Context, data []byte) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}

func (m *mockImageStore) Remove(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockLimiter) Reset(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
