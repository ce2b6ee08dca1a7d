package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/d4vhost/salesmanager/internal/product/domain"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) ListSellable(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) ListBelowReorderLevel(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	if product != nil && args.Error(0) == nil {
		product.ProductID = 1
		product.Version = 1
	}
	return args.Error(0)
}

func (m *MockProductRepository) UpdateStock(ctx context.Context, id int64, newStock int, expectedVersion int64) error {
	args := m.Called(ctx, id, newStock, expectedVersion)
	return args.Error(0)
}
