package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/d4vhost/salesmanager/internal/product/domain"
	"github.com/d4vhost/salesmanager/internal/product/repository"
	"github.com/d4vhost/salesmanager/internal/product/repository/mocks"
)

func intPtr(v int) *int { return &v }

func mockProductMatch(name string) interface{} {
	return mock.MatchedBy(func(p *domain.Product) bool { return p.ProductName == name })
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(mocks.MockProductRepository)
	svc := NewProductService(mockRepo, "")
	ctx := context.TODO()

	t.Run("Successful creation", func(t *testing.T) {
		req := domain.CreateProductRequest{
			ProductName:  "Chai",
			UnitPrice:    decimal.RequireFromString("18.00"),
			UnitsInStock: intPtr(39),
			ReorderLevel: 10,
		}
		mockRepo.On("Create", ctx, mockProductMatch("Chai")).Return(nil).Once()

		p, err := svc.CreateProduct(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), p.ProductID)
		assert.Equal(t, int64(1), p.Version)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Negative price rejected", func(t *testing.T) {
		req := domain.CreateProductRequest{
			ProductName: "Bad",
			UnitPrice:   decimal.RequireFromString("-1"),
		}
		_, err := svc.CreateProduct(ctx, req)
		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create", ctx, mockProductMatch("Bad"))
	})
}

func TestProductService_AdjustStock(t *testing.T) {
	ctx := context.TODO()

	t.Run("Retries once on version conflict", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewProductService(mockRepo, "")

		stale := &domain.Product{ProductID: 7, UnitsInStock: intPtr(5), Version: 3}
		fresh := &domain.Product{ProductID: 7, UnitsInStock: intPtr(4), Version: 4}

		mockRepo.On("GetByID", ctx, int64(7)).Return(stale, nil).Once()
		mockRepo.On("UpdateStock", ctx, int64(7), 20, int64(3)).Return(repository.ErrVersionConflict).Once()
		mockRepo.On("GetByID", ctx, int64(7)).Return(fresh, nil).Once()
		mockRepo.On("UpdateStock", ctx, int64(7), 20, int64(4)).Return(nil).Once()

		p, err := svc.AdjustStock(ctx, 7, 20)

		assert.NoError(t, err)
		assert.Equal(t, 20, *p.UnitsInStock)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Missing product surfaces not found", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewProductService(mockRepo, "")

		mockRepo.On("GetByID", ctx, int64(99)).Return(nil, repository.ErrProductNotFound).Once()

		_, err := svc.AdjustStock(ctx, 99, 10)

		assert.ErrorIs(t, err, repository.ErrProductNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestProduct_Sellable(t *testing.T) {
	cases := []struct {
		name string
		p    domain.Product
		want bool
	}{
		{"in stock", domain.Product{UnitsInStock: intPtr(3)}, true},
		{"zero stock", domain.Product{UnitsInStock: intPtr(0)}, false},
		{"untracked stock", domain.Product{UnitsInStock: nil}, false},
		{"discontinued with stock", domain.Product{UnitsInStock: intPtr(3), Discontinued: true}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.p.Sellable())
		})
	}
}
