package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/d4vhost/salesmanager/internal/customer/domain"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*domain.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerRepository) Find(ctx context.Context, searchTerm string, pageNumber, pageSize int) ([]domain.Customer, int, error) {
	args := m.Called(ctx, searchTerm, pageNumber, pageSize)
	if c := args.Get(0); c != nil {
		return c.([]domain.Customer), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}
