package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	customerdomain "github.com/d4vhost/salesmanager/internal/customer/domain"
	"github.com/d4vhost/salesmanager/internal/order/domain"
	"github.com/d4vhost/salesmanager/internal/order/repository"
	productdomain "github.com/d4vhost/salesmanager/internal/product/domain"
)

type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Begin(ctx context.Context) (repository.Tx, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repository.Tx), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTx wires the per-aggregate store mocks together and records
// Commit/Rollback calls so tests can assert the atomicity contract.
type MockTx struct {
	mock.Mock
	CustomerReader MockCustomerReader
	ProductStore   MockProductStore
	OrderWriter    MockOrderWriter
}

func (m *MockTx) Customers() repository.CustomerReader { return &m.CustomerReader }
func (m *MockTx) Products() repository.ProductStore    { return &m.ProductStore }
func (m *MockTx) Orders() repository.OrderWriter       { return &m.OrderWriter }

func (m *MockTx) Commit() error {
	return m.Called().Error(0)
}

func (m *MockTx) Rollback() error {
	return m.Called().Error(0)
}

type MockCustomerReader struct {
	mock.Mock
}

func (m *MockCustomerReader) GetByID(ctx context.Context, id string) (*customerdomain.Customer, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*customerdomain.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) GetByID(ctx context.Context, id int64) (*productdomain.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*productdomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductStore) UpdateStock(ctx context.Context, id int64, newStock int, expectedVersion int64) error {
	args := m.Called(ctx, id, newStock, expectedVersion)
	return args.Error(0)
}

type MockOrderWriter struct {
	mock.Mock
}

func (m *MockOrderWriter) Insert(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	if order != nil && args.Error(0) == nil {
		order.OrderID = 1042
	}
	return args.Error(0)
}

type MockOrderReader struct {
	mock.Mock
}

func (m *MockOrderReader) GetWithDetails(ctx context.Context, orderID int64) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if o := args.Get(0); o != nil {
		return o.(*domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderReader) Find(ctx context.Context, filter domain.OrderFilter) ([]domain.OrderSummary, int, error) {
	args := m.Called(ctx, filter)
	if o := args.Get(0); o != nil {
		return o.([]domain.OrderSummary), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}
