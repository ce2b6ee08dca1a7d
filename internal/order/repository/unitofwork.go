package repository

import (
	"context"

	customerdomain "github.com/d4vhost/salesmanager/internal/customer/domain"
	"github.com/d4vhost/salesmanager/internal/order/domain"
	productdomain "github.com/d4vhost/salesmanager/internal/product/domain"
)

// UnitOfWork groups entity-store operations into one atomic transaction.
// Everything done through a Tx is staged: Commit applies all of it or none
// of it, Rollback discards it.
type UnitOfWork interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx exposes narrow per-aggregate stores scoped to the open transaction.
// Reads through these stores see the transaction's own staged writes.
type Tx interface {
	Customers() CustomerReader
	Products() ProductStore
	Orders() OrderWriter
	Commit() error
	Rollback() error
}

type CustomerReader interface {
	GetByID(ctx context.Context, id string) (*customerdomain.Customer, error)
}

type ProductStore interface {
	GetByID(ctx context.Context, id int64) (*productdomain.Product, error)
	// UpdateStock carries the optimistic concurrency check in its
	// signature: it fails with the product repository's ErrVersionConflict
	// if the row's version no longer matches expectedVersion.
	UpdateStock(ctx context.Context, id int64, newStock int, expectedVersion int64) error
}

type OrderWriter interface {
	// Insert stages the order and all of its detail lines, filling in the
	// store-generated order id.
	Insert(ctx context.Context, order *domain.Order) error
}
