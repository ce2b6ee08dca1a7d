package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/d4vhost/salesmanager/internal/platform/logger"
	"github.com/d4vhost/salesmanager/internal/product/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	// ErrVersionConflict means the product row changed since it was read.
	// The caller decides whether to retry with fresh state.
	ErrVersionConflict  = errors.New("product version conflict")
	ErrStockOutOfBounds = errors.New("stock update results in negative quantity")
)

type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListSellable(ctx context.Context) ([]domain.Product, error)
	ListBelowReorderLevel(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	// UpdateStock sets units_in_stock to newStock iff the row still carries
	// expectedVersion, bumping the version. Returns ErrVersionConflict when
	// a concurrent writer got there first.
	UpdateStock(ctx context.Context, id int64, newStock int, expectedVersion int64) error
}

const productColumns = `product_id, product_name, unit_price, units_in_stock, reorder_level, discontinued, version`

type postgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

func scanProduct(row interface{ Scan(...interface{}) error }) (*domain.Product, error) {
	var p domain.Product
	var stock sql.NullInt64
	err := row.Scan(&p.ProductID, &p.ProductName, &p.UnitPrice, &stock, &p.ReorderLevel, &p.Discontinued, &p.Version)
	if err != nil {
		return nil, err
	}
	if stock.Valid {
		v := int(stock.Int64)
		p.UnitsInStock = &v
	}
	return &p, nil
}

func (r *postgresProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetByID: product query failed", err, nil)
		return nil, err
	}
	return p, nil
}

func (r *postgresProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY product_name ASC`
	return r.queryProducts(ctx, query)
}

// ListSellable returns products a new order line may reference: tracked
// positive stock and not discontinued.
func (r *postgresProductRepository) ListSellable(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
              WHERE units_in_stock > 0 AND NOT discontinued ORDER BY product_name ASC`
	return r.queryProducts(ctx, query)
}

func (r *postgresProductRepository) ListBelowReorderLevel(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
              WHERE NOT discontinued AND units_in_stock IS NOT NULL AND units_in_stock <= reorder_level
              ORDER BY units_in_stock ASC`
	return r.queryProducts(ctx, query)
}

func (r *postgresProductRepository) queryProducts(ctx context.Context, query string) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("queryProducts: query failed", err, nil)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			logger.Error("queryProducts: scan failed", err, nil)
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *postgresProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (product_name, unit_price, units_in_stock, reorder_level, discontinued, version)
              VALUES ($1, $2, $3, $4, $5, 1) RETURNING product_id, version`
	var stock sql.NullInt64
	if product.UnitsInStock != nil {
		stock = sql.NullInt64{Int64: int64(*product.UnitsInStock), Valid: true}
	}
	err := r.db.QueryRowContext(ctx, query,
		product.ProductName, product.UnitPrice, stock, product.ReorderLevel, product.Discontinued,
	).Scan(&product.ProductID, &product.Version)
	if err != nil {
		logger.Error("Create: product insert failed", err, nil)
		return err
	}
	return nil
}

func (r *postgresProductRepository) UpdateStock(ctx context.Context, id int64, newStock int, expectedVersion int64) error {
	return UpdateStock(ctx, r.db, id, newStock, expectedVersion)
}

// DBTX is satisfied by both *sql.DB and *sql.Tx so the versioned stock
// update can run standalone or inside an order placement transaction.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func UpdateStock(ctx context.Context, dbops DBTX, id int64, newStock int, expectedVersion int64) error {
	query := `UPDATE products SET units_in_stock = $1, version = version + 1
              WHERE product_id = $2 AND version = $3`
	res, err := dbops.ExecContext(ctx, query, newStock, id, expectedVersion)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" { // check_violation
			return ErrStockOutOfBounds
		}
		logger.Error("UpdateStock: exec failed", err, map[string]interface{}{"product_id": id})
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		// Row is either gone or was rewritten under us. Distinguish so the
		// caller can surface the right error.
		var exists bool
		if err := dbops.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE product_id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrProductNotFound
		}
		return ErrVersionConflict
	}
	return nil
}
