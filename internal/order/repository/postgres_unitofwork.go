package repository

import (
	"context"
	"database/sql"
	"errors"

	customerdomain "github.com/d4vhost/salesmanager/internal/customer/domain"
	customerrepo "github.com/d4vhost/salesmanager/internal/customer/repository"
	"github.com/d4vhost/salesmanager/internal/order/domain"
	"github.com/d4vhost/salesmanager/internal/platform/logger"
	productdomain "github.com/d4vhost/salesmanager/internal/product/domain"
	productrepo "github.com/d4vhost/salesmanager/internal/product/repository"
)

type postgresUnitOfWork struct {
	db *sql.DB
}

func NewPostgresUnitOfWork(db *sql.DB) UnitOfWork {
	return &postgresUnitOfWork{db: db}
}

func (u *postgresUnitOfWork) Begin(ctx context.Context) (Tx, error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("Begin: failed to open transaction", err, nil)
		return nil, err
	}
	return &postgresTx{tx: tx}, nil
}

type postgresTx struct {
	tx *sql.Tx
}

func (t *postgresTx) Customers() CustomerReader { return &txCustomerReader{tx: t.tx} }
func (t *postgresTx) Products() ProductStore    { return &txProductStore{tx: t.tx} }
func (t *postgresTx) Orders() OrderWriter       { return &txOrderWriter{tx: t.tx} }
func (t *postgresTx) Commit() error             { return t.tx.Commit() }
func (t *postgresTx) Rollback() error           { return t.tx.Rollback() }

type txCustomerReader struct {
	tx *sql.Tx
}

func (r *txCustomerReader) GetByID(ctx context.Context, id string) (*customerdomain.Customer, error) {
	query := `SELECT customer_id, company_name, contact_name, address, city, postal_code, country
              FROM customers WHERE customer_id = $1`
	var c customerdomain.Customer
	err := r.tx.QueryRowContext(ctx, query, id).Scan(
		&c.CustomerID, &c.CompanyName, &c.ContactName, &c.Address, &c.City, &c.PostalCode, &c.Country,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customerrepo.ErrCustomerNotFound
		}
		logger.Error("GetByID: customer query failed in tx", err, nil)
		return nil, err
	}
	return &c, nil
}

type txProductStore struct {
	tx *sql.Tx
}

func (s *txProductStore) GetByID(ctx context.Context, id int64) (*productdomain.Product, error) {
	query := `SELECT product_id, product_name, unit_price, units_in_stock, reorder_level, discontinued, version
              FROM products WHERE product_id = $1`
	var p productdomain.Product
	var stock sql.NullInt64
	err := s.tx.QueryRowContext(ctx, query, id).Scan(
		&p.ProductID, &p.ProductName, &p.UnitPrice, &stock, &p.ReorderLevel, &p.Discontinued, &p.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, productrepo.ErrProductNotFound
		}
		logger.Error("GetByID: product query failed in tx", err, nil)
		return nil, err
	}
	if stock.Valid {
		v := int(stock.Int64)
		p.UnitsInStock = &v
	}
	return &p, nil
}

func (s *txProductStore) UpdateStock(ctx context.Context, id int64, newStock int, expectedVersion int64) error {
	return productrepo.UpdateStock(ctx, s.tx, id, newStock, expectedVersion)
}

type txOrderWriter struct {
	tx *sql.Tx
}

func (w *txOrderWriter) Insert(ctx context.Context, order *domain.Order) error {
	orderQuery := `INSERT INTO orders
              (customer_id, employee_id, order_date, ship_name, ship_address, ship_city,
               ship_postal_code, ship_country, freight, subtotal, tax_amount, total_amount)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
              RETURNING order_id`
	err := w.tx.QueryRowContext(ctx, orderQuery,
		order.CustomerID, order.EmployeeID, order.OrderDate,
		order.ShipName, order.ShipAddress, order.ShipCity, order.ShipPostalCode, order.ShipCountry,
		order.Freight, order.Subtotal, order.TaxAmount, order.TotalAmount,
	).Scan(&order.OrderID)
	if err != nil {
		logger.Error("Insert: failed to insert order", err, nil)
		return err
	}

	detailStmt, err := w.tx.PrepareContext(ctx, `INSERT INTO order_details
              (order_id, product_id, unit_price, quantity, discount)
              VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		logger.Error("Insert: failed to prepare detail statement", err, nil)
		return err
	}
	defer detailStmt.Close()

	for i := range order.Details {
		order.Details[i].OrderID = order.OrderID
		d := order.Details[i]
		if _, err := detailStmt.ExecContext(ctx, d.OrderID, d.ProductID, d.UnitPrice, d.Quantity, d.Discount); err != nil {
			logger.Error("Insert: failed to insert order detail", err, map[string]interface{}{"product_id": d.ProductID})
			return err
		}
	}
	return nil
}
