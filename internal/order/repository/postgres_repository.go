package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/d4vhost/salesmanager/internal/order/domain"
	"github.com/d4vhost/salesmanager/internal/platform/logger"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderReader serves the read side: invoice reconstruction and paged
// listings. Placement goes through the UnitOfWork instead.
type OrderReader interface {
	GetWithDetails(ctx context.Context, orderID int64) (*domain.Order, error)
	Find(ctx context.Context, filter domain.OrderFilter) ([]domain.OrderSummary, int, error)
}

type postgresOrderReader struct {
	db *sql.DB
}

func NewPostgresOrderReader(db *sql.DB) OrderReader {
	return &postgresOrderReader{db: db}
}

func (r *postgresOrderReader) GetWithDetails(ctx context.Context, orderID int64) (*domain.Order, error) {
	orderQuery := `SELECT order_id, customer_id, employee_id, order_date, ship_name, ship_address,
                   ship_city, ship_postal_code, ship_country, freight, subtotal, tax_amount, total_amount
                   FROM orders WHERE order_id = $1`
	var o domain.Order
	err := r.db.QueryRowContext(ctx, orderQuery, orderID).Scan(
		&o.OrderID, &o.CustomerID, &o.EmployeeID, &o.OrderDate, &o.ShipName, &o.ShipAddress,
		&o.ShipCity, &o.ShipPostalCode, &o.ShipCountry, &o.Freight, &o.Subtotal, &o.TaxAmount, &o.TotalAmount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		logger.Error("GetWithDetails: order query failed", err, nil)
		return nil, err
	}

	detailQuery := `SELECT order_id, product_id, unit_price, quantity, discount
                    FROM order_details WHERE order_id = $1 ORDER BY product_id ASC`
	rows, err := r.db.QueryContext(ctx, detailQuery, orderID)
	if err != nil {
		logger.Error("GetWithDetails: detail query failed", err, nil)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.OrderDetail
		if err := rows.Scan(&d.OrderID, &d.ProductID, &d.UnitPrice, &d.Quantity, &d.Discount); err != nil {
			logger.Error("GetWithDetails: detail scan failed", err, nil)
			return nil, err
		}
		o.Details = append(o.Details, d)
	}
	return &o, rows.Err()
}

// Find filters by customer and/or employee, newest first, paginated.
func (r *postgresOrderReader) Find(ctx context.Context, filter domain.OrderFilter) ([]domain.OrderSummary, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		where += fmt.Sprintf(" AND o.customer_id = $%d", len(args))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		where += fmt.Sprintf(" AND o.employee_id = $%d", len(args))
	}

	var totalCount int
	countQuery := `SELECT COUNT(*) FROM orders o` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		logger.Error("Find: order count failed", err, nil)
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT o.order_id, o.customer_id, c.company_name, o.employee_id, o.order_date, o.total_amount
              FROM orders o JOIN customers c ON c.customer_id = o.customer_id%s
              ORDER BY o.order_date DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, (filter.PageNumber-1)*filter.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("Find: order query failed", err, nil)
		return nil, 0, err
	}
	defer rows.Close()

	orders := []domain.OrderSummary{}
	for rows.Next() {
		var s domain.OrderSummary
		if err := rows.Scan(&s.OrderID, &s.CustomerID, &s.CompanyName, &s.EmployeeID, &s.OrderDate, &s.TotalAmount); err != nil {
			logger.Error("Find: order scan failed", err, nil)
			return nil, 0, err
		}
		orders = append(orders, s)
	}
	return orders, totalCount, rows.Err()
}
