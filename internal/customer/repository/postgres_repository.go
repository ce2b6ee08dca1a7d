package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/d4vhost/salesmanager/internal/customer/domain"
	"github.com/d4vhost/salesmanager/internal/platform/logger"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerConflict = errors.New("customer with this id already exists")
)

type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	Find(ctx context.Context, searchTerm string, pageNumber, pageSize int) ([]domain.Customer, int, error)
	Create(ctx context.Context, customer *domain.Customer) error
}

type postgresCustomerRepository struct {
	db *sql.DB
}

func NewPostgresCustomerRepository(db *sql.DB) CustomerRepository {
	return &postgresCustomerRepository{db: db}
}

func (r *postgresCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `SELECT customer_id, company_name, contact_name, address, city, postal_code, country
              FROM customers WHERE customer_id = $1`
	var c domain.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.CustomerID, &c.CompanyName, &c.ContactName, &c.Address, &c.City, &c.PostalCode, &c.Country,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		logger.Error("GetByID: customer query failed", err, nil)
		return nil, err
	}
	return &c, nil
}

// Find searches company name, contact name, city and country, or matches the
// customer id exactly. Results are ordered by company name and paginated.
func (r *postgresCustomerRepository) Find(ctx context.Context, searchTerm string, pageNumber, pageSize int) ([]domain.Customer, int, error) {
	where := ""
	args := []interface{}{}
	if term := strings.TrimSpace(searchTerm); term != "" {
		where = ` WHERE company_name ILIKE $1 OR contact_name ILIKE $1
                  OR city ILIKE $1 OR country ILIKE $1 OR lower(customer_id) = lower($2)`
		args = append(args, "%"+term+"%", term)
	}

	var totalCount int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&totalCount); err != nil {
		logger.Error("Find: customer count failed", err, nil)
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT customer_id, company_name, contact_name, address, city, postal_code, country
              FROM customers%s ORDER BY company_name ASC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, pageSize, (pageNumber-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("Find: customer query failed", err, nil)
		return nil, 0, err
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.CustomerID, &c.CompanyName, &c.ContactName, &c.Address, &c.City, &c.PostalCode, &c.Country); err != nil {
			logger.Error("Find: customer scan failed", err, nil)
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, totalCount, rows.Err()
}

func (r *postgresCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `INSERT INTO customers (customer_id, company_name, contact_name, address, city, postal_code, country)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		customer.CustomerID, customer.CompanyName, customer.ContactName,
		customer.Address, customer.City, customer.PostalCode, customer.Country,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return ErrCustomerConflict
		}
		logger.Error("Create: customer insert failed", err, nil)
		return err
	}
	return nil
}
