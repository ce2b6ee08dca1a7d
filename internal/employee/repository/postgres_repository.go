package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/d4vhost/salesmanager/internal/employee/domain"
	"github.com/d4vhost/salesmanager/internal/platform/logger"
)

var ErrEmployeeNotFound = errors.New("employee not found")

type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	Create(ctx context.Context, employee *domain.Employee) error
}

type postgresEmployeeRepository struct {
	db *sql.DB
}

func NewPostgresEmployeeRepository(db *sql.DB) EmployeeRepository {
	return &postgresEmployeeRepository{db: db}
}

func (r *postgresEmployeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	query := `SELECT employee_id, last_name, first_name, title, hire_date, city, country
              FROM employees WHERE employee_id = $1`
	var e domain.Employee
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.EmployeeID, &e.LastName, &e.FirstName, &e.Title, &e.HireDate, &e.City, &e.Country,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEmployeeNotFound
		}
		logger.Error("GetByID: employee query failed", err, nil)
		return nil, err
	}
	return &e, nil
}

func (r *postgresEmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	query := `SELECT employee_id, last_name, first_name, title, hire_date, city, country
              FROM employees ORDER BY last_name ASC, first_name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("List: employee query failed", err, nil)
		return nil, err
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.EmployeeID, &e.LastName, &e.FirstName, &e.Title, &e.HireDate, &e.City, &e.Country); err != nil {
			logger.Error("List: employee scan failed", err, nil)
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *postgresEmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	query := `INSERT INTO employees (last_name, first_name, title, hire_date, city, country)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING employee_id`
	err := r.db.QueryRowContext(ctx, query,
		employee.LastName, employee.FirstName, employee.Title, employee.HireDate, employee.City, employee.Country,
	).Scan(&employee.EmployeeID)
	if err != nil {
		logger.Error("Create: employee insert failed", err, nil)
		return err
	}
	return nil
}
