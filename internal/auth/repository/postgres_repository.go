package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/d4vhost/salesmanager/internal/auth/domain"
	"github.com/d4vhost/salesmanager/internal/platform/logger"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserConflict = errors.New("user with this email already exists")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, password_hash, employee_id) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, user.Email, user.PasswordHash, user.EmployeeID).Scan(&user.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				return ErrUserConflict
			case "23503": // foreign_key_violation on employee_id
				return errors.New("referenced employee does not exist")
			}
		}
		logger.Error("CreateUser: insert failed", err, nil)
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, password_hash, employee_id FROM users WHERE email = $1`
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.EmployeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Error("GetByEmail: query failed", err, nil)
		return nil, err
	}
	return &u, nil
}
