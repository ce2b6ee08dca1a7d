// Package errorlog persists server-side failures for operability: panics
// and 5xx responses are recorded with their request context so they can be
// investigated after the fact. It never participates in control flow.
package errorlog

import (
	"context"
	"database/sql"
	"time"

	"github.com/d4vhost/salesmanager/internal/platform/logger"
)

type Entry struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	LogLevel    string    `json:"log_level"`
	Message     string    `json:"message"`
	StackTrace  *string   `json:"stack_trace,omitempty"`
	RequestPath string    `json:"request_path"`
	HTTPMethod  string    `json:"http_method"`
	UserName    string    `json:"user_name,omitempty"`
	RequestID   string    `json:"request_id"`
}

type Repository interface {
	Insert(ctx context.Context, entry *Entry) error
}

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Insert(ctx context.Context, entry *Entry) error {
	query := `INSERT INTO error_logs (timestamp, log_level, message, stack_trace, request_path, http_method, user_name, request_id)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	err := r.db.QueryRowContext(ctx, query,
		entry.Timestamp, entry.LogLevel, entry.Message, entry.StackTrace,
		entry.RequestPath, entry.HTTPMethod, entry.UserName, entry.RequestID,
	).Scan(&entry.ID)
	if err != nil {
		// Losing an error log must never take the request down with it.
		logger.Error("Insert: failed to persist error log", err, nil)
		return err
	}
	return nil
}
