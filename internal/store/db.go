package store

import (
	"context"
	"database/sql"
)

// DBTX is the slice of *sql.DB (and *sql.Tx) the SQL activity store needs.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
