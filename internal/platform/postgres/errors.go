package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/monitize/monitize-api/internal/store"
)

// rejectedValue maps SQLSTATE codes raised by a bad activity log value to a
// short description. The table's CHECK constraint keeps entries a JSON array.
var rejectedValue = map[string]string{
	"23514": "entries must be a JSON array",
	"23502": "missing column value",
	"22P02": "malformed JSON",
}

// adminShutdownCode is raised when the server terminates the connection.
const adminShutdownCode = "57P01"

// MapError translates driver errors into store sentinels, keeping the
// original error in the chain. Unrecognized errors are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrActivityLogNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if reason, ok := rejectedValue[pgErr.Code]; ok {
			return fmt.Errorf("%w: %s: %w", store.ErrInvalidEntity, reason, err)
		}
		// Class 08 covers connection exceptions.
		if strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == adminShutdownCode {
			return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
	}
	return err
}
