package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/monitize/monitize-api/internal/platform/logger"
	"github.com/monitize/monitize-api/internal/redact"
	"github.com/monitize/monitize-api/internal/store"
)

// PostgresActivityStore implements the store.ActivityStore interface
// using the activity_logs table.
type PostgresActivityStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// Ensure PostgresActivityStore implements store.ActivityStore interface
var _ store.ActivityStore = (*PostgresActivityStore)(nil)

// NewPostgresActivityStore creates a new PostgreSQL implementation of the ActivityStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresActivityStore(db store.DBTX, logger *slog.Logger) *PostgresActivityStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresActivityStore{
		db:     db,
		logger: logger.With(slog.String("component", "activity_store")),
		now:    time.Now,
	}
}

// Load implements store.ActivityStore.Load.
// Returns store.ErrActivityLogNotFound if no row exists for key.
func (s *PostgresActivityStore) Load(ctx context.Context, key string) ([]byte, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT entries FROM activity_logs WHERE key = $1`

	var entries []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&entries)
	if err != nil {
		mapped := MapError(err)
		if store.IsNotFoundError(mapped) {
			log.Debug("activity log not found", slog.String("key", key))
			return nil, mapped
		}

		log.Error("failed to load activity log",
			slog.String("error", redact.Error(err)),
			slog.String("key", key))
		return nil, store.NewStoreError("activity_log", "load", "query failed", mapped)
	}

	return entries, nil
}

// Save implements store.ActivityStore.Save.
// The value must be a JSON array; anything else is rejected with store.ErrInvalidEntity.
func (s *PostgresActivityStore) Save(ctx context.Context, key string, value []byte) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO activity_logs (key, entries, updated_at)
		VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (key) DO UPDATE
		SET entries = EXCLUDED.entries, updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, key, string(value), s.now().UTC())
	if err != nil {
		log.Error("failed to save activity log",
			slog.String("error", redact.Error(err)),
			slog.String("key", key),
			slog.Int("bytes", len(value)))
		return store.NewStoreError("activity_log", "save", "upsert failed", MapError(err))
	}

	log.Debug("activity log saved",
		slog.String("key", key),
		slog.Int("bytes", len(value)))
	return nil
}
