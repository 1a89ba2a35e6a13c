// Package storage opens the activity store selected by configuration.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/monitize/monitize-api/internal/config"
	"github.com/monitize/monitize-api/internal/platform/memstore"
	"github.com/monitize/monitize-api/internal/platform/postgres"
	"github.com/monitize/monitize-api/internal/platform/redisstore"
	"github.com/monitize/monitize-api/internal/store"
)

// Supported values of activity.backend.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// ErrUnknownBackend is returned for a backend name Open does not support.
var ErrUnknownBackend = errors.New("unknown activity backend")

// CloseFunc releases the connections held by a store.
type CloseFunc func() error

func noopClose() error { return nil }

// Open connects the configured backend. The postgres backend is migrated
// before it is returned. The returned CloseFunc is never nil.
func Open(ctx context.Context, cfg config.ActivityConfig, logger *slog.Logger) (store.ActivityStore, CloseFunc, error) {
	log := logger.With("component", "activity_storage", "backend", cfg.Backend)

	switch cfg.Backend {
	case BackendMemory:
		log.Warn("using in-memory activity storage; entries are lost on restart")
		return memstore.NewActivityStore(), noopClose, nil

	case BackendPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, noopClose, err
		}
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, noopClose, err
		}
		log.Info("activity storage ready")
		return postgres.NewPostgresActivityStore(db, logger), db.Close, nil

	case BackendRedis:
		client, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noopClose, err
		}
		log.Info("activity storage ready")
		return redisstore.NewActivityStore(client, logger), client.Close, nil

	default:
		return nil, noopClose, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
