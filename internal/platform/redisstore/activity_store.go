// Package redisstore stores activity logs as plain Redis string values, one
// key per log.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/monitize/monitize-api/internal/platform/logger"
	"github.com/monitize/monitize-api/internal/redact"
	"github.com/monitize/monitize-api/internal/store"
	"github.com/redis/go-redis/v9"
)

// ActivityStore implements store.ActivityStore on top of GET and SET.
type ActivityStore struct {
	client redis.Cmdable
	logger *slog.Logger
}

var _ store.ActivityStore = (*ActivityStore)(nil)

// Connect parses redisURL, pings the server and returns the client.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis options: %s", redact.Error(err))
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis ping: %s", store.ErrUnavailable, redact.Error(err))
	}
	return client, nil
}

// NewActivityStore wraps an existing client.
func NewActivityStore(client redis.Cmdable, logger *slog.Logger) *ActivityStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityStore{
		client: client,
		logger: logger.With(slog.String("component", "redis_activity_store")),
	}
}

// Load implements store.ActivityStore.
func (s *ActivityStore) Load(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrActivityLogNotFound
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load activity log",
			slog.String("key", key),
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("activity_log", "load", "redis GET failed", err)
	}
	return value, nil
}

// Save implements store.ActivityStore. Values never expire.
func (s *ActivityStore) Save(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save activity log",
			slog.String("key", key),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError("activity_log", "save", "redis SET failed", err)
	}
	return nil
}
