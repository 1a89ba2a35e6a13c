// Package memstore keeps activity logs in process memory. It is the default
// backend and the one used by tests.
package memstore

import (
	"context"
	"sync"

	"github.com/monitize/monitize-api/internal/store"
)

// ActivityStore implements store.ActivityStore with a map.
type ActivityStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ store.ActivityStore = (*ActivityStore)(nil)

// NewActivityStore returns an empty store.
func NewActivityStore() *ActivityStore {
	return &ActivityStore{values: make(map[string][]byte)}
}

// Load implements store.ActivityStore.
func (s *ActivityStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, store.ErrActivityLogNotFound
	}
	return append([]byte(nil), value...), nil
}

// Save implements store.ActivityStore.
func (s *ActivityStore) Save(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}
