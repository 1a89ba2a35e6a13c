package store

import "context"

// ActivityStore persists serialized activity logs. Values are the JSON array
// form of the log and are written verbatim; decoding is the caller's concern.
type ActivityStore interface {
	// Load returns the stored value for key, or ErrNotFound when nothing
	// has been stored under it yet.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the value stored under key.
	Save(ctx context.Context, key string, value []byte) error
}
