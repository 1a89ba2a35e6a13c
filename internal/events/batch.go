package events

import (
	"context"
	"errors"
	"sync"
)

// Batch holds activity events raised while a request runs, so they are
// delivered only if the request's result is kept.
type Batch struct {
	mu      sync.Mutex
	pending []func(context.Context) error
}

type batchCtxKey struct{}

// WithBatch returns a context under which InMemoryEventEmitter queues events
// on the returned Batch instead of delivering them.
func WithBatch(ctx context.Context) (context.Context, *Batch) {
	b := &Batch{}
	return context.WithValue(ctx, batchCtxKey{}, b), b
}

func batchFromContext(ctx context.Context) *Batch {
	b, _ := ctx.Value(batchCtxKey{}).(*Batch)
	return b
}

func (b *Batch) add(deliver func(context.Context) error) {
	b.mu.Lock()
	b.pending = append(b.pending, deliver)
	b.mu.Unlock()
}

func (b *Batch) take() []func(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	pending := b.pending
	b.pending = nil
	return pending
}

// Len reports the number of queued events.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Release delivers the queued events in order and empties the batch.
// Delivery errors are joined.
func (b *Batch) Release(ctx context.Context) error {
	ctx = context.WithValue(ctx, batchCtxKey{}, (*Batch)(nil))

	var errs []error
	for _, deliver := range b.take() {
		if err := deliver(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops the queued events and returns how many there were.
func (b *Batch) Discard() int {
	return len(b.take())
}
