// Package inflight tracks request generations per slot so a newer request
// supersedes an older one. Beginning a generation cancels the context of the
// previous generation on the same slot, and a finished request can check
// whether it is still current before its result is applied.
package inflight

import (
	"context"
	"sync"
)

// Ticket identifies one generation on a slot.
type Ticket struct {
	Slot       string
	Generation uint64
}

type entry struct {
	generation uint64
	cancel     context.CancelFunc
}

// Tracker is safe for concurrent use. The zero value is not usable; call
// NewTracker.
type Tracker struct {
	mu      sync.Mutex
	next    uint64
	current map[string]entry
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{current: make(map[string]entry)}
}

// Begin starts a new generation on slot. The returned context is cancelled
// when ctx is, when a newer generation begins on slot, or when Done is
// called with the returned ticket.
func (t *Tracker) Begin(ctx context.Context, slot string) (context.Context, Ticket) {
	derived, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	t.next++
	ticket := Ticket{Slot: slot, Generation: t.next}
	previous, had := t.current[slot]
	t.current[slot] = entry{generation: ticket.Generation, cancel: cancel}
	t.mu.Unlock()

	if had {
		previous.cancel()
	}
	return derived, ticket
}

// Current reports whether ticket is still the newest generation on its slot.
func (t *Tracker) Current(ticket Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.current[ticket.Slot]
	return ok && e.generation == ticket.Generation
}

// Done releases ticket and cancels its context. Releasing a superseded
// ticket leaves the newer generation untouched.
func (t *Tracker) Done(ticket Ticket) {
	t.mu.Lock()
	e, ok := t.current[ticket.Slot]
	if ok && e.generation == ticket.Generation {
		delete(t.current, ticket.Slot)
	}
	t.mu.Unlock()

	if ok && e.generation == ticket.Generation {
		e.cancel()
	}
}

// Active returns the number of slots with a generation in flight.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.current)
}
