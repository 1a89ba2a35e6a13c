package inflight

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTracker_NewerGenerationSupersedes(t *testing.T) {
	tr := NewTracker()

	ctx1, first := tr.Begin(context.Background(), "alice/ask")
	assert.True(t, tr.Current(first))

	ctx2, second := tr.Begin(context.Background(), "alice/ask")
	assert.Greater(t, second.Generation, first.Generation)

	assert.False(t, tr.Current(first))
	assert.True(t, tr.Current(second))
	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.NoError(t, ctx2.Err())

	// Releasing the stale ticket must not disturb the current one.
	tr.Done(first)
	assert.True(t, tr.Current(second))
	assert.NoError(t, ctx2.Err())

	tr.Done(second)
	assert.False(t, tr.Current(second))
	assert.ErrorIs(t, ctx2.Err(), context.Canceled)
	assert.Zero(t, tr.Active())
}

func TestTracker_SlotsAreIndependent(t *testing.T) {
	tr := NewTracker()

	ctxA, a := tr.Begin(context.Background(), "alice/ask")
	ctxB, b := tr.Begin(context.Background(), "bob/ask")
	_, c := tr.Begin(context.Background(), "alice/flashcards")

	assert.True(t, tr.Current(a))
	assert.True(t, tr.Current(b))
	assert.True(t, tr.Current(c))
	assert.NoError(t, ctxA.Err())
	assert.NoError(t, ctxB.Err())
	assert.Equal(t, 3, tr.Active())

	tr.Done(a)
	tr.Done(b)
	tr.Done(c)
	assert.Zero(t, tr.Active())
}

func TestTracker_ParentCancellation(t *testing.T) {
	tr := NewTracker()
	parent, cancel := context.WithCancel(context.Background())

	ctx, ticket := tr.Begin(parent, "slot")
	cancel()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	// Parent cancellation does not change which generation is newest.
	assert.True(t, tr.Current(ticket))
	tr.Done(ticket)
}

func TestTracker_StaleCompletionIsDiscarded(t *testing.T) {
	tr := NewTracker()

	results := make(chan string, 2)
	var wg sync.WaitGroup

	run := func(name string, delay time.Duration) {
		defer wg.Done()
		ctx, ticket := tr.Begin(context.Background(), "slot")
		defer tr.Done(ticket)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
		}
		if tr.Current(ticket) {
			results <- name
		}
	}

	wg.Add(1)
	go run("slow", 200*time.Millisecond)

	require.Eventually(t, func() bool { return tr.Active() == 1 }, time.Second, time.Millisecond)

	wg.Add(1)
	go run("fast", 0)

	wg.Wait()
	close(results)

	var applied []string
	for r := range results {
		applied = append(applied, r)
	}
	assert.Equal(t, []string{"fast"}, applied)
}
