package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrNilEvent is returned when EmitEvent is called without an event.
var ErrNilEvent = errors.New("event cannot be nil")

// InMemoryEventEmitter delivers each event to every registered handler in
// registration order, on the caller's goroutine.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

// NewInMemoryEventEmitter returns an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	return &InMemoryEventEmitter{logger: logger.With("component", "activity_events")}
}

// RegisterHandler appends handler to the delivery list.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	e.handlers = append(e.handlers, handler)
	n := len(e.handlers)
	e.mu.Unlock()

	e.logger.Debug("activity handler registered", "handlers", n)
}

// EmitEvent delivers event to all handlers. A failing handler does not stop
// delivery to the rest; their errors are joined. When ctx carries a Batch
// the event is queued there instead.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *ActivityEvent) error {
	if event == nil {
		return ErrNilEvent
	}
	if b := batchFromContext(ctx); b != nil {
		b.add(func(ctx context.Context) error { return e.deliver(ctx, event) })
		return nil
	}
	return e.deliver(ctx, event)
}

func (e *InMemoryEventEmitter) deliver(ctx context.Context, event *ActivityEvent) error {
	e.mu.RLock()
	handlers := append([]EventHandler(nil), e.handlers...)
	e.mu.RUnlock()

	log := e.logger.With(
		"event_id", event.ID,
		"event_type", event.Type,
		"tool_id", event.Metadata.ToolID,
	)
	if len(handlers) == 0 {
		log.WarnContext(ctx, "activity event dropped, nothing registered")
		return nil
	}

	var errs []error
	for i, h := range handlers {
		if err := h.HandleEvent(ctx, event); err != nil {
			log.ErrorContext(ctx, "activity handler failed", "error", err, "handler", i)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
