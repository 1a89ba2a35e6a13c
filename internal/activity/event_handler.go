package activity

import (
	"context"
	"log/slog"

	"github.com/monitize/monitize-api/internal/events"
)

// EventHandler implements events.EventHandler by recording each activity
// event in a Log.
type EventHandler struct {
	log    *Log
	logger *slog.Logger
}

var _ events.EventHandler = (*EventHandler)(nil)

// NewEventHandler creates a handler that records into log.
func NewEventHandler(log *Log, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		log:    log,
		logger: logger.With("component", "activity_event_handler"),
	}
}

// HandleEvent implements events.EventHandler.
func (h *EventHandler) HandleEvent(ctx context.Context, event *events.ActivityEvent) error {
	if event.Type != events.TypeContentGenerated {
		h.logger.DebugContext(ctx, "ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	key := event.LogKey
	if key == "" {
		key = DefaultKey
	}

	entry, err := h.log.Record(ctx, key, event.ActionType, event.ContentSource, event.Metadata)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to record activity event",
			"event_id", event.ID,
			"error", err)
		return err
	}

	h.logger.DebugContext(ctx, "activity event recorded",
		"event_id", event.ID,
		"entry_id", entry.ID)
	return nil
}
