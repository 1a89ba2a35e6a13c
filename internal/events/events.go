package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/monitize/monitize-api/internal/domain"
)

// TypeContentGenerated is emitted after the contract layer returns a value.
const TypeContentGenerated = "content.generated"

// ActivityEvent describes a learner-visible action that should be audited.
type ActivityEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type identifies the kind of event
	Type string `json:"type"`

	// LogKey is the activity log storage key of the learner who triggered it
	LogKey string `json:"log_key"`

	ActionType    domain.ActionType    `json:"action_type"`
	ContentSource domain.ContentSource `json:"content_source"`
	Metadata      domain.AuditMetadata `json:"metadata"`

	// OccurredAt is the timestamp when the event was created
	OccurredAt time.Time `json:"occurred_at"`
}

// NewContentGeneratedEvent builds the event for a successful generation by toolID.
func NewContentGeneratedEvent(logKey string, source domain.ContentSource, toolID string) *ActivityEvent {
	return &ActivityEvent{
		ID:            uuid.New(),
		Type:          TypeContentGenerated,
		LogKey:        logKey,
		ActionType:    domain.ActionGenerated,
		ContentSource: source,
		Metadata:      domain.AuditMetadata{ToolID: toolID},
		OccurredAt:    time.Now(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *ActivityEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *ActivityEvent) error
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *ActivityEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *ActivityEvent) error {
	return f(ctx, event)
}

type logKeyCtxKey struct{}

// WithLogKey returns a context that carries the activity log key of the
// learner making the request.
func WithLogKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, logKeyCtxKey{}, key)
}

// LogKeyFromContext returns the key stored by WithLogKey, or "".
func LogKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(logKeyCtxKey{}).(string)
	return key
}
