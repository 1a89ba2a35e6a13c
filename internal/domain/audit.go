package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActionType classifies a recorded learner action.
type ActionType string

// Possible action types.
const (
	ActionViewed    ActionType = "viewed"
	ActionCompleted ActionType = "completed"
	ActionGenerated ActionType = "generated"
	ActionConfirmed ActionType = "confirmed"
)

// ContentSource records where the content behind an action came from.
type ContentSource string

// Possible content sources.
const (
	SourceStatic      ContentSource = "static"
	SourceAIGenerated ContentSource = "AI-generated"
	SourceOCR         ContentSource = "OCR"
)

// AuditMetadata holds the optional identifiers attached to an audit entry.
type AuditMetadata struct {
	ModuleID string `json:"moduleId,omitempty" validate:"omitempty,max=128"`
	LevelID  string `json:"levelId,omitempty"  validate:"omitempty,max=128"`
	ToolID   string `json:"toolId,omitempty"   validate:"omitempty,max=128"`
}

// AuditEntry is one recorded learner action. Entries are never mutated
// after creation.
type AuditEntry struct {
	ID            string        `json:"id"`
	Timestamp     int64         `json:"timestamp"`
	ActionType    ActionType    `json:"actionType"`
	ContentSource ContentSource `json:"contentSource"`
	AuditMetadata
}

// NewAuditEntry creates an entry stamped with now. The ID combines the epoch
// milliseconds with a random suffix so entries stay unique within a process.
func NewAuditEntry(
	action ActionType,
	source ContentSource,
	meta AuditMetadata,
	now time.Time,
) (AuditEntry, error) {
	millis := now.UnixMilli()
	entry := AuditEntry{
		ID:            fmt.Sprintf("%d-%s", millis, randomSuffix()),
		Timestamp:     millis,
		ActionType:    action,
		ContentSource: source,
		AuditMetadata: meta,
	}

	if err := entry.Validate(); err != nil {
		return AuditEntry{}, err
	}
	return entry, nil
}

// Validate checks if the AuditEntry has valid data.
func (e AuditEntry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: audit entry id cannot be empty", ErrValidation)
	}
	if !IsValidActionType(e.ActionType) {
		return fmt.Errorf("%w: %q", ErrInvalidActionType, e.ActionType)
	}
	if !IsValidContentSource(e.ContentSource) {
		return fmt.Errorf("%w: %q", ErrInvalidContentSource, e.ContentSource)
	}
	if err := validate.Struct(e.AuditMetadata); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// Time returns the entry timestamp as a UTC time.
func (e AuditEntry) Time() time.Time {
	return time.UnixMilli(e.Timestamp).UTC()
}

// IsValidActionType checks if the given value is a known ActionType.
func IsValidActionType(a ActionType) bool {
	switch a {
	case ActionViewed, ActionCompleted, ActionGenerated, ActionConfirmed:
		return true
	default:
		return false
	}
}

// IsValidContentSource checks if the given value is a known ContentSource.
func IsValidContentSource(s ContentSource) bool {
	switch s {
	case SourceStatic, SourceAIGenerated, SourceOCR:
		return true
	default:
		return false
	}
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
