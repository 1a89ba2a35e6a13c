package api

import (
	"github.com/monitize/monitize-api/internal/domain"
)

// Reasons reported when a tool response is not ok.
const (
	ReasonEmptyInput       = "empty_input"
	ReasonUnknownTool      = "unknown_tool"
	ReasonInvalidImage     = "invalid_image"
	ReasonContentBlocked   = "content_blocked"
	ReasonInvalidResponse  = "invalid_response"
	ReasonTimeout          = "timeout"
	ReasonCancelled        = "cancelled"
	ReasonModelUnavailable = "model_unavailable"
)

// AskRequest is the payload for POST /api/assistant/ask.
type AskRequest struct {
	Question string `json:"question" validate:"max=4000"`
}

// ToolRequest is the payload for POST /api/tools/{kind}. Context carries
// tool parameters such as "category" for analogy or "dialect" for
// dialect_translation.
type ToolRequest struct {
	Input   string            `json:"input"   validate:"max=20000"`
	Context map[string]string `json:"context" validate:"max=8,dive,keys,max=64,endkeys,max=256"`
}

// StudyNotesRequest is the payload for POST /api/study-notes.
type StudyNotesRequest struct {
	Content string `json:"content" validate:"max=50000"`
	Mode    string `json:"mode"    validate:"max=64"`
}

// FlashcardsRequest is the payload for POST /api/flashcards.
type FlashcardsRequest struct {
	Content string `json:"content" validate:"max=50000"`
}

// RecordActivityRequest is the payload for POST /api/activity.
type RecordActivityRequest struct {
	ActionType    string `json:"action_type"    validate:"required,oneof=viewed completed generated confirmed"`
	ContentSource string `json:"content_source" validate:"required,oneof=static AI-generated OCR"`
	ModuleID      string `json:"module_id"      validate:"omitempty,max=128"`
	LevelID       string `json:"level_id"       validate:"omitempty,max=128"`
	ToolID        string `json:"tool_id"        validate:"omitempty,max=128"`
}

// Metadata returns the optional identifiers of the request.
func (r RecordActivityRequest) Metadata() domain.AuditMetadata {
	return domain.AuditMetadata{
		ModuleID: r.ModuleID,
		LevelID:  r.LevelID,
		ToolID:   r.ToolID,
	}
}

// TextResponse is returned by every free-text operation. On failure Text is
// empty and Notice holds the message to show the learner.
type TextResponse struct {
	OK     bool   `json:"ok"`
	Text   string `json:"text"`
	Notice string `json:"notice,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// FlashcardsResponse is returned by POST /api/flashcards. Flashcards is
// always an array, empty on failure.
type FlashcardsResponse struct {
	OK         bool               `json:"ok"`
	Flashcards []domain.Flashcard `json:"flashcards"`
	Notice     string             `json:"notice,omitempty"`
	Reason     string             `json:"reason,omitempty"`
}

// InterpretationResponse is returned by POST /api/documents/interpret.
// Interpretation is null on failure.
type InterpretationResponse struct {
	OK             bool                      `json:"ok"`
	Interpretation *domain.OCRInterpretation `json:"interpretation"`
	Notice         string                    `json:"notice,omitempty"`
	Reason         string                    `json:"reason,omitempty"`
}

// ImageResponse is returned by POST /api/documents/edit. Image is a data
// URI, empty on failure.
type ImageResponse struct {
	OK     bool   `json:"ok"`
	Image  string `json:"image"`
	Notice string `json:"notice,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// ActivityEntriesResponse is returned by GET /api/activity.
type ActivityEntriesResponse struct {
	Entries    []domain.AuditEntry `json:"entries"`
	MaxEntries int                 `json:"max_entries"`
}

func textResponse(r domain.Result[string]) TextResponse {
	return TextResponse{
		OK:     r.OK(),
		Text:   r.Value(),
		Notice: r.Notice(),
		Reason: reasonFor(r.Err()),
	}
}

func flashcardsResponse(r domain.Result[domain.FlashcardSet]) FlashcardsResponse {
	cards := r.Value().Flashcards
	if cards == nil {
		cards = []domain.Flashcard{}
	}
	return FlashcardsResponse{
		OK:         r.OK(),
		Flashcards: cards,
		Notice:     r.Notice(),
		Reason:     reasonFor(r.Err()),
	}
}

func interpretationResponse(r domain.Result[*domain.OCRInterpretation]) InterpretationResponse {
	return InterpretationResponse{
		OK:             r.OK(),
		Interpretation: r.Value(),
		Notice:         r.Notice(),
		Reason:         reasonFor(r.Err()),
	}
}

func imageResponse(r domain.Result[string]) ImageResponse {
	return ImageResponse{
		OK:     r.OK(),
		Image:  r.Value(),
		Notice: r.Notice(),
		Reason: reasonFor(r.Err()),
	}
}
