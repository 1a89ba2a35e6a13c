package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/monitize/monitize-api/internal/api/shared"
	"github.com/monitize/monitize-api/internal/domain"
	"github.com/monitize/monitize-api/internal/inflight"
	"github.com/monitize/monitize-api/internal/service/assistant"
)

// AssistantHandler serves the text-based learning tools.
type AssistantHandler struct {
	service assistant.Service
	tracker *inflight.Tracker
}

// NewAssistantHandler creates an AssistantHandler. tracker may be nil to
// disable stale-response suppression.
func NewAssistantHandler(service assistant.Service, tracker *inflight.Tracker) *AssistantHandler {
	return &AssistantHandler{
		service: service,
		tracker: tracker,
	}
}

// Ask handles POST /api/assistant/ask.
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if !decodeJSONRequest(w, r, &req) {
		return
	}

	result, err := runTracked(h.tracker, r, assistant.OpAskOpenQuestion,
		func(ctx context.Context) domain.Result[string] {
			return h.service.AskOpenQuestion(ctx, req.Question)
		})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, textResponse(result))
}

// Tool handles POST /api/tools/{kind}. Unknown kinds are answered with the
// unknown-tool notice rather than a routing error.
func (h *AssistantHandler) Tool(w http.ResponseWriter, r *http.Request) {
	var req ToolRequest
	if !decodeJSONRequest(w, r, &req) {
		return
	}

	kind, err := domain.ParseToolKind(chi.URLParam(r, "kind"))
	if err != nil {
		kind = domain.ToolKind(chi.URLParam(r, "kind"))
	}

	result, err := runTracked(h.tracker, r, assistant.OpProcessCognitiveTool,
		func(ctx context.Context) domain.Result[string] {
			return h.service.ProcessCognitiveTool(ctx, kind, req.Input, req.Context)
		})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, textResponse(result))
}

// StudyNotes handles POST /api/study-notes.
func (h *AssistantHandler) StudyNotes(w http.ResponseWriter, r *http.Request) {
	var req StudyNotesRequest
	if !decodeJSONRequest(w, r, &req) {
		return
	}

	result, err := runTracked(h.tracker, r, assistant.OpGenerateStudyNotes,
		func(ctx context.Context) domain.Result[string] {
			return h.service.GenerateStudyNotes(ctx, req.Content, req.Mode)
		})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, textResponse(result))
}

// Flashcards handles POST /api/flashcards.
func (h *AssistantHandler) Flashcards(w http.ResponseWriter, r *http.Request) {
	var req FlashcardsRequest
	if !decodeJSONRequest(w, r, &req) {
		return
	}

	result, err := runTracked(h.tracker, r, assistant.OpGenerateFlashcards,
		func(ctx context.Context) domain.Result[domain.FlashcardSet] {
			return h.service.GenerateFlashcards(ctx, req.Content)
		})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, flashcardsResponse(result))
}

// ToolKinds handles GET /api/tools and lists the available tool kinds.
func (h *AssistantHandler) ToolKinds(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string][]domain.ToolKind{
		"tools": domain.ToolKinds(),
	})
}
