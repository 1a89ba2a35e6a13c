package api

import (
	"context"
	"net/http"

	"github.com/monitize/monitize-api/internal/api/shared"
	"github.com/monitize/monitize-api/internal/domain"
	"github.com/monitize/monitize-api/internal/inflight"
	"github.com/monitize/monitize-api/internal/service/assistant"
)

// DefaultMaxUploadBytes is the image size limit when none is configured.
const DefaultMaxUploadBytes int64 = 5 << 20

// DocumentHandler serves the document image tools. Requests are multipart
// forms with the image in the "image" field.
type DocumentHandler struct {
	service        assistant.Service
	tracker        *inflight.Tracker
	maxUploadBytes int64
}

// NewDocumentHandler creates a DocumentHandler. A non-positive
// maxUploadBytes selects DefaultMaxUploadBytes.
func NewDocumentHandler(
	service assistant.Service,
	tracker *inflight.Tracker,
	maxUploadBytes int64,
) *DocumentHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &DocumentHandler{
		service:        service,
		tracker:        tracker,
		maxUploadBytes: maxUploadBytes,
	}
}

// Edit handles POST /api/documents/edit with fields image and instruction.
func (h *DocumentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	image, ok := h.image(w, r)
	if !ok {
		return
	}
	instruction := r.FormValue("instruction")

	result, err := runTracked(h.tracker, r, assistant.OpEditDocumentImage,
		func(ctx context.Context) domain.Result[string] {
			return h.service.EditDocumentImage(ctx, image, instruction)
		})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, imageResponse(result))
}

// Explain handles POST /api/documents/explain with field image.
func (h *DocumentHandler) Explain(w http.ResponseWriter, r *http.Request) {
	image, ok := h.image(w, r)
	if !ok {
		return
	}

	result, err := runTracked(h.tracker, r, assistant.OpExplainDocumentImage,
		func(ctx context.Context) domain.Result[string] {
			return h.service.ExplainDocumentImage(ctx, image)
		})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, textResponse(result))
}

// Interpret handles POST /api/documents/interpret with fields image and
// learning_mode.
func (h *DocumentHandler) Interpret(w http.ResponseWriter, r *http.Request) {
	image, ok := h.image(w, r)
	if !ok {
		return
	}
	learningMode := r.FormValue("learning_mode")

	result, err := runTracked(h.tracker, r, assistant.OpInterpretDocumentOCR,
		func(ctx context.Context) domain.Result[*domain.OCRInterpretation] {
			return h.service.InterpretDocumentOCR(ctx, image, learningMode)
		})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, interpretationResponse(result))
}

func (h *DocumentHandler) image(w http.ResponseWriter, r *http.Request) (domain.ImageInput, bool) {
	image, err := readImageUpload(w, r, h.maxUploadBytes)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return domain.ImageInput{}, false
	}
	return image, true
}
