package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/monitize/monitize-api/internal/activity"
	"github.com/monitize/monitize-api/internal/api/shared"
	"github.com/monitize/monitize-api/internal/domain"
	"github.com/monitize/monitize-api/internal/platform/logger"
)

// ActivityHandler serves the learner activity log.
type ActivityHandler struct {
	log     *activity.Log
	baseKey string
	now     func() time.Time
}

// NewActivityHandler creates an ActivityHandler over log. baseKey is used
// when a request carries no log key of its own.
func NewActivityHandler(log *activity.Log, baseKey string) *ActivityHandler {
	if baseKey == "" {
		baseKey = activity.DefaultKey
	}
	return &ActivityHandler{
		log:     log,
		baseKey: baseKey,
		now:     time.Now,
	}
}

// Record handles POST /api/activity.
func (h *ActivityHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordActivityRequest
	if !decodeJSONRequest(w, r, &req) {
		return
	}

	key := logKey(r, h.baseKey)
	entry, err := h.log.Record(r.Context(), key,
		domain.ActionType(req.ActionType),
		domain.ContentSource(req.ContentSource),
		req.Metadata())
	if err != nil {
		if entry.ID != "" {
			// cached, the next flush retries the write
			logger.FromContext(r.Context()).Warn("activity recorded but not persisted",
				"entry_id", entry.ID)
		}
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, entry)
}

// List handles GET /api/activity.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.log.Entries(r.Context(), logKey(r, h.baseKey))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load activity")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ActivityEntriesResponse{
		Entries:    entries,
		MaxEntries: h.log.MaxEntries(),
	})
}

// Export handles GET /api/activity/export. The stored JSON array is sent
// as a dated attachment; the log is left intact.
func (h *ActivityHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.log.Export(r.Context(), logKey(r, h.baseKey), &buf); err != nil {
		HandleAPIError(w, r, err, "Failed to export activity")
		return
	}

	shared.RespondWithAttachment(w, r, activity.ExportFilename(h.now()), "application/json", buf.Bytes())
}
