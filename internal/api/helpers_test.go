package api

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/monitize/monitize-api/internal/activity"
	"github.com/monitize/monitize-api/internal/api/middleware"
	"github.com/monitize/monitize-api/internal/events"
	"github.com/monitize/monitize-api/internal/generation"
	"github.com/monitize/monitize-api/internal/inflight"
	"github.com/monitize/monitize-api/internal/platform/memstore"
	"github.com/monitize/monitize-api/internal/service/assistant"
	"github.com/monitize/monitize-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testServer struct {
	router  http.Handler
	log     *activity.Log
	store   *memstore.ActivityStore
	tracker *inflight.Tracker
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer wires the handlers the way the server does, with events
// from the contract layer recorded into an in-memory activity log.
func newTestServer(t *testing.T, model generation.Model, jwt auth.JWTService) *testServer {
	t.Helper()
	logger := discardLogger()

	st := memstore.NewActivityStore()
	log := activity.NewLog(st, logger)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(activity.NewEventHandler(log, logger))

	svc, err := assistant.NewService(model, emitter, logger)
	require.NoError(t, err)

	if jwt == nil {
		jwt = &auth.MockJWTService{ValidationError: auth.ErrInvalidToken}
	}
	tracker := inflight.NewTracker()
	assistantHandler := NewAssistantHandler(svc, tracker)
	documentHandler := NewDocumentHandler(svc, tracker, 1024)
	activityHandler := NewActivityHandler(log, activity.DefaultKey)

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(logger))
	r.Use(middleware.NewAuthMiddleware(jwt, activity.DefaultKey).Authenticate)
	r.Route("/api", func(r chi.Router) {
		r.Post("/assistant/ask", assistantHandler.Ask)
		r.Get("/tools", assistantHandler.ToolKinds)
		r.Post("/tools/{kind}", assistantHandler.Tool)
		r.Post("/study-notes", assistantHandler.StudyNotes)
		r.Post("/flashcards", assistantHandler.Flashcards)
		r.Post("/documents/edit", documentHandler.Edit)
		r.Post("/documents/explain", documentHandler.Explain)
		r.Post("/documents/interpret", documentHandler.Interpret)
		r.Post("/activity", activityHandler.Record)
		r.Get("/activity", activityHandler.List)
		r.Get("/activity/export", activityHandler.Export)
	})

	return &testServer{router: r, log: log, store: st, tracker: tracker}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// multipartRequest builds a form with an optional image and text fields.
func multipartRequest(t *testing.T, path string, image []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		part, err := mw.CreateFormFile("image", "document.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
