package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/monitize/monitize-api/internal/api"
	apiMiddleware "github.com/monitize/monitize-api/internal/api/middleware"
	"github.com/monitize/monitize-api/internal/api/shared"
	"github.com/monitize/monitize-api/internal/metrics"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.config.Activity.StorageKey)
	assistantHandler := api.NewAssistantHandler(app.assistant, app.tracker)
	documentHandler := api.NewDocumentHandler(app.assistant, app.tracker, app.config.Server.MaxUploadBytes)
	activityHandler := api.NewActivityHandler(app.activityLog, app.config.Activity.StorageKey)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

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

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	return r
}
