package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/monitize/monitize-api/internal/activity"
	"github.com/monitize/monitize-api/internal/config"
	"github.com/monitize/monitize-api/internal/events"
	"github.com/monitize/monitize-api/internal/generation"
	"github.com/monitize/monitize-api/internal/inflight"
	"github.com/monitize/monitize-api/internal/platform/gemini"
	"github.com/monitize/monitize-api/internal/platform/storage"
	"github.com/monitize/monitize-api/internal/service/assistant"
	"github.com/monitize/monitize-api/internal/service/auth"
	"github.com/monitize/monitize-api/internal/store"
)

// application holds the shared dependencies so they can be built once and
// released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	activityStore store.ActivityStore
	closeStore    storage.CloseFunc

	jwtService   auth.JWTService
	model        generation.Model
	assistant    assistant.Service
	activityLog  *activity.Log
	eventEmitter *events.InMemoryEventEmitter
	tracker      *inflight.Tracker
}

// newApplication connects the configured activity storage and the Gemini
// model and wires the services around them.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	activityStore, closeStore, err := storage.Open(ctx, cfg.Activity, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open activity storage: %w", err)
	}

	model, err := gemini.NewGeminiModel(ctx, logger.With("component", "gemini_model"), cfg.LLM)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("failed to initialize Gemini model: %w", err)
	}
	logger.Info("Gemini model initialized",
		"model", cfg.LLM.ModelName,
		"image_model", cfg.LLM.ImageModelName)

	app, err := assemble(cfg, logger, model, activityStore)
	if err != nil {
		_ = closeStore()
		return nil, err
	}
	app.closeStore = closeStore
	return app, nil
}

// assemble builds the services from already connected dependencies.
func assemble(
	cfg *config.Config,
	logger *slog.Logger,
	model generation.Model,
	activityStore store.ActivityStore,
) (*application, error) {
	app := &application{
		config:        cfg,
		logger:        logger,
		activityStore: activityStore,
		closeStore:    func() error { return nil },
		model:         model,
		tracker:       inflight.NewTracker(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.activityLog = activity.NewLog(activityStore, logger, activity.WithMaxEntries(cfg.Activity.MaxEntries))

	// generated content reaches the activity log through events
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(activity.NewEventHandler(app.activityLog, logger))

	app.assistant, err = assistant.NewService(model, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create assistant service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// cleanup flushes pending activity and releases storage connections.
func (app *application) cleanup(ctx context.Context) error {
	var errs []error
	if app.activityLog != nil {
		if err := app.activityLog.Flush(ctx); err != nil {
			app.logger.Error("Error flushing activity log", "error", err)
			errs = append(errs, fmt.Errorf("flush activity log: %w", err))
		}
	}
	if app.closeStore != nil {
		if err := app.closeStore(); err != nil {
			app.logger.Error("Error closing activity storage", "error", err)
			errs = append(errs, fmt.Errorf("close activity storage: %w", err))
		}
	}
	return errors.Join(errs...)
}
