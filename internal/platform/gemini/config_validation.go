package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/monitize/monitize-api/internal/config"
	"github.com/monitize/monitize-api/internal/generation"
)

// validateConfig checks the LLM settings needed to reach the Gemini API.
func validateConfig(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) error {
	if cfg.GeminiAPIKey == "" {
		logger.ErrorContext(ctx, "Missing Gemini API key", "error", "GeminiAPIKey is empty")
		return fmt.Errorf("%w: GeminiAPIKey cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		logger.ErrorContext(ctx, "Missing model name", "error", "ModelName is empty")
		return fmt.Errorf("%w: ModelName cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ImageModelName == "" {
		logger.ErrorContext(ctx, "Missing image model name", "error", "ImageModelName is empty")
		return fmt.Errorf("%w: ImageModelName cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		logger.WarnContext(ctx, "Temperature outside supported range",
			"value", cfg.Temperature,
			"action", "passing through to API")
	}

	logger.InfoContext(ctx, "Gemini configuration validation passed",
		"model", cfg.ModelName,
		"image_model", cfg.ImageModelName)
	return nil
}
