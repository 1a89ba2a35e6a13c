package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/monitize/monitize-api/internal/config"
	"github.com/monitize/monitize-api/internal/generation"
	"github.com/monitize/monitize-api/internal/platform/logger"
	"github.com/monitize/monitize-api/internal/redact"
	"google.golang.org/genai"
)

// ContentGenerator is the subset of the genai SDK used by GeminiModel.
// *genai.Models satisfies it; tests substitute a fake.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiModel implements the generation.Model interface using Google's Gemini API.
type GeminiModel struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// client issues generateContent calls
	client ContentGenerator
}

var _ generation.Model = (*GeminiModel)(nil)

// NewGeminiModel creates a GeminiModel backed by a real genai client.
//
// Parameters:
//   - ctx: Context for client initialization
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing API key, model names and sampling settings
//
// Returns:
//   - A properly initialized GeminiModel or an error if initialization fails
func NewGeminiModel(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiModel, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if err := validateConfig(ctx, logger, cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %s",
			generation.ErrInvalidConfig, redact.Error(err))
	}

	return NewGeminiModelWithClient(logger, cfg, client.Models)
}

// NewGeminiModelWithClient creates a GeminiModel around an existing content generator.
func NewGeminiModelWithClient(
	logger *slog.Logger,
	cfg config.LLMConfig,
	client ContentGenerator,
) (*GeminiModel, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("%w: content generator cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" || cfg.ImageModelName == "" {
		return nil, fmt.Errorf("%w: model names cannot be empty", generation.ErrInvalidConfig)
	}

	return &GeminiModel{
		logger: logger.With("component", "gemini_model"),
		config: cfg,
		client: client,
	}, nil
}

// GenerateText implements generation.Model.
func (m *GeminiModel) GenerateText(ctx context.Context, req generation.Request) (string, error) {
	resp, err := m.call(ctx, m.config.ModelName, req, m.baseConfig(req))
	if err != nil {
		return "", err
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text parts", generation.ErrEmptyResponse)
	}
	return text, nil
}

// GenerateJSON implements generation.Model.
func (m *GeminiModel) GenerateJSON(
	ctx context.Context,
	req generation.Request,
	schema generation.Schema,
) ([]byte, error) {
	responseSchema, ok := schemas[schema]
	if !ok {
		return nil, fmt.Errorf("%w: unknown response schema %q", generation.ErrInvalidConfig, schema)
	}

	cfg := m.baseConfig(req)
	cfg.ResponseMIMEType = "application/json"
	cfg.ResponseSchema = responseSchema

	resp, err := m.call(ctx, m.config.ModelName, req, cfg)
	if err != nil {
		return nil, err
	}

	text := trimJSONFence(responseText(resp))
	if text == "" {
		return nil, fmt.Errorf("%w: no JSON text", generation.ErrEmptyResponse)
	}
	return []byte(text), nil
}

// GenerateImage implements generation.Model.
func (m *GeminiModel) GenerateImage(ctx context.Context, req generation.Request) (*generation.Image, error) {
	cfg := m.baseConfig(req)
	cfg.ResponseModalities = []string{"TEXT", "IMAGE"}

	resp, err := m.call(ctx, m.config.ImageModelName, req, cfg)
	if err != nil {
		return nil, err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		if !strings.HasPrefix(part.InlineData.MIMEType, "image/") {
			continue
		}
		return &generation.Image{
			Data:     part.InlineData.Data,
			MIMEType: part.InlineData.MIMEType,
		}, nil
	}

	return nil, generation.ErrNoImage
}

func (m *GeminiModel) baseConfig(req generation.Request) *genai.GenerateContentConfig {
	temperature := m.config.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}
	return cfg
}

// call performs one generateContent request and checks the response envelope.
// There is no retry: the first failure is returned.
func (m *GeminiModel) call(
	ctx context.Context,
	model string,
	req generation.Request,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	contents, err := buildContents(req)
	if err != nil {
		return nil, err
	}

	if m.config.RequestTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.config.RequestTimeoutSeconds)*time.Second)
		defer cancel()
	}

	start := time.Now()
	log.DebugContext(ctx, "Making Gemini API call",
		"model", model,
		"prompt_length", len(req.Prompt),
		"has_image", req.Image != nil,
		"json_mode", cfg.ResponseMIMEType != "")

	resp, err := m.client.GenerateContent(ctx, model, contents, cfg)
	duration := time.Since(start)

	switch {
	case err != nil:
		log.ErrorContext(ctx, "Gemini API call error",
			"model", model,
			"duration_ms", duration.Milliseconds(),
			"error", redact.Error(err))
		return nil, fmt.Errorf("%w: %s", generation.ErrGenerationFailed, redact.Error(err))
	case resp == nil:
		err = fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	case resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "":
		err = fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	case len(resp.Candidates) == 0 || resp.Candidates[0] == nil:
		err = fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		err = fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	case resp.Candidates[0].Content == nil:
		err = fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	if err != nil {
		log.WarnContext(ctx, "Gemini API returned unusable response",
			"model", model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return nil, err
	}

	log.DebugContext(ctx, "Gemini API call successful",
		"model", model,
		"duration_ms", duration.Milliseconds())
	return resp, nil
}

func buildContents(req generation.Request) ([]*genai.Content, error) {
	parts := make([]*genai.Part, 0, 2)
	if req.Image != nil {
		if len(req.Image.Data) == 0 || req.Image.MIMEType == "" {
			return nil, fmt.Errorf("%w: image needs data and MIME type", generation.ErrGenerationFailed)
		}
		parts = append(parts, genai.NewPartFromBytes(req.Image.Data, req.Image.MIMEType))
	}
	if req.Prompt != "" {
		parts = append(parts, genai.NewPartFromText(req.Prompt))
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: request has neither prompt nor image", generation.ErrGenerationFailed)
	}

	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil
}

// responseText concatenates the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

// trimJSONFence removes a surrounding ```json fence some model versions add
// even in JSON mode.
func trimJSONFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
