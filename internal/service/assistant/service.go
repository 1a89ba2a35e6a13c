package assistant

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/monitize/monitize-api/internal/domain"
	"github.com/monitize/monitize-api/internal/events"
	"github.com/monitize/monitize-api/internal/generation"
	"github.com/monitize/monitize-api/internal/metrics"
	"github.com/monitize/monitize-api/internal/platform/logger"
	"github.com/monitize/monitize-api/internal/prompt"
	"github.com/monitize/monitize-api/internal/redact"
)

// Operation names used in logs and metrics.
const (
	OpAskOpenQuestion      = "ask_open_question"
	OpProcessCognitiveTool = "process_cognitive_tool"
	OpGenerateStudyNotes   = "generate_study_notes"
	OpGenerateFlashcards   = "generate_flashcards"
	OpEditDocumentImage    = "edit_document_image"
	OpExplainDocumentImage = "explain_document_image"
	OpInterpretDocumentOCR = "interpret_document_ocr"
)

const (
	explainDocumentUserTurn = "Explain the type and structure of this document."
	ocrUserTurn             = "Read and interpret this document."
)

// Service provides the learning-tool operations.
type Service interface {
	// AskOpenQuestion answers a conceptual question with the Learning Assistant.
	AskOpenQuestion(ctx context.Context, question string) domain.Result[string]

	// ProcessCognitiveTool runs one of the fixed cognitive tools over input.
	ProcessCognitiveTool(
		ctx context.Context,
		kind domain.ToolKind,
		input string,
		toolContext map[string]string,
	) domain.Result[string]

	// GenerateStudyNotes condenses content into notes for the given mode.
	GenerateStudyNotes(ctx context.Context, content, mode string) domain.Result[string]

	// GenerateFlashcards builds a flashcard set from content. The value is an
	// empty set on failure.
	GenerateFlashcards(ctx context.Context, content string) domain.Result[domain.FlashcardSet]

	// EditDocumentImage applies instruction to image and returns the edited
	// image as a data URI.
	EditDocumentImage(ctx context.Context, image domain.ImageInput, instruction string) domain.Result[string]

	// ExplainDocumentImage describes the type and structure of a document.
	ExplainDocumentImage(ctx context.Context, image domain.ImageInput) domain.Result[string]

	// InterpretDocumentOCR extracts and explains the text of a document.
	InterpretDocumentOCR(
		ctx context.Context,
		image domain.ImageInput,
		learningMode string,
	) domain.Result[*domain.OCRInterpretation]
}

// assistantService implements the Service interface
type assistantService struct {
	model   generation.Model
	emitter events.EventEmitter
	logger  *slog.Logger
}

var _ Service = (*assistantService)(nil)

// NewService creates a Service backed by model. emitter may be nil, in which
// case no activity events are emitted.
func NewService(model generation.Model, emitter events.EventEmitter, logger *slog.Logger) (Service, error) {
	if model == nil {
		return nil, errors.New("model cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &assistantService{
		model:   model,
		emitter: emitter,
		logger:  logger.With("component", "assistant_service"),
	}, nil
}

// AskOpenQuestion implements Service.
func (s *assistantService) AskOpenQuestion(ctx context.Context, question string) domain.Result[string] {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Failed[string](s.rejected(ctx, OpAskOpenQuestion, emptyInput("question")), NoticeEmptyQuestion)
	}

	return s.text(ctx, OpAskOpenQuestion, ToolIDLearningAssistant, generation.Request{
		SystemInstruction: prompt.LearningAssistant,
		Prompt:            question,
	}, NoticeAssistantUnavailable)
}

// ProcessCognitiveTool implements Service.
func (s *assistantService) ProcessCognitiveTool(
	ctx context.Context,
	kind domain.ToolKind,
	input string,
	toolContext map[string]string,
) domain.Result[string] {
	input = strings.TrimSpace(input)
	if input == "" {
		err := s.rejected(ctx, OpProcessCognitiveTool, emptyInput("tool input"))
		return domain.Failed[string](err, NoticeEmptyToolInput)
	}

	instruction, err := prompt.ForTool(domain.ToolRequest{Kind: kind, Input: input, Context: toolContext})
	if err != nil {
		return domain.Failed[string](s.rejected(ctx, OpProcessCognitiveTool, err), NoticeUnknownTool)
	}

	return s.text(ctx, OpProcessCognitiveTool, string(kind), generation.Request{
		SystemInstruction: instruction,
		Prompt:            input,
	}, NoticeToolFailed)
}

// GenerateStudyNotes implements Service.
func (s *assistantService) GenerateStudyNotes(ctx context.Context, content, mode string) domain.Result[string] {
	content = strings.TrimSpace(content)
	if content == "" {
		err := s.rejected(ctx, OpGenerateStudyNotes, emptyInput("study content"))
		return domain.Failed[string](err, NoticeEmptyStudyContent)
	}

	return s.text(ctx, OpGenerateStudyNotes, ToolIDStudyNotes, generation.Request{
		SystemInstruction: prompt.StudyNotesInstruction,
		Prompt:            prompt.StudyNotesPrompt(content, mode),
	}, NoticeStudyNotesFailed)
}

// GenerateFlashcards implements Service.
func (s *assistantService) GenerateFlashcards(
	ctx context.Context,
	content string,
) domain.Result[domain.FlashcardSet] {
	content = strings.TrimSpace(content)
	if content == "" {
		err := s.rejected(ctx, OpGenerateFlashcards, emptyInput("flashcard content"))
		return domain.FailedWith(domain.EmptyFlashcardSet(), err, NoticeEmptyFlashcardContent)
	}

	start := time.Now()
	raw, err := s.model.GenerateJSON(ctx, generation.Request{
		SystemInstruction: prompt.FlashcardInstruction,
		Prompt:            content,
	}, generation.SchemaFlashcards)

	var set domain.FlashcardSet
	if err == nil {
		err = decodeJSON(raw, &set)
	}
	if err == nil {
		err = set.Validate()
	}
	if err != nil {
		s.fail(ctx, OpGenerateFlashcards, start, err)
		return domain.FailedWith(domain.EmptyFlashcardSet(), err, NoticeFlashcardsFailed)
	}

	s.succeed(ctx, OpGenerateFlashcards, ToolIDFlashcards, domain.SourceAIGenerated, start)
	return domain.Succeeded(set)
}

// EditDocumentImage implements Service.
func (s *assistantService) EditDocumentImage(
	ctx context.Context,
	image domain.ImageInput,
	instruction string,
) domain.Result[string] {
	if err := image.Validate(); err != nil {
		return domain.Failed[string](s.rejected(ctx, OpEditDocumentImage, err), NoticeMissingImage)
	}
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		err := s.rejected(ctx, OpEditDocumentImage, emptyInput("edit instruction"))
		return domain.Failed[string](err, NoticeMissingInstruction)
	}

	start := time.Now()
	edited, err := s.model.GenerateImage(ctx, generation.Request{
		SystemInstruction: prompt.DocumentEditInstruction,
		Prompt:            instruction,
		Image:             &generation.Image{Data: image.Data, MIMEType: image.MIMEType},
	})
	if err != nil {
		s.fail(ctx, OpEditDocumentImage, start, err)
		return domain.Failed[string](err, NoticeImageEditFailed)
	}

	s.succeed(ctx, OpEditDocumentImage, ToolIDDocumentEdit, domain.SourceAIGenerated, start)
	return domain.Succeeded(DataURI(edited.MIMEType, edited.Data))
}

// ExplainDocumentImage implements Service.
func (s *assistantService) ExplainDocumentImage(
	ctx context.Context,
	image domain.ImageInput,
) domain.Result[string] {
	if err := image.Validate(); err != nil {
		return domain.Failed[string](s.rejected(ctx, OpExplainDocumentImage, err), NoticeMissingImage)
	}

	return s.text(ctx, OpExplainDocumentImage, ToolIDDocumentExplain, generation.Request{
		SystemInstruction: prompt.DocumentExplain,
		Prompt:            explainDocumentUserTurn,
		Image:             &generation.Image{Data: image.Data, MIMEType: image.MIMEType},
	}, NoticeExplainFailed)
}

// InterpretDocumentOCR implements Service.
func (s *assistantService) InterpretDocumentOCR(
	ctx context.Context,
	image domain.ImageInput,
	learningMode string,
) domain.Result[*domain.OCRInterpretation] {
	if err := image.Validate(); err != nil {
		err = s.rejected(ctx, OpInterpretDocumentOCR, err)
		return domain.Failed[*domain.OCRInterpretation](err, NoticeMissingImage)
	}

	start := time.Now()
	raw, err := s.model.GenerateJSON(ctx, generation.Request{
		SystemInstruction: prompt.DocumentOCR(learningMode),
		Prompt:            ocrUserTurn,
		Image:             &generation.Image{Data: image.Data, MIMEType: image.MIMEType},
	}, generation.SchemaOCR)

	var interpretation domain.OCRInterpretation
	if err == nil {
		err = decodeJSON(raw, &interpretation)
	}
	if err == nil {
		err = interpretation.Validate()
	}
	if err != nil {
		s.fail(ctx, OpInterpretDocumentOCR, start, err)
		return domain.Failed[*domain.OCRInterpretation](err, NoticeOCRFailed)
	}

	s.succeed(ctx, OpInterpretDocumentOCR, ToolIDDocumentOCR, domain.SourceOCR, start)
	return domain.Succeeded(&interpretation)
}

// text runs a free-text generation and strips markdown from the result.
func (s *assistantService) text(
	ctx context.Context,
	operation, toolID string,
	req generation.Request,
	failureNotice string,
) domain.Result[string] {
	start := time.Now()
	out, err := s.model.GenerateText(ctx, req)
	if err == nil {
		out = prompt.StripMarkdown(out)
		if out == "" {
			err = fmt.Errorf("%w: nothing left after formatting", generation.ErrEmptyResponse)
		}
	}
	if err != nil {
		s.fail(ctx, operation, start, err)
		return domain.Failed[string](err, failureNotice)
	}

	s.succeed(ctx, operation, toolID, domain.SourceAIGenerated, start)
	return domain.Succeeded(out)
}

func (s *assistantService) succeed(
	ctx context.Context,
	operation, toolID string,
	source domain.ContentSource,
	start time.Time,
) {
	elapsed := time.Since(start)
	metrics.ObserveModelCall(operation, metrics.OutcomeSuccess, elapsed)
	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "model call succeeded",
		"operation", operation,
		"tool_id", toolID,
		"duration_ms", elapsed.Milliseconds())

	if s.emitter == nil {
		return
	}
	event := events.NewContentGeneratedEvent(events.LogKeyFromContext(ctx), source, toolID)
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).WarnContext(ctx, "failed to emit activity event",
			"operation", operation,
			"event_id", event.ID,
			"error", err)
	}
}

func (s *assistantService) fail(ctx context.Context, operation string, start time.Time, err error) {
	elapsed := time.Since(start)
	metrics.ObserveModelCall(operation, metrics.OutcomeFailure, elapsed)
	logger.FromContextOrDefault(ctx, s.logger).ErrorContext(ctx, "model call failed",
		"operation", operation,
		"duration_ms", elapsed.Milliseconds(),
		"error", redact.Error(err))
}

// rejected records an input-guard rejection and returns err.
func (s *assistantService) rejected(ctx context.Context, operation string, err error) error {
	metrics.ObserveModelCall(operation, metrics.OutcomeRejected, 0)
	logger.FromContextOrDefault(ctx, s.logger).DebugContext(ctx, "input rejected",
		"operation", operation,
		"reason", err.Error())
	return err
}

func emptyInput(what string) error {
	return fmt.Errorf("%w: %s", domain.ErrEmptyInput, what)
}

// decodeJSON parses a structured model response into v.
func decodeJSON(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}
	return nil
}

// DataURI encodes an image as a data URI.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
