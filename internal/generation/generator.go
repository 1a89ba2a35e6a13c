package generation

import (
	"context"
)

// Image is an inline image payload exchanged with the model.
type Image struct {
	Data     []byte
	MIMEType string
}

// Request describes a single model invocation.
type Request struct {
	// SystemInstruction is the behavioral preamble for the model.
	SystemInstruction string

	// Prompt is the user turn text. It may be empty when Image carries the input.
	Prompt string

	// Image is an optional inline image sent alongside the prompt.
	Image *Image

	// Temperature overrides the configured sampling temperature when non-nil.
	Temperature *float32
}

// Schema names a structured response contract the model output must follow.
type Schema string

// Supported response schemas.
const (
	SchemaFlashcards Schema = "flashcard_set"
	SchemaOCR        Schema = "ocr_interpretation"
)

// Model defines the interface for the external generative model.
// This interface serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
type Model interface {
	// GenerateText returns the concatenated text parts of the response.
	GenerateText(ctx context.Context, req Request) (string, error)

	// GenerateJSON asks for application/json output constrained to schema
	// and returns the raw JSON text. Callers decode and validate it.
	GenerateJSON(ctx context.Context, req Request, schema Schema) ([]byte, error)

	// GenerateImage sends req to the image-capable model variant and returns
	// the first inline image in the response, or ErrNoImage.
	GenerateImage(ctx context.Context, req Request) (*Image, error)
}
