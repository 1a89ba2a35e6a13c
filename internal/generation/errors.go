package generation

import "errors"

// Common errors returned by Model implementations.
var (
	// ErrGenerationFailed is returned when generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate content")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrEmptyResponse is returned when the LLM returns no usable text
	ErrEmptyResponse = errors.New("empty response from language model")

	// ErrNoImage is returned when an image request yields no inline image part
	ErrNoImage = errors.New("no image in language model response")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the model configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
