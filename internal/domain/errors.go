package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyInput is returned when the text or image a tool needs is missing.
	ErrEmptyInput = errors.New("input cannot be empty")

	// ErrUnknownTool is returned when a tool kind is not part of the registry.
	ErrUnknownTool = errors.New("unknown tool kind")

	// ErrInvalidActionType is returned when an audit action type is not valid.
	ErrInvalidActionType = errors.New("invalid action type")

	// ErrInvalidContentSource is returned when an audit content source is not valid.
	ErrInvalidContentSource = errors.New("invalid content source")

	// ErrInvalidImage is returned when an image payload has no bytes or no MIME type.
	ErrInvalidImage = errors.New("invalid image payload")
)
