package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/monitize/monitize-api/internal/api/shared"
	"github.com/monitize/monitize-api/internal/domain"
	"github.com/monitize/monitize-api/internal/generation"
	"github.com/monitize/monitize-api/internal/service/auth"
	"github.com/monitize/monitize-api/internal/store"
)

// Errors raised by the HTTP layer itself.
var (
	// ErrStaleRequest is returned when a newer request on the same slot
	// finished first or superseded this one.
	ErrStaleRequest = errors.New("request superseded by a newer one")

	// ErrPayloadTooLarge is returned when an upload exceeds the size limit.
	ErrPayloadTooLarge = errors.New("upload exceeds size limit")

	// ErrUnsupportedMediaType is returned when an upload is not an image.
	ErrUnsupportedMediaType = errors.New("upload is not a supported image")

	// ErrMalformedRequest is returned when a body cannot be decoded.
	ErrMalformedRequest = errors.New("malformed request")
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidLearnerID):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrActivityLogNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrStaleRequest):
		return http.StatusConflict

	case errors.Is(err, ErrPayloadTooLarge), errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType

	case errors.Is(err, ErrMalformedRequest),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyInput),
		errors.Is(err, domain.ErrInvalidImage),
		errors.Is(err, domain.ErrInvalidActionType),
		errors.Is(err, domain.ErrInvalidContentSource),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-friendly message for err that carries
// no internal detail.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidLearnerID):
		return "Invalid token"

	case errors.Is(err, store.ErrActivityLogNotFound), errors.Is(err, store.ErrNotFound):
		return "Activity log not found"

	case errors.Is(err, ErrStaleRequest):
		return "Superseded by a newer request"

	case errors.Is(err, ErrPayloadTooLarge), errors.As(err, &maxBytesErr):
		return "Upload is too large"

	case errors.Is(err, ErrUnsupportedMediaType):
		return "Upload must be an image"

	case errors.Is(err, ErrMalformedRequest), errors.Is(err, shared.ErrEmptyBody):
		return "Invalid request format"

	case errors.Is(err, domain.ErrInvalidActionType):
		return "Invalid action type"
	case errors.Is(err, domain.ErrInvalidContentSource):
		return "Invalid content source"
	case errors.Is(err, domain.ErrInvalidImage):
		return "Invalid image"
	case errors.Is(err, domain.ErrEmptyInput):
		return "Input cannot be empty"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, store.ErrUnavailable):
		return "Activity storage is temporarily unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// message overrides the mapped one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), message, err)
}

// SanitizeValidationError turns validator failures into a message naming
// only the first offending field and rule.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	if fe.Tag() == "" {
		return fmt.Sprintf("Invalid %s", fe.Field())
	}
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "excludesall", "alphanumunicode", "printascii":
		return "contains unsupported characters"
	default:
		return "validation failed"
	}
}

// reasonFor classifies a contract failure for the reason field of a tool
// response.
func reasonFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrEmptyInput):
		return ReasonEmptyInput
	case errors.Is(err, domain.ErrUnknownTool):
		return ReasonUnknownTool
	case errors.Is(err, domain.ErrInvalidImage):
		return ReasonInvalidImage
	case errors.Is(err, generation.ErrContentBlocked):
		return ReasonContentBlocked
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrEmptyResponse),
		errors.Is(err, generation.ErrNoImage),
		errors.Is(err, domain.ErrValidation):
		return ReasonInvalidResponse
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCancelled
	default:
		return ReasonModelUnavailable
	}
}
