package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/monitize/monitize-api/internal/api/shared"
	"github.com/monitize/monitize-api/internal/domain"
	"github.com/monitize/monitize-api/internal/events"
	"github.com/monitize/monitize-api/internal/inflight"
	"github.com/monitize/monitize-api/internal/platform/logger"
	"github.com/monitize/monitize-api/internal/service/auth"
)

// SessionHeader lets anonymous clients opt in to superseding their own
// in-flight requests.
const SessionHeader = "X-Session-ID"

// multipartOverhead is the allowance for form boundaries and text fields on
// top of the image size limit.
const multipartOverhead = 64 << 10

// imageField is the multipart field carrying the document image.
const imageField = "image"

// supportedImageTypes are the sniffed types the model accepts as input.
var supportedImageTypes = []string{
	"image/png",
	"image/jpeg",
	"image/webp",
	"image/heic",
	"image/heif",
}

// decodeJSONRequest decodes and validates a JSON body, writing a 4xx
// response on failure. It reports whether the handler should continue.
func decodeJSONRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if !errors.As(err, &maxBytesErr) && !errors.Is(err, shared.ErrEmptyBody) {
			err = fmt.Errorf("%w: %v", ErrMalformedRequest, err)
		}
		HandleAPIError(w, r, err, "")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// readImageUpload parses a multipart request and returns the sniffed image.
// The size limit is enforced before the image is inspected. A missing or
// empty image yields a zero ImageInput and no error so the contract layer
// can answer with its guidance notice.
func readImageUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (domain.ImageInput, error) {
	if r.ContentLength > maxBytes+multipartOverhead {
		return domain.ImageInput{}, fmt.Errorf("%w: content length %d", ErrPayloadTooLarge, r.ContentLength)
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return domain.ImageInput{}, fmt.Errorf("%w: %v", ErrPayloadTooLarge, err)
		}
		return domain.ImageInput{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}

	file, header, err := r.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return domain.ImageInput{}, nil
	}
	if err != nil {
		return domain.ImageInput{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxBytes {
		return domain.ImageInput{}, fmt.Errorf("%w: image is %d bytes", ErrPayloadTooLarge, header.Size)
	}

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return domain.ImageInput{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if int64(len(data)) > maxBytes {
		return domain.ImageInput{}, fmt.Errorf("%w: image exceeds %d bytes", ErrPayloadTooLarge, maxBytes)
	}
	if len(data) == 0 {
		return domain.ImageInput{}, nil
	}

	detected := mimetype.Detect(data)
	if !mimetype.EqualsAny(detected.String(), supportedImageTypes...) {
		return domain.ImageInput{}, fmt.Errorf("%w: detected %s", ErrUnsupportedMediaType, detected.String())
	}

	return domain.ImageInput{Data: data, MIMEType: detected.String()}, nil
}

// logKey returns the activity log key resolved by the auth middleware, or
// fallback when the request bypassed it.
func logKey(r *http.Request, fallback string) string {
	if key := events.LogKeyFromContext(r.Context()); key != "" {
		return key
	}
	return fallback
}

// requestSlot names the generation slot for operation. Authenticated
// learners are keyed by learner ID; anonymous clients only when they send a
// well-formed session header. An empty slot disables tracking.
func requestSlot(r *http.Request, operation string) string {
	owner, ok := shared.GetLearnerID(r.Context())
	if !ok {
		session := strings.TrimSpace(r.Header.Get(SessionHeader))
		if !auth.ValidLearnerID(session) {
			return ""
		}
		owner = "session:" + session
	}
	return owner + "/" + operation
}

// runTracked calls fn under a new generation of the request's slot. If a
// newer request on the same slot began while fn ran, the result is dropped
// and ErrStaleRequest is returned. Activity events raised by fn are held
// until the result is known to be kept, so a dropped result is never
// recorded as generated.
func runTracked[T any](
	tracker *inflight.Tracker,
	r *http.Request,
	operation string,
	fn func(ctx context.Context) T,
) (T, error) {
	slot := requestSlot(r, operation)
	if tracker == nil || slot == "" {
		return fn(r.Context()), nil
	}

	ctx, ticket := tracker.Begin(r.Context(), slot)
	defer tracker.Done(ticket)
	ctx, batch := events.WithBatch(ctx)

	out := fn(ctx)
	log := logger.FromContext(r.Context())
	if !tracker.Current(ticket) {
		if n := batch.Discard(); n > 0 {
			log.DebugContext(r.Context(), "dropped activity of superseded request",
				"operation", operation, "events", n)
		}
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrStaleRequest, operation)
	}
	if err := batch.Release(r.Context()); err != nil {
		log.WarnContext(r.Context(), "failed to record activity", "operation", operation, "error", err)
	}
	return out, nil
}
