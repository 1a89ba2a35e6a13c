package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/monitize/monitize-api/internal/activity"
	"github.com/monitize/monitize-api/internal/api/shared"
	"github.com/monitize/monitize-api/internal/events"
	"github.com/monitize/monitize-api/internal/platform/logger"
	"github.com/monitize/monitize-api/internal/redact"
	"github.com/monitize/monitize-api/internal/service/auth"
)

// AuthMiddleware identifies learners from optional bearer tokens.
type AuthMiddleware struct {
	jwtService auth.JWTService
	baseKey    string
}

// NewAuthMiddleware creates an AuthMiddleware. baseKey is the activity log
// storage key; authenticated learners get their own key derived from it.
func NewAuthMiddleware(jwtService auth.JWTService, baseKey string) *AuthMiddleware {
	if baseKey == "" {
		baseKey = activity.DefaultKey
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		baseKey:    baseKey,
	}
}

// Authenticate resolves the learner behind a request. Requests without an
// Authorization header continue anonymously with the base log key. A header
// that is present but malformed, expired or otherwise invalid is rejected
// with 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			ctx := events.WithLogKey(r.Context(), m.baseKey)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrTokenNotYetValid),
				errors.Is(err, auth.ErrWrongTokenType),
				errors.Is(err, auth.ErrInvalidLearnerID):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				logger.FromContext(r.Context()).Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}
		if claims == nil || !auth.ValidLearnerID(claims.LearnerID) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := shared.SetLearnerID(r.Context(), claims.LearnerID)
		ctx = events.WithLogKey(ctx, activity.KeyFor(m.baseKey, claims.LearnerID))
		ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With("learner_id", claims.LearnerID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetLearnerID extracts the learner ID from the request context.
// ok is false for anonymous requests.
func GetLearnerID(r *http.Request) (string, bool) {
	return shared.GetLearnerID(r.Context())
}
