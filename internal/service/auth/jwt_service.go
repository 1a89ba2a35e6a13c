// Package auth issues and validates the bearer tokens that identify learners.
// Tokens are optional: requests without one use the anonymous activity log.
package auth

import (
	"context"
	"regexp"
	"time"
)

// TokenTypeLearner marks tokens that identify a learner.
const TokenTypeLearner = "learner"

// JWTService defines operations for managing learner tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT identifying learnerID.
	GenerateToken(ctx context.Context, learnerID string) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns an error if validation fails (expired, invalid signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated content of a learner token.
type Claims struct {
	// LearnerID is the identifier the token was issued for (the JWT subject).
	LearnerID string `json:"sub,omitempty"`

	// TokenType indicates the purpose of the token.
	TokenType string `json:"type,omitempty"`

	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

var learnerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidLearnerID reports whether id can be used as a learner identifier.
// Learner IDs become part of storage keys, so the alphabet is restricted.
func ValidLearnerID(id string) bool {
	return learnerIDPattern.MatchString(id)
}
