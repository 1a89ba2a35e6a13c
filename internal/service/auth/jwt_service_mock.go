package auth

import (
	"context"
	"time"
)

// MockJWTService is a function-field implementation of JWTService for tests
// in other packages.
type MockJWTService struct {
	GenerateTokenFunc func(ctx context.Context, learnerID string) (string, error)
	ValidateTokenFunc func(ctx context.Context, tokenString string) (*Claims, error)

	// Fixed fields for simple cases
	Token           string
	TokenError      error
	ValidationError error
	Claims          *Claims
}

var _ JWTService = (*MockJWTService)(nil)

// NewMockJWTServiceFor returns a mock that accepts any token as learnerID.
func NewMockJWTServiceFor(learnerID string) *MockJWTService {
	now := time.Now()
	return &MockJWTService{
		Token: "mock-learner-token",
		Claims: &Claims{
			LearnerID: learnerID,
			TokenType: TokenTypeLearner,
			IssuedAt:  now,
			ExpiresAt: now.Add(time.Hour),
			ID:        "mock-token-id",
		},
	}
}

// GenerateToken implements JWTService.
func (m *MockJWTService) GenerateToken(ctx context.Context, learnerID string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(ctx, learnerID)
	}
	return m.Token, m.TokenError
}

// ValidateToken implements JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, tokenString)
	}
	if m.ValidationError != nil {
		return nil, m.ValidationError
	}
	return m.Claims, nil
}
