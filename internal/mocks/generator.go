package mocks

import (
	"context"
	"sync"

	"github.com/monitize/monitize-api/internal/generation"
)

// ModelCall records one invocation of a MockModel method.
type ModelCall struct {
	// Method is "GenerateText", "GenerateJSON" or "GenerateImage"
	Method string

	// Request is the request passed to the call
	Request generation.Request

	// Schema is set for GenerateJSON calls
	Schema generation.Schema
}

// MockModel implements generation.Model for testing
type MockModel struct {
	// GenerateTextFn allows test cases to mock the GenerateText behavior
	GenerateTextFn func(ctx context.Context, req generation.Request) (string, error)

	// GenerateJSONFn allows test cases to mock the GenerateJSON behavior
	GenerateJSONFn func(ctx context.Context, req generation.Request, schema generation.Schema) ([]byte, error)

	// GenerateImageFn allows test cases to mock the GenerateImage behavior
	GenerateImageFn func(ctx context.Context, req generation.Request) (*generation.Image, error)

	// Default response values
	Text  string
	JSON  []byte
	Image *generation.Image
	Err   error

	// mu protects the call tracking state for concurrent test cases
	mu    sync.Mutex
	calls []ModelCall
}

var _ generation.Model = (*MockModel)(nil)

// GenerateText implements the generation.Model interface
func (m *MockModel) GenerateText(ctx context.Context, req generation.Request) (string, error) {
	m.record(ModelCall{Method: "GenerateText", Request: req})

	if m.GenerateTextFn != nil {
		return m.GenerateTextFn(ctx, req)
	}
	return m.Text, m.Err
}

// GenerateJSON implements the generation.Model interface
func (m *MockModel) GenerateJSON(
	ctx context.Context,
	req generation.Request,
	schema generation.Schema,
) ([]byte, error) {
	m.record(ModelCall{Method: "GenerateJSON", Request: req, Schema: schema})

	if m.GenerateJSONFn != nil {
		return m.GenerateJSONFn(ctx, req, schema)
	}
	return m.JSON, m.Err
}

// GenerateImage implements the generation.Model interface
func (m *MockModel) GenerateImage(ctx context.Context, req generation.Request) (*generation.Image, error) {
	m.record(ModelCall{Method: "GenerateImage", Request: req})

	if m.GenerateImageFn != nil {
		return m.GenerateImageFn(ctx, req)
	}
	return m.Image, m.Err
}

func (m *MockModel) record(call ModelCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

// Calls returns a copy of the recorded calls.
func (m *MockModel) Calls() []ModelCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ModelCall(nil), m.calls...)
}

// CallCount returns how many model calls were made.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastCall returns the most recent call, or false if none was made.
func (m *MockModel) LastCall() (ModelCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return ModelCall{}, false
	}
	return m.calls[len(m.calls)-1], true
}

// NewMockModelWithText creates a MockModel whose text calls return text
func NewMockModelWithText(text string) *MockModel {
	return &MockModel{Text: text}
}

// NewMockModelWithJSON creates a MockModel whose JSON calls return raw
func NewMockModelWithJSON(raw string) *MockModel {
	return &MockModel{JSON: []byte(raw)}
}

// NewMockModelWithError creates a MockModel that fails every call with err
func NewMockModelWithError(err error) *MockModel {
	return &MockModel{Err: err}
}

// MockModelThatFails simulates a transport failure
func MockModelThatFails() *MockModel {
	return NewMockModelWithError(generation.ErrGenerationFailed)
}

// MockModelWithContentBlocked simulates content being blocked
func MockModelWithContentBlocked() *MockModel {
	return NewMockModelWithError(generation.ErrContentBlocked)
}

// Reset resets the call tracking state
func (m *MockModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
