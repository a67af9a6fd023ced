package llm

import "context"

// MockClient is a configurable mock for testing LLM-backed services.
// Set CompleteFunc to control behavior; call counts support cache-correctness
// assertions.
type MockClient struct {
	// CompleteFunc is called when Complete is invoked.
	// If nil, Complete returns "{}" and nil error.
	CompleteFunc func(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// CompleteCalls counts invocations, for verification.
	CompleteCalls int

	// LastPrompt and LastSystemMessage capture the most recent request.
	LastPrompt        string
	LastSystemMessage string
}

// NewMockClient creates a mock with defaults.
func NewMockClient() *MockClient {
	return &MockClient{ModelName: "mock-model"}
}

var _ Client = (*MockClient)(nil)

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error) {
	m.CompleteCalls++
	m.LastPrompt = prompt
	m.LastSystemMessage = systemMessage
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt, systemMessage, temperature)
	}
	return "{}", nil
}

// Model implements Client.
func (m *MockClient) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}
