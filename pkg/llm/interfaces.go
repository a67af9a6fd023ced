// Package llm provides the language-model boundary used for fact extraction
// and comparison. Callers treat the model as a black box: prompt in, text out,
// fallible. Malformed or absent JSON in a response is a recoverable failure,
// never process-fatal.
package llm

import "context"

// Client is the contract the engine requires from a language-model provider.
// Use this interface for dependency injection to enable mocking in tests.
type Client interface {
	// Complete generates a completion for the prompt. Implementations should
	// nudge the provider toward JSON output where the API supports it, but
	// callers must still parse defensively (see ParseJSONResponse).
	Complete(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error)

	// Model returns the configured model name, for logging.
	Model() string
}
