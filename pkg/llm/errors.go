package llm

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a classified LLM failure.
type Error struct {
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable implements the retry.RetryableError interface, letting the retry
// package check retryability without importing this package.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// ClassifyError wraps a provider error with a retryability decision.
// Rate limits, timeouts, and upstream overload are transient; auth and
// malformed-request failures are permanent.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	lower := strings.ToLower(err.Error())

	switch {
	case strings.Contains(lower, "429"),
		strings.Contains(lower, "rate limit"),
		strings.Contains(lower, "overloaded"),
		strings.Contains(lower, "timeout"),
		strings.Contains(lower, "timed out"),
		strings.Contains(lower, "connection"),
		strings.Contains(lower, "500"),
		strings.Contains(lower, "502"),
		strings.Contains(lower, "503"):
		return &Error{Message: "transient LLM failure", Retryable: true, Cause: err}
	case strings.Contains(lower, "401"),
		strings.Contains(lower, "403"),
		strings.Contains(lower, "invalid api key"),
		strings.Contains(lower, "authentication"):
		return &Error{Message: "LLM authentication failed", Retryable: false, Cause: err}
	default:
		return &Error{Message: "LLM request failed", Retryable: false, Cause: err}
	}
}
