package apperrors

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrMissingReference means a page has no linked centre with a reference
	// URL, so there is nothing to compare against. This is the one fatal
	// precondition of a scan.
	ErrMissingReference = errors.New("page has no official reference URL")

	ErrConflict = errors.New("conflict")
)
