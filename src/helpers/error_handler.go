package helpers

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type TraderError struct {
	Message string
	Cause   error
}

func (e *TraderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TraderError) Unwrap() error {
	return e.Cause
}

// Distinct error types for the core failure taxonomy.
// UpstreamError: remote API network/HTTP/schema failure, always recoverable.
// PersistenceError: storage I/O failure, never aborts a batch.
// NotFoundError: no data for a valid query, a normal negative result.
// InvalidInputError: rejected before any I/O.
type UpstreamError struct{ TraderError }
type PersistenceError struct{ TraderError }
type NotFoundError struct{ TraderError }
type InvalidInputError struct{ TraderError }

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

func NewUpstreamError(message string, cause error) *UpstreamError {
	return &UpstreamError{TraderError{Message: message, Cause: cause}}
}

func NewPersistenceError(message string, cause error) *PersistenceError {
	return &PersistenceError{TraderError{Message: message, Cause: cause}}
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{TraderError{Message: message}}
}

func NewInvalidInputError(message string) *InvalidInputError {
	return &InvalidInputError{TraderError{Message: message}}
}

// -----------------------------------------------------------------------------
// Classification helpers (used by the HTTP layer to map errors to statuses)
// -----------------------------------------------------------------------------

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target *UpstreamError
	return errors.As(err, &target)
}
