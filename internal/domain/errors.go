package domain

import (
	"errors"
	"fmt"
)

// Error codes surfaced at the HTTP boundary.
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeInvariant      = "INVARIANT_VIOLATION"
	ErrCodeInternalServer = "INTERNAL_SERVER_ERROR"
)

// InputError is a rejected-request error: the caller submitted a payload that
// fails structural or enum validation. It is reported, never retried.
type InputError struct {
	Reason string
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return e.Reason
}

// NewInputError builds an InputError with a human-readable reason.
func NewInputError(format string, args ...any) *InputError {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// IsInputError reports whether err is (or wraps) an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// InvariantError marks a defect in the pipeline itself: an internally
// constructed value violated a guaranteed property. It aborts the single
// request's computation and is never caller-attributable.
type InvariantError struct {
	Reason string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return "invariant violation: " + e.Reason
}

// NewInvariantError builds an InvariantError with a formatted reason.
func NewInvariantError(format string, args ...any) *InvariantError {
	return &InvariantError{Reason: fmt.Sprintf(format, args...)}
}

// IsInvariantError reports whether err is (or wraps) an InvariantError.
func IsInvariantError(err error) bool {
	var ve *InvariantError
	return errors.As(err, &ve)
}
