package kvserrors

import (
	"errors"
	"fmt"
)

// Error is the single error type kvsd uses for every Kind in the
// taxonomy. It carries an optional cause, a short human-readable
// message, and a bag of structured details for logging — modeled on
// the teacher corpus's baseError/StorageError split, collapsed into one
// type because kvsd's taxonomy is a flat enum rather than one struct
// per subsystem.
type Error struct {
	cause   error
	message string
	kind    Kind
	details map[string]any
}

// New creates an Error of the given Kind wrapping cause, with message
// as the human-readable description.
func New(cause error, kind Kind, message string) *Error {
	return &Error{cause: cause, kind: kind, message: message}
}

// WithDetail attaches a structured field to the error, for logging.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.details == nil {
		e.details = make(map[string]any, 4)
	}
	e.details[key] = value
	return e
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the error's taxonomy category.
func (e *Error) Kind() Kind {
	return e.kind
}

// Details returns the structured fields attached to the error.
func (e *Error) Details() map[string]any {
	return e.details
}

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	var ke *Error
	if errors.As(err, &ke) {
		return ke.kind == kind
	}
	return false
}

// KindOf extracts the Kind of err, defaulting to General if err does
// not carry one.
func KindOf(err error) Kind {
	var ke *Error
	if errors.As(err, &ke) {
		return ke.kind
	}
	return General
}
