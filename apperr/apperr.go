// Package apperr defines the error taxonomy shared by services and
// controllers. Every data-access and business-rule failure surfaces as
// one of these kinds; controllers map the kind to an HTTP status.
package apperr

import (
	"errors"
	"net/http"
)

// Kind categorizes a failure.
type Kind int

const (
	// Internal is an unexpected failure; surfaced as 500 with a generic message.
	Internal Kind = iota
	// NotFound means a referenced order, driver, product or zone does not exist.
	NotFound
	// InvalidState means a status/transition precondition was not met.
	InvalidState
	// PermissionDenied means an ownership or role check failed.
	PermissionDenied
	// Validation means required fields were missing or malformed.
	Validation
	// Conflict means a unique field would be duplicated.
	Conflict
)

// Error is a categorized application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error that preserves the underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, defaulting to Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// HTTPStatus maps an error to the HTTP status for the response boundary.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case NotFound:
		return http.StatusNotFound
	case InvalidState, Validation:
		return http.StatusBadRequest
	case PermissionDenied:
		return http.StatusForbidden
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
