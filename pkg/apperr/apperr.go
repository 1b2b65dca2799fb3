// Package apperr defines the error kinds surfaced to API callers.
//
// Services return *apperr.Error; transports map the Kind to a status code.
// Anything that is not an *Error is treated as Internal.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	Internal Kind = iota
	Conflict
	Unauthorized
	Forbidden
	NotFound
	ValidationFailed
	InvalidTransition
)

func (k Kind) String() string {
	switch k {
	case Conflict:
		return "conflict"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case ValidationFailed:
		return "validation_failed"
	case InvalidTransition:
		return "invalid_transition"
	default:
		return "internal"
	}
}

// HTTPStatus returns the status code a transport should use for k.
func (k Kind) HTTPStatus() int {
	switch k {
	case Conflict:
		return http.StatusConflict
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case ValidationFailed, InvalidTransition:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified, caller-facing failure.
type Error struct {
	Kind    Kind
	Message string
	// Fields holds per-field messages for ValidationFailed.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind with a caller-facing message.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFoundf(format string, args ...any) *Error { return New(NotFound, format, args...) }
func Conflictf(format string, args ...any) *Error { return New(Conflict, format, args...) }
func Unauthorizedf(format string, args ...any) *Error {
	return New(Unauthorized, format, args...)
}
func Forbiddenf(format string, args ...any) *Error { return New(Forbidden, format, args...) }
func InvalidTransitionf(format string, args ...any) *Error {
	return New(InvalidTransition, format, args...)
}

// Validation builds a ValidationFailed error carrying field messages.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: ValidationFailed, Message: "Validation failed", Fields: fields}
}

// KindOf returns the Kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
