// Package apperrors defines the error taxonomy shared by validation, the
// reservation state machine and the workflow services. Handlers translate
// these errors into HTTP status codes with HTTPStatus.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a workflow failure.
type Kind int

const (
	// KindInvalid covers malformed or rule-breaking input.
	KindInvalid Kind = iota + 1
	// KindConflict covers requests that clash with the current state of a record.
	KindConflict
	// KindNotFound is returned when a referenced id does not exist.
	KindNotFound
	// KindMethodNotAllowed is returned for an operation a route does not define.
	KindMethodNotAllowed
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "internal"
	}
}

// Error is a classified, user-facing failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Invalid builds a KindInvalid error.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a KindConflict error.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// MethodNotAllowed builds a KindMethodNotAllowed error.
func MethodNotAllowed(format string, args ...any) *Error {
	return &Error{Kind: KindMethodNotAllowed, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or 0 when err is not classified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps err to the status code returned to the client.
// Unclassified errors are internal failures.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalid, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to a client. Internal
// errors are never echoed back.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
