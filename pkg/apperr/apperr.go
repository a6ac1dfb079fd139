package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error. It is set once, at the point where
// the condition is detected, and is never inferred from message text.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindNotFound
	KindConflict
)

// Error is the tagged application error carried across layers. Layers may
// wrap it with additional context but must not change its Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidInput reports a missing or malformed caller-supplied value.
func InvalidInput(message string) error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

// InvalidInputf formats an InvalidInput error.
func InvalidInputf(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports an absent resource.
func NotFound(resource string) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// Conflict reports a uniqueness or state clash.
func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps an unexpected failure. The cause is preserved for
// diagnostics but is not exposed verbatim at the HTTP boundary.
func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// Wrap adds context to err, preserving its Kind when it already carries one.
func Wrap(message string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return &Error{Kind: appErr.Kind, Message: message, Err: err}
	}
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the Kind of err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error kind to its boundary status code. Only the HTTP
// layer calls this; services deal in Kinds exclusively.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show callers. Internal causes
// stay in the log; everything else surfaces its own message.
func PublicMessage(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return "internal server error"
	}
	if appErr.Kind == KindInternal {
		return "internal server error"
	}
	return appErr.Message
}
