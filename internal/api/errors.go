package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error and fixes its externally visible status.
type Kind string

const (
	KindValidation           Kind = "validation"
	KindNotFound             Kind = "not_found"
	KindConflict             Kind = "conflict"
	KindExpired              Kind = "expired"
	KindInsufficientSessions Kind = "insufficient_sessions"
	KindPartialFailure       Kind = "partial_failure"
	KindIntegrity            Kind = "integrity"
)

// Error is the tagged error type returned across the purchase and booking
// core. Callers branch on Kind, never on message text.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindInsufficientSessions:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Validationf(format string, v ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, v...)}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Expired(msg string) *Error {
	return &Error{Kind: KindExpired, Message: msg}
}

func InsufficientSessions(msg string) *Error {
	return &Error{Kind: KindInsufficientSessions, Message: msg}
}

// PartialFailure marks a sequence that left a durable primary record behind
// but failed a secondary write. Operators reconcile these by hand.
func PartialFailure(msg string, cause error) *Error {
	return &Error{Kind: KindPartialFailure, Message: msg, cause: cause}
}

// Integrity wraps an unexpected store failure.
func Integrity(op string, cause error) *Error {
	return &Error{Kind: KindIntegrity, Message: fmt.Sprintf("%s: unexpected store failure", op), cause: cause}
}

// KindOf extracts the Kind from err, or KindIntegrity for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindIntegrity
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// StatusOf maps err to its HTTP status, defaulting to 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}
