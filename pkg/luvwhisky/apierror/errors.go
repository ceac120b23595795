// Package apierror defines the error kinds surfaced by the API and how they
// map to HTTP responses.
//
// Services return typed errors:
//
//	return apierror.Conflict("category name already exists")
//
// and handlers check them with errors.Is or just hand them to Respond:
//
//	if errors.Is(err, apierror.ErrNotFound) { ... }
//	apierror.Respond(c, err)
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a machine-readable error code.
type Kind string

const (
	KindValidation  Kind = "VALIDATION"
	KindNotFound    Kind = "NOT_FOUND"
	KindConflict    Kind = "CONFLICT"
	KindUpstream    Kind = "UPSTREAM_FAILURE"
	KindAuth        Kind = "AUTH_FAILURE"
	KindRateLimited Kind = "RATE_LIMITED"
	KindInternal    Kind = "INTERNAL"
)

// HTTPStatus returns the status code a kind is reported with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	case KindAuth:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is an API error with a kind, a short message and optional details.
type Error struct {
	Kind    Kind   `json:"code"`
	Message string `json:"error"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Details: e.Details, cause: err}
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Details: details, cause: e.cause}
}

// Sentinels for errors.Is.
var (
	ErrValidation  = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrNotFound    = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict    = &Error{Kind: KindConflict, Message: "conflict"}
	ErrUpstream    = &Error{Kind: KindUpstream, Message: "upstream failure"}
	ErrAuth        = &Error{Kind: KindAuth, Message: "authentication failed"}
	ErrRateLimited = &Error{Kind: KindRateLimited, Message: "too many requests"}
	ErrInternal    = &Error{Kind: KindInternal, Message: "internal error"}
)

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Conflict creates a conflict error.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Upstream creates an error for a failing store or media backend.
func Upstream(msg string) *Error {
	return &Error{Kind: KindUpstream, Message: msg}
}

// Auth creates an authentication error.
func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

// RateLimited creates a rate limit error.
func RateLimited(msg string) *Error {
	return &Error{Kind: KindRateLimited, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Kind: KindInternal, Message: msg}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
