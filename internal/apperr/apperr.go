// Package apperr defines the application error taxonomy. Every service
// operation fails with exactly one of these kinds; handlers map them to
// HTTP status codes and a {status, message} JSON body. Underlying causes
// stay wrapped and are never shown to clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application failure.
type Kind int

const (
	KindValidation Kind = iota // bad input shape, uniqueness violation, invalid/expired reset token
	KindAuth                   // bad credentials, invalid/expired session token, password changed since issue
	KindForbidden              // role not permitted
	KindNotFound               // no matching account/resource
	KindDispatch               // email delivery failure
	KindInternal               // unexpected fault
)

// Error carries a failure kind and a client-safe message. Err, when set,
// is the underlying cause for logs only.
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

func (e *Error) Unwrap() error { return e.Err }

// Status maps the kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func Auth(msg string) *Error       { return &Error{Kind: KindAuth, Message: msg} }
func Forbidden(msg string) *Error  { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }

// Dispatch wraps an email delivery failure.
func Dispatch(msg string, err error) *Error {
	return &Error{Kind: KindDispatch, Message: msg, Err: err}
}

// Internal wraps an unexpected fault behind a generic client message.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// StatusOf returns the HTTP status for err, defaulting to 500 for
// anything outside the taxonomy.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status()
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-safe message for err. Errors outside the
// taxonomy get a generic message so internals never leak.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Internal server error"
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, k Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == k
}
