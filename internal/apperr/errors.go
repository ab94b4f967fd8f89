// Package apperr defines the error kinds shared by services and handlers and
// maps them to HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrValidation           = errors.New("validation error")
	ErrOTPRequired          = errors.New("phone verification required")
	ErrOTPNotFoundOrExpired = errors.New("invalid or expired otp")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrStorage              = errors.New("storage error")
	ErrNotification         = errors.New("notification error")
)

// Error carries a client-facing message, its kind, and an optional cause.
type Error struct {
	kind error
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil && e.msg != "" {
		return e.msg + ": " + e.err.Error()
	}
	if e.msg != "" {
		return e.msg
	}
	if e.err != nil {
		return e.kind.Error() + ": " + e.err.Error()
	}
	return e.kind.Error()
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

// Message is the text safe to show to API clients.
func (e *Error) Message() string {
	if e.msg != "" {
		return e.msg
	}
	return e.kind.Error()
}

// Kind returns the sentinel this error belongs to.
func (e *Error) Kind() error { return e.kind }

func New(kind error, msg string) error {
	return &Error{kind: kind, msg: msg}
}

func Wrap(kind error, msg string, err error) error {
	return &Error{kind: kind, msg: msg, err: err}
}

func Validation(msg string) error { return New(ErrValidation, msg) }

func NotFound(msg string) error { return New(ErrNotFound, msg) }

func Forbidden(msg string) error { return New(ErrForbidden, msg) }

// Storage wraps a database failure. The message names the operation only.
func Storage(op string, err error) error {
	return Wrap(ErrStorage, op, err)
}

// StatusCode maps an error to the HTTP status the API answers with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrOTPRequired),
		errors.Is(err, ErrOTPNotFoundOrExpired):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message for the response body. Internal failures
// never leak their cause.
func PublicMessage(err error) string {
	if StatusCode(err) >= http.StatusInternalServerError {
		return "internal server error"
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message()
	}
	return err.Error()
}
