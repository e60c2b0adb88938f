// Package apperr defines the error values the HTTP surface maps to status codes.
package apperr

import (
	"errors"
	"net/http"
)

// Code classifies an Error.
type Code string

const (
	CodeInvalidRequest   Code = "invalid_request"
	CodeCompletionFailed Code = "completion_failed"
	CodeInternal         Code = "internal"
)

// Error is a classified application error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// New creates an Error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error around err.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the code to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// From returns err as an *Error, classifying unknown errors as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(CodeInternal, "internal error", err)
}
