package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the stable machine-readable error code surfaced in API responses.
type Code string

const (
	CodeValidation         Code = "ValidationError"
	CodeBadRequest         Code = "BadRequest"
	CodeInvalidCredentials Code = "InvalidCredentials"
	CodeForbidden          Code = "Forbidden"
	CodeNotFound           Code = "NotFound"
	CodeConflict           Code = "Conflict"
	CodeNotEnoughInventory Code = "NotEnoughInventory"
	CodeServer             Code = "ServerError"
)

// Error is the single domain error type. Services raise it at the point of
// detection; the API layer translates it to an HTTP status exactly once.
type Error struct {
	Code    Code
	Message string
	Details []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Validation(message string, details []string) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

func BadRequest(message string) *Error {
	return New(CodeBadRequest, message)
}

func InvalidCredentials(message string) *Error {
	return New(CodeInvalidCredentials, message)
}

func Forbidden(message string) *Error {
	return New(CodeForbidden, message)
}

func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

func NotEnoughInventory(message string) *Error {
	return New(CodeNotEnoughInventory, message)
}

// From extracts an *Error from err, wrapping anything unrecognized as a
// ServerError so internal detail never leaks past the boundary.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{
		Code:    CodeServer,
		Message: "Unexpected error occurred",
		Details: []string{err.Error()},
	}
}

// Status maps an error code to its HTTP status.
func (e *Error) Status() int {
	switch e.Code {
	case CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeNotEnoughInventory:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}
