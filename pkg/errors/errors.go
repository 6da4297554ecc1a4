// Package errors provides structured error types for schemamap.
//
// Every failure the layout engine can surface carries a machine-readable
// [Code] so that the CLI, the HTTP server and library callers can react to
// the category of failure without string matching.
//
// # Error Codes
//
// Layout-engine codes:
//   - MALFORMED_TYPE_REFERENCE: a field's type reference cannot be unwrapped to a name
//   - UNKNOWN_TYPE_REFERENCE: a resolved name is missing from the type map
//   - DANGLING_EDGE_REFERENCE: an edge endpoint was not produced by the builder
//   - INVALID_CONFIGURATION: layout options rejected before traversal
//
// General codes cover input validation, lookups and internal failures.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfiguration, "ring count %d < max depth %d", rings, depth)
//	if errors.Is(err, errors.ErrCodeInvalidConfiguration) {
//	    // reject the request
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidSchema, cause, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Layout-engine error codes.
const (
	ErrCodeMalformedTypeReference Code = "MALFORMED_TYPE_REFERENCE"
	ErrCodeUnknownTypeReference   Code = "UNKNOWN_TYPE_REFERENCE"
	ErrCodeDanglingEdgeReference  Code = "DANGLING_EDGE_REFERENCE"
	ErrCodeInvalidConfiguration   Code = "INVALID_CONFIGURATION"
)

// General error codes.
const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidSchema Code = "INVALID_SCHEMA"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
	ErrCodeUnsupported   Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		if e.Cause == nil {
			return false
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the HTTP status code the server responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidConfiguration, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidSchema, ErrCodeMalformedTypeReference, ErrCodeUnknownTypeReference:
		return http.StatusUnprocessableEntity
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
