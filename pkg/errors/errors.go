// Package errors provides structured error types for graphview.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so that hosts (the CLI, the HTTP server, embedding applications) can
// react to the category of a failure without matching on message text.
//
// # Error Codes
//
// The taxonomy follows how a failure is handled:
//   - INVALID_OPERATION: a structural request the graph cannot honor, such as
//     removing a node that still has edges or referencing an unknown id.
//     Always surfaced to the caller.
//   - DEGENERATE_GEOMETRY: a non-finite coordinate. Layouts recover from these
//     locally; the code is only surfaced by explicit position setters.
//   - CONFIGURATION_ERROR: an out-of-range tunable. Rejected at the setter,
//     the previous value is kept.
//   - NOT_FOUND, INVALID_INPUT, INTERNAL_ERROR: host-level failures (missing
//     stored state, malformed files, unexpected faults).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidOperation, "node %d has %d edges", id, n)
//	if errors.Is(err, errors.ErrCodeInvalidOperation) {
//	    // ask the user to confirm a cascading delete
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "decode state")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural and geometric errors
	ErrCodeInvalidOperation   Code = "INVALID_OPERATION"
	ErrCodeDegenerateGeometry Code = "DEGENERATE_GEOMETRY"
	ErrCodeConfiguration      Code = "CONFIGURATION_ERROR"

	// Host-level errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
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

// InvalidOperation is shorthand for New(ErrCodeInvalidOperation, ...).
func InvalidOperation(format string, args ...any) *Error {
	return New(ErrCodeInvalidOperation, format, args...)
}

// Configuration is shorthand for New(ErrCodeConfiguration, ...).
func Configuration(format string, args ...any) *Error {
	return New(ErrCodeConfiguration, format, args...)
}

// DegenerateGeometry is shorthand for New(ErrCodeDegenerateGeometry, ...).
func DegenerateGeometry(format string, args ...any) *Error {
	return New(ErrCodeDegenerateGeometry, format, args...)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error values,
// and the plain error string otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
