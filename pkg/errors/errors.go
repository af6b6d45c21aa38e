// Package errors provides structured error types for the vizbind engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - A clear split between fatal configuration errors and non-fatal diagnostics
//   - Error wrapping with context preservation
//
// # Error Classes
//
// Configuration errors (malformed domains, cyclic hierarchies, unknown parent
// references, rejected duplicate keys, invalid links) are always returned
// synchronously from an update pass and abort it before any state is mutated.
// Use [IsConfiguration] to test for the whole class.
//
// Degenerate input (empty datasets, zero-width domains, zero total weight) is
// recovered locally with a deterministic fallback and reported as a
// [Diagnostic] rather than an error.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedDomain, "domain min %v > max %v", lo, hi)
//	if errors.IsConfiguration(err) {
//	    // fix the chart configuration and re-invoke
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeConfiguration   Code = "CONFIGURATION"
	ErrCodeMalformedDomain Code = "MALFORMED_DOMAIN"
	ErrCodeCyclicHierarchy Code = "CYCLIC_HIERARCHY"
	ErrCodeUnknownParent   Code = "UNKNOWN_PARENT"
	ErrCodeDuplicateKey    Code = "DUPLICATE_KEY"
	ErrCodeInvalidLink     Code = "INVALID_LINK"

	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeNotFound      Code = "NOT_FOUND"

	// Lifecycle and internal errors
	ErrCodeDisposed Code = "DISPOSED"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Diagnostic codes for non-fatal conditions.
const (
	DiagDegenerateInput Code = "DEGENERATE_INPUT"
	DiagDuplicateKey    Code = "DUPLICATE_KEY"
	DiagZeroWeight      Code = "ZERO_WEIGHT"
)

// configurationCodes is the set of codes surfaced as configuration errors.
var configurationCodes = map[Code]bool{
	ErrCodeConfiguration:   true,
	ErrCodeMalformedDomain: true,
	ErrCodeCyclicHierarchy: true,
	ErrCodeUnknownParent:   true,
	ErrCodeDuplicateKey:    true,
	ErrCodeInvalidLink:     true,
}

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
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsConfiguration reports whether err belongs to the configuration class.
// Any coded error in the chain counts, so a wrapped cyclic-hierarchy error
// is still a configuration error.
func IsConfiguration(err error) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if configurationCodes[e.Code] {
			return true
		}
		err = e.Cause
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
