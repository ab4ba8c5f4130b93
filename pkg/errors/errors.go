// Package errors provides structured error types for wordmosaic.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - A single test for configuration errors, the only fatal class
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Configuration and input validation failures (fatal)
//   - UNSUPPORTED_*, EXTRACT_*: Input file problems
//   - NOT_FOUND: Missing stored records
//   - INTERNAL_*: Unexpected internal errors
//
// Conditions that degrade gracefully (empty input after stopword filtering,
// words that do not fit on the canvas) are never errors; they are reported
// as data by the pipeline and layout packages.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidCanvas, "width must be positive, got %d", w)
//	if errors.IsConfiguration(err) {
//	    // Reject the request, no partial layout was attempted
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExtract, origErr, "read %s", name)
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
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidCanvas    Code = "INVALID_CANVAS"
	ErrCodeInvalidPalette   Code = "INVALID_PALETTE"
	ErrCodeInvalidFontRange Code = "INVALID_FONT_RANGE"
	ErrCodeInvalidMaxWords  Code = "INVALID_MAX_WORDS"
	ErrCodeInvalidScaling   Code = "INVALID_SCALING"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidOption    Code = "INVALID_OPTION"

	// Input file errors
	ErrCodeUnsupportedFile Code = "UNSUPPORTED_FILE"
	ErrCodeExtract         Code = "EXTRACT_FAILED"
	ErrCodeInvalidFilename Code = "INVALID_FILENAME"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// configurationCodes are the codes that abort a pipeline run before any
// layout work is attempted.
var configurationCodes = map[Code]bool{
	ErrCodeInvalidInput:     true,
	ErrCodeInvalidCanvas:    true,
	ErrCodeInvalidPalette:   true,
	ErrCodeInvalidFontRange: true,
	ErrCodeInvalidMaxWords:  true,
	ErrCodeInvalidScaling:   true,
	ErrCodeInvalidFormat:    true,
	ErrCodeInvalidOption:    true,
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

// IsConfiguration reports whether err is a configuration error: an invalid
// canvas, palette, font range, word cap, scaling function, output format or
// other option.
func IsConfiguration(err error) bool {
	return configurationCodes[GetCode(err)]
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
