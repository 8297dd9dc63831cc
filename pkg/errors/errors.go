// Package errors provides structured error types for splitviz.
//
// Every failure the render core can report carries a machine-readable
// [Code] so callers (the CLI, batch wrappers) can decide whether to abort,
// fall back, or surface the message as-is.
//
// # Error Codes
//
//   - SOURCE_UNAVAILABLE: input missing or undecodable; nothing was written
//   - DEGENERATE_SEGMENT_PLAN: more features than frames, or a zero-length segment
//   - FRAME_RATE_INDETERMINATE: the source reports no usable frame rate and no fallback was given
//   - INVALID_CONFIG / INVALID_FONT: rejected before any frame is rendered
//   - ENCODER_FAILED: the external encoder exited or refused input
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "pane_count must be >= 2, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // reject the job
//	}
//
//	err := errors.Wrap(errors.ErrCodeSourceUnavailable, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeSourceUnavailable      Code = "SOURCE_UNAVAILABLE"
	ErrCodeFrameRateIndeterminate Code = "FRAME_RATE_INDETERMINATE"
	ErrCodeDimensionMismatch      Code = "DIMENSION_MISMATCH"

	// Configuration errors
	ErrCodeInvalidConfig         Code = "INVALID_CONFIG"
	ErrCodeInvalidFont           Code = "INVALID_FONT"
	ErrCodeDegenerateSegmentPlan Code = "DEGENERATE_SEGMENT_PLAN"

	// Output errors
	ErrCodeEncoderFailed Code = "ENCODER_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Is reports whether err carries the given error code anywhere in its chain.
// The outermost *Error decides; a wrapped error of a different code is
// only consulted when the outer one does not match.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
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
