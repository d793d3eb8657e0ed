// Package errors provides coded errors for the word-cloud engine, CLI and API.
//
// Every error that crosses a package boundary carries a [Code]. Codes fall
// into four classes, matching how a run reacts to them:
//
//   - Configuration (INVALID_*): rejected before any rendering starts.
//   - Placement (NO_DISTINCT_COLOR, SIZING_DIVERGED): raised while laying out.
//   - Rendering (RENDER_FAILED, IO_ERROR): end the run, discard partial output.
//   - Cancellation (CANCELLED): a cooperative stop, nothing is written.
//
// A word that cannot be placed is not an error; it is reported as unplaced.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSize, "width must be positive, got %d", w)
//	if errors.Is(err, errors.ErrCodeInvalidSize) {
//	    // reject the request
//	}
//
//	err := errors.Wrap(errors.ErrCodeRenderFailed, cause, "write %s", path)
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// Configuration errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidSize     Code = "INVALID_SIZE"
	ErrCodeInvalidColor    Code = "INVALID_COLOR"
	ErrCodeInvalidFont     Code = "INVALID_FONT"
	ErrCodeInvalidRotation Code = "INVALID_ROTATION"
	ErrCodeInvalidBubble   Code = "INVALID_BUBBLE"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Layout errors
	ErrCodeSizingDiverged  Code = "SIZING_DIVERGED"
	ErrCodeNoDistinctColor Code = "NO_DISTINCT_COLOR"

	// Rendering and I/O errors
	ErrCodeRenderFailed Code = "RENDER_FAILED"
	ErrCodeIO           Code = "IO_ERROR"
	ErrCodeNotFound     Code = "NOT_FOUND"

	ErrCodeCancelled Code = "CANCELLED"
	ErrCodeInternal  Code = "INTERNAL_ERROR"
)

// Class groups codes by how a run reacts to them.
type Class int

const (
	ClassUnknown Class = iota
	ClassConfig
	ClassLayout
	ClassRender
	ClassCancelled
)

// Class returns the class of c.
func (c Code) Class() Class {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidSize, ErrCodeInvalidColor, ErrCodeInvalidFont,
		ErrCodeInvalidRotation, ErrCodeInvalidBubble, ErrCodeInvalidFormat, ErrCodeInvalidPath:
		return ClassConfig
	case ErrCodeSizingDiverged, ErrCodeNoDistinctColor:
		return ClassLayout
	case ErrCodeRenderFailed, ErrCodeIO, ErrCodeNotFound:
		return ClassRender
	case ErrCodeCancelled:
		return ClassCancelled
	}
	return ClassUnknown
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Cancelled wraps a context error with [ErrCodeCancelled]. Other errors are
// returned unchanged, so it is safe to call on any error from a blocking call.
func Cancelled(err error) error {
	if err == nil || Is(err, ErrCodeCancelled) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Wrap(ErrCodeCancelled, err, "operation cancelled")
	}
	return err
}

// Is reports whether the outermost *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error.
// Returns an empty string if err carries no *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ClassOf returns the class of err's code.
func ClassOf(err error) Class { return GetCode(err).Class() }

// UserMessage returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
