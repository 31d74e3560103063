// Package errors provides structured error types for the fabric generator.
//
// Two shapes of failure exist:
//   - [Error] is a single coded failure, returned by readers and helpers.
//   - [Report] collects many [Diagnostic] entries so that one validation
//     pass can surface every problem in a set of inputs at once.
//
// # Error Codes
//
// Codes are stable, machine-readable identifiers. The validator, the CLI
// and the HTTP API all speak them:
//   - INVALID_*, PARSE_ERROR, FILE_NOT_FOUND: input problems
//   - UNKNOWN_*, *_MISMATCH, REGION_*, PIN_*: configuration inconsistencies
//   - VALIDATION_FAILED: aggregate of a [Report] with errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "array rows must be positive, got %d", rows)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // handle
//	}
//
//	rep := errors.NewReport()
//	rep.Errorf(errors.ErrCodeUnknownCellType, "tile LOGIC row 0", "unknown cell type %q", alias)
//	if err := rep.Err(); err != nil {
//	    return err
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input and parsing
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidName   Code = "INVALID_NAME"
	ErrCodeParse         Code = "PARSE_ERROR"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Catalog references
	ErrCodeUnknownCellType Code = "UNKNOWN_CELL_TYPE"
	ErrCodeUnknownTileType Code = "UNKNOWN_TILE_TYPE"
	ErrCodeDuplicateName   Code = "DUPLICATE_NAME"

	// Tile templates
	ErrCodeRowWidthMismatch      Code = "ROW_WIDTH_MISMATCH"
	ErrCodeInconsistentRowWidths Code = "INCONSISTENT_ROW_WIDTHS"
	ErrCodeInvalidTileRows       Code = "INVALID_TILE_ROWS"

	// Fabric composition
	ErrCodeRegionOverlap     Code = "REGION_OVERLAP"
	ErrCodeRegionOutOfBounds Code = "REGION_OUT_OF_BOUNDS"
	ErrCodeTileSizeMismatch  Code = "TILE_SIZE_MISMATCH"

	// Edge cells
	ErrCodeEdgeRowWidthMismatch Code = "EDGE_ROW_WIDTH_MISMATCH"

	// I/O ring
	ErrCodeUnknownEdge      Code = "UNKNOWN_EDGE"
	ErrCodeInvalidSpacing   Code = "INVALID_SPACING"
	ErrCodeMixedSpacingMode Code = "MIXED_SPACING_MODE"
	ErrCodeMissingPosition  Code = "MISSING_POSITION"
	ErrCodePinOutOfMargin   Code = "PIN_OUT_OF_MARGIN"
	ErrCodePinOverlap       Code = "PIN_OVERLAP"
	ErrCodeMissingMargins   Code = "MISSING_MARGINS"

	// Warnings
	ErrCodeStrayPosition Code = "STRAY_POSITION_FIELD"
	ErrCodeEdgeDisabled  Code = "EDGE_DISABLED"

	// Aggregate and internal
	ErrCodeValidation Code = "VALIDATION_FAILED"
	ErrCodeInternal   Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)

	// Diagnostics carries the full list when the error summarises a Report.
	Diagnostics []Diagnostic
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

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// DiagnosticsOf returns the diagnostics attached to err, if any. A plain
// coded error yields a single error diagnostic; foreign errors yield nil.
func DiagnosticsOf(err error) []Diagnostic {
	var e *Error
	if !errors.As(err, &e) {
		return nil
	}
	if len(e.Diagnostics) > 0 {
		return e.Diagnostics
	}
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return []Diagnostic{{Severity: SeverityError, Code: e.Code, Message: msg}}
}
