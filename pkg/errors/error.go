// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown errors
//   - Validation errors (100-199): Bad ranges, unknown policies, invalid configuration
//   - Data/Resource errors (200-299): Unknown series, unreachable sources, failed queries
//   - Market data errors (700-799): Fetching, parsing and writing series data
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidPolicy, "unknown aggregation policy")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeSeriesNotFound, "series %s does not exist", seriesID)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeSourceUnavailable, "request to FRED failed", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeInvalidRange) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
// The symbolic code name is included so that CLI output reads "[102 InvalidRange] ...".
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d %s] %s: %v", e.Code, e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d %s] %s", e.Code, e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode of the outermost *Error in err's chain.
// Returns ErrCodeUnknown if the chain holds no *Error.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsTerminal reports whether err carries one of the codes that end a run:
// a bad range, an unknown policy, an unknown series or an unreachable source.
func IsTerminal(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidRange, ErrCodeInvalidPolicy, ErrCodeSeriesNotFound, ErrCodeSourceUnavailable:
		return true
	default:
		return false
	}
}
