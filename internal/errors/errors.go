// Package errors provides the structured error type shared across snipstash.
// Errors carry a stable code so callers can branch on failure class without
// string matching, and wrap an underlying cause for errors.Is/As chains.
package errors

import (
	"fmt"
)

// SnipError is the structured error type for snipstash.
type SnipError struct {
	// Code is the unique error code (e.g. "ERR_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Validation, Storage, Provider, Format).
	Category Category

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *SnipError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SnipError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with SnipError sentinels.
func (e *SnipError) Is(target error) bool {
	if t, ok := target.(*SnipError); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new SnipError with the given code and message.
// The category is derived from the code.
func New(code string, message string, cause error) *SnipError {
	return &SnipError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a SnipError from an existing error.
// The error's message becomes the SnipError message.
func Wrap(code string, err error) *SnipError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ValidationError creates a validation-related error (empty title, content,
// tag name). Rejected before any write.
func ValidationError(message string) *SnipError {
	return New(CodeValidation, message, nil)
}

// NotFoundError creates an error for operations on a missing record.
func NotFoundError(message string) *SnipError {
	return New(CodeNotFound, message, nil)
}

// FormatError creates an error for corrupt or unreadable input documents.
func FormatError(message string, cause error) *SnipError {
	return New(CodeFormat, message, cause)
}

// UnsupportedVersionError creates an error for an interchange document
// whose version this build does not understand.
func UnsupportedVersionError(version int) *SnipError {
	return New(CodeUnsupportedVersion,
		fmt.Sprintf("unsupported document version %d", version), nil)
}

// GetCode extracts the error code from a SnipError.
// Returns empty string if not a SnipError.
func GetCode(err error) string {
	if se, ok := err.(*SnipError); ok {
		return se.Code
	}
	return ""
}
