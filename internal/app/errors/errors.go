package errors

import (
	"errors"
	"fmt"
)

// Common error types
var (
	// Configuration errors
	ErrMissingAPIKey = New("API key is required")
	ErrInvalidConfig = New("invalid configuration")

	// Provider errors
	ErrProviderNotFound    = New("provider not found")
	ErrTranscriptionFailed = New("transcription failed")

	// Upload errors
	ErrUnsupportedFormat = New("unsupported audio format")
	ErrEmptyUpload       = New("upload is empty")

	// File errors
	ErrFileNotFound    = New("file not found")
	ErrFileReadFailed  = New("file read failed")
	ErrFileWriteFailed = New("file write failed")
	ErrDirectoryFailed = New("directory setup failed")

	// Document errors
	ErrDocumentFailed = New("document generation failed")
	ErrInvalidLink    = New("invalid download link")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Mark attaches a sentinel to err so errors.Is matches both the sentinel and the cause.
func Mark(err error, sentinel *Error) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: sentinel.message,
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// FieldError is a validation failure on a named input field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Reason
}

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return &FieldError{Field: field, Reason: "is required"}
}

// InvalidField returns an error for invalid field values
func InvalidField(field string, reason string) error {
	return &FieldError{Field: field, Reason: "is invalid: " + reason}
}

// IsValidationError reports whether err was built by RequiredField or
// InvalidField, or is an unsupported upload format.
func IsValidationError(err error) bool {
	var fieldErr *FieldError
	return errors.As(err, &fieldErr) || errors.Is(err, ErrUnsupportedFormat)
}
