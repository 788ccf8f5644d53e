package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	apperrors "audio2pdf/internal/app/errors"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindInternal           ErrorKind = "internal"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindBadRequest         ErrorKind = "bad_request"
	KindTooLarge           ErrorKind = "too_large"
	KindCancelled          ErrorKind = "cancelled"
)

// StatusClientClosedRequest is the non-standard status logged when the
// client went away before the response was ready.
const StatusClientClosedRequest = 499

// APIError represents a structured API error response
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case KindCancelled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewTooLargeError creates an error for uploads over the size limit
func NewTooLargeError(limit int64) *APIError {
	return &APIError{
		Kind:    KindTooLarge,
		Message: fmt.Sprintf("upload exceeds the %d MB limit", limit>>20),
	}
}

// NewServiceUnavailableError creates a service unavailable error
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Kind:    KindServiceUnavailable,
		Message: message,
	}
}

// FromError maps pipeline errors to API errors. It returns nil for errors
// it does not recognize; those are treated as internal failures.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		return NewTooLargeError(tooLarge.Limit)
	case stderrors.Is(err, context.Canceled):
		return &APIError{Kind: KindCancelled, Message: "request cancelled"}
	case stderrors.Is(err, apperrors.ErrUnsupportedFormat):
		return NewValidationError(err.Error(), map[string]string{"file": "must be a .wav or .mp3 file"})
	case stderrors.Is(err, apperrors.ErrEmptyUpload):
		return NewBadRequestError(err.Error())
	case stderrors.Is(err, apperrors.ErrFileNotFound):
		return NewNotFoundError("document")
	case stderrors.Is(err, apperrors.ErrTranscriptionFailed):
		return NewServiceUnavailableError(err.Error())
	case apperrors.IsValidationError(err):
		return NewValidationError(err.Error(), nil)
	}
	return nil
}
