package errors

import (
	"fmt"
)

// Common error types
var (
	// Configuration errors
	ErrMissingAPIKey = New("API key not set in environment variables")

	// Upload errors
	ErrNoFilePart     = New("no file part in request")
	ErrNoFileSelected = New("no file selected")
	ErrInvalidFormat  = New("invalid file format")
	ErrEmptyUpload    = New("uploaded file is empty")
	ErrSaveFailed     = New("failed to save uploaded file")
	ErrUploadTooLarge = New("uploaded file is too large")

	// Transcription errors
	ErrAuthentication  = New("authentication with transcription service failed")
	ErrUpstream        = New("transcription service error")
	ErrEmptyTranscript = New("no transcription generated")
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

// Mark tags err with kind so that errors.Is(result, kind) reports true
// while the wrapped error stays reachable through Unwrap.
func Mark(err error, kind *Error) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: kind.message,
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

// Message returns the error text without the wrapped cause.
func (e *Error) Message() string {
	return e.message
}
