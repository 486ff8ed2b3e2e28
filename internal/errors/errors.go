// Package errors defines the console's error taxonomy. Every operation ends in
// success, a validation error (caught before any network call) or a request
// error (transport failure, non-2xx response or unreadable body).
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Kind separates errors the user fixes by editing input from errors the user
// fixes by trying again.
type Kind string

const (
	KindValidation Kind = "validation-error"
	KindRequest    Kind = "request-error"
)

type ErrorCode string

const (
	ErrCodeMissingInput      ErrorCode = "MISSING_INPUT"
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrCodeUnsupportedFile   ErrorCode = "UNSUPPORTED_FILE"
	ErrCodeFileTooLarge      ErrorCode = "FILE_TOO_LARGE"
	ErrCodeUnreadableFile    ErrorCode = "UNREADABLE_FILE"
	ErrCodeTransportFailed   ErrorCode = "TRANSPORT_FAILED"
	ErrCodeBackendStatus     ErrorCode = "BACKEND_STATUS"
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	ErrCodeCancelled         ErrorCode = "CANCELLED"
)

// ErrInFlight is returned when an operation is started while the previous one
// on the same screen has not resolved yet.
var ErrInFlight = stderrors.New("a request is already in progress")

// StandardError is a classified console error.
type StandardError struct {
	Kind      Kind      `json:"kind"`
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Field     string    `json:"field,omitempty"`
	Status    int       `json:"status,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s[%s]: %s: %s", e.Kind, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Kind, e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

func NewValidationError(code ErrorCode, field, message string) *StandardError {
	return &StandardError{
		Kind:      KindValidation,
		Code:      code,
		Message:   message,
		Field:     field,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// MissingInput reports a required field or file that was not supplied.
func MissingInput(field, message string) *StandardError {
	return NewValidationError(ErrCodeMissingInput, field, message)
}

func NewTransportError(cause error) *StandardError {
	return &StandardError{
		Kind:      KindRequest,
		Code:      ErrCodeTransportFailed,
		Message:   "Could not reach the backend",
		Details:   cause.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewStatusError(status int, detail string) *StandardError {
	return &StandardError{
		Kind:      KindRequest,
		Code:      ErrCodeBackendStatus,
		Message:   fmt.Sprintf("Backend responded with status %d", status),
		Details:   detail,
		Status:    status,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewMalformedResponseError(cause error) *StandardError {
	return &StandardError{
		Kind:      KindRequest,
		Code:      ErrCodeMalformedResponse,
		Message:   "Backend returned an unexpected response",
		Details:   cause.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewCancelledError(cause error) *StandardError {
	return &StandardError{
		Kind:      KindRequest,
		Code:      ErrCodeCancelled,
		Message:   "Request was cancelled",
		Details:   cause.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// As extracts a StandardError from err's chain.
func As(err error) (*StandardError, bool) {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func IsValidation(err error) bool {
	se, ok := As(err)
	return ok && se.Kind == KindValidation
}

func IsRequest(err error) bool {
	se, ok := As(err)
	return ok && se.Kind == KindRequest
}

// Classify returns err as a StandardError, treating anything unclassified as
// a request error.
func Classify(err error) *StandardError {
	if err == nil {
		return nil
	}
	if se, ok := As(err); ok {
		return se
	}
	return &StandardError{
		Kind:      KindRequest,
		Code:      ErrCodeTransportFailed,
		Message:   "Request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// UserMessage is the text shown on a screen for err.
func UserMessage(err error) string {
	se := Classify(err)
	if se == nil {
		return ""
	}
	if se.Kind == KindValidation {
		return se.Message
	}
	if se.Details != "" && se.Code == ErrCodeBackendStatus {
		return fmt.Sprintf("%s: %s. Please try again.", se.Message, se.Details)
	}
	return se.Message + ". Please try again."
}
