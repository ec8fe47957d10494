package utils

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the HTTP layer can pick a status without inspecting messages.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"    // bad client input, no upstream call made
	KindConfiguration ErrorKind = "configuration" // missing or malformed secrets/settings
	KindUpstream      ErrorKind = "upstream"      // calendar/auth/API failure
	KindUnavailable   ErrorKind = "unavailable"   // upstream timed out
	KindConflict      ErrorKind = "conflict"      // requested slot is no longer bookable
	KindInternal      ErrorKind = "internal"
)

// AppError is an error with a kind and a client-safe message.
// Err carries the cause for logs and must never be sent to clients for
// configuration or upstream kinds.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string, err error) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Err: err}
}

func NewConfigurationError(message string, err error) *AppError {
	return &AppError{Kind: KindConfiguration, Message: message, Err: err}
}

func NewUpstreamError(message string, err error) *AppError {
	return &AppError{Kind: KindUpstream, Message: message, Err: err}
}

func NewUnavailableError(message string, err error) *AppError {
	return &AppError{Kind: KindUnavailable, Message: message, Err: err}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
