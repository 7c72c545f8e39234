package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an AppError for HTTP status mapping.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindAuth       ErrorKind = "auth"
	KindNotFound   ErrorKind = "not_found"
)

// AppError is the error type services return across the request
// boundary. Message is safe to show to callers; Err carries the
// underlying cause for logs only and never leaks into responses.
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

func (e *AppError) Unwrap() error { return e.Err }

// NewValidationError reports malformed or missing input.
func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// NewConflictError reports a uniqueness or idempotency violation.
func NewConflictError(message string, err error) *AppError {
	return &AppError{Kind: KindConflict, Message: message, Err: err}
}

// NewAuthError reports bad credentials or an invalid token.
func NewAuthError(message string, err error) *AppError {
	return &AppError{Kind: KindAuth, Message: message, Err: err}
}

// NewNotFoundError reports an absent record. Ownership-scoped lookups
// use it for both "does not exist" and "not owned by caller" so the
// two are indistinguishable to the caller.
func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func isKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return isKind(err, KindConflict) }

// IsAuth reports whether err is an authentication error.
func IsAuth(err error) bool { return isKind(err, KindAuth) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// PublicMessage returns the caller-safe message for err, falling back
// to a generic message for unclassified errors.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
