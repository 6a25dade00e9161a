package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an AppError so transport layers can map it to a status code.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindForbidden    ErrorKind = "forbidden"
	KindUpstream     ErrorKind = "upstream"
)

// AppError is the error type shared by all domain packages.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return e.Message
}

// NewError creates an AppError with an explicit machine-readable code.
func NewError(kind ErrorKind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *AppError {
	return NewError(KindValidation, "validation_error", message)
}

// NewNotFoundError creates a not-found error for the given entity and identifier.
func NewNotFoundError(entity, id string) *AppError {
	return NewError(KindNotFound, "not_found", fmt.Sprintf("%s not found: %s", entity, id))
}

// NewConflictError creates a conflict error.
func NewConflictError(message string) *AppError {
	return NewError(KindConflict, "conflict", message)
}

// NewForbiddenError creates a forbidden error.
func NewForbiddenError(message string) *AppError {
	return NewError(KindForbidden, "forbidden", message)
}

// NewUpstreamError creates an error for a failed call to an external provider.
func NewUpstreamError(provider, message string) *AppError {
	return NewError(KindUpstream, "upstream_error", fmt.Sprintf("%s: %s", provider, message))
}

// KindOf returns the kind of the first AppError in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
