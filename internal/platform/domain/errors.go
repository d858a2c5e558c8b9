package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a domain error for transport mapping.
type ErrorCode string

const (
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeInvalidState ErrorCode = "INVALID_STATE"
	CodeUnavailable  ErrorCode = "UNAVAILABLE"
)

// DomainError is an error raised by domain or application logic.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *DomainError) Unwrap() error { return e.Err }

// NewValidationError reports input that breaks a domain rule.
func NewValidationError(message string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// NewInvalidStateError reports a transition that is not allowed.
func NewInvalidStateError(from, to string) *DomainError {
	return &DomainError{Code: CodeInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewUnavailableError reports a collaborator that could not be reached.
func NewUnavailableError(message string, err error) *DomainError {
	return &DomainError{Code: CodeUnavailable, Message: message, Err: err}
}

// CodeOf returns the code of the first DomainError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code, true
	}
	return "", false
}

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == CodeNotFound
}

// IsValidation reports whether err is a validation domain error.
func IsValidation(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == CodeValidation
}
