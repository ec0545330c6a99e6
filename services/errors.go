package services

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable classification surfaced to callers so
// the HTTP layer can translate workflow failures without string matching.
type ErrorKind string

const (
	ErrNotFound            ErrorKind = "not_found"
	ErrAuthorizationDenied ErrorKind = "authorization_denied"
	ErrInvalidTransition   ErrorKind = "invalid_transition"
	ErrValidationFailed    ErrorKind = "validation_failed"
	ErrConflictOrNotFound  ErrorKind = "conflict_or_not_found"
	ErrPersistenceFailure  ErrorKind = "persistence_failure"
)

// WorkflowError carries an ErrorKind plus a human-readable detail message.
type WorkflowError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *WorkflowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *WorkflowError) Unwrap() error { return e.Err }

func workflowErr(kind ErrorKind, format string, args ...interface{}) *WorkflowError {
	return &WorkflowError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func persistenceErr(message string, err error) *WorkflowError {
	return &WorkflowError{Kind: ErrPersistenceFailure, Message: message, Err: err}
}

// KindOf extracts the ErrorKind from err, or empty string when err is not a
// WorkflowError.
func KindOf(err error) ErrorKind {
	var wfErr *WorkflowError
	if errors.As(err, &wfErr) {
		return wfErr.Kind
	}
	return ""
}
