// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrValidation marks invalid input to a create or update operation.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a lookup or update that references a nonexistent record.
	ErrNotFound = errors.New("not found")
	// ErrFormat marks an import payload that lacks the required structure.
	ErrFormat = errors.New("invalid snapshot format")
	// ErrStorage marks a failed write to the underlying backend.
	ErrStorage = errors.New("storage write failed")
	// ErrInvalidConfig marks an unusable configuration value.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError describes which field of an input was rejected and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is reports ErrValidation as the sentinel for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
