// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrMissingIdentifier is returned when an account is registered without an e-mail.
	ErrMissingIdentifier = errors.New("identifier cannot be empty")

	// ErrMissingCredential is returned when an account is registered without a password.
	ErrMissingCredential = errors.New("password cannot be empty")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidRole is returned when a role is neither admin nor user.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidReferralCode is returned when a referral code has the wrong shape.
	ErrInvalidReferralCode = errors.New("invalid referral code")
)

// ValidationError describes a single field that failed validation.
// It wraps ErrValidation (or a more specific sentinel) so callers can use errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel error.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

// Is reports ErrValidation for every ValidationError, in addition to the wrapped error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
