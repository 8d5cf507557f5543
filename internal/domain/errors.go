// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is always wrapped with a more specific message describing the field.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyFirstName is returned when a user has no first name.
	ErrEmptyFirstName = errors.New("first name cannot be empty")

	// ErrEmptyLastName is returned when a user has no last name.
	ErrEmptyLastName = errors.New("last name cannot be empty")

	// ErrEmptyEmail is returned when a user has no email address.
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrEmptyPassword is returned when neither a password nor a digest is present.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrPasswordTooShort is returned when a plaintext password is below the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 3 characters long")

	// ErrPasswordTooLong is returned when a plaintext password exceeds bcrypt's input limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters long")

	// ErrInvalidRole is returned for a role name outside ADMIN and USER.
	ErrInvalidRole = errors.New("invalid role name")

	// ErrEmptyTitle is returned when a task has no title.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyDescription is returned when a task or comment has no description.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrEmptyName is returned when a status or priority has no name.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrTooLong is returned when a text field exceeds its column size.
	ErrTooLong = errors.New("value is too long")

	// ErrMissingReference is returned when a required foreign key is unset.
	ErrMissingReference = errors.New("required reference is missing")
)

// validationError wraps a specific error with ErrValidation so callers can
// match either the field-level cause or the generic category.
func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
