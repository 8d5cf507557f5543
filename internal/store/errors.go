package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// Entity-specific variants wrap it, so errors.Is(err, ErrNotFound) matches all of them.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would violate a uniqueness rule.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInUse is returned when an entity cannot be removed because other
	// entities still reference it.
	ErrInUse = errors.New("entity is referenced by other entities")

	// ErrInvalidEntity is returned when an entity is rejected by a database
	// constraint, for example a dangling foreign key.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidSort is returned for a malformed sort specification.
	ErrInvalidSort = errors.New("invalid sort")

	// ErrInvalidPage is returned for a page number below 1.
	ErrInvalidPage = errors.New("invalid page")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrRoleNotFound indicates that the requested role does not exist.
	ErrRoleNotFound = fmt.Errorf("%w: role", ErrNotFound)

	// ErrTaskNotFound indicates that the requested task does not exist.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrStatusNotFound indicates that the requested task status does not exist.
	ErrStatusNotFound = fmt.Errorf("%w: task status", ErrNotFound)

	// ErrPriorityNotFound indicates that the requested task priority does not exist.
	ErrPriorityNotFound = fmt.Errorf("%w: task priority", ErrNotFound)

	// ErrCommentNotFound indicates that the requested comment does not exist
	// on the given task.
	ErrCommentNotFound = fmt.Errorf("%w: task comment", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrStatusNameExists indicates that a task status with the given name already exists.
	ErrStatusNameExists = fmt.Errorf("%w: task status name", ErrDuplicate)

	// ErrPriorityNameExists indicates that a task priority with the given name already exists.
	ErrPriorityNameExists = fmt.Errorf("%w: task priority name", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "task", "user")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
