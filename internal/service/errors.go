package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskboard-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to status codes.
var (
	// ErrForbidden indicates that the caller may not perform the operation on
	// this resource, for example editing another user's account.
	// API layer should map this to HTTP 403 Forbidden.
	ErrForbidden = errors.New("operation not permitted")

	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrHasAssignedTasks indicates that a status or priority cannot be deleted
	// while tasks reference it. It wraps store.ErrInUse.
	// API layer should map this to HTTP 409 Conflict.
	ErrHasAssignedTasks = fmt.Errorf("%w: tasks are still assigned", store.ErrInUse)
)

// ServiceError wraps an error with the service and operation that produced it.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
	}
	return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Err: err}
}

// wrap returns nil for a nil err and a ServiceError otherwise.
func wrap(service, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewServiceError(service, op, err)
}
