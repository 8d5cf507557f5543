package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// TaskStatusStore defines the interface for task status persistence.
type TaskStatusStore interface {
	// Create saves a new status and sets status.ID.
	// Returns ErrStatusNameExists if the name is already taken.
	Create(ctx context.Context, status *domain.TaskStatus) error

	// GetByID retrieves a status by ID.
	// Returns ErrStatusNotFound if the status does not exist.
	GetByID(ctx context.Context, id int64) (*domain.TaskStatus, error)

	// GetByName retrieves a status by its exact name.
	// Returns ErrStatusNotFound if the status does not exist.
	GetByName(ctx context.Context, name string) (*domain.TaskStatus, error)

	// ExistsByName reports whether a status with the given name is stored.
	ExistsByName(ctx context.Context, name string) (bool, error)

	// List returns every status ordered by ID.
	List(ctx context.Context) ([]domain.TaskStatus, error)

	// Update renames an existing status.
	// Returns ErrStatusNotFound if the status does not exist.
	// Returns ErrStatusNameExists if the new name is already taken.
	Update(ctx context.Context, status *domain.TaskStatus) error

	// Delete removes a status.
	// Returns ErrStatusNotFound if the status does not exist.
	// Returns ErrInUse if tasks still reference it.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new TaskStatusStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStatusStore
}

// TaskPriorityStore defines the interface for task priority persistence.
// Its contract mirrors TaskStatusStore with the priority-specific errors.
type TaskPriorityStore interface {
	Create(ctx context.Context, priority *domain.TaskPriority) error
	GetByID(ctx context.Context, id int64) (*domain.TaskPriority, error)
	GetByName(ctx context.Context, name string) (*domain.TaskPriority, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]domain.TaskPriority, error)
	Update(ctx context.Context, priority *domain.TaskPriority) error
	Delete(ctx context.Context, id int64) error
	WithTx(tx *sql.Tx) TaskPriorityStore
}
