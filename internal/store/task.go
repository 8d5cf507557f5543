package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
// Tasks returned by the store carry the names of their status and priority;
// comments are loaded separately through TaskCommentStore.
type TaskStore interface {
	// Create saves a new task and sets task.ID.
	// Returns ErrInvalidEntity wrapping ErrStatusNotFound, ErrPriorityNotFound or
	// ErrUserNotFound if a referenced row does not exist.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// List returns one page of tasks matching filter, ordered by sort.
	// Every predicate set on the filter must hold for a task to be returned.
	// Returns ErrInvalidSort if sort names a field that cannot be ordered by.
	List(ctx context.Context, filter TaskFilter, sort Sort, page Page) ([]*domain.Task, error)

	// Count returns the number of tasks matching filter, ignoring pagination.
	Count(ctx context.Context, filter TaskFilter) (int, error)

	// ListByAuthor returns every task written by the given user, ordered by ID.
	ListByAuthor(ctx context.Context, authorID int64) ([]*domain.Task, error)

	// ListByAssignee returns every task assigned to the given user, ordered by ID.
	ListByAssignee(ctx context.Context, assigneeID int64) ([]*domain.Task, error)

	// CountByStatus returns how many tasks reference the given status.
	CountByStatus(ctx context.Context, statusID int64) (int, error)

	// CountByPriority returns how many tasks reference the given priority.
	CountByPriority(ctx context.Context, priorityID int64) (int, error)

	// Update saves all mutable fields of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	// Returns ErrInvalidEntity wrapping ErrStatusNotFound, ErrPriorityNotFound or
	// ErrUserNotFound if a referenced row does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task and, through the schema, its comments.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
