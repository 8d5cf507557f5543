package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// TaskCommentStore defines the interface for task comment persistence.
// Comments are always addressed through the task they belong to.
type TaskCommentStore interface {
	// Create saves a new comment and sets comment.ID.
	// Returns ErrInvalidEntity wrapping ErrTaskNotFound or ErrUserNotFound if the
	// task or author does not exist.
	Create(ctx context.Context, comment *domain.TaskComment) error

	// GetByID retrieves the comment with the given id on the given task.
	// Returns ErrCommentNotFound if no such comment exists on that task.
	GetByID(ctx context.Context, taskID, id int64) (*domain.TaskComment, error)

	// ListByTask returns the comments of a task ordered by ID.
	ListByTask(ctx context.Context, taskID int64) ([]domain.TaskComment, error)

	// ListByTaskIDs returns the comments of several tasks keyed by task ID.
	// Tasks without comments are absent from the map.
	ListByTaskIDs(ctx context.Context, taskIDs []int64) (map[int64][]domain.TaskComment, error)

	// Update saves the author, title and description of an existing comment.
	// Returns ErrCommentNotFound if the comment does not exist on its task.
	Update(ctx context.Context, comment *domain.TaskComment) error

	// Delete removes the comment with the given id from the given task.
	// Returns ErrCommentNotFound if no such comment exists on that task.
	Delete(ctx context.Context, taskID, id int64) error

	// WithTx returns a new TaskCommentStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskCommentStore
}
