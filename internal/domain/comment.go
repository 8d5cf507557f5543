package domain

import (
	"fmt"
	"strings"
	"time"
)

// TaskComment is a note left on a task by a user. Title is optional.
type TaskComment struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"task_id"`
	AuthorID    int64     `json:"author_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTaskComment creates a comment on taskID written by authorID.
func NewTaskComment(taskID, authorID int64, title, description string) (*TaskComment, error) {
	now := time.Now().UTC()
	c := &TaskComment{
		TaskID:      taskID,
		AuthorID:    authorID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the comment's references and text.
func (c *TaskComment) Validate() error {
	if c.TaskID == 0 {
		return validationError(fmt.Errorf("%w: task", ErrMissingReference))
	}
	if c.AuthorID == 0 {
		return validationError(fmt.Errorf("%w: author", ErrMissingReference))
	}
	if len(c.Title) > MaxTitleLength {
		return validationError(fmt.Errorf("%w: title exceeds %d characters", ErrTooLong, MaxTitleLength))
	}
	if c.Description == "" {
		return validationError(ErrEmptyDescription)
	}
	return nil
}

// Touch records a modification time.
func (c *TaskComment) Touch() {
	c.UpdatedAt = time.Now().UTC()
}
