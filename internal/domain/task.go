package domain

import (
	"fmt"
	"strings"
	"time"
)

// Length limits for task and comment text.
const (
	MaxTitleLength           = 50
	MaxTaskDescriptionLength = 255
)

// Task is a unit of work with an author, an assignee, a status and a priority.
// Status and Priority carry the referenced names so that reads do not need a
// second lookup; the ids are authoritative for writes.
type Task struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	StatusID    int64         `json:"-"`
	Status      string        `json:"status"`
	PriorityID  int64         `json:"-"`
	Priority    string        `json:"priority"`
	AuthorID    int64         `json:"author_id"`
	AssigneeID  int64         `json:"assignee_id"`
	Comments    []TaskComment `json:"task_comments"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewTask creates a Task referencing the given status, priority and users.
func NewTask(
	title, description string,
	status *TaskStatus,
	priority *TaskPriority,
	authorID, assigneeID int64,
) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		AuthorID:    authorID,
		AssigneeID:  assigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	task.SetStatus(status)
	task.SetPriority(priority)

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// SetStatus points the task at status. A nil status clears the reference.
func (t *Task) SetStatus(status *TaskStatus) {
	if status == nil {
		t.StatusID, t.Status = 0, ""
		return
	}
	t.StatusID, t.Status = status.ID, status.Name
}

// SetPriority points the task at priority. A nil priority clears the reference.
func (t *Task) SetPriority(priority *TaskPriority) {
	if priority == nil {
		t.PriorityID, t.Priority = 0, ""
		return
	}
	t.PriorityID, t.Priority = priority.ID, priority.Name
}

// Validate checks required fields, text lengths and references.
func (t *Task) Validate() error {
	if t.Title == "" {
		return validationError(ErrEmptyTitle)
	}
	if len(t.Title) > MaxTitleLength {
		return validationError(fmt.Errorf("%w: title exceeds %d characters", ErrTooLong, MaxTitleLength))
	}
	if t.Description == "" {
		return validationError(ErrEmptyDescription)
	}
	if len(t.Description) > MaxTaskDescriptionLength {
		return validationError(fmt.Errorf(
			"%w: description exceeds %d characters", ErrTooLong, MaxTaskDescriptionLength))
	}
	if t.StatusID == 0 {
		return validationError(fmt.Errorf("%w: status", ErrMissingReference))
	}
	if t.PriorityID == 0 {
		return validationError(fmt.Errorf("%w: priority", ErrMissingReference))
	}
	if t.AuthorID == 0 {
		return validationError(fmt.Errorf("%w: author", ErrMissingReference))
	}
	if t.AssigneeID == 0 {
		return validationError(fmt.Errorf("%w: assignee", ErrMissingReference))
	}
	return nil
}

// Touch records a modification time.
func (t *Task) Touch() {
	t.UpdatedAt = time.Now().UTC()
}
