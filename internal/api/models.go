package api

import (
	"fmt"
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/nullable"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// DateTimeLayout is the wire format of every timestamp (dd-MM-yyyy HH:mm:ss).
const DateTimeLayout = "02-01-2006 15:04:05"

// DateTime is a time.Time encoded with DateTimeLayout.
type DateTime time.Time

// MarshalJSON implements json.Marshaler.
func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).Format(DateTimeLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("datetime must be a string in the form %s", DateTimeLayout)
	}
	t, err := time.Parse(DateTimeLayout, string(data[1:len(data)-1]))
	if err != nil {
		return err
	}
	*d = DateTime(t)
	return nil
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response of the login endpoint.
type AuthResponse struct {
	// Token is the JWT used for API authorization
	Token     string   `json:"token"`
	UserID    int64    `json:"user_id"`
	ExpiresAt DateTime `json:"expires_at"`
}

// RoleResponse is a role as embedded in a user.
type RoleResponse struct {
	RoleName string `json:"role_name"`
}

// CreateUserRequest defines the payload for creating a user.
type CreateUserRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name"  validate:"required,max=50"`
	Email     string `json:"email"      validate:"required,email,max=255"`
	Password  string `json:"password"   validate:"required,min=3,max=72"`
}

// UpdateUserRequest is a partial user update; absent or null fields are kept.
type UpdateUserRequest struct {
	FirstName nullable.Value[string]   `json:"first_name"`
	LastName  nullable.Value[string]   `json:"last_name"`
	Email     nullable.Value[string]   `json:"email"`
	Password  nullable.Value[string]   `json:"password"`
	Roles     nullable.Value[[]string] `json:"roles"`
}

// UserResponse is the wire form of a user.
type UserResponse struct {
	ID              int64          `json:"id"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Email           string         `json:"email"`
	Roles           []RoleResponse `json:"roles"`
	TasksAsAuthor   []TaskResponse `json:"tasks_as_author"`
	TasksAsAssignee []TaskResponse `json:"tasks_as_assignee"`
	CreatedAt       DateTime       `json:"created_at"`
	UpdatedAt       DateTime       `json:"updated_at"`
}

// CreateTaskRequest defines the payload for creating a task. Status and
// priority are referenced by name, users by id.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=50"`
	Description string `json:"description" validate:"required,max=255"`
	Status      string `json:"status"      validate:"required,max=50"`
	Priority    string `json:"priority"    validate:"required,max=50"`
	AuthorID    int64  `json:"author_id"   validate:"required,gt=0"`
	AssigneeID  int64  `json:"assignee_id" validate:"required,gt=0"`
}

// UpdateTaskRequest is a partial task update; absent or null fields are kept.
type UpdateTaskRequest struct {
	Title       nullable.Value[string] `json:"title"`
	Description nullable.Value[string] `json:"description"`
	Status      nullable.Value[string] `json:"status"`
	Priority    nullable.Value[string] `json:"priority"`
	AuthorID    nullable.Value[int64]  `json:"author_id"`
	AssigneeID  nullable.Value[int64]  `json:"assignee_id"`
}

// AssigneeUpdateRequest holds the fields the assignee of a task may change.
type AssigneeUpdateRequest struct {
	Title       nullable.Value[string] `json:"title"`
	Description nullable.Value[string] `json:"description"`
	Status      nullable.Value[string] `json:"status"`
}

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Priority    string            `json:"priority"`
	Comments    []CommentResponse `json:"task_comments"`
	AuthorID    int64             `json:"author_id"`
	AssigneeID  int64             `json:"assignee_id"`
	CreatedAt   DateTime          `json:"created_at"`
	UpdatedAt   DateTime          `json:"updated_at"`
}

// CreateCommentRequest defines the payload for commenting on a task.
// AuthorID defaults to the caller.
type CreateCommentRequest struct {
	AuthorID    nullable.Value[int64] `json:"author_id"`
	Title       string                `json:"title"       validate:"max=50"`
	Description string                `json:"description" validate:"required,max=255"`
}

// UpdateCommentRequest is a partial comment update. A null title clears it.
type UpdateCommentRequest struct {
	AuthorID    nullable.Value[int64]  `json:"author_id"`
	Title       nullable.Value[string] `json:"title"`
	Description nullable.Value[string] `json:"description"`
}

// CommentResponse is the wire form of a task comment.
type CommentResponse struct {
	ID          int64    `json:"id"`
	AuthorID    int64    `json:"author_id"`
	TaskID      int64    `json:"task_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CreatedAt   DateTime `json:"created_at"`
	UpdatedAt   DateTime `json:"updated_at"`
}

// StatusRequest creates or renames a task status.
type StatusRequest struct {
	Name nullable.Value[string] `json:"status_name"`
}

// StatusResponse is the wire form of a task status.
type StatusResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"status_name"`
}

// PriorityRequest creates or renames a task priority.
type PriorityRequest struct {
	Name nullable.Value[string] `json:"priority_name"`
}

// PriorityResponse is the wire form of a task priority.
type PriorityResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"priority_name"`
}

func userToResponse(v *service.UserView) UserResponse {
	u := v.User
	roles := make([]RoleResponse, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, RoleResponse{RoleName: string(r.Name)})
	}
	return UserResponse{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		Roles:           roles,
		TasksAsAuthor:   tasksToResponse(v.TasksAsAuthor),
		TasksAsAssignee: tasksToResponse(v.TasksAsAssignee),
		CreatedAt:       DateTime(u.CreatedAt),
		UpdatedAt:       DateTime(u.UpdatedAt),
	}
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Comments:    commentsToResponse(t.Comments),
		AuthorID:    t.AuthorID,
		AssigneeID:  t.AssigneeID,
		CreatedAt:   DateTime(t.CreatedAt),
		UpdatedAt:   DateTime(t.UpdatedAt),
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

func commentToResponse(c *domain.TaskComment) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		AuthorID:    c.AuthorID,
		TaskID:      c.TaskID,
		Title:       c.Title,
		Description: c.Description,
		CreatedAt:   DateTime(c.CreatedAt),
		UpdatedAt:   DateTime(c.UpdatedAt),
	}
}

func commentsToResponse(comments []domain.TaskComment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, commentToResponse(&comments[i]))
	}
	return out
}
