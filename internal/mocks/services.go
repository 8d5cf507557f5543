package mocks

import (
	"context"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/nullable"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// MockAuthService implements service.AuthService for testing
type MockAuthService struct {
	LoginFn        func(ctx context.Context, email, password string) (*service.LoginResult, error)
	AuthenticateFn func(ctx context.Context, email, password string) (domain.Principal, error)
	PrincipalForFn func(ctx context.Context, userID int64) (domain.Principal, error)
}

// Login implements the AuthService interface
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	return m.LoginFn(ctx, email, password)
}

// Authenticate implements the AuthService interface
func (m *MockAuthService) Authenticate(ctx context.Context, email, password string) (domain.Principal, error) {
	return m.AuthenticateFn(ctx, email, password)
}

// PrincipalFor implements the AuthService interface
func (m *MockAuthService) PrincipalFor(ctx context.Context, userID int64) (domain.Principal, error) {
	return m.PrincipalForFn(ctx, userID)
}

// MockUserService implements service.UserService for testing
type MockUserService struct {
	ListFn   func(ctx context.Context) ([]service.UserView, error)
	GetFn    func(ctx context.Context, id int64) (*service.UserView, error)
	CreateFn func(ctx context.Context, in service.CreateUserInput) (*service.UserView, error)
	UpdateFn func(ctx context.Context, actor domain.Principal, id int64, in service.UpdateUserInput) (*service.UserView, error)
	DeleteFn func(ctx context.Context, actor domain.Principal, id int64) error
}

// List implements the UserService interface
func (m *MockUserService) List(ctx context.Context) ([]service.UserView, error) {
	return m.ListFn(ctx)
}

// Get implements the UserService interface
func (m *MockUserService) Get(ctx context.Context, id int64) (*service.UserView, error) {
	return m.GetFn(ctx, id)
}

// Create implements the UserService interface
func (m *MockUserService) Create(ctx context.Context, in service.CreateUserInput) (*service.UserView, error) {
	return m.CreateFn(ctx, in)
}

// Update implements the UserService interface
func (m *MockUserService) Update(
	ctx context.Context,
	actor domain.Principal,
	id int64,
	in service.UpdateUserInput,
) (*service.UserView, error) {
	return m.UpdateFn(ctx, actor, id, in)
}

// Delete implements the UserService interface
func (m *MockUserService) Delete(ctx context.Context, actor domain.Principal, id int64) error {
	return m.DeleteFn(ctx, actor, id)
}

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	ListFn   func(ctx context.Context, q service.TaskListQuery) (*service.TaskPage, error)
	GetFn    func(ctx context.Context, id int64) (*domain.Task, error)
	CreateFn func(ctx context.Context, actor domain.Principal, in service.CreateTaskInput) (*domain.Task, error)
	UpdateFn func(
		ctx context.Context,
		actor domain.Principal,
		id int64,
		in service.UpdateTaskInput,
	) (*domain.Task, error)
	UpdateAsAssigneeFn func(
		ctx context.Context,
		actor domain.Principal,
		id int64,
		in service.AssigneeUpdateInput,
	) (*domain.Task, error)
	DeleteFn func(ctx context.Context, actor domain.Principal, id int64) error
}

// List implements the TaskService interface
func (m *MockTaskService) List(ctx context.Context, q service.TaskListQuery) (*service.TaskPage, error) {
	return m.ListFn(ctx, q)
}

// Get implements the TaskService interface
func (m *MockTaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	return m.GetFn(ctx, id)
}

// Create implements the TaskService interface
func (m *MockTaskService) Create(
	ctx context.Context,
	actor domain.Principal,
	in service.CreateTaskInput,
) (*domain.Task, error) {
	return m.CreateFn(ctx, actor, in)
}

// Update implements the TaskService interface
func (m *MockTaskService) Update(
	ctx context.Context,
	actor domain.Principal,
	id int64,
	in service.UpdateTaskInput,
) (*domain.Task, error) {
	return m.UpdateFn(ctx, actor, id, in)
}

// UpdateAsAssignee implements the TaskService interface
func (m *MockTaskService) UpdateAsAssignee(
	ctx context.Context,
	actor domain.Principal,
	id int64,
	in service.AssigneeUpdateInput,
) (*domain.Task, error) {
	return m.UpdateAsAssigneeFn(ctx, actor, id, in)
}

// Delete implements the TaskService interface
func (m *MockTaskService) Delete(ctx context.Context, actor domain.Principal, id int64) error {
	return m.DeleteFn(ctx, actor, id)
}

// MockTaskStatusService implements service.TaskStatusService for testing
type MockTaskStatusService struct {
	ListFn   func(ctx context.Context) ([]domain.TaskStatus, error)
	GetFn    func(ctx context.Context, id int64) (*domain.TaskStatus, error)
	CreateFn func(ctx context.Context, name string) (*domain.TaskStatus, error)
	UpdateFn func(ctx context.Context, id int64, name nullable.Value[string]) (*domain.TaskStatus, error)
	DeleteFn func(ctx context.Context, id int64) error
}

// List implements the TaskStatusService interface
func (m *MockTaskStatusService) List(ctx context.Context) ([]domain.TaskStatus, error) {
	return m.ListFn(ctx)
}

// Get implements the TaskStatusService interface
func (m *MockTaskStatusService) Get(ctx context.Context, id int64) (*domain.TaskStatus, error) {
	return m.GetFn(ctx, id)
}

// Create implements the TaskStatusService interface
func (m *MockTaskStatusService) Create(ctx context.Context, name string) (*domain.TaskStatus, error) {
	return m.CreateFn(ctx, name)
}

// Update implements the TaskStatusService interface
func (m *MockTaskStatusService) Update(
	ctx context.Context,
	id int64,
	name nullable.Value[string],
) (*domain.TaskStatus, error) {
	return m.UpdateFn(ctx, id, name)
}

// Delete implements the TaskStatusService interface
func (m *MockTaskStatusService) Delete(ctx context.Context, id int64) error {
	return m.DeleteFn(ctx, id)
}

// MockTaskPriorityService implements service.TaskPriorityService for testing
type MockTaskPriorityService struct {
	ListFn   func(ctx context.Context) ([]domain.TaskPriority, error)
	GetFn    func(ctx context.Context, id int64) (*domain.TaskPriority, error)
	CreateFn func(ctx context.Context, name string) (*domain.TaskPriority, error)
	UpdateFn func(ctx context.Context, id int64, name nullable.Value[string]) (*domain.TaskPriority, error)
	DeleteFn func(ctx context.Context, id int64) error
}

// List implements the TaskPriorityService interface
func (m *MockTaskPriorityService) List(ctx context.Context) ([]domain.TaskPriority, error) {
	return m.ListFn(ctx)
}

// Get implements the TaskPriorityService interface
func (m *MockTaskPriorityService) Get(ctx context.Context, id int64) (*domain.TaskPriority, error) {
	return m.GetFn(ctx, id)
}

// Create implements the TaskPriorityService interface
func (m *MockTaskPriorityService) Create(ctx context.Context, name string) (*domain.TaskPriority, error) {
	return m.CreateFn(ctx, name)
}

// Update implements the TaskPriorityService interface
func (m *MockTaskPriorityService) Update(
	ctx context.Context,
	id int64,
	name nullable.Value[string],
) (*domain.TaskPriority, error) {
	return m.UpdateFn(ctx, id, name)
}

// Delete implements the TaskPriorityService interface
func (m *MockTaskPriorityService) Delete(ctx context.Context, id int64) error {
	return m.DeleteFn(ctx, id)
}

// MockTaskCommentService implements service.TaskCommentService for testing
type MockTaskCommentService struct {
	ListFn   func(ctx context.Context, taskID int64) ([]domain.TaskComment, error)
	GetFn    func(ctx context.Context, taskID, id int64) (*domain.TaskComment, error)
	CreateFn func(
		ctx context.Context,
		actor domain.Principal,
		taskID int64,
		in service.CreateCommentInput,
	) (*domain.TaskComment, error)
	UpdateFn func(
		ctx context.Context,
		actor domain.Principal,
		taskID, id int64,
		in service.UpdateCommentInput,
	) (*domain.TaskComment, error)
	DeleteFn func(ctx context.Context, actor domain.Principal, taskID, id int64) error
}

// List implements the TaskCommentService interface
func (m *MockTaskCommentService) List(ctx context.Context, taskID int64) ([]domain.TaskComment, error) {
	return m.ListFn(ctx, taskID)
}

// Get implements the TaskCommentService interface
func (m *MockTaskCommentService) Get(ctx context.Context, taskID, id int64) (*domain.TaskComment, error) {
	return m.GetFn(ctx, taskID, id)
}

// Create implements the TaskCommentService interface
func (m *MockTaskCommentService) Create(
	ctx context.Context,
	actor domain.Principal,
	taskID int64,
	in service.CreateCommentInput,
) (*domain.TaskComment, error) {
	return m.CreateFn(ctx, actor, taskID, in)
}

// Update implements the TaskCommentService interface
func (m *MockTaskCommentService) Update(
	ctx context.Context,
	actor domain.Principal,
	taskID, id int64,
	in service.UpdateCommentInput,
) (*domain.TaskComment, error) {
	return m.UpdateFn(ctx, actor, taskID, id, in)
}

// Delete implements the TaskCommentService interface
func (m *MockTaskCommentService) Delete(ctx context.Context, actor domain.Principal, taskID, id int64) error {
	return m.DeleteFn(ctx, actor, taskID, id)
}
