package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/phrazzld/taskboard-api/internal/nullable"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// TaskListQuery selects one page of tasks.
type TaskListQuery struct {
	Filter store.TaskFilter
	// Sort is "field,direction"; empty means id ascending.
	Sort string
	// Page is 1-based.
	Page int
}

// TaskPage is one page of tasks and the number of tasks matching the filter.
type TaskPage struct {
	Tasks []*domain.Task
	Total int
	Page  store.Page
	Sort  store.Sort
}

// CreateTaskInput holds the fields of a new task. Status and Priority are names.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	AuthorID    int64
	AssigneeID  int64
}

// UpdateTaskInput holds a partial task update. Absent or null fields are left unchanged.
type UpdateTaskInput struct {
	Title       nullable.Value[string]
	Description nullable.Value[string]
	Status      nullable.Value[string]
	Priority    nullable.Value[string]
	AuthorID    nullable.Value[int64]
	AssigneeID  nullable.Value[int64]
}

// AssigneeUpdateInput is the subset of task fields an assignee may change.
type AssigneeUpdateInput struct {
	Title       nullable.Value[string]
	Description nullable.Value[string]
	Status      nullable.Value[string]
}

// TaskService manages tasks.
type TaskService interface {
	// List returns one page of tasks matching the filter, with comments.
	// Returns store.ErrInvalidSort or store.ErrInvalidPage for bad input.
	List(ctx context.Context, q TaskListQuery) (*TaskPage, error)

	// Get returns a task with its comments.
	Get(ctx context.Context, id int64) (*domain.Task, error)

	// Create resolves the referenced status, priority and users and stores
	// the task. Unknown references are reported as not found.
	Create(ctx context.Context, actor domain.Principal, in CreateTaskInput) (*domain.Task, error)

	// Update applies a partial update, re-resolving changed references.
	Update(ctx context.Context, actor domain.Principal, id int64, in UpdateTaskInput) (*domain.Task, error)

	// UpdateAsAssignee lets ADMIN or the task's assignee change the title,
	// description and status.
	UpdateAsAssignee(ctx context.Context, actor domain.Principal, id int64, in AssigneeUpdateInput) (*domain.Task, error)

	// Delete removes a task and its comments.
	Delete(ctx context.Context, actor domain.Principal, id int64) error
}

// TaskStores groups the stores the task service reads and writes.
type TaskStores struct {
	Tasks      store.TaskStore
	Statuses   store.TaskStatusStore
	Priorities store.TaskPriorityStore
	Users      store.UserStore
	Comments   store.TaskCommentStore
}

func (ts TaskStores) withTx(tx *sql.Tx) TaskStores {
	return TaskStores{
		Tasks:      ts.Tasks.WithTx(tx),
		Statuses:   ts.Statuses.WithTx(tx),
		Priorities: ts.Priorities.WithTx(tx),
		Users:      ts.Users.WithTx(tx),
		Comments:   ts.Comments.WithTx(tx),
	}
}

type taskService struct {
	db      store.TxBeginner
	stores  TaskStores
	emitter events.EventEmitter
	logger  *slog.Logger
}

var _ TaskService = (*taskService)(nil)

// NewTaskService creates a TaskService. A nil emitter discards events.
func NewTaskService(
	db store.TxBeginner,
	stores TaskStores,
	emitter events.EventEmitter,
	logger *slog.Logger,
) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	return &taskService{
		db:      db,
		stores:  stores,
		emitter: emitter,
		logger:  logger.With("component", "task_service"),
	}
}

func (s *taskService) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

func (s *taskService) List(ctx context.Context, q TaskListQuery) (*TaskPage, error) {
	sort, err := store.ParseSort(q.Sort)
	if err != nil {
		return nil, wrap("task", "list", err)
	}
	pageNumber := q.Page
	if pageNumber == 0 {
		pageNumber = 1
	}
	page, err := store.NewPage(pageNumber)
	if err != nil {
		return nil, wrap("task", "list", err)
	}

	tasks, err := s.stores.Tasks.List(ctx, q.Filter, sort, page)
	if err != nil {
		return nil, wrap("task", "list", err)
	}
	total, err := s.stores.Tasks.Count(ctx, q.Filter)
	if err != nil {
		return nil, wrap("task", "list", err)
	}
	if err := attachComments(ctx, s.stores.Comments, tasks...); err != nil {
		return nil, wrap("task", "list", err)
	}

	return &TaskPage{Tasks: tasks, Total: total, Page: page, Sort: sort}, nil
}

func (s *taskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.stores.Tasks.GetByID(ctx, id)
	if err != nil {
		return nil, wrap("task", "get", err)
	}
	if err := attachComments(ctx, s.stores.Comments, task); err != nil {
		return nil, wrap("task", "get", err)
	}
	return task, nil
}

// attachComments loads the comments of all tasks with a single query.
func attachComments(ctx context.Context, comments store.TaskCommentStore, tasks ...*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}

	byTask, err := comments.ListByTaskIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		t.Comments = byTask[t.ID]
		if t.Comments == nil {
			t.Comments = []domain.TaskComment{}
		}
	}
	return nil
}

func (s *taskService) Create(ctx context.Context, actor domain.Principal, in CreateTaskInput) (*domain.Task, error) {
	var task *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		st := s.stores.withTx(tx)

		status, err := st.Statuses.GetByName(ctx, strings.TrimSpace(in.Status))
		if err != nil {
			return err
		}
		priority, err := st.Priorities.GetByName(ctx, strings.TrimSpace(in.Priority))
		if err != nil {
			return err
		}
		if err := ensureUsers(ctx, st.Users, in.AuthorID, in.AssigneeID); err != nil {
			return err
		}

		task, err = domain.NewTask(in.Title, in.Description, status, priority, in.AuthorID, in.AssigneeID)
		if err != nil {
			return err
		}
		return st.Tasks.Create(ctx, task)
	})
	if err != nil {
		return nil, wrap("task", "create", err)
	}

	task.Comments = []domain.TaskComment{}
	s.log(ctx).Info("task created", slog.Int64("task_id", task.ID), slog.Int64("actor_id", actor.UserID))
	s.emit(ctx, events.TaskCreated, actor, task)
	return task, nil
}

// ensureUsers checks that every id refers to a stored user.
func ensureUsers(ctx context.Context, users store.UserStore, ids ...int64) error {
	checked := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if checked[id] {
			continue
		}
		if _, err := users.GetByID(ctx, id); err != nil {
			return err
		}
		checked[id] = true
	}
	return nil
}

func (s *taskService) Update(
	ctx context.Context,
	actor domain.Principal,
	id int64,
	in UpdateTaskInput,
) (*domain.Task, error) {
	var (
		task     *domain.Task
		reassign bool
	)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		st := s.stores.withTx(tx)

		var err error
		task, err = st.Tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		previousAssignee := task.AssigneeID

		if err := applyTextAndStatus(ctx, st, task, in.Title, in.Description, in.Status); err != nil {
			return err
		}
		if name, ok := in.Priority.Get(); ok {
			priority, err := st.Priorities.GetByName(ctx, strings.TrimSpace(name))
			if err != nil {
				return err
			}
			task.SetPriority(priority)
		}
		if v, ok := in.AuthorID.Get(); ok && v != task.AuthorID {
			if err := ensureUsers(ctx, st.Users, v); err != nil {
				return err
			}
			task.AuthorID = v
		}
		if v, ok := in.AssigneeID.Get(); ok && v != task.AssigneeID {
			if err := ensureUsers(ctx, st.Users, v); err != nil {
				return err
			}
			task.AssigneeID = v
		}
		reassign = task.AssigneeID != previousAssignee

		return s.save(ctx, st, task)
	})
	if err != nil {
		return nil, wrap("task", "update", err)
	}

	s.log(ctx).Info("task updated", slog.Int64("task_id", id), slog.Int64("actor_id", actor.UserID))
	s.emit(ctx, events.TaskUpdated, actor, task)
	if reassign {
		s.emit(ctx, events.TaskAssigned, actor, task)
	}
	return task, nil
}

func (s *taskService) UpdateAsAssignee(
	ctx context.Context,
	actor domain.Principal,
	id int64,
	in AssigneeUpdateInput,
) (*domain.Task, error) {
	var task *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		st := s.stores.withTx(tx)

		var err error
		task, err = st.Tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !actor.Is(task.AssigneeID) {
			return ErrForbidden
		}

		if err := applyTextAndStatus(ctx, st, task, in.Title, in.Description, in.Status); err != nil {
			return err
		}
		return s.save(ctx, st, task)
	})
	if err != nil {
		return nil, wrap("task", "assignee update", err)
	}

	s.log(ctx).Info("task updated by assignee", slog.Int64("task_id", id), slog.Int64("actor_id", actor.UserID))
	s.emit(ctx, events.TaskUpdated, actor, task)
	return task, nil
}

// applyTextAndStatus merges the fields shared by both update paths.
func applyTextAndStatus(
	ctx context.Context,
	st TaskStores,
	task *domain.Task,
	title, description, status nullable.Value[string],
) error {
	if v, ok := title.Get(); ok {
		task.Title = strings.TrimSpace(v)
	}
	if v, ok := description.Get(); ok {
		task.Description = strings.TrimSpace(v)
	}
	if name, ok := status.Get(); ok {
		found, err := st.Statuses.GetByName(ctx, strings.TrimSpace(name))
		if err != nil {
			return err
		}
		task.SetStatus(found)
	}
	return nil
}

func (s *taskService) save(ctx context.Context, st TaskStores, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	task.Touch()
	if err := st.Tasks.Update(ctx, task); err != nil {
		return err
	}
	return attachComments(ctx, st.Comments, task)
}

func (s *taskService) Delete(ctx context.Context, actor domain.Principal, id int64) error {
	var task *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.stores.Tasks.WithTx(tx)
		var err error
		if task, err = tasks.GetByID(ctx, id); err != nil {
			return err
		}
		return tasks.Delete(ctx, id)
	})
	if err != nil {
		return wrap("task", "delete", err)
	}

	s.log(ctx).Info("task deleted", slog.Int64("task_id", id), slog.Int64("actor_id", actor.UserID))
	s.emit(ctx, events.TaskDeleted, actor, task)
	return nil
}

// emit publishes a task event. Failures are logged and never fail the request.
func (s *taskService) emit(ctx context.Context, eventType string, actor domain.Principal, task *domain.Task) {
	event, err := events.NewEvent(eventType, events.TaskPayload{
		TaskID:     task.ID,
		ActorID:    actor.UserID,
		AuthorID:   task.AuthorID,
		AssigneeID: task.AssigneeID,
		Status:     task.Status,
		Priority:   task.Priority,
	})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		s.log(ctx).Warn("failed to emit task event",
			slog.String("event_type", eventType),
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
	}
}
