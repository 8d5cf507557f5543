package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/nullable"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// TaskStatusService manages the catalog of task statuses.
type TaskStatusService interface {
	List(ctx context.Context) ([]domain.TaskStatus, error)
	Get(ctx context.Context, id int64) (*domain.TaskStatus, error)

	// Create adds a status. Returns store.ErrStatusNameExists for a taken name.
	Create(ctx context.Context, name string) (*domain.TaskStatus, error)

	// Update renames a status when name is set.
	Update(ctx context.Context, id int64, name nullable.Value[string]) (*domain.TaskStatus, error)

	// Delete removes a status. Returns ErrHasAssignedTasks while tasks use it.
	Delete(ctx context.Context, id int64) error
}

// TaskPriorityService manages the catalog of task priorities.
type TaskPriorityService interface {
	List(ctx context.Context) ([]domain.TaskPriority, error)
	Get(ctx context.Context, id int64) (*domain.TaskPriority, error)
	Create(ctx context.Context, name string) (*domain.TaskPriority, error)
	Update(ctx context.Context, id int64, name nullable.Value[string]) (*domain.TaskPriority, error)
	Delete(ctx context.Context, id int64) error
}

type taskStatusService struct {
	db       store.TxBeginner
	statuses store.TaskStatusStore
	tasks    store.TaskStore
	logger   *slog.Logger
}

var _ TaskStatusService = (*taskStatusService)(nil)

// NewTaskStatusService creates a TaskStatusService.
func NewTaskStatusService(
	db store.TxBeginner,
	statuses store.TaskStatusStore,
	tasks store.TaskStore,
	logger *slog.Logger,
) TaskStatusService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskStatusService{
		db:       db,
		statuses: statuses,
		tasks:    tasks,
		logger:   logger.With("component", "task_status_service"),
	}
}

func (s *taskStatusService) List(ctx context.Context) ([]domain.TaskStatus, error) {
	statuses, err := s.statuses.List(ctx)
	return statuses, wrap("task status", "list", err)
}

func (s *taskStatusService) Get(ctx context.Context, id int64) (*domain.TaskStatus, error) {
	status, err := s.statuses.GetByID(ctx, id)
	return status, wrap("task status", "get", err)
}

func (s *taskStatusService) Create(ctx context.Context, name string) (*domain.TaskStatus, error) {
	status, err := domain.NewTaskStatus(name)
	if err != nil {
		return nil, wrap("task status", "create", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		statuses := s.statuses.WithTx(tx)
		exists, err := statuses.ExistsByName(ctx, status.Name)
		if err != nil {
			return err
		}
		if exists {
			return store.ErrStatusNameExists
		}
		return statuses.Create(ctx, status)
	})
	if err != nil {
		return nil, wrap("task status", "create", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task status created",
		slog.Int64("status_id", status.ID), slog.String("name", status.Name))
	return status, nil
}

func (s *taskStatusService) Update(
	ctx context.Context,
	id int64,
	name nullable.Value[string],
) (*domain.TaskStatus, error) {
	var status *domain.TaskStatus
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		statuses := s.statuses.WithTx(tx)

		var err error
		status, err = statuses.GetByID(ctx, id)
		if err != nil {
			return err
		}

		newName, ok := name.Get()
		newName = strings.TrimSpace(newName)
		if !ok || newName == status.Name {
			return nil
		}

		exists, err := statuses.ExistsByName(ctx, newName)
		if err != nil {
			return err
		}
		if exists {
			return store.ErrStatusNameExists
		}

		status.Name = newName
		if err := status.Validate(); err != nil {
			return err
		}
		return statuses.Update(ctx, status)
	})
	if err != nil {
		return nil, wrap("task status", "update", err)
	}
	return status, nil
}

func (s *taskStatusService) Delete(ctx context.Context, id int64) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		statuses := s.statuses.WithTx(tx)
		if _, err := statuses.GetByID(ctx, id); err != nil {
			return err
		}

		n, err := s.tasks.WithTx(tx).CountByStatus(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %d task(s) use status %d", ErrHasAssignedTasks, n, id)
		}

		return inUseAsAssigned(statuses.Delete(ctx, id))
	})
	if err != nil {
		return wrap("task status", "delete", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task status deleted", slog.Int64("status_id", id))
	return nil
}

// inUseAsAssigned reports a foreign key failure on delete as ErrHasAssignedTasks.
// It covers tasks inserted after the count check.
func inUseAsAssigned(err error) error {
	if errors.Is(err, store.ErrInUse) && !errors.Is(err, ErrHasAssignedTasks) {
		return fmt.Errorf("%w: %v", ErrHasAssignedTasks, err)
	}
	return err
}

type taskPriorityService struct {
	db         store.TxBeginner
	priorities store.TaskPriorityStore
	tasks      store.TaskStore
	logger     *slog.Logger
}

var _ TaskPriorityService = (*taskPriorityService)(nil)

// NewTaskPriorityService creates a TaskPriorityService.
func NewTaskPriorityService(
	db store.TxBeginner,
	priorities store.TaskPriorityStore,
	tasks store.TaskStore,
	logger *slog.Logger,
) TaskPriorityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskPriorityService{
		db:         db,
		priorities: priorities,
		tasks:      tasks,
		logger:     logger.With("component", "task_priority_service"),
	}
}

func (s *taskPriorityService) List(ctx context.Context) ([]domain.TaskPriority, error) {
	priorities, err := s.priorities.List(ctx)
	return priorities, wrap("task priority", "list", err)
}

func (s *taskPriorityService) Get(ctx context.Context, id int64) (*domain.TaskPriority, error) {
	priority, err := s.priorities.GetByID(ctx, id)
	return priority, wrap("task priority", "get", err)
}

func (s *taskPriorityService) Create(ctx context.Context, name string) (*domain.TaskPriority, error) {
	priority, err := domain.NewTaskPriority(name)
	if err != nil {
		return nil, wrap("task priority", "create", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		priorities := s.priorities.WithTx(tx)
		exists, err := priorities.ExistsByName(ctx, priority.Name)
		if err != nil {
			return err
		}
		if exists {
			return store.ErrPriorityNameExists
		}
		return priorities.Create(ctx, priority)
	})
	if err != nil {
		return nil, wrap("task priority", "create", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task priority created",
		slog.Int64("priority_id", priority.ID), slog.String("name", priority.Name))
	return priority, nil
}

func (s *taskPriorityService) Update(
	ctx context.Context,
	id int64,
	name nullable.Value[string],
) (*domain.TaskPriority, error) {
	var priority *domain.TaskPriority
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		priorities := s.priorities.WithTx(tx)

		var err error
		priority, err = priorities.GetByID(ctx, id)
		if err != nil {
			return err
		}

		newName, ok := name.Get()
		newName = strings.TrimSpace(newName)
		if !ok || newName == priority.Name {
			return nil
		}

		exists, err := priorities.ExistsByName(ctx, newName)
		if err != nil {
			return err
		}
		if exists {
			return store.ErrPriorityNameExists
		}

		priority.Name = newName
		if err := priority.Validate(); err != nil {
			return err
		}
		return priorities.Update(ctx, priority)
	})
	if err != nil {
		return nil, wrap("task priority", "update", err)
	}
	return priority, nil
}

func (s *taskPriorityService) Delete(ctx context.Context, id int64) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		priorities := s.priorities.WithTx(tx)
		if _, err := priorities.GetByID(ctx, id); err != nil {
			return err
		}

		n, err := s.tasks.WithTx(tx).CountByPriority(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %d task(s) use priority %d", ErrHasAssignedTasks, n, id)
		}

		return inUseAsAssigned(priorities.Delete(ctx, id))
	})
	if err != nil {
		return wrap("task priority", "delete", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task priority deleted", slog.Int64("priority_id", id))
	return nil
}
