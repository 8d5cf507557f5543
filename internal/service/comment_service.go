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

// CreateCommentInput holds a new comment. An absent AuthorID means the caller.
type CreateCommentInput struct {
	AuthorID    nullable.Value[int64]
	Title       string
	Description string
}

// UpdateCommentInput holds a partial comment update. A null Title clears it;
// other absent or null fields are left unchanged.
type UpdateCommentInput struct {
	AuthorID    nullable.Value[int64]
	Title       nullable.Value[string]
	Description nullable.Value[string]
}

// TaskCommentService manages the comments of a task. Every operation first
// resolves the parent task, and comments are only found on their own task.
type TaskCommentService interface {
	List(ctx context.Context, taskID int64) ([]domain.TaskComment, error)
	Get(ctx context.Context, taskID, id int64) (*domain.TaskComment, error)

	// Create adds a comment. Only ADMIN or the task's assignee may comment.
	Create(ctx context.Context, actor domain.Principal, taskID int64, in CreateCommentInput) (*domain.TaskComment, error)

	// Update and Delete are allowed for ADMIN or the comment's author.
	Update(
		ctx context.Context,
		actor domain.Principal,
		taskID, id int64,
		in UpdateCommentInput,
	) (*domain.TaskComment, error)
	Delete(ctx context.Context, actor domain.Principal, taskID, id int64) error
}

type taskCommentService struct {
	db       store.TxBeginner
	tasks    store.TaskStore
	users    store.UserStore
	comments store.TaskCommentStore
	emitter  events.EventEmitter
	logger   *slog.Logger
}

var _ TaskCommentService = (*taskCommentService)(nil)

// NewTaskCommentService creates a TaskCommentService. A nil emitter discards events.
func NewTaskCommentService(
	db store.TxBeginner,
	tasks store.TaskStore,
	users store.UserStore,
	comments store.TaskCommentStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) TaskCommentService {
	if logger == nil {
		logger = slog.Default()
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	return &taskCommentService{
		db:       db,
		tasks:    tasks,
		users:    users,
		comments: comments,
		emitter:  emitter,
		logger:   logger.With("component", "task_comment_service"),
	}
}

func (s *taskCommentService) List(ctx context.Context, taskID int64) ([]domain.TaskComment, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, wrap("comment", "list", err)
	}
	comments, err := s.comments.ListByTask(ctx, taskID)
	return comments, wrap("comment", "list", err)
}

func (s *taskCommentService) Get(ctx context.Context, taskID, id int64) (*domain.TaskComment, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, wrap("comment", "get", err)
	}
	comment, err := s.comments.GetByID(ctx, taskID, id)
	return comment, wrap("comment", "get", err)
}

func (s *taskCommentService) Create(
	ctx context.Context,
	actor domain.Principal,
	taskID int64,
	in CreateCommentInput,
) (*domain.TaskComment, error) {
	var comment *domain.TaskComment
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		task, err := s.tasks.WithTx(tx).GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !actor.Is(task.AssigneeID) {
			return ErrForbidden
		}

		authorID := in.AuthorID.OrElse(actor.UserID)
		if _, err := s.users.WithTx(tx).GetByID(ctx, authorID); err != nil {
			return err
		}

		comment, err = domain.NewTaskComment(taskID, authorID, in.Title, in.Description)
		if err != nil {
			return err
		}
		return s.comments.WithTx(tx).Create(ctx, comment)
	})
	if err != nil {
		return nil, wrap("comment", "create", err)
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Info("comment created",
		slog.Int64("task_id", taskID),
		slog.Int64("comment_id", comment.ID),
		slog.Int64("actor_id", actor.UserID))

	event, err := events.NewEvent(events.CommentCreated, events.CommentPayload{
		TaskID:    taskID,
		CommentID: comment.ID,
		ActorID:   actor.UserID,
	})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		log.Warn("failed to emit comment event", slog.String("error", err.Error()))
	}
	return comment, nil
}

// authorized loads the comment and checks that actor may modify it.
func (s *taskCommentService) authorized(
	ctx context.Context,
	tx *sql.Tx,
	actor domain.Principal,
	taskID, id int64,
) (*domain.TaskComment, error) {
	if _, err := s.tasks.WithTx(tx).GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	comment, err := s.comments.WithTx(tx).GetByID(ctx, taskID, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Is(comment.AuthorID) {
		return nil, ErrForbidden
	}
	return comment, nil
}

func (s *taskCommentService) Update(
	ctx context.Context,
	actor domain.Principal,
	taskID, id int64,
	in UpdateCommentInput,
) (*domain.TaskComment, error) {
	var comment *domain.TaskComment
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		comment, err = s.authorized(ctx, tx, actor, taskID, id)
		if err != nil {
			return err
		}

		if v, ok := in.AuthorID.Get(); ok && v != comment.AuthorID {
			if _, err := s.users.WithTx(tx).GetByID(ctx, v); err != nil {
				return err
			}
			comment.AuthorID = v
		}
		if in.Title.IsSet() {
			comment.Title = strings.TrimSpace(in.Title.OrElse(""))
		}
		if v, ok := in.Description.Get(); ok {
			comment.Description = strings.TrimSpace(v)
		}

		if err := comment.Validate(); err != nil {
			return err
		}
		comment.Touch()
		return s.comments.WithTx(tx).Update(ctx, comment)
	})
	if err != nil {
		return nil, wrap("comment", "update", err)
	}
	return comment, nil
}

func (s *taskCommentService) Delete(ctx context.Context, actor domain.Principal, taskID, id int64) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.authorized(ctx, tx, actor, taskID, id); err != nil {
			return err
		}
		return s.comments.WithTx(tx).Delete(ctx, taskID, id)
	})
	if err != nil {
		return wrap("comment", "delete", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("comment deleted",
		slog.Int64("task_id", taskID),
		slog.Int64("comment_id", id),
		slog.Int64("actor_id", actor.UserID))
	return nil
}
