package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
)

const commentColumns = `id, task_id, author_id, title, description, created_at, updated_at`

// PostgresTaskCommentStore implements the store.TaskCommentStore interface.
type PostgresTaskCommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskCommentStore creates a new PostgreSQL implementation of the TaskCommentStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskCommentStore(db store.DBTX, logger *slog.Logger) *PostgresTaskCommentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskCommentStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_comment_store")),
	}
}

// Ensure PostgresTaskCommentStore implements store.TaskCommentStore interface
var _ store.TaskCommentStore = (*PostgresTaskCommentStore)(nil)

// WithTx implements store.TaskCommentStore.WithTx.
func (s *PostgresTaskCommentStore) WithTx(tx *sql.Tx) store.TaskCommentStore {
	return &PostgresTaskCommentStore{db: tx, logger: s.logger}
}

// Create implements store.TaskCommentStore.Create.
func (s *PostgresTaskCommentStore) Create(ctx context.Context, comment *domain.TaskComment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		log.Warn("comment validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO task_comments (task_id, author_id, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		comment.TaskID,
		comment.AuthorID,
		nullString(comment.Title),
		comment.Description,
		comment.CreatedAt,
		comment.UpdatedAt,
	).Scan(&comment.ID)
	if err != nil {
		log.Error("failed to create comment",
			slog.String("error", err.Error()),
			slog.Int64("task_id", comment.TaskID))
		return MapWriteError(err, nil)
	}

	log.Info("comment created successfully",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("task_id", comment.TaskID))
	return nil
}

// GetByID implements store.TaskCommentStore.GetByID.
func (s *PostgresTaskCommentStore) GetByID(ctx context.Context, taskID, id int64) (*domain.TaskComment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + commentColumns + ` FROM task_comments WHERE id = $1 AND task_id = $2`
	comment, err := scanComment(s.db.QueryRowContext(ctx, query, id, taskID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("comment not found",
				slog.Int64("comment_id", id),
				slog.Int64("task_id", taskID))
			return nil, store.ErrCommentNotFound
		}
		log.Error("failed to get comment", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return comment, nil
}

// ListByTask implements store.TaskCommentStore.ListByTask.
func (s *PostgresTaskCommentStore) ListByTask(ctx context.Context, taskID int64) ([]domain.TaskComment, error) {
	byTask, err := s.list(ctx,
		`SELECT `+commentColumns+` FROM task_comments WHERE task_id = $1 ORDER BY id`, taskID)
	if err != nil {
		return nil, err
	}
	if comments, ok := byTask[taskID]; ok {
		return comments, nil
	}
	return []domain.TaskComment{}, nil
}

// ListByTaskIDs implements store.TaskCommentStore.ListByTaskIDs.
func (s *PostgresTaskCommentStore) ListByTaskIDs(
	ctx context.Context,
	taskIDs []int64,
) (map[int64][]domain.TaskComment, error) {
	if len(taskIDs) == 0 {
		return map[int64][]domain.TaskComment{}, nil
	}
	return s.list(ctx,
		`SELECT `+commentColumns+` FROM task_comments WHERE task_id = ANY($1) ORDER BY task_id, id`, taskIDs)
}

// Update implements store.TaskCommentStore.Update.
func (s *PostgresTaskCommentStore) Update(ctx context.Context, comment *domain.TaskComment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		log.Warn("comment validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("comment_id", comment.ID))
		return err
	}

	query := `
		UPDATE task_comments
		SET author_id = $1, title = $2, description = $3, updated_at = $4
		WHERE id = $5 AND task_id = $6
	`
	result, err := s.db.ExecContext(ctx, query,
		comment.AuthorID,
		nullString(comment.Title),
		comment.Description,
		comment.UpdatedAt,
		comment.ID,
		comment.TaskID,
	)
	if err != nil {
		log.Error("failed to update comment",
			slog.String("error", err.Error()),
			slog.Int64("comment_id", comment.ID))
		return MapWriteError(err, nil)
	}
	if err := expectAffected(result, "task comment", store.ErrCommentNotFound); err != nil {
		return err
	}

	log.Info("comment updated successfully", slog.Int64("comment_id", comment.ID))
	return nil
}

// Delete implements store.TaskCommentStore.Delete.
func (s *PostgresTaskCommentStore) Delete(ctx context.Context, taskID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM task_comments WHERE id = $1 AND task_id = $2`, id, taskID)
	if err != nil {
		log.Error("failed to delete comment",
			slog.String("error", err.Error()),
			slog.Int64("comment_id", id))
		return MapError(err)
	}
	if err := expectAffected(result, "task comment", store.ErrCommentNotFound); err != nil {
		return err
	}

	log.Info("comment deleted successfully",
		slog.Int64("comment_id", id),
		slog.Int64("task_id", taskID))
	return nil
}

func (s *PostgresTaskCommentStore) list(
	ctx context.Context,
	query string,
	args ...any,
) (map[int64][]domain.TaskComment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query comments", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	byTask := map[int64][]domain.TaskComment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			log.Error("failed to scan comment row", slog.String("error", err.Error()))
			return nil, err
		}
		byTask[comment.TaskID] = append(byTask[comment.TaskID], *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return byTask, nil
}

func scanComment(row rowScanner) (*domain.TaskComment, error) {
	var c domain.TaskComment
	var title sql.NullString
	err := row.Scan(
		&c.ID,
		&c.TaskID,
		&c.AuthorID,
		&title,
		&c.Description,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Title = title.String
	return &c, nil
}
