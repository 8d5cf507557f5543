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

// namedRow is a row of one of the (id, name) lookup tables.
type namedRow struct {
	ID   int64
	Name string
}

// namedTable holds the queries and errors of a lookup table. Statuses and
// priorities share the same shape and differ only in table and sentinels.
type namedTable struct {
	entity    string
	table     string
	notFound  error
	duplicate error
}

var (
	statusTable = namedTable{
		entity:    "task status",
		table:     "task_statuses",
		notFound:  store.ErrStatusNotFound,
		duplicate: store.ErrStatusNameExists,
	}
	priorityTable = namedTable{
		entity:    "task priority",
		table:     "task_priorities",
		notFound:  store.ErrPriorityNotFound,
		duplicate: store.ErrPriorityNameExists,
	}
)

// namedStore implements the shared persistence of lookup tables.
type namedStore struct {
	db     store.DBTX
	logger *slog.Logger
	t      namedTable
}

func (s namedStore) create(ctx context.Context, name string) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO `+s.t.table+` (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("name already exists", slog.String("name", name))
			return 0, MapWriteError(err, s.t.duplicate)
		}
		log.Error("failed to create "+s.t.entity, slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	log.Info(s.t.entity+" created successfully", slog.Int64("id", id), slog.String("name", name))
	return id, nil
}

func (s namedStore) getByID(ctx context.Context, id int64) (namedRow, error) {
	return s.getOne(ctx, `SELECT id, name FROM `+s.t.table+` WHERE id = $1`, id)
}

func (s namedStore) getByName(ctx context.Context, name string) (namedRow, error) {
	return s.getOne(ctx, `SELECT id, name FROM `+s.t.table+` WHERE name = $1`, name)
}

func (s namedStore) getOne(ctx context.Context, query string, arg any) (namedRow, error) {
	var row namedRow
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&row.ID, &row.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return namedRow{}, s.t.notFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get "+s.t.entity,
			slog.String("error", err.Error()))
		return namedRow{}, MapError(err)
	}
	return row, nil
}

func (s namedStore) existsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+s.t.table+` WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

func (s namedStore) list(ctx context.Context) ([]namedRow, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM `+s.t.table+` ORDER BY id`)
	if err != nil {
		log.Error("failed to list "+s.t.table, slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	var out []namedRow
	for rows.Next() {
		var row namedRow
		if err := rows.Scan(&row.ID, &row.Name); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s namedStore) update(ctx context.Context, id int64, name string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE `+s.t.table+` SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		if IsUniqueViolation(err) {
			return MapWriteError(err, s.t.duplicate)
		}
		log.Error("failed to update "+s.t.entity,
			slog.String("error", err.Error()),
			slog.Int64("id", id))
		return MapError(err)
	}
	return expectAffected(result, s.t.entity, s.t.notFound)
}

func (s namedStore) delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM `+s.t.table+` WHERE id = $1`, id)
	if err != nil {
		log.Warn("failed to delete "+s.t.entity,
			slog.String("error", err.Error()),
			slog.Int64("id", id))
		return MapDeleteError(err, s.t.entity)
	}
	if err := expectAffected(result, s.t.entity, s.t.notFound); err != nil {
		return err
	}

	log.Info(s.t.entity+" deleted successfully", slog.Int64("id", id))
	return nil
}

func newNamedStore(db store.DBTX, log *slog.Logger, t namedTable, component string) namedStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return namedStore{db: db, logger: log.With(slog.String("component", component)), t: t}
}

// PostgresTaskStatusStore implements the store.TaskStatusStore interface.
type PostgresTaskStatusStore struct {
	named namedStore
}

// NewPostgresTaskStatusStore creates a new PostgreSQL implementation of the TaskStatusStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStatusStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStatusStore {
	return &PostgresTaskStatusStore{named: newNamedStore(db, logger, statusTable, "task_status_store")}
}

// Ensure PostgresTaskStatusStore implements store.TaskStatusStore interface
var _ store.TaskStatusStore = (*PostgresTaskStatusStore)(nil)

// WithTx implements store.TaskStatusStore.WithTx.
func (s *PostgresTaskStatusStore) WithTx(tx *sql.Tx) store.TaskStatusStore {
	named := s.named
	named.db = tx
	return &PostgresTaskStatusStore{named: named}
}

// Create implements store.TaskStatusStore.Create.
func (s *PostgresTaskStatusStore) Create(ctx context.Context, status *domain.TaskStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	id, err := s.named.create(ctx, status.Name)
	if err != nil {
		return err
	}
	status.ID = id
	return nil
}

// GetByID implements store.TaskStatusStore.GetByID.
func (s *PostgresTaskStatusStore) GetByID(ctx context.Context, id int64) (*domain.TaskStatus, error) {
	row, err := s.named.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.TaskStatus{ID: row.ID, Name: row.Name}, nil
}

// GetByName implements store.TaskStatusStore.GetByName.
func (s *PostgresTaskStatusStore) GetByName(ctx context.Context, name string) (*domain.TaskStatus, error) {
	row, err := s.named.getByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return &domain.TaskStatus{ID: row.ID, Name: row.Name}, nil
}

// ExistsByName implements store.TaskStatusStore.ExistsByName.
func (s *PostgresTaskStatusStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	return s.named.existsByName(ctx, name)
}

// List implements store.TaskStatusStore.List.
func (s *PostgresTaskStatusStore) List(ctx context.Context) ([]domain.TaskStatus, error) {
	rows, err := s.named.list(ctx)
	if err != nil {
		return nil, err
	}
	statuses := make([]domain.TaskStatus, 0, len(rows))
	for _, row := range rows {
		statuses = append(statuses, domain.TaskStatus{ID: row.ID, Name: row.Name})
	}
	return statuses, nil
}

// Update implements store.TaskStatusStore.Update.
func (s *PostgresTaskStatusStore) Update(ctx context.Context, status *domain.TaskStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	return s.named.update(ctx, status.ID, status.Name)
}

// Delete implements store.TaskStatusStore.Delete.
func (s *PostgresTaskStatusStore) Delete(ctx context.Context, id int64) error {
	return s.named.delete(ctx, id)
}

// PostgresTaskPriorityStore implements the store.TaskPriorityStore interface.
type PostgresTaskPriorityStore struct {
	named namedStore
}

// NewPostgresTaskPriorityStore creates a new PostgreSQL implementation of the TaskPriorityStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskPriorityStore(db store.DBTX, logger *slog.Logger) *PostgresTaskPriorityStore {
	return &PostgresTaskPriorityStore{named: newNamedStore(db, logger, priorityTable, "task_priority_store")}
}

// Ensure PostgresTaskPriorityStore implements store.TaskPriorityStore interface
var _ store.TaskPriorityStore = (*PostgresTaskPriorityStore)(nil)

// WithTx implements store.TaskPriorityStore.WithTx.
func (s *PostgresTaskPriorityStore) WithTx(tx *sql.Tx) store.TaskPriorityStore {
	named := s.named
	named.db = tx
	return &PostgresTaskPriorityStore{named: named}
}

// Create implements store.TaskPriorityStore.Create.
func (s *PostgresTaskPriorityStore) Create(ctx context.Context, priority *domain.TaskPriority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	id, err := s.named.create(ctx, priority.Name)
	if err != nil {
		return err
	}
	priority.ID = id
	return nil
}

// GetByID implements store.TaskPriorityStore.GetByID.
func (s *PostgresTaskPriorityStore) GetByID(ctx context.Context, id int64) (*domain.TaskPriority, error) {
	row, err := s.named.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.TaskPriority{ID: row.ID, Name: row.Name}, nil
}

// GetByName implements store.TaskPriorityStore.GetByName.
func (s *PostgresTaskPriorityStore) GetByName(ctx context.Context, name string) (*domain.TaskPriority, error) {
	row, err := s.named.getByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return &domain.TaskPriority{ID: row.ID, Name: row.Name}, nil
}

// ExistsByName implements store.TaskPriorityStore.ExistsByName.
func (s *PostgresTaskPriorityStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	return s.named.existsByName(ctx, name)
}

// List implements store.TaskPriorityStore.List.
func (s *PostgresTaskPriorityStore) List(ctx context.Context) ([]domain.TaskPriority, error) {
	rows, err := s.named.list(ctx)
	if err != nil {
		return nil, err
	}
	priorities := make([]domain.TaskPriority, 0, len(rows))
	for _, row := range rows {
		priorities = append(priorities, domain.TaskPriority{ID: row.ID, Name: row.Name})
	}
	return priorities, nil
}

// Update implements store.TaskPriorityStore.Update.
func (s *PostgresTaskPriorityStore) Update(ctx context.Context, priority *domain.TaskPriority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	return s.named.update(ctx, priority.ID, priority.Name)
}

// Delete implements store.TaskPriorityStore.Delete.
func (s *PostgresTaskPriorityStore) Delete(ctx context.Context, id int64) error {
	return s.named.delete(ctx, id)
}
