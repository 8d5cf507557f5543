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

// PostgresRoleStore implements the store.RoleStore interface.
type PostgresRoleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRoleStore creates a new PostgreSQL implementation of the RoleStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresRoleStore(db store.DBTX, logger *slog.Logger) *PostgresRoleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRoleStore{
		db:     db,
		logger: logger.With(slog.String("component", "role_store")),
	}
}

// Ensure PostgresRoleStore implements store.RoleStore interface
var _ store.RoleStore = (*PostgresRoleStore)(nil)

// WithTx implements store.RoleStore.WithTx.
func (s *PostgresRoleStore) WithTx(tx *sql.Tx) store.RoleStore {
	return &PostgresRoleStore{db: tx, logger: s.logger}
}

// GetByName implements store.RoleStore.GetByName.
func (s *PostgresRoleStore) GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var role domain.Role
	var roleName string
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM roles WHERE name = $1`, string(name)).
		Scan(&role.ID, &roleName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("role not found", slog.String("role", string(name)))
			return nil, store.ErrRoleNotFound
		}
		log.Error("failed to get role", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	role.Name = domain.RoleName(roleName)
	return &role, nil
}

// List implements store.RoleStore.List.
func (s *PostgresRoleStore) List(ctx context.Context) ([]domain.Role, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM roles ORDER BY id`)
	if err != nil {
		log.Error("failed to list roles", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	roles := []domain.Role{}
	for rows.Next() {
		var role domain.Role
		var name string
		if err := rows.Scan(&role.ID, &name); err != nil {
			return nil, err
		}
		role.Name = domain.RoleName(name)
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// EnsureExists implements store.RoleStore.EnsureExists.
func (s *PostgresRoleStore) EnsureExists(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !name.Valid() {
		return nil, store.NewStoreError("role", "ensure", "unknown role name", domain.ErrInvalidRole)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, string(name))
	if err != nil {
		log.Error("failed to insert role",
			slog.String("error", err.Error()),
			slog.String("role", string(name)))
		return nil, MapError(err)
	}
	return s.GetByName(ctx, name)
}
