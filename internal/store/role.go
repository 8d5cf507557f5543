package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// RoleStore defines the interface for role persistence.
type RoleStore interface {
	// GetByName retrieves the role with the given name.
	// Returns ErrRoleNotFound if no such role has been stored.
	GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)

	// List returns every stored role ordered by ID.
	List(ctx context.Context) ([]domain.Role, error)

	// EnsureExists returns the role with the given name, inserting it first
	// if it is missing. It is idempotent.
	EnsureExists(ctx context.Context, name domain.RoleName) (*domain.Role, error)

	// WithTx returns a new RoleStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) RoleStore
}
