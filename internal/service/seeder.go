package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// Default catalog entries created on an empty database.
var (
	DefaultStatuses   = []string{"draft", "to_review", "to_be_fixed", "to_publish", "published"}
	DefaultPriorities = []string{"low", "medium", "high"}
)

// SeedOptions configures the initial administrator.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

// Seeder prepares a fresh database: both roles, an initial administrator and
// the default statuses and priorities. Each step is skipped when its data
// already exists, so Seed is safe to run on every start.
type Seeder struct {
	db         store.TxBeginner
	users      store.UserStore
	roles      store.RoleStore
	statuses   store.TaskStatusStore
	priorities store.TaskPriorityStore
	hasher     auth.PasswordHasher
	opts       SeedOptions
	logger     *slog.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(
	db store.TxBeginner,
	users store.UserStore,
	roles store.RoleStore,
	statuses store.TaskStatusStore,
	priorities store.TaskPriorityStore,
	hasher auth.PasswordHasher,
	opts SeedOptions,
	logger *slog.Logger,
) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		db:         db,
		users:      users,
		roles:      roles,
		statuses:   statuses,
		priorities: priorities,
		hasher:     hasher,
		opts:       opts,
		logger:     logger.With("component", "seeder"),
	}
}

// Seed runs every step in one transaction.
func (s *Seeder) Seed(ctx context.Context) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		roles := make(map[domain.RoleName]domain.Role, len(domain.AllRoles))
		for _, name := range domain.AllRoles {
			role, err := s.roles.WithTx(tx).EnsureExists(ctx, name)
			if err != nil {
				return err
			}
			roles[name] = *role
		}

		if err := s.seedAdmin(ctx, s.users.WithTx(tx), roles); err != nil {
			return err
		}
		if err := s.seedStatuses(ctx, s.statuses.WithTx(tx)); err != nil {
			return err
		}
		return s.seedPriorities(ctx, s.priorities.WithTx(tx))
	})
	return wrap("seed", "seed", err)
}

func (s *Seeder) seedAdmin(ctx context.Context, users store.UserStore, roles map[domain.RoleName]domain.Role) error {
	if s.opts.AdminPassword == "" {
		s.logger.Debug("no admin password configured, skipping admin user")
		return nil
	}

	n, err := users.Count(ctx)
	if err != nil || n > 0 {
		return err
	}

	admin, err := domain.NewUser("Admin", "Admin", s.opts.AdminEmail, s.opts.AdminPassword)
	if err != nil {
		return err
	}
	digest, err := s.hasher.Hash(admin.Password)
	if err != nil {
		return err
	}
	admin.PasswordDigest, admin.Password = digest, ""
	admin.AddRole(roles[domain.RoleAdmin])
	admin.AddRole(roles[domain.RoleUser])

	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("created initial admin user", slog.Int64("user_id", admin.ID))
	return nil
}

func (s *Seeder) seedStatuses(ctx context.Context, statuses store.TaskStatusStore) error {
	existing, err := statuses.List(ctx)
	if err != nil || len(existing) > 0 {
		return err
	}
	for _, name := range DefaultStatuses {
		status, err := domain.NewTaskStatus(name)
		if err != nil {
			return err
		}
		if err := statuses.Create(ctx, status); err != nil {
			return err
		}
	}
	s.logger.Info("seeded default task statuses", slog.Int("count", len(DefaultStatuses)))
	return nil
}

func (s *Seeder) seedPriorities(ctx context.Context, priorities store.TaskPriorityStore) error {
	existing, err := priorities.List(ctx)
	if err != nil || len(existing) > 0 {
		return err
	}
	for _, name := range DefaultPriorities {
		priority, err := domain.NewTaskPriority(name)
		if err != nil {
			return err
		}
		if err := priorities.Create(ctx, priority); err != nil {
			return err
		}
	}
	s.logger.Info("seeded default task priorities", slog.Int("count", len(DefaultPriorities)))
	return nil
}
