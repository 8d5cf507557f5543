package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/nullable"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// CreateUserInput holds the fields of a new account.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UpdateUserInput holds a partial account update. Absent or null fields are
// left unchanged.
type UpdateUserInput struct {
	FirstName nullable.Value[string]
	LastName  nullable.Value[string]
	Email     nullable.Value[string]
	Password  nullable.Value[string]
	Roles     nullable.Value[[]string]
}

// UserView is a user together with the tasks they wrote and the tasks
// assigned to them.
type UserView struct {
	User            *domain.User
	TasksAsAuthor   []*domain.Task
	TasksAsAssignee []*domain.Task
}

// UserService manages accounts.
type UserService interface {
	// List returns every user ordered by id.
	List(ctx context.Context) ([]UserView, error)

	// Get returns one user. Returns store.ErrUserNotFound on a miss.
	Get(ctx context.Context, id int64) (*UserView, error)

	// Create registers a new account with the default role.
	// Returns store.ErrEmailExists when the email is taken.
	Create(ctx context.Context, in CreateUserInput) (*UserView, error)

	// Update applies a partial update. Only ADMIN or the user themself may
	// update an account, and only ADMIN may change roles.
	Update(ctx context.Context, actor domain.Principal, id int64, in UpdateUserInput) (*UserView, error)

	// Delete removes an account. Only ADMIN or the user themself may do so.
	// Returns store.ErrInUse while tasks or comments reference the user.
	Delete(ctx context.Context, actor domain.Principal, id int64) error
}

type userService struct {
	db     store.TxBeginner
	users  store.UserStore
	roles  store.RoleStore
	tasks  store.TaskStore
	hasher auth.PasswordHasher
	logger *slog.Logger
}

var _ UserService = (*userService)(nil)

// NewUserService creates a UserService.
func NewUserService(
	db store.TxBeginner,
	users store.UserStore,
	roles store.RoleStore,
	tasks store.TaskStore,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		db:     db,
		users:  users,
		roles:  roles,
		tasks:  tasks,
		hasher: hasher,
		logger: logger.With("component", "user_service"),
	}
}

func (s *userService) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

func (s *userService) List(ctx context.Context) ([]UserView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, wrap("user", "list", err)
	}

	views := make([]UserView, 0, len(users))
	for _, u := range users {
		view, err := s.view(ctx, s.tasks, u)
		if err != nil {
			return nil, wrap("user", "list", err)
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*UserView, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, wrap("user", "get", err)
	}
	view, err := s.view(ctx, s.tasks, u)
	return view, wrap("user", "get", err)
}

func (s *userService) view(ctx context.Context, tasks store.TaskStore, u *domain.User) (*UserView, error) {
	authored, err := tasks.ListByAuthor(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks authored by user %d: %w", u.ID, err)
	}
	assigned, err := tasks.ListByAssignee(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks assigned to user %d: %w", u.ID, err)
	}
	return &UserView{User: u, TasksAsAuthor: authored, TasksAsAssignee: assigned}, nil
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*UserView, error) {
	log := s.log(ctx)

	user, err := domain.NewUser(in.FirstName, in.LastName, in.Email, in.Password)
	if err != nil {
		return nil, wrap("user", "create", err)
	}
	if err := s.hashPassword(user); err != nil {
		return nil, wrap("user", "create", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		role, err := s.roles.WithTx(tx).GetByName(ctx, domain.DefaultRole)
		if err != nil {
			return fmt.Errorf("failed to load default role: %w", err)
		}
		user.AddRole(*role)
		return s.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to create user with existing email")
		} else {
			log.Error("failed to create user", slog.String("error", err.Error()))
		}
		return nil, wrap("user", "create", err)
	}

	log.Info("user created", slog.Int64("user_id", user.ID))
	return &UserView{User: user, TasksAsAuthor: []*domain.Task{}, TasksAsAssignee: []*domain.Task{}}, nil
}

func (s *userService) Update(
	ctx context.Context,
	actor domain.Principal,
	id int64,
	in UpdateUserInput,
) (*UserView, error) {
	if !actor.IsAdmin() && !actor.Is(id) {
		return nil, wrap("user", "update", ErrForbidden)
	}
	if in.Roles.IsSet() && !actor.IsAdmin() {
		return nil, wrap("user", "update", fmt.Errorf("%w: only administrators may change roles", ErrForbidden))
	}

	var view *UserView
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		user, err := users.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if v, ok := in.FirstName.Get(); ok {
			user.FirstName = strings.TrimSpace(v)
		}
		if v, ok := in.LastName.Get(); ok {
			user.LastName = strings.TrimSpace(v)
		}
		if v, ok := in.Email.Get(); ok {
			user.Email = strings.TrimSpace(v)
		}
		nullable.Apply(in.Password, &user.Password)

		if names, ok := in.Roles.Get(); ok {
			roles, err := s.resolveRoles(ctx, s.roles.WithTx(tx), names)
			if err != nil {
				return err
			}
			user.Roles = roles
		}

		if err := user.Validate(); err != nil {
			return err
		}
		if err := s.hashPassword(user); err != nil {
			return err
		}
		user.UpdatedAt = time.Now().UTC()

		if err := users.Update(ctx, user); err != nil {
			return err
		}

		view, err = s.view(ctx, s.tasks.WithTx(tx), user)
		return err
	})
	if err != nil {
		return nil, wrap("user", "update", err)
	}

	s.log(ctx).Info("user updated", slog.Int64("user_id", id), slog.Int64("actor_id", actor.UserID))
	return view, nil
}

// resolveRoles maps role names to stored roles. Unknown names are reported
// as store.ErrRoleNotFound.
func (s *userService) resolveRoles(ctx context.Context, roles store.RoleStore, names []string) ([]domain.Role, error) {
	resolved := make([]domain.Role, 0, len(names))
	seen := make(map[domain.RoleName]bool, len(names))
	for _, n := range names {
		name, err := domain.ParseRoleName(n)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", store.ErrRoleNotFound, n)
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		role, err := roles.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, *role)
	}
	return resolved, nil
}

// hashPassword replaces a pending plaintext password with its digest.
func (s *userService) hashPassword(user *domain.User) error {
	if user.Password == "" {
		return nil
	}
	digest, err := s.hasher.Hash(user.Password)
	if err != nil {
		return err
	}
	user.PasswordDigest = digest
	user.Password = ""
	return nil
}

func (s *userService) Delete(ctx context.Context, actor domain.Principal, id int64) error {
	if !actor.IsAdmin() && !actor.Is(id) {
		return wrap("user", "delete", ErrForbidden)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return wrap("user", "delete", err)
	}

	s.log(ctx).Info("user deleted", slog.Int64("user_id", id), slog.Int64("actor_id", actor.UserID))
	return nil
}
