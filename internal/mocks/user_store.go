package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// MockUserStore implements store.UserStore for testing. Function fields
// override the in-memory default behavior.
type MockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id int64) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	ListFn       func(ctx context.Context) ([]*domain.User, error)
	UpdateFn     func(ctx context.Context, user *domain.User) error
	DeleteFn     func(ctx context.Context, id int64) error

	// Data for default implementation
	Users  map[int64]*domain.User
	NextID int64
}

// NewMockUserStore creates a new mock store holding users.
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{Users: make(map[int64]*domain.User), NextID: 1}
	for _, u := range users {
		m.Users[u.ID] = u
		if u.ID >= m.NextID {
			m.NextID = u.ID + 1
		}
	}
	return m
}

func (m *MockUserStore) emailTaken(email string, except int64) bool {
	for id, u := range m.Users {
		if id != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if m.emailTaken(user.Email, 0) {
		return store.ErrEmailExists
	}
	user.ID = m.NextID
	m.NextID++
	m.Users[user.ID] = user
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	for _, u := range m.Users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// List implements the UserStore interface
func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	users := make([]*domain.User, 0, len(m.Users))
	for _, u := range m.Users {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Count implements the UserStore interface
func (m *MockUserStore) Count(ctx context.Context) (int, error) {
	users, err := m.List(ctx)
	return len(users), err
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	if _, ok := m.Users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	if m.emailTaken(user.Email, user.ID) {
		return store.ErrEmailExists
	}
	cp := *user
	m.Users[user.ID] = &cp
	return nil
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if _, ok := m.Users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.Users, id)
	return nil
}

// WithTx returns the same mock.
func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore { return m }

// MockRoleStore implements store.RoleStore over the two fixed roles.
type MockRoleStore struct {
	GetByNameFn func(ctx context.Context, name domain.RoleName) (*domain.Role, error)

	Roles map[domain.RoleName]domain.Role
}

// NewMockRoleStore creates a role store holding ADMIN (id 1) and USER (id 2).
func NewMockRoleStore() *MockRoleStore {
	return &MockRoleStore{Roles: map[domain.RoleName]domain.Role{
		domain.RoleAdmin: {ID: 1, Name: domain.RoleAdmin},
		domain.RoleUser:  {ID: 2, Name: domain.RoleUser},
	}}
}

// GetByName implements the RoleStore interface
func (m *MockRoleStore) GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, name)
	}
	r, ok := m.Roles[name]
	if !ok {
		return nil, store.ErrRoleNotFound
	}
	return &r, nil
}

// List implements the RoleStore interface
func (m *MockRoleStore) List(context.Context) ([]domain.Role, error) {
	roles := make([]domain.Role, 0, len(m.Roles))
	for _, r := range m.Roles {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

// EnsureExists implements the RoleStore interface
func (m *MockRoleStore) EnsureExists(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	if r, ok := m.Roles[name]; ok {
		return &r, nil
	}
	r := domain.Role{ID: int64(len(m.Roles) + 1), Name: name}
	m.Roles[name] = r
	return &r, nil
}

// WithTx returns the same mock.
func (m *MockRoleStore) WithTx(*sql.Tx) store.RoleStore { return m }
