package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// MockTaskStatusStore implements store.TaskStatusStore in memory.
type MockTaskStatusStore struct {
	DeleteFn func(ctx context.Context, id int64) error

	Statuses map[int64]domain.TaskStatus
	NextID   int64
}

// NewMockTaskStatusStore creates a store holding statuses.
func NewMockTaskStatusStore(statuses ...domain.TaskStatus) *MockTaskStatusStore {
	m := &MockTaskStatusStore{Statuses: make(map[int64]domain.TaskStatus), NextID: 1}
	for _, s := range statuses {
		m.Statuses[s.ID] = s
		if s.ID >= m.NextID {
			m.NextID = s.ID + 1
		}
	}
	return m
}

// Create implements the TaskStatusStore interface
func (m *MockTaskStatusStore) Create(_ context.Context, status *domain.TaskStatus) error {
	for _, s := range m.Statuses {
		if s.Name == status.Name {
			return store.ErrStatusNameExists
		}
	}
	status.ID = m.NextID
	m.NextID++
	m.Statuses[status.ID] = *status
	return nil
}

// GetByID implements the TaskStatusStore interface
func (m *MockTaskStatusStore) GetByID(_ context.Context, id int64) (*domain.TaskStatus, error) {
	s, ok := m.Statuses[id]
	if !ok {
		return nil, store.ErrStatusNotFound
	}
	return &s, nil
}

// GetByName implements the TaskStatusStore interface
func (m *MockTaskStatusStore) GetByName(_ context.Context, name string) (*domain.TaskStatus, error) {
	for _, s := range m.Statuses {
		if s.Name == name {
			return &s, nil
		}
	}
	return nil, store.ErrStatusNotFound
}

// ExistsByName implements the TaskStatusStore interface
func (m *MockTaskStatusStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, err := m.GetByName(ctx, name)
	return err == nil, nil
}

// List implements the TaskStatusStore interface
func (m *MockTaskStatusStore) List(context.Context) ([]domain.TaskStatus, error) {
	out := make([]domain.TaskStatus, 0, len(m.Statuses))
	for _, s := range m.Statuses {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update implements the TaskStatusStore interface
func (m *MockTaskStatusStore) Update(_ context.Context, status *domain.TaskStatus) error {
	if _, ok := m.Statuses[status.ID]; !ok {
		return store.ErrStatusNotFound
	}
	m.Statuses[status.ID] = *status
	return nil
}

// Delete implements the TaskStatusStore interface
func (m *MockTaskStatusStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if _, ok := m.Statuses[id]; !ok {
		return store.ErrStatusNotFound
	}
	delete(m.Statuses, id)
	return nil
}

// WithTx returns the same mock.
func (m *MockTaskStatusStore) WithTx(*sql.Tx) store.TaskStatusStore { return m }

// MockTaskPriorityStore implements store.TaskPriorityStore in memory.
type MockTaskPriorityStore struct {
	DeleteFn func(ctx context.Context, id int64) error

	Priorities map[int64]domain.TaskPriority
	NextID     int64
}

// NewMockTaskPriorityStore creates a store holding priorities.
func NewMockTaskPriorityStore(priorities ...domain.TaskPriority) *MockTaskPriorityStore {
	m := &MockTaskPriorityStore{Priorities: make(map[int64]domain.TaskPriority), NextID: 1}
	for _, p := range priorities {
		m.Priorities[p.ID] = p
		if p.ID >= m.NextID {
			m.NextID = p.ID + 1
		}
	}
	return m
}

// Create implements the TaskPriorityStore interface
func (m *MockTaskPriorityStore) Create(_ context.Context, priority *domain.TaskPriority) error {
	for _, p := range m.Priorities {
		if p.Name == priority.Name {
			return store.ErrPriorityNameExists
		}
	}
	priority.ID = m.NextID
	m.NextID++
	m.Priorities[priority.ID] = *priority
	return nil
}

// GetByID implements the TaskPriorityStore interface
func (m *MockTaskPriorityStore) GetByID(_ context.Context, id int64) (*domain.TaskPriority, error) {
	p, ok := m.Priorities[id]
	if !ok {
		return nil, store.ErrPriorityNotFound
	}
	return &p, nil
}

// GetByName implements the TaskPriorityStore interface
func (m *MockTaskPriorityStore) GetByName(_ context.Context, name string) (*domain.TaskPriority, error) {
	for _, p := range m.Priorities {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, store.ErrPriorityNotFound
}

// ExistsByName implements the TaskPriorityStore interface
func (m *MockTaskPriorityStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, err := m.GetByName(ctx, name)
	return err == nil, nil
}

// List implements the TaskPriorityStore interface
func (m *MockTaskPriorityStore) List(context.Context) ([]domain.TaskPriority, error) {
	out := make([]domain.TaskPriority, 0, len(m.Priorities))
	for _, p := range m.Priorities {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update implements the TaskPriorityStore interface
func (m *MockTaskPriorityStore) Update(_ context.Context, priority *domain.TaskPriority) error {
	if _, ok := m.Priorities[priority.ID]; !ok {
		return store.ErrPriorityNotFound
	}
	m.Priorities[priority.ID] = *priority
	return nil
}

// Delete implements the TaskPriorityStore interface
func (m *MockTaskPriorityStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if _, ok := m.Priorities[id]; !ok {
		return store.ErrPriorityNotFound
	}
	delete(m.Priorities, id)
	return nil
}

// WithTx returns the same mock.
func (m *MockTaskPriorityStore) WithTx(*sql.Tx) store.TaskPriorityStore { return m }
