package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// MockTaskStore implements store.TaskStore in memory. List honours the filter
// and the page; results are always ordered by id.
type MockTaskStore struct {
	ListFn   func(ctx context.Context, filter store.TaskFilter, sort store.Sort, page store.Page) ([]*domain.Task, error)
	UpdateFn func(ctx context.Context, task *domain.Task) error
	DeleteFn func(ctx context.Context, id int64) error

	Tasks  map[int64]*domain.Task
	NextID int64
}

// NewMockTaskStore creates a store holding tasks.
func NewMockTaskStore(tasks ...*domain.Task) *MockTaskStore {
	m := &MockTaskStore{Tasks: make(map[int64]*domain.Task), NextID: 1}
	for _, t := range tasks {
		m.Tasks[t.ID] = t
		if t.ID >= m.NextID {
			m.NextID = t.ID + 1
		}
	}
	return m
}

func (m *MockTaskStore) sorted(keep func(*domain.Task) bool) []*domain.Task {
	out := make([]*domain.Task, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		if keep(t) {
			cp := *t
			cp.Comments = nil
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func matches(t *domain.Task, f store.TaskFilter) bool {
	if f.AuthorID != nil && t.AuthorID != *f.AuthorID {
		return false
	}
	if f.AssigneeID != nil && t.AssigneeID != *f.AssigneeID {
		return false
	}
	if f.StatusContains != "" && !strings.Contains(strings.ToLower(t.Status), strings.ToLower(f.StatusContains)) {
		return false
	}
	if f.PriorityContains != "" &&
		!strings.Contains(strings.ToLower(t.Priority), strings.ToLower(f.PriorityContains)) {
		return false
	}
	return true
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(_ context.Context, task *domain.Task) error {
	task.ID = m.NextID
	m.NextID++
	cp := *task
	m.Tasks[task.ID] = &cp
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	t, ok := m.Tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

// List implements the TaskStore interface
func (m *MockTaskStore) List(
	ctx context.Context,
	filter store.TaskFilter,
	sortBy store.Sort,
	page store.Page,
) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter, sortBy, page)
	}
	all := m.sorted(func(t *domain.Task) bool { return matches(t, filter) })
	start := page.Offset()
	if start >= len(all) {
		return []*domain.Task{}, nil
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

// Count implements the TaskStore interface
func (m *MockTaskStore) Count(_ context.Context, filter store.TaskFilter) (int, error) {
	return len(m.sorted(func(t *domain.Task) bool { return matches(t, filter) })), nil
}

// ListByAuthor implements the TaskStore interface
func (m *MockTaskStore) ListByAuthor(_ context.Context, authorID int64) ([]*domain.Task, error) {
	return m.sorted(func(t *domain.Task) bool { return t.AuthorID == authorID }), nil
}

// ListByAssignee implements the TaskStore interface
func (m *MockTaskStore) ListByAssignee(_ context.Context, assigneeID int64) ([]*domain.Task, error) {
	return m.sorted(func(t *domain.Task) bool { return t.AssigneeID == assigneeID }), nil
}

// CountByStatus implements the TaskStore interface
func (m *MockTaskStore) CountByStatus(_ context.Context, statusID int64) (int, error) {
	return len(m.sorted(func(t *domain.Task) bool { return t.StatusID == statusID })), nil
}

// CountByPriority implements the TaskStore interface
func (m *MockTaskStore) CountByPriority(_ context.Context, priorityID int64) (int, error) {
	return len(m.sorted(func(t *domain.Task) bool { return t.PriorityID == priorityID })), nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	if _, ok := m.Tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	cp := *task
	m.Tasks[task.ID] = &cp
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if _, ok := m.Tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// WithTx returns the same mock.
func (m *MockTaskStore) WithTx(*sql.Tx) store.TaskStore { return m }
