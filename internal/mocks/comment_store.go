package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// MockTaskCommentStore implements store.TaskCommentStore in memory.
type MockTaskCommentStore struct {
	ListByTaskIDsFn func(ctx context.Context, taskIDs []int64) (map[int64][]domain.TaskComment, error)

	Comments map[int64]domain.TaskComment
	NextID   int64
}

// NewMockTaskCommentStore creates a store holding comments.
func NewMockTaskCommentStore(comments ...domain.TaskComment) *MockTaskCommentStore {
	m := &MockTaskCommentStore{Comments: make(map[int64]domain.TaskComment), NextID: 1}
	for _, c := range comments {
		m.Comments[c.ID] = c
		if c.ID >= m.NextID {
			m.NextID = c.ID + 1
		}
	}
	return m
}

// Create implements the TaskCommentStore interface
func (m *MockTaskCommentStore) Create(_ context.Context, comment *domain.TaskComment) error {
	comment.ID = m.NextID
	m.NextID++
	m.Comments[comment.ID] = *comment
	return nil
}

// GetByID implements the TaskCommentStore interface
func (m *MockTaskCommentStore) GetByID(_ context.Context, taskID, id int64) (*domain.TaskComment, error) {
	c, ok := m.Comments[id]
	if !ok || c.TaskID != taskID {
		return nil, store.ErrCommentNotFound
	}
	return &c, nil
}

// ListByTask implements the TaskCommentStore interface
func (m *MockTaskCommentStore) ListByTask(_ context.Context, taskID int64) ([]domain.TaskComment, error) {
	out := []domain.TaskComment{}
	for _, c := range m.Comments {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListByTaskIDs implements the TaskCommentStore interface
func (m *MockTaskCommentStore) ListByTaskIDs(
	ctx context.Context,
	taskIDs []int64,
) (map[int64][]domain.TaskComment, error) {
	if m.ListByTaskIDsFn != nil {
		return m.ListByTaskIDsFn(ctx, taskIDs)
	}
	out := make(map[int64][]domain.TaskComment, len(taskIDs))
	for _, id := range taskIDs {
		comments, _ := m.ListByTask(ctx, id)
		if len(comments) > 0 {
			out[id] = comments
		}
	}
	return out, nil
}

// Update implements the TaskCommentStore interface
func (m *MockTaskCommentStore) Update(_ context.Context, comment *domain.TaskComment) error {
	c, ok := m.Comments[comment.ID]
	if !ok || c.TaskID != comment.TaskID {
		return store.ErrCommentNotFound
	}
	m.Comments[comment.ID] = *comment
	return nil
}

// Delete implements the TaskCommentStore interface
func (m *MockTaskCommentStore) Delete(_ context.Context, taskID, id int64) error {
	c, ok := m.Comments[id]
	if !ok || c.TaskID != taskID {
		return store.ErrCommentNotFound
	}
	delete(m.Comments, id)
	return nil
}

// WithTx returns the same mock.
func (m *MockTaskCommentStore) WithTx(*sql.Tx) store.TaskCommentStore { return m }
