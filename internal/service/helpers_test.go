package service_test

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/mocks"
	"github.com/phrazzld/taskboard-api/internal/service"
)

var (
	admin = domain.Principal{UserID: 1, Email: "admin@example.com", Roles: []domain.RoleName{domain.RoleAdmin}}
	alice = domain.Principal{UserID: 2, Email: "alice@example.com", Roles: []domain.RoleName{domain.RoleUser}}
	bob   = domain.Principal{UserID: 3, Email: "bob@example.com", Roles: []domain.RoleName{domain.RoleUser}}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture holds in-memory stores seeded with three users, two statuses, two
// priorities and one task (id 1, written by admin, assigned to alice).
type fixture struct {
	db         *sql.DB
	sql        sqlmock.Sqlmock
	users      *mocks.MockUserStore
	roles      *mocks.MockRoleStore
	statuses   *mocks.MockTaskStatusStore
	priorities *mocks.MockTaskPriorityStore
	tasks      *mocks.MockTaskStore
	comments   *mocks.MockTaskCommentStore
	emitter    *mocks.MockEventEmitter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	roles := mocks.NewMockRoleStore()
	user := func(p domain.Principal, first string) *domain.User {
		u := &domain.User{
			ID:             p.UserID,
			FirstName:      first,
			LastName:       "Tester",
			Email:          p.Email,
			PasswordDigest: "hashed:secret",
			CreatedAt:      time.Now().Add(-time.Hour),
			UpdatedAt:      time.Now().Add(-time.Hour),
		}
		for _, r := range p.Roles {
			u.AddRole(roles.Roles[r])
		}
		return u
	}

	task := &domain.Task{
		ID:          1,
		Title:       "Write docs",
		Description: "Document the API",
		StatusID:    1,
		Status:      "draft",
		PriorityID:  2,
		Priority:    "high",
		AuthorID:    admin.UserID,
		AssigneeID:  alice.UserID,
	}

	return &fixture{
		db:  db,
		sql: mock,
		users: mocks.NewMockUserStore(
			user(admin, "Ada"),
			user(alice, "Alice"),
			user(bob, "Bob"),
		),
		roles: roles,
		statuses: mocks.NewMockTaskStatusStore(
			domain.TaskStatus{ID: 1, Name: "draft"},
			domain.TaskStatus{ID: 2, Name: "to_review"},
		),
		priorities: mocks.NewMockTaskPriorityStore(
			domain.TaskPriority{ID: 1, Name: "low"},
			domain.TaskPriority{ID: 2, Name: "high"},
		),
		tasks:    mocks.NewMockTaskStore(task),
		comments: mocks.NewMockTaskCommentStore(),
		emitter:  &mocks.MockEventEmitter{},
	}
}

// commits expects one committed transaction.
func (f *fixture) commits() {
	f.sql.ExpectBegin()
	f.sql.ExpectCommit()
}

// rollsBack expects one rolled back transaction.
func (f *fixture) rollsBack() {
	f.sql.ExpectBegin()
	f.sql.ExpectRollback()
}

func (f *fixture) taskStores() service.TaskStores {
	return service.TaskStores{
		Tasks:      f.tasks,
		Statuses:   f.statuses,
		Priorities: f.priorities,
		Users:      f.users,
		Comments:   f.comments,
	}
}
