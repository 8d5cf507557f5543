package postgres_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// arrayConverter lets int64 slices through to the mock driver, as the pgx
// stdlib driver does for ANY($1) arguments.
type arrayConverter struct{}

func (arrayConverter) ConvertValue(v any) (driver.Value, error) {
	if ids, ok := v.([]int64); ok {
		return ids, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

func newMock(t *testing.T) (sqlmock.Sqlmock, *postgresStores) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(arrayConverter{}))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return mock, &postgresStores{
		users:    postgres.NewPostgresUserStore(db, nil),
		roles:    postgres.NewPostgresRoleStore(db, nil),
		tasks:    postgres.NewPostgresTaskStore(db, nil),
		statuses: postgres.NewPostgresTaskStatusStore(db, nil),
		comments: postgres.NewPostgresTaskCommentStore(db, nil),
	}
}

type postgresStores struct {
	users    *postgres.PostgresUserStore
	roles    *postgres.PostgresRoleStore
	tasks    *postgres.PostgresTaskStore
	statuses *postgres.PostgresTaskStatusStore
	comments *postgres.PostgresTaskCommentStore
}

func pgErr(code, constraint string) error {
	err := newPgError(code)
	err.ConstraintName = constraint
	return err
}

func TestNewStoresPanicOnNilDB(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, "db cannot be nil", func() { postgres.NewPostgresUserStore(nil, nil) })
	assert.PanicsWithValue(t, "db cannot be nil", func() { postgres.NewPostgresTaskStore(nil, nil) })
	assert.PanicsWithValue(t, "db cannot be nil", func() { postgres.NewPostgresTaskPriorityStore(nil, nil) })
	assert.PanicsWithValue(t, "db cannot be nil", func() { postgres.NewPostgresTaskCommentStore(nil, nil) })
	assert.PanicsWithValue(t, "db cannot be nil", func() { postgres.NewPostgresRoleStore(nil, nil) })
}

func TestPostgresUserStore_Unit(t *testing.T) {
	t.Parallel()

	newUser := func() *domain.User {
		now := time.Now().UTC()
		return &domain.User{
			FirstName:      "Ada",
			LastName:       "Lovelace",
			Email:          "ada@example.com",
			PasswordDigest: "$2a$04$digest",
			Roles:          []domain.Role{{ID: 2, Name: domain.RoleUser}},
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}

	t.Run("create inserts user and roles", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs("Ada", "Lovelace", "ada@example.com", "$2a$04$digest", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_roles")).
			WithArgs(int64(7), int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		user := newUser()
		require.NoError(t, s.users.Create(context.Background(), user))
		assert.Equal(t, int64(7), user.ID)
	})

	t.Run("create with taken email", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(pgErr("23505", "users_email_key"))

		err := s.users.Create(context.Background(), newUser())
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("create rejects invalid user before querying", func(t *testing.T) {
		t.Parallel()
		_, s := newMock(t)

		user := newUser()
		user.Email = "not-an-email"
		err := s.users.Create(context.Background(), user)
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	t.Run("get by id loads roles", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "first_name", "last_name", "email", "password_digest", "created_at", "updated_at"}).
				AddRow(int64(7), "Ada", "Lovelace", "ada@example.com", "digest", now, now))
		mock.ExpectQuery(regexp.QuoteMeta("FROM user_roles ur")).
			WithArgs([]int64{7}).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "id", "name"}).
				AddRow(int64(7), int64(1), "ADMIN").
				AddRow(int64(7), int64(2), "USER"))

		user, err := s.users.GetByID(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, []domain.RoleName{domain.RoleAdmin, domain.RoleUser}, user.RoleNames())
	})

	t.Run("get by email not found", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(email) = LOWER($1)")).
			WithArgs("nobody@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := s.users.GetByEmail(context.Background(), " nobody@example.com ")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("delete referenced user", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users")).
			WithArgs(int64(7)).
			WillReturnError(pgErr("23503", "tasks_author_id_fkey"))

		err := s.users.Delete(context.Background(), 7)
		assert.ErrorIs(t, err, store.ErrInUse)
	})

	t.Run("delete missing user", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users")).
			WithArgs(int64(8)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.users.Delete(context.Background(), 8)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestPostgresRoleStore_Unit(t *testing.T) {
	t.Parallel()

	t.Run("ensure exists inserts then reads", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING")).
			WithArgs("ADMIN").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM roles WHERE name = $1")).
			WithArgs("ADMIN").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "ADMIN"))

		role, err := s.roles.EnsureExists(context.Background(), domain.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, domain.Role{ID: 1, Name: domain.RoleAdmin}, *role)
	})

	t.Run("unknown role name", func(t *testing.T) {
		t.Parallel()
		_, s := newMock(t)

		_, err := s.roles.EnsureExists(context.Background(), domain.RoleName("ROOT"))
		assert.ErrorIs(t, err, domain.ErrInvalidRole)
	})
}

func TestPostgresTaskStatusStore_Unit(t *testing.T) {
	t.Parallel()

	t.Run("create duplicate name", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO task_statuses (name) VALUES ($1) RETURNING id")).
			WithArgs("draft").
			WillReturnError(pgErr("23505", "task_statuses_name_key"))

		err := s.statuses.Create(context.Background(), &domain.TaskStatus{Name: "draft"})
		assert.ErrorIs(t, err, store.ErrStatusNameExists)
	})

	t.Run("get by name not found", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM task_statuses WHERE name = $1")).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		_, err := s.statuses.GetByName(context.Background(), "missing")
		assert.ErrorIs(t, err, store.ErrStatusNotFound)
	})

	t.Run("delete referenced status", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM task_statuses WHERE id = $1")).
			WithArgs(int64(2)).
			WillReturnError(pgErr("23503", "tasks_status_id_fkey"))

		err := s.statuses.Delete(context.Background(), 2)
		assert.ErrorIs(t, err, store.ErrInUse)
	})

	t.Run("update missing status", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE task_statuses SET name = $1 WHERE id = $2")).
			WithArgs("done", int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.statuses.Update(context.Background(), &domain.TaskStatus{ID: 99, Name: "done"})
		assert.ErrorIs(t, err, store.ErrStatusNotFound)
	})
}

func TestPostgresTaskStore_Unit(t *testing.T) {
	t.Parallel()

	taskColumns := []string{
		"id", "title", "description", "status_id", "status", "priority_id", "priority",
		"author_id", "assignee_id", "created_at", "updated_at",
	}

	t.Run("list with filter, sort and page", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta("LOWER(s.name) LIKE '%' || LOWER($1) || '%'")).
			WithArgs("draft", 10, 10).
			WillReturnRows(sqlmock.NewRows(taskColumns).
				AddRow(int64(11), "Write", "docs", int64(1), "draft", int64(2), "high", int64(1), int64(2), now, now))

		page, err := store.NewPage(2)
		require.NoError(t, err)
		tasks, err := s.tasks.List(context.Background(),
			store.TaskFilter{StatusContains: "draft"},
			store.Sort{Field: "title", Direction: store.SortDesc},
			page)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "draft", tasks[0].Status)
		assert.Equal(t, "high", tasks[0].Priority)
	})

	t.Run("list with unknown sort field does not query", func(t *testing.T) {
		t.Parallel()
		_, s := newMock(t)

		_, err := s.tasks.List(context.Background(), store.TaskFilter{},
			store.Sort{Field: "nope", Direction: store.SortAsc}, store.Page{Number: 1, Size: store.PageSize})
		assert.ErrorIs(t, err, store.ErrInvalidSort)
	})

	t.Run("count by status", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tasks WHERE status_id = $1")).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		n, err := s.tasks.CountByStatus(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("get missing task", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE t.id = $1")).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(taskColumns))

		_, err := s.tasks.GetByID(context.Background(), 5)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("create with dangling reference", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tasks")).
			WillReturnError(pgErr("23503", "tasks_assignee_id_fkey"))

		task := &domain.Task{
			Title: "t", Description: "d",
			StatusID: 1, PriorityID: 1, AuthorID: 1, AssigneeID: 404,
		}
		err := s.tasks.Create(context.Background(), task)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("update pointing at a removed status", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
			WillReturnError(pgErr("23503", "tasks_status_id_fkey"))

		task := &domain.Task{
			ID: 7, Title: "t", Description: "d",
			StatusID: 99, PriorityID: 1, AuthorID: 1, AssigneeID: 2,
		}
		err := s.tasks.Update(context.Background(), task)
		assert.ErrorIs(t, err, store.ErrStatusNotFound)
		assert.NotErrorIs(t, err, store.ErrPriorityNotFound)
	})

	t.Run("query failure is returned", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
			WillReturnError(errors.New("connection reset"))

		_, err := s.tasks.Count(context.Background(), store.TaskFilter{})
		assert.EqualError(t, err, "connection reset")
	})
}

func TestPostgresTaskCommentStore_Unit(t *testing.T) {
	t.Parallel()

	commentColumns := []string{"id", "task_id", "author_id", "title", "description", "created_at", "updated_at"}

	t.Run("comment on another task is not found", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND task_id = $2")).
			WithArgs(int64(5), int64(2)).
			WillReturnRows(sqlmock.NewRows(commentColumns))

		_, err := s.comments.GetByID(context.Background(), 2, 5)
		assert.ErrorIs(t, err, store.ErrCommentNotFound)
	})

	t.Run("list by task ids groups comments", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta("WHERE task_id = ANY($1)")).
			WithArgs([]int64{1, 2, 3}).
			WillReturnRows(sqlmock.NewRows(commentColumns).
				AddRow(int64(10), int64(1), int64(4), nil, "first", now, now).
				AddRow(int64(11), int64(1), int64(4), "re", "second", now, now).
				AddRow(int64(12), int64(3), int64(5), nil, "third", now, now))

		byTask, err := s.comments.ListByTaskIDs(context.Background(), []int64{1, 2, 3})
		require.NoError(t, err)
		assert.Len(t, byTask[1], 2)
		assert.Empty(t, byTask[2])
		assert.Len(t, byTask[3], 1)
		assert.Equal(t, "", byTask[1][0].Title)
		assert.Equal(t, "re", byTask[1][1].Title)
	})

	t.Run("create on a deleted task", func(t *testing.T) {
		t.Parallel()
		mock, s := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO task_comments")).
			WillReturnError(pgErr("23503", "task_comments_task_id_fkey"))

		comment := &domain.TaskComment{TaskID: 3, AuthorID: 1, Description: "late"}
		err := s.comments.Create(context.Background(), comment)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("list by no task ids skips the query", func(t *testing.T) {
		t.Parallel()
		_, s := newMock(t)

		byTask, err := s.comments.ListByTaskIDs(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, byTask)
	})
}
