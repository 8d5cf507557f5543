package testdb

import (
	"context"
	"fmt"
	"testing"

	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MustInsertUser inserts a user with the given email and the USER role and
// returns its id. The password is "password" hashed at bcrypt.MinCost.
func MustInsertUser(ctx context.Context, t *testing.T, db store.DBTX, email string) int64 {
	t.Helper()

	digest, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err, "Failed to hash password")

	var id int64
	err = db.QueryRowContext(ctx, `
		INSERT INTO users (first_name, last_name, email, password_digest)
		VALUES ('Test', 'User', $1, $2)
		RETURNING id
	`, email, string(digest)).Scan(&id)
	require.NoError(t, err, "Failed to insert test user")

	_, err = db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = 'USER'
	`, id)
	require.NoError(t, err, "Failed to assign role to test user")

	return id
}

// MustInsertStatus inserts a task status and returns its id.
func MustInsertStatus(ctx context.Context, t *testing.T, db store.DBTX, name string) int64 {
	t.Helper()
	return mustInsertNamed(ctx, t, db, "task_statuses", name)
}

// MustInsertPriority inserts a task priority and returns its id.
func MustInsertPriority(ctx context.Context, t *testing.T, db store.DBTX, name string) int64 {
	t.Helper()
	return mustInsertNamed(ctx, t, db, "task_priorities", name)
}

func mustInsertNamed(ctx context.Context, t *testing.T, db store.DBTX, table, name string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRowContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id`, table), name).Scan(&id)
	require.NoError(t, err, "Failed to insert into %s", table)
	return id
}

// TaskFixture describes a task row for MustInsertTask.
type TaskFixture struct {
	Title      string
	StatusID   int64
	PriorityID int64
	AuthorID   int64
	AssigneeID int64
}

// MustInsertTask inserts a task and returns its id.
func MustInsertTask(ctx context.Context, t *testing.T, db store.DBTX, f TaskFixture) int64 {
	t.Helper()

	var id int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, status_id, priority_id, author_id, assignee_id)
		VALUES ($1, 'fixture task', $2, $3, $4, $5)
		RETURNING id
	`, f.Title, f.StatusID, f.PriorityID, f.AuthorID, f.AssigneeID).Scan(&id)
	require.NoError(t, err, "Failed to insert test task")
	return id
}
