//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/phrazzld/taskboard-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.New().String()[:8])
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.New().String()[:8])
}

// expectFailure runs fn, which is expected to fail inside tx, behind a savepoint
// so that the transaction stays usable afterwards.
func expectFailure(ctx context.Context, t *testing.T, tx *sql.Tx, fn func() error) error {
	t.Helper()

	_, err := tx.ExecContext(ctx, "SAVEPOINT expect_failure")
	require.NoError(t, err)
	fnErr := fn()
	_, err = tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT expect_failure")
	require.NoError(t, err)
	return fnErr
}

func TestPostgresUserStore_Integration(t *testing.T) {
	t.Parallel()

	db := testdb.GetTestDBWithT(t)
	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		roles := postgres.NewPostgresRoleStore(tx, nil)
		users := postgres.NewPostgresUserStore(tx, nil)

		userRole, err := roles.EnsureExists(ctx, domain.RoleUser)
		require.NoError(t, err)
		adminRole, err := roles.EnsureExists(ctx, domain.RoleAdmin)
		require.NoError(t, err)

		email := uniqueEmail("Store-User")
		user := &domain.User{
			FirstName:      "Grace",
			LastName:       "Hopper",
			Email:          email,
			PasswordDigest: "digest",
			Roles:          []domain.Role{*userRole},
			CreatedAt:      time.Now().UTC(),
			UpdatedAt:      time.Now().UTC(),
		}
		require.NoError(t, users.Create(ctx, user))
		require.NotZero(t, user.ID)

		t.Run("email lookup ignores case", func(t *testing.T) {
			got, err := users.GetByEmail(ctx, email)
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
			assert.Equal(t, []domain.RoleName{domain.RoleUser}, got.RoleNames())
		})

		t.Run("duplicate email differing in case", func(t *testing.T) {
			dup := *user
			dup.ID = 0
			dup.Roles = nil
			dup.Email = "STORE-" + email[len("Store-"):]
			err := expectFailure(ctx, t, tx, func() error { return users.Create(ctx, &dup) })
			assert.ErrorIs(t, err, store.ErrEmailExists)
		})

		t.Run("update replaces roles", func(t *testing.T) {
			user.Roles = []domain.Role{*adminRole}
			user.FirstName = "Rear Admiral"
			require.NoError(t, users.Update(ctx, user))

			got, err := users.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, "Rear Admiral", got.FirstName)
			assert.Equal(t, []domain.RoleName{domain.RoleAdmin}, got.RoleNames())
		})

		t.Run("delete user referenced by a task", func(t *testing.T) {
			statusID := testdb.MustInsertStatus(ctx, t, tx, uniqueName("status"))
			priorityID := testdb.MustInsertPriority(ctx, t, tx, uniqueName("priority"))
			testdb.MustInsertTask(ctx, t, tx, testdb.TaskFixture{
				Title: "ref", StatusID: statusID, PriorityID: priorityID,
				AuthorID: user.ID, AssigneeID: user.ID,
			})

			err := expectFailure(ctx, t, tx, func() error { return users.Delete(ctx, user.ID) })
			assert.ErrorIs(t, err, store.ErrInUse)
		})
	})
}

func TestPostgresTaskStore_ListIntegration(t *testing.T) {
	t.Parallel()

	db := testdb.GetTestDBWithT(t)
	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		tasks := postgres.NewPostgresTaskStore(tx, nil)

		// Unique suffixes keep the substring filters scoped to this test's rows.
		suffix := uuid.New().String()[:8]
		reviewID := testdb.MustInsertStatus(ctx, t, tx, "To_Review_"+suffix)
		draftID := testdb.MustInsertStatus(ctx, t, tx, "draft_"+suffix)
		highID := testdb.MustInsertPriority(ctx, t, tx, "HIGH_"+suffix)
		lowID := testdb.MustInsertPriority(ctx, t, tx, "low_"+suffix)
		alice := testdb.MustInsertUser(ctx, t, tx, uniqueEmail("alice"))
		bob := testdb.MustInsertUser(ctx, t, tx, uniqueEmail("bob"))

		for i := 0; i < 12; i++ {
			testdb.MustInsertTask(ctx, t, tx, testdb.TaskFixture{
				Title:      fmt.Sprintf("review-%02d", i),
				StatusID:   reviewID,
				PriorityID: highID,
				AuthorID:   alice,
				AssigneeID: bob,
			})
		}
		testdb.MustInsertTask(ctx, t, tx, testdb.TaskFixture{
			Title: "draft", StatusID: draftID, PriorityID: lowID, AuthorID: bob, AssigneeID: alice,
		})

		t.Run("substring filter is case-insensitive and pages by ten", func(t *testing.T) {
			filter := store.TaskFilter{StatusContains: "review_" + suffix}
			sort := store.Sort{Field: "title", Direction: store.SortAsc}

			first, err := tasks.List(ctx, filter, sort, store.Page{Number: 1, Size: store.PageSize})
			require.NoError(t, err)
			assert.Len(t, first, 10)
			assert.Equal(t, "review-00", first[0].Title)

			second, err := tasks.List(ctx, filter, sort, store.Page{Number: 2, Size: store.PageSize})
			require.NoError(t, err)
			assert.Len(t, second, 2)
			assert.Equal(t, "review-11", second[1].Title)

			total, err := tasks.Count(ctx, filter)
			require.NoError(t, err)
			assert.Equal(t, 12, total)
		})

		t.Run("predicates combine with AND", func(t *testing.T) {
			filter := store.TaskFilter{
				AuthorID:         &bob,
				PriorityContains: "LOW_" + suffix,
			}
			got, err := tasks.List(ctx, filter, store.DefaultSort, store.Page{Number: 1, Size: store.PageSize})
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "draft", got[0].Title)

			filter.AssigneeID = &bob
			got, err = tasks.List(ctx, filter, store.DefaultSort, store.Page{Number: 1, Size: store.PageSize})
			require.NoError(t, err)
			assert.Empty(t, got)
		})

		t.Run("descending sort", func(t *testing.T) {
			filter := store.TaskFilter{AssigneeID: &bob}
			got, err := tasks.List(ctx, filter,
				store.Sort{Field: "title", Direction: store.SortDesc}, store.Page{Number: 1, Size: store.PageSize})
			require.NoError(t, err)
			require.NotEmpty(t, got)
			assert.Equal(t, "review-11", got[0].Title)
		})

		t.Run("count by status and priority", func(t *testing.T) {
			n, err := tasks.CountByStatus(ctx, reviewID)
			require.NoError(t, err)
			assert.Equal(t, 12, n)

			n, err = tasks.CountByPriority(ctx, lowID)
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		})

		t.Run("referenced status cannot be deleted", func(t *testing.T) {
			statuses := postgres.NewPostgresTaskStatusStore(tx, nil)
			err := expectFailure(ctx, t, tx, func() error { return statuses.Delete(ctx, draftID) })
			assert.ErrorIs(t, err, store.ErrInUse)
		})
	})
}

func TestPostgresTaskCommentStore_Integration(t *testing.T) {
	t.Parallel()

	db := testdb.GetTestDBWithT(t)
	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		tasks := postgres.NewPostgresTaskStore(tx, nil)
		comments := postgres.NewPostgresTaskCommentStore(tx, nil)

		author := testdb.MustInsertUser(ctx, t, tx, uniqueEmail("commenter"))
		statusID := testdb.MustInsertStatus(ctx, t, tx, uniqueName("status"))
		priorityID := testdb.MustInsertPriority(ctx, t, tx, uniqueName("priority"))
		fixture := testdb.TaskFixture{
			Title: "with comments", StatusID: statusID, PriorityID: priorityID,
			AuthorID: author, AssigneeID: author,
		}
		taskID := testdb.MustInsertTask(ctx, t, tx, fixture)
		otherTaskID := testdb.MustInsertTask(ctx, t, tx, fixture)

		comment, err := domain.NewTaskComment(taskID, author, "", "looks good")
		require.NoError(t, err)
		require.NoError(t, comments.Create(ctx, comment))

		t.Run("comment is scoped to its task", func(t *testing.T) {
			got, err := comments.GetByID(ctx, taskID, comment.ID)
			require.NoError(t, err)
			assert.Equal(t, "looks good", got.Description)
			assert.Empty(t, got.Title)

			_, err = comments.GetByID(ctx, otherTaskID, comment.ID)
			assert.ErrorIs(t, err, store.ErrCommentNotFound)
			assert.ErrorIs(t, comments.Delete(ctx, otherTaskID, comment.ID), store.ErrCommentNotFound)
		})

		t.Run("update sets title", func(t *testing.T) {
			comment.Title = "LGTM"
			comment.Touch()
			require.NoError(t, comments.Update(ctx, comment))

			list, err := comments.ListByTask(ctx, taskID)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, "LGTM", list[0].Title)
		})

		t.Run("deleting the task deletes its comments", func(t *testing.T) {
			require.NoError(t, tasks.Delete(ctx, taskID))

			list, err := comments.ListByTask(ctx, taskID)
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	})
}
