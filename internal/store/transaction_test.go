package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTransaction(t *testing.T) {
	t.Parallel()

	fnErr := errors.New("function failed")

	tests := []struct {
		name       string
		expect     func(mock sqlmock.Sqlmock)
		fn         TxFn
		wantErrIs  error
		wantErrMsg string
	}{
		{
			name: "commits on success",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE tasks").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			fn: func(ctx context.Context, tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, "UPDATE tasks SET title = $1", "x")
				return err
			},
		},
		{
			name: "rolls back on error",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn:        func(context.Context, *sql.Tx) error { return fnErr },
			wantErrIs: fnErr,
		},
		{
			name: "begin failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("begin failed"))
			},
			fn:         func(context.Context, *sql.Tx) error { return nil },
			wantErrMsg: "failed to begin transaction",
		},
		{
			name: "commit failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errors.New("commit failed"))
			},
			fn:         func(context.Context, *sql.Tx) error { return nil },
			wantErrMsg: "failed to commit transaction",
		},
		{
			name: "rollback failure keeps original error",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(errors.New("rollback failed"))
			},
			fn:         func(context.Context, *sql.Tx) error { return fnErr },
			wantErrIs:  fnErr,
			wantErrMsg: "error rolling back transaction",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			tc.expect(mock)
			err = RunInTransaction(context.Background(), db, tc.fn)

			if tc.wantErrIs == nil && tc.wantErrMsg == "" {
				assert.NoError(t, err)
			}
			if tc.wantErrIs != nil {
				assert.ErrorIs(t, err, tc.wantErrIs)
			}
			if tc.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErrMsg)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTransaction_PanicRollsBackAndRepanics(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "boom", func() {
		_ = RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAfterCommit(t *testing.T) {
	t.Parallel()

	t.Run("runs hooks in order after commit", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		mock.ExpectCommit()

		var calls []string
		err = RunInTransaction(context.Background(), db, func(ctx context.Context, _ *sql.Tx) error {
			AfterCommit(ctx, func(context.Context) { calls = append(calls, "first") })
			AfterCommit(ctx, func(context.Context) { calls = append(calls, "second") })
			assert.Empty(t, calls, "hooks must wait for the commit")
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("drops hooks on rollback", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		mock.ExpectRollback()

		ran := false
		err = RunInTransaction(context.Background(), db, func(ctx context.Context, _ *sql.Tx) error {
			AfterCommit(ctx, func(context.Context) { ran = true })
			return errors.New("abort")
		})
		require.Error(t, err)
		assert.False(t, ran)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("drops hooks when commit fails", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

		ran := false
		err = RunInTransaction(context.Background(), db, func(ctx context.Context, _ *sql.Tx) error {
			AfterCommit(ctx, func(context.Context) { ran = true })
			return nil
		})
		require.Error(t, err)
		assert.False(t, ran)
	})

	t.Run("runs immediately outside a transaction", func(t *testing.T) {
		t.Parallel()

		ran := false
		AfterCommit(context.Background(), func(context.Context) { ran = true })
		assert.True(t, ran)
	})

	t.Run("hook context is not cancelled with the request", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		mock.ExpectCommit()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var hookCtx context.Context
		err = RunInTransaction(ctx, db, func(ctx context.Context, _ *sql.Tx) error {
			AfterCommit(ctx, func(ctx context.Context) { hookCtx = ctx })
			return nil
		})
		require.NoError(t, err)
		require.NotNil(t, hookCtx)
		assert.Nil(t, hookCtx.Done())
	})
}
