package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// referenceErrors maps each foreign key constraint to the not-found error of
// the row it points at. Names follow the Postgres default <table>_<column>_fkey.
var referenceErrors = map[string]error{
	"tasks_status_id_fkey":         store.ErrStatusNotFound,
	"tasks_priority_id_fkey":       store.ErrPriorityNotFound,
	"tasks_author_id_fkey":         store.ErrUserNotFound,
	"tasks_assignee_id_fkey":       store.ErrUserNotFound,
	"task_comments_task_id_fkey":   store.ErrTaskNotFound,
	"task_comments_author_id_fkey": store.ErrUserNotFound,
	"user_roles_user_id_fkey":      store.ErrUserNotFound,
	"user_roles_role_id_fkey":      store.ErrRoleNotFound,
}

// MapError maps a database error to a store error, wrapping the original
// so the driver detail stays available to logs.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %s: %v", store.ErrDuplicate, pgErr.ConstraintName, err)
		case foreignKeyViolationCode:
			return fmt.Errorf("%w: foreign key violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ConstraintName, err)
		}
	}

	return err
}

// MapWriteError maps an error raised by an INSERT or UPDATE.
// A unique violation becomes duplicate when it is non-nil. A foreign key
// violation names the missing referenced row, so a task pointing at a
// deleted status reports store.ErrStatusNotFound alongside
// store.ErrInvalidEntity.
func MapWriteError(err error, duplicate error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return MapError(err)
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		if duplicate != nil {
			return fmt.Errorf("%w: %v", duplicate, err)
		}
	case foreignKeyViolationCode:
		if missing, ok := referenceErrors[pgErr.ConstraintName]; ok {
			return fmt.Errorf("%w: %w (%s): %v",
				store.ErrInvalidEntity, missing, pgErr.ConstraintName, err)
		}
	}
	return MapError(err)
}

// MapDeleteError maps an error raised while deleting a row. A foreign key
// violation there means other rows still reference the target, so it is
// reported as store.ErrInUse.
func MapDeleteError(err error, entityName string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
		return fmt.Errorf("%w: %s is referenced (%s): %v",
			store.ErrInUse, entityName, pgErr.ConstraintName, err)
	}
	return MapError(err)
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}

// CheckRowsAffected returns store.ErrNotFound when an UPDATE or DELETE
// touched no rows.
func CheckRowsAffected(result sql.Result, entityName string) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s not found", store.ErrNotFound, entityName)
	}
	return nil
}
