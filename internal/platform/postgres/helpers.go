package postgres

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/taskboard-api/internal/store"
)

// closeRows closes rows and logs a failure instead of dropping it.
func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}

// expectAffected runs CheckRowsAffected and replaces the generic not-found
// error with the entity-specific one.
func expectAffected(result sql.Result, entityName string, notFound error) error {
	err := CheckRowsAffected(result, entityName)
	if errors.Is(err, store.ErrNotFound) {
		return notFound
	}
	return err
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
