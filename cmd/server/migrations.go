package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
)

var migrationCommands = map[string]bool{
	"up":        true,
	"up-by-one": true,
	"down":      true,
	"redo":      true,
	"reset":     true,
	"status":    true,
	"version":   true,
}

// runMigrations runs a goose command against db with the embedded migrations.
func runMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger, args ...string) error {
	if !migrationCommands[command] {
		return fmt.Errorf("unknown migration command %q", command)
	}

	migrationLogger := logger.With(
		slog.String("correlation_id", uuid.NewString()),
		slog.String("component", "migrations"),
		slog.String("command", command))

	start := time.Now()
	migrationLogger.Info("Starting migration operation")
	if err := postgres.Migrate(ctx, db, command, migrationLogger, args...); err != nil {
		migrationLogger.Error("Migration failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return err
	}
	migrationLogger.Info("Migration operation completed",
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}
