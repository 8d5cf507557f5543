// Package main runs the taskboard API server. Besides serving HTTP it can
// apply database migrations with -migrate and exit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
)

// options holds the command line flags.
type options struct {
	envFile     string
	migrate     string
	migrateArgs []string
	autoMigrate bool
	skipSeed    bool
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fset := flag.NewFlagSet("taskboard-api", flag.ContinueOnError)
	fset.SetOutput(output)
	fset.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before configuration, if present")
	fset.StringVar(&opts.migrate, "migrate", "",
		"run a migration command (up, up-by-one, down, redo, reset, status, version) and exit")
	fset.BoolVar(&opts.autoMigrate, "auto-migrate", true, "apply pending migrations before serving")
	fset.BoolVar(&opts.skipSeed, "skip-seed", false, "do not seed roles, catalog and the admin account")
	if err := fset.Parse(args); err != nil {
		return opts, err
	}
	opts.migrateArgs = fset.Args()
	return opts, nil
}

// loadEnvFile loads path into the environment. Variables that are already
// set win, and a missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Fatalf("taskboard-api: %v", err)
	}
}

func run(ctx context.Context, opts options) error {
	if err := loadEnvFile(opts.envFile); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("redis_cache", cfg.Redis.Addr != ""),
		slog.Bool("tracing", cfg.Tracing.Enabled))

	db, err := setupAppDatabase(ctx, cfg.Database, l)
	if err != nil {
		return err
	}

	if opts.migrate != "" {
		defer closeDB(db, l)
		return runMigrations(ctx, db, opts.migrate, l, opts.migrateArgs...)
	}
	if opts.autoMigrate {
		if err := runMigrations(ctx, db, "up", l); err != nil {
			closeDB(db, l)
			return err
		}
	}

	app, err := newApplication(ctx, cfg, l, db, appOptions{seed: !opts.skipSeed})
	if err != nil {
		closeDB(db, l)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
