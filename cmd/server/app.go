package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/phrazzld/taskboard-api/internal/platform/cache"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/redact"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

const redisPingTimeout = 3 * time.Second

// appOptions toggles optional startup steps.
type appOptions struct {
	seed bool
}

// application holds the shared dependencies and releases them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	tracerProvider  trace.TracerProvider
	shutdownTracing func(context.Context) error
	eventEmitter    *events.AsyncEmitter
	jwtService      auth.JWTService
	authService     service.AuthService
	userService     service.UserService
	taskService     service.TaskService
	statusService   service.TaskStatusService
	priorityService service.TaskPriorityService
	commentService  service.TaskCommentService
}

// newApplication wires stores, services and background workers. The database
// must already be migrated.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	opts appOptions,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}
	var err error
	app.tracerProvider, app.shutdownTracing, err = setupTracing(cfg.Tracing, os.Stdout)
	if err != nil {
		return nil, err
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	hasher := auth.NewBcryptHasher(cfg.Auth.BCryptCost)

	userStore := postgres.NewPostgresUserStore(db, logger)
	roleStore := postgres.NewPostgresRoleStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	commentStore := postgres.NewPostgresTaskCommentStore(db, logger)
	var statusStore store.TaskStatusStore = postgres.NewPostgresTaskStatusStore(db, logger)
	var priorityStore store.TaskPriorityStore = postgres.NewPostgresTaskPriorityStore(db, logger)

	if cfg.Redis.Addr != "" {
		app.redis, err = connectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		ttl := time.Duration(cfg.Redis.CacheTTLSeconds) * time.Second
		statusStore = cache.NewCachedStatusStore(statusStore, app.redis, ttl, logger)
		priorityStore = cache.NewCachedPriorityStore(priorityStore, app.redis, ttl, logger)
		logger.Info("Catalog cache enabled", slog.Duration("ttl", ttl))
	}

	dispatcher := events.NewInMemoryEventEmitter(logger)
	dispatcher.RegisterHandler(events.NewActivityLogHandler(logger))
	app.eventEmitter = events.NewAsyncEmitter(dispatcher, events.AsyncConfig{
		QueueSize:   cfg.Events.QueueSize,
		WorkerCount: cfg.Events.WorkerCount,
	}, logger)
	app.eventEmitter.Start()

	if opts.seed {
		seeder := service.NewSeeder(db, userStore, roleStore, statusStore, priorityStore, hasher,
			service.SeedOptions{
				AdminEmail:    cfg.Seed.AdminEmail,
				AdminPassword: cfg.Seed.AdminPassword,
			}, logger)
		if err := seeder.Seed(ctx); err != nil {
			app.cleanup(ctx)
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}

	app.authService = service.NewAuthService(userStore, app.jwtService, auth.NewBcryptVerifier(), logger)
	app.userService = service.NewUserService(db, userStore, roleStore, taskStore, hasher, logger)
	app.taskService = service.NewTaskService(db, service.TaskStores{
		Tasks:      taskStore,
		Statuses:   statusStore,
		Priorities: priorityStore,
		Users:      userStore,
		Comments:   commentStore,
	}, app.eventEmitter, logger)
	app.statusService = service.NewTaskStatusService(db, statusStore, taskStore, logger)
	app.priorityService = service.NewTaskPriorityService(db, priorityStore, taskStore, logger)
	app.commentService = service.NewTaskCommentService(
		db, taskStore, userStore, commentStore, app.eventEmitter, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// routerDeps collects what the router needs from the application.
func (app *application) routerDeps() routerDeps {
	return routerDeps{
		logger:         app.logger,
		tracerProvider: app.tracerProvider,
		jwtService:     app.jwtService,
		auth:           app.authService,
		users:          app.userService,
		tasks:          app.taskService,
		statuses:       app.statusService,
		priorities:     app.priorityService,
		comments:       app.commentService,
	}
}

// Run serves HTTP until ctx is canceled, then shuts down.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, newRouter(app.routerDeps())); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup drains queued events and closes connections.
func (app *application) cleanup(ctx context.Context) {
	if app.eventEmitter != nil {
		if err := app.eventEmitter.Stop(ctx); err != nil {
			app.logger.Error("Error draining event queue", slog.String("error", err.Error()))
		}
	}
	if app.shutdownTracing != nil {
		if err := app.shutdownTracing(ctx); err != nil {
			app.logger.Error("Error shutting down tracer provider", slog.String("error", err.Error()))
		}
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis client", slog.String("error", redact.Error(err)))
		}
	}
	if app.db != nil {
		closeDB(app.db, app.logger)
	}
	app.logger.Info("Application shutdown completed")
}
