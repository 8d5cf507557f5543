package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"

	"github.com/phrazzld/taskboard-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskboard-api/internal/api/middleware"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
)

// routerDeps are the services behind the HTTP routes.
type routerDeps struct {
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	jwtService     auth.JWTService
	auth           service.AuthService
	users          service.UserService
	tasks          service.TaskService
	statuses       service.TaskStatusService
	priorities     service.TaskPriorityService
	comments       service.TaskCommentService
}

// newRouter builds the chi router. Role gates sit here; ownership rules
// (self, assignee, comment author) are enforced by the services.
func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(apiMiddleware.Tracing(d.tracerProvider))
	r.Use(apiMiddleware.NewTraceMiddleware(d.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	authHandler := api.NewAuthHandler(d.auth, d.logger)
	userHandler := api.NewUserHandler(d.users, d.logger)
	taskHandler := api.NewTaskHandler(d.tasks, d.logger)
	commentHandler := api.NewCommentHandler(d.comments, d.logger)
	statusHandler := api.NewStatusHandler(d.statuses, d.logger)
	priorityHandler := api.NewPriorityHandler(d.priorities, d.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(d.jwtService, d.auth, d.logger)

	anyRole := apiMiddleware.RequireRole(domain.RoleAdmin, domain.RoleUser)
	adminOnly := apiMiddleware.RequireRole(domain.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/users", func(r chi.Router) {
				r.Use(anyRole)
				r.Get("/", userHandler.ListUsers)
				r.Post("/", userHandler.CreateUser)
				r.Get("/{id}", userHandler.GetUser)
				r.Put("/{id}", userHandler.UpdateUser)
				r.Delete("/{id}", userHandler.DeleteUser)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.With(adminOnly).Get("/", taskHandler.ListTasks)
				r.With(adminOnly).Post("/", taskHandler.CreateTask)
				r.With(anyRole).Get("/{id}", taskHandler.GetTask)
				r.With(adminOnly).Put("/{id}", taskHandler.UpdateTask)
				r.With(adminOnly).Delete("/{id}", taskHandler.DeleteTask)
				r.With(anyRole).Put("/{id}/assignee-update", taskHandler.UpdateTaskAsAssignee)

				r.Route("/{taskId}/comments", func(r chi.Router) {
					r.Use(anyRole)
					r.Get("/", commentHandler.ListComments)
					r.Post("/", commentHandler.CreateComment)
					r.Get("/{id}", commentHandler.GetComment)
					r.Put("/{id}", commentHandler.UpdateComment)
					r.Delete("/{id}", commentHandler.DeleteComment)
				})
			})

			r.Route("/statuses", func(r chi.Router) {
				r.With(anyRole).Get("/", statusHandler.ListStatuses)
				r.With(anyRole).Get("/{id}", statusHandler.GetStatus)
				r.With(adminOnly).Post("/", statusHandler.CreateStatus)
				r.With(adminOnly).Put("/{id}", statusHandler.UpdateStatus)
				r.With(adminOnly).Delete("/{id}", statusHandler.DeleteStatus)
			})

			r.Route("/priorities", func(r chi.Router) {
				r.With(anyRole).Get("/", priorityHandler.ListPriorities)
				r.With(anyRole).Get("/{id}", priorityHandler.GetPriority)
				r.With(adminOnly).Post("/", priorityHandler.CreatePriority)
				r.With(adminOnly).Put("/{id}", priorityHandler.UpdatePriority)
				r.With(adminOnly).Delete("/{id}", priorityHandler.DeletePriority)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			d.logger.Error("Failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
