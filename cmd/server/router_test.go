package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/mocks"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

var (
	routerAdmin = domain.Principal{UserID: 1, Email: "admin@example.com", Roles: []domain.RoleName{domain.RoleAdmin}}
	routerUser  = domain.Principal{UserID: 2, Email: "alice@example.com", Roles: []domain.RoleName{domain.RoleUser}}
)

type routerFixture struct {
	handler  http.Handler
	jwt      auth.JWTService
	exporter *tracetest.InMemoryExporter
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "router-test-secret-with-at-least-32-bytes",
		TokenLifetimeMinutes: 60,
		BCryptCost:           4,
	})
	require.NoError(t, err)

	principals := map[int64]domain.Principal{routerAdmin.UserID: routerAdmin, routerUser.UserID: routerUser}
	authSvc := &mocks.MockAuthService{
		PrincipalForFn: func(_ context.Context, id int64) (domain.Principal, error) {
			p, ok := principals[id]
			if !ok {
				return domain.Principal{}, store.ErrUserNotFound
			}
			return p, nil
		},
		AuthenticateFn: func(_ context.Context, email, password string) (domain.Principal, error) {
			if email == routerUser.Email && password == "secret" {
				return routerUser, nil
			}
			return domain.Principal{}, service.ErrInvalidCredentials
		},
		LoginFn: func(ctx context.Context, email, password string) (*service.LoginResult, error) {
			if email != routerUser.Email || password != "secret" {
				return nil, service.ErrInvalidCredentials
			}
			token, exp, err := jwtService.GenerateToken(ctx, routerUser)
			if err != nil {
				return nil, err
			}
			return &service.LoginResult{Token: token, UserID: routerUser.UserID, ExpiresAt: exp}, nil
		},
	}

	task := &domain.Task{ID: 1, Title: "t", Description: "d", Status: "draft", Priority: "low", AuthorID: 1, AssigneeID: 2}
	tasks := &mocks.MockTaskService{
		ListFn: func(context.Context, service.TaskListQuery) (*service.TaskPage, error) {
			return &service.TaskPage{Tasks: []*domain.Task{task}, Total: 11}, nil
		},
		GetFn: func(context.Context, int64) (*domain.Task, error) { return task, nil },
		UpdateAsAssigneeFn: func(
			context.Context,
			domain.Principal,
			int64,
			service.AssigneeUpdateInput,
		) (*domain.Task, error) {
			return task, nil
		},
	}
	comments := &mocks.MockTaskCommentService{
		GetFn: func(_ context.Context, taskID, id int64) (*domain.TaskComment, error) {
			if taskID != 1 || id != 3 {
				return nil, store.ErrCommentNotFound
			}
			return &domain.TaskComment{ID: 3, TaskID: 1, AuthorID: 2, Description: "hi"}, nil
		},
	}
	statuses := &mocks.MockTaskStatusService{
		ListFn: func(context.Context) ([]domain.TaskStatus, error) {
			return []domain.TaskStatus{{ID: 1, Name: "draft"}}, nil
		},
		CreateFn: func(_ context.Context, name string) (*domain.TaskStatus, error) {
			return &domain.TaskStatus{ID: 2, Name: name}, nil
		},
	}

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	handler := newRouter(routerDeps{
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracerProvider: tp,
		jwtService:     jwtService,
		auth:           authSvc,
		users:          &mocks.MockUserService{},
		tasks:          tasks,
		statuses:       statuses,
		priorities:     &mocks.MockTaskPriorityService{},
		comments:       comments,
	})
	return &routerFixture{handler: handler, jwt: jwtService, exporter: exporter}
}

func (f *routerFixture) bearer(t *testing.T, p domain.Principal) string {
	t.Helper()
	token, _, err := f.jwt.GenerateToken(context.Background(), p)
	require.NoError(t, err)
	return "Bearer " + token
}

func (f *routerFixture) do(method, path, authorization, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthIsPublic(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouteRoleGates(t *testing.T) {
	f := newRouterFixture(t)
	admin := f.bearer(t, routerAdmin)
	user := f.bearer(t, routerUser)

	tests := []struct {
		name       string
		method     string
		path       string
		auth       string
		body       string
		wantStatus int
	}{
		{"list tasks without credentials", http.MethodGet, "/api/tasks", "", "", http.StatusUnauthorized},
		{"list tasks as user", http.MethodGet, "/api/tasks", user, "", http.StatusForbidden},
		{"list tasks as admin", http.MethodGet, "/api/tasks", admin, "", http.StatusOK},
		{"get task as user", http.MethodGet, "/api/tasks/1", user, "", http.StatusOK},
		{"delete task as user", http.MethodDelete, "/api/tasks/1", user, "", http.StatusForbidden},
		{
			"assignee update as user",
			http.MethodPut, "/api/tasks/1/assignee-update", user, `{"status":"done"}`,
			http.StatusOK,
		},
		{"get comment on its task", http.MethodGet, "/api/tasks/1/comments/3", user, "", http.StatusOK},
		{"get comment on another task", http.MethodGet, "/api/tasks/2/comments/3", user, "", http.StatusNotFound},
		{"list statuses as user", http.MethodGet, "/api/statuses", user, "", http.StatusOK},
		{"create status as user", http.MethodPost, "/api/statuses", user, `{"status_name":"x"}`, http.StatusForbidden},
		{
			"create status as admin",
			http.MethodPost, "/api/statuses", admin, `{"status_name":"review"}`,
			http.StatusCreated,
		},
		{"garbage token", http.MethodGet, "/api/tasks/1", "Bearer not-a-jwt", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(tt.method, tt.path, tt.auth, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestListTasksReportsFilteredTotal(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/tasks?page=2", f.bearer(t, routerAdmin), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "11", rec.Header().Get(shared.TotalCountHeader))
}

func TestBasicAuthFallback(t *testing.T) {
	f := newRouterFixture(t)
	basic := func(user, pass string) string {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
	}

	rec := f.do(http.MethodGet, "/api/tasks/1", basic(routerUser.Email, "secret"), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/tasks/1", basic(routerUser.Email, "wrong"), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginThenUseToken(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/api/login", "", `{"email":"alice@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	rec = f.do(http.MethodGet, "/api/tasks/1", "Bearer "+resp.Token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestSpansUseRoutePattern(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/tasks/1/comments/3", f.bearer(t, routerUser), "")
	require.Equal(t, http.StatusOK, rec.Code)

	spans := f.exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/tasks/{taskId}/comments/{id}", spans[0].Name)
}
