package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

var (
	adminPrincipal = domain.Principal{UserID: 1, Email: "admin@example.com", Roles: []domain.RoleName{domain.RoleAdmin}}
	userPrincipal  = domain.Principal{UserID: 2, Email: "alice@example.com", Roles: []domain.RoleName{domain.RoleUser}}

	fixedTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testRequest describes a request as the router would hand it to a handler.
type testRequest struct {
	method    string
	target    string
	body      string
	params    map[string]string
	principal *domain.Principal
}

func (tr testRequest) build(t *testing.T) *http.Request {
	t.Helper()

	var body io.Reader
	if tr.body != "" {
		body = strings.NewReader(tr.body)
	}
	req := httptest.NewRequest(tr.method, tr.target, body)

	rctx := chi.NewRouteContext()
	for k, v := range tr.params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if tr.principal != nil {
		ctx = shared.WithPrincipal(ctx, *tr.principal)
	}
	return req.WithContext(ctx)
}

// serve runs handler and returns the recorder.
func serve(t *testing.T, handler http.HandlerFunc, tr testRequest) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler(rec, tr.build(t))
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&out))
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, rec).Error
}

func sampleTask() *domain.Task {
	return &domain.Task{
		ID:          1,
		Title:       "Write docs",
		Description: "Document the API",
		StatusID:    1,
		Status:      "draft",
		PriorityID:  2,
		Priority:    "high",
		AuthorID:    adminPrincipal.UserID,
		AssigneeID:  userPrincipal.UserID,
		CreatedAt:   fixedTime,
		UpdatedAt:   fixedTime,
	}
}
