package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// Query parameters of the task listing.
const (
	paramAuthorID     = "authorId"
	paramAssigneeID   = "assigneeId"
	paramStatusCont   = "statusCont"
	paramPriorityCont = "priorityCont"
	paramPage         = "page"
	paramSort         = "sort"
)

// TaskHandler handles /api/tasks requests.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// parseTaskListQuery reads the filter, sort and page parameters. Unset
// parameters select everything, id ascending, page 1.
func parseTaskListQuery(q url.Values) (service.TaskListQuery, error) {
	query := service.TaskListQuery{
		Filter: store.TaskFilter{
			StatusContains:   strings.TrimSpace(q.Get(paramStatusCont)),
			PriorityContains: strings.TrimSpace(q.Get(paramPriorityCont)),
		},
		Sort: strings.TrimSpace(q.Get(paramSort)),
		Page: 1,
	}

	for name, dst := range map[string]**int64{
		paramAuthorID:   &query.Filter.AuthorID,
		paramAssigneeID: &query.Filter.AssigneeID,
	} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return query, fmt.Errorf("%w: %s must be an integer", errInvalidID, name)
		}
		*dst = &id
	}

	if raw := q.Get(paramPage); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return query, fmt.Errorf("%w: %q", store.ErrInvalidPage, raw)
		}
		query.Page = page
	}
	return query, nil
}

// ListTasks handles GET /api/tasks. X-Total-Count holds the number of tasks
// matching the filter, not the size of the page.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	query, err := parseTaskListQuery(r.URL.Query())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.tasks.List(r.Context(), query)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("listed tasks",
		slog.Int("page", page.Page.Number),
		slog.Int("returned", len(page.Tasks)),
		slog.Int("total", page.Total))
	shared.RespondWithList(w, r, page.Total, tasksToResponse(page.Tasks))
}

// GetTask handles GET /api/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), ids[0])
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.Create(r.Context(), actor, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AuthorID:    req.AuthorID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// UpdateTask handles PUT /api/tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.Update(r.Context(), actor, ids[0], service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AuthorID:    req.AuthorID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTaskAsAssignee handles PUT /api/tasks/{id}/assignee-update.
func (h *TaskHandler) UpdateTaskAsAssignee(w http.ResponseWriter, r *http.Request) {
	actor, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	var req AssigneeUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.UpdateAsAssignee(r.Context(), actor, ids[0], service.AssigneeUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), actor, ids[0]); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}
	shared.RespondNoContent(w)
}
