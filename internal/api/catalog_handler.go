package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// StatusHandler handles /api/statuses requests.
type StatusHandler struct {
	statuses service.TaskStatusService
	logger   *slog.Logger
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(statuses service.TaskStatusService, logger *slog.Logger) *StatusHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StatusHandler")
	}
	return &StatusHandler{
		statuses: statuses,
		logger:   logger.With(slog.String("component", "status_handler")),
	}
}

func statusToResponse(s *domain.TaskStatus) StatusResponse {
	return StatusResponse{ID: s.ID, Name: s.Name}
}

// ListStatuses handles GET /api/statuses.
func (h *StatusHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.statuses.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list statuses")
		return
	}
	out := make([]StatusResponse, 0, len(statuses))
	for i := range statuses {
		out = append(out, statusToResponse(&statuses[i]))
	}
	shared.RespondWithList(w, r, len(out), out)
}

// GetStatus handles GET /api/statuses/{id}.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	status, err := h.statuses.Get(r.Context(), ids[0])
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get status")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, statusToResponse(status))
}

// CreateStatus handles POST /api/statuses.
func (h *StatusHandler) CreateStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	status, err := h.statuses.Create(r.Context(), req.Name.OrElse(""))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create status")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, statusToResponse(status))
}

// UpdateStatus handles PUT /api/statuses/{id}.
func (h *StatusHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	status, err := h.statuses.Update(r.Context(), ids[0], req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update status")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, statusToResponse(status))
}

// DeleteStatus handles DELETE /api/statuses/{id}. A status still used by
// tasks is not deleted and yields 409.
func (h *StatusHandler) DeleteStatus(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	if err := h.statuses.Delete(r.Context(), ids[0]); err != nil {
		HandleAPIError(w, r, err, "Failed to delete status")
		return
	}
	shared.RespondNoContent(w)
}

// PriorityHandler handles /api/priorities requests.
type PriorityHandler struct {
	priorities service.TaskPriorityService
	logger     *slog.Logger
}

// NewPriorityHandler creates a new PriorityHandler.
func NewPriorityHandler(priorities service.TaskPriorityService, logger *slog.Logger) *PriorityHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PriorityHandler")
	}
	return &PriorityHandler{
		priorities: priorities,
		logger:     logger.With(slog.String("component", "priority_handler")),
	}
}

func priorityToResponse(p *domain.TaskPriority) PriorityResponse {
	return PriorityResponse{ID: p.ID, Name: p.Name}
}

// ListPriorities handles GET /api/priorities.
func (h *PriorityHandler) ListPriorities(w http.ResponseWriter, r *http.Request) {
	priorities, err := h.priorities.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list priorities")
		return
	}
	out := make([]PriorityResponse, 0, len(priorities))
	for i := range priorities {
		out = append(out, priorityToResponse(&priorities[i]))
	}
	shared.RespondWithList(w, r, len(out), out)
}

// GetPriority handles GET /api/priorities/{id}.
func (h *PriorityHandler) GetPriority(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	priority, err := h.priorities.Get(r.Context(), ids[0])
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get priority")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, priorityToResponse(priority))
}

// CreatePriority handles POST /api/priorities.
func (h *PriorityHandler) CreatePriority(w http.ResponseWriter, r *http.Request) {
	var req PriorityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	priority, err := h.priorities.Create(r.Context(), req.Name.OrElse(""))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create priority")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, priorityToResponse(priority))
}

// UpdatePriority handles PUT /api/priorities/{id}.
func (h *PriorityHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	var req PriorityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	priority, err := h.priorities.Update(r.Context(), ids[0], req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update priority")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, priorityToResponse(priority))
}

// DeletePriority handles DELETE /api/priorities/{id}.
func (h *PriorityHandler) DeletePriority(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	if err := h.priorities.Delete(r.Context(), ids[0]); err != nil {
		HandleAPIError(w, r, err, "Failed to delete priority")
		return
	}
	shared.RespondNoContent(w)
}
