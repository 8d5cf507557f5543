package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// CommentHandler handles /api/tasks/{taskId}/comments requests.
type CommentHandler struct {
	comments service.TaskCommentService
	logger   *slog.Logger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(comments service.TaskCommentService, logger *slog.Logger) *CommentHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CommentHandler")
	}
	return &CommentHandler{
		comments: comments,
		logger:   logger.With(slog.String("component", "comment_handler")),
	}
}

// ListComments handles GET /api/tasks/{taskId}/comments.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "taskId")
	if !ok {
		return
	}

	comments, err := h.comments.List(r.Context(), ids[0])
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list comments")
		return
	}
	shared.RespondWithList(w, r, len(comments), commentsToResponse(comments))
}

// GetComment handles GET /api/tasks/{taskId}/comments/{id}.
func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "taskId", "id")
	if !ok {
		return
	}

	comment, err := h.comments.Get(r.Context(), ids[0], ids[1])
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get comment")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, commentToResponse(comment))
}

// CreateComment handles POST /api/tasks/{taskId}/comments.
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "taskId")
	if !ok {
		return
	}
	var req CreateCommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.comments.Create(r.Context(), actor, ids[0], service.CreateCommentInput{
		AuthorID:    req.AuthorID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create comment")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, commentToResponse(comment))
}

// UpdateComment handles PUT /api/tasks/{taskId}/comments/{id}.
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "taskId", "id")
	if !ok {
		return
	}
	var req UpdateCommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.comments.Update(r.Context(), actor, ids[0], ids[1], service.UpdateCommentInput{
		AuthorID:    req.AuthorID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update comment")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, commentToResponse(comment))
}

// DeleteComment handles DELETE /api/tasks/{taskId}/comments/{id}.
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	ids, ok := pathIDs(w, r, "taskId", "id")
	if !ok {
		return
	}

	if err := h.comments.Delete(r.Context(), actor, ids[0], ids[1]); err != nil {
		HandleAPIError(w, r, err, "Failed to delete comment")
		return
	}
	shared.RespondNoContent(w)
}
