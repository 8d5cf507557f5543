package events

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// ActivityLogHandler writes one structured log line per task or comment event.
type ActivityLogHandler struct {
	logger *slog.Logger
}

// NewActivityLogHandler creates an ActivityLogHandler writing to logger.
func NewActivityLogHandler(logger *slog.Logger) *ActivityLogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityLogHandler{logger: logger.With("component", "activity")}
}

// HandleEvent implements EventHandler. Events of unknown types are ignored.
func (h *ActivityLogHandler) HandleEvent(ctx context.Context, event *Event) error {
	attrs := []slog.Attr{
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
	}

	switch {
	case strings.HasPrefix(event.Type, "task."):
		var p TaskPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		attrs = append(attrs,
			slog.Int64("task_id", p.TaskID),
			slog.Int64("actor_id", p.ActorID))
		if p.AssigneeID != 0 {
			attrs = append(attrs, slog.Int64("assignee_id", p.AssigneeID))
		}
		if p.Status != "" {
			attrs = append(attrs, slog.String("status", p.Status))
		}
		if p.Priority != "" {
			attrs = append(attrs, slog.String("priority", p.Priority))
		}
	case strings.HasPrefix(event.Type, "comment."):
		var p CommentPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		attrs = append(attrs,
			slog.Int64("task_id", p.TaskID),
			slog.Int64("comment_id", p.CommentID),
			slog.Int64("actor_id", p.ActorID))
	default:
		return nil
	}

	h.logger.LogAttrs(ctx, slog.LevelInfo, "activity", attrs...)
	return nil
}
