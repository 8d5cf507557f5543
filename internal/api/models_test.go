package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
)

func TestDateTimeJSON(t *testing.T) {
	data, err := json.Marshal(DateTime(fixedTime))
	require.NoError(t, err)
	assert.Equal(t, `"09-03-2024 14:05:07"`, string(data))

	var parsed DateTime
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, fixedTime.Equal(time.Time(parsed)))

	assert.Error(t, json.Unmarshal([]byte(`"2024-03-09T14:05:07Z"`), &parsed))
	assert.Error(t, json.Unmarshal([]byte(`12`), &parsed))
}

func TestTaskResponseWireFormat(t *testing.T) {
	task := sampleTask()
	task.Comments = nil

	data, err := json.Marshal(taskToResponse(task))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": 1,
		"title": "Write docs",
		"description": "Document the API",
		"status": "draft",
		"priority": "high",
		"task_comments": [],
		"author_id": 1,
		"assignee_id": 2,
		"created_at": "09-03-2024 14:05:07",
		"updated_at": "09-03-2024 14:05:07"
	}`, string(data))
}

func TestUserResponseWireFormat(t *testing.T) {
	view := &service.UserView{
		User: &domain.User{
			ID:             2,
			FirstName:      "Alice",
			LastName:       "Tester",
			Email:          "alice@example.com",
			PasswordDigest: "hashed",
			Roles:          []domain.Role{{ID: 2, Name: domain.RoleUser}},
			CreatedAt:      fixedTime,
			UpdatedAt:      fixedTime,
		},
		TasksAsAssignee: []*domain.Task{sampleTask()},
	}

	data, err := json.Marshal(userToResponse(view))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{map[string]any{"role_name": "USER"}}, decoded["roles"])
	assert.Equal(t, []any{}, decoded["tasks_as_author"])
	assert.Len(t, decoded["tasks_as_assignee"], 1)
	assert.NotContains(t, string(data), "hashed")
	assert.NotContains(t, string(data), "password")
}

func TestUpdateRequestsDistinguishNullFromAbsent(t *testing.T) {
	var req UpdateCommentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title": null, "description": "edited"}`), &req))

	assert.True(t, req.Title.IsNull())
	assert.False(t, req.AuthorID.IsSet())
	desc, ok := req.Description.Get()
	assert.True(t, ok)
	assert.Equal(t, "edited", desc)
}
