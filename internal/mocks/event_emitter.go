package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/taskboard-api/internal/events"
)

// MockEventEmitter records emitted events.
type MockEventEmitter struct {
	mu     sync.Mutex
	Events []*events.Event
	Err    error
}

// EmitEvent implements the events.EventEmitter interface
func (m *MockEventEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return m.Err
}

// Types returns the types of the recorded events in order.
func (m *MockEventEmitter) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Type
	}
	return types
}
