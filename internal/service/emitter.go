package service

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter: decouples services from the outer surfaces
// ─────────────────────────────────────────────────────────────

// EventEmitter notifies whoever renders the floor plan that data changed.
// Services receive this interface so they can be tested with a mock.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

const (
	EventTablesChanged     = "tables:changed"
	EventFloorPlansChanged = "floorplans:changed"
	EventStatusesReset     = "tables:statuses-reset"
)

// LogEmitter writes events to a logger. Used by the CLI and MCP server,
// which have no live frontend to push to.
type LogEmitter struct {
	Logger *log.Logger
}

func (e LogEmitter) Emit(_ context.Context, event string, data any) {
	if e.Logger == nil {
		return
	}
	e.Logger.Debug("event", "name", event, "data", data)
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Count returns how many times event was emitted.
func (m *MockEmitter) Count(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Events {
		if e.Event == event {
			n++
		}
	}
	return n
}
