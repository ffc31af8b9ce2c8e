package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// MockEventPublisher records published events in memory.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []*Event
	err    error
	log    zerolog.Logger
}

func NewMockEventPublisher(log zerolog.Logger) *MockEventPublisher {
	return &MockEventPublisher{log: log}
}

// FailWith makes subsequent Publish calls return err.
func (m *MockEventPublisher) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockEventPublisher) Publish(_ context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	m.log.Debug().Str("event_type", string(event.Type)).Msg("mock event published")
	return nil
}

// GetPublishedEvents returns a copy of the recorded events.
func (m *MockEventPublisher) GetPublishedEvents() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Event, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}
