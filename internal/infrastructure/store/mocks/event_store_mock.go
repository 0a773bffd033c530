package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/example/herbal-backoffice/internal/infrastructure/store"
	"github.com/google/uuid"
)

// MockEventStore is a mock implementation of EventStoreInterface for testing
type MockEventStore struct {
	mu        sync.RWMutex
	events    map[string][]store.Event
	log       []store.Event
	snapshots map[string]*store.Snapshot

	// For tracking calls in tests
	AppendCalls    []AppendCall
	AppendErr      error
	AppendCallback func(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*store.Event, error)
}

// AppendCall records parameters passed to Append
type AppendCall struct {
	AggregateID   string
	AggregateType string
	EventType     string
	Data          any
}

// NewMockEventStore creates a new MockEventStore
func NewMockEventStore() *MockEventStore {
	return &MockEventStore{
		events:      make(map[string][]store.Event),
		snapshots:   make(map[string]*store.Snapshot),
		AppendCalls: make([]AppendCall, 0),
	}
}

// Append stores an event in memory
func (m *MockEventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*store.Event, error) {
	m.mu.Lock()
	m.AppendCalls = append(m.AppendCalls, AppendCall{
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          data,
	})
	callback := m.AppendCallback
	appendErr := m.AppendErr
	m.mu.Unlock()

	if callback != nil {
		return callback(ctx, aggregateID, aggregateType, eventType, data)
	}
	if appendErr != nil {
		return nil, appendErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendUnsafe(aggregateID, aggregateType, eventType, data)
}

func (m *MockEventStore) appendUnsafe(aggregateID, aggregateType, eventType string, data any) (*store.Event, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	key := store.StreamKey(aggregateType, aggregateID)
	event := store.Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       len(m.events[key]) + 1,
	}
	m.events[key] = append(m.events[key], event)
	m.log = append(m.log, event)
	return &event, nil
}

// GetEvents returns events for an aggregate
func (m *MockEventStore) GetEvents(aggregateType, aggregateID string) []store.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]store.Event(nil), m.events[store.StreamKey(aggregateType, aggregateID)]...)
}

// GetEventsByType returns events of one aggregate type in append order
func (m *MockEventStore) GetEventsByType(aggregateType string) []store.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []store.Event
	for _, e := range m.log {
		if e.AggregateType == aggregateType {
			out = append(out, e)
		}
	}
	return out
}

// GetAllEvents returns all events in append order
func (m *MockEventStore) GetAllEvents() []store.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]store.Event(nil), m.log...)
}

// GetEventsFromVersion returns events newer than fromVersion
func (m *MockEventStore) GetEventsFromVersion(_ context.Context, aggregateType, aggregateID string, fromVersion int) []store.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []store.Event
	for _, e := range m.events[store.StreamKey(aggregateType, aggregateID)] {
		if e.Version > fromVersion {
			out = append(out, e)
		}
	}
	return out
}

// GetSnapshot returns a stored snapshot or nil
func (m *MockEventStore) GetSnapshot(_ context.Context, aggregateType, aggregateID string) (*store.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshots[store.StreamKey(aggregateType, aggregateID)], nil
}

// SaveSnapshot stores a snapshot
func (m *MockEventStore) SaveSnapshot(_ context.Context, snapshot *store.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[store.StreamKey(snapshot.AggregateType, snapshot.AggregateID)] = snapshot
	return nil
}

// Reset clears all events and recorded calls
func (m *MockEventStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make(map[string][]store.Event)
	m.log = nil
	m.snapshots = make(map[string]*store.Snapshot)
	m.AppendCalls = make([]AppendCall, 0)
	m.AppendErr = nil
	m.AppendCallback = nil
}

// AddEvent adds a single event for testing without recording an Append call
func (m *MockEventStore) AddEvent(aggregateID, aggregateType, eventType string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.appendUnsafe(aggregateID, aggregateType, eventType, data)
	return err
}

// EventTypes lists the event types appended through Append, in order
func (m *MockEventStore) EventTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	types := make([]string, 0, len(m.AppendCalls))
	for _, c := range m.AppendCalls {
		types = append(types, c.EventType)
	}
	return types
}
