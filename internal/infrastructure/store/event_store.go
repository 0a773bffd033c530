package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event represents a domain event
type Event struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
}

// MarshalJSON returns the JSON encoding of the event
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	return json.Marshal(&struct{ Alias }{Alias: Alias(e)})
}

// EventStore keeps events in memory and forwards them to a publisher.
// The global log preserves append order for replay.
type EventStore struct {
	mu        sync.RWMutex
	events    map[string][]Event // stream key -> events
	log       []Event
	snapshots map[string]*Snapshot
	publisher Publisher
}

func NewEventStore(publisher Publisher) *EventStore {
	return &EventStore{
		events:    make(map[string][]Event),
		snapshots: make(map[string]*Snapshot),
		publisher: publisher,
	}
}

// SetPublisher replaces the publisher used for newly appended events
func (es *EventStore) SetPublisher(publisher Publisher) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.publisher = publisher
}

// Append stores an event and hands it to the publisher
func (es *EventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	key := StreamKey(aggregateType, aggregateID)

	es.mu.Lock()
	version := len(es.events[key]) + 1
	event := Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       version,
	}
	es.events[key] = append(es.events[key], event)
	es.log = append(es.log, event)
	publisher := es.publisher
	es.mu.Unlock()

	if publisher != nil {
		if err := publisher.Publish(ctx, aggregateID, event); err != nil {
			return nil, err
		}
	}

	return &event, nil
}

// GetEvents returns all events for an aggregate
func (es *EventStore) GetEvents(aggregateType, aggregateID string) []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()
	return append([]Event(nil), es.events[StreamKey(aggregateType, aggregateID)]...)
}

// GetEventsByType returns every event of one aggregate type in append order
func (es *EventStore) GetEventsByType(aggregateType string) []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()

	var out []Event
	for _, e := range es.log {
		if e.AggregateType == aggregateType {
			out = append(out, e)
		}
	}
	return out
}

// GetAllEvents returns all events in append order
func (es *EventStore) GetAllEvents() []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()
	return append([]Event(nil), es.log...)
}

// GetEventsFromVersion returns events newer than fromVersion
func (es *EventStore) GetEventsFromVersion(_ context.Context, aggregateType, aggregateID string, fromVersion int) []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()

	var out []Event
	for _, e := range es.events[StreamKey(aggregateType, aggregateID)] {
		if e.Version > fromVersion {
			out = append(out, e)
		}
	}
	return out
}

// GetSnapshot returns the latest snapshot or nil
func (es *EventStore) GetSnapshot(_ context.Context, aggregateType, aggregateID string) (*Snapshot, error) {
	es.mu.RLock()
	defer es.mu.RUnlock()
	return es.snapshots[StreamKey(aggregateType, aggregateID)], nil
}

// SaveSnapshot replaces the snapshot of an aggregate
func (es *EventStore) SaveSnapshot(_ context.Context, snapshot *Snapshot) error {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.snapshots[StreamKey(snapshot.AggregateType, snapshot.AggregateID)] = snapshot
	return nil
}
