package store

import "context"

// EventStoreInterface defines the interface for event stores
type EventStoreInterface interface {
	Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error)
	GetEvents(aggregateType, aggregateID string) []Event
	GetEventsByType(aggregateType string) []Event
	GetAllEvents() []Event

	GetEventsFromVersion(ctx context.Context, aggregateType, aggregateID string, fromVersion int) []Event
	GetSnapshot(ctx context.Context, aggregateType, aggregateID string) (*Snapshot, error)
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error
}

// StreamKey identifies one event stream. Numeric ids repeat across aggregate
// types, so a stream is keyed by both.
func StreamKey(aggregateType, aggregateID string) string {
	return aggregateType + "#" + aggregateID
}

// Publisher forwards stored events to projections, either through Kafka or in-process
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}
