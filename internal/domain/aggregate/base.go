package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/herbal-backoffice/internal/infrastructure/store"
)

// Aggregate defines the interface for event-sourced aggregates
type Aggregate interface {
	GetID() string
	GetVersion() int
	SetVersion(int)
	ApplyEvent(store.Event) error
}

// LoadAggregate loads an aggregate by replaying events, using snapshot if available
// Returns the aggregate, a boolean indicating if data was found, and any error.
// Only the stream of aggregateType is read; other types may share the id.
func LoadAggregate[T Aggregate](
	ctx context.Context,
	eventStore store.EventStoreInterface,
	aggregateType, id string,
	newAggregate func() T,
) (T, bool, error) {
	agg := newAggregate()

	snapshot, err := eventStore.GetSnapshot(ctx, aggregateType, id)
	if err != nil {
		var zero T
		return zero, false, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var events []store.Event
	if snapshot != nil {
		if err := json.Unmarshal(snapshot.State, agg); err != nil {
			var zero T
			return zero, false, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		events = eventStore.GetEventsFromVersion(ctx, aggregateType, id, snapshot.Version)
	} else {
		events = eventStore.GetEvents(aggregateType, id)
	}

	// Check if any data was found
	hasData := snapshot != nil || len(events) > 0

	for _, event := range events {
		if err := agg.ApplyEvent(event); err != nil {
			var zero T
			return zero, false, fmt.Errorf("failed to apply event: %w", err)
		}
	}

	return agg, hasData, nil
}

// MaybeCreateSnapshot creates a snapshot if the threshold is exceeded
func MaybeCreateSnapshot(
	ctx context.Context,
	eventStore store.EventStoreInterface,
	agg Aggregate,
	aggregateType string,
) error {
	version := agg.GetVersion()
	if version > 0 && version%store.SnapshotThreshold == 0 {
		state, err := json.Marshal(agg)
		if err != nil {
			return fmt.Errorf("failed to marshal aggregate state: %w", err)
		}

		snapshot := &store.Snapshot{
			AggregateID:   agg.GetID(),
			AggregateType: aggregateType,
			Version:       version,
			State:         state,
			CreatedAt:     time.Now(),
		}

		if err := eventStore.SaveSnapshot(ctx, snapshot); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
	}
	return nil
}

// LiveIDs lists, in first-seen order, the ids of aggregates of one type whose
// most recent lifecycle event is a creation rather than deletedEvent.
func LiveIDs(eventStore store.EventStoreInterface, aggregateType, deletedEvent string, createdEvents ...string) []string {
	live := make(map[string]bool)
	var order []string
	for _, event := range eventStore.GetEventsByType(aggregateType) {
		switch {
		case event.EventType == deletedEvent:
			live[event.AggregateID] = false
		case contains(createdEvents, event.EventType):
			if _, seen := live[event.AggregateID]; !seen {
				order = append(order, event.AggregateID)
			}
			live[event.AggregateID] = true
		}
	}

	ids := make([]string, 0, len(order))
	for _, id := range order {
		if live[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
