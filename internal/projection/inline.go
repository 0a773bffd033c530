package projection

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/herbal-backoffice/internal/infrastructure/store"
)

// InlinePublisher projects events in-process, for deployments without Kafka
type InlinePublisher struct {
	projector *Projector
	after     []func(ctx context.Context, event store.Event)
}

func NewInlinePublisher(projector *Projector) *InlinePublisher {
	return &InlinePublisher{projector: projector}
}

// OnEvent registers a hook that runs after an event has been projected
func (p *InlinePublisher) OnEvent(fn func(ctx context.Context, event store.Event)) {
	p.after = append(p.after, fn)
}

// Publish implements store.Publisher
func (p *InlinePublisher) Publish(ctx context.Context, key string, event any) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.projector.HandleEvent(ctx, []byte(key), value); err != nil {
		return err
	}

	if len(p.after) > 0 {
		var stored store.Event
		if err := json.Unmarshal(value, &stored); err != nil {
			return err
		}
		for _, fn := range p.after {
			fn(ctx, stored)
		}
	}
	return nil
}

// Resetter is implemented by read stores that can be emptied before a replay
type Resetter interface {
	Reset() error
}

// Rebuild empties the read store and replays every stored event into it,
// in append order.
func Rebuild(ctx context.Context, eventStore store.EventStoreInterface, readStore store.ReadStoreInterface) (int, error) {
	if r, ok := readStore.(Resetter); ok {
		if err := r.Reset(); err != nil {
			return 0, fmt.Errorf("failed to reset read store: %w", err)
		}
	}

	projector := NewProjector(readStore).Quiet()
	events := eventStore.GetAllEvents()
	for i, event := range events {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := projector.Apply(event); err != nil {
			return i, fmt.Errorf("failed to project event %s: %w", event.ID, err)
		}
	}

	log.Printf("[Projector] Rebuilt read models from %d events", len(events))
	return len(events), nil
}
