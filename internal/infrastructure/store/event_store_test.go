package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return p.err
}

// ============================================
// Append Tests
// ============================================

func TestEventStore_Append_AssignsSequentialVersions(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	first, err := es.Append(ctx, "1", "Category", "CategoryCreated", map[string]string{"name": "Herbs"})
	require.NoError(t, err)
	second, err := es.Append(ctx, "1", "Category", "CategoryUpdated", map[string]string{"name": "Teas"})
	require.NoError(t, err)
	other, err := es.Append(ctx, "2", "Category", "CategoryCreated", map[string]string{"name": "Oils"})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)
	assert.Equal(t, 1, other.Version)
	assert.NotEmpty(t, first.ID)
	assert.JSONEq(t, `{"name":"Herbs"}`, string(first.Data))
}

func TestEventStore_Append_Publishes(t *testing.T) {
	pub := &recordingPublisher{}
	es := NewEventStore(pub)

	_, err := es.Append(context.Background(), "ORD001", "Order", "OrderCreated", struct{}{})
	require.NoError(t, err)

	assert.Equal(t, []string{"ORD001"}, pub.keys)
}

func TestEventStore_Append_PublishError(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	es := NewEventStore(pub)

	_, err := es.Append(context.Background(), "1", "Customer", "CustomerCreated", struct{}{})
	assert.Error(t, err)
}

func TestEventStore_Append_UnmarshalableData(t *testing.T) {
	es := NewEventStore(nil)

	_, err := es.Append(context.Background(), "1", "Customer", "CustomerCreated", make(chan int))
	assert.Error(t, err)
	assert.Empty(t, es.GetAllEvents())
}

// ============================================
// Query Tests
// ============================================

func TestEventStore_GetEventsByType(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	_, _ = es.Append(ctx, "1", "Category", "CategoryCreated", struct{}{})
	_, _ = es.Append(ctx, "PRD001", "Product", "ProductCreated", struct{}{})
	_, _ = es.Append(ctx, "2", "Category", "CategoryCreated", struct{}{})

	events := es.GetEventsByType("Category")
	require.Len(t, events, 2)
	assert.Equal(t, "1", events[0].AggregateID)
	assert.Equal(t, "2", events[1].AggregateID)
}

func TestEventStore_GetAllEvents_AppendOrder(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	_, _ = es.Append(ctx, "b", "Customer", "CustomerCreated", struct{}{})
	_, _ = es.Append(ctx, "a", "Customer", "CustomerCreated", struct{}{})
	_, _ = es.Append(ctx, "b", "Customer", "CustomerUpdated", struct{}{})

	events := es.GetAllEvents()
	require.Len(t, events, 3)
	assert.Equal(t, "b", events[0].AggregateID)
	assert.Equal(t, "a", events[1].AggregateID)
	assert.Equal(t, "CustomerUpdated", events[2].EventType)
}

func TestEventStore_GetEvents_ReturnsCopy(t *testing.T) {
	es := NewEventStore(nil)
	_, _ = es.Append(context.Background(), "1", "Discount", "DiscountCreated", struct{}{})

	events := es.GetEvents("Discount", "1")
	events[0].EventType = "Tampered"

	assert.Equal(t, "DiscountCreated", es.GetEvents("Discount", "1")[0].EventType)
}

func TestEventStore_GetEventsFromVersion(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, _ = es.Append(ctx, "1", "Employee", "EmployeeUpdated", struct{}{})
	}

	events := es.GetEventsFromVersion(ctx, "Employee", "1", 3)
	require.Len(t, events, 2)
	assert.Equal(t, 4, events[0].Version)
	assert.Equal(t, 5, events[1].Version)
}

func TestEventStore_StreamsAreKeyedByType(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()
	_, _ = es.Append(ctx, "1", "Category", "CategoryCreated", struct{}{})
	_, _ = es.Append(ctx, "1", "Customer", "CustomerCreated", struct{}{})
	e, err := es.Append(ctx, "1", "Customer", "CustomerUpdated", struct{}{})
	require.NoError(t, err)

	assert.Equal(t, 2, e.Version)
	assert.Len(t, es.GetEvents("Category", "1"), 1)
	assert.Len(t, es.GetEvents("Customer", "1"), 2)
	assert.Empty(t, es.GetEvents("Employee", "1"))
	assert.Empty(t, es.GetEventsFromVersion(ctx, "Category", "1", 1))
	assert.Equal(t, "1", e.AggregateID)
}

// ============================================
// Snapshot Tests
// ============================================

func TestEventStore_Snapshots(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	snap, err := es.GetSnapshot(ctx, "Order", "ORD001")
	require.NoError(t, err)
	assert.Nil(t, snap)

	state, _ := json.Marshal(map[string]any{"id": "ORD001", "status": "Pending"})
	require.NoError(t, es.SaveSnapshot(ctx, &Snapshot{
		AggregateID:   "ORD001",
		AggregateType: "Order",
		Version:       10,
		State:         state,
		CreatedAt:     time.Now(),
	}))

	snap, err = es.GetSnapshot(ctx, "Order", "ORD001")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 10, snap.Version)
	assert.JSONEq(t, string(state), string(snap.State))

	snap, err = es.GetSnapshot(ctx, "Product", "ORD001")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSnapshotThreshold(t *testing.T) {
	assert.Equal(t, 10, SnapshotThreshold)
}

func TestEvent_MarshalJSON(t *testing.T) {
	e := Event{
		ID:            "evt-1",
		AggregateID:   "1",
		AggregateType: "Category",
		EventType:     "CategoryCreated",
		Data:          json.RawMessage(`{"name":"Herbs"}`),
		Version:       1,
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, e.AggregateID, decoded.AggregateID)
	assert.Equal(t, e.EventType, decoded.EventType)
	assert.JSONEq(t, `{"name":"Herbs"}`, string(decoded.Data))
}
