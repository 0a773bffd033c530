package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RememberFirstWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, found, err := store.Lookup(ctx, "order", "k1")
	require.NoError(t, err)
	assert.False(t, found)

	id, err := store.Remember(ctx, "order", "k1", "ORD123")
	require.NoError(t, err)
	assert.Equal(t, "ORD123", id)

	id, err = store.Remember(ctx, "order", "k1", "ORD999")
	require.NoError(t, err)
	assert.Equal(t, "ORD123", id)

	id, found, err = store.Lookup(ctx, "order", "k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ORD123", id)
}

func TestMemoryStore_ScopesAreSeparate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Remember(ctx, "order", "k1", "ORD123")
	require.NoError(t, err)

	_, found, err := store.Lookup(ctx, "product", "k1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_, err := store.Remember(ctx, "order", "k1", "ORD123")
	require.NoError(t, err)

	now = now.Add(TTL + time.Second)

	_, found, err := store.Lookup(ctx, "order", "k1")
	require.NoError(t, err)
	assert.False(t, found)

	id, err := store.Remember(ctx, "order", "k1", "ORD456")
	require.NoError(t, err)
	assert.Equal(t, "ORD456", id)
}
