package redisx

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/example/herbal-backoffice/internal/session"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient connects to REDIS_ADDR (default localhost:6379) and skips
// the test when no server answers.
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := New(addr)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := Ping(ctx, rdb); err != nil {
		_ = rdb.Close()
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestSessionStore_RoundTrip(t *testing.T) {
	rdb := newTestClient(t)
	store := NewSessionStore(rdb)
	ctx := context.Background()

	employeeID := "test-" + uuid.NewString()
	sess := &session.Session{
		ID:               uuid.NewString(),
		EmployeeID:       employeeID,
		RefreshTokenHash: session.HashToken("token"),
		ExpiresAt:        time.Now().Add(time.Minute),
		CreatedAt:        time.Now(),
	}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.RefreshTokenHash, got.RefreshTokenHash)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSessionStore_DeleteByEmployee(t *testing.T) {
	rdb := newTestClient(t)
	store := NewSessionStore(rdb)
	ctx := context.Background()

	employeeID := "test-" + uuid.NewString()
	ids := []string{uuid.NewString(), uuid.NewString()}
	for _, id := range ids {
		require.NoError(t, store.Save(ctx, &session.Session{ID: id, EmployeeID: employeeID, ExpiresAt: time.Now().Add(time.Minute)}))
	}

	require.NoError(t, store.DeleteByEmployee(ctx, employeeID))

	for _, id := range ids {
		_, err := store.Get(ctx, id)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	}
}

func TestIdempotencyStore_FirstWriterWins(t *testing.T) {
	rdb := newTestClient(t)
	store := NewIdempotencyStore(rdb)
	ctx := context.Background()
	key := uuid.NewString()
	t.Cleanup(func() { rdb.Del(context.Background(), "idem:test:"+key) })

	id, err := store.Remember(ctx, "test", key, "ORD123")
	require.NoError(t, err)
	assert.Equal(t, "ORD123", id)

	id, err = store.Remember(ctx, "test", key, "ORD456")
	require.NoError(t, err)
	assert.Equal(t, "ORD123", id)

	id, found, err := store.Lookup(ctx, "test", key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ORD123", id)
}

func TestIdempotencyStore_LookupMissing(t *testing.T) {
	rdb := newTestClient(t)
	store := NewIdempotencyStore(rdb)

	_, found, err := store.Lookup(context.Background(), "test", uuid.NewString())
	require.NoError(t, err)
	assert.False(t, found)
}
