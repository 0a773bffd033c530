package idempotency

import (
	"context"
	"sync"
	"time"
)

// Header carries the client's idempotency key
const Header = "Idempotency-Key"

// TTL is how long a key is remembered
var TTL = 24 * time.Hour

// Store remembers which resource a keyed request created
type Store interface {
	// Lookup returns the resource id recorded for key
	Lookup(ctx context.Context, scope, key string) (string, bool, error)
	// Remember records id for key unless the key is already taken, and
	// returns the id that is recorded afterwards.
	Remember(ctx context.Context, scope, key, id string) (string, error)
}

type entry struct {
	id        string
	expiresAt time.Time
}

// MemoryStore keeps keys in process memory
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry), now: time.Now}
}

func (m *MemoryStore) Lookup(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[scope+":"+key]
	if !ok || m.now().After(e.expiresAt) {
		return "", false, nil
	}
	return e.id, true, nil
}

func (m *MemoryStore) Remember(_ context.Context, scope, key, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := scope + ":" + key
	if e, ok := m.entries[k]; ok && !m.now().After(e.expiresAt) {
		return e.id, nil
	}
	m.entries[k] = entry{id: id, expiresAt: m.now().Add(TTL)}
	return id, nil
}
