package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/herbal-backoffice/internal/readmodel"
)

const readSchema = `
CREATE TABLE IF NOT EXISTS read_models (
	collection TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	data       JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (collection, id)
);`

// PostgresReadStore implements ReadStoreInterface on a single JSONB table.
// Documents are decoded into the concrete type registered in readmodel.New.
type PostgresReadStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewPostgresReadStore creates a new PostgreSQL-based read store
func NewPostgresReadStore(db *sql.DB) *PostgresReadStore {
	return &PostgresReadStore{db: db}
}

// EnsureSchema creates the read_models table when missing
func (rs *PostgresReadStore) EnsureSchema(ctx context.Context) error {
	if _, err := rs.db.ExecContext(ctx, readSchema); err != nil {
		return fmt.Errorf("create read schema: %w", err)
	}
	return nil
}

// Set stores a read model
func (rs *PostgresReadStore) Set(collection, id string, data any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.setUnsafe(collection, id, data)
}

// Get retrieves a read model by id
func (rs *PostgresReadStore) Get(collection, id string) (any, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.getUnsafe(collection, id)
}

// GetAll retrieves all items in a collection
func (rs *PostgresReadStore) GetAll(collection string) []any {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	rows, err := rs.db.Query(`SELECT data FROM read_models WHERE collection = $1`, collection)
	if err != nil {
		log.Printf("[PostgresReadStore] Error listing %s: %v", collection, err)
		return nil
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			log.Printf("[PostgresReadStore] Error scanning %s: %v", collection, err)
			continue
		}
		item, err := decode(collection, raw)
		if err != nil {
			log.Printf("[PostgresReadStore] Error decoding %s: %v", collection, err)
			continue
		}
		items = append(items, item)
	}
	return items
}

// Delete removes a read model
func (rs *PostgresReadStore) Delete(collection, id string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if _, err := rs.db.Exec(`DELETE FROM read_models WHERE collection = $1 AND id = $2`, collection, id); err != nil {
		log.Printf("[PostgresReadStore] Error deleting from %s: %v", collection, err)
	}
}

// Update modifies a read model using an update function
func (rs *PostgresReadStore) Update(collection, id string, updateFn func(current any) any) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	current, found := rs.getUnsafe(collection, id)
	if !found {
		return false
	}
	rs.setUnsafe(collection, id, updateFn(current))
	return true
}

// Reset empties the table; used before an event replay
func (rs *PostgresReadStore) Reset() error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	_, err := rs.db.Exec(`DELETE FROM read_models`)
	return err
}

func (rs *PostgresReadStore) setUnsafe(collection, id string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("[PostgresReadStore] Error encoding %s/%s: %v", collection, id, err)
		return
	}
	_, err = rs.db.Exec(`
		INSERT INTO read_models (collection, id, data, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (collection, id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
	`, collection, id, raw, time.Now())
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting %s/%s: %v", collection, id, err)
	}
}

func (rs *PostgresReadStore) getUnsafe(collection, id string) (any, bool) {
	var raw []byte
	err := rs.db.QueryRow(`SELECT data FROM read_models WHERE collection = $1 AND id = $2`, collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting %s/%s: %v", collection, id, err)
		return nil, false
	}
	item, err := decode(collection, raw)
	if err != nil {
		log.Printf("[PostgresReadStore] Error decoding %s/%s: %v", collection, id, err)
		return nil, false
	}
	return item, true
}

func decode(collection string, raw []byte) (any, error) {
	target, ok := readmodel.New(collection)
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, err
	}
	return target, nil
}
