package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

const eventSchema = `
CREATE TABLE IF NOT EXISTS events (
	id             UUID PRIMARY KEY,
	aggregate_id   TEXT        NOT NULL,
	aggregate_type TEXT        NOT NULL,
	event_type     TEXT        NOT NULL,
	data           JSONB       NOT NULL,
	version        INTEGER     NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	UNIQUE (aggregate_type, aggregate_id, version)
);
CREATE INDEX IF NOT EXISTS idx_events_aggregate_type ON events (aggregate_type, created_at);
CREATE TABLE IF NOT EXISTS snapshots (
	aggregate_id   TEXT        NOT NULL,
	aggregate_type TEXT        NOT NULL,
	version        INTEGER     NOT NULL,
	state          JSONB       NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (aggregate_type, aggregate_id)
);`

const selectEvents = `SELECT id, aggregate_id, aggregate_type, event_type, data, version, created_at FROM events`

// PostgresEventStore stores events in PostgreSQL
type PostgresEventStore struct {
	db        *sql.DB
	publisher Publisher
}

func NewPostgresEventStore(db *sql.DB, publisher Publisher) *PostgresEventStore {
	return &PostgresEventStore{
		db:        db,
		publisher: publisher,
	}
}

// EnsureSchema creates the events and snapshots tables when missing
func (es *PostgresEventStore) EnsureSchema(ctx context.Context) error {
	if _, err := es.db.ExecContext(ctx, eventSchema); err != nil {
		return fmt.Errorf("create event schema: %w", err)
	}
	return nil
}

// Append stores an event in PostgreSQL and publishes it
func (es *PostgresEventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	tx, err := es.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	var currentVersion int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM events WHERE aggregate_type = $1 AND aggregate_id = $2",
		aggregateType, aggregateID,
	).Scan(&currentVersion)
	if err != nil {
		return nil, err
	}

	event := Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       currentVersion + 1,
	}

	// the unique (aggregate_type, aggregate_id, version) constraint rejects concurrent writers
	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (id, aggregate_id, aggregate_type, event_type, data, version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID,
		event.AggregateID,
		event.AggregateType,
		event.EventType,
		[]byte(event.Data),
		event.Version,
		event.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if es.publisher != nil {
		if err := es.publisher.Publish(ctx, aggregateID, event); err != nil {
			return nil, err
		}
	}

	return &event, nil
}

// GetEvents returns all events for an aggregate from PostgreSQL
func (es *PostgresEventStore) GetEvents(aggregateType, aggregateID string) []Event {
	return es.query(context.Background(),
		selectEvents+` WHERE aggregate_type = $1 AND aggregate_id = $2 ORDER BY version ASC`, aggregateType, aggregateID)
}

// GetAllEvents returns all events from PostgreSQL
func (es *PostgresEventStore) GetAllEvents() []Event {
	return es.query(context.Background(), selectEvents+` ORDER BY created_at ASC`)
}

// GetEventsByType returns all events of a specific aggregate type
func (es *PostgresEventStore) GetEventsByType(aggregateType string) []Event {
	return es.query(context.Background(),
		selectEvents+` WHERE aggregate_type = $1 ORDER BY created_at ASC`, aggregateType)
}

// GetEventsFromVersion returns events for an aggregate newer than fromVersion
func (es *PostgresEventStore) GetEventsFromVersion(ctx context.Context, aggregateType, aggregateID string, fromVersion int) []Event {
	return es.query(ctx,
		selectEvents+` WHERE aggregate_type = $1 AND aggregate_id = $2 AND version > $3 ORDER BY version ASC`,
		aggregateType, aggregateID, fromVersion)
}

func (es *PostgresEventStore) query(ctx context.Context, q string, args ...any) []Event {
	rows, err := es.db.QueryContext(ctx, q, args...)
	if err != nil {
		log.Printf("[PostgresEventStore] Query failed: %v", err)
		return nil
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var data []byte
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &data, &e.Version, &e.Timestamp); err != nil {
			log.Printf("[PostgresEventStore] Scan failed: %v", err)
			continue
		}
		e.Data = json.RawMessage(data)
		events = append(events, e)
	}
	return events
}

// SaveSnapshot upserts the snapshot of an aggregate
func (es *PostgresEventStore) SaveSnapshot(ctx context.Context, snapshot *Snapshot) error {
	_, err := es.db.ExecContext(ctx, `
		INSERT INTO snapshots (aggregate_id, aggregate_type, version, state, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (aggregate_type, aggregate_id) DO UPDATE SET
			version = EXCLUDED.version,
			state = EXCLUDED.state,
			created_at = EXCLUDED.created_at
	`, snapshot.AggregateID, snapshot.AggregateType, snapshot.Version, []byte(snapshot.State), snapshot.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the stored snapshot or nil when none exists
func (es *PostgresEventStore) GetSnapshot(ctx context.Context, aggregateType, aggregateID string) (*Snapshot, error) {
	var s Snapshot
	var state []byte
	err := es.db.QueryRowContext(ctx,
		`SELECT aggregate_id, aggregate_type, version, state, created_at FROM snapshots WHERE aggregate_type = $1 AND aggregate_id = $2`,
		aggregateType, aggregateID,
	).Scan(&s.AggregateID, &s.AggregateType, &s.Version, &state, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	s.State = json.RawMessage(state)
	return &s, nil
}

// ConnectPostgres establishes a connection to PostgreSQL
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
