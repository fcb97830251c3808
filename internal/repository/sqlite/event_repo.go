package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"screenerbot-gateway/internal/domain/event"
)

const schema = `
CREATE TABLE IF NOT EXISTS gateway_events (
	id              TEXT PRIMARY KEY,
	type            TEXT NOT NULL,
	actor           TEXT NOT NULL DEFAULT '',
	call_id         TEXT NOT NULL DEFAULT '',
	assistant_id    TEXT NOT NULL DEFAULT '',
	customer_number TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL DEFAULT '',
	message         TEXT NOT NULL DEFAULT '',
	file_ids        TEXT NOT NULL DEFAULT '[]',
	created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_gateway_events_created_at ON gateway_events (created_at);

CREATE TABLE IF NOT EXISTS call_errors (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id        TEXT NOT NULL REFERENCES gateway_events (id),
	actor           TEXT NOT NULL DEFAULT '',
	assistant_id    TEXT NOT NULL DEFAULT '',
	customer_number TEXT NOT NULL DEFAULT '',
	message         TEXT NOT NULL DEFAULT '',
	created_at      TEXT NOT NULL
);
`

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// InitSchema creates the activity tables if they are missing.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply sqlite schema: %w", err)
	}
	return nil
}

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Record(ctx context.Context, e *event.Event) error {
	fileIDs, err := json.Marshal(nonNil(e.FileIDs))
	if err != nil {
		return fmt.Errorf("failed to encode file ids: %w", err)
	}
	createdAt := e.CreatedAt.UTC().Format(timeLayout)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO gateway_events (id, type, actor, call_id, assistant_id, customer_number, status, message, file_ids, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, string(e.Type), e.Actor, e.CallID, e.AssistantID, e.CustomerNumber, e.Status, e.Message, string(fileIDs), createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if e.IsFailure() {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO call_errors (event_id, actor, assistant_id, customer_number, message, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, e.ID, e.Actor, e.AssistantID, e.CustomerNumber, e.Message, createdAt)
		if err != nil {
			return fmt.Errorf("failed to insert call error: %w", err)
		}
	}

	return tx.Commit()
}

// Recent returns the newest events first.
func (r *EventRepository) Recent(ctx context.Context, limit int) ([]*event.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, actor, call_id, assistant_id, customer_number, status, message, file_ids, created_at
		FROM gateway_events
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []*event.Event{}
	for rows.Next() {
		var e event.Event
		var eventType, fileIDs, createdAt string
		if err := rows.Scan(
			&e.ID, &eventType, &e.Actor, &e.CallID, &e.AssistantID, &e.CustomerNumber,
			&e.Status, &e.Message, &fileIDs, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Type = event.Type(eventType)
		if err := json.Unmarshal([]byte(fileIDs), &e.FileIDs); err != nil {
			return nil, fmt.Errorf("failed to decode file ids of %s: %w", e.ID, err)
		}
		if len(e.FileIDs) == 0 {
			e.FileIDs = nil
		}
		if e.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at of %s: %w", e.ID, err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

// CountErrors returns how many failure events were copied to call_errors.
func (r *EventRepository) CountErrors(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM call_errors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count call errors: %w", err)
	}
	return n, nil
}

func (r *EventRepository) Close() error {
	return r.db.Close()
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
