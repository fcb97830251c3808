// internal/repository/postgres/event_repo.go
package postgres

import (
	"context"
	"fmt"

	"screenerbot-gateway/internal/domain/event"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Record stores an event. Failure events are also copied to call_errors in
// the same transaction.
func (r *EventRepository) Record(ctx context.Context, e *event.Event) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO gateway_events (id, type, actor, call_id, assistant_id, customer_number, status, message, file_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.Exec(ctx, query,
		e.ID, string(e.Type), e.Actor, e.CallID, e.AssistantID, e.CustomerNumber,
		e.Status, e.Message, pq.StringArray(e.FileIDs), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if e.IsFailure() {
		_, err = tx.Exec(ctx, `
			INSERT INTO call_errors (event_id, actor, assistant_id, customer_number, message, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, e.ID, e.Actor, e.AssistantID, e.CustomerNumber, e.Message, e.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert call error: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Recent returns the newest events first.
func (r *EventRepository) Recent(ctx context.Context, limit int) ([]*event.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, type, actor, call_id, assistant_id, customer_number, status, message, file_ids, created_at
		FROM gateway_events
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []*event.Event{}
	for rows.Next() {
		var e event.Event
		var eventType string
		var fileIDs pq.StringArray
		if err := rows.Scan(
			&e.ID, &eventType, &e.Actor, &e.CallID, &e.AssistantID, &e.CustomerNumber,
			&e.Status, &e.Message, &fileIDs, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Type = event.Type(eventType)
		e.FileIDs = []string(fileIDs)
		events = append(events, &e)
	}
	return events, rows.Err()
}

func (r *EventRepository) Close() error {
	r.db.Close()
	return nil
}
