package postgres

import (
	"context"
	"fmt"
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
	file_ids        TEXT[],
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_gateway_events_created_at ON gateway_events (created_at DESC);

CREATE TABLE IF NOT EXISTS call_errors (
	id              BIGSERIAL PRIMARY KEY,
	event_id        TEXT NOT NULL REFERENCES gateway_events (id) ON DELETE CASCADE,
	actor           TEXT NOT NULL DEFAULT '',
	assistant_id    TEXT NOT NULL DEFAULT '',
	customer_number TEXT NOT NULL DEFAULT '',
	message         TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate applies the activity schema. It is safe to run repeatedly.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply postgres schema: %w", err)
	}
	return nil
}
