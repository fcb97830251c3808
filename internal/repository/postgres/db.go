// internal/repository/postgres/db.go
package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	pool *pgxpool.Pool
}

func NewDB(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Events returns the activity store backed by this pool.
func (db *DB) Events() *EventRepository {
	return NewEventRepository(db.pool)
}
