// internal/app/storage.go
package app

import (
	"context"
	"fmt"

	"screenerbot-gateway/internal/config"
	"screenerbot-gateway/internal/db"
	"screenerbot-gateway/internal/domain/event"
	"screenerbot-gateway/internal/repository/postgres"
	"screenerbot-gateway/internal/repository/sqlite"
)

// OpenStore connects the activity store selected by cfg and applies its
// schema. It returns nil when no backend is configured.
func OpenStore(ctx context.Context, cfg config.AppConfig) (event.Store, error) {
	switch cfg.StorageBackend() {
	case "postgres":
		pool, err := db.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		pg := postgres.NewDB(pool)
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return pg.Events(), nil

	case "sqlite":
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.InitSchema(sqlDB); err != nil {
			sqlDB.Close()
			return nil, err
		}
		return sqlite.NewEventRepository(sqlDB), nil

	default:
		return nil, nil
	}
}

// Migrate applies the activity schema to the configured backend.
func Migrate(ctx context.Context, cfg config.AppConfig) (string, error) {
	backend := cfg.StorageBackend()
	if backend == "none" {
		return backend, fmt.Errorf("no storage configured: set DATABASE_URL or SQLITE_PATH")
	}
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return backend, err
	}
	return backend, store.Close()
}
