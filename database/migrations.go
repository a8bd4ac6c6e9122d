package database

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		client_id  TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name  TEXT NOT NULL,
		age        INTEGER NOT NULL CHECK (age > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS trips (
		trip_id     UUID PRIMARY KEY,
		day_of_week SMALLINT NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		ticket_id      BIGSERIAL PRIMARY KEY,
		trip_id        UUID NOT NULL REFERENCES trips (trip_id),
		client_id      TEXT NOT NULL REFERENCES clients (client_id),
		departure_city TEXT NOT NULL,
		arrival_city   TEXT NOT NULL,
		departure_time TIMESTAMP NOT NULL,
		arrival_time   TIMESTAMP NOT NULL,
		price          DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		fare_class     TEXT NOT NULL DEFAULT '',
		route_ids      TEXT[] NOT NULL,
		day_of_week    SMALLINT NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS tickets_client_day_idx ON tickets (client_id, day_of_week)`,
	`CREATE INDEX IF NOT EXISTS tickets_trip_idx ON tickets (trip_id)`,
}

// RunMigrations creates the ledger tables when they do not exist yet.
func RunMigrations(ctx context.Context, db *sql.DB, logger *zap.SugaredLogger) error {
	logger.Info("Checking database schema...")

	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	logger.Infow("Database schema is up to date", "statements", len(schema))
	return nil
}
