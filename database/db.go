package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"rail-planner/config"
)

// Connect opens the ledger database and waits until it answers, retrying
// with exponential backoff for up to cfg.DBConnectTimeout.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	retry := backoff.NewExponentialBackOff()
	retry.MaxElapsedTime = cfg.DBConnectTimeout

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		if err := db.PingContext(ctx); err != nil {
			logger.Warnw("Failed to connect to database", "attempt", attempt, "error", err)
			return err
		}
		return nil
	}, backoff.WithContext(retry, ctx))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempt, err)
	}

	logger.Infow("Successfully connected to database", "host", cfg.DBHost, "name", cfg.DBName)
	return db, nil
}
