package db

import (
	"context"
	"errors"
	"os"

	"github.com/jmoiron/sqlx"
)

// OpenTestDB connects to TEST_DATABASE_URL with a single attempt and applies the migrations.
func OpenTestDB(ctx context.Context, migrationsPath string) (*sqlx.DB, error) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("TEST_DATABASE_URL environment variable is not set")
	}

	opts := DefaultConnectOptions
	opts.Attempts = 1
	conn, err := Connect(ctx, dbURL, opts)
	if err != nil {
		return nil, err
	}

	if _, err := RunMigrations(ctx, conn, migrationsPath); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}
