package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// ConnectOptions controls how long Connect keeps retrying an unreachable database.
type ConnectOptions struct {
	Attempts     int
	Backoff      time.Duration // first wait, doubled after each failure
	MaxBackoff   time.Duration
	MaxOpenConns int
}

var DefaultConnectOptions = ConnectOptions{
	Attempts:     10,
	Backoff:      500 * time.Millisecond,
	MaxBackoff:   10 * time.Second,
	MaxOpenConns: 10,
}

// Connect opens a PostgreSQL pool, retrying with backoff until the database
// answers, the attempts run out or ctx is done.
func Connect(ctx context.Context, databaseURL string, opts ConnectOptions) (*sqlx.DB, error) {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	wait := opts.Backoff
	var err error

	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		var conn *sqlx.DB
		conn, err = sqlx.ConnectContext(ctx, "postgres", databaseURL)
		if err == nil {
			if opts.MaxOpenConns > 0 {
				conn.SetMaxOpenConns(opts.MaxOpenConns)
				conn.SetMaxIdleConns(opts.MaxOpenConns)
			}
			conn.SetConnMaxIdleTime(5 * time.Minute)
			log.Info().Int("attempt", attempt).Msg("connected to database")
			return conn, nil
		}
		if attempt == opts.Attempts {
			break
		}

		log.Warn().Err(err).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Msg("database not reachable")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect to database: %w", ctx.Err())
		case <-time.After(wait):
		}
		if wait *= 2; opts.MaxBackoff > 0 && wait > opts.MaxBackoff {
			wait = opts.MaxBackoff
		}
	}

	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", opts.Attempts, err)
}

// RunMigrations applies every "*.up.sql" file in dir that is not yet recorded
// in schema_migrations, in file name order, each in its own transaction.
// It returns the names it applied.
func RunMigrations(ctx context.Context, conn *sqlx.DB, dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("list migrations in %s: %w", dir, err)
	}
	if len(files) == 0 {
		log.Warn().Str("path", dir).Msg("no migrations found")
		return nil, nil
	}
	sort.Strings(files)

	if _, err := conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	var done []string
	if err := conn.SelectContext(ctx, &done, `SELECT name FROM schema_migrations`); err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	seen := make(map[string]bool, len(done))
	for _, name := range done {
		seen[name] = true
	}

	var applied []string
	for _, file := range files {
		name := filepath.Base(file)
		if seen[name] {
			continue
		}

		body, err := os.ReadFile(file)
		if err != nil {
			return applied, fmt.Errorf("read migration %q: %w", name, err)
		}
		if strings.TrimSpace(string(body)) == "" {
			continue
		}

		if err := applyMigration(ctx, conn, name, string(body)); err != nil {
			return applied, err
		}
		log.Info().Str("file", name).Msg("migration applied")
		applied = append(applied, name)
	}
	return applied, nil
}

func applyMigration(ctx context.Context, conn *sqlx.DB, name, stmt string) error {
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("migration %q: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
		return fmt.Errorf("record migration %q: %w", name, err)
	}
	return tx.Commit()
}
