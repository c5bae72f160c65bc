// Package manifest stores which source URI produced which cache key, in
// a small sqlite database. The eviction engine never reads it; it
// exists for operator tooling (resolving URIs back to keys). Usage
// recency is deliberately not persisted here — that lives in file
// mtimes only.
package manifest

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// DB is an open manifest database.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the manifest at path and brings its
// schema up to date.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping manifest: %w", err)
	}

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("failed to prepare migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Record upserts URI->key mappings in a single transaction.
func (d *DB) Record(ctx context.Context, entries map[string]string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR REPLACE INTO assets (uri, cache_key) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for uri, key := range entries {
		if _, err := stmt.ExecContext(ctx, uri, key); err != nil {
			return fmt.Errorf("failed to record %s: %w", uri, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Resolve returns the cache key recorded for uri.
func (d *DB) Resolve(ctx context.Context, uri string) (string, bool, error) {
	var key string
	err := d.db.QueryRowContext(ctx, "SELECT cache_key FROM assets WHERE uri = ?", uri).Scan(&key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to resolve uri %s: %w", uri, err)
	}
	return key, true, nil
}

// Forget drops the mapping for uri, if any.
func (d *DB) Forget(ctx context.Context, uri string) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM assets WHERE uri = ?", uri); err != nil {
		return fmt.Errorf("failed to forget uri %s: %w", uri, err)
	}
	return nil
}
