// Package sqlite implements domain.CollectionStore on an in-memory SQLite
// database. Each store owns a private :memory: database behind a single
// connection, so nothing outlives Close or the process.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/ecotrack-campus/ecotrack/internal/domain"
)

// DB wraps the session's SQLite handle.
type DB struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

var _ domain.CollectionStore = (*DB)(nil)

// OpenMemory opens a fresh in-memory database and applies the schema.
func OpenMemory(ctx context.Context) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A :memory: database lives and dies with its connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	db := &DB{db: sqlDB}
	if err := db.migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// OpenSeeded opens an in-memory database preloaded with the campus seed data.
func OpenSeeded(ctx context.Context) (*DB, error) {
	db, err := OpenMemory(ctx)
	if err != nil {
		return nil, err
	}
	if err := db.Seed(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Factory is a domain.StoreFactory producing seeded SQLite stores.
func Factory(ctx context.Context) (domain.CollectionStore, error) {
	return OpenSeeded(ctx)
}

func (db *DB) migrate(ctx context.Context) error {
	for i, stmt := range Migrations() {
		if _, err := db.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Seed loads the campus seed collections. Entries are inserted oldest
// first so the sequence column preserves most-recent-first order.
func (db *DB) Seed(ctx context.Context) error {
	entries := domain.SeedEntries()
	for i := len(entries) - 1; i >= 0; i-- {
		if err := db.InsertEntry(ctx, entries[i]); err != nil {
			return fmt.Errorf("seed entry %s: %w", entries[i].ID, err)
		}
	}
	for _, a := range domain.SeedActions() {
		if err := db.insertAction(ctx, a); err != nil {
			return fmt.Errorf("seed action %s: %w", a.ID, err)
		}
	}
	for _, l := range domain.SeedLocations() {
		if err := db.AppendLocation(ctx, l); err != nil {
			return fmt.Errorf("seed location %s: %w", l.ID, err)
		}
	}
	return nil
}

// handle returns the live *sql.DB or ErrStoreClosed.
func (db *DB) handle() (*sql.DB, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil, domain.ErrStoreClosed
	}
	return db.db, nil
}

// Close drops the in-memory database.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil
	}
	db.closed = true
	return db.db.Close()
}
