package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store wraps a SQLite database and hands out the per-concern store views.
// All views share the same connection; closing any of them closes the
// database, so callers should close the Store once at shutdown instead.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database, configures WAL mode, and creates the
// schema. Use ":memory:" as the DSN for tests.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one concurrent writer. Using a single open connection
	// serialises writes and avoids SQLITE_BUSY errors under concurrent load.
	// WAL mode allows concurrent readers to proceed without blocking the writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0) // Connections live for the lifetime of the store.

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set busy timeout so that callers wait instead of getting an immediate
	// SQLITE_BUSY error when the connection is held by another goroutine.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Profiles returns the profile store view.
func (s *Store) Profiles() *ProfileStore { return &ProfileStore{db: s.db} }

// Behaviors returns the behavior profile store view.
func (s *Store) Behaviors() *BehaviorStore { return &BehaviorStore{db: s.db} }

// Interactions returns the interaction log view.
func (s *Store) Interactions() *InteractionStore { return &InteractionStore{db: s.db} }

// Alerts returns the alert store view.
func (s *Store) Alerts() *AlertStore { return &AlertStore{db: s.db} }

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
