package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/sirupsen/logrus"
)

// Store wraps a PostgreSQL database and hands out the per-concern store
// views. All views share the same pool; close the Store once at shutdown.
type Store struct {
	db         *sql.DB
	hasVectors bool
}

// NewStore connects to PostgreSQL and creates the schema. The pgvector part
// of the schema is applied best-effort: when the extension is unavailable the
// store still works, minus similarity lookups.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	store := &Store{db: db}
	if _, err := db.Exec(SchemaVectors); err != nil {
		logrus.WithError(err).Warn("pgvector unavailable, similarity lookups disabled")
	} else {
		store.hasVectors = true
	}

	return store, nil
}

// Profiles returns the profile store view.
func (s *Store) Profiles() *ProfileStore { return &ProfileStore{db: s.db} }

// Behaviors returns the behavior profile store view.
func (s *Store) Behaviors() *BehaviorStore { return &BehaviorStore{db: s.db} }

// Interactions returns the interaction log view.
func (s *Store) Interactions() *InteractionStore { return &InteractionStore{db: s.db} }

// Alerts returns the alert store view.
func (s *Store) Alerts() *AlertStore { return &AlertStore{db: s.db} }

// StateVectors returns the pgvector-backed state vector store, or nil when
// the vector extension is unavailable.
func (s *Store) StateVectors() *StateVectorStore {
	if !s.hasVectors {
		return nil
	}
	return &StateVectorStore{db: s.db}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
