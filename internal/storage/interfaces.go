// Package storage provides composable storage interfaces for the Halcyon
// engine.
//
// The storage layer is designed with small, focused interfaces that can be
// implemented independently and composed as needed. The engine treats the
// load/save calls below as its only suspension points: everything else it
// does is CPU-bound recomputation over in-memory history.
package storage

import (
	"context"
	"time"

	"github.com/halcyon-app/halcyon/pkg/types"
)

// ProfileStore persists profile-shaped emotional aggregates keyed by user ID.
type ProfileStore interface {
	// Load retrieves the profile for a user.
	// Returns ErrNotFound when no profile exists yet; the engine treats that
	// as a signal to create a default profile, never as a failure.
	Load(ctx context.Context, userID string) (*types.Profile, error)

	// Save creates or updates a profile (upsert semantics).
	Save(ctx context.Context, profile *types.Profile) error

	// AppendStability records one emotional-stability snapshot for a user.
	AppendStability(ctx context.Context, userID string, value float64, at time.Time) error

	// StabilityHistory returns the stability snapshots recorded at or after
	// since, oldest first. An empty slice (not an error) when none exist.
	StabilityHistory(ctx context.Context, userID string, since time.Time) ([]StabilitySample, error)

	// Close releases any resources held by the store.
	Close() error
}

// BehaviorStore persists behavior-shaped aggregates keyed by user ID.
// Same Load/Save semantics as ProfileStore.
type BehaviorStore interface {
	Load(ctx context.Context, userID string) (*types.BehaviorProfile, error)
	Save(ctx context.Context, profile *types.BehaviorProfile) error
	Close() error
}

// InteractionStore is the append-only log of social interaction events.
type InteractionStore interface {
	// Append stores one interaction record.
	Append(ctx context.Context, record *types.InteractionRecord) error

	// ListSince returns a user's interactions with timestamp >= since,
	// ordered by timestamp ascending.
	ListSince(ctx context.Context, userID string, since time.Time) ([]types.InteractionRecord, error)

	Close() error
}

// AlertStore persists alerts produced by rule evaluation.
type AlertStore interface {
	// Create stores a new alert.
	Create(ctx context.Context, alert *types.Alert) error

	// Get retrieves an alert by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*types.Alert, error)

	// UpdateStatus transitions an alert's status. resolvedAt is set only for
	// resolve transitions and may be nil. Returns ErrNotFound if absent.
	UpdateStatus(ctx context.Context, id string, status types.AlertStatus, resolvedAt *time.Time) error

	// ListByUser returns a user's alerts, newest first.
	ListByUser(ctx context.Context, userID string) ([]types.Alert, error)

	Close() error
}

// StateVectorStore persists the latest prediction feature vector per profile
// and serves nearest-neighbour lookups over them. Optional: only the Postgres
// backend implements it (pgvector).
type StateVectorStore interface {
	// UpsertStateVector stores the latest feature vector for a user.
	UpsertStateVector(ctx context.Context, userID string, vec []float32) error

	// SimilarStates returns up to limit profiles whose latest state vector is
	// closest to vec by cosine distance.
	SimilarStates(ctx context.Context, vec []float32, limit int) ([]StateNeighbor, error)
}
