package storage

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates that the requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates that the input parameters are invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// StabilitySample is one persisted emotional-stability snapshot. Snapshots
// are appended on every profile update and power the stability-drop alert
// rule's historical reference window.
type StabilitySample struct {
	Value      float64   `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}

// StateNeighbor is one result of a feature-vector similarity lookup.
type StateNeighbor struct {
	// UserID identifies the profile whose latest state vector matched.
	UserID string `json:"user_id"`

	// Distance is the cosine distance to the query vector (lower is closer).
	Distance float64 `json:"distance"`
}
