package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/halcyon-app/halcyon/internal/storage"
)

// stateVectorDim is the prediction feature vector length.
const stateVectorDim = 15

// StateVectorStore implements storage.StateVectorStore on pgvector. It keeps
// the latest prediction feature vector per user and answers cosine
// nearest-neighbour queries over them.
type StateVectorStore struct {
	db *sql.DB
}

// UpsertStateVector stores the latest feature vector for a user.
func (s *StateVectorStore) UpsertStateVector(ctx context.Context, userID string, vec []float32) error {
	if userID == "" {
		return fmt.Errorf("%w: user ID is required", storage.ErrInvalidInput)
	}
	if len(vec) != stateVectorDim {
		return fmt.Errorf("%w: state vector must have %d dimensions, got %d",
			storage.ErrInvalidInput, stateVectorDim, len(vec))
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO state_vectors (user_id, vec, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE SET
			vec = EXCLUDED.vec,
			updated_at = CURRENT_TIMESTAMP`,
		userID, pgvector.NewVector(vec))
	if err != nil {
		return fmt.Errorf("failed to upsert state vector: %w", err)
	}
	return nil
}

// SimilarStates returns up to limit profiles whose latest state vector is
// closest to vec by cosine distance.
func (s *StateVectorStore) SimilarStates(ctx context.Context, vec []float32, limit int) ([]storage.StateNeighbor, error) {
	if len(vec) != stateVectorDim {
		return nil, fmt.Errorf("%w: state vector must have %d dimensions, got %d",
			storage.ErrInvalidInput, stateVectorDim, len(vec))
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, vec <=> $1 AS distance
		FROM state_vectors
		ORDER BY distance ASC
		LIMIT $2`, pgvector.NewVector(vec), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar states: %w", err)
	}
	defer rows.Close()

	neighbors := []storage.StateNeighbor{}
	for rows.Next() {
		var n storage.StateNeighbor
		if err := rows.Scan(&n.UserID, &n.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan state neighbor: %w", err)
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, rows.Err()
}
