package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/halcyon-app/halcyon/internal/storage"
	"github.com/halcyon-app/halcyon/pkg/types"
)

// BehaviorStore implements storage.BehaviorStore using PostgreSQL.
type BehaviorStore struct {
	db *sql.DB
}

// Load retrieves the behavior profile document for a user.
func (s *BehaviorStore) Load(ctx context.Context, userID string) (*types.BehaviorProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", storage.ErrInvalidInput)
	}

	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM behavior_profiles WHERE user_id = $1`, userID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load behavior profile: %w", err)
	}

	var profile types.BehaviorProfile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal behavior profile: %w", err)
	}
	return &profile, nil
}

// Save creates or updates a behavior profile (upsert semantics).
func (s *BehaviorStore) Save(ctx context.Context, profile *types.BehaviorProfile) error {
	if profile == nil || profile.UserID == "" {
		return fmt.Errorf("%w: behavior profile with user ID is required", storage.ErrInvalidInput)
	}

	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal behavior profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO behavior_profiles (user_id, document, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at`,
		profile.UserID, doc, profile.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to save behavior profile: %w", err)
	}
	return nil
}

// Close closes the shared database handle.
func (s *BehaviorStore) Close() error { return s.db.Close() }
