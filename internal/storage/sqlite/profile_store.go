package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/halcyon-app/halcyon/internal/storage"
	"github.com/halcyon-app/halcyon/pkg/types"
)

// ProfileStore implements storage.ProfileStore using SQLite.
type ProfileStore struct {
	db *sql.DB
}

// Load retrieves the profile document for a user.
func (s *ProfileStore) Load(ctx context.Context, userID string) (*types.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", storage.ErrInvalidInput)
	}

	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM profiles WHERE user_id = ?`, userID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var profile types.Profile
	if err := json.Unmarshal([]byte(doc), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// Save creates or updates a profile (upsert semantics).
func (s *ProfileStore) Save(ctx context.Context, profile *types.Profile) error {
	if profile == nil || profile.UserID == "" {
		return fmt.Errorf("%w: profile with user ID is required", storage.ErrInvalidInput)
	}

	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at`,
		profile.UserID, string(doc), profile.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// AppendStability records one stability snapshot for a user.
func (s *ProfileStore) AppendStability(ctx context.Context, userID string, value float64, at time.Time) error {
	if userID == "" {
		return fmt.Errorf("%w: user ID is required", storage.ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stability_history (user_id, value, recorded_at)
		VALUES (?, ?, ?)`, userID, value, at)
	if err != nil {
		return fmt.Errorf("failed to append stability snapshot: %w", err)
	}
	return nil
}

// StabilityHistory returns stability snapshots recorded at or after since,
// oldest first.
func (s *ProfileStore) StabilityHistory(ctx context.Context, userID string, since time.Time) ([]storage.StabilitySample, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", storage.ErrInvalidInput)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT value, recorded_at FROM stability_history
		WHERE user_id = ? AND recorded_at >= ?
		ORDER BY recorded_at ASC`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query stability history: %w", err)
	}
	defer rows.Close()

	samples := []storage.StabilitySample{}
	for rows.Next() {
		var sample storage.StabilitySample
		if err := rows.Scan(&sample.Value, &sample.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stability sample: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// Close closes the shared database handle.
func (s *ProfileStore) Close() error { return s.db.Close() }
