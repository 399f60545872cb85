package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/halcyon-app/halcyon/internal/storage"
	"github.com/halcyon-app/halcyon/pkg/types"
)

// InteractionStore implements storage.InteractionStore using PostgreSQL.
type InteractionStore struct {
	db *sql.DB
}

// Append stores one interaction record.
func (s *InteractionStore) Append(ctx context.Context, record *types.InteractionRecord) error {
	if record == nil || record.ID == "" || record.UserID == "" {
		return fmt.Errorf("%w: interaction with ID and user ID is required", storage.ErrInvalidInput)
	}

	var metadataJSON []byte
	if record.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interactions (
			id, user_id, interaction_type, target_user_id,
			sentiment, intensity, context, timestamp, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.ID, record.UserID, string(record.Interaction), record.TargetUserID,
		string(record.Sentiment), record.Intensity, record.Context, record.Timestamp,
		metadataJSON)
	if err != nil {
		return fmt.Errorf("failed to append interaction: %w", err)
	}
	return nil
}

// ListSince returns a user's interactions with timestamp >= since, oldest
// first.
func (s *InteractionStore) ListSince(ctx context.Context, userID string, since time.Time) ([]types.InteractionRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", storage.ErrInvalidInput)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, interaction_type, target_user_id,
		       sentiment, intensity, context, timestamp, metadata
		FROM interactions
		WHERE user_id = $1 AND timestamp >= $2
		ORDER BY timestamp ASC`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	records := []types.InteractionRecord{}
	for rows.Next() {
		var (
			record       types.InteractionRecord
			interaction  string
			sentiment    string
			target       sql.NullString
			context      sql.NullString
			metadataJSON []byte
		)
		if err := rows.Scan(&record.ID, &record.UserID, &interaction, &target,
			&sentiment, &record.Intensity, &context, &record.Timestamp, &metadataJSON); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		record.Interaction = types.InteractionType(interaction)
		record.Sentiment = types.Sentiment(sentiment)
		record.TargetUserID = target.String
		record.Context = context.String
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Close closes the shared database handle.
func (s *InteractionStore) Close() error { return s.db.Close() }
