package postgres

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

// AlertStore implements storage.AlertStore using PostgreSQL.
type AlertStore struct {
	db *sql.DB
}

// Create stores a new alert.
func (s *AlertStore) Create(ctx context.Context, alert *types.Alert) error {
	if alert == nil || alert.ID == "" || alert.UserID == "" {
		return fmt.Errorf("%w: alert with ID and user ID is required", storage.ErrInvalidInput)
	}
	if alert.Status == "" {
		alert.Status = types.AlertStatusActive
	}

	var detailsJSON []byte
	if alert.Details != nil {
		var err error
		detailsJSON, err = json.Marshal(alert.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal alert details: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (id, user_id, rule_id, level, message, details, status, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		alert.ID, alert.UserID, alert.RuleID, string(alert.Level), alert.Message,
		detailsJSON, string(alert.Status), alert.CreatedAt, alert.ResolvedAt)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// Get retrieves an alert by ID.
func (s *AlertStore) Get(ctx context.Context, id string) (*types.Alert, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: alert ID is required", storage.ErrInvalidInput)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, rule_id, level, message, details, status, created_at, resolved_at
		FROM alerts WHERE id = $1`, id)

	alert, err := scanAlert(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load alert: %w", err)
	}
	return alert, nil
}

// UpdateStatus transitions an alert's status.
func (s *AlertStore) UpdateStatus(ctx context.Context, id string, status types.AlertStatus, resolvedAt *time.Time) error {
	if id == "" {
		return fmt.Errorf("%w: alert ID is required", storage.ErrInvalidInput)
	}
	if !types.IsValidAlertStatus(status) {
		return fmt.Errorf("%w: unknown alert status %q", storage.ErrInvalidInput, status)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET status = $1, resolved_at = $2 WHERE id = $3`,
		string(status), resolvedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update alert status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListByUser returns a user's alerts, newest first.
func (s *AlertStore) ListByUser(ctx context.Context, userID string) ([]types.Alert, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", storage.ErrInvalidInput)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, rule_id, level, message, details, status, created_at, resolved_at
		FROM alerts WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	alerts := []types.Alert{}
	for rows.Next() {
		alert, err := scanAlert(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, *alert)
	}
	return alerts, rows.Err()
}

// Close closes the shared database handle.
func (s *AlertStore) Close() error { return s.db.Close() }

func scanAlert(scan func(dest ...interface{}) error) (*types.Alert, error) {
	var (
		alert       types.Alert
		level       string
		status      string
		detailsJSON []byte
		resolvedAt  sql.NullTime
	)
	if err := scan(&alert.ID, &alert.UserID, &alert.RuleID, &level, &alert.Message,
		&detailsJSON, &status, &alert.CreatedAt, &resolvedAt); err != nil {
		return nil, err
	}
	alert.Level = types.AlertLevel(level)
	alert.Status = types.AlertStatus(status)
	if resolvedAt.Valid {
		t := resolvedAt.Time
		alert.ResolvedAt = &t
	}
	if len(detailsJSON) > 0 {
		if err := json.Unmarshal(detailsJSON, &alert.Details); err != nil {
			return nil, err
		}
	}
	return &alert, nil
}
