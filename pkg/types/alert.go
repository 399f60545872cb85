package types

import "time"

// AlertRule is a declarative threshold condition. Rules are static,
// configuration-like data: the evaluator dispatches on rule ID, and the
// conditions map carries named numeric parameters so rule sets can be swapped
// without changing evaluator code.
type AlertRule struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Conditions  map[string]float64 `json:"conditions" yaml:"conditions"`
	Level       AlertLevel         `json:"level" yaml:"level"`
	Enabled     bool               `json:"enabled" yaml:"enabled"`
}

// Alert is produced only by rule evaluation. Status transitions happen only
// via explicit resolve/dismiss operations.
type Alert struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"user_id"`
	RuleID     string                 `json:"rule_id"`
	Level      AlertLevel             `json:"level"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details"` // structured evidence
	CreatedAt  time.Time              `json:"created_at"`
	ResolvedAt *time.Time             `json:"resolved_at,omitempty"`
	Status     AlertStatus            `json:"status"`
}

// AlertHistory is a summary view of a user's alerts.
type AlertHistory struct {
	UserID        string     `json:"user_id"`
	Alerts        []Alert    `json:"alerts"`
	TotalAlerts   int        `json:"total_alerts"`
	ActiveAlerts  int        `json:"active_alerts"`
	LastAlertTime *time.Time `json:"last_alert_time,omitempty"`
}
