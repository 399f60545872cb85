package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/halcyon-app/halcyon/internal/rules"
	"github.com/halcyon-app/halcyon/internal/storage"
	"github.com/halcyon-app/halcyon/pkg/types"
)

// Notifier delivers an alert to an external channel. Delivery is best
// effort; a false return means the alert was not delivered anywhere.
type Notifier interface {
	Deliver(alert *types.Alert) bool
}

// Service runs the alert pipeline: evaluate the live rule set, persist what
// fires, and fan the new alerts out to notification channels.
type Service struct {
	alerts    storage.AlertStore
	evaluator *Evaluator
	rules     *rules.Set

	notifier  Notifier
	onCreated func(*types.Alert)

	now func() time.Time
	log *logrus.Entry
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the service clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNotifier attaches an external delivery channel.
func WithNotifier(notifier Notifier) Option {
	return func(s *Service) { s.notifier = notifier }
}

// WithOnCreated registers a callback invoked for every persisted alert, in
// creation order. Used for the live alert stream.
func WithOnCreated(fn func(*types.Alert)) Option {
	return func(s *Service) { s.onCreated = fn }
}

// NewService creates an alert service.
func NewService(alerts storage.AlertStore, evaluator *Evaluator, ruleSet *rules.Set, opts ...Option) *Service {
	s := &Service{
		alerts:    alerts,
		evaluator: evaluator,
		rules:     ruleSet,
		now:       time.Now,
		log:       logrus.WithField("component", "alert_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckAlerts evaluates the current rule set against a profile and persists
// every alert that fires. Notification failures never fail the check; the
// persisted alert is the source of truth.
func (s *Service) CheckAlerts(ctx context.Context, profile *types.Profile) ([]types.Alert, error) {
	if profile == nil {
		return nil, fmt.Errorf("%w: profile is required", storage.ErrInvalidInput)
	}

	now := s.now()
	fired, err := s.evaluator.Evaluate(ctx, profile, s.rules.Snapshot(), now)
	if err != nil {
		return nil, err
	}

	for i := range fired {
		alert := &fired[i]
		alert.ID = uuid.New().String()
		if err := s.alerts.Create(ctx, alert); err != nil {
			return nil, fmt.Errorf("failed to persist alert: %w", err)
		}

		s.log.WithFields(logrus.Fields{
			"alert_id": alert.ID,
			"user_id":  alert.UserID,
			"rule_id":  alert.RuleID,
			"level":    alert.Level,
		}).Info("alert created")

		if s.notifier != nil {
			go func(a types.Alert) {
				if !s.notifier.Deliver(&a) {
					s.log.WithField("alert_id", a.ID).Warn("alert notification not delivered")
				}
			}(*alert)
		}
		if s.onCreated != nil {
			s.onCreated(alert)
		}
	}
	return fired, nil
}

// Resolve marks an alert resolved and stamps the resolution time.
func (s *Service) Resolve(ctx context.Context, id string) error {
	now := s.now()
	return s.alerts.UpdateStatus(ctx, id, types.AlertStatusResolved, &now)
}

// Dismiss marks an alert dismissed.
func (s *Service) Dismiss(ctx context.Context, id string) error {
	return s.alerts.UpdateStatus(ctx, id, types.AlertStatusDismissed, nil)
}

// History returns a user's alerts, newest first, with summary counts.
func (s *Service) History(ctx context.Context, userID string) (*types.AlertHistory, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", storage.ErrInvalidInput)
	}

	list, err := s.alerts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}

	history := &types.AlertHistory{
		UserID:      userID,
		Alerts:      list,
		TotalAlerts: len(list),
	}
	for _, alert := range list {
		if alert.Status == types.AlertStatusActive {
			history.ActiveAlerts++
		}
	}
	if len(list) > 0 {
		last := list[0].CreatedAt
		history.LastAlertTime = &last
	}
	return history, nil
}
