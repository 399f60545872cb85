// Package alerts evaluates threshold rules against emotional profiles and
// manages the lifecycle of the alerts they produce.
package alerts

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/halcyon-app/halcyon/internal/engine"
	"github.com/halcyon-app/halcyon/internal/rules"
	"github.com/halcyon-app/halcyon/internal/storage"
	"github.com/halcyon-app/halcyon/pkg/types"
)

// ruleHandler checks one rule against a profile. A nil alert with a nil
// error means the rule did not fire.
type ruleHandler func(ctx context.Context, profile *types.Profile, rule types.AlertRule, now time.Time) (*types.Alert, error)

// Evaluator runs the rule set against a profile. Evaluation is stateless:
// every check re-derives its evidence from the profile's history and the
// persisted stability snapshots, so the same state always produces the same
// verdict.
type Evaluator struct {
	store    storage.ProfileStore
	handlers map[string]ruleHandler
}

// NewEvaluator creates an evaluator. The profile store supplies the
// stability snapshot history for the baseline comparison rule.
func NewEvaluator(store storage.ProfileStore) *Evaluator {
	e := &Evaluator{store: store}
	e.handlers = map[string]ruleHandler{
		rules.RuleSustainedNegative: e.checkSustainedNegative,
		rules.RuleVolatility:        e.checkVolatility,
		rules.RuleStabilityDrop:     e.checkStabilityDrop,
	}
	return e
}

// Evaluate checks every enabled rule against the profile, in the order the
// rule set lists them. Rules with no registered handler are skipped. One
// evaluation may produce multiple alerts.
func (e *Evaluator) Evaluate(ctx context.Context, profile *types.Profile, ruleSet []types.AlertRule, now time.Time) ([]types.Alert, error) {
	var fired []types.Alert
	for _, rule := range ruleSet {
		if !rule.Enabled {
			continue
		}
		handler, ok := e.handlers[rule.ID]
		if !ok {
			continue
		}
		alert, err := handler(ctx, profile, rule, now)
		if err != nil {
			return nil, fmt.Errorf("rule %s evaluation failed: %w", rule.ID, err)
		}
		if alert != nil {
			fired = append(fired, *alert)
		}
	}
	return fired, nil
}

// checkSustainedNegative fires when the window holds at least
// consecutive_days negative records at or above the intensity threshold.
func (e *Evaluator) checkSustainedNegative(_ context.Context, profile *types.Profile, rule types.AlertRule, now time.Time) (*types.Alert, error) {
	days := rule.Conditions["consecutive_days"]
	threshold := rule.Conditions["negative_intensity_threshold"]
	if days <= 0 {
		return nil, nil
	}

	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)
	var total, sum float64
	var negatives int
	for _, record := range profile.History {
		if record.Timestamp.Before(cutoff) {
			continue
		}
		total++
		sum += record.Intensity
		if engine.IsNegativeEmotion(record.Emotion) && record.Intensity >= threshold {
			negatives++
		}
	}
	if float64(negatives) < days {
		return nil, nil
	}

	return &types.Alert{
		UserID:  profile.UserID,
		RuleID:  rule.ID,
		Level:   rule.Level,
		Message: fmt.Sprintf("Sustained intense negative emotions over the last %d days", int(days)),
		Details: map[string]interface{}{
			"negative_count":    negatives,
			"average_intensity": round2(sum / total),
		},
		CreatedAt: now,
		Status:    types.AlertStatusActive,
	}, nil
}

// checkVolatility fires when the intensity spread within the window reaches
// the volatility threshold. Needs at least two records to compare.
func (e *Evaluator) checkVolatility(_ context.Context, profile *types.Profile, rule types.AlertRule, now time.Time) (*types.Alert, error) {
	hours := rule.Conditions["time_window_hours"]
	threshold := rule.Conditions["emotion_volatility_threshold"]
	if hours <= 0 {
		return nil, nil
	}

	cutoff := now.Add(-time.Duration(hours * float64(time.Hour)))
	var min, max float64
	count := 0
	for _, record := range profile.History {
		if record.Timestamp.Before(cutoff) {
			continue
		}
		if count == 0 || record.Intensity < min {
			min = record.Intensity
		}
		if count == 0 || record.Intensity > max {
			max = record.Intensity
		}
		count++
	}
	if count < 2 || max-min < threshold {
		return nil, nil
	}

	return &types.Alert{
		UserID:  profile.UserID,
		RuleID:  rule.ID,
		Level:   rule.Level,
		Message: fmt.Sprintf("High emotional volatility within the last %d hours", int(hours)),
		Details: map[string]interface{}{
			"volatility":    round2(max - min),
			"max_intensity": max,
			"min_intensity": min,
		},
		CreatedAt: now,
		Status:    types.AlertStatusActive,
	}, nil
}

// checkStabilityDrop fires when current stability sits far below the mean of
// the persisted snapshots in the reference window. The newest snapshot is
// the one recorded for the current state, so it is left out of the baseline.
// No baseline means no verdict.
func (e *Evaluator) checkStabilityDrop(ctx context.Context, profile *types.Profile, rule types.AlertRule, now time.Time) (*types.Alert, error) {
	days := rule.Conditions["time_window_days"]
	threshold := rule.Conditions["stability_drop_threshold"]
	if days <= 0 {
		return nil, nil
	}

	since := now.Add(-time.Duration(days) * 24 * time.Hour)
	samples, err := e.store.StabilityHistory(ctx, profile.UserID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load stability history: %w", err)
	}
	if len(samples) < 2 {
		return nil, nil
	}
	samples = samples[:len(samples)-1]

	var sum float64
	for _, sample := range samples {
		sum += sample.Value
	}
	historical := sum / float64(len(samples))

	drop := historical - profile.EmotionalStability
	if drop < threshold {
		return nil, nil
	}

	return &types.Alert{
		UserID:  profile.UserID,
		RuleID:  rule.ID,
		Level:   rule.Level,
		Message: fmt.Sprintf("Emotional stability dropped sharply against the %d-day baseline", int(days)),
		Details: map[string]interface{}{
			"stability_drop":       round2(drop),
			"current_stability":    profile.EmotionalStability,
			"historical_stability": round2(historical),
		},
		CreatedAt: now,
		Status:    types.AlertStatusActive,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
