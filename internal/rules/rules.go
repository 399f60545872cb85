// Package rules holds the alert rule set: the built-in defaults, optional
// YAML file overrides, and hot reload of the override file.
package rules

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/halcyon-app/halcyon/pkg/types"
)

// Built-in rule IDs. The evaluator dispatches on these.
const (
	RuleSustainedNegative = "rule_1"
	RuleVolatility        = "rule_2"
	RuleStabilityDrop     = "rule_3"
)

// DefaultRules returns the built-in rule set.
func DefaultRules() []types.AlertRule {
	return []types.AlertRule{
		{
			ID:          RuleSustainedNegative,
			Name:        "sustained_negative",
			Description: "Sustained negative emotional state over consecutive days",
			Conditions: map[string]float64{
				"negative_intensity_threshold": 0.7,
				"consecutive_days":             3,
			},
			Level:   types.AlertLevelHigh,
			Enabled: true,
		},
		{
			ID:          RuleVolatility,
			Name:        "emotion_volatility",
			Description: "Large intensity swings within a short window",
			Conditions: map[string]float64{
				"emotion_volatility_threshold": 0.8,
				"time_window_hours":            24,
			},
			Level:   types.AlertLevelMedium,
			Enabled: true,
		},
		{
			ID:          RuleStabilityDrop,
			Name:        "stability_drop",
			Description: "Emotional stability dropping against the recent baseline",
			Conditions: map[string]float64{
				"stability_drop_threshold": 0.3,
				"time_window_days":         7,
			},
			Level:   types.AlertLevelMedium,
			Enabled: true,
		},
	}
}

// ruleFile is the YAML override document shape.
type ruleFile struct {
	Rules []types.AlertRule `yaml:"rules"`
}

// LoadFile parses an alert rule file. Every rule must carry an ID and a
// valid level.
func LoadFile(path string) ([]types.AlertRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var doc ruleFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s defines no rules", path)
	}
	for i, rule := range doc.Rules {
		if rule.ID == "" {
			return nil, fmt.Errorf("rule %d has no id", i)
		}
		if !types.IsValidAlertLevel(rule.Level) {
			return nil, fmt.Errorf("rule %s has unknown level %q", rule.ID, rule.Level)
		}
	}
	return doc.Rules, nil
}

// Set is the live rule set. Reads take a snapshot so evaluation never sees a
// half-applied reload.
type Set struct {
	mu    sync.RWMutex
	rules []types.AlertRule
}

// NewSet creates a rule set seeded with the given rules.
func NewSet(rules []types.AlertRule) *Set {
	s := &Set{}
	s.Replace(rules)
	return s
}

// Replace swaps in a new rule set.
func (s *Set) Replace(rules []types.AlertRule) {
	clone := append([]types.AlertRule(nil), rules...)
	s.mu.Lock()
	s.rules = clone
	s.mu.Unlock()
}

// Snapshot returns a copy of the current rules.
func (s *Set) Snapshot() []types.AlertRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.AlertRule(nil), s.rules...)
}
