package types

import (
	"testing"
	"time"
)

func TestIsValidEmotionType(t *testing.T) {
	for _, emotion := range ValidEmotionTypes {
		if !IsValidEmotionType(emotion) {
			t.Errorf("%s should be valid", emotion)
		}
	}
	if IsValidEmotionType("content") {
		t.Error("'content' is not one of the 10 supported labels")
	}
	if IsValidEmotionType("") {
		t.Error("empty emotion type should be invalid")
	}
}

func TestIsValidInteractionType(t *testing.T) {
	if !IsValidInteractionType(InteractionChat) {
		t.Error("chat should be valid")
	}
	if IsValidInteractionType("poke") {
		t.Error("poke should be invalid")
	}
}

func TestIsValidBehaviorType(t *testing.T) {
	if !IsValidBehaviorType(BehaviorViewContent) {
		t.Error("view_content should be valid")
	}
	if IsValidBehaviorType("hover") {
		t.Error("hover should be invalid")
	}
}

func TestIsValidAlertLevelAndStatus(t *testing.T) {
	for _, level := range ValidAlertLevels {
		if !IsValidAlertLevel(level) {
			t.Errorf("%s should be valid", level)
		}
	}
	if IsValidAlertLevel("severe") {
		t.Error("severe should be invalid")
	}
	if !IsValidAlertStatus(AlertStatusDismissed) {
		t.Error("dismissed should be valid")
	}
	if IsValidAlertStatus("expired") {
		t.Error("alerts never expire; 'expired' should be invalid")
	}
}

func TestIsValidTrendPeriod(t *testing.T) {
	if !IsValidTrendPeriod(TrendDaily) || !IsValidTrendPeriod(TrendWeekly) || !IsValidTrendPeriod(TrendMonthly) {
		t.Error("daily, weekly and monthly should all be valid")
	}
	if IsValidTrendPeriod("hourly") {
		t.Error("hourly should be invalid")
	}
}

func TestNewProfile_Defaults(t *testing.T) {
	now := time.Now()
	p := NewProfile("user-1", now)

	if p.EmotionalStability != 0.5 {
		t.Errorf("fresh profile stability should be 0.5, got %f", p.EmotionalStability)
	}
	if p.CurrentEmotion != nil {
		t.Error("fresh profile should have no current emotion")
	}
	if len(p.History) != 0 {
		t.Error("fresh profile should have empty history")
	}
	if p.Personality.Openness != 0.5 || p.Personality.Neuroticism != 0.5 {
		t.Error("fresh profile traits should all be 0.5")
	}
	if p.Pattern.DailyPattern == nil || p.Pattern.Triggers == nil {
		t.Error("pattern maps should be allocated and empty")
	}
}

func TestInteractionTypeShare(t *testing.T) {
	// The share constant and the share stat must coexist as distinct names.
	stat := InteractionTypeShare{Interaction: InteractionShare, Share: 0.5}
	if stat.Interaction != InteractionType("share") {
		t.Errorf("unexpected interaction type %q", stat.Interaction)
	}
	if !IsValidInteractionType(stat.Interaction) {
		t.Error("share should be a valid interaction type")
	}
}

func TestNewBehaviorProfile_Defaults(t *testing.T) {
	p := NewBehaviorProfile("user-1", time.Now())
	if p.Insight.EngagementScore != 0 || p.Insight.RetentionScore != 0 {
		t.Error("fresh behavior profile scores should be 0")
	}
	if p.Pattern.DailyPattern == nil || p.Pattern.InteractionGraph == nil {
		t.Error("pattern maps should be allocated")
	}
}
