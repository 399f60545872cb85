package engine

import (
	"math"
	"time"

	"github.com/halcyon-app/halcyon/internal/classify"
	"github.com/halcyon-app/halcyon/pkg/types"
)

// BuildFeatures assembles the 15-dimension prediction feature vector:
// sin/cos of the current hour, the last 5 record intensities (padded with
// 0.5 when the history is shorter), the 5 personality traits, and the three
// context scalars time_of_day, day_of_week and weather_score (default 0.5).
func BuildFeatures(profile *types.Profile, context map[string]float64, now time.Time) []float64 {
	features := make([]float64, 0, classify.FeatureDim)

	hour := float64(now.Hour())
	features = append(features,
		math.Sin(2*math.Pi*hour/24),
		math.Cos(2*math.Pi*hour/24),
	)

	recent := recentIntensities(profile.History)
	features = append(features, recent...)

	features = append(features,
		profile.Personality.Openness,
		profile.Personality.Conscientiousness,
		profile.Personality.Extraversion,
		profile.Personality.Agreeableness,
		profile.Personality.Neuroticism,
	)

	features = append(features,
		contextValue(context, "time_of_day"),
		contextValue(context, "day_of_week"),
		contextValue(context, "weather_score"),
	)

	return features
}

// recentIntensities returns exactly recentWindow values, newest last, padding
// the front with the neutral 0.5 for short histories.
func recentIntensities(history []types.EmotionRecord) []float64 {
	values := make([]float64, recentWindow)
	for i := range values {
		values[i] = 0.5
	}
	start := len(history) - recentWindow
	if start < 0 {
		start = 0
	}
	tail := history[start:]
	offset := recentWindow - len(tail)
	for i, r := range tail {
		values[offset+i] = r.Intensity
	}
	return values
}

func contextValue(context map[string]float64, key string) float64 {
	if context == nil {
		return 0.5
	}
	if v, ok := context[key]; ok {
		return v
	}
	return 0.5
}

// RecentEmotions returns the labels of the last recentWindow records, newest
// last.
func RecentEmotions(history []types.EmotionRecord) []types.EmotionType {
	start := len(history) - recentWindow
	if start < 0 {
		start = 0
	}
	labels := make([]types.EmotionType, 0, recentWindow)
	for _, r := range history[start:] {
		labels = append(labels, r.Emotion)
	}
	return labels
}

// PredictionFactors returns the grouped factor weights explaining a
// prediction, normalized to sum to 1 and rounded to two decimals. When the
// classifier reports its own importances for a group, they replace the
// default weight for that group.
func PredictionFactors(importances map[string]float64) map[string]float64 {
	raw := map[string]float64{
		"time_of_day":     0.2,
		"recent_emotions": 0.3,
		"personality":     0.2,
		"context":         0.3,
	}
	for group := range raw {
		if v, ok := importances[group]; ok && v > 0 {
			raw[group] = v
		}
	}

	var total float64
	for _, v := range raw {
		total += v
	}
	factors := make(map[string]float64, len(raw))
	for k, v := range raw {
		factors[k] = round2(v / total)
	}
	return factors
}
