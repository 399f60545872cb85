package engine

import (
	"sort"
	"strings"

	"github.com/halcyon-app/halcyon/pkg/types"
)

// AnalyzeCopingStrategies finds negative records followed by another record
// within 24 hours, attributes a strategy to each such transition, and scores
// its effect: 1.0 when the follow-up leaves the negative set, the relative
// intensity drop when it stays negative but weaker, 0.0 otherwise.
func AnalyzeCopingStrategies(history []types.EmotionRecord) map[string]types.StrategyStat {
	result := map[string]types.StrategyStat{}
	if len(history) < 2 {
		return result
	}

	sorted := make([]types.EmotionRecord, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	effects := map[string][]float64{}
	for i := 0; i < len(sorted)-1; i++ {
		current, next := sorted[i], sorted[i+1]
		if !IsNegativeEmotion(current.Emotion) {
			continue
		}
		if next.Timestamp.Sub(current.Timestamp).Hours() > copingWindowHours {
			continue
		}

		strategy := current.Strategy
		if strategy == "" {
			strategy = strategyFromContext(current.Context)
		}
		if strategy == "" {
			continue
		}

		var effect float64
		switch {
		case !IsNegativeEmotion(next.Emotion):
			effect = 1.0
		case current.Intensity > next.Intensity:
			effect = (current.Intensity - next.Intensity) / current.Intensity
		default:
			effect = 0.0
		}
		effects[strategy] = append(effects[strategy], effect)
	}

	for strategy, values := range effects {
		result[strategy] = types.StrategyStat{
			Effectiveness: mean(values),
			Count:         len(values),
		}
	}
	return result
}

// strategyFromContext maps a context to the first strategy category whose
// keywords it mentions, in the fixed category order.
func strategyFromContext(context string) string {
	if context == "" {
		return ""
	}
	lower := strings.ToLower(context)
	for _, strategy := range strategyOrder {
		for _, keyword := range strategyKeywords[strategy] {
			if strings.Contains(lower, keyword) {
				return strategy
			}
		}
	}
	return ""
}
