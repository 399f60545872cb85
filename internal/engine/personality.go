package engine

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/halcyon-app/halcyon/pkg/types"
)

// AnalyzePersonality estimates the five trait scores from the record history.
// Fewer than 5 records keeps every trait at the neutral 0.5. Each estimate is
// scaled into [0.1, 0.9] and rounded to two decimals.
func AnalyzePersonality(history []types.EmotionRecord, now time.Time) types.Personality {
	if len(history) < personalityMinRecords {
		return types.DefaultPersonality(now)
	}

	total := float64(len(history))

	counts := map[types.EmotionType]int{}
	intensities := make([]float64, len(history))
	negativeCount := 0
	for i, r := range history {
		counts[r.Emotion]++
		intensities[i] = r.Intensity
		if IsNegativeEmotion(r.Emotion) {
			negativeCount++
		}
	}

	// Change rate over the chronologically sorted history.
	sorted := make([]types.EmotionRecord, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	changes := 0
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].Emotion != sorted[i+1].Emotion {
			changes++
		}
	}
	changeRate := float64(changes) / float64(len(sorted)-1)

	sd := stddev(intensities)
	negativeRatio := float64(negativeCount) / total
	positiveRatio := 1 - negativeRatio
	angerRatio := float64(counts[types.EmotionAngry]) / total

	// Mean intensity in social contexts, neutral 0.5 when none exist.
	var socialSum float64
	socialN := 0
	for _, r := range history {
		if r.Context == "" {
			continue
		}
		lower := strings.ToLower(r.Context)
		for _, keyword := range socialContextKeywords {
			if strings.Contains(lower, keyword) {
				socialSum += r.Intensity
				socialN++
				break
			}
		}
	}
	socialIntensity := 0.5
	if socialN > 0 {
		socialIntensity = socialSum / float64(socialN)
	}

	variety := float64(len(counts)) / 8
	stability := 1 - sd

	openness := (changeRate*0.5+variety*0.5)*0.8 + 0.1
	conscientiousness := (stability*0.7+positiveRatio*0.3)*0.8 + 0.1
	extraversion := (socialIntensity*0.6+positiveRatio*0.4)*0.8 + 0.1
	agreeableness := ((1-angerRatio*3)*0.5+positiveRatio*0.5)*0.8 + 0.1
	agreeableness = math.Max(0.1, math.Min(0.9, agreeableness))
	neuroticism := (negativeRatio*0.6+sd*0.4)*0.8 + 0.1

	return types.Personality{
		Openness:          round2(openness),
		Conscientiousness: round2(conscientiousness),
		Extraversion:      round2(extraversion),
		Agreeableness:     round2(agreeableness),
		Neuroticism:       round2(neuroticism),
		LastUpdated:       now,
	}
}
