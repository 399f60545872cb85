package engine

import (
	"regexp"
	"sort"
	"strings"

	"github.com/halcyon-app/halcyon/pkg/types"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// AnalyzeTriggers extracts the most common context keywords and the emotion
// statistics associated with each. At most maxTriggers keywords are kept,
// ordered by frequency with first appearance breaking ties.
func AnalyzeTriggers(history []types.EmotionRecord) map[string]types.TriggerStat {
	result := map[string]types.TriggerStat{}
	if len(history) == 0 {
		return result
	}

	counts := map[string]int{}
	firstSeen := map[string]int{}
	order := 0
	for _, r := range history {
		if r.Context == "" {
			continue
		}
		for _, word := range tokenPattern.FindAllString(strings.ToLower(r.Context), -1) {
			if len(word) < 2 || stopWords[word] {
				continue
			}
			if _, seen := counts[word]; !seen {
				firstSeen[word] = order
				order++
			}
			counts[word]++
		}
	}
	if len(counts) == 0 {
		return result
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return firstSeen[words[i]] < firstSeen[words[j]]
	})
	if len(words) > maxTriggers {
		words = words[:maxTriggers]
	}

	for _, trigger := range words {
		var matching []types.EmotionRecord
		for _, r := range history {
			if r.Context != "" && strings.Contains(strings.ToLower(r.Context), trigger) {
				matching = append(matching, r)
			}
		}
		if len(matching) == 0 {
			continue
		}

		primary := dominantEmotion(matching)
		primaryCount := 0
		var intensitySum float64
		for _, r := range matching {
			if r.Emotion == primary {
				primaryCount++
			}
			intensitySum += r.Intensity
		}

		result[trigger] = types.TriggerStat{
			Frequency:           float64(len(matching)) / float64(len(history)),
			PrimaryEmotion:      primary,
			PrimaryEmotionShare: float64(primaryCount) / float64(len(matching)),
			AvgIntensity:        intensitySum / float64(len(matching)),
		}
	}

	return result
}
