package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/halcyon-app/halcyon/pkg/types"
)

type activityStat struct {
	category     string
	count        int
	intensitySum float64
	emotions     map[types.EmotionType]int
}

// AnalyzeInterests extracts activity mentions from record contexts and scores
// each retained activity by 0.4*frequency + 0.6*mean intensity. Activities
// mentioned fewer than twice are dropped. Topics are the categories of the
// retained activities.
func AnalyzeInterests(history []types.EmotionRecord, now time.Time) types.Interests {
	interests := types.Interests{
		Activities:         []string{},
		Topics:             []string{},
		Preferences:        map[string]float64{},
		EmotionalResponses: map[string]types.EmotionType{},
		LastUpdated:        now,
	}
	if len(history) == 0 {
		return interests
	}

	found := map[string]*activityStat{}
	for _, r := range history {
		if r.Context == "" {
			continue
		}
		lower := strings.ToLower(r.Context)
		for category, activities := range interestCategories {
			for _, activity := range activities {
				if !strings.Contains(lower, activity) {
					continue
				}
				stat := found[activity]
				if stat == nil {
					stat = &activityStat{category: category, emotions: map[types.EmotionType]int{}}
					found[activity] = stat
				}
				stat.count++
				stat.intensitySum += r.Intensity
				stat.emotions[r.Emotion]++
			}
		}
	}

	topics := map[string]bool{}
	for activity, stat := range found {
		if stat.count < interestMinOccurrences {
			continue
		}

		frequency := float64(stat.count) / float64(len(history))
		avgIntensity := stat.intensitySum / float64(stat.count)

		interests.Activities = append(interests.Activities, activity)
		interests.Preferences[activity] = round2(frequency*0.4 + avgIntensity*0.6)
		interests.EmotionalResponses[activity] = topEmotion(stat.emotions)
		topics[stat.category] = true
	}

	sort.Strings(interests.Activities)
	for topic := range topics {
		interests.Topics = append(interests.Topics, topic)
	}
	sort.Strings(interests.Topics)

	return interests
}

// topEmotion returns the most frequent emotion, with alphabetical order
// breaking ties so the result is deterministic.
func topEmotion(counts map[types.EmotionType]int) types.EmotionType {
	labels := make([]types.EmotionType, 0, len(counts))
	for e := range counts {
		labels = append(labels, e)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	best := labels[0]
	for _, e := range labels[1:] {
		if counts[e] > counts[best] {
			best = e
		}
	}
	return best
}
