package engine

import (
	"github.com/halcyon-app/halcyon/pkg/types"
)

// dayPeriod names the four daily buckets in their canonical order.
var dayPeriods = []string{"morning", "afternoon", "evening", "night"}

// periodOf maps an hour of day to its bucket. Night wraps around midnight:
// 23:00 through 04:59.
func periodOf(hour int) string {
	switch {
	case hour >= 5 && hour <= 11:
		return "morning"
	case hour >= 12 && hour <= 17:
		return "afternoon"
	case hour >= 18 && hour <= 22:
		return "evening"
	default:
		return "night"
	}
}

// weekdayNames is indexed Monday=0 through Sunday=6.
var weekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// mondayIndexed converts time.Weekday (Sunday=0) to a Monday=0 index.
func mondayIndexed(wd int) int {
	return (wd + 6) % 7
}

// AnalyzeDailyPattern buckets the history into the four day periods and
// computes, per period, the mean intensity of positive and negative records
// plus the dominant emotion. Periods with no records of a kind simply have no
// entry.
func AnalyzeDailyPattern(history []types.EmotionRecord) (map[string]float64, map[string]types.EmotionType) {
	pattern := map[string]float64{}
	dominant := map[string]types.EmotionType{}
	if len(history) == 0 {
		return pattern, dominant
	}

	byPeriod := map[string][]types.EmotionRecord{}
	for _, r := range history {
		p := periodOf(r.Timestamp.Hour())
		byPeriod[p] = append(byPeriod[p], r)
	}

	for _, period := range dayPeriods {
		records := byPeriod[period]
		if len(records) == 0 {
			continue
		}

		var posSum, negSum float64
		var posN, negN int
		for _, r := range records {
			if IsPositiveEmotion(r.Emotion) {
				posSum += r.Intensity
				posN++
			} else if IsNegativeEmotion(r.Emotion) {
				negSum += r.Intensity
				negN++
			}
		}
		if posN > 0 {
			pattern[period+"_positive"] = posSum / float64(posN)
		}
		if negN > 0 {
			pattern[period+"_negative"] = negSum / float64(negN)
		}

		dominant[period] = dominantEmotion(records)
	}

	return pattern, dominant
}

// AnalyzeWeeklyPattern computes per-weekday mean intensity, stability and
// dominant-emotion frequency, plus the best and worst day by mean intensity.
// Days without records count as 0 intensity for the best/worst comparison;
// ties resolve to the earlier day in Monday-first order.
func AnalyzeWeeklyPattern(history []types.EmotionRecord) (map[string]float64, map[string]types.EmotionType, string, string) {
	pattern := map[string]float64{}
	dominant := map[string]types.EmotionType{}
	if len(history) == 0 {
		return pattern, dominant, "", ""
	}

	byDay := map[string][]types.EmotionRecord{}
	for _, r := range history {
		day := weekdayNames[mondayIndexed(int(r.Timestamp.Weekday()))]
		byDay[day] = append(byDay[day], r)
	}

	for _, day := range weekdayNames {
		records := byDay[day]
		if len(records) == 0 {
			continue
		}

		intensities := make([]float64, len(records))
		for i, r := range records {
			intensities[i] = r.Intensity
		}
		pattern[day+"_intensity"] = mean(intensities)
		if len(records) > 1 {
			sd := stddev(intensities)
			if sd > 1 {
				sd = 1
			}
			pattern[day+"_stability"] = 1 - sd
		}

		top := dominantEmotion(records)
		count := 0
		for _, r := range records {
			if r.Emotion == top {
				count++
			}
		}
		dominant[day] = top
		pattern[day+"_dominant_frequency"] = float64(count) / float64(len(records))
	}

	bestDay, worstDay := weekdayNames[0], weekdayNames[0]
	bestVal, worstVal := pattern[weekdayNames[0]+"_intensity"], pattern[weekdayNames[0]+"_intensity"]
	for _, day := range weekdayNames[1:] {
		v := pattern[day+"_intensity"]
		if v > bestVal {
			bestDay, bestVal = day, v
		}
		if v < worstVal {
			worstDay, worstVal = day, v
		}
	}

	return pattern, dominant, bestDay, worstDay
}

// dominantEmotion returns the most frequent emotion, breaking ties in favour
// of the label that reached the maximum count first.
func dominantEmotion(records []types.EmotionRecord) types.EmotionType {
	counts := map[types.EmotionType]int{}
	best := records[0].Emotion
	for _, r := range records {
		counts[r.Emotion]++
		if counts[r.Emotion] > counts[best] {
			best = r.Emotion
		}
	}
	return best
}
