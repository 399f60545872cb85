package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/halcyon-app/halcyon/pkg/types"
)

// lowIntensityThreshold triggers the mood-improvement recommendation branch.
const lowIntensityThreshold = 0.3

// effectiveStrategyThreshold filters coping strategies worth recommending.
const effectiveStrategyThreshold = 0.7

// GenerateRecommendations produces the ranked recommendation list: at most 5,
// sorted by relevance score descending with a stable sort, drawing on the
// four generators plus the optional social and risk branches from context.
func GenerateRecommendations(profile *types.Profile, context map[string]interface{}, now time.Time) []types.Recommendation {
	var recs []types.Recommendation

	if profile.CurrentEmotion != nil && profile.CurrentEmotion.Intensity < lowIntensityThreshold {
		recs = append(recs, improvementRecommendations(profile)...)
	}

	recs = append(recs, interestRecommendations(profile)...)
	recs = append(recs, timingRecommendations(profile, now)...)

	if context != nil {
		if score, ok := context["social_score"].(float64); ok {
			recs = append(recs, socialRecommendations(score)...)
		}
		if level, ok := context["risk_level"].(string); ok {
			recs = append(recs, riskRecommendations(level)...)
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].RelevanceScore > recs[j].RelevanceScore
	})
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	if recs == nil {
		recs = []types.Recommendation{}
	}
	return recs
}

func improvementRecommendations(profile *types.Profile) []types.Recommendation {
	var recs []types.Recommendation

	for _, activity := range profile.Interests.Activities {
		score, ok := profile.Interests.Preferences[activity]
		if !ok {
			score = 0.5
		}
		recs = append(recs, types.Recommendation{
			Type:           "activity",
			Content:        fmt.Sprintf("Try %s to lift your mood", activity),
			Reason:         "Based on your interests",
			RelevanceScore: score,
			Context:        map[string]interface{}{"current_emotion": profile.CurrentEmotion},
		})
	}

	strategies := make([]string, 0, len(profile.Pattern.CopingStrategies))
	for strategy := range profile.Pattern.CopingStrategies {
		strategies = append(strategies, strategy)
	}
	sort.Strings(strategies)
	for _, strategy := range strategies {
		stat := profile.Pattern.CopingStrategies[strategy]
		if stat.Effectiveness <= effectiveStrategyThreshold {
			continue
		}
		recs = append(recs, types.Recommendation{
			Type:           "strategy",
			Content:        fmt.Sprintf("Use %s to regulate your emotions", strategy),
			Reason:         "Based on what has worked for you before",
			RelevanceScore: stat.Effectiveness,
			Context:        map[string]interface{}{"current_emotion": profile.CurrentEmotion},
		})
	}

	return recs
}

func interestRecommendations(profile *types.Profile) []types.Recommendation {
	var recs []types.Recommendation
	for _, topic := range profile.Interests.Topics {
		score, ok := profile.Interests.Preferences[topic]
		if !ok {
			score = 0.5
		}
		recs = append(recs, types.Recommendation{
			Type:           "content",
			Content:        fmt.Sprintf("Explore more %s content", topic),
			Reason:         "Based on your interests",
			RelevanceScore: score,
			Context:        map[string]interface{}{"interests": profile.Interests.Topics},
		})
	}
	return recs
}

// timingRecommendations suggests acting soon for every day period within two
// hours of now whose history carries strong positive emotion.
func timingRecommendations(profile *types.Profile, now time.Time) []types.Recommendation {
	var recs []types.Recommendation
	hour := now.Hour()
	for _, period := range dayPeriods {
		intensity, ok := profile.Pattern.DailyPattern[period+"_positive"]
		if !ok || intensity <= 0.7 {
			continue
		}
		if periodDistance(period, hour) >= 2 {
			continue
		}
		recs = append(recs, types.Recommendation{
			Type:           "timing",
			Content:        fmt.Sprintf("The %s is usually a good time for the activities you enjoy", period),
			Reason:         "Based on your daily pattern",
			RelevanceScore: intensity,
			Context:        map[string]interface{}{"period": period, "current_hour": hour},
		})
	}
	return recs
}

// periodDistance is the minimal circular distance in hours between the given
// hour and any hour belonging to the period. The current period has distance 0.
func periodDistance(period string, hour int) int {
	best := 24
	for h := 0; h < 24; h++ {
		if periodOf(h) != period {
			continue
		}
		d := hour - h
		if d < 0 {
			d = -d
		}
		if 24-d < d {
			d = 24 - d
		}
		if d < best {
			best = d
		}
	}
	return best
}

func socialRecommendations(score float64) []types.Recommendation {
	ctx := map[string]interface{}{"social_score": score}
	switch {
	case score < 0.3:
		return []types.Recommendation{
			{
				Type:           "social",
				Content:        "Reach out to a close friend for a real conversation",
				Reason:         "Strengthening close connections helps when social mood is low",
				RelevanceScore: 0.85,
				Context:        ctx,
			},
			{
				Type:           "social",
				Content:        "Join a small social activity and meet new people",
				Reason:         "A wider circle can provide new support",
				RelevanceScore: 0.75,
				Context:        ctx,
			},
		}
	case score < 0.6:
		return []types.Recommendation{{
			Type:           "social",
			Content:        "Keep in regular touch with friends and share how things are going",
			Reason:         "Staying connected maintains a healthy social mood",
			RelevanceScore: 0.8,
			Context:        ctx,
		}}
	default:
		return []types.Recommendation{{
			Type:           "social",
			Content:        "Consider organizing a get-together and sharing your positive energy",
			Reason:         "Sharing positive emotions strengthens connections",
			RelevanceScore: 0.75,
			Context:        ctx,
		}}
	}
}

func riskRecommendations(level string) []types.Recommendation {
	ctx := map[string]interface{}{"risk_level": level}
	switch level {
	case "high":
		return []types.Recommendation{
			{
				Type:           "risk",
				Content:        "Practice 10 minutes of deep-breathing meditation daily",
				Reason:         "Helps relieve elevated emotional pressure",
				RelevanceScore: 0.9,
				Context:        ctx,
			},
			{
				Type:           "risk",
				Content:        "Consider talking to a professional counselor about how you are feeling",
				Reason:         "Professional support helps with high-risk emotional states",
				RelevanceScore: 0.85,
				Context:        ctx,
			},
		}
	case "medium":
		return []types.Recommendation{{
			Type:           "risk",
			Content:        "Try 30 minutes of aerobic exercise, like a walk or light jog",
			Reason:         "Physical activity helps regulate emotions and reduce stress",
			RelevanceScore: 0.8,
			Context:        ctx,
		}}
	default:
		return []types.Recommendation{{
			Type:           "risk",
			Content:        "Keep up your current healthy routines and social habits",
			Reason:         "Maintaining your current good state",
			RelevanceScore: 0.7,
			Context:        ctx,
		}}
	}
}
