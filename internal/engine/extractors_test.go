package engine

import (
	"math"
	"testing"
	"time"

	"github.com/halcyon-app/halcyon/pkg/types"
)

var baseTime = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) // a Monday

func record(emotion types.EmotionType, intensity float64, at time.Time) types.EmotionRecord {
	return types.EmotionRecord{
		ID:        "r-" + at.Format("20060102150405"),
		UserID:    "user-1",
		Emotion:   emotion,
		Intensity: intensity,
		Timestamp: at,
	}
}

func TestComputeStability_Empty(t *testing.T) {
	if got := ComputeStability(nil); got != 0.5 {
		t.Errorf("empty history should yield 0.5, got %f", got)
	}
}

func TestComputeStability_Constant(t *testing.T) {
	history := []types.EmotionRecord{
		record(types.EmotionCalm, 0.6, baseTime),
		record(types.EmotionCalm, 0.6, baseTime.Add(time.Hour)),
	}
	if got := ComputeStability(history); got != 1.0 {
		t.Errorf("constant intensity should yield 1.0, got %f", got)
	}
}

func TestComputeStability_Volatile(t *testing.T) {
	history := []types.EmotionRecord{
		record(types.EmotionHappy, 0.0, baseTime),
		record(types.EmotionSad, 1.0, baseTime.Add(time.Hour)),
	}
	if got := ComputeStability(history); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("alternating 0/1 should yield 0.5, got %f", got)
	}
}

func TestComputeStability_UsesLast30Only(t *testing.T) {
	history := []types.EmotionRecord{record(types.EmotionAngry, 1.0, baseTime)}
	for i := 1; i <= 30; i++ {
		history = append(history, record(types.EmotionCalm, 0.2, baseTime.Add(time.Duration(i)*time.Hour)))
	}
	// Accumulated floating point error leaves a vanishing stddev, so compare
	// with a tolerance rather than exact equality.
	if got := ComputeStability(history); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("the outlier outside the 30-record window should be ignored, got %f", got)
	}
}

func TestAnalyzeDailyPattern_NightWrapsMidnight(t *testing.T) {
	history := []types.EmotionRecord{
		record(types.EmotionHappy, 0.8, time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC)),
		record(types.EmotionSad, 0.6, time.Date(2026, 3, 3, 3, 0, 0, 0, time.UTC)),
	}

	pattern, dominant := AnalyzeDailyPattern(history)
	if pattern["night_positive"] != 0.8 {
		t.Errorf("night_positive should be 0.8, got %f", pattern["night_positive"])
	}
	if pattern["night_negative"] != 0.6 {
		t.Errorf("night_negative should be 0.6, got %f", pattern["night_negative"])
	}
	if dominant["night"] != types.EmotionHappy {
		t.Errorf("night dominant tie should keep the first label, got %s", dominant["night"])
	}
	if _, ok := pattern["morning_positive"]; ok {
		t.Error("empty periods should have no entries")
	}
}

func TestAnalyzeDailyPattern_NeutralCountsNeitherSide(t *testing.T) {
	history := []types.EmotionRecord{
		record(types.EmotionNeutral, 0.9, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)),
	}
	pattern, dominant := AnalyzeDailyPattern(history)
	if len(pattern) != 0 {
		t.Errorf("neutral-only period should produce no intensity keys, got %v", pattern)
	}
	if dominant["morning"] != types.EmotionNeutral {
		t.Errorf("dominant should still be reported, got %s", dominant["morning"])
	}
}

func TestAnalyzeWeeklyPattern(t *testing.T) {
	monday := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	wednesday := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	history := []types.EmotionRecord{
		record(types.EmotionHappy, 0.9, monday),
		record(types.EmotionSad, 0.2, wednesday),
		record(types.EmotionSad, 0.4, wednesday.Add(2*time.Hour)),
	}

	pattern, dominant, best, worst := AnalyzeWeeklyPattern(history)

	if pattern["monday_intensity"] != 0.9 {
		t.Errorf("monday_intensity should be 0.9, got %f", pattern["monday_intensity"])
	}
	if math.Abs(pattern["wednesday_intensity"]-0.3) > 1e-9 {
		t.Errorf("wednesday_intensity should be 0.3, got %f", pattern["wednesday_intensity"])
	}
	if math.Abs(pattern["wednesday_stability"]-0.9) > 1e-9 {
		t.Errorf("wednesday_stability should be 0.9, got %f", pattern["wednesday_stability"])
	}
	if _, ok := pattern["monday_stability"]; ok {
		t.Error("single-record days have no stability entry")
	}
	if pattern["wednesday_dominant_frequency"] != 1.0 {
		t.Errorf("wednesday dominant frequency should be 1.0, got %f", pattern["wednesday_dominant_frequency"])
	}
	if dominant["wednesday"] != types.EmotionSad {
		t.Errorf("wednesday dominant should be sad, got %s", dominant["wednesday"])
	}
	if best != "monday" {
		t.Errorf("best day should be monday, got %s", best)
	}
	// Days without records count as 0, so the first empty day wins worst.
	if worst != "tuesday" {
		t.Errorf("worst day should be tuesday, got %s", worst)
	}
}

func TestAnalyzeTriggers(t *testing.T) {
	history := []types.EmotionRecord{
		{UserID: "u", Emotion: types.EmotionAnxious, Intensity: 0.8, Timestamp: baseTime, Context: "Work deadline pressure"},
		{UserID: "u", Emotion: types.EmotionAnxious, Intensity: 0.6, Timestamp: baseTime.Add(time.Hour), Context: "work deadline again"},
		{UserID: "u", Emotion: types.EmotionHappy, Intensity: 0.9, Timestamp: baseTime.Add(2 * time.Hour), Context: "vacation planning"},
	}

	triggers := AnalyzeTriggers(history)

	work, ok := triggers["work"]
	if !ok {
		t.Fatalf("expected 'work' trigger, got %v", triggers)
	}
	if math.Abs(work.Frequency-2.0/3.0) > 1e-9 {
		t.Errorf("work frequency should be 2/3, got %f", work.Frequency)
	}
	if work.PrimaryEmotion != types.EmotionAnxious {
		t.Errorf("work primary emotion should be anxious, got %s", work.PrimaryEmotion)
	}
	if work.PrimaryEmotionShare != 1.0 {
		t.Errorf("work primary emotion share should be 1.0, got %f", work.PrimaryEmotionShare)
	}
	if math.Abs(work.AvgIntensity-0.7) > 1e-9 {
		t.Errorf("work avg intensity should be 0.7, got %f", work.AvgIntensity)
	}

	if _, ok := triggers["again"]; !ok {
		t.Error("'again' should be a trigger token")
	}
}

func TestAnalyzeTriggers_FiltersStopWordsAndShortTokens(t *testing.T) {
	history := []types.EmotionRecord{
		{UserID: "u", Emotion: types.EmotionSad, Intensity: 0.5, Timestamp: baseTime, Context: "I felt very bad at the office"},
	}
	triggers := AnalyzeTriggers(history)
	for _, banned := range []string{"felt", "very", "the", "at", "i"} {
		if _, ok := triggers[banned]; ok {
			t.Errorf("token %q should be filtered", banned)
		}
	}
	if _, ok := triggers["office"]; !ok {
		t.Error("'office' should survive filtering")
	}
}

func TestAnalyzeCopingStrategies(t *testing.T) {
	history := []types.EmotionRecord{
		{UserID: "u", Emotion: types.EmotionSad, Intensity: 0.8, Timestamp: baseTime, Context: "went running in the park"},
		{UserID: "u", Emotion: types.EmotionHappy, Intensity: 0.6, Timestamp: baseTime.Add(2 * time.Hour)},
		{UserID: "u", Emotion: types.EmotionSad, Intensity: 0.8, Timestamp: baseTime.Add(4 * time.Hour), Strategy: "relaxation"},
		{UserID: "u", Emotion: types.EmotionSad, Intensity: 0.4, Timestamp: baseTime.Add(6 * time.Hour), Strategy: "relaxation"},
	}

	strategies := AnalyzeCopingStrategies(history)

	exercise, ok := strategies["exercise"]
	if !ok {
		t.Fatalf("expected exercise strategy from context keywords, got %v", strategies)
	}
	if exercise.Effectiveness != 1.0 || exercise.Count != 1 {
		t.Errorf("leaving the negative set should score 1.0, got %+v", exercise)
	}

	relaxation, ok := strategies["relaxation"]
	if !ok {
		t.Fatalf("expected relaxation strategy from explicit field, got %v", strategies)
	}
	if math.Abs(relaxation.Effectiveness-0.5) > 1e-9 {
		t.Errorf("intensity drop 0.8->0.4 should score 0.5, got %f", relaxation.Effectiveness)
	}
}

func TestAnalyzeCopingStrategies_IgnoresGapsOver24h(t *testing.T) {
	history := []types.EmotionRecord{
		{UserID: "u", Emotion: types.EmotionSad, Intensity: 0.8, Timestamp: baseTime, Strategy: "relaxation"},
		{UserID: "u", Emotion: types.EmotionHappy, Intensity: 0.9, Timestamp: baseTime.Add(25 * time.Hour)},
	}
	if strategies := AnalyzeCopingStrategies(history); len(strategies) != 0 {
		t.Errorf("transitions beyond 24h should be ignored, got %v", strategies)
	}
}

func TestAnalyzePersonality_TooFewRecords(t *testing.T) {
	history := []types.EmotionRecord{
		record(types.EmotionHappy, 0.8, baseTime),
		record(types.EmotionSad, 0.2, baseTime.Add(time.Hour)),
	}
	p := AnalyzePersonality(history, baseTime)
	if p.Openness != 0.5 || p.Neuroticism != 0.5 || p.Agreeableness != 0.5 {
		t.Errorf("fewer than 5 records should keep neutral traits, got %+v", p)
	}
}

func TestAnalyzePersonality_Formulas(t *testing.T) {
	history := []types.EmotionRecord{
		record(types.EmotionHappy, 0.8, baseTime),
		record(types.EmotionHappy, 0.8, baseTime.Add(1*time.Hour)),
		record(types.EmotionSad, 0.4, baseTime.Add(2*time.Hour)),
		record(types.EmotionHappy, 0.8, baseTime.Add(3*time.Hour)),
		record(types.EmotionHappy, 0.8, baseTime.Add(4*time.Hour)),
	}

	p := AnalyzePersonality(history, baseTime)

	// change rate 0.5, variety 2/8: (0.5*0.5 + 0.25*0.5)*0.8 + 0.1 = 0.4
	if p.Openness != 0.4 {
		t.Errorf("openness should be 0.40, got %f", p.Openness)
	}
	// stddev 0.16, stability 0.84, positive ratio 0.8: 0.828*0.8 + 0.1 = 0.76
	if p.Conscientiousness != 0.76 {
		t.Errorf("conscientiousness should be 0.76, got %f", p.Conscientiousness)
	}
	// no social contexts so social intensity defaults to 0.5: 0.62*0.8 + 0.1 = 0.6
	if p.Extraversion != 0.6 {
		t.Errorf("extraversion should be 0.60, got %f", p.Extraversion)
	}
	// no anger: 0.9*0.8 + 0.1 = 0.82
	if p.Agreeableness != 0.82 {
		t.Errorf("agreeableness should be 0.82, got %f", p.Agreeableness)
	}
	// negative ratio 0.2, stddev 0.16: 0.184*0.8 + 0.1 = 0.25
	if p.Neuroticism != 0.25 {
		t.Errorf("neuroticism should be 0.25, got %f", p.Neuroticism)
	}
}

func TestAnalyzePersonality_AgreeablenessClamped(t *testing.T) {
	history := make([]types.EmotionRecord, 0, 6)
	for i := 0; i < 6; i++ {
		history = append(history, record(types.EmotionAngry, 0.9, baseTime.Add(time.Duration(i)*time.Hour)))
	}
	p := AnalyzePersonality(history, baseTime)
	if p.Agreeableness != 0.1 {
		t.Errorf("all-anger history should clamp agreeableness to 0.1, got %f", p.Agreeableness)
	}
}

func TestAnalyzeInterests(t *testing.T) {
	history := []types.EmotionRecord{
		{UserID: "u", Emotion: types.EmotionHappy, Intensity: 0.8, Timestamp: baseTime, Context: "went running today"},
		{UserID: "u", Emotion: types.EmotionHappy, Intensity: 0.6, Timestamp: baseTime.Add(time.Hour), Context: "morning running session"},
		{UserID: "u", Emotion: types.EmotionCalm, Intensity: 0.5, Timestamp: baseTime.Add(2 * time.Hour), Context: "some reading"},
	}

	interests := AnalyzeInterests(history, baseTime)

	if len(interests.Activities) != 1 || interests.Activities[0] != "running" {
		t.Fatalf("only 'running' appears twice, got %v", interests.Activities)
	}
	// preference = 0.4*(2/3) + 0.6*0.7 = 0.6867 -> 0.69
	if interests.Preferences["running"] != 0.69 {
		t.Errorf("running preference should be 0.69, got %f", interests.Preferences["running"])
	}
	if interests.EmotionalResponses["running"] != types.EmotionHappy {
		t.Errorf("running response should be happy, got %s", interests.EmotionalResponses["running"])
	}
	if len(interests.Topics) != 1 || interests.Topics[0] != "sports" {
		t.Errorf("topics should be the retained categories, got %v", interests.Topics)
	}
}

func TestAnalyzeInterests_Empty(t *testing.T) {
	interests := AnalyzeInterests(nil, baseTime)
	if interests.Activities == nil || interests.Preferences == nil {
		t.Error("empty history should still allocate slices and maps")
	}
}

func TestBuildFeatures(t *testing.T) {
	profile := types.NewProfile("user-1", baseTime)
	features := BuildFeatures(profile, nil, baseTime)

	if len(features) != 15 {
		t.Fatalf("expected 15 features, got %d", len(features))
	}
	// 12:00 -> sin(pi) ~ 0, cos(pi) = -1
	if math.Abs(features[0]) > 1e-9 || math.Abs(features[1]+1) > 1e-9 {
		t.Errorf("hour features wrong: sin=%f cos=%f", features[0], features[1])
	}
	for i := 2; i < 15; i++ {
		if features[i] != 0.5 {
			t.Errorf("feature %d should default to 0.5, got %f", i, features[i])
		}
	}
}

func TestBuildFeatures_RecentPaddingAndContext(t *testing.T) {
	profile := types.NewProfile("user-1", baseTime)
	profile.History = []types.EmotionRecord{
		record(types.EmotionHappy, 0.9, baseTime),
		record(types.EmotionSad, 0.1, baseTime.Add(time.Hour)),
	}
	features := BuildFeatures(profile, map[string]float64{"weather_score": 0.8}, baseTime)

	// Three pad slots, then the two real intensities newest last.
	if features[2] != 0.5 || features[3] != 0.5 || features[4] != 0.5 {
		t.Error("short history should pad the front with 0.5")
	}
	if features[5] != 0.9 || features[6] != 0.1 {
		t.Errorf("recent intensities wrong: %v", features[2:7])
	}
	if features[14] != 0.8 {
		t.Errorf("weather_score should pass through, got %f", features[14])
	}
	if features[12] != 0.5 || features[13] != 0.5 {
		t.Error("missing context keys should default to 0.5")
	}
}

func TestPredictionFactors(t *testing.T) {
	factors := PredictionFactors(nil)
	var sum float64
	for _, v := range factors {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("factors should sum to 1, got %f", sum)
	}
	if factors["recent_emotions"] != 0.3 || factors["time_of_day"] != 0.2 {
		t.Errorf("unexpected factor weights: %v", factors)
	}
}

func TestPredictionFactors_ClassifierImportances(t *testing.T) {
	factors := PredictionFactors(map[string]float64{
		"time_of_day":     1.0,
		"recent_emotions": 1.0,
		"personality":     1.0,
		"context":         1.0,
		"unknown_group":   5.0,
	})
	for _, group := range []string{"time_of_day", "recent_emotions", "personality", "context"} {
		if factors[group] != 0.25 {
			t.Errorf("%s should normalize to 0.25, got %f", group, factors[group])
		}
	}
	if _, ok := factors["unknown_group"]; ok {
		t.Error("unknown importance groups must be ignored")
	}

	// Zero and negative importances fall back to the default weight.
	factors = PredictionFactors(map[string]float64{"context": 0})
	if factors["context"] != 0.3 {
		t.Errorf("zero importance should keep the default 0.3, got %f", factors["context"])
	}
}

func TestGenerateRecommendations_RankingAndCap(t *testing.T) {
	profile := types.NewProfile("user-1", baseTime)
	current := record(types.EmotionSad, 0.2, baseTime)
	profile.CurrentEmotion = &current
	profile.Interests.Activities = []string{"running"}
	profile.Interests.Preferences = map[string]float64{"running": 0.9}
	profile.Interests.Topics = []string{"sports"}
	profile.Pattern.CopingStrategies = map[string]types.StrategyStat{
		"exercise": {Effectiveness: 0.8, Count: 3},
	}

	recs := GenerateRecommendations(profile, map[string]interface{}{
		"social_score": 0.2,
		"risk_level":   "high",
	}, baseTime)

	if len(recs) != 5 {
		t.Fatalf("expected 5 recommendations, got %d", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].RelevanceScore > recs[i-1].RelevanceScore {
			t.Fatal("recommendations must be sorted by relevance descending")
		}
	}
	if recs[0].Type != "activity" || recs[0].RelevanceScore != 0.9 {
		t.Errorf("top recommendation should be the 0.9 activity, got %+v", recs[0])
	}
}

func TestGenerateRecommendations_SocialTiers(t *testing.T) {
	profile := types.NewProfile("user-1", baseTime)

	low := GenerateRecommendations(profile, map[string]interface{}{"social_score": 0.1}, baseTime)
	if len(low) != 2 || low[0].RelevanceScore != 0.85 || low[1].RelevanceScore != 0.75 {
		t.Errorf("low social tier should yield 0.85 and 0.75, got %+v", low)
	}

	mid := GenerateRecommendations(profile, map[string]interface{}{"social_score": 0.5}, baseTime)
	if len(mid) != 1 || mid[0].RelevanceScore != 0.8 {
		t.Errorf("mid social tier should yield one 0.8 recommendation, got %+v", mid)
	}

	high := GenerateRecommendations(profile, map[string]interface{}{"social_score": 0.9}, baseTime)
	if len(high) != 1 || high[0].RelevanceScore != 0.75 {
		t.Errorf("high social tier should yield one 0.75 recommendation, got %+v", high)
	}
}

func TestGenerateRecommendations_RiskTiers(t *testing.T) {
	profile := types.NewProfile("user-1", baseTime)

	high := GenerateRecommendations(profile, map[string]interface{}{"risk_level": "high"}, baseTime)
	if len(high) != 2 || high[0].RelevanceScore != 0.9 || high[1].RelevanceScore != 0.85 {
		t.Errorf("high risk should yield 0.9 and 0.85, got %+v", high)
	}

	medium := GenerateRecommendations(profile, map[string]interface{}{"risk_level": "medium"}, baseTime)
	if len(medium) != 1 || medium[0].RelevanceScore != 0.8 {
		t.Errorf("medium risk should yield one 0.8 recommendation, got %+v", medium)
	}

	low := GenerateRecommendations(profile, map[string]interface{}{"risk_level": "low"}, baseTime)
	if len(low) != 1 || low[0].RelevanceScore != 0.7 {
		t.Errorf("low risk should yield one 0.7 recommendation, got %+v", low)
	}
}

func TestGenerateRecommendations_TimingUsesCurrentPeriod(t *testing.T) {
	profile := types.NewProfile("user-1", baseTime)
	profile.Pattern.DailyPattern = map[string]float64{"afternoon_positive": 0.8}

	// baseTime is 12:00, an afternoon hour.
	recs := GenerateRecommendations(profile, nil, baseTime)
	if len(recs) != 1 || recs[0].Type != "timing" || recs[0].RelevanceScore != 0.8 {
		t.Fatalf("expected one timing recommendation, got %+v", recs)
	}

	morning := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	if recs := GenerateRecommendations(profile, nil, morning); len(recs) != 0 {
		t.Errorf("no timing recommendation three hours before the strong period, got %+v", recs)
	}
}

func TestGenerateRecommendations_TimingIncludesNearbyPeriods(t *testing.T) {
	profile := types.NewProfile("user-1", baseTime)
	profile.Pattern.DailyPattern = map[string]float64{"evening_positive": 0.9}

	// 17:00 is afternoon, one hour before the evening bucket starts at 18:00.
	lateAfternoon := time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)
	recs := GenerateRecommendations(profile, nil, lateAfternoon)
	if len(recs) != 1 || recs[0].Type != "timing" || recs[0].RelevanceScore != 0.9 {
		t.Fatalf("expected one timing recommendation for the upcoming evening, got %+v", recs)
	}
}

func TestPeriodDistance_WrapsMidnight(t *testing.T) {
	// 04:00 is a night hour; morning starts at 05:00.
	if d := periodDistance("morning", 4); d != 1 {
		t.Errorf("04:00 should be one hour from morning, got %d", d)
	}
	// 06:00 is one hour past the night bucket's upper wrap at 04:59.
	if d := periodDistance("night", 6); d != 2 {
		t.Errorf("06:00 should be two hours from night, got %d", d)
	}
	if d := periodDistance("afternoon", 14); d != 0 {
		t.Errorf("inside the period the distance is zero, got %d", d)
	}
}
