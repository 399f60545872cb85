package types

import "time"

// EmotionRecord is a single timestamped emotion self-report. Records are
// immutable once created and are appended to a user's history, which stays
// sortable by timestamp (arrival order is not guaranteed to be chronological).
type EmotionRecord struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Emotion   EmotionType `json:"emotion_type"`
	Intensity float64     `json:"intensity"` // 0.0 to 1.0
	Context   string      `json:"context,omitempty"`
	Source    string      `json:"source,omitempty"` // chat, feedback, analysis, ...
	Text      string      `json:"text,omitempty"`   // raw text the report came from

	// Strategy is an optional explicit coping strategy label. When absent,
	// the coping extractor falls back to keyword matching on Context.
	Strategy string `json:"coping_strategy,omitempty"`

	// Metadata is the open-ended key/value side-table for record shapes the
	// typed fields do not cover.
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Personality holds the five heuristic trait estimates, each in [0.1, 0.9]
// once at least 5 records exist, and exactly 0.5 before that.
type Personality struct {
	Openness          float64   `json:"openness"`
	Conscientiousness float64   `json:"conscientiousness"`
	Extraversion      float64   `json:"extraversion"`
	Agreeableness     float64   `json:"agreeableness"`
	Neuroticism       float64   `json:"neuroticism"`
	LastUpdated       time.Time `json:"last_updated"`
}

// DefaultPersonality returns the neutral trait estimates used before enough
// history exists to infer anything.
func DefaultPersonality(now time.Time) Personality {
	return Personality{
		Openness:          0.5,
		Conscientiousness: 0.5,
		Extraversion:      0.5,
		Agreeableness:     0.5,
		Neuroticism:       0.5,
		LastUpdated:       now,
	}
}

// Interests holds inferred activity and topic preferences.
type Interests struct {
	Activities []string `json:"activities"`
	Topics     []string `json:"topics"`

	// Preferences maps activity or topic labels to a preference score,
	// 0.4*frequency + 0.6*mean intensity.
	Preferences map[string]float64 `json:"preferences"`

	// EmotionalResponses maps an activity to its most frequent co-occurring
	// emotion.
	EmotionalResponses map[string]EmotionType `json:"emotional_responses"`

	LastUpdated time.Time `json:"last_updated"`
}

// TriggerStat summarizes one context keyword statistically associated with
// emotion records.
type TriggerStat struct {
	// Frequency is the fraction of the whole history containing the trigger.
	Frequency float64 `json:"frequency"`

	// PrimaryEmotion is the most common emotion among matching records.
	PrimaryEmotion EmotionType `json:"primary_emotion"`

	// PrimaryEmotionShare is that emotion's share among matching records.
	PrimaryEmotionShare float64 `json:"primary_emotion_share"`

	// AvgIntensity is the mean intensity among matching records.
	AvgIntensity float64 `json:"avg_intensity"`
}

// StrategyStat summarizes the observed effect of one coping strategy.
type StrategyStat struct {
	// Effectiveness is the mean effect score over observed transitions:
	// 1.0 for leaving the negative set, the relative intensity drop when the
	// next record stays negative but weaker, 0.0 otherwise.
	Effectiveness float64 `json:"effectiveness"`

	// Count is the number of observed transitions for this strategy.
	Count int `json:"count"`
}

// EmotionPattern holds the time-bucketed statistics derived from a user's
// record history. All maps are pure functions of the history at last
// recompute and are never hand-edited.
type EmotionPattern struct {
	// DailyPattern maps "{period}_positive" and "{period}_negative" to the
	// mean intensity of positive/negative records in that period, for the
	// four periods morning, afternoon, evening, night.
	DailyPattern map[string]float64 `json:"daily_pattern"`

	// DailyDominant maps a period name to its most frequent emotion.
	DailyDominant map[string]EmotionType `json:"daily_dominant"`

	// WeeklyPattern maps "{day}_intensity", "{day}_stability" and
	// "{day}_dominant_frequency" keys for the seven weekday names.
	WeeklyPattern map[string]float64 `json:"weekly_pattern"`

	// WeeklyDominant maps a weekday name to its most frequent emotion.
	WeeklyDominant map[string]EmotionType `json:"weekly_dominant"`

	// BestDay and WorstDay are the weekday names with the highest and lowest
	// mean intensity. Empty until at least one record exists.
	BestDay  string `json:"best_day,omitempty"`
	WorstDay string `json:"worst_day,omitempty"`

	Triggers         map[string]TriggerStat  `json:"triggers"`
	CopingStrategies map[string]StrategyStat `json:"coping_strategies"`

	LastUpdated time.Time `json:"last_updated"`
}

// EmptyEmotionPattern returns a pattern with all maps allocated and empty.
func EmptyEmotionPattern(now time.Time) EmotionPattern {
	return EmotionPattern{
		DailyPattern:     map[string]float64{},
		DailyDominant:    map[string]EmotionType{},
		WeeklyPattern:    map[string]float64{},
		WeeklyDominant:   map[string]EmotionType{},
		Triggers:         map[string]TriggerStat{},
		CopingStrategies: map[string]StrategyStat{},
		LastUpdated:      now,
	}
}

// Profile is the per-user aggregate of emotional history plus derived
// statistics. EmotionalStability and every derived map are pure functions of
// History at last recompute.
type Profile struct {
	UserID string `json:"user_id"`

	// History is the ordered record list, chronological after each update.
	History []EmotionRecord `json:"emotion_history"`

	// CurrentEmotion is the most recently ingested record, nil for a fresh
	// profile.
	CurrentEmotion *EmotionRecord `json:"current_emotion,omitempty"`

	Pattern     EmotionPattern `json:"emotion_pattern"`
	Personality Personality    `json:"personality"`
	Interests   Interests      `json:"interests"`

	// EmotionalStability is 1 - min(stddev(intensity over last 30 records), 1),
	// 0.5 for an empty history.
	EmotionalStability float64 `json:"emotional_stability"`

	LastUpdated time.Time `json:"last_updated"`
}

// NewProfile returns the default-initialized profile created on first access
// for a user: neutral scores, empty histories and maps.
func NewProfile(userID string, now time.Time) *Profile {
	return &Profile{
		UserID:             userID,
		History:            []EmotionRecord{},
		Pattern:            EmptyEmotionPattern(now),
		Personality:        DefaultPersonality(now),
		Interests:          Interests{Activities: []string{}, Topics: []string{}, Preferences: map[string]float64{}, EmotionalResponses: map[string]EmotionType{}, LastUpdated: now},
		EmotionalStability: 0.5,
		LastUpdated:        now,
	}
}

// Prediction is the output of the emotion classifier oracle plus the grouped
// factor weights that explain it.
type Prediction struct {
	Emotion    EmotionType `json:"predicted_emotion"`
	Confidence float64     `json:"confidence"`

	// Factors maps the groups time_of_day, recent_emotions, personality and
	// context to weights normalized to sum to 1, rounded to 2 decimals.
	Factors map[string]float64 `json:"factors"`

	Timestamp time.Time `json:"timestamp"`
}

// Recommendation is one ranked personalized suggestion.
type Recommendation struct {
	Type           string                 `json:"type"` // activity, strategy, content, timing, social, risk
	Content        string                 `json:"content"`
	Reason         string                 `json:"reason"`
	RelevanceScore float64                `json:"relevance_score"`
	Context        map[string]interface{} `json:"user_context,omitempty"`
}
