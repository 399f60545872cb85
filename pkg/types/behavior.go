package types

import "time"

// BehaviorEvent is a single UI/usage event.
type BehaviorEvent struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Behavior  BehaviorType `json:"behavior_type"`
	Timestamp time.Time    `json:"timestamp"`

	// Duration is the event duration in seconds, 0 when not applicable.
	Duration float64 `json:"duration,omitempty"`

	Context  map[string]interface{} `json:"context,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// BehaviorTransition is one observed from→to step in the event sequence with
// its observed transition probability.
type BehaviorTransition struct {
	From        BehaviorType `json:"from"`
	To          BehaviorType `json:"to"`
	Probability float64      `json:"probability"`
}

// BehaviorPattern holds frequency and sequence statistics over the event
// history.
type BehaviorPattern struct {
	// DailyPattern maps the hour of day ("0".."23") to event counts.
	DailyPattern map[string]int `json:"daily_pattern"`

	// WeeklyPattern maps the weekday index ("0"=Monday.."6"=Sunday) to counts.
	WeeklyPattern map[string]int `json:"weekly_pattern"`

	Sequence []BehaviorTransition `json:"behavior_sequence"`

	// InteractionGraph maps pairs of distinct behavior types to their
	// co-occurrence weight within the history.
	InteractionGraph map[BehaviorType]map[BehaviorType]float64 `json:"interaction_graph"`

	LastUpdated time.Time `json:"last_updated"`
}

// HourCount pairs an hour of day with its event count.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// BehaviorCluster reports one behavior segment: the per-cluster mean of each
// clustering feature (hour, weekday, duration).
type BehaviorCluster struct {
	ClusterID   int     `json:"cluster_id"`
	Size        int     `json:"size"`
	AvgHour     float64 `json:"avg_hour"`
	AvgWeekday  float64 `json:"avg_weekday"`
	AvgDuration float64 `json:"avg_duration"`
}

// BehaviorInsight is the derived usage insight view.
type BehaviorInsight struct {
	// ActiveHours lists the 3 most active hours, most active first.
	ActiveHours []HourCount `json:"active_hours"`

	// FavoriteFeatures lists the 5 most frequent behavior types.
	FavoriteFeatures []BehaviorType `json:"favorite_features"`

	Clusters []BehaviorCluster `json:"behavior_clusters"`

	// EngagementScore is min(events in last 7 days / 100, 1.0).
	EngagementScore float64 `json:"engagement_score"`

	// RetentionScore is min(consecutive active days / 30, 1.0).
	RetentionScore float64 `json:"retention_score"`

	LastUpdated time.Time `json:"last_updated"`
}

// BehaviorProfile is the per-user behavior aggregate.
type BehaviorProfile struct {
	UserID  string          `json:"user_id"`
	History []BehaviorEvent `json:"behavior_history"`
	Pattern BehaviorPattern `json:"behavior_pattern"`
	Insight BehaviorInsight `json:"behavior_insight"`

	LastUpdated time.Time `json:"last_updated"`
}

// NewBehaviorProfile returns the default-initialized behavior profile created
// on first access for a user.
func NewBehaviorProfile(userID string, now time.Time) *BehaviorProfile {
	return &BehaviorProfile{
		UserID:  userID,
		History: []BehaviorEvent{},
		Pattern: BehaviorPattern{
			DailyPattern:     map[string]int{},
			WeeklyPattern:    map[string]int{},
			Sequence:         []BehaviorTransition{},
			InteractionGraph: map[BehaviorType]map[BehaviorType]float64{},
			LastUpdated:      now,
		},
		Insight: BehaviorInsight{
			ActiveHours:      []HourCount{},
			FavoriteFeatures: []BehaviorType{},
			Clusters:         []BehaviorCluster{},
			LastUpdated:      now,
		},
		LastUpdated: now,
	}
}
