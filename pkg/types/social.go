package types

import "time"

// InteractionRecord is a single social interaction event with its sentiment
// sign and intensity.
type InteractionRecord struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Interaction  InteractionType `json:"interaction_type"`
	TargetUserID string          `json:"target_user_id,omitempty"`
	Sentiment    Sentiment       `json:"sentiment"`
	Intensity    float64         `json:"intensity"` // 0.0 to 1.0
	Context      string          `json:"context,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`

	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// SocialEmotionAnalysis is the derived social-emotion view for one user,
// recomputed on demand from the raw interaction history.
type SocialEmotionAnalysis struct {
	UserID string `json:"user_id"`

	// EmotionScore is the mean weighted score over the window, in [-1, 1].
	EmotionScore float64 `json:"social_emotion_score"`

	// Engagement is 0.4*freq/30d + 0.3*type diversity + 0.3*mean intensity,
	// capped at 1.0.
	Engagement float64 `json:"social_engagement"`

	// NetworkSize is the number of distinct counterparties in the window.
	NetworkSize int `json:"social_network_size"`

	// InteractionPatterns maps each interaction type to its share of the window.
	InteractionPatterns map[InteractionType]float64 `json:"interaction_patterns"`

	// Contagion is mode share times mean intensity: the degree to which one
	// dominant sentiment pervades the user's interactions.
	Contagion float64 `json:"emotional_contagion"`

	LastUpdated time.Time `json:"last_updated"`
}

// SocialEmotionTrend is a bucketed time series of social emotion metrics.
type SocialEmotionTrend struct {
	UserID           string      `json:"user_id"`
	Period           TrendPeriod `json:"time_period"`
	EmotionScores    []float64   `json:"emotion_scores"`
	EngagementScores []float64   `json:"engagement_scores"`

	// NetworkGrowth is the cumulative distinct-counterparty count after each
	// bucket, oldest first.
	NetworkGrowth []int `json:"network_growth"`

	InteractionCounts map[InteractionType][]int `json:"interaction_counts"`
	Timestamps        []time.Time               `json:"timestamps"`
}

// InteractionTypeShare pairs an interaction type with its share of the window.
type InteractionTypeShare struct {
	Interaction InteractionType `json:"interaction_type"`
	Share       float64         `json:"share"`
}

// SocialEmotionInsight is the derived insight view over the interaction
// history: frequent interaction kinds, their emotional impact, and the
// support/stress balance.
type SocialEmotionInsight struct {
	UserID string `json:"user_id"`

	// TopInteractions lists interaction types ordered by share, descending.
	TopInteractions []InteractionTypeShare `json:"top_interactions"`

	// EmotionalImpact maps each interaction type to its mean signed
	// sentiment-weighted intensity.
	EmotionalImpact map[InteractionType]float64 `json:"emotional_impact"`

	// Support is 0.7*positive share of chat/comment interactions +
	// 0.3*mean positive intensity.
	Support float64 `json:"social_support"`

	// Stress is 0.7*negative share + 0.3*mean negative intensity.
	Stress float64 `json:"social_stress"`

	// RelationshipQuality maps counterparty user IDs to a [0,1] quality score.
	RelationshipQuality map[string]float64 `json:"relationship_quality"`

	LastUpdated time.Time `json:"last_updated"`
}
