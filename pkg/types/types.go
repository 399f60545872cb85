// Package types defines the core data structures for the Halcyon emotional
// wellness engine. These types represent emotion records, derived user
// profiles, social interactions, behavior events, and alerts, following the
// pure-function-of-history invariant: every derived field is recomputable
// from the raw record history alone.
package types

// EmotionType classifies a single emotion self-report.
type EmotionType string

// Emotion type constants - the 10 supported self-report labels.
const (
	EmotionHappy    EmotionType = "happy"
	EmotionSad      EmotionType = "sad"
	EmotionAngry    EmotionType = "angry"
	EmotionAnxious  EmotionType = "anxious"
	EmotionCalm     EmotionType = "calm"
	EmotionExcited  EmotionType = "excited"
	EmotionTired    EmotionType = "tired"
	EmotionFocused  EmotionType = "focused"
	EmotionConfused EmotionType = "confused"
	EmotionNeutral  EmotionType = "neutral"
)

// ValidEmotionTypes is a slice of all valid emotion types for validation.
var ValidEmotionTypes = []EmotionType{
	EmotionHappy,
	EmotionSad,
	EmotionAngry,
	EmotionAnxious,
	EmotionCalm,
	EmotionExcited,
	EmotionTired,
	EmotionFocused,
	EmotionConfused,
	EmotionNeutral,
}

// IsValidEmotionType checks if the given emotion type is valid.
func IsValidEmotionType(emotion EmotionType) bool {
	for _, valid := range ValidEmotionTypes {
		if valid == emotion {
			return true
		}
	}
	return false
}

// Sentiment is the sign label attached to a social interaction.
type Sentiment string

// Sentiment constants.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ValidSentiments is a slice of all valid sentiment labels for validation.
var ValidSentiments = []Sentiment{
	SentimentPositive,
	SentimentNegative,
	SentimentNeutral,
}

// IsValidSentiment checks if the given sentiment label is valid.
func IsValidSentiment(s Sentiment) bool {
	for _, valid := range ValidSentiments {
		if valid == s {
			return true
		}
	}
	return false
}

// InteractionType classifies a social interaction event.
type InteractionType string

// Interaction type constants.
const (
	InteractionChat     InteractionType = "chat"
	InteractionComment  InteractionType = "comment"
	InteractionLike     InteractionType = "like"
	InteractionShare    InteractionType = "share"
	InteractionFollow   InteractionType = "follow"
	InteractionUnfollow InteractionType = "unfollow"
	InteractionMention  InteractionType = "mention"
)

// ValidInteractionTypes is a slice of all valid interaction types for validation.
var ValidInteractionTypes = []InteractionType{
	InteractionChat,
	InteractionComment,
	InteractionLike,
	InteractionShare,
	InteractionFollow,
	InteractionUnfollow,
	InteractionMention,
}

// IsValidInteractionType checks if the given interaction type is valid.
func IsValidInteractionType(interaction InteractionType) bool {
	for _, valid := range ValidInteractionTypes {
		if valid == interaction {
			return true
		}
	}
	return false
}

// BehaviorType classifies a UI/usage event.
type BehaviorType string

// Behavior type constants.
const (
	BehaviorLogin       BehaviorType = "login"
	BehaviorLogout      BehaviorType = "logout"
	BehaviorChat        BehaviorType = "chat"
	BehaviorViewContent BehaviorType = "view_content"
	BehaviorSearch      BehaviorType = "search"
	BehaviorClick       BehaviorType = "click"
	BehaviorScroll      BehaviorType = "scroll"
	BehaviorShare       BehaviorType = "share"
	BehaviorComment     BehaviorType = "comment"
	BehaviorLike        BehaviorType = "like"
	BehaviorDislike     BehaviorType = "dislike"
	BehaviorSave        BehaviorType = "save"
	BehaviorDelete      BehaviorType = "delete"
)

// ValidBehaviorTypes is a slice of all valid behavior types for validation.
var ValidBehaviorTypes = []BehaviorType{
	BehaviorLogin,
	BehaviorLogout,
	BehaviorChat,
	BehaviorViewContent,
	BehaviorSearch,
	BehaviorClick,
	BehaviorScroll,
	BehaviorShare,
	BehaviorComment,
	BehaviorLike,
	BehaviorDislike,
	BehaviorSave,
	BehaviorDelete,
}

// IsValidBehaviorType checks if the given behavior type is valid.
func IsValidBehaviorType(behavior BehaviorType) bool {
	for _, valid := range ValidBehaviorTypes {
		if valid == behavior {
			return true
		}
	}
	return false
}

// AlertLevel represents the severity of an alert.
type AlertLevel string

// Alert level constants, ordered by severity.
const (
	AlertLevelLow      AlertLevel = "low"
	AlertLevelMedium   AlertLevel = "medium"
	AlertLevelHigh     AlertLevel = "high"
	AlertLevelCritical AlertLevel = "critical"
)

// ValidAlertLevels is a slice of all valid alert levels for validation.
var ValidAlertLevels = []AlertLevel{
	AlertLevelLow,
	AlertLevelMedium,
	AlertLevelHigh,
	AlertLevelCritical,
}

// IsValidAlertLevel checks if the given alert level is valid.
func IsValidAlertLevel(level AlertLevel) bool {
	for _, valid := range ValidAlertLevels {
		if valid == level {
			return true
		}
	}
	return false
}

// AlertStatus represents the lifecycle state of an alert.
// Alerts are created active and only transition via explicit resolve or
// dismiss operations; the engine never expires or rechecks them.
type AlertStatus string

// Alert status constants.
const (
	AlertStatusActive    AlertStatus = "active"
	AlertStatusResolved  AlertStatus = "resolved"
	AlertStatusDismissed AlertStatus = "dismissed"
)

// ValidAlertStatuses is a slice of all valid alert statuses for validation.
var ValidAlertStatuses = []AlertStatus{
	AlertStatusActive,
	AlertStatusResolved,
	AlertStatusDismissed,
}

// IsValidAlertStatus checks if the given alert status is valid.
func IsValidAlertStatus(status AlertStatus) bool {
	for _, valid := range ValidAlertStatuses {
		if valid == status {
			return true
		}
	}
	return false
}

// TrendPeriod selects the bucket size for social emotion trend queries.
type TrendPeriod string

// Trend period constants.
const (
	TrendDaily   TrendPeriod = "daily"
	TrendWeekly  TrendPeriod = "weekly"
	TrendMonthly TrendPeriod = "monthly"
)

// IsValidTrendPeriod checks if the given trend period is valid.
func IsValidTrendPeriod(period TrendPeriod) bool {
	return period == TrendDaily || period == TrendWeekly || period == TrendMonthly
}
