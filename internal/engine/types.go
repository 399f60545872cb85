// Package engine implements the emotional profile engine: history ingestion,
// pattern extraction, personality and interest inference, prediction and
// recommendation generation.
//
// Every derived view is a pure function of the record history and an explicit
// clock value, so recomputing a profile from its raw history always
// reproduces the same aggregate.
package engine

import "github.com/halcyon-app/halcyon/pkg/types"

const (
	// stabilityWindow is the number of most recent records the stability
	// metric considers.
	stabilityWindow = 30

	// recentWindow is the number of most recent records feeding prediction.
	recentWindow = 5

	// personalityMinRecords is the history size below which all traits stay
	// at the neutral 0.5.
	personalityMinRecords = 5

	// copingWindowHours is the maximum gap between a negative record and its
	// follow-up for the pair to count as a coping transition.
	copingWindowHours = 24.0

	// interestMinOccurrences filters out one-off activity mentions.
	interestMinOccurrences = 2

	// maxTriggers caps the trigger keyword list.
	maxTriggers = 10

	// maxRecommendations caps the ranked recommendation list.
	maxRecommendations = 5
)

// Config tunes the profile engine.
type Config struct {
	// MaxHistory bounds the per-profile record history. Oldest records are
	// trimmed once the bound is exceeded. Zero means unbounded.
	MaxHistory int

	// CacheSize is the LRU profile cache capacity (default: 512).
	CacheSize int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxHistory: 1000,
		CacheSize:  512,
	}
}

// positiveEmotions and negativeEmotions partition the label set for pattern
// and coping analysis. The four remaining labels (tired, focused, confused,
// neutral) count toward neither side.
var positiveEmotions = map[types.EmotionType]bool{
	types.EmotionHappy:   true,
	types.EmotionExcited: true,
	types.EmotionCalm:    true,
}

var negativeEmotions = map[types.EmotionType]bool{
	types.EmotionSad:     true,
	types.EmotionAngry:   true,
	types.EmotionAnxious: true,
}

// IsPositiveEmotion reports whether the label counts as positive.
func IsPositiveEmotion(e types.EmotionType) bool { return positiveEmotions[e] }

// IsNegativeEmotion reports whether the label counts as negative.
func IsNegativeEmotion(e types.EmotionType) bool { return negativeEmotions[e] }

// stopWords are excluded from trigger keyword extraction.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "was": true, "with": true,
	"that": true, "this": true, "have": true, "had": true, "not": true,
	"but": true, "are": true, "you": true, "all": true, "very": true,
	"just": true, "about": true, "been": true, "they": true, "there": true,
	"today": true, "felt": true, "feel": true, "feeling": true, "after": true,
	"before": true, "when": true, "because": true, "some": true, "from": true,
	"at": true, "of": true, "in": true, "on": true, "to": true, "it": true,
	"is": true, "am": true, "my": true, "me": true, "so": true, "an": true,
}

// strategyKeywords maps each coping strategy category to the context keywords
// that imply it. Categories are checked in strategyOrder so extraction is
// deterministic when a context mentions several.
var strategyKeywords = map[string][]string{
	"exercise":      {"running", "workout", "walk", "gym", "exercise", "jog", "swim"},
	"social":        {"chat", "talking", "friend", "call", "hangout"},
	"entertainment": {"movie", "music", "game", "reading", "book", "show"},
	"relaxation":    {"meditation", "rest", "sleep", "relax", "nap", "bath"},
	"work":          {"work", "study", "busy", "focus"},
	"expression":    {"journal", "writing", "venting", "diary"},
}

var strategyOrder = []string{"exercise", "social", "entertainment", "relaxation", "work", "expression"}

// socialContextKeywords mark a record as happening in a social setting, used
// by the extraversion estimate.
var socialContextKeywords = []string{
	"friend", "party", "chat", "meeting", "team", "group", "social", "gathering", "date",
}

// interestCategories maps each interest category to its activity keywords.
var interestCategories = map[string][]string{
	"sports":   {"running", "workout", "swimming", "yoga", "cycling", "hiking", "basketball", "soccer", "climbing"},
	"arts":     {"reading", "writing", "painting", "photography", "music", "movie", "dance", "theater", "museum"},
	"social":   {"party", "chat", "dating", "volunteering", "gathering", "meetup"},
	"leisure":  {"game", "travel", "shopping", "cooking", "gardening", "fishing", "meditation", "baking"},
	"learning": {"study", "work", "research", "programming", "lecture", "training", "language"},
}
