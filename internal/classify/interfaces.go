// Package classify provides the emotion classifier and clusterer oracles.
//
// The engine treats classification as an opaque, swappable operation: it
// builds a feature vector from a profile and hands it over, together with the
// recent emotion labels, and gets back a predicted label with a confidence.
// The default implementation is a deterministic heuristic; a remote model
// service can be plugged in behind the same interface.
package classify

import (
	"context"

	"github.com/halcyon-app/halcyon/pkg/types"
)

// FeatureDim is the length of the prediction feature vector:
// 2 time-of-day features, 5 recent intensities, 5 personality traits,
// and 3 context scalars.
const FeatureDim = 15

// Request carries everything a classifier may consider.
type Request struct {
	// Features is the FeatureDim-length state vector.
	Features []float64 `json:"features"`

	// RecentEmotions lists the labels of the most recent records, newest last.
	RecentEmotions []types.EmotionType `json:"recent_emotions"`
}

// Result is a classifier's verdict.
type Result struct {
	Label      types.EmotionType `json:"label"`
	Confidence float64           `json:"confidence"`

	// Probabilities is the per-class distribution backing the verdict.
	Probabilities map[types.EmotionType]float64 `json:"probabilities,omitempty"`

	// Importances optionally weights the feature groups time_of_day,
	// recent_emotions, personality and context, overriding the default
	// factor weights in prediction reporting.
	Importances map[string]float64 `json:"importances,omitempty"`
}

// Classifier predicts the next likely emotion from the current state.
type Classifier interface {
	Classify(ctx context.Context, req *Request) (*Result, error)
}

// Clusterer partitions points into k groups and returns one cluster index
// per point. Implementations must be deterministic for identical input.
type Clusterer interface {
	Cluster(points [][]float64, k int) ([]int, error)
}
