package classify

import (
	"context"
	"fmt"
	"math"

	"github.com/halcyon-app/halcyon/pkg/types"
)

// HeuristicClassifier is the default, fully deterministic classifier. It
// predicts the most frequent recent emotion and scales confidence with how
// dominant that emotion is within the recent window.
type HeuristicClassifier struct{}

// NewHeuristicClassifier returns the default classifier.
func NewHeuristicClassifier() *HeuristicClassifier {
	return &HeuristicClassifier{}
}

// Classify predicts the majority label of the recent window. Ties break in
// favour of the label that reached the maximum count first, so identical
// input always yields an identical verdict. An empty window predicts neutral
// at baseline confidence.
func (c *HeuristicClassifier) Classify(_ context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, fmt.Errorf("classify: request is required")
	}
	if len(req.Features) != FeatureDim {
		return nil, fmt.Errorf("classify: expected %d features, got %d", FeatureDim, len(req.Features))
	}

	if len(req.RecentEmotions) == 0 {
		return &Result{
			Label:         types.EmotionNeutral,
			Confidence:    0.4,
			Probabilities: map[types.EmotionType]float64{types.EmotionNeutral: 1},
		}, nil
	}

	counts := map[types.EmotionType]int{}
	best := req.RecentEmotions[0]
	for _, emotion := range req.RecentEmotions {
		counts[emotion]++
		if counts[emotion] > counts[best] {
			best = emotion
		}
	}

	probabilities := make(map[types.EmotionType]float64, len(counts))
	for emotion, n := range counts {
		probabilities[emotion] = float64(n) / float64(len(req.RecentEmotions))
	}

	share := probabilities[best]
	confidence := math.Round((0.4+0.5*share)*100) / 100

	return &Result{Label: best, Confidence: confidence, Probabilities: probabilities}, nil
}
