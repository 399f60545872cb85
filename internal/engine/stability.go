package engine

import (
	"math"

	"github.com/halcyon-app/halcyon/pkg/types"
)

// ComputeStability returns the emotional stability metric for a record
// history: 1 - min(stddev of the last 30 intensities, 1). An empty history
// yields the neutral 0.5.
func ComputeStability(history []types.EmotionRecord) float64 {
	if len(history) == 0 {
		return 0.5
	}

	window := history
	if len(window) > stabilityWindow {
		window = window[len(window)-stabilityWindow:]
	}

	intensities := make([]float64, len(window))
	for i, r := range window {
		intensities[i] = r.Intensity
	}

	return 1 - math.Min(stddev(intensities), 1)
}

// stddev is the population standard deviation.
func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// round2 rounds to two decimal places, the precision every derived score is
// reported at.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
