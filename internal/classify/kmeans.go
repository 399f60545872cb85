package classify

import (
	"fmt"
	"math"
)

// KMeans is a deterministic k-means clusterer. Centroids are seeded with
// farthest-point initialization starting from the first point, so the same
// input always produces the same assignment without any randomness.
type KMeans struct {
	// MaxIterations bounds the refinement loop (default: 50).
	MaxIterations int
}

// NewKMeans returns a clusterer with the default iteration bound.
func NewKMeans() *KMeans {
	return &KMeans{MaxIterations: 50}
}

// Cluster assigns each point to one of k clusters. All points must share the
// same dimensionality and there must be at least k points.
func (km *KMeans) Cluster(points [][]float64, k int) ([]int, error) {
	if k <= 0 {
		return nil, fmt.Errorf("kmeans: k must be positive, got %d", k)
	}
	if len(points) < k {
		return nil, fmt.Errorf("kmeans: need at least %d points, got %d", k, len(points))
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return nil, fmt.Errorf("kmeans: point %d has %d dimensions, expected %d", i, len(p), dim)
		}
	}

	maxIter := km.MaxIterations
	if maxIter <= 0 {
		maxIter = 50
	}

	centroids := seedCentroids(points, k)
	assignments := make([]int, len(points))

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			best := 0
			bestDist := squaredDistance(p, centroids[0])
			for c := 1; c < k; c++ {
				if d := squaredDistance(p, centroids[c]); d < bestDist {
					best, bestDist = c, d
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids as the mean of their members. An emptied
		// centroid keeps its previous position.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			c := assignments[i]
			counts[c]++
			for d, v := range p {
				sums[c][d] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for d := 0; d < dim; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	return assignments, nil
}

// seedCentroids picks the first point, then repeatedly the point farthest
// from all chosen centroids.
func seedCentroids(points [][]float64, k int) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), points[0]...))

	for len(centroids) < k {
		farIdx := 0
		farDist := -1.0
		for i, p := range points {
			nearest := math.MaxFloat64
			for _, c := range centroids {
				if d := squaredDistance(p, c); d < nearest {
					nearest = d
				}
			}
			if nearest > farDist {
				farDist = nearest
				farIdx = i
			}
		}
		centroids = append(centroids, append([]float64(nil), points[farIdx]...))
	}
	return centroids
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
