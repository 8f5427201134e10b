package renderer

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises a batch of raycasts. Distance fields only cover hits
// and are zero when nothing was hit.
type Stats struct {
	TotalRays      int     `json:"totalRays"`
	Hits           int     `json:"hits"`
	Misses         int     `json:"misses"`
	HitRatio       float64 `json:"hitRatio"`
	MinDistance    float64 `json:"minDistance"`
	MaxDistance    float64 `json:"maxDistance"`
	MeanDistance   float64 `json:"meanDistance"`
	StdDevDistance float64 `json:"stdDevDistance"`
}

// ComputeStats calculates statistics for a set of results
func ComputeStats(results []RayResult) Stats {
	stats := Stats{TotalRays: len(results)}

	distances := make([]float64, 0, len(results))
	for _, result := range results {
		if result.OK {
			distances = append(distances, result.Hit.Distance)
		}
	}
	stats.Hits = len(distances)
	stats.Misses = stats.TotalRays - stats.Hits

	if stats.TotalRays > 0 {
		stats.HitRatio = float64(stats.Hits) / float64(stats.TotalRays)
	}
	if len(distances) == 0 {
		return stats
	}

	stats.MinDistance = floats.Min(distances)
	stats.MaxDistance = floats.Max(distances)
	stats.MeanDistance = stat.Mean(distances, nil)
	// Sample standard deviation is undefined for a single value
	if len(distances) > 1 {
		stats.StdDevDistance = stat.StdDev(distances, nil)
	}
	return stats
}
