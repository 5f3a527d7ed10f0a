package zoning

import (
	"math"
	"sort"

	"github.com/tripforge/planner/internal/geo"
	"github.com/tripforge/planner/internal/model"
)

// EstimateRadius computes the k-NN adjacency radius (spec §4.2
// "Radius estimation"): for each waypoint, the distance to its k-th nearest
// neighbor; the median of those distances, scaled by multiplier. When the
// median is zero or non-finite, ok is false and callers should treat every
// waypoint as one zone.
func EstimateRadius(coords []model.LatLng, k int, multiplier float64) (radius float64, ok bool) {
	n := len(coords)
	if n <= 1 || k < 1 {
		return 0, false
	}
	kthDistances := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		dists := make([]float64, 0, n-1)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			dists = append(dists, geo.HaversineMeters(coords[i], coords[j]))
		}
		sort.Float64s(dists)
		idx := k - 1
		if idx >= len(dists) {
			idx = len(dists) - 1
		}
		kthDistances = append(kthDistances, dists[idx])
	}
	median := medianOf(kthDistances)
	if median == 0 || math.IsNaN(median) || math.IsInf(median, 0) {
		return 0, false
	}
	return median * multiplier, true
}

func medianOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
