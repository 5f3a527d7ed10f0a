package reconcile

import (
	"github.com/tripforge/planner/internal/geo"
	"github.com/tripforge/planner/internal/model"
)

const proxyMinutesPerKm = 5.0

func coordsOf(order []string, byID map[string]model.Waypoint) []model.LatLng {
	coords := make([]model.LatLng, len(order))
	for i, id := range order {
		coords[i] = byID[id].Coord
	}
	return coords
}

func pathKm(coords []model.LatLng) float64 {
	total := 0.0
	for i := 0; i+1 < len(coords); i++ {
		total += geo.HaversineKm(coords[i], coords[i+1])
	}
	return total
}

func dayProxyMinutes(order []string, byID map[string]model.Waypoint) float64 {
	return pathKm(coordsOf(order, byID)) * proxyMinutesPerKm
}

// countCrossings counts properly-intersecting non-adjacent edge pairs along
// an open path, mirroring the 2-opt decrossing test in internal/withincluster.
func countCrossings(coords []model.LatLng) int {
	n := len(coords)
	count := 0
	for i := 0; i+1 < n; i++ {
		for j := i + 2; j+1 < n; j++ {
			if geo.SegmentsIntersect(coords[i], coords[i+1], coords[j], coords[j+1]) {
				count++
			}
		}
	}
	return count
}

// countReversals counts direction reversals: consecutive edges whose unit
// vectors have a negative dot product, the path's literal "backtracking".
func countReversals(coords []model.LatLng) int {
	n := len(coords)
	count := 0
	for i := 0; i+2 < n; i++ {
		d1 := geo.UnitDirection(coords[i], coords[i+1])
		d2 := geo.UnitDirection(coords[i+1], coords[i+2])
		if geo.Dot(d1, d2) < 0 {
			count++
		}
	}
	return count
}

// score implements the candidate scoring formula of spec §4.8:
//
//	s = 2*ΔBacktracking + 1*ΔCrossings + 1*(ΔdistKm*5) + 0.5*ΔdistKm - 2*importance - stayMinutes
//
// where each Δ is the reduction caused by removing coords[removeIdx] from
// the path. Higher s means removing the point helps more and costs less.
func score(coords []model.LatLng, removeIdx int, wp model.Waypoint) float64 {
	after := make([]model.LatLng, 0, len(coords)-1)
	after = append(after, coords[:removeIdx]...)
	after = append(after, coords[removeIdx+1:]...)

	deltaDistKm := pathKm(coords) - pathKm(after)
	deltaCrossings := float64(countCrossings(coords) - countCrossings(after))
	deltaBacktrack := float64(countReversals(coords) - countReversals(after))

	return 2*deltaBacktrack + deltaCrossings + deltaDistKm*5 + 0.5*deltaDistKm - 2*wp.Importance - wp.StayMinutes
}

func removable(wp model.Waypoint) bool {
	return !wp.IsFixed && wp.DayLock == nil
}
