// Package clusterorder sequences a trip's day-clusters along a start→end
// axis and smooths the sequence with a bounded move-and-check pass (spec
// §4.3). The smoothing loop's structure — repeated passes, accept at most
// one improving move per pass, then restart — is modeled on the teacher's
// tsp.ThreeOpt pass/accept/restart discipline (tsp/three_opt.go), though the
// move itself (relocate one cluster, not a 3-edge reconnection) is the
// simpler one the spec defines.
package clusterorder

import (
	"log"
	"sort"

	"github.com/tripforge/planner/internal/geo"
	"github.com/tripforge/planner/internal/model"
)

var logger = log.New(log.Writer(), "[clusterorder] ", log.LstdFlags)

// ChooseEndAnchor implements spec §4.3: lodging if present, else the
// cluster centroid farthest from the mean of all cluster centroids.
func ChooseEndAnchor(clusters []model.Cluster, lodging *model.LatLng) model.LatLng {
	if lodging != nil {
		return *lodging
	}
	if len(clusters) == 0 {
		return model.LatLng{}
	}
	centroids := make([]model.LatLng, len(clusters))
	for i, c := range clusters {
		centroids[i] = c.Centroid
	}
	mean := geo.Centroid(centroids)

	farthest := centroids[0]
	best := -1.0
	for _, c := range centroids {
		d := geo.HaversineMeters(c, mean)
		if d > best {
			best = d
			farthest = c
		}
	}
	return farthest
}

// Order implements spec §4.3: sort clusters by projection onto
// unit(endAnchor-startAnchor), then apply bounded smoothing, then validate
// monotonic progression (logged only, never fatal).
func Order(clusters []model.Cluster, startAnchor, endAnchor model.LatLng, passes int, thresholdMeters float64) []model.Cluster {
	if len(clusters) <= 1 {
		return clusters
	}
	d := geo.UnitDirection(startAnchor, endAnchor)

	ordered := append([]model.Cluster(nil), clusters...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return geo.Project(ordered[i].Centroid, startAnchor, d) < geo.Project(ordered[j].Centroid, startAnchor, d)
	})

	ordered = smooth(ordered, endAnchor, passes, thresholdMeters)
	validateMonotonic(ordered, d)
	return ordered
}

// smooth applies up to `passes` bounded improvement passes: for each pair
// (i,j) with i<j, try relocating cluster j to just before position i;
// accept the first move that reduces the incident edge sum by at least
// thresholdMeters, then restart the pass. At most one accepted move per
// pass (spec §4.3).
func smooth(ordered []model.Cluster, endAnchor model.LatLng, passes int, thresholdMeters float64) []model.Cluster {
	for pass := 0; pass < passes; pass++ {
		moved := false
		for i := 0; i < len(ordered) && !moved; i++ {
			for j := i + 1; j < len(ordered) && !moved; j++ {
				before := edgeSum(ordered, endAnchor)
				candidate := relocate(ordered, i, j)
				after := edgeSum(candidate, endAnchor)
				if before-after >= thresholdMeters {
					ordered = candidate
					moved = true
				}
			}
		}
		if !moved {
			break
		}
	}
	return ordered
}

// relocate returns a copy of ordered with the cluster at index j moved to
// just before index i (i<j).
func relocate(ordered []model.Cluster, i, j int) []model.Cluster {
	out := make([]model.Cluster, 0, len(ordered))
	moving := ordered[j]
	for k := 0; k < len(ordered); k++ {
		if k == j {
			continue
		}
		if k == i {
			out = append(out, moving)
		}
		out = append(out, ordered[k])
	}
	return out
}

// edgeSum is the sum of centroid-to-centroid haversine distances along the
// sequence, with the final virtual edge running to endAnchor.
func edgeSum(ordered []model.Cluster, endAnchor model.LatLng) float64 {
	var total float64
	for i := 0; i+1 < len(ordered); i++ {
		total += geo.HaversineMeters(ordered[i].Centroid, ordered[i+1].Centroid)
	}
	if len(ordered) > 0 {
		total += geo.HaversineMeters(ordered[len(ordered)-1].Centroid, endAnchor)
	}
	return total
}

// validateMonotonic logs (but never fails) violations of spec §4.3's
// progression check: unit(next-current)·d >= -0.1 for each consecutive pair.
func validateMonotonic(ordered []model.Cluster, d geo.Vec2) {
	for i := 0; i+1 < len(ordered); i++ {
		step := geo.UnitDirection(ordered[i].Centroid, ordered[i+1].Centroid)
		if geo.Dot(step, d) < -0.1 {
			logger.Printf("non-monotonic progression between day %d and day %d", ordered[i].DayIndex, ordered[i+1].DayIndex)
		}
	}
}

// DayEnd computes spec §4.3's per-day effective end anchor: lodging if set;
// else on the last day input.end ?? input.start ?? endAnchor; else the next
// cluster's centroid.
func DayEnd(idx int, ordered []model.Cluster, lodging, end, start *model.LatLng, endAnchor model.LatLng) model.LatLng {
	if lodging != nil {
		return *lodging
	}
	if idx == len(ordered)-1 {
		if end != nil {
			return *end
		}
		if start != nil {
			return *start
		}
		return endAnchor
	}
	return ordered[idx+1].Centroid
}
