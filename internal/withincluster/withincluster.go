// Package withincluster orders the waypoints inside a single day's cluster
// (spec §4.4): pinned points are placed by fixed time, flexible points are
// woven in around them by axis projection, and a 2-opt pass removes any
// remaining path crossings. The 2-opt loop's first-improvement,
// reversal-on-crossing shape follows the teacher's tsp.TwoOpt
// (tsp/two_opt.go); the crossing test itself (strict sign-change cross
// products) and the pinned-edge immutability rule are specific to this
// spec and have no teacher counterpart.
package withincluster

import (
	"sort"

	"github.com/tripforge/planner/internal/geo"
	"github.com/tripforge/planner/internal/model"
)

// stop is one waypoint placed in a day's visit order, tagged pinned/flexible.
type stop struct {
	id     string
	coord  model.LatLng
	pinned bool
}

// Order builds the visit sequence for one day's cluster, given the day's
// start and end anchors and the shared waypoint map.
func Order(waypointIDs []string, byID map[string]model.Waypoint, start, end model.LatLng, maxTwoOptIterations int) []string {
	if len(waypointIDs) == 0 {
		return nil
	}

	var pinned, flexible []stop
	for _, id := range waypointIDs {
		w, ok := byID[id]
		if !ok {
			continue
		}
		if w.IsFixed && w.FixedStartTime != "" {
			pinned = append(pinned, stop{id: id, coord: w.Coord, pinned: true})
		} else {
			flexible = append(flexible, stop{id: id, coord: w.Coord})
		}
	}

	sort.SliceStable(pinned, func(i, j int) bool {
		ti, _ := model.MinutesOfDay(byID[pinned[i].id].FixedStartTime)
		tj, _ := model.MinutesOfDay(byID[pinned[j].id].FixedStartTime)
		return ti < tj
	})

	axis := geo.UnitDirection(start, end)
	sort.SliceStable(flexible, func(i, j int) bool {
		pi := geo.Project(flexible[i].coord, start, axis)
		pj := geo.Project(flexible[j].coord, start, axis)
		if pi != pj {
			return pi < pj
		}
		return geo.HaversineMeters(start, flexible[i].coord) < geo.HaversineMeters(start, flexible[j].coord)
	})

	woven := weave(pinned, flexible, end)
	decrossed := twoOptDecross(woven, maxTwoOptIterations)

	out := make([]string, len(decrossed))
	for i, s := range decrossed {
		out[i] = s.id
	}
	return out
}

// weave drains flexible points closer to the current pinned stop than to
// the next one (or the day end, if there is no next pinned stop), then
// appends the pinned stop; remaining flexible points trail at the end
// (spec §4.4 "Weave").
func weave(pinned, flexible []stop, dayEnd model.LatLng) []stop {
	out := make([]stop, 0, len(pinned)+len(flexible))
	cursor := 0
	for pi, p := range pinned {
		var boundary model.LatLng
		if pi+1 < len(pinned) {
			boundary = pinned[pi+1].coord
		} else {
			boundary = dayEnd
		}
		for cursor < len(flexible) {
			f := flexible[cursor]
			if geo.HaversineMeters(f.coord, p.coord) < geo.HaversineMeters(f.coord, boundary) {
				out = append(out, f)
				cursor++
				continue
			}
			break
		}
		out = append(out, p)
	}
	out = append(out, flexible[cursor:]...)
	return out
}

// twoOptDecross repeatedly scans non-adjacent edge pairs and reverses the
// sub-path between them whenever the edges cross, skipping any reversal
// that would straddle a pinned stop, capped at maxIterations (spec §4.4).
func twoOptDecross(path []stop, maxIterations int) []stop {
	out := append([]stop(nil), path...)
	n := len(out)
	if n < 4 {
		return out
	}
	for iter := 0; iter < maxIterations; iter++ {
		improved := false
		for i := 0; i+1 < n-1; i++ {
			for j := i + 2; j < n-1; j++ {
				touchesPinned := false
				for k := i; k <= j+1; k++ {
					if out[k].pinned {
						touchesPinned = true
						break
					}
				}
				if touchesPinned {
					continue
				}
				if geo.SegmentsIntersect(out[i].coord, out[i+1].coord, out[j].coord, out[j+1].coord) {
					reverse(out, i+1, j)
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return out
}

func reverse(s []stop, i, j int) {
	for i < j {
		s[i], s[j] = s[j], s[i]
		i++
		j--
	}
}
