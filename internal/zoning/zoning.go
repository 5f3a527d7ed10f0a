// Package zoning groups waypoints into spatial zones and assigns those
// zones to days (spec §4.2): k-NN radius estimation, union-find grouping,
// fixed-date splitting, dayLock splitting, overload splitting, and
// anchor-scored day assignment. Grouping is adapted from the teacher's
// Kruskal-style disjoint-set technique (see internal/unionfind); everything
// else here is new code following the spec's exact scoring formula.
//
// Both fixedDate and dayLock force a zone's day via the same FixedDayIndex
// mechanism (spec §3's Cluster invariant: "every pinned Waypoint with a
// resolvable day-index belongs to exactly one Cluster whose dayIndex equals
// its lock"); fixedDate is resolved first and takes precedence when a
// waypoint somehow carries both.
package zoning

import (
	"github.com/tripforge/planner/internal/model"
)

// Options bundles the knobs zoning needs from the process config and trip input.
type Options struct {
	K                int
	RadiusMultiplier float64
	TargetPerDay     int
	DailyMaxMinutes  *float64
	TripStartDate    string
	SizePenalty      float64
	MinutesPenalty   float64
}

// Run produces the initial day-clusters for a preprocessed waypoint set.
// Output has exactly opts-implied `days` clusters (possibly with empty
// WaypointIDs for days left for later stages to fill).
func Run(waypoints []model.Waypoint, byID map[string]model.Waypoint, days int, origin model.LatLng, end, lodging *model.LatLng, opts Options) []model.Cluster {
	coords := make([]model.LatLng, len(waypoints))
	for i, w := range waypoints {
		coords[i] = w.Coord
	}

	radius, ok := EstimateRadius(coords, opts.K, opts.RadiusMultiplier)
	zones := GroupByRadius(waypoints, radius, ok)

	var dated []model.Zone
	for _, z := range zones {
		dated = append(dated, SplitByFixedDate(z, byID, opts.TripStartDate)...)
	}

	var locked []model.Zone
	for _, z := range dated {
		locked = append(locked, SplitByDayLock(z, byID)...)
	}

	var sized []model.Zone
	for _, z := range locked {
		sized = append(sized, SplitOverload(z, byID, opts.TargetPerDay, opts.DailyMaxMinutes)...)
	}

	return AssignToDays(sized, byID, days, origin, end, lodging, opts.TargetPerDay, opts.DailyMaxMinutes, opts.SizePenalty, opts.MinutesPenalty)
}
