package zoning

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tripforge/planner/internal/geo"
	"github.com/tripforge/planner/internal/model"
	"github.com/tripforge/planner/internal/unionfind"
)

// GroupByRadius partitions waypoints into zones using union-find: any pair
// within radius meters of each other is unioned into the same zone (spec
// §4.2 "Union-find grouping"). When ok is false (radius estimation
// degenerate), every waypoint is placed into a single zone.
func GroupByRadius(waypoints []model.Waypoint, radius float64, ok bool) []model.Zone {
	n := len(waypoints)
	if n == 0 {
		return nil
	}
	if !ok {
		return []model.Zone{buildZone(waypoints)}
	}

	dsu := unionfind.New(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if geo.HaversineMeters(waypoints[i].Coord, waypoints[j].Coord) <= radius {
				dsu.Union(i, j)
			}
		}
	}

	zones := make([]model.Zone, 0, n)
	for _, members := range dsu.Components() {
		group := make([]model.Waypoint, 0, len(members))
		for _, idx := range members {
			group = append(group, waypoints[idx])
		}
		zones = append(zones, buildZone(group))
	}
	return zones
}

func buildZone(members []model.Waypoint) model.Zone {
	ids := make([]string, len(members))
	coords := make([]model.LatLng, len(members))
	var minutes float64
	var hasFixed bool
	for i, w := range members {
		ids[i] = w.ID
		coords[i] = w.Coord
		minutes += w.StayMinutes
		if w.IsFixed {
			hasFixed = true
		}
	}
	return model.Zone{
		ZoneID:           fmt.Sprintf("zone-%s", uuid.NewString()),
		WaypointIDs:      ids,
		Centroid:         geo.Centroid(coords),
		EstimatedMinutes: minutes,
		HasFixed:         hasFixed,
	}
}
