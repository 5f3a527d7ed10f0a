package zoning

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/tripforge/planner/internal/geo"
	"github.com/tripforge/planner/internal/model"
)

// minutesPerKm expresses the 5 min/km anchorCost conversion from spec §4.2.
const minutesPerKm = 5.0

// dayAnchor is the {start, end} pair a day's zones are scored against.
type dayAnchor struct {
	start model.LatLng
	end   model.LatLng
}

// buildDayAnchors computes each day's anchor per spec §4.2 "Day assignment":
// start = lodging (first day: origin); end = lodging (last day: end ?? lodging).
func buildDayAnchors(days int, origin model.LatLng, end, lodging *model.LatLng) []dayAnchor {
	anchors := make([]dayAnchor, days)
	for i := 0; i < days; i++ {
		var start, stop model.LatLng
		if i == 0 {
			start = origin
		} else if lodging != nil {
			start = *lodging
		} else {
			start = origin
		}
		if i == days-1 {
			switch {
			case end != nil:
				stop = *end
			case lodging != nil:
				stop = *lodging
			default:
				stop = origin
			}
		} else if lodging != nil {
			stop = *lodging
		} else {
			stop = origin
		}
		anchors[i] = dayAnchor{start: start, end: stop}
	}
	return anchors
}

// AssignToDays implements spec §4.2 "Day assignment": zones with a resolved
// fixedDayIndex go straight to that day; remaining zones, taken in
// decreasing estimatedMinutes, go to the day minimizing anchorCost +
// 5*sizeOverflow + 1*minutesOverflow (ties toward the lower day index).
func AssignToDays(zones []model.Zone, byID map[string]model.Waypoint, days int, origin model.LatLng, end, lodging *model.LatLng, targetPerDay int, dailyMaxMinutes *float64, sizePenalty, minutesPenalty float64) []model.Cluster {
	anchors := buildDayAnchors(days, origin, end, lodging)
	daySizes := make([]int, days)
	dayMinutes := make([]float64, days)
	dayZoneIDs := make([][]string, days)

	var unassigned []model.Zone
	for _, z := range zones {
		if z.FixedDayIndex != nil && *z.FixedDayIndex >= 0 && *z.FixedDayIndex < days {
			d := *z.FixedDayIndex
			dayZoneIDs[d] = append(dayZoneIDs[d], z.WaypointIDs...)
			daySizes[d] += len(z.WaypointIDs)
			dayMinutes[d] += z.EstimatedMinutes
			continue
		}
		unassigned = append(unassigned, z)
	}

	sort.SliceStable(unassigned, func(i, j int) bool {
		return unassigned[i].EstimatedMinutes > unassigned[j].EstimatedMinutes
	})

	for _, z := range unassigned {
		best := 0
		bestScore := math.Inf(1)
		for d := 0; d < days; d++ {
			score := anchorCost(z.Centroid, anchors[d]) +
				sizePenalty*overflow(float64(daySizes[d]+len(z.WaypointIDs)-targetPerDay)) +
				minutesPenalty*minutesOverflow(dayMinutes[d]+z.EstimatedMinutes, dailyMaxMinutes)
			if score < bestScore {
				bestScore = score
				best = d
			}
		}
		dayZoneIDs[best] = append(dayZoneIDs[best], z.WaypointIDs...)
		daySizes[best] += len(z.WaypointIDs)
		dayMinutes[best] += z.EstimatedMinutes
	}

	clusters := make([]model.Cluster, days)
	for d := 0; d < days; d++ {
		coords := make([]model.LatLng, 0, len(dayZoneIDs[d]))
		for _, id := range dayZoneIDs[d] {
			if w, ok := byID[id]; ok {
				coords = append(coords, w.Coord)
			}
		}
		clusters[d] = model.Cluster{
			ClusterID:   fmt.Sprintf("cluster-%s", uuid.NewString()),
			DayIndex:    d + 1,
			WaypointIDs: dayZoneIDs[d],
			Centroid:    geo.Centroid(coords),
		}
	}
	return clusters
}

func anchorCost(centroid model.LatLng, a dayAnchor) float64 {
	distKm := geo.HaversineKm(centroid, a.start) + geo.HaversineKm(centroid, a.end)
	return distKm * minutesPerKm
}

func overflow(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func minutesOverflow(total float64, limit *float64) float64 {
	if limit == nil {
		return 0
	}
	return overflow(total - *limit)
}
