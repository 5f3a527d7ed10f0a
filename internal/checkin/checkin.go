// Package checkin inserts a mid-day lodging break into a day's plan when
// the check-in time falls inside the visit sequence (spec §4.5).
package checkin

import (
	"github.com/tripforge/planner/internal/geo"
	"github.com/tripforge/planner/internal/model"
)

// walkingKmPerMinute is the 12 km/h straight-line arrival estimate from spec §4.5.
const walkingKmPerMinute = 12.0 / 60.0

// Split returns the 0-based index of the first-PM waypoint in order — the
// first one whose scheduled arrival is at or after checkInMinute (spec §4.5:
// "record checkInBreakIndex = i") — or nil if the check-in doesn't land
// inside this day. The break falls on the edge landing on that index:
// order[idx-1] (last-AM) -> order[idx] (first-PM). day's start anchor is
// used as the position before the first waypoint.
func Split(order []string, byID map[string]model.Waypoint, dayStart model.LatLng, checkInMinute float64) *int {
	if len(order) == 0 {
		return nil
	}
	arrival := 0.0
	prevCoord := dayStart
	for i, id := range order {
		w, ok := byID[id]
		if !ok {
			continue
		}
		travelMinutes := geo.HaversineKm(prevCoord, w.Coord) / walkingKmPerMinute
		arrival += travelMinutes

		pinnedMinute, hasPinned := model.MinutesOfDay(w.FixedStartTime)
		scheduled := arrival
		if w.IsFixed && hasPinned {
			scheduled = pinnedMinute
		}

		if scheduled >= checkInMinute {
			idx := i
			return &idx
		}

		arrival += w.StayMinutes
		prevCoord = w.Coord
	}
	return nil
}
