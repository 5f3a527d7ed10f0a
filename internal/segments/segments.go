// Package segments translates ordered day plans into the directed
// (from,to) coordinate pairs the routing client prices (spec §4.6).
package segments

import (
	"log"

	"github.com/tripforge/planner/internal/model"
)

var logger = log.New(log.Writer(), "[segments] ", log.LstdFlags)

// Request is one directed hop awaiting a routed cost.
type Request struct {
	Key  model.SegmentKey
	From model.LatLng
	To   model.LatLng
}

// coordLookup resolves a waypoint id or sentinel id to a coordinate.
type coordLookup struct {
	byID    map[string]model.Waypoint
	origin  model.LatLng
	dest    *model.LatLng
	lodging *model.LatLng
}

func (l coordLookup) resolve(id string) (model.LatLng, bool) {
	switch id {
	case model.OriginID:
		return l.origin, true
	case model.DestinationID:
		if l.dest != nil {
			return *l.dest, true
		}
		return model.LatLng{}, false
	case model.AccommodationID:
		if l.lodging != nil {
			return *l.lodging, true
		}
		return model.LatLng{}, false
	default:
		w, ok := l.byID[id]
		return w.Coord, ok
	}
}

// Extract builds the ordered segment request list for one day (spec §4.6).
// prevDayLastID is the previous day's final waypoint id, used as the start
// id when there is no lodging and this isn't day 1.
func Extract(day model.DayPlan, isFirstDay, isLastDay bool, prevDayLastID string, byID map[string]model.Waypoint, origin model.LatLng, dest, lodging *model.LatLng) []Request {
	lookup := coordLookup{byID: byID, origin: origin, dest: dest, lodging: lodging}
	order := day.WaypointOrder
	if len(order) == 0 {
		return nil
	}

	var reqs []Request

	startID := startIDFor(isFirstDay, lodging, prevDayLastID)
	appendReq(&reqs, lookup, startID, order[0])

	// CheckInBreakIndex names the first-PM waypoint (checkin.Split's "record
	// checkInBreakIndex = i"), so the straight edge it replaces is the one
	// landing on it: order[breakAt-1] (last-AM) -> order[breakAt] (first-PM).
	breakAt := -1
	if day.CheckInBreakIndex != nil {
		breakAt = *day.CheckInBreakIndex
	}

	for i := 0; i+1 < len(order); i++ {
		if breakAt == i+1 && lodging != nil {
			appendReq(&reqs, lookup, order[i], model.AccommodationID)
			appendReq(&reqs, lookup, model.AccommodationID, order[i+1])
			continue
		}
		appendReq(&reqs, lookup, order[i], order[i+1])
	}

	endID, ok := endIDFor(isLastDay, dest, lodging, order[len(order)-1], byID)
	if ok {
		appendReq(&reqs, lookup, order[len(order)-1], endID)
	}

	return reqs
}

func startIDFor(isFirstDay bool, lodging *model.LatLng, prevDayLastID string) string {
	switch {
	case isFirstDay:
		return model.OriginID
	case lodging != nil:
		return model.AccommodationID
	default:
		return prevDayLastID
	}
}

// endIDFor resolves spec §4.6 step 4. almostSame guards against emitting
// a same-point destination hop (distance < 1e-5 degrees from the last stop).
func endIDFor(isLastDay bool, dest, lodging *model.LatLng, lastID string, byID map[string]model.Waypoint) (string, bool) {
	last, ok := byID[lastID]
	if !ok {
		return "", false
	}
	if isLastDay && dest != nil {
		if !almostSame(last.Coord, *dest) {
			return model.DestinationID, true
		}
	}
	if lodging != nil {
		return model.AccommodationID, true
	}
	return "", false
}

func almostSame(a, b model.LatLng) bool {
	const eps = 1e-5
	return absf(a.Lat-b.Lat) <= eps && absf(a.Lng-b.Lng) <= eps
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func appendReq(reqs *[]Request, lookup coordLookup, fromID, toID string) {
	from, ok1 := lookup.resolve(fromID)
	to, ok2 := lookup.resolve(toID)
	if !ok1 || !ok2 {
		logger.Printf("dropping segment %s -> %s: missing coordinate", fromID, toID)
		return
	}
	*reqs = append(*reqs, Request{
		Key:  model.SegmentKey{FromID: fromID, ToID: toID},
		From: from,
		To:   to,
	})
}
