package segments_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripforge/planner/internal/model"
	"github.com/tripforge/planner/internal/segments"
)

func TestExtract_FirstDayStartsAtOrigin(t *testing.T) {
	byID := map[string]model.Waypoint{
		"a": {ID: "a", Coord: model.LatLng{Lat: 1, Lng: 1}},
		"b": {ID: "b", Coord: model.LatLng{Lat: 2, Lng: 2}},
	}
	day := model.DayPlan{DayIndex: 1, WaypointOrder: []string{"a", "b"}}
	origin := model.LatLng{Lat: 0, Lng: 0}

	reqs := segments.Extract(day, true, false, "", byID, origin, nil, nil)
	require.NotEmpty(t, reqs)
	assert.Equal(t, model.OriginID, reqs[0].Key.FromID)
	assert.Equal(t, "a", reqs[0].Key.ToID)
	assert.Equal(t, model.SegmentKey{FromID: "a", ToID: "b"}, reqs[1].Key)
}

func TestExtract_LoopTripEndsAtAccommodation(t *testing.T) {
	byID := map[string]model.Waypoint{
		"a": {ID: "a", Coord: model.LatLng{Lat: 1, Lng: 1}},
	}
	lodging := model.LatLng{Lat: 0.5, Lng: 0.5}
	day := model.DayPlan{DayIndex: 1, WaypointOrder: []string{"a"}}

	reqs := segments.Extract(day, true, true, "", byID, model.LatLng{Lat: 0, Lng: 0}, nil, &lodging)
	require.Len(t, reqs, 2)
	assert.Equal(t, model.OriginID, reqs[0].Key.FromID)
	assert.Equal(t, model.AccommodationID, reqs[1].Key.ToID)
}

func TestExtract_CheckInBreakInsertsLodgingDetour(t *testing.T) {
	byID := map[string]model.Waypoint{
		"a": {ID: "a", Coord: model.LatLng{Lat: 1, Lng: 1}},
		"b": {ID: "b", Coord: model.LatLng{Lat: 2, Lng: 2}},
	}
	lodging := model.LatLng{Lat: 1.5, Lng: 1.5}
	// CheckInBreakIndex names the first-PM waypoint (checkin.Split's "i");
	// "b" is first-PM here, so the detour replaces the a->b edge.
	breakIdx := 1
	day := model.DayPlan{DayIndex: 1, WaypointOrder: []string{"a", "b"}, CheckInBreakIndex: &breakIdx}

	reqs := segments.Extract(day, false, false, "prev", byID, model.LatLng{}, nil, &lodging)
	var sawAccomFromA, sawAccomToB bool
	for _, r := range reqs {
		if r.Key.FromID == "a" && r.Key.ToID == model.AccommodationID {
			sawAccomFromA = true
		}
		if r.Key.FromID == model.AccommodationID && r.Key.ToID == "b" {
			sawAccomToB = true
		}
	}
	assert.True(t, sawAccomFromA)
	assert.True(t, sawAccomToB)
}

func TestExtract_CheckInBreakOnLastStopIsNotDropped(t *testing.T) {
	byID := map[string]model.Waypoint{
		"a": {ID: "a", Coord: model.LatLng{Lat: 1, Lng: 1}},
		"b": {ID: "b", Coord: model.LatLng{Lat: 2, Lng: 2}},
		"c": {ID: "c", Coord: model.LatLng{Lat: 3, Lng: 3}},
	}
	lodging := model.LatLng{Lat: 2.5, Lng: 2.5}
	// "c" (the day's last stop) is first-PM; last-AM is "b", one edge
	// earlier than the loop's final iteration — must not be skipped.
	breakIdx := 2
	day := model.DayPlan{DayIndex: 1, WaypointOrder: []string{"a", "b", "c"}, CheckInBreakIndex: &breakIdx}

	reqs := segments.Extract(day, false, false, "prev", byID, model.LatLng{}, nil, &lodging)
	var sawAtoB, sawBToAccom, sawAccomToC bool
	for _, r := range reqs {
		if r.Key.FromID == "a" && r.Key.ToID == "b" {
			sawAtoB = true
		}
		if r.Key.FromID == "b" && r.Key.ToID == model.AccommodationID {
			sawBToAccom = true
		}
		if r.Key.FromID == model.AccommodationID && r.Key.ToID == "c" {
			sawAccomToC = true
		}
	}
	assert.True(t, sawAtoB, "edge before the break must be untouched")
	assert.True(t, sawBToAccom, "last-AM -> lodging hop must be present")
	assert.True(t, sawAccomToC, "lodging -> first-PM hop must be present")
}
