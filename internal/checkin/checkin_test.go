package checkin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripforge/planner/internal/checkin"
	"github.com/tripforge/planner/internal/model"
)

func TestSplit_FindsBreakWhenCheckInFallsMidDay(t *testing.T) {
	byID := map[string]model.Waypoint{
		"a": {ID: "a", Coord: model.LatLng{Lat: 0, Lng: 0.01}, StayMinutes: 30},
		"b": {ID: "b", Coord: model.LatLng{Lat: 0, Lng: 0.02}, StayMinutes: 30},
		"c": {ID: "c", Coord: model.LatLng{Lat: 0, Lng: 0.03}, StayMinutes: 30},
	}
	start := model.LatLng{Lat: 0, Lng: 0}

	idx := checkin.Split([]string{"a", "b", "c"}, byID, start, 40)
	require.NotNil(t, idx)
	assert.GreaterOrEqual(t, *idx, 0)
	assert.Less(t, *idx, 3)
}

func TestSplit_NoBreakWhenCheckInAfterAllVisits(t *testing.T) {
	byID := map[string]model.Waypoint{
		"a": {ID: "a", Coord: model.LatLng{Lat: 0, Lng: 0.001}, StayMinutes: 10},
	}
	start := model.LatLng{Lat: 0, Lng: 0}
	idx := checkin.Split([]string{"a"}, byID, start, 100000)
	assert.Nil(t, idx)
}
