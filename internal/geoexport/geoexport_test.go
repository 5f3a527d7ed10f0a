package geoexport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripforge/planner/internal/model"
)

func TestExport_ProducesLineAndPointFeaturesPerDay(t *testing.T) {
	byID := map[string]model.Waypoint{
		"a": {ID: "a", Name: "A", Coord: model.LatLng{Lat: 35.0, Lng: 139.0}},
		"b": {ID: "b", Name: "B", Coord: model.LatLng{Lat: 35.01, Lng: 139.0}},
	}
	output := model.TripOutput{
		TripID: "t1",
		Mode:   model.ModeOpen,
		DayPlans: []model.DayPlan{
			{DayIndex: 1, WaypointOrder: []string{"a", "b"}, ExcludedWaypointIDs: []string{"c"}},
		},
	}
	origin := model.LatLng{Lat: 34.99, Lng: 139.0}

	fc := Export(output, byID, origin, nil, nil)
	require.NotNil(t, fc)
	assert.GreaterOrEqual(t, len(fc.Features), 3) // 1 line + 2 points
}

func TestExport_SkipsDaysWithFewerThanTwoResolvableStops(t *testing.T) {
	byID := map[string]model.Waypoint{
		"a": {ID: "a", Coord: model.LatLng{Lat: 35.0, Lng: 139.0}},
	}
	output := model.TripOutput{
		DayPlans: []model.DayPlan{{DayIndex: 1, WaypointOrder: []string{"a"}}},
	}
	fc := Export(output, byID, model.LatLng{}, nil, nil)
	for _, f := range fc.Features {
		assert.NotEqual(t, "LineString", f.Geometry.Type)
	}
}
