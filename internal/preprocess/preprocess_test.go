package preprocess_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripforge/planner/internal/model"
	"github.com/tripforge/planner/internal/preprocess"
)

func TestRun_RejectsInvalidCoordinates(t *testing.T) {
	in := []model.Waypoint{
		{ID: "a", Coord: model.LatLng{Lat: 91, Lng: 0}},
		{ID: "b", Coord: model.LatLng{Lat: 0, Lng: -181}},
	}
	_, err := preprocess.Run(in)
	require.ErrorIs(t, err, model.ErrNoWaypoints)
}

func TestRun_RejectsDuplicateIDs(t *testing.T) {
	in := []model.Waypoint{
		{ID: "a", Name: "first", Coord: model.LatLng{Lat: 1, Lng: 1}},
		{ID: "a", Name: "second", Coord: model.LatLng{Lat: 2, Lng: 2}},
	}
	out, err := preprocess.Run(in)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].Name)
}

func TestRun_MergesNearDuplicateCoordinates(t *testing.T) {
	in := []model.Waypoint{
		{ID: "a", Name: "Cafe", Coord: model.LatLng{Lat: 37.5665, Lng: 126.9780}, Importance: 1, StayMinutes: 30},
		// ~5m away, same spot essentially.
		{ID: "b", Name: "Cafe Annex", Coord: model.LatLng{Lat: 37.56654, Lng: 126.97800}, IsFixed: true, Importance: 3, StayMinutes: 90},
	}
	out, err := preprocess.Run(in)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Cafe / Cafe Annex", out[0].Name)
	assert.True(t, out[0].IsFixed)
	assert.Equal(t, 3.0, out[0].Importance)
	assert.Equal(t, 90.0, out[0].StayMinutes)
}

func TestRun_AppliesDefaults(t *testing.T) {
	in := []model.Waypoint{{ID: "a", Coord: model.LatLng{Lat: 1, Lng: 1}}}
	out, err := preprocess.Run(in)
	require.NoError(t, err)
	assert.Equal(t, 1.0, out[0].Importance)
	assert.Equal(t, 60.0, out[0].StayMinutes)
}

func TestRun_IdempotentOnCleanInput(t *testing.T) {
	in := []model.Waypoint{
		{ID: "a", Coord: model.LatLng{Lat: 1, Lng: 1}},
		{ID: "b", Coord: model.LatLng{Lat: 5, Lng: 5}},
	}
	once, err := preprocess.Run(in)
	require.NoError(t, err)
	twice, err := preprocess.Run(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}
