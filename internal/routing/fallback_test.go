package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripforge/planner/internal/model"
)

func TestFallbackCost_UnderCutoffUsesWalkingRate(t *testing.T) {
	from := model.LatLng{Lat: 35.0, Lng: 139.0}
	to := model.LatLng{Lat: 35.002, Lng: 139.0}
	cost := fallbackCost(model.SegmentKey{}, from, to, "test")
	assert.True(t, cost.Fallback)
	assert.Greater(t, cost.DurationMinutes, 0.0)
}

func TestFallbackCost_OverCutoffUsesDrivingFormula(t *testing.T) {
	from := model.LatLng{Lat: 35.0, Lng: 139.0}
	to := model.LatLng{Lat: 35.1, Lng: 139.0}
	cost := fallbackCost(model.SegmentKey{}, from, to, "test")
	assert.GreaterOrEqual(t, cost.DurationMinutes, fallbackDrivingFlatMin)
}

func TestSynthesizeWalk_ProducesFourKmhEstimate(t *testing.T) {
	from := model.LatLng{Lat: 35.0, Lng: 139.0}
	to := model.LatLng{Lat: 35.01, Lng: 139.0}
	cost := synthesizeWalk(model.SegmentKey{FromID: "a", ToID: "b"}, from, to)
	assert.True(t, cost.Fallback)
	assert.Equal(t, "a", cost.Key.FromID)
	assert.Greater(t, cost.DurationMinutes, 0.0)
}
