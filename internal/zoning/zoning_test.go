package zoning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripforge/planner/internal/model"
	"github.com/tripforge/planner/internal/zoning"
)

func gridWaypoints(n int) ([]model.Waypoint, map[string]model.Waypoint) {
	var wps []model.Waypoint
	byID := map[string]model.Waypoint{}
	lat, lng := 37.5, 127.0
	for i := 0; i < n; i++ {
		w := model.Waypoint{
			ID:          "wp" + string(rune('1'+i)),
			Coord:       model.LatLng{Lat: lat + float64(i)*0.08, Lng: lng + float64(i)*0.08},
			Importance:  1,
			StayMinutes: 60,
		}
		wps = append(wps, w)
		byID[w.ID] = w
	}
	return wps, byID
}

func TestRun_ThreeDayNineWaypoints(t *testing.T) {
	wps, byID := gridWaypoints(9)
	clusters := zoning.Run(wps, byID, 3, model.LatLng{Lat: 37.5665, Lng: 126.978}, nil, nil, zoning.Options{
		K: 3, RadiusMultiplier: 1.2, TargetPerDay: 3, SizePenalty: 5, MinutesPenalty: 1,
	})
	require.Len(t, clusters, 3)

	total := 0
	seen := map[string]bool{}
	for _, c := range clusters {
		total += len(c.WaypointIDs)
		for _, id := range c.WaypointIDs {
			assert.False(t, seen[id], "waypoint %s assigned twice", id)
			seen[id] = true
		}
	}
	assert.Equal(t, 9, total)
}

func TestRun_FixedDatePinsExactDay(t *testing.T) {
	wps, byID := gridWaypoints(6)
	pinned := wps[4]
	pinned.FixedDate = "2025-06-03"
	wps[4] = pinned
	byID[pinned.ID] = pinned

	clusters := zoning.Run(wps, byID, 3, model.LatLng{Lat: 37.5, Lng: 127.0}, nil, nil, zoning.Options{
		K: 3, RadiusMultiplier: 1.2, TargetPerDay: 2, SizePenalty: 5, MinutesPenalty: 1,
		TripStartDate: "2025-06-01",
	})
	require.Len(t, clusters, 3)
	assert.Contains(t, clusters[2].WaypointIDs, pinned.ID)
}

func TestRun_DayLockPinsExactDay(t *testing.T) {
	wps, byID := gridWaypoints(6)
	locked := wps[0]
	lock := 3
	locked.DayLock = &lock
	wps[0] = locked
	byID[locked.ID] = locked

	clusters := zoning.Run(wps, byID, 3, model.LatLng{Lat: 37.5, Lng: 127.0}, nil, nil, zoning.Options{
		K: 3, RadiusMultiplier: 1.2, TargetPerDay: 2, SizePenalty: 5, MinutesPenalty: 1,
	})
	require.Len(t, clusters, 3)
	assert.Contains(t, clusters[2].WaypointIDs, locked.ID, "dayLock=3 must place the waypoint in the 0-based day-index-2 cluster")

	total := 0
	for _, c := range clusters {
		total += len(c.WaypointIDs)
	}
	assert.Equal(t, 6, total)
}

func TestRun_MixedDayLocksWithinOneZoneSplitToTheirOwnDays(t *testing.T) {
	wps, byID := gridWaypoints(2)
	lock1, lock2 := 1, 2
	a, b := wps[0], wps[1]
	a.DayLock = &lock1
	b.DayLock = &lock2
	wps[0], wps[1] = a, b
	byID[a.ID] = a
	byID[b.ID] = b

	clusters := zoning.Run(wps, byID, 2, model.LatLng{Lat: 37.5, Lng: 127.0}, nil, nil, zoning.Options{
		K: 3, RadiusMultiplier: 1.2, TargetPerDay: 1, SizePenalty: 5, MinutesPenalty: 1,
	})
	require.Len(t, clusters, 2)
	assert.Contains(t, clusters[0].WaypointIDs, a.ID)
	assert.Contains(t, clusters[1].WaypointIDs, b.ID)
}
