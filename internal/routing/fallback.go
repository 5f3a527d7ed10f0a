package routing

import (
	"github.com/tripforge/planner/internal/geo"
	"github.com/tripforge/planner/internal/model"
)

const (
	walkingSynthKmPerHour  = 4.0
	fallbackWalkCutoffM    = 500.0
	fallbackDrivingKmPerH  = 20.0
	fallbackDrivingFlatMin = 5.0
)

// synthesizeWalk produces the walking-failure fallback of spec §4.7: a
// walking estimate at 4 km/h, used when the walking provider itself fails.
func synthesizeWalk(key model.SegmentKey, from, to model.LatLng) model.SegmentCost {
	distM := geo.HaversineMeters(from, to)
	durationMin := (distM / 1000.0) / walkingSynthKmPerHour * 60.0
	return model.SegmentCost{
		Key:             key,
		DurationMinutes: durationMin,
		DistanceMeters:  distM,
		Fallback:        true,
		Warning:         "walking provider unavailable; synthesized at 4 km/h",
	}
}

// fallbackCost produces the final-failure fallback of spec §4.7's "Retry"
// section: distance = haversine; duration = walking-rate under 500m else
// the driving-rate formula; no transitDetails.
func fallbackCost(key model.SegmentKey, from, to model.LatLng, warning string) model.SegmentCost {
	distM := geo.HaversineMeters(from, to)
	var durationMin float64
	if distM < fallbackWalkCutoffM {
		durationMin = (distM / 1000.0) / walkingSynthKmPerHour * 60.0
	} else {
		distKm := distM / 1000.0
		durationMin = (distKm/fallbackDrivingKmPerH)*60.0 + fallbackDrivingFlatMin
	}
	return model.SegmentCost{
		Key:             key,
		DurationMinutes: durationMin,
		DistanceMeters:  distM,
		Fallback:        true,
		Warning:         warning,
	}
}
