// Package geoexport renders a planned trip as a GeoJSON FeatureCollection:
// one LineString per day's route plus one Point per waypoint of that day,
// with excluded waypoints included and flagged "excluded": true.
// It supplements the engine's out-of-scope UI/export layer with a
// consumable artifact a caller can hand straight to a map renderer.
package geoexport

import (
	geojson "github.com/paulmach/go.geojson"

	"github.com/tripforge/planner/internal/model"
)

// Export renders output as a GeoJSON FeatureCollection. byID resolves
// waypoint ids to coordinates; origin/dest/lodging resolve the sentinel ids
// segment extraction uses. Each day's line is built from its WaypointOrder
// alone, so origin, destination and lodging bookends are not part of it.
func Export(output model.TripOutput, byID map[string]model.Waypoint, origin model.LatLng, dest, lodging *model.LatLng) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	resolve := func(id string) (model.LatLng, bool) {
		switch id {
		case model.OriginID:
			return origin, true
		case model.DestinationID:
			if dest != nil {
				return *dest, true
			}
			return model.LatLng{}, false
		case model.AccommodationID:
			if lodging != nil {
				return *lodging, true
			}
			return model.LatLng{}, false
		default:
			w, ok := byID[id]
			return w.Coord, ok
		}
	}

	for _, dp := range output.DayPlans {
		if len(dp.WaypointOrder) == 0 {
			continue
		}
		var line [][]float64
		for _, id := range dp.WaypointOrder {
			if c, ok := resolve(id); ok {
				line = append(line, []float64{c.Lng, c.Lat})
			}
		}
		if len(line) < 2 {
			continue
		}
		feature := geojson.NewLineStringFeature(line)
		feature.SetProperty("dayIndex", dp.DayIndex)
		fc.AddFeature(feature)

		for _, id := range dp.WaypointOrder {
			w, ok := byID[id]
			if !ok {
				continue
			}
			point := geojson.NewPointFeature([]float64{w.Coord.Lng, w.Coord.Lat})
			point.SetProperty("id", w.ID)
			point.SetProperty("name", w.Name)
			point.SetProperty("dayIndex", dp.DayIndex)
			point.SetProperty("excluded", false)
			fc.AddFeature(point)
		}
		for _, id := range dp.ExcludedWaypointIDs {
			w, ok := byID[id]
			if !ok {
				continue
			}
			point := geojson.NewPointFeature([]float64{w.Coord.Lng, w.Coord.Lat})
			point.SetProperty("id", w.ID)
			point.SetProperty("name", w.Name)
			point.SetProperty("dayIndex", dp.DayIndex)
			point.SetProperty("excluded", true)
			fc.AddFeature(point)
		}
	}

	return fc
}
