// Package preprocess validates and deduplicates raw waypoints before
// zoning sees them (spec §4.1): reject invalid entries, reject duplicate
// IDs, and merge near-duplicate coordinates within 10 meters.
package preprocess

import (
	"github.com/tripforge/planner/internal/geo"
	"github.com/tripforge/planner/internal/model"
)

// mergeRadiusMeters is the distance within which two waypoints are merged
// into one rather than kept as separate retained points (spec §3).
const mergeRadiusMeters = 10.0

// Run applies the three ordered rules from spec §4.1 and returns the
// cleaned waypoint list in original order minus rejects. It returns
// model.ErrNoWaypoints if nothing survives.
func Run(raw []model.Waypoint) ([]model.Waypoint, error) {
	seenIDs := make(map[string]bool, len(raw))
	accepted := make([]model.Waypoint, 0, len(raw))

	for _, w := range raw {
		if w.ID == "" || !w.Coord.Valid() {
			continue
		}
		if seenIDs[w.ID] {
			continue
		}
		seenIDs[w.ID] = true

		mergedInto := -1
		for i := range accepted {
			if geo.HaversineMeters(accepted[i].Coord, w.Coord) <= mergeRadiusMeters {
				mergedInto = i
				break
			}
		}
		if mergedInto == -1 {
			accepted = append(accepted, w)
			continue
		}
		accepted[mergedInto] = merge(accepted[mergedInto], w)
	}

	if len(accepted) == 0 {
		return nil, model.ErrNoWaypoints
	}
	for i := range accepted {
		applyDefaults(&accepted[i])
	}
	return accepted, nil
}

// applyDefaults fills the spec-mandated defaults for optional fields
// (importance=1, stayMinutes=60) when the caller left them unset.
func applyDefaults(w *model.Waypoint) {
	if w.Importance == 0 {
		w.Importance = 1
	}
	if w.StayMinutes == 0 {
		w.StayMinutes = 60
	}
}

// merge combines a newly-seen waypoint into an already-accepted one that
// lies within the merge radius, per spec §4.1 rule 3.
func merge(keep, incoming model.Waypoint) model.Waypoint {
	if incoming.Name != "" && incoming.Name != keep.Name {
		if keep.Name == "" {
			keep.Name = incoming.Name
		} else {
			keep.Name = keep.Name + " / " + incoming.Name
		}
	}
	keep.IsFixed = keep.IsFixed || incoming.IsFixed
	if keep.DayLock == nil {
		keep.DayLock = incoming.DayLock
	}
	if incoming.Importance > keep.Importance {
		keep.Importance = incoming.Importance
	}
	if incoming.StayMinutes > keep.StayMinutes {
		keep.StayMinutes = incoming.StayMinutes
	}
	if keep.FixedDate == "" {
		keep.FixedDate = incoming.FixedDate
	}
	if keep.FixedStartTime == "" {
		keep.FixedStartTime = incoming.FixedStartTime
	}
	return keep
}
