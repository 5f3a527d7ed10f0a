package reconcile

import (
	"fmt"
	"math"

	"github.com/tripforge/planner/internal/model"
)

// PhaseA implements spec §4.8 "Phase A": while any day's coarse haversine
// proxy exceeds dailyMaxMinutes and fewer than maxRemovals points have been
// dropped, removes the single worst-scoring removable waypoint from the
// single most-overloaded day, one at a time, recomputing the proxy after
// each removal.
func PhaseA(dayPlans []model.DayPlan, byID map[string]model.Waypoint, dailyMaxMinutes *float64, maxRemovals int) ([]model.DayPlan, []string) {
	plans := cloneDayPlans(dayPlans)
	if dailyMaxMinutes == nil {
		return plans, nil
	}
	limit := *dailyMaxMinutes

	var warnings []string
	removals := 0

	for removals < maxRemovals {
		worstDay, worstExcess := -1, 0.0
		for i := range plans {
			proxy := dayProxyMinutes(plans[i].WaypointOrder, byID)
			if excess := proxy - limit; excess > worstExcess {
				worstExcess = excess
				worstDay = i
			}
		}
		if worstDay == -1 {
			break // no day over budget
		}

		dp := &plans[worstDay]
		coords := coordsOf(dp.WaypointOrder, byID)

		bestIdx := -1
		bestScore := math.Inf(-1)
		for idx, id := range dp.WaypointOrder {
			wp := byID[id]
			if !removable(wp) {
				continue
			}
			if s := score(coords, idx, wp); s > bestScore {
				bestScore = s
				bestIdx = idx
			}
		}
		if bestIdx == -1 {
			warnings = append(warnings, fmt.Sprintf("day %d exceeds the time budget but has no removable waypoint", dp.DayIndex))
			break
		}

		removedID := dp.WaypointOrder[bestIdx]
		dp.ExcludedWaypointIDs = append(dp.ExcludedWaypointIDs, removedID)
		dp.WaypointOrder = removeAt(dp.WaypointOrder, bestIdx)
		removals++
	}

	if removals >= maxRemovals {
		for i := range plans {
			if dayProxyMinutes(plans[i].WaypointOrder, byID) > limit {
				warnings = append(warnings, "reached the maximum proxy-phase removal count before all days met budget")
				break
			}
		}
	}
	return plans, warnings
}

func removeAt(order []string, idx int) []string {
	out := make([]string, 0, len(order)-1)
	out = append(out, order[:idx]...)
	out = append(out, order[idx+1:]...)
	return out
}

func cloneDayPlans(dayPlans []model.DayPlan) []model.DayPlan {
	out := make([]model.DayPlan, len(dayPlans))
	for i, dp := range dayPlans {
		out[i] = dp
		out[i].WaypointOrder = append([]string{}, dp.WaypointOrder...)
		out[i].ExcludedWaypointIDs = append([]string{}, dp.ExcludedWaypointIDs...)
	}
	return out
}
