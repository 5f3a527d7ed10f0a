// Package reconcile implements the two-phase time-budget enforcement loop
// of spec §4.8: a pre-routing coarse-proxy pass followed by a post-routing
// true-cost pass, each bounded by an iteration cap, trimming the
// lowest-value waypoints from overloaded days until every day fits its
// budget or the caps are exhausted.
package reconcile

import (
	"context"
	"math"

	"github.com/tripforge/planner/internal/model"
)

// Run executes Phase A then Phase B and returns the reconciled day plans,
// the final priced segments, and any warnings accumulated along the way.
// totalWaypoints bounds Phase A's removal count at
// floor(totalWaypoints*maxProxyRemovalFrac); maxPhaseBRounds bounds Phase B's
// re-extract/re-price iterations.
func Run(ctx context.Context, dayPlans []model.DayPlan, byID map[string]model.Waypoint, totalWaypoints int, dailyMaxMinutes *float64, extract ExtractFunc, pricer Pricer, maxProxyRemovalFrac float64, maxPhaseBRounds int) ([]model.DayPlan, []model.SegmentCost, []string, error) {
	maxRemovals := int(math.Floor(float64(totalWaypoints) * maxProxyRemovalFrac))

	afterA, warningsA := PhaseA(dayPlans, byID, dailyMaxMinutes, maxRemovals)
	afterB, costs, warningsB, err := PhaseB(ctx, afterA, byID, dailyMaxMinutes, extract, pricer, maxPhaseBRounds)
	if err != nil {
		return nil, nil, nil, err
	}

	warnings := append(append([]string{}, warningsA...), warningsB...)
	return afterB, costs, warnings, nil
}
