package reconcile

import (
	"context"
	"fmt"
	"sort"

	"github.com/tripforge/planner/internal/geo"
	"github.com/tripforge/planner/internal/model"
	"github.com/tripforge/planner/internal/routing"
	"github.com/tripforge/planner/internal/segments"
)

// Pricer is the subset of *routing.Client's behavior PhaseB depends on.
type Pricer interface {
	Price(ctx context.Context, reqs []routing.Req) ([]model.SegmentCost, error)
}

// ExtractFunc builds one day's ordered segment requests (internal/segments.Extract
// bound to that day's anchors), so PhaseB can re-extract after each removal
// round without knowing about origin/lodging/destination itself.
type ExtractFunc func(dayPlan model.DayPlan) []segments.Request

// PhaseB implements spec §4.8 "Phase B": using real SegmentCosts, finds the
// single worst-overloaded day each round and removes removable waypoints in
// descending score until the accumulated estimated time-saving covers the
// day's excess, then re-extracts and re-prices (the cache absorbs unchanged
// segments) for up to maxRounds rounds.
func PhaseB(ctx context.Context, dayPlans []model.DayPlan, byID map[string]model.Waypoint, dailyMaxMinutes *float64, extract ExtractFunc, pricer Pricer, maxRounds int) ([]model.DayPlan, []model.SegmentCost, []string, error) {
	plans := cloneDayPlans(dayPlans)
	var warnings []string

	for round := 1; ; round++ {
		reqsPerDay := make([][]routing.Req, len(plans))
		pricedPerDay := make([][]model.SegmentCost, len(plans))
		var flatCosts []model.SegmentCost

		for i, dp := range plans {
			reqs := toRoutingReqs(extract(dp))
			reqsPerDay[i] = reqs
			priced, err := pricer.Price(ctx, reqs)
			if err != nil {
				return plans, nil, warnings, err
			}
			pricedPerDay[i] = priced
			flatCosts = append(flatCosts, priced...)
		}

		if dailyMaxMinutes == nil {
			return plans, flatCosts, warnings, nil
		}
		limit := *dailyMaxMinutes

		type overload struct {
			dayIdx int
			excess float64
		}
		var overloaded []overload
		for i, dp := range plans {
			total := dayTrueMinutes(dp, byID, pricedPerDay[i])
			if total > limit {
				overloaded = append(overloaded, overload{i, total - limit})
			}
		}
		if len(overloaded) == 0 {
			return plans, flatCosts, warnings, nil
		}
		if round > maxRounds {
			warnings = append(warnings, "reconciliation did not converge within the round limit")
			return plans, flatCosts, warnings, nil
		}

		sort.Slice(overloaded, func(a, b int) bool { return overloaded[a].excess > overloaded[b].excess })
		worst := overloaded[0]
		dp := &plans[worst.dayIdx]

		if !removeForBudget(dp, byID, reqsPerDay[worst.dayIdx], pricedPerDay[worst.dayIdx], worst.excess) {
			warnings = append(warnings, fmt.Sprintf("day %d has no removable waypoint left to meet its time budget", dp.DayIndex))
			return plans, flatCosts, warnings, nil
		}
	}
}

// dayTrueMinutes sums the priced segment durations for the day plus each
// remaining member's stay time (spec §4.8 "true day total").
func dayTrueMinutes(dp model.DayPlan, byID map[string]model.Waypoint, priced []model.SegmentCost) float64 {
	total := 0.0
	for _, c := range priced {
		total += c.DurationMinutes
	}
	for _, id := range dp.WaypointOrder {
		total += byID[id].StayMinutes
	}
	return total
}

func toRoutingReqs(reqs []segments.Request) []routing.Req {
	out := make([]routing.Req, len(reqs))
	for i, r := range reqs {
		out[i] = routing.Req{Key: r.Key, From: r.From, To: r.To}
	}
	return out
}

// incidentSavings locates the two segments adjacent to waypoint id within a
// day's priced request sequence and returns their combined duration plus the
// coordinates that would become directly adjacent if id were removed.
func incidentSavings(reqs []routing.Req, priced []model.SegmentCost, id string) (timeWith float64, bypassFrom, bypassTo model.LatLng, ok bool) {
	inIdx, outIdx := -1, -1
	for i, r := range reqs {
		if r.Key.ToID == id {
			inIdx = i
		}
		if r.Key.FromID == id {
			outIdx = i
		}
	}
	if inIdx == -1 || outIdx == -1 || inIdx >= len(priced) || outIdx >= len(priced) {
		return 0, model.LatLng{}, model.LatLng{}, false
	}
	timeWith = priced[inIdx].DurationMinutes + priced[outIdx].DurationMinutes
	return timeWith, reqs[inIdx].From, reqs[outIdx].To, true
}

// removeForBudget removes removable waypoints from dp in descending score
// order, accumulating stay+incident-edge savings (the bypass edge is
// estimated with the same haversine proxy Phase A uses, since it has not
// been priced yet) until the accumulated saving covers excessMinutes.
// Returns false if no removable waypoint could be identified.
func removeForBudget(dp *model.DayPlan, byID map[string]model.Waypoint, reqs []routing.Req, priced []model.SegmentCost, excessMinutes float64) bool {
	type candidate struct {
		id     string
		score  float64
		saving float64
	}

	coords := coordsOf(dp.WaypointOrder, byID)
	var candidates []candidate
	for idx, id := range dp.WaypointOrder {
		wp := byID[id]
		if !removable(wp) {
			continue
		}
		timeWith, from, to, ok := incidentSavings(reqs, priced, id)
		if !ok {
			continue
		}
		timeWithout := geo.HaversineKm(from, to) * proxyMinutesPerKm
		saving := wp.StayMinutes + timeWith - timeWithout
		candidates = append(candidates, candidate{
			id:     id,
			score:  score(coords, idx, wp),
			saving: saving,
		})
	}
	if len(candidates) == 0 {
		return false
	}

	sort.Slice(candidates, func(a, b int) bool { return candidates[a].score > candidates[b].score })

	toRemove := make(map[string]bool, len(candidates))
	accumulated := 0.0
	for _, c := range candidates {
		if accumulated >= excessMinutes {
			break
		}
		toRemove[c.id] = true
		accumulated += c.saving
	}
	if len(toRemove) == 0 {
		return false
	}

	kept := make([]string, 0, len(dp.WaypointOrder))
	for _, id := range dp.WaypointOrder {
		if toRemove[id] {
			dp.ExcludedWaypointIDs = append(dp.ExcludedWaypointIDs, id)
		} else {
			kept = append(kept, id)
		}
	}
	dp.WaypointOrder = kept
	return true
}
