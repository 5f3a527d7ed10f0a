// Package orchestrator wires preprocess, zoning, cluster ordering,
// within-cluster ordering, check-in splitting, segment extraction, routing,
// and reconciliation into the single entrypoint described in spec §4.9.
package orchestrator

import (
	"context"
	"errors"
	"log"
	"math"

	"github.com/tripforge/planner/internal/checkin"
	"github.com/tripforge/planner/internal/clusterorder"
	"github.com/tripforge/planner/internal/config"
	"github.com/tripforge/planner/internal/model"
	"github.com/tripforge/planner/internal/preprocess"
	"github.com/tripforge/planner/internal/reconcile"
	"github.com/tripforge/planner/internal/routing"
	"github.com/tripforge/planner/internal/segments"
	"github.com/tripforge/planner/internal/withincluster"
	"github.com/tripforge/planner/internal/zoning"
)

var logger = log.New(log.Writer(), "[orchestrator] ", log.LstdFlags)

// Engine runs the full pipeline against a shared routing client and a
// process-wide config. It holds no per-trip state; Plan is safe to call
// concurrently for distinct trips.
type Engine struct {
	Knobs  config.Knobs
	Router *routing.Client
}

// New builds an Engine from explicit collaborators (spec §9 "Singletons":
// the cache/breaker/limiter behind Router are constructed once per process
// and shared across calls; Engine itself carries no mutable state).
func New(knobs config.Knobs, router *routing.Client) *Engine {
	return &Engine{Knobs: knobs, Router: router}
}

// Plan executes spec §4.9 end to end: validate, preprocess, zone, order
// clusters and within-cluster visits, split for check-in, extract segments,
// price them, reconcile against budgets, and assemble the output.
func (e *Engine) Plan(ctx context.Context, input model.TripInput) (*model.TripOutput, error) {
	if input.TripID == "" || input.Days < 1 || !input.Start.Valid() || len(input.Waypoints) == 0 {
		return nil, model.ErrInvalidInput
	}
	if input.End != nil && !input.End.Valid() {
		return nil, model.ErrInvalidInput
	}
	if input.Lodging != nil && !input.Lodging.Valid() {
		return nil, model.ErrInvalidInput
	}

	waypoints, err := preprocess.Run(input.Waypoints)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Waypoint, len(waypoints))
	for _, w := range waypoints {
		byID[w.ID] = w
	}

	mode := resolveMode(input)

	targetPerDay := int(math.Ceil(float64(len(waypoints)) / float64(input.Days)))

	zoningOpts := zoning.Options{
		K:                e.Knobs.KNNK,
		RadiusMultiplier: e.Knobs.RadiusMultiplier,
		TargetPerDay:     targetPerDay,
		DailyMaxMinutes:  input.DailyMaxMinutes,
		TripStartDate:    input.TripStartDate,
		SizePenalty:      e.Knobs.OverloadSizePenalty,
		MinutesPenalty:   e.Knobs.OverloadMinutesPenalty,
	}
	clusters := zoning.Run(waypoints, byID, input.Days, input.Start, input.End, input.Lodging, zoningOpts)
	if len(clusters) == 0 || allEmpty(clusters) {
		return nil, model.ErrClusteringFailure
	}

	select {
	case <-ctx.Done():
		return nil, model.ErrCancelled
	default:
	}

	endAnchor := clusterorder.ChooseEndAnchor(clusters, input.Lodging)
	startAnchor := input.Start
	ordered := clusterorder.Order(clusters, startAnchor, endAnchor, e.Knobs.SmoothingPasses, e.Knobs.SmoothingThresholdM)

	dayPlans := make([]model.DayPlan, len(ordered))
	prevDayLastID := ""
	checkInDayIdx, hasCheckIn := model.DayIndexFromDate(input.TripStartDate, input.CheckInDate)
	checkInMinute, hasCheckInTime := model.MinutesOfDay(input.CheckInTime)

	for i, cl := range ordered {
		dayStart := dayStartAnchor(i, input, prevDayLastID, byID)
		dayEnd := clusterorder.DayEnd(i, ordered, input.Lodging, input.End, &input.Start, endAnchor)

		order := withincluster.Order(cl.WaypointIDs, byID, dayStart, dayEnd, e.Knobs.TwoOptMaxIterations)
		dp := model.DayPlan{DayIndex: cl.DayIndex, WaypointOrder: order}

		if input.Lodging != nil && hasCheckIn && hasCheckInTime && checkInDayIdx == i {
			dp.CheckInBreakIndex = checkin.Split(order, byID, dayStart, checkInMinute)
		}

		dayPlans[i] = dp
		if len(order) > 0 {
			prevDayLastID = order[len(order)-1]
		}
	}

	select {
	case <-ctx.Done():
		return nil, model.ErrCancelled
	default:
	}

	extract := buildExtractor(input, byID, ordered)
	totalWaypoints := len(waypoints)

	reconciled, segmentCosts, warnings, err := reconcile.Run(ctx, dayPlans, byID, totalWaypoints, input.DailyMaxMinutes, extract, e.Router, e.Knobs.MaxProxyRemovalFrac, e.Knobs.ReconciliationRounds)
	if err != nil {
		if errors.Is(err, model.ErrCancelled) {
			return nil, model.ErrCancelled
		}
		logger.Printf("reconciliation failed, returning best-effort plan: %v", err)
		warnings = append(warnings, "reconciliation could not complete; returning pre-reconciliation plan")
		reconciled = dayPlans
		segmentCosts = priceWithoutReconcile(ctx, e.Router, extract, dayPlans)
	}

	return &model.TripOutput{
		TripID:       input.TripID,
		Mode:         mode,
		Clusters:     ordered,
		DayPlans:     reconciled,
		SegmentCosts: segmentCosts,
		Warnings:     warnings,
	}, nil
}

func resolveMode(input model.TripInput) model.TripMode {
	if input.Lodging != nil {
		return model.ModeLoop
	}
	if input.End != nil && almostSame(input.Start, *input.End) {
		return model.ModeLoop
	}
	return model.ModeOpen
}

func almostSame(a, b model.LatLng) bool {
	const eps = 1e-6
	return math.Abs(a.Lat-b.Lat) <= eps && math.Abs(a.Lng-b.Lng) <= eps
}

func allEmpty(clusters []model.Cluster) bool {
	for _, c := range clusters {
		if len(c.WaypointIDs) > 0 {
			return false
		}
	}
	return true
}

func dayStartAnchor(i int, input model.TripInput, prevDayLastID string, byID map[string]model.Waypoint) model.LatLng {
	if i == 0 {
		return input.Start
	}
	if input.Lodging != nil {
		return *input.Lodging
	}
	if w, ok := byID[prevDayLastID]; ok {
		return w.Coord
	}
	return input.Start
}

func buildExtractor(input model.TripInput, byID map[string]model.Waypoint, ordered []model.Cluster) reconcile.ExtractFunc {
	lastIDOfDay := make([]string, len(ordered))
	return func(dp model.DayPlan) []segments.Request {
		idx := dp.DayIndex - 1
		if idx < 0 || idx >= len(ordered) {
			return nil
		}
		isFirst := idx == 0
		isLast := idx == len(ordered)-1
		prevLast := ""
		if idx > 0 {
			prevLast = lastIDOfDay[idx-1]
		}
		reqs := segments.Extract(dp, isFirst, isLast, prevLast, byID, input.Start, input.End, input.Lodging)
		if len(dp.WaypointOrder) > 0 {
			lastIDOfDay[idx] = dp.WaypointOrder[len(dp.WaypointOrder)-1]
		}
		return reqs
	}
}

// priceWithoutReconcile is the degraded path when reconciliation itself
// errors out (spec §4.9 "Failure semantics"): price the pre-reconciliation
// plan as-is so the caller still gets segment costs.
func priceWithoutReconcile(ctx context.Context, router *routing.Client, extract reconcile.ExtractFunc, dayPlans []model.DayPlan) []model.SegmentCost {
	var all []model.SegmentCost
	for _, dp := range dayPlans {
		reqs := extract(dp)
		routingReqs := make([]routing.Req, len(reqs))
		for i, r := range reqs {
			routingReqs[i] = routing.Req{Key: r.Key, From: r.From, To: r.To}
		}
		costs, err := router.Price(ctx, routingReqs)
		if err != nil {
			continue
		}
		all = append(all, costs...)
	}
	return all
}
