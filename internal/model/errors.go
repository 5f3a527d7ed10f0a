// Package model defines the shared data types that flow between the
// planning engine's stages: waypoints, trip input/output, zones, clusters,
// day plans, and segment costs. Types here are produced by one stage and
// frozen for consumption by the next; nothing in this package mutates a
// value after its owning stage returns it.
//
// Errors:
//
//	ErrInvalidInput      - tripId/days/start/waypoints fail validation.
//	ErrNoWaypoints       - preprocess left zero usable waypoints.
//	ErrClusteringFailure - zoning/day-assignment produced zero non-empty clusters.
//	ErrBudgetInfeasible  - reconciliation could not fit the daily budget.
//	ErrCancelled         - the caller's context was cancelled mid-plan.
package model

import "errors"

var (
	// ErrInvalidInput indicates the TripInput failed validation before planning began.
	ErrInvalidInput = errors.New("model: invalid trip input")

	// ErrNoWaypoints indicates preprocessing rejected every waypoint.
	ErrNoWaypoints = errors.New("model: no usable waypoints after preprocessing")

	// ErrClusteringFailure indicates zoning/day-assignment produced no non-empty clusters.
	ErrClusteringFailure = errors.New("model: clustering produced zero clusters")

	// ErrBudgetInfeasible indicates reconciliation exhausted its rounds without meeting budget.
	ErrBudgetInfeasible = errors.New("model: daily budget could not be satisfied")

	// ErrCancelled indicates the plan was abandoned due to caller cancellation.
	ErrCancelled = errors.New("model: trip planning cancelled")
)
