package routing

import (
	"context"

	"github.com/tripforge/planner/internal/model"
)

// WalkResult is the walking provider's response shape (spec §6, "Walking").
type WalkResult struct {
	TotalDurationMin float64
	TotalDistanceM   float64
	Polyline         string
}

// SubPathRaw mirrors one transit subPath entry from spec §6.
type SubPathRaw struct {
	TrafficType  int
	DistanceM    float64
	SectionMin   float64
	StartCoord   *model.LatLng
	EndCoord     *model.LatLng
	StationCount int
	Lane         string
	Way          string
}

// TransitDetailsRaw mirrors the transit provider's `details` object.
type TransitDetailsRaw struct {
	TotalFare       int
	TransferCount   int
	WalkingTimeMin  float64
	WalkingDistance float64
	SubPaths        []SubPathRaw
}

// TransitResult is the transit provider's response shape (spec §6, "Transit").
type TransitResult struct {
	TotalDurationMin float64
	TotalDistanceM   float64
	TransferCount    int
	Polyline         string
	Details          *TransitDetailsRaw
}

// WalkingProvider is the black-box walking routing endpoint (spec §6).
// A nil result with a nil error means "no route" per the wire contract.
type WalkingProvider interface {
	Walk(ctx context.Context, from, to model.LatLng) (*WalkResult, error)
}

// TransitProvider is the black-box transit routing endpoint (spec §6).
type TransitProvider interface {
	Transit(ctx context.Context, from, to model.LatLng) (*TransitResult, error)
}
