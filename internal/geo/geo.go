// Package geo provides the geometric primitives shared by zoning, cluster
// ordering, and within-cluster ordering: haversine distance, centroids,
// unit direction vectors, dot products, and a segment-intersection test.
//
// Distance is delegated to github.com/paulmach/orb/geo rather than a
// hand-rolled haversine, since the planning engine already models every
// coordinate as a plain (lat, lng) pair and orb's geo package is the
// ecosystem's standard haversine implementation.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"

	"github.com/tripforge/planner/internal/model"
)

func point(c model.LatLng) orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// HaversineMeters returns the great-circle distance between a and b, in meters.
func HaversineMeters(a, b model.LatLng) float64 {
	return orbgeo.DistanceHaversine(point(a), point(b))
}

// HaversineKm is HaversineMeters converted to kilometers.
func HaversineKm(a, b model.LatLng) float64 {
	return HaversineMeters(a, b) / 1000.0
}

// Centroid returns the arithmetic mean of coords. Callers must pass a
// non-empty slice; an empty slice returns the zero LatLng.
func Centroid(coords []model.LatLng) model.LatLng {
	if len(coords) == 0 {
		return model.LatLng{}
	}
	var sumLat, sumLng float64
	for _, c := range coords {
		sumLat += c.Lat
		sumLng += c.Lng
	}
	n := float64(len(coords))
	return model.LatLng{Lat: sumLat / n, Lng: sumLng / n}
}

// Vec2 is a plain 2D vector used for direction/projection math on the
// lat/lng plane. Over the short distances involved in a single trip this
// planar approximation is adequate; it is never used for distance itself.
type Vec2 struct {
	X, Y float64
}

// Sub returns a-b as a planar vector (lng, lat order to match orb.Point).
func Sub(a, b model.LatLng) Vec2 {
	return Vec2{X: a.Lng - b.Lng, Y: a.Lat - b.Lat}
}

// Unit returns v normalized to length 1. The zero vector maps to itself.
func Unit(v Vec2) Vec2 {
	n := math.Hypot(v.X, v.Y)
	if n == 0 || !isFinite(n) {
		return Vec2{}
	}
	return Vec2{X: v.X / n, Y: v.Y / n}
}

// UnitDirection returns the unit vector pointing from a to b.
func UnitDirection(a, b model.LatLng) Vec2 {
	return Unit(Sub(b, a))
}

// Dot returns the dot product of a and b.
func Dot(a, b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Project returns the scalar projection of (p-origin) onto the unit axis d.
func Project(p, origin model.LatLng, d Vec2) float64 {
	return Dot(Sub(p, origin), d)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// sign returns -1, 0, or 1 for negative/zero/positive z, with a small
// epsilon so near-collinear triples count as zero (no intersection).
func sign(z float64) int {
	const eps = 1e-12
	switch {
	case z > eps:
		return 1
	case z < -eps:
		return -1
	default:
		return 0
	}
}

func cross(o, a, b Vec2) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// SegmentsIntersect reports whether open segments (p1,p2) and (p3,p4)
// properly cross: a strict sign change of the cross product on both
// sides. Shared endpoints or collinear touches do not count as crossing.
func SegmentsIntersect(p1, p2, p3, p4 model.LatLng) bool {
	a, b, c, d := toVec(p1), toVec(p2), toVec(p3), toVec(p4)

	d1 := sign(cross(c, d, a))
	d2 := sign(cross(c, d, b))
	d3 := sign(cross(a, b, c))
	d4 := sign(cross(a, b, d))

	return d1 != 0 && d2 != 0 && d3 != 0 && d4 != 0 && d1 != d2 && d3 != d4
}

func toVec(c model.LatLng) Vec2 {
	return Vec2{X: c.Lng, Y: c.Lat}
}
