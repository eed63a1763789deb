// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package nvector represents geographic points as unit 3-D vectors
// ("n-vectors") so that great-circle geometry reduces to vector
// algebra: a great circle is the normal of its plane, intersections
// are cross products, midpoints are normalized sums.
//
// The mapping is the usual geocentric one, shared with the s2 library:
//
//	x = cos(lat)·cos(lon), y = cos(lat)·sin(lon), z = sin(lat)
//
// so the north pole is (0, 0, 1) and (lat 0, lon 0) is (1, 0, 0).
// Degenerate configurations (coincident or antipodal points) fail with
// vector.ErrDegenerate rather than producing a zero vector, which has
// no direction and must not be mistaken for one.
package nvector

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/geodesy/pkg/geo"
	"github.com/cockroachdb/geodesy/pkg/geo/vector"
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

// NVector is a point on the unit sphere plus an optional height in
// meters above the reference surface. The embedded vector is unit
// length by construction when obtained from FromPoint or FromLatLon;
// this is a convention of the package, not enforced by the type.
type NVector struct {
	vector.Vector3
	Height float64
}

// FromLatLon converts a position in decimal degrees to a unit vector.
func FromLatLon(lat, lon float64) vector.Vector3 {
	φ, λ := geo.Radians(lat), geo.Radians(lon)
	cosφ := math.Cos(φ)
	return vector.New(cosφ*math.Cos(λ), cosφ*math.Sin(λ), math.Sin(φ))
}

// FromPoint converts a LatLon to an NVector, carrying its height.
func FromPoint(p geo.LatLon) NVector {
	return NVector{Vector3: FromLatLon(p.Lat, p.Lon), Height: p.Height}
}

// ToLatLon converts a vector back to decimal degrees, the longitude in
// (-180, 180]. The vector need not be unit length; only its direction
// matters. This is the exact inverse of FromLatLon for unit vectors.
func ToLatLon(v vector.Vector3) (lat, lon float64) {
	lat = geo.Degrees(math.Atan2(v.Z, math.Hypot(v.X, v.Y)))
	// atan2 can land on -180 exactly (a negative-zero Y with X < 0);
	// fold it onto the +180 side of the seam.
	lon = geo.Wrap180(geo.Degrees(math.Atan2(v.Y, v.X)))
	return lat, lon
}

// ToPoint converts an NVector back to a LatLon.
func (n NVector) ToPoint() geo.LatLon {
	lat, lon := ToLatLon(n.Vector3)
	return geo.LatLon{Lat: lat, Lon: lon, Height: n.Height}
}

// Midpoint returns the point halfway between a and b along the great
// circle through them. Antipodal points have no unique midpoint (their
// sum is the zero vector), which fails with vector.ErrDegenerate.
func Midpoint(a, b vector.Vector3) (vector.Vector3, error) {
	m, err := a.Add(b).Unit()
	if err != nil {
		return vector.Vector3{}, errors.Wrap(err, "no unique midpoint for antipodal points")
	}
	return m, nil
}

// GreatCircle returns the normal of the great-circle plane through a
// and b. Coincident and antipodal points do not define a plane and
// fail with vector.ErrDegenerate.
func GreatCircle(a, b vector.Vector3) (vector.Vector3, error) {
	gc := a.Cross(b)
	if gc.IsZero() {
		return vector.Vector3{}, errors.Mark(
			errors.Newf("no great circle through %s and %s: coincident or antipodal", a, b),
			vector.ErrDegenerate,
		)
	}
	return gc, nil
}

// GreatCircleFromBearing returns the normal of the great circle
// leaving lat/lon (degrees) on the given initial bearing (degrees
// clockwise from north).
func GreatCircleFromBearing(lat, lon, bearing float64) vector.Vector3 {
	φ, λ, θ := geo.Radians(lat), geo.Radians(lon), geo.Radians(bearing)
	return vector.New(
		math.Sin(λ)*math.Cos(θ)-math.Sin(φ)*math.Cos(λ)*math.Sin(θ),
		-math.Cos(λ)*math.Cos(θ)-math.Sin(φ)*math.Sin(λ)*math.Sin(θ),
		math.Cos(φ)*math.Sin(θ),
	)
}

// Intersection returns one of the two antipodal points where the great
// circles with normals gc1 and gc2 cross. Coincident circles intersect
// everywhere and fail with vector.ErrDegenerate. Callers disambiguate
// the two candidates themselves, or use IntersectionNearest.
func Intersection(gc1, gc2 vector.Vector3) (vector.Vector3, error) {
	i, err := gc1.Cross(gc2).Unit()
	if err != nil {
		return vector.Vector3{}, errors.Wrap(err, "great circles are coincident")
	}
	return i, nil
}

// IntersectionNearest returns the intersection candidate closer to the
// reference point ref.
func IntersectionNearest(gc1, gc2, ref vector.Vector3) (vector.Vector3, error) {
	i, err := Intersection(gc1, gc2)
	if err != nil {
		return vector.Vector3{}, err
	}
	if i.Dot(ref) < 0 {
		i = i.Negate()
	}
	return i, nil
}

// CrossTrackDistance returns the signed distance of p from the great
// circle with normal gc, on a sphere of the given radius. The sign is
// negative when p is to the left of the circle's direction of travel.
func CrossTrackDistance(p, gc vector.Vector3, radius float64) (float64, error) {
	if gc.IsZero() || p.IsZero() {
		return 0, errors.Mark(
			errors.New("cross-track distance undefined for zero vectors"),
			vector.ErrDegenerate,
		)
	}
	return (gc.AngleTo(p) - math.Pi/2) * radius, nil
}

// ToS2Point converts a vector to an s2.Point. The input is normalized
// first; s2 requires unit vectors.
func ToS2Point(v vector.Vector3) (s2.Point, error) {
	u, err := v.Unit()
	if err != nil {
		return s2.Point{}, err
	}
	return s2.Point{Vector: r3.Vector{X: u.X, Y: u.Y, Z: u.Z}}, nil
}

// FromS2Point converts an s2.Point to a vector.
func FromS2Point(p s2.Point) vector.Vector3 {
	return vector.New(p.X, p.Y, p.Z)
}
