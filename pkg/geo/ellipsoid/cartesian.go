// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package ellipsoid

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/geodesy/pkg/geo"
	"github.com/cockroachdb/geodesy/pkg/geo/vector"
)

// ToCartesian converts a geodetic position (degrees, height in meters)
// on the given ellipsoid to geocentric cartesian coordinates in meters.
func ToCartesian(p geo.LatLon, e Ellipsoid) (vector.Vector3, error) {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsNaN(p.Height) {
		return vector.Vector3{}, errors.Mark(
			errors.Newf("cartesian conversion requires finite coordinates, got %+v", p),
			geo.ErrInvalidArgument,
		)
	}
	φ, λ := geo.Radians(p.Lat), geo.Radians(p.Lon)
	sinφ, cosφ := math.Sin(φ), math.Cos(φ)

	// ν is the radius of curvature in the prime vertical.
	ν := e.A / math.Sqrt(1-e.E2*sinφ*sinφ)
	return vector.New(
		(ν+p.Height)*cosφ*math.Cos(λ),
		(ν+p.Height)*cosφ*math.Sin(λ),
		(ν*(1-e.E2)+p.Height)*sinφ,
	), nil
}

// ToGeodetic converts geocentric cartesian coordinates in meters back
// to a geodetic position on the given ellipsoid, using Bowring's
// closed-form approximation (sub-millimeter for terrestrial heights).
func ToGeodetic(v vector.Vector3, e Ellipsoid) geo.LatLon {
	p := math.Hypot(v.X, v.Y)

	// Bowring's parametric latitude seed.
	θ := math.Atan2(v.Z*e.A, p*e.B)
	sinθ, cosθ := math.Sin(θ), math.Cos(θ)
	φ := math.Atan2(v.Z+e.E22*e.B*sinθ*sinθ*sinθ, p-e.E2*e.A*cosθ*cosθ*cosθ)
	λ := math.Atan2(v.Y, v.X)

	sinφ, cosφ := math.Sin(φ), math.Cos(φ)
	ν := e.A / math.Sqrt(1-e.E2*sinφ*sinφ)
	var h float64
	if math.Abs(cosφ) > 1e-12 {
		h = p/cosφ - ν
	} else {
		// At the poles the prime-vertical form degenerates.
		h = math.Abs(v.Z) - e.B
	}
	return geo.LatLon{Lat: geo.Degrees(φ), Lon: geo.Degrees(λ), Height: h}
}
