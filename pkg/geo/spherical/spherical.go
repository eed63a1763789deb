// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package spherical solves distance, bearing and waypoint problems on
// a spherical earth with classic great-circle trigonometry. Positions
// are degrees; distances are in the unit of the radius argument (pass
// geo.RadiusMeters for meters).
//
// A sphere is accurate to roughly 0.3%; use geo/vincenty where
// ellipsoidal accuracy matters.
package spherical

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/geodesy/pkg/geo"
	"github.com/cockroachdb/geodesy/pkg/geo/nvector"
	"github.com/cockroachdb/geodesy/pkg/geo/vector"
)

// AngularDistance returns the central angle between p1 and p2 in
// radians, by the haversine formula (well conditioned for short
// distances, exact antipodes included).
func AngularDistance(p1, p2 geo.LatLon) float64 {
	φ1, φ2 := geo.Radians(p1.Lat), geo.Radians(p2.Lat)
	Δφ := φ2 - φ1
	Δλ := geo.Radians(p2.Lon - p1.Lon)

	sinΔφ := math.Sin(Δφ / 2)
	sinΔλ := math.Sin(Δλ / 2)
	a := sinΔφ*sinΔφ + math.Cos(φ1)*math.Cos(φ2)*sinΔλ*sinΔλ
	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Distance returns the great-circle distance between p1 and p2 on a
// sphere of the given radius.
func Distance(p1, p2 geo.LatLon, radius float64) float64 {
	return AngularDistance(p1, p2) * radius
}

// InitialBearing returns the forward azimuth from p1 toward p2 in
// degrees [0, 360).
func InitialBearing(p1, p2 geo.LatLon) float64 {
	φ1, φ2 := geo.Radians(p1.Lat), geo.Radians(p2.Lat)
	Δλ := geo.Radians(p2.Lon - p1.Lon)

	y := math.Sin(Δλ) * math.Cos(φ2)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	return geo.Wrap360(geo.Degrees(math.Atan2(y, x)))
}

// FinalBearing returns the azimuth in which travel from p1 arrives at
// p2, in degrees [0, 360).
func FinalBearing(p1, p2 geo.LatLon) float64 {
	return geo.Wrap360(InitialBearing(p2, p1) + 180)
}

// Midpoint returns the point halfway between p1 and p2 along the great
// circle through them. Antipodal endpoints have no unique midpoint and
// fail with vector.ErrDegenerate.
func Midpoint(p1, p2 geo.LatLon) (geo.LatLon, error) {
	m, err := nvector.Midpoint(
		nvector.FromLatLon(p1.Lat, p1.Lon),
		nvector.FromLatLon(p2.Lat, p2.Lon),
	)
	if err != nil {
		return geo.LatLon{}, err
	}
	lat, lon := nvector.ToLatLon(m)
	return geo.LatLon{Lat: lat, Lon: lon}, nil
}

// IntermediatePoint returns the point at the given fraction of the way
// from p1 to p2 along the great circle (0 is p1, 1 is p2). Fractions
// outside [0, 1] extrapolate along the circle. Antipodal endpoints
// leave the path undefined and fail with vector.ErrDegenerate.
func IntermediatePoint(p1, p2 geo.LatLon, fraction float64) (geo.LatLon, error) {
	if math.IsNaN(fraction) {
		return geo.LatLon{}, errors.Mark(
			errors.New("fraction must not be NaN"), geo.ErrInvalidArgument)
	}
	δ := AngularDistance(p1, p2)
	if δ == 0 {
		return p1, nil
	}
	sinδ := math.Sin(δ)
	if sinδ < 1e-12 {
		return geo.LatLon{}, errors.Mark(
			errors.Newf("path between antipodal points (%f, %f) and (%f, %f) is undefined",
				p1.Lat, p1.Lon, p2.Lat, p2.Lon),
			vector.ErrDegenerate,
		)
	}

	// Spherical linear interpolation of the two position vectors.
	a := math.Sin((1-fraction)*δ) / sinδ
	b := math.Sin(fraction*δ) / sinδ
	v := nvector.FromLatLon(p1.Lat, p1.Lon).Scale(a).
		Add(nvector.FromLatLon(p2.Lat, p2.Lon).Scale(b))
	lat, lon := nvector.ToLatLon(v)
	return geo.LatLon{Lat: lat, Lon: lon}, nil
}

// Destination returns the point reached from p along the given initial
// bearing (degrees) for the given distance, on a sphere of the given
// radius.
func Destination(p geo.LatLon, bearing, distance, radius float64) geo.LatLon {
	φ1 := geo.Radians(p.Lat)
	λ1 := geo.Radians(p.Lon)
	θ := geo.Radians(bearing)
	δ := distance / radius

	sinφ2 := math.Sin(φ1)*math.Cos(δ) + math.Cos(φ1)*math.Sin(δ)*math.Cos(θ)
	φ2 := math.Asin(sinφ2)
	y := math.Sin(θ) * math.Sin(δ) * math.Cos(φ1)
	x := math.Cos(δ) - math.Sin(φ1)*sinφ2
	λ2 := λ1 + math.Atan2(y, x)

	return geo.LatLon{Lat: geo.Degrees(φ2), Lon: geo.Wrap180(geo.Degrees(λ2))}
}

// CrossTrackDistance returns the signed distance of p from the great
// circle through pathStart and pathEnd, negative to the left of the
// path. Coincident or antipodal path endpoints fail with
// vector.ErrDegenerate.
func CrossTrackDistance(p, pathStart, pathEnd geo.LatLon, radius float64) (float64, error) {
	gc, err := nvector.GreatCircle(
		nvector.FromLatLon(pathStart.Lat, pathStart.Lon),
		nvector.FromLatLon(pathEnd.Lat, pathEnd.Lon),
	)
	if err != nil {
		return 0, err
	}
	return nvector.CrossTrackDistance(nvector.FromLatLon(p.Lat, p.Lon), gc, radius)
}
