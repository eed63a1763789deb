// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package vincenty solves the direct and inverse geodesic problems on
// a reference ellipsoid with Vincenty's 1975 iterative method.
//
// The inverse solution iterates λ, the longitude difference on the
// auxiliary sphere, to a tolerance of 1e-12 rad. The iteration is
// known not to converge for antipodal and near-antipodal points; such
// inputs fail with an *Error carrying a Reason rather than returning a
// wrong answer. Each call is an independent pure computation.
package vincenty

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/geodesy/pkg/geo"
	"github.com/cockroachdb/geodesy/pkg/geo/ellipsoid"
)

const (
	// tolerance is the convergence criterion on successive λ (inverse)
	// and σ (direct) values, in radians. 1e-12 rad is ~6 µm of arc on
	// the earth, well under the 0.5 mm accuracy of the method itself.
	tolerance = 1e-12
	// maxIterations bounds both loops. Non-degenerate inverse cases
	// converge within a few iterations; near-antipodal ones approach
	// the cap before being cut off.
	maxIterations = 200
)

// Reason classifies an inverse-solver failure.
type Reason int

const (
	_ Reason = iota
	// ReasonNoConvergence: the λ iteration did not settle within the
	// iteration cap (near-antipodal points).
	ReasonNoConvergence
	// ReasonAntipodal: λ is indeterminate because the points are
	// antipodal, including exact antipodes on a sphere.
	ReasonAntipodal
)

func (r Reason) String() string {
	switch r {
	case ReasonNoConvergence:
		return "no convergence"
	case ReasonAntipodal:
		return "antipodal points"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Error is an inverse-solver failure with a diagnostic reason.
type Error struct {
	Reason Reason
	P1, P2 geo.LatLon
}

var _ error = (*Error)(nil)

func (e *Error) Error() string {
	return fmt.Sprintf("vincenty inverse failed between (%f, %f) and (%f, %f): %s",
		e.P1.Lat, e.P1.Lon, e.P2.Lat, e.P2.Lon, e.Reason)
}

// IsAntipodal reports whether err is a Vincenty failure on antipodal
// points.
func IsAntipodal(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Reason == ReasonAntipodal
}

// InverseResult is the solution of the inverse problem: the geodesic
// distance between two points and the bearings at its ends.
type InverseResult struct {
	// Distance is the geodesic length in meters.
	Distance float64

	initial    float64
	final      float64
	coincident bool
}

// InitialBearing returns the forward azimuth at the start point in
// degrees [0, 360). ok is false for coincident points, where no
// direction exists.
func (r InverseResult) InitialBearing() (_ float64, ok bool) {
	return r.initial, !r.coincident
}

// FinalBearing returns the forward azimuth at the end point in degrees
// [0, 360). ok is false for coincident points.
func (r InverseResult) FinalBearing() (_ float64, ok bool) {
	return r.final, !r.coincident
}

// Coincident reports whether the two points were identical, making the
// distance zero and the bearings undefined.
func (r InverseResult) Coincident() bool {
	return r.coincident
}

// DirectResult is the solution of the direct problem: the destination
// reached from a start point along an initial bearing for a distance,
// and the forward azimuth on arrival.
type DirectResult struct {
	Destination  geo.LatLon
	FinalBearing float64
}

// Inverse computes the geodesic between p1 and p2 on ellipsoid e.
// Coordinates are degrees; the distance is meters and the bearings
// degrees in [0, 360). Coincident points short-circuit to a zero
// distance with undefined bearings. Antipodal and near-antipodal
// points fail with *Error.
func Inverse(p1, p2 geo.LatLon, e ellipsoid.Ellipsoid) (InverseResult, error) {
	if err := checkFinite(p1); err != nil {
		return InverseResult{}, err
	}
	if err := checkFinite(p2); err != nil {
		return InverseResult{}, err
	}
	if p1.Lat == p2.Lat && geo.Wrap180(p1.Lon-p2.Lon) == 0 {
		return InverseResult{coincident: true}, nil
	}

	φ1, φ2 := geo.Radians(p1.Lat), geo.Radians(p2.Lat)
	l := geo.Radians(geo.Wrap180(p2.Lon - p1.Lon))

	// Reduced latitudes on the auxiliary sphere.
	u1 := math.Atan((1 - e.F) * math.Tan(φ1))
	u2 := math.Atan((1 - e.F) * math.Tan(φ2))
	sinU1, cosU1 := math.Sin(u1), math.Cos(u1)
	sinU2, cosU2 := math.Sin(u2), math.Cos(u2)

	var (
		λ                        = l
		sinλ, cosλ               float64
		sinσ, cosσ, σ            float64
		sinα, cosSqα, cos2σm, cc float64
	)
	converged := false
	for i := 0; i < maxIterations; i++ {
		sinλ, cosλ = math.Sin(λ), math.Cos(λ)
		sinSqσ := (cosU2*sinλ)*(cosU2*sinλ) +
			(cosU1*sinU2-sinU1*cosU2*cosλ)*(cosU1*sinU2-sinU1*cosU2*cosλ)
		sinσ = math.Sqrt(sinSqσ)
		cosσ = sinU1*sinU2 + cosU1*cosU2*cosλ
		if sinσ <= tolerance {
			if cosσ > 0 {
				// Numerically coincident (σ ≈ 0) without being
				// bit-identical; treat as the coincident case.
				return InverseResult{coincident: true}, nil
			}
			// σ ≈ π: the points are antipodal and the azimuth
			// sin α = cos U1 cos U2 sin λ / sin σ is indeterminate.
			return InverseResult{}, &Error{Reason: ReasonAntipodal, P1: p1, P2: p2}
		}
		σ = math.Atan2(sinσ, cosσ)
		sinα = cosU1 * cosU2 * sinλ / sinσ
		cosSqα = 1 - sinα*sinα
		if cosSqα == 0 {
			// Both points on the equator.
			cos2σm = 0
		} else {
			cos2σm = cosσ - 2*sinU1*sinU2/cosSqα
		}
		cc = e.F / 16 * cosSqα * (4 + e.F*(4-3*cosSqα))
		prev := λ
		λ = l + (1-cc)*e.F*sinα*
			(σ+cc*sinσ*(cos2σm+cc*cosσ*(-1+2*cos2σm*cos2σm)))
		if math.Abs(λ) > math.Pi {
			// The iteration has been pushed past the antimeridian of
			// the auxiliary sphere; λ is indeterminate.
			return InverseResult{}, &Error{Reason: ReasonAntipodal, P1: p1, P2: p2}
		}
		if math.Abs(λ-prev) < tolerance {
			converged = true
			break
		}
	}
	if !converged {
		return InverseResult{}, &Error{Reason: ReasonNoConvergence, P1: p1, P2: p2}
	}

	uSq := cosSqα * (e.A*e.A - e.B*e.B) / (e.B * e.B)
	a := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	b := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	δσ := b * sinσ * (cos2σm + b/4*(cosσ*(-1+2*cos2σm*cos2σm)-
		b/6*cos2σm*(-3+4*sinσ*sinσ)*(-3+4*cos2σm*cos2σm)))

	α1 := math.Atan2(cosU2*sinλ, cosU1*sinU2-sinU1*cosU2*cosλ)
	α2 := math.Atan2(cosU1*sinλ, -sinU1*cosU2+cosU1*sinU2*cosλ)

	return InverseResult{
		Distance: e.B * a * (σ - δσ),
		initial:  geo.Wrap360(geo.Degrees(α1)),
		final:    geo.Wrap360(geo.Degrees(α2)),
	}, nil
}

// Direct computes the destination reached from p1 along the initial
// bearing (degrees) for the given distance (meters) on ellipsoid e.
// The forward σ iteration always converges; the only failures are
// malformed inputs (NaN, negative distance), which fail with
// geo.ErrInvalidArgument.
func Direct(
	p1 geo.LatLon, bearing, distance float64, e ellipsoid.Ellipsoid,
) (DirectResult, error) {
	if err := checkFinite(p1); err != nil {
		return DirectResult{}, err
	}
	if math.IsNaN(bearing) || math.IsInf(bearing, 0) {
		return DirectResult{}, errors.Mark(
			errors.Newf("bearing must be finite, got %f", bearing),
			geo.ErrInvalidArgument,
		)
	}
	if math.IsNaN(distance) || math.IsInf(distance, 0) || distance < 0 {
		return DirectResult{}, errors.Mark(
			errors.Newf("distance must be finite and non-negative, got %f", distance),
			geo.ErrInvalidArgument,
		)
	}
	if distance == 0 {
		return DirectResult{Destination: p1, FinalBearing: geo.Wrap360(bearing)}, nil
	}

	φ1 := geo.Radians(p1.Lat)
	α1 := geo.Radians(bearing)
	sinα1, cosα1 := math.Sin(α1), math.Cos(α1)

	tanU1 := (1 - e.F) * math.Tan(φ1)
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1

	σ1 := math.Atan2(tanU1, cosα1)
	sinα := cosU1 * sinα1
	cosSqα := 1 - sinα*sinα
	uSq := cosSqα * (e.A*e.A - e.B*e.B) / (e.B * e.B)
	a := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	b := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))

	σ := distance / (e.B * a)
	var sinσ, cosσ, cos2σm float64
	for i := 0; i < maxIterations; i++ {
		cos2σm = math.Cos(2*σ1 + σ)
		sinσ, cosσ = math.Sin(σ), math.Cos(σ)
		δσ := b * sinσ * (cos2σm + b/4*(cosσ*(-1+2*cos2σm*cos2σm)-
			b/6*cos2σm*(-3+4*sinσ*sinσ)*(-3+4*cos2σm*cos2σm)))
		prev := σ
		σ = distance/(e.B*a) + δσ
		if math.Abs(σ-prev) < tolerance {
			break
		}
	}
	cos2σm = math.Cos(2*σ1 + σ)
	sinσ, cosσ = math.Sin(σ), math.Cos(σ)

	x := sinU1*sinσ - cosU1*cosσ*cosα1
	φ2 := math.Atan2(
		sinU1*cosσ+cosU1*sinσ*cosα1,
		(1-e.F)*math.Sqrt(sinα*sinα+x*x),
	)
	λ := math.Atan2(sinσ*sinα1, cosU1*cosσ-sinU1*sinσ*cosα1)
	cc := e.F / 16 * cosSqα * (4 + e.F*(4-3*cosSqα))
	l := λ - (1-cc)*e.F*sinα*
		(σ+cc*sinσ*(cos2σm+cc*cosσ*(-1+2*cos2σm*cos2σm)))
	λ2 := geo.Wrap180(p1.Lon + geo.Degrees(l))

	return DirectResult{
		Destination:  geo.LatLon{Lat: geo.Degrees(φ2), Lon: λ2, Height: p1.Height},
		FinalBearing: geo.Wrap360(geo.Degrees(math.Atan2(sinα, -x))),
	}, nil
}

func checkFinite(p geo.LatLon) error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) ||
		math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) {
		return errors.Mark(
			errors.Newf("coordinates must be finite, got (%f, %f)", p.Lat, p.Lon),
			geo.ErrInvalidArgument,
		)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return errors.Mark(
			errors.Newf("latitude %f out of range [-90, 90]", p.Lat),
			geo.ErrInvalidArgument,
		)
	}
	return nil
}
