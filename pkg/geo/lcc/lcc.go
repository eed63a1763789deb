// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package lcc implements the Lambert conformal conic projection with
// two standard parallels, in the ellipsoidal form given by Snyder's
// "Map Projections: A Working Manual" (USGS PP 1395, pp. 107-109).
package lcc

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/geodesy/pkg/geo"
	"github.com/cockroachdb/geodesy/pkg/geo/ellipsoid"
)

// Conic is a configured projection. Build one with NewConic or use a
// registered one from ConicByName.
type Conic struct {
	Name      string
	Ellipsoid ellipsoid.Ellipsoid

	// Defining parameters, degrees.
	Phi1, Phi2                  float64 // standard parallels
	Phi0, Lon0                  float64 // grid origin
	FalseEasting, FalseNorthing float64

	// Derived constants.
	n, f, rho0 float64
}

// m is Snyder's m(φ), the radius of the parallel over a.
func m(e ellipsoid.Ellipsoid, φ float64) float64 {
	sinφ := math.Sin(φ)
	return math.Cos(φ) / math.Sqrt(1-e.E2*sinφ*sinφ)
}

// t is Snyder's t(φ), the isometric colatitude function.
func t(e ellipsoid.Ellipsoid, φ float64) float64 {
	ecc := math.Sqrt(e.E2)
	sinφ := math.Sin(φ)
	return math.Tan(math.Pi/4-φ/2) /
		math.Pow((1-ecc*sinφ)/(1+ecc*sinφ), ecc/2)
}

// NewConic validates the parameters and precomputes the projection
// constants. The standard parallels may be equal (the single-parallel
// tangent case) but must not be opposite or polar.
func NewConic(
	name string, e ellipsoid.Ellipsoid,
	phi1, phi2, phi0, lon0, falseEasting, falseNorthing float64,
) (Conic, error) {
	for _, φ := range []float64{phi1, phi2, phi0} {
		if math.IsNaN(φ) || φ <= -90 || φ >= 90 {
			return Conic{}, errors.Mark(
				errors.Newf("standard parallels must be within (-90, 90), got %f", φ),
				geo.ErrInvalidArgument,
			)
		}
	}
	if phi1+phi2 == 0 {
		return Conic{}, errors.Mark(
			errors.Newf("standard parallels %f and %f are opposite; the cone is a cylinder",
				phi1, phi2),
			geo.ErrInvalidArgument,
		)
	}

	φ1 := geo.Radians(phi1)
	φ2 := geo.Radians(phi2)
	φ0 := geo.Radians(phi0)
	m1 := m(e, φ1)
	t1 := t(e, φ1)

	var n float64
	if phi1 == phi2 {
		n = math.Sin(φ1)
	} else {
		n = (math.Log(m1) - math.Log(m(e, φ2))) /
			(math.Log(t1) - math.Log(t(e, φ2)))
	}
	f := m1 / (n * math.Pow(t1, n))

	c := Conic{
		Name:          name,
		Ellipsoid:     e,
		Phi1:          phi1,
		Phi2:          phi2,
		Phi0:          phi0,
		Lon0:          lon0,
		FalseEasting:  falseEasting,
		FalseNorthing: falseNorthing,
		n:             n,
		f:             f,
	}
	c.rho0 = c.rho(φ0)
	return c, nil
}

func mustConic(
	name string, e ellipsoid.Ellipsoid,
	phi1, phi2, phi0, lon0, falseEasting, falseNorthing float64,
) Conic {
	c, err := NewConic(name, e, phi1, phi2, phi0, lon0, falseEasting, falseNorthing)
	if err != nil {
		panic(err)
	}
	conics[name] = c
	return c
}

// rho is the cone radius at geodetic latitude φ (radians).
func (c Conic) rho(φ float64) float64 {
	return c.Ellipsoid.A * c.f * math.Pow(t(c.Ellipsoid, φ), c.n)
}

// Standard projections, registered at init.
var (
	conics = map[string]Conic{}

	// Lambert-93, the French national grid on RGF93/GRS80.
	ConicLambert93 = mustConic("Lambert-93", ellipsoid.GRS80,
		44, 49, 46.5, 3, 700000, 6600000)
	// The continental US parameters from Snyder's manual, on GRS80.
	ConicUSCONUS = mustConic("US-CONUS", ellipsoid.GRS80,
		33, 45, 23, -96, 0, 0)
)

// ConicByName returns a registered projection; a miss fails with
// ellipsoid.ErrUnknownDatum.
func ConicByName(name string) (Conic, error) {
	c, ok := conics[name]
	if !ok {
		return Conic{}, errors.Mark(
			errors.Newf("no conic projection named %q", name),
			ellipsoid.ErrUnknownDatum,
		)
	}
	return c, nil
}

// Point is a projected position in meters on the conic's grid.
type Point struct {
	Easting  float64
	Northing float64
}

// Project maps a geodetic position to grid coordinates. The poles are
// rejected; everything else on the ellipsoid projects, though scale
// distortion grows away from the standard parallels.
func (c Conic) Project(p geo.LatLon) (Point, error) {
	if _, err := geo.NewLatLon(p.Lat, geo.Wrap180(p.Lon)); err != nil {
		return Point{}, err
	}
	if p.Lat == 90 || p.Lat == -90 {
		return Point{}, errors.Mark(
			errors.Newf("latitude %f is a pole of the projection", p.Lat),
			geo.ErrInvalidArgument,
		)
	}
	ρ := c.rho(geo.Radians(p.Lat))
	θ := c.n * geo.Radians(geo.Wrap180(p.Lon-c.Lon0))
	return Point{
		Easting:  c.FalseEasting + ρ*math.Sin(θ),
		Northing: c.FalseNorthing + c.rho0 - ρ*math.Cos(θ),
	}, nil
}

// Unproject inverts the projection.
func (c Conic) Unproject(pt Point) (geo.LatLon, error) {
	if math.IsNaN(pt.Easting) || math.IsNaN(pt.Northing) ||
		math.IsInf(pt.Easting, 0) || math.IsInf(pt.Northing, 0) {
		return geo.LatLon{}, errors.Mark(
			errors.Newf("grid coordinates must be finite, got %+v", pt),
			geo.ErrInvalidArgument,
		)
	}
	x := pt.Easting - c.FalseEasting
	y := c.rho0 - (pt.Northing - c.FalseNorthing)

	ρ := math.Sqrt(x*x + y*y)
	if c.n < 0 {
		ρ = -ρ
		x, y = -x, -y
	}
	if ρ == 0 {
		// The cone's apex, i.e. the pole on the cone's side.
		lat := 90.0
		if c.n < 0 {
			lat = -90
		}
		return geo.LatLon{Lat: lat, Lon: c.Lon0}, nil
	}

	tp := math.Pow(ρ/(c.Ellipsoid.A*c.f), 1/c.n)
	ecc := math.Sqrt(c.Ellipsoid.E2)

	// Fixed-point iteration for the geodetic latitude; converges in a
	// handful of rounds for terrestrial eccentricities.
	φ := math.Pi/2 - 2*math.Atan(tp)
	for i := 0; i < 20; i++ {
		sinφ := math.Sin(φ)
		next := math.Pi/2 - 2*math.Atan(
			tp*math.Pow((1-ecc*sinφ)/(1+ecc*sinφ), ecc/2))
		if math.Abs(next-φ) < 1e-14 {
			φ = next
			break
		}
		φ = next
	}

	θ := math.Atan2(x, y)
	return geo.LatLon{
		Lat: geo.Degrees(φ),
		Lon: geo.Wrap180(geo.Degrees(θ/c.n) + c.Lon0),
	}, nil
}
