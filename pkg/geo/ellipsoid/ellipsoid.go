// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package ellipsoid holds the reference ellipsoid, Helmert transform
// and datum tables used by the geodesic solvers and grid projections.
//
// The tables are populated once at init with the standard entries and
// are read-only afterwards, so lookups are safe for concurrent use
// without locking. Lookups are case-sensitive exact-name matches.
package ellipsoid

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/geodesy/pkg/geo"
)

// ErrUnknownEllipsoid marks lookups of ellipsoid names that are not
// registered.
var ErrUnknownEllipsoid = errors.New("unknown ellipsoid")

// ErrUnknownDatum marks lookups of datum or transform names that are
// not registered.
var ErrUnknownDatum = errors.New("unknown datum")

// Ellipsoid is an earth model given by its semi-major axis A (meters),
// semi-minor axis B and flattening F, with the derived quantities
// precomputed. Values are immutable once constructed.
type Ellipsoid struct {
	Name string
	A    float64 // semi-major (equatorial) axis, meters
	B    float64 // semi-minor (polar) axis, meters
	F    float64 // flattening, (A-B)/A

	E2  float64 // first eccentricity squared, F·(2-F)
	E22 float64 // second eccentricity squared, E2/(1-E2)
	N   float64 // third flattening, F/(2-F)
}

// New constructs an Ellipsoid from the semi-major axis and either the
// semi-minor axis or the flattening: a bOrF below 1 is read as the
// flattening, anything else as the semi-minor axis in meters. A sphere
// is bOrF == 0 (or bOrF == a).
func New(name string, a, bOrF float64) (Ellipsoid, error) {
	if math.IsNaN(a) || a <= 0 {
		return Ellipsoid{}, errors.Mark(
			errors.Newf("semi-major axis must be positive, got %f", a),
			geo.ErrInvalidArgument,
		)
	}
	var b, f float64
	if bOrF < 1 {
		f = bOrF
		b = a * (1 - f)
	} else {
		b = bOrF
		f = (a - b) / a
	}
	if math.IsNaN(f) || f < 0 || f >= 1 {
		return Ellipsoid{}, errors.Mark(
			errors.Newf("flattening must be in [0, 1), got %f", f),
			geo.ErrInvalidArgument,
		)
	}
	e2 := f * (2 - f)
	return Ellipsoid{
		Name: name,
		A:    a,
		B:    b,
		F:    f,
		E2:   e2,
		E22:  e2 / (1 - e2),
		N:    f / (2 - f),
	}, nil
}

// IsSphere reports whether the ellipsoid has zero flattening.
func (e Ellipsoid) IsSphere() bool {
	return e.F == 0
}

var ellipsoids = map[string]Ellipsoid{}

func mustEllipsoid(name string, a, bOrF float64) Ellipsoid {
	e, err := New(name, a, bOrF)
	if err != nil {
		panic(err)
	}
	ellipsoids[name] = e
	return e
}

// The standard ellipsoids, registered at init. Flattenings are given
// as 1/fInv with the conventional inverse values.
var (
	WGS84         = mustEllipsoid("WGS84", 6378137.0, 1/298.257223563)
	GRS80         = mustEllipsoid("GRS80", 6378137.0, 1/298.257222101)
	Airy1830      = mustEllipsoid("Airy1830", 6377563.396, 1/299.3249646)
	AiryModified  = mustEllipsoid("AiryModified", 6377340.189, 1/299.3249646)
	Bessel1841    = mustEllipsoid("Bessel1841", 6377397.155, 1/299.1528128)
	Clarke1866    = mustEllipsoid("Clarke1866", 6378206.4, 1/294.978698214)
	Clarke1880IGN = mustEllipsoid("Clarke1880IGN", 6378249.2, 1/293.466021294)
	Intl1924      = mustEllipsoid("Intl1924", 6378388.0, 1/297.0)
	Krassovski    = mustEllipsoid("Krassovski1940", 6378245.0, 1/298.3)
	WGS72         = mustEllipsoid("WGS72", 6378135.0, 1/298.26)
	Sphere        = mustEllipsoid("Sphere", 6371008.771415, 0)
)

// ByName returns the registered ellipsoid with the given name. The
// match is case-sensitive; a miss fails with ErrUnknownEllipsoid.
func ByName(name string) (Ellipsoid, error) {
	e, ok := ellipsoids[name]
	if !ok {
		return Ellipsoid{}, errors.Mark(
			errors.Newf("no ellipsoid named %q", name),
			ErrUnknownEllipsoid,
		)
	}
	return e, nil
}
