// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package osgr converts between geodetic coordinates and Ordnance
// Survey National Grid references.
//
// The grid is a transverse Mercator projection of the OSGB36 datum on
// the Airy 1830 ellipsoid, computed with the OS's own series (OSGB
// "A guide to coordinate systems in Great Britain", appendix C).
// Positions in other datums must be shifted to OSGB36 first;
// FromLatLon does this for the common WGS84 case.
package osgr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/geodesy/pkg/geo"
	"github.com/cockroachdb/geodesy/pkg/geo/ellipsoid"
)

// National Grid projection constants.
const (
	scaleFactor   = 0.9996012717
	originLat     = 49.0  // degrees N
	originLon     = -2.0  // degrees E
	falseEasting  = 400e3 // meters at the true origin
	falseNorthing = -100e3
)

// Ref is a National Grid position in meters east and north of the grid
// origin (southwest of the Scilly Isles).
type Ref struct {
	Easting  float64
	Northing float64
}

// gridExtent is the 7x13 set of 100km squares the letter scheme covers.
const (
	maxEasting  = 700e3
	maxNorthing = 1300e3
)

// meridionalArc is the OS series for the arc length M from the origin
// latitude to φ, both in radians.
func meridionalArc(e ellipsoid.Ellipsoid, φ float64) float64 {
	n := e.N
	n2 := n * n
	n3 := n2 * n
	φ0 := geo.Radians(originLat)
	dφ := φ - φ0
	sφ := φ + φ0
	return e.B * scaleFactor * ((1+n+5.0/4*n2+5.0/4*n3)*dφ -
		(3*n+3*n2+21.0/8*n3)*math.Sin(dφ)*math.Cos(sφ) +
		(15.0/8*n2+15.0/8*n3)*math.Sin(2*dφ)*math.Cos(2*sφ) -
		35.0/24*n3*math.Sin(3*dφ)*math.Cos(3*sφ))
}

// FromOSGB36 projects a position already in the OSGB36 datum onto the
// grid. Positions outside the grid extent fail with
// geo.ErrInvalidArgument.
func FromOSGB36(p geo.LatLon) (Ref, error) {
	if _, err := geo.NewLatLon(p.Lat, p.Lon); err != nil {
		return Ref{}, err
	}
	e := ellipsoid.DatumOSGB36.Ellipsoid

	φ := geo.Radians(p.Lat)
	λ := geo.Radians(p.Lon)
	sinφ, cosφ := math.Sin(φ), math.Cos(φ)
	tanφ := sinφ / cosφ
	tan2 := tanφ * tanφ

	ν := e.A * scaleFactor / math.Sqrt(1-e.E2*sinφ*sinφ)
	ρ := e.A * scaleFactor * (1 - e.E2) / math.Pow(1-e.E2*sinφ*sinφ, 1.5)
	η2 := ν/ρ - 1

	m := meridionalArc(e, φ)

	i := m + falseNorthing
	ii := ν / 2 * sinφ * cosφ
	iii := ν / 24 * sinφ * math.Pow(cosφ, 3) * (5 - tan2 + 9*η2)
	iiia := ν / 720 * sinφ * math.Pow(cosφ, 5) * (61 - 58*tan2 + tan2*tan2)
	iv := ν * cosφ
	v := ν / 6 * math.Pow(cosφ, 3) * (ν/ρ - tan2)
	vi := ν / 120 * math.Pow(cosφ, 5) *
		(5 - 18*tan2 + tan2*tan2 + 14*η2 - 58*tan2*η2)

	dλ := λ - geo.Radians(originLon)
	n := i + ii*dλ*dλ + iii*math.Pow(dλ, 4) + iiia*math.Pow(dλ, 6)
	east := falseEasting + iv*dλ + v*math.Pow(dλ, 3) + vi*math.Pow(dλ, 5)

	r := Ref{Easting: east, Northing: n}
	if east < 0 || east >= maxEasting || n < 0 || n >= maxNorthing {
		return Ref{}, errors.Mark(
			errors.Newf("position (%f, %f) is outside the National Grid", p.Lat, p.Lon),
			geo.ErrInvalidArgument,
		)
	}
	return r, nil
}

// FromLatLon projects a WGS84 position onto the grid, shifting it to
// OSGB36 first.
func FromLatLon(p geo.LatLon) (Ref, error) {
	osgb, err := ellipsoid.DatumWGS84.ConvertTo(ellipsoid.DatumOSGB36, p)
	if err != nil {
		return Ref{}, err
	}
	return FromOSGB36(osgb)
}

// ToOSGB36 inverts the projection; the result is in the OSGB36 datum.
func (r Ref) ToOSGB36() (geo.LatLon, error) {
	if math.IsNaN(r.Easting) || math.IsNaN(r.Northing) ||
		r.Easting < 0 || r.Easting >= maxEasting ||
		r.Northing < 0 || r.Northing >= maxNorthing {
		return geo.LatLon{}, errors.Mark(
			errors.Newf("grid reference (%f, %f) out of range", r.Easting, r.Northing),
			geo.ErrInvalidArgument,
		)
	}
	e := ellipsoid.DatumOSGB36.Ellipsoid

	// Iterate the meridional arc back to the footpoint latitude.
	φ := geo.Radians(originLat)
	for i := 0; i < 100; i++ {
		m := meridionalArc(e, φ)
		if math.Abs(r.Northing-falseNorthing-m) < 1e-5 { // 0.01 mm
			break
		}
		φ += (r.Northing - falseNorthing - m) / (e.A * scaleFactor)
	}

	sinφ, cosφ := math.Sin(φ), math.Cos(φ)
	tanφ := sinφ / cosφ
	tan2 := tanφ * tanφ
	secφ := 1 / cosφ

	ν := e.A * scaleFactor / math.Sqrt(1-e.E2*sinφ*sinφ)
	ρ := e.A * scaleFactor * (1 - e.E2) / math.Pow(1-e.E2*sinφ*sinφ, 1.5)
	η2 := ν/ρ - 1

	vii := tanφ / (2 * ρ * ν)
	viii := tanφ / (24 * ρ * math.Pow(ν, 3)) * (5 + 3*tan2 + η2 - 9*tan2*η2)
	ix := tanφ / (720 * ρ * math.Pow(ν, 5)) * (61 + 90*tan2 + 45*tan2*tan2)
	x := secφ / ν
	xi := secφ / (6 * math.Pow(ν, 3)) * (ν/ρ + 2*tan2)
	xii := secφ / (120 * math.Pow(ν, 5)) * (5 + 28*tan2 + 24*tan2*tan2)
	xiia := secφ / (5040 * math.Pow(ν, 7)) *
		(61 + 662*tan2 + 1320*tan2*tan2 + 720*math.Pow(tan2, 3))

	de := r.Easting - falseEasting
	lat := φ - vii*de*de + viii*math.Pow(de, 4) - ix*math.Pow(de, 6)
	lon := geo.Radians(originLon) +
		x*de - xi*math.Pow(de, 3) + xii*math.Pow(de, 5) - xiia*math.Pow(de, 7)

	return geo.LatLon{Lat: geo.Degrees(lat), Lon: geo.Degrees(lon)}, nil
}

// ToLatLon inverts the projection and shifts the result to WGS84.
func (r Ref) ToLatLon() (geo.LatLon, error) {
	osgb, err := r.ToOSGB36()
	if err != nil {
		return geo.LatLon{}, err
	}
	return ellipsoid.DatumOSGB36.ConvertTo(ellipsoid.DatumWGS84, osgb)
}

// StringPrecision renders the reference in letter-pair form with the
// given number of digits per coordinate (2 to 10 total digits in steps
// of 2; 10 is 1m resolution).
func (r Ref) StringPrecision(digits int) (string, error) {
	if digits < 2 || digits > 10 || digits%2 != 0 {
		return "", errors.Mark(
			errors.Newf("grid reference digits must be even and in [2, 10], got %d", digits),
			geo.ErrInvalidArgument,
		)
	}
	if r.Easting < 0 || r.Easting >= maxEasting ||
		r.Northing < 0 || r.Northing >= maxNorthing {
		return "", errors.Mark(
			errors.Newf("grid reference (%f, %f) out of range", r.Easting, r.Northing),
			geo.ErrInvalidArgument,
		)
	}

	e100k := int(r.Easting / 100e3)
	n100k := int(r.Northing / 100e3)

	// Numeric letter indices; the alphabet skips 'I'.
	l1 := (19-n100k)-(19-n100k)%5 + (e100k+10)/5
	l2 := (19-n100k)*5%25 + e100k%5
	if l1 > 7 {
		l1++
	}
	if l2 > 7 {
		l2++
	}

	half := digits / 2
	div := 1
	for i := half; i < 5; i++ {
		div *= 10
	}
	east := int(r.Easting) % 100000 / div
	north := int(r.Northing) % 100000 / div
	return fmt.Sprintf("%c%c %0*d %0*d",
		'A'+byte(l1), 'A'+byte(l2), half, east, half, north), nil
}

func (r Ref) String() string {
	s, err := r.StringPrecision(10)
	if err != nil {
		return "<invalid grid reference>"
	}
	return s
}

// Parse reads a grid reference in letter-pair form ("TG 51409 13177",
// any even digit count from 2 to 10) or as an all-numeric
// easting,northing pair ("651409,313177").
func Parse(s string) (Ref, error) {
	orig := s
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return Ref{}, errors.Mark(errors.New("empty grid reference"), geo.ErrInvalidArgument)
	}

	if i := strings.IndexByte(s, ','); i >= 0 {
		east, err1 := strconv.ParseFloat(strings.TrimSpace(s[:i]), 64)
		north, err2 := strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
		if err1 != nil || err2 != nil {
			return Ref{}, errors.Mark(
				errors.Newf("cannot parse grid reference %q", orig),
				geo.ErrInvalidArgument,
			)
		}
		return Ref{Easting: east, Northing: north}, nil
	}

	if len(s) < 2 || s[0] < 'A' || s[0] > 'Z' || s[1] < 'A' || s[1] > 'Z' ||
		s[0] == 'I' || s[1] == 'I' {
		return Ref{}, errors.Mark(
			errors.Newf("cannot parse grid reference %q", orig),
			geo.ErrInvalidArgument,
		)
	}
	l1 := int(s[0] - 'A')
	l2 := int(s[1] - 'A')
	if l1 > 7 {
		l1--
	}
	if l2 > 7 {
		l2--
	}
	e100k := (l1-2)%5*5 + l2%5
	n100k := 19 - l1/5*5 - l2/5
	if e100k < 0 || e100k > 6 || n100k < 0 || n100k > 12 {
		return Ref{}, errors.Mark(
			errors.Newf("grid letters %q are off the grid", orig[:2]),
			geo.ErrInvalidArgument,
		)
	}

	digits := strings.Join(strings.Fields(s[2:]), "")
	if len(digits)%2 != 0 || len(digits) > 10 {
		return Ref{}, errors.Mark(
			errors.Newf("grid reference %q must have an even number of digits", orig),
			geo.ErrInvalidArgument,
		)
	}
	half := len(digits) / 2
	var east, north int
	if half > 0 {
		var err1, err2 error
		east, err1 = strconv.Atoi(digits[:half])
		north, err2 = strconv.Atoi(digits[half:])
		if err1 != nil || err2 != nil {
			return Ref{}, errors.Mark(
				errors.Newf("cannot parse grid reference %q", orig),
				geo.ErrInvalidArgument,
			)
		}
		scale := 1
		for i := half; i < 5; i++ {
			scale *= 10
		}
		east *= scale
		north *= scale
	}
	return Ref{
		Easting:  float64(e100k*100000 + east),
		Northing: float64(n100k*100000 + north),
	}, nil
}
