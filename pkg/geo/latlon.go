// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package geo contains the shared primitives for geodetic computation:
// the LatLon value type, angle normalization helpers and mean earth
// radius constants.
//
// Subpackages build on these primitives:
//   - geo/vector implements 3-D cartesian vector algebra.
//   - geo/nvector represents points as unit vectors for great-circle work.
//   - geo/ellipsoid holds the ellipsoid/datum registries.
//   - geo/vincenty solves direct and inverse geodesics on an ellipsoid.
//   - geo/spherical solves the same problems on a sphere.
//   - geo/utm, geo/osgr, geo/lcc, geo/geohash convert to grid systems.
//   - geo/simplify reduces point paths.
//
// Angles are degrees on every public boundary and radians internally.
// Distances are meters unless a radius argument says otherwise.
package geo

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/golang/geo/s2"
)

// ErrInvalidArgument marks errors caused by malformed numeric input,
// e.g. NaN coordinates, out-of-range latitudes or negative distances.
// Use errors.Is to test for it.
var ErrInvalidArgument = errors.New("invalid argument")

// Mean earth radius in various units, for spherical computations.
const (
	RadiusMeters        = 6371008.771415
	RadiusKilometers    = RadiusMeters / 1000
	RadiusNauticalMiles = RadiusMeters / 1852
	RadiusStatuteMiles  = RadiusMeters / 1609.344
)

// LatLon is a geographic position in decimal degrees with an optional
// height in meters above the reference surface. It is a value type;
// methods never mutate the receiver.
type LatLon struct {
	Lat    float64
	Lon    float64
	Height float64
}

// HasLatLon is implemented by any type that can report a geographic
// position in decimal degrees. Concrete point types implement it so
// that consumers do not depend on a particular representation.
type HasLatLon interface {
	LatLonDegrees() (lat, lon float64)
}

var _ HasLatLon = LatLon{}

// NewLatLon validates and returns a LatLon. Latitude must be within
// [-90, 90] and longitude within [-180, 180]; NaN and infinities are
// rejected.
func NewLatLon(lat, lon float64) (LatLon, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return LatLon{}, errors.Mark(
			errors.Newf("coordinates must be finite, got (%f, %f)", lat, lon),
			ErrInvalidArgument,
		)
	}
	if lat < -90 || lat > 90 {
		return LatLon{}, errors.Mark(
			errors.Newf("latitude %f out of range [-90, 90]", lat),
			ErrInvalidArgument,
		)
	}
	if lon < -180 || lon > 180 {
		return LatLon{}, errors.Mark(
			errors.Newf("longitude %f out of range [-180, 180]", lon),
			ErrInvalidArgument,
		)
	}
	return LatLon{Lat: lat, Lon: lon}, nil
}

// LatLonDegrees implements HasLatLon.
func (l LatLon) LatLonDegrees() (float64, float64) {
	return l.Lat, l.Lon
}

// S2LatLng returns the position as an s2.LatLng.
func (l LatLon) S2LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(l.Lat, l.Lon)
}

// LatLonFromS2 converts an s2.LatLng back to a LatLon.
func LatLonFromS2(ll s2.LatLng) LatLon {
	return LatLon{Lat: ll.Lat.Degrees(), Lon: ll.Lng.Degrees()}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Wrap360 normalizes an angle in degrees to [0, 360).
func Wrap360(deg float64) float64 {
	if deg >= 0 && deg < 360 {
		return deg
	}
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// Wrap180 normalizes an angle in degrees to (-180, 180].
func Wrap180(deg float64) float64 {
	d := math.Mod(deg, 360)
	switch {
	case d > 180:
		d -= 360
	case d <= -180:
		d += 360
	}
	return d
}

// Wrap90 folds a latitude in degrees into [-90, 90].
func Wrap90(deg float64) float64 {
	d := Wrap180(deg)
	switch {
	case d > 90:
		d = 180 - d
	case d < -90:
		d = -180 - d
	}
	return d
}
