// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package utm converts between geodetic coordinates and Universal
// Transverse Mercator grid coordinates, and formats UTM positions as
// MGRS grid references.
//
// The projection is Karney's 6th-order Krüger series, good to
// sub-millimeter within the UTM longitude bands. Zone exceptions for
// southwest Norway and Svalbard are applied on conversion from
// latitude/longitude.
package utm

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/geodesy/pkg/geo"
	"github.com/cockroachdb/geodesy/pkg/geo/ellipsoid"
)

const (
	scaleFactor   = 0.9996
	falseEasting  = 500e3
	falseNorthing = 10000e3
)

// latBands are the MGRS latitude bands C..X (no I, no O), 8° each from
// 80°S; X is stretched to 84°N.
const latBands = "CDEFGHJKLMNPQRSTUVWXX"

// Hemisphere is the N/S half of the earth a UTM coordinate is in.
type Hemisphere byte

const (
	North Hemisphere = 'N'
	South Hemisphere = 'S'
)

// Coord is a UTM grid coordinate: zone 1..60, hemisphere, and
// easting/northing in meters from the zone's false origin.
type Coord struct {
	Zone       int
	Hemisphere Hemisphere
	Easting    float64
	Northing   float64
}

func (c Coord) String() string {
	return fmt.Sprintf("%d %c %.0f %.0f", c.Zone, c.Hemisphere, c.Easting, c.Northing)
}

// LatBand returns the MGRS band letter for a latitude.
func LatBand(lat float64) (byte, error) {
	if lat < -80 || lat > 84 {
		return 0, errors.Mark(
			errors.Newf("latitude %f outside UTM coverage [-80, 84]", lat),
			geo.ErrInvalidArgument,
		)
	}
	return latBands[int(math.Floor(lat/8+10))], nil
}

// zoneFor returns the UTM zone for a position, including the Norway
// and Svalbard exceptions.
func zoneFor(lat, lon float64) int {
	zone := int(math.Floor((lon+180)/6)) + 1
	if zone > 60 {
		zone = 60 // lon 180 is the far edge of zone 60
	}

	// Southwest Norway: zone 32 is widened at band V.
	if zone == 31 && lat >= 56 && lat < 64 && lon >= 3 {
		return 32
	}
	// Svalbard: bands X drop zones 32, 34, 36.
	if lat >= 72 && lat < 84 {
		switch {
		case zone == 32 && lon < 9:
			return 31
		case zone == 32:
			return 33
		case zone == 34 && lon < 21:
			return 33
		case zone == 34:
			return 35
		case zone == 36 && lon < 33:
			return 35
		case zone == 36:
			return 37
		}
	}
	return zone
}

func centralMeridian(zone int) float64 {
	return float64((zone-1)*6 - 180 + 3)
}

// krueger holds the per-ellipsoid series constants.
type krueger struct {
	e     float64    // first eccentricity
	a     float64    // rectifying radius, "A" in Karney 2011
	alpha [6]float64 // forward series
	beta  [6]float64 // reverse series
}

func newKrueger(e ellipsoid.Ellipsoid) krueger {
	n := e.N
	n2 := n * n
	n3 := n2 * n
	n4 := n3 * n
	n5 := n4 * n
	n6 := n5 * n
	return krueger{
		e: math.Sqrt(e.E2),
		a: e.A / (1 + n) * (1 + n2/4 + n4/64 + n6/256),
		alpha: [6]float64{
			n/2 - 2.0/3*n2 + 5.0/16*n3 + 41.0/180*n4 - 127.0/288*n5 + 7891.0/37800*n6,
			13.0/48*n2 - 3.0/5*n3 + 557.0/1440*n4 + 281.0/630*n5 - 1983433.0/1935360*n6,
			61.0/240*n3 - 103.0/140*n4 + 15061.0/26880*n5 + 167603.0/181440*n6,
			49561.0/161280*n4 - 179.0/168*n5 + 6601661.0/7257600*n6,
			34729.0/80640*n5 - 3418889.0/1995840*n6,
			212378941.0 / 319334400 * n6,
		},
		beta: [6]float64{
			n/2 - 2.0/3*n2 + 37.0/96*n3 - 1.0/360*n4 - 81.0/512*n5 + 96199.0/604800*n6,
			1.0/48*n2 + 1.0/15*n3 - 437.0/1440*n4 + 46.0/105*n5 - 1118711.0/3870720*n6,
			17.0/480*n3 - 37.0/840*n4 - 209.0/4480*n5 + 5569.0/90720*n6,
			4397.0/161280*n4 - 11.0/504*n5 - 830251.0/7257600*n6,
			4583.0/161280*n5 - 108847.0/3991680*n6,
			20648693.0 / 638668800 * n6,
		},
	}
}

// FromLatLon projects a geodetic position on the datum's ellipsoid to
// UTM. Latitudes outside [-80, 84] are not covered by UTM and fail
// with geo.ErrInvalidArgument.
func FromLatLon(p geo.LatLon, datum ellipsoid.Datum) (Coord, error) {
	if _, err := geo.NewLatLon(p.Lat, geo.Wrap180(p.Lon)); err != nil {
		return Coord{}, err
	}
	if _, err := LatBand(p.Lat); err != nil {
		return Coord{}, err
	}

	zone := zoneFor(p.Lat, geo.Wrap180(p.Lon))
	λ := geo.Radians(geo.Wrap180(p.Lon) - centralMeridian(zone))
	φ := geo.Radians(p.Lat)
	k := newKrueger(datum.Ellipsoid)

	// Geodetic latitude to conformal latitude on the sphere.
	τ := math.Tan(φ)
	σ := math.Sinh(k.e * math.Atanh(k.e*τ/math.Sqrt(1+τ*τ)))
	τp := τ*math.Sqrt(1+σ*σ) - σ*math.Sqrt(1+τ*τ)

	ξp := math.Atan2(τp, math.Cos(λ))
	ηp := math.Asinh(math.Sin(λ) / math.Sqrt(τp*τp+math.Cos(λ)*math.Cos(λ)))

	ξ, η := ξp, ηp
	for j, α := range k.alpha {
		m := 2 * float64(j+1)
		ξ += α * math.Sin(m*ξp) * math.Cosh(m*ηp)
		η += α * math.Cos(m*ξp) * math.Sinh(m*ηp)
	}

	c := Coord{
		Zone:       zone,
		Hemisphere: North,
		Easting:    falseEasting + scaleFactor*k.a*η,
		Northing:   scaleFactor * k.a * ξ,
	}
	if p.Lat < 0 {
		c.Hemisphere = South
		c.Northing += falseNorthing
	}
	return c, nil
}

// ToLatLon inverts the projection back to geodetic coordinates on the
// datum's ellipsoid.
func (c Coord) ToLatLon(datum ellipsoid.Datum) (geo.LatLon, error) {
	if c.Zone < 1 || c.Zone > 60 {
		return geo.LatLon{}, errors.Mark(
			errors.Newf("zone must be in [1, 60], got %d", c.Zone),
			geo.ErrInvalidArgument,
		)
	}
	if c.Hemisphere != North && c.Hemisphere != South {
		return geo.LatLon{}, errors.Mark(
			errors.Newf("hemisphere must be 'N' or 'S', got %q", c.Hemisphere),
			geo.ErrInvalidArgument,
		)
	}

	k := newKrueger(datum.Ellipsoid)
	y := c.Northing
	if c.Hemisphere == South {
		y -= falseNorthing
	}
	ξ := y / (scaleFactor * k.a)
	η := (c.Easting - falseEasting) / (scaleFactor * k.a)

	ξp, ηp := ξ, η
	for j, β := range k.beta {
		m := 2 * float64(j+1)
		ξp -= β * math.Sin(m*ξ) * math.Cosh(m*η)
		ηp -= β * math.Cos(m*ξ) * math.Sinh(m*η)
	}

	sinhηp := math.Sinh(ηp)
	sinξp, cosξp := math.Sin(ξp), math.Cos(ξp)
	τp := sinξp / math.Sqrt(sinhηp*sinhηp+cosξp*cosξp)

	// Newton iteration back from conformal to geodetic latitude.
	τ := τp
	for i := 0; i < 20; i++ {
		σ := math.Sinh(k.e * math.Atanh(k.e*τ/math.Sqrt(1+τ*τ)))
		τi := τ*math.Sqrt(1+σ*σ) - σ*math.Sqrt(1+τ*τ)
		δ := (τp - τi) / math.Sqrt(1+τi*τi) *
			(1 + (1-k.e*k.e)*τ*τ) / ((1 - k.e*k.e) * math.Sqrt(1+τ*τ))
		τ += δ
		if math.Abs(δ) < 1e-12 {
			break
		}
	}

	φ := math.Atan(τ)
	λ := math.Atan2(sinhηp, cosξp)
	return geo.LatLon{
		Lat: geo.Degrees(φ),
		Lon: geo.Wrap180(geo.Degrees(λ) + centralMeridian(c.Zone)),
	}, nil
}
