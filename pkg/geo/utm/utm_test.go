// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package utm

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/geodesy/pkg/geo"
	"github.com/cockroachdb/geodesy/pkg/geo/ellipsoid"
	"github.com/stretchr/testify/require"
)

func TestFromLatLonKnown(t *testing.T) {
	// The equator on a zone's central meridian is the false origin.
	c, err := FromLatLon(geo.LatLon{Lat: 0, Lon: 3}, ellipsoid.DatumWGS84)
	require.NoError(t, err)
	require.Equal(t, 31, c.Zone)
	require.Equal(t, North, c.Hemisphere)
	require.InDelta(t, 500000, c.Easting, 1e-6)
	require.InDelta(t, 0, c.Northing, 1e-6)

	// Paris.
	c, err = FromLatLon(geo.LatLon{Lat: 48.8582, Lon: 2.2945}, ellipsoid.DatumWGS84)
	require.NoError(t, err)
	require.Equal(t, 31, c.Zone)
	require.Equal(t, North, c.Hemisphere)
	require.InDelta(t, 448252, c.Easting, 1.0)
	require.InDelta(t, 5411933, c.Northing, 1.0)

	// Southern hemisphere gets the 10,000 km false northing.
	c, err = FromLatLon(geo.LatLon{Lat: -33.857, Lon: 151.215}, ellipsoid.DatumWGS84)
	require.NoError(t, err)
	require.Equal(t, 56, c.Zone)
	require.Equal(t, South, c.Hemisphere)
	require.Greater(t, c.Northing, 6e6)
	require.Less(t, c.Northing, falseNorthing)
}

func TestZoneExceptions(t *testing.T) {
	testCases := []struct {
		desc     string
		lat, lon float64
		expected int
	}{
		{desc: "regular zone 31", lat: 48, lon: 2, expected: 31},
		{desc: "norway widened 32", lat: 60.5, lon: 5, expected: 32},
		{desc: "norway below band V", lat: 55, lon: 5, expected: 31},
		{desc: "norway east of band V start", lat: 56, lon: 3, expected: 32},
		{desc: "svalbard 31", lat: 75, lon: 8, expected: 31},
		{desc: "svalbard 33 west", lat: 75, lon: 9, expected: 33},
		{desc: "svalbard 33 east", lat: 75, lon: 20, expected: 33},
		{desc: "svalbard 35 west", lat: 75, lon: 21, expected: 35},
		{desc: "svalbard 35 east", lat: 75, lon: 32, expected: 35},
		{desc: "svalbard 37", lat: 75, lon: 33, expected: 37},
		{desc: "below svalbard band", lat: 71, lon: 10, expected: 32},
		{desc: "antimeridian wraps to 60", lat: 0, lon: -180, expected: 60},
		{desc: "antimeridian east edge", lat: 0, lon: 179.999, expected: 60},
		{desc: "west edge of zone 1", lat: 0, lon: -179.999, expected: 1},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			c, err := FromLatLon(geo.LatLon{Lat: tc.lat, Lon: tc.lon}, ellipsoid.DatumWGS84)
			require.NoError(t, err)
			require.Equal(t, tc.expected, c.Zone)
		})
	}
}

func TestLatBand(t *testing.T) {
	testCases := []struct {
		lat      float64
		expected byte
	}{
		{lat: -80, expected: 'C'},
		{lat: 0, expected: 'N'},
		{lat: 48.8582, expected: 'U'},
		{lat: 63, expected: 'V'},
		{lat: 72, expected: 'X'},
		{lat: 84, expected: 'X'},
	}
	for _, tc := range testCases {
		b, err := LatBand(tc.lat)
		require.NoError(t, err)
		require.Equal(t, tc.expected, b, "lat %f", tc.lat)
	}

	_, err := LatBand(-80.1)
	require.True(t, errors.Is(err, geo.ErrInvalidArgument))
	_, err = LatBand(84.1)
	require.True(t, errors.Is(err, geo.ErrInvalidArgument))
}

func TestRoundTrip(t *testing.T) {
	for lat := -72.0; lat <= 72; lat += 18 {
		for lon := -177.0; lon <= 177; lon += 21 {
			c, err := FromLatLon(geo.LatLon{Lat: lat, Lon: lon}, ellipsoid.DatumWGS84)
			require.NoError(t, err)
			p, err := c.ToLatLon(ellipsoid.DatumWGS84)
			require.NoError(t, err)
			require.InDelta(t, lat, p.Lat, 1e-8, "lat %f lon %f", lat, lon)
			require.InDelta(t, lon, p.Lon, 1e-8, "lat %f lon %f", lat, lon)
		}
	}
}

func TestRoundTripOtherDatum(t *testing.T) {
	// The projection math follows the datum's ellipsoid, not WGS84.
	ed50, err := ellipsoid.DatumByName("ED50")
	require.NoError(t, err)
	c, err := FromLatLon(geo.LatLon{Lat: 52, Lon: 10}, ed50)
	require.NoError(t, err)
	p, err := c.ToLatLon(ed50)
	require.NoError(t, err)
	require.InDelta(t, 52, p.Lat, 1e-8)
	require.InDelta(t, 10, p.Lon, 1e-8)

	// On a different ellipsoid the same lat/lon projects elsewhere.
	cw, err := FromLatLon(geo.LatLon{Lat: 52, Lon: 10}, ellipsoid.DatumWGS84)
	require.NoError(t, err)
	require.NotEqual(t, cw.Northing, c.Northing)
}

func TestInvalidInput(t *testing.T) {
	_, err := FromLatLon(geo.LatLon{Lat: 85, Lon: 0}, ellipsoid.DatumWGS84)
	require.True(t, errors.Is(err, geo.ErrInvalidArgument))
	_, err = FromLatLon(geo.LatLon{Lat: -85, Lon: 0}, ellipsoid.DatumWGS84)
	require.True(t, errors.Is(err, geo.ErrInvalidArgument))

	_, err = Coord{Zone: 0, Hemisphere: North, Easting: 5e5}.ToLatLon(ellipsoid.DatumWGS84)
	require.True(t, errors.Is(err, geo.ErrInvalidArgument))
	_, err = Coord{Zone: 61, Hemisphere: North, Easting: 5e5}.ToLatLon(ellipsoid.DatumWGS84)
	require.True(t, errors.Is(err, geo.ErrInvalidArgument))
	_, err = Coord{Zone: 31, Hemisphere: 'X', Easting: 5e5}.ToLatLon(ellipsoid.DatumWGS84)
	require.True(t, errors.Is(err, geo.ErrInvalidArgument))
}

func TestString(t *testing.T) {
	c := Coord{Zone: 31, Hemisphere: North, Easting: 448251.8, Northing: 5411932.7}
	require.Equal(t, "31 N 448252 5411933", c.String())
}
