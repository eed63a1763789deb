// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package osgr

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/geodesy/pkg/geo"
	"github.com/stretchr/testify/require"
)

// The worked example from the OS coordinate systems guide:
// 52°39′27.2531″N 1°43′4.5177″E (OSGB36) is E 651409.903 N 313177.270.
const (
	exampleLat = 52 + 39.0/60 + 27.2531/3600
	exampleLon = 1 + 43.0/60 + 4.5177/3600
)

func TestFromOSGB36WorkedExample(t *testing.T) {
	r, err := FromOSGB36(geo.LatLon{Lat: exampleLat, Lon: exampleLon})
	require.NoError(t, err)
	require.InDelta(t, 651409.903, r.Easting, 0.001)
	require.InDelta(t, 313177.270, r.Northing, 0.001)

	s, err := r.StringPrecision(10)
	require.NoError(t, err)
	require.Equal(t, "TG 51409 13177", s)
}

func TestToOSGB36WorkedExample(t *testing.T) {
	p, err := Ref{Easting: 651409.903, Northing: 313177.270}.ToOSGB36()
	require.NoError(t, err)
	require.InDelta(t, exampleLat, p.Lat, 1e-8)
	require.InDelta(t, exampleLon, p.Lon, 1e-8)
}

func TestRoundTripOSGB36(t *testing.T) {
	// A spread of points across the grid extent.
	for _, p := range []geo.LatLon{
		{Lat: 49.95, Lon: -5.2},  // Land's End
		{Lat: 51.5, Lon: -0.12},  // London
		{Lat: 54.5, Lon: -3.1},   // Lake District
		{Lat: 57.15, Lon: -2.1},  // Aberdeen
		{Lat: 60.75, Lon: -0.85}, // Shetland
	} {
		r, err := FromOSGB36(p)
		require.NoError(t, err)
		back, err := r.ToOSGB36()
		require.NoError(t, err)
		require.InDelta(t, p.Lat, back.Lat, 1e-8, "point %+v", p)
		require.InDelta(t, p.Lon, back.Lon, 1e-8, "point %+v", p)
	}
}

func TestRoundTripWGS84(t *testing.T) {
	p := geo.LatLon{Lat: 51.4778, Lon: -0.0016} // Greenwich observatory
	r, err := FromLatLon(p)
	require.NoError(t, err)
	back, err := r.ToLatLon()
	require.NoError(t, err)
	require.InDelta(t, p.Lat, back.Lat, 1e-6)
	require.InDelta(t, p.Lon, back.Lon, 1e-6)

	// The datum shift moves Greenwich about 100m on the grid relative
	// to treating the coordinates as OSGB36.
	raw, err := FromOSGB36(p)
	require.NoError(t, err)
	require.Greater(t, abs(raw.Northing-r.Northing)+abs(raw.Easting-r.Easting), 50.0)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestOffGrid(t *testing.T) {
	_, err := FromOSGB36(geo.LatLon{Lat: 48.8582, Lon: 2.2945}) // Paris
	require.Error(t, err)
	require.True(t, errors.Is(err, geo.ErrInvalidArgument))

	_, err = Ref{Easting: -1, Northing: 0}.ToOSGB36()
	require.True(t, errors.Is(err, geo.ErrInvalidArgument))
	_, err = Ref{Easting: 0, Northing: 1300e3}.ToOSGB36()
	require.True(t, errors.Is(err, geo.ErrInvalidArgument))
}

func TestStringPrecision(t *testing.T) {
	r := Ref{Easting: 651409.903, Northing: 313177.270}
	testCases := []struct {
		digits   int
		expected string
	}{
		{digits: 10, expected: "TG 51409 13177"},
		{digits: 8, expected: "TG 5140 1317"},
		{digits: 6, expected: "TG 514 131"},
		{digits: 4, expected: "TG 51 13"},
		{digits: 2, expected: "TG 5 1"},
	}
	for _, tc := range testCases {
		s, err := r.StringPrecision(tc.digits)
		require.NoError(t, err)
		require.Equal(t, tc.expected, s)
	}

	_, err := r.StringPrecision(5)
	require.True(t, errors.Is(err, geo.ErrInvalidArgument))
	_, err = r.StringPrecision(12)
	require.True(t, errors.Is(err, geo.ErrInvalidArgument))

	require.Equal(t, "TG 51409 13177", r.String())
}

func TestParse(t *testing.T) {
	testCases := []struct {
		desc        string
		in          string
		east, north float64
	}{
		{desc: "letter pair", in: "TG 51409 13177", east: 651409, north: 313177},
		{desc: "no spaces", in: "TG5140913177", east: 651409, north: 313177},
		{desc: "lower case", in: "tg 51409 13177", east: 651409, north: 313177},
		{desc: "coarse", in: "TG 51 13", east: 651000, north: 313000},
		{desc: "square only", in: "SV", east: 0, north: 0},
		{desc: "origin square", in: "SV 00000 00000", east: 0, north: 0},
		{desc: "numeric pair", in: "651409.903,313177.270", east: 651409.903, north: 313177.270},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			r, err := Parse(tc.in)
			require.NoError(t, err)
			require.InDelta(t, tc.east, r.Easting, 1e-9)
			require.InDelta(t, tc.north, r.Northing, 1e-9)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"T",
		"IG 51409 13177", // I is never used
		"AA 51409 13177", // off the grid
		"TG 514 13",      // odd digit split
		"TG 514091 131771",
		"x,y",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			require.True(t, errors.Is(err, geo.ErrInvalidArgument))
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	r, err := Parse("TG 51409 13177")
	require.NoError(t, err)
	s, err := r.StringPrecision(10)
	require.NoError(t, err)
	require.Equal(t, "TG 51409 13177", s)
}
