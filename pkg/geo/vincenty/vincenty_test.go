// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package vincenty

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/geodesy/pkg/geo"
	"github.com/cockroachdb/geodesy/pkg/geo/ellipsoid"
	"github.com/stretchr/testify/require"
)

func TestInverseReference(t *testing.T) {
	// Land's End to Dunnet Head, a classic worked example for Vincenty
	// on WGS84: 50°03′58.76″N 5°42′53.10″W to 58°38′38.48″N
	// 3°04′12.34″W is 969954.166 m. The seconds are quoted to 0.01″,
	// about 0.3 m of position, so the distance is held to a tenth of a
	// meter rather than to the solver's millimeter accuracy.
	p1 := geo.LatLon{
		Lat: 50 + 3.0/60 + 58.76/3600,
		Lon: -(5 + 42.0/60 + 53.10/3600),
	}
	p2 := geo.LatLon{
		Lat: 58 + 38.0/60 + 38.48/3600,
		Lon: -(3 + 4.0/60 + 12.34/3600),
	}

	r, err := Inverse(p1, p2, ellipsoid.WGS84)
	require.NoError(t, err)
	require.InDelta(t, 969954.166, r.Distance, 0.1)

	initial, ok := r.InitialBearing()
	require.True(t, ok)
	require.InDelta(t, 9.1419, initial, 0.01)
	_, ok = r.FinalBearing()
	require.True(t, ok)
	require.False(t, r.Coincident())
}

func TestInverseSymmetry(t *testing.T) {
	testCases := []struct {
		desc   string
		p1, p2 geo.LatLon
	}{
		{
			desc: "mid latitudes",
			p1:   geo.LatLon{Lat: 50.06632, Lon: -5.71475},
			p2:   geo.LatLon{Lat: 58.64402, Lon: -3.07000},
		},
		{
			desc: "across the equator",
			p1:   geo.LatLon{Lat: -33.8688, Lon: 151.2093},
			p2:   geo.LatLon{Lat: 35.6762, Lon: 139.6503},
		},
		{
			desc: "across the antimeridian",
			p1:   geo.LatLon{Lat: 21.3069, Lon: -157.8583},
			p2:   geo.LatLon{Lat: 35.6762, Lon: 139.6503},
		},
		{
			desc: "equatorial",
			p1:   geo.LatLon{Lat: 0, Lon: 10},
			p2:   geo.LatLon{Lat: 0, Lon: 50},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			fwd, err := Inverse(tc.p1, tc.p2, ellipsoid.WGS84)
			require.NoError(t, err)
			rev, err := Inverse(tc.p2, tc.p1, ellipsoid.WGS84)
			require.NoError(t, err)

			require.InDelta(t, fwd.Distance, rev.Distance, 1e-6)

			fwdInitial, ok := fwd.InitialBearing()
			require.True(t, ok)
			revFinal, ok := rev.FinalBearing()
			require.True(t, ok)
			// Walking the geodesic backwards reverses the azimuth.
			require.InDelta(t, 180, math.Abs(geo.Wrap180(fwdInitial-revFinal)), 1e-6)
		})
	}
}

func TestDirectInverseRoundTrip(t *testing.T) {
	starts := []geo.LatLon{
		{Lat: 50.06632, Lon: -5.71475},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 0.5, Lon: 0},
		{Lat: 72, Lon: -40},
	}
	for _, p1 := range starts {
		for bearing := 0.0; bearing < 360; bearing += 30 {
			for _, distance := range []float64{12.3, 9876.5, 123456.7, 5000000} {
				d, err := Direct(p1, bearing, distance, ellipsoid.WGS84)
				require.NoError(t, err)
				r, err := Inverse(p1, d.Destination, ellipsoid.WGS84)
				require.NoError(t, err)
				require.InDelta(t, distance, r.Distance, 1e-3,
					"from %+v bearing %f distance %f", p1, bearing, distance)
				initial, ok := r.InitialBearing()
				require.True(t, ok)
				require.InDelta(t, 0, geo.Wrap180(bearing-initial), 1e-5)
				final, ok := r.FinalBearing()
				require.True(t, ok)
				require.InDelta(t, 0, geo.Wrap180(d.FinalBearing-final), 1e-5)
			}
		}
	}
}

func TestInverseCoincident(t *testing.T) {
	p := geo.LatLon{Lat: 48.8582, Lon: 2.2945}
	r, err := Inverse(p, p, ellipsoid.WGS84)
	require.NoError(t, err)
	require.Zero(t, r.Distance)
	require.True(t, r.Coincident())
	_, ok := r.InitialBearing()
	require.False(t, ok)
	_, ok = r.FinalBearing()
	require.False(t, ok)

	// The same point expressed across the antimeridian seam.
	r, err = Inverse(
		geo.LatLon{Lat: 10, Lon: 180},
		geo.LatLon{Lat: 10, Lon: -180},
		ellipsoid.WGS84,
	)
	require.NoError(t, err)
	require.Zero(t, r.Distance)
	require.True(t, r.Coincident())
}

func TestInverseAntipodalOnSphere(t *testing.T) {
	testCases := []struct {
		desc   string
		p1, p2 geo.LatLon
	}{
		{
			desc: "equatorial antipodes",
			p1:   geo.LatLon{Lat: 0, Lon: 0},
			p2:   geo.LatLon{Lat: 0, Lon: 180},
		},
		{
			desc: "mid-latitude antipodes",
			p1:   geo.LatLon{Lat: 30, Lon: 0},
			p2:   geo.LatLon{Lat: -30, Lon: 180},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := Inverse(tc.p1, tc.p2, ellipsoid.Sphere)
			require.Error(t, err)
			require.True(t, IsAntipodal(err), "got %v", err)
		})
	}
}

func TestInverseNearAntipodal(t *testing.T) {
	// A notorious near-antipodal pair for which Vincenty's iteration
	// does not settle. It must fail with a diagnostic, not return a
	// wrong distance.
	_, err := Inverse(
		geo.LatLon{Lat: 0, Lon: 0},
		geo.LatLon{Lat: 0.5, Lon: 179.7},
		ellipsoid.WGS84,
	)
	require.Error(t, err)
	var vErr *Error
	require.True(t, errors.As(err, &vErr))
	require.Contains(t,
		[]Reason{ReasonAntipodal, ReasonNoConvergence}, vErr.Reason)
}

func TestDirectInvalidInput(t *testing.T) {
	p := geo.LatLon{Lat: 50, Lon: 0}
	testCases := []struct {
		desc     string
		p1       geo.LatLon
		bearing  float64
		distance float64
	}{
		{desc: "negative distance", p1: p, bearing: 0, distance: -1},
		{desc: "NaN distance", p1: p, bearing: 0, distance: math.NaN()},
		{desc: "Inf distance", p1: p, bearing: 0, distance: math.Inf(1)},
		{desc: "NaN bearing", p1: p, bearing: math.NaN(), distance: 100},
		{desc: "NaN latitude", p1: geo.LatLon{Lat: math.NaN()}, bearing: 0, distance: 100},
		{desc: "latitude out of range", p1: geo.LatLon{Lat: 91}, bearing: 0, distance: 100},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := Direct(tc.p1, tc.bearing, tc.distance, ellipsoid.WGS84)
			require.Error(t, err)
			require.True(t, errors.Is(err, geo.ErrInvalidArgument))
		})
	}
}

func TestDirectZeroDistance(t *testing.T) {
	p := geo.LatLon{Lat: 50, Lon: 0}
	d, err := Direct(p, 123, 0, ellipsoid.WGS84)
	require.NoError(t, err)
	require.Equal(t, p, d.Destination)
	require.Equal(t, 123.0, d.FinalBearing)
}

func TestDirectKnownPoint(t *testing.T) {
	// Due north from the equator for a quarter meridian arc lands on
	// the pole; the meridian quadrant on WGS84 is 10001965.729 m.
	d, err := Direct(geo.LatLon{Lat: 0, Lon: 0}, 0, 10001965.729, ellipsoid.WGS84)
	require.NoError(t, err)
	require.InDelta(t, 90, d.Destination.Lat, 1e-5)

	// Due east along the equator one degree of longitude is a·π/180.
	oneDegree := ellipsoid.WGS84.A * math.Pi / 180
	d, err = Direct(geo.LatLon{Lat: 0, Lon: 0}, 90, oneDegree, ellipsoid.WGS84)
	require.NoError(t, err)
	require.InDelta(t, 0, d.Destination.Lat, 1e-9)
	require.InDelta(t, 1, d.Destination.Lon, 1e-9)
}

func TestInverseOnSphereMatchesGreatCircle(t *testing.T) {
	// With zero flattening the geodesic is the great circle, so the
	// solver must agree with spherical arc length.
	p1 := geo.LatLon{Lat: 10, Lon: 20}
	p2 := geo.LatLon{Lat: -40, Lon: 100}
	r, err := Inverse(p1, p2, ellipsoid.Sphere)
	require.NoError(t, err)

	arc := p1.S2LatLng().Distance(p2.S2LatLng()).Radians()
	require.InDelta(t, arc*ellipsoid.Sphere.A, r.Distance, 1e-3)
}
