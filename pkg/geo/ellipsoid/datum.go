// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package ellipsoid

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/geodesy/pkg/geo"
	"github.com/cockroachdb/geodesy/pkg/geo/vector"
)

const arcsecToRad = math.Pi / 180 / 3600

// Transform is a 7-parameter Helmert transform anchoring a datum to
// WGS84: a translation in meters, rotations in radians and a scale
// offset in parts per million. Parameters are held in the conventional
// published direction, WGS84 toward the datum.
type Transform struct {
	Name       string
	TX, TY, TZ float64 // translation, meters
	RX, RY, RZ float64 // rotation, radians
	S          float64 // scale change, ppm
}

// newTransform takes rotations in arcseconds, the conventional unit
// for published Helmert parameters.
func newTransform(name string, tx, ty, tz, s, rx, ry, rz float64) Transform {
	t := Transform{
		Name: name,
		TX:   tx, TY: ty, TZ: tz,
		RX: rx * arcsecToRad, RY: ry * arcsecToRad, RZ: rz * arcsecToRad,
		S: s,
	}
	transforms[name] = t
	return t
}

// Apply transforms a geocentric cartesian position.
func (t Transform) Apply(v vector.Vector3) vector.Vector3 {
	s1 := 1 + t.S*1e-6
	return vector.New(
		t.TX+v.X*s1-v.Y*t.RZ+v.Z*t.RY,
		t.TY+v.X*t.RZ+v.Y*s1-v.Z*t.RX,
		t.TZ-v.X*t.RY+v.Y*t.RX+v.Z*s1,
	)
}

// Inverse returns the reverse transform. Exact inversion of a Helmert
// transform is nonlinear; negating the parameters is the standard
// approximation, good to well below the parameter accuracy.
func (t Transform) Inverse() Transform {
	return Transform{
		Name: t.Name + " (inverse)",
		TX:   -t.TX, TY: -t.TY, TZ: -t.TZ,
		RX: -t.RX, RY: -t.RY, RZ: -t.RZ,
		S: -t.S,
	}
}

// Datum is an ellipsoid anchored to WGS84 by a Helmert transform.
type Datum struct {
	Name      string
	Ellipsoid Ellipsoid
	Transform Transform // WGS84 -> datum
}

var (
	transforms = map[string]Transform{}
	datums     = map[string]Datum{}
)

func mustDatum(name string, e Ellipsoid, t Transform) Datum {
	d := Datum{Name: name, Ellipsoid: e, Transform: t}
	datums[name] = d
	return d
}

// Standard transforms, in the published WGS84-to-datum direction.
// Rotations in arcseconds, translations in meters, scale in ppm.
var (
	transformWGS84 = newTransform("WGS84", 0, 0, 0, 0, 0, 0, 0)
	transformOSGB36 = newTransform("OSGB36",
		-446.448, 125.157, -542.060, 20.4894, -0.1502, -0.2470, -0.8421)
	transformED50      = newTransform("ED50", 89.5, 93.8, 123.1, -1.2, 0, 0, 0.156)
	transformIrl1975   = newTransform("Irl1975", -482.530, 130.596, -564.557, -8.150, -1.042, -0.214, -0.631)
	transformNAD27     = newTransform("NAD27", 8, -160, -176, 0, 0, 0, 0)
	transformNAD83     = newTransform("NAD83", 1.004, -1.910, -0.515, -0.0015, 0.0267, 0.00034, 0.011)
	transformNTF       = newTransform("NTF", -168, -60, 320, 0, 0, 0, 0)
	transformTokyo     = newTransform("TokyoJapan", 148, -507, -685, 0, 0, 0, 0)
	transformWGS72     = newTransform("WGS72", 0, 0, -4.5, -0.22, 0, 0, 0.554)
)

// The standard datums, registered at init.
var (
	DatumWGS84      = mustDatum("WGS84", WGS84, transformWGS84)
	DatumOSGB36     = mustDatum("OSGB36", Airy1830, transformOSGB36)
	DatumED50       = mustDatum("ED50", Intl1924, transformED50)
	DatumIrl1975    = mustDatum("Irl1975", AiryModified, transformIrl1975)
	DatumNAD27      = mustDatum("NAD27", Clarke1866, transformNAD27)
	DatumNAD83      = mustDatum("NAD83", GRS80, transformNAD83)
	DatumNTF        = mustDatum("NTF", Clarke1880IGN, transformNTF)
	DatumTokyoJapan = mustDatum("TokyoJapan", Bessel1841, transformTokyo)
	DatumWGS72      = mustDatum("WGS72", WGS72, transformWGS72)
)

// DatumByName returns the registered datum with the given name. The
// match is case-sensitive; a miss fails with ErrUnknownDatum.
func DatumByName(name string) (Datum, error) {
	d, ok := datums[name]
	if !ok {
		return Datum{}, errors.Mark(errors.Newf("no datum named %q", name), ErrUnknownDatum)
	}
	return d, nil
}

// TransformByName returns the registered Helmert transform with the
// given name. A miss fails with ErrUnknownDatum.
func TransformByName(name string) (Transform, error) {
	t, ok := transforms[name]
	if !ok {
		return Transform{}, errors.Mark(errors.Newf("no transform named %q", name), ErrUnknownDatum)
	}
	return t, nil
}

// ConvertTo shifts a position given in datum d to datum to, passing
// through geocentric WGS84 cartesian coordinates.
func (d Datum) ConvertTo(to Datum, p geo.LatLon) (geo.LatLon, error) {
	if d.Name == to.Name {
		return p, nil
	}
	c, err := ToCartesian(p, d.Ellipsoid)
	if err != nil {
		return geo.LatLon{}, err
	}
	c = d.Transform.Inverse().Apply(c) // d -> WGS84
	c = to.Transform.Apply(c)          // WGS84 -> to
	return ToGeodetic(c, to.Ellipsoid), nil
}
