// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package dms formats and parses angles as degrees, minutes and
// seconds. Formatting uses the conventional ° ′ ″ symbols; parsing is
// permissive about separators and accepts plain signed decimal degrees
// as well.
package dms

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/geodesy/pkg/geo"
)

// Style selects the output form of Format.
type Style int

const (
	// D formats as decimal degrees: 51.4778°.
	D Style = iota
	// DM formats as degrees and decimal minutes: 51°28.67′.
	DM
	// DMS formats as degrees, minutes and decimal seconds: 51°28′40″.
	DMS
)

// Format renders an angle in degrees in the given style. prec is the
// number of decimal places on the last component.
func Format(deg float64, style Style, prec int) string {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return "–"
	}
	sign := ""
	if deg < 0 {
		sign = "-"
		deg = -deg
	}
	switch style {
	case DM:
		d := math.Floor(deg)
		m := (deg - d) * 60
		// Carry rounding overflow on the minutes into the degrees.
		if rounded, _ := strconv.ParseFloat(strconv.FormatFloat(m, 'f', prec, 64), 64); rounded >= 60 {
			m = 0
			d++
		}
		return fmt.Sprintf("%s%d°%.*f′", sign, int(d), prec, m)
	case DMS:
		d := math.Floor(deg)
		m := math.Floor((deg - d) * 60)
		s := (deg - d - m/60) * 3600
		if rounded, _ := strconv.ParseFloat(strconv.FormatFloat(s, 'f', prec, 64), 64); rounded >= 60 {
			s = 0
			m++
		}
		if m >= 60 {
			m = 0
			d++
		}
		return fmt.Sprintf("%s%d°%d′%.*f″", sign, int(d), int(m), prec, s)
	default:
		return fmt.Sprintf("%s%.*f°", sign, prec, deg)
	}
}

// FormatLat renders a latitude with its hemisphere suffix, e.g.
// 51°28′40″N.
func FormatLat(lat float64, style Style, prec int) string {
	suffix := "N"
	if lat < 0 {
		suffix = "S"
		lat = -lat
	}
	return Format(lat, style, prec) + suffix
}

// FormatLon renders a longitude with its hemisphere suffix, e.g.
// 0°00′05″W.
func FormatLon(lon float64, style Style, prec int) string {
	lon = geo.Wrap180(lon)
	suffix := "E"
	if lon < 0 {
		suffix = "W"
		lon = -lon
	}
	return Format(lon, style, prec) + suffix
}

// FormatBearing renders a bearing normalized to [0, 360).
func FormatBearing(bearing float64, style Style, prec int) string {
	return Format(geo.Wrap360(bearing), style, prec)
}

var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint returns the compass point for a bearing at the given
// precision: 1 is cardinal (N, E, S, W), 2 intercardinal (8 winds),
// 3 the full 16-wind rose. Other precisions fail with
// geo.ErrInvalidArgument.
func CompassPoint(bearing float64, precision int) (string, error) {
	if precision < 1 || precision > 3 {
		return "", errors.Mark(
			errors.Newf("compass precision must be 1, 2 or 3, got %d", precision),
			geo.ErrInvalidArgument,
		)
	}
	// 4, 8 or 16 winds.
	n := 4 << (precision - 1)
	i := int(math.Round(geo.Wrap360(bearing)/360*float64(n))) % n
	// Map onto the 16-point table at the coarser precision's stride.
	return compassPoints[i*16/n], nil
}

// Parse reads an angle in degrees from a string: signed decimal
// ("-3.62"), or degree/minute/second components with symbols or
// spaces ("51°28′40.12″N", "51 28 40.12"). A trailing N/E makes the
// result positive, S/W negative.
func Parse(s string) (float64, error) {
	orig := s
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.Mark(errors.New("empty angle"), geo.ErrInvalidArgument)
	}

	sign := 1.0
	switch s[len(s)-1] {
	case 'N', 'E', 'n', 'e':
		s = strings.TrimSpace(s[:len(s)-1])
	case 'S', 'W', 's', 'w':
		sign = -1
		s = strings.TrimSpace(s[:len(s)-1])
	}
	if strings.HasPrefix(s, "-") {
		sign = -sign
		s = s[1:]
	}

	// Split on any separator or symbol between numeric components.
	fields := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case '°', '′', '″', '\'', '"', ' ', '\t', ':':
			return true
		}
		return false
	})
	if len(fields) == 0 || len(fields) > 3 {
		return 0, errors.Mark(
			errors.Newf("cannot parse angle from %q", orig),
			geo.ErrInvalidArgument,
		)
	}

	var deg float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, errors.Mark(
				errors.Wrapf(err, "cannot parse angle from %q", orig),
				geo.ErrInvalidArgument,
			)
		}
		if i > 0 && v < 0 {
			return 0, errors.Mark(
				errors.Newf("minutes and seconds must be non-negative in %q", orig),
				geo.ErrInvalidArgument,
			)
		}
		deg += v / math.Pow(60, float64(i))
	}
	return sign * deg, nil
}

// ParseLatLon reads a latitude and longitude pair, e.g.
// ("51°28′40″N", "0°00′05″W").
func ParseLatLon(lat, lon string) (geo.LatLon, error) {
	φ, err := Parse(lat)
	if err != nil {
		return geo.LatLon{}, err
	}
	λ, err := Parse(lon)
	if err != nil {
		return geo.LatLon{}, err
	}
	return geo.NewLatLon(φ, λ)
}
