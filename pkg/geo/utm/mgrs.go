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
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/geodesy/pkg/geo"
	"github.com/cockroachdb/geodesy/pkg/geo/ellipsoid"
)

// The 100km grid square column letters repeat every three zones and
// the row letters every two zones (every 2,000 km of northing).
var (
	e100kLetters = [3]string{"ABCDEFGH", "JKLMNPQR", "STUVWXYZ"}
	n100kLetters = [2]string{"ABCDEFGHJKLMNPQRSTUV", "FGHJKLMNPQRSTUVABCDE"}
)

// MGRS is a Military Grid Reference System position: UTM zone, latitude
// band, 100km grid square letters, and easting/northing within the
// square.
type MGRS struct {
	Zone     int
	Band     byte
	E100k    byte
	N100k    byte
	Easting  float64 // meters within the 100km square, [0, 100000)
	Northing float64
}

// StringPrecision renders the reference with the given number of digits
// per coordinate (1 to 5; 5 digits is 1m resolution).
func (m MGRS) StringPrecision(digits int) (string, error) {
	if digits < 1 || digits > 5 {
		return "", errors.Mark(
			errors.Newf("MGRS digits must be in [1, 5], got %d", digits),
			geo.ErrInvalidArgument,
		)
	}
	div := 1
	for i := digits; i < 5; i++ {
		div *= 10
	}
	return fmt.Sprintf("%d%c %c%c %0*d %0*d",
		m.Zone, m.Band, m.E100k, m.N100k,
		digits, int(m.Easting)/div, digits, int(m.Northing)/div), nil
}

func (m MGRS) String() string {
	s, err := m.StringPrecision(5)
	if err != nil {
		return "<invalid MGRS>"
	}
	return s
}

// ToMGRS converts a UTM coordinate to its MGRS grid reference. The
// datum is needed to recover the latitude band.
func (c Coord) ToMGRS(datum ellipsoid.Datum) (MGRS, error) {
	p, err := c.ToLatLon(datum)
	if err != nil {
		return MGRS{}, err
	}
	band, err := LatBand(p.Lat)
	if err != nil {
		return MGRS{}, err
	}

	col := int(c.Easting / 100e3) // 1..8 within a zone
	row := int(c.Northing/100e3) % 20
	if col < 1 || col > 8 {
		return MGRS{}, errors.Mark(
			errors.Newf("easting %f outside zone extent", c.Easting),
			geo.ErrInvalidArgument,
		)
	}
	return MGRS{
		Zone:     c.Zone,
		Band:     band,
		E100k:    e100kLetters[(c.Zone-1)%3][col-1],
		N100k:    n100kLetters[(c.Zone-1)%2][row],
		Easting:  c.Easting - float64(col)*100e3,
		Northing: c.Northing - float64(int(c.Northing/100e3))*100e3,
	}, nil
}

// ToUTM converts the grid reference back to a full UTM coordinate. The
// latitude band disambiguates the 2,000 km cycle of the row letters.
func (m MGRS) ToUTM(datum ellipsoid.Datum) (Coord, error) {
	if m.Zone < 1 || m.Zone > 60 {
		return Coord{}, errors.Mark(
			errors.Newf("zone must be in [1, 60], got %d", m.Zone),
			geo.ErrInvalidArgument,
		)
	}
	bandIdx := strings.IndexByte(latBands[:len(latBands)-1], m.Band)
	if bandIdx < 0 {
		return Coord{}, errors.Mark(
			errors.Newf("invalid latitude band %q", m.Band),
			geo.ErrInvalidArgument,
		)
	}
	col := strings.IndexByte(e100kLetters[(m.Zone-1)%3], m.E100k)
	if col < 0 {
		return Coord{}, errors.Mark(
			errors.Newf("invalid 100km column letter %q for zone %d", m.E100k, m.Zone),
			geo.ErrInvalidArgument,
		)
	}
	row := strings.IndexByte(n100kLetters[(m.Zone-1)%2], m.N100k)
	if row < 0 {
		return Coord{}, errors.Mark(
			errors.Newf("invalid 100km row letter %q for zone %d", m.N100k, m.Zone),
			geo.ErrInvalidArgument,
		)
	}
	if m.Easting < 0 || m.Easting >= 100e3 || m.Northing < 0 || m.Northing >= 100e3 {
		return Coord{}, errors.Mark(
			errors.Newf("easting/northing must be in [0, 100000), got (%f, %f)",
				m.Easting, m.Northing),
			geo.ErrInvalidArgument,
		)
	}

	hemisphere := North
	if m.Band < 'N' {
		hemisphere = South
	}
	easting := float64(col+1)*100e3 + m.Easting
	n100k := float64(row)*100e3 + m.Northing

	// Northing of the bottom of the latitude band, rounded down to a
	// whole 100km square. The row letters repeat every 2,000 km; walk up
	// in 2,000 km blocks until we reach the band.
	bandBottomLat := float64(bandIdx-10) * 8
	bandOrigin, err := FromLatLon(
		geo.LatLon{Lat: bandBottomLat, Lon: centralMeridian(m.Zone)}, datum)
	if err != nil {
		return Coord{}, err
	}
	nBand := float64(int(bandOrigin.Northing/100e3)) * 100e3

	northing := n100k
	for northing < nBand {
		northing += 2000e3
	}
	return Coord{
		Zone:       m.Zone,
		Hemisphere: hemisphere,
		Easting:    easting,
		Northing:   northing,
	}, nil
}

// ParseMGRS reads a grid reference like "31U DQ 48251 11932" or the
// compact "31UDQ4825111932". Digits may be 1 to 5 per coordinate.
func ParseMGRS(s string) (MGRS, error) {
	orig := s
	s = strings.ToUpper(strings.Join(strings.Fields(s), ""))
	if len(s) < 3 {
		return MGRS{}, errors.Mark(
			errors.Newf("cannot parse MGRS reference %q", orig),
			geo.ErrInvalidArgument,
		)
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i > 2 || len(s) < i+3 {
		return MGRS{}, errors.Mark(
			errors.Newf("cannot parse MGRS reference %q", orig),
			geo.ErrInvalidArgument,
		)
	}
	zone, err := strconv.Atoi(s[:i])
	if err != nil || zone < 1 || zone > 60 {
		return MGRS{}, errors.Mark(
			errors.Newf("invalid zone in MGRS reference %q", orig),
			geo.ErrInvalidArgument,
		)
	}

	band := s[i]
	e100k := s[i+1]
	n100k := s[i+2]
	digits := s[i+3:]
	if len(digits)%2 != 0 || len(digits) > 10 {
		return MGRS{}, errors.Mark(
			errors.Newf("MGRS reference %q must have an even number of digits", orig),
			geo.ErrInvalidArgument,
		)
	}

	half := len(digits) / 2
	var easting, northing float64
	if half > 0 {
		e, err := strconv.Atoi(digits[:half])
		if err != nil {
			return MGRS{}, errors.Mark(
				errors.Wrapf(err, "cannot parse MGRS reference %q", orig),
				geo.ErrInvalidArgument,
			)
		}
		n, err := strconv.Atoi(digits[half:])
		if err != nil {
			return MGRS{}, errors.Mark(
				errors.Wrapf(err, "cannot parse MGRS reference %q", orig),
				geo.ErrInvalidArgument,
			)
		}
		// Scale truncated references up to meters.
		scale := 1
		for j := half; j < 5; j++ {
			scale *= 10
		}
		easting = float64(e * scale)
		northing = float64(n * scale)
	}

	m := MGRS{
		Zone:     zone,
		Band:     band,
		E100k:    e100k,
		N100k:    n100k,
		Easting:  easting,
		Northing: northing,
	}
	// Validate the letters eagerly so parse errors surface here rather
	// than on the later conversion.
	if strings.IndexByte(latBands[:len(latBands)-1], band) < 0 ||
		strings.IndexByte(e100kLetters[(zone-1)%3], e100k) < 0 ||
		strings.IndexByte(n100kLetters[(zone-1)%2], n100k) < 0 {
		return MGRS{}, errors.Mark(
			errors.Newf("invalid letters in MGRS reference %q", orig),
			geo.ErrInvalidArgument,
		)
	}
	return m, nil
}
