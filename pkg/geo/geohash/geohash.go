// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package geohash encodes and decodes geohashes, the base-32
// interleaved-bit encoding of latitude/longitude cells. Longer hashes
// name smaller cells; a hash's cell always contains the cells of every
// extension of it.
package geohash

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/geodesy/pkg/geo"
)

// base32 is the geohash alphabet (no a, i, l, o).
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// MaxPrecision is the longest supported hash. 12 characters resolve to
// about 37 mm of longitude at the equator; beyond that the cell size
// drops below double-precision resolution of degrees.
const MaxPrecision = 12

// Bounds is the cell of a geohash.
type Bounds struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

// Center returns the midpoint of the cell.
func (b Bounds) Center() geo.LatLon {
	return geo.LatLon{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lon: (b.MinLon + b.MaxLon) / 2,
	}
}

// Contains reports whether the cell contains the position.
func (b Bounds) Contains(p geo.LatLon) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Encode returns the geohash of the position at the given precision
// (number of characters, 1 to MaxPrecision).
func Encode(lat, lon float64, precision int) (string, error) {
	if precision < 1 || precision > MaxPrecision {
		return "", errors.Mark(
			errors.Newf("precision must be in [1, %d], got %d", MaxPrecision, precision),
			geo.ErrInvalidArgument,
		)
	}
	if _, err := geo.NewLatLon(lat, lon); err != nil {
		return "", err
	}

	var sb strings.Builder
	minLat, maxLat := -90.0, 90.0
	minLon, maxLon := -180.0, 180.0
	evenBit := true
	idx := 0
	bit := 0
	for sb.Len() < precision {
		if evenBit {
			mid := (minLon + maxLon) / 2
			if lon >= mid {
				idx = idx*2 + 1
				minLon = mid
			} else {
				idx = idx * 2
				maxLon = mid
			}
		} else {
			mid := (minLat + maxLat) / 2
			if lat >= mid {
				idx = idx*2 + 1
				minLat = mid
			} else {
				idx = idx * 2
				maxLat = mid
			}
		}
		evenBit = !evenBit
		bit++
		if bit == 5 {
			sb.WriteByte(base32[idx])
			bit = 0
			idx = 0
		}
	}
	return sb.String(), nil
}

// DecodeBounds returns the cell named by the hash.
func DecodeBounds(hash string) (Bounds, error) {
	if hash == "" || len(hash) > MaxPrecision {
		return Bounds{}, errors.Mark(
			errors.Newf("hash length must be in [1, %d], got %d", MaxPrecision, len(hash)),
			geo.ErrInvalidArgument,
		)
	}
	b := Bounds{MinLat: -90, MaxLat: 90, MinLon: -180, MaxLon: 180}
	evenBit := true
	for _, c := range strings.ToLower(hash) {
		idx := strings.IndexRune(base32, c)
		if idx < 0 {
			return Bounds{}, errors.Mark(
				errors.Newf("invalid geohash character %q in %q", c, hash),
				geo.ErrInvalidArgument,
			)
		}
		for n := 4; n >= 0; n-- {
			bit := (idx >> uint(n)) & 1
			if evenBit {
				mid := (b.MinLon + b.MaxLon) / 2
				if bit == 1 {
					b.MinLon = mid
				} else {
					b.MaxLon = mid
				}
			} else {
				mid := (b.MinLat + b.MaxLat) / 2
				if bit == 1 {
					b.MinLat = mid
				} else {
					b.MaxLat = mid
				}
			}
			evenBit = !evenBit
		}
	}
	return b, nil
}

// Decode returns the center of the hash's cell.
func Decode(hash string) (geo.LatLon, error) {
	b, err := DecodeBounds(hash)
	if err != nil {
		return geo.LatLon{}, err
	}
	return b.Center(), nil
}

// Tables for the constant-time neighbour walk, indexed by direction
// and by whether the hash length is even or odd (the bit interleave
// swaps the roles of latitude and longitude each character).
var (
	neighbourTable = map[byte][2]string{
		'n': {"p0r21436x8zb9dcf5h7kjnmqesgutwvy", "bc01fg45238967deuvhjyznpkmstqrwx"},
		's': {"14365h7k9dcfesgujnmqp0r2twvyx8zb", "238967debc01fg45kmstqrwxuvhjyznp"},
		'e': {"bc01fg45238967deuvhjyznpkmstqrwx", "p0r21436x8zb9dcf5h7kjnmqesgutwvy"},
		'w': {"238967debc01fg45kmstqrwxuvhjyznp", "14365h7k9dcfesgujnmqp0r2twvyx8zb"},
	}
	borderTable = map[byte][2]string{
		'n': {"prxz", "bcfguvyz"},
		's': {"028b", "0145hjnp"},
		'e': {"bcfguvyz", "prxz"},
		'w': {"0145hjnp", "028b"},
	}
)

// Neighbour returns the adjacent hash in the given direction, one of
// 'n', 's', 'e', 'w'.
func Neighbour(hash string, direction byte) (string, error) {
	if _, err := DecodeBounds(hash); err != nil {
		return "", err
	}
	nt, ok := neighbourTable[direction]
	if !ok {
		return "", errors.Mark(
			errors.Newf("direction must be one of n, s, e, w; got %q", direction),
			geo.ErrInvalidArgument,
		)
	}
	hash = strings.ToLower(hash)
	last := hash[len(hash)-1]
	parent := hash[:len(hash)-1]
	typ := len(hash) % 2 // 0: even length, 1: odd

	if strings.IndexByte(borderTable[direction][typ], last) >= 0 && parent != "" {
		var err error
		parent, err = Neighbour(parent, direction)
		if err != nil {
			return "", err
		}
	}
	return parent + string(base32[strings.IndexByte(nt[typ], last)]), nil
}

// Neighbours returns the eight hashes surrounding this one, keyed by
// compass direction ("n", "ne", "e", ..., "nw").
func Neighbours(hash string) (map[string]string, error) {
	out := make(map[string]string, 8)
	for _, d := range []byte{'n', 's', 'e', 'w'} {
		h, err := Neighbour(hash, d)
		if err != nil {
			return nil, err
		}
		out[string(d)] = h
	}
	var err error
	if out["ne"], err = Neighbour(out["n"], 'e'); err != nil {
		return nil, err
	}
	if out["nw"], err = Neighbour(out["n"], 'w'); err != nil {
		return nil, err
	}
	if out["se"], err = Neighbour(out["s"], 'e'); err != nil {
		return nil, err
	}
	if out["sw"], err = Neighbour(out["s"], 'w'); err != nil {
		return nil, err
	}
	return out, nil
}
