// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package simplify reduces point paths while preserving their shape,
// with the Douglas-Peucker, Visvalingam-Whyatt and radial distance
// algorithms. Paths are planar; coordinates are whatever unit the
// caller projected into, and tolerances are in those units.
//
// The first and last point of a path are always kept. A non-finite or
// negative tolerance is treated as zero, which still removes exactly
// collinear (or coincident, for radial distance) interior points.
package simplify

import (
	"math"

	"github.com/twpayne/go-geom"
)

func sanitizeTolerance(tolerance float64) float64 {
	if math.IsNaN(tolerance) || tolerance < 0 {
		return 0
	}
	return tolerance
}

// perpendicularDistance is the distance from p to the infinite line
// through a and b, or to a if the segment is degenerate.
func perpendicularDistance(p, a, b geom.Coord) float64 {
	dx := b.X() - a.X()
	dy := b.Y() - a.Y()
	if dx == 0 && dy == 0 {
		return math.Hypot(p.X()-a.X(), p.Y()-a.Y())
	}
	// Twice the triangle area over the base length.
	return math.Abs(dx*(a.Y()-p.Y())-dy*(a.X()-p.X())) / math.Hypot(dx, dy)
}

// DouglasPeucker keeps the points that deviate from the kept polyline
// by more than the tolerance. The result shares no backing storage
// with the input.
func DouglasPeucker(coords []geom.Coord, tolerance float64) []geom.Coord {
	if len(coords) <= 2 {
		return append([]geom.Coord(nil), coords...)
	}
	tolerance = sanitizeTolerance(tolerance)

	keep := make([]bool, len(coords))
	keep[0] = true
	keep[len(coords)-1] = true

	// Iterative stack of (first, last) spans to split.
	type span struct{ first, last int }
	stack := []span{{0, len(coords) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		maxDist := -1.0
		maxIdx := -1
		for i := s.first + 1; i < s.last; i++ {
			d := perpendicularDistance(coords[i], coords[s.first], coords[s.last])
			if d > maxDist {
				maxDist = d
				maxIdx = i
			}
		}
		if maxIdx >= 0 && maxDist > tolerance {
			keep[maxIdx] = true
			stack = append(stack, span{s.first, maxIdx}, span{maxIdx, s.last})
		}
	}

	out := make([]geom.Coord, 0, len(coords))
	for i, k := range keep {
		if k {
			out = append(out, coords[i])
		}
	}
	return out
}

// triangleArea is the area of the triangle a, b, c.
func triangleArea(a, b, c geom.Coord) float64 {
	return math.Abs((b.X()-a.X())*(c.Y()-a.Y())-(c.X()-a.X())*(b.Y()-a.Y())) / 2
}

// VisvalingamWhyatt repeatedly drops the interior point spanning the
// smallest triangle with its neighbours, until every remaining
// triangle's area is at least minArea.
func VisvalingamWhyatt(coords []geom.Coord, minArea float64) []geom.Coord {
	if len(coords) <= 2 {
		return append([]geom.Coord(nil), coords...)
	}
	minArea = sanitizeTolerance(minArea)

	// Doubly linked list over indices; O(n^2) worst case, which is fine
	// for the path sizes this library works with.
	prev := make([]int, len(coords))
	next := make([]int, len(coords))
	alive := len(coords)
	for i := range coords {
		prev[i] = i - 1
		next[i] = i + 1
	}

	for alive > 2 {
		smallest := -1
		smallestArea := math.Inf(1)
		for i := next[0]; i < len(coords)-1; i = next[i] {
			a := triangleArea(coords[prev[i]], coords[i], coords[next[i]])
			if a < smallestArea {
				smallestArea = a
				smallest = i
			}
		}
		// At zero tolerance only exactly collinear points go.
		if smallest < 0 || (smallestArea >= minArea && smallestArea > 0) {
			break
		}
		next[prev[smallest]] = next[smallest]
		prev[next[smallest]] = prev[smallest]
		alive--
	}

	out := make([]geom.Coord, 0, alive)
	for i := 0; i < len(coords); i = next[i] {
		out = append(out, coords[i])
		if i == len(coords)-1 {
			break
		}
	}
	return out
}

// RadialDistance drops interior points closer than the tolerance to
// the last kept point. The endpoints are always kept.
func RadialDistance(coords []geom.Coord, tolerance float64) []geom.Coord {
	if len(coords) <= 2 {
		return append([]geom.Coord(nil), coords...)
	}
	tolerance = sanitizeTolerance(tolerance)

	out := []geom.Coord{coords[0]}
	for _, c := range coords[1 : len(coords)-1] {
		last := out[len(out)-1]
		if math.Hypot(c.X()-last.X(), c.Y()-last.Y()) > tolerance {
			out = append(out, c)
		}
	}
	return append(out, coords[len(coords)-1])
}

// LineString simplifies a 2-D line string with Douglas-Peucker,
// returning a new geometry in the same layout and SRID.
func LineString(ls *geom.LineString, tolerance float64) (*geom.LineString, error) {
	simplified := DouglasPeucker(ls.Coords(), tolerance)
	out := geom.NewLineString(ls.Layout()).SetSRID(ls.SRID())
	return out.SetCoords(simplified)
}
