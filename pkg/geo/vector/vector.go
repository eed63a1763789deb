// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package vector implements 3-D cartesian vector algebra over immutable
// value types. All operations return new values; nothing is mutated in
// place. Operations that are geometrically undefined on their input
// (normalizing a zero vector) fail with an error marked ErrDegenerate
// instead of returning a meaningless result.
package vector

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
)

// ErrDegenerate marks errors from geometrically undefined operations:
// zero-length normalization, antipodal midpoints, coincident
// great-circle planes. Use errors.Is to test for it.
var ErrDegenerate = errors.New("degenerate geometric input")

// Vector3 is a 3-D cartesian vector.
type Vector3 struct {
	X, Y, Z float64
}

// New returns the vector (x, y, z).
func New(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v scaled by k.
func (v Vector3) Scale(k float64) Vector3 {
	return Vector3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// Negate returns -v.
func (v Vector3) Negate() Vector3 {
	return Vector3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Dot returns the scalar product v · o.
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the vector product v × o, orthogonal to both operands
// with magnitude |v||o|sin(θ).
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean norm of v.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// LengthSquared returns the squared Euclidean norm of v, avoiding the
// square root where only comparisons are needed.
func (v Vector3) LengthSquared() float64 {
	return v.Dot(v)
}

// IsZero reports whether every component of v is exactly zero.
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Unit returns v normalized to unit length. A zero vector has no
// direction, so normalizing one fails with ErrDegenerate.
func (v Vector3) Unit() (Vector3, error) {
	// Divide by the largest component first: squaring components
	// directly underflows for vectors shorter than about 1e-154,
	// which would misreport them as zero.
	m := math.Max(math.Abs(v.X), math.Max(math.Abs(v.Y), math.Abs(v.Z)))
	if m == 0 {
		return Vector3{}, errors.Mark(
			errors.New("cannot normalize a zero-length vector"),
			ErrDegenerate,
		)
	}
	w := v.Scale(1 / m)
	return w.Scale(1 / w.Length()), nil
}

// AngleTo returns the unsigned angle between v and o in radians, in
// [0, π]. The atan2 form stays accurate near 0 and π where
// acos(dot/(|v||o|)) loses precision.
func (v Vector3) AngleTo(o Vector3) float64 {
	return math.Atan2(v.Cross(o).Length(), v.Dot(o))
}

// SignedAngleTo returns the angle between v and o in radians, in
// (-π, π], signed by whether v × o points along ref or against it.
func (v Vector3) SignedAngleTo(o, ref Vector3) float64 {
	a := v.AngleTo(o)
	if v.Cross(o).Dot(ref) < 0 {
		return -a
	}
	return a
}

// Equal reports whether v and o agree component-wise within eps.
func (v Vector3) Equal(o Vector3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps &&
		math.Abs(v.Y-o.Y) <= eps &&
		math.Abs(v.Z-o.Z) <= eps
}
