// Package vmath provides the fixed-size vector and matrix types used by the
// spin engine. Values are plain arrays and structs so they stay on the stack
// in the hot loop.
package vmath

import "math"

// Vec3 is a Cartesian 3-vector.
type Vec3 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// Zhat is the unit vector along +z.
var Zhat = Vec3{0, 0, 1}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Normalize returns v scaled to unit length. The zero vector is returned as is.
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}

// IsFinite reports whether no component is NaN or Inf.
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// FromArray builds a vector from x, y, z components, as stored in a Mat3 row.
func FromArray(a [3]float64) Vec3 { return Vec3{a[0], a[1], a[2]} }

// Sign returns -1 for negative x and +1 otherwise, so Sign(0) == 1.
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// Spherical returns the unit vector for polar angle phi and azimuth theta,
// both in radians: (sin phi cos theta, sin phi sin theta, cos phi).
func Spherical(phi, theta float64) Vec3 {
	sp, cp := math.Sincos(phi)
	st, ct := math.Sincos(theta)
	return Vec3{sp * ct, sp * st, cp}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg / 180.0 * math.Pi }
