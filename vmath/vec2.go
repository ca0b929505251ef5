package vmath

import (
	"math"
)

// Vec2 is a float64 2D vector used by the simulation hot paths
type Vec2 struct {
	X, Y float64
}

func V2Add(a, b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

func V2Sub(a, b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

func V2Scale(v Vec2, s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// V2AddScaled returns a + b*s without an intermediate vector
func V2AddScaled(a, b Vec2, s float64) Vec2 {
	return Vec2{a.X + b.X*s, a.Y + b.Y*s}
}

func V2Dot(a, b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

func V2MagSq(v Vec2) float64 {
	return v.X*v.X + v.Y*v.Y
}

func V2Mag(v Vec2) float64 {
	return math.Sqrt(V2MagSq(v))
}

// V2DistSq returns squared distance between two points
func V2DistSq(a, b Vec2) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	return dx*dx + dy*dy
}

func V2Normalize(v Vec2) Vec2 {
	mag := V2Mag(v)
	if mag == 0 {
		return Vec2{}
	}
	inv := 1.0 / mag
	return Vec2{v.X * inv, v.Y * inv}
}

// V2Perp returns vector rotated 90° counter-clockwise
func V2Perp(v Vec2) Vec2 {
	return Vec2{-v.Y, v.X}
}

// V2Lerp blends a toward b by weight w in [0,1]
func V2Lerp(a, b Vec2, w float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*w, a.Y + (b.Y-a.Y)*w}
}

// V2Finite reports whether both components are neither NaN nor Inf
func V2Finite(v Vec2) bool {
	return Finite(v.X) && Finite(v.Y)
}

// Finite reports whether f is neither NaN nor Inf
func Finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
