// Package swarm implements the per-tick swarm correction force for agents
// on a bounded 2D domain: a compactly-supported distance kernel, a uniform
// spatial grid rebuilt every call, and a 3x3-cell neighborhood accumulation
// of weighted velocity differences. The package keeps no state between
// calls; every entry point is a pure function of its inputs.
package swarm

import "math"

// Vec is a 2D vector in world coordinates.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by s.
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// WeightMax returns the kernel value at zero distance, 7/(pi*L^2).
// This is the global maximum of Weight for the given support radius.
func WeightMax(length float64) float64 {
	return 7 / (math.Pi * length * length)
}

// Weight evaluates the distance kernel: a Wendland-type polynomial with
// compact support [0, length). The caller guarantees length > 0 and
// distance >= 0 (both hold after grid validation).
//
//	ratio  = distance / length
//	weight = 7/(pi*length^2) * max(1-ratio, 0)^4 * (1+ratio)
//
// The clamp before the fourth power makes the kernel exactly zero, and
// continuous, at and beyond the support boundary. On [0, length) the
// kernel is strictly decreasing.
func Weight(distance, length float64) float64 {
	ratio := distance / length
	q := 1 - ratio
	if q <= 0 {
		return 0
	}
	q2 := q * q
	return WeightMax(length) * q2 * q2 * (1 + ratio)
}
