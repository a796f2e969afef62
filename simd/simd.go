// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package simd implements a portable 4-wide float32 vector used by the
// rasterizer's inner loops (barycentric weighting, perspective-correct
// varying interpolation). There is no architecture-specific backend; every
// operation has a single, branch-free scalar-array implementation so the
// package behaves identically regardless of target.
package simd

// F4 is a 4-wide lane of float32, used wherever the rasterizer performs the
// same arithmetic across four independent values (e.g., the four active
// varying slots of a SIMD batch, or the RGBA channels of a color).
type F4 [4]float32

// Load copies s (padded with zero if shorter than 4) into a new F4.
func Load(s []float32) (v F4) {
	n := len(s)
	if n > 4 {
		n = 4
	}
	copy(v[:n], s[:n])
	return
}

// Store copies v into s (truncated if s is shorter than 4).
func (v F4) Store(s []float32) {
	n := len(s)
	if n > 4 {
		n = 4
	}
	copy(s[:n], v[:n])
}

// Splat returns an F4 with every lane set to x.
func Splat(x float32) F4 { return F4{x, x, x, x} }

// Add returns v + w, lane-wise.
func (v F4) Add(w F4) (r F4) {
	for i := range r {
		r[i] = v[i] + w[i]
	}
	return
}

// Sub returns v - w, lane-wise.
func (v F4) Sub(w F4) (r F4) {
	for i := range r {
		r[i] = v[i] - w[i]
	}
	return
}

// Mul returns v * w, lane-wise.
func (v F4) Mul(w F4) (r F4) {
	for i := range r {
		r[i] = v[i] * w[i]
	}
	return
}

// FMA returns v*m + a, lane-wise (fused in intent; precision is that of two
// float32 ops since Go has no portable hardware FMA intrinsic).
func (v F4) FMA(m, a F4) (r F4) {
	for i := range r {
		r[i] = v[i]*m[i] + a[i]
	}
	return
}

// Scale returns v * s, with s broadcast to every lane.
func (v F4) Scale(s float32) (r F4) {
	for i := range r {
		r[i] = v[i] * s
	}
	return
}

// Min returns the lane-wise minimum of v and w.
func (v F4) Min(w F4) (r F4) {
	for i := range r {
		if v[i] < w[i] {
			r[i] = v[i]
		} else {
			r[i] = w[i]
		}
	}
	return
}

// Max returns the lane-wise maximum of v and w.
func (v F4) Max(w F4) (r F4) {
	for i := range r {
		if v[i] > w[i] {
			r[i] = v[i]
		} else {
			r[i] = w[i]
		}
	}
	return
}

// Clamp returns v clamped lane-wise to [lo, hi].
func (v F4) Clamp(lo, hi F4) F4 { return v.Max(lo).Min(hi) }

// Sum returns the horizontal sum of v's lanes.
func (v F4) Sum() float32 { return v[0] + v[1] + v[2] + v[3] }
