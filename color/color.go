// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package color converts between floating-point RGBA colors and the
// rasterizer's internal packed little-endian 8-bit-per-channel
// representation, 0xAABBGGRR.
package color

import "github.com/gviegas/softgl/linear"

// Packed is a little-endian packed RGBA8888 pixel: R in bits [0,8),
// G in [8,16), B in [16,24), A in [24,32).
type Packed uint32

// Pack converts a linear.V4 color in [0,1]^4 (out-of-range components are
// clamped) into a Packed pixel, rounding each channel to the nearest 8-bit
// value.
func Pack(c *linear.V4) Packed {
	r := to8(c[0])
	g := to8(c[1])
	b := to8(c[2])
	a := to8(c[3])
	return Packed(uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r))
}

// Unpack converts a Packed pixel back into a linear.V4 color in [0,1]^4.
func Unpack(p Packed) linear.V4 {
	return linear.V4{
		float32(p&0xFF) / 255,
		float32((p>>8)&0xFF) / 255,
		float32((p>>16)&0xFF) / 255,
		float32((p>>24)&0xFF) / 255,
	}
}

func to8(x float32) uint8 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(x*255 + 0.5)
}

// PackBatch4 packs four colors at once. The rasterizer's inner loop writes
// one fragment at a time and has no four-wide color batch to hand it; this
// is exposed for callers that do, e.g. a tile-shading consumer packing a
// whole resolved 2x2 quad in one call.
func PackBatch4(c [4]linear.V4) (out [4]Packed) {
	for i := range c {
		out[i] = Pack(&c[i])
	}
	return
}
