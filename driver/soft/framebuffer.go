// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"math"
	"unsafe"

	"github.com/gviegas/softgl/color"
	"github.com/gviegas/softgl/driver"
	"github.com/gviegas/softgl/linear"
)

// Framebuffer owns (or wraps) the color, depth and stencil backing stores
// described in spec.md §6. Color may be externally provided via Attach, in
// which case Framebuffer writes directly into the caller's slice; depth
// and stencil are always internally owned.
//
// Y grows downward (spec.md §9 "Framebuffer Y convention"): row 0 is the
// top row.
type Framebuffer struct {
	Width, Height int

	color []color.Packed
	depth []float32
	sten  []uint8

	externalColor bool
}

// DepthInfinity is the depth-buffer clear sentinel (spec.md §6: "Depth
// buffer is an internally owned f32[...] initialized to +Inf").
var DepthInfinity = float32(math.Inf(1))

// NewFramebuffer allocates an internally-owned color/depth/stencil set of
// the given extents.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{Width: width, Height: height}
	fb.color = make([]color.Packed, width*height)
	fb.depth = make([]float32, width*height)
	fb.sten = make([]uint8, width*height)
	for i := range fb.depth {
		fb.depth[i] = DepthInfinity
	}
	return fb
}

// Attach replaces the color backing store with an externally-owned slice
// of exactly Width*Height pixels (spec.md §6's "alternatively, the core
// can... expose its pointer via a getter" escape hatch, inverted: here the
// caller supplies the buffer instead of fetching an internal one). color.
// Packed is a uint32 underneath, so fb.color aliases buf's storage directly
// rather than copying into it: every write the rasterizer makes lands in
// the caller's own slice immediately, with no separate write-back step.
func (fb *Framebuffer) Attach(buf []uint32) {
	if len(buf) == 0 {
		fb.color = nil
	} else {
		fb.color = unsafe.Slice((*color.Packed)(unsafe.Pointer(&buf[0])), len(buf))
	}
	fb.externalColor = true
}

// IsExternal reports whether the color buffer is caller-owned via Attach,
// as opposed to internally allocated by NewFramebuffer.
func (fb *Framebuffer) IsExternal() bool { return fb.externalColor }

// Pixels returns the color buffer as []uint32, matching the external wire
// format in spec.md §6.
func (fb *Framebuffer) Pixels() []uint32 {
	out := make([]uint32, len(fb.color))
	for i, v := range fb.color {
		out[i] = uint32(v)
	}
	return out
}

func (fb *Framebuffer) idx(x, y int) int { return y*fb.Width + x }

func (fb *Framebuffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < fb.Width && y < fb.Height
}

// Clear resets the selected buffers. depthVal is typically +Inf.
func (fb *Framebuffer) Clear(mask driver.ClearMask, rgba [4]float32, depthVal float32, stencilVal uint8) {
	if mask&driver.ClearColor != 0 {
		v := linear.V4(rgba)
		c := color.Pack(&v)
		for i := range fb.color {
			fb.color[i] = c
		}
	}
	if mask&driver.ClearDepth != 0 {
		for i := range fb.depth {
			fb.depth[i] = depthVal
		}
	}
	if mask&driver.ClearStencil != 0 {
		for i := range fb.sten {
			fb.sten[i] = stencilVal
		}
	}
}
