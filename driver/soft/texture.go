// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"math"

	"github.com/gviegas/softgl/color"
	"github.com/gviegas/softgl/driver"
	"github.com/gviegas/softgl/linear"
)

// mipLevel is one level of a Texture's mip chain: packed RGBA8888 texels,
// row-major, width*height entries.
type mipLevel struct {
	w, h int
	pix  []color.Packed
}

// Texture implements spec.md §3's Texture data model: a mip chain of
// packed RGBA8888 levels plus sampler state, grounded on
// original_source/include/tinygl/core/texture.h.
type Texture struct {
	levels   []mipLevel
	Sampling driver.Sampling
}

// empty reports whether the texture has no level 0 (spec.md §4.2: sampling
// an empty texture must return the error color, never read uninitialized
// memory).
func (t *Texture) empty() bool { return len(t.levels) == 0 }

// errorColor is the magenta sentinel spec.md §4.2 names for empty-texture
// and failed-upload reads.
var errorColor = linear.V4{1, 0, 1, 1}

// Upload converts src (in srcFmt/srcType) into the texture's internal
// packed RGBA8888 representation at the given mip level, resizing the
// level-0/mip-chain bookkeeping as needed. Only SourceUnsignedByte is
// supported; any other source type is an unsupported-format failure
// (spec.md §7) and leaves the texture unmodified at that level.
func (t *Texture) Upload(level, w, h int, srcFmt driver.SourceFormat, srcType driver.SourceType, src []byte) bool {
	if srcType != driver.SourceUnsignedByte {
		return false
	}
	ch := srcFmt.Channels()
	if ch == 0 || len(src) < w*h*ch {
		return false
	}
	pix := make([]color.Packed, w*h)
	for i := 0; i < w*h; i++ {
		var r, g, b, a uint8 = 0, 0, 0, 255
		switch srcFmt {
		case driver.SourceRGBA:
			r, g, b, a = src[i*4], src[i*4+1], src[i*4+2], src[i*4+3]
		case driver.SourceRGB:
			r, g, b = src[i*3], src[i*3+1], src[i*3+2]
		case driver.SourceR:
			r = src[i]
		}
		pix[i] = color.Packed(uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r))
	}
	for len(t.levels) <= level {
		t.levels = append(t.levels, mipLevel{})
	}
	t.levels[level] = mipLevel{w: w, h: h, pix: pix}
	return true
}

// GenerateMipmaps rebuilds every level past 0 from level 0 by repeated 2x2
// box filtering with integer channel arithmetic, until both extents reach
// 1 (spec.md §4.2).
func (t *Texture) GenerateMipmaps() {
	if t.empty() {
		return
	}
	base := t.levels[0]
	t.levels = t.levels[:1]
	cur := base
	for cur.w > 1 || cur.h > 1 {
		nw, nh := cur.w/2, cur.h/2
		if nw < 1 {
			nw = 1
		}
		if nh < 1 {
			nh = 1
		}
		next := mipLevel{w: nw, h: nh, pix: make([]color.Packed, nw*nh)}
		for y := 0; y < nh; y++ {
			for x := 0; x < nw; x++ {
				x0, y0 := x*2, y*2
				x1, y1 := x0+1, y0+1
				if x1 >= cur.w {
					x1 = x0
				}
				if y1 >= cur.h {
					y1 = y0
				}
				next.pix[y*nw+x] = box4(
					cur.pix[y0*cur.w+x0], cur.pix[y0*cur.w+x1],
					cur.pix[y1*cur.w+x0], cur.pix[y1*cur.w+x1])
			}
		}
		t.levels = append(t.levels, next)
		cur = next
	}
}

func box4(a, b, c, d color.Packed) color.Packed {
	var r, g, bl, al uint32
	for _, p := range [4]color.Packed{a, b, c, d} {
		r += uint32(p) & 0xFF
		g += uint32(p>>8) & 0xFF
		bl += uint32(p>>16) & 0xFF
		al += uint32(p>>24) & 0xFF
	}
	return color.Packed((al/4)<<24 | (bl/4)<<16 | (g/4)<<8 | (r / 4))
}

// wrapFrac maps a normalized coordinate u for one axis: repeat returns
// u - floor(u), in [0,1); mirror returns |u - 2*floor(u/2)| - 1; the two
// clamp modes saturate u to [0, 0.999999]. Clamp-to-border's out-of-range
// case does not get here: Sample returns the border color first.
func wrapFrac(u float32, mode driver.WrapMode) float32 {
	switch mode {
	case driver.WrapRepeat:
		f := u - float32(math.Floor(float64(u)))
		return f
	case driver.WrapMirror:
		m := u - 2*float32(math.Floor(float64(u/2)))
		return abs32(m) - 1
	case driver.WrapClampEdge, driver.WrapClampBorder:
		if u < 0 {
			return 0
		}
		if u > 1 {
			return 0.999999
		}
		return u
	default:
		return u
	}
}

// outsideUnit reports whether a normalized coordinate lies outside [0,1];
// used by clamp-to-border to decide whether to return the border color.
func outsideUnit(u float32) bool { return u < 0 || u > 1 }

// wrapIndex wraps an integer texel index against an axis extent, used by
// filter taps that step across a texel boundary (spec.md §4.2: "repeat
// wraps modulo extent, others clamp").
func wrapIndex(i, extent int, mode driver.WrapMode) int {
	if extent <= 0 {
		return 0
	}
	if mode == driver.WrapRepeat {
		i %= extent
		if i < 0 {
			i += extent
		}
		return i
	}
	if i < 0 {
		return 0
	}
	if i >= extent {
		return extent - 1
	}
	return i
}

func (t *Texture) texel(level, x, y int, wrapU, wrapV driver.WrapMode) color.Packed {
	lv := &t.levels[level]
	x = wrapIndex(x, lv.w, wrapU)
	y = wrapIndex(y, lv.h, wrapV)
	return lv.pix[y*lv.w+x]
}

// sampleNearestLevel performs nearest-neighbor sampling within one level.
func (t *Texture) sampleNearestLevel(level int, u, v float32) linear.V4 {
	lv := &t.levels[level]
	x := int(math.Floor(float64(u) * float64(lv.w)))
	y := int(math.Floor(float64(v) * float64(lv.h)))
	return color.Unpack(t.texel(level, x, y, t.Sampling.WrapU, t.Sampling.WrapV))
}

// sampleBilinearLevel performs 2x2 bilinear sampling within one level.
func (t *Texture) sampleBilinearLevel(level int, u, v float32) linear.V4 {
	lv := &t.levels[level]
	fx := u*float32(lv.w) - 0.5
	fy := v*float32(lv.h) - 0.5
	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	tx := fx - float32(x0)
	ty := fy - float32(y0)
	c00 := color.Unpack(t.texel(level, x0, y0, t.Sampling.WrapU, t.Sampling.WrapV))
	c10 := color.Unpack(t.texel(level, x0+1, y0, t.Sampling.WrapU, t.Sampling.WrapV))
	c01 := color.Unpack(t.texel(level, x0, y0+1, t.Sampling.WrapU, t.Sampling.WrapV))
	c11 := color.Unpack(t.texel(level, x0+1, y0+1, t.Sampling.WrapU, t.Sampling.WrapV))
	var out linear.V4
	for i := range out {
		top := c00[i] + tx*(c10[i]-c00[i])
		bot := c01[i] + tx*(c11[i]-c01[i])
		out[i] = top + ty*(bot-top)
	}
	return out
}

func (t *Texture) sampleLevel(level int, u, v float32, mag bool) linear.V4 {
	if level >= len(t.levels) {
		level = len(t.levels) - 1
	}
	if level < 0 {
		level = 0
	}
	var nearest bool
	if mag {
		nearest = t.Sampling.Mag == driver.MagNearest
	} else {
		switch t.Sampling.Min {
		case driver.MinNearest, driver.MinNearestMipNearest, driver.MinNearestMipLinear:
			nearest = true
		default:
			nearest = false
		}
	}
	if nearest {
		return t.sampleNearestLevel(level, u, v)
	}
	return t.sampleBilinearLevel(level, u, v)
}

// Sample implements spec.md §4.2's Sample(u,v,lod). Wrap/border handling
// happens per-axis up front (clamp-to-border overrides any filter choice
// whenever the *normalized* coordinate is outside [0,1]); mipmap
// composition then dispatches on the minification filter.
func (t *Texture) Sample(u, v, lod float32) linear.V4 {
	if t.empty() {
		return errorColor
	}
	s := &t.Sampling
	if (s.WrapU == driver.WrapClampBorder && outsideUnit(u)) ||
		(s.WrapV == driver.WrapClampBorder && outsideUnit(v)) {
		return s.BorderColor
	}
	wu := wrapFrac(u, s.WrapU)
	wv := wrapFrac(v, s.WrapV)

	lod = lod + s.LODBias
	if lod < s.LODMinClamp {
		lod = s.LODMinClamp
	}
	if lod > s.LODMaxClamp {
		lod = s.LODMaxClamp
	}
	maxLevel := float32(len(t.levels) - 1)
	if lod < 0 {
		lod = 0
	}
	if lod > maxLevel {
		lod = maxLevel
	}

	if lod <= 0 {
		return t.sampleLevel(0, wu, wv, true)
	}

	switch s.Min {
	case driver.MinNearest:
		return t.sampleLevel(0, wu, wv, false)
	case driver.MinLinear:
		return t.sampleLevel(0, wu, wv, false)
	case driver.MinNearestMipNearest:
		level := int(lod + 0.5)
		return t.sampleLevel(level, wu, wv, false)
	case driver.MinLinearMipNearest:
		level := int(lod + 0.5)
		return t.sampleLevel(level, wu, wv, false)
	case driver.MinNearestMipLinear:
		l0 := int(math.Floor(float64(lod)))
		l1 := l0 + 1
		frac := lod - float32(l0)
		c0 := t.sampleLevel(l0, wu, wv, false)
		c1 := t.sampleLevel(l1, wu, wv, false)
		return lerpV4(c0, c1, frac)
	case driver.MinLinearMipLinear:
		l0 := int(math.Floor(float64(lod)))
		l1 := l0 + 1
		frac := lod - float32(l0)
		c0 := t.sampleLevel(l0, wu, wv, false)
		c1 := t.sampleLevel(l1, wu, wv, false)
		return lerpV4(c0, c1, frac)
	default:
		return t.sampleLevel(0, wu, wv, false)
	}
}

func lerpV4(a, b linear.V4, t float32) (out linear.V4) {
	for i := range out {
		out[i] = a[i] + t*(b[i]-a[i])
	}
	return
}
