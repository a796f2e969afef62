// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

// clip.go implements spec.md §4.4: triangle clipping via Sutherland-Hodgman
// against the six homogeneous half-spaces of the canonical view volume,
// line clipping via Liang-Barsky against the same planes, and point
// culling. Grounded on original_source/src/core/gl_clip.cpp.

const clipEpsilon = 1e-5

// clipVertex is one vertex of the polygon being clipped: clip-space
// position plus its full varying context, since interpolation at a clip
// boundary must interpolate every varying alongside position (spec.md
// §4.4: "linear interpolation of all position components and all
// varyings in clip space").
type clipVertex struct {
	clip [4]float32
	ctx  ShaderContext
}

// clipPlane identifies one of the six view-volume half-spaces.
type clipPlane int

const (
	planeLeft  clipPlane = iota // w + x >= 0
	planeRight                  // w - x >= 0
	planeBottom
	planeTop
	planeNear
	planeFar
)

// dist returns the signed distance of v from the plane's boundary; v is
// inside the half-space when dist >= 0 (near plane uses a small epsilon to
// keep w > 0 strictly).
func (p clipPlane) dist(v *clipVertex) float32 {
	x, y, z, w := v.clip[0], v.clip[1], v.clip[2], v.clip[3]
	switch p {
	case planeLeft:
		return w + x
	case planeRight:
		return w - x
	case planeBottom:
		return w + y
	case planeTop:
		return w - y
	case planeNear:
		return w + z - clipEpsilon
	case planeFar:
		return w - z
	default:
		return 0
	}
}

// lerpClipVertex returns the vertex at parameter t between a and b,
// interpolating clip-space position and every varying linearly (valid
// pre-divide per spec.md §4.4).
func lerpClipVertex(a, b *clipVertex, t float32) clipVertex {
	var out clipVertex
	for i := range out.clip {
		out.clip[i] = a.clip[i] + t*(b.clip[i]-a.clip[i])
	}
	for k := range out.ctx.Varying {
		for c := range out.ctx.Varying[k] {
			out.ctx.Varying[k][c] = a.ctx.Varying[k][c] + t*(b.ctx.Varying[k][c]-a.ctx.Varying[k][c])
		}
	}
	return out
}

// clipAgainstPlane runs one Sutherland-Hodgman pass of in against plane p,
// appending the resulting polygon to out (which the caller must size/reuse
// across all six passes; out is returned for chaining).
func clipAgainstPlane(in []clipVertex, p clipPlane, out []clipVertex) []clipVertex {
	out = out[:0]
	n := len(in)
	if n == 0 {
		return out
	}
	prev := &in[n-1]
	prevDist := p.dist(prev)
	for i := range in {
		cur := &in[i]
		curDist := p.dist(cur)
		curIn := curDist >= 0
		prevIn := prevDist >= 0
		switch {
		case prevIn && curIn:
			out = append(out, *cur)
		case prevIn && !curIn:
			t := prevDist / (prevDist - curDist)
			out = append(out, lerpClipVertex(prev, cur, t))
		case !prevIn && curIn:
			t := prevDist / (prevDist - curDist)
			out = append(out, lerpClipVertex(prev, cur, t), *cur)
		default:
			// out->out: nothing emitted.
		}
		prev, prevDist = cur, curDist
	}
	return out
}

// maxClipVertices bounds the Sutherland-Hodgman output per spec.md §4.4
// ("at most 16 vertices").
const maxClipVertices = 16

// clipTriangle clips a triangle (three clipVertex) against all six planes
// in sequence, returning the resulting convex polygon (0 vertices if fully
// culled). The two scratch buffers are reused across calls by the caller
// to avoid per-triangle heap allocation in the hot path.
func clipTriangle(v0, v1, v2 *clipVertex, a, b []clipVertex) []clipVertex {
	a = append(a[:0], *v0, *v1, *v2)
	planes := [6]clipPlane{planeLeft, planeRight, planeBottom, planeTop, planeNear, planeFar}
	cur, other := a, b
	for _, p := range planes {
		other = clipAgainstPlane(cur, p, other)
		cur, other = other, cur
		if len(cur) == 0 {
			break
		}
		if len(cur) > maxClipVertices {
			cur = cur[:maxClipVertices]
		}
	}
	return cur
}

// clipLine runs Liang-Barsky clipping of the segment (v0,v1) against the
// six view-volume planes, returning ok=false if the segment is entirely
// outside, or the two (possibly interpolated) endpoints with their
// parameters t0 <= t1 in [0,1] otherwise.
func clipLine(v0, v1 *clipVertex) (a, b clipVertex, ok bool) {
	t0, t1 := float32(0), float32(1)
	planes := [6]clipPlane{planeLeft, planeRight, planeBottom, planeTop, planeNear, planeFar}
	for _, p := range planes {
		d0 := p.dist(v0)
		d1 := p.dist(v1)
		delta := d1 - d0
		if delta == 0 {
			if d0 < 0 {
				return clipVertex{}, clipVertex{}, false
			}
			continue
		}
		t := -d0 / delta
		if delta > 0 {
			// d(t) is increasing: inside for t >= t, i.e. an entering edge.
			if t > t0 {
				t0 = t
			}
		} else {
			// d(t) is decreasing: inside for t <= t, i.e. an exiting edge.
			if t < t1 {
				t1 = t
			}
		}
		if t0 > t1 {
			return clipVertex{}, clipVertex{}, false
		}
	}
	a = lerpClipVertex(v0, v1, t0)
	b = lerpClipVertex(v0, v1, t1)
	return a, b, true
}

// cullPoint reports whether a point at clip-space position c should be
// rejected (spec.md §4.4: "a point is rejected iff |x| > w or |y| > w or
// |z| > w").
func cullPoint(c [4]float32) bool {
	w := c[3]
	return abs32(c[0]) > w || abs32(c[1]) > w || abs32(c[2]) > w
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
