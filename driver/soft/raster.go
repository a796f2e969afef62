// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"math"

	"github.com/gviegas/softgl/color"
	"github.com/gviegas/softgl/driver"
	"github.com/gviegas/softgl/linear"
	"github.com/gviegas/softgl/simd"
)

// TriangleData is a post-clip, post-screen-transform triangle record: the
// unit stored in the frame arena by the binning stage and replayed by tile
// shading (spec.md §4.8). Device.binTriangleData appends it by value to
// the device's per-frame triArena slice, and bin records refer to it by
// index into that slice.
type TriangleData struct {
	V [3]VertexOut
}

// drawState bundles the per-draw fixed-function configuration the
// rasterizer consults, gathered from the bound Pipeline and device state
// at draw time.
type drawState struct {
	Raster        driver.RasterState
	DS            driver.DepthStencilState
	Blend         driver.BlendState
	Scissor       driver.Scissor // already intersected with viewport/framebuffer/tile
	MayWriteDepth bool           // shader may call ctx.SetFragDepth; disables Early-Z
	Textures      [driver.MaxTextureSlots]*Texture
}

const degenerateEpsilon = 1e-6

// edge evaluates the 2D edge function for point p against the directed
// edge a->b: positive when p is to the left of a->b.
func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// rasterizeTriangle implements spec.md §4.6's triangle path in full:
// backface test, bounding box, incremental barycentric setup, and the
// per-pixel fragment pipeline (Early-Z, LOD, fragment shader, discard,
// stencil+depth ROP, color write+blend). Grounded on
// original_source/include/tinygl/core/tinygl.h:rasterizeTriangleTemplate.
func rasterizeTriangle(fb *Framebuffer, tri TriangleData, st *drawState, shader Shader) {
	v0, v1, v2 := &tri.V[0], &tri.V[1], &tri.V[2]
	x0, y0 := v0.Screen[0], v0.Screen[1]
	x1, y1 := v1.Screen[0], v1.Screen[1]
	x2, y2 := v2.Screen[0], v2.Screen[1]

	area := edge(x0, y0, x1, y1, x2, y2)
	frontFacing := area > 0
	if st.Raster.FrontCCW {
		frontFacing = area < 0
	}
	if st.Raster.Cull != driver.CullNone {
		isFront := frontFacing
		if st.Raster.Cull == driver.CullFront && isFront {
			return
		}
		if st.Raster.Cull == driver.CullBack && !isFront {
			return
		}
	}
	if area < 0 {
		v1, v2 = v2, v1
		x1, y1, x2, y2 = x2, y2, x1, y1
		area = -area
	}
	if area <= degenerateEpsilon {
		return
	}

	minX := int(math.Floor(float64(min3(x0, x1, x2))))
	minY := int(math.Floor(float64(min3(y0, y1, y2))))
	maxX := int(math.Ceil(float64(max3(x0, x1, x2)))) + 1
	maxY := int(math.Ceil(float64(max3(y0, y1, y2)))) + 1

	minX, minY, maxX, maxY = clampBox(minX, minY, maxX, maxY, fb.Width, fb.Height, st.Scissor)
	if minX >= maxX || minY >= maxY {
		return
	}

	invArea := 1 / area
	rhw0, rhw1, rhw2 := v0.Screen[3], v1.Screen[3], v2.Screen[3]

	var preVar [3][driver.MaxVaryings]linear.V4
	for k := 0; k < driver.MaxVaryings; k++ {
		preVar[0][k] = scaleV4(v0.Ctx.Varying[k], rhw0)
		preVar[1][k] = scaleV4(v1.Ctx.Varying[k], rhw1)
		preVar[2][k] = scaleV4(v2.Ctx.Varying[k], rhw2)
	}

	for y := minY; y < maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x < maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(x1, y1, x2, y2, px, py) * invArea
			w1 := edge(x2, y2, x0, y0, px, py) * invArea
			w2 := edge(x0, y0, x1, y1, px, py) * invArea
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			invWView := w0*rhw0 + w1*rhw1 + w2*rhw2
			if invWView <= screenEpsilon {
				continue
			}
			z := w0*v0.Screen[2] + w1*v1.Screen[2] + w2*v2.Screen[2]

			idx := fb.idx(x, y)

			// Step 1: Early-Z. Only trustworthy ahead of the fragment
			// shader when the shader is known to never override depth.
			earlyZEnabled := st.DS.DepthTest && !st.MayWriteDepth
			if earlyZEnabled && !st.DS.DepthCmp.Eval(z, fb.depth[idx]) {
				continue
			}

			var ctx ShaderContext
			ctx.Textures = st.Textures
			wView := 1 / invWView
			for k := 0; k < driver.MaxVaryings; k++ {
				ctx.Varying[k] = scaleV4(lerp3(preVar[0][k], preVar[1][k], preVar[2][k], w0, w1, w2), wView)
			}
			ctx.FragCoord = linear.V4{px, py, z, invWView}
			ctx.FrontFacing = frontFacing
			ctx.LOD = computeRho(preVar, rhw0, rhw1, rhw2, w0, w1, w2, x1-x0, y1-y0, x2-x0, y2-y0, invArea)

			// Step 3: fragment shader.
			color4 := shader.Fragment(&ctx)
			// Step 4: discard.
			if ctx.Discard {
				continue
			}
			if ctx.depthWritten {
				z = ctx.fragDepth
			}

			// Step 5: stencil + late depth ROP.
			if st.DS.StencilTest {
				face := &st.DS.Front
				if !frontFacing {
					face = &st.DS.Back
				}
				stencilVal := fb.sten[idx] & face.ReadMask
				stencilRef := face.Ref & face.ReadMask
				if !face.Cmp.Eval(float32(stencilRef), float32(stencilVal)) {
					fb.sten[idx] = face.Fail.Apply(fb.sten[idx], face.Ref, face.WriteMask)
					continue
				}
				depthOK := true
				if st.DS.DepthTest {
					if st.MayWriteDepth {
						depthOK = st.DS.DepthCmp.Eval(z, fb.depth[idx])
					}
					// else: Early-Z already validated depthOK == true.
				}
				if !depthOK {
					fb.sten[idx] = face.DepthFail.Apply(fb.sten[idx], face.Ref, face.WriteMask)
					continue
				}
				fb.sten[idx] = face.Pass.Apply(fb.sten[idx], face.Ref, face.WriteMask)
			} else if st.DS.DepthTest && st.MayWriteDepth {
				if !st.DS.DepthCmp.Eval(z, fb.depth[idx]) {
					continue
				}
			}

			if st.DS.DepthWrite {
				fb.depth[idx] = z
			}
			writeColor(fb, idx, color4, st.Blend)
		}
	}
}

func writeColor(fb *Framebuffer, idx int, c linear.V4, blend driver.BlendState) {
	if !blend.Enable {
		fb.color[idx] = color.Pack(&c)
		return
	}
	dst := color.Unpack(fb.color[idx])
	var out linear.V4
	for i := 0; i < 3; i++ {
		sf := blendFactor(blend.SrcRGB, c, dst)
		df := blendFactor(blend.DstRGB, c, dst)
		out[i] = blendCombine(blend.OpRGB, sf[i]*c[i], df[i]*dst[i])
	}
	sf := blendFactor(blend.SrcAlpha, c, dst)
	df := blendFactor(blend.DstAlpha, c, dst)
	out[3] = blendCombine(blend.OpAlpha, sf[3]*c[3], df[3]*dst[3])
	fb.color[idx] = color.Pack(&out)
}

// blendFactor maps a BlendFactor enum to the per-channel multiplier
// vector; an unrecognized value yields (1,1,1,1). Pipelines never pass
// one: Pipeline.drawState replaces a blend state holding any unrecognized
// factor or op with src=One, dst=Zero, op=Add before it reaches here.
func blendFactor(f driver.BlendFactor, src, dst linear.V4) linear.V4 {
	switch f {
	case driver.BlendZero:
		return linear.V4{0, 0, 0, 0}
	case driver.BlendOne:
		return linear.V4{1, 1, 1, 1}
	case driver.BlendSrcColor:
		return src
	case driver.BlendInvSrcColor:
		return linear.V4{1 - src[0], 1 - src[1], 1 - src[2], 1 - src[3]}
	case driver.BlendSrcAlpha:
		return linear.V4{src[3], src[3], src[3], src[3]}
	case driver.BlendInvSrcAlpha:
		return linear.V4{1 - src[3], 1 - src[3], 1 - src[3], 1 - src[3]}
	case driver.BlendDstColor:
		return dst
	case driver.BlendInvDstColor:
		return linear.V4{1 - dst[0], 1 - dst[1], 1 - dst[2], 1 - dst[3]}
	case driver.BlendDstAlpha:
		return linear.V4{dst[3], dst[3], dst[3], dst[3]}
	case driver.BlendInvDstAlpha:
		return linear.V4{1 - dst[3], 1 - dst[3], 1 - dst[3], 1 - dst[3]}
	default:
		return linear.V4{1, 1, 1, 1}
	}
}

func blendCombine(op driver.BlendOp, s, d float32) float32 {
	switch op {
	case driver.BlendAdd:
		return clamp01(s + d)
	case driver.BlendSubtract:
		return clamp01(s - d)
	case driver.BlendRevSubtract:
		return clamp01(d - s)
	case driver.BlendMin:
		return min32(s, d)
	case driver.BlendMax:
		return max32(s, d)
	default:
		return clamp01(s + d)
	}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
func min3(a, b, c float32) float32 { return min32(min32(a, b), c) }
func max3(a, b, c float32) float32 { return max32(max32(a, b), c) }

// clampBox intersects the triangle's screen AABB with the framebuffer
// rectangle and the active scissor.
func clampBox(minX, minY, maxX, maxY, fbw, fbh int, sc driver.Scissor) (int, int, int, int) {
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > fbw {
		maxX = fbw
	}
	if maxY > fbh {
		maxY = fbh
	}
	if !sc.Disabled() {
		if int(sc.X) > minX {
			minX = int(sc.X)
		}
		if int(sc.Y) > minY {
			minY = int(sc.Y)
		}
		if int(sc.X+sc.W) < maxX {
			maxX = int(sc.X + sc.W)
		}
		if int(sc.Y+sc.H) < maxY {
			maxY = int(sc.Y + sc.H)
		}
	}
	return minX, minY, maxX, maxY
}

// scaleV4 broadcasts s across the lane-wise SIMD multiply (spec.md §4.6's
// "4-wide SIMD FMA chain" over the varying/color lanes).
func scaleV4(v linear.V4, s float32) linear.V4 {
	return linear.V4(simd.F4(v).Scale(s))
}

// lerp3 accumulates the barycentric-weighted sum of a, b, c as a 4-wide
// FMA chain (spec.md §4.6), the numerator of the perspective-correct
// varying recovery before the final division by wView.
func lerp3(a, b, c linear.V4, w0, w1, w2 float32) linear.V4 {
	acc := simd.F4(a).Scale(w0)
	acc = simd.F4(b).FMA(simd.Splat(w1), acc)
	acc = simd.F4(c).FMA(simd.Splat(w2), acc)
	return linear.V4(acc)
}

// computeRho derives the screen-space derivative magnitude of varying
// slot 0 (conventionally UV) via the chain rule (spec.md §4.6 step 2),
// returning log2(rho). Uses the analytic screen-space gradients of the
// barycentric weights, taken from the edge-function coefficients, on the
// already-precomputed perspective-weighted varying/rhw planes, matching
// original_source's computeRho helper.
func computeRho(preVar [3][driver.MaxVaryings]linear.V4, rhw0, rhw1, rhw2, w0, w1, w2, e1x, e1y, e2x, e2y, invArea float32) float32 {
	// Barycentric gradient of (w1,w2) per unit x/y step; w0 = 1-w1-w2.
	// d(w1)/dx, d(w2)/dx, d(w1)/dy, d(w2)/dy derived from the edge-function
	// coefficients already used in the main loop.
	dw1dx := -e2y * invArea
	dw2dx := e1y * invArea
	dw1dy := e2x * invArea
	dw2dy := -e1x * invArea
	dw0dx := -dw1dx - dw2dx
	dw0dy := -dw1dy - dw2dy

	uOverW0, vOverW0 := preVar[0][0][0], preVar[0][0][1]
	uOverW1, vOverW1 := preVar[1][0][0], preVar[1][0][1]
	uOverW2, vOverW2 := preVar[2][0][0], preVar[2][0][1]

	dInvWdx := dw0dx*rhw0 + dw1dx*rhw1 + dw2dx*rhw2
	dInvWdy := dw0dy*rhw0 + dw1dy*rhw1 + dw2dy*rhw2
	dUoWdx := dw0dx*uOverW0 + dw1dx*uOverW1 + dw2dx*uOverW2
	dUoWdy := dw0dy*uOverW0 + dw1dy*uOverW1 + dw2dy*uOverW2
	dVoWdx := dw0dx*vOverW0 + dw1dx*vOverW1 + dw2dx*vOverW2
	dVoWdy := dw0dy*vOverW0 + dw1dy*vOverW1 + dw2dy*vOverW2

	invW := w0*rhw0 + w1*rhw1 + w2*rhw2
	if invW <= screenEpsilon {
		return 0
	}
	z := 1 / invW
	u := z * (w0*uOverW0 + w1*uOverW1 + w2*uOverW2)
	v := z * (w0*vOverW0 + w1*vOverW1 + w2*vOverW2)

	dudx := z * (dUoWdx - u*dInvWdx)
	dvdx := z * (dVoWdx - v*dInvWdx)
	dudy := z * (dUoWdy - u*dInvWdy)
	dvdy := z * (dVoWdy - v*dInvWdy)

	rhoX := float32(math.Sqrt(float64(dudx*dudx + dvdx*dvdx)))
	rhoY := float32(math.Sqrt(float64(dudy*dudy + dvdy*dvdy)))
	rho := max32(rhoX, rhoY)
	if rho <= 0 {
		return 0
	}
	return float32(math.Log2(float64(rho)))
}
