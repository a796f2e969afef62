// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"math"

	"github.com/gviegas/softgl/driver"
	"github.com/gviegas/softgl/linear"
)

// rasterizeLine implements spec.md §4.6's line path: Bresenham traversal
// between the two transformed endpoints, recovering t per pixel by
// projected distance and running the same ROP pipeline as triangles
// (without LOD; rho = 0). Grounded on original_source's
// rasterizeLineTemplate.
func rasterizeLine(fb *Framebuffer, v0, v1 *VertexOut, st *drawState, shader Shader) {
	x0, y0 := int(math.Round(float64(v0.Screen[0]))), int(math.Round(float64(v0.Screen[1])))
	x1, y1 := int(math.Round(float64(v1.Screen[0]))), int(math.Round(float64(v1.Screen[1])))

	dx := abs32(float32(x1 - x0))
	dy := abs32(float32(y1 - y0))
	totalDist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if totalDist == 0 {
		totalDist = 1
	}

	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	fdx, fdy := abs32(float32(x1-x0)), abs32(float32(y1-y0))
	err := fdx - fdy

	x, y := x0, y0
	for {
		stepDist := float32(math.Sqrt(float64((x-x0)*(x-x0) + (y-y0)*(y-y0))))
		t := stepDist / totalDist
		if t > 1 {
			t = 1
		}
		shadeLinePixel(fb, x, y, v0, v1, t, st, shader)
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -fdy {
			err -= fdy
			x += sx
		}
		if e2 < fdx {
			err += fdx
			y += sy
		}
	}
}

func shadeLinePixel(fb *Framebuffer, x, y int, v0, v1 *VertexOut, t float32, st *drawState, shader Shader) {
	if !fb.inBounds(x, y) {
		return
	}
	if !st.Scissor.Disabled() {
		if x < int(st.Scissor.X) || y < int(st.Scissor.Y) ||
			x >= int(st.Scissor.X+st.Scissor.W) || y >= int(st.Scissor.Y+st.Scissor.H) {
			return
		}
	}
	rhw0, rhw1 := v0.Screen[3], v1.Screen[3]
	invWView := rhw0 + t*(rhw1-rhw0)
	if invWView <= screenEpsilon {
		return
	}
	wView := 1 / invWView
	z := v0.Screen[2] + t*(v1.Screen[2]-v0.Screen[2])

	idx := fb.idx(x, y)
	earlyZEnabled := st.DS.DepthTest && !st.MayWriteDepth
	if earlyZEnabled && !st.DS.DepthCmp.Eval(z, fb.depth[idx]) {
		return
	}

	var ctx ShaderContext
	ctx.Textures = st.Textures
	for k := 0; k < driver.MaxVaryings; k++ {
		a := scaleV4(v0.Ctx.Varying[k], rhw0)
		b := scaleV4(v1.Ctx.Varying[k], rhw1)
		var lerp linear.V4
		for c := range lerp {
			lerp[c] = a[c] + t*(b[c]-a[c])
		}
		ctx.Varying[k] = scaleV4(lerp, wView)
	}
	ctx.FragCoord = linear.V4{float32(x) + 0.5, float32(y) + 0.5, z, invWView}
	ctx.FrontFacing = true
	ctx.LOD = 0

	color4 := shader.Fragment(&ctx)
	if ctx.Discard {
		return
	}
	if ctx.depthWritten {
		z = ctx.fragDepth
	}

	if st.DS.StencilTest {
		face := &st.DS.Front
		stencilVal := fb.sten[idx] & face.ReadMask
		stencilRef := face.Ref & face.ReadMask
		if !face.Cmp.Eval(float32(stencilRef), float32(stencilVal)) {
			fb.sten[idx] = face.Fail.Apply(fb.sten[idx], face.Ref, face.WriteMask)
			return
		}
		depthOK := true
		if st.DS.DepthTest && st.MayWriteDepth {
			depthOK = st.DS.DepthCmp.Eval(z, fb.depth[idx])
		}
		if !depthOK {
			fb.sten[idx] = face.DepthFail.Apply(fb.sten[idx], face.Ref, face.WriteMask)
			return
		}
		fb.sten[idx] = face.Pass.Apply(fb.sten[idx], face.Ref, face.WriteMask)
	} else if st.DS.DepthTest && st.MayWriteDepth {
		if !st.DS.DepthCmp.Eval(z, fb.depth[idx]) {
			return
		}
	}

	if st.DS.DepthWrite {
		fb.depth[idx] = z
	}
	writeColor(fb, idx, color4, st.Blend)
}

// rasterizePoint implements spec.md §4.6's point path: a single pixel at
// floor(sx,sy) running the same ROP pipeline.
func rasterizePoint(fb *Framebuffer, v *VertexOut, st *drawState, shader Shader) {
	x := int(math.Floor(float64(v.Screen[0])))
	y := int(math.Floor(float64(v.Screen[1])))
	shadeLinePixel(fb, x, y, v, v, 0, st, shader)
}
