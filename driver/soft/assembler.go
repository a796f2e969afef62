// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"github.com/gviegas/softgl/driver"
	"github.com/gviegas/softgl/linear"
)

// assembleAndProcess implements spec.md §4.7's primitive assembler:
// decodes topology into single-primitive vertex-index groups via an
// index-getter, then drives line/point/triangle processing for each.
// get(i) returns the *vertex* index (already resolved from an element
// buffer for indexed draws, or first+i for array draws) for assembly
// position i in [0, count).
func assembleAndProcess[S Shader](dev *Device, p *Pipeline[S], topo driver.Topology, count int, get func(int) int, instance int, tbr bool, self Handle) {
	switch topo {
	case driver.TPoint:
		for i := 0; i < count; i++ {
			p.processPointVertex(dev, get(i), instance, tbr, self)
		}
	case driver.TLine:
		for i := 0; i+1 < count; i += 2 {
			p.processLineVertices(dev, get(i), get(i+1), instance, tbr, self)
		}
	case driver.TLineStrip:
		for i := 0; i+1 < count; i++ {
			p.processLineVertices(dev, get(i), get(i+1), instance, tbr, self)
		}
	case driver.TLineLoop:
		for i := 0; i+1 < count; i++ {
			p.processLineVertices(dev, get(i), get(i+1), instance, tbr, self)
		}
		if count > 1 {
			p.processLineVertices(dev, get(count-1), get(0), instance, tbr, self)
		}
	case driver.TTriangle:
		for i := 0; i+2 < count; i += 3 {
			p.processTriangleVertices(dev, get(i), get(i+1), get(i+2), instance, tbr, self)
		}
	case driver.TTriStrip:
		for i := 0; i+2 < count; i++ {
			a, b, c := get(i), get(i+1), get(i+2)
			if i%2 == 1 {
				b, c = c, b // alternate winding on odd triangles
			}
			p.processTriangleVertices(dev, a, b, c, instance, tbr, self)
		}
	case driver.TTriFan:
		if count < 3 {
			return
		}
		fixed := get(0)
		for i := 1; i+1 < count; i++ {
			p.processTriangleVertices(dev, fixed, get(i), get(i+1), instance, tbr, self)
		}
	}
}

// processLineVertices clips+screen-transforms+rasterizes a single line
// immediately; lines are never tile-binned, even when tbr is set.
func (p *Pipeline[S]) processLineVertices(dev *Device, i0, i1, instance int, tbr bool, self Handle) {
	vo0 := p.vertexOut(dev, i0, instance)
	vo1 := p.vertexOut(dev, i1, instance)
	cv0 := clipVertex{clip: vo0.Clip, ctx: vo0.Ctx}
	cv1 := clipVertex{clip: vo1.Clip, ctx: vo1.Ctx}
	a, b, ok := clipLine(&cv0, &cv1)
	if !ok {
		return
	}
	vo0.Clip, vo0.Ctx = linear.V4(a.clip), a.ctx
	vo1.Clip, vo1.Ctx = linear.V4(b.clip), b.ctx
	vo0.Screen = linear.V4(transformToScreen([4]float32(vo0.Clip), dev.state.viewport))
	vo1.Screen = linear.V4(transformToScreen([4]float32(vo1.Clip), dev.state.viewport))

	p.bindUniformBytes(dev.uniforms)
	st := p.drawState(dev, dev.currentScissor())
	rasterizeLine(dev.framebuffer, &vo0, &vo1, st, p.Shader)
}

// processPointVertex clips (culls) and rasterizes a single point.
func (p *Pipeline[S]) processPointVertex(dev *Device, i0, instance int, tbr bool, self Handle) {
	vo := p.vertexOut(dev, i0, instance)
	if cullPoint([4]float32(vo.Clip)) {
		return
	}
	vo.Screen = linear.V4(transformToScreen([4]float32(vo.Clip), dev.state.viewport))
	p.bindUniformBytes(dev.uniforms)
	st := p.drawState(dev, dev.currentScissor())
	rasterizePoint(dev.framebuffer, &vo, st, p.Shader)
}
