// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"encoding/binary"

	"github.com/gviegas/softgl/driver"
	"github.com/gviegas/softgl/linear"
)

// PipelineDesc is the construction-time configuration of a Pipeline
// (spec.md §4.12/§3's Pipeline data model).
type PipelineDesc struct {
	Attributes []driver.VertexAttribute
	Bindings   []driver.VertexBinding
	Topology   driver.Topology
	Raster     driver.RasterState
	DS         driver.DepthStencilState
	Blend      driver.BlendState
}

// pipelineBase is the type-erased interface the device's pipeline pool and
// decode loop operate through; each concrete *Pipeline[S] satisfies it.
// This realizes spec.md §9's design note ("store behind a trait object in
// the device's pipeline pool") without paying interface-dispatch cost
// inside the per-pixel loop — only Vertex/Fragment calls (already virtual
// through the Shader interface) and the once-per-draw entry points here
// go through pipelineBase.
type pipelineBase interface {
	desc() *PipelineDesc
	processGeometry(dev *Device, vertexCount, firstVertex, instanceCount int, tbr bool, self Handle)
	processGeometryIndexed(dev *Device, indexCount, firstIndex, baseVertex, instanceCount int, tbr bool, self Handle)
	rasterizeTriangleData(dev *Device, tri TriangleData, tileScissor driver.Scissor, uniforms []byte)
}

// Pipeline is the generic per-shader-type pipeline object (spec.md §9:
// "instantiate a concrete pipeline per shader struct"). S is monomorphized
// at NewPipeline call time; the resulting *Pipeline[S] is boxed into
// pipelineBase for storage in the device's resource pool.
type Pipeline[S Shader] struct {
	Desc   PipelineDesc
	Shader S

	mayWriteDepth bool
}

// NewPipeline constructs a pipeline bound to a concrete shader value.
func NewPipeline[S Shader](shader S, desc PipelineDesc) *Pipeline[S] {
	p := &Pipeline[S]{Desc: desc, Shader: shader}
	if dw, ok := any(shader).(DepthOverrider); ok {
		p.mayWriteDepth = dw.WritesDepth()
	}
	return p
}

func (p *Pipeline[S]) desc() *PipelineDesc { return &p.Desc }

func (p *Pipeline[S]) drawState(dev *Device, tileScissor driver.Scissor) *drawState {
	st := &drawState{
		Raster:        p.Desc.Raster,
		DS:            p.Desc.DS,
		Blend:         p.Desc.Blend,
		Scissor:       tileScissor,
		MayWriteDepth: p.mayWriteDepth,
	}
	// An unrecognized blend factor or op falls back to src=One, dst=Zero,
	// op=Add; the zero BlendState already holds Zero and Add.
	b := p.Desc.Blend
	valid := b.OpRGB >= driver.BlendAdd && b.OpRGB <= driver.BlendMax &&
		b.OpAlpha >= driver.BlendAdd && b.OpAlpha <= driver.BlendMax
	for _, f := range [4]driver.BlendFactor{b.SrcRGB, b.DstRGB, b.SrcAlpha, b.DstAlpha} {
		valid = valid && f >= driver.BlendZero && f <= driver.BlendInvDstAlpha
	}
	if !valid {
		st.Blend = driver.BlendState{Enable: b.Enable, SrcRGB: driver.BlendOne, SrcAlpha: driver.BlendOne}
	}
	dev.boundTextures(&st.Textures)
	return st
}

// boundTextures fills out with the device's currently bound texture slots
// so the rasterizer can attach them to every fragment's ShaderContext
// without a per-pixel pool lookup.
func (dev *Device) boundTextures(out *[driver.MaxTextureSlots]*Texture) {
	for i := 0; i < driver.MaxTextureSlots; i++ {
		if h := dev.state.textures[i]; h.Valid() {
			if tex, ok := dev.textures.Get(h); ok {
				out[i] = *tex
			}
		}
	}
}

// fetchVertex builds Attributes for vertex index v / instance i from the
// device's currently bound vertex buffers.
func (dev *Device) fetchVertex(attrs []driver.VertexAttribute, v, instance int) Attributes {
	var out Attributes
	out.VertexID = v
	out.InstanceID = instance
	for _, a := range attrs {
		if a.Binding < 0 || a.Binding >= len(dev.state.vbuf) {
			continue
		}
		vb := dev.state.vbuf[a.Binding]
		var buf []byte
		var stride uint32
		if vb.buffer.Valid() {
			if bpp, ok := dev.buffers.Get(vb.buffer); ok {
				bp := *bpp
				if int(vb.offset) <= len(bp.Bytes) {
					buf = bp.Bytes[vb.offset:]
				}
				stride = vb.stride
			}
		}
		val := fetchAttribute(buf, a, stride, v, instance)
		if a.Location >= 0 && a.Location < len(out.Attr) {
			out.Attr[a.Location] = val
		}
	}
	return out
}

// vertexOut runs the vertex shader for vertex index v / instance instance,
// returning its clip-space position and varyings.
func (p *Pipeline[S]) vertexOut(dev *Device, v, instance int) VertexOut {
	attrs := dev.fetchVertex(p.Desc.Attributes, v, instance)
	var out VertexOut
	out.Clip = p.Shader.Vertex(&attrs, &out.Ctx)
	return out
}

// processTriangleVertices clips+screen-transforms+bins (or rasterizes
// directly) one triangle of three vertex indices.
func (p *Pipeline[S]) processTriangleVertices(dev *Device, i0, i1, i2, instance int, tbr bool, self Handle) {
	vo0 := p.vertexOut(dev, i0, instance)
	vo1 := p.vertexOut(dev, i1, instance)
	vo2 := p.vertexOut(dev, i2, instance)

	cv0 := clipVertex{clip: vo0.Clip, ctx: vo0.Ctx}
	cv1 := clipVertex{clip: vo1.Clip, ctx: vo1.Ctx}
	cv2 := clipVertex{clip: vo2.Clip, ctx: vo2.Ctx}

	poly := clipTriangle(&cv0, &cv1, &cv2, dev.clipScratchA, dev.clipScratchB)
	if len(poly) < 3 {
		return
	}
	// Fan-triangulate the clipped convex polygon.
	for k := 1; k+1 < len(poly); k++ {
		a, b, c := &poly[0], &poly[k], &poly[k+1]
		var tri TriangleData
		tri.V[0] = VertexOut{Clip: linear.V4(a.clip), Ctx: a.ctx}
		tri.V[1] = VertexOut{Clip: linear.V4(b.clip), Ctx: b.ctx}
		tri.V[2] = VertexOut{Clip: linear.V4(c.clip), Ctx: c.ctx}
		for j := range tri.V {
			tri.V[j].Screen = linear.V4(transformToScreen([4]float32(tri.V[j].Clip), dev.state.viewport))
		}
		if tbr {
			dev.binTriangleData(&tri, self)
		} else {
			dev.rasterizeDirect(p, &tri)
		}
	}
}

// bindUniformBytes pushes uniforms into the shader, split by slot, if it
// opted into the dynamic BindUniforms path (spec.md §4.11: "either a
// user-provided BindUniforms hook or a fixed copy into a declared
// materialData field" — the latter is the shader's own responsibility,
// reading ctx/attrs it was given). A nil/short uniforms slice is a no-op.
func (p *Pipeline[S]) bindUniformBytes(uniforms []byte) {
	ub, ok := any(p.Shader).(UniformBinder)
	if !ok {
		return
	}
	for slot := 0; slot < driver.MaxUniformSlots; slot++ {
		off := slot * driver.UniformSlotSize
		if off+driver.UniformSlotSize > len(uniforms) {
			break
		}
		ub.BindUniforms(slot, uniforms[off:off+driver.UniformSlotSize])
	}
}

func (p *Pipeline[S]) processGeometry(dev *Device, vertexCount, firstVertex, instanceCount int, tbr bool, self Handle) {
	dev.snapshotUniforms()
	for inst := 0; inst < instanceCount; inst++ {
		get := func(i int) int { return firstVertex + i }
		assembleAndProcess(dev, p, p.Desc.Topology, vertexCount, get, inst, tbr, self)
	}
}

func (p *Pipeline[S]) processGeometryIndexed(dev *Device, indexCount, firstIndex, baseVertex, instanceCount int, tbr bool, self Handle) {
	dev.snapshotUniforms()
	ib := dev.state.ibuf
	var idxBytes []byte
	if ib.buffer.Valid() {
		if bpp, ok := dev.buffers.Get(ib.buffer); ok {
			idxBytes = (*bpp).Bytes
		}
	}
	fmtSize := ib.format.Size()
	for inst := 0; inst < instanceCount; inst++ {
		get := func(i int) int {
			pos := firstIndex + i
			off := int(ib.offset) + pos*fmtSize
			if idxBytes == nil || off+fmtSize > len(idxBytes) {
				return baseVertex
			}
			var raw uint32
			switch ib.format {
			case driver.IndexU8:
				raw = uint32(idxBytes[off])
			case driver.IndexU16:
				raw = uint32(binary.LittleEndian.Uint16(idxBytes[off : off+2]))
			case driver.IndexU32:
				raw = binary.LittleEndian.Uint32(idxBytes[off : off+4])
			}
			return baseVertex + int(raw)
		}
		assembleAndProcess(dev, p, p.Desc.Topology, indexCount, get, inst, tbr, self)
	}
}

func (p *Pipeline[S]) rasterizeTriangleData(dev *Device, tri TriangleData, tileScissor driver.Scissor, uniforms []byte) {
	p.bindUniformBytes(uniforms)
	st := p.drawState(dev, tileScissor)
	rasterizeTriangle(dev.framebuffer, tri, st, p.Shader)
}
