// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"github.com/gviegas/softgl/driver"
	"github.com/gviegas/softgl/driver/cmdbuf"
)

// Submit decodes buf strictly in stream order, mutating device state and
// invoking pipelines on Draw/DrawIndexed (spec.md §4.11). Unrecognized or
// malformed packets are skipped; Submit never panics on user-supplied
// data.
func (dev *Device) Submit(buf []byte) {
	dec := cmdbuf.NewDecoder(buf)
	for {
		hdr, payload, ok := dec.Next()
		if !ok {
			return
		}
		switch hdr.Type {
		case cmdbuf.SetPipeline:
			h := cmdbuf.ReadU64(&payload)
			dev.state.pipeline = Handle(h)

		case cmdbuf.SetViewport:
			dev.state.viewport = driver.Viewport{
				X: cmdbuf.ReadF32(&payload),
				Y: cmdbuf.ReadF32(&payload),
				W: cmdbuf.ReadF32(&payload),
				H: cmdbuf.ReadF32(&payload),
			}

		case cmdbuf.SetScissor:
			dev.state.scissor = driver.Scissor{
				X: cmdbuf.ReadI32(&payload),
				Y: cmdbuf.ReadI32(&payload),
				W: cmdbuf.ReadI32(&payload),
				H: cmdbuf.ReadI32(&payload),
			}

		case cmdbuf.SetVertexStream:
			slot := cmdbuf.ReadU16(&payload)
			h := cmdbuf.ReadU64(&payload)
			off := cmdbuf.ReadU32(&payload)
			stride := cmdbuf.ReadU32(&payload)
			if int(slot) < len(dev.state.vbuf) {
				dev.state.vbuf[slot] = vertexBinding{buffer: Handle(h), offset: off, stride: stride}
			}

		case cmdbuf.SetIndexBuffer:
			h := cmdbuf.ReadU64(&payload)
			off := cmdbuf.ReadU32(&payload)
			dev.state.ibuf = indexBinding{buffer: Handle(h), offset: off, format: dev.state.ibuf.format}

		case cmdbuf.SetTexture:
			slot := cmdbuf.ReadU8(&payload)
			h := cmdbuf.ReadU64(&payload)
			if int(slot) < len(dev.state.textures) {
				dev.state.textures[slot] = Handle(h)
			}

		case cmdbuf.UpdateUniform:
			slot := cmdbuf.ReadU8(&payload)
			data := cmdbuf.ReadRest(&payload)
			if int(slot) < driver.MaxUniformSlots {
				off := int(slot) * driver.UniformSlotSize
				n := len(data)
				if n > driver.UniformSlotSize {
					n = driver.UniformSlotSize
				}
				copy(dev.uniforms[off:off+driver.UniformSlotSize], data[:n])
			}

		case cmdbuf.Clear:
			var rgba [4]float32
			for i := range rgba {
				rgba[i] = cmdbuf.ReadF32(&payload)
			}
			depthVal := cmdbuf.ReadF32(&payload)
			stencilVal := cmdbuf.ReadU8(&payload)
			bits := cmdbuf.ReadU8(&payload)
			dev.framebuffer.Clear(driver.ClearMask(bits), rgba, depthVal, stencilVal)

		case cmdbuf.BeginPass:
			var vp [4]float32
			for i := range vp {
				vp[i] = cmdbuf.ReadF32(&payload)
			}
			var sc [4]int32
			for i := range sc {
				sc[i] = cmdbuf.ReadI32(&payload)
			}
			dev.state.viewport = driver.Viewport{X: vp[0], Y: vp[1], W: vp[2], H: vp[3]}
			dev.state.scissor = driver.Scissor{X: sc[0], Y: sc[1], W: sc[2], H: sc[3]}
			dev.BeginFrame(true)

		case cmdbuf.EndPass:
			dev.EndFrame()

		case cmdbuf.Draw:
			vertexCount := cmdbuf.ReadU32(&payload)
			firstVertex := cmdbuf.ReadU32(&payload)
			instanceCount := cmdbuf.ReadU32(&payload)
			dev.draw(int(vertexCount), int(firstVertex), int(instanceCount))

		case cmdbuf.DrawIndexed:
			indexCount := cmdbuf.ReadU32(&payload)
			firstIndex := cmdbuf.ReadU32(&payload)
			baseVertex := cmdbuf.ReadI32(&payload)
			instanceCount := cmdbuf.ReadU32(&payload)
			dev.drawIndexed(int(indexCount), int(firstIndex), int(baseVertex), int(instanceCount))
		}
	}
}

// draw dispatches the bound pipeline's non-indexed geometry processing.
func (dev *Device) draw(vertexCount, firstVertex, instanceCount int) {
	pl, ok := dev.pipelines.Get(dev.state.pipeline)
	if !ok {
		return
	}
	if instanceCount <= 0 {
		instanceCount = 1
	}
	(*pl).processGeometry(dev, vertexCount, firstVertex, instanceCount, dev.tbr, dev.state.pipeline)
}

// drawIndexed dispatches the bound pipeline's indexed geometry processing.
func (dev *Device) drawIndexed(indexCount, firstIndex, baseVertex, instanceCount int) {
	pl, ok := dev.pipelines.Get(dev.state.pipeline)
	if !ok {
		return
	}
	if instanceCount <= 0 {
		instanceCount = 1
	}
	(*pl).processGeometryIndexed(dev, indexCount, firstIndex, baseVertex, instanceCount, dev.tbr, dev.state.pipeline)
}
