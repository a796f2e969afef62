// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gviegas/softgl/driver"
	"github.com/gviegas/softgl/driver/cmdbuf"
	"github.com/gviegas/softgl/linear"
)

// flatShader passes attribute 0 straight through as clip-space position
// (already in NDC in this test's vertex data, so w=1 is all that's needed)
// and ignores varyings, emitting a constant color.
type flatShader struct{}

func (flatShader) Vertex(attrs *Attributes, ctx *ShaderContext) linear.V4 {
	p := attrs.Attr[0]
	p[3] = 1
	return p
}

func (flatShader) Fragment(ctx *ShaderContext) linear.V4 {
	return linear.V4{0, 1, 0, 1}
}

func encodeF32s(vs ...float32) []byte {
	out := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func TestSubmitNonTBRDrawsTriangle(t *testing.T) {
	const w, h = 8, 8
	dev := NewDevice(Config{Width: w, Height: h, TileSize: 4, Workers: 1})

	vbuf := dev.CreateBuffer(driver.BufferVertex, driver.UsageImmutable, 3*3*4)
	verts := encodeF32s(
		-0.9, -0.9, 0,
		0.9, -0.9, 0,
		0, 0.9, 0,
	)
	if !dev.UpdateBuffer(vbuf, 0, verts) {
		t.Fatal("UpdateBuffer failed")
	}

	pipeline := NewPipeline(flatShader{}, PipelineDesc{
		Topology:   driver.TTriangle,
		Attributes: []driver.VertexAttribute{{Binding: 0, Format: driver.FormatFloat3, Offset: 0, Location: 0}},
		Bindings:   []driver.VertexBinding{{Stride: 12}},
		Raster:     driver.RasterState{Cull: driver.CullNone},
	})
	ph := RegisterPipeline(dev, pipeline)

	// Drive the immediate (non-TBR) path directly: Submit's BeginPass
	// handler always requests deferred tile shading (dev.BeginFrame(true)),
	// since a tile-based pipeline is this rasterizer's primary mode — the
	// non-TBR entry point (rasterizeDirect) is reached only by a caller
	// that manages device state itself rather than through the packet
	// stream, exactly as exercised here.
	dev.state.pipeline = ph
	dev.state.vbuf[0] = vertexBinding{buffer: vbuf, offset: 0, stride: 12}
	dev.BeginFrame(false)
	dev.framebuffer.Clear(driver.ClearColor|driver.ClearDepth, [4]float32{0, 0, 0, 1}, 1, 0)
	dev.draw(3, 0, 1)
	dev.EndFrame()

	pixels := dev.Pixels()
	center := pixels[(h/2)*w+(w/2)]
	if (center>>8)&0xFF == 0 {
		t.Errorf("center pixel = %#x, want green to have been rasterized there", center)
	}
	corner := pixels[0]
	if (corner>>8)&0xFF != 0 {
		t.Errorf("corner pixel = %#x, want the clear color (no green)", corner)
	}
}

func TestSubmitTBRDrawsTriangle(t *testing.T) {
	const w, h = 16, 16
	dev := NewDevice(Config{Width: w, Height: h, TileSize: 4, Workers: 2})

	vbuf := dev.CreateBuffer(driver.BufferVertex, driver.UsageImmutable, 3*3*4)
	verts := encodeF32s(
		-0.9, -0.9, 0,
		0.9, -0.9, 0,
		0, 0.9, 0,
	)
	dev.UpdateBuffer(vbuf, 0, verts)

	pipeline := NewPipeline(flatShader{}, PipelineDesc{
		Topology:   driver.TTriangle,
		Attributes: []driver.VertexAttribute{{Binding: 0, Format: driver.FormatFloat3, Offset: 0, Location: 0}},
		Bindings:   []driver.VertexBinding{{Stride: 12}},
		Raster:     driver.RasterState{Cull: driver.CullNone},
	})
	ph := RegisterPipeline(dev, pipeline)

	enc := cmdbuf.NewEncoder()
	enc.BeginPass([4]float32{0, 0, w, h}, [4]int32{0, 0, -1, -1})
	enc.Clear([4]float32{0, 0, 0, 1}, 1, 0, cmdbuf.ClearColor|cmdbuf.ClearDepth)
	enc.SetPipeline(uint64(ph))
	enc.SetVertexStream(0, uint64(vbuf), 0, 12)
	enc.Draw(3, 0, 1)
	enc.EndPass()

	dev.Submit(enc.Bytes()) // BeginPass already set tbr=true via dev.BeginFrame(true)

	pixels := dev.Pixels()
	center := pixels[(h/2)*w+(w/2)]
	if (center>>8)&0xFF == 0 {
		t.Errorf("center pixel = %#x, want green (tile-shaded triangle)", center)
	}
}
