// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package cmdbuf

import (
	"encoding/binary"
	"errors"
	"math"
)

var (
	errNestedPass       = errors.New("cmdbuf: BeginPass called while a pass is already open")
	errUnmatchedEndPass = errors.New("cmdbuf: EndPass called with no pass open")
)

// Encoder serializes draw state and draws into a linear packet stream
// (spec.md §4.10). It tracks an "inside pass" bit so BeginPass/EndPass
// nesting violations are diagnosable rather than silently corrupting the
// stream.
type Encoder struct {
	buf        []byte
	insidePass bool

	// Violation is set (non-nil) the first time a nesting guard fires;
	// encoding continues (never panics) but the caller should check it
	// before Submit.
	Violation error
}

// NewEncoder returns an empty encoder ready to record packets.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Bytes returns the recorded packet stream.
func (e *Encoder) Bytes() []byte { return e.buf }

// Reset discards recorded packets, retaining the underlying buffer.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
	e.insidePass = false
	e.Violation = nil
}

func (e *Encoder) begin(t Type) int {
	start := len(e.buf)
	e.buf = append(e.buf, byte(t), 0, 0)
	return start
}

func (e *Encoder) end(start int) {
	size := uint16(len(e.buf) - start)
	binary.LittleEndian.PutUint16(e.buf[start+1:start+3], size)
}

func (e *Encoder) u8(v uint8)   { e.buf = append(e.buf, v) }
func (e *Encoder) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}
func (e *Encoder) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}
func (e *Encoder) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}
func (e *Encoder) i32(v int32)   { e.u32(uint32(v)) }
func (e *Encoder) f32(v float32) { e.u32(math.Float32bits(v)) }

// SetPipeline binds the pipeline a subsequent Draw/DrawIndexed dispatches
// through.
func (e *Encoder) SetPipeline(pipeline uint64) {
	s := e.begin(SetPipeline)
	e.u64(pipeline)
	e.end(s)
}

// SetViewport updates the clip-to-pixel mapping rectangle.
func (e *Encoder) SetViewport(x, y, w, h float32) {
	s := e.begin(SetViewport)
	e.f32(x)
	e.f32(y)
	e.f32(w)
	e.f32(h)
	e.end(s)
}

// SetScissor updates the write-restriction rectangle; w<0 disables it.
func (e *Encoder) SetScissor(x, y, w, h int32) {
	s := e.begin(SetScissor)
	e.i32(x)
	e.i32(y)
	e.i32(w)
	e.i32(h)
	e.end(s)
}

// SetVertexStream binds buffer to a vertex-binding slot.
func (e *Encoder) SetVertexStream(bindingIndex uint16, buffer uint64, byteOffset, byteStride uint32) {
	s := e.begin(SetVertexStream)
	e.u16(bindingIndex)
	e.u64(buffer)
	e.u32(byteOffset)
	e.u32(byteStride)
	e.end(s)
}

// SetIndexBuffer binds the index buffer used by subsequent DrawIndexed
// calls.
func (e *Encoder) SetIndexBuffer(buffer uint64, byteOffset uint32) {
	s := e.begin(SetIndexBuffer)
	e.u64(buffer)
	e.u32(byteOffset)
	e.end(s)
}

// SetTexture binds a texture to a sampler slot.
func (e *Encoder) SetTexture(slot uint8, texture uint64) {
	s := e.begin(SetTexture)
	e.u8(slot)
	e.u64(texture)
	e.end(s)
}

// UpdateUniform overwrites slot's staging bytes with payload. Only the
// bytes written before a Draw take effect.
func (e *Encoder) UpdateUniform(slot uint8, payload []byte) {
	s := e.begin(UpdateUniform)
	e.u8(slot)
	e.buf = append(e.buf, payload...)
	e.end(s)
}

// Clear requests a framebuffer clear with the given values; bits selects
// which planes are touched.
func (e *Encoder) Clear(rgba [4]float32, depthVal float32, stencilVal uint8, bits ClearBits) {
	s := e.begin(Clear)
	for _, c := range rgba {
		e.f32(c)
	}
	e.f32(depthVal)
	e.u8(stencilVal)
	e.u8(uint8(bits))
	e.end(s)
}

// BeginPass opens a rendering pass, recording the initial viewport and
// scissor; violates (records e.Violation, does not panic) if a pass is
// already open.
func (e *Encoder) BeginPass(viewport [4]float32, scissor [4]int32) {
	if e.insidePass {
		e.Violation = errNestedPass
	}
	e.insidePass = true
	s := e.begin(BeginPass)
	for _, c := range viewport {
		e.f32(c)
	}
	for _, c := range scissor {
		e.i32(c)
	}
	e.end(s)
}

// EndPass closes the currently open pass; violates if none is open.
func (e *Encoder) EndPass() {
	if !e.insidePass {
		e.Violation = errUnmatchedEndPass
	}
	e.insidePass = false
	s := e.begin(EndPass)
	e.end(s)
}

// Draw records a non-indexed draw.
func (e *Encoder) Draw(vertexCount, firstVertex, instanceCount uint32) {
	s := e.begin(Draw)
	e.u32(vertexCount)
	e.u32(firstVertex)
	e.u32(instanceCount)
	e.end(s)
}

// DrawIndexed records an indexed draw.
func (e *Encoder) DrawIndexed(indexCount, firstIndex uint32, baseVertex int32, instanceCount uint32) {
	s := e.begin(DrawIndexed)
	e.u32(indexCount)
	e.u32(firstIndex)
	e.i32(baseVertex)
	e.u32(instanceCount)
	e.end(s)
}
