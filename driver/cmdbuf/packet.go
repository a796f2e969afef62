// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package cmdbuf implements the RHI command-buffer wire format: a densely
// packed packet stream produced by an Encoder and consumed, strictly in
// order, by a device's decode loop. The format is process-local — it is
// not intended to be portable across machines or endiannesses.
package cmdbuf

// Type identifies a packet variant. Every packet begins with a Header so a
// decoder that does not recognize a Type can still skip it by Size.
type Type uint8

const (
	SetPipeline Type = iota + 1
	SetViewport
	SetScissor
	SetVertexStream
	SetIndexBuffer
	SetTexture
	UpdateUniform
	Clear
	BeginPass
	EndPass
	Draw
	DrawIndexed
)

// Header prefixes every packet in the stream.
type Header struct {
	Type Type
	Size uint16 // total packet length, including the header
}

const headerSize = 3

// ClearBits mirrors driver.ClearMask without importing the driver package,
// keeping cmdbuf reusable across backends that reinterpret the bits
// differently.
type ClearBits uint8

const (
	ClearColor ClearBits = 1 << iota
	ClearDepth
	ClearStencil
)
