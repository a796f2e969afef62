// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package cmdbuf

import (
	"encoding/binary"
	"math"
)

// Decoder steps through a packet stream produced by an Encoder, handing
// each packet's header and field bytes to the caller in stream order.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder wraps buf for sequential packet decode.
func NewDecoder(buf []byte) *Decoder { return &Decoder{buf: buf} }

// Next returns the next packet's header and its field bytes (the payload
// following the header), advancing past it regardless of whether the
// caller recognized Type — this is what makes unknown packet types safe
// to skip. ok is false once the stream is exhausted.
func (d *Decoder) Next() (hdr Header, payload []byte, ok bool) {
	if d.pos+headerSize > len(d.buf) {
		return Header{}, nil, false
	}
	hdr.Type = Type(d.buf[d.pos])
	hdr.Size = binary.LittleEndian.Uint16(d.buf[d.pos+1 : d.pos+3])
	if int(hdr.Size) < headerSize || d.pos+int(hdr.Size) > len(d.buf) {
		return Header{}, nil, false
	}
	payload = d.buf[d.pos+headerSize : d.pos+int(hdr.Size)]
	d.pos += int(hdr.Size)
	return hdr, payload, true
}

// Field readers: each consumes from the front of *p and returns the
// decoded value, leaving *p pointing past it. Callers own bounds-checking
// against the packet table in advance (decoders built from a fixed,
// known-size payload) and never read past a short payload — reads beyond
// the slice panic-free by returning the zero value.

func ReadU8(p *[]byte) uint8 {
	if len(*p) < 1 {
		return 0
	}
	v := (*p)[0]
	*p = (*p)[1:]
	return v
}

func ReadU16(p *[]byte) uint16 {
	if len(*p) < 2 {
		return 0
	}
	v := binary.LittleEndian.Uint16((*p)[:2])
	*p = (*p)[2:]
	return v
}

func ReadU32(p *[]byte) uint32 {
	if len(*p) < 4 {
		return 0
	}
	v := binary.LittleEndian.Uint32((*p)[:4])
	*p = (*p)[4:]
	return v
}

func ReadU64(p *[]byte) uint64 {
	if len(*p) < 8 {
		return 0
	}
	v := binary.LittleEndian.Uint64((*p)[:8])
	*p = (*p)[8:]
	return v
}

func ReadI32(p *[]byte) int32   { return int32(ReadU32(p)) }
func ReadF32(p *[]byte) float32 { return math.Float32frombits(ReadU32(p)) }

// ReadRest returns the remainder of *p (used for UpdateUniform's variable-
// length payload) and empties *p.
func ReadRest(p *[]byte) []byte {
	v := *p
	*p = nil
	return v
}
