// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"math"

	"github.com/gviegas/softgl/driver"
	"github.com/gviegas/softgl/linear"
)

// fetchAttribute implements spec.md §4.3: given a bound vertex buffer's
// bytes, an attribute descriptor, a stride, a vertex index and an instance
// index, computes the effective index (applying the instance divisor),
// bounds-checks the resulting byte range, and returns the typed value —
// or the default (0,0,0,1) if the attribute is disabled, unbound, or the
// read would run past buf.
func fetchAttribute(buf []byte, attr driver.VertexAttribute, stride uint32, vertex, instance int) linear.V4 {
	if buf == nil {
		return linear.V4{0, 0, 0, 1}
	}
	effIndex := vertex
	if attr.Divisor != 0 {
		effIndex = instance / int(attr.Divisor)
	}
	if effIndex < 0 {
		return linear.V4{0, 0, 0, 1}
	}
	size := attr.Format.Size()
	off := uint64(attr.Offset) + uint64(effIndex)*uint64(stride)
	if off+uint64(size) > uint64(len(buf)) {
		return linear.V4{0, 0, 0, 1}
	}
	b := buf[off : off+uint64(size)]
	switch attr.Format {
	case driver.FormatFloat1:
		return linear.V4{readF32(b[0:4]), 0, 0, 1}
	case driver.FormatFloat2:
		return linear.V4{readF32(b[0:4]), readF32(b[4:8]), 0, 1}
	case driver.FormatFloat3:
		return linear.V4{readF32(b[0:4]), readF32(b[4:8]), readF32(b[8:12]), 1}
	case driver.FormatFloat4:
		return linear.V4{readF32(b[0:4]), readF32(b[4:8]), readF32(b[8:12]), readF32(b[12:16])}
	case driver.FormatUByte4:
		return linear.V4{float32(b[0]), float32(b[1]), float32(b[2]), float32(b[3])}
	case driver.FormatUByte4N:
		return linear.V4{float32(b[0]) / 255, float32(b[1]) / 255, float32(b[2]) / 255, float32(b[3]) / 255}
	default:
		return linear.V4{0, 0, 0, 1}
	}
}

func readF32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
