// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import "github.com/gviegas/softgl/driver"

// Buffer is spec.md §3's "opaque byte blob with a type tag... a usage
// hint... and a size." CPU-only rasterization has no host-visible/device-
// local distinction to track (everything is process memory), so unlike
// the teacher's driver.Buffer interface (Visible()/Bytes()/Cap()), this is
// plain data.
type Buffer struct {
	Type  driver.BufferType
	Usage driver.BufferUsage
	Bytes []byte
}

// NewBuffer allocates a zeroed buffer of size bytes.
func NewBuffer(typ driver.BufferType, usage driver.BufferUsage, size int64) *Buffer {
	return &Buffer{Type: typ, Usage: usage, Bytes: make([]byte, size)}
}

// Update overwrites buf's contents starting at offset, matching spec.md
// §3's "mutated by UpdateBuffer". Writes that would run past the buffer's
// extent are rejected (returns false) and leave the buffer unmodified.
func (b *Buffer) Update(offset int64, data []byte) bool {
	if offset < 0 || offset+int64(len(data)) > int64(len(b.Bytes)) {
		return false
	}
	copy(b.Bytes[offset:], data)
	return true
}
