// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import "github.com/gviegas/softgl/driver"

// Resource creation/destruction is host-side API, not part of the packet
// stream (spec.md §4.10's table only covers state/draw packets): a handle
// must already exist before an encoder can reference it in SetVertexStream,
// SetTexture, or SetPipeline.

// CreateBuffer allocates a new buffer and returns its handle.
func (dev *Device) CreateBuffer(typ driver.BufferType, usage driver.BufferUsage, size int64) Handle {
	return dev.buffers.Allocate(NewBuffer(typ, usage, size))
}

// UpdateBuffer overwrites h's contents at offset; reports false if h is
// stale or the write would run past the buffer's extent.
func (dev *Device) UpdateBuffer(h Handle, offset int64, data []byte) bool {
	b, ok := dev.buffers.Get(h)
	if !ok {
		return false
	}
	return (*b).Update(offset, data)
}

// DestroyBuffer releases h, invalidating it and any handle sharing its
// slot's stale generation.
func (dev *Device) DestroyBuffer(h Handle) { dev.buffers.Release(h) }

// SetIndexFormat records the element width used to interpret the bound
// index buffer's bytes in subsequent DrawIndexed calls; spec.md's
// SetIndexBuffer packet carries no explicit format field, so it is set
// alongside the buffer binding via this host-side call.
func (dev *Device) SetIndexFormat(format driver.IndexFormat) {
	dev.state.ibuf.format = format
}

// CreateTexture allocates an empty texture; call UploadTexture to populate
// its base level before sampling it.
func (dev *Device) CreateTexture(sampling driver.Sampling) Handle {
	return dev.textures.Allocate(&Texture{Sampling: sampling})
}

// UploadTexture uploads source pixels into one mip level of h.
func (dev *Device) UploadTexture(h Handle, level, w, hgt int, srcFmt driver.SourceFormat, srcType driver.SourceType, src []byte) bool {
	t, ok := dev.textures.Get(h)
	if !ok {
		return false
	}
	return (*t).Upload(level, w, hgt, srcFmt, srcType, src)
}

// GenerateMipmaps fills h's mip chain from its base level via box
// filtering.
func (dev *Device) GenerateMipmaps(h Handle) bool {
	t, ok := dev.textures.Get(h)
	if !ok {
		return false
	}
	(*t).GenerateMipmaps()
	return true
}

// DestroyTexture releases h.
func (dev *Device) DestroyTexture(h Handle) { dev.textures.Release(h) }

// RegisterPipeline adopts a concrete *Pipeline[S] into the device's
// type-erased pipeline pool, returning the handle SetPipeline references.
// A free function rather than a Device method because Go forbids type
// parameters on methods (spec.md §9's trait-object boundary).
func RegisterPipeline[S Shader](dev *Device, p *Pipeline[S]) Handle {
	return dev.pipelines.Allocate(pipelineBase(p))
}

// DestroyPipeline releases h.
func (dev *Device) DestroyPipeline(h Handle) { dev.pipelines.Release(h) }

// Pixels returns the framebuffer's packed RGBA8 color plane.
func (dev *Device) Pixels() []uint32 { return dev.framebuffer.Pixels() }
