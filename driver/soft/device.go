// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import "github.com/gviegas/softgl/driver"

// vertexBinding is the device's record of one bound vertex buffer slot.
type vertexBinding struct {
	buffer Handle
	offset uint32
	stride uint32
}

// indexBinding is the device's record of the bound index buffer.
type indexBinding struct {
	buffer Handle
	offset uint32
	format driver.IndexFormat
}

// bindState holds all per-draw binding state a Submit decode loop mutates;
// it mirrors spec.md §4.11's description of command-buffer state tracking.
type bindState struct {
	vbuf     [driver.MaxBindings]vertexBinding
	ibuf     indexBinding
	textures [driver.MaxTextureSlots]Handle
	viewport driver.Viewport
	scissor  driver.Scissor
	pipeline Handle
}

// Device is the CPU rasterizer's implementation of the rendering backend
// (spec.md §4.11's Device): it owns resource pools, the framebuffer, the
// tile-binning arena, and the worker pool tile shading dispatches to, and
// decodes encoded command-buffer packets into driver calls strictly in
// stream order.
type Device struct {
	buffers   *pool[*Buffer]
	textures  *pool[*Texture]
	pipelines *pool[pipelineBase]

	framebuffer *Framebuffer
	tiles       *tileGrid
	tileSize    int
	jobs        *jobSystem

	state bindState

	// uniforms is the fixed uniform staging area, slot s at byte offset
	// s*UniformSlotSize (spec.md §4.11). Flat rather than [16][256]byte so
	// a whole-buffer snapshot is one contiguous copy.
	uniforms []byte

	// uniformArena holds per-draw snapshots of uniforms, taken at bin time
	// so a later draw's UpdateUniform calls cannot retroactively change an
	// already-binned triangle's material data before tile shading replays
	// it (spec.md §4.11 + §4.9's deferred tile-shading stage).
	uniformArena *arena

	// curUniformOff/curUniformLen name the most recent snapshot taken for
	// the in-flight draw call, set once per Draw/DrawIndexed.
	curUniformOff, curUniformLen int

	// Per-frame triangle-binning storage. triArena holds every clipped,
	// screen-space triangle produced this frame; tileGrid.binRecord
	// entries reference it by (triangleOff, triangleLen) rather than by
	// pointer, per spec.md §4.8's "offsets, not raw pointers" note.
	triArena []TriangleData

	// clipScratchA/B are reused scratch buffers for Sutherland-Hodgman
	// clipping, avoiding a per-triangle allocation.
	clipScratchA []clipVertex
	clipScratchB []clipVertex

	// clearColor is Config's default, used by callers that clear a frame
	// without specifying their own color (cmd/softgl-demo's single-shot
	// render loop, for instance).
	clearColor [4]float32

	tbr bool
}

// Config configures a new Device: framebuffer extents, the tile-binning
// grid's cell size, the tile-shading worker pool size, and the default
// color used to clear a frame when the caller doesn't supply its own,
// following the teacher's configuration-by-struct convention rather than
// functional options.
type Config struct {
	// Width, Height are the framebuffer's pixel extents.
	Width, Height int
	// TileSize is the tile-binning grid's cell size, in pixels.
	TileSize int
	// Workers is the tile-shading worker pool size; 0 picks GOMAXPROCS.
	Workers int
	// ClearColor is the default color Device.DefaultClearColor returns.
	ClearColor [4]float32
}

// NewDevice constructs a device rendering into a cfg.Width×cfg.Height
// framebuffer.
func NewDevice(cfg Config) *Device {
	dev := &Device{
		buffers:      newPool[*Buffer](),
		textures:     newPool[*Texture](),
		pipelines:    newPool[pipelineBase](),
		framebuffer:  NewFramebuffer(cfg.Width, cfg.Height),
		tileSize:     cfg.TileSize,
		jobs:         newJobSystem(cfg.Workers),
		clipScratchA: make([]clipVertex, 0, maxClipVertices),
		clipScratchB: make([]clipVertex, 0, maxClipVertices),
		uniforms:     make([]byte, driver.MaxUniformSlots*driver.UniformSlotSize),
		uniformArena: newArena(driver.MaxUniformSlots * driver.UniformSlotSize * 4),
		clearColor:   cfg.ClearColor,
	}
	dev.tiles = newTileGrid(cfg.Width, cfg.Height, cfg.TileSize)
	dev.state.viewport = driver.Viewport{X: 0, Y: 0, W: float32(cfg.Width), H: float32(cfg.Height)}
	dev.state.scissor = driver.Scissor{W: -1}
	return dev
}

// DefaultClearColor returns the color the device was configured to clear
// with when a caller doesn't provide its own.
func (dev *Device) DefaultClearColor() [4]float32 {
	return dev.clearColor
}

// currentScissor returns the active scissor rect, or the full framebuffer
// extent when scissoring is disabled — used by the non-tiled line/point
// paths, which bypass tile binning entirely (spec.md §4.8 bins triangles
// only).
func (dev *Device) currentScissor() driver.Scissor {
	if dev.state.scissor.Disabled() {
		return driver.Scissor{X: 0, Y: 0, W: int32(dev.framebuffer.Width), H: int32(dev.framebuffer.Height)}
	}
	return dev.state.scissor
}

// snapshotUniforms copies the current uniform staging bytes into the frame
// arena and records the resulting offset/length for the in-flight draw, so
// every triangle it bins can later be replayed against the uniform values
// it was actually drawn with, regardless of what a later draw does to
// dev.uniforms before tile shading runs.
func (dev *Device) snapshotUniforms() {
	n := len(dev.uniforms)
	off := dev.uniformArena.alloc(n)
	copy(dev.uniformArena.at(off, n), dev.uniforms)
	dev.curUniformOff, dev.curUniformLen = off, n
}

// rasterizeDirect immediately shades tri without tile binning, used when
// the device is configured for the non-TBR ("immediate") path. The current
// uniform bytes are used as-is since no later draw can have run yet.
func (dev *Device) rasterizeDirect(p pipelineBase, tri *TriangleData) {
	p.rasterizeTriangleData(dev, *tri, dev.currentScissor(), dev.uniforms)
}

// binTriangleData records tri into the frame's triangle arena and bins it
// across the tile grid (spec.md §4.8's BinTriangle), referencing the
// owning pipeline and the draw's uniform snapshot so tile shading can
// replay it later with the exact state it was drawn under.
func (dev *Device) binTriangleData(tri *TriangleData, pipeline Handle) {
	off := len(dev.triArena)
	dev.triArena = append(dev.triArena, *tri)
	rec := binRecord{
		pipelineID:  pipeline,
		triangleOff: off,
		triangleLen: 1,
		uniformOff:  dev.curUniformOff,
		uniformLen:  dev.curUniformLen,
	}
	dev.tiles.binTriangle(tri, rec)
}

// ShadeTiles replays every non-empty tile's bin records against the
// framebuffer (spec.md §4.8's tile-shading stage), dispatching one job per
// tile through the worker pool since tiles never share output pixels.
func (dev *Device) ShadeTiles() {
	indices := dev.tiles.nonEmptyTiles()
	work := make([]func(), len(indices))
	for n, ti := range indices {
		ti := ti
		work[n] = func() {
			t := &dev.tiles.tiles[ti]
			scissor := driver.Scissor{X: int32(t.x), Y: int32(t.y), W: int32(t.w), H: int32(t.h)}
			for _, rec := range t.records {
				pl, ok := dev.pipelines.Get(rec.pipelineID)
				if !ok {
					continue
				}
				uniforms := dev.uniformArena.at(rec.uniformOff, rec.uniformLen)
				for i := 0; i < rec.triangleLen; i++ {
					tri := dev.triArena[rec.triangleOff+i]
					(*pl).rasterizeTriangleData(dev, tri, scissor, uniforms)
				}
			}
		}
	}
	dev.jobs.ExecuteAll(work)
}

// BeginFrame resets the per-frame triangle arena and tile grid, discarding
// the previous frame's bin contents.
func (dev *Device) BeginFrame(tbr bool) {
	dev.tbr = tbr
	dev.triArena = dev.triArena[:0]
	dev.uniformArena.reset()
	dev.tiles.reset()
}

// EndFrame replays any binned tiles (a no-op in the non-TBR path, since
// rasterizeDirect already wrote pixels as triangles were assembled).
func (dev *Device) EndFrame() {
	if dev.tbr {
		dev.ShadeTiles()
	}
}
