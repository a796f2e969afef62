// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package driver defines the RHI's state and resource vocabulary: the enums
// and descriptor structs shared by the command-buffer encoder (package
// cmdbuf) and the CPU device that consumes it (package soft). It carries
// over the shape of the teacher's Vulkan-oriented driver package wherever
// the same concept applies to a software rasterizer, and drops whatever was
// specific to a hardware GPU binding (synchronization scopes, descriptor
// heaps, multi-attachment render passes).
package driver

import "github.com/gviegas/softgl/linear"

// Topology identifies how a vertex stream is assembled into primitives.
type Topology int

const (
	TPoint Topology = iota
	TLine
	TLineStrip
	TLineLoop
	TTriangle
	TTriStrip
	TTriFan
)

// IndexFormat identifies the element size of an index buffer.
type IndexFormat int

const (
	IndexU8 IndexFormat = iota
	IndexU16
	IndexU32
)

// Size returns the byte size of a single index in the given format.
func (f IndexFormat) Size() int {
	switch f {
	case IndexU8:
		return 1
	case IndexU16:
		return 2
	case IndexU32:
		return 4
	default:
		return 0
	}
}

// VertexFormat identifies the storage type of a vertex attribute.
type VertexFormat int

const (
	FormatFloat1 VertexFormat = iota
	FormatFloat2
	FormatFloat3
	FormatFloat4
	FormatUByte4
	FormatUByte4N
)

// Size returns the byte size of a single attribute value in this format.
func (f VertexFormat) Size() int {
	switch f {
	case FormatFloat1:
		return 4
	case FormatFloat2:
		return 8
	case FormatFloat3:
		return 12
	case FormatFloat4:
		return 16
	case FormatUByte4, FormatUByte4N:
		return 4
	default:
		return 0
	}
}

// CullMode selects which winding is discarded before rasterization.
type CullMode int

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

// CmpFunc is a comparison function used by depth and stencil testing.
type CmpFunc int

const (
	CmpNever CmpFunc = iota
	CmpLess
	CmpEqual
	CmpLEqual
	CmpGreater
	CmpNotEqual
	CmpGEqual
	CmpAlways
)

// Eval reports whether ref compares true against val under f (ref is the
// incoming fragment's value, val is the value already stored in the
// buffer — matching depthFunc's "new vs. stored" convention).
func (f CmpFunc) Eval(ref, val float32) bool {
	switch f {
	case CmpNever:
		return false
	case CmpLess:
		return ref < val
	case CmpEqual:
		return ref == val
	case CmpLEqual:
		return ref <= val
	case CmpGreater:
		return ref > val
	case CmpNotEqual:
		return ref != val
	case CmpGEqual:
		return ref >= val
	case CmpAlways:
		return true
	default:
		return false
	}
}

// StencilOp is a stencil-buffer update operation.
type StencilOp int

const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilIncrClamp
	StencilDecrClamp
	StencilInvert
	StencilIncrWrap
	StencilDecrWrap
)

// Apply returns the new stencil value for cur given a reference value and
// write mask. Clamping/wrapping happens in the full uint8 range.
func (op StencilOp) Apply(cur, ref, writeMask uint8) uint8 {
	var v uint8
	switch op {
	case StencilKeep:
		v = cur
	case StencilZero:
		v = 0
	case StencilReplace:
		v = ref
	case StencilIncrClamp:
		if cur < 0xFF {
			v = cur + 1
		} else {
			v = cur
		}
	case StencilDecrClamp:
		if cur > 0 {
			v = cur - 1
		} else {
			v = cur
		}
	case StencilInvert:
		v = ^cur
	case StencilIncrWrap:
		v = cur + 1
	case StencilDecrWrap:
		v = cur - 1
	default:
		v = cur
	}
	return (cur &^ writeMask) | (v & writeMask)
}

// BlendFactor is a blend-equation input factor. Exactly the 10 factors
// named in the external-interface draw-parameter table; see DESIGN.md for
// why the teacher's superset (SrcAlphaSaturated, BlendColor, InvBlendColor)
// is trimmed.
type BlendFactor int

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendInvSrcColor
	BlendSrcAlpha
	BlendInvSrcAlpha
	BlendDstColor
	BlendInvDstColor
	BlendDstAlpha
	BlendInvDstAlpha
)

// BlendOp is a per-channel blend combination operator.
type BlendOp int

const (
	BlendAdd BlendOp = iota
	BlendSubtract
	BlendRevSubtract
	BlendMin
	BlendMax
)

// WrapMode is a texture coordinate wrap mode, per axis.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapMirror
	WrapClampEdge
	WrapClampBorder
)

// MagFilter is the magnification filter (lod <= 0).
type MagFilter int

const (
	MagNearest MagFilter = iota
	MagLinear
)

// MinFilter is the minification filter, including the four mipmap
// combinations. MinLinearMipLinear (trilinear) is the default per the
// external-interface table.
type MinFilter int

const (
	MinNearest MinFilter = iota
	MinLinear
	MinNearestMipNearest
	MinLinearMipNearest
	MinNearestMipLinear
	MinLinearMipLinear
)

// BufferUsage is a hint about how a buffer will be written, following
// original_source's simpler (GPU-bitmask-free) three-way enum rather than
// the teacher's GPU-access-pattern Usage bitmask (see DESIGN.md).
type BufferUsage int

const (
	UsageImmutable BufferUsage = iota
	UsageDynamic
	UsageStream
)

// BufferType tags what a Buffer is used for.
type BufferType int

const (
	BufferVertex BufferType = iota
	BufferIndex
	BufferUniform
)

// SourceFormat is the channel layout of texture-upload source bytes.
type SourceFormat int

const (
	SourceRGBA SourceFormat = iota
	SourceRGB
	SourceR
)

// Channels returns the number of bytes per texel of the source format.
func (f SourceFormat) Channels() int {
	switch f {
	case SourceRGBA:
		return 4
	case SourceRGB:
		return 3
	case SourceR:
		return 1
	default:
		return 0
	}
}

// SourceType is the per-channel storage type of texture-upload source
// bytes. Only unsigned byte is supported (per the external-interface
// table); upload of any other type is an unsupported-format failure.
type SourceType int

const (
	SourceUnsignedByte SourceType = iota
)

// ClearMask selects which buffers a Clear packet affects.
type ClearMask uint8

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
	ClearStencil
)

// Viewport maps clip space to a pixel-space rectangle.
type Viewport struct {
	X, Y, W, H float32
}

// Scissor restricts writes to a pixel-space rectangle. A negative W
// disables scissoring.
type Scissor struct {
	X, Y, W, H int32
}

// Disabled reports whether this scissor rect is the "no scissor" sentinel.
func (s Scissor) Disabled() bool { return s.W < 0 }

// RasterState controls culling and the front-face winding convention.
type RasterState struct {
	Cull CullMode
	// FrontCCW selects which signed-area sign is "front". The rasterizer's
	// own default (positive area = front) corresponds to FrontCCW = false
	// when areas are computed with the rasterizer's own edge-function
	// orientation; see driver/soft's triangle setup for the exact sign used.
	FrontCCW bool
}

// StencilFace is the pair of stencil operations plus compare state applied
// to one face (front or back).
type StencilFace struct {
	Cmp           CmpFunc
	ReadMask      uint8
	WriteMask     uint8
	Ref           uint8
	Fail          StencilOp
	DepthFail     StencilOp
	Pass          StencilOp
}

// DepthStencilState bundles the per-pipeline depth and stencil test config.
type DepthStencilState struct {
	DepthTest    bool
	DepthWrite   bool
	DepthCmp     CmpFunc
	StencilTest  bool
	Front, Back  StencilFace
}

// BlendState is the single-render-target blend configuration (spec.md has
// one color target, unlike the teacher's multi-render-target BlendState
// with an IndependentBlend flag — see DESIGN.md).
type BlendState struct {
	Enable              bool
	SrcRGB, DstRGB      BlendFactor
	SrcAlpha, DstAlpha  BlendFactor
	OpRGB, OpAlpha      BlendOp
}

// VertexAttribute describes one vertex-shader input.
type VertexAttribute struct {
	Binding  int // buffer slot index
	Format   VertexFormat
	Offset   uint32 // byte offset within stride
	Location int    // shader location
	Divisor  uint32 // 0 = per-vertex, >0 = per-instance
}

// VertexBinding describes one vertex-buffer binding slot.
type VertexBinding struct {
	Stride uint32
}

// MaxAttributes and MaxBindings meet the spec-mandated minimums (spec.md §3:
// "up to N (>=8) attributes... up to M (>=8) binding slots").
const (
	MaxAttributes = 16
	MaxBindings   = 8
)

// MaxVaryings is K in spec.md §3's "fixed array of Vec4 slots (K >= 8)".
const MaxVaryings = 8

// MaxUniformSlots and UniformSlotSize describe the device's fixed uniform
// staging area (spec.md §4.11: "16 slots x >=256 bytes, fixed").
const (
	MaxUniformSlots = 16
	UniformSlotSize = 256
)

// MaxTextureSlots is the number of texture-binding slots a pipeline may
// reference (matches original_source's MAX_BINDINGS and spec.md's implied
// "M >= 8 binding slots" reused for texture units).
const MaxTextureSlots = 8

// Sampling is the full sampler state attached to a Texture.
type Sampling struct {
	WrapU, WrapV     WrapMode
	Mag              MagFilter
	Min              MinFilter
	BorderColor      linear.V4
	LODMinClamp      float32
	LODMaxClamp      float32
	LODBias          float32
}

// DefaultSampling returns the sampler state spec.md implies as default:
// repeat wrap, linear mag, trilinear min, LOD unclamped.
func DefaultSampling() Sampling {
	return Sampling{
		WrapU: WrapRepeat, WrapV: WrapRepeat,
		Mag: MagLinear, Min: MinLinearMipLinear,
		LODMinClamp: 0, LODMaxClamp: 1000,
	}
}

// Limits exposes the small set of capacity constants spec.md names as
// implementation minimums. Unlike the teacher's Vulkan Limits struct
// (MaxImage1D/2D/3D/Cube, MaxDescHeaps, MaxDispatch, ...), softgl has no
// queryable hardware limits — these are the fixed constants above, exposed
// as a struct for callers that want to introspect them rather than import
// the constants directly.
type Limits struct {
	MaxAttributes   int
	MaxBindings     int
	MaxVaryings     int
	MaxUniformSlots int
	UniformSlotSize int
	MaxTextureSlots int
}

// GetLimits returns the fixed capability constants.
func GetLimits() Limits {
	return Limits{
		MaxAttributes:   MaxAttributes,
		MaxBindings:     MaxBindings,
		MaxVaryings:     MaxVaryings,
		MaxUniformSlots: MaxUniformSlots,
		UniformSlotSize: UniformSlotSize,
		MaxTextureSlots: MaxTextureSlots,
	}
}
