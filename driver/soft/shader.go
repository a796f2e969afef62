// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"github.com/gviegas/softgl/driver"
	"github.com/gviegas/softgl/linear"
)

// ShaderContext is the fixed-size varying array threaded between the
// vertex and fragment stages (spec.md §3: "fixed array of Vec4 slots
// (K >= 8), zero-initialized"). Perspective-correct interpolation treats
// every slot uniformly, regardless of whether the user shader actually
// uses it.
type ShaderContext struct {
	Varying [driver.MaxVaryings]linear.V4

	// Fragment-stage-only builtins, valid only inside Fragment.
	FragCoord   linear.V4 // (x+0.5, y+0.5, z, 1/w_view)
	FrontFacing bool
	Discard     bool
	LOD         float32

	// Textures holds the currently bound texture slots (set by the device
	// before invoking Fragment), letting the shader call Sample directly
	// rather than threading texture handles through by hand.
	Textures [driver.MaxTextureSlots]*Texture

	// fragDepth/depthWritten let the fragment shader override gl_FragDepth;
	// the rasterizer checks depthWritten to decide whether Early-Z's result
	// must be re-validated (spec.md §4.6 step 5).
	fragDepth    float32
	depthWritten bool
}

// SetFragDepth lets a fragment shader override the fragment's depth value.
func (c *ShaderContext) SetFragDepth(z float32) {
	c.fragDepth = z
	c.depthWritten = true
}

// Sample samples the texture bound at slot using the rasterizer-computed
// LOD for this fragment (spec.md §4.6 step 2). A nil/unbound slot returns
// the error color.
func (c *ShaderContext) Sample(slot int, u, v float32) linear.V4 {
	if slot < 0 || slot >= len(c.Textures) || c.Textures[slot] == nil {
		return errorColor
	}
	return c.Textures[slot].Sample(u, v, c.LOD)
}

// Attributes is the set of fetched vertex-input values passed to Vertex,
// one slot per possible attribute location plus the instancing builtin.
type Attributes struct {
	Attr       [driver.MaxAttributes]linear.V4
	VertexID   int
	InstanceID int
}

// Shader is the contract a user-supplied pair of vertex/fragment callables
// must satisfy (spec.md §4.12, §9 Design Notes: "pipeline should be a
// trait/interface"). A concrete Shader type is monomorphized into a
// Pipeline[S] at construction, so there is no interface-dispatch cost in
// the per-pixel inner loop — only Vertex and Fragment themselves go through
// the interface, once per vertex and once per covered pixel respectively.
type Shader interface {
	// Vertex computes clip-space position from attrs, writing any varyings
	// it needs into ctx.Varying.
	Vertex(attrs *Attributes, ctx *ShaderContext) linear.V4

	// Fragment computes the fragment's color from interpolated varyings in
	// ctx. It may set ctx.Discard or call ctx.SetFragDepth.
	Fragment(ctx *ShaderContext) linear.V4
}

// DepthOverrider is an optional Shader extension: a shader that may call
// ctx.SetFragDepth must implement it and return true, so the rasterizer
// knows Early-Z cannot be trusted ahead of fragment-shader execution
// (spec.md §4.6 step 1: "if... the fragment shader does not rewrite
// depth"). Shaders that don't implement this are assumed to never
// override depth.
type DepthOverrider interface {
	WritesDepth() bool
}

// UniformBinder is an optional Shader extension: if a shader implements it,
// the pipeline calls BindUniforms with the raw bytes of the currently
// bound uniform slots instead of expecting the shader to read a fixed
// MaterialData field directly (spec.md §4.11's dual uniform-injection
// path).
type UniformBinder interface {
	BindUniforms(slot int, data []byte)
}

// VertexOut is a post-processing vertex record: clip-space position plus
// varyings, and — once screen-transformed — the Screen vector described in
// spec.md §3 (x,y pixel-space; z window depth in [0,1]; w = 1/w_clip).
type VertexOut struct {
	Clip   linear.V4
	Ctx    ShaderContext
	Screen linear.V4
}
