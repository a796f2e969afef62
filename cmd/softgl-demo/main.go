// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Command softgl-demo is an end-to-end smoke test: it builds a device,
// uploads a checkerboard texture, encodes a clear and one non-indexed
// triangle-list draw of a textured, vertex-colored quad, submits the
// command buffer, and writes the resulting framebuffer out as a PNG.
// Grounded on original_source/demos/demo_draw_array.cpp.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"

	"github.com/gviegas/softgl/driver"
	"github.com/gviegas/softgl/driver/cmdbuf"
	"github.com/gviegas/softgl/driver/soft"
	"github.com/gviegas/softgl/linear"
)

const (
	width  = 800
	height = 600
)

// quadShader mirrors demo_draw_array.cpp's vertex/fragment pair: varying 0
// carries UV, varying 1 carries vertex color; the fragment stage
// multiplies the sampled texel by the interpolated color.
type quadShader struct {
	mvp linear.M4
}

func (s *quadShader) Vertex(attrs *soft.Attributes, ctx *soft.ShaderContext) linear.V4 {
	ctx.Varying[0] = attrs.Attr[2] // uv
	ctx.Varying[1] = attrs.Attr[1] // color
	pos := attrs.Attr[0]
	pos[3] = 1
	var clip linear.V4
	clip.Mul(&s.mvp, &pos)
	return clip
}

func (s *quadShader) Fragment(ctx *soft.ShaderContext) linear.V4 {
	uv := ctx.Varying[0]
	vcolor := ctx.Varying[1]
	texel := ctx.Sample(0, uv[0], uv[1])
	return linear.V4{texel[0] * vcolor[0], texel[1] * vcolor[1], texel[2] * vcolor[2], texel[3] * vcolor[3]}
}

func identity() linear.M4 {
	var m linear.M4
	m.I()
	return m
}

func translate(x, y, z float32) linear.M4 {
	m := identity()
	m[3][0], m[3][1], m[3][2] = x, y, z
	return m
}

func rotateY(radians float32) linear.M4 {
	m := identity()
	c, sn := float32(math.Cos(float64(radians))), float32(math.Sin(float64(radians)))
	m[0][0], m[0][2] = c, -sn
	m[2][0], m[2][2] = sn, c
	return m
}

func perspective(fovYRadians, aspect, near, far float32) linear.M4 {
	f := float32(1 / math.Tan(float64(fovYRadians)/2))
	var m linear.M4
	m[0][0] = f / aspect
	m[1][1] = f
	m[2][2] = (far + near) / (near - far)
	m[2][3] = -1
	m[3][2] = (2 * far * near) / (near - far)
	return m
}

func mul(l, r linear.M4) linear.M4 {
	var m linear.M4
	m.Mul(&l, &r)
	return m
}

// quadVertices is interleaved pos(3)/color(3)/uv(2), two triangles forming
// a unit quad, matching demo_draw_array.cpp's layout.
var quadVertices = []float32{
	-0.5, -0.5, 0, 1, 0, 0, 0, 0,
	0.5, -0.5, 0, 0, 1, 0, 1, 0,
	0.5, 0.5, 0, 0, 0, 1, 1, 1,

	0.5, 0.5, 0, 0, 0, 1, 1, 1,
	-0.5, 0.5, 0, 1, 1, 0, 0, 1,
	-0.5, -0.5, 0, 1, 0, 0, 0, 0,
}

func floatsToBytes(f []float32) []byte {
	out := make([]byte, len(f)*4)
	for i, v := range f {
		bits := math.Float32bits(v)
		out[i*4+0] = byte(bits)
		out[i*4+1] = byte(bits >> 8)
		out[i*4+2] = byte(bits >> 16)
		out[i*4+3] = byte(bits >> 24)
	}
	return out
}

func checkerboard(n int) []byte {
	out := make([]byte, n*n*4)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := (y*n + x) * 4
			var v byte = 64
			if ((x/32)+(y/32))%2 == 0 {
				v = 230
			}
			out[i], out[i+1], out[i+2], out[i+3] = v, v, v, 255
		}
	}
	return out
}

func main() {
	out := flag.String("o", "softgl-demo.png", "output PNG path")
	angle := flag.Float64("angle", 30, "quad rotation in degrees")
	flag.Parse()

	dev := soft.NewDevice(soft.Config{
		Width:      width,
		Height:     height,
		TileSize:   32,
		Workers:    0,
		ClearColor: [4]float32{0.1, 0.1, 0.1, 1},
	})

	vbuf := dev.CreateBuffer(driver.BufferVertex, driver.UsageImmutable, int64(len(quadVertices)*4))
	dev.UpdateBuffer(vbuf, 0, floatsToBytes(quadVertices))

	tex := dev.CreateTexture(driver.DefaultSampling())
	dev.UploadTexture(tex, 0, 256, 256, driver.SourceRGBA, driver.SourceUnsignedByte, checkerboard(256))
	dev.GenerateMipmaps(tex)

	pipeline := soft.NewPipeline(&quadShader{}, soft.PipelineDesc{
		Topology: driver.TTriangle,
		Attributes: []driver.VertexAttribute{
			{Binding: 0, Format: driver.FormatFloat3, Offset: 0, Location: 0},
			{Binding: 0, Format: driver.FormatFloat3, Offset: 12, Location: 1},
			{Binding: 0, Format: driver.FormatFloat2, Offset: 24, Location: 2},
		},
		Bindings: []driver.VertexBinding{{Stride: 32}},
		Raster:   driver.RasterState{Cull: driver.CullNone},
		DS:       driver.DepthStencilState{DepthTest: true, DepthWrite: true, DepthCmp: driver.CmpLEqual},
		Blend:    driver.BlendState{},
	})
	pipelineHandle := soft.RegisterPipeline(dev, pipeline)

	enc := cmdbuf.NewEncoder()
	enc.BeginPass([4]float32{0, 0, width, height}, [4]int32{0, 0, -1, -1})
	enc.Clear(dev.DefaultClearColor(), 1, 0, cmdbuf.ClearColor|cmdbuf.ClearDepth)
	enc.SetPipeline(uint64(pipelineHandle))
	enc.SetVertexStream(0, uint64(vbuf), 0, 32)
	enc.SetTexture(0, uint64(tex))
	enc.Draw(uint32(len(quadVertices)/8), 0, 1)
	enc.EndPass()
	if enc.Violation != nil {
		log.Fatal(enc.Violation)
	}

	model := mul(translate(0, 0, -2), rotateY(float32(*angle)*math.Pi/180))
	proj := perspective(90*math.Pi/180, float32(width)/float32(height), 0.1, 100)
	pipeline.Shader.mvp = mul(proj, model)

	dev.Submit(enc.Bytes())

	if err := writePNG(*out, dev); err != nil {
		log.Fatal(err)
	}
}

func writePNG(path string, dev *soft.Device) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	pixels := dev.Pixels()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := pixels[y*width+x]
			img.Set(x, y, color.RGBA{
				R: byte(p),
				G: byte(p >> 8),
				B: byte(p >> 16),
				A: byte(p >> 24),
			})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
