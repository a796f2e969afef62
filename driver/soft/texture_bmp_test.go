// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/gviegas/softgl/driver"
)

// encodeBMP builds a small in-memory BMP fixture: a 2x2 image with one
// solid color per quadrant, decoded below via golang.org/x/image/bmp since
// the standard image package has no BMP decoder.
func encodeBMP(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{255, 255, 0, 255})
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

// TestUploadTextureFromBMP decodes a BMP fixture through golang.org/x/image
// and exercises the same source-byte path a glTF-embedded or on-disk
// texture would: RGBA8 bytes fed into Device.UploadTexture.
func TestUploadTextureFromBMP(t *testing.T) {
	raw := encodeBMP(t)
	img, err := bmp.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	src := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*w + x) * 4
			src[i+0] = byte(r >> 8)
			src[i+1] = byte(g >> 8)
			src[i+2] = byte(b >> 8)
			src[i+3] = byte(a >> 8)
		}
	}

	dev := NewDevice(Config{Width: 64, Height: 64, TileSize: 16, Workers: 1})
	h1 := dev.CreateTexture(driver.DefaultSampling())
	if ok := dev.UploadTexture(h1, 0, w, h, driver.SourceRGBA, driver.SourceUnsignedByte, src); !ok {
		t.Fatal("UploadTexture reported failure")
	}

	tex, ok := dev.textures.Get(h1)
	if !ok {
		t.Fatal("texture handle did not resolve")
	}
	// Sample each quadrant's center; nearest filtering avoids blending
	// across the 2x2 fixture's hard quadrant boundaries.
	(*tex).Sampling.Mag = driver.MagNearest
	(*tex).Sampling.Min = driver.MinNearest

	cases := []struct {
		u, v float32
		want linear4
	}{
		{0.25, 0.25, linear4{1, 0, 0, 1}},
		{0.75, 0.25, linear4{0, 1, 0, 1}},
		{0.25, 0.75, linear4{0, 0, 1, 1}},
		{0.75, 0.75, linear4{1, 1, 0, 1}},
	}
	for _, c := range cases {
		got := (*tex).Sample(c.u, c.v, 0)
		gl := linear4{got[0], got[1], got[2], got[3]}
		if !gl.approxEqual(c.want) {
			t.Errorf("Sample(%v,%v) = %v, want %v", c.u, c.v, gl, c.want)
		}
	}
}

// linear4 is a local float32x4 stand-in used only to keep this test file
// independent of the rasterizer's internal tolerance helpers.
type linear4 [4]float32

func (a linear4) approxEqual(b linear4) bool {
	const eps = 1.0 / 255
	for i := range a {
		d := a[i] - b[i]
		if d < -eps || d > eps {
			return false
		}
	}
	return true
}
