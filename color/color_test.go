// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package color

import (
	"testing"

	"github.com/gviegas/softgl/linear"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	cases := []linear.V4{
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{0.5, 0.25, 0.75, 1},
	}
	for _, c := range cases {
		p := Pack(&c)
		got := Unpack(p)
		for i := range got {
			d := got[i] - c[i]
			if d < -0.01 || d > 0.01 {
				t.Errorf("Pack/Unpack(%v) round-trip = %v", c, got)
				break
			}
		}
	}
}

func TestPackClamps(t *testing.T) {
	c := linear.V4{-1, 2, 0.5, 1}
	p := Pack(&c)
	got := Unpack(p)
	if got[0] != 0 {
		t.Errorf("Pack: negative channel not clamped to 0, got %v", got[0])
	}
	if got[1] != 1 {
		t.Errorf("Pack: channel above 1 not clamped, got %v", got[1])
	}
}

func TestPackLayout(t *testing.T) {
	c := linear.V4{1, 0, 0, 1}
	p := Pack(&c)
	if p&0xFF != 0xFF {
		t.Errorf("Pack: red channel not in low byte, got %#x", p)
	}
	if (p>>24)&0xFF != 0xFF {
		t.Errorf("Pack: alpha channel not in high byte, got %#x", p)
	}
}

func TestPackBatch4(t *testing.T) {
	in := [4]linear.V4{
		{1, 0, 0, 1},
		{0, 1, 0, 1},
		{0, 0, 1, 1},
		{1, 1, 1, 1},
	}
	out := PackBatch4(in)
	for i, c := range in {
		want := Pack(&c)
		if out[i] != want {
			t.Errorf("PackBatch4[%d] = %#x, want %#x", i, out[i], want)
		}
	}
}
