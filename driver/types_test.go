// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package driver

import "testing"

func TestCmpFuncEval(t *testing.T) {
	cases := []struct {
		f        CmpFunc
		ref, val float32
		want     bool
	}{
		{CmpNever, 1, 1, false},
		{CmpLess, 1, 2, true},
		{CmpLess, 2, 1, false},
		{CmpEqual, 1, 1, true},
		{CmpLEqual, 1, 1, true},
		{CmpLEqual, 2, 1, false},
		{CmpGreater, 2, 1, true},
		{CmpNotEqual, 1, 2, true},
		{CmpGEqual, 1, 1, true},
		{CmpAlways, 0, 99, true},
	}
	for _, c := range cases {
		if got := c.f.Eval(c.ref, c.val); got != c.want {
			t.Errorf("%v.Eval(%v, %v) = %v, want %v", c.f, c.ref, c.val, got, c.want)
		}
	}
}

func TestStencilOpApplyRespectsWriteMask(t *testing.T) {
	got := StencilReplace.Apply(0x0F, 0xFF, 0x0F)
	if got != 0x0F {
		t.Errorf("Apply with write mask 0x0F = %#x, want %#x", got, 0x0F)
	}
	got = StencilReplace.Apply(0x0F, 0xFF, 0x00)
	if got != 0x0F {
		t.Errorf("Apply with zero write mask changed cur: got %#x, want %#x (unchanged)", got, 0x0F)
	}
}

func TestStencilOpClampAndWrap(t *testing.T) {
	if got := StencilIncrClamp.Apply(0xFF, 0, 0xFF); got != 0xFF {
		t.Errorf("IncrClamp at max = %#x, want 0xff", got)
	}
	if got := StencilDecrClamp.Apply(0, 0, 0xFF); got != 0 {
		t.Errorf("DecrClamp at 0 = %#x, want 0", got)
	}
	if got := StencilIncrWrap.Apply(0xFF, 0, 0xFF); got != 0 {
		t.Errorf("IncrWrap at max = %#x, want 0", got)
	}
}

func TestIndexFormatSize(t *testing.T) {
	cases := map[IndexFormat]int{IndexU8: 1, IndexU16: 2, IndexU32: 4}
	for f, want := range cases {
		if got := f.Size(); got != want {
			t.Errorf("%v.Size() = %v, want %v", f, got, want)
		}
	}
}

func TestVertexFormatSize(t *testing.T) {
	cases := map[VertexFormat]int{
		FormatFloat1: 4, FormatFloat2: 8, FormatFloat3: 12, FormatFloat4: 16,
		FormatUByte4: 4, FormatUByte4N: 4,
	}
	for f, want := range cases {
		if got := f.Size(); got != want {
			t.Errorf("%v.Size() = %v, want %v", f, got, want)
		}
	}
}

func TestScissorDisabled(t *testing.T) {
	if !(Scissor{W: -1}).Disabled() {
		t.Error("negative width scissor should report Disabled")
	}
	if (Scissor{W: 10, H: 10}).Disabled() {
		t.Error("positive width scissor should not report Disabled")
	}
}

func TestSourceFormatChannels(t *testing.T) {
	cases := map[SourceFormat]int{SourceRGBA: 4, SourceRGB: 3, SourceR: 1}
	for f, want := range cases {
		if got := f.Channels(); got != want {
			t.Errorf("%v.Channels() = %v, want %v", f, got, want)
		}
	}
}
