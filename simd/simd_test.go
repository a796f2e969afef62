// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package simd

import "testing"

func TestLoadStore(t *testing.T) {
	v := Load([]float32{1, 2, 3})
	if v != (F4{1, 2, 3, 0}) {
		t.Fatalf("Load: got %v", v)
	}
	dst := make([]float32, 2)
	v.Store(dst)
	if dst[0] != 1 || dst[1] != 2 {
		t.Fatalf("Store: got %v", dst)
	}
}

func TestArith(t *testing.T) {
	a := F4{1, 2, 3, 4}
	b := F4{10, 20, 30, 40}
	if got := a.Add(b); got != (F4{11, 22, 33, 44}) {
		t.Errorf("Add: got %v", got)
	}
	if got := b.Sub(a); got != (F4{9, 18, 27, 36}) {
		t.Errorf("Sub: got %v", got)
	}
	if got := a.Mul(b); got != (F4{10, 40, 90, 160}) {
		t.Errorf("Mul: got %v", got)
	}
	if got := a.FMA(b, F4{1, 1, 1, 1}); got != (F4{11, 41, 91, 161}) {
		t.Errorf("FMA: got %v", got)
	}
	if got := a.Scale(2); got != (F4{2, 4, 6, 8}) {
		t.Errorf("Scale: got %v", got)
	}
}

func TestMinMaxClamp(t *testing.T) {
	a := F4{-1, 5, 2, 9}
	lo := Splat(0)
	hi := Splat(4)
	if got := a.Clamp(lo, hi); got != (F4{0, 4, 2, 4}) {
		t.Errorf("Clamp: got %v", got)
	}
	if got := a.Min(lo); got != (F4{-1, 0, 0, 0}) {
		t.Errorf("Min: got %v", got)
	}
	if got := a.Max(lo); got != (F4{0, 5, 2, 9}) {
		t.Errorf("Max: got %v", got)
	}
}

func TestSum(t *testing.T) {
	if got := (F4{1, 2, 3, 4}).Sum(); got != 10 {
		t.Errorf("Sum: got %v, want 10", got)
	}
}
