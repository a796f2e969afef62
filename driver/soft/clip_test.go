// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import "testing"

func cv(x, y, z, w float32) clipVertex {
	return clipVertex{clip: [4]float32{x, y, z, w}}
}

func TestClipTriangleFullyInside(t *testing.T) {
	v0, v1, v2 := cv(-0.5, -0.5, 0, 1), cv(0.5, -0.5, 0, 1), cv(0, 0.5, 0, 1)
	var a, b []clipVertex
	out := clipTriangle(&v0, &v1, &v2, a, b)
	if len(out) != 3 {
		t.Fatalf("clipTriangle(fully inside) returned %d vertices, want 3", len(out))
	}
}

func TestClipTriangleFullyOutside(t *testing.T) {
	// w=1 everywhere, all three vertices beyond the right plane (x > w).
	v0, v1, v2 := cv(2, 0, 0, 1), cv(3, 1, 0, 1), cv(3, -1, 0, 1)
	var a, b []clipVertex
	out := clipTriangle(&v0, &v1, &v2, a, b)
	if len(out) != 0 {
		t.Fatalf("clipTriangle(fully outside) returned %d vertices, want 0", len(out))
	}
}

func TestClipTriangleStraddlingPlane(t *testing.T) {
	// Straddles the right plane (x <= w) with only v0 inside: clipping cuts
	// off the part beyond x = w, leaving a triangle, and every output
	// vertex must lie on the inside of that plane.
	v0, v1, v2 := cv(-0.5, -0.5, 0, 1), cv(2, -0.5, 0, 1), cv(2, 0.5, 0, 1)
	var a, b []clipVertex
	out := clipTriangle(&v0, &v1, &v2, a, b)
	if len(out) < 3 {
		t.Fatalf("clipTriangle(straddling) returned %d vertices, want >= 3", len(out))
	}
	for _, v := range out {
		if v.clip[0] > v.clip[3]+1e-4 {
			t.Errorf("clipped vertex %v violates the right plane (x > w)", v.clip)
		}
	}
}

func TestClipLineFullyInside(t *testing.T) {
	v0, v1 := cv(-0.5, 0, 0, 1), cv(0.5, 0, 0, 1)
	a, b, ok := clipLine(&v0, &v1)
	if !ok {
		t.Fatal("clipLine(fully inside) reported not ok")
	}
	if a.clip != v0.clip || b.clip != v1.clip {
		t.Errorf("clipLine(fully inside) altered endpoints: got %v, %v", a.clip, b.clip)
	}
}

func TestClipLineFullyOutside(t *testing.T) {
	v0, v1 := cv(2, 0, 0, 1), cv(3, 0, 0, 1)
	_, _, ok := clipLine(&v0, &v1)
	if ok {
		t.Error("clipLine(fully outside) reported ok")
	}
}

func TestClipLineStraddling(t *testing.T) {
	v0, v1 := cv(0, 0, 0, 1), cv(2, 0, 0, 1)
	a, b, ok := clipLine(&v0, &v1)
	if !ok {
		t.Fatal("clipLine(straddling) reported not ok")
	}
	if a.clip[0] > a.clip[3]+1e-4 || b.clip[0] > b.clip[3]+1e-4 {
		t.Errorf("clipLine result violates the right plane: %v, %v", a.clip, b.clip)
	}
}

func TestCullPoint(t *testing.T) {
	if cullPoint([4]float32{0, 0, 0, 1}) {
		t.Error("origin point was culled")
	}
	if !cullPoint([4]float32{2, 0, 0, 1}) {
		t.Error("point with |x| > w was not culled")
	}
}
