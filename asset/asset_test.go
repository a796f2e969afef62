// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package asset

import "testing"

type mesh struct{ verts int }

func TestManagerInsertGetRelease(t *testing.T) {
	m := NewManager[mesh]()

	h := m.Insert(mesh{verts: 3})
	if !h.Valid() {
		t.Fatal("Insert returned an invalid handle")
	}
	v, ok := m.Get(h)
	if !ok || v.verts != 3 {
		t.Fatalf("Get(h) = %v, %v; want {3}, true", v, ok)
	}

	m.Release(h)
	if _, ok := m.Get(h); ok {
		t.Error("Get succeeded after the sole reference was released")
	}
}

func TestManagerRefCounting(t *testing.T) {
	m := NewManager[mesh]()
	h := m.Insert(mesh{verts: 4})
	m.AddRef(h)

	m.Release(h)
	if _, ok := m.Get(h); !ok {
		t.Fatal("Get failed after only one of two references was released")
	}

	m.Release(h)
	if _, ok := m.Get(h); ok {
		t.Error("Get succeeded after both references were released")
	}
}

func TestManagerGenerationInvalidatesStaleHandle(t *testing.T) {
	m := NewManager[mesh]()
	h1 := m.Insert(mesh{verts: 1})
	m.Release(h1)
	h2 := m.Insert(mesh{verts: 2})

	if h1.Index() != h2.Index() {
		t.Skip("slot reuse did not land on the same index; generation check not exercised")
	}
	if h1 == h2 {
		t.Fatal("reused slot produced an indistinguishable handle")
	}
	if _, ok := m.Get(h1); ok {
		t.Error("stale handle resolved after its slot was reused")
	}
}

func TestInvalidHandle(t *testing.T) {
	m := NewManager[mesh]()
	if Invalid[mesh]().Valid() {
		t.Error("Invalid() reports a valid handle")
	}
	if _, ok := m.Get(Invalid[mesh]()); ok {
		t.Error("Get resolved the invalid handle")
	}
}

func TestSharedCloneRelease(t *testing.T) {
	m := NewManager[mesh]()
	h := m.Insert(mesh{verts: 9})
	s1 := NewShared(m, h)
	s2 := s1.Clone()

	s1.Release()
	if _, ok := s2.Get(); !ok {
		t.Fatal("Get failed on s2 after s1 (a clone) released its reference")
	}

	s2.Release()
	if _, ok := s2.Get(); ok {
		t.Error("Get succeeded after the last Shared reference was released")
	}
	if s2.Valid() {
		t.Error("Shared still reports Valid after Release")
	}
}
