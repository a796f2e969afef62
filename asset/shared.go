// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package asset

// Shared is a ref-counted asset reference, the Go counterpart of
// original_source's SharedAsset<T>. Go values copy implicitly and have no
// destructors, so unlike the C++ type this does not auto-manage its
// refcount across assignment — callers must call Clone before duplicating
// a Shared they intend to keep, and Release exactly once when done, the
// same discipline Go asks of any explicit-close resource (os.File, etc).
type Shared[T any] struct {
	handle  Handle[T]
	manager *Manager[T]
}

// NewShared wraps handle, taken from manager's most recent Insert (which
// already counts as the first reference).
func NewShared[T any](manager *Manager[T], handle Handle[T]) Shared[T] {
	return Shared[T]{handle: handle, manager: manager}
}

// Handle returns the underlying handle.
func (s Shared[T]) Handle() Handle[T] { return s.handle }

// Valid reports whether s holds a non-null handle.
func (s Shared[T]) Valid() bool { return s.handle.Valid() }

// Get resolves s to its payload.
func (s Shared[T]) Get() (*T, bool) {
	if s.manager == nil {
		return nil, false
	}
	return s.manager.Get(s.handle)
}

// Clone returns a new Shared referencing the same asset, incrementing its
// reference count (original_source's SharedAsset copy constructor).
func (s Shared[T]) Clone() Shared[T] {
	if s.manager != nil && s.handle.Valid() {
		s.manager.AddRef(s.handle)
	}
	return s
}

// Release decrements the asset's reference count, freeing it once no
// Shared references it (original_source's SharedAsset destructor).
// Calling Release on an already-released Shared is a no-op — Release
// resets the handle it holds to Invalid, so a second call does nothing.
func (s *Shared[T]) Release() {
	if s.manager != nil && s.handle.Valid() {
		s.manager.Release(s.handle)
	}
	s.handle = Invalid[T]()
}
