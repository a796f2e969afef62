// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import "github.com/gviegas/softgl/internal/bitm"

// pool is a generation-tagged slot array, the concrete realization of
// spec.md §3's Resource Pool ("vector of slots, slot = (payload, active
// bit, generation counter); free-list of released indices").
//
// Free/used tracking reuses the teacher's internal/bitm.Bitm allocator
// (grown in 64-bit words), but bitm carries no notion of generation: the
// counter here is new code added on top, since neither the teacher's nor
// original_source's reference pool types satisfy the "Pool generations"
// testable property (spec.md §8) on their own — see DESIGN.md.
//
// Index 0 is always reserved invalid and never handed out by Allocate.
type pool[T any] struct {
	slots []T
	gen   []uint32
	used  bitm.Bitm[uint64]
}

func newPool[T any]() *pool[T] {
	p := &pool[T]{}
	// Reserve index 0.
	p.used.Grow(1)
	p.used.Set(0)
	var zero T
	p.slots = append(p.slots, zero)
	p.gen = append(p.gen, 0)
	return p
}

// Allocate inserts payload into a free slot (reusing the lowest-index
// released one, whose generation Release already bumped) and returns the
// resulting handle.
func (p *pool[T]) Allocate(payload T) Handle {
	idx, ok := p.used.Search()
	if !ok {
		idx = p.used.Grow(1)
	}
	// The bitmap grows a whole word at a time, so a free bit may lie past
	// the slots created so far.
	for len(p.slots) <= idx {
		var zero T
		p.slots = append(p.slots, zero)
		p.gen = append(p.gen, 0)
	}
	p.slots[idx] = payload
	p.used.Set(idx)
	return newHandle(uint32(idx), p.gen[idx])
}

// Release frees h's slot, bumping its generation so stale copies of h no
// longer resolve. Releasing an invalid or already-free handle is a no-op.
func (p *pool[T]) Release(h Handle) {
	idx := h.index()
	if idx == 0 || int(idx) >= len(p.slots) || !p.used.IsSet(int(idx)) {
		return
	}
	if p.gen[idx] != h.generation() {
		return
	}
	var zero T
	p.slots[idx] = zero
	p.gen[idx]++
	p.used.Unset(int(idx))
}

// Get returns a pointer to h's payload and true, or (nil, false) if h is
// invalid, stale (generation mismatch), or the slot is not active.
func (p *pool[T]) Get(h Handle) (*T, bool) {
	idx := h.index()
	if idx == 0 || int(idx) >= len(p.slots) {
		return nil, false
	}
	if !p.used.IsSet(int(idx)) || p.gen[idx] != h.generation() {
		return nil, false
	}
	return &p.slots[idx], true
}
