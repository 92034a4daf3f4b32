// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

// Package frame implements the baseline JIT's stack-frame manager: a
// best-fit free-slot arena, the scoped frame built on top of it, and
// the GC-point snapshots the code generator attaches to call sites.
//
// Grounded on the Dora JIT's ast.rs ManagedStackFrame/FreeSlots/
// StackFrame (original_source/dora/src/baseline/ast.rs).
package frame

import "fmt"

// FreeSlot is a half-open byte range [Start, Start+Size) in the
// distance-from-frame-base coordinate: a FreeSlot{Start: 4, Size: 8}
// covers frame offsets -4 down to (exclusive) -12.
type FreeSlot struct {
	Start uint32
	Size  uint32
}

// End returns the exclusive end of the range.
func (s FreeSlot) End() uint32 {
	return s.Start + s.Size
}

// FreeSlots is a sorted, coalesced list of free byte ranges inside a
// frame. The invariant held at every public-method boundary: slots
// are sorted by Start, non-overlapping, and non-adjacent (any two
// touching slots have already been merged).
type FreeSlots struct {
	slots []FreeSlot
}

// NewFreeSlots returns an empty arena.
func NewFreeSlots() *FreeSlots {
	return &FreeSlots{}
}

// Slots returns the current sorted slot list. For tests and
// diagnostics only; callers must not mutate the returned slice.
func (f *FreeSlots) Slots() []FreeSlot {
	return f.slots
}

// Free reinserts a range, merging with adjacent neighbours.
//
// Scans slots in order. For the first slot whose Start is beyond
// new.End, new is inserted before it. If new.End meets a slot's Start
// exactly, that slot is replaced by one spanning new.Start..slot.End,
// and the previous slot is checked for a now-possible left merge. If
// a slot's End meets new.Start exactly, the slot is extended on the
// right, and the next slot is checked for a right merge. Otherwise the
// scan continues; if nothing matched, new is appended.
func (f *FreeSlots) Free(new FreeSlot) {
	n := len(f.slots)

	for idx := 0; idx < n; idx++ {
		slot := f.slots[idx]

		if new.End() < slot.Start {
			f.insert(idx, new)
			return
		}

		if new.End() == slot.Start {
			merged := FreeSlot{Start: new.Start, Size: new.Size + slot.Size}
			f.slots[idx] = merged
			if idx > 0 && f.slots[idx-1].End() == merged.Start {
				left := f.slots[idx-1]
				f.slots[idx-1] = FreeSlot{Start: left.Start, Size: merged.End() - left.Start}
				f.remove(idx)
			}
			return
		}

		if slot.End() == new.Start {
			extended := FreeSlot{Start: slot.Start, Size: slot.Size + new.Size}
			if idx+1 < n && f.slots[idx+1].Start == extended.End() {
				right := f.slots[idx+1]
				f.slots[idx] = FreeSlot{Start: extended.Start, Size: right.End() - extended.Start}
				f.remove(idx + 1)
			} else {
				f.slots[idx] = extended
			}
			return
		}
	}

	f.slots = append(f.slots, new)
}

// Alloc performs a best-fit aligned allocation: scans every slot
// large enough for size, tracks the one with minimum wasted bytes
// once aligned (first candidate wins ties), removes it, and reinserts
// up to two residual fragments (the left gap before the aligned start,
// the right gap after the allocation). Returns the aligned start, or
// false if no slot can satisfy the request.
func (f *FreeSlots) Alloc(size, alignment uint32) (uint32, bool) {
	if size == 0 {
		panic("frame: zero-sized allocation request")
	}
	if alignment == 0 || alignment&(alignment-1) != 0 {
		panic(fmt.Sprintf("frame: alignment %d is not a power of two", alignment))
	}

	best := -1
	bestWaste := ^uint32(0)
	var bestStart uint32

	for idx, slot := range f.slots {
		if slot.Size < size {
			continue
		}
		if slot.Size == size {
			if slot.Start%alignment == 0 {
				start := slot.Start
				f.remove(idx)
				return start, true
			}
			continue
		}

		start := alignUp(slot.Start, alignment)
		if uint64(start)+uint64(size) > uint64(slot.End()) {
			continue
		}
		waste := (start - slot.Start) + (slot.End() - (start + size))
		if waste < bestWaste {
			bestWaste = waste
			best = idx
			bestStart = start
		}
	}

	if best < 0 {
		return 0, false
	}

	slot := f.slots[best]
	f.remove(best)

	gapLeft := bestStart - slot.Start
	gapRight := slot.End() - (bestStart + size)

	insertAt := best
	if gapLeft > 0 {
		f.insert(insertAt, FreeSlot{Start: slot.Start, Size: gapLeft})
		insertAt++
	}
	if gapRight > 0 {
		f.insert(insertAt, FreeSlot{Start: bestStart + size, Size: gapRight})
	}

	return bestStart, true
}

func (f *FreeSlots) insert(idx int, s FreeSlot) {
	f.slots = append(f.slots, FreeSlot{})
	copy(f.slots[idx+1:], f.slots[idx:])
	f.slots[idx] = s
}

func (f *FreeSlots) remove(idx int) {
	f.slots = append(f.slots[:idx], f.slots[idx+1:]...)
}

// alignUp rounds v up to the next multiple of a, a power of two.
//
// The reference source computes this as (v*a + a - 1) / a, which is
// not a correct alignment formula (it scales v by a instead of
// rounding it within a's boundary, and even ignoring that, integer
// division by a non-power-of-two-aware path is the wrong tool once a
// is required to be a power of two). This is a documented departure:
// alignUp here uses the standard bit-mask form.
func alignUp(v, a uint32) uint32 {
	return (v + a - 1) &^ (a - 1)
}
