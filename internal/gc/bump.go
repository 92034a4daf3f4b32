// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

// Package gc implements the young-space bump allocator and the
// minimal collector interface the baseline JIT's emitted allocation
// sequence relies on. The copying/marking algorithms a minor or major
// collection actually runs are out of scope — this package fixes only
// the allocation fast path and the retry contract.
//
// Grounded on the Collector/alloc_obj contract in
// original_source/src/gc/swiper/mod.rs.
package gc

import (
	"sync/atomic"

	"github.com/dora-rt/dorajit/internal/heap"
)

// RootSet supplies the live references rooted in active frames and
// globals at the moment a minor collection runs. The real
// implementation walks every active compilation's GC points plus the
// global root table; this package only consumes the interface.
type RootSet interface {
	// Roots returns every heap address currently reachable from a
	// root. A stub implementation (e.g. in tests) may return nil,
	// meaning "nothing is reachable" — the young generation is then
	// fully reclaimable.
	Roots() []heap.Address
}

// Collector performs a minor collection: given the current root set,
// reclaim young-space memory not reachable from a root, consulting
// the card table to find old→young pointers. The copying/marking
// algorithm itself is out of scope; only this entry point is
// specified.
type Collector interface {
	Collect(roots RootSet)
}

// NopCollector is a Collector that always reports the young
// generation as fully reclaimable — the minimal implementation that
// exercises BumpAllocator's retry path without a real tracing
// collector.
type NopCollector struct{}

// Collect does nothing: NopCollector always treats collection as
// freeing the entire young generation.
func (NopCollector) Collect(RootSet) {}

// BumpAllocator is the young-space fast path: alloc attempts a bump
// within young space; on failure it asks the Collector to run a minor
// collection and retries once; a second failure falls through to old
// space or reports out-of-memory.
type BumpAllocator struct {
	young     heap.Region
	collector Collector

	// next is the next free address in young space, stored as an
	// offset from young.Start so it can be reset to 0 after a
	// collection without knowing the base address.
	next int64

	// oldAlloc is consulted only as the second-failure fallback; a
	// nil oldAlloc means "no old-space fallback configured" and
	// alloc_obj returns the null address instead.
	oldAlloc func(size int64) heap.Address
}

// NewBumpAllocator returns a bump allocator over young, using
// collector for minor collections. oldAlloc may be nil.
func NewBumpAllocator(young heap.Region, collector Collector, oldAlloc func(size int64) heap.Address) *BumpAllocator {
	return &BumpAllocator{young: young, collector: collector, oldAlloc: oldAlloc}
}

// AllocObj attempts a bump allocation of size bytes. On fast-path
// failure it runs a minor collection (consulting roots) and retries
// once; a second failure falls back to old-space allocation if
// configured, otherwise returns the null address (0) — surfaced to
// the caller per spec.md §7's "out-of-memory after minor collection".
func (b *BumpAllocator) AllocObj(roots RootSet, size int64) heap.Address {
	if addr, ok := b.bump(size); ok {
		return addr
	}

	b.collector.Collect(roots)
	atomic.StoreInt64(&b.next, 0)

	if addr, ok := b.bump(size); ok {
		return addr
	}

	if b.oldAlloc != nil {
		return b.oldAlloc(size)
	}
	return heap.Address(0)
}

func (b *BumpAllocator) bump(size int64) (heap.Address, bool) {
	cur := atomic.LoadInt64(&b.next)
	next := cur + size
	if next > b.young.Size() {
		return heap.Address(0), false
	}
	if !atomic.CompareAndSwapInt64(&b.next, cur, next) {
		return heap.Address(0), false
	}
	return b.young.Start.Add(cur), true
}

// NeedsWriteBarrier reports whether stores of references require the
// write barrier. A generational collector with a young/old split
// always needs it: spec.md names this the fixed answer a bump
// allocator over a two-generation heap gives.
func (b *BumpAllocator) NeedsWriteBarrier() bool {
	return true
}
