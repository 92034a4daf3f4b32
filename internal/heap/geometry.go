// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

// Package heap computes the generational heap's address layout —
// young space, old space, card table, crossing map — and the
// card-table offset constant that lets the emitted write barrier mark
// a card with one shift and one indexed store. Copying, marking and
// minor/major collection algorithms are out of scope; this package
// only fixes the metadata contract those algorithms and the write
// barrier agree on.
//
// Grounded on original_source/src/gc/swiper/mod.rs (Dora's Swiper
// collector geometry) and core/mapping.go's treatment of address
// ranges.
package heap

import (
	"github.com/dora-rt/dorajit/arch"
)

// CardShift determines the size of one card: 1<<CardShift bytes.
// Default 9 → 512-byte cards.
const CardShift = 9

// CardSize is the number of heap bytes one card byte summarises.
const CardSize = 1 << CardShift

// YoungRatio determines young-generation size: heap_size / YoungRatio.
const YoungRatio = 5

// Card values.
const (
	CardClean byte = 0
	CardDirty byte = 1
)

// Geometry is the immutable address layout of one heap reservation:
// [heap | card table | crossing map], laid out contiguously.
type Geometry struct {
	Heap     Region
	Young    Region
	Old      Region
	CardTbl  Region
	Crossing Region

	// CardTableOffset lets the write barrier find the card covering
	// address a without a branch on generation:
	//
	//	store_byte(a>>CardShift + CardTableOffset, CardDirty)
	//
	// Defined as CardTbl.Start - (Heap.Start >> CardShift), so adding
	// it to any shifted heap address lands inside CardTbl.
	CardTableOffset int64

	pageSize int64
}

// pageAlign rounds n up to the next multiple of pageSize.
func pageAlign(n, pageSize int64) int64 {
	return arch.AlignUp(n, pageSize)
}

// Compute derives a Geometry for a requested heap size and base
// address, without reserving any memory — a pure function of its
// inputs, safe to call from multiple goroutines per spec.md §5's
// requirement that card-table address arithmetic be thread-safe.
//
// base is the address the reservation will (or does) start at; for a
// dry-run computation (e.g. to size a reservation request before
// making it) pass 0 — every field remains well-defined relative to
// base. CardTableOffset does depend on base (it is CardTbl.Start minus
// Heap.Start>>CardShift), so a dry-run value differs from the one
// computed for the real reservation address.
func Compute(a arch.Architecture, requestedHeapSize int64, base Address) Geometry {
	if requestedHeapSize <= 0 {
		panic("heap: requested size must be positive")
	}

	pageSize := a.PageSize
	heapSize := pageAlign(requestedHeapSize, pageSize)
	youngSize := pageAlign(heapSize/YoungRatio, pageSize)
	oldSize := heapSize - youngSize
	cardSize := pageAlign(heapSize>>CardShift, pageSize)
	crossingSize := pageAlign(oldSize>>CardShift, pageSize)

	heapStart := base
	heapEnd := heapStart.Add(heapSize)

	cardStart := heapEnd
	cardEnd := cardStart.Add(cardSize)

	crossingStart := cardEnd
	crossingEnd := crossingStart.Add(crossingSize)

	youngStart := heapStart
	youngEnd := youngStart.Add(youngSize)

	oldStart := youngEnd
	oldEnd := heapEnd

	cardTableOffset := cardStart.Sub(Address(0)) - (heapStart.Sub(Address(0)) >> CardShift)

	return Geometry{
		Heap:             Region{Start: heapStart, End: heapEnd},
		Young:            Region{Start: youngStart, End: youngEnd},
		Old:              Region{Start: oldStart, End: oldEnd},
		CardTbl:          Region{Start: cardStart, End: cardEnd},
		Crossing:         Region{Start: crossingStart, End: crossingEnd},
		CardTableOffset:  cardTableOffset,
		pageSize:         pageSize,
	}
}

// TotalReservationSize is the number of contiguous bytes Compute's
// geometry spans: heap + card table + crossing map.
func (g Geometry) TotalReservationSize() int64 {
	return g.Crossing.End.Sub(g.Heap.Start)
}

// CardFor returns the virtual address of the card byte covering a,
// per invariant H-2: (a >> CardShift) + CardTableOffset.
func (g Geometry) CardFor(a Address) Address {
	return Address(int64(a)>>CardShift + g.CardTableOffset)
}
