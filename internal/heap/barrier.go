// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package heap

// MarkCard performs the write-barrier's card-marking step: a single
// shift and one indexed store, no branch on generation. The emitted
// machine code performs the same arithmetic inline; this function is
// what that emitted sequence implements, and what tests exercise
// without a code generator.
//
// Safe to call without synchronisation from multiple mutators: the
// store is an idempotent byte write, and the address arithmetic reads
// only immutable geometry (spec.md §5).
func (g Geometry) MarkCard(mem []byte, addr Address) {
	cardAddr := g.CardFor(addr)
	// mem backs [Heap.Start, Crossing.End) contiguously, so the byte
	// index of any address in that span is its offset from Heap.Start.
	mem[cardAddr.Sub(g.Heap.Start)] = CardDirty
}

// CardIsDirty reports whether the card covering addr is marked dirty
// in mem, for tests and the collector's scan (which filters old→young
// pointers itself; the card table just says "some store happened
// here").
func (g Geometry) CardIsDirty(mem []byte, addr Address) bool {
	cardAddr := g.CardFor(addr)
	return mem[cardAddr.Sub(g.Heap.Start)] != CardClean
}
