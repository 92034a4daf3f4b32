// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)

package heap

import (
	"unsafe"

	"github.com/dora-rt/dorajit/arch"
)

// Reservation is a live memory reservation backing a Geometry. On
// platforms without mmap this falls back to a Go-allocated backing
// array; the geometry math is identical either way, only the source
// of the backing bytes differs.
type Reservation struct {
	Geometry
	mem []byte
}

// Reserve allocates a Go-backed array sized per the geometry and
// rebases the Geometry onto its address. No real virtual memory is
// reserved, so this path cannot exhibit reservation failure the way
// the unix mmap path can — it panics on allocation failure like any
// other Go allocation, which is consistent with spec.md §7 treating
// that failure as a process abort.
func Reserve(a arch.Architecture, requestedHeapSize int64) (*Reservation, error) {
	dry := Compute(a, requestedHeapSize, 0)
	size := dry.TotalReservationSize()

	mem := make([]byte, size)
	base := Address(uintptr(unsafe.Pointer(&mem[0])))
	geo := Compute(a, requestedHeapSize, base)

	return &Reservation{Geometry: geo, mem: mem}, nil
}

// Release is a no-op on this path; the backing array is reclaimed by
// the garbage collector once unreferenced.
func (r *Reservation) Release() error {
	return nil
}

// Bytes exposes the raw backing store for test and diagnostic use.
func (r *Reservation) Bytes() []byte {
	return r.mem
}
