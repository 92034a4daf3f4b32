// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package heap

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/dora-rt/dorajit/arch"
)

// Reservation is a live virtual-memory reservation backing a
// Geometry: the heap region readable/writable, the card table and
// crossing map readable/writable, the whole span reserved up front so
// the geometry's relative offsets never need to change.
type Reservation struct {
	Geometry
	mem []byte // mmap'd backing, length == TotalReservationSize()
}

// Reserve reserves a contiguous virtual memory region sized per
// Compute(a, requestedHeapSize, 0) and returns the Geometry rebased
// onto the address actually obtained from the OS.
//
// A reservation failure (spec.md §7: "Virtual-memory reservation
// failure") is returned as an error; the driver/runtime startup path
// treats it as fatal.
func Reserve(a arch.Architecture, requestedHeapSize int64) (*Reservation, error) {
	dry := Compute(a, requestedHeapSize, 0)
	size := dry.TotalReservationSize()

	mem, err := unix.Mmap(-1, 0, int(size), unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, errors.Wrapf(err, "heap: reserve %d bytes", size)
	}

	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		_ = unix.Munmap(mem)
		return nil, errors.Wrap(err, "heap: mprotect reservation read-write")
	}

	base := Address(uintptr(unsafe.Pointer(&mem[0])))
	geo := Compute(a, requestedHeapSize, base)

	return &Reservation{Geometry: geo, mem: mem}, nil
}

// Release unmaps the reservation. The JIT process does this at most
// once, at shutdown.
func (r *Reservation) Release() error {
	return unix.Munmap(r.mem)
}

// Bytes exposes the raw backing store for test and diagnostic use —
// real card/crossing-map reads and writes go through CardFor and the
// write barrier, not this slice, in the code generator's emitted
// machine code.
func (r *Reservation) Bytes() []byte {
	return r.mem
}
