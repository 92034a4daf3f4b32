// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

// Package arch contains the architecture-specific constants the frame
// manager and heap geometry round against: pointer width, the ABI's
// required stack alignment, and the assumed OS page size.
package arch

// Architecture describes the address-width and alignment facts the
// frame manager (package frame) and heap geometry (package heap) need
// from the target machine. Instruction encoding and register
// allocation are the instruction selector's concern and live outside
// this package.
type Architecture struct {
	// PointerWidth is the size of a pointer (and of the nil type), in
	// bytes.
	PointerWidth int64
	// StackFrameAlignment is the alignment every frame's final
	// stacksize is rounded up to.
	StackFrameAlignment int64
	// PageSize is the OS page size heap geometry rounds against.
	PageSize int64
}

// AMD64 is the System V AMD64 ABI: 8-byte pointers, 16-byte stack
// alignment at a call, 4 KiB pages.
var AMD64 = Architecture{
	PointerWidth:        8,
	StackFrameAlignment: 16,
	PageSize:            4096,
}

// X86 is the 32-bit x86 ABI: 4-byte pointers, 4-byte stack alignment,
// 4 KiB pages.
var X86 = Architecture{
	PointerWidth:        4,
	StackFrameAlignment: 4,
	PageSize:            4096,
}

// ARM64 is AArch64: 8-byte pointers, 16-byte stack alignment, 4 KiB
// pages.
var ARM64 = Architecture{
	PointerWidth:        8,
	StackFrameAlignment: 16,
	PageSize:            4096,
}

// AlignUp rounds v up to the next multiple of a, a power of two.
func AlignUp(v, a int64) int64 {
	return (v + a - 1) &^ (a - 1)
}
