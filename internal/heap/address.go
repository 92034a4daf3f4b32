// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package heap

import "fmt"

// Address is a virtual address in the heap's reserved region.
// Grounded on core.Address (core/mapping.go) and Dora's gc::Address,
// trimmed to the arithmetic the heap geometry and write barrier need.
type Address uintptr

// Add returns a + n.
func (a Address) Add(n int64) Address {
	return Address(int64(a) + n)
}

// Sub returns a - b as a byte count.
func (a Address) Sub(b Address) int64 {
	return int64(a) - int64(b)
}

// String renders the address in hex, matching core.Mapping's style
// of printing addresses for diagnostics.
func (a Address) String() string {
	return fmt.Sprintf("0x%x", uintptr(a))
}

// Region is an immutable [Start, End) virtual address range.
type Region struct {
	Start Address
	End   Address
}

// Contains reports whether a lies in [r.Start, r.End).
func (r Region) Contains(a Address) bool {
	return r.Start <= a && a < r.End
}

// Size returns the byte length of the region.
func (r Region) Size() int64 {
	return r.End.Sub(r.Start)
}
