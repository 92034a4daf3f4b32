// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package frame

// Offset is a byte offset from the frame base. Local storage grows
// downward, so live offsets are negative: an offset of -k denotes the
// byte at frame-base - k.
type Offset int32

// GCPoint is an unordered snapshot of the frame offsets holding live
// references at one instruction. It is produced on demand; each
// snapshot owns a freshly built Offsets slice, so later frame mutation
// does not change it and it may be kept (the info pass stores one per
// call site).
type GCPoint struct {
	Offsets []Offset
}

// Empty reports whether the snapshot holds no reference offsets.
func (g GCPoint) Empty() bool {
	return len(g.Offsets) == 0
}

// Has reports whether off is present in the snapshot.
func (g GCPoint) Has(off Offset) bool {
	for _, o := range g.Offsets {
		if o == off {
			return true
		}
	}
	return false
}

func gcPointFromSet(set map[Offset]struct{}) GCPoint {
	offsets := make([]Offset, 0, len(set))
	for off := range set {
		offsets = append(offsets, off)
	}
	return GCPoint{Offsets: offsets}
}
