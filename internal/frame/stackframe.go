// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package frame

import "fmt"

// StackFrame is the simpler, set-based frame variant: it records
// offsets directly rather than issuing ManagedVar identities, for use
// where slot identity is unnecessary because the emitter already has
// the offset in hand (e.g. an offset computed and spilled earlier in
// the same pass). It is kept only as a compatibility shim over
// ManagedStackFrame — new code should prefer ManagedStackFrame, which
// also does the allocation bookkeeping this type leaves to the
// caller.
//
// Grounded on StackFrame / StackScope in
// original_source/dora/src/baseline/ast.rs.
type StackFrame struct {
	all    map[Offset]struct{}
	refs   map[Offset]struct{}
	scopes []stackScope
}

type stackScope struct {
	vars map[Offset]bool // offset -> isReference
}

// NewStackFrame returns an empty set-based frame.
func NewStackFrame() *StackFrame {
	return &StackFrame{
		all:  make(map[Offset]struct{}),
		refs: make(map[Offset]struct{}),
	}
}

// IsEmpty reports whether no scope is open and no offset is tracked.
func (f *StackFrame) IsEmpty() bool {
	return len(f.scopes) == 0 && len(f.all) == 0
}

// PushScope opens a new lexical scope.
func (f *StackFrame) PushScope() {
	f.scopes = append(f.scopes, stackScope{vars: make(map[Offset]bool)})
}

// PopScope closes the innermost scope, removing every offset it
// declared.
func (f *StackFrame) PopScope() {
	n := len(f.scopes)
	if n == 0 {
		panic("frame: pop_scope with no active scope")
	}
	scope := f.scopes[n-1]
	f.scopes = f.scopes[:n-1]

	for off, isRef := range scope.vars {
		f.removeOffset(off, isRef)
	}
}

// AddVar records a pre-computed offset as owned by the innermost
// scope. Panics if off is already tracked — every insertion asserts
// uniqueness.
func (f *StackFrame) AddVar(off Offset, isReference bool) {
	if len(f.scopes) == 0 {
		panic("frame: add_var with no active scope")
	}
	f.insertOffset(off, isReference)
	scope := &f.scopes[len(f.scopes)-1]
	if _, dup := scope.vars[off]; dup {
		panic(fmt.Sprintf("frame: offset %d already declared in this scope", off))
	}
	scope.vars[off] = isReference
}

// AddTemp records a pre-computed, unscoped offset; the caller must
// call FreeTemp to release it.
func (f *StackFrame) AddTemp(off Offset, isReference bool) {
	f.insertOffset(off, isReference)
}

// FreeTemp releases an offset previously added with AddTemp.
func (f *StackFrame) FreeTemp(off Offset, isReference bool) {
	f.removeOffset(off, isReference)
}

// GCPoint returns a snapshot of the frame offsets currently holding
// live references.
func (f *StackFrame) GCPoint() GCPoint {
	return gcPointFromSet(f.refs)
}

func (f *StackFrame) insertOffset(off Offset, isReference bool) {
	if _, dup := f.all[off]; dup {
		panic(fmt.Sprintf("frame: offset %d already live", off))
	}
	f.all[off] = struct{}{}
	if isReference {
		if _, dup := f.refs[off]; dup {
			panic(fmt.Sprintf("frame: offset %d already a live reference", off))
		}
		f.refs[off] = struct{}{}
	}
}

func (f *StackFrame) removeOffset(off Offset, isReference bool) {
	if _, ok := f.all[off]; !ok {
		panic(fmt.Sprintf("frame: offset %d not live", off))
	}
	delete(f.all, off)
	if isReference {
		delete(f.refs, off)
	}
}
