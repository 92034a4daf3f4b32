// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package frame

import (
	"fmt"

	"github.com/dora-rt/dorajit/arch"
	"github.com/dora-rt/dorajit/internal/descriptors"
)

// ManagedVar is an opaque, monotonically increasing identifier for a
// slot issued by a ManagedStackFrame. It uniquely maps to one
// (TypeId, Offset) pair while live.
type ManagedVar int

// ManagedSlot is the handle returned by every ManagedStackFrame
// allocation: the var identity plus the offset assigned to it.
type ManagedSlot struct {
	Var    ManagedVar
	Offset Offset
}

type managedVarInfo struct {
	typ descriptors.TypeId
	off Offset
}

type managedScope struct {
	vars []ManagedVar
}

// ManagedStackFrame is the richer of the two frame variants: it
// tracks slot identity (ManagedVar), so a caller can free a specific
// temp without knowing its offset, and it delegates range bookkeeping
// to a FreeSlots best-fit arena so holes left by dead temporaries are
// reused.
//
// Grounded on ManagedStackFrame / ManagedStackSlot in
// original_source/dora/src/baseline/ast.rs.
type ManagedStackFrame struct {
	arch    arch.Architecture
	tables  *descriptors.Tables
	vars    map[ManagedVar]managedVarInfo
	scopes  []managedScope
	nextVar ManagedVar

	free      *FreeSlots
	stacksize int64

	refs map[Offset]struct{}
}

// NewManagedStackFrame returns an empty frame for the given
// architecture, resolving slot types through tables.
func NewManagedStackFrame(a arch.Architecture, tables *descriptors.Tables) *ManagedStackFrame {
	return &ManagedStackFrame{
		arch:   a,
		tables: tables,
		vars:   make(map[ManagedVar]managedVarInfo),
		free:   NewFreeSlots(),
		refs:   make(map[Offset]struct{}),
	}
}

// IsEmpty reports whether no scope is open and no temp is
// outstanding. Callers are expected to assert this at function exit.
func (f *ManagedStackFrame) IsEmpty() bool {
	return len(f.scopes) == 0 && len(f.vars) == 0
}

// PushScope opens a new lexical scope.
func (f *ManagedStackFrame) PushScope() {
	f.scopes = append(f.scopes, managedScope{})
}

// PopScope closes the innermost scope, freeing every variable it
// declared in declaration order (deterministic for testing).
func (f *ManagedStackFrame) PopScope() {
	n := len(f.scopes)
	if n == 0 {
		panic("frame: pop_scope with no active scope")
	}
	scope := f.scopes[n-1]
	f.scopes = f.scopes[:n-1]

	for _, v := range scope.vars {
		f.free_(v)
	}
}

// AddScopeVar allocates a slot of type typ owned by the innermost
// scope.
func (f *ManagedStackFrame) AddScopeVar(typ descriptors.TypeId) ManagedSlot {
	if len(f.scopes) == 0 {
		panic("frame: add_scope_var with no active scope")
	}
	slot := f.alloc(typ)
	scope := &f.scopes[len(f.scopes)-1]
	scope.vars = append(scope.vars, slot.Var)
	return slot
}

// AddTemp allocates an unscoped slot; the caller must call FreeTemp
// to release it.
func (f *ManagedStackFrame) AddTemp(typ descriptors.TypeId) ManagedSlot {
	return f.alloc(typ)
}

// FreeTemp releases a slot previously returned by AddTemp.
func (f *ManagedStackFrame) FreeTemp(slot ManagedSlot) {
	f.free_(slot.Var)
}

// InitialStacksize sets the starting high-water mark once, before any
// allocation — used to reserve the argument-passing area.
func (f *ManagedStackFrame) InitialStacksize(n int64) {
	if f.stacksize != 0 {
		panic("frame: initial_stacksize called after allocation began")
	}
	f.stacksize = n
}

// Stacksize returns the current high-water mark, rounded up to the
// platform's frame alignment.
func (f *ManagedStackFrame) Stacksize() int64 {
	return arch.AlignUp(f.stacksize, f.arch.StackFrameAlignment)
}

// GCPoint returns a snapshot of the frame offsets currently holding
// live references.
func (f *ManagedStackFrame) GCPoint() GCPoint {
	return gcPointFromSet(f.refs)
}

func (f *ManagedStackFrame) sizeAlign(typ descriptors.TypeId) (int64, int64, bool) {
	d := f.tables.Type(typ)
	return d.Size, d.Align, d.IsReference
}

func (f *ManagedStackFrame) alloc(typ descriptors.TypeId) ManagedSlot {
	size, align, isRef := f.sizeAlign(typ)
	if size <= 0 || size > int64(^uint32(0)) {
		panic(fmt.Sprintf("frame: invalid slot size %d", size))
	}
	if align <= 0 || align > int64(^uint32(0)) {
		panic(fmt.Sprintf("frame: invalid slot alignment %d", align))
	}

	var off Offset
	if start, ok := f.free.Alloc(uint32(size), uint32(align)); ok {
		off = Offset(-(int64(start) + size))
	} else {
		f.stacksize = arch.AlignUp(f.stacksize, align) + size
		off = Offset(-f.stacksize)
	}

	v := f.nextVar
	f.nextVar++
	f.vars[v] = managedVarInfo{typ: typ, off: off}
	if isRef {
		f.refs[off] = struct{}{}
	}

	return ManagedSlot{Var: v, Offset: off}
}

func (f *ManagedStackFrame) free_(v ManagedVar) {
	info, ok := f.vars[v]
	if !ok {
		panic(fmt.Sprintf("frame: free of unknown var %d", v))
	}
	delete(f.vars, v)

	size, _, isRef := f.sizeAlign(info.typ)
	if isRef {
		delete(f.refs, info.off)
	}

	start := uint32(-int64(info.off) - size)
	f.free.Free(FreeSlot{Start: start, Size: uint32(size)})
}
