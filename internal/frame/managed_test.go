// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dora-rt/dorajit/arch"
	"github.com/dora-rt/dorajit/internal/descriptors"
)

func testTables() (*descriptors.Tables, descriptors.TypeId, descriptors.TypeId) {
	t := descriptors.NewTables()
	ref := t.DeclareType(descriptors.TypeDescriptor{Name: "Object", Size: 8, Align: 8, IsReference: true})
	intT := t.DeclareType(descriptors.TypeDescriptor{Name: "Int", Size: 4, Align: 4, IsReference: false})
	return t, ref, intT
}

func TestManagedStackFrameExtension(t *testing.T) {
	tables, ref, intT := testTables()
	f := NewManagedStackFrame(arch.AMD64, tables)

	s1 := f.AddTemp(ref)
	s2 := f.AddTemp(ref)
	s3 := f.AddTemp(intT)

	assert.EqualValues(t, -8, s1.Offset)
	assert.EqualValues(t, -16, s2.Offset)
	assert.EqualValues(t, -20, s3.Offset)
	assert.EqualValues(t, 32, f.Stacksize()) // 20 rounded up to 16-byte alignment

	f.FreeTemp(s2)
	s4 := f.AddTemp(intT)
	assert.EqualValues(t, -12, s4.Offset)
	assert.Equal(t, []FreeSlot{{Start: 12, Size: 4}}, f.free.Slots())

	f.FreeTemp(s1)
	f.FreeTemp(s3)
	f.FreeTemp(s4)
	assert.True(t, f.IsEmpty())
}

func TestManagedStackFrameGCPoint(t *testing.T) {
	tables, ref, intT := testTables()
	f := NewManagedStackFrame(arch.AMD64, tables)

	f.PushScope()
	refSlot := f.AddScopeVar(ref)
	_ = f.AddScopeVar(intT)
	temp := f.AddTemp(ref)

	assert.EqualValues(t, -8, refSlot.Offset)
	gp := f.GCPoint()
	assert.ElementsMatch(t, []Offset{-8, temp.Offset}, gp.Offsets)

	f.FreeTemp(temp)
	gp = f.GCPoint()
	assert.Equal(t, []Offset{-8}, gp.Offsets)

	f.PopScope()
	assert.True(t, f.GCPoint().Empty())
	assert.True(t, f.IsEmpty())
}

func TestManagedStackFramePopScopeOrderIsDeclarationOrder(t *testing.T) {
	tables, _, intT := testTables()
	f := NewManagedStackFrame(arch.AMD64, tables)

	f.PushScope()
	a := f.AddScopeVar(intT)
	b := f.AddScopeVar(intT)
	f.PopScope()

	// a was declared first, so it frees first; b's range is freed
	// second and should merge with a's adjacent range into one slot.
	assert.Equal(t, []FreeSlot{{Start: 0, Size: 8}}, f.free.Slots())
	_ = a
	_ = b
}

func TestManagedStackFrameInitialStacksizeReservesArgArea(t *testing.T) {
	tables, _, intT := testTables()
	f := NewManagedStackFrame(arch.AMD64, tables)
	f.InitialStacksize(16)

	s := f.AddTemp(intT)
	assert.EqualValues(t, -20, s.Offset)
}

func TestManagedStackFramePopEmptyScopePanics(t *testing.T) {
	tables, _, _ := testTables()
	f := NewManagedStackFrame(arch.AMD64, tables)
	assert.Panics(t, func() { f.PopScope() })
}

func TestManagedStackFrameRoundTripAllocSameStart(t *testing.T) {
	tables, ref, _ := testTables()
	f := NewManagedStackFrame(arch.AMD64, tables)

	s := f.AddTemp(ref)
	f.FreeTemp(s)
	s2 := f.AddTemp(ref)

	assert.Equal(t, s.Offset, s2.Offset)
}
