// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

// Package descriptors holds the dense id tables that resolve class,
// function and type references during code generation.
//
// Class, function and type descriptors form a cyclic graph (a class
// references its methods, a method references its parameter and
// return types, a type may reference the class that declares it). The
// compiler resolves these relationships through small integer ids
// rather than graph pointers: every descriptor is appended to an
// ordered table once, at declaration time, and every other component
// stores only the id, looking the descriptor back up through a shared
// *Tables.
package descriptors

import "fmt"

// ClassId identifies a class descriptor in a Tables.
type ClassId int

// FctId identifies a function or method descriptor in a Tables.
type FctId int

// TypeId identifies a type descriptor in a Tables.
type TypeId int

// TypeDescriptor is the type of one stack slot or field: its size and
// alignment in bytes, and whether the collector must trace it.
type TypeDescriptor struct {
	Name        string
	Size        int64
	Align       int64
	IsReference bool
}

// NilType is the type of the literal `nil`: pointer-width size and
// alignment, and reference-typed so it occupies a GC point like any
// other pointer slot.
func NilType(ptrWidth int64) TypeDescriptor {
	return TypeDescriptor{Name: "nil", Size: ptrWidth, Align: ptrWidth, IsReference: true}
}

// ClassDescriptor is a minimal class record: just enough identity and
// method membership to drive call-site planning. Field layout and
// inheritance are the type checker's concern and live outside this
// spec's scope.
type ClassDescriptor struct {
	Id      ClassId
	Name    string
	Type    TypeId
	Methods []FctId
}

// FctDescriptor is a minimal function/method record.
type FctDescriptor struct {
	Id         FctId
	Name       string
	Params     []TypeId
	ReturnType TypeId
	IsMethod   bool
	Owner      ClassId // valid iff IsMethod
}

// Tables is the dense, append-only store of all three descriptor
// kinds declared for one compilation session. It is built once by the
// (out-of-scope) prelude/registration step and is read-only from the
// compiler's perspective thereafter.
type Tables struct {
	types   []TypeDescriptor
	classes []ClassDescriptor
	fcts    []FctDescriptor
}

// NewTables returns an empty descriptor store.
func NewTables() *Tables {
	return &Tables{}
}

// DeclareType appends a new type descriptor and returns its id.
func (t *Tables) DeclareType(d TypeDescriptor) TypeId {
	id := TypeId(len(t.types))
	t.types = append(t.types, d)
	return id
}

// DeclareClass appends a new class descriptor and returns its id.
func (t *Tables) DeclareClass(name string, typ TypeId) ClassId {
	id := ClassId(len(t.classes))
	t.classes = append(t.classes, ClassDescriptor{Id: id, Name: name, Type: typ})
	return id
}

// DeclareFct appends a new function descriptor and returns its id.
func (t *Tables) DeclareFct(name string, params []TypeId, ret TypeId) FctId {
	id := FctId(len(t.fcts))
	t.fcts = append(t.fcts, FctDescriptor{Id: id, Name: name, Params: params, ReturnType: ret})
	return id
}

// DeclareMethod appends a new method descriptor owned by cls and
// records it on the owning class.
func (t *Tables) DeclareMethod(cls ClassId, name string, params []TypeId, ret TypeId) FctId {
	id := FctId(len(t.fcts))
	t.fcts = append(t.fcts, FctDescriptor{
		Id: id, Name: name, Params: params, ReturnType: ret,
		IsMethod: true, Owner: cls,
	})
	t.classes[cls].Methods = append(t.classes[cls].Methods, id)
	return id
}

// Type resolves a TypeId to its descriptor. Panics on an id outside
// the declared range: an out-of-range id is a compiler bug, not a
// runtime condition.
func (t *Tables) Type(id TypeId) TypeDescriptor {
	if int(id) < 0 || int(id) >= len(t.types) {
		panic(fmt.Sprintf("descriptors: type id %d out of range [0,%d)", id, len(t.types)))
	}
	return t.types[id]
}

// Class resolves a ClassId to its descriptor.
func (t *Tables) Class(id ClassId) ClassDescriptor {
	if int(id) < 0 || int(id) >= len(t.classes) {
		panic(fmt.Sprintf("descriptors: class id %d out of range [0,%d)", id, len(t.classes)))
	}
	return t.classes[id]
}

// Fct resolves a FctId to its descriptor.
func (t *Tables) Fct(id FctId) FctDescriptor {
	if int(id) < 0 || int(id) >= len(t.fcts) {
		panic(fmt.Sprintf("descriptors: fct id %d out of range [0,%d)", id, len(t.fcts)))
	}
	return t.fcts[id]
}
