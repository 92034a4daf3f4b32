// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

// Package codegen implements the two-pass driver that ties the
// scoped frame (package frame), the call-site planner (package
// callplan) and the GC-point emitter together: pass one walks a
// function body deciding every variable's offset and every call's
// argument strategy; pass two walks the same body again, consuming
// pass one's output verbatim.
//
// The AST below is a deliberately small stand-in for the real typed
// AST (explicitly out of scope, per spec.md §1) — just enough surface
// to exercise the frame manager and call planner over scopes, local
// variables and nested calls.
package codegen

import (
	"github.com/dora-rt/dorajit/internal/callplan"
	"github.com/dora-rt/dorajit/internal/descriptors"
)

// DeclId identifies one variable declaration in a function body, the
// same way callplan.NodeId identifies one call expression.
type DeclId int

// Stmt is a statement node.
type Stmt interface{ isStmt() }

// Block is a sequence of statements sharing the enclosing scope (no
// new scope of its own — used for the function body's top level).
type Block struct {
	Stmts []Stmt
}

func (Block) isStmt() {}

// ScopeBlock opens a new lexical scope, executes Body, then closes
// it — every VarDecl directly inside Body is released when the
// ScopeBlock's walk completes.
type ScopeBlock struct {
	Body []Stmt
}

func (ScopeBlock) isStmt() {}

// VarDecl declares a new scope-owned variable, initialised by Init
// (if non-nil).
type VarDecl struct {
	Id   DeclId
	Name string
	Type descriptors.TypeId
	Init Expr
}

func (VarDecl) isStmt() {}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	Expr Expr
}

func (ExprStmt) isStmt() {}

// Expr is an expression node.
type Expr interface{ isExpr() }

// Literal is a constant value of the given type; it requires no
// frame storage of its own.
type Literal struct {
	Type descriptors.TypeId
}

func (Literal) isExpr() {}

// VarRef reads a previously declared variable.
type VarRef struct {
	Decl DeclId
}

func (VarRef) isExpr() {}

// Call is a function, method or constructor call.
type Call struct {
	Id            callplan.NodeId
	Callee        descriptors.FctId
	ClassTypeArgs []descriptors.ClassId
	FctTypeArgs   []descriptors.TypeId
	Args          []Expr
	ReturnType    descriptors.TypeId
	SuperCall     bool

	// Receiver is non-nil for a method call (Selfie) or constructor
	// call (SelfieNew). ReceiverIsNew distinguishes the two: a
	// constructor's receiver does not exist yet, so the emitter must
	// allocate it as part of materialising this call.
	Receiver      Expr
	ReceiverIsNew bool
	ReceiverType  descriptors.TypeId
}

func (Call) isExpr() {}

// TemplatePart is one interpolated value inside a Template: a
// pre-toString value plus, if its own type is not already a string,
// the FctId of the toString method that converts it before appending.
type TemplatePart struct {
	Value    Expr
	Type     descriptors.TypeId
	ToString *descriptors.FctId // nil if Value's type is already the string type
}

// Template is a string interpolation expression: a sequence of parts
// appended into a buffer, then converted to a string. Lowered by the
// info pass into a callplan.TemplatePlan rather than walked directly
// by the emitter, so the buffer and per-part stack slots are visible
// to the frame manager across the whole sequence.
type Template struct {
	Id                callplan.NodeId
	BufferType        descriptors.TypeId
	PartType          descriptors.TypeId // type of a part after toString, before appending
	ReturnType        descriptors.TypeId // type of the buffer's toString() result
	BufferNewFct      descriptors.FctId
	AppendFct         descriptors.FctId
	BufferToStringFct descriptors.FctId
	Parts             []TemplatePart
}

func (Template) isExpr() {}
