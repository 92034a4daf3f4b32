// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package codegen

import (
	"github.com/dora-rt/dorajit/arch"
	"github.com/dora-rt/dorajit/internal/callplan"
	"github.com/dora-rt/dorajit/internal/descriptors"
	"github.com/dora-rt/dorajit/internal/frame"
)

// Info is the first pass's output: every variable's assigned offset,
// every call site's plan, and the GC point captured at each call —
// everything the second pass needs, so it never touches a frame
// itself.
type Info struct {
	Stacksize  int64
	VarOffsets map[DeclId]frame.Offset
	VarTypes   map[DeclId]descriptors.TypeId
	Plan       *callplan.Plan
	GCPoints   map[callplan.NodeId]frame.GCPoint
}

type infoGen struct {
	frame      *frame.ManagedStackFrame
	plan       *callplan.Plan
	gcPoints   map[callplan.NodeId]frame.GCPoint
	varOffsets map[DeclId]frame.Offset
	varTypes   map[DeclId]descriptors.TypeId
}

// GenerateInfo runs the first pass over body: it opens/closes scopes,
// assigns every declared variable's offset, and records a CallSite
// (with GC point) for every call expression.
//
// initialStacksize reserves the argument-passing area before any
// local allocation, per the Scoped Frame's initial_stacksize; pass 0
// to skip it.
func GenerateInfo(a arch.Architecture, tables *descriptors.Tables, initialStacksize int64, body []Stmt) *Info {
	g := &infoGen{
		frame:      frame.NewManagedStackFrame(a, tables),
		plan:       callplan.NewPlan(),
		gcPoints:   make(map[callplan.NodeId]frame.GCPoint),
		varOffsets: make(map[DeclId]frame.Offset),
		varTypes:   make(map[DeclId]descriptors.TypeId),
	}
	if initialStacksize > 0 {
		g.frame.InitialStacksize(initialStacksize)
	}

	g.frame.PushScope()
	g.walkStmts(body)
	g.frame.PopScope()

	if !g.frame.IsEmpty() {
		panic("codegen: unbalanced scopes after info pass")
	}

	return &Info{
		Stacksize:  g.frame.Stacksize(),
		VarOffsets: g.varOffsets,
		VarTypes:   g.varTypes,
		Plan:       g.plan,
		GCPoints:   g.gcPoints,
	}
}

func (g *infoGen) walkStmts(stmts []Stmt) {
	for _, s := range stmts {
		g.walkStmt(s)
	}
}

func (g *infoGen) walkStmt(s Stmt) {
	switch v := s.(type) {
	case Block:
		g.walkStmts(v.Stmts)
	case ScopeBlock:
		g.frame.PushScope()
		g.walkStmts(v.Body)
		g.frame.PopScope()
	case VarDecl:
		if v.Init != nil {
			g.walkExpr(v.Init)
		}
		slot := g.frame.AddScopeVar(v.Type)
		g.varOffsets[v.Id] = slot.Offset
		g.varTypes[v.Id] = v.Type
	case ExprStmt:
		g.walkExpr(v.Expr)
	default:
		panic("codegen: unknown statement kind")
	}
}

// walkExpr visits an expression for its side effects (nested calls
// must still be planned) without itself needing a result location —
// the call site or variable declaration that consumes the result is
// responsible for choosing where that result lives.
func (g *infoGen) walkExpr(e Expr) {
	switch v := e.(type) {
	case *Call:
		g.walkCall(v)
	case *Template:
		g.walkTemplate(v)
	case *VarRef, *Literal:
		// no frame action: reading a var or a literal needs no
		// allocation of its own.
	default:
		panic("codegen: unknown expression kind")
	}
}

// walkTemplate lowers a string interpolation expression into a
// TemplatePlan: it reserves one stack slot for the buffer and one
// reused across every part, plans the buffer-construction, per-part
// toString/append and final buffer-to-string calls, and snapshots a
// single GC point covering the whole sequence (buffer and part stay
// live throughout, so liveness does not change call to call).
func (g *infoGen) walkTemplate(t *Template) {
	bufSlot := g.frame.AddTemp(t.BufferType)
	partSlot := g.frame.AddTemp(t.PartType)

	bufferNew := callplan.CallSite{
		Callee:     t.BufferNewFct,
		Args:       []callplan.Arg{{Kind: callplan.ArgSelfieNew, Type: t.BufferType}},
		ReturnType: t.BufferType,
	}

	parts := make([]callplan.TemplatePartPlan, 0, len(t.Parts))
	for _, part := range t.Parts {
		g.walkExpr(part.Value)

		var toString *callplan.CallSite
		if part.ToString != nil {
			site := callplan.CallSite{
				Callee:     *part.ToString,
				Args:       []callplan.Arg{{Kind: callplan.ArgSelfie, Type: part.Type, StackOffset: partSlot.Offset}},
				ReturnType: t.PartType,
			}
			toString = &site
		}

		parts = append(parts, callplan.TemplatePartPlan{
			ObjectOffset: partSlot.Offset,
			ToString:     toString,
			Append: callplan.CallSite{
				Callee: t.AppendFct,
				Args: []callplan.Arg{
					{Kind: callplan.ArgSelfie, Type: t.BufferType, StackOffset: bufSlot.Offset},
					{Kind: callplan.ArgStack, Type: t.PartType, StackOffset: partSlot.Offset},
				},
				ReturnType: t.BufferType,
			},
		})
	}

	gc := g.frame.GCPoint()

	bufferToString := callplan.CallSite{
		Callee:     t.BufferToStringFct,
		Args:       []callplan.Arg{{Kind: callplan.ArgSelfie, Type: t.BufferType, StackOffset: bufSlot.Offset}},
		ReturnType: t.ReturnType,
	}

	g.plan.RecordTemplate(t.Id, callplan.TemplatePlan{
		StringBufferOffset: bufSlot.Offset,
		StringPartOffset:   partSlot.Offset,
		BufferNew:          bufferNew,
		Parts:              parts,
		BufferToString:     bufferToString,
		GCPoint:            gc,
	})

	g.frame.FreeTemp(partSlot)
	g.frame.FreeTemp(bufSlot)
}

func (g *infoGen) walkCall(call *Call) {
	n := len(call.Args)
	spill := make([]bool, n)
	laterHasCall := false
	for i := n - 1; i >= 0; i-- {
		spill[i] = laterHasCall
		if containsCall(call.Args[i]) {
			laterHasCall = true
		}
	}

	var spillSlots []frame.ManagedSlot
	args := make([]callplan.Arg, 0, n+1)

	if call.Receiver != nil {
		args = append(args, g.planReceiver(call))
	}

	for i, e := range call.Args {
		typ := g.exprType(e)

		switch e.(type) {
		case *Call, *Template:
			g.walkExpr(e)
		}

		switch {
		case isVarRef(e):
			// A var read is already a stable frame slot: it survives
			// any later call in this argument list untouched, so it
			// never needs spilling to a fresh temp.
			vr := e.(*VarRef)
			args = append(args, callplan.Arg{Kind: callplan.ArgStack, Type: typ, StackOffset: g.varOffsets[vr.Decl]})
		case spill[i]:
			slot := g.frame.AddTemp(typ)
			spillSlots = append(spillSlots, slot)
			args = append(args, callplan.Arg{Kind: callplan.ArgStack, Type: typ, StackOffset: slot.Offset})
		default:
			args = append(args, callplan.Arg{Kind: callplan.ArgExpr, Type: typ, Expr: e})
		}
	}

	site := callplan.CallSite{
		Callee:        call.Callee,
		ClassTypeArgs: call.ClassTypeArgs,
		FctTypeArgs:   call.FctTypeArgs,
		Args:          args,
		IsSuperCall:   call.SuperCall,
		ReturnType:    call.ReturnType,
	}
	g.plan.Record(call.Id, site)
	g.gcPoints[call.Id] = g.frame.GCPoint()

	for _, s := range spillSlots {
		g.frame.FreeTemp(s)
	}
}

func (g *infoGen) planReceiver(call *Call) callplan.Arg {
	if call.ReceiverIsNew {
		return callplan.Arg{Kind: callplan.ArgSelfieNew, Type: call.ReceiverType}
	}
	g.walkExpr(call.Receiver)
	if vr, ok := call.Receiver.(*VarRef); ok {
		return callplan.Arg{Kind: callplan.ArgSelfie, Type: call.ReceiverType, StackOffset: g.varOffsets[vr.Decl]}
	}
	return callplan.Arg{Kind: callplan.ArgSelfie, Type: call.ReceiverType}
}

func (g *infoGen) exprType(e Expr) descriptors.TypeId {
	switch v := e.(type) {
	case *Literal:
		return v.Type
	case *VarRef:
		return g.varTypes[v.Decl]
	case *Call:
		return v.ReturnType
	case *Template:
		return v.ReturnType
	}
	panic("codegen: unknown expression kind")
}

func isVarRef(e Expr) bool {
	_, ok := e.(*VarRef)
	return ok
}

// containsCall reports whether e itself makes a runtime call, so an
// earlier sibling argument evaluated ahead of it must be spilled. A
// Template always does (buffer construction, appends, toString), so
// it counts the same as a Call.
func containsCall(e Expr) bool {
	switch e.(type) {
	case *Call, *Template:
		return true
	default:
		return false
	}
}
