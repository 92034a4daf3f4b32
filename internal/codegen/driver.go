// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package codegen

import (
	"github.com/dora-rt/dorajit/internal/callplan"
	"github.com/dora-rt/dorajit/internal/descriptors"
	"github.com/dora-rt/dorajit/internal/frame"
)

// Emitter is the boundary to the (out-of-scope) instruction selector:
// the second pass drives one of these for every construct it visits.
// A real implementation lowers each call into machine code using the
// offsets and GCPoint it is handed; this package only guarantees it
// is handed the right ones, in the right order.
type Emitter interface {
	EmitPrologue(stacksize int64)
	EmitLoadVar(off frame.Offset, typ descriptors.TypeId)
	EmitLiteral(typ descriptors.TypeId)
	// EmitCall is invoked immediately before the call instruction the
	// code generator emits would execute; gc is the GC point that
	// must be associated with that instruction's address so the
	// collector can find it on a stop.
	EmitCall(site callplan.CallSite, gc frame.GCPoint)
	// EmitTemplate lowers a whole interpolated-string plan at once:
	// buffer construction, every part's toString/append, and the
	// final buffer-to-string conversion, all sharing plan.GCPoint.
	EmitTemplate(plan callplan.TemplatePlan)
	EmitEpilogue()
}

// Generate runs the second pass: it walks body again, using info's
// precomputed offsets and call-site plans verbatim, driving emitter.
// It never touches a frame — all frame bookkeeping happened in
// GenerateInfo.
func Generate(info *Info, body []Stmt, emitter Emitter) {
	emitter.EmitPrologue(info.Stacksize)

	w := &codegenWalker{info: info, emitter: emitter}
	w.walkStmts(body)

	emitter.EmitEpilogue()
}

type codegenWalker struct {
	info    *Info
	emitter Emitter
}

func (w *codegenWalker) walkStmts(stmts []Stmt) {
	for _, s := range stmts {
		w.walkStmt(s)
	}
}

func (w *codegenWalker) walkStmt(s Stmt) {
	switch v := s.(type) {
	case Block:
		w.walkStmts(v.Stmts)
	case ScopeBlock:
		w.walkStmts(v.Body)
	case VarDecl:
		if v.Init != nil {
			w.walkExpr(v.Init)
		}
	case ExprStmt:
		w.walkExpr(v.Expr)
	default:
		panic("codegen: unknown statement kind")
	}
}

func (w *codegenWalker) walkExpr(e Expr) {
	switch v := e.(type) {
	case *Literal:
		w.emitter.EmitLiteral(v.Type)
	case *VarRef:
		w.emitter.EmitLoadVar(w.info.VarOffsets[v.Decl], w.info.VarTypes[v.Decl])
	case *Call:
		w.walkCall(v)
	case *Template:
		w.walkTemplate(v)
	default:
		panic("codegen: unknown expression kind")
	}
}

// walkTemplate replays a lowered interpolated-string expression: each
// part's raw value is walked the same as any other expression (so a
// nested call or var load still reaches the emitter), then the whole
// precomputed plan is handed to the emitter as one unit.
func (w *codegenWalker) walkTemplate(t *Template) {
	for _, part := range t.Parts {
		w.walkExpr(part.Value)
	}

	plan, ok := w.info.Plan.Template(t.Id)
	if !ok {
		panic("codegen: template missing from info pass — driver out of sync")
	}
	w.emitter.EmitTemplate(plan)
}

func (w *codegenWalker) walkCall(call *Call) {
	site, ok := w.info.Plan.CallSite(call.Id)
	if !ok {
		panic("codegen: call site missing from info pass — driver out of sync")
	}

	for _, a := range site.Args {
		if a.Kind == callplan.ArgExpr {
			w.walkExpr(a.Expr.(Expr))
		}
	}

	gc := w.info.GCPoints[call.Id]
	w.emitter.EmitCall(site, gc)
}
