// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

// Package callplan records, per call expression in the AST, how each
// argument will be materialised at code-gen time: evaluated inline,
// loaded from an already-computed stack slot, or supplied implicitly
// as a method/constructor receiver.
//
// Grounded on the Arg/CallSite types in
// original_source/dora/src/baseline/ast.rs.
package callplan

import (
	"github.com/dora-rt/dorajit/internal/descriptors"
	"github.com/dora-rt/dorajit/internal/frame"
)

// NodeId identifies a call expression in the (out-of-scope) AST. The
// planner keys its map by this id; the AST's own node-numbering
// scheme is the parser's concern.
type NodeId int

// ArgKind distinguishes the four ways an argument may be supplied to
// a call.
type ArgKind int

const (
	// ArgExpr: evaluate this sub-expression inline; the emitter walks
	// the sub-AST when it reaches this argument.
	ArgExpr ArgKind = iota
	// ArgStack: already stored in the frame at a known offset —
	// typically used when a later argument's evaluation calls into
	// the runtime and would clobber volatile state, so the earlier
	// argument was spilled to a temp first. A variable read is also
	// passed this way, straight from the variable's own slot.
	ArgStack
	// ArgSelfie: the implicit receiver of a method call, already
	// computed.
	ArgSelfie
	// ArgSelfieNew: the not-yet-existing receiver of a constructor
	// call; allocation happens as part of materialising this call.
	ArgSelfieNew
)

// Arg is one argument descriptor in a CallSite's argument list.
type Arg struct {
	Kind ArgKind
	Type descriptors.TypeId

	// Expr is opaque to this package: the AST node to walk, valid iff
	// Kind == ArgExpr. The concrete AST type lives with the (external)
	// parser/typechecker; callplan only threads it through.
	Expr any

	// StackOffset is valid when Kind == ArgStack, and for an ArgSelfie
	// receiver that already lives in a frame slot (a variable, or a
	// template's buffer or part slot).
	StackOffset frame.Offset
}

// IsSelfieNew reports whether this argument is a constructor's
// not-yet-existing receiver, which the emitter must allocate before
// making the call.
func (a Arg) IsSelfieNew() bool {
	return a.Kind == ArgSelfieNew
}

// CallSite is the per-call-expression plan produced by the first
// (info) pass and consumed verbatim by the second (codegen) pass.
type CallSite struct {
	Callee          descriptors.FctId
	ClassTypeArgs   []descriptors.ClassId
	FctTypeArgs     []descriptors.TypeId
	Args            []Arg
	IsSuperCall     bool
	ReturnType      descriptors.TypeId
}

// TemplatePartPlan is one interpolated part of a template/string
// interpolation expression: an optional toString call (skipped for
// parts that are already strings) followed by the append call that
// writes the part into the buffer.
type TemplatePartPlan struct {
	// ObjectOffset is the stack offset holding the part's pre-evaluated
	// value, reserved so the buffer and the current part both have
	// stable GC-visible locations across the sequence of appends.
	ObjectOffset frame.Offset
	ToString     *CallSite // nil if the part is already a string
	Append       CallSite
}

// TemplatePlan is the specialised plan variant for interpolated
// strings: buffer construction, one TemplatePartPlan per embedded
// part, and the final buffer-to-string conversion.
type TemplatePlan struct {
	StringBufferOffset frame.Offset
	StringPartOffset   frame.Offset
	BufferNew          CallSite
	Parts              []TemplatePartPlan
	BufferToString     CallSite

	// GCPoint is the live-reference snapshot across the whole append
	// sequence: the buffer and part offsets (and any other live scope
	// vars) stay live for the entire sequence, so one snapshot taken
	// after the last part is planned covers every call embedded above.
	GCPoint frame.GCPoint
}

// Plan is the map of every CallSite/TemplatePlan produced by the
// first pass over one function body, keyed by AST call-expression id.
type Plan struct {
	sites     map[NodeId]CallSite
	templates map[NodeId]TemplatePlan
}

// NewPlan returns an empty plan.
func NewPlan() *Plan {
	return &Plan{
		sites:     make(map[NodeId]CallSite),
		templates: make(map[NodeId]TemplatePlan),
	}
}

// Record stores the CallSite planned for a call expression.
func (p *Plan) Record(id NodeId, site CallSite) {
	p.sites[id] = site
}

// RecordTemplate stores the TemplatePlan planned for an interpolated
// string expression.
func (p *Plan) RecordTemplate(id NodeId, plan TemplatePlan) {
	p.templates[id] = plan
}

// CallSite looks up the plan for a call expression. The second
// result is false if the first pass never visited this node — a
// driver bug, since every call node must be planned before codegen.
func (p *Plan) CallSite(id NodeId) (CallSite, bool) {
	s, ok := p.sites[id]
	return s, ok
}

// Template looks up the plan for an interpolated string expression.
func (p *Plan) Template(id NodeId) (TemplatePlan, bool) {
	t, ok := p.templates[id]
	return t, ok
}
