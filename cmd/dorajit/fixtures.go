// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package main

import (
	"strconv"

	"github.com/dora-rt/dorajit/internal/callplan"
	"github.com/dora-rt/dorajit/internal/codegen"
	"github.com/dora-rt/dorajit/internal/descriptors"
	"github.com/dora-rt/dorajit/internal/frame"
)

// fixture bundles a named function body with the descriptor tables it
// was declared against, standing in for what a real frontend would
// hand the code generator after type checking.
type fixture struct {
	name   string
	tables *descriptors.Tables
	body   []codegen.Stmt
}

// fixtures is the registry "compile" picks from: there is no parser in
// this tree (out of scope per spec.md §1), so fixtures are the
// equivalent of compiling from source.
func fixtures() map[string]fixture {
	byName := make(map[string]fixture)

	{
		tables := descriptors.NewTables()
		objT := tables.DeclareType(descriptors.TypeDescriptor{Name: "Object", Size: 8, Align: 8, IsReference: true})
		intT := tables.DeclareType(descriptors.TypeDescriptor{Name: "Int", Size: 4, Align: 4, IsReference: false})
		makeObj := tables.DeclareFct("makeObject", nil, objT)
		takeTwo := tables.DeclareFct("takeTwo", []descriptors.TypeId{objT, objT}, intT)

		body := []codegen.Stmt{
			codegen.VarDecl{Id: 0, Name: "a", Type: objT, Init: &codegen.Call{Id: 1, Callee: makeObj, ReturnType: objT}},
			codegen.VarDecl{Id: 1, Name: "b", Type: objT, Init: &codegen.Call{Id: 2, Callee: makeObj, ReturnType: objT}},
			codegen.ExprStmt{Expr: &codegen.Call{
				Id:     3,
				Callee: takeTwo,
				Args: []codegen.Expr{
					&codegen.VarRef{Decl: 0},
					&codegen.Call{Id: 4, Callee: makeObj, ReturnType: objT},
				},
				ReturnType: intT,
			}},
		}
		byName["two-objects"] = fixture{name: "two-objects", tables: tables, body: body}
	}

	{
		tables := descriptors.NewTables()
		intT := tables.DeclareType(descriptors.TypeDescriptor{Name: "Int", Size: 4, Align: 4, IsReference: false})
		makeInt := tables.DeclareFct("makeInt", nil, intT)
		add := tables.DeclareFct("add", []descriptors.TypeId{intT, intT}, intT)

		body := []codegen.Stmt{
			codegen.ExprStmt{Expr: &codegen.Call{
				Id:     1,
				Callee: add,
				Args: []codegen.Expr{
					&codegen.Literal{Type: intT},
					&codegen.Call{Id: 2, Callee: makeInt, ReturnType: intT},
				},
				ReturnType: intT,
			}},
		}
		byName["spilled-literal"] = fixture{name: "spilled-literal", tables: tables, body: body}
	}

	return byName
}

// printEmitter renders each driver callback as a line of text; it is
// the CLI's stand-in for a real instruction selector.
type printEmitter struct {
	lines []string
}

func (p *printEmitter) EmitPrologue(stacksize int64) {
	p.lines = append(p.lines, "prologue: stacksize="+strconv.FormatInt(stacksize, 10))
}
func (p *printEmitter) EmitLoadVar(off frame.Offset, typ descriptors.TypeId) {
	p.lines = append(p.lines, "load var: offset="+strconv.FormatInt(int64(off), 10))
}
func (p *printEmitter) EmitLiteral(typ descriptors.TypeId) {
	p.lines = append(p.lines, "load literal")
}
func (p *printEmitter) EmitCall(site callplan.CallSite, gc frame.GCPoint) {
	p.lines = append(p.lines, "call: fct="+strconv.FormatInt(int64(site.Callee), 10)+
		" args="+strconv.Itoa(len(site.Args))+
		" gc_slots="+strconv.Itoa(len(gc.Offsets)))
}
func (p *printEmitter) EmitTemplate(plan callplan.TemplatePlan) {
	p.lines = append(p.lines, "template: parts="+strconv.Itoa(len(plan.Parts))+
		" buffer_offset="+strconv.FormatInt(int64(plan.StringBufferOffset), 10)+
		" part_offset="+strconv.FormatInt(int64(plan.StringPartOffset), 10)+
		" gc_slots="+strconv.Itoa(len(plan.GCPoint.Offsets)))
}
func (p *printEmitter) EmitEpilogue() {
	p.lines = append(p.lines, "epilogue")
}
