// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dora-rt/dorajit/arch"
	"github.com/dora-rt/dorajit/internal/callplan"
	"github.com/dora-rt/dorajit/internal/descriptors"
	"github.com/dora-rt/dorajit/internal/frame"
)

// templateFixtureTables declares a buffer type with init/append/toString
// methods and a non-string "Int" part type with its own toString, the
// minimum surface a template expression's lowering needs.
func templateFixtureTables() (tables *descriptors.Tables, strT, intT, bufT descriptors.TypeId, bufNew, append_, bufToString, intToString descriptors.FctId) {
	tables = descriptors.NewTables()
	strT = tables.DeclareType(descriptors.TypeDescriptor{Name: "String", Size: 8, Align: 8, IsReference: true})
	intT = tables.DeclareType(descriptors.TypeDescriptor{Name: "Int", Size: 4, Align: 4, IsReference: false})
	bufT = tables.DeclareType(descriptors.TypeDescriptor{Name: "StringBuffer", Size: 8, Align: 8, IsReference: true})

	bufNew = tables.DeclareFct("StringBuffer.init", nil, bufT)
	append_ = tables.DeclareFct("StringBuffer.append", []descriptors.TypeId{bufT, strT}, bufT)
	bufToString = tables.DeclareFct("StringBuffer.toString", []descriptors.TypeId{bufT}, strT)
	intToString = tables.DeclareFct("Int.toString", []descriptors.TypeId{intT}, strT)
	return
}

func TestTemplateLoweringReservesOffsetsAndPlansCallSites(t *testing.T) {
	tables, strT, intT, bufT, bufNew, append_, bufToString, intToString := templateFixtureTables()

	declName := DeclId(0)
	templateId := callplan.NodeId(50)

	body := []Stmt{
		VarDecl{Id: declName, Name: "name", Type: strT, Init: &Literal{Type: strT}},
		ExprStmt{Expr: &Template{
			Id:                templateId,
			BufferType:        bufT,
			PartType:          strT,
			ReturnType:        strT,
			BufferNewFct:      bufNew,
			AppendFct:         append_,
			BufferToStringFct: bufToString,
			Parts: []TemplatePart{
				{Value: &VarRef{Decl: declName}, Type: strT, ToString: nil},
				{Value: &Literal{Type: intT}, Type: intT, ToString: &intToString},
			},
		}},
	}

	info := GenerateInfo(arch.AMD64, tables, 0, body)

	plan, ok := info.Plan.Template(templateId)
	require.True(t, ok)

	require.Len(t, plan.Parts, 2)
	assert.Equal(t, bufNew, plan.BufferNew.Callee)
	assert.Equal(t, callplan.ArgSelfieNew, plan.BufferNew.Args[0].Kind)

	// The string part needs no conversion.
	assert.Nil(t, plan.Parts[0].ToString)
	assert.Equal(t, append_, plan.Parts[0].Append.Callee)
	assert.Equal(t, plan.StringBufferOffset, plan.Parts[0].Append.Args[0].StackOffset)
	assert.Equal(t, plan.StringPartOffset, plan.Parts[0].Append.Args[1].StackOffset)

	// The int part is converted first, then appended from the same
	// reused offset.
	require.NotNil(t, plan.Parts[1].ToString)
	assert.Equal(t, intToString, plan.Parts[1].ToString.Callee)
	assert.Equal(t, plan.StringPartOffset, plan.Parts[1].ToString.Args[0].StackOffset)
	assert.Equal(t, plan.StringPartOffset, plan.Parts[1].Append.Args[1].StackOffset)

	assert.Equal(t, bufToString, plan.BufferToString.Callee)
	assert.Equal(t, plan.StringBufferOffset, plan.BufferToString.Args[0].StackOffset)

	// The buffer and part slots are distinct, and both freed by the
	// time the whole function body is done (the frame balances).
	assert.NotEqual(t, plan.StringBufferOffset, plan.StringPartOffset)

	// The declared "name" var is still live (in scope) when the
	// template's GC point is snapshotted, alongside the buffer and
	// part slots reserved for the sequence.
	assert.ElementsMatch(t,
		[]frame.Offset{info.VarOffsets[declName], plan.StringBufferOffset, plan.StringPartOffset},
		plan.GCPoint.Offsets,
	)
}
