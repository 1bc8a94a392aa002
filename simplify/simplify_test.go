// Copyright 2024 The Flix Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package simplify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flix-lang/flix/ast"
	"github.com/flix-lang/flix/core"
	"github.com/flix-lang/flix/ir"
)

func unitLit() ir.Expr {
	return ir.NewLit(ir.Unit(), core.Type{Kind: core.KUnit}, ast.Span{})
}

func boolLit(b bool) ir.Expr {
	return ir.NewLit(ir.Bool(b), core.Type{Kind: core.KBool}, ast.Span{})
}

func intLit(i int64) ir.Expr {
	return ir.NewLit(ir.Int(i), core.Type{Kind: core.KInt32}, ast.Span{})
}

// TestUnitEqualityElimination checks that `() == ()` simplifies to the
// literal `true`.
func TestUnitEqualityElimination(t *testing.T) {
	e := ir.NewBinary(ast.OpEq, unitLit(), unitLit(), core.Type{Kind: core.KBool}, ast.Span{})
	out := Expr(e)
	lit, ok := out.(ir.Lit)
	require.True(t, ok)
	require.Equal(t, ir.VBool, lit.Value.Kind)
	require.True(t, lit.Value.B)
}

// TestUnitEqualityIfThenElse checks the full composition described for
// an if with a Unit-equality condition: `if () == () then 1 else 2`
// simplifies all the way down to the literal `1`, exercising the
// dead-code pass consuming unitEq's output in the same walk.
func TestUnitEqualityIfThenElse(t *testing.T) {
	cond := ir.NewBinary(ast.OpEq, unitLit(), unitLit(), core.Type{Kind: core.KBool}, ast.Span{})
	e := ir.NewIf(cond, intLit(1), intLit(2), core.Type{Kind: core.KInt32}, ast.Span{})
	out := Expr(e)
	lit, ok := out.(ir.Lit)
	require.True(t, ok)
	require.Equal(t, int64(1), lit.Value.I)
}

func TestNonUnitEqualityUntouched(t *testing.T) {
	e := ir.NewBinary(ast.OpEq, intLit(1), intLit(2), core.Type{Kind: core.KBool}, ast.Span{})
	out := Expr(e)
	_, ok := out.(ir.Binary)
	require.True(t, ok)
}

func TestDeadCodeTrueBranch(t *testing.T) {
	e := ir.NewIf(boolLit(true), intLit(1), intLit(2), core.Type{Kind: core.KInt32}, ast.Span{})
	out := Expr(e)
	lit, ok := out.(ir.Lit)
	require.True(t, ok)
	require.Equal(t, int64(1), lit.Value.I)
}

func TestDeadCodeFalseBranch(t *testing.T) {
	e := ir.NewIf(boolLit(false), intLit(1), intLit(2), core.Type{Kind: core.KInt32}, ast.Span{})
	out := Expr(e)
	lit, ok := out.(ir.Lit)
	require.True(t, ok)
	require.Equal(t, int64(2), lit.Value.I)
}

func TestIfWithNonLiteralConditionUntouched(t *testing.T) {
	cond := ir.NewVarRef("flag", core.Type{Kind: core.KBool}, ast.Span{})
	e := ir.NewIf(cond, intLit(1), intLit(2), core.Type{Kind: core.KInt32}, ast.Span{})
	out := Expr(e)
	_, ok := out.(ir.If)
	require.True(t, ok)
}

// TestRunRewritesFunctionBody checks that Run reaches into a
// FunctionDef's body and simplifies it.
func TestRunRewritesFunctionBody(t *testing.T) {
	prog := ir.NewProgram(core.NewSymbolTable())
	qn := core.NewQName(nil, "f")
	prog.Functions[qn.Key()] = &ir.FunctionDef{
		Name: qn,
		Body: ir.NewIf(boolLit(true), intLit(1), intLit(2), core.Type{Kind: core.KInt32}, ast.Span{}),
	}
	out := Run(prog)
	lit, ok := out.Functions[qn.Key()].Body.(ir.Lit)
	require.True(t, ok)
	require.Equal(t, int64(1), lit.Value.I)
}

// TestRunRewritesFactTerms checks that Run descends into fact terms.
func TestRunRewritesFactTerms(t *testing.T) {
	prog := ir.NewProgram(core.NewSymbolTable())
	prog.Facts = []ir.Fact{{
		Relation: "R",
		Terms:    []ir.Expr{ir.NewIf(boolLit(false), intLit(1), intLit(2), core.Type{Kind: core.KInt32}, ast.Span{})},
	}}
	out := Run(prog)
	lit, ok := out.Facts[0].Terms[0].(ir.Lit)
	require.True(t, ok)
	require.Equal(t, int64(2), lit.Value.I)
}
