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

package ir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flix-lang/flix/ast"
	"github.com/flix-lang/flix/core"
)

func lit(v Value) Expr { return NewLit(v, core.Type{}, ast.Span{}) }

func TestEvalArithmetic(t *testing.T) {
	prog := NewProgram(core.NewSymbolTable())
	e := Binary{Op: ast.OpAdd, Lhs: lit(Int(2)), Rhs: lit(Int(3))}
	v, err := Eval(prog, NewEnv(), e)
	require.NoError(t, err)
	require.Equal(t, Int(5), v)
}

func TestEvalDivByZero(t *testing.T) {
	prog := NewProgram(core.NewSymbolTable())
	e := Binary{Op: ast.OpDiv, Lhs: lit(Int(1)), Rhs: lit(Int(0))}
	_, err := Eval(prog, NewEnv(), e)
	require.ErrorIs(t, err, DivByZeroError{})
}

func TestEvalIfThenElse(t *testing.T) {
	prog := NewProgram(core.NewSymbolTable())
	e := If{Cond: lit(Bool(true)), Then: lit(Int(1)), Else: lit(Int(2))}
	v, err := Eval(prog, NewEnv(), e)
	require.NoError(t, err)
	require.Equal(t, Int(1), v)
}

func TestEvalMatchTag(t *testing.T) {
	prog := NewProgram(core.NewSymbolTable())
	payload := Int(7)
	scrutinee := lit(TagVal("Some", &payload))
	e := Match{
		Scrutinee: scrutinee,
		Rules: []MatchRule{
			{Pattern: PTag{Name: "None"}, Body: lit(Int(0))},
			{Pattern: PTag{Name: "Some", Payload: PVar{Name: "x"}}, Body: VarRef{Name: "x"}},
		},
	}
	v, err := Eval(prog, NewEnv(), e)
	require.NoError(t, err)
	require.Equal(t, Int(7), v)
}

func TestEvalUserErrorAborts(t *testing.T) {
	prog := NewProgram(core.NewSymbolTable())
	e := UserError{Message: lit(Str("boom"))}
	_, err := Eval(prog, NewEnv(), e)
	require.Error(t, err)
	var abort UserAbortError
	require.ErrorAs(t, err, &abort)
	require.Equal(t, "boom", abort.Message)
}

func TestEvalCallsTopLevelFunction(t *testing.T) {
	prog := NewProgram(core.NewSymbolTable())
	prog.Functions["inc"] = &FunctionDef{
		Params: []string{"x"},
		Body:   Binary{Op: ast.OpAdd, Lhs: VarRef{Name: "x"}, Rhs: lit(Int(1))},
	}
	e := App{Fn: VarRef{Name: "inc"}, Args: []Expr{lit(Int(41))}}
	v, err := Eval(prog, NewEnv(), e)
	require.NoError(t, err)
	require.Equal(t, Int(42), v)
}

func TestHashIsOrderIndependentForSets(t *testing.T) {
	a := SetVal(Int(1), Int(2), Int(3))
	b := SetVal(Int(3), Int(2), Int(1))
	require.Equal(t, Hash(a), Hash(b))
	require.True(t, a.Equal(b))
}
