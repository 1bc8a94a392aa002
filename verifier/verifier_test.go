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

package verifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flix-lang/flix/ast"
	"github.com/flix-lang/flix/core"
	"github.com/flix-lang/flix/ir"
	"github.com/flix-lang/flix/smt"
)

// bruteForceFactory is a brute-force decision procedure over a small
// integer domain, used so these tests exercise the translator's
// structure without linking the real z3 bindings. It enumerates every
// assignment of the asserted formula's Const variables within
// [-domainBound, domainBound] and reports Sat on the first assignment
// that satisfies every conjunct, Unsat otherwise.
type bruteForceFactory struct{}

const domainBound = 3

func (bruteForceFactory) NewSolver() smt.Solver { return &bruteForceSolver{} }

type bruteForceSolver struct {
	asserts []smt.Expr
}

func (s *bruteForceSolver) Assert(e smt.Expr) { s.asserts = append(s.asserts, e) }
func (s *bruteForceSolver) Close()            {}

func (s *bruteForceSolver) Check(ctx context.Context) (smt.Result, smt.Model, error) {
	vars := map[string]smt.Sort{}
	for _, e := range s.asserts {
		collectConsts(e, vars)
	}
	names := make([]string, 0, len(vars))
	for n := range vars {
		names = append(names, n)
	}
	assignment := map[string]int64{}
	if model, found := exhaustive(names, 0, vars, assignment, s.asserts); found {
		return smt.Sat, bruteForceModel(model), nil
	}
	return smt.Unsat, nil, nil
}

func exhaustive(names []string, i int, vars map[string]smt.Sort, cur map[string]int64, asserts []smt.Expr) (map[string]int64, bool) {
	if i == len(names) {
		if satisfiesAll(asserts, cur) {
			cp := map[string]int64{}
			for k, v := range cur {
				cp[k] = v
			}
			return cp, true
		}
		return nil, false
	}
	name := names[i]
	lo, hi := int64(-domainBound), int64(domainBound)
	if vars[name] == smt.SortBool {
		lo, hi = 0, 1
	}
	for v := lo; v <= hi; v++ {
		cur[name] = v
		if m, ok := exhaustive(names, i+1, vars, cur, asserts); ok {
			return m, true
		}
	}
	delete(cur, name)
	return nil, false
}

func satisfiesAll(asserts []smt.Expr, assignment map[string]int64) bool {
	for _, a := range asserts {
		v, ok := evalBool(a, assignment)
		if !ok || !v {
			return false
		}
	}
	return true
}

func collectConsts(e smt.Expr, out map[string]smt.Sort) {
	switch n := e.(type) {
	case smt.Const:
		out[n.Name] = n.Sort
	case smt.Not:
		collectConsts(n.X, out)
	case smt.And:
		for _, x := range n.Xs {
			collectConsts(x, out)
		}
	case smt.Or:
		for _, x := range n.Xs {
			collectConsts(x, out)
		}
	case smt.Eq:
		collectConsts(n.X, out)
		collectConsts(n.Y, out)
	case smt.Lt:
		collectConsts(n.X, out)
		collectConsts(n.Y, out)
	case smt.Le:
		collectConsts(n.X, out)
		collectConsts(n.Y, out)
	case smt.Add:
		for _, x := range n.Xs {
			collectConsts(x, out)
		}
	case smt.Sub:
		collectConsts(n.X, out)
		collectConsts(n.Y, out)
	case smt.Mul:
		for _, x := range n.Xs {
			collectConsts(x, out)
		}
	case smt.Neg:
		collectConsts(n.X, out)
	case smt.Ite:
		collectConsts(n.Cond, out)
		collectConsts(n.Then, out)
		collectConsts(n.Else, out)
	case smt.Forall:
		collectConsts(n.Body, out)
	case smt.Exists:
		collectConsts(n.Body, out)
	}
}

func evalInt(e smt.Expr, a map[string]int64) (int64, bool) {
	switch n := e.(type) {
	case smt.Const:
		v, ok := a[n.Name]
		return v, ok
	case smt.IntLit:
		return n.Value, true
	case smt.Add:
		var sum int64
		for _, x := range n.Xs {
			v, ok := evalInt(x, a)
			if !ok {
				return 0, false
			}
			sum += v
		}
		return sum, true
	case smt.Sub:
		x, ok1 := evalInt(n.X, a)
		y, ok2 := evalInt(n.Y, a)
		return x - y, ok1 && ok2
	case smt.Mul:
		prod := int64(1)
		for _, x := range n.Xs {
			v, ok := evalInt(x, a)
			if !ok {
				return 0, false
			}
			prod *= v
		}
		return prod, true
	case smt.Neg:
		x, ok := evalInt(n.X, a)
		return -x, ok
	case smt.Ite:
		c, ok := evalBool(n.Cond, a)
		if !ok {
			return 0, false
		}
		if c {
			return evalInt(n.Then, a)
		}
		return evalInt(n.Else, a)
	}
	return 0, false
}

func evalBool(e smt.Expr, a map[string]int64) (bool, bool) {
	switch n := e.(type) {
	case smt.Const:
		v, ok := a[n.Name]
		return v != 0, ok
	case smt.BoolLit:
		return n.Value, true
	case smt.Not:
		v, ok := evalBool(n.X, a)
		return !v, ok
	case smt.And:
		for _, x := range n.Xs {
			v, ok := evalBool(x, a)
			if !ok || !v {
				return false, ok
			}
		}
		return true, true
	case smt.Or:
		for _, x := range n.Xs {
			v, ok := evalBool(x, a)
			if ok && v {
				return true, true
			}
		}
		return false, true
	case smt.Eq:
		x, ok1 := evalInt(n.X, a)
		y, ok2 := evalInt(n.Y, a)
		return x == y, ok1 && ok2
	case smt.Lt:
		x, ok1 := evalInt(n.X, a)
		y, ok2 := evalInt(n.Y, a)
		return x < y, ok1 && ok2
	case smt.Le:
		x, ok1 := evalInt(n.X, a)
		y, ok2 := evalInt(n.Y, a)
		return x <= y, ok1 && ok2
	case smt.Ite:
		c, ok := evalBool(n.Cond, a)
		if !ok {
			return false, false
		}
		if c {
			return evalBool(n.Then, a)
		}
		return evalBool(n.Else, a)
	}
	return false, false
}

type bruteForceModel map[string]int64

func (m bruteForceModel) Int(name string) (int64, bool) { v, ok := m[name]; return v, ok }
func (m bruteForceModel) Bool(name string) (bool, bool) { v, ok := m[name]; return v != 0, ok }
func (m bruteForceModel) Real(name string) (num, den int64, ok bool) { return 0, 0, false }

func intT() core.Type  { return core.Primitive(core.KInt64) }
func boolT() core.Type { return core.Primitive(core.KBool) }

func varRef(name string, t core.Type) ir.Expr { return ir.NewVarRef(name, t, ast.Span{}) }

// TestLeqTransitivityHolds checks that `x <= y && y <= z ==> x <= z`,
// expressed the way a law body reaches the Verifier after typing,
// is reported as holding (its negation is unsatisfiable).
func TestLeqTransitivityHolds(t *testing.T) {
	x, y, z := varRef("x", intT()), varRef("y", intT()), varRef("z", intT())
	lhs := ir.NewBinary(ast.OpAnd,
		ir.NewBinary(ast.OpLe, x, y, boolT(), ast.Span{}),
		ir.NewBinary(ast.OpLe, y, z, boolT(), ast.Span{}),
		boolT(), ast.Span{})
	body := ir.NewBinary(ast.OpOr,
		ir.NewUnary(ast.UnNot, lhs, boolT(), ast.Span{}),
		ir.NewBinary(ast.OpLe, x, z, boolT(), ast.Span{}),
		boolT(), ast.Span{})

	prog := ir.NewProgram(core.NewSymbolTable())
	v := New(prog, Config{Factory: bruteForceFactory{}})
	res := v.check("transitivity", body, []smt.Const{
		{Name: "x", Sort: smt.SortInt}, {Name: "y", Sort: smt.SortInt}, {Name: "z", Sort: smt.SortInt},
	})
	require.NoError(t, res.Err)
	require.Equal(t, Holds, res.Status)
}

// TestViolatedLawReportsCounterexample checks that a false law (`x < y`
// for all x, y) comes back Violated with a concrete counterexample.
func TestViolatedLawReportsCounterexample(t *testing.T) {
	x, y := varRef("x", intT()), varRef("y", intT())
	body := ir.NewBinary(ast.OpLt, x, y, boolT(), ast.Span{})

	prog := ir.NewProgram(core.NewSymbolTable())
	v := New(prog, Config{Factory: bruteForceFactory{}})
	res := v.check("bogus", body, []smt.Const{{Name: "x", Sort: smt.SortInt}, {Name: "y", Sort: smt.SortInt}})
	require.NoError(t, res.Err)
	require.Equal(t, Violated, res.Status)
	require.NotEmpty(t, res.Counterexample)
}

// TestNegatePushesThroughAnd checks De Morgan's law is applied rather
// than wrapping the whole body in one outer Not.
func TestNegatePushesThroughAnd(t *testing.T) {
	x, y := varRef("x", intT()), varRef("y", intT())
	body := ir.NewBinary(ast.OpAnd,
		ir.NewBinary(ast.OpLe, x, y, boolT(), ast.Span{}),
		ir.NewBinary(ast.OpEq, x, y, boolT(), ast.Span{}),
		boolT(), ast.Span{})
	neg := negate(body)
	bin, ok := neg.(ir.Binary)
	require.True(t, ok)
	require.Equal(t, ast.OpOr, bin.Op)
	lhs, ok := bin.Lhs.(ir.Binary)
	require.True(t, ok)
	require.Equal(t, ast.OpGt, lhs.Op)
}

// TestFindVarTypeWalksBinary checks the type-recovery walker finds a
// parameter's type from its first occurrence in a binary expression.
func TestFindVarTypeWalksBinary(t *testing.T) {
	body := ir.NewBinary(ast.OpLe, varRef("a", intT()), varRef("b", intT()), boolT(), ast.Span{})
	ty, ok := findVarType(body, "b")
	require.True(t, ok)
	require.Equal(t, core.KInt64, ty.Kind)
}
