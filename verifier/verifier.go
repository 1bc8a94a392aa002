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
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flix-lang/flix/ast"
	"github.com/flix-lang/flix/core"
	"github.com/flix-lang/flix/ir"
	"github.com/flix-lang/flix/smt"
)

// DefaultTimeout bounds a single law's SMT check so one hard query never
// hangs a `--verify` run.
const DefaultTimeout = 5 * time.Second

// maxInlineDepth caps how many nested pure-function calls a law body may
// inline before translation gives up; laws are expected to be small
// combinations of lattice operators, not general recursive programs.
const maxInlineDepth = 32

// Config controls a verification run.
type Config struct {
	Factory        smt.Factory
	Timeout        time.Duration
	MaxInlineDepth int
}

// Status is the outcome of checking one law.
type Status int

const (
	Holds Status = iota
	Violated
	Inconclusive
)

func (s Status) String() string {
	switch s {
	case Holds:
		return "holds"
	case Violated:
		return "violated"
	default:
		return "inconclusive"
	}
}

// Result is one law's verification outcome.
type Result struct {
	Law             string
	Status          Status
	Counterexample  map[string]string
	Err             error
}

// Verifier discharges the laws declared in a program's symbol table,
// plus the built-in bounded-lattice laws for every BoundedLattice
// instance, by translation to SMT.
type Verifier struct {
	prog    *ir.Program
	factory smt.Factory
	timeout time.Duration
	maxDepth int
}

// New builds a Verifier bound to prog's function table. cfg.Factory must
// be non-nil (internal/z3.NewFactory() in production, a fake in tests).
func New(prog *ir.Program, cfg Config) *Verifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxDepth := cfg.MaxInlineDepth
	if maxDepth <= 0 {
		maxDepth = maxInlineDepth
	}
	return &Verifier{prog: prog, factory: cfg.Factory, timeout: timeout, maxDepth: maxDepth}
}

// VerifyAll checks every DeclLaw declaration and every DeclBoundedLattice
// instance's built-in laws, in declaration order, and returns one Result
// per law checked.
func (v *Verifier) VerifyAll(symbols *core.SymbolTable) []Result {
	decls := symbols.All()
	sort.Slice(decls, func(i, j int) bool { return decls[i].Pos.Line < decls[j].Pos.Line })

	var results []Result
	for _, d := range decls {
		switch d.Kind {
		case core.DeclLaw:
			results = append(results, v.verifyUserLaw(d))
		case core.DeclBoundedLattice:
			results = append(results, v.verifyLatticeLaws(d)...)
		}
	}
	return results
}

func (v *Verifier) verifyUserLaw(d *core.Declaration) Result {
	name := d.Name.Key()
	fn, ok := v.prog.Lookup(name)
	if !ok {
		return Result{Law: name, Status: Inconclusive, Err: fmt.Errorf("verifier: no function body recorded for law %s", name)}
	}
	params := make([]smt.Const, len(fn.Params))
	for i, p := range fn.Params {
		t, ok := findVarType(fn.Body, p)
		if !ok {
			return Result{Law: name, Status: Inconclusive, Err: fmt.Errorf("verifier: could not infer a type for parameter %q", p)}
		}
		sort, err := sortOf(t)
		if err != nil {
			return Result{Law: name, Status: Inconclusive, Err: err}
		}
		params[i] = smt.Const{Name: p, Sort: sort}
	}
	return v.check(name, fn.Body, params)
}

// check negates law (pushing the negation to normal form so nested
// Forall/Exists flip polarity correctly), asserts it against a fresh
// solver scoped to this one law, and interprets the result.
func (v *Verifier) check(name string, body ir.Expr, freeVars []smt.Const) Result {
	env := map[string]smt.Expr{}
	for _, p := range freeVars {
		env[p.Name] = smt.Const{Name: p.Name, Sort: p.Sort}
	}
	t := newTranslator(v.prog, v.maxDepth)
	negated := negate(body)
	formula, err := t.translate(negated, env, 0)
	if err != nil {
		return Result{Law: name, Status: Inconclusive, Err: err}
	}

	solver := v.factory.NewSolver()
	defer solver.Close()
	solver.Assert(formula)

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()
	res, model, err := solver.Check(ctx)
	if err != nil {
		return Result{Law: name, Status: Inconclusive, Err: err}
	}
	switch res {
	case smt.Unsat:
		return Result{Law: name, Status: Holds}
	case smt.Sat:
		return Result{Law: name, Status: Violated, Counterexample: extractModel(model, freeVars)}
	default:
		return Result{Law: name, Status: Inconclusive, Err: fmt.Errorf("verifier: SMT solver returned unknown within %s", v.timeout)}
	}
}

func extractModel(m smt.Model, vars []smt.Const) map[string]string {
	out := map[string]string{}
	for _, v := range vars {
		switch v.Sort {
		case smt.SortBool:
			if b, ok := m.Bool(v.Name); ok {
				out[v.Name] = fmt.Sprintf("%t", b)
			}
		case smt.SortReal:
			if num, den, ok := m.Real(v.Name); ok && den != 0 {
				out[v.Name] = decimal.NewFromInt(num).Div(decimal.NewFromInt(den)).String()
			}
		default:
			if i, ok := m.Int(v.Name); ok {
				out[v.Name] = fmt.Sprintf("%d", i)
			}
		}
	}
	return out
}

// verifyLatticeLaws builds the seven standard bounded-lattice laws
// (reflexivity, antisymmetry, transitivity of leq; commutativity,
// associativity, idempotence of lub; absorption of lub into glb) for
// one declared instance and checks each.
func (v *Verifier) verifyLatticeLaws(d *core.Declaration) []Result {
	et := d.Lattice.ElemType
	sort, err := sortOf(et)
	if err != nil {
		return []Result{{Law: d.Name.Key() + ".laws", Status: Inconclusive, Err: err}}
	}
	sp := ast.Span{}
	boolT := core.Primitive(core.KBool)
	x := ir.NewVarRef("x", et, sp)
	y := ir.NewVarRef("y", et, sp)
	z := ir.NewVarRef("z", et, sp)

	call := func(qn core.QName, args ...ir.Expr) ir.Expr {
		return ir.NewApp(ir.NewVarRef(qn.Key(), et, sp), args, boolT, sp)
	}
	eq := func(a, b ir.Expr) ir.Expr { return ir.NewBinary(ast.OpEq, a, b, boolT, sp) }
	and := func(a, b ir.Expr) ir.Expr { return ir.NewBinary(ast.OpAnd, a, b, boolT, sp) }
	or := func(a, b ir.Expr) ir.Expr { return ir.NewBinary(ast.OpOr, a, b, boolT, sp) }
	not := func(a ir.Expr) ir.Expr { return ir.NewUnary(ast.UnNot, a, boolT, sp) }
	implies := func(a, b ir.Expr) ir.Expr { return or(not(a), b) }
	callElem := func(qn core.QName, args ...ir.Expr) ir.Expr {
		return ir.NewApp(ir.NewVarRef(qn.Key(), et, sp), args, et, sp)
	}
	leq := func(a, b ir.Expr) ir.Expr { return call(d.Lattice.Leq, a, b) }
	lub := func(a, b ir.Expr) ir.Expr { return callElem(d.Lattice.Lub, a, b) }
	glb := func(a, b ir.Expr) ir.Expr { return callElem(d.Lattice.Glb, a, b) }

	laws := []struct {
		suffix string
		params []smt.Const
		body   ir.Expr
	}{
		{"reflexive", []smt.Const{{Name: "x", Sort: sort}}, leq(x, x)},
		{"antisymmetric", []smt.Const{{Name: "x", Sort: sort}, {Name: "y", Sort: sort}},
			implies(and(leq(x, y), leq(y, x)), eq(x, y))},
		{"transitive", []smt.Const{{Name: "x", Sort: sort}, {Name: "y", Sort: sort}, {Name: "z", Sort: sort}},
			implies(and(leq(x, y), leq(y, z)), leq(x, z))},
		{"lub_commutative", []smt.Const{{Name: "x", Sort: sort}, {Name: "y", Sort: sort}},
			eq(lub(x, y), lub(y, x))},
		{"lub_associative", []smt.Const{{Name: "x", Sort: sort}, {Name: "y", Sort: sort}, {Name: "z", Sort: sort}},
			eq(lub(lub(x, y), z), lub(x, lub(y, z)))},
		{"lub_idempotent", []smt.Const{{Name: "x", Sort: sort}}, eq(lub(x, x), x)},
		{"absorption", []smt.Const{{Name: "x", Sort: sort}, {Name: "y", Sort: sort}},
			eq(glb(x, lub(x, y)), x)},
	}

	out := make([]Result, len(laws))
	for i, l := range laws {
		out[i] = v.check(d.Name.Key()+"."+l.suffix, l.body, l.params)
	}
	return out
}

func sortOf(t core.Type) (smt.Sort, error) {
	switch t.Kind {
	case core.KBool:
		return smt.SortBool, nil
	case core.KInt8, core.KInt16, core.KInt32, core.KInt64, core.KBigInt:
		return smt.SortInt, nil
	case core.KFloat32, core.KFloat64:
		return smt.SortReal, nil
	default:
		return 0, fmt.Errorf("verifier: %s has no SMT sort; law bodies must be over Bool, integer, or floating-point types", t.String())
	}
}

// findVarType walks body for the first VarRef named name and returns its
// inferred type; every occurrence of a bound parameter carries the same
// type after the Typer's unification, so the first hit is authoritative.
func findVarType(e ir.Expr, name string) (core.Type, bool) {
	var found core.Type
	var ok bool
	var walk func(ir.Expr)
	walk = func(e ir.Expr) {
		if ok || e == nil {
			return
		}
		switch n := e.(type) {
		case ir.VarRef:
			if n.Name == name {
				found, ok = n.Info().Type, true
			}
		case ir.LambdaExpr:
			walk(n.Body)
		case ir.App:
			walk(n.Fn)
			for _, a := range n.Args {
				walk(a)
			}
		case ir.Unary:
			walk(n.Opnd)
		case ir.Binary:
			walk(n.Lhs)
			walk(n.Rhs)
		case ir.If:
			walk(n.Cond)
			walk(n.Then)
			walk(n.Else)
		case ir.Let:
			walk(n.Value)
			walk(n.Body)
		case ir.Match:
			walk(n.Scrutinee)
			for _, r := range n.Rules {
				if r.Guard != nil {
					walk(r.Guard)
				}
				walk(r.Body)
			}
		case ir.Tag:
			if n.Payload != nil {
				walk(n.Payload)
			}
		case ir.Tuple:
			for _, el := range n.Elms {
				walk(el)
			}
		case ir.Collection:
			for _, el := range n.Elms {
				walk(el)
			}
			for _, p := range n.Pairs {
				walk(p.Key)
				walk(p.Val)
			}
		case ir.Quantifier:
			walk(n.Body)
		case ir.Ascribe:
			walk(n.Value)
		case ir.UserError:
			walk(n.Message)
		}
	}
	walk(e)
	return found, ok
}

// negate pushes a boolean negation to normal form over the comparisons,
// And/Or, If, and Quantifier nodes a law body can contain, rather than
// wrapping the whole body in one Not: a nested Forall/Exists must flip
// to Exists/Forall under negation, which a single outer Not cannot
// express in the bound-Const quantifier encoding translate uses.
func negate(e ir.Expr) ir.Expr {
	m := e.Info()
	switch n := e.(type) {
	case ir.Unary:
		if n.Op == ast.UnNot {
			return n.Opnd
		}
	case ir.Binary:
		switch n.Op {
		case ast.OpEq:
			return ir.NewBinary(ast.OpNeq, n.Lhs, n.Rhs, m.Type, m.Span)
		case ast.OpNeq:
			return ir.NewBinary(ast.OpEq, n.Lhs, n.Rhs, m.Type, m.Span)
		case ast.OpAnd:
			return ir.NewBinary(ast.OpOr, negate(n.Lhs), negate(n.Rhs), m.Type, m.Span)
		case ast.OpOr:
			return ir.NewBinary(ast.OpAnd, negate(n.Lhs), negate(n.Rhs), m.Type, m.Span)
		case ast.OpLt:
			return ir.NewBinary(ast.OpGe, n.Lhs, n.Rhs, m.Type, m.Span)
		case ast.OpLe:
			return ir.NewBinary(ast.OpGt, n.Lhs, n.Rhs, m.Type, m.Span)
		case ast.OpGt:
			return ir.NewBinary(ast.OpLe, n.Lhs, n.Rhs, m.Type, m.Span)
		case ast.OpGe:
			return ir.NewBinary(ast.OpLt, n.Lhs, n.Rhs, m.Type, m.Span)
		}
	case ir.If:
		return ir.NewIf(n.Cond, negate(n.Then), negate(n.Else), m.Type, m.Span)
	case ir.Quantifier:
		return ir.NewQuantifier(!n.Universal, n.Params, negate(n.Body), m.Type, m.Span)
	}
	return ir.NewUnary(ast.UnNot, e, m.Type, m.Span)
}

type translator struct {
	prog     *ir.Program
	maxDepth int
	fresh    int
}

func newTranslator(prog *ir.Program, maxDepth int) *translator {
	return &translator{prog: prog, maxDepth: maxDepth}
}

func (t *translator) freshName(base string) string {
	t.fresh++
	return fmt.Sprintf("%s$%d", base, t.fresh)
}

func (t *translator) translate(e ir.Expr, env map[string]smt.Expr, depth int) (smt.Expr, error) {
	switch n := e.(type) {
	case ir.Lit:
		return t.translateLit(n)
	case ir.VarRef:
		b, ok := env[n.Name]
		if !ok {
			return nil, fmt.Errorf("verifier: %q is free in a law body but not a declared parameter", n.Name)
		}
		return b, nil
	case ir.Unary:
		x, err := t.translate(n.Opnd, env, depth)
		if err != nil {
			return nil, err
		}
		if n.Op == ast.UnNot {
			return smt.Not{X: x}, nil
		}
		return smt.Neg{X: x}, nil
	case ir.Binary:
		lhs, err := t.translate(n.Lhs, env, depth)
		if err != nil {
			return nil, err
		}
		rhs, err := t.translate(n.Rhs, env, depth)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case ast.OpEq:
			return smt.Eq{X: lhs, Y: rhs}, nil
		case ast.OpNeq:
			return smt.Not{X: smt.Eq{X: lhs, Y: rhs}}, nil
		case ast.OpLt:
			return smt.Lt{X: lhs, Y: rhs}, nil
		case ast.OpLe:
			return smt.Le{X: lhs, Y: rhs}, nil
		case ast.OpGt:
			return smt.Lt{X: rhs, Y: lhs}, nil
		case ast.OpGe:
			return smt.Le{X: rhs, Y: lhs}, nil
		case ast.OpAdd:
			return smt.Add{Xs: []smt.Expr{lhs, rhs}}, nil
		case ast.OpSub:
			return smt.Sub{X: lhs, Y: rhs}, nil
		case ast.OpMul:
			return smt.Mul{Xs: []smt.Expr{lhs, rhs}}, nil
		case ast.OpAnd:
			return smt.And{Xs: []smt.Expr{lhs, rhs}}, nil
		case ast.OpOr:
			return smt.Or{Xs: []smt.Expr{lhs, rhs}}, nil
		default:
			return nil, fmt.Errorf("verifier: operator %q is not supported in a law body", n.Op)
		}
	case ir.If:
		c, err := t.translate(n.Cond, env, depth)
		if err != nil {
			return nil, err
		}
		th, err := t.translate(n.Then, env, depth)
		if err != nil {
			return nil, err
		}
		el, err := t.translate(n.Else, env, depth)
		if err != nil {
			return nil, err
		}
		return smt.Ite{Cond: c, Then: th, Else: el}, nil
	case ir.App:
		return t.translateApp(n, env, depth)
	case ir.Quantifier:
		return t.translateQuantifier(n, env, depth)
	default:
		return nil, fmt.Errorf("verifier: %T is not supported in a law body", e)
	}
}

func (t *translator) translateLit(n ir.Lit) (smt.Expr, error) {
	switch n.Value.Kind {
	case ir.VBool:
		return smt.BoolLit{Value: n.Value.B}, nil
	case ir.VInt:
		return smt.IntLit{Value: n.Value.I}, nil
	case ir.VBigInt:
		if !n.Value.Big.IsInt64() {
			return nil, fmt.Errorf("verifier: BigInt literal %s overflows a 64-bit SMT integer", n.Value.Big.String())
		}
		return smt.IntLit{Value: n.Value.Big.Int64()}, nil
	case ir.VFloat:
		return floatLit(n.Value.F), nil
	default:
		return nil, fmt.Errorf("verifier: a %v literal cannot appear in a law body", n.Value.Kind)
	}
}

func floatLit(f float64) smt.Expr {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		return smt.RealLit{Num: 0, Den: 1}
	}
	num, den := r.Num(), r.Denom()
	if num.IsInt64() && den.IsInt64() {
		return smt.RealLit{Num: num.Int64(), Den: den.Int64()}
	}
	return smt.RealLit{Num: int64(f * 1e6), Den: 1e6}
}

func (t *translator) translateApp(n ir.App, env map[string]smt.Expr, depth int) (smt.Expr, error) {
	ref, ok := n.Fn.(ir.VarRef)
	if !ok {
		return nil, fmt.Errorf("verifier: only a direct call to a named function is supported in a law body")
	}
	fn, ok := t.prog.Lookup(ref.Name)
	if !ok {
		return nil, fmt.Errorf("verifier: unknown function %q referenced from a law body", ref.Name)
	}
	if depth >= t.maxDepth {
		return nil, fmt.Errorf("verifier: law body recurses more than %d calls deep inlining %q", t.maxDepth, ref.Name)
	}
	args := make([]smt.Expr, len(n.Args))
	for i, a := range n.Args {
		v, err := t.translate(a, env, depth)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	callEnv := make(map[string]smt.Expr, len(fn.Params))
	for i, p := range fn.Params {
		if i < len(args) {
			callEnv[p] = args[i]
		}
	}
	return t.translate(fn.Body, callEnv, depth+1)
}

func (t *translator) translateQuantifier(n ir.Quantifier, env map[string]smt.Expr, depth int) (smt.Expr, error) {
	vars := make([]smt.Const, len(n.Params))
	childEnv := make(map[string]smt.Expr, len(env)+len(n.Params))
	for k, v := range env {
		childEnv[k] = v
	}
	for i, p := range n.Params {
		ty, ok := findVarType(n.Body, p)
		if !ok {
			return nil, fmt.Errorf("verifier: could not infer a type for quantified variable %q", p)
		}
		s, err := sortOf(ty)
		if err != nil {
			return nil, err
		}
		fresh := t.freshName(p)
		vars[i] = smt.Const{Name: fresh, Sort: s}
		childEnv[p] = smt.Const{Name: fresh, Sort: s}
	}
	body, err := t.translate(n.Body, childEnv, depth)
	if err != nil {
		return nil, err
	}
	if n.Universal {
		return smt.Forall{Vars: vars, Body: body}, nil
	}
	return smt.Exists{Vars: vars, Body: body}, nil
}
