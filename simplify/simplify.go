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

// Package simplify runs three fixed-order, confluent tree rewrites over
// the typed ir the Typer produces: copy propagation, Unit-equality
// elimination, and dead-code elimination on constant-boolean
// conditionals. Each is idempotent and runs exactly once per node, in
// that order, on a single bottom-up walk.
package simplify

import (
	"github.com/flix-lang/flix/ast"
	"github.com/flix-lang/flix/core"
	"github.com/flix-lang/flix/ir"
)

// Run simplifies every function body, fact term, and rule term in prog
// in place and returns it as the frozen program handed to the Solver
// and Verifier.
func Run(prog *ir.Program) *ir.Program {
	for _, fn := range prog.Functions {
		fn.Body = Expr(fn.Body)
	}
	for i := range prog.Facts {
		prog.Facts[i].Terms = exprs(prog.Facts[i].Terms)
	}
	for i := range prog.Rules {
		prog.Rules[i].HeadTerms = exprs(prog.Rules[i].HeadTerms)
		for j := range prog.Rules[i].Body {
			simplifyAtom(&prog.Rules[i].Body[j])
		}
	}
	return prog
}

func simplifyAtom(a *ir.BodyAtom) {
	switch a.Kind {
	case ir.AtomLookup:
		a.Terms = exprs(a.Terms)
	case ir.AtomAlias, ir.AtomLoop:
		a.Term = Expr(a.Term)
	case ir.AtomNotEqual:
		a.Lhs = Expr(a.Lhs)
		a.Rhs = Expr(a.Rhs)
	}
}

func exprs(es []ir.Expr) []ir.Expr {
	out := make([]ir.Expr, len(es))
	for i, e := range es {
		out[i] = Expr(e)
	}
	return out
}

// Expr simplifies one expression tree: it first rebuilds the node with
// every child already simplified, then applies copyProp, unitEq, and
// deadCode to the rebuilt node, in that fixed order.
func Expr(e ir.Expr) ir.Expr {
	e = descend(e)
	e = copyProp(e)
	e = unitEq(e)
	e = deadCode(e)
	return e
}

// descend rebuilds e with every immediate child expression simplified.
// Leaves (Lit, VarRef) have no children and pass through unchanged.
func descend(e ir.Expr) ir.Expr {
	m := e.Info()
	switch n := e.(type) {
	case ir.Lit, ir.VarRef:
		return n
	case ir.LambdaExpr:
		return ir.NewLambda(n.Params, Expr(n.Body), m.Type, m.Span)
	case ir.App:
		return ir.NewApp(Expr(n.Fn), exprs(n.Args), m.Type, m.Span)
	case ir.Unary:
		return ir.NewUnary(n.Op, Expr(n.Opnd), m.Type, m.Span)
	case ir.Binary:
		return ir.NewBinary(n.Op, Expr(n.Lhs), Expr(n.Rhs), m.Type, m.Span)
	case ir.If:
		return ir.NewIf(Expr(n.Cond), Expr(n.Then), Expr(n.Else), m.Type, m.Span)
	case ir.Let:
		return ir.NewLet(n.Name, Expr(n.Value), Expr(n.Body), m.Type, m.Span)
	case ir.Match:
		rules := make([]ir.MatchRule, len(n.Rules))
		for i, r := range n.Rules {
			var guard ir.Expr
			if r.Guard != nil {
				guard = Expr(r.Guard)
			}
			rules[i] = ir.MatchRule{Pattern: r.Pattern, Guard: guard, Body: Expr(r.Body)}
		}
		return ir.NewMatch(Expr(n.Scrutinee), rules, m.Type, m.Span)
	case ir.Tag:
		var payload ir.Expr
		if n.Payload != nil {
			payload = Expr(n.Payload)
		}
		return ir.NewTag(n.Name, payload, m.Type, m.Span)
	case ir.Tuple:
		return ir.NewTuple(exprs(n.Elms), m.Type, m.Span)
	case ir.Collection:
		var pairs []ir.MapEntry
		if n.Pairs != nil {
			pairs = make([]ir.MapEntry, len(n.Pairs))
			for i, p := range n.Pairs {
				pairs[i] = ir.MapEntry{Key: Expr(p.Key), Val: Expr(p.Val)}
			}
		}
		return ir.NewCollection(n.Kind, exprs(n.Elms), pairs, m.Type, m.Span)
	case ir.Quantifier:
		return ir.NewQuantifier(n.Universal, n.Params, Expr(n.Body), m.Type, m.Span)
	case ir.Ascribe:
		return ir.NewAscribe(Expr(n.Value), m.Type, m.Span)
	case ir.UserError:
		return ir.NewUserError(Expr(n.Message), m.Type, m.Span)
	default:
		return e
	}
}

// copyProp is pass 1. It is the identity today: a placeholder kept for
// a future revision that would track a Let binding a bare variable and
// substitute the alias away at its use sites.
func copyProp(e ir.Expr) ir.Expr { return e }

// unitEq is pass 2: Binary(==, e1, e2) where both operands have type
// Unit always holds, since Unit has exactly one inhabitant and IR
// expressions have no side effects to preserve.
func unitEq(e ir.Expr) ir.Expr {
	bin, ok := e.(ir.Binary)
	if !ok || bin.Op != ast.OpEq {
		return e
	}
	if bin.Lhs.Info().Type.Kind == core.KUnit && bin.Rhs.Info().Type.Kind == core.KUnit {
		return ir.NewLit(ir.Bool(true), bin.Info().Type, bin.Info().Span)
	}
	return e
}

// deadCode is pass 3: a conditional on a literal boolean collapses to
// the live branch.
func deadCode(e ir.Expr) ir.Expr {
	iff, ok := e.(ir.If)
	if !ok {
		return e
	}
	lit, ok := iff.Cond.(ir.Lit)
	if !ok || lit.Value.Kind != ir.VBool {
		return e
	}
	if lit.Value.B {
		return iff.Then
	}
	return iff.Else
}
