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

package typer

import (
	"github.com/flix-lang/flix/ast"
	"github.com/flix-lang/flix/core"
	"github.com/flix-lang/flix/ir"
	"github.com/flix-lang/flix/resolve"
)

// Infer type-checks every Def and Rule in a weeded, symbol-resolved
// Root and lowers it directly to the frozen ir.Program the Solver and
// Verifier consume. One checker (and so one substitution) is shared
// across the whole compilation.
func Infer(root *ast.Root, table *core.SymbolTable) (*ir.Program, []error) {
	c := newChecker(table, nil)
	prog := ir.NewProgram(table)

	var walk func(ns []string, decls []ast.Decl)
	walk = func(ns []string, decls []ast.Decl) {
		c.ns = ns
		for _, d := range decls {
			switch decl := d.(type) {
			case ast.Namespace:
				seg := make([]string, len(decl.Name))
				for i, id := range decl.Name {
					seg[i] = id.Text
				}
				walk(append(append([]string{}, ns...), seg...), decl.Decls)
				c.ns = ns
			case ast.Def:
				c.checkDef(ns, decl, prog)
			case ast.Law:
				c.checkLaw(ns, decl, prog)
			case ast.BoundedLatticeDecl:
				c.checkBoundedLattice(ns, decl)
			case ast.Impl:
				for _, def := range decl.Defs {
					c.checkDef(ns, def, prog)
				}
			case ast.Rule:
				c.checkRule(ns, decl, prog)
			}
		}
	}
	walk(nil, root.Decls)
	return prog, c.errs
}

func (c *checker) checkDef(ns []string, decl ast.Def, prog *ir.Program) {
	qn := core.NewQName(ns, decl.Name.Text)
	fdecl, ok := c.table.Lookup(qn)
	if !ok {
		c.fail(ErrTypeMismatch.New(decl.Span, "a registered function", qn.String()))
		return
	}
	names := make([]string, len(decl.Params))
	e := env{}
	for i, p := range decl.Params {
		names[i] = p.Name.Text
		pt := core.Type{}
		if i < len(fdecl.ParamTypes) {
			pt = fdecl.ParamTypes[i]
		}
		e = e.extend(names[i], pt)
	}
	bodyType, bodyB, err := c.inferExpr(e, decl.Body)
	if err != nil {
		c.fail(err)
		return
	}
	if err := c.unify(bodyType, fdecl.RetType, decl.Span); err != nil {
		c.fail(err)
		return
	}
	body, err := bodyB(c)
	if err != nil {
		c.fail(err)
		return
	}
	prog.Functions[qn.Key()] = &ir.FunctionDef{Name: qn, Params: names, Body: body}
}

// checkLaw type-checks a @strict/@monotone/... law body (always Bool)
// and records it alongside the ordinary functions so the Verifier can
// look it up by name; law bodies are never evaluated by the Solver.
func (c *checker) checkLaw(ns []string, decl ast.Law, prog *ir.Program) {
	qn := core.NewQName(ns, decl.Name.Text)
	names := make([]string, len(decl.Params))
	e := env{}
	for i, p := range decl.Params {
		pt, err := resolve.ResolveType(ns, p.Type, c.table)
		if err != nil {
			c.fail(err)
			return
		}
		if p.Type == nil {
			pt = c.fresh()
		}
		names[i] = p.Name.Text
		e = e.extend(names[i], pt)
	}
	bodyType, bodyB, err := c.inferExpr(e, decl.Body)
	if err != nil {
		c.fail(err)
		return
	}
	if err := c.unify(bodyType, core.Primitive(core.KBool), decl.Span); err != nil {
		c.fail(err)
		return
	}
	body, err := bodyB(c)
	if err != nil {
		c.fail(err)
		return
	}
	prog.Functions[qn.Key()] = &ir.FunctionDef{Name: qn, Params: names, Body: body}
}

// checkBoundedLattice fills in the Bot/Top/Leq/Lub/Glb/Widen QNames
// BuildSymbolTable left unresolved, completing the declaration's
// bounded-lattice metadata; BuildSymbolTable only had the element type
// to go on.
func (c *checker) checkBoundedLattice(ns []string, decl ast.BoundedLatticeDecl) {
	qn := core.NewQName(ns, decl.Name.Text)
	cur, ok := c.table.Lookup(qn)
	if !ok || cur.Lattice == nil {
		c.fail(ErrTypeMismatch.New(decl.Span, "a registered bounded lattice", qn.String()))
		return
	}
	if len(decl.Elements) != 5 {
		c.fail(ErrTypeMismatch.New(decl.Span, "exactly 5 lattice elements (bot, top, leq, lub, glb)", ""))
		return
	}
	names := make([]core.QName, 5)
	for i, elm := range decl.Elements {
		ev, ok := elm.(ast.EVar)
		if !ok {
			c.fail(ErrTypeMismatch.New(decl.Span, "a function reference", "non-variable expression"))
			return
		}
		fqn, err := resolve.Resolve(ns, ev.Name, c.table)
		if err != nil {
			c.fail(err)
			return
		}
		names[i] = fqn
	}
	meta := &core.LatticeMeta{
		ElemType: cur.Lattice.ElemType,
		Bot:      names[0], Top: names[1], Leq: names[2], Lub: names[3], Glb: names[4],
	}
	if decl.Widen != nil {
		if ev, ok := decl.Widen.(ast.EVar); ok {
			fqn, err := resolve.Resolve(ns, ev.Name, c.table)
			if err == nil {
				meta.Widen = &fqn
			} else {
				c.fail(err)
			}
		}
	}
	c.table.Replace(qn, &core.Declaration{
		Kind: core.DeclBoundedLattice, Name: qn, Pos: cur.Pos, Lattice: meta,
	})
}

// checkRule type-checks one fact or Horn-clause rule, threading the
// environment body atoms bind through to later atoms and the head.
func (c *checker) checkRule(ns []string, decl ast.Rule, prog *ir.Program) {
	e := env{}
	var bodyAtoms []ir.BodyAtom
	for _, atom := range decl.Body {
		ba, next, err := c.checkBodyAtom(ns, e, atom)
		if err != nil {
			c.fail(err)
			return
		}
		e = next
		bodyAtoms = append(bodyAtoms, ba)
	}

	relQN, err := resolve.Resolve(ns, decl.Head.Name, c.table)
	if err != nil {
		c.fail(err)
		return
	}
	relDecl, ok := c.table.Lookup(relQN)
	if !ok || relDecl.Schema == nil {
		c.fail(ErrTypeMismatch.New(decl.Span, "a registered relation or lattice table", relQN.String()))
		return
	}
	if len(decl.Head.Terms) != len(relDecl.Schema.Attrs) {
		c.fail(ErrArityMismatch.New(decl.Span, len(relDecl.Schema.Attrs), len(decl.Head.Terms)))
		return
	}
	termBs := make([]builder, len(decl.Head.Terms))
	for i, term := range decl.Head.Terms {
		tt, tb, err := c.inferExpr(e, term)
		if err != nil {
			c.fail(err)
			return
		}
		if err := c.unify(tt, relDecl.Schema.Attrs[i].Type, decl.Span); err != nil {
			c.fail(err)
			return
		}
		termBs[i] = tb
	}
	terms := make([]ir.Expr, len(termBs))
	for i, tb := range termBs {
		v, err := tb(c)
		if err != nil {
			c.fail(err)
			return
		}
		terms[i] = v
	}
	if len(bodyAtoms) == 0 {
		prog.Facts = append(prog.Facts, ir.Fact{Relation: relQN.Key(), Terms: terms})
		return
	}
	prog.Rules = append(prog.Rules, ir.Rule{HeadRelation: relQN.Key(), HeadTerms: terms, Body: bodyAtoms})
}

func (c *checker) checkBodyAtom(ns []string, e env, atom ast.BodyAtom) (ir.BodyAtom, env, error) {
	switch a := atom.(type) {
	case ast.AtomPredicate:
		return c.checkAtomPredicate(ns, e, a)
	case ast.AtomAlias:
		t, b, err := c.inferExpr(e, a.Term)
		if err != nil {
			return ir.BodyAtom{}, nil, err
		}
		term, err := b(c)
		if err != nil {
			return ir.BodyAtom{}, nil, err
		}
		return ir.BodyAtom{Kind: ir.AtomAlias, Var: a.Name.Text, Term: term}, e.extend(a.Name.Text, t), nil
	case ast.AtomNotEqual:
		lt, lb, err := c.inferExpr(e, a.Lhs)
		if err != nil {
			return ir.BodyAtom{}, nil, err
		}
		rt, rb, err := c.inferExpr(e, a.Rhs)
		if err != nil {
			return ir.BodyAtom{}, nil, err
		}
		if err := c.unify(lt, rt, a.Span); err != nil {
			return ir.BodyAtom{}, nil, err
		}
		lhs, err := lb(c)
		if err != nil {
			return ir.BodyAtom{}, nil, err
		}
		rhs, err := rb(c)
		if err != nil {
			return ir.BodyAtom{}, nil, err
		}
		return ir.BodyAtom{Kind: ir.AtomNotEqual, Lhs: lhs, Rhs: rhs}, e, nil
	case ast.AtomLoop:
		t, b, err := c.inferExpr(e, a.Term)
		if err != nil {
			return ir.BodyAtom{}, nil, err
		}
		elemType := c.fresh()
		if err := c.unify(t, core.Parametric(core.NewQName(nil, "List"), elemType), a.Span); err != nil {
			// Not a List: fall back to accepting any parametric
			// container whose sole argument is the loop variable's type.
			resolved := c.resolve(t)
			if resolved.Kind != core.KParametric || len(resolved.Args) != 1 {
				return ir.BodyAtom{}, nil, ErrNotIterable.New(resolved.String(), a.Span)
			}
			elemType = resolved.Args[0]
		}
		term, err := b(c)
		if err != nil {
			return ir.BodyAtom{}, nil, err
		}
		return ir.BodyAtom{Kind: ir.AtomLoop, Var: a.Var.Text, Term: term}, e.extend(a.Var.Text, elemType), nil
	default:
		return ir.BodyAtom{}, nil, ErrTypeMismatch.New(ast.Span{}, "a known body-atom form", "unsupported")
	}
}

func (c *checker) checkAtomPredicate(ns []string, e env, a ast.AtomPredicate) (ir.BodyAtom, env, error) {
	relQN, err := resolve.Resolve(ns, a.Pred.Name, c.table)
	if err != nil {
		return ir.BodyAtom{}, nil, err
	}
	relDecl, ok := c.table.Lookup(relQN)
	if !ok || relDecl.Schema == nil {
		return ir.BodyAtom{}, nil, ErrTypeMismatch.New(a.Pred.Span, "a registered relation or lattice table", relQN.String())
	}
	if len(a.Pred.Terms) != len(relDecl.Schema.Attrs) {
		return ir.BodyAtom{}, nil, ErrArityMismatch.New(a.Pred.Span, len(relDecl.Schema.Attrs), len(a.Pred.Terms))
	}
	terms := make([]ir.Expr, len(a.Pred.Terms))
	next := e
	for i, term := range a.Pred.Terms {
		col := relDecl.Schema.Attrs[i]
		if v, isVar := term.(ast.EVar); isVar && len(v.Name.Namespace) == 0 {
			name := v.Name.Leaf.Text
			if bound, already := next[name]; already {
				if err := c.unify(bound, col.Type, a.Pred.Span); err != nil {
					return ir.BodyAtom{}, nil, err
				}
			} else {
				next = next.extend(name, col.Type)
			}
			terms[i] = ir.NewVarRef(name, c.applyDeep(col.Type), v.Span)
			continue
		}
		tt, tb, err := c.inferExpr(next, term)
		if err != nil {
			return ir.BodyAtom{}, nil, err
		}
		if err := c.unify(tt, col.Type, a.Pred.Span); err != nil {
			return ir.BodyAtom{}, nil, err
		}
		v, err := tb(c)
		if err != nil {
			return ir.BodyAtom{}, nil, err
		}
		terms[i] = v
	}
	return ir.BodyAtom{Kind: ir.AtomLookup, Relation: relQN.Key(), Terms: terms, Negated: a.Neg}, next, nil
}
