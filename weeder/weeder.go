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

package weeder

import (
	"math/big"
	"strconv"

	"github.com/flix-lang/flix/ast"
)

// Weeder accumulates errors across an entire Root so that independent
// failures are reported together instead of stopping at the first one.
type Weeder struct {
	errs []error
}

// Weed validates and desugars a parse tree. It always returns a tree (so
// later phases have something to walk even on error) alongside every
// accumulated error; callers must check len(errs) == 0 before trusting
// the tree's "first phase with any error prevents later
// phases from running".
func Weed(root *ast.Root) (*ast.Root, []error) {
	w := &Weeder{}
	out := &ast.Root{Decls: make([]ast.Decl, len(root.Decls))}
	for i, d := range root.Decls {
		out.Decls[i] = w.decl(d)
	}
	return out, w.errs
}

func (w *Weeder) fail(err error) { w.errs = append(w.errs, err) }

func (w *Weeder) decl(d ast.Decl) ast.Decl {
	switch n := d.(type) {
	case ast.Def:
		return w.def(n)
	case ast.Enum:
		return w.enum(n)
	case ast.Relation:
		return w.relation(n)
	case ast.LatticeTable:
		return w.latticeTable(n)
	case ast.Index:
		return w.index(n)
	case ast.BoundedLatticeDecl:
		return w.boundedLattice(n)
	case ast.Class:
		sigs := make([]ast.Def, len(n.Sigs))
		for i, s := range n.Sigs {
			sigs[i] = w.def(s)
		}
		n.Sigs = sigs
		return n
	case ast.Impl:
		defs := make([]ast.Def, len(n.Defs))
		for i, s := range n.Defs {
			defs[i] = w.def(s)
		}
		n.Defs = defs
		return n
	case ast.Law:
		n.Annotations = w.annotations(n.Annotations)
		n.Params = w.formals("law "+n.Name.Text, n.Params)
		n.Body = w.expr(n.Body)
		return n
	case ast.Namespace:
		decls := make([]ast.Decl, len(n.Decls))
		for i, sub := range n.Decls {
			decls[i] = w.decl(sub)
		}
		n.Decls = decls
		return n
	case ast.Rule:
		return w.rule(n)
	default:
		return d
	}
}

func (w *Weeder) def(d ast.Def) ast.Def {
	d.Annotations = w.annotations(d.Annotations)
	if len(d.Params) == 0 {
		w.fail(ErrIllegalParameterList.New("def "+d.Name.Text, d.Span.Start))
	}
	d.Params = w.formals("def "+d.Name.Text, d.Params)
	d.Body = w.expr(d.Body)
	return d
}

func (w *Weeder) annotations(anns []ast.Annotation) []ast.Annotation {
	seen := map[string]ast.Pos{}
	out := make([]ast.Annotation, 0, len(anns))
	for _, a := range anns {
		if !recognizedAnnotations[a.Name.Text] {
			w.fail(ErrIllegalAnnotation.New(a.Name.Text, a.Pos))
			continue
		}
		if first, ok := seen[a.Name.Text]; ok {
			w.fail(ErrDuplicateAnnotation.New(a.Name.Text, a.Pos, first))
			continue
		}
		seen[a.Name.Text] = a.Pos
		out = append(out, a)
	}
	return out
}

func (w *Weeder) formals(ctx string, params []ast.FormalParam) []ast.FormalParam {
	seen := map[string]ast.Pos{}
	for _, p := range params {
		if _, ok := seen[p.Name.Text]; ok {
			w.fail(ErrDuplicateFormal.New(p.Name.Text, ctx, p.Pos))
			continue
		}
		seen[p.Name.Text] = p.Pos
	}
	return params
}

func (w *Weeder) enum(e ast.Enum) ast.Enum {
	seen := map[string]ast.Pos{}
	for _, c := range e.Cases {
		if first, ok := seen[c.Tag.Text]; ok {
			w.fail(ErrDuplicateTag.New(c.Tag.Text, e.Name.Text, c.Tag.Pos, first))
			continue
		}
		seen[c.Tag.Text] = c.Tag.Pos
	}
	return e
}

func (w *Weeder) relation(r ast.Relation) ast.Relation {
	if len(r.Attrs) == 0 {
		w.fail(ErrEmptyRelation.New(r.Name.Text, r.Span.Start))
		return r
	}
	seen := map[string]bool{}
	for _, a := range r.Attrs {
		if seen[a.Name.Text] {
			w.fail(ErrDuplicateAttribute.New(a.Name.Text, r.Name.Text, a.Name.Pos))
			continue
		}
		seen[a.Name.Text] = true
	}
	return r
}

func (w *Weeder) latticeTable(l ast.LatticeTable) ast.LatticeTable {
	if len(l.Attrs) == 0 {
		w.fail(ErrEmptyLattice.New(l.Name.Text, l.Span.Start))
		return l
	}
	seen := map[string]bool{}
	for _, a := range l.Attrs {
		if seen[a.Name.Text] {
			w.fail(ErrDuplicateAttribute.New(a.Name.Text, l.Name.Text, a.Name.Pos))
			continue
		}
		seen[a.Name.Text] = true
	}
	// Last attribute becomes the lattice-valued element; the Solver looks
	// up the BoundedLattice instance for its type when it builds the
	// table, and an insert fails with ErrNoLatticeInstance if none exists.
	return l
}

func (w *Weeder) index(idx ast.Index) ast.Index {
	if len(idx.Keys) == 0 {
		w.fail(ErrEmptyIndex.New(idx.Relation.String(), idx.Span.Start))
		return idx
	}
	for _, key := range idx.Keys {
		if len(key) == 0 {
			w.fail(ErrIllegalIndex.New(idx.Relation.String(), idx.Span.Start))
		}
	}
	return idx
}

func (w *Weeder) boundedLattice(b ast.BoundedLatticeDecl) ast.BoundedLatticeDecl {
	if len(b.Elements) != 5 {
		w.fail(ErrIllegalLattice.New(b.Name.Text, len(b.Elements), b.Span.Start))
		return b
	}
	elms := make([]ast.Expr, len(b.Elements))
	for i, e := range b.Elements {
		elms[i] = w.expr(e)
	}
	b.Elements = elms
	if b.Widen != nil {
		b.Widen = w.expr(b.Widen)
	}
	return b
}

func (w *Weeder) rule(r ast.Rule) ast.Rule {
	switch r.Head.Name.String() {
	case "true", "false":
		w.fail(ErrIllegalHeadPredicate.New(r.Head.Name.String(), r.Head.Span.Start))
	}
	terms := make([]ast.Expr, len(r.Head.Terms))
	for i, t := range r.Head.Terms {
		terms[i] = w.expr(t)
	}
	r.Head.Terms = terms

	aliasSeen := map[string]ast.Pos{}
	body := make([]ast.BodyAtom, len(r.Body))
	for i, atom := range r.Body {
		switch a := atom.(type) {
		case ast.AtomAlias:
			if first, ok := aliasSeen[a.Name.Text]; ok {
				w.fail(ErrDuplicateAlias.New(a.Name.Text, a.Span.Start, first))
			} else {
				aliasSeen[a.Name.Text] = a.Span.Start
			}
			a.Term = w.expr(a.Term)
			body[i] = a
		case ast.AtomPredicate:
			ts := make([]ast.Expr, len(a.Pred.Terms))
			for j, t := range a.Pred.Terms {
				ts[j] = w.expr(t)
			}
			a.Pred.Terms = ts
			body[i] = a
		case ast.AtomNotEqual:
			a.Lhs = w.expr(a.Lhs)
			a.Rhs = w.expr(a.Rhs)
			body[i] = a
		case ast.AtomLoop:
			a.Term = w.expr(a.Term)
			body[i] = a
		default:
			body[i] = atom
		}
	}
	r.Body = body
	return r
}

// expr applies the full set of expression rewrites: operator/keyword
// desugaring, tuple normalization, implicit Unit payloads, wildcard
// rejection, and recursion into subexpressions.
func (w *Weeder) expr(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case ast.EWild:
		w.fail(ErrIllegalWildcard.New(n.Span.Start))
		return n
	case ast.ELit:
		w.checkLiteralBounds(n.Lit, n.Span)
		return n
	case ast.EBot, ast.ETop, ast.EVar:
		return n
	case ast.ELambda:
		n.Params = w.formals("lambda", n.Params)
		n.Body = w.expr(n.Body)
		return n
	case ast.EApp:
		n.Fn = w.expr(n.Fn)
		n.Args = w.exprs(n.Args)
		return n
	case ast.EInfixIdent:
		// Desugars to a call of the named function: `a \`f\` b` => f(a, b).
		return ast.EApp{
			Fn:   ast.EVar{Name: n.Fn, Span: n.Span},
			Args: []ast.Expr{w.expr(n.Lhs), w.expr(n.Rhs)},
			Span: n.Span,
		}
	case ast.EUnary:
		n.Opnd = w.expr(n.Opnd)
		return n
	case ast.EBinary:
		return w.binary(n)
	case ast.EIfThenElse:
		n.Cond = w.expr(n.Cond)
		n.Then = w.expr(n.Then)
		n.Else = w.expr(n.Else)
		return n
	case ast.ELetMatch:
		w.pattern(n.Pattern, map[string]ast.Pos{})
		n.Value = w.expr(n.Value)
		n.Body = w.expr(n.Body)
		return n
	case ast.EMatch:
		n.Scrutinee = w.expr(n.Scrutinee)
		rules := make([]ast.MatchRule, len(n.Rules))
		for i, r := range n.Rules {
			w.pattern(r.Pattern, map[string]ast.Pos{})
			var guard ast.Expr
			if r.Guard != nil {
				guard = w.expr(r.Guard)
			}
			rules[i] = ast.MatchRule{Pattern: r.Pattern, Guard: guard, Body: w.expr(r.Body)}
		}
		n.Rules = rules
		return n
	case ast.ETag:
		if n.Payload == nil {
			n.Payload = ast.ETuple{Elms: nil, Span: n.Span} // implicit Unit
		} else {
			n.Payload = w.expr(n.Payload)
		}
		return n
	case ast.ETuple:
		elms := w.exprs(n.Elms)
		switch len(elms) {
		case 0:
			return ast.ETuple{Elms: nil, Span: n.Span} // Unit
		case 1:
			return elms[0]
		default:
			return ast.ETuple{Elms: elms, Span: n.Span}
		}
	case ast.ECollection:
		n.Kind.Elms = w.exprs(n.Kind.Elms)
		for i, p := range n.Kind.Pairs {
			n.Kind.Pairs[i] = ast.MapEntryExpr{Key: w.expr(p.Key), Val: w.expr(p.Val)}
		}
		return n
	case ast.EExistential:
		if len(n.Params) == 0 {
			w.fail(ErrIllegalExistential.New(n.Span.Start))
		}
		n.Params = w.formals("existential", n.Params)
		n.Body = w.expr(n.Body)
		return n
	case ast.EUniversal:
		if len(n.Params) == 0 {
			w.fail(ErrIllegalUniversal.New(n.Span.Start))
		}
		n.Params = w.formals("universal", n.Params)
		n.Body = w.expr(n.Body)
		return n
	case ast.EAscribe:
		n.Value = w.expr(n.Value)
		return n
	case ast.EUserError:
		n.Message = w.expr(n.Message)
		return n
	default:
		return e
	}
}

func (w *Weeder) exprs(es []ast.Expr) []ast.Expr {
	out := make([]ast.Expr, len(es))
	for i, e := range es {
		out[i] = w.expr(e)
	}
	return out
}

// binary desugars the extended lattice operators (⊑ ⊔ ⊓ ▽ △) into calls
// of qualified functions named after those very operators.
func (w *Weeder) binary(n ast.EBinary) ast.Expr {
	lhs := w.expr(n.Lhs)
	rhs := w.expr(n.Rhs)
	switch n.Op {
	case ast.OpLeq, ast.OpLub, ast.OpGlb, ast.OpWiden, ast.OpNarrow:
		return ast.EApp{
			Fn:   ast.EVar{Name: ast.Name{Leaf: ast.Ident{Text: string(n.Op), Pos: n.Span.Start}}, Span: n.Span},
			Args: []ast.Expr{lhs, rhs},
			Span: n.Span,
		}
	default:
		n.Lhs, n.Rhs = lhs, rhs
		return n
	}
}

// pattern validates pattern linearity (no variable bound twice) and
// recurses into subpatterns/sub-literal bounds.
func (w *Weeder) pattern(p ast.Pattern, seen map[string]ast.Pos) {
	switch n := p.(type) {
	case ast.PatVar:
		if _, ok := seen[n.Name.Text]; ok {
			w.fail(ErrNonLinearPattern.New(n.Name.Text, n.Span.Start))
			return
		}
		seen[n.Name.Text] = n.Span.Start
	case ast.PatLit:
		w.checkLiteralBounds(n.Lit, n.Span)
	case ast.PatTag:
		if n.Payload != nil {
			w.pattern(n.Payload, seen)
		}
	case ast.PatTuple:
		for _, sub := range n.Elms {
			w.pattern(sub, seen)
		}
	case ast.PatWild:
		// Wildcards are fine in pattern position, unlike expression
		// position, where they are rejected.
	}
}

func (w *Weeder) checkLiteralBounds(lit ast.Literal, span ast.Span) {
	switch lit.Kind {
	case ast.LitInt8:
		if _, err := strconv.ParseInt(lit.Text, 10, 8); err != nil {
			w.fail(ErrIllegalInt.New(lit.Text, "Int8", span.Start))
		}
	case ast.LitInt16:
		if _, err := strconv.ParseInt(lit.Text, 10, 16); err != nil {
			w.fail(ErrIllegalInt.New(lit.Text, "Int16", span.Start))
		}
	case ast.LitInt32:
		if _, err := strconv.ParseInt(lit.Text, 10, 32); err != nil {
			w.fail(ErrIllegalInt.New(lit.Text, "Int32", span.Start))
		}
	case ast.LitInt64:
		if _, err := strconv.ParseInt(lit.Text, 10, 64); err != nil {
			w.fail(ErrIllegalInt.New(lit.Text, "Int64", span.Start))
		}
	case ast.LitBigInt:
		// BigInt has no host bound; any well-formed integer text parses.
		if _, ok := new(big.Int).SetString(lit.Text, 10); !ok {
			w.fail(ErrIllegalInt.New(lit.Text, "BigInt", span.Start))
		}
	case ast.LitFloat32:
		if _, err := strconv.ParseFloat(lit.Text, 32); err != nil {
			w.fail(ErrIllegalFloat.New(lit.Text, "Float32", span.Start))
		}
	case ast.LitFloat64:
		if _, err := strconv.ParseFloat(lit.Text, 64); err != nil {
			w.fail(ErrIllegalFloat.New(lit.Text, "Float64", span.Start))
		}
	}
}
