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

package ast

// Decl is the surface syntax for any top-level or namespace-nested
// declaration.
type Decl interface{ declNode() }

type (
	Def struct {
		Annotations []Annotation
		Name        Ident
		Params      []FormalParam
		RetType     Type
		Body        Expr
		Span        Span
	}

	EnumCase struct {
		Tag     Ident
		Payload Type // nil for a unit-payload case
	}
	Enum struct {
		Name  Ident
		Cases []EnumCase
		Span  Span
	}

	Relation struct {
		Name  Ident
		Attrs []Attribute
		Span  Span
	}
	// LatticeTable is the surface `lat Name(k1: T1, ..., v: TV)` form;
	// the last attribute becomes the lattice-valued element during
	// weeding.
	LatticeTable struct {
		Name  Ident
		Attrs []Attribute
		Span  Span
	}
	Attribute struct {
		Name Ident
		Type Type
	}

	// Index is the surface `index Name({a, b}, {c})` form.
	Index struct {
		Relation Name
		Keys     [][]Ident
		Span     Span
	}

	// BoundedLatticeDecl is the surface
	// `let Name<>: Type = (bot, top, leq, lub, glb)` form.
	BoundedLatticeDecl struct {
		Name     Ident
		ElemType Type
		Elements []Expr
		Widen    Expr // optional, nil if absent
		Span     Span
	}

	Class struct {
		Name    Ident
		TParam  Ident
		Sigs    []Def
		Span    Span
	}
	Impl struct {
		Class   Name
		ForType Type
		Defs    []Def
		Span    Span
	}
	Law struct {
		Annotations []Annotation
		Name        Ident
		Params      []FormalParam
		Body        Expr
		Span        Span
	}

	Namespace struct {
		Name  []Ident
		Decls []Decl
		Span  Span
	}

	// Rule is a fact (empty Body) or a Horn clause `Head :- Body`.
	Rule struct {
		Head Predicate
		Body []BodyAtom
		Span Span
	}
)

func (Def) declNode()                {}
func (Enum) declNode()                {}
func (Relation) declNode()            {}
func (LatticeTable) declNode()        {}
func (Index) declNode()               {}
func (BoundedLatticeDecl) declNode()  {}
func (Class) declNode()               {}
func (Impl) declNode()                {}
func (Law) declNode()                 {}
func (Namespace) declNode()           {}
func (Rule) declNode()                {}

// Predicate is `Name(term, term, ...)` appearing as a rule head or as a
// positive body atom.
type Predicate struct {
	Name  Name
	Terms []Expr
	Span  Span
}

// BodyAtom is one of the four body-atom forms a rule body may contain:
// a relational lookup, an alias binding, a disequality, or a loop.
type BodyAtom interface{ bodyAtomNode() }

type (
	AtomPredicate struct {
		Pred Predicate
		Neg  bool
	}
	// AtomAlias is `ident = term`.
	AtomAlias struct {
		Name Ident
		Term Expr
		Span Span
	}
	// AtomNotEqual is `x != y`.
	AtomNotEqual struct {
		Lhs, Rhs Expr
		Span     Span
	}
	// AtomLoop is `x <- term` (`x in S`).
	AtomLoop struct {
		Var  Ident
		Term Expr
		Span Span
	}
)

func (AtomPredicate) bodyAtomNode() {}
func (AtomAlias) bodyAtomNode()     {}
func (AtomNotEqual) bodyAtomNode()  {}
func (AtomLoop) bodyAtomNode()      {}

// Root is the top of the parse tree: the full set of namespace-qualified
// declarations making up one compilation.
type Root struct {
	Decls []Decl
}
