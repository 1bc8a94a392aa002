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

import "github.com/flix-lang/flix/core"

// FunctionDef is a frozen top-level function, keyed by its fully
// qualified name (core.QName.Key()) in Program.Functions.
type FunctionDef struct {
	Name   core.QName
	Params []string
	Body   Expr
}

// Fact is a ground rule head with no body.
type Fact struct {
	Relation string
	Terms    []Expr
}

// BodyAtomKind discriminates the four frozen body-atom forms a rule body
// may contain.
type BodyAtomKind int

const (
	AtomLookup BodyAtomKind = iota
	AtomAlias
	AtomNotEqual
	AtomLoop
)

// BodyAtom is one frozen rule-body atom.
type BodyAtom struct {
	Kind BodyAtomKind

	// AtomLookup
	Relation string
	Terms    []Expr
	Negated  bool

	// AtomAlias / AtomLoop
	Var  string
	Term Expr

	// AtomNotEqual
	Lhs, Rhs Expr
}

// Rule is `Head :- Body` (Body empty for a ground fact, handled instead
// via Program.Facts for clarity).
type Rule struct {
	HeadRelation string
	HeadTerms    []Expr
	Body         []BodyAtom
}

// Program is the frozen output of the Simplifier: everything the Solver
// and Verifier need, with no remaining references back into the
// surface-syntax ast package.
type Program struct {
	Symbols   *core.SymbolTable
	Functions map[string]*FunctionDef
	Facts     []Fact
	Rules     []Rule
}

// NewProgram creates an empty frozen program bound to a symbol table.
func NewProgram(symbols *core.SymbolTable) *Program {
	return &Program{Symbols: symbols, Functions: map[string]*FunctionDef{}}
}

// Lookup finds a top-level function definition by fully qualified name.
func (p *Program) Lookup(name string) (*FunctionDef, bool) {
	f, ok := p.Functions[name]
	return f, ok
}
