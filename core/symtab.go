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

package core

import (
	"sync"

	"github.com/flix-lang/flix/ast"
)

// DeclKind discriminates the declaration-arena entries.
type DeclKind int

const (
	DeclValue DeclKind = iota
	DeclFunction
	DeclEnum
	DeclRelation
	DeclLattice
	DeclLaw
	DeclClass
	DeclImpl
	DeclIndex
	DeclBoundedLattice
	DeclNamespace
)

// Declaration is one arena entry. IR nodes never point at a Declaration
// directly; they carry its QName and dereference through the
// SymbolTable.
type Declaration struct {
	Kind DeclKind
	Name QName
	Pos  ast.Pos

	// DeclEnum
	Tags map[string]Type

	// DeclRelation / DeclLattice: the table schema, set by the Weeder.
	Schema *Schema

	// DeclFunction / DeclValue
	ParamTypes []Type
	RetType    Type

	// DeclBoundedLattice
	Lattice *LatticeMeta

	// DeclIndex
	IndexKeys [][]string

	Annotations []string
}

// LatticeMeta is the algebraic-law record for one bounded lattice
// instance: bot, top, leq, lub, glb, and an optional widen, all over a
// single element type T.
type LatticeMeta struct {
	ElemType Type
	Bot      QName
	Top      QName
	Leq      QName
	Lub      QName
	Glb      QName
	Widen    *QName // nil if undeclared
}

// SymbolTable maps a fully qualified name to the set of declarations
// registered under it. During resolution more than one Declaration may
// be registered per name (overloading candidates); after disambiguation
// exactly one must remain reachable from each call site.
//
// The table grows only during resolution (monotone) and is read-only
// once the Resolver phase completes.
type SymbolTable struct {
	mu      sync.RWMutex
	entries map[string][]*Declaration
	frozen  bool
}

// NewSymbolTable builds an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: make(map[string][]*Declaration)}
}

// Declare registers a new declaration candidate under its name. It is a
// programmer error (panic) to Declare after Freeze.
func (t *SymbolTable) Declare(d *Declaration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frozen {
		panic("core: Declare called on a frozen SymbolTable")
	}
	key := d.Name.Key()
	t.entries[key] = append(t.entries[key], d)
}

// Freeze marks the table read-only; called once resolution/disambiguation
// completes.
func (t *SymbolTable) Freeze() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frozen = true
}

// Candidates returns every declaration registered under name, in
// declaration order.
func (t *SymbolTable) Candidates(name QName) []*Declaration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cs := t.entries[name.Key()]
	out := make([]*Declaration, len(cs))
	copy(out, cs)
	return out
}

// Lookup returns the single declaration registered under name. It is a
// contract violation to call Lookup before disambiguation has reduced
// every name to exactly one candidate; callers after the Resolver phase
// may rely on that invariant.
func (t *SymbolTable) Lookup(name QName) (*Declaration, bool) {
	cs := t.Candidates(name)
	if len(cs) != 1 {
		return nil, false
	}
	return cs[0], true
}

// Replace substitutes the full candidate set for a name, used by the
// Resolver once it has picked the single winning candidate out of an
// overload set.
func (t *SymbolTable) Replace(name QName, d *Declaration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frozen {
		panic("core: Replace called on a frozen SymbolTable")
	}
	t.entries[name.Key()] = []*Declaration{d}
}

// All returns every declaration in the table, in no particular order;
// used by the Verifier to enumerate law-bearing declarations.
func (t *SymbolTable) All() []*Declaration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []*Declaration
	for _, cs := range t.entries {
		out = append(out, cs...)
	}
	return out
}
