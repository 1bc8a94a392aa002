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

package solver

import (
	"github.com/flix-lang/flix/core"
	"github.com/flix-lang/flix/ir"
)

// DefaultMaxIterations bounds a Run when neither a height function nor a
// widening operator is present to prove convergence, so a bug in a user
// program cannot hang the solver forever.
const DefaultMaxIterations = 10000

// Config controls one Solver run.
type Config struct {
	// MaxIterations caps the number of semi-naive rounds. Zero selects
	// DefaultMaxIterations.
	MaxIterations int
}

// Solver evaluates an ir.Program to its join-least model.
type Solver struct {
	prog          *ir.Program
	tables        map[string]*Table
	maxIterations int
}

// New builds a Solver with one Table per declared Relation or
// Lattice-table found in prog's symbol table.
func New(prog *ir.Program, cfg Config) *Solver {
	max := cfg.MaxIterations
	if max <= 0 {
		max = DefaultMaxIterations
	}
	s := &Solver{prog: prog, tables: map[string]*Table{}, maxIterations: max}
	for _, d := range prog.Symbols.All() {
		if d.Kind != core.DeclRelation && d.Kind != core.DeclLattice || d.Schema == nil {
			continue
		}
		var meta *core.LatticeMeta
		if d.Schema.Kind == core.TableLattice {
			meta = findLatticeMeta(prog.Symbols, d.Schema.ElementColumn().Type)
		}
		s.tables[d.Name.Key()] = newTable(d.Schema, meta)
	}
	return s
}

// Table returns the fact store for a declared relation or lattice-table
// by fully qualified name, if one exists.
func (s *Solver) Table(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// binding is the set of body-variable bindings accumulated while
// evaluating one rule's body left to right.
type binding map[string]ir.Value

func (b binding) clone() binding {
	out := make(binding, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	return out
}

func (b binding) toEnv() *ir.Env {
	env := ir.NewEnv()
	for k, v := range b {
		env.Bind(k, v)
	}
	return env
}

// Run seeds every table from the program's facts, then iterates
// semi-naive rounds until every table's delta is empty. It returns
// ErrNonTerminating if MaxIterations is exhausted first.
func (s *Solver) Run() error {
	if err := s.seed(); err != nil {
		return err
	}
	for it := 0; it < s.maxIterations; it++ {
		if !s.anyDelta() {
			return nil
		}
		newDelta := map[string]map[uint64]Row{}
		for name := range s.tables {
			newDelta[name] = map[uint64]Row{}
		}
		for _, rule := range s.prog.Rules {
			if err := s.fireRule(rule, newDelta); err != nil {
				return err
			}
		}
		s.swapDeltas(newDelta)
	}
	return ErrNonTerminating.New(s.maxIterations)
}

func (s *Solver) anyDelta() bool {
	for _, t := range s.tables {
		if len(t.Delta) > 0 {
			return true
		}
	}
	return false
}

func (s *Solver) swapDeltas(newDelta map[string]map[uint64]Row) {
	for name, t := range s.tables {
		t.Delta = newDelta[name]
	}
}

// seed inserts every declared fact and fires every rule whose body
// contains no relational lookup exactly once; such a rule does not
// depend on any table's delta and would otherwise never satisfy the
// "body mentions a relation with non-empty delta" firing condition.
func (s *Solver) seed() error {
	seedDelta := map[string]map[uint64]Row{}
	for name := range s.tables {
		seedDelta[name] = map[uint64]Row{}
	}
	for _, fact := range s.prog.Facts {
		vals, err := evalTerms(s.prog, binding{}, fact.Terms)
		if err != nil {
			return wrapEvalErr(err)
		}
		if err := s.insertInto(fact.Relation, vals, seedDelta); err != nil {
			return err
		}
	}
	for _, rule := range s.prog.Rules {
		if countLookups(rule.Body) > 0 {
			continue
		}
		if err := s.joinBody(rule.Body, -1, binding{}, func(env binding) error {
			return s.fireHead(rule, env, seedDelta)
		}); err != nil {
			return err
		}
	}
	s.swapDeltas(seedDelta)
	return nil
}

func countLookups(body []ir.BodyAtom) int {
	n := 0
	for _, a := range body {
		if a.Kind == ir.AtomLookup {
			n++
		}
	}
	return n
}

// fireRule applies the semi-naive restriction: for each AtomLookup atom
// in turn, evaluate the body once with that atom drawn from its
// relation's delta and every other lookup atom drawn from the full
// fact set, so every candidate row has at least one delta-sourced atom.
func (s *Solver) fireRule(rule ir.Rule, newDelta map[string]map[uint64]Row) error {
	n := countLookups(rule.Body)
	if n == 0 {
		return nil
	}
	for deltaIdx := 0; deltaIdx < n; deltaIdx++ {
		relevant, err := s.deltaNonEmpty(rule.Body, deltaIdx)
		if err != nil {
			return err
		}
		if !relevant {
			continue
		}
		if err := s.joinBody(rule.Body, deltaIdx, binding{}, func(env binding) error {
			return s.fireHead(rule, env, newDelta)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Solver) deltaNonEmpty(body []ir.BodyAtom, deltaIdx int) (bool, error) {
	idx := 0
	for _, a := range body {
		if a.Kind != ir.AtomLookup {
			continue
		}
		if idx == deltaIdx {
			t, ok := s.tables[a.Relation]
			if !ok {
				return false, ErrNoLatticeInstance.New(a.Relation)
			}
			return len(t.Delta) > 0, nil
		}
		idx++
	}
	return false, nil
}

func (s *Solver) fireHead(rule ir.Rule, env binding, dest map[string]map[uint64]Row) error {
	vals, err := evalTerms(s.prog, env, rule.HeadTerms)
	if err != nil {
		return wrapEvalErr(err)
	}
	return s.insertInto(rule.HeadRelation, vals, dest)
}

func (s *Solver) insertInto(relation string, vals []ir.Value, dest map[string]map[uint64]Row) error {
	t, ok := s.tables[relation]
	if !ok {
		return ErrNoLatticeInstance.New(relation)
	}
	row := rowFromValues(t.Schema, vals)
	_, err := t.Insert(s.prog, row, dest[relation])
	return err
}

func rowFromValues(schema *core.Schema, vals []ir.Value) Row {
	if schema.Kind != core.TableLattice {
		return Row{Key: vals}
	}
	return Row{Key: vals[:len(vals)-1], Elem: vals[len(vals)-1]}
}

func evalTerms(prog *ir.Program, env binding, terms []ir.Expr) ([]ir.Value, error) {
	out := make([]ir.Value, len(terms))
	for i, term := range terms {
		v, err := ir.Eval(prog, env.toEnv(), term)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// joinBody performs a recursive backtracking join over the rule body in
// order, invoking emit once per complete binding that satisfies every
// atom. deltaIdx selects which AtomLookup (by ordinal position among
// lookup atoms) must be drawn from its relation's delta rather than its
// full fact set; -1 means no atom is delta-restricted.
func (s *Solver) joinBody(body []ir.BodyAtom, deltaIdx int, env binding, emit func(binding) error) error {
	return s.joinFrom(body, 0, 0, deltaIdx, env, emit)
}

func (s *Solver) joinFrom(body []ir.BodyAtom, i, lookupOrdinal, deltaIdx int, env binding, emit func(binding) error) error {
	if i == len(body) {
		return emit(env)
	}
	atom := body[i]
	switch atom.Kind {
	case ir.AtomLookup:
		return s.joinLookup(body, i, lookupOrdinal, deltaIdx, atom, env, emit)
	case ir.AtomAlias:
		v, err := ir.Eval(s.prog, env.toEnv(), atom.Term)
		if err != nil {
			return wrapEvalErr(err)
		}
		child := env.clone()
		child[atom.Var] = v
		return s.joinFrom(body, i+1, lookupOrdinal, deltaIdx, child, emit)
	case ir.AtomNotEqual:
		lv, err := ir.Eval(s.prog, env.toEnv(), atom.Lhs)
		if err != nil {
			return wrapEvalErr(err)
		}
		rv, err := ir.Eval(s.prog, env.toEnv(), atom.Rhs)
		if err != nil {
			return wrapEvalErr(err)
		}
		if lv.Equal(rv) {
			return nil
		}
		return s.joinFrom(body, i+1, lookupOrdinal, deltaIdx, env, emit)
	case ir.AtomLoop:
		v, err := ir.Eval(s.prog, env.toEnv(), atom.Term)
		if err != nil {
			return wrapEvalErr(err)
		}
		for _, elm := range loopElements(v) {
			child := env.clone()
			child[atom.Var] = elm
			if err := s.joinFrom(body, i+1, lookupOrdinal, deltaIdx, child, emit); err != nil {
				return err
			}
		}
		return nil
	default:
		return s.joinFrom(body, i+1, lookupOrdinal, deltaIdx, env, emit)
	}
}

func loopElements(v ir.Value) []ir.Value {
	switch v.Kind {
	case ir.VSet:
		return v.SetElms
	case ir.VList:
		return v.Elms
	default:
		return nil
	}
}

func (s *Solver) joinLookup(body []ir.BodyAtom, i, lookupOrdinal, deltaIdx int, atom ir.BodyAtom, env binding, emit func(binding) error) error {
	t, ok := s.tables[atom.Relation]
	if !ok {
		return ErrNoLatticeInstance.New(atom.Relation)
	}
	if atom.Negated {
		for _, term := range atom.Terms {
			if ref, ok := term.(ir.VarRef); ok {
				if _, bound := env[ref.Name]; !bound {
					return ErrUnsafeNegation.New(ref.Name, atom.Relation)
				}
			}
		}
		vals, err := evalTerms(s.prog, env, atom.Terms)
		if err != nil {
			return wrapEvalErr(err)
		}
		if _, found := t.Rows[keyHash(vals)]; found {
			return nil
		}
		return s.joinFrom(body, i+1, lookupOrdinal, deltaIdx, env, emit)
	}
	source := t.Rows
	if lookupOrdinal == deltaIdx {
		source = t.Delta
	}
	for _, row := range source {
		child := env.clone()
		if unifyTerms(s.prog, atom.Terms, row.Values(t.Schema.Kind), child) {
			if err := s.joinFrom(body, i+1, lookupOrdinal+1, deltaIdx, child, emit); err != nil {
				return err
			}
		}
	}
	return nil
}

// unifyTerms matches atom terms against a candidate row's values,
// binding the first occurrence of each variable and requiring equality
// on a repeat occurrence or a non-variable term.
func unifyTerms(prog *ir.Program, terms []ir.Expr, values []ir.Value, env binding) bool {
	if len(terms) != len(values) {
		return false
	}
	for i, term := range terms {
		if ref, ok := term.(ir.VarRef); ok {
			if bound, ok := env[ref.Name]; ok {
				if !bound.Equal(values[i]) {
					return false
				}
				continue
			}
			env[ref.Name] = values[i]
			continue
		}
		v, err := ir.Eval(prog, env.toEnv(), term)
		if err != nil || !v.Equal(values[i]) {
			return false
		}
	}
	return true
}
