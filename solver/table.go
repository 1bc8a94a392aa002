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

// Row is one stored row. For a Relational table, Key holds every
// attribute and Elem is unused. For a Lattice table, Key holds the key
// columns and Elem holds the current least upper bound at that key.
type Row struct {
	Key  []ir.Value
	Elem ir.Value
}

// Values returns the full attribute tuple for the row, key columns
// followed by the element column for a Lattice table.
func (r Row) Values(kind core.TableKind) []ir.Value {
	if kind != core.TableLattice {
		return r.Key
	}
	out := make([]ir.Value, 0, len(r.Key)+1)
	out = append(out, r.Key...)
	out = append(out, r.Elem)
	return out
}

func keyHash(key []ir.Value) uint64 { return ir.Hash(ir.TupleVal(key...)) }

// Table is one relation or lattice-table's mutable fact store, keyed by
// the hash of its key columns (all columns, for a Relational table).
type Table struct {
	Schema  *core.Schema
	Meta    *core.LatticeMeta // nil for a Relational table
	Rows    map[uint64]Row
	Delta   map[uint64]Row
	botElem ir.Value
	hasBot  bool
}

func newTable(schema *core.Schema, meta *core.LatticeMeta) *Table {
	return &Table{
		Schema: schema,
		Meta:   meta,
		Rows:   map[uint64]Row{},
		Delta:  map[uint64]Row{},
	}
}

// Insert applies the lattice-aware insertion rule and, if the table's
// state actually changed, records the row in dest (the round's
// in-progress delta) and returns true.
func (t *Table) Insert(prog *ir.Program, row Row, dest map[uint64]Row) (bool, error) {
	if t.Schema.Kind == core.TableRelation {
		h := keyHash(row.Key)
		if _, ok := t.Rows[h]; ok {
			return false, nil
		}
		t.Rows[h] = row
		dest[h] = row
		return true, nil
	}
	return t.insertLattice(prog, row, dest)
}

func (t *Table) insertLattice(prog *ir.Program, row Row, dest map[uint64]Row) (bool, error) {
	if t.Meta == nil {
		return false, ErrNoLatticeInstance.New(t.Schema.Name.String())
	}
	h := keyHash(row.Key)
	v0, err := t.bottomOr(prog, h)
	if err != nil {
		return false, err
	}
	if err := t.checkShape(v0, row.Elem); err != nil {
		return false, err
	}
	v1, err := ir.CallFunction(prog, t.Meta.Lub.Key(), []ir.Value{v0, row.Elem})
	if err != nil {
		return false, wrapEvalErr(err)
	}
	noProgress, err := ir.CallFunction(prog, t.Meta.Leq.Key(), []ir.Value{v1, v0})
	if err != nil {
		return false, wrapEvalErr(err)
	}
	if noProgress.B {
		return false, nil
	}
	next := Row{Key: row.Key, Elem: v1}
	t.Rows[h] = next
	dest[h] = next
	return true, nil
}

func (t *Table) bottomOr(prog *ir.Program, h uint64) (ir.Value, error) {
	if cur, ok := t.Rows[h]; ok {
		return cur.Elem, nil
	}
	if !t.hasBot {
		v, err := ir.CallFunction(prog, t.Meta.Bot.Key(), nil)
		if err != nil {
			return ir.Value{}, wrapEvalErr(err)
		}
		t.botElem, t.hasBot = v, true
	}
	return t.botElem, nil
}

func (t *Table) checkShape(bot, v ir.Value) error {
	if bot.Kind != v.Kind {
		return ErrLatticeJoinTypeMismatch.New(t.Schema.Name.String(), bot.String(), v.String())
	}
	return nil
}

func wrapEvalErr(err error) error {
	if ue, ok := err.(ir.UserAbortError); ok {
		return ErrUserError.New(ue.Message)
	}
	return err
}

// findLatticeMeta scans the symbol table for the BoundedLattice instance
// whose element type structurally matches elemType.
func findLatticeMeta(table *core.SymbolTable, elemType core.Type) *core.LatticeMeta {
	for _, d := range table.All() {
		if d.Kind != core.DeclBoundedLattice || d.Lattice == nil {
			continue
		}
		if d.Lattice.ElemType.Equal(elemType) {
			return d.Lattice
		}
	}
	return nil
}
