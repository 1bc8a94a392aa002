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

// Package ir holds the frozen intermediate representation: typed
// expression nodes, patterns, and the runtime value model the Solver and
// Verifier's law-checking evaluator operate over.
package ir

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/mitchellh/hashstructure"

	"github.com/flix-lang/flix/core"
)

// ValueKind discriminates the closed value universe a running program can
// produce.
type ValueKind int

const (
	VUnit ValueKind = iota
	VBool
	VChar
	VInt
	VBigInt
	VFloat
	VStr
	VTuple
	VTag
	VList
	VSet
	VMap
	VClosure
)

// MapEntry is one key/value pair of a VMap value.
type MapEntry struct {
	Key Value
	Val Value
}

// Value is the runtime value representation: a closed sum type rendered
// as a dense struct (mirroring core.Type) rather than an interface
// hierarchy, since the Solver constructs and hashes many of these per
// round and avoiding per-variant boxing keeps that path simple.
type Value struct {
	Kind ValueKind

	B    bool
	Ch   rune
	I    int64
	Big  *big.Int
	F    float64
	S    string
	Elms []Value // VTuple, VList

	Tag     string
	Payload *Value // VTag, nil for a unit-payload tag

	SetElms []Value    // VSet, kept sorted by Hash for determinism
	MapElms []MapEntry // VMap, kept sorted by key Hash for determinism

	Closure *Closure // VClosure
}

// Closure pairs a lambda's captured environment with its body.
type Closure struct {
	Params []string
	Body   Expr
	Env    *Env
}

func Unit() Value              { return Value{Kind: VUnit} }
func Bool(b bool) Value        { return Value{Kind: VBool, B: b} }
func Char(c rune) Value        { return Value{Kind: VChar, Ch: c} }
func Int(i int64) Value        { return Value{Kind: VInt, I: i} }
func BigInt(b *big.Int) Value  { return Value{Kind: VBigInt, Big: b} }
func Float(f float64) Value    { return Value{Kind: VFloat, F: f} }
func Str(s string) Value       { return Value{Kind: VStr, S: s} }
func TupleVal(es ...Value) Value { return Value{Kind: VTuple, Elms: es} }
func ListVal(es ...Value) Value  { return Value{Kind: VList, Elms: es} }

// TagVal constructs a tagged value; payload may be nil only if the tag
// genuinely has no payload (the Weeder otherwise inserts an implicit
// Unit payload).
func TagVal(tag string, payload *Value) Value {
	return Value{Kind: VTag, Tag: tag, Payload: payload}
}

// NoneVal / SomeVal represent Option as the two-case enum it desugars to.
func NoneVal() Value { return TagVal("None", nil) }
func SomeVal(v Value) Value {
	p := v
	return TagVal("Some", &p)
}

// SetVal builds a VSet with a canonical (hash-sorted) element order so
// that two structurally equal sets hash and print identically regardless
// of insertion order.
func SetVal(es ...Value) Value {
	sort.Slice(es, func(i, j int) bool { return Hash(es[i]) < Hash(es[j]) })
	return Value{Kind: VSet, SetElms: dedupSorted(es)}
}

func dedupSorted(es []Value) []Value {
	if len(es) == 0 {
		return es
	}
	out := es[:1]
	for _, e := range es[1:] {
		if !out[len(out)-1].Equal(e) {
			out = append(out, e)
		}
	}
	return out
}

// MapVal builds a VMap with entries canonically ordered by key hash.
func MapVal(entries ...MapEntry) Value {
	sort.Slice(entries, func(i, j int) bool { return Hash(entries[i].Key) < Hash(entries[j].Key) })
	return Value{Kind: VMap, MapElms: entries}
}

// Equal is structural equality over the value universe. Closures are
// never equal to anything (including themselves by value), matching the
// language's own stance that function values are opaque.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case VUnit:
		return true
	case VBool:
		return v.B == o.B
	case VChar:
		return v.Ch == o.Ch
	case VInt:
		return v.I == o.I
	case VBigInt:
		return v.Big.Cmp(o.Big) == 0
	case VFloat:
		return v.F == o.F
	case VStr:
		return v.S == o.S
	case VTuple, VList:
		if len(v.Elms) != len(o.Elms) {
			return false
		}
		for i := range v.Elms {
			if !v.Elms[i].Equal(o.Elms[i]) {
				return false
			}
		}
		return true
	case VTag:
		if v.Tag != o.Tag {
			return false
		}
		if (v.Payload == nil) != (o.Payload == nil) {
			return false
		}
		return v.Payload == nil || v.Payload.Equal(*o.Payload)
	case VSet:
		if len(v.SetElms) != len(o.SetElms) {
			return false
		}
		for i := range v.SetElms {
			if !v.SetElms[i].Equal(o.SetElms[i]) {
				return false
			}
		}
		return true
	case VMap:
		if len(v.MapElms) != len(o.MapElms) {
			return false
		}
		for i := range v.MapElms {
			if !v.MapElms[i].Key.Equal(o.MapElms[i].Key) || !v.MapElms[i].Val.Equal(o.MapElms[i].Val) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// hashable is the structural projection of a Value that hashstructure
// can walk; Closures are excluded (not structurally hashable) and never
// appear as fact-tuple attributes.
type hashable struct {
	Kind    ValueKind
	B       bool
	Ch      rune
	I       int64
	Big     string
	F       float64
	S       string
	Elms    []hashable
	Tag     string
	Payload *hashable
	SetElms []hashable
	MapElms []mapEntryHashable
}

type mapEntryHashable struct {
	Key hashable
	Val hashable
}

func toHashable(v Value) hashable {
	h := hashable{Kind: v.Kind, B: v.B, Ch: v.Ch, I: v.I, F: v.F, S: v.S, Tag: v.Tag}
	if v.Big != nil {
		h.Big = v.Big.String()
	}
	for _, e := range v.Elms {
		h.Elms = append(h.Elms, toHashable(e))
	}
	if v.Payload != nil {
		p := toHashable(*v.Payload)
		h.Payload = &p
	}
	for _, e := range v.SetElms {
		h.SetElms = append(h.SetElms, toHashable(e))
	}
	for _, e := range v.MapElms {
		h.MapElms = append(h.MapElms, mapEntryHashable{toHashable(e.Key), toHashable(e.Val)})
	}
	return h
}

// Hash computes a structural hash for v using
// github.com/mitchellh/hashstructure, used by the Solver to key each
// table's rows by their key columns (it keeps no per-index hash maps)
// and by the Set/Map canonical ordering above.
func Hash(v Value) uint64 {
	h, err := hashstructure.Hash(toHashable(v), nil)
	if err != nil {
		// hashstructure only fails on unsupported field kinds; the
		// hashable projection above deliberately avoids all of them.
		panic(fmt.Sprintf("ir: unhashable value: %v", err))
	}
	return h
}

// String renders a value in Flix-ish surface notation for diagnostics.
func (v Value) String() string {
	switch v.Kind {
	case VUnit:
		return "()"
	case VBool:
		return fmt.Sprintf("%t", v.B)
	case VChar:
		return fmt.Sprintf("%q", v.Ch)
	case VInt:
		return fmt.Sprintf("%d", v.I)
	case VBigInt:
		return v.Big.String()
	case VFloat:
		return fmt.Sprintf("%g", v.F)
	case VStr:
		return fmt.Sprintf("%q", v.S)
	case VTuple:
		return tupleString(v.Elms)
	case VList:
		return listString(v.Elms)
	case VTag:
		if v.Payload == nil {
			return v.Tag
		}
		return fmt.Sprintf("%s(%s)", v.Tag, v.Payload.String())
	case VSet:
		return setString(v.SetElms)
	case VMap:
		return mapString(v.MapElms)
	case VClosure:
		return "<closure>"
	default:
		return "?"
	}
}

func tupleString(es []Value) string {
	s := "("
	for i, e := range es {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + ")"
}

func listString(es []Value) string {
	s := "["
	for i, e := range es {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + "]"
}

func setString(es []Value) string {
	s := "{"
	for i, e := range es {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + "}"
}

func mapString(es []MapEntry) string {
	s := "{"
	for i, e := range es {
		if i > 0 {
			s += ", "
		}
		s += e.Key.String() + " -> " + e.Val.String()
	}
	return s + "}"
}

// TypeOf returns the declared type a literal of this shape would carry,
// used by the lattice metadata lookup when a rule joins a freshly
// evaluated term against a Lattice-table's declared element type.
func TypeOf(v Value, declared core.Type) core.Type { return declared }
