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

// Package core holds the semantic-core types shared by every later phase:
// fully qualified names, the symbol table, the type language, and
// relational schemas. Everything here is frozen once built; see the
// lifecycle note on SymbolTable.
package core

import (
	"strings"

	"github.com/flix-lang/flix/ast"
)

// QName is a fully qualified name: an ordered sequence of namespace
// segments plus a leaf. Two QNames are equal iff their segment sequences
// are equal; position is not part of identity.
type QName struct {
	Segments []string
	Leaf     string
}

// NewQName builds a QName from namespace segments and a leaf.
func NewQName(namespace []string, leaf string) QName {
	segs := make([]string, len(namespace))
	copy(segs, namespace)
	return QName{Segments: segs, Leaf: leaf}
}

// FromAstName converts a surface ast.Name, unresolved, into a QName using
// its literal written segments (the Resolver is responsible for
// prepending the current namespace when that lookup succeeds).
func FromAstName(n ast.Name) QName {
	segs := make([]string, len(n.Namespace))
	for i, id := range n.Namespace {
		segs[i] = id.Text
	}
	return QName{Segments: segs, Leaf: n.Leaf.Text}
}

// Equal reports whether two QNames denote the same declaration.
func (q QName) Equal(o QName) bool {
	if q.Leaf != o.Leaf || len(q.Segments) != len(o.Segments) {
		return false
	}
	for i := range q.Segments {
		if q.Segments[i] != o.Segments[i] {
			return false
		}
	}
	return true
}

// String renders the QName in `a/b.leaf` form.
func (q QName) String() string {
	if len(q.Segments) == 0 {
		return q.Leaf
	}
	return strings.Join(q.Segments, "/") + "." + q.Leaf
}

// Key returns a value suitable for use as a map key; QName itself is not
// comparable (it holds a slice), so Key stringifies it.
func (q QName) Key() string { return q.String() }

// Prepend returns a new QName with extra namespace segments placed in
// front, used by the Resolver when trying `current-namespace ++ name`.
func (q QName) Prepend(prefix []string) QName {
	segs := make([]string, 0, len(prefix)+len(q.Segments))
	segs = append(segs, prefix...)
	segs = append(segs, q.Segments...)
	return QName{Segments: segs, Leaf: q.Leaf}
}
