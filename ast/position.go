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

// Package ast defines the shape of the parse tree consumed from the
// (out of scope) parser, and the source-position contract produced by the
// (out of scope) textual source tracker. Nothing in this package performs
// parsing; it is the boundary type set the rest of the compiler programs
// against.
package ast

import "fmt"

// Pos is a single point in a source file, 1-indexed to match editor
// conventions.
type Pos struct {
	Source string
	Line   int
	Col    int
}

func (p Pos) String() string {
	if p.Source == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.Source, p.Line, p.Col)
}

// Span is the (sp1, sp2) pair every parse-tree node carries.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// SpanOf merges two spans into one covering both, used when desugaring
// collapses several source nodes into one IR node.
func SpanOf(a, b Span) Span {
	return Span{Start: a.Start, End: b.End}
}
