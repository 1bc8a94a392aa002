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
	"fmt"
	"strings"
)

// TreePrinter renders a labeled node with an ASCII-art list of children.
// No phase or command in this module calls it.
type TreePrinter struct {
	node     string
	children []string
}

// NewTreePrinter creates an empty printer.
func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

// WriteNode sets this printer's own label, printf-style.
func (p *TreePrinter) WriteNode(format string, args ...interface{}) {
	p.node = fmt.Sprintf(format, args...)
}

// WriteChildren appends pre-rendered child blocks (each either a bare
// label or another TreePrinter's String() output).
func (p *TreePrinter) WriteChildren(children ...string) {
	p.children = append(p.children, children...)
}

// String renders the node and its children as an indented ASCII tree.
func (p *TreePrinter) String() string {
	var b strings.Builder
	b.WriteString(p.node)
	b.WriteString("\n")
	for i, c := range p.children {
		last := i == len(p.children)-1
		writeChild(&b, c, last)
	}
	return b.String()
}

func writeChild(b *strings.Builder, block string, last bool) {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	for i, line := range lines {
		switch {
		case i == 0 && last:
			b.WriteString(" └─ " + line + "\n")
		case i == 0:
			b.WriteString(" ├─ " + line + "\n")
		case last:
			b.WriteString("     " + line + "\n")
		default:
			b.WriteString(" │   " + line + "\n")
		}
	}
}
