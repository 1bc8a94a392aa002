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

// Package diagnostics collects and renders the errors raised by each
// compiler phase. Every phase package (weeder, resolve, typer, solver,
// verifier) already raises typed errors.Kind values with the offending
// source text baked into the message; this package's job is only to
// accumulate them in declaration order, classify severity, and print
// them to a writer, optionally in color.
package diagnostics

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Severity distinguishes a hard failure from an advisory note (today
// only the Verifier emits Warning-level diagnostics, for a law that
// came back Inconclusive rather than Violated).
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one reported problem, tagged with the phase that raised
// it so a run covering multiple phases can group and order its output.
type Diagnostic struct {
	Phase    string
	Severity Severity
	Err      error
	Seq      int // insertion order, used as the sort tiebreaker
}

// Bag accumulates diagnostics across one or more phase runs.
type Bag struct {
	items []Diagnostic
	seq   int
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag { return &Bag{} }

// Add appends one diagnostic for the named phase.
func (b *Bag) Add(phase string, sev Severity, err error) {
	if err == nil {
		return
	}
	b.seq++
	b.items = append(b.items, Diagnostic{Phase: phase, Severity: sev, Err: err, Seq: b.seq})
}

// AddAll appends one Error-severity diagnostic per err, skipping nils;
// phase errors are typically collected as a []error by a phase's own
// entry point (e.g. weeder.Weed returns ([]ast.Decl, []error)).
func (b *Bag) AddAll(phase string, errs []error) {
	for _, err := range errs {
		b.Add(phase, Error, err)
	}
}

// Len reports how many diagnostics have been accumulated.
func (b *Bag) Len() int { return len(b.items) }

// HasErrors reports whether any Error-severity diagnostic was recorded.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Diagnostics returns the accumulated diagnostics sorted by insertion
// order (the order Add was called, across all phases; phases are not
// grouped) rather than by source position, since several phases run
// over the whole program rather than left-to-right.
func (b *Bag) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// ANSI escape codes for Render's colored mode. These are plain escape
// sequences rather than a terminal-color library, matching the style of
// other minimal Go TUI code that needs only a handful of colors.
const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan  = "\x1b[36m"
)

// Render writes every diagnostic in the bag to w, one per line, as
// "<phase>: <severity>: <message>". color enables ANSI highlighting of
// the phase tag and severity word; NoColor output (color=false) is
// plain text suitable for redirecting to a file or a non-tty pipe.
func Render(w io.Writer, diags []Diagnostic, color bool) {
	for _, d := range diags {
		phase, sevWord := d.Phase, d.Severity.String()
		if color {
			c := ansiRed
			if d.Severity == Warning {
				c = ansiYellow
			}
			phase = ansiBold + ansiCyan + d.Phase + ansiReset
			sevWord = c + sevWord + ansiReset
		}
		fmt.Fprintf(w, "%s: %s: %s\n", phase, sevWord, d.Err)
	}
}

// Summary writes a one-line count, e.g. "3 errors, 1 warning".
func Summary(w io.Writer, diags []Diagnostic) {
	var errs, warns int
	for _, d := range diags {
		if d.Severity == Warning {
			warns++
		} else {
			errs++
		}
	}
	var parts []string
	if errs > 0 {
		parts = append(parts, plural(errs, "error"))
	}
	if warns > 0 {
		parts = append(parts, plural(warns, "warning"))
	}
	if len(parts) == 0 {
		fmt.Fprintln(w, "no diagnostics")
		return
	}
	fmt.Fprintln(w, strings.Join(parts, ", "))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// DumpCounterexample writes a law's counterexample binding to w. It
// defers to spew rather than a hand-rolled map formatter so that any
// future, richer counterexample value (e.g. a nested tuple or record
// binding once the Verifier grows beyond scalar sorts) prints usefully
// without this package needing to know its shape.
func DumpCounterexample(w io.Writer, law string, bindings map[string]string) {
	fmt.Fprintf(w, "counterexample for %s:\n", law)
	cfg := spew.ConfigState{Indent: "  ", DisableMethods: true, SortKeys: true}
	cfg.Fdump(w, bindings)
}
