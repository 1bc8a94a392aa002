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

// Package flix orchestrates the compiler pipeline: weed, resolve, type,
// simplify, then run the Solver and (optionally) the Verifier over the
// resulting program. It owns no parser: a Flix source file arrives as
// an already-parsed *ast.Root, the surface syntax being an external
// collaborator this module never implements.
package flix

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/flix-lang/flix/ast"
	"github.com/flix-lang/flix/diagnostics"
	"github.com/flix-lang/flix/internal/z3"
	"github.com/flix-lang/flix/ir"
	"github.com/flix-lang/flix/monitor"
	"github.com/flix-lang/flix/resolve"
	"github.com/flix-lang/flix/simplify"
	"github.com/flix-lang/flix/solver"
	"github.com/flix-lang/flix/typer"
	"github.com/flix-lang/flix/verifier"
	"github.com/flix-lang/flix/weeder"
)

// Config controls one Engine's behavior. Its zero value is a usable
// default configuration: every field's absence means "pick the
// built-in default" rather than "invalid".
type Config struct {
	// Verify runs the Verifier after a successful solve.
	Verify bool
	// VerifierTimeout bounds each individual law check. Zero selects
	// verifier.DefaultTimeout.
	VerifierTimeout time.Duration
	// MaxIterations caps the Solver's semi-naive rounds. Zero selects
	// solver.DefaultMaxIterations.
	MaxIterations int
	// Monitor records per-phase timing when non-nil. The CLI's
	// --Xmonitor flag supplies one; library callers that do not need
	// timing leave this nil.
	Monitor *monitor.Monitor
	// Diagnostics receives every phase's errors in order. A nil value
	// means the caller only cares about the first fatal error returned
	// by RunRoot, not the full accumulated list.
	Diagnostics *diagnostics.Bag
}

// Result is one successful Run's output: the solved program's tables
// and, if Config.Verify was set, the law verification results.
type Result struct {
	Program  *ir.Program
	Solver   *solver.Solver
	Verified []verifier.Result
}

// Engine runs the pipeline for one parsed program. It is stateless
// across runs beyond its Config; RunRoot is safe to call more than once.
type Engine struct {
	cfg Config
}

// New builds an Engine with the given configuration.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// NewDefault builds an Engine with verification disabled and default
// iteration/timeout bounds, for the common case of not needing to tune
// anything.
func NewDefault() *Engine {
	return New(Config{})
}

func (e *Engine) phase(name string) (*monitor.Phase, bool) {
	if e.cfg.Monitor == nil {
		return nil, false
	}
	return e.cfg.Monitor.StartPhase(name), true
}

func finish(p *monitor.Phase, ok bool) {
	if ok {
		p.Finish()
	}
}

func (e *Engine) record(phase string, errs []error) {
	if e.cfg.Diagnostics != nil {
		e.cfg.Diagnostics.AddAll(phase, errs)
	}
}

// RunRoot weeds, resolves, types, simplifies, and solves root, then
// verifies if Config.Verify is set. It returns the first phase's
// errors as soon as a phase fails, since each phase assumes the
// previous one succeeded.
func (e *Engine) RunRoot(ctx context.Context, root *ast.Root) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, ok := e.phase("weed")
	weeded, errs := weeder.Weed(root)
	finish(p, ok)
	if len(errs) > 0 {
		e.record("weed", errs)
		return nil, errors.Wrap(errs[0], "weed")
	}

	p, ok = e.phase("resolve")
	symbols, errs := resolve.BuildSymbolTable(weeded)
	finish(p, ok)
	if len(errs) > 0 {
		e.record("resolve", errs)
		return nil, errors.Wrap(errs[0], "resolve")
	}

	p, ok = e.phase("type")
	prog, errs := typer.Infer(weeded, symbols)
	finish(p, ok)
	if len(errs) > 0 {
		e.record("type", errs)
		return nil, errors.Wrap(errs[0], "type")
	}

	p, ok = e.phase("simplify")
	prog = simplify.Run(prog)
	finish(p, ok)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, ok = e.phase("solve")
	s := solver.New(prog, solver.Config{MaxIterations: e.cfg.MaxIterations})
	runErr := s.Run()
	finish(p, ok)
	if runErr != nil {
		e.record("solve", []error{runErr})
		return nil, errors.Wrap(runErr, "solve")
	}

	result := &Result{Program: prog, Solver: s}
	if !e.cfg.Verify {
		return result, nil
	}

	p, ok = e.phase("verify")
	v := verifier.New(prog, verifier.Config{
		Factory: z3.NewFactory(),
		Timeout: e.cfg.VerifierTimeout,
	})
	results := v.VerifyAll(symbols)
	finish(p, ok)

	result.Verified = results
	for _, r := range results {
		if r.Status == verifier.Violated {
			e.record("verify", []error{errors.Errorf("law %s violated", r.Law)})
		} else if r.Status == verifier.Inconclusive && r.Err != nil {
			e.record("verify", []error{r.Err})
		}
	}
	return result, nil
}

// parseStub is the default value of Parse: a parser is an external
// collaborator this module never implements, so calling it without a
// caller-supplied override is a clear configuration error rather than
// a silent no-op.
func parseStub(path string, src io.Reader) (*ast.Root, error) {
	return nil, errors.Errorf("flix: no parser wired for %q; construct an *ast.Root yourself or set flix.Parse", path)
}

// Parse is the seam cmd/flix calls to turn source text into an
// *ast.Root. It defaults to parseStub; an embedder linking in a real
// Flix front-end parser overrides it at program startup.
var Parse = parseStub

// ParseFile is a convenience wrapper reading path and calling Parse.
func ParseFile(path string) (*ast.Root, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "flix: opening source file")
	}
	defer f.Close()
	return Parse(path, f)
}
