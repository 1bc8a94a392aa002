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

// Package z3 backs smt.Factory with github.com/aclements/go-z3, the
// platform-specific SMT backend named as an external collaborator. It
// is the only package in this module that imports the z3 bindings
// directly; the verifier package only ever sees the smt.Solver
// interface, so a future alternate backend only has to implement a
// sibling adapter package.
package z3

import (
	"context"
	"fmt"

	"github.com/aclements/go-z3/z3"

	"github.com/flix-lang/flix/smt"
)

// Factory builds z3-backed smt.Solver values, each with its own
// *z3.Context so concurrent law checks (run one at a time by the
// Verifier today, but not inherently serialized by this type) never
// share native state.
type Factory struct {
	config *z3.Config
}

// NewFactory builds a Factory with z3's default configuration.
func NewFactory() *Factory {
	return &Factory{config: z3.NewConfig()}
}

func (f *Factory) NewSolver() smt.Solver {
	ctx := z3.NewContext(f.config)
	return &solver{ctx: ctx, solver: ctx.NewSolver()}
}

type solver struct {
	ctx    *z3.Context
	solver *z3.Solver
	consts map[string]z3.Value
}

func (s *solver) Assert(e smt.Expr) {
	if s.consts == nil {
		s.consts = map[string]z3.Value{}
	}
	b, err := s.translate(e)
	if err != nil {
		// A translation failure here is a Verifier bug (it built an
		// ill-typed formula); surface it the same way z3 surfaces an
		// internal error, by asserting false so Check reports unsat
		// with no model rather than panicking mid-run.
		s.solver.Assert(s.ctx.FromBool(false).(z3.Bool))
		return
	}
	asBool, ok := b.(z3.Bool)
	if !ok {
		s.solver.Assert(s.ctx.FromBool(false).(z3.Bool))
		return
	}
	s.solver.Assert(asBool)
}

func (s *solver) Check(ctx context.Context) (smt.Result, smt.Model, error) {
	type outcome struct {
		sat z3.Sat
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		sat, err := s.solver.Check()
		done <- outcome{sat, err}
	}()
	select {
	case <-ctx.Done():
		return smt.Unknown, nil, ctx.Err()
	case o := <-done:
		if o.err != nil {
			return smt.Unknown, nil, o.err
		}
		switch o.sat {
		case z3.Sat:
			return smt.Sat, &model{ctx: s.ctx, m: s.solver.Model(), consts: s.consts}, nil
		case z3.Unsat:
			return smt.Unsat, nil, nil
		default:
			return smt.Unknown, nil, nil
		}
	}
}

func (s *solver) Close() {
	s.ctx.Close()
}

func (s *solver) sortOf(sort smt.Sort) z3.Sort {
	switch sort {
	case smt.SortBool:
		return s.ctx.BoolSort()
	case smt.SortReal:
		return s.ctx.RealSort()
	default:
		return s.ctx.IntSort()
	}
}

func (s *solver) constOf(name string, sort smt.Sort) z3.Value {
	if v, ok := s.consts[name]; ok {
		return v
	}
	v := s.ctx.Const(name, s.sortOf(sort))
	s.consts[name] = v
	return v
}

// translate walks one smt.Expr into the matching z3.Value, recursively.
func (s *solver) translate(e smt.Expr) (z3.Value, error) {
	switch n := e.(type) {
	case smt.Const:
		return s.constOf(n.Name, n.Sort), nil
	case smt.BoolLit:
		return s.ctx.FromBool(n.Value), nil
	case smt.IntLit:
		return s.ctx.FromInt(n.Value, s.ctx.IntSort()), nil
	case smt.RealLit:
		return s.ctx.FromBigInt64(n.Num, n.Den, s.ctx.RealSort()), nil
	case smt.Not:
		x, err := s.translateBool(n.X)
		if err != nil {
			return nil, err
		}
		return x.Not(), nil
	case smt.And:
		xs, err := s.translateBools(n.Xs)
		if err != nil {
			return nil, err
		}
		if len(xs) == 0 {
			return s.ctx.FromBool(true), nil
		}
		return xs[0].And(xs[1:]...), nil
	case smt.Or:
		xs, err := s.translateBools(n.Xs)
		if err != nil {
			return nil, err
		}
		if len(xs) == 0 {
			return s.ctx.FromBool(false), nil
		}
		return xs[0].Or(xs[1:]...), nil
	case smt.Eq:
		x, err := s.translate(n.X)
		if err != nil {
			return nil, err
		}
		y, err := s.translate(n.Y)
		if err != nil {
			return nil, err
		}
		return x.Eq(y), nil
	case smt.Lt:
		x, y, err := s.translateArith(n.X, n.Y)
		if err != nil {
			return nil, err
		}
		return x.Lt(y), nil
	case smt.Le:
		x, y, err := s.translateArith(n.X, n.Y)
		if err != nil {
			return nil, err
		}
		return x.Le(y), nil
	case smt.Add:
		xs, err := s.translateArithList(n.Xs)
		if err != nil {
			return nil, err
		}
		if len(xs) == 0 {
			return s.ctx.FromInt(0, s.ctx.IntSort()), nil
		}
		return xs[0].Add(xs[1:]...), nil
	case smt.Sub:
		x, y, err := s.translateArith(n.X, n.Y)
		if err != nil {
			return nil, err
		}
		return x.Sub(y), nil
	case smt.Mul:
		xs, err := s.translateArithList(n.Xs)
		if err != nil {
			return nil, err
		}
		if len(xs) == 0 {
			return s.ctx.FromInt(1, s.ctx.IntSort()), nil
		}
		return xs[0].Mul(xs[1:]...), nil
	case smt.Neg:
		x, err := s.translate(n.X)
		if err != nil {
			return nil, err
		}
		return x.Neg(), nil
	case smt.Forall:
		vars, body, err := s.translateQuantifier(n.Vars, n.Body)
		if err != nil {
			return nil, err
		}
		return s.ctx.ForallConst(vars, body), nil
	case smt.Exists:
		vars, body, err := s.translateQuantifier(n.Vars, n.Body)
		if err != nil {
			return nil, err
		}
		return s.ctx.ExistsConst(vars, body), nil
	case smt.Ite:
		cond, err := s.translateBool(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := s.translate(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := s.translate(n.Else)
		if err != nil {
			return nil, err
		}
		return cond.IfThenElse(then, els), nil
	default:
		return nil, fmt.Errorf("z3: unsupported formula node %T", e)
	}
}

func (s *solver) translateQuantifier(vars []smt.Const, body smt.Expr) ([]z3.Value, z3.Bool, error) {
	bound := make([]z3.Value, len(vars))
	for i, v := range vars {
		bound[i] = s.constOf(v.Name, v.Sort)
	}
	b, err := s.translateBool(body)
	if err != nil {
		return nil, z3.Bool{}, err
	}
	return bound, b, nil
}

func (s *solver) translateBool(e smt.Expr) (z3.Bool, error) {
	v, err := s.translate(e)
	if err != nil {
		return z3.Bool{}, err
	}
	b, ok := v.(z3.Bool)
	if !ok {
		return z3.Bool{}, fmt.Errorf("z3: expected Bool, got %T", v)
	}
	return b, nil
}

func (s *solver) translateBools(es []smt.Expr) ([]z3.Bool, error) {
	out := make([]z3.Bool, len(es))
	for i, e := range es {
		b, err := s.translateBool(e)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func (s *solver) translateArith(x, y smt.Expr) (z3.Arith, z3.Arith, error) {
	xs, err := s.translateArithList([]smt.Expr{x, y})
	if err != nil {
		return z3.Arith{}, z3.Arith{}, err
	}
	return xs[0], xs[1], nil
}

func (s *solver) translateArithList(es []smt.Expr) ([]z3.Arith, error) {
	out := make([]z3.Arith, len(es))
	for i, e := range es {
		v, err := s.translate(e)
		if err != nil {
			return nil, err
		}
		a, ok := v.(z3.Arith)
		if !ok {
			return nil, fmt.Errorf("z3: expected an arithmetic sort, got %T", v)
		}
		out[i] = a
	}
	return out, nil
}

type model struct {
	ctx    *z3.Context
	m      *z3.Model
	consts map[string]z3.Value
}

func (m *model) Int(name string) (int64, bool) {
	v, ok := m.consts[name]
	if !ok {
		return 0, false
	}
	a, ok := v.(z3.Int)
	if !ok {
		return 0, false
	}
	val := m.m.Eval(a, true).(z3.Int)
	i, exact := val.AsInt64()
	return i, exact
}

func (m *model) Bool(name string) (bool, bool) {
	v, ok := m.consts[name]
	if !ok {
		return false, false
	}
	b, ok := v.(z3.Bool)
	if !ok {
		return false, false
	}
	val := m.m.Eval(b, true).(z3.Bool)
	return val.AsBool()
}

func (m *model) Real(name string) (num, den int64, ok bool) {
	v, present := m.consts[name]
	if !present {
		return 0, 0, false
	}
	r, present := v.(z3.Real)
	if !present {
		return 0, 0, false
	}
	val := m.m.Eval(r, true).(z3.Real)
	num, den, exact := val.AsBigRat64()
	return num, den, exact
}
