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

package typer

import (
	"github.com/flix-lang/flix/ast"
	"github.com/flix-lang/flix/core"
)

// checker carries the Robinson-style substitution a single Infer run
// builds up. One checker is shared across every Def, Law, and Rule in a
// compilation so that var IDs never collide.
type checker struct {
	table *core.SymbolTable
	ns    []string
	subst map[int]core.Type
	next  int
	errs  []error
}

func newChecker(table *core.SymbolTable, ns []string) *checker {
	return &checker{table: table, ns: ns, subst: map[int]core.Type{}}
}

func (c *checker) fresh() core.Type {
	v := core.Var(c.next)
	c.next++
	return v
}

func (c *checker) fail(err error) { c.errs = append(c.errs, err) }

// resolve walks the substitution chain for t, returning the most
// specific type currently known. It does not recurse into compound
// subterms; callers use applyDeep for that.
func (c *checker) resolve(t core.Type) core.Type {
	for t.Kind == core.KVar {
		bound, ok := c.subst[t.VarID]
		if !ok {
			return t
		}
		t = bound
	}
	return t
}

// applyDeep fully substitutes t and every subterm it contains.
func (c *checker) applyDeep(t core.Type) core.Type {
	t = c.resolve(t)
	switch t.Kind {
	case core.KTuple:
		elms := make([]core.Type, len(t.Elms))
		for i, e := range t.Elms {
			elms[i] = c.applyDeep(e)
		}
		return core.Tuple(elms...)
	case core.KLambda:
		params := make([]core.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = c.applyDeep(p)
		}
		ret := c.applyDeep(*t.Ret)
		return core.Lambda(params, ret)
	case core.KParametric:
		args := make([]core.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = c.applyDeep(a)
		}
		return core.Parametric(t.Name, args...)
	default:
		return t
	}
}

func occurs(id int, t core.Type, c *checker) bool {
	t = c.resolve(t)
	switch t.Kind {
	case core.KVar:
		return t.VarID == id
	case core.KTuple:
		for _, e := range t.Elms {
			if occurs(id, e, c) {
				return true
			}
		}
	case core.KLambda:
		for _, p := range t.Params {
			if occurs(id, p, c) {
				return true
			}
		}
		return occurs(id, *t.Ret, c)
	case core.KParametric:
		for _, a := range t.Args {
			if occurs(id, a, c) {
				return true
			}
		}
	}
	return false
}

// unify binds type variables so that a and b denote the same type,
// failing with ErrTypeMismatch or ErrOccursCheck on conflict.
func (c *checker) unify(a, b core.Type, span ast.Span) error {
	a, b = c.resolve(a), c.resolve(b)
	if a.Kind == core.KVar && b.Kind == core.KVar && a.VarID == b.VarID {
		return nil
	}
	if a.Kind == core.KVar {
		if occurs(a.VarID, b, c) {
			return ErrOccursCheck.New(span, a.String(), b.String())
		}
		c.subst[a.VarID] = b
		return nil
	}
	if b.Kind == core.KVar {
		return c.unify(b, a, span)
	}
	if a.Kind != b.Kind {
		return ErrTypeMismatch.New(span, a.String(), b.String())
	}
	switch a.Kind {
	case core.KTuple:
		if len(a.Elms) != len(b.Elms) {
			return ErrTypeMismatch.New(span, a.String(), b.String())
		}
		for i := range a.Elms {
			if err := c.unify(a.Elms[i], b.Elms[i], span); err != nil {
				return err
			}
		}
		return nil
	case core.KLambda:
		if len(a.Params) != len(b.Params) {
			return ErrTypeMismatch.New(span, a.String(), b.String())
		}
		for i := range a.Params {
			if err := c.unify(a.Params[i], b.Params[i], span); err != nil {
				return err
			}
		}
		return c.unify(*a.Ret, *b.Ret, span)
	case core.KEnum, core.KNative:
		if !a.Name.Equal(b.Name) {
			return ErrTypeMismatch.New(span, a.String(), b.String())
		}
		return nil
	case core.KParametric:
		if !a.Name.Equal(b.Name) || len(a.Args) != len(b.Args) {
			return ErrTypeMismatch.New(span, a.String(), b.String())
		}
		for i := range a.Args {
			if err := c.unify(a.Args[i], b.Args[i], span); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil // matching primitive kinds, nothing further to bind
	}
}

func isNumeric(k core.TypeKind) bool {
	switch k {
	case core.KInt8, core.KInt16, core.KInt32, core.KInt64, core.KBigInt, core.KFloat32, core.KFloat64:
		return true
	}
	return false
}
