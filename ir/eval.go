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

package ir

import (
	"fmt"
	"math/big"

	"github.com/flix-lang/flix/ast"
)

// DivByZeroError is returned by Eval for `/` and `%` with a zero
// right-hand side. The Solver does not map it to bottom: raised while
// evaluating a fact or head term, an alias, a loop source, an inequality
// or a lattice operator, it is returned from Run; raised while matching a
// non-variable term of a lookup atom, it makes that row not match.
type DivByZeroError struct{}

func (DivByZeroError) Error() string { return "division or modulus by zero" }

// UserAbortError is raised by evaluating an `error(...)` expression. The
// Solver wraps it as ErrUserError and Run returns it at once, ending the
// whole run rather than only the current round; RunRoot then returns no
// Result, so the partial tables are discarded.
type UserAbortError struct{ Message string }

func (e UserAbortError) Error() string { return "user error: " + e.Message }

// Eval interprets a frozen IR expression under env against prog (for
// resolving calls to top-level functions).
func Eval(prog *Program, env *Env, e Expr) (Value, error) {
	switch n := e.(type) {
	case Lit:
		return n.Value, nil
	case VarRef:
		if v, ok := env.Lookup(n.Name); ok {
			return v, nil
		}
		if fn, ok := prog.Lookup(n.Name); ok && len(fn.Params) == 0 {
			return Eval(prog, NewEnv(), fn.Body)
		}
		return Value{}, fmt.Errorf("ir: unbound variable %q", n.Name)
	case LambdaExpr:
		return Value{Kind: VClosure, Closure: &Closure{Params: n.Params, Body: n.Body, Env: env}}, nil
	case App:
		return evalApp(prog, env, n)
	case Unary:
		return evalUnary(prog, env, n)
	case Binary:
		return evalBinary(prog, env, n)
	case If:
		cond, err := Eval(prog, env, n.Cond)
		if err != nil {
			return Value{}, err
		}
		if cond.B {
			return Eval(prog, env, n.Then)
		}
		return Eval(prog, env, n.Else)
	case Let:
		v, err := Eval(prog, env, n.Value)
		if err != nil {
			return Value{}, err
		}
		child := env.Child()
		child.Bind(n.Name, v)
		return Eval(prog, child, n.Body)
	case Match:
		return evalMatch(prog, env, n)
	case Tag:
		if n.Payload == nil {
			return TagVal(n.Name, nil), nil
		}
		p, err := Eval(prog, env, n.Payload)
		if err != nil {
			return Value{}, err
		}
		return TagVal(n.Name, &p), nil
	case Tuple:
		elms := make([]Value, len(n.Elms))
		for i, el := range n.Elms {
			v, err := Eval(prog, env, el)
			if err != nil {
				return Value{}, err
			}
			elms[i] = v
		}
		return TupleVal(elms...), nil
	case Collection:
		return evalCollection(prog, env, n)
	case Quantifier:
		// Quantifiers only ever appear inside law bodies consumed by the
		// Verifier's SMT encoding; the tree-walking evaluator never
		// executes one directly.
		return Value{}, fmt.Errorf("ir: quantifiers are not evaluable, only encodable")
	case Ascribe:
		return Eval(prog, env, n.Value)
	case UserError:
		msg, err := Eval(prog, env, n.Message)
		if err != nil {
			return Value{}, err
		}
		return Value{}, UserAbortError{Message: msg.String()}
	default:
		return Value{}, fmt.Errorf("ir: unhandled expr node %T", e)
	}
}

func evalApp(prog *Program, env *Env, n App) (Value, error) {
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := Eval(prog, env, a)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	if ref, ok := n.Fn.(VarRef); ok {
		if v, ok := env.Lookup(ref.Name); ok && v.Kind == VClosure {
			return applyClosure(prog, v.Closure, args)
		}
		if fn, ok := prog.Lookup(ref.Name); ok {
			return applyFunction(prog, fn, args)
		}
	}
	fnVal, err := Eval(prog, env, n.Fn)
	if err != nil {
		return Value{}, err
	}
	if fnVal.Kind != VClosure {
		return Value{}, fmt.Errorf("ir: attempt to apply a non-function value")
	}
	return applyClosure(prog, fnVal.Closure, args)
}

// CallFunction invokes the top-level function named qname with args,
// the way the Solver invokes a BoundedLattice instance's declared
// bot/top/leq/lub/glb/widen functions without going through an App node.
func CallFunction(prog *Program, qname string, args []Value) (Value, error) {
	fn, ok := prog.Lookup(qname)
	if !ok {
		return Value{}, fmt.Errorf("ir: no such function %q", qname)
	}
	return applyFunction(prog, fn, args)
}

func applyFunction(prog *Program, fn *FunctionDef, args []Value) (Value, error) {
	child := NewEnv()
	for i, p := range fn.Params {
		child.Bind(p, args[i])
	}
	return Eval(prog, child, fn.Body)
}

func applyClosure(prog *Program, c *Closure, args []Value) (Value, error) {
	child := c.Env.Child()
	for i, p := range c.Params {
		child.Bind(p, args[i])
	}
	return Eval(prog, child, c.Body)
}

func evalUnary(prog *Program, env *Env, n Unary) (Value, error) {
	v, err := Eval(prog, env, n.Opnd)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case ast.UnNeg:
		switch v.Kind {
		case VInt:
			return Int(-v.I), nil
		case VFloat:
			return Float(-v.F), nil
		case VBigInt:
			return BigInt(new(big.Int).Neg(v.Big)), nil
		}
	case ast.UnNot:
		if v.Kind == VBool {
			return Bool(!v.B), nil
		}
	}
	return Value{}, fmt.Errorf("ir: unary %s not defined for %v", n.Op, v)
}

func evalBinary(prog *Program, env *Env, n Binary) (Value, error) {
	l, err := Eval(prog, env, n.Lhs)
	if err != nil {
		return Value{}, err
	}
	r, err := Eval(prog, env, n.Rhs)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case ast.OpEq:
		return Bool(l.Equal(r)), nil
	case ast.OpNeq:
		return Bool(!l.Equal(r)), nil
	case ast.OpAnd:
		return Bool(l.B && r.B), nil
	case ast.OpOr:
		return Bool(l.B || r.B), nil
	}
	if l.Kind == VInt && r.Kind == VInt {
		return evalIntBinary(n.Op, l.I, r.I)
	}
	if l.Kind == VFloat && r.Kind == VFloat {
		return evalFloatBinary(n.Op, l.F, r.F)
	}
	if l.Kind == VBigInt && r.Kind == VBigInt {
		return evalBigBinary(n.Op, l.Big, r.Big)
	}
	return Value{}, fmt.Errorf("ir: binary %s not defined for %v, %v", n.Op, l, r)
}

func evalIntBinary(op ast.BinOp, l, r int64) (Value, error) {
	switch op {
	case ast.OpAdd:
		return Int(l + r), nil
	case ast.OpSub:
		return Int(l - r), nil
	case ast.OpMul:
		return Int(l * r), nil
	case ast.OpDiv:
		if r == 0 {
			return Value{}, DivByZeroError{}
		}
		return Int(l / r), nil
	case ast.OpMod:
		if r == 0 {
			return Value{}, DivByZeroError{}
		}
		return Int(l % r), nil
	case ast.OpLt:
		return Bool(l < r), nil
	case ast.OpLe:
		return Bool(l <= r), nil
	case ast.OpGt:
		return Bool(l > r), nil
	case ast.OpGe:
		return Bool(l >= r), nil
	}
	return Value{}, fmt.Errorf("ir: int binary %s unsupported", op)
}

func evalFloatBinary(op ast.BinOp, l, r float64) (Value, error) {
	switch op {
	case ast.OpAdd:
		return Float(l + r), nil
	case ast.OpSub:
		return Float(l - r), nil
	case ast.OpMul:
		return Float(l * r), nil
	case ast.OpDiv:
		if r == 0 {
			return Value{}, DivByZeroError{}
		}
		return Float(l / r), nil
	case ast.OpLt:
		return Bool(l < r), nil
	case ast.OpLe:
		return Bool(l <= r), nil
	case ast.OpGt:
		return Bool(l > r), nil
	case ast.OpGe:
		return Bool(l >= r), nil
	}
	return Value{}, fmt.Errorf("ir: float binary %s unsupported", op)
}

func evalBigBinary(op ast.BinOp, l, r *big.Int) (Value, error) {
	z := new(big.Int)
	switch op {
	case ast.OpAdd:
		return BigInt(z.Add(l, r)), nil
	case ast.OpSub:
		return BigInt(z.Sub(l, r)), nil
	case ast.OpMul:
		return BigInt(z.Mul(l, r)), nil
	case ast.OpDiv:
		if r.Sign() == 0 {
			return Value{}, DivByZeroError{}
		}
		return BigInt(z.Quo(l, r)), nil
	case ast.OpMod:
		if r.Sign() == 0 {
			return Value{}, DivByZeroError{}
		}
		return BigInt(z.Rem(l, r)), nil
	case ast.OpLt:
		return Bool(l.Cmp(r) < 0), nil
	case ast.OpLe:
		return Bool(l.Cmp(r) <= 0), nil
	case ast.OpGt:
		return Bool(l.Cmp(r) > 0), nil
	case ast.OpGe:
		return Bool(l.Cmp(r) >= 0), nil
	}
	return Value{}, fmt.Errorf("ir: bigint binary %s unsupported", op)
}

func evalMatch(prog *Program, env *Env, n Match) (Value, error) {
	v, err := Eval(prog, env, n.Scrutinee)
	if err != nil {
		return Value{}, err
	}
	for _, rule := range n.Rules {
		child := env.Child()
		if !matchPattern(rule.Pattern, v, child) {
			continue
		}
		if rule.Guard != nil {
			g, err := Eval(prog, child, rule.Guard)
			if err != nil {
				return Value{}, err
			}
			if !g.B {
				continue
			}
		}
		return Eval(prog, child, rule.Body)
	}
	return Value{}, fmt.Errorf("ir: match not exhaustive at runtime for value %v", v)
}

func matchPattern(p Pattern, v Value, env *Env) bool {
	switch pat := p.(type) {
	case PWild:
		return true
	case PVar:
		env.Bind(pat.Name, v)
		return true
	case PLit:
		return pat.Value.Equal(v)
	case PTag:
		if v.Kind != VTag || v.Tag != pat.Name {
			return false
		}
		if pat.Payload == nil {
			return v.Payload == nil
		}
		if v.Payload == nil {
			return false
		}
		return matchPattern(pat.Payload, *v.Payload, env)
	case PTuple:
		if v.Kind != VTuple || len(v.Elms) != len(pat.Elms) {
			return false
		}
		for i, sub := range pat.Elms {
			if !matchPattern(sub, v.Elms[i], env) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func evalCollection(prog *Program, env *Env, n Collection) (Value, error) {
	switch n.Kind {
	case CollOption:
		if len(n.Elms) == 0 {
			return NoneVal(), nil
		}
		v, err := Eval(prog, env, n.Elms[0])
		if err != nil {
			return Value{}, err
		}
		return SomeVal(v), nil
	case CollList, CollVec:
		elms := make([]Value, len(n.Elms))
		for i, el := range n.Elms {
			v, err := Eval(prog, env, el)
			if err != nil {
				return Value{}, err
			}
			elms[i] = v
		}
		return ListVal(elms...), nil
	case CollSet:
		elms := make([]Value, len(n.Elms))
		for i, el := range n.Elms {
			v, err := Eval(prog, env, el)
			if err != nil {
				return Value{}, err
			}
			elms[i] = v
		}
		return SetVal(elms...), nil
	case CollMap:
		entries := make([]MapEntry, len(n.Pairs))
		for i, p := range n.Pairs {
			k, err := Eval(prog, env, p.Key)
			if err != nil {
				return Value{}, err
			}
			val, err := Eval(prog, env, p.Val)
			if err != nil {
				return Value{}, err
			}
			entries[i] = MapEntry{Key: k, Val: val}
		}
		return MapVal(entries...), nil
	default:
		return Value{}, fmt.Errorf("ir: unhandled collection kind %d", n.Kind)
	}
}
