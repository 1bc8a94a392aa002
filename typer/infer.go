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
	"math/big"
	"strconv"

	"github.com/flix-lang/flix/ast"
	"github.com/flix-lang/flix/core"
	"github.com/flix-lang/flix/ir"
	"github.com/flix-lang/flix/resolve"
)

// builder realizes an ir.Expr once the checker's substitution is
// complete; deferring construction this way lets EBot/ETop and other
// ad-hoc-polymorphic forms pick their concrete instance after the rest
// of the enclosing definition has been typed, instead of requiring a
// second full tree walk.
type builder func(c *checker) (ir.Expr, error)

type env map[string]core.Type

func (e env) extend(name string, t core.Type) env {
	n := make(env, len(e)+1)
	for k, v := range e {
		n[k] = v
	}
	n[name] = t
	return n
}

func (c *checker) inferExpr(e env, x ast.Expr) (core.Type, builder, error) {
	switch x := x.(type) {
	case ast.EWild:
		return core.Type{}, nil, ErrTypeMismatch.New(x.Span, "a concrete type", "wildcard")

	case ast.ELit:
		return c.inferLit(x)

	case ast.EBot, ast.ETop:
		return c.inferBotTop(x)

	case ast.EVar:
		return c.inferVar(e, x)

	case ast.ELambda:
		return c.inferLambda(e, x)

	case ast.EApp:
		return c.inferApp(e, x)

	case ast.EInfixIdent:
		return c.inferApp(e, ast.EApp{
			Fn:   ast.EVar{Name: x.Fn, Span: x.Span},
			Args: []ast.Expr{x.Lhs, x.Rhs},
			Span: x.Span,
		})

	case ast.EUnary:
		return c.inferUnary(e, x)

	case ast.EBinary:
		return c.inferBinary(e, x)

	case ast.EIfThenElse:
		return c.inferIf(e, x)

	case ast.ELetMatch:
		return c.inferLetMatch(e, x)

	case ast.EMatch:
		return c.inferMatch(e, x)

	case ast.ETag:
		return c.inferTag(e, x)

	case ast.ETuple:
		return c.inferTuple(e, x)

	case ast.ECollection:
		return c.inferCollection(e, x)

	case ast.EExistential:
		return c.inferQuantifier(e, x.Params, x.Body, false, x.Span)

	case ast.EUniversal:
		return c.inferQuantifier(e, x.Params, x.Body, true, x.Span)

	case ast.EAscribe:
		return c.inferAscribe(e, x)

	case ast.EUserError:
		return c.inferUserError(e, x)

	default:
		return core.Type{}, nil, ErrTypeMismatch.New(ast.Span{}, "a known expression form", "unsupported")
	}
}

func (c *checker) inferLit(x ast.ELit) (core.Type, builder, error) {
	l := x.Lit
	mk := func(t core.Type, v ir.Value) (core.Type, builder, error) {
		return t, func(*checker) (ir.Expr, error) { return ir.NewLit(v, t, x.Span), nil }, nil
	}
	switch l.Kind {
	case ast.LitUnit:
		return mk(core.Primitive(core.KUnit), ir.Unit())
	case ast.LitBool:
		return mk(core.Primitive(core.KBool), ir.Bool(l.Bool))
	case ast.LitChar:
		r := []rune(l.Text)
		var ch rune
		if len(r) > 0 {
			ch = r[0]
		}
		return mk(core.Primitive(core.KChar), ir.Char(ch))
	case ast.LitStr:
		return mk(core.Primitive(core.KStr), ir.Str(l.Text))
	case ast.LitInt8, ast.LitInt16, ast.LitInt32, ast.LitInt64:
		n, err := strconv.ParseInt(l.Text, 10, 64)
		if err != nil {
			return core.Type{}, nil, err
		}
		kind := map[ast.LiteralKind]core.TypeKind{
			ast.LitInt8: core.KInt8, ast.LitInt16: core.KInt16,
			ast.LitInt32: core.KInt32, ast.LitInt64: core.KInt64,
		}[l.Kind]
		return mk(core.Primitive(kind), ir.Int(n))
	case ast.LitBigInt:
		n, ok := new(big.Int).SetString(l.Text, 10)
		if !ok {
			return core.Type{}, nil, ErrTypeMismatch.New(x.Span, "a big integer literal", l.Text)
		}
		return mk(core.Primitive(core.KBigInt), ir.BigInt(n))
	case ast.LitFloat32, ast.LitFloat64:
		f, err := strconv.ParseFloat(l.Text, 64)
		if err != nil {
			return core.Type{}, nil, err
		}
		kind := core.KFloat64
		if l.Kind == ast.LitFloat32 {
			kind = core.KFloat32
		}
		return mk(core.Primitive(kind), ir.Float(f))
	default:
		return core.Type{}, nil, ErrTypeMismatch.New(x.Span, "a known literal kind", "unknown")
	}
}

// inferBotTop defers its instance lookup until the surrounding
// definition's element type is known, per the ad-hoc-polymorphism
// strategy described in the package doc.
func (c *checker) inferBotTop(x ast.Expr) (core.Type, builder, error) {
	isTop := false
	var span ast.Span
	switch x := x.(type) {
	case ast.EBot:
		span = x.Span
	case ast.ETop:
		isTop, span = true, x.Span
	}
	elemType := c.fresh()
	b := func(c *checker) (ir.Expr, error) {
		resolved := c.applyDeep(elemType)
		meta := c.findLatticeInstance(resolved)
		if meta == nil {
			return nil, ErrNoLatticeInstance.New(resolved.String(), span)
		}
		fn := meta.Bot
		if isTop {
			fn = meta.Top
		}
		fnType := core.Lambda(nil, resolved)
		return ir.NewApp(ir.NewVarRef(fn.Key(), fnType, span), nil, resolved, span), nil
	}
	return elemType, b, nil
}

func (c *checker) findLatticeInstance(elem core.Type) *core.LatticeMeta {
	for _, d := range c.table.All() {
		if d.Kind == core.DeclBoundedLattice && d.Lattice != nil && d.Lattice.ElemType.Equal(elem) {
			return d.Lattice
		}
	}
	return nil
}

func (c *checker) inferVar(e env, x ast.EVar) (core.Type, builder, error) {
	if t, ok := e[x.Name.Leaf.Text]; ok && len(x.Name.Namespace) == 0 {
		name := x.Name.Leaf.Text
		return t, func(c *checker) (ir.Expr, error) {
			return ir.NewVarRef(name, c.applyDeep(t), x.Span), nil
		}, nil
	}
	qn, err := resolve.Resolve(c.ns, x.Name, c.table)
	if err != nil {
		return core.Type{}, nil, err
	}
	decl, ok := c.table.Lookup(qn)
	if !ok {
		return core.Type{}, nil, ErrTypeMismatch.New(x.Span, "a resolved declaration", qn.String())
	}
	t := decl.RetType
	if len(decl.ParamTypes) > 0 {
		t = core.Lambda(decl.ParamTypes, decl.RetType)
	}
	key := qn.Key()
	return t, func(c *checker) (ir.Expr, error) {
		return ir.NewVarRef(key, c.applyDeep(t), x.Span), nil
	}, nil
}

func (c *checker) inferLambda(e env, x ast.ELambda) (core.Type, builder, error) {
	paramTypes := make([]core.Type, len(x.Params))
	names := make([]string, len(x.Params))
	inner := e
	for i, p := range x.Params {
		pt, err := resolve.ResolveType(c.ns, p.Type, c.table)
		if err != nil {
			return core.Type{}, nil, err
		}
		if p.Type == nil {
			pt = c.fresh()
		}
		paramTypes[i] = pt
		names[i] = p.Name.Text
		inner = inner.extend(names[i], pt)
	}
	bodyType, bodyB, err := c.inferExpr(inner, x.Body)
	if err != nil {
		return core.Type{}, nil, err
	}
	lamType := core.Lambda(paramTypes, bodyType)
	return lamType, func(c *checker) (ir.Expr, error) {
		body, err := bodyB(c)
		if err != nil {
			return nil, err
		}
		return ir.NewLambda(names, body, c.applyDeep(lamType), x.Span), nil
	}, nil
}

func (c *checker) inferApp(e env, x ast.EApp) (core.Type, builder, error) {
	fnType, fnB, err := c.inferExpr(e, x.Fn)
	if err != nil {
		return core.Type{}, nil, err
	}
	argTypes := make([]core.Type, len(x.Args))
	argBs := make([]builder, len(x.Args))
	for i, a := range x.Args {
		at, ab, err := c.inferExpr(e, a)
		if err != nil {
			return core.Type{}, nil, err
		}
		argTypes[i] = at
		argBs[i] = ab
	}
	retType := c.fresh()
	if err := c.unify(fnType, core.Lambda(argTypes, retType), x.Span); err != nil {
		return core.Type{}, nil, err
	}
	return retType, func(c *checker) (ir.Expr, error) {
		fn, err := fnB(c)
		if err != nil {
			return nil, err
		}
		args := make([]ir.Expr, len(argBs))
		for i, ab := range argBs {
			args[i], err = ab(c)
			if err != nil {
				return nil, err
			}
		}
		return ir.NewApp(fn, args, c.applyDeep(retType), x.Span), nil
	}, nil
}

func (c *checker) inferUnary(e env, x ast.EUnary) (core.Type, builder, error) {
	ot, ob, err := c.inferExpr(e, x.Opnd)
	if err != nil {
		return core.Type{}, nil, err
	}
	resultType := ot
	if x.Op == ast.UnNot {
		if err := c.unify(ot, core.Primitive(core.KBool), x.Span); err != nil {
			return core.Type{}, nil, err
		}
		resultType = core.Primitive(core.KBool)
	}
	return resultType, func(c *checker) (ir.Expr, error) {
		o, err := ob(c)
		if err != nil {
			return nil, err
		}
		return ir.NewUnary(x.Op, o, c.applyDeep(resultType), x.Span), nil
	}, nil
}

var comparisonOps = map[ast.BinOp]bool{
	ast.OpEq: true, ast.OpNeq: true, ast.OpLt: true, ast.OpLe: true, ast.OpGt: true, ast.OpGe: true,
}
var logicalOps = map[ast.BinOp]bool{ast.OpAnd: true, ast.OpOr: true}

func (c *checker) inferBinary(e env, x ast.EBinary) (core.Type, builder, error) {
	lt, lb, err := c.inferExpr(e, x.Lhs)
	if err != nil {
		return core.Type{}, nil, err
	}
	rt, rb, err := c.inferExpr(e, x.Rhs)
	if err != nil {
		return core.Type{}, nil, err
	}
	var resultType core.Type
	switch {
	case logicalOps[x.Op]:
		if err := c.unify(lt, core.Primitive(core.KBool), x.Span); err != nil {
			return core.Type{}, nil, err
		}
		if err := c.unify(rt, core.Primitive(core.KBool), x.Span); err != nil {
			return core.Type{}, nil, err
		}
		resultType = core.Primitive(core.KBool)
	case comparisonOps[x.Op]:
		if err := c.unify(lt, rt, x.Span); err != nil {
			return core.Type{}, nil, err
		}
		resultType = core.Primitive(core.KBool)
	default:
		if err := c.unify(lt, rt, x.Span); err != nil {
			return core.Type{}, nil, err
		}
		resultType = lt
	}
	return resultType, func(c *checker) (ir.Expr, error) {
		l, err := lb(c)
		if err != nil {
			return nil, err
		}
		r, err := rb(c)
		if err != nil {
			return nil, err
		}
		return ir.NewBinary(x.Op, l, r, c.applyDeep(resultType), x.Span), nil
	}, nil
}

func (c *checker) inferIf(e env, x ast.EIfThenElse) (core.Type, builder, error) {
	ct, cb, err := c.inferExpr(e, x.Cond)
	if err != nil {
		return core.Type{}, nil, err
	}
	if err := c.unify(ct, core.Primitive(core.KBool), x.Span); err != nil {
		return core.Type{}, nil, err
	}
	tt, tb, err := c.inferExpr(e, x.Then)
	if err != nil {
		return core.Type{}, nil, err
	}
	et, eb, err := c.inferExpr(e, x.Else)
	if err != nil {
		return core.Type{}, nil, err
	}
	if err := c.unify(tt, et, x.Span); err != nil {
		return core.Type{}, nil, err
	}
	return tt, func(c *checker) (ir.Expr, error) {
		cond, err := cb(c)
		if err != nil {
			return nil, err
		}
		then, err := tb(c)
		if err != nil {
			return nil, err
		}
		els, err := eb(c)
		if err != nil {
			return nil, err
		}
		return ir.NewIf(cond, then, els, c.applyDeep(tt), x.Span), nil
	}, nil
}

// inferLetMatch implements the Let-vs-Match split deferred from the
// Weeder: a single-variable pattern becomes a plain Let; anything else
// becomes a one-arm Match.
func (c *checker) inferLetMatch(e env, x ast.ELetMatch) (core.Type, builder, error) {
	vt, vb, err := c.inferExpr(e, x.Value)
	if err != nil {
		return core.Type{}, nil, err
	}
	if pv, ok := x.Pattern.(ast.PatVar); ok {
		inner := e.extend(pv.Name.Text, vt)
		bt, bb, err := c.inferExpr(inner, x.Body)
		if err != nil {
			return core.Type{}, nil, err
		}
		return bt, func(c *checker) (ir.Expr, error) {
			val, err := vb(c)
			if err != nil {
				return nil, err
			}
			body, err := bb(c)
			if err != nil {
				return nil, err
			}
			return ir.NewLet(pv.Name.Text, val, body, c.applyDeep(bt), x.Span), nil
		}, nil
	}
	pat, inner, err := c.inferPattern(e, x.Pattern, vt)
	if err != nil {
		return core.Type{}, nil, err
	}
	bt, bb, err := c.inferExpr(inner, x.Body)
	if err != nil {
		return core.Type{}, nil, err
	}
	return bt, func(c *checker) (ir.Expr, error) {
		scrutinee, err := vb(c)
		if err != nil {
			return nil, err
		}
		body, err := bb(c)
		if err != nil {
			return nil, err
		}
		rules := []ir.MatchRule{{Pattern: pat, Body: body}}
		return ir.NewMatch(scrutinee, rules, c.applyDeep(bt), x.Span), nil
	}, nil
}

func (c *checker) inferMatch(e env, x ast.EMatch) (core.Type, builder, error) {
	st, sb, err := c.inferExpr(e, x.Scrutinee)
	if err != nil {
		return core.Type{}, nil, err
	}
	resultType := c.fresh()
	type ruleB struct {
		pat    ir.Pattern
		guardB builder
		bodyB  builder
	}
	var rules []ruleB
	for _, r := range x.Rules {
		pat, inner, err := c.inferPattern(e, r.Pattern, st)
		if err != nil {
			return core.Type{}, nil, err
		}
		var guardB builder
		if r.Guard != nil {
			gt, gb, err := c.inferExpr(inner, r.Guard)
			if err != nil {
				return core.Type{}, nil, err
			}
			if err := c.unify(gt, core.Primitive(core.KBool), x.Span); err != nil {
				return core.Type{}, nil, err
			}
			guardB = gb
		}
		bt, bb, err := c.inferExpr(inner, r.Body)
		if err != nil {
			return core.Type{}, nil, err
		}
		if err := c.unify(bt, resultType, x.Span); err != nil {
			return core.Type{}, nil, err
		}
		rules = append(rules, ruleB{pat, guardB, bb})
	}
	return resultType, func(c *checker) (ir.Expr, error) {
		scrutinee, err := sb(c)
		if err != nil {
			return nil, err
		}
		irRules := make([]ir.MatchRule, len(rules))
		for i, r := range rules {
			body, err := r.bodyB(c)
			if err != nil {
				return nil, err
			}
			var guard ir.Expr
			if r.guardB != nil {
				guard, err = r.guardB(c)
				if err != nil {
					return nil, err
				}
			}
			irRules[i] = ir.MatchRule{Pattern: r.pat, Guard: guard, Body: body}
		}
		return ir.NewMatch(scrutinee, irRules, c.applyDeep(resultType), x.Span), nil
	}, nil
}

// inferPattern type-checks a surface pattern against an already-known
// scrutinee type, returning the frozen pattern and the environment
// extended with its bound variables.
func (c *checker) inferPattern(e env, p ast.Pattern, scrutType core.Type) (ir.Pattern, env, error) {
	switch p := p.(type) {
	case ast.PatWild:
		return ir.PWild{}, e, nil
	case ast.PatVar:
		return ir.PVar{Name: p.Name.Text}, e.extend(p.Name.Text, scrutType), nil
	case ast.PatLit:
		_, lb, err := c.inferLit(ast.ELit{Lit: p.Lit, Span: p.Span})
		if err != nil {
			return nil, nil, err
		}
		lit, err := lb(c)
		if err != nil {
			return nil, nil, err
		}
		return ir.PLit{Value: lit.(ir.Lit).Value}, e, nil
	case ast.PatTag:
		enumQN, tag, err := resolve.ResolveTag(c.ns, p.Tag, c.table)
		if err != nil {
			return nil, nil, err
		}
		decl, ok := c.table.Lookup(enumQN)
		if !ok {
			return nil, nil, ErrUnknownTag.New(tag, enumQN.String(), p.Span)
		}
		payloadType, ok := decl.Tags[tag]
		if !ok {
			return nil, nil, ErrUnknownTag.New(tag, enumQN.String(), p.Span)
		}
		if err := c.unify(scrutType, core.Enum(enumQN, decl.Tags), p.Span); err != nil {
			return nil, nil, err
		}
		if p.Payload == nil {
			return ir.PTag{Name: tag}, e, nil
		}
		payload, inner, err := c.inferPattern(e, p.Payload, payloadType)
		if err != nil {
			return nil, nil, err
		}
		return ir.PTag{Name: tag, Payload: payload}, inner, nil
	case ast.PatTuple:
		elmTypes := make([]core.Type, len(p.Elms))
		for i := range p.Elms {
			elmTypes[i] = c.fresh()
		}
		if err := c.unify(scrutType, core.Tuple(elmTypes...), p.Span); err != nil {
			return nil, nil, err
		}
		pats := make([]ir.Pattern, len(p.Elms))
		inner := e
		for i, sub := range p.Elms {
			pat, next, err := c.inferPattern(inner, sub, elmTypes[i])
			if err != nil {
				return nil, nil, err
			}
			pats[i] = pat
			inner = next
		}
		return ir.PTuple{Elms: pats}, inner, nil
	default:
		return nil, nil, ErrTypeMismatch.New(ast.Span{}, "a known pattern form", "unsupported")
	}
}

func (c *checker) inferTag(e env, x ast.ETag) (core.Type, builder, error) {
	enumQN, tag, err := resolve.ResolveTag(c.ns, x.Tag, c.table)
	if err != nil {
		return core.Type{}, nil, err
	}
	decl, ok := c.table.Lookup(enumQN)
	if !ok {
		return core.Type{}, nil, ErrUnknownTag.New(tag, enumQN.String(), x.Span)
	}
	payloadType, ok := decl.Tags[tag]
	if !ok {
		return core.Type{}, nil, ErrUnknownTag.New(tag, enumQN.String(), x.Span)
	}
	var payloadB builder
	if x.Payload != nil {
		pt, pb, err := c.inferExpr(e, x.Payload)
		if err != nil {
			return core.Type{}, nil, err
		}
		if err := c.unify(pt, payloadType, x.Span); err != nil {
			return core.Type{}, nil, err
		}
		payloadB = pb
	}
	resultType := core.Enum(enumQN, decl.Tags)
	return resultType, func(c *checker) (ir.Expr, error) {
		var payload ir.Expr
		if payloadB != nil {
			var err error
			payload, err = payloadB(c)
			if err != nil {
				return nil, err
			}
		}
		return ir.NewTag(tag, payload, c.applyDeep(resultType), x.Span), nil
	}, nil
}

func (c *checker) inferTuple(e env, x ast.ETuple) (core.Type, builder, error) {
	elmTypes := make([]core.Type, len(x.Elms))
	elmBs := make([]builder, len(x.Elms))
	for i, el := range x.Elms {
		t, b, err := c.inferExpr(e, el)
		if err != nil {
			return core.Type{}, nil, err
		}
		elmTypes[i] = t
		elmBs[i] = b
	}
	resultType := core.Tuple(elmTypes...)
	return resultType, func(c *checker) (ir.Expr, error) {
		elms := make([]ir.Expr, len(elmBs))
		for i, b := range elmBs {
			v, err := b(c)
			if err != nil {
				return nil, err
			}
			elms[i] = v
		}
		return ir.NewTuple(elms, c.applyDeep(resultType), x.Span), nil
	}, nil
}

var collectionTypeName = map[ast.CollectionKind]string{
	ast.CollOption: "Option", ast.CollList: "List", ast.CollVec: "Vec",
	ast.CollSet: "Set", ast.CollMap: "Map",
}
var collectionKindMap = map[ast.CollectionKind]ir.CollectionKind{
	ast.CollOption: ir.CollOption, ast.CollList: ir.CollList, ast.CollVec: ir.CollVec,
	ast.CollSet: ir.CollSet, ast.CollMap: ir.CollMap,
}

func (c *checker) inferCollection(e env, x ast.ECollection) (core.Type, builder, error) {
	coll := x.Kind
	if coll.Kind == ast.CollMap {
		keyType, valType := c.fresh(), c.fresh()
		keyBs := make([]builder, len(coll.Pairs))
		valBs := make([]builder, len(coll.Pairs))
		for i, p := range coll.Pairs {
			kt, kb, err := c.inferExpr(e, p.Key)
			if err != nil {
				return core.Type{}, nil, err
			}
			if err := c.unify(kt, keyType, x.Span); err != nil {
				return core.Type{}, nil, err
			}
			vt, vb, err := c.inferExpr(e, p.Val)
			if err != nil {
				return core.Type{}, nil, err
			}
			if err := c.unify(vt, valType, x.Span); err != nil {
				return core.Type{}, nil, err
			}
			keyBs[i], valBs[i] = kb, vb
		}
		resultType := core.Parametric(core.NewQName(nil, "Map"), keyType, valType)
		return resultType, func(c *checker) (ir.Expr, error) {
			pairs := make([]ir.MapEntry, len(coll.Pairs))
			for i := range coll.Pairs {
				k, err := keyBs[i](c)
				if err != nil {
					return nil, err
				}
				v, err := valBs[i](c)
				if err != nil {
					return nil, err
				}
				pairs[i] = ir.MapEntry{Key: k, Val: v}
			}
			return ir.NewCollection(ir.CollMap, nil, pairs, c.applyDeep(resultType), x.Span), nil
		}, nil
	}

	elemType := c.fresh()
	elmBs := make([]builder, len(coll.Elms))
	for i, el := range coll.Elms {
		t, b, err := c.inferExpr(e, el)
		if err != nil {
			return core.Type{}, nil, err
		}
		if err := c.unify(t, elemType, x.Span); err != nil {
			return core.Type{}, nil, err
		}
		elmBs[i] = b
	}
	resultType := core.Parametric(core.NewQName(nil, collectionTypeName[coll.Kind]), elemType)
	ik := collectionKindMap[coll.Kind]
	return resultType, func(c *checker) (ir.Expr, error) {
		elms := make([]ir.Expr, len(elmBs))
		for i, b := range elmBs {
			v, err := b(c)
			if err != nil {
				return nil, err
			}
			elms[i] = v
		}
		return ir.NewCollection(ik, elms, nil, c.applyDeep(resultType), x.Span), nil
	}, nil
}

func (c *checker) inferQuantifier(e env, params []ast.FormalParam, body ast.Expr, universal bool, span ast.Span) (core.Type, builder, error) {
	if len(params) == 0 {
		if universal {
			return core.Type{}, nil, ErrIllegalQuantifierArity.New("universal", span)
		}
		return core.Type{}, nil, ErrIllegalQuantifierArity.New("existential", span)
	}
	names := make([]string, len(params))
	inner := e
	for i, p := range params {
		pt, err := resolve.ResolveType(c.ns, p.Type, c.table)
		if err != nil {
			return core.Type{}, nil, err
		}
		if p.Type == nil {
			pt = c.fresh()
		}
		names[i] = p.Name.Text
		inner = inner.extend(names[i], pt)
	}
	bt, bb, err := c.inferExpr(inner, body)
	if err != nil {
		return core.Type{}, nil, err
	}
	if err := c.unify(bt, core.Primitive(core.KBool), span); err != nil {
		return core.Type{}, nil, err
	}
	resultType := core.Primitive(core.KBool)
	return resultType, func(c *checker) (ir.Expr, error) {
		body, err := bb(c)
		if err != nil {
			return nil, err
		}
		return ir.NewQuantifier(universal, names, body, resultType, span), nil
	}, nil
}

func (c *checker) inferAscribe(e env, x ast.EAscribe) (core.Type, builder, error) {
	declared, err := resolve.ResolveType(c.ns, x.Type, c.table)
	if err != nil {
		return core.Type{}, nil, err
	}
	vt, vb, err := c.inferExpr(e, x.Value)
	if err != nil {
		return core.Type{}, nil, err
	}
	if err := c.unify(vt, declared, x.Span); err != nil {
		return core.Type{}, nil, err
	}
	return declared, func(c *checker) (ir.Expr, error) {
		v, err := vb(c)
		if err != nil {
			return nil, err
		}
		return ir.NewAscribe(v, c.applyDeep(declared), x.Span), nil
	}, nil
}

func (c *checker) inferUserError(e env, x ast.EUserError) (core.Type, builder, error) {
	mt, mb, err := c.inferExpr(e, x.Message)
	if err != nil {
		return core.Type{}, nil, err
	}
	if err := c.unify(mt, core.Primitive(core.KStr), x.Span); err != nil {
		return core.Type{}, nil, err
	}
	resultType := c.fresh()
	return resultType, func(c *checker) (ir.Expr, error) {
		msg, err := mb(c)
		if err != nil {
			return nil, err
		}
		return ir.NewUserError(msg, c.applyDeep(resultType), x.Span), nil
	}, nil
}
