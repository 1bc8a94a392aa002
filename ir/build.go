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
	"github.com/flix-lang/flix/ast"
	"github.com/flix-lang/flix/core"
)

// The New* family lets other packages (chiefly the Typer) build frozen
// IR nodes without reaching into the unexported base embedding.

func meta(t core.Type, sp ast.Span) base { return base{Meta{Type: t, Span: sp}} }

func NewVarRef(name string, t core.Type, sp ast.Span) Expr {
	return VarRef{meta(t, sp), name}
}

func NewLambda(params []string, body Expr, t core.Type, sp ast.Span) Expr {
	return LambdaExpr{meta(t, sp), params, body}
}

func NewApp(fn Expr, args []Expr, t core.Type, sp ast.Span) Expr {
	return App{meta(t, sp), fn, args}
}

func NewUnary(op ast.UnOp, opnd Expr, t core.Type, sp ast.Span) Expr {
	return Unary{meta(t, sp), op, opnd}
}

func NewBinary(op ast.BinOp, lhs, rhs Expr, t core.Type, sp ast.Span) Expr {
	return Binary{meta(t, sp), op, lhs, rhs}
}

func NewIf(cond, then, els Expr, t core.Type, sp ast.Span) Expr {
	return If{meta(t, sp), cond, then, els}
}

func NewLet(name string, value, body Expr, t core.Type, sp ast.Span) Expr {
	return Let{meta(t, sp), name, value, body}
}

func NewMatch(scrutinee Expr, rules []MatchRule, t core.Type, sp ast.Span) Expr {
	return Match{meta(t, sp), scrutinee, rules}
}

func NewTag(name string, payload Expr, t core.Type, sp ast.Span) Expr {
	return Tag{meta(t, sp), name, payload}
}

func NewTuple(elms []Expr, t core.Type, sp ast.Span) Expr {
	return Tuple{meta(t, sp), elms}
}

func NewCollection(kind CollectionKind, elms []Expr, pairs []MapEntry, t core.Type, sp ast.Span) Expr {
	return Collection{meta(t, sp), kind, elms, pairs}
}

func NewQuantifier(universal bool, params []string, body Expr, t core.Type, sp ast.Span) Expr {
	return Quantifier{meta(t, sp), universal, params, body}
}

func NewAscribe(value Expr, t core.Type, sp ast.Span) Expr {
	return Ascribe{meta(t, sp), value}
}

func NewUserError(message Expr, t core.Type, sp ast.Span) Expr {
	return UserError{meta(t, sp), message}
}
