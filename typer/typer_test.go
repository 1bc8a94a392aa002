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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flix-lang/flix/ast"
	"github.com/flix-lang/flix/core"
	"github.com/flix-lang/flix/ir"
	"github.com/flix-lang/flix/resolve"
)

func ident(s string) ast.Ident { return ast.Ident{Text: s} }
func tcon(s string) ast.Type   { return ast.TypeCon{Name: ast.Name{Leaf: ident(s)}} }

func TestInferSimpleArithmeticDef(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Def{
			Name:    ident("inc"),
			Params:  []ast.FormalParam{{Name: ident("x"), Type: tcon("Int32")}},
			RetType: tcon("Int32"),
			Body: ast.EBinary{
				Op:  ast.OpAdd,
				Lhs: ast.EVar{Name: ast.Name{Leaf: ident("x")}},
				Rhs: ast.ELit{Lit: ast.Literal{Kind: ast.LitInt32, Text: "1"}},
			},
		},
	}}
	table, errs := resolve.BuildSymbolTable(root)
	require.Empty(t, errs)

	prog, errs := Infer(root, table)
	require.Empty(t, errs)

	fn, ok := prog.Functions[core.NewQName(nil, "inc").Key()]
	require.True(t, ok)
	require.Equal(t, []string{"x"}, fn.Params)
	bin, ok := fn.Body.(ir.Binary)
	require.True(t, ok)
	require.Equal(t, core.KInt32, bin.Info().Type.Kind)
}

func TestInferRejectsTypeMismatch(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Def{
			Name:    ident("bad"),
			Params:  []ast.FormalParam{{Name: ident("x"), Type: tcon("Int32")}},
			RetType: tcon("Bool"),
			Body:    ast.EVar{Name: ast.Name{Leaf: ident("x")}},
		},
	}}
	table, errs := resolve.BuildSymbolTable(root)
	require.Empty(t, errs)

	_, errs = Infer(root, table)
	require.Len(t, errs, 1)
	require.True(t, ErrTypeMismatch.Is(errs[0]))
}

func TestInferFactMatchesRelationSchema(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Relation{Name: ident("Edge"), Attrs: []ast.Attribute{
			{Name: ident("from"), Type: tcon("Int32")},
			{Name: ident("to"), Type: tcon("Int32")},
		}},
		ast.Rule{Head: ast.Predicate{
			Name: ast.Name{Leaf: ident("Edge")},
			Terms: []ast.Expr{
				ast.ELit{Lit: ast.Literal{Kind: ast.LitInt32, Text: "1"}},
				ast.ELit{Lit: ast.Literal{Kind: ast.LitInt32, Text: "2"}},
			},
		}},
	}}
	table, errs := resolve.BuildSymbolTable(root)
	require.Empty(t, errs)

	prog, errs := Infer(root, table)
	require.Empty(t, errs)
	require.Len(t, prog.Facts, 1)
	require.Equal(t, core.NewQName(nil, "Edge").Key(), prog.Facts[0].Relation)
}

func TestInferRuleBindsBodyVariableIntoHead(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Relation{Name: ident("Edge"), Attrs: []ast.Attribute{
			{Name: ident("from"), Type: tcon("Int32")}, {Name: ident("to"), Type: tcon("Int32")},
		}},
		ast.Relation{Name: ident("Reaches"), Attrs: []ast.Attribute{
			{Name: ident("from"), Type: tcon("Int32")}, {Name: ident("to"), Type: tcon("Int32")},
		}},
		ast.Rule{
			Head: ast.Predicate{Name: ast.Name{Leaf: ident("Reaches")}, Terms: []ast.Expr{
				ast.EVar{Name: ast.Name{Leaf: ident("a")}},
				ast.EVar{Name: ast.Name{Leaf: ident("b")}},
			}},
			Body: []ast.BodyAtom{
				ast.AtomPredicate{Pred: ast.Predicate{Name: ast.Name{Leaf: ident("Edge")}, Terms: []ast.Expr{
					ast.EVar{Name: ast.Name{Leaf: ident("a")}},
					ast.EVar{Name: ast.Name{Leaf: ident("b")}},
				}}},
			},
		},
	}}
	table, errs := resolve.BuildSymbolTable(root)
	require.Empty(t, errs)

	prog, errs := Infer(root, table)
	require.Empty(t, errs)
	require.Len(t, prog.Rules, 1)
	require.Equal(t, core.NewQName(nil, "Reaches").Key(), prog.Rules[0].HeadRelation)
	require.Len(t, prog.Rules[0].Body, 1)
}

// TestInferBotResolvesToDeclaredLatticeInstance grounds the ad-hoc
// polymorphism design: `bot` inside a def returning the Sign lattice's
// element type desugars to a call of that instance's declared bottom.
func TestInferBotResolvesToDeclaredLatticeInstance(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Enum{Name: ident("Sign"), Cases: []ast.EnumCase{
			{Tag: ident("Bot")}, {Tag: ident("Neg")}, {Tag: ident("Top")},
		}},
		ast.Def{Name: ident("signBot"), Params: []ast.FormalParam{{Name: ident("x"), Type: tcon("Int32")}}, RetType: tcon("Sign"), Body: ast.ETag{Tag: ast.Name{Leaf: ident("Bot")}}},
		ast.Def{Name: ident("signTop"), Params: []ast.FormalParam{{Name: ident("x"), Type: tcon("Int32")}}, RetType: tcon("Sign"), Body: ast.ETag{Tag: ast.Name{Leaf: ident("Top")}}},
		ast.Def{Name: ident("signLeq"), Params: []ast.FormalParam{{Name: ident("x"), Type: tcon("Sign")}, {Name: ident("y"), Type: tcon("Sign")}}, RetType: tcon("Bool"), Body: ast.ELit{Lit: ast.Literal{Kind: ast.LitBool, Bool: true}}},
		ast.Def{Name: ident("signLub"), Params: []ast.FormalParam{{Name: ident("x"), Type: tcon("Sign")}, {Name: ident("y"), Type: tcon("Sign")}}, RetType: tcon("Sign"), Body: ast.EVar{Name: ast.Name{Leaf: ident("x")}}},
		ast.Def{Name: ident("signGlb"), Params: []ast.FormalParam{{Name: ident("x"), Type: tcon("Sign")}, {Name: ident("y"), Type: tcon("Sign")}}, RetType: tcon("Sign"), Body: ast.EVar{Name: ast.Name{Leaf: ident("x")}}},
		ast.BoundedLatticeDecl{
			Name: ident("SignLattice"), ElemType: tcon("Sign"),
			Elements: []ast.Expr{
				ast.EVar{Name: ast.Name{Leaf: ident("signBot")}},
				ast.EVar{Name: ast.Name{Leaf: ident("signTop")}},
				ast.EVar{Name: ast.Name{Leaf: ident("signLeq")}},
				ast.EVar{Name: ast.Name{Leaf: ident("signLub")}},
				ast.EVar{Name: ast.Name{Leaf: ident("signGlb")}},
			},
		},
		ast.Def{
			Name:    ident("zero"),
			Params:  []ast.FormalParam{{Name: ident("x"), Type: tcon("Int32")}},
			RetType: tcon("Sign"),
			Body:    ast.EBot{},
		},
	}}
	table, errs := resolve.BuildSymbolTable(root)
	require.Empty(t, errs)

	prog, errs := Infer(root, table)
	require.Empty(t, errs)

	zero, ok := prog.Functions[core.NewQName(nil, "zero").Key()]
	require.True(t, ok)
	app, ok := zero.Body.(ir.App)
	require.True(t, ok, "bot must desugar into a call of the declared instance's bottom")
	ref := app.Fn.(ir.VarRef)
	require.Equal(t, core.NewQName(nil, "signBot").Key(), ref.Name)
}
