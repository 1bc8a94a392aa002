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

package weeder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flix-lang/flix/ast"
)

func ident(s string) ast.Ident { return ast.Ident{Text: s} }

// TestDuplicateTagRejected checks that `enum E { case A, case A }` fails
// weeding with a DuplicateTag error.
func TestDuplicateTagRejected(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Enum{
			Name: ident("E"),
			Cases: []ast.EnumCase{
				{Tag: ident("A")},
				{Tag: ident("A")},
			},
		},
	}}
	_, errs := Weed(root)
	require.Len(t, errs, 1)
	require.True(t, ErrDuplicateTag.Is(errs[0]))
}

func TestEmptyRelationFails(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{ast.Relation{Name: ident("R")}}}
	_, errs := Weed(root)
	require.Len(t, errs, 1)
	require.True(t, ErrEmptyRelation.Is(errs[0]))
}

func TestDuplicateAttributeFails(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Relation{Name: ident("R"), Attrs: []ast.Attribute{
			{Name: ident("a")}, {Name: ident("a")},
		}},
	}}
	_, errs := Weed(root)
	require.Len(t, errs, 1)
	require.True(t, ErrDuplicateAttribute.Is(errs[0]))
}

func TestEmptyParameterListFails(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Def{Name: ident("f"), Body: ast.ELit{Lit: ast.Literal{Kind: ast.LitUnit}}},
	}}
	_, errs := Weed(root)
	require.Len(t, errs, 1)
	require.True(t, ErrIllegalParameterList.Is(errs[0]))
}

func TestIllegalAnnotationFails(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Def{
			Name:        ident("f"),
			Annotations: []ast.Annotation{{Name: ident("bogus")}},
			Params:      []ast.FormalParam{{Name: ident("x")}},
			Body:        ast.EVar{Name: ast.Name{Leaf: ident("x")}},
		},
	}}
	_, errs := Weed(root)
	require.Len(t, errs, 1)
	require.True(t, ErrIllegalAnnotation.Is(errs[0]))
}

func TestWildcardInExpressionPositionFails(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Def{
			Name:   ident("f"),
			Params: []ast.FormalParam{{Name: ident("x")}},
			Body:   ast.EWild{},
		},
	}}
	_, errs := Weed(root)
	require.Len(t, errs, 1)
	require.True(t, ErrIllegalWildcard.Is(errs[0]))
}

func TestNonLinearPatternFails(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Def{
			Name:   ident("f"),
			Params: []ast.FormalParam{{Name: ident("x")}},
			Body: ast.ELetMatch{
				Pattern: ast.PatTuple{Elms: []ast.Pattern{
					ast.PatVar{Name: ident("a")},
					ast.PatVar{Name: ident("a")},
				}},
				Value: ast.EVar{Name: ast.Name{Leaf: ident("x")}},
				Body:  ast.EVar{Name: ast.Name{Leaf: ident("a")}},
			},
		},
	}}
	_, errs := Weed(root)
	require.Len(t, errs, 1)
	require.True(t, ErrNonLinearPattern.Is(errs[0]))
}

func TestEmptyTupleBecomesUnit(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Def{
			Name:   ident("f"),
			Params: []ast.FormalParam{{Name: ident("x")}},
			Body:   ast.ETuple{},
		},
	}}
	woven, errs := Weed(root)
	require.Empty(t, errs)
	def := woven.Decls[0].(ast.Def)
	tup, ok := def.Body.(ast.ETuple)
	require.True(t, ok)
	require.Empty(t, tup.Elms)
}

func TestSingletonTupleUnwrapped(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Def{
			Name:   ident("f"),
			Params: []ast.FormalParam{{Name: ident("x")}},
			Body: ast.ETuple{Elms: []ast.Expr{
				ast.EVar{Name: ast.Name{Leaf: ident("x")}},
			}},
		},
	}}
	woven, errs := Weed(root)
	require.Empty(t, errs)
	def := woven.Decls[0].(ast.Def)
	_, ok := def.Body.(ast.EVar)
	require.True(t, ok, "singleton tuple must unwrap to its element")
}

func TestTagWithoutPayloadGetsImplicitUnit(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Def{
			Name:   ident("f"),
			Params: []ast.FormalParam{{Name: ident("x")}},
			Body:   ast.ETag{Tag: ast.Name{Leaf: ident("Nil")}},
		},
	}}
	woven, errs := Weed(root)
	require.Empty(t, errs)
	def := woven.Decls[0].(ast.Def)
	tag := def.Body.(ast.ETag)
	require.NotNil(t, tag.Payload)
}

func TestDuplicateAliasAccumulates(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Rule{
			Head: ast.Predicate{Name: ast.Name{Leaf: ident("P")}},
			Body: []ast.BodyAtom{
				ast.AtomAlias{Name: ident("x"), Term: ast.ELit{Lit: ast.Literal{Kind: ast.LitUnit}}},
				ast.AtomAlias{Name: ident("x"), Term: ast.ELit{Lit: ast.Literal{Kind: ast.LitUnit}}},
			},
		},
	}}
	_, errs := Weed(root)
	require.Len(t, errs, 1)
	require.True(t, ErrDuplicateAlias.Is(errs[0]))
}

func TestIllegalIntOutOfRange(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Def{
			Name:   ident("f"),
			Params: []ast.FormalParam{{Name: ident("x")}},
			Body:   ast.ELit{Lit: ast.Literal{Kind: ast.LitInt8, Text: "1000"}},
		},
	}}
	_, errs := Weed(root)
	require.Len(t, errs, 1)
	require.True(t, ErrIllegalInt.Is(errs[0]))
}

func TestLatticeOperatorDesugarsToCall(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Def{
			Name:   ident("f"),
			Params: []ast.FormalParam{{Name: ident("x")}, {Name: ident("y")}},
			Body: ast.EBinary{
				Op:  ast.OpLub,
				Lhs: ast.EVar{Name: ast.Name{Leaf: ident("x")}},
				Rhs: ast.EVar{Name: ast.Name{Leaf: ident("y")}},
			},
		},
	}}
	woven, errs := Weed(root)
	require.Empty(t, errs)
	def := woven.Decls[0].(ast.Def)
	app, ok := def.Body.(ast.EApp)
	require.True(t, ok, "lattice operator must desugar to a call")
	require.Equal(t, "⊔", app.Fn.(ast.EVar).Name.Leaf.Text)
}
