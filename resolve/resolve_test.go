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

package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flix-lang/flix/ast"
	"github.com/flix-lang/flix/core"
)

func ident(s string) ast.Ident { return ast.Ident{Text: s} }

func TestResolveFindsQualifiedOverBareName(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Namespace{Name: []ast.Ident{ident("Foo")}, Decls: []ast.Decl{
			ast.Def{Name: ident("f"), Params: []ast.FormalParam{{Name: ident("x")}}, Body: ast.ELit{Lit: ast.Literal{Kind: ast.LitUnit}}},
		}},
		ast.Def{Name: ident("f"), Params: []ast.FormalParam{{Name: ident("x")}}, Body: ast.ELit{Lit: ast.Literal{Kind: ast.LitUnit}}},
	}}
	table, errs := BuildSymbolTable(root)
	require.Empty(t, errs)

	qn, err := Resolve([]string{"Foo"}, ast.Name{Leaf: ident("f")}, table)
	require.NoError(t, err)
	require.Equal(t, core.NewQName([]string{"Foo"}, "f"), qn)
}

func TestResolveFallsBackToBareName(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Def{Name: ident("g"), Params: []ast.FormalParam{{Name: ident("x")}}, Body: ast.ELit{Lit: ast.Literal{Kind: ast.LitUnit}}},
	}}
	table, errs := BuildSymbolTable(root)
	require.Empty(t, errs)

	qn, err := Resolve([]string{"Foo"}, ast.Name{Leaf: ident("g")}, table)
	require.NoError(t, err)
	require.Equal(t, core.NewQName(nil, "g"), qn)
}

func TestResolveNameNotFound(t *testing.T) {
	table := core.NewSymbolTable()
	_, err := Resolve(nil, ast.Name{Leaf: ident("missing")}, table)
	require.True(t, ErrNameNotFound.Is(err))
}

func TestResolveAmbiguousName(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Namespace{Name: []ast.Ident{ident("A")}, Decls: []ast.Decl{
			ast.Def{Name: ident("h"), Params: []ast.FormalParam{{Name: ident("x")}}, Body: ast.ELit{Lit: ast.Literal{Kind: ast.LitUnit}}},
		}},
		ast.Namespace{Name: []ast.Ident{ident("A")}, Decls: []ast.Decl{
			ast.Class{Name: ident("Dummy")},
		}},
	}}
	table, _ := BuildSymbolTable(root)
	table.Declare(&core.Declaration{Kind: core.DeclFunction, Name: core.NewQName([]string{"A"}, "h")})

	_, err := Resolve([]string{"A"}, ast.Name{Leaf: ident("h")}, table)
	require.True(t, ErrAmbiguousName.Is(err))
}

func TestResolveTagScansEnums(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Enum{Name: ident("Option"), Cases: []ast.EnumCase{
			{Tag: ident("None")},
			{Tag: ident("Some")},
		}},
	}}
	table, errs := BuildSymbolTable(root)
	require.Empty(t, errs)

	enum, tag, err := ResolveTag(nil, ast.Name{Leaf: ident("Some")}, table)
	require.NoError(t, err)
	require.Equal(t, "Some", tag)
	require.Equal(t, core.NewQName(nil, "Option"), enum)
}

func TestResolveTagNotFound(t *testing.T) {
	table := core.NewSymbolTable()
	_, _, err := ResolveTag(nil, ast.Name{Leaf: ident("Nope")}, table)
	require.True(t, ErrNameNotFound.Is(err))
}
