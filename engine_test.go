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

package flix

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flix-lang/flix/ast"
	"github.com/flix-lang/flix/core"
	"github.com/flix-lang/flix/diagnostics"
	"github.com/flix-lang/flix/monitor"
)

func ident(s string) ast.Ident { return ast.Ident{Text: s} }
func tcon(s string) ast.Type   { return ast.TypeCon{Name: ast.Name{Leaf: ident(s)}} }
func evar(s string) ast.Expr   { return ast.EVar{Name: ast.Name{Leaf: ident(s)}} }
func intLit(text string) ast.Expr {
	return ast.ELit{Lit: ast.Literal{Kind: ast.LitInt32, Text: text}}
}

func edgeReachesRoot() *ast.Root {
	return &ast.Root{Decls: []ast.Decl{
		ast.Relation{Name: ident("Edge"), Attrs: []ast.Attribute{
			{Name: ident("from"), Type: tcon("Int32")}, {Name: ident("to"), Type: tcon("Int32")},
		}},
		ast.Relation{Name: ident("Reaches"), Attrs: []ast.Attribute{
			{Name: ident("from"), Type: tcon("Int32")}, {Name: ident("to"), Type: tcon("Int32")},
		}},
		ast.Rule{Head: ast.Predicate{Name: ast.Name{Leaf: ident("Edge")}, Terms: []ast.Expr{intLit("1"), intLit("2")}}},
		ast.Rule{Head: ast.Predicate{Name: ast.Name{Leaf: ident("Edge")}, Terms: []ast.Expr{intLit("2"), intLit("3")}}},
		ast.Rule{
			Head: ast.Predicate{Name: ast.Name{Leaf: ident("Reaches")}, Terms: []ast.Expr{evar("a"), evar("b")}},
			Body: []ast.BodyAtom{
				ast.AtomPredicate{Pred: ast.Predicate{Name: ast.Name{Leaf: ident("Edge")}, Terms: []ast.Expr{evar("a"), evar("b")}}},
			},
		},
		ast.Rule{
			Head: ast.Predicate{Name: ast.Name{Leaf: ident("Reaches")}, Terms: []ast.Expr{evar("a"), evar("c")}},
			Body: []ast.BodyAtom{
				ast.AtomPredicate{Pred: ast.Predicate{Name: ast.Name{Leaf: ident("Edge")}, Terms: []ast.Expr{evar("a"), evar("b")}}},
				ast.AtomPredicate{Pred: ast.Predicate{Name: ast.Name{Leaf: ident("Reaches")}, Terms: []ast.Expr{evar("b"), evar("c")}}},
			},
		},
	}}
}

func TestRunRootSolvesTransitiveClosure(t *testing.T) {
	e := NewDefault()
	result, err := e.RunRoot(context.Background(), edgeReachesRoot())
	require.NoError(t, err)

	reaches, ok := result.Solver.Table(core.NewQName(nil, "Reaches").Key())
	require.True(t, ok)
	require.Len(t, reaches.Rows, 3) // (1,2) (2,3) (1,3)
}

func TestRunRootRecordsPhaseTimingAndDiagnostics(t *testing.T) {
	bag := diagnostics.NewBag()
	m := monitor.New()
	e := New(Config{Monitor: m, Diagnostics: bag})

	_, err := e.RunRoot(context.Background(), edgeReachesRoot())
	require.NoError(t, err)
	require.False(t, bag.HasErrors())

	rows := m.Report()
	var names []string
	for _, r := range rows {
		names = append(names, r.Phase)
	}
	require.Contains(t, names, "solve")
}

func TestRunRootPropagatesWeederErrors(t *testing.T) {
	root := &ast.Root{Decls: []ast.Decl{
		ast.Relation{Name: ident("Empty")}, // no attributes: weeder rejects this
	}}
	bag := diagnostics.NewBag()
	e := New(Config{Diagnostics: bag})

	_, err := e.RunRoot(context.Background(), root)
	require.Error(t, err)
	require.True(t, bag.HasErrors())
}

func TestParseDefaultsToUnwiredStub(t *testing.T) {
	_, err := Parse("foo.flix", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no parser wired")
}
