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
	"fmt"

	"github.com/flix-lang/flix/ast"
	"github.com/flix-lang/flix/core"
	"github.com/flix-lang/flix/internal/similartext"
)

var builtinTypes = map[string]core.TypeKind{
	"Unit": core.KUnit, "Bool": core.KBool, "Char": core.KChar,
	"Int8": core.KInt8, "Int16": core.KInt16, "Int32": core.KInt32, "Int64": core.KInt64,
	"BigInt": core.KBigInt, "Float32": core.KFloat32, "Float64": core.KFloat64, "Str": core.KStr,
}

// BuildSymbolTable walks a weeded Root and registers every declaration it
// finds: the table grows monotonically as declarations are discovered.
// It is returned unfrozen; the Typer later completes each bounded-lattice
// entry in place through Replace.
func BuildSymbolTable(root *ast.Root) (*core.SymbolTable, []error) {
	t := core.NewSymbolTable()
	var errs []error
	var walk func(ns []string, decls []ast.Decl)
	walk = func(ns []string, decls []ast.Decl) {
		for _, d := range decls {
			switch decl := d.(type) {
			case ast.Namespace:
				seg := make([]string, len(decl.Name))
				for i, id := range decl.Name {
					seg[i] = id.Text
				}
				walk(append(append([]string{}, ns...), seg...), decl.Decls)
			case ast.Def:
				paramTypes, err := resolveTypes(ns, formalTypes(decl.Params), t)
				if err != nil {
					errs = append(errs, err)
				}
				retType, err := resolveType(ns, decl.RetType, t)
				if err != nil {
					errs = append(errs, err)
				}
				anns := make([]string, len(decl.Annotations))
				for i, a := range decl.Annotations {
					anns[i] = a.Name.Text
				}
				t.Declare(&core.Declaration{
					Kind: core.DeclFunction, Name: core.NewQName(ns, decl.Name.Text),
					Pos: decl.Name.Pos, ParamTypes: paramTypes, RetType: retType,
					Annotations: anns,
				})
			case ast.Enum:
				tags := make(map[string]core.Type, len(decl.Cases))
				for _, c := range decl.Cases {
					ct, err := resolveType(ns, c.Payload, t)
					if err != nil {
						errs = append(errs, err)
						continue
					}
					tags[c.Tag.Text] = ct
				}
				t.Declare(&core.Declaration{
					Kind: core.DeclEnum, Name: core.NewQName(ns, decl.Name.Text),
					Pos: decl.Name.Pos, Tags: tags,
				})
			case ast.Relation:
				t.Declare(&core.Declaration{
					Kind: core.DeclRelation, Name: core.NewQName(ns, decl.Name.Text),
					Pos: decl.Name.Pos, Schema: attrSchema(ns, decl.Name.Text, core.TableRelation, decl.Attrs, t, &errs),
				})
			case ast.LatticeTable:
				t.Declare(&core.Declaration{
					Kind: core.DeclLattice, Name: core.NewQName(ns, decl.Name.Text),
					Pos: decl.Name.Pos, Schema: attrSchema(ns, decl.Name.Text, core.TableLattice, decl.Attrs, t, &errs),
				})
			case ast.Index:
				qn := core.FromAstName(decl.Relation).Prepend(ns)
				keys := make([][]string, len(decl.Keys))
				for i, k := range decl.Keys {
					row := make([]string, len(k))
					for j, id := range k {
						row[j] = id.Text
					}
					keys[i] = row
				}
				t.Declare(&core.Declaration{
					Kind: core.DeclIndex, Name: qn, Pos: decl.Span.Start, IndexKeys: keys,
				})
			case ast.BoundedLatticeDecl:
				et, err := resolveType(ns, decl.ElemType, t)
				if err != nil {
					errs = append(errs, err)
				}
				t.Declare(&core.Declaration{
					Kind: core.DeclBoundedLattice, Name: core.NewQName(ns, decl.Name.Text),
					Pos: decl.Name.Pos, Lattice: &core.LatticeMeta{ElemType: et},
				})
			case ast.Class:
				for _, sig := range decl.Sigs {
					walk(ns, []ast.Decl{sig})
				}
				t.Declare(&core.Declaration{Kind: core.DeclClass, Name: core.NewQName(ns, decl.Name.Text), Pos: decl.Name.Pos})
			case ast.Impl:
				walk(ns, defsToDecls(decl.Defs))
			case ast.Law:
				anns := make([]string, len(decl.Annotations))
				for i, a := range decl.Annotations {
					anns[i] = a.Name.Text
				}
				t.Declare(&core.Declaration{Kind: core.DeclLaw, Name: core.NewQName(ns, decl.Name.Text), Pos: decl.Name.Pos, Annotations: anns})
			case ast.Rule:
				// Rules are not named declarations; the Typer lowers
				// them into the ir.Program's Facts and Rules.
			}
		}
	}
	walk(nil, root.Decls)
	return t, errs
}

func defsToDecls(defs []ast.Def) []ast.Decl {
	out := make([]ast.Decl, len(defs))
	for i, d := range defs {
		out[i] = d
	}
	return out
}

func formalTypes(ps []ast.FormalParam) []ast.Type {
	out := make([]ast.Type, len(ps))
	for i, p := range ps {
		out[i] = p.Type
	}
	return out
}

func attrSchema(ns []string, name string, kind core.TableKind, attrs []ast.Attribute, t *core.SymbolTable, errs *[]error) *core.Schema {
	cols := make([]core.Column, len(attrs))
	for i, a := range attrs {
		ct, err := resolveType(ns, a.Type, t)
		if err != nil {
			*errs = append(*errs, err)
		}
		cols[i] = core.Column{Name: a.Name.Text, Type: ct}
	}
	return &core.Schema{Name: core.NewQName(ns, name), Kind: kind, Attrs: cols}
}

func resolveTypes(ns []string, ts []ast.Type, t *core.SymbolTable) ([]core.Type, error) {
	out := make([]core.Type, len(ts))
	var firstErr error
	for i, at := range ts {
		ct, err := resolveType(ns, at, t)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		out[i] = ct
	}
	return out, firstErr
}

// ResolveType converts a surface type to a core.Type; exported for the
// Typer, which needs it for ascriptions and quantifier parameter types
// that were not already captured in a Declaration by BuildSymbolTable.
func ResolveType(ns []string, t ast.Type, table *core.SymbolTable) (core.Type, error) {
	return resolveType(ns, t, table)
}

// resolveType converts a surface type to a core.Type, resolving any
// referenced type constructor names through the same search order Resolve
// uses for values.
func resolveType(ns []string, at ast.Type, t *core.SymbolTable) (core.Type, error) {
	if at == nil {
		return core.Primitive(core.KUnit), nil
	}
	switch ty := at.(type) {
	case ast.TypeUnit:
		return core.Primitive(core.KUnit), nil
	case ast.TypeVar:
		return core.Type{Kind: core.KVar}, nil
	case ast.TypeTuple:
		elms, err := resolveTypes(ns, ty.Elms, t)
		if err != nil {
			return core.Type{}, err
		}
		return core.Tuple(elms...), nil
	case ast.TypeArrow:
		params, err := resolveTypes(ns, ty.Params, t)
		if err != nil {
			return core.Type{}, err
		}
		ret, err := resolveType(ns, ty.Ret, t)
		if err != nil {
			return core.Type{}, err
		}
		return core.Lambda(params, ret), nil
	case ast.TypeApply:
		base, err := resolveType(ns, ty.Base, t)
		if err != nil {
			return core.Type{}, err
		}
		args, err := resolveTypes(ns, ty.Args, t)
		if err != nil {
			return core.Type{}, err
		}
		return core.Parametric(base.Name, args...), nil
	case ast.TypeCon:
		if len(ty.Name.Namespace) == 0 {
			if k, ok := builtinTypes[ty.Name.Leaf.Text]; ok {
				return core.Primitive(k), nil
			}
		}
		qn, err := Resolve(ns, ty.Name, t)
		if err != nil {
			return core.Type{}, err
		}
		cands := t.Candidates(qn)
		if len(cands) == 1 && cands[0].Kind == core.DeclEnum {
			return core.Enum(qn, cands[0].Tags), nil
		}
		return core.Native(qn), nil
	default:
		return core.Type{}, fmt.Errorf("resolve: unhandled surface type %T", at)
	}
}

// Resolve implements the two-step search order:
// first `current-namespace ++ name`, then the bare name as written. Zero
// candidates after both searches is a NameNotFound error; more than one
// candidate surviving either successful search is AmbiguousName.
func Resolve(ns []string, name ast.Name, table *core.SymbolTable) (core.QName, error) {
	bare := core.FromAstName(name)

	qualified := bare.Prepend(ns)
	if cs := table.Candidates(qualified); len(cs) > 0 {
		if len(cs) > 1 {
			return core.QName{}, ErrAmbiguousName.New(qualified.String(), name.Leaf.Pos, candidateNames(cs))
		}
		return qualified, nil
	}

	if cs := table.Candidates(bare); len(cs) > 0 {
		if len(cs) > 1 {
			return core.QName{}, ErrAmbiguousName.New(bare.String(), name.Leaf.Pos, candidateNames(cs))
		}
		return bare, nil
	}

	return core.QName{}, ErrNameNotFound.New(name.String(), name.Leaf.Pos, suggestFor(table, name.Leaf.Text))
}

// ResolveTag resolves a bare enum-tag reference to its owning enum's
// QName and the tag's own name. A bare tag such as `None` resolves by
// scanning every declared enum's case set.
func ResolveTag(ns []string, name ast.Name, table *core.SymbolTable) (enum core.QName, tag string, err error) {
	if len(name.Namespace) > 0 {
		qn, rerr := Resolve(ns, ast.Name{Namespace: name.Namespace}, table)
		if rerr != nil {
			return core.QName{}, "", rerr
		}
		return qn, name.Leaf.Text, nil
	}
	var matches []*core.Declaration
	for _, d := range table.All() {
		if d.Kind != core.DeclEnum {
			continue
		}
		if _, ok := d.Tags[name.Leaf.Text]; ok {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return core.QName{}, "", ErrNameNotFound.New(name.String(), name.Leaf.Pos, suggestFor(table, name.Leaf.Text))
	case 1:
		return matches[0].Name, name.Leaf.Text, nil
	default:
		return core.QName{}, "", ErrAmbiguousName.New(name.Leaf.Text, name.Leaf.Pos, candidateNames(matches))
	}
}

// suggestFor offers a "maybe you mean X?" suffix built from every
// declared leaf name in table, for a name that resolved to nothing.
func suggestFor(table *core.SymbolTable, leaf string) string {
	var names []string
	for _, d := range table.All() {
		names = append(names, d.Name.Leaf)
	}
	return similartext.Find(names, leaf)
}

func candidateNames(ds []*core.Declaration) string {
	s := ""
	for i, d := range ds {
		if i > 0 {
			s += ", "
		}
		s += d.Name.String()
	}
	return s
}
