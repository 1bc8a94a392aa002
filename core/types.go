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

package core

import "fmt"

// Type is the typed-core type language. Exactly one of the struct fields
// below (selected by Kind) is meaningful for a given value; this mirrors
// a closed sum type without the ceremony of an interface-per-variant,
// which is convenient for the Typer's substitution and unification code.
type Type struct {
	Kind TypeKind

	// Enum / Parametric / Native
	Name QName
	Args []Type

	// Tuple
	Elms []Type

	// Enum payloads, tag -> type
	Cases map[string]Type

	// Lambda
	Params []Type
	Ret    *Type

	// Var
	VarID int
}

type TypeKind int

const (
	KUnit TypeKind = iota
	KBool
	KChar
	KInt8
	KInt16
	KInt32
	KInt64
	KBigInt
	KFloat32
	KFloat64
	KStr
	KTuple
	KEnum
	KLambda
	KParametric
	KNative
	KVar
)

var primitiveNames = map[TypeKind]string{
	KUnit: "Unit", KBool: "Bool", KChar: "Char",
	KInt8: "Int8", KInt16: "Int16", KInt32: "Int32", KInt64: "Int64",
	KBigInt: "BigInt", KFloat32: "Float32", KFloat64: "Float64", KStr: "Str",
}

// Primitive constructs a non-compound type from its kind.
func Primitive(k TypeKind) Type { return Type{Kind: k} }

// Tuple constructs a tuple type.
func Tuple(elms ...Type) Type { return Type{Kind: KTuple, Elms: elms} }

// Lambda constructs a function type.
func Lambda(params []Type, ret Type) Type {
	r := ret
	return Type{Kind: KLambda, Params: params, Ret: &r}
}

// Enum constructs an enum type from its declared name and tag map.
func Enum(name QName, cases map[string]Type) Type {
	return Type{Kind: KEnum, Name: name, Cases: cases}
}

// Parametric constructs a parametric type, e.g. List[Int32].
func Parametric(name QName, args ...Type) Type {
	return Type{Kind: KParametric, Name: name, Args: args}
}

// Native constructs the nominal opaque type for a `Native` construct.
func Native(name QName) Type { return Type{Kind: KNative, Name: name} }

// Var constructs a fresh unresolved type variable. It is a typing error
// for a Var to survive into an exported declaration.
func Var(id int) Type { return Type{Kind: KVar, VarID: id} }

// IsVar reports whether this type is an unresolved type variable.
func (t Type) IsVar() bool { return t.Kind == KVar }

// Equal performs structural type equality, substitution-free (callers
// typing ad-hoc polymorphic lattice operators are expected to have
// already resolved any Vars).
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KTuple:
		if len(t.Elms) != len(o.Elms) {
			return false
		}
		for i := range t.Elms {
			if !t.Elms[i].Equal(o.Elms[i]) {
				return false
			}
		}
		return true
	case KLambda:
		if len(t.Params) != len(o.Params) || !t.Ret.Equal(*o.Ret) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(o.Params[i]) {
				return false
			}
		}
		return true
	case KEnum, KNative:
		return t.Name.Equal(o.Name)
	case KParametric:
		if !t.Name.Equal(o.Name) || len(t.Args) != len(o.Args) {
			return false
		}
		for i := range t.Args {
			if !t.Args[i].Equal(o.Args[i]) {
				return false
			}
		}
		return true
	case KVar:
		return t.VarID == o.VarID
	default:
		return true
	}
}

// String renders a type in Flix-ish surface notation, for diagnostics.
func (t Type) String() string {
	if name, ok := primitiveNames[t.Kind]; ok {
		return name
	}
	switch t.Kind {
	case KTuple:
		return fmt.Sprintf("(%s)", joinTypes(t.Elms))
	case KLambda:
		return fmt.Sprintf("(%s) -> %s", joinTypes(t.Params), t.Ret.String())
	case KEnum, KNative:
		return t.Name.String()
	case KParametric:
		return fmt.Sprintf("%s[%s]", t.Name.String(), joinTypes(t.Args))
	case KVar:
		return fmt.Sprintf("'%d", t.VarID)
	default:
		return "?"
	}
}

func joinTypes(ts []Type) string {
	s := ""
	for i, t := range ts {
		if i > 0 {
			s += ", "
		}
		s += t.String()
	}
	return s
}
