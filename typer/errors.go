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

// Package typer performs bidirectional Hindley-Milner-style inference
// over a weeded, resolved ast.Root and lowers it directly into the
// frozen ir. Ad-hoc polymorphism for the lattice operators
// leq/lub/glb/widen is resolved by looking up the BoundedLattice
// instance matching an expression's inferred element type, rather than
// by runtime dispatch.
package typer

import errors "gopkg.in/src-d/go-errors.v1"

var (
	ErrTypeMismatch     = errors.NewKind("type mismatch at %s: expected %s, got %s")
	ErrOccursCheck       = errors.NewKind("infinite type at %s: %s occurs in %s")
	ErrNoLatticeInstance = errors.NewKind("no bounded lattice instance for type %s at %s")
	ErrNotAFunction      = errors.NewKind("cannot apply non-function type %s at %s")
	ErrArityMismatch     = errors.NewKind("arity mismatch at %s: expected %d arguments, got %d")
	ErrNotIterable       = errors.NewKind("type %s at %s is not iterable in a for-loop body atom")
	ErrUnknownTag        = errors.NewKind("tag %q is not a case of enum %s at %s")
	ErrIllegalQuantifierArity = errors.NewKind("%s quantifier requires at least one parameter at %s")
)
