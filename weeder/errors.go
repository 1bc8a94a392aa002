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

// Package weeder performs syntactic validation and desugaring: the
// first phase after parsing, and the only phase permitted to reject a
// program purely on shape rather than meaning.
package weeder

import errors "gopkg.in/src-d/go-errors.v1"

// Error kinds, one  "Weeder" entry. Each is instantiated
// with the offending source location(s) so diagnostics can point at the
// exact text.
var (
	ErrDuplicateAnnotation = errors.NewKind("duplicate annotation @%s at %s (first at %s)")
	ErrDuplicateAttribute  = errors.NewKind("duplicate attribute %q in %s at %s")
	ErrDuplicateFormal     = errors.NewKind("duplicate formal parameter %q in %s at %s")
	ErrDuplicateTag        = errors.NewKind("duplicate tag %q in enum %s at %s (first at %s)")
	ErrDuplicateAlias      = errors.NewKind("duplicate alias %q at %s (first at %s)")
	ErrEmptyRelation       = errors.NewKind("relation %s has no attributes at %s")
	ErrEmptyLattice        = errors.NewKind("lattice table %s has no attributes at %s")
	ErrEmptyIndex          = errors.NewKind("index on %s has no keys at %s")
	ErrIllegalIndex        = errors.NewKind("index on %s has an empty key at %s")
	ErrIllegalParameterList = errors.NewKind("%s requires at least one parameter at %s")
	ErrIllegalLattice      = errors.NewKind("bounded lattice %s must list exactly bot, top, leq, lub, glb (got %d) at %s")
	ErrIllegalAnnotation   = errors.NewKind("unrecognized annotation @%s at %s")
	ErrIllegalExistential  = errors.NewKind("existential quantifier requires at least one parameter at %s")
	ErrIllegalUniversal    = errors.NewKind("universal quantifier requires at least one parameter at %s")
	ErrIllegalWildcard     = errors.NewKind("wildcard `_` is not allowed in expression position at %s")
	ErrIllegalHeadPredicate = errors.NewKind("rule head may not be %s at %s")
	ErrIllegalHeadTerm     = errors.NewKind("illegal term in rule head at %s")
	ErrIllegalBodyTerm     = errors.NewKind("illegal term in rule body at %s")
	ErrIllegalFloat        = errors.NewKind("float literal %q out of range for %s at %s")
	ErrIllegalInt          = errors.NewKind("integer literal %q out of range for %s at %s")
	ErrNonLinearPattern    = errors.NewKind("variable %q is bound more than once in this pattern at %s")
	ErrUnsupported         = errors.NewKind("unsupported construct at %s: %s")
)

// recognizedAnnotations is the closed set of annotation names accepted
// on a def.
var recognizedAnnotations = map[string]bool{
	"associative": true,
	"commutative": true,
	"monotone":    true,
	"strict":      true,
	"unchecked":   true,
	"unsafe":      true,
}
