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

// Package solver evaluates a typed, simplified ir.Program to a
// fixpoint: a semi-naive Datalog-with-lattices evaluator that seeds
// each table from declared facts, then repeatedly fires rules whose
// body mentions a relation with a non-empty delta until every delta is
// empty or an iteration cap is hit.
package solver

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// ErrNonTerminating is returned when the fixpoint computation has
	// not stabilized after MaxIterations rounds, most likely because a
	// lattice-table column's element type lacks both a height function
	// and a widening operator.
	ErrNonTerminating = errors.NewKind("solver: fixpoint not reached after %d iterations")

	// ErrLatticeJoinTypeMismatch is returned when a candidate value for
	// a Lattice-table's element column does not structurally match the
	// shape the table's bottom element has.
	ErrLatticeJoinTypeMismatch = errors.NewKind("solver: lattice join type mismatch in table %s: expected value shaped like %s, got %s")

	// ErrUserError wraps a user() expression evaluated while firing a
	// rule; Run returns it at once, so it aborts the whole run, not only
	// the round in progress.
	ErrUserError = errors.NewKind("solver: %s")

	// ErrUnsafeNegation is returned when a negated body atom mentions a
	// variable that no earlier atom has bound; Datalog negation is only
	// safe over already-bound variables.
	ErrUnsafeNegation = errors.NewKind("solver: unsafe negation, variable %q is unbound in %s")

	// ErrNoLatticeInstance is returned when a Lattice-table's element
	// type has no matching BoundedLattice declaration in the symbol
	// table; the Typer should have rejected this earlier, so this
	// indicates the table was constructed outside the normal pipeline.
	ErrNoLatticeInstance = errors.NewKind("solver: no bounded lattice instance registered for table %s")
)
