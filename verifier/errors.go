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

// Package verifier discharges user-declared algebraic laws — and the
// built-in bounded-lattice laws (reflexivity, antisymmetry, transitivity
// of leq; commutativity, associativity, idempotence of lub;
// absorption) — by translating each law body to an SMT formula and
// checking that its negation is unsatisfiable.
package verifier

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// ErrLawViolated describes a law whose negation is satisfiable. The
	// Verifier does not raise it: check reports that outcome as a Result
	// with Status Violated and the model's binding in Counterexample.
	ErrLawViolated = errors.NewKind("verifier: law %s does not hold, counterexample: %s")

	// ErrInconclusive describes a law the decision procedure could not
	// settle within its timeout, or whose body this translator cannot
	// express in the supported SMT fragment. The Verifier does not raise
	// it: check reports that outcome as a Result with Status
	// Inconclusive and a plain fmt.Errorf error in Err.
	ErrInconclusive = errors.NewKind("verifier: law %s is inconclusive: %s")

	// ErrUnsupportedForm describes a law body that uses a language
	// construct outside the quantifier-free (plus bound Forall/Exists)
	// linear arithmetic fragment this translator targets. The Verifier
	// does not raise it: translate returns a plain fmt.Errorf error,
	// which check reports as an Inconclusive Result.
	ErrUnsupportedForm = errors.NewKind("verifier: law %s: %s")
)
