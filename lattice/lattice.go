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

// Package lattice provides the algebraic contracts a declarative
// solver needs: partial orders, join/meet lattices, bounded lattices
// with a height function, and widening. Ad-hoc polymorphism for
// lattice operators is implemented as dictionary passing: an Instance[E]
// is a plain data value holding the operator functions, selected once
// during resolution and threaded explicitly rather than dispatched at
// runtime.
package lattice

// Instance is the dictionary record describing one lattice:
// {leq, lub, glb, widen?, bot, top, h?} over one element type E. Widen
// and Height are optional; a BoundedLattice needs no Widen (it has
// Height for the ascending-chain argument), a plain Widening lattice has
// Widen but no Height.
type Instance[E any] struct {
	Bot    E
	Top    E
	Leq    func(a, b E) bool
	Lub    func(a, b E) E
	Glb    func(a, b E) E
	Widen  func(a, b E) E
	Height func(E) int

	HasTop    bool
	HasWiden  bool
	HasHeight bool
}

// Eq derives equality from antisymmetry: a == b iff a <= b and b <= a.
func (i Instance[E]) Eq(a, b E) bool {
	return i.Leq(a, b) && i.Leq(b, a)
}

// Bounded reports whether this instance can prove ascending-chain
// termination via a height function, as opposed to needing a Widen to
// force convergence.
func (i Instance[E]) Bounded() bool { return i.HasHeight }

// CheckReflexive checks `leq` reflexivity over a sample of elements.
func CheckReflexive[E any](i Instance[E], sample []E) bool {
	for _, x := range sample {
		if !i.Leq(x, x) {
			return false
		}
	}
	return true
}

// CheckAntisymmetric checks `leq` antisymmetry: x<=y && y<=x => x "is" y,
// expressed via the caller-supplied equality predicate (element types are
// not assumed comparable).
func CheckAntisymmetric[E any](i Instance[E], sample []E, eq func(a, b E) bool) bool {
	for _, x := range sample {
		for _, y := range sample {
			if i.Leq(x, y) && i.Leq(y, x) && !eq(x, y) {
				return false
			}
		}
	}
	return true
}

// CheckTransitive checks `leq` transitivity over a sample.
func CheckTransitive[E any](i Instance[E], sample []E) bool {
	for _, x := range sample {
		for _, y := range sample {
			if !i.Leq(x, y) {
				continue
			}
			for _, z := range sample {
				if i.Leq(y, z) && !i.Leq(x, z) {
					return false
				}
			}
		}
	}
	return true
}

// CheckLubCommutative checks `lub(x,y) == lub(y,x)` over a sample.
func CheckLubCommutative[E any](i Instance[E], sample []E, eq func(a, b E) bool) bool {
	for _, x := range sample {
		for _, y := range sample {
			if !eq(i.Lub(x, y), i.Lub(y, x)) {
				return false
			}
		}
	}
	return true
}

// CheckLubAssociative checks `lub(lub(x,y),z) == lub(x,lub(y,z))`.
func CheckLubAssociative[E any](i Instance[E], sample []E, eq func(a, b E) bool) bool {
	for _, x := range sample {
		for _, y := range sample {
			for _, z := range sample {
				if !eq(i.Lub(i.Lub(x, y), z), i.Lub(x, i.Lub(y, z))) {
					return false
				}
			}
		}
	}
	return true
}

// CheckLubIdempotent checks `lub(x,x) == x`.
func CheckLubIdempotent[E any](i Instance[E], sample []E, eq func(a, b E) bool) bool {
	for _, x := range sample {
		if !eq(i.Lub(x, x), x) {
			return false
		}
	}
	return true
}

// CheckLubUpperBound checks `x <= lub(x,y)` and `y <= lub(x,y)`.
func CheckLubUpperBound[E any](i Instance[E], sample []E) bool {
	for _, x := range sample {
		for _, y := range sample {
			u := i.Lub(x, y)
			if !i.Leq(x, u) || !i.Leq(y, u) {
				return false
			}
		}
	}
	return true
}

// CheckAbsorption checks the absorption law `glb(x, lub(x,y)) == x`.
func CheckAbsorption[E any](i Instance[E], sample []E, eq func(a, b E) bool) bool {
	for _, x := range sample {
		for _, y := range sample {
			if !eq(i.Glb(x, i.Lub(x, y)), x) {
				return false
			}
		}
	}
	return true
}

// CheckBounds checks `bot <= x <= top` for all x (BoundedLattice law).
func CheckBounds[E any](i Instance[E], sample []E) bool {
	if !i.HasTop {
		return true
	}
	for _, x := range sample {
		if !i.Leq(i.Bot, x) || !i.Leq(x, i.Top) {
			return false
		}
	}
	return true
}

// CheckHeightStrictlyDecreasing checks that for any strictly-increasing
// pair x < y, h(x) > h(y).
func CheckHeightStrictlyDecreasing[E any](i Instance[E], sample []E, eq func(a, b E) bool) bool {
	if !i.HasHeight {
		return true
	}
	for _, x := range sample {
		for _, y := range sample {
			if i.Leq(x, y) && !eq(x, y) && !(i.Height(x) > i.Height(y)) {
				return false
			}
		}
	}
	return true
}

// CheckWidening checks `x <= widen(x,y)` and `y <= widen(x,y)`, the two
// soundness conditions a widening operator must satisfy.
func CheckWidening[E any](i Instance[E], sample []E) bool {
	if !i.HasWiden {
		return true
	}
	for _, x := range sample {
		for _, y := range sample {
			w := i.Widen(x, y)
			if !i.Leq(x, w) || !i.Leq(y, w) {
				return false
			}
		}
	}
	return true
}
