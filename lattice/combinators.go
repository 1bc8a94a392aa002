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

package lattice

// Lift adds a fresh bottom element below an otherwise flat, equality-only
// ordered type ("Lifted[E] adds a fresh ⊥").
type Lift[E comparable] struct {
	IsBot bool
	Value E
}

// LiftBot constructs the fresh bottom of a lifted lattice.
func LiftBot[E comparable]() Lift[E] { return Lift[E]{IsBot: true} }

// LiftVal lifts a plain value into the lifted lattice.
func LiftVal[E comparable](v E) Lift[E] { return Lift[E]{Value: v} }

// Lifted builds the Instance for Lift[E]: bottom below everything, two
// non-bottom elements comparable only if equal. Lub of two different
// non-bottom elements returns its first argument, since a plain lift has
// no element above both (there is no Top unless the caller layers one on
// afterward).
func Lifted[E comparable]() Instance[Lift[E]] {
	leq := func(a, b Lift[E]) bool {
		if a.IsBot {
			return true
		}
		if b.IsBot {
			return false
		}
		return a.Value == b.Value
	}
	lub := func(a, b Lift[E]) Lift[E] {
		if a.IsBot {
			return b
		}
		if b.IsBot {
			return a
		}
		if a.Value == b.Value {
			return a
		}
		// Incomparable non-bottom elements have no join in a plain
		// lift; callers needing one must add an explicit Top.
		return a
	}
	glb := func(a, b Lift[E]) Lift[E] {
		if a.IsBot || b.IsBot {
			return LiftBot[E]()
		}
		if a.Value == b.Value {
			return a
		}
		return LiftBot[E]()
	}
	return Instance[Lift[E]]{
		Bot: LiftBot[E](), Leq: leq, Lub: lub, Glb: glb,
	}
}

// Pair is a 2-tuple lattice element; n-tuples of arbitrary arity are
// built by nesting Pair, matching how the Typer represents Tuple types
// as a right-nested cons in ad-hoc-polymorphic code.
type Pair[A, B any] struct {
	Fst A
	Snd B
}

// TuplePointwise combines two instances pointwise: a tuple is ordered by
// comparing both components independently.
func TuplePointwise[A, B any](ia Instance[A], ib Instance[B]) Instance[Pair[A, B]] {
	leq := func(x, y Pair[A, B]) bool {
		return ia.Leq(x.Fst, y.Fst) && ib.Leq(x.Snd, y.Snd)
	}
	lub := func(x, y Pair[A, B]) Pair[A, B] {
		return Pair[A, B]{ia.Lub(x.Fst, y.Fst), ib.Lub(x.Snd, y.Snd)}
	}
	glb := func(x, y Pair[A, B]) Pair[A, B] {
		return Pair[A, B]{ia.Glb(x.Fst, y.Fst), ib.Glb(x.Snd, y.Snd)}
	}
	i := Instance[Pair[A, B]]{Leq: leq, Lub: lub, Glb: glb}
	if ia.HasTop && ib.HasTop {
		i.Bot = Pair[A, B]{ia.Bot, ib.Bot}
		i.Top = Pair[A, B]{ia.Top, ib.Top}
		i.HasTop = true
	}
	return i
}

// Opt represents Option[E] as used by the lattice: None, or Some(value).
type Opt[E any] struct {
	IsSome bool
	Value  E
}

// None constructs the absent option.
func None[E any]() Opt[E] { return Opt[E]{} }

// Some constructs a present option.
func Some[E any](v E) Opt[E] { return Opt[E]{IsSome: true, Value: v} }

// OptionPointwise combines an inner instance pointwise over Option,
// comparing None only to None and Some(a) to Some(b) via the inner
// instance's own order.
func OptionPointwise[E any](inner Instance[E]) Instance[Opt[E]] {
	leq := func(a, b Opt[E]) bool {
		if !a.IsSome && !b.IsSome {
			return true
		}
		if a.IsSome != b.IsSome {
			return false
		}
		return inner.Leq(a.Value, b.Value)
	}
	lub := func(a, b Opt[E]) Opt[E] {
		if !a.IsSome {
			return b
		}
		if !b.IsSome {
			return a
		}
		return Some(inner.Lub(a.Value, b.Value))
	}
	glb := func(a, b Opt[E]) Opt[E] {
		if !a.IsSome || !b.IsSome {
			return None[E]()
		}
		return Some(inner.Glb(a.Value, b.Value))
	}
	return Instance[Opt[E]]{Bot: None[E](), Leq: leq, Lub: lub, Glb: glb}
}

// SetOf compares sets of a comparable element type by subset inclusion.
func SetOf[E comparable]() Instance[map[E]struct{}] {
	leq := func(a, b map[E]struct{}) bool {
		for k := range a {
			if _, ok := b[k]; !ok {
				return false
			}
		}
		return true
	}
	union := func(a, b map[E]struct{}) map[E]struct{} {
		out := make(map[E]struct{}, len(a)+len(b))
		for k := range a {
			out[k] = struct{}{}
		}
		for k := range b {
			out[k] = struct{}{}
		}
		return out
	}
	inter := func(a, b map[E]struct{}) map[E]struct{} {
		out := make(map[E]struct{})
		for k := range a {
			if _, ok := b[k]; ok {
				out[k] = struct{}{}
			}
		}
		return out
	}
	return Instance[map[E]struct{}]{
		Bot: map[E]struct{}{}, Leq: leq, Lub: union, Glb: inter,
	}
}

// MapPointwise compares maps pointwise on the keys of the left operand:
// a key present on the left but missing on the right makes `leq` fail.
// Join takes every key from either side, combining
// shared keys with the inner join and keeping one-sided keys as-is.
func MapPointwise[K comparable, V any](inner Instance[V]) Instance[map[K]V] {
	leq := func(a, b map[K]V) bool {
		for k, va := range a {
			vb, ok := b[k]
			if !ok || !inner.Leq(va, vb) {
				return false
			}
		}
		return true
	}
	lub := func(a, b map[K]V) map[K]V {
		out := make(map[K]V, len(a)+len(b))
		for k, v := range a {
			out[k] = v
		}
		for k, vb := range b {
			if va, ok := out[k]; ok {
				out[k] = inner.Lub(va, vb)
			} else {
				out[k] = vb
			}
		}
		return out
	}
	glb := func(a, b map[K]V) map[K]V {
		out := make(map[K]V)
		for k, va := range a {
			if vb, ok := b[k]; ok {
				out[k] = inner.Glb(va, vb)
			}
		}
		return out
	}
	return Instance[map[K]V]{Bot: map[K]V{}, Leq: leq, Lub: lub, Glb: glb}
}
