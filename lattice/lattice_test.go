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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var signSample = []SignElem{SignBot, SignNeg, SignZer, SignPos, SignTop}
var mod3Sample = []Mod3Elem{Mod3Bot, Mod3Zer, Mod3One, Mod3Two, Mod3Top}

func eqAny[E comparable](a, b E) bool { return a == b }

func TestSignIsAPartialOrder(t *testing.T) {
	require.True(t, CheckReflexive(Sign, signSample))
	require.True(t, CheckAntisymmetric(Sign, signSample, eqAny[SignElem]))
	require.True(t, CheckTransitive(Sign, signSample))
}

func TestSignIsALattice(t *testing.T) {
	require.True(t, CheckLubCommutative(Sign, signSample, eqAny[SignElem]))
	require.True(t, CheckLubAssociative(Sign, signSample, eqAny[SignElem]))
	require.True(t, CheckLubIdempotent(Sign, signSample, eqAny[SignElem]))
	require.True(t, CheckLubUpperBound(Sign, signSample))
	require.True(t, CheckAbsorption(Sign, signSample, eqAny[SignElem]))
	require.True(t, CheckBounds(Sign, signSample))
}

// TestSignJoinOfNegAndPosIsTop checks that joining Neg and Pos at the
// same key yields Top.
func TestSignJoinOfNegAndPosIsTop(t *testing.T) {
	require.Equal(t, SignTop, Sign.Lub(SignNeg, SignPos))
}

func TestSignHeightStrictlyDecreasing(t *testing.T) {
	require.True(t, CheckHeightStrictlyDecreasing(Sign, signSample, eqAny[SignElem]))
}

func TestMod3IsALattice(t *testing.T) {
	require.True(t, CheckLubCommutative(Mod3, mod3Sample, eqAny[Mod3Elem]))
	require.True(t, CheckAbsorption(Mod3, mod3Sample, eqAny[Mod3Elem]))
	require.True(t, CheckHeightStrictlyDecreasing(Mod3, mod3Sample, eqAny[Mod3Elem]))
}

func TestIncIsMonotone(t *testing.T) {
	for _, x := range mod3Sample {
		for _, y := range mod3Sample {
			if Mod3.Leq(x, y) {
				require.True(t, Mod3.Leq(Inc(x), Inc(y)), "inc(%v) <= inc(%v)", x, y)
			}
		}
	}
}

func TestSetOfSubsetOrder(t *testing.T) {
	s := SetOf[string]()
	a := map[string]struct{}{"x": {}}
	b := map[string]struct{}{"x": {}, "y": {}}
	require.True(t, s.Leq(a, b))
	require.False(t, s.Leq(b, a))
	require.Equal(t, b, s.Lub(a, b))
	require.Equal(t, a, s.Glb(a, b))
}

func TestMapPointwiseMissingKeyFails(t *testing.T) {
	m := MapPointwise[string](Sign)
	a := map[string]SignElem{"x": SignPos}
	b := map[string]SignElem{"y": SignPos}
	require.False(t, m.Leq(a, b), "missing key on the right must fail leq")
}

func TestOptionPointwise(t *testing.T) {
	o := OptionPointwise(Sign)
	require.True(t, o.Leq(None[SignElem](), None[SignElem]())) // empty case
	require.False(t, o.Leq(None[SignElem](), Some(SignPos)))
	require.Equal(t, Some(SignTop), o.Lub(Some(SignNeg), Some(SignPos)))
}

func TestLiftedAddsFreshBottom(t *testing.T) {
	l := Lifted[string]()
	require.True(t, l.Leq(LiftBot[string](), LiftVal("a")))
	require.False(t, l.Leq(LiftVal("a"), LiftBot[string]()))
	require.True(t, l.Leq(LiftVal("a"), LiftVal("a")))
}
