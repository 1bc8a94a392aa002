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

// Package similartext suggests a likely-intended name for an unresolved
// identifier, for "did you mean X?" diagnostics.
package similartext

import "sort"

// minSimilarity is the lowest normalized Levenshtein similarity a
// candidate must clear to be offered as a suggestion. Below it, two
// names are considered unrelated rather than a likely typo.
const minSimilarity = 0.5

// Find returns a ", maybe you mean X?" (or "X or Y?" for a tie) suffix
// naming the candidates in names closest to name, or "" if name is
// empty or no candidate clears minSimilarity.
func Find(names []string, name string) string {
	if name == "" {
		return ""
	}

	best := 0.0
	var matches []string
	for _, n := range names {
		sim := similarity(name, n)
		switch {
		case sim < minSimilarity || sim < best:
			continue
		case sim > best:
			best = sim
			matches = []string{n}
		default:
			matches = append(matches, n)
		}
	}
	if len(matches) == 0 {
		return ""
	}
	return ", maybe you mean " + joinOr(matches) + "?"
}

// FindFromMap is Find over a map's keys, sorted for determinism.
func FindFromMap[V any](names map[string]V, name string) string {
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Find(keys, name)
}

func joinOr(ss []string) string {
	switch len(ss) {
	case 1:
		return ss[0]
	default:
		s := ss[0]
		for _, x := range ss[1 : len(ss)-1] {
			s += ", " + x
		}
		return s + " or " + ss[len(ss)-1]
	}
}

// similarity is 1 minus the Levenshtein edit distance normalized by the
// longer string's length, so identical strings score 1 and completely
// disjoint strings of equal length score close to 0.
func similarity(a, b string) float64 {
	d := levenshtein(a, b)
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n == 0 {
		return 1
	}
	return 1 - float64(d)/float64(n)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
