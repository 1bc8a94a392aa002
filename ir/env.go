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

package ir

// Env is a chained lexical scope. Patterns are linear, so a child scope
// never needs to shadow-and-restore within a single match arm; chaining
// on function/lambda entry is all that's needed.
type Env struct {
	parent *Env
	vars   map[string]Value
}

// NewEnv creates a root scope.
func NewEnv() *Env { return &Env{vars: map[string]Value{}} }

// Child creates a new scope nested under e.
func (e *Env) Child() *Env { return &Env{parent: e, vars: map[string]Value{}} }

// Bind introduces name into this scope.
func (e *Env) Bind(name string, v Value) { e.vars[name] = v }

// Lookup searches this scope and its ancestors.
func (e *Env) Lookup(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}
