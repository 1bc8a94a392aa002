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

// Package resolve builds the program's symbol table and replaces
// ambiguous surface names with fully qualified ones
package resolve

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// ErrNameNotFound fires when a name has zero resolution candidates.
	// The third %s is a similartext.Find suggestion, empty when nothing
	// in scope is close enough to be worth offering.
	ErrNameNotFound = errors.NewKind("name not found: %s at %s%s")
	// ErrAmbiguousName fires when a name has more than one candidate.
	ErrAmbiguousName = errors.NewKind("ambiguous name %s at %s: matches %s")
)
