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

package core

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Context threads a cancellation/deadline signal and a structured logger
// through every phase, the way sql.Context threads a session through a
// query engine. Unlike sql.Context it carries no session state: the
// phases are single-threaded and share no mutable state beyond the
// SymbolTable and, inside one Solver run, its fact store.
type Context struct {
	context.Context
	Log *logrus.Entry
}

// NewContext wraps a stdlib context with a logger, defaulting to a
// standard logrus logger when log is nil.
func NewContext(parent context.Context, log *logrus.Entry) *Context {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Context{Context: parent, Log: log}
}

// Background returns a Context suitable for tests and CLI entry points.
func Background() *Context {
	return NewContext(context.Background(), nil)
}
