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

// Command flix runs the compiler pipeline over a parsed program and
// reports diagnostics, solved tables, and law verification results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flix-lang/flix"
	"github.com/flix-lang/flix/diagnostics"
	"github.com/flix-lang/flix/monitor"
	"github.com/flix-lang/flix/verifier"
)

const (
	exitOK          = 0
	exitDiagnostics = 1
	exitUsage       = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("flix", flag.ContinueOnError)
	fs.SetOutput(stderr)

	verify := fs.Bool("verify", false, "verify bounded-lattice laws and user-declared laws with the SMT backend")
	verifyTimeout := fs.Duration("verify-timeout", 0, "per-law SMT timeout (0 selects the verifier default)")
	maxIterations := fs.Int("iteration-cap", 0, "maximum semi-naive solver rounds (0 selects the solver default)")
	xmonitor := fs.Bool("Xmonitor", false, "record per-phase timing and print a report to stderr")
	color := fs.Bool("color", false, "colorize diagnostic output")
	libraryPath := fs.String("library-path", "", "unused placeholder for a future standard-library search path")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	_ = libraryPath

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: flix [flags] <source.flix>")
		fs.PrintDefaults()
		return exitUsage
	}
	path := fs.Arg(0)

	log := logrus.NewEntry(logrus.StandardLogger())

	root, err := flix.ParseFile(path)
	if err != nil {
		log.WithError(err).Error("parsing source")
		return exitDiagnostics
	}

	bag := diagnostics.NewBag()
	var mon *monitor.Monitor
	if *xmonitor {
		mon = monitor.New()
	}

	e := flix.New(flix.Config{
		Verify:          *verify,
		VerifierTimeout: *verifyTimeout,
		MaxIterations:   *maxIterations,
		Monitor:         mon,
		Diagnostics:     bag,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := e.RunRoot(ctx, root)

	diagnostics.Render(stderr, bag.Diagnostics(), *color)
	diagnostics.Summary(stderr, bag.Diagnostics())
	fmt.Fprintln(stderr)

	if mon != nil {
		monitor.WriteReport(stderr, mon.Report())
	}

	if err != nil {
		log.WithError(err).Error("run failed")
		return exitDiagnostics
	}

	for _, v := range result.Verified {
		status := "holds"
		switch v.Status {
		case verifier.Violated:
			status = "violated"
		case verifier.Inconclusive:
			status = "inconclusive"
		}
		fmt.Fprintf(stdout, "law %s: %s\n", v.Law, status)
		if len(v.Counterexample) > 0 {
			diagnostics.DumpCounterexample(stdout, v.Law, v.Counterexample)
		}
	}

	if bag.HasErrors() {
		return exitDiagnostics
	}
	return exitOK
}
