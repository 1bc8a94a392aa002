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

// Package monitor backs the `--Xmonitor` flag with per-phase wall-clock
// timing. Each phase's duration is recorded as a metrics sample, and an
// opentracing span is opened and finished around it on a no-op tracer.
// StartChild nests a child phase under a dotted sample key; no phase in
// this module calls it, so the report lists top-level phases only.
package monitor

import (
	"fmt"
	"io"
	"sort"
	"time"

	metrics "github.com/hashicorp/go-metrics"
	"github.com/opentracing/opentracing-go"
	"github.com/spf13/cast"
)

// Monitor accumulates phase timings for one compiler run.
type Monitor struct {
	sink   *metrics.InmemSink
	tracer opentracing.Tracer
}

// New builds a Monitor with a ten-second in-memory retention window,
// long enough to cover any single `flix` invocation without unbounded
// growth for a long-running host process embedding this package.
func New() *Monitor {
	sink := metrics.NewInmemSink(time.Second, 10*time.Second)
	return &Monitor{sink: sink, tracer: opentracing.NoopTracer{}}
}

// Phase is one in-flight timed unit of work.
type Phase struct {
	name  string
	start time.Time
	span  opentracing.Span
	sink  *metrics.InmemSink
}

// StartPhase begins timing a top-level phase (weed, resolve, type,
// simplify, solve, verify). The returned Phase's Finish must be called
// exactly once.
func (m *Monitor) StartPhase(name string) *Phase {
	span := m.tracer.StartSpan(name)
	return &Phase{name: name, start: time.Now(), span: span, sink: m.sink}
}

// StartChild begins a span nested under parent, e.g. one solver round
// under "solve" or one law check under "verify". It shares the parent
// Monitor's sink so child durations appear in the same report under a
// dotted key ("solve.round").
func (p *Phase) StartChild(name string) *Phase {
	child := p.span.Tracer().StartSpan(name, opentracing.ChildOf(p.span.Context()))
	return &Phase{name: p.name + "." + name, start: time.Now(), span: child, sink: p.sink}
}

// Finish records the phase's elapsed duration as a sample and closes
// its span.
func (p *Phase) Finish() {
	elapsed := time.Since(p.start)
	p.sink.AddSample([]string{p.name}, float32(elapsed.Seconds()*1000))
	p.span.Finish()
}

// Row is one rendered line of a monitor report.
type Row struct {
	Phase       string
	Count       int
	TotalMillis float64
	MeanMillis  float64
}

// Report summarizes every phase sample recorded so far, aggregated
// across the sink's retained intervals, sorted by phase name.
func (m *Monitor) Report() []Row {
	data := m.sink.Data()
	totals := map[string]float64{}
	counts := map[string]int{}
	for _, interval := range data {
		interval.RLock()
		for key, agg := range interval.Samples {
			if agg.AggregateSample == nil {
				continue
			}
			totals[key] += agg.AggregateSample.Sum
			counts[key] += agg.AggregateSample.Count
		}
		interval.RUnlock()
	}
	rows := make([]Row, 0, len(totals))
	for phase, total := range totals {
		n := counts[phase]
		mean := 0.0
		if n > 0 {
			mean = total / float64(n)
		}
		rows = append(rows, Row{Phase: phase, Count: n, TotalMillis: total, MeanMillis: mean})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Phase < rows[j].Phase })
	return rows
}

// WriteReport renders one line per phase: "<phase>  n=<count>
// total=<ms>ms mean=<ms>ms". cast.ToString normalizes the sample counts
// the sink hands back (it is free to widen Count to any numeric type
// across go-metrics versions) to a string without this package caring
// which.
func WriteReport(w io.Writer, rows []Row) {
	for _, r := range rows {
		fmt.Fprintf(w, "%-20s n=%-6s total=%8.3fms mean=%8.3fms\n",
			r.Phase, cast.ToString(r.Count), r.TotalMillis, r.MeanMillis)
	}
}
