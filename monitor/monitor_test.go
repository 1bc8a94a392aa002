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

package monitor

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartPhaseRecordsSample(t *testing.T) {
	m := New()
	p := m.StartPhase("solve")
	time.Sleep(time.Millisecond)
	p.Finish()

	rows := m.Report()
	require.Len(t, rows, 1)
	require.Equal(t, "solve", rows[0].Phase)
	require.Equal(t, 1, rows[0].Count)
	require.Greater(t, rows[0].TotalMillis, 0.0)
}

func TestStartChildNestsUnderDottedKey(t *testing.T) {
	m := New()
	p := m.StartPhase("solve")
	c := p.StartChild("round")
	c.Finish()
	p.Finish()

	rows := m.Report()
	var names []string
	for _, r := range rows {
		names = append(names, r.Phase)
	}
	require.Contains(t, names, "solve")
	require.Contains(t, names, "solve.round")
}

func TestWriteReportRendersTable(t *testing.T) {
	m := New()
	p := m.StartPhase("verify")
	p.Finish()

	var buf bytes.Buffer
	WriteReport(&buf, m.Report())
	require.Contains(t, buf.String(), "verify")
	require.Contains(t, buf.String(), "n=1")
}
