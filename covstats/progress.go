// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package covstats

import (
	"fmt"
	"io"
	"os"
	"time"
)

// reporter emits line-oriented throughput reports every N records, plus a
// final summary.  A nil *reporter (reporting disabled) is valid and inert.
type reporter struct {
	every      int
	out        io.Writer
	n          int
	start      time.Time
	batchStart time.Time
}

func newReporter(every int, out io.Writer) (*reporter, error) {
	if every < 0 {
		return nil, fmt.Errorf("covstats.Write: negative report interval %d", every)
	}
	if every == 0 {
		return nil, nil
	}
	if out == nil {
		out = os.Stderr
	}
	now := time.Now()
	return &reporter{
		every:      every,
		out:        out,
		start:      now,
		batchStart: now,
	}, nil
}

// rate returns rows per second, or 0 when no time has been observed.
func rate(n int, secs float64) int {
	if secs <= 0 {
		return 0
	}
	return int(float64(n) / secs)
}

// tick records one written row, reporting at every Nth.
func (r *reporter) tick() {
	if r == nil {
		return
	}
	r.n++
	if r.n%r.every != 0 {
		return
	}
	now := time.Now()
	elapsed := now.Sub(r.start).Seconds()
	batch := now.Sub(r.batchStart).Seconds()
	fmt.Fprintf(r.out, "%d rows in %.2fs (%d rows/s); batch in %.2fs (%d rows/s)\n",
		r.n, elapsed, rate(r.n, elapsed), batch, rate(r.every, batch))
	r.batchStart = now
}

// finish emits the end-of-stream summary.
func (r *reporter) finish() {
	if r == nil {
		return
	}
	elapsed := time.Since(r.start).Seconds()
	fmt.Fprintf(r.out, "%d rows in %.2fs (%d rows/s)\n", r.n, elapsed, rate(r.n, elapsed))
}
