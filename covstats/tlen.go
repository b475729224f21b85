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

import "math"

// TlenRecord reports template-length (insert size) statistics at one
// position.  The RMS and standard-deviation columns are computed over reads
// whose mate is mapped to the same reference; reads_pp counts proper pairs
// within that subset.  reads_all is still the full column depth.
type TlenRecord struct {
	Chrom     string
	Pos       int
	ReadsAll  int
	ReadsPP   int
	RMSTlen   int
	RMSTlenPP int
	StdTlen   int
	StdTlenPP int
}

var tlenFields = []string{
	"chr", "pos", "reads_all", "reads_pp",
	"rms_tlen", "rms_tlen_pp", "std_tlen", "std_tlen_pp",
}

func (r *TlenRecord) writeRow(w rowWriter, oneBased bool) error {
	w.writeString(r.Chrom)
	w.writePos(r.Pos, oneBased)
	w.writeInt(r.ReadsAll)
	w.writeInt(r.ReadsPP)
	w.writeInt(r.RMSTlen)
	w.writeInt(r.RMSTlenPP)
	w.writeInt(r.StdTlen)
	w.writeInt(r.StdTlenPP)
	return w.endLine()
}

// tlenMoments accumulates the first two moments of the observed template
// lengths; n == 0 yields all-zero statistics rather than a division error.
type tlenMoments struct {
	n    int
	sum  float64
	sum2 float64
}

func (m *tlenMoments) add(tlen int) {
	t := float64(tlen)
	m.n++
	m.sum += t
	m.sum2 += t * t
}

// rms returns round(sqrt(mean(tlen^2))).
func (m *tlenMoments) rms() int {
	if m.n == 0 {
		return 0
	}
	return int(math.Round(math.Sqrt(m.sum2 / float64(m.n))))
}

// std returns the population standard deviation, rounded.
func (m *tlenMoments) std() int {
	if m.n == 0 {
		return 0
	}
	n := float64(m.n)
	mean := m.sum / n
	variance := m.sum2/n - mean*mean
	if variance < 0 {
		// Guard against a tiny negative value from rounding error.
		variance = 0
	}
	return int(math.Round(math.Sqrt(variance)))
}

type tlenSummarizer struct{}

func (tlenSummarizer) Name() string     { return "tlen" }
func (tlenSummarizer) Fields() []string { return tlenFields }

func (tlenSummarizer) Summarize(col *Column, refName string) Record {
	rec := TlenRecord{
		Chrom:    refName,
		Pos:      col.Pos,
		ReadsAll: col.Depth(),
	}
	var all, pp tlenMoments
	for _, a := range col.Reads {
		if !a.mateMapped() || a.MateRef != col.RefID {
			continue
		}
		all.add(a.TempLen)
		if a.Flags.ProperPair() {
			rec.ReadsPP++
			pp.add(a.TempLen)
		}
	}
	rec.RMSTlen = all.rms()
	rec.RMSTlenPP = pp.rms()
	rec.StdTlen = all.std()
	rec.StdTlenPP = pp.std()
	return &rec
}
