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
	"sort"
)

// Record is the statistics derived from one pileup column.  Concrete types
// are one struct per summarizer variant; a Record is immutable once produced
// and serialized at most once by Write.
type Record interface {
	// writeRow appends one output row for the record.  pos is written 1-based
	// when oneBased is set.
	writeRow(w rowWriter, oneBased bool) error
}

// Summarizer reduces one pileup column to one Record in a single pass over
// the column's reads.
type Summarizer interface {
	// Name returns the variant name accepted by NewSummarizer.
	Name() string
	// Fields returns the record's output field names, in serialization order.
	Fields() []string
	// Summarize derives the record for col.  refName is the name of the
	// reference sequence col.RefID refers to.
	Summarize(col *Column, refName string) Record
}

var summarizers = map[string]Summarizer{
	"coverage":            coverageSummarizer{},
	"coverage_strand":     strandSummarizer{},
	"coverage_ext":        extSummarizer{},
	"coverage_ext_strand": extStrandSummarizer{},
	"tlen":                tlenSummarizer{},
}

// NewSummarizer returns the summarizer for the named statistics variant, or
// an error if the name is unknown.
func NewSummarizer(variant string) (Summarizer, error) {
	s, ok := summarizers[variant]
	if !ok {
		return nil, fmt.Errorf("covstats.NewSummarizer: unknown variant %q (have %v)", variant, Variants())
	}
	return s, nil
}

// Variants returns the supported summarizer variant names, sorted.
func Variants() []string {
	names := make([]string, 0, len(summarizers))
	for name := range summarizers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CoverageRecord reports overall and proper-pair depth at one position.
type CoverageRecord struct {
	Chrom    string
	Pos      int
	ReadsAll int
	ReadsPP  int
}

var coverageFields = []string{"chr", "pos", "reads_all", "reads_pp"}

func (r *CoverageRecord) writeRow(w rowWriter, oneBased bool) error {
	w.writeString(r.Chrom)
	w.writePos(r.Pos, oneBased)
	w.writeInt(r.ReadsAll)
	w.writeInt(r.ReadsPP)
	return w.endLine()
}

type coverageSummarizer struct{}

func (coverageSummarizer) Name() string     { return "coverage" }
func (coverageSummarizer) Fields() []string { return coverageFields }

func (coverageSummarizer) Summarize(col *Column, refName string) Record {
	rec := CoverageRecord{
		Chrom:    refName,
		Pos:      col.Pos,
		ReadsAll: col.Depth(),
	}
	for _, a := range col.Reads {
		if a.Flags.ProperPair() {
			rec.ReadsPP++
		}
	}
	return &rec
}

// StrandRecord reports depth with forward/reverse-strand breakdowns.
type StrandRecord struct {
	Chrom      string
	Pos        int
	ReadsAll   int
	ReadsFwd   int
	ReadsRev   int
	ReadsPP    int
	ReadsPPFwd int
	ReadsPPRev int
}

var strandFields = []string{
	"chr", "pos", "reads_all", "reads_fwd", "reads_rev",
	"reads_pp", "reads_pp_fwd", "reads_pp_rev",
}

func (r *StrandRecord) writeRow(w rowWriter, oneBased bool) error {
	w.writeString(r.Chrom)
	w.writePos(r.Pos, oneBased)
	w.writeInt(r.ReadsAll)
	w.writeInt(r.ReadsFwd)
	w.writeInt(r.ReadsRev)
	w.writeInt(r.ReadsPP)
	w.writeInt(r.ReadsPPFwd)
	w.writeInt(r.ReadsPPRev)
	return w.endLine()
}

type strandSummarizer struct{}

func (strandSummarizer) Name() string     { return "coverage_strand" }
func (strandSummarizer) Fields() []string { return strandFields }

func (strandSummarizer) Summarize(col *Column, refName string) Record {
	rec := StrandRecord{
		Chrom:    refName,
		Pos:      col.Pos,
		ReadsAll: col.Depth(),
	}
	for _, a := range col.Reads {
		rev := a.Flags.Reverse()
		if rev {
			rec.ReadsRev++
		} else {
			rec.ReadsFwd++
		}
		if a.Flags.ProperPair() {
			rec.ReadsPP++
			if rev {
				rec.ReadsPPRev++
			} else {
				rec.ReadsPPFwd++
			}
		}
	}
	return &rec
}
