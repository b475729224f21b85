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
package covstats_test

import (
	"testing"

	"github.com/grailbio/samstats/covstats"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestNewSummarizer(t *testing.T) {
	for _, name := range covstats.Variants() {
		sum, err := covstats.NewSummarizer(name)
		assert.NoError(t, err)
		expect.EQ(t, sum.Name(), name)
		expect.True(t, len(sum.Fields()) >= 4)
		expect.EQ(t, sum.Fields()[0], "chr")
		expect.EQ(t, sum.Fields()[1], "pos")
	}
	_, err := covstats.NewSummarizer("coverage_gc")
	assert.NotNil(t, err)
}

func TestCoverage(t *testing.T) {
	// Three reads, proper-pair set on the first two only.
	col := covstats.Column{
		RefID: 0,
		Pos:   100,
		Reads: []covstats.ReadAttrs{
			{Flags: covstats.FlagPaired | covstats.FlagProperPair, MateRef: 0},
			{Flags: covstats.FlagPaired | covstats.FlagProperPair, MateRef: 0},
			{Flags: covstats.FlagPaired, MateRef: 0},
		},
	}
	sum, err := covstats.NewSummarizer("coverage")
	assert.NoError(t, err)
	rec := sum.Summarize(&col, "chr1").(*covstats.CoverageRecord)
	expect.EQ(t, *rec, covstats.CoverageRecord{
		Chrom:    "chr1",
		Pos:      100,
		ReadsAll: 3,
		ReadsPP:  2,
	})
}

func TestCoverageStrand(t *testing.T) {
	// reverse_strand bits [0,1,1], proper_pair bits [1,1,0].
	col := covstats.Column{
		RefID: 2,
		Pos:   7,
		Reads: []covstats.ReadAttrs{
			{Flags: covstats.FlagProperPair},
			{Flags: covstats.FlagProperPair | covstats.FlagReverse},
			{Flags: covstats.FlagReverse},
		},
	}
	sum, err := covstats.NewSummarizer("coverage_strand")
	assert.NoError(t, err)
	rec := sum.Summarize(&col, "chrX").(*covstats.StrandRecord)
	expect.EQ(t, *rec, covstats.StrandRecord{
		Chrom:      "chrX",
		Pos:        7,
		ReadsAll:   3,
		ReadsFwd:   1,
		ReadsRev:   2,
		ReadsPP:    2,
		ReadsPPFwd: 1,
		ReadsPPRev: 1,
	})
}

func TestCoverageExt(t *testing.T) {
	col := covstats.Column{
		RefID: 1,
		Pos:   50,
		Reads: []covstats.ReadAttrs{
			// Mate unmapped: counts only toward reads_mate_unmapped.
			{Flags: covstats.FlagMateUnmapped | covstats.FlagReverse, MateRef: -1, TempLen: 100},
			// Mate on another reference, opposite strands, leftmost+fwd: not
			// face-away.
			{Flags: covstats.FlagMateReverse, MateRef: 3, TempLen: 100},
			// Same reference, same strand (both reverse), rightmost+rev: not
			// face-away.
			{Flags: covstats.FlagReverse | covstats.FlagMateReverse, MateRef: 1, TempLen: -100},
			// Leftmost but reverse: face-away.
			{Flags: covstats.FlagReverse, MateRef: 1, TempLen: 100},
			// Rightmost but forward: face-away.
			{Flags: covstats.FlagMateReverse, MateRef: 1, TempLen: -100},
			// TempLen 0: never face-away, whatever the strands say.
			{Flags: covstats.FlagReverse, MateRef: 1, TempLen: 0},
		},
	}
	sum, err := covstats.NewSummarizer("coverage_ext")
	assert.NoError(t, err)
	rec := sum.Summarize(&col, "chr2").(*covstats.ExtRecord)
	expect.EQ(t, *rec, covstats.ExtRecord{
		Chrom:               "chr2",
		Pos:                 50,
		ReadsAll:            6,
		ReadsPP:             0,
		ReadsMateUnmapped:   1,
		ReadsMateOtherChr:   1,
		ReadsMateSameStrand: 1,
		ReadsFaceaway:       2,
	})
}

func TestCoverageExtStrand(t *testing.T) {
	col := covstats.Column{
		RefID: 0,
		Pos:   9,
		Reads: []covstats.ReadAttrs{
			{Flags: covstats.FlagProperPair | covstats.FlagMateReverse, MateRef: 0, TempLen: 250},
			{Flags: covstats.FlagProperPair | covstats.FlagReverse, MateRef: 0, TempLen: -250},
			{Flags: covstats.FlagMateUnmapped | covstats.FlagReverse, MateRef: -1},
			{Flags: covstats.FlagMateReverse, MateRef: 4, TempLen: 0},
			{Flags: covstats.FlagReverse | covstats.FlagMateReverse, MateRef: 0, TempLen: 180},
		},
	}
	sum, err := covstats.NewSummarizer("coverage_ext_strand")
	assert.NoError(t, err)
	rec := sum.Summarize(&col, "chr1").(*covstats.ExtStrandRecord)
	expect.EQ(t, *rec, covstats.ExtStrandRecord{
		Chrom:                  "chr1",
		Pos:                    9,
		ReadsAll:               5,
		ReadsFwd:               2,
		ReadsRev:               3,
		ReadsPP:                2,
		ReadsPPFwd:             1,
		ReadsPPRev:             1,
		ReadsMateUnmapped:      1,
		ReadsMateUnmappedFwd:   0,
		ReadsMateUnmappedRev:   1,
		ReadsMateOtherChr:      1,
		ReadsMateOtherChrFwd:   1,
		ReadsMateOtherChrRev:   0,
		ReadsMateSameStrand:    1,
		ReadsMateSameStrandFwd: 0,
		ReadsMateSameStrandRev: 1,
		ReadsFaceaway:          1,
		ReadsFaceawayFwd:       0,
		ReadsFaceawayRev:       1,
	})
}

func TestTlen(t *testing.T) {
	col := covstats.Column{
		RefID: 0,
		Pos:   33,
		Reads: []covstats.ReadAttrs{
			// Mate-unmapped and other-reference reads are excluded from the
			// template-length statistics but still count toward reads_all.
			{Flags: covstats.FlagMateUnmapped, MateRef: -1, TempLen: 999},
			{Flags: 0, MateRef: 5, TempLen: 999},
			{Flags: covstats.FlagProperPair, MateRef: 0, TempLen: 300},
			{Flags: covstats.FlagProperPair, MateRef: 0, TempLen: -300},
			{Flags: 0, MateRef: 0, TempLen: 400},
		},
	}
	sum, err := covstats.NewSummarizer("tlen")
	assert.NoError(t, err)
	rec := sum.Summarize(&col, "chr1").(*covstats.TlenRecord)
	// Over {300, -300, 400}: rms = sqrt((300^2+300^2+400^2)/3) ~= 336.65,
	// mean = 133.33, std = sqrt(113333.33 - 17777.78) ~= 309.12.
	expect.EQ(t, *rec, covstats.TlenRecord{
		Chrom:     "chr1",
		Pos:       33,
		ReadsAll:  5,
		ReadsPP:   2,
		RMSTlen:   337,
		RMSTlenPP: 300,
		StdTlen:   309,
		StdTlenPP: 300,
	})
}

func TestEmptyColumn(t *testing.T) {
	// An empty column yields all-zero counts for every variant, with no
	// division errors.
	col := covstats.Column{RefID: 0, Pos: 0}
	for _, name := range covstats.Variants() {
		sum, err := covstats.NewSummarizer(name)
		assert.NoError(t, err)
		switch rec := sum.Summarize(&col, "chr1").(type) {
		case *covstats.CoverageRecord:
			expect.EQ(t, *rec, covstats.CoverageRecord{Chrom: "chr1"})
		case *covstats.StrandRecord:
			expect.EQ(t, *rec, covstats.StrandRecord{Chrom: "chr1"})
		case *covstats.ExtRecord:
			expect.EQ(t, *rec, covstats.ExtRecord{Chrom: "chr1"})
		case *covstats.ExtStrandRecord:
			expect.EQ(t, *rec, covstats.ExtStrandRecord{Chrom: "chr1"})
		case *covstats.TlenRecord:
			expect.EQ(t, *rec, covstats.TlenRecord{Chrom: "chr1"})
		default:
			t.Fatalf("%s: unexpected record type %T", name, rec)
		}
	}
}

func TestStrandInvariants(t *testing.T) {
	// Sweep all flag combinations relevant to the strand and ext variants and
	// check the cross-count invariants on a mixed column.
	var reads []covstats.ReadAttrs
	for bits := covstats.ReadFlags(0); bits < 1<<6; bits++ {
		flags := covstats.ReadFlags(0)
		if bits&1 != 0 {
			flags |= covstats.FlagProperPair
		}
		if bits&2 != 0 {
			flags |= covstats.FlagReverse
		}
		if bits&4 != 0 {
			flags |= covstats.FlagMateUnmapped
		}
		if bits&8 != 0 {
			flags |= covstats.FlagMateReverse
		}
		mateRef := 0
		if bits&16 != 0 {
			mateRef = 9
		}
		tlen := 0
		if bits&32 != 0 {
			tlen = 77
		}
		if flags.MateUnmapped() {
			mateRef = -1
		}
		reads = append(reads, covstats.ReadAttrs{Flags: flags, MateRef: mateRef, TempLen: tlen})
	}
	col := covstats.Column{RefID: 0, Pos: 12345, Reads: reads}

	strand, err := covstats.NewSummarizer("coverage_strand")
	assert.NoError(t, err)
	srec := strand.Summarize(&col, "chr1").(*covstats.StrandRecord)
	expect.EQ(t, srec.ReadsFwd+srec.ReadsRev, srec.ReadsAll)
	expect.EQ(t, srec.ReadsPPFwd+srec.ReadsPPRev, srec.ReadsPP)
	expect.True(t, srec.ReadsPP <= srec.ReadsAll)

	ext, err := covstats.NewSummarizer("coverage_ext")
	assert.NoError(t, err)
	erec := ext.Summarize(&col, "chr1").(*covstats.ExtRecord)
	for _, v := range []int{
		erec.ReadsMateUnmapped, erec.ReadsMateOtherChr,
		erec.ReadsMateSameStrand, erec.ReadsFaceaway,
	} {
		expect.True(t, v >= 0)
		expect.True(t, v <= erec.ReadsAll)
	}
	expect.True(t, erec.ReadsMateOtherChr <= erec.ReadsAll-erec.ReadsMateUnmapped)

	extStrand, err := covstats.NewSummarizer("coverage_ext_strand")
	assert.NoError(t, err)
	esrec := extStrand.Summarize(&col, "chr1").(*covstats.ExtStrandRecord)
	expect.EQ(t, esrec.ReadsFwd+esrec.ReadsRev, esrec.ReadsAll)
	expect.EQ(t, esrec.ReadsPPFwd+esrec.ReadsPPRev, esrec.ReadsPP)
	expect.EQ(t, esrec.ReadsMateUnmappedFwd+esrec.ReadsMateUnmappedRev, esrec.ReadsMateUnmapped)
	expect.EQ(t, esrec.ReadsMateOtherChrFwd+esrec.ReadsMateOtherChrRev, esrec.ReadsMateOtherChr)
	expect.EQ(t, esrec.ReadsMateSameStrandFwd+esrec.ReadsMateSameStrandRev, esrec.ReadsMateSameStrand)
	expect.EQ(t, esrec.ReadsFaceawayFwd+esrec.ReadsFaceawayRev, esrec.ReadsFaceaway)
	// The per-count totals must agree with the unstranded ext variant.
	expect.EQ(t, esrec.ReadsMateUnmapped, erec.ReadsMateUnmapped)
	expect.EQ(t, esrec.ReadsMateOtherChr, erec.ReadsMateOtherChr)
	expect.EQ(t, esrec.ReadsMateSameStrand, erec.ReadsMateSameStrand)
	expect.EQ(t, esrec.ReadsFaceaway, erec.ReadsFaceaway)
}
