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

func testSource() *covstats.FakeSource {
	pp := covstats.FlagPaired | covstats.FlagProperPair
	return &covstats.FakeSource{
		Names: []string{"chr1", "chr2"},
		Cols: []covstats.Column{
			{RefID: 0, Pos: 4, Reads: []covstats.ReadAttrs{{Flags: pp}}},
			{RefID: 0, Pos: 5, Reads: []covstats.ReadAttrs{{Flags: pp}, {Flags: 0}}},
			{RefID: 0, Pos: 6, Reads: []covstats.ReadAttrs{{Flags: 0}}},
			{RefID: 1, Pos: 5, Reads: []covstats.ReadAttrs{{Flags: pp}, {Flags: pp}}},
		},
	}
}

func collect(t *testing.T, src covstats.Source, region covstats.Region) []covstats.CoverageRecord {
	sum, err := covstats.NewSummarizer("coverage")
	assert.NoError(t, err)
	stream, err := covstats.NewStream(src, sum, region)
	assert.NoError(t, err)
	var recs []covstats.CoverageRecord
	for stream.Scan() {
		recs = append(recs, *stream.Record().(*covstats.CoverageRecord))
	}
	assert.NoError(t, stream.Err())
	assert.NoError(t, stream.Close())
	return recs
}

func TestStreamWholeFile(t *testing.T) {
	recs := collect(t, testSource(), covstats.WholeFile())
	expect.EQ(t, recs, []covstats.CoverageRecord{
		{Chrom: "chr1", Pos: 4, ReadsAll: 1, ReadsPP: 1},
		{Chrom: "chr1", Pos: 5, ReadsAll: 2, ReadsPP: 1},
		{Chrom: "chr1", Pos: 6, ReadsAll: 1, ReadsPP: 0},
		{Chrom: "chr2", Pos: 5, ReadsAll: 2, ReadsPP: 2},
	})
}

func TestStreamRegion(t *testing.T) {
	recs := collect(t, testSource(), covstats.Region{Chrom: "chr1", Start: 5, End: 6})
	expect.EQ(t, recs, []covstats.CoverageRecord{
		{Chrom: "chr1", Pos: 5, ReadsAll: 2, ReadsPP: 1},
	})
}

func TestStreamOneBased(t *testing.T) {
	// 1-based bounds (5, 6) select the same 0-based half-open window (4, 5)
	// that a 0-based caller would pass: both provided bounds are decremented.
	zero := collect(t, testSource(), covstats.Region{Chrom: "chr1", Start: 4, End: 5})
	one := collect(t, testSource(), covstats.Region{Chrom: "chr1", Start: 5, End: 6, OneBased: true})
	expect.EQ(t, one, zero)
	expect.EQ(t, zero, []covstats.CoverageRecord{
		{Chrom: "chr1", Pos: 4, ReadsAll: 1, ReadsPP: 1},
	})

	// Absent bounds pass through unchanged.
	all := collect(t, testSource(), covstats.Region{Chrom: "chr1", Start: covstats.PosNone, End: covstats.PosNone, OneBased: true})
	expect.EQ(t, len(all), 3)
}

func TestStreamRestart(t *testing.T) {
	// Two traversals of the same region over an unchanged source yield
	// identical record sequences.
	src := testSource()
	first := collect(t, src, covstats.WholeFile())
	second := collect(t, src, covstats.WholeFile())
	expect.EQ(t, second, first)
}

func TestStreamBadConfig(t *testing.T) {
	sum, err := covstats.NewSummarizer("coverage")
	assert.NoError(t, err)
	_, err = covstats.NewStream(nil, sum, covstats.WholeFile())
	assert.NotNil(t, err)
	_, err = covstats.NewStream(testSource(), nil, covstats.WholeFile())
	assert.NotNil(t, err)
	// A 1-based bound of 0 must fail at construction rather than read as
	// unbounded.
	_, err = covstats.NewStream(testSource(), sum, covstats.Region{Chrom: "chr1", Start: 0, End: 10, OneBased: true})
	assert.NotNil(t, err)
	_, err = covstats.NewStream(testSource(), sum, covstats.Region{Chrom: "chr1", Start: 1, End: 0, OneBased: true})
	assert.NotNil(t, err)
}

func TestStreamUnknownRef(t *testing.T) {
	// A column referencing an unknown reference is upstream data corruption;
	// the lookup failure propagates unchanged.
	src := &covstats.FakeSource{
		Names: []string{"chr1"},
		Cols: []covstats.Column{
			{RefID: 5, Pos: 1, Reads: []covstats.ReadAttrs{{}}},
		},
	}
	sum, err := covstats.NewSummarizer("coverage")
	assert.NoError(t, err)
	stream, err := covstats.NewStream(src, sum, covstats.WholeFile())
	assert.NoError(t, err)
	expect.False(t, stream.Scan())
	assert.NotNil(t, stream.Err())
	assert.HasSubstr(t, stream.Err().Error(), "unknown reference")
}
