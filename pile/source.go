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
package pile

import (
	"fmt"

	gbam "github.com/grailbio/bio/encoding/bam"
	"github.com/grailbio/bio/encoding/bamprovider"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/samstats/covstats"
)

// Opts configures a Source.
type Opts struct {
	// FlagExclude skips any read with a FLAG bit intersecting this value.
	FlagExclude int
	// MaxReadSpan is an upper bound on the reference-genome span of a single
	// read; it sizes the pending-column window and the shard padding needed
	// to catch reads overlapping a region's start.
	MaxReadSpan int
}

// DefaultOpts uses the standard pileup exclusion mask
// (unmapped/secondary/QC-fail/duplicate).
var DefaultOpts = Opts{
	FlagExclude: int(sam.Unmapped | sam.Secondary | sam.QCFail | sam.Duplicate),
	MaxReadSpan: 511,
}

// Source yields pileup columns from a BAM or PAM file.  It implements
// covstats.Source.
type Source struct {
	provider bamprovider.Provider
	header   *sam.Header
	opts     Opts
}

// New creates a Source reading from provider.  The provider remains owned by
// the caller and must stay open while the Source is in use.
func New(provider bamprovider.Provider, opts Opts) (*Source, error) {
	if opts.FlagExclude < 0 || opts.FlagExclude > 0xffff {
		return nil, fmt.Errorf("pile.New: flag-exclude value 0x%x out of range", opts.FlagExclude)
	}
	if opts.MaxReadSpan <= 0 {
		return nil, fmt.Errorf("pile.New: max-read-span %d must be positive", opts.MaxReadSpan)
	}
	header, err := provider.GetHeader()
	if err != nil {
		return nil, err
	}
	return &Source{
		provider: provider,
		header:   header,
		opts:     opts,
	}, nil
}

// RefName implements the covstats.Source interface.
func (s *Source) RefName(refID int) (string, error) {
	refs := s.header.Refs()
	if refID < 0 || refID >= len(refs) {
		return "", fmt.Errorf("pile.RefName: unknown reference ID %d", refID)
	}
	return refs[refID].Name(), nil
}

// Columns implements the covstats.Source interface.  An empty chrom covers
// the whole file; the bounds still apply per reference in that case.
func (s *Source) Columns(chrom string, start, end int) covstats.ColumnIterator {
	shard, err := s.shardFor(chrom, start, end)
	if err != nil {
		return &errIterator{err: err}
	}
	return &columnIterator{
		iter:      s.provider.NewIterator(shard),
		exclude:   sam.Flags(s.opts.FlagExclude),
		maxSpan:   s.opts.MaxReadSpan,
		start:     start,
		end:       end,
		singleRef: chrom != "",
		refID:     -1,
	}
}

func (s *Source) shardFor(chrom string, start, end int) (gbam.Shard, error) {
	if chrom == "" {
		return gbam.UniversalShard(s.header), nil
	}
	for _, ref := range s.header.Refs() {
		if ref.Name() != chrom {
			continue
		}
		shardStart := 0
		if start != covstats.PosNone {
			shardStart = start
		}
		shardEnd := ref.Len()
		if end != covstats.PosNone && end < shardEnd {
			shardEnd = end
		}
		if shardStart > shardEnd {
			shardStart = shardEnd
		}
		return gbam.Shard{
			StartRef: ref,
			EndRef:   ref,
			Start:    shardStart,
			End:      shardEnd,
			// Padding catches reads that start before the region but overlap it.
			Padding: s.opts.MaxReadSpan,
		}, nil
	}
	return gbam.Shard{}, fmt.Errorf("pile.Columns: contig %q not in BAM/PAM header", chrom)
}

type errIterator struct {
	err error
}

func (i *errIterator) Scan() bool               { return false }
func (i *errIterator) Column() *covstats.Column { panic("shall not be called") }
func (i *errIterator) Err() error               { return i.err }
func (i *errIterator) Close() error             { return i.err }

// columnIterator assembles columns from one shard's record stream.
// pending[i] holds the reads overlapping position base+i of the current
// reference; positions are flushed (oldest first) once no later read can
// overlap them.
type columnIterator struct {
	iter      bamprovider.Iterator
	exclude   sam.Flags
	maxSpan   int
	start     int
	end       int
	singleRef bool

	refID   int
	base    int
	lastPos int
	pending [][]covstats.ReadAttrs
	out     []covstats.Column
	cur     *covstats.Column
	err     error
	done    bool
}

// Scan implements the covstats.ColumnIterator interface.
func (c *columnIterator) Scan() bool {
	for len(c.out) == 0 && !c.done && c.err == nil {
		c.step()
	}
	if len(c.out) == 0 {
		return false
	}
	c.cur = &c.out[0]
	c.out = c.out[1:]
	return true
}

// Column implements the covstats.ColumnIterator interface.
func (c *columnIterator) Column() *covstats.Column { return c.cur }

// Err implements the covstats.ColumnIterator interface.
func (c *columnIterator) Err() error { return c.err }

// Close implements the covstats.ColumnIterator interface.
func (c *columnIterator) Close() error {
	if e := c.iter.Close(); e != nil && c.err == nil {
		c.err = e
	}
	return c.err
}

// step consumes one record from the shard, flushing and accumulating
// columns.
func (c *columnIterator) step() {
	if !c.iter.Scan() {
		if c.err = c.iter.Err(); c.err == nil {
			c.flushAll()
		}
		c.done = true
		return
	}
	rec := c.iter.Record()
	if rec.Ref == nil || rec.Flags&c.exclude != 0 {
		return
	}
	refID := rec.Ref.ID()
	if refID != c.refID {
		c.flushAll()
		c.refID = refID
	} else {
		if rec.Pos < c.lastPos {
			c.err = fmt.Errorf("pile.Columns: record %s out of order at ref %d pos %d", rec.Name, refID, rec.Pos)
			return
		}
		c.flushTo(rec.Pos)
	}
	c.lastPos = rec.Pos
	if c.end != covstats.PosNone && rec.Pos >= c.end {
		if c.singleRef {
			// No later read on the requested contig can touch an in-bounds
			// column.
			c.flushAll()
			c.done = true
			return
		}
		// The bound applies per reference in a whole-file request: skip the
		// read but keep scanning for later references.
		return
	}
	c.err = c.addRead(rec)
}

// flushTo emits pending covered columns with pos < limit.
func (c *columnIterator) flushTo(limit int) {
	for len(c.pending) > 0 && c.base < limit {
		reads := c.pending[0]
		c.pending = c.pending[1:]
		pos := c.base
		c.base++
		if len(reads) == 0 {
			continue
		}
		if c.start != covstats.PosNone && pos < c.start {
			continue
		}
		if c.end != covstats.PosNone && pos >= c.end {
			continue
		}
		c.out = append(c.out, covstats.Column{
			RefID: c.refID,
			Pos:   pos,
			Reads: reads,
		})
	}
}

func (c *columnIterator) flushAll() {
	c.flushTo(c.base + len(c.pending))
}

// addRead adds the read's reference-consuming positions to the pending
// window.
func (c *columnIterator) addRead(rec *sam.Record) error {
	span, _ := rec.Cigar.Lengths()
	if span > c.maxSpan {
		return fmt.Errorf("pile.Columns: max-read-span is %d, but read %s at pos %d has span %d",
			c.maxSpan, rec.Name, rec.Pos, span)
	}
	attrs := covstats.ReadAttrs{
		Flags:   covstats.ReadFlags(rec.Flags),
		MateRef: -1,
		TempLen: rec.TempLen,
	}
	if !attrs.Flags.MateUnmapped() && rec.MateRef != nil {
		attrs.MateRef = rec.MateRef.ID()
	}
	if len(c.pending) == 0 {
		c.base = rec.Pos
	}
	pos := rec.Pos
	for _, co := range rec.Cigar {
		n := co.Len()
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch, sam.CigarDeletion:
			for i := 0; i < n; i++ {
				c.add(pos+i, attrs)
			}
			pos += n
		case sam.CigarSkipped:
			// Skipped reference (e.g. RNAseq introns) leaves the columns
			// uncovered.
			pos += n
		default:
			// Insertions and clips consume no reference.
		}
	}
	return nil
}

func (c *columnIterator) add(pos int, attrs covstats.ReadAttrs) {
	idx := pos - c.base
	for idx >= len(c.pending) {
		c.pending = append(c.pending, nil)
	}
	c.pending[idx] = append(c.pending[idx], attrs)
}
