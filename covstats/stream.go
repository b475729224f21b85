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

import "fmt"

// PosNone marks an absent region bound.
const PosNone = -1

// Region selects the columns a Stream covers.  An empty Chrom means all
// references; Start/End equal to PosNone mean unbounded in that direction.
// When OneBased is set, the provided bounds are interpreted as 1-based and
// converted at construction; all internal computation is 0-based.
type Region struct {
	Chrom    string
	Start    int
	End      int
	OneBased bool
}

// WholeFile returns the Region covering every column the source can yield.
func WholeFile() Region {
	return Region{Start: PosNone, End: PosNone}
}

// norm returns the 0-based bounds for the region.
func (r Region) norm() (start, end int, err error) {
	start, end = r.Start, r.End
	if r.OneBased {
		// A 1-based bound of 0 would decrement to PosNone and read as
		// unbounded; reject it before converting.
		if start == 0 || end == 0 {
			return 0, 0, fmt.Errorf("covstats.NewStream: 1-based region bounds (%d, %d) out of range", r.Start, r.End)
		}
		if start != PosNone {
			start--
		}
		if end != PosNone {
			end--
		}
	}
	if (start != PosNone && start < 0) || (end != PosNone && end < 0) {
		return 0, 0, fmt.Errorf("covstats.NewStream: region bounds (%d, %d) out of range", r.Start, r.End)
	}
	return start, end, nil
}

// ColumnIterator iterates over the pileup columns of one request, in
// non-decreasing position order.
type ColumnIterator interface {
	// Scan advances to the next column, returning false at the end of the
	// request or on error.
	Scan() bool
	// Column returns the current column.  Only valid after a Scan that
	// returned true; the column is owned by the iterator until the next Scan.
	Column() *Column
	// Err returns the error that terminated iteration, or nil.
	Err() error
	// Close must be called exactly once.  It returns the value of Err().
	Close() error
}

// Source produces pileup columns from aligned-read data.  Implementations
// decide how columns are constructed; pile.Source reads BAM/PAM files.
type Source interface {
	// RefName returns the name of the reference sequence with the given ID.
	RefName(refID int) (string, error)
	// Columns returns an iterator over the covered columns of the requested
	// interval.  An empty chrom means all references; start or end equal to
	// PosNone mean unbounded.  Bounds are 0-based.
	Columns(chrom string, start, end int) ColumnIterator
}

// Stream applies a Summarizer to the columns of one region, yielding one
// Record per column in position order.  A Stream is forward-only and holds
// one column at a time; construct a new Stream to traverse a region again.
type Stream struct {
	src     Source
	sum     Summarizer
	iter    ColumnIterator
	rec     Record
	err     error
	refID   int
	refName string
}

// NewStream validates the configuration and starts a column request for the
// region.  No column is pulled until the first Scan.
func NewStream(src Source, sum Summarizer, region Region) (*Stream, error) {
	if src == nil {
		return nil, fmt.Errorf("covstats.NewStream: nil source")
	}
	if sum == nil {
		return nil, fmt.Errorf("covstats.NewStream: nil summarizer")
	}
	start, end, err := region.norm()
	if err != nil {
		return nil, err
	}
	return &Stream{
		src:   src,
		sum:   sum,
		iter:  src.Columns(region.Chrom, start, end),
		refID: -1,
	}, nil
}

// Fields returns the output field names of the stream's records.
func (s *Stream) Fields() []string { return s.sum.Fields() }

// Scan pulls the next column from the source and summarizes it, returning
// false at the end of the region or on error.
func (s *Stream) Scan() bool {
	if s.err != nil {
		return false
	}
	if !s.iter.Scan() {
		s.err = s.iter.Err()
		return false
	}
	col := s.iter.Column()
	if col.RefID != s.refID {
		name, err := s.src.RefName(col.RefID)
		if err != nil {
			s.err = err
			return false
		}
		s.refID = col.RefID
		s.refName = name
	}
	s.rec = s.sum.Summarize(col, s.refName)
	return true
}

// Record returns the record produced by the last successful Scan.
func (s *Stream) Record() Record { return s.rec }

// Err returns the error that terminated the stream, or nil.
func (s *Stream) Err() error { return s.err }

// Close releases the underlying column iterator.
func (s *Stream) Close() error {
	if err := s.iter.Close(); err != nil && s.err == nil {
		s.err = err
	}
	return s.err
}
