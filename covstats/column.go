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

// ReadAttrs bundles the per-read attributes the summarizers consume.  It is
// the only information retained from each aligned read.
type ReadAttrs struct {
	// Flags is the read's alignment FLAG bitfield.
	Flags ReadFlags
	// MateRef is the ID of the reference sequence the mate is aligned to.
	// Meaningless when Flags.MateUnmapped(); -1 by convention in that case.
	MateRef int
	// TempLen is the observed template length (insert size).  Positive for the
	// leftmost read of a pair, negative for the rightmost, 0 when unavailable.
	TempLen int
}

// mateMapped reports whether the read's mate is mapped.
func (a ReadAttrs) mateMapped() bool { return !a.Flags.MateUnmapped() }

// faceaway reports whether the read and its (mapped) mate point outward from
// each other: the leftmost read of the template is reverse-stranded, or the
// rightmost is forward-stranded.  A read with TempLen == 0 is neither
// leftmost nor rightmost and never counts as face-away.
func (a ReadAttrs) faceaway() bool {
	if !a.mateMapped() {
		return false
	}
	if a.TempLen > 0 {
		return a.Flags.Reverse()
	}
	return a.TempLen < 0 && !a.Flags.Reverse()
}

// Column is one pileup column: the attributes of every read overlapping one
// 0-based position of one reference sequence.  A Column is produced on demand
// by a Source, summarized exactly once, and not retained afterward.
type Column struct {
	RefID int
	Pos   int
	Reads []ReadAttrs
}

// Depth returns the number of reads overlapping the column.
func (c *Column) Depth() int { return len(c.Reads) }
