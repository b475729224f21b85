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

// Extended coverage statistics: mate-relationship anomaly counts.
//
// Per-read derivations, with "mate mapped" = !MateUnmapped:
//   mate_other_chr   = mate mapped && mate on a different reference
//   mate_same_strand = mate mapped && read and mate on the same strand
//   faceaway         = mate mapped && the pair points outward (see
//                      ReadAttrs.faceaway)
// The four tallies are independent; each is bounded by reads_all.

// ExtRecord reports mate-relationship anomaly counts at one position.
type ExtRecord struct {
	Chrom               string
	Pos                 int
	ReadsAll            int
	ReadsPP             int
	ReadsMateUnmapped   int
	ReadsMateOtherChr   int
	ReadsMateSameStrand int
	ReadsFaceaway       int
}

var extFields = []string{
	"chr", "pos", "reads_all", "reads_pp", "reads_mate_unmapped",
	"reads_mate_other_chr", "reads_mate_same_strand", "reads_faceaway",
}

func (r *ExtRecord) writeRow(w rowWriter, oneBased bool) error {
	w.writeString(r.Chrom)
	w.writePos(r.Pos, oneBased)
	w.writeInt(r.ReadsAll)
	w.writeInt(r.ReadsPP)
	w.writeInt(r.ReadsMateUnmapped)
	w.writeInt(r.ReadsMateOtherChr)
	w.writeInt(r.ReadsMateSameStrand)
	w.writeInt(r.ReadsFaceaway)
	return w.endLine()
}

type extSummarizer struct{}

func (extSummarizer) Name() string     { return "coverage_ext" }
func (extSummarizer) Fields() []string { return extFields }

func (extSummarizer) Summarize(col *Column, refName string) Record {
	rec := ExtRecord{
		Chrom:    refName,
		Pos:      col.Pos,
		ReadsAll: col.Depth(),
	}
	for _, a := range col.Reads {
		if a.Flags.ProperPair() {
			rec.ReadsPP++
		}
		if !a.mateMapped() {
			rec.ReadsMateUnmapped++
			continue
		}
		if a.MateRef != col.RefID {
			rec.ReadsMateOtherChr++
		}
		if a.Flags.Reverse() == a.Flags.MateReverse() {
			rec.ReadsMateSameStrand++
		}
		if a.faceaway() {
			rec.ReadsFaceaway++
		}
	}
	return &rec
}

// ExtStrandRecord is ExtRecord with every count broken down by the strand of
// the read at the column.
type ExtStrandRecord struct {
	Chrom                  string
	Pos                    int
	ReadsAll               int
	ReadsFwd               int
	ReadsRev               int
	ReadsPP                int
	ReadsPPFwd             int
	ReadsPPRev             int
	ReadsMateUnmapped      int
	ReadsMateUnmappedFwd   int
	ReadsMateUnmappedRev   int
	ReadsMateOtherChr      int
	ReadsMateOtherChrFwd   int
	ReadsMateOtherChrRev   int
	ReadsMateSameStrand    int
	ReadsMateSameStrandFwd int
	ReadsMateSameStrandRev int
	ReadsFaceaway          int
	ReadsFaceawayFwd       int
	ReadsFaceawayRev       int
}

var extStrandFields = []string{
	"chr", "pos", "reads_all", "reads_fwd", "reads_rev",
	"reads_pp", "reads_pp_fwd", "reads_pp_rev",
	"reads_mate_unmapped", "reads_mate_unmapped_fwd", "reads_mate_unmapped_rev",
	"reads_mate_other_chr", "reads_mate_other_chr_fwd", "reads_mate_other_chr_rev",
	"reads_mate_same_strand", "reads_mate_same_strand_fwd", "reads_mate_same_strand_rev",
	"reads_faceaway", "reads_faceaway_fwd", "reads_faceaway_rev",
}

func (r *ExtStrandRecord) writeRow(w rowWriter, oneBased bool) error {
	w.writeString(r.Chrom)
	w.writePos(r.Pos, oneBased)
	for _, v := range []int{
		r.ReadsAll, r.ReadsFwd, r.ReadsRev,
		r.ReadsPP, r.ReadsPPFwd, r.ReadsPPRev,
		r.ReadsMateUnmapped, r.ReadsMateUnmappedFwd, r.ReadsMateUnmappedRev,
		r.ReadsMateOtherChr, r.ReadsMateOtherChrFwd, r.ReadsMateOtherChrRev,
		r.ReadsMateSameStrand, r.ReadsMateSameStrandFwd, r.ReadsMateSameStrandRev,
		r.ReadsFaceaway, r.ReadsFaceawayFwd, r.ReadsFaceawayRev,
	} {
		w.writeInt(v)
	}
	return w.endLine()
}

type extStrandSummarizer struct{}

func (extStrandSummarizer) Name() string     { return "coverage_ext_strand" }
func (extStrandSummarizer) Fields() []string { return extStrandFields }

func (extStrandSummarizer) Summarize(col *Column, refName string) Record {
	rec := ExtStrandRecord{
		Chrom:    refName,
		Pos:      col.Pos,
		ReadsAll: col.Depth(),
	}
	// tally increments both the overall count and the matching strand count.
	tally := func(all, fwd, rev *int, isRev bool) {
		*all++
		if isRev {
			*rev++
		} else {
			*fwd++
		}
	}
	for _, a := range col.Reads {
		rev := a.Flags.Reverse()
		if rev {
			rec.ReadsRev++
		} else {
			rec.ReadsFwd++
		}
		if a.Flags.ProperPair() {
			tally(&rec.ReadsPP, &rec.ReadsPPFwd, &rec.ReadsPPRev, rev)
		}
		if !a.mateMapped() {
			tally(&rec.ReadsMateUnmapped, &rec.ReadsMateUnmappedFwd, &rec.ReadsMateUnmappedRev, rev)
			continue
		}
		if a.MateRef != col.RefID {
			tally(&rec.ReadsMateOtherChr, &rec.ReadsMateOtherChrFwd, &rec.ReadsMateOtherChrRev, rev)
		}
		if rev == a.Flags.MateReverse() {
			tally(&rec.ReadsMateSameStrand, &rec.ReadsMateSameStrandFwd, &rec.ReadsMateSameStrandRev, rev)
		}
		if a.faceaway() {
			tally(&rec.ReadsFaceaway, &rec.ReadsFaceawayFwd, &rec.ReadsFaceawayRev, rev)
		}
	}
	return &rec
}
