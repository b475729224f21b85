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

// ReadFlags is a read's alignment FLAG bitfield.  The bit assignments are
// identical to the SAM FLAG field (and to sam.Flags), so a sam.Record's Flags
// value converts directly.
type ReadFlags uint16

const (
	// FlagPaired indicates that the read is paired in sequencing.
	FlagPaired ReadFlags = 1 << iota
	// FlagProperPair indicates that the read is mapped in a proper pair.
	FlagProperPair
	// FlagUnmapped indicates that the read itself is unmapped.
	FlagUnmapped
	// FlagMateUnmapped indicates that the read's mate is unmapped.
	FlagMateUnmapped
	// FlagReverse indicates that the read is mapped to the reverse strand.
	FlagReverse
	// FlagMateReverse indicates that the mate is mapped to the reverse strand.
	FlagMateReverse
	// FlagRead1 indicates the first read of a pair.
	FlagRead1
	// FlagRead2 indicates the second read of a pair.
	FlagRead2
	// FlagSecondary indicates a secondary alignment.
	FlagSecondary
	// FlagQCFail indicates a read failing platform/vendor quality checks.
	FlagQCFail
	// FlagDuplicate indicates a PCR or optical duplicate.
	FlagDuplicate
)

// Paired reports whether the read is paired in sequencing.
func (f ReadFlags) Paired() bool { return f&FlagPaired != 0 }

// ProperPair reports whether the read is mapped in a proper pair.
func (f ReadFlags) ProperPair() bool { return f&FlagProperPair != 0 }

// Unmapped reports whether the read is unmapped.
func (f ReadFlags) Unmapped() bool { return f&FlagUnmapped != 0 }

// MateUnmapped reports whether the read's mate is unmapped.
func (f ReadFlags) MateUnmapped() bool { return f&FlagMateUnmapped != 0 }

// Reverse reports whether the read is mapped to the reverse strand.
func (f ReadFlags) Reverse() bool { return f&FlagReverse != 0 }

// MateReverse reports whether the mate is mapped to the reverse strand.
func (f ReadFlags) MateReverse() bool { return f&FlagMateReverse != 0 }

// Read1 reports whether the read is the first read of a pair.
func (f ReadFlags) Read1() bool { return f&FlagRead1 != 0 }

// Read2 reports whether the read is the second read of a pair.
func (f ReadFlags) Read2() bool { return f&FlagRead2 != 0 }

// Secondary reports whether the alignment is secondary.
func (f ReadFlags) Secondary() bool { return f&FlagSecondary != 0 }

// QCFail reports whether the read fails platform/vendor quality checks.
func (f ReadFlags) QCFail() bool { return f&FlagQCFail != 0 }

// Duplicate reports whether the read is a PCR or optical duplicate.
func (f ReadFlags) Duplicate() bool { return f&FlagDuplicate != 0 }
