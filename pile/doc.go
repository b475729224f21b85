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

// Package pile builds covstats pileup columns from BAM/PAM files.
//
// Source wraps a bamprovider.Provider.  Columns are assembled incrementally
// from the provider's coordinate-sorted record stream: each read's
// reference-consuming CIGAR span is added to a window of pending columns,
// and a column is emitted once the stream reaches a read that starts past
// it, so memory is bounded by the longest read span.  Only covered columns
// are emitted.
package pile
