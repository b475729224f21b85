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

// Package covstats computes per-position coverage statistics from pileup
// columns.
//
// A Source yields one Column per covered genomic position; each Column holds
// the per-read alignment attributes (FLAG bits, mate reference, template
// length) of every read overlapping that position.  A Summarizer reduces one
// Column to one Record in a single pass, a Stream applies a Summarizer to the
// columns of a region in position order, and Write serializes the resulting
// Records as TSV rows.
//
// The pipeline is pull-based and single-threaded: Write drives the Stream one
// record at a time, and the Stream holds at most one column in flight, so
// memory is bounded by the deepest column rather than the region length.
package covstats
