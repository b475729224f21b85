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

/*
Given a coordinate-sorted BAM or PAM, samstats reports per-position coverage
statistics: read counts broken down by orientation, pairing status, and
mate-relationship anomalies (mate unmapped, mate on another chromosome,
same-strand pairs, face-away pairs), or template-length summaries.

One TSV row is written per covered position.  Positions are 0-based in the
output unless -one-based is given.

Sample usage:
samstats \
    -variant coverage_ext \
    -region chr2:1000000-1100000 \
    -header \
    -out stats.tsv \
    my.bam
*/
package main
