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

// FakeSource is only for unittests.  It yields the given columns, filtered
// by the requested interval the way a real backend would.
type FakeSource struct {
	// Names maps reference IDs to reference names.
	Names []string
	// Cols are the columns to yield, in non-decreasing position order.
	Cols []Column
}

// RefName implements the Source interface.
func (s *FakeSource) RefName(refID int) (string, error) {
	if refID < 0 || refID >= len(s.Names) {
		return "", fmt.Errorf("covstats.FakeSource: unknown reference ID %d", refID)
	}
	return s.Names[refID], nil
}

// Columns implements the Source interface.
func (s *FakeSource) Columns(chrom string, start, end int) ColumnIterator {
	var cols []Column
	for _, col := range s.Cols {
		if chrom != "" {
			name, err := s.RefName(col.RefID)
			if err != nil {
				return &fakeIterator{err: err}
			}
			if name != chrom {
				continue
			}
		}
		if start != PosNone && col.Pos < start {
			continue
		}
		if end != PosNone && col.Pos >= end {
			continue
		}
		cols = append(cols, col)
	}
	return &fakeIterator{cols: cols}
}

type fakeIterator struct {
	cols []Column
	cur  *Column
	err  error
}

// Scan implements the ColumnIterator interface.
func (i *fakeIterator) Scan() bool {
	if i.err != nil || len(i.cols) == 0 {
		return false
	}
	i.cur = &i.cols[0]
	i.cols = i.cols[1:]
	return true
}

// Column implements the ColumnIterator interface.
func (i *fakeIterator) Column() *Column { return i.cur }

// Err implements the ColumnIterator interface.
func (i *fakeIterator) Err() error { return i.err }

// Close implements the ColumnIterator interface.
func (i *fakeIterator) Close() error { return i.err }
