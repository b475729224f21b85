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

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/tsv"
)

// WriterOpts configures Write.
type WriterOpts struct {
	// Header causes a field-name header row to be written first.
	Header bool
	// OneBased causes positions to be serialized 1-based instead of 0-based.
	OneBased bool
	// Comma is the output field delimiter; 0 means tab.
	Comma rune
	// ReportEvery is the throughput-report cadence in records; 0 disables
	// reporting, a negative value is a configuration error.
	ReportEvery int
	// ReportOut receives throughput reports; defaults to os.Stderr.
	ReportOut io.Writer
}

// rowWriter abstracts the two output dialects.  All count values written are
// non-negative.
type rowWriter interface {
	writeString(s string)
	writePos(pos int, oneBased bool)
	writeInt(v int)
	endLine() error
	flush() error
}

// tsvRowWriter is the default tab-separated dialect.
type tsvRowWriter struct {
	w *tsv.Writer
}

func (t *tsvRowWriter) writeString(s string) { t.w.WriteString(s) }

func (t *tsvRowWriter) writePos(pos int, oneBased bool) {
	if oneBased {
		pos++
	}
	t.w.WriteUint32(uint32(pos))
}

func (t *tsvRowWriter) writeInt(v int)  { t.w.WriteUint32(uint32(v)) }
func (t *tsvRowWriter) endLine() error  { return t.w.EndLine() }
func (t *tsvRowWriter) flush() error    { return t.w.Flush() }

// csvRowWriter handles non-tab delimiters.
type csvRowWriter struct {
	w   *csv.Writer
	row []string
}

func (c *csvRowWriter) writeString(s string) { c.row = append(c.row, s) }

func (c *csvRowWriter) writePos(pos int, oneBased bool) {
	if oneBased {
		pos++
	}
	c.writeInt(pos)
}

func (c *csvRowWriter) writeInt(v int) { c.row = append(c.row, strconv.Itoa(v)) }

func (c *csvRowWriter) endLine() error {
	err := c.w.Write(c.row)
	c.row = c.row[:0]
	return err
}

func (c *csvRowWriter) flush() error {
	c.w.Flush()
	return c.w.Error()
}

// Write drains the stream, serializing one row per record to out.  It stops
// at the first serialization or stream error and returns it; no partial-row
// recovery is attempted.  The throughput reports configured by ReportEvery
// are purely observational and go to ReportOut, never to out.
func Write(stream *Stream, out io.Writer, opts WriterOpts) error {
	if stream == nil {
		return fmt.Errorf("covstats.Write: nil stream")
	}
	rep, err := newReporter(opts.ReportEvery, opts.ReportOut)
	if err != nil {
		return err
	}
	var w rowWriter
	if opts.Comma == 0 || opts.Comma == '\t' {
		w = &tsvRowWriter{w: tsv.NewWriter(out)}
	} else {
		cw := csv.NewWriter(out)
		cw.Comma = opts.Comma
		w = &csvRowWriter{w: cw}
	}
	if opts.Header {
		for _, name := range stream.Fields() {
			w.writeString(name)
		}
		if err := w.endLine(); err != nil {
			return err
		}
	}
	for stream.Scan() {
		if err := stream.Record().writeRow(w, opts.OneBased); err != nil {
			return err
		}
		rep.tick()
	}
	if err := stream.Err(); err != nil {
		return err
	}
	if err := w.flush(); err != nil {
		return err
	}
	rep.finish()
	return nil
}
