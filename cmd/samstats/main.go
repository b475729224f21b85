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
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bio/encoding/bamprovider"
	"github.com/grailbio/bio/interval"
	"github.com/grailbio/hts/bgzf"
	"github.com/grailbio/samstats/covstats"
	"github.com/grailbio/samstats/pile"
)

var (
	variant      = flag.String("variant", "coverage", "Statistics variant; one of "+strings.Join(covstats.Variants(), ", "))
	region       = flag.String("region", "", "Restrict computation to the specified region. Format as <contig ID>:<1-based first pos>-<last pos>, <contig ID>:<1-based pos>, or just <contig ID>; default is the whole file")
	bamIndexPath = flag.String("index", "", "Input BAM index path. Defaults to bampath + .bai")
	outPath      = flag.String("out", "", "Output path; empty = stdout. S3 paths are supported")
	bgzip        = flag.Bool("bgzf", false, "bgzf-compress the output")
	writeHeader  = flag.Bool("header", true, "Write a field-name header row")
	oneBased     = flag.Bool("one-based", false, "Write 1-based positions instead of 0-based")
	delim        = flag.String("delim", "\t", "Output field delimiter")
	reportEvery  = flag.Int("report-every", 0, "Emit a throughput report to stderr every N rows; 0 disables reporting")
	flagExclude  = flag.Int("flag-exclude", pile.DefaultOpts.FlagExclude, "Reads with a FLAG bit intersecting this value are skipped")
	maxReadSpan  = flag.Int("max-read-span", pile.DefaultOpts.MaxReadSpan, "Upper bound on size of reference-genome region a read maps to")
)

func samstatsUsage() {
	fmt.Printf("Usage: %s [OPTIONS] {b,p}ampath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func run(ctx context.Context, bampath string) (err error) {
	sum, err := covstats.NewSummarizer(*variant)
	if err != nil {
		return err
	}
	delimRunes := []rune(*delim)
	if len(delimRunes) != 1 {
		return fmt.Errorf("samstats: -delim must be a single character")
	}

	reg := covstats.WholeFile()
	if *region != "" {
		var entry interval.Entry
		if entry, err = interval.ParseRegionString(*region); err != nil {
			return err
		}
		// ParseRegionString already converts to 0-based bounds.
		reg = covstats.Region{
			Chrom: entry.RefName,
			Start: int(entry.Start0),
			End:   int(entry.End),
		}
	}

	provider := bamprovider.NewProvider(bampath, bamprovider.ProviderOpts{Index: *bamIndexPath})
	defer func() {
		if e := provider.Close(); e != nil && err == nil {
			err = e
		}
	}()
	src, err := pile.New(provider, pile.Opts{
		FlagExclude: *flagExclude,
		MaxReadSpan: *maxReadSpan,
	})
	if err != nil {
		return err
	}
	stream, err := covstats.NewStream(src, sum, reg)
	if err != nil {
		return err
	}
	defer func() {
		if e := stream.Close(); e != nil && err == nil {
			err = e
		}
	}()

	var out io.Writer = os.Stdout
	if *outPath != "" {
		var dst file.File
		if dst, err = file.Create(ctx, *outPath); err != nil {
			return err
		}
		defer file.CloseAndReport(ctx, dst, &err)
		out = dst.Writer(ctx)
	}
	if *bgzip {
		bgzfWriter := bgzf.NewWriter(out, 1)
		defer func() {
			if e := bgzfWriter.Close(); e != nil && err == nil {
				err = e
			}
		}()
		out = bgzfWriter
	}

	return covstats.Write(stream, out, covstats.WriterOpts{
		Header:      *writeHeader,
		OneBased:    *oneBased,
		Comma:       delimRunes[0],
		ReportEvery: *reportEvery,
	})
}

func main() {
	flag.Usage = samstatsUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("Exactly one positional argument ({b,p}ampath) expected; please check flag syntax: '%s'", strings.Join(flag.Args(), " "))
	}
	ctx := vcontext.Background()
	if err := run(ctx, flag.Arg(0)); err != nil {
		log.Panicf("%v", err)
	}
	log.Debug.Printf("exiting")
}
