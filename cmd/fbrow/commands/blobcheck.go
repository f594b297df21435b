// Copyright 2024 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/dolthub/fbclient/cmd/fbrow/cli"
	"github.com/dolthub/fbclient/libraries/utils/argparser"
	"github.com/dolthub/fbclient/store/blob"
	"github.com/dolthub/fbclient/store/transport/memtransport"
)

const (
	segmentSizeParam = "segment-size"
	parallelParam    = "parallel"

	defaultParallelism = 4

	checkDB = 1
	checkTr = 1
)

type checkResult struct {
	File     string
	Size     int
	Segments int
	Sum      uint64
	OK       bool
}

// BlobCheckCmd streams files through the blob segment protocol against an
// in memory transport and verifies they come back unchanged.
type BlobCheckCmd struct{}

func (cmd BlobCheckCmd) Name() string {
	return "blobcheck"
}

func (cmd BlobCheckCmd) Description() string {
	return "Round trip files through the blob segment protocol and verify their checksums."
}

func (cmd BlobCheckCmd) createArgParser() *argparser.ArgParser {
	ap := argparser.NewArgParserWithVariableArgs(cmd.Name())
	ap.SupportsString(configParam, "c", "file", "Engine configuration file.")
	ap.SupportsUint(segmentSizeParam, "s", "bytes", "Largest segment sent per protocol call.")
	ap.SupportsUint(parallelParam, "p", "n", "Number of files checked at once.")
	return ap
}

func (cmd BlobCheckCmd) Exec(ctx context.Context, commandStr string, args []string) int {
	ap := cmd.createArgParser()
	apr, err := ap.Parse(args)
	if err != nil {
		return handleParseErr(ap, commandStr, "<file>...", err)
	}
	if apr.NArg() == 0 {
		cli.PrintErrln(color.RedString("%s requires at least one file", commandStr))
		return 1
	}

	cfg, err := loadConfig(apr)
	if err != nil {
		return printErr(err)
	}
	opts := blob.OptionsFromConfig(cfg)
	if n, ok := apr.GetInt(segmentSizeParam); ok {
		opts = append(opts, blob.WithSegmentSize(n))
	}

	mt := memtransport.New()
	s := blob.NewStreamer(mt, checkDB, checkTr, opts...)

	results := make([]checkResult, apr.NArg())
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(apr.GetIntOrDefault(parallelParam, defaultParallelism), 1))
	for i, path := range apr.Args {
		i, path := i, path
		eg.Go(func() error {
			r, err := checkFile(egCtx, s, mt, path)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return printErr(err)
	}

	failed := false
	rows := make([][]string, len(results))
	for i, r := range results {
		st := color.GreenString("ok")
		if !r.OK {
			st = color.RedString("MISMATCH")
			failed = true
		}
		rows[i] = []string{r.File, humanize.IBytes(uint64(r.Size)), strconv.Itoa(r.Segments), strconv.FormatUint(r.Sum, 16), st}
	}
	cli.PrintTable([]string{"FILE", "SIZE", "SEGMENTS", "XXH64", "STATUS"}, rows)

	if failed {
		return 1
	}
	return 0
}

// checkFile writes |path| as a blob, reads it back and compares the xxhash
// of the original, the stored segments and the bytes read back.
func checkFile(ctx context.Context, s *blob.Streamer, mt *memtransport.Transport, path string) (checkResult, error) {
	data, err := readFile(path)
	if err != nil {
		return checkResult{}, err
	}
	sum := xxhash.Sum64(data)

	id, err := s.WriteAll(ctx, data)
	if err != nil {
		return checkResult{}, err
	}

	segs, _ := mt.Segments(id)
	stored := xxhash.New()
	bounded := true
	for _, seg := range segs {
		bounded = bounded && len(seg) <= s.SegmentSize()
		_, _ = stored.Write(seg)
	}

	back, err := s.ReadAll(ctx, id)
	if err != nil {
		return checkResult{}, err
	}

	return checkResult{
		File:     filepath.Base(path),
		Size:     len(data),
		Segments: len(segs),
		Sum:      sum,
		OK:       bounded && stored.Sum64() == sum && xxhash.Sum64(back) == sum && len(back) == len(data),
	}, nil
}
