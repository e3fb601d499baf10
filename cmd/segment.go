/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rotblauer/catseg/api"
	"github.com/rotblauer/catseg/catz"
	"github.com/rotblauer/catseg/common"
	"github.com/rotblauer/catseg/export"
	"github.com/rotblauer/catseg/ingest"
	"github.com/rotblauer/catseg/metrics/influxdb"
	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/state"
	"github.com/rotblauer/catseg/stream"
	"github.com/rotblauer/catseg/types/track"
	"github.com/spf13/cobra"
)

var optName string
var optOutDir string
var optCSV bool
var optNoStore bool
var optEach bool
var optWorkersN int

// segmentCmd represents the segment command
var segmentCmd = &cobra.Command{
	Use:   "segment FILE...",
	Short: "Segment GPS tracks from files",
	Long: `Reads one or more GPX, GeoJSON or JSON trackpoint files (optionally gzipped)
as a single trace, and prints its segments.

With --out, the full, compressed and zipped tracks are written there as
gzipped GeoJSON, and with --csv each segment is also written as CSV
under a directory named for its activity. If AWS_BUCKETNAME is set the
written files are uploaded to it. If INFLUXDB_URL and INFLUXDB_BUCKET are
set segment metrics are written to InfluxDB.

With --each every file is its own track, named for the file, and files
are processed in parallel.

Results are kept in the state database, keyed by input and config,
so running the same files again is cheap. Use --no-store to skip it.

Examples:

  catseg segment --activity ski --out ./out morning.gpx afternoon.gpx.gz
  catseg segment --each --workers 4 --out ./out ~/gps/2024/*.gpx
`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		cfg := mustLoadConfig()

		var store *state.Store
		if !optNoStore {
			var err error
			store, err = openStore(false)
			if err != nil {
				log.Fatalln(err)
			}
			defer store.Close()
		}
		processor := newProcessor(cfg, store)

		if !optEach {
			name := optName
			if name == "" {
				name = catz.TrimExt(args[0])
			}
			res := segmentFiles(processor, name, args...)
			if res.err != nil {
				log.Fatalln(res.err)
			}
			handleResult(cmd.OutOrStdout(), res)
			return
		}

		ctx, cancel := common.InterruptedContext(context.Background())
		defer cancel()
		results := stream.Collect(stream.Transform(ctx, optWorkersN, func(path string) segmentResult {
			return segmentFiles(processor, catz.TrimExt(path), path)
		}, stream.Slice(ctx, args)))
		slices.SortFunc(results, func(a, b segmentResult) int {
			return strings.Compare(a.name, b.name)
		})
		for _, res := range results {
			if res.err != nil {
				slog.Error("Failed to segment", "name", res.name, "error", res.err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "== %s\n", res.name)
			handleResult(cmd.OutOrStdout(), res)
		}
	},
}

type segmentResult struct {
	name   string
	points int
	t      *track.Track
	diags  *common.Diagnostics
	cached bool
	err    error
}

// segmentFiles reads paths as one trace and processes it.
func segmentFiles(processor *api.Processor, name string, paths ...string) segmentResult {
	res := segmentResult{name: name}
	points, err := ingest.ReadFiles(paths, params.DefaultDedupeCacheSize)
	if err != nil {
		res.err = err
		return res
	}
	res.points = len(points)
	res.t, res.diags, res.cached, res.err = processor.ProcessCached(name, points)
	return res
}

// handleResult prints a processed track and writes, uploads and exports it as flagged.
func handleResult(w io.Writer, res segmentResult) {
	t := res.t
	if t.Empty() {
		slog.Warn("Nothing to segment", "name", res.name, "points", res.points, "warnings", res.diags.Len())
		return
	}
	printTrack(w, t, res.cached)

	if optOutDir != "" {
		dir := optOutDir
		if optEach {
			dir = filepath.Join(optOutDir, res.name)
		}
		files, err := writeOutputs(dir, t)
		if err != nil {
			log.Fatalln(err)
		}
		if params.AWS_BUCKETNAME != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			keys, err := export.NewS3Uploader(params.AWS_BUCKETNAME).UploadFiles(ctx, res.name, files)
			if err != nil {
				log.Fatalln(err)
			}
			slog.Info("Uploaded", "bucket", params.AWS_BUCKETNAME, "keys", len(keys))
		}
	}

	if influxConfig := params.DefaultInfluxConfig(); influxConfig.Enabled() {
		if err := influxdb.ExportTrack(influxConfig, t); err != nil {
			slog.Error("Failed to export to InfluxDB", "error", err)
		}
	}
}

func printTrack(w io.Writer, t *track.Track, cached bool) {
	if cached {
		fmt.Fprintln(w, "(cached)")
	}
	for _, line := range t.Summary() {
		fmt.Fprintln(w, line)
	}
	if t.Compressed != nil && t.Zipped != nil {
		fmt.Fprintf(w, "compressed to %s points, zipped to %s\n",
			humanize.Comma(int64(len(t.Compressed.Points))), humanize.Comma(int64(len(t.Zipped.Points))))
	}
	for _, m := range t.Milestones {
		fmt.Fprintf(w, "  %s km %s (%s)\n",
			humanize.FtoaWithDigits(m.Km, 1), m.Time.Format("15:04"), track.ClockDuration(m.SplitS))
	}
	for _, p := range t.Missing {
		fmt.Fprintf(w, "  missing: %s\n", p.Name)
	}
}

func writeOutputs(dir string, t *track.Track) ([]string, error) {
	if err := os.MkdirAll(dir, 0770); err != nil {
		return nil, err
	}
	files, err := export.GeoJSONFiles(dir, t)
	if err != nil {
		return files, err
	}
	if optCSV {
		csvs, err := export.SegmentCSVFiles(filepath.Join(dir, "csv"), t)
		if err != nil {
			return files, err
		}
		files = append(files, csvs...)
	}
	var size int64
	for _, f := range files {
		if fi, err := os.Stat(f); err == nil {
			size += fi.Size()
		}
	}
	slog.Info("Wrote outputs", "dir", dir, "files", len(files), "size", humanize.Bytes(uint64(size)))
	return files, nil
}

func init() {
	rootCmd.AddCommand(segmentCmd)

	flags := segmentCmd.Flags()
	flags.StringVar(&optName, "name", "", "track name (default is the first file's base name)")
	flags.StringVarP(&optOutDir, "out", "o", "", "directory to write GeoJSON (and CSV) to")
	flags.BoolVar(&optCSV, "csv", false, "also write one CSV per segment")
	flags.BoolVar(&optNoStore, "no-store", false, "don't read or write the state database")
	flags.BoolVar(&optEach, "each", false, "segment each file as its own track")
	flags.IntVar(&optWorkersN, "workers", runtime.NumCPU(), "files processed in parallel with --each")
}
