// Package export writes processed tracks as GeoJSON and CSV files,
// and uploads them to S3.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rotblauer/catseg/catz"
	"github.com/rotblauer/catseg/common"
	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/types/track"
)

// WriteGeoJSON writes the segments of t as a GeoJSON FeatureCollection.
func WriteGeoJSON(w io.Writer, t *track.Track) error {
	return json.NewEncoder(w).Encode(t.FeatureCollection())
}

// GeoJSONFiles writes the full, compressed and zipped renderings of t
// as gzipped GeoJSON under dir, and returns their paths.
// Missing derivatives are skipped.
func GeoJSONFiles(dir string, t *track.Track) ([]string, error) {
	var written []string
	for _, f := range []struct {
		name string
		t    *track.Track
	}{
		{params.TracksGZFileName, t},
		{params.CompressedGZFileName, t.Compressed},
		{params.ZippedGZFileName, t.Zipped},
	} {
		if f.t == nil {
			continue
		}
		path := filepath.Join(dir, f.name)
		if err := catz.WriteFile(path, func(w io.Writer) error {
			return WriteGeoJSON(w, f.t)
		}); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

var csvHeader = []string{"time", "lat", "lon", "alt"}

// WriteSegmentCSV writes the points of segment i.
func WriteSegmentCSV(w io.Writer, t *track.Track, i int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, tp := range t.SegmentPoints(i) {
		if err := cw.Write([]string{
			tp.Time.Format(time.RFC3339),
			strconv.FormatFloat(common.DecimalToFixed(tp.Lat, common.GPSPrecision6), 'f', -1, 64),
			strconv.FormatFloat(common.DecimalToFixed(tp.Lng, common.GPSPrecision6), 'f', -1, 64),
			strconv.FormatFloat(common.DecimalToFixed(tp.Elevation, 1), 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SegmentCSVFiles writes one CSV per segment to dir/<activity>/<CSVFilename>.
func SegmentCSVFiles(dir string, t *track.Track) ([]string, error) {
	var written []string
	for i, s := range t.Segments {
		path := filepath.Join(dir, s.Activity.String(), t.CSVFilename(i))
		if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
			return written, err
		}
		f, err := os.Create(path)
		if err != nil {
			return written, err
		}
		if err := WriteSegmentCSV(f, t, i); err != nil {
			f.Close()
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
