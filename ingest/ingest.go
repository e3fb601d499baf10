// Package ingest turns track files into time-ordered trackpoints.
package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/groupcache/lru"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/rotblauer/catseg/catz"
	"github.com/rotblauer/catseg/types/trackpoint"
)

type fixKey struct {
	Lat, Lng, Elevation float64
	UnixNano            int64
}

// NewDedupeLRUFunc returns a filter that is false for a point
// already seen among the last size points.
func NewDedupeLRUFunc(size int) func(trackpoint.Trackpoint) bool {
	var dedupeCache = lru.New(size)
	return func(tp trackpoint.Trackpoint) bool {
		hash, err := hashstructure.Hash(fixKey{
			Lat: tp.Lat, Lng: tp.Lng, Elevation: tp.Elevation, UnixNano: tp.Time.UnixNano(),
		}, hashstructure.FormatV2, nil)
		if err != nil {
			return true
		}
		if _, ok := dedupeCache.Get(hash); ok {
			return false
		}
		dedupeCache.Add(hash, true)
		return true
	}
}

// Prepare drops duplicate fixes and orders the rest by time.
// Points with equal times keep their input order.
func Prepare(points trackpoint.Trackpoints, dedupeSize int) trackpoint.Trackpoints {
	keep := NewDedupeLRUFunc(dedupeSize)
	out := make(trackpoint.Trackpoints, 0, len(points))
	for _, tp := range points {
		if keep(tp) {
			out = append(out, tp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

func isGPX(path string) bool {
	return strings.EqualFold(filepath.Ext(strings.TrimSuffix(path, ".gz")), ".gpx")
}

// ReadFile decodes a .gpx, .json, .ndjson or .geojson file,
// any of them optionally gzipped.
func ReadFile(path string) (trackpoint.Trackpoints, error) {
	rc, err := catz.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var points trackpoint.Trackpoints
	if isGPX(path) {
		var data []byte
		data, err = io.ReadAll(rc)
		if err == nil {
			points, err = DecodeGPX(data)
		}
	} else {
		points, err = DecodeJSON(rc)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

// ReadFiles concatenates the points of all files and prepares them.
func ReadFiles(paths []string, dedupeSize int) (trackpoint.Trackpoints, error) {
	all := trackpoint.Trackpoints{}
	for _, p := range paths {
		points, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		all = append(all, points...)
	}
	all = Prepare(all, dedupeSize)
	if len(all) == 0 {
		return nil, ErrNoTrackpoints
	}
	return all, nil
}
