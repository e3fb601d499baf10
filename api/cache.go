package api

import (
	"errors"
	"fmt"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/rotblauer/catseg/common"
	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/state"
	"github.com/rotblauer/catseg/types/track"
	"github.com/rotblauer/catseg/types/trackpoint"
)

type fixKey struct {
	Lat, Lng, Elevation float64
	UnixNano            int64
}

// CacheKey identifies the result of processing points with config.
func CacheKey(points trackpoint.Trackpoints, config *params.Config) (string, error) {
	fixes := make([]fixKey, len(points))
	for i, tp := range points {
		fixes[i] = fixKey{tp.Lat, tp.Lng, tp.Elevation, tp.Time.UnixNano()}
	}
	hash, err := hashstructure.Hash(struct {
		Fixes  []fixKey
		Config *params.Config
	}{fixes, config}, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", hash), nil
}

// ProcessCached returns the stored result for the same points and config if
// there is one. Otherwise it processes the points and stores the track and its
// segment summaries. Without a Store it is Process.
func (p *Processor) ProcessCached(name string, points trackpoint.Trackpoints) (t *track.Track, diags *common.Diagnostics, cached bool, err error) {
	if p.Store == nil {
		t, diags = p.Process(name, points)
		return t, diags, false, nil
	}
	key, err := CacheKey(points, p.Config)
	if err != nil {
		return nil, nil, false, err
	}
	t, err = p.Store.GetTrack(key)
	if err == nil {
		p.logger.Debug("Track cache hit", "name", name, "key", key)
		return t, common.NewDiagnostics(), true, nil
	}
	if !errors.Is(err, state.ErrNotFound) {
		return nil, nil, false, err
	}

	t, diags = p.Process(name, points)
	if t.Empty() {
		return t, diags, false, nil
	}
	if err := p.Store.PutTrack(key, t); err != nil {
		return t, diags, false, fmt.Errorf("store track: %w", err)
	}
	if err := p.Store.PutSummaries(key, state.Summaries(t)); err != nil {
		return t, diags, false, fmt.Errorf("store summaries: %w", err)
	}
	return t, diags, false, nil
}
