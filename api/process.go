package api

import (
	"fmt"
	"log/slog"

	"github.com/rotblauer/catseg/common"
	"github.com/rotblauer/catseg/geo/act"
	"github.com/rotblauer/catseg/geo/clean"
	"github.com/rotblauer/catseg/geo/compress"
	"github.com/rotblauer/catseg/geo/peaks"
	"github.com/rotblauer/catseg/geo/segmenter"
	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/places"
	"github.com/rotblauer/catseg/state"
	"github.com/rotblauer/catseg/types/activity"
	"github.com/rotblauer/catseg/types/track"
	"github.com/rotblauer/catseg/types/trackpoint"
)

// Processor turns raw trackpoints into segmented tracks.
// Namer, Placemarks and Store are optional.
type Processor struct {
	Config *params.Config
	Namer  places.Namer
	Store  *state.Store

	// Placemarks are the known places; starts and extremes far from all of
	// them get dynamic placemarks in Track.Missing.
	Placemarks places.Placemarks

	logger *slog.Logger
}

func NewProcessor(config *params.Config, namer places.Namer, store *state.Store) *Processor {
	if config == nil {
		config = params.DefaultConfig()
	}
	return &Processor{
		Config: config,
		Namer:  namer,
		Store:  store,
		logger: slog.With("api", "process"),
	}
}

// Process runs every stage over points. Each stage returns new values;
// points is never modified.
// A track without segments is returned when nothing survives cleaning,
// and callers should skip it.
func (p *Processor) Process(name string, points trackpoint.Trackpoints) (*track.Track, *common.Diagnostics) {
	diags := common.NewDiagnostics()
	cfg := p.Config

	t := &track.Track{Name: name, Activity: cfg.Activity}

	valid := clean.FilterValid(points, clean.DefaultFilters(cfg.Clean), diags)
	t.Points = clean.EliminateStillPoints(valid)
	if len(t.Points) == 0 {
		diags.Warn("No points left after cleaning", "name", name, "input", len(points))
		return t, diags
	}

	profile, ok := cfg.Profiles.Get(cfg.Activity)
	if !ok {
		diags.Warn("Unknown activity, using default profile", "activity", cfg.Activity, "default", cfg.Profiles.Default)
	}
	segments := segmenter.NewDetector(profile, cfg.Segmenter, diags).Detect(t.Points, cfg.Activity)
	segments = peaks.NewSplitter(cfg.Profiles, cfg.Extremum, diags).Split(t.Points, segments)
	segments = act.NewClassifier(cfg.Profiles, cfg.Overrides, diags).Classify(t.Points, segments)
	t.Segments = p.name(t.Points, segments)
	t.NetDistanceKm, t.NetDurationS = track.NetStats(t.Segments)
	t.Missing = p.missing(t.Points, t.Segments)

	t.Compressed = compress.Track(t, cfg.Compression, diags)
	t.Zipped = compress.Zip(t.Compressed, cfg.Compression, diags)
	t.Milestones = t.CalcMilestones(params.DefaultMilestoneKm)

	p.logger.Info("Processed track", "name", name,
		"points", len(points), "cleaned", len(t.Points),
		"compressed", len(t.Compressed.Points), "zipped", len(t.Zipped.Points),
		"segments", len(t.Segments), "missing", len(t.Missing), "km", common.DecimalToFixed(t.NetDistanceKm, 2),
		"warnings", diags.Len())
	return t, diags
}

func (p *Processor) name(points trackpoint.Trackpoints, segments []track.Segment) []track.Segment {
	out := make([]track.Segment, len(segments))
	copy(out, segments)
	if p.Namer == nil {
		return out
	}
	for i, s := range out {
		out[i].StartName = p.Namer.Name(points[s.First].Point())
		out[i].EndName = p.Namer.Name(points[s.Last].Point())
	}
	return out
}

func (p *Processor) missing(points trackpoint.Trackpoints, segments []track.Segment) places.Placemarks {
	finder := places.NewMissingFinder(p.Placemarks)
	for _, s := range segments {
		start := points[s.First]
		finder.Start(start.Point(), start.Elevation,
			fmt.Sprintf("%s %s", start.Time.Format("2006-01-02 15:04"), s.Activity))
		for _, e := range s.Extremes {
			if e.Index < 0 || e.Index >= len(points) {
				continue
			}
			tp := points[e.Index]
			finder.Extremum(string(e.Type), tp.Point(), tp.Elevation)
		}
	}
	return finder.Found()
}

// WithActivity returns a Processor sharing p's Namer and Store that treats
// input as act. p is unchanged.
func (p *Processor) WithActivity(act activity.Activity) *Processor {
	cfg := *p.Config
	cfg.Activity = act
	cp := *p
	cp.Config = &cfg
	return &cp
}
