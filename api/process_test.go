package api

import (
	"log/slog"
	"math"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/rotblauer/catseg/common"
	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/places"
	"github.com/rotblauer/catseg/state"
	"github.com/rotblauer/catseg/types/activity"
	"github.com/rotblauer/catseg/types/track"
	"github.com/rotblauer/catseg/types/trackpoint"
)

var t0 = time.Date(2024, 2, 10, 10, 0, 0, 0, time.UTC)

// walkStep is ~16.67 m of latitude, covered in 12 s at 5 km/h.
const walkStep = 0.00015

type leg struct {
	n      int
	moving bool
}

// trace builds fixes 12 seconds apart heading north by step per moving fix.
func trace(step float64, elevation func(i int) float64, legs ...leg) trackpoint.Trackpoints {
	var out trackpoint.Trackpoints
	lat := 46.0
	for _, l := range legs {
		for j := 0; j < l.n; j++ {
			if l.moving && len(out) > 0 {
				lat += step
			}
			tp := trackpoint.Trackpoint{Lat: lat, Lng: 8, Time: t0.Add(time.Duration(len(out)*12) * time.Second)}
			if elevation != nil {
				tp.Elevation = elevation(len(out))
			}
			out = append(out, tp)
		}
	}
	return out
}

func config(act activity.Activity) *params.Config {
	cfg := params.DefaultConfig()
	cfg.Activity = act
	return cfg
}

func checkTrack(t *testing.T, tr *track.Track) {
	t.Helper()
	sum := 0.0
	for i, s := range tr.Segments {
		sum += s.DistanceKm
		if s.First > s.Last {
			t.Errorf("segment %d: first %d > last %d", i, s.First, s.Last)
		}
		if i > 0 && tr.Segments[i-1].Last >= s.First {
			t.Errorf("segments %d and %d overlap", i-1, i)
		}
	}
	if math.Abs(sum-tr.NetDistanceKm) > 1e-9 {
		t.Errorf("distance: have %v want %v", tr.NetDistanceKm, sum)
	}
	for i := 1; i < len(tr.Points); i++ {
		if tr.Points[i].Time.Before(tr.Points[i-1].Time) {
			t.Errorf("points out of order at %d", i)
		}
		if tr.Points[i].IsSameLatLng(tr.Points[i-1]) {
			t.Errorf("adjacent identical points at %d", i)
		}
	}
}

func TestProcess_Stationary(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()
	p := NewProcessor(config(activity.Walk), nil, nil)
	tr, diags := p.Process("still", trace(0, nil, leg{3, false}))
	if len(tr.Points) != 1 {
		t.Errorf("have %d points want 1", len(tr.Points))
	}
	if !tr.Empty() {
		t.Errorf("have %d segments want 0", len(tr.Segments))
	}
	if diags.Len() == 0 {
		t.Error("expected a warning")
	}
}

func TestProcess_Empty(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()
	p := NewProcessor(nil, nil, nil)
	tr, diags := p.Process("none", nil)
	if !tr.Empty() || tr.Compressed != nil {
		t.Errorf("have %+v", tr)
	}
	if diags.Len() != 1 {
		t.Errorf("have %v", diags.Warnings())
	}
}

func TestProcess_MoveRestMove(t *testing.T) {
	pts := trace(walkStep, nil, leg{51, true}, leg{25, false}, leg{24, true})
	input := slices.Clone(pts)
	namer := places.Placemarks{
		{Name: "Home", Lat: 46, Lng: 8},
		{Name: "Far", Lat: 46.1, Lng: 8},
	}
	p := NewProcessor(config(activity.Walk), namer, nil)
	tr, _ := p.Process("walk", pts)

	if len(tr.Segments) != 2 {
		t.Fatalf("have %d segments want 2", len(tr.Segments))
	}
	checkTrack(t, tr)
	if b := tr.BreakDuration(0); b < 290 || b > 340 {
		t.Errorf("break: have %v want ~300", b)
	}
	for i, s := range tr.Segments {
		if s.Activity != activity.Walk {
			t.Errorf("segment %d: have %v want %v", i, s.Activity, activity.Walk)
		}
	}
	if tr.Segments[0].StartName != "Home" {
		t.Errorf("have %q want Home", tr.Segments[0].StartName)
	}
	if tr.Name != "walk" || tr.Compressed.Name != "walk" {
		t.Error("name not carried")
	}

	if len(tr.Compressed.Points) != 4 || len(tr.Zipped.Points) != 4 {
		t.Errorf("have %d compressed %d zipped points want 4", len(tr.Compressed.Points), len(tr.Zipped.Points))
	}
	if len(tr.Compressed.Segments) != 2 || len(tr.Zipped.Segments) != 2 {
		t.Errorf("compressed tracks lost segments")
	}
	checkTrack(t, tr.Compressed)

	if !slices.Equal(pts, input) {
		t.Error("Process modified its input")
	}
}

func TestProcess_FastIsCar(t *testing.T) {
	// ~95 km/h over ~4 km.
	pts := trace(0.00285, nil, leg{15, true})
	for _, act := range []activity.Activity{activity.Walk, activity.Cycle, activity.Hike, activity.Car} {
		tr, _ := NewProcessor(config(act), nil, nil).Process("fast", pts)
		if len(tr.Segments) != 1 {
			t.Fatalf("%s: have %d segments want 1", act, len(tr.Segments))
		}
		s := tr.Segments[0]
		if s.SpeedKmh() < 90 || s.DistanceKm < 3.5 {
			t.Fatalf("%s: have %.1f km/h over %.1f km", act, s.SpeedKmh(), s.DistanceKm)
		}
		if s.Activity != activity.Car {
			t.Errorf("%s: have %v want %v", act, s.Activity, activity.Car)
		}
		if len(tr.Milestones) < 3 {
			t.Fatalf("%s: have %d milestones want at least 3", act, len(tr.Milestones))
		}
		for i, m := range tr.Milestones {
			if m.Km != float64(i+1) || m.SplitS <= 0 {
				t.Errorf("%s: milestone %d: have %+v", act, i, m)
			}
		}
	}
}

func TestProcess_Peak(t *testing.T) {
	// Climb 200 m over 5 minutes, descend 200 m over 5 minutes.
	elevation := func(i int) float64 {
		if i <= 25 {
			return 8 * float64(i)
		}
		return 200 - 8*float64(i-25)
	}
	pts := trace(walkStep, elevation, leg{51, true})
	tr, _ := NewProcessor(config(activity.Hike), nil, nil).Process("hill", pts)
	checkTrack(t, tr)

	var extremes []track.Extremum
	for _, s := range tr.Segments {
		extremes = append(extremes, s.Extremes...)
	}
	if len(extremes) != 1 {
		t.Fatalf("have %v want one peak", extremes)
	}
	if extremes[0].Type != track.Peak || tr.Points[extremes[0].Index].Elevation != 200 {
		t.Errorf("have %+v at %v m", extremes[0], tr.Points[extremes[0].Index].Elevation)
	}
	if len(tr.Segments) != 2 {
		t.Errorf("have %d segments want 2", len(tr.Segments))
	}

	var peaks []places.Placemark
	for _, m := range tr.Missing {
		if m.Type == string(track.Peak) {
			peaks = append(peaks, m)
		}
	}
	if len(peaks) != 1 || peaks[0].Alt != 200 || !peaks[0].Dynamic {
		t.Errorf("have %+v want one dynamic peak at 200 m", peaks)
	}
}

func TestProcess_Missing(t *testing.T) {
	pts := trace(walkStep, nil, leg{51, true}, leg{25, false}, leg{24, true})
	home := places.Placemark{Name: "Home", Lat: 46, Lng: 8}
	p := NewProcessor(config(activity.Walk), nil, nil)
	p.Placemarks = places.Placemarks{home}
	tr, _ := p.Process("walk", pts)
	if len(tr.Segments) != 2 {
		t.Fatalf("have %d segments want 2", len(tr.Segments))
	}

	// The second segment starts ~830 m north of Home.
	second := tr.Start(1)
	found := false
	for _, m := range tr.Missing {
		if !m.Dynamic || m.Type != "start" {
			t.Errorf("have %+v", m)
		}
		if home.DistanceKm(m.Point()) < places.MissingStartKm {
			t.Errorf("placemark %q within %v km of Home", m.Name, places.MissingStartKm)
		}
		if m.Lat == second.Lat && m.Lng == second.Lng {
			found = true
		}
	}
	if !found {
		t.Errorf("no placemark at the second start, have %+v", tr.Missing)
	}
}

func TestProcess_UnknownActivity(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()
	pts := trace(walkStep, nil, leg{51, true})
	tr, diags := NewProcessor(config("unicycle"), nil, nil).Process("x", pts)
	if len(tr.Segments) != 1 {
		t.Fatalf("have %d segments want 1", len(tr.Segments))
	}
	if diags.Len() == 0 {
		t.Error("expected a warning")
	}
}

func TestProcessCached(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()
	store, err := state.Open(filepath.Join(t.TempDir(), params.StateDBName), false)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	pts := trace(walkStep, nil, leg{51, true}, leg{25, false}, leg{24, true})
	p := NewProcessor(config(activity.Walk), nil, store)

	first, _, cached, err := p.ProcessCached("a", pts)
	if err != nil {
		t.Fatal(err)
	}
	if cached {
		t.Error("first call cached")
	}
	second, _, cached, err := p.ProcessCached("a", pts)
	if err != nil {
		t.Fatal(err)
	}
	if !cached {
		t.Error("second call not cached")
	}
	if len(second.Segments) != len(first.Segments) || len(second.Compressed.Points) != len(first.Compressed.Points) {
		t.Errorf("have %+v want %+v", second.Segments, first.Segments)
	}

	sums, err := store.AllSummaries()
	if err != nil {
		t.Fatal(err)
	}
	if len(sums) != 2 {
		t.Errorf("have %d summaries want 2", len(sums))
	}

	k1, err := CacheKey(pts, p.Config)
	if err != nil {
		t.Fatal(err)
	}
	k2, _ := CacheKey(pts, config(activity.Run))
	k3, _ := CacheKey(pts[1:], p.Config)
	if k1 == k2 || k1 == k3 {
		t.Errorf("keys collide: %s %s %s", k1, k2, k3)
	}
}

func TestProcessor_WithActivity(t *testing.T) {
	p := NewProcessor(config(activity.Walk), nil, nil)
	q := p.WithActivity(activity.Ski)
	if q.Config.Activity != activity.Ski {
		t.Errorf("have %v want %v", q.Config.Activity, activity.Ski)
	}
	if p.Config.Activity != activity.Walk {
		t.Errorf("original changed: have %v want %v", p.Config.Activity, activity.Walk)
	}
	if q.Config.Profiles != p.Config.Profiles {
		t.Error("profiles should be shared")
	}
}
