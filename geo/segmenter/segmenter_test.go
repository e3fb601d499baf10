package segmenter

import (
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/rotblauer/catseg/common"
	"github.com/rotblauer/catseg/geo/clean"
	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/types/activity"
	"github.com/rotblauer/catseg/types/track"
	"github.com/rotblauer/catseg/types/trackpoint"
)

var t0 = time.Date(2024, 2, 10, 10, 0, 0, 0, time.UTC)

// step is ~16.67 m of latitude, the distance covered in 12 s at 5 km/h.
const step = 0.00015

type leg struct {
	n      int  // points
	moving bool // stationary legs repeat the last position
}

// walk builds a trace with one fix every 12 seconds heading north.
func walk(legs ...leg) []trackpoint.Trackpoint {
	var out []trackpoint.Trackpoint
	lat := 46.0
	for _, l := range legs {
		for j := 0; j < l.n; j++ {
			if l.moving && len(out) > 0 {
				lat += step
			}
			out = append(out, trackpoint.Trackpoint{
				Lat:  lat,
				Lng:  8,
				Time: t0.Add(time.Duration(len(out)*12) * time.Second),
			})
		}
	}
	return out
}

func detect(t *testing.T, points []trackpoint.Trackpoint) (*track.Track, *common.Diagnostics) {
	t.Helper()
	profile, _ := params.DefaultProfiles().Get(activity.Walk)
	diags := common.NewDiagnostics()
	cleaned := clean.EliminateStillPoints(points)
	d := NewDetector(profile, params.DefaultSegmenterConfig, diags)
	tr := &track.Track{Points: cleaned, Segments: d.Detect(cleaned, activity.Walk)}
	tr.NetDistanceKm, tr.NetDurationS = track.NetStats(tr.Segments)
	return tr, diags
}

func TestDetect_Stationary(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()
	pts := walk(leg{3, false})
	tr, diags := detect(t, pts)
	if len(tr.Points) != 1 {
		t.Errorf("have %d cleaned points want 1", len(tr.Points))
	}
	if len(tr.Segments) != 0 {
		t.Errorf("have %d segments want 0", len(tr.Segments))
	}
	if diags.Len() == 0 {
		t.Error("expected a warning")
	}
}

func TestDetect_NoPoints(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()
	diags := common.NewDiagnostics()
	d := NewDetector(activity.FallbackProfile(activity.Walk), params.DefaultSegmenterConfig, diags)
	if segs := d.Detect(nil, activity.Walk); len(segs) != 0 {
		t.Errorf("have %d segments want 0", len(segs))
	}
	if diags.Len() != 1 {
		t.Errorf("have %d warnings want 1", diags.Len())
	}
}

func TestDetect_MoveRestMove(t *testing.T) {
	// 10 minutes walking, 5 minutes standing still, walking again: 100 points.
	pts := walk(leg{51, true}, leg{25, false}, leg{24, true})
	if len(pts) != 100 {
		t.Fatalf("have %d points want 100", len(pts))
	}
	tr, _ := detect(t, pts)
	if len(tr.Segments) != 2 {
		t.Fatalf("have %d segments want 2: %+v", len(tr.Segments), tr.Segments)
	}
	if tr.Segments[0].Next != 1 || tr.Segments[1].Prev != 0 {
		t.Errorf("segments not linked: %+v", tr.Segments)
	}
	if b := tr.BreakDuration(0); b < 290 || b > 340 {
		t.Errorf("break: have %v want ~300", b)
	}
	if have := tr.Start(0).Time.Sub(t0); have != 12*time.Second {
		t.Errorf("first start: have %v want 12s", have)
	}
	if have := tr.End(1).Time.Sub(t0); have != 1188*time.Second {
		t.Errorf("last end: have %v want 1188s", have)
	}
}

func TestDetect_ShortBreakMerged(t *testing.T) {
	// A one minute stop is shorter than the minimum break.
	pts := walk(leg{51, true}, leg{5, false}, leg{30, true})
	tr, _ := detect(t, pts)
	if len(tr.Segments) != 1 {
		t.Fatalf("have %d segments want 1: %+v", len(tr.Segments), tr.Segments)
	}
	if tr.Segments[0].Last != len(tr.Points)-1 {
		t.Errorf("have last %d want %d", tr.Segments[0].Last, len(tr.Points)-1)
	}
}

func TestDetect_NoiseDropped(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()
	// 100 m of walking, of which the segment keeps 83 m, is under the 0.1 km floor.
	pts := walk(leg{7, true})
	tr, _ := detect(t, pts)
	if len(tr.Segments) != 0 {
		t.Errorf("have %d segments want 0", len(tr.Segments))
	}
}

func TestDetect_Properties(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()
	rng := rand.New(rand.NewSource(42))
	var legs []leg
	for i := 0; i < 20; i++ {
		legs = append(legs, leg{10 + rng.Intn(60), i%2 == 0})
	}
	tr, _ := detect(t, walk(legs...))
	if len(tr.Segments) == 0 {
		t.Fatal("no segments")
	}
	sum := 0.0
	for i, s := range tr.Segments {
		if s.First > s.Last {
			t.Errorf("segment %d: first %d > last %d", i, s.First, s.Last)
		}
		if i > 0 && tr.Segments[i-1].Last >= s.First {
			t.Errorf("segments %d and %d overlap", i-1, i)
		}
		sum += s.DistanceKm
	}
	if d := sum - tr.NetDistanceKm; d > 1e-9 || d < -1e-9 {
		t.Errorf("have net %v want %v", tr.NetDistanceKm, sum)
	}
}

func TestDetector_WindowRestartsAtTransition(t *testing.T) {
	profile, _ := params.DefaultProfiles().Get(activity.Walk)
	d := NewDetector(profile, params.DefaultSegmenterConfig, common.NewDiagnostics())
	pts := walk(leg{40, true})
	d.points = pts
	for i := range pts {
		d.AddPoint(i)
		if d.State == BeforeFirstStart {
			continue
		}
		if len(d.window) != 1 || d.window[0].index != i {
			t.Fatalf("have window %+v want only index %d", d.window, i)
		}
		return
	}
	t.Fatal("movement never started")
}
