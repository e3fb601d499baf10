package peaks

import (
	"math"
	"testing"
	"time"

	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/types/activity"
	"github.com/rotblauer/catseg/types/track"
	"github.com/rotblauer/catseg/types/trackpoint"
)

var t0 = time.Date(2024, 2, 10, 10, 0, 0, 0, time.UTC)

// profile builds a northward trace with one fix every 10 seconds
// and elevations interpolated between the given knots, 30 fixes apart.
func profile(knots ...float64) []trackpoint.Trackpoint {
	var out []trackpoint.Trackpoint
	add := func(elevation float64) {
		n := len(out)
		out = append(out, trackpoint.Trackpoint{
			Lat:       46 + float64(n)*0.0002,
			Lng:       8,
			Elevation: elevation,
			Time:      t0.Add(time.Duration(n*10) * time.Second),
		})
	}
	add(knots[0])
	for k := 1; k < len(knots); k++ {
		for j := 1; j <= 30; j++ {
			add(knots[k-1] + (knots[k]-knots[k-1])*float64(j)/30)
		}
	}
	return out
}

func TestFindExtremes_V(t *testing.T) {
	// Climb 200 m over 5 minutes, descend 200 m over 5 minutes.
	pts := profile(1000, 1200, 1000)
	ex := FindExtremes(pts, 0, len(pts)-1, 60)
	if len(ex) != 1 {
		t.Fatalf("have %d extremes want 1: %v", len(ex), ex)
	}
	if ex[0].Type != track.Peak {
		t.Errorf("have %v want peak", ex[0].Type)
	}
	if ex[0].Index != 30 || pts[ex[0].Index].Elevation != 1200 {
		t.Errorf("have index %d (%v m) want apex 30 (1200 m)", ex[0].Index, pts[ex[0].Index].Elevation)
	}
}

func TestFindExtremes(t *testing.T) {
	cases := []struct {
		name  string
		knots []float64
		want  []track.Extremum
	}{
		{"flat", []float64{500, 500}, nil},
		{"climb", []float64{500, 700}, nil},
		{"bottom", []float64{700, 500, 700}, []track.Extremum{{Type: track.Bottom, Index: 30}}},
		{"peak bottom", []float64{500, 700, 500, 600}, []track.Extremum{{Type: track.Peak, Index: 30}, {Type: track.Bottom, Index: 60}}},
	}
	for _, c := range cases {
		pts := profile(c.knots...)
		have := FindExtremes(pts, 0, len(pts)-1, 60)
		if len(have) != len(c.want) {
			t.Errorf("%s: have %v want %v", c.name, have, c.want)
			continue
		}
		for i := range have {
			if have[i] != c.want[i] {
				t.Errorf("%s: have %v want %v", c.name, have[i], c.want[i])
			}
		}
	}
}

func TestFindExtremes_ShortBumpIgnored(t *testing.T) {
	pts := profile(500, 700)
	// A 30 second climb then a dip is no peak.
	for i := 3; i < len(pts); i++ {
		pts[i].Elevation = pts[2].Elevation - float64(i)
	}
	if ex := FindExtremes(pts, 0, len(pts)-1, 60); len(ex) != 0 {
		t.Errorf("have %v want none", ex)
	}
}

// fromElevations builds a trace with one fix every 10 seconds.
func fromElevations(es ...float64) []trackpoint.Trackpoint {
	out := make([]trackpoint.Trackpoint, len(es))
	for i, e := range es {
		out[i] = trackpoint.Trackpoint{
			Lat:       46 + float64(i)*0.0002,
			Lng:       8,
			Elevation: e,
			Time:      t0.Add(time.Duration(i*10) * time.Second),
		}
	}
	return out
}

func TestFindExtremes_CollapsesSameType(t *testing.T) {
	// Climb, dip for 30 seconds, climb again, descend.
	// The dip is too short to be a bottom, so the two peaks collapse to the later one.
	var es []float64
	for i := 0; i <= 30; i++ {
		es = append(es, 500+float64(i)*10) // 0..30: up to 800
	}
	es = append(es, 790, 780, 770) // 31..33
	for i := 0; i < 30; i++ {
		es = append(es, 780+float64(i)*10) // 34..63: up to 1070
	}
	for i := 1; i <= 30; i++ {
		es = append(es, 1070-float64(i)*10) // 64..93
	}
	pts := fromElevations(es...)
	ex := FindExtremes(pts, 0, len(pts)-1, 60)
	if len(ex) != 1 {
		t.Fatalf("have %v want one peak", ex)
	}
	if ex[0].Type != track.Peak || ex[0].Index != 63 {
		t.Errorf("have %v want peak at 63", ex[0])
	}
}

func TestSplitter_Split(t *testing.T) {
	pts := profile(1000, 1200, 1000)
	seg := track.NewSegment(pts, 0, len(pts)-1, activity.Hike, nil)
	sp := NewSplitter(params.DefaultProfiles(), params.DefaultExtremumConfig, nil)

	out := sp.Split(pts, []track.Segment{seg})
	if len(out) != 2 {
		t.Fatalf("have %d segments want 2", len(out))
	}
	if out[0].First != 0 || out[0].Last != 30 || out[1].First != 31 || out[1].Last != 60 {
		t.Errorf("have [%d %d] [%d %d]", out[0].First, out[0].Last, out[1].First, out[1].Last)
	}
	if len(out[0].Extremes) != 1 || out[0].Extremes[0].Type != track.Peak {
		t.Errorf("have %v want the peak", out[0].Extremes)
	}
	if out[0].Next != 1 || out[1].Prev != 0 {
		t.Error("pieces not linked")
	}
	// The hop from the apex into the second piece belongs to neither.
	if math.Abs(out[0].GainM-200) > 1e-6 || math.Abs(out[1].LossM-200*29.0/30) > 1e-6 {
		t.Errorf("have gain %v loss %v", out[0].GainM, out[1].LossM)
	}

	// Cars are never split.
	seg.Activity = activity.Car
	if out := sp.Split(pts, []track.Segment{seg}); len(out) != 1 {
		t.Errorf("have %d segments want 1", len(out))
	}
}

func TestSplitter_Lift(t *testing.T) {
	// Ride up, ski down.
	pts := profile(1000, 1600, 1000)
	seg := track.NewSegment(pts, 0, len(pts)-1, activity.Downhill, nil)
	out := NewSplitter(params.DefaultProfiles(), params.DefaultExtremumConfig, nil).Split(pts, []track.Segment{seg})
	if len(out) != 2 {
		t.Fatalf("have %d segments want 2", len(out))
	}
	if out[0].Activity != activity.Lift {
		t.Errorf("have %v want lift", out[0].Activity)
	}
	if out[1].Activity != activity.Downhill {
		t.Errorf("have %v want downhill", out[1].Activity)
	}
}
