package peaks

import (
	"github.com/rotblauer/catseg/common"
	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/types/activity"
	"github.com/rotblauer/catseg/types/track"
	"github.com/rotblauer/catseg/types/trackpoint"
)

// FindExtremes scans points[first..last] for altitude reversals.
// A climb lasting longer than minRunS that turns into a descent marks a peak
// at the highest point; a descent turning into a climb marks a bottom.
// Level hops count as both climbing and descending, so they extend
// whichever run is underway.
// Of consecutive extremes of one type, only the last is kept.
func FindExtremes(points []trackpoint.Trackpoint, first, last int, minRunS float64) []track.Extremum {
	if first < 0 || last >= len(points) || first >= last {
		return nil
	}
	var extremes []track.Extremum
	upSeconds, downSeconds := 0, 0
	prevUp, prevDown := false, false
	for i := first + 1; i <= last; i++ {
		seconds := int(points[i].Seconds(points[i-1]))
		diff := points[i].Elevation - points[i-1].Elevation
		up, down := diff >= 0, diff <= 0
		if up {
			if prevUp {
				upSeconds += seconds
			} else {
				if float64(downSeconds) > minRunS {
					extremes = append(extremes, track.Extremum{Type: track.Bottom, Index: i - 1})
				}
				upSeconds = seconds
			}
		} else {
			if prevDown {
				downSeconds += seconds
			} else {
				if float64(upSeconds) > minRunS {
					extremes = append(extremes, track.Extremum{Type: track.Peak, Index: i - 1})
				}
				downSeconds = seconds
			}
		}
		prevUp, prevDown = up, down
	}

	out := make([]track.Extremum, 0, len(extremes))
	for i, e := range extremes {
		if i+1 < len(extremes) && extremes[i+1].Type == e.Type {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Splitter cuts segments at their altitude extremes.
type Splitter struct {
	Profiles *activity.Profiles
	Config   *params.ExtremumConfig
	diags    *common.Diagnostics
}

func NewSplitter(profiles *activity.Profiles, config *params.ExtremumConfig, diags *common.Diagnostics) *Splitter {
	return &Splitter{Profiles: profiles, Config: config, diags: diags}
}

// Split returns new, linked segments with every segment of a splittable
// activity cut at its extremes. Each piece ending at an extremum carries it.
// Net climbing pieces of lift eligible activities become lifts.
func (s *Splitter) Split(points []trackpoint.Trackpoint, segments []track.Segment) []track.Segment {
	out := make([]track.Segment, 0, len(segments))
	for _, seg := range segments {
		profile, _ := s.Profiles.Get(seg.Activity)
		if !profile.SplitAtExtremes {
			seg.Extremes = nil
			out = append(out, seg)
			continue
		}
		extremes := FindExtremes(points, seg.First, seg.Last, s.Config.MinRun.Seconds())
		first := seg.First
		for _, e := range extremes {
			piece := track.NewSegment(points, first, e.Index, seg.Activity, s.diags)
			piece.Extremes = []track.Extremum{e}
			piece.Reason = "split at " + string(e.Type)
			out = append(out, s.relabel(profile, piece))
			first = e.Index + 1
		}
		piece := seg
		if len(extremes) > 0 {
			piece = track.NewSegment(points, first, seg.Last, seg.Activity, s.diags)
			piece.Reason = "split at " + string(extremes[len(extremes)-1].Type)
		}
		piece.Extremes = nil
		out = append(out, s.relabel(profile, piece))
	}
	return track.Link(out)
}

func (s *Splitter) relabel(profile activity.Profile, seg track.Segment) track.Segment {
	if profile.LiftEligible && seg.GainM > seg.LossM {
		seg.Activity = activity.Lift
		seg.Reason = "net climb"
	}
	return seg
}
