package track

import (
	"github.com/paulmach/orb"
	"github.com/rotblauer/catseg/places"
	"github.com/rotblauer/catseg/types/activity"
	"github.com/rotblauer/catseg/types/trackpoint"
)

// Track is one cleaned, time-ordered trace and the segments found in it.
// Compressed and Zipped are independent tracks with their own point indices
// whose segments mirror this track's break and activity structure.
type Track struct {
	Name     string                 `json:"name,omitempty"`
	Activity activity.Activity      `json:"activity"`
	Points   trackpoint.Trackpoints `json:"points"`
	Segments []Segment              `json:"segments"`

	NetDistanceKm float64 `json:"net_distance_km"`
	NetDurationS  float64 `json:"net_duration_s"`

	Milestones []Milestone `json:"milestones,omitempty"`
	// Missing are dynamic placemarks generated for unnamed starts and extremes.
	Missing places.Placemarks `json:"missing,omitempty"`

	Compressed *Track `json:"compressed,omitempty"`
	Zipped     *Track `json:"zipped,omitempty"`
}

// SegmentPoints returns the points of segment i. The slice shares memory with Points.
func (t *Track) SegmentPoints(i int) trackpoint.Trackpoints {
	s := t.Segments[i]
	return t.Points[s.First : s.Last+1]
}

// Start and End return the first and last point of segment i.
func (t *Track) Start(i int) trackpoint.Trackpoint {
	return t.Points[t.Segments[i].First]
}

func (t *Track) End(i int) trackpoint.Trackpoint {
	return t.Points[t.Segments[i].Last]
}

// BreakDuration returns the seconds of rest between segment i and its next segment,
// or zero if it is the last.
func (t *Track) BreakDuration(i int) float64 {
	next := t.Segments[i].Next
	if next == NoLink {
		return 0
	}
	return t.Start(next).Seconds(t.End(i))
}

// NetSpeedKmh is the moving average speed over all segments.
func (t *Track) NetSpeedKmh() float64 {
	if t.NetDurationS == 0 {
		return 0
	}
	return t.NetDistanceKm * 3600 / t.NetDurationS
}

func (t *Track) Bound() orb.Bound {
	return t.Points.LineString().Bound()
}

// Empty is true for tracks with nothing worth reporting.
func (t *Track) Empty() bool {
	return t == nil || len(t.Segments) == 0
}
