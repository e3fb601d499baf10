package state

import (
	"github.com/rotblauer/catseg/common"
	"github.com/rotblauer/catseg/geo/act"
	"github.com/rotblauer/catseg/types/activity"
	"github.com/rotblauer/catseg/types/track"
)

// Summary is the flat record of one segment, enough to list and
// re-classify segments without loading their points.
type Summary struct {
	Date       string            `json:"date"`
	TimeStart  string            `json:"time_start"`
	TimeStop   string            `json:"time_stop"`
	Activity   activity.Activity `json:"activity"`
	DistanceKm float64           `json:"distance_km"`
	DurationS  float64           `json:"duration_s"`
	SpeedKmh   float64           `json:"speed_kmh"`
	Count      int               `json:"count"`
	GainM      float64           `json:"gain_m"`
	LossM      float64           `json:"loss_m"`
	Name       string            `json:"name,omitempty"`
	Filename   string            `json:"filename"`
	MaxLat     float64           `json:"max_lat"`
	MinLat     float64           `json:"min_lat"`
	MaxLng     float64           `json:"max_lng"`
	MinLng     float64           `json:"min_lng"`
}

// Summaries flattens the segments of t.
func Summaries(t *track.Track) []Summary {
	out := make([]Summary, 0, len(t.Segments))
	for i, s := range t.Segments {
		start, end := t.Start(i), t.End(i)
		bound := t.SegmentPoints(i).LineString().Bound()
		out = append(out, Summary{
			Date:       start.Time.Format("2006-01-02"),
			TimeStart:  start.Time.Format("15:04:05"),
			TimeStop:   end.Time.Format("15:04:05"),
			Activity:   s.Activity,
			DistanceKm: common.DecimalToFixed(s.DistanceKm, 3),
			DurationS:  s.DurationS,
			SpeedKmh:   common.DecimalToFixed(s.SpeedKmh(), 2),
			Count:      s.Len(),
			GainM:      common.DecimalToFixed(s.GainM, 1),
			LossM:      common.DecimalToFixed(s.LossM, 1),
			Name:       s.StartName,
			Filename:   t.CSVFilename(i),
			MaxLat:     bound.Max.Lat(),
			MinLat:     bound.Min.Lat(),
			MaxLng:     bound.Max.Lon(),
			MinLng:     bound.Min.Lon(),
		})
	}
	return out
}

// Reguess re-runs the speed rules on stored summaries and returns a copy
// with every changed activity replaced, along with the indices that changed.
func Reguess(summaries []Summary, profiles *activity.Profiles) ([]Summary, []int) {
	out := make([]Summary, len(summaries))
	copy(out, summaries)
	var changed []int
	for i, sum := range out {
		guess, reason := act.Guess(profiles, sum.Activity, sum.SpeedKmh, sum.DistanceKm)
		if reason == "" || guess == sum.Activity {
			continue
		}
		out[i].Activity = guess
		changed = append(changed, i)
	}
	return out, changed
}
