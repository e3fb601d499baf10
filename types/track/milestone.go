package track

import (
	"time"

	"github.com/rotblauer/catseg/types/trackpoint"
)

// Milestone marks where the trace crosses a whole multiple of the milestone distance.
// SplitS is the time taken since the previous milestone, or since the first point.
type Milestone struct {
	Km     float64   `json:"km"`
	Lat    float64   `json:"lat"`
	Lng    float64   `json:"lng"`
	Time   time.Time `json:"time"`
	SplitS float64   `json:"split_s"`
}

// CalcMilestones places a milestone every everyKm along the compressed trace,
// or along Points if the track has not been compressed.
// Positions and times are interpolated linearly within the crossing hop.
func (t *Track) CalcMilestones(everyKm float64) []Milestone {
	points := t.Points
	if t.Compressed != nil && len(t.Compressed.Points) > 0 {
		points = t.Compressed.Points
	}
	return milestones(points, everyKm)
}

func milestones(points trackpoint.Trackpoints, everyKm float64) []Milestone {
	if everyKm <= 0 || len(points) < 2 {
		return nil
	}
	var out []Milestone
	acc := 0.0
	prevTime := points[0].Time
	for i := 1; i < len(points); i++ {
		last, tp := points[i-1], points[i]
		hop := last.DistanceKm(tp)
		if hop == 0 {
			continue
		}
		for tick := float64(int(acc/everyKm)+1) * everyKm; tick <= acc+hop; tick += everyKm {
			f := (tick - acc) / hop
			at := last.Time.Add(time.Duration(f * float64(tp.Time.Sub(last.Time))))
			out = append(out, Milestone{
				Km:     tick,
				Lat:    last.Lat + f*(tp.Lat-last.Lat),
				Lng:    last.Lng + f*(tp.Lng-last.Lng),
				Time:   at,
				SplitS: at.Sub(prevTime).Seconds(),
			})
			prevTime = at
		}
		acc += hop
	}
	return out
}
