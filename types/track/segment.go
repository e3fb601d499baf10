package track

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/rotblauer/catseg/common"
	"github.com/rotblauer/catseg/types/activity"
	"github.com/rotblauer/catseg/types/trackpoint"
)

// NoLink marks a missing previous or next segment.
const NoLink = -1

type ExtremumType string

const (
	Peak   ExtremumType = "peak"
	Bottom ExtremumType = "bottom"
)

// Extremum is an altitude reversal at Index of the owning track's points.
type Extremum struct {
	Type  ExtremumType `json:"type"`
	Index int          `json:"index"`
}

// Stats are descriptive statistics of a segment's hops and elevations.
type Stats struct {
	SpeedMeanKmh   float64 `json:"speed_mean_kmh"`
	SpeedMedianKmh float64 `json:"speed_median_kmh"`
	SpeedMaxKmh    float64 `json:"speed_max_kmh"`
	ElevationMin   float64 `json:"elevation_min"`
	ElevationMax   float64 `json:"elevation_max"`
}

// Segment is a contiguous stretch of movement of one activity.
// First and Last index the owning Track's Points; Prev and Next index its Segments.
type Segment struct {
	First    int               `json:"first"`
	Last     int               `json:"last"`
	Activity activity.Activity `json:"activity"`
	Reason   string            `json:"reason,omitempty"`

	DistanceKm float64 `json:"distance_km"`
	DurationS  float64 `json:"duration_s"`
	GainM      float64 `json:"gain_m"`
	LossM      float64 `json:"loss_m"`

	Extremes []Extremum `json:"extremes,omitempty"`

	Prev int `json:"prev"`
	Next int `json:"next"`

	StartName string `json:"start_name,omitempty"`
	EndName   string `json:"end_name,omitempty"`

	Stats Stats `json:"stats"`
}

// NewSegment builds a segment over points[first..last] with all stats
// computed from scratch. Bad indices are reported and yield a zero-stat segment.
func NewSegment(points []trackpoint.Trackpoint, first, last int, act activity.Activity, diags *common.Diagnostics) Segment {
	s := Segment{
		First:    first,
		Last:     last,
		Activity: act,
		Prev:     NoLink,
		Next:     NoLink,
	}
	if first < 0 || last >= len(points) || first > last {
		diags.Warn("Segment index out of range", "first", first, "last", last, "len", len(points))
		return s
	}
	s.DistanceKm = DistanceAlongPath(points, first, last, diags)
	s.DurationS = points[last].Seconds(points[first])

	elevations := make([]float64, 0, last-first+1)
	speeds := make([]float64, 0, last-first)
	for i := first; i <= last; i++ {
		elevations = append(elevations, points[i].Elevation)
		if i == first {
			continue
		}
		delta := points[i].Elevation - points[i-1].Elevation
		if delta > 0 {
			s.GainM += delta
		} else {
			s.LossM -= delta
		}
		if points[i].Seconds(points[i-1]) > 0 {
			speeds = append(speeds, points[i-1].SpeedKmh(points[i]))
		}
	}

	statsMustFloat := func(fn func() (float64, error), def float64) float64 {
		out, err := fn()
		if err != nil || math.IsNaN(out) {
			return def
		}
		return out
	}
	speedData, elevationData := stats.Float64Data(speeds), stats.Float64Data(elevations)
	s.Stats = Stats{
		SpeedMeanKmh:   common.DecimalToFixed(statsMustFloat(speedData.Mean, 0), 2),
		SpeedMedianKmh: common.DecimalToFixed(statsMustFloat(speedData.Median, 0), 2),
		SpeedMaxKmh:    common.DecimalToFixed(statsMustFloat(speedData.Max, 0), 2),
		ElevationMin:   common.DecimalToFixed(statsMustFloat(elevationData.Min, 0), 1),
		ElevationMax:   common.DecimalToFixed(statsMustFloat(elevationData.Max, 0), 1),
	}
	return s
}

// SpeedKmh is the average speed over the segment, zero if it has no duration.
func (s Segment) SpeedKmh() float64 {
	if s.DurationS == 0 {
		return 0
	}
	return s.DistanceKm * 3600 / s.DurationS
}

// Len is the number of points in the segment.
func (s Segment) Len() int {
	return s.Last - s.First + 1
}

// DistanceAlongPath sums the hop distances from points[from] to points[to], both included.
// An empty slice or out of range indices are reported and measure zero.
func DistanceAlongPath(points []trackpoint.Trackpoint, from, to int, diags *common.Diagnostics) float64 {
	if len(points) == 0 {
		diags.Warn("DistanceAlongPath on empty track")
		return 0
	}
	if from < 0 || to >= len(points) || from > to {
		diags.Warn("DistanceAlongPath index out of range", "from", from, "to", to, "len", len(points))
		return 0
	}
	d := 0.0
	for i := from + 1; i <= to; i++ {
		d += points[i-1].DistanceKm(points[i])
	}
	return d
}

// Link returns a copy of segments with Prev and Next set in slice order.
func Link(segments []Segment) []Segment {
	out := make([]Segment, len(segments))
	copy(out, segments)
	for i := range out {
		out[i].Prev, out[i].Next = NoLink, NoLink
		if i > 0 {
			out[i].Prev = i - 1
		}
		if i < len(out)-1 {
			out[i].Next = i + 1
		}
	}
	return out
}

// NetStats sums the distance and moving duration of segments.
func NetStats(segments []Segment) (distanceKm, durationS float64) {
	for _, s := range segments {
		distanceKm += s.DistanceKm
		durationS += s.DurationS
	}
	return
}
