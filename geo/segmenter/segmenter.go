package segmenter

import (
	"github.com/rotblauer/catseg/common"
	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/types/activity"
	"github.com/rotblauer/catseg/types/track"
	"github.com/rotblauer/catseg/types/trackpoint"
)

type State int

const (
	BeforeFirstStart State = iota
	MovementHappens
	BreakTime
)

func (s State) String() string {
	switch s {
	case BeforeFirstStart:
		return "before first start"
	case MovementHappens:
		return "movement"
	case BreakTime:
		return "break"
	}
	return "unknown"
}

// entry is a point in the rolling window.
type entry struct {
	seconds float64 // since the first point
	km      float64 // cumulative path distance
	index   int
}

// span is a raw segment before it gets stats.
type span struct {
	first, last int
}

// Detector partitions a cleaned trace into movement segments.
// It is a state machine over a rolling window of recent points:
// movement starts once the window covers more than WindowDistM,
// and stops once it covers less.
// A Detector is not safe for concurrent use; make one per track.
type Detector struct {
	Profile activity.Profile
	Config  *params.SegmenterConfig

	State State

	// MotionStateReason describes the last state transition.
	MotionStateReason string

	points    []trackpoint.Trackpoint
	window    []entry
	cumKm     float64
	start     int // first index of the open segment
	breakFrom int // last index of the previous segment
	spans     []span
	diags     *common.Diagnostics
}

func NewDetector(profile activity.Profile, config *params.SegmenterConfig, diags *common.Diagnostics) *Detector {
	d := &Detector{
		Profile: profile,
		Config:  config,
		diags:   diags,
	}
	d.ResetState()
	return d
}

func (d *Detector) ResetState() {
	d.State = BeforeFirstStart
	d.MotionStateReason = "init"
	d.points = nil
	d.window = []entry{}
	d.cumKm = 0
	d.start = 0
	d.breakFrom = -1
	d.spans = nil
}

func (d *Detector) windowSeconds() float64 {
	return d.Profile.TimeWindow.Seconds()
}

func (d *Detector) windowKm() float64 {
	return d.Profile.WindowDistM / 1000
}

func (d *Detector) hopKm() float64 {
	return d.Profile.FinalHopM / 1000
}

// resetWindow restarts the window at its newest entry, the point that caused
// the transition. The next decision therefore comes one fix sooner than if
// the window were emptied.
func (d *Detector) resetWindow() {
	d.window = d.window[len(d.window)-1:]
}

// push adds points[i] to the window, trimming the front so that at most
// one entry lies beyond the window length.
func (d *Detector) push(i int) {
	if i > 0 {
		d.cumKm += d.points[i-1].DistanceKm(d.points[i])
	}
	e := entry{
		seconds: d.points[i].Seconds(d.points[0]),
		km:      d.cumKm,
		index:   i,
	}
	d.window = append(d.window, e)
	for len(d.window) >= 2 && e.seconds-d.window[1].seconds > d.windowSeconds() {
		d.window = d.window[1:]
	}
}

// forwardScan returns the index arrived at by the first hop in the window
// longer than FinalHopM, or the newest index if there is none.
func (d *Detector) forwardScan() int {
	for i := 1; i < len(d.window); i++ {
		if d.window[i].km-d.window[i-1].km > d.hopKm() {
			return d.window[i].index
		}
	}
	return d.window[len(d.window)-1].index
}

// backwardScan returns the index departed from by the last hop in the window
// longer than FinalHopM, or the oldest index if there is none.
func (d *Detector) backwardScan() int {
	for i := len(d.window) - 1; i >= 1; i-- {
		if d.window[i].km-d.window[i-1].km > d.hopKm() {
			return d.window[i-1].index
		}
	}
	return d.window[0].index
}

// AddPoint advances the state machine with points[i].
// Points must be added in order, starting at 0.
func (d *Detector) AddPoint(i int) {
	d.push(i)

	first, last := d.window[0], d.window[len(d.window)-1]
	if last.seconds-first.seconds < d.windowSeconds() {
		return
	}
	netKm := last.km - first.km

	switch d.State {
	case BeforeFirstStart:
		if netKm > d.windowKm() {
			d.startMovement("window distance exceeded")
		}
	case MovementHappens:
		if netKm < d.windowKm() {
			end := d.backwardScan()
			if end < d.start {
				end = d.start
			}
			d.spans = append(d.spans, span{d.start, end})
			d.breakFrom = end
			d.State = BreakTime
			d.MotionStateReason = "window distance below threshold"
			d.resetWindow()
		}
	case BreakTime:
		if d.points[i].DistanceKm(d.points[d.breakFrom]) > d.windowKm() {
			d.startMovement("left break point")
		}
	}
}

func (d *Detector) startMovement(reason string) {
	d.start = d.forwardScan()
	if d.start <= d.breakFrom {
		d.start = d.breakFrom + 1
	}
	d.State = MovementHappens
	d.MotionStateReason = reason
	d.resetWindow()
}

// finish closes an open segment at the last point and returns the raw spans.
func (d *Detector) finish() []span {
	if d.State == MovementHappens && len(d.points) > 0 {
		d.spans = append(d.spans, span{d.start, len(d.points) - 1})
		d.State = BreakTime
		d.MotionStateReason = "end of input"
	}
	return d.spans
}

// Detect runs the state machine over points and returns the linked segments,
// labeled with act. Short breaks are merged and noise segments dropped.
func (d *Detector) Detect(points []trackpoint.Trackpoint, act activity.Activity) []track.Segment {
	d.ResetState()
	if len(points) == 0 {
		d.diags.Warn("No points to segment")
		return nil
	}
	d.points = points
	for i := range points {
		d.AddPoint(i)
	}
	spans := mergeShortBreaks(points, d.finish(), d.Profile.MinimumBreak.Seconds())

	segments := make([]track.Segment, 0, len(spans))
	for _, sp := range spans {
		s := track.NewSegment(points, sp.first, sp.last, act, d.diags)
		if s.DurationS < d.windowSeconds() || s.DistanceKm < d.Config.MinSegmentDistanceKm {
			continue
		}
		s.Reason = "detected"
		segments = append(segments, s)
	}
	if len(segments) == 0 {
		d.diags.Warn("No segments found", "points", len(points), "activity", act)
	}
	return track.Link(segments)
}

func mergeShortBreaks(points []trackpoint.Trackpoint, spans []span, minBreakS float64) []span {
	if len(spans) == 0 {
		return nil
	}
	out := []span{spans[0]}
	for _, sp := range spans[1:] {
		prev := &out[len(out)-1]
		if points[sp.first].Seconds(points[prev.last]) < minBreakS {
			prev.last = sp.last
			continue
		}
		out = append(out, sp)
	}
	return out
}
