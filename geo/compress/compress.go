// Package compress reduces tracks to fewer points while keeping their shape.
//
// Simplification follows Douglas-Peucker, measuring deviation as the detour
// a point adds to the straight path between the section endpoints.
// The farthest point is located with a ternary search over the section
// rather than a full scan. This is only exact when the detour is unimodal
// along the section; on other shapes a point of larger detour can be missed.
// Rendered output depends on the points chosen here, so the search stays.
//
// Consequently two properties hold only for sections whose detour is
// unimodal: compressing a compressed section again keeps every point, and
// every kept interior point lies more than the tolerance off the path
// between its kept neighbours. On multimodal sections a second pass can
// drop more points.
package compress

import (
	"slices"

	"github.com/rotblauer/catseg/common"
	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/types/activity"
	"github.com/rotblauer/catseg/types/track"
	"github.com/rotblauer/catseg/types/trackpoint"
)

// farthest returns the interior index of points[i1..i2] adding the most detour
// to the straight path from i1 to i2, and that detoured distance.
func farthest(points []trackpoint.Trackpoint, i1, i2 int) (index int, detourKm float64) {
	p1, p2 := points[i1], points[i2]
	g1, g2 := i1, i2
	var a, b int
	var da, db float64
	aBetter := false
	for {
		third := (g2 - g1 + 1) / 3
		a, b = g1+third, g2-third
		da = p1.DistanceKm(points[a]) + points[a].DistanceKm(p2)
		db = p1.DistanceKm(points[b]) + points[b].DistanceKm(p2)
		aBetter = da > db
		if aBetter {
			g2 = b
		} else {
			g1 = a
		}
		if g2-g1 <= 1 {
			break
		}
	}
	if aBetter {
		return a, da
	}
	return b, db
}

func section(points []trackpoint.Trackpoint, i1, i2 int, tolKm float64, keep []int) []int {
	straight := points[i1].DistanceKm(points[i2])
	i, detour := farthest(points, i1, i2)
	if detour-straight > tolKm {
		keep = append(keep, i)
		keep = section(points, i1, i, tolKm, keep)
		keep = section(points, i, i2, tolKm, keep)
	}
	return keep
}

// Section returns the sorted indices of points[i1..i2] kept at a tolerance of
// tolKm. The endpoints are always kept.
func Section(points []trackpoint.Trackpoint, i1, i2 int, tolKm float64) []int {
	if i1 == i2 {
		return []int{i1}
	}
	keep := section(points, i1, i2, tolKm, []int{i1, i2})
	slices.Sort(keep)
	return keep
}

// compressTrack builds a new track from the kept points of every segment.
// Segments keep their activity, names, and order; stats are recomputed.
func compressTrack(t *track.Track, tolerance func(track.Segment) float64, diags *common.Diagnostics) *track.Track {
	out := &track.Track{
		Name:     t.Name,
		Activity: t.Activity,
		Points:   make(trackpoint.Trackpoints, 0, len(t.Points)/4),
		Segments: make([]track.Segment, 0, len(t.Segments)),
	}
	for _, s := range t.Segments {
		if s.First < 0 || s.Last >= len(t.Points) || s.First > s.Last {
			diags.Warn("Compress skipped segment out of range", "first", s.First, "last", s.Last, "len", len(t.Points))
			continue
		}
		first := len(out.Points)
		for _, i := range Section(t.Points, s.First, s.Last, tolerance(s)) {
			out.Points = append(out.Points, t.Points[i])
		}
		c := track.NewSegment(out.Points, first, len(out.Points)-1, s.Activity, diags)
		c.Reason = s.Reason
		c.StartName, c.EndName = s.StartName, s.EndName
		out.Segments = append(out.Segments, c)
	}
	out.Segments = track.Link(out.Segments)
	out.NetDistanceKm, out.NetDurationS = track.NetStats(out.Segments)
	return out
}

// Track returns the compressed derivative of t. The tolerance is the track's
// net distance scaled by ToleranceRatio, or LiftToleranceKm for lifts.
func Track(t *track.Track, config *params.CompressionConfig, diags *common.Diagnostics) *track.Track {
	tol := t.NetDistanceKm * config.ToleranceRatio
	return compressTrack(t, func(s track.Segment) float64 {
		if s.Activity == activity.Lift {
			return config.LiftToleranceKm
		}
		return tol
	}, diags)
}

// Zip returns an overview derivative of t at the fixed ZipToleranceKm.
// It is meant to be applied to an already compressed track.
func Zip(t *track.Track, config *params.CompressionConfig, diags *common.Diagnostics) *track.Track {
	return compressTrack(t, func(track.Segment) float64 {
		return config.ZipToleranceKm
	}, diags)
}
