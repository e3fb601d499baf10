/*
Package act improves segment activities using their speed and distance,
then applies the forced overrides a cat has declared.
*/

package act

import (
	"fmt"
	"log/slog"

	"github.com/rotblauer/catseg/common"
	"github.com/rotblauer/catseg/types/activity"
	"github.com/rotblauer/catseg/types/track"
	"github.com/rotblauer/catseg/types/trackpoint"
)

// Guess returns the activity a segment of act moving at speedKmh over distanceKm
// most likely was, and why. It is a pure function of its inputs and the table.
// When no rule applies the activity is returned unchanged with an empty reason.
func Guess(profiles *activity.Profiles, act activity.Activity, speedKmh, distanceKm float64) (activity.Activity, string) {
	if speedKmh > common.SpeedOfFlyingMinKmh {
		return activity.Fly, fmt.Sprintf("speed %.1f km/h > %.0f", speedKmh, common.SpeedOfFlyingMinKmh)
	}
	if speedKmh > common.SpeedOfDrivingMinKmh {
		return activity.Car, fmt.Sprintf("speed %.1f km/h > %.0f", speedKmh, common.SpeedOfDrivingMinKmh)
	}
	if speedKmh > common.SpeedOfDrivingLongKmh && distanceKm > common.DistanceOfDrivingLongKm {
		return activity.Car, fmt.Sprintf("speed %.1f km/h > %.0f over %.1f km",
			speedKmh, common.SpeedOfDrivingLongKmh, distanceKm)
	}

	profile, _ := profiles.Get(act)
	var sub activity.Activity
	var reason string
	switch {
	case profile.AltIfTooSlow != activity.Unknown && speedKmh < profile.MinSpeedKmh:
		sub = profile.AltIfTooSlow
		reason = fmt.Sprintf("speed %.1f km/h < %s min %.1f", speedKmh, act, profile.MinSpeedKmh)
	case profile.AltIfTooFast != activity.Unknown && profile.MaxSpeedKmh > 0 &&
		speedKmh > profile.MaxSpeedKmh && distanceKm > common.DistanceOfTooFastKm:
		sub = profile.AltIfTooFast
		reason = fmt.Sprintf("speed %.1f km/h > %s max %.1f", speedKmh, act, profile.MaxSpeedKmh)
	default:
		return act, ""
	}
	if sub == activity.Cycle && speedKmh > common.SpeedOfCyclingMaxKmh {
		return activity.Car, reason + ", too fast to cycle"
	}
	return sub, reason
}

// Classifier assigns activities to detected segments.
// The profile and override tables are only read.
type Classifier struct {
	Profiles  *activity.Profiles
	Overrides activity.Overrides
	diags     *common.Diagnostics
}

// NewClassifier reports malformed override rows up front; they never match.
func NewClassifier(profiles *activity.Profiles, overrides activity.Overrides, diags *common.Diagnostics) *Classifier {
	for _, err := range overrides.Invalid() {
		diags.Warn("Invalid activity override", "error", err)
	}
	return &Classifier{Profiles: profiles, Overrides: overrides, diags: diags}
}

// Classify returns copies of segments with heuristic activities,
// overridden by the first matching override row.
func (c *Classifier) Classify(points []trackpoint.Trackpoint, segments []track.Segment) []track.Segment {
	out := make([]track.Segment, len(segments))
	for i, s := range segments {
		if !c.Profiles.Has(s.Activity) {
			c.diags.Warn("Unknown activity, using default profile",
				"activity", s.Activity, "default", c.Profiles.Default)
		}
		if a, reason := Guess(c.Profiles, s.Activity, s.SpeedKmh(), s.DistanceKm); reason != "" && a != s.Activity {
			slog.Debug("Reclassified segment", "index", i, "from", s.Activity, "to", a, "reason", reason)
			s.Activity, s.Reason = a, reason
		}
		if o, ok := c.Overrides.Match(points[s.First].Time, points[s.Last].Time); ok {
			s.Activity, s.Reason = o.Activity, "override "+o.String()
		}
		out[i] = s
	}
	return out
}
