package params

import (
	"time"

	"github.com/rotblauer/catseg/types/activity"
)

// DefaultActivity is assumed for tracks loaded without one,
// and its profile is used for unknown activities.
var DefaultActivity = activity.Run

func segmentation(p activity.Profile) activity.Profile {
	p.TimeWindow = 60 * time.Second
	p.WindowDistM = 20
	p.FinalHopM = 1
	p.MinimumBreak = 120 * time.Second
	return p
}

// DefaultProfiles returns a fresh copy of the built-in profile table.
func DefaultProfiles() *activity.Profiles {
	table := []activity.Profile{
		{ID: activity.Walk, MinSpeedKmh: 0, MaxSpeedKmh: 8, AltIfTooFast: activity.Run, SplitAtExtremes: true},
		{ID: activity.Hike, MinSpeedKmh: 0, MaxSpeedKmh: 10, AltIfTooFast: activity.Cycle, SplitAtExtremes: true},
		{ID: activity.Run, MinSpeedKmh: 4, AltIfTooSlow: activity.Walk, MaxSpeedKmh: 25, AltIfTooFast: activity.Cycle, SplitAtExtremes: true},
		{ID: activity.Cycle, MinSpeedKmh: 5, AltIfTooSlow: activity.Walk, MaxSpeedKmh: 60, AltIfTooFast: activity.Car, SplitAtExtremes: true},
		{ID: activity.MTB, MinSpeedKmh: 3, AltIfTooSlow: activity.Hike, MaxSpeedKmh: 50, AltIfTooFast: activity.Car, SplitAtExtremes: true},
		{ID: activity.Ski, MinSpeedKmh: 2, AltIfTooSlow: activity.Walk, MaxSpeedKmh: 40, AltIfTooFast: activity.Downhill, SplitAtExtremes: true},
		{ID: activity.SkiTour, MinSpeedKmh: 1, AltIfTooSlow: activity.Hike, MaxSpeedKmh: 60, AltIfTooFast: activity.Downhill, SplitAtExtremes: true},
		{ID: activity.Downhill, MaxSpeedKmh: 120, AltIfTooFast: activity.Car, SplitAtExtremes: true, LiftEligible: true},
		{ID: activity.Snowboard, MaxSpeedKmh: 100, AltIfTooFast: activity.Car, SplitAtExtremes: true, LiftEligible: true},
		{ID: activity.Lift, MaxSpeedKmh: 40, AltIfTooFast: activity.Car},
		{ID: activity.Paddle, MinSpeedKmh: 1, AltIfTooSlow: activity.Walk, MaxSpeedKmh: 15, AltIfTooFast: activity.Boat},
		{ID: activity.Boat, MaxSpeedKmh: 80, AltIfTooFast: activity.Car},
		{ID: activity.Car, MinSpeedKmh: 10, AltIfTooSlow: activity.Cycle},
		{ID: activity.Fly},
	}
	for i := range table {
		table[i] = segmentation(table[i])
	}
	return &activity.Profiles{
		Default: DefaultActivity,
		Table:   table,
	}
}
