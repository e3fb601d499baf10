package activity

import "time"

// Profile holds the per-activity thresholds for segmentation and classification.
// Zero speed bounds disable the corresponding rule.
type Profile struct {
	ID Activity `json:"id" mapstructure:"id"`

	// TimeWindow is the lookback over which net movement is measured.
	TimeWindow time.Duration `json:"time_window" mapstructure:"time_window"`
	// WindowDistM is the net movement, in meters, needed within TimeWindow to count as moving.
	WindowDistM float64 `json:"window_dist_m" mapstructure:"window_dist_m"`
	// FinalHopM is the single step, in meters, that pinpoints a start or stop within the window.
	FinalHopM float64 `json:"final_hop_m" mapstructure:"final_hop_m"`
	// MinimumBreak is the shortest rest that separates two segments.
	MinimumBreak time.Duration `json:"minimum_break" mapstructure:"minimum_break"`

	MinSpeedKmh  float64  `json:"min_speed_kmh" mapstructure:"min_speed_kmh"`
	AltIfTooSlow Activity `json:"alt_if_too_slow" mapstructure:"alt_if_too_slow"`
	MaxSpeedKmh  float64  `json:"max_speed_kmh" mapstructure:"max_speed_kmh"`
	AltIfTooFast Activity `json:"alt_if_too_fast" mapstructure:"alt_if_too_fast"`

	// SplitAtExtremes enables peak/bottom splitting of segments.
	SplitAtExtremes bool `json:"split_at_extremes" mapstructure:"split_at_extremes"`
	// LiftEligible marks activities where a net-climbing segment is really a lift ride.
	LiftEligible bool `json:"lift_eligible" mapstructure:"lift_eligible"`
}

// Profiles is the activity profile table with an explicit fallback.
// It is read-only while tracks are processed.
type Profiles struct {
	Default Activity  `json:"default" mapstructure:"default"`
	Table   []Profile `json:"table" mapstructure:"table"`
}

// Get returns the profile for id. Unknown ids resolve to the default
// profile, in which case ok is false so the caller can report the gap.
func (p *Profiles) Get(id Activity) (profile Profile, ok bool) {
	for _, pr := range p.Table {
		if pr.ID == id {
			return pr, true
		}
	}
	for _, pr := range p.Table {
		if pr.ID == p.Default {
			return pr, false
		}
	}
	return FallbackProfile(p.Default), false
}

// Has reports whether id has its own profile row.
func (p *Profiles) Has(id Activity) bool {
	for _, pr := range p.Table {
		if pr.ID == id {
			return true
		}
	}
	return false
}

// FallbackProfile is the profile used when the table has no row
// for either the requested or the default activity.
func FallbackProfile(id Activity) Profile {
	return Profile{
		ID:              id,
		TimeWindow:      60 * time.Second,
		WindowDistM:     20,
		FinalHopM:       1,
		MinimumBreak:    120 * time.Second,
		SplitAtExtremes: true,
	}
}
