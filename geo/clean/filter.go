package clean

import (
	"github.com/rotblauer/catseg/common"
	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/types/trackpoint"
)

// Filter is a predicate over a fix and the last fix kept before it.
// It returns an empty reason to keep the fix.
type Filter func(last *trackpoint.Trackpoint, tp trackpoint.Trackpoint) (reason string)

// FilterInvalidPosition rejects out of bounds and null island coordinates.
func FilterInvalidPosition(_ *trackpoint.Trackpoint, tp trackpoint.Trackpoint) string {
	if !common.ValidLatLng(tp.Lat, tp.Lng) {
		return "invalid position"
	}
	return ""
}

// FilterMissingTime rejects fixes without a timestamp.
func FilterMissingTime(_ *trackpoint.Trackpoint, tp trackpoint.Trackpoint) string {
	if tp.Time.IsZero() {
		return "missing time"
	}
	return ""
}

// FilterWildElevation rejects fixes with unreasonable elevations.
func FilterWildElevation(config *params.CleanConfig) Filter {
	return func(_ *trackpoint.Trackpoint, tp trackpoint.Trackpoint) string {
		if tp.Elevation < config.ElevationMin || tp.Elevation > config.ElevationMax {
			return "wild elevation"
		}
		return ""
	}
}

// FilterChronology rejects fixes older than the last kept fix.
func FilterChronology(last *trackpoint.Trackpoint, tp trackpoint.Trackpoint) string {
	if last != nil && tp.Time.Before(last.Time) {
		return "out of order"
	}
	return ""
}

// FilterTeleportation rejects fixes reached impossibly fast from the last kept fix.
// Long gaps are signal loss, not teleportation.
func FilterTeleportation(config *params.CleanConfig) Filter {
	return func(last *trackpoint.Trackpoint, tp trackpoint.Trackpoint) string {
		if last == nil {
			return ""
		}
		interval := tp.Time.Sub(last.Time)
		if interval <= 0 || interval > config.TeleportWindow {
			return ""
		}
		if last.SpeedKmh(tp) > config.TeleportSpeedKmh {
			return "teleportation"
		}
		return ""
	}
}

// DefaultFilters are the filters FilterValid is usually run with, in order.
func DefaultFilters(config *params.CleanConfig) []Filter {
	return []Filter{
		FilterInvalidPosition,
		FilterMissingTime,
		FilterWildElevation(config),
		FilterChronology,
		FilterTeleportation(config),
	}
}

// FilterValid returns the fixes passing every filter.
// Each rejected fix is reported to diags.
func FilterValid(points []trackpoint.Trackpoint, filters []Filter, diags *common.Diagnostics) []trackpoint.Trackpoint {
	out := make([]trackpoint.Trackpoint, 0, len(points))
	var last *trackpoint.Trackpoint
outer:
	for i, tp := range points {
		for _, f := range filters {
			if reason := f(last, tp); reason != "" {
				diags.Warn("Dropped trackpoint", "index", i, "reason", reason, "time", tp.Time)
				continue outer
			}
		}
		out = append(out, tp)
		last = &out[len(out)-1]
	}
	return out
}
