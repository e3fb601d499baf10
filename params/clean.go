package params

import "time"

type CleanConfig struct {
	// ElevationMin and ElevationMax bound believable elevations, in meters.
	// Fixes outside are dropped as wild.
	ElevationMin float64 `mapstructure:"elevation_min"`
	ElevationMax float64 `mapstructure:"elevation_max"`

	// TeleportSpeedKmh is the speed between consecutive fixes above which
	// the later fix is a teleportation, not travel.
	TeleportSpeedKmh float64 `mapstructure:"teleport_speed_kmh"`

	// Teleportations must happen within this window of time.
	// Otherwise, it'll be considered signal loss instead.
	TeleportWindow time.Duration `mapstructure:"teleport_window"`
}

var DefaultCleanConfig = &CleanConfig{
	ElevationMin:     -530,  // Dead Sea, and some
	ElevationMax:     12800, // Commercial flight cruising * 1.2
	TeleportSpeedKmh: 1200,
	TeleportWindow:   60 * time.Second,
}
