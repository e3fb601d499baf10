package params

import "time"

type SegmenterConfig struct {
	// MinSegmentDistanceKm is the floor below which a detected segment is noise.
	MinSegmentDistanceKm float64 `mapstructure:"min_segment_distance_km"`
}

var DefaultSegmenterConfig = &SegmenterConfig{
	MinSegmentDistanceKm: 0.1,
}

type ExtremumConfig struct {
	// MinRun is how long a climb or descent must last before its reversal
	// counts as a peak or bottom.
	MinRun time.Duration `mapstructure:"min_run"`
}

var DefaultExtremumConfig = &ExtremumConfig{
	MinRun: 60 * time.Second,
}

type CompressionConfig struct {
	// ToleranceRatio scales the net track distance into the per-segment tolerance.
	ToleranceRatio float64 `mapstructure:"tolerance_ratio"`
	// LiftToleranceKm is used for lift segments, which are straight anyway.
	LiftToleranceKm float64 `mapstructure:"lift_tolerance_km"`
	// ZipToleranceKm is the fixed tolerance of the overview track.
	ZipToleranceKm float64 `mapstructure:"zip_tolerance_km"`
}

var DefaultCompressionConfig = &CompressionConfig{
	ToleranceRatio:  0.00001,
	LiftToleranceKm: 0.02,
	ZipToleranceKm:  0.05,
}
