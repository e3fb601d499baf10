package common

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// EarthRadiusKm is the sphere radius used for all distance math.
// It is a little smaller than the mean radius (6371 km);
// distances computed here will be consistently short by ~0.06%.
const EarthRadiusKm = 6367.0

// HaversineKm returns the great-circle distance in kilometers between two
// points given as decimal degrees, on a sphere of EarthRadiusKm.
// orb measures on orb.EarthRadius, so its result is rescaled.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	m := geo.DistanceHaversine(orb.Point{lng1, lat1}, orb.Point{lng2, lat2})
	return m / orb.EarthRadius * EarthRadiusKm
}

// ValidLatLng returns true if the coordinates are within bounds
// and not the (0,0) null island fix loggers like to emit.
func ValidLatLng(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	if lat == 0 && lng == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
