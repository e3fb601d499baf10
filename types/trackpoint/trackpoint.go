package trackpoint

import (
	"encoding/json"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/rotblauer/catseg/common"
)

// Trackpoint is one GPS fix. It is a value type; nothing in the pipeline
// mutates a Trackpoint once it has been decoded.
type Trackpoint struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"long"`
	Elevation float64   `json:"elevation"` // in meters
	Time      time.Time `json:"time"`
}

// UnmarshalJSON is a custom unmarshaler for Trackpoint.
// It accepts "lng" and "lon" for the longitude and "alt" for the elevation,
// and asserts that the Time field is a valid RFC3339 time.
func (tp *Trackpoint) UnmarshalJSON(data []byte) error {
	type Alias Trackpoint
	aux := &struct {
		Time string   `json:"time"`
		Lng  *float64 `json:"lng"`
		Lon  *float64 `json:"lon"`
		Alt  *float64 `json:"alt"`
		*Alias
	}{
		Alias: (*Alias)(tp),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Lng != nil {
		tp.Lng = *aux.Lng
	} else if aux.Lon != nil {
		tp.Lng = *aux.Lon
	}
	if aux.Alt != nil {
		tp.Elevation = *aux.Alt
	}
	var err error
	tp.Time, err = time.Parse(time.RFC3339, aux.Time)
	if err != nil {
		return err
	}
	return nil
}

// Point returns the fix as an orb.Point (x=lng, y=lat).
func (tp Trackpoint) Point() orb.Point {
	return orb.Point{tp.Lng, tp.Lat}
}

// DistanceKm returns the haversine distance to other in kilometers.
func (tp Trackpoint) DistanceKm(other Trackpoint) float64 {
	return common.HaversineKm(tp.Lat, tp.Lng, other.Lat, other.Lng)
}

// Seconds returns the absolute elapsed time to other in seconds.
func (tp Trackpoint) Seconds(other Trackpoint) float64 {
	return math.Abs(other.Time.Sub(tp.Time).Seconds())
}

// SpeedKmh returns the speed needed to travel from tp to other.
// It is zero when no time has elapsed.
func (tp Trackpoint) SpeedKmh(other Trackpoint) float64 {
	s := tp.Seconds(other)
	if s == 0 {
		return 0
	}
	return tp.DistanceKm(other) * 3600 / s
}

// IsSameLatLng reports whether the two fixes share a position.
// Elevation is ignored; a stationary logger still reports altitude noise.
func (tp Trackpoint) IsSameLatLng(other Trackpoint) bool {
	return tp.Lat == other.Lat && tp.Lng == other.Lng
}

type Trackpoints []Trackpoint

// LineString returns the positions as an orb.LineString.
func (tps Trackpoints) LineString() orb.LineString {
	ls := make(orb.LineString, 0, len(tps))
	for _, tp := range tps {
		ls = append(ls, tp.Point())
	}
	return ls
}
