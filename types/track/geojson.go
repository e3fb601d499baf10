package track

import (
	"time"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/catseg/common"
	"github.com/rotblauer/catseg/types/trackpoint"
)

// CellLevel is the s2 level of the cell token attached to segment features,
// roughly 1 km across.
const CellLevel = 13

// CellToken returns the s2 cell token containing tp at CellLevel.
func CellToken(tp trackpoint.Trackpoint) string {
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(tp.Lat, tp.Lng)).Parent(CellLevel).ToToken()
}

// FeatureCollection renders each segment as a LineString feature.
func (t *Track) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, s := range t.Segments {
		ls := make(orb.LineString, 0, s.Len())
		for _, tp := range t.SegmentPoints(i) {
			ls = append(ls, orb.Point{
				common.DecimalToFixed(tp.Lng, common.GPSPrecision6),
				common.DecimalToFixed(tp.Lat, common.GPSPrecision6),
			})
		}
		f := geojson.NewFeature(ls)
		f.Properties["Name"] = t.Name
		f.Properties["Index"] = i
		f.Properties["Activity"] = s.Activity.String()
		f.Properties["Label"] = t.Label(i)
		f.Properties["Time_Start_RFC3339"] = t.Start(i).Time.Format(time.RFC3339)
		f.Properties["Time_End_RFC3339"] = t.End(i).Time.Format(time.RFC3339)
		f.Properties["Distance_Km"] = common.DecimalToFixed(s.DistanceKm, 3)
		f.Properties["Duration"] = s.DurationS
		f.Properties["Speed_Kmh"] = common.DecimalToFixed(s.SpeedKmh(), 2)
		f.Properties["Elevation_Gain"] = common.DecimalToFixed(s.GainM, 1)
		f.Properties["Elevation_Loss"] = common.DecimalToFixed(s.LossM, 1)
		f.Properties["Break"] = t.BreakDuration(i)
		f.Properties["S2_Start"] = CellToken(t.Start(i))
		if s.StartName != "" {
			f.Properties["Start_Name"] = s.StartName
		}
		if s.EndName != "" {
			f.Properties["End_Name"] = s.EndName
		}
		fc.Append(f)
	}
	return fc
}
