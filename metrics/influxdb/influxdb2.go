package influxdb

import (
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/types/track"
)

const measurement = "segment"

// SegmentPoints returns one point per segment of t, stamped at the segment start.
func SegmentPoints(t *track.Track) []*write.Point {
	out := make([]*write.Point, 0, len(t.Segments))
	for i, s := range t.Segments {
		p := influxdb2.NewPointWithMeasurement(measurement).
			SetTime(t.Start(i).Time).
			AddTag("name", t.Name).
			AddTag("activity", s.Activity.String()).
			AddField("distance_km", s.DistanceKm).
			AddField("duration_s", s.DurationS).
			AddField("speed_kmh", s.SpeedKmh()).
			AddField("speed_max_kmh", s.Stats.SpeedMaxKmh).
			AddField("gain_m", s.GainM).
			AddField("loss_m", s.LossM).
			AddField("elevation_max", s.Stats.ElevationMax).
			AddField("points", s.Len()).
			// Add activity as a field, in addition to as tag, above.
			AddField("activity", s.Activity.String())
		if s.StartName != "" {
			p.AddTag("start", s.StartName)
		}
		if b := t.BreakDuration(i); b > 0 {
			p.AddField("break_s", b)
		}
		out = append(out, p)
	}
	return out
}

// ExportTrack posts the segments of t to an InfluxDB Write API.
// The last error encountered is returned.
func ExportTrack(config *params.InfluxConfig, t *track.Track) error {
	opts := influxdb2.DefaultOptions()
	opts.SetPrecision(time.Second)
	client := influxdb2.NewClientWithOptions(config.URL, config.Token, opts)
	writeAPI := client.WriteAPI(config.Org, config.Bucket)

	// Errors must be drained before any writes, or the writer blocks.
	errorsCh := writeAPI.Errors()
	var err error
	wait := sync.WaitGroup{}
	wait.Add(1)
	go func() {
		defer wait.Done()
		for e := range errorsCh {
			if e != nil {
				err = e
			}
		}
	}()

	for _, p := range SegmentPoints(t) {
		writeAPI.WritePoint(p)
	}
	writeAPI.Flush()
	client.Close()
	wait.Wait()
	return err
}
