package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/catseg/types/trackpoint"
	"github.com/tidwall/gjson"
	"github.com/tkrajina/gpxgo/gpx"
)

var ErrNoTrackpoints = errors.New("no trackpoints")

var errFeatureTime = errors.New("feature has no time property")

// ScanJSONMessages reads a stream of JSON messages from an io.Reader,
// and calls onEach for each decoded message.
// If the stream is encoded as a JSON array, onEach is called for each element.
// A GeoJSON FeatureCollection is a single object, and will be treated as such;
// use DecodeJSONObject to handle the 'features' within.
func ScanJSONMessages(body io.Reader, onEach func(message json.RawMessage) error) error {
	buf := bufio.NewReader(body)
	peek, err := peekNonSpace(buf)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(buf)
	if peek == '[' {
		if _, err := dec.Token(); err != nil {
			return err
		}
	}
	for dec.More() {
		var msg json.RawMessage
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("decode err: %T %w", err, err)
		}
		if err := onEach(msg); err != nil {
			return err
		}
	}
	return nil
}

func peekNonSpace(buf *bufio.Reader) (byte, error) {
	for {
		b, err := buf.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = buf.ReadByte()
			continue
		}
		return b[0], nil
	}
}

// DecodeJSONObject decodes one JSON message into trackpoints.
// The message may be a bare trackpoint, a GeoJSON Point or LineString feature,
// or a FeatureCollection of those. Arrays are refused.
func DecodeJSONObject(msg json.RawMessage, onEach func(tp trackpoint.Trackpoint) error) error {
	parsed := gjson.ParseBytes(msg)
	if parsed.IsArray() {
		return errors.New("unexpected array, want track object")
	}

	// Only GeoJSON objects have a 'type' attribute.
	pType := parsed.Get("type")
	if !pType.Exists() {
		tp := trackpoint.Trackpoint{}
		if err := json.Unmarshal(msg, &tp); err != nil {
			return err
		}
		return onEach(tp)
	}

	switch pType.String() {
	case "FeatureCollection":
		feats := parsed.Get("features")
		if !feats.Exists() {
			return errors.New("no 'features' attribute present in feature collection")
		}
		for _, f := range feats.Array() {
			if err := DecodeJSONObject([]byte(f.Raw), onEach); err != nil {
				return err
			}
		}
		return nil
	case "Feature":
		return decodeFeature(msg, parsed, onEach)
	}
	return fmt.Errorf("unsupported geojson type %q", pType.String())
}

func featureTime(res gjson.Result) (time.Time, error) {
	for _, key := range []string{"Time", "time", "UnixTime"} {
		v := res.Get(key)
		if !v.Exists() {
			continue
		}
		if v.Type == gjson.Number {
			return time.Unix(v.Int(), 0).UTC(), nil
		}
		return time.Parse(time.RFC3339, v.String())
	}
	return time.Time{}, errFeatureTime
}

func featureElevation(props gjson.Result) float64 {
	for _, key := range []string{"Elevation", "elevation", "ele", "alt"} {
		if v := props.Get(key); v.Exists() {
			return v.Float()
		}
	}
	return 0
}

// decodeFeature handles Point features, which carry time and elevation in
// their properties, and LineString features, which carry per-coordinate times
// in a 'coordTimes' or 'times' property array and elevation as the third coordinate.
func decodeFeature(msg json.RawMessage, parsed gjson.Result, onEach func(tp trackpoint.Trackpoint) error) error {
	f, err := geojson.UnmarshalFeature(msg)
	if err != nil {
		return err
	}
	props := parsed.Get("properties")
	coords := parsed.Get("geometry.coordinates")

	switch g := f.Geometry.(type) {
	case orb.Point:
		t, err := featureTime(props)
		if err != nil {
			return err
		}
		tp := trackpoint.Trackpoint{Lat: g.Lat(), Lng: g.Lon(), Elevation: featureElevation(props), Time: t}
		if alt := coords.Get("2"); alt.Exists() {
			tp.Elevation = alt.Float()
		}
		return onEach(tp)
	case orb.LineString:
		times := props.Get("coordTimes")
		if !times.Exists() {
			times = props.Get("times")
		}
		ts := times.Array()
		if len(ts) != len(g) {
			return fmt.Errorf("linestring has %d coordinates and %d times", len(g), len(ts))
		}
		cs := coords.Array()
		for i, p := range g {
			t, err := time.Parse(time.RFC3339, ts[i].String())
			if err != nil {
				return err
			}
			tp := trackpoint.Trackpoint{Lat: p.Lat(), Lng: p.Lon(), Time: t}
			if alt := cs[i].Get("2"); alt.Exists() {
				tp.Elevation = alt.Float()
			}
			if err := onEach(tp); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unsupported geometry %s", f.Geometry.GeoJSONType())
}

// DecodeJSON decodes trackpoints from NDJSON, a JSON array, or GeoJSON.
func DecodeJSON(r io.Reader) (trackpoint.Trackpoints, error) {
	out := trackpoint.Trackpoints{}
	err := ScanJSONMessages(r, func(msg json.RawMessage) error {
		return DecodeJSONObject(msg, func(tp trackpoint.Trackpoint) error {
			out = append(out, tp)
			return nil
		})
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoTrackpoints
	}
	return out, nil
}

// DecodeGPX decodes the track points of every track and segment in a GPX document.
func DecodeGPX(data []byte) (trackpoint.Trackpoints, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	out := trackpoint.Trackpoints{}
	for _, trk := range g.Tracks {
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				tp := trackpoint.Trackpoint{Lat: p.Latitude, Lng: p.Longitude, Time: p.Timestamp}
				if p.Elevation.NotNull() {
					tp.Elevation = p.Elevation.Value()
				}
				out = append(out, tp)
			}
		}
	}
	if len(out) == 0 {
		return nil, ErrNoTrackpoints
	}
	return out, nil
}

// Decode sniffs the content and decodes it as GPX or JSON.
func Decode(r io.Reader) (trackpoint.Trackpoints, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '<' {
		return DecodeGPX(trimmed)
	}
	return DecodeJSON(bytes.NewReader(data))
}
