package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotblauer/catseg/catz"
	"github.com/rotblauer/catseg/types/trackpoint"
)

type decodeTestCase struct {
	name                 string
	input                []byte
	expectScanMessages   int
	expectDecodeMessages int
}

var gf1 = `{"type":"Feature","properties":{"UUID":"76170e959f967f40","Name":"ranga-moto-act3","Time":"2024-12-20T22:19:53.713Z","UnixTime":1734733193,"Speed":0.18,"Elevation":1258.4,"Heading":270,"Accuracy":4.1,"Activity":"Stationary","Pressure":null},"geometry":{"type":"Point","coordinates":[-113.4733911,47.178916]},"bbox":[-113.4733911,47.178916,-113.4733911,47.178916]}`
var gf2 = `{"type":"Feature","properties":{"UUID":"76170e959f967f40","Name":"ranga-moto-act3","Time":"2024-12-20T22:19:54.713Z","UnixTime":1734733194,"Speed":0.18,"Elevation":1258.4,"Heading":270,"Accuracy":4,"Activity":"Stationary","Pressure":null},"geometry":{"type":"Point","coordinates":[-113.473419,47.1788913]},"bbox":[-113.473419,47.1788913,-113.473419,47.1788913]}`
var tp1 = `{"heading":-1,"speed":-1,"uuid":"5D37B5DA","long":-93.255531311035156,"time":"2024-12-20T22:09:01.458Z","elevation":322.59848022460938,"lat":44.988998413085938,"accuracy":3.8,"name":"Rye16"}`
var tp2 = `{"heading":-1,"speed":-1,"uuid":"5D37B5DA","long":-93.255531311035156,"time":"2024-12-20T22:09:06.964Z","elevation":322.59832763671875,"lat":44.988998413085938,"accuracy":3.79,"name":"Rye16"}`
var ls1 = `{"type":"Feature","properties":{"name":"ride","coordTimes":["2024-02-10T10:00:00Z","2024-02-10T10:00:10Z","2024-02-10T10:00:20Z"]},"geometry":{"type":"LineString","coordinates":[[8.1,46.1,500],[8.101,46.1,505],[8.102,46.1,510]]}}`

var decodeTestCases = []decodeTestCase{
	{"featsNDJSON", []byte(fmt.Sprintf("%s\n%s\n", gf1, gf2)), 2, 2},
	{"featsArrayCompact", []byte(fmt.Sprintf("[%s,%s]", gf1, gf2)), 2, 2},
	{"featsArrayIndented", []byte(fmt.Sprintf("[\n\t%s,\n\t%s\n]\n", gf1, gf2)), 2, 2},
	{"trackpointsNDJSON", []byte(fmt.Sprintf("%s\n%s\n", tp1, tp2)), 2, 2},
	{"trackpointsJSONIndented", []byte(fmt.Sprintf("  [\n\t%s,\n\t%s\n]\n", tp1, tp2)), 2, 2},
	{"featureCollection", []byte(fmt.Sprintf(`{"type":"FeatureCollection","features":[%s,%s]}`, gf1, gf2)), 1, 2},
	{"lineString", []byte(ls1), 1, 3},
	{"mixedNDJSON", []byte(fmt.Sprintf("%s\n%s\n%s\n", tp1, gf1, ls1)), 3, 5},
}

func TestDecodeJSON(t *testing.T) {
	for _, c := range decodeTestCases {
		t.Run(c.name, func(t *testing.T) {
			messages := 0
			decoded := 0
			err := ScanJSONMessages(bytes.NewReader(c.input), func(msg json.RawMessage) error {
				messages++
				return DecodeJSONObject(msg, func(tp trackpoint.Trackpoint) error {
					if tp.Time.IsZero() {
						t.Errorf("zero time in %s", msg)
					}
					decoded++
					return nil
				})
			})
			if err != nil {
				t.Fatal(err)
			}
			if messages != c.expectScanMessages {
				t.Errorf("messages: have %d want %d", messages, c.expectScanMessages)
			}
			if decoded != c.expectDecodeMessages {
				t.Errorf("decoded: have %d want %d", decoded, c.expectDecodeMessages)
			}
		})
	}
}

func TestDecodeJSON_Values(t *testing.T) {
	points, err := DecodeJSON(bytes.NewReader([]byte(gf1 + "\n" + ls1)))
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 4 {
		t.Fatalf("have %d want 4", len(points))
	}
	if p := points[0]; p.Lat != 47.178916 || p.Lng != -113.4733911 || p.Elevation != 1258.4 {
		t.Errorf("have %+v", p)
	}
	if p := points[3]; p.Lng != 8.102 || p.Elevation != 510 || !p.Time.Equal(time.Date(2024, 2, 10, 10, 0, 20, 0, time.UTC)) {
		t.Errorf("have %+v", p)
	}
}

func TestDecodeJSON_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"blank":         " \n",
		"emptyArray":    "[]",
		"badTime":       `{"lat":1,"long":2,"time":"soon"}`,
		"noFeatureTime": `{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}`,
		"timesMismatch": `{"type":"Feature","properties":{"times":["2024-02-10T10:00:00Z"]},"geometry":{"type":"LineString","coordinates":[[1,2],[1,3]]}}`,
		"polygon":       `{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}`,
	}
	for name, in := range cases {
		if _, err := DecodeJSON(bytes.NewReader([]byte(in))); err == nil {
			t.Errorf("%s: want error", name)
		}
	}
}

var gpx1 = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>ride</name>
    <trkseg>
      <trkpt lat="46.1" lon="8.1"><ele>500</ele><time>2024-02-10T10:00:00Z</time></trkpt>
      <trkpt lat="46.1" lon="8.101"><time>2024-02-10T10:00:10Z</time></trkpt>
    </trkseg>
    <trkseg>
      <trkpt lat="46.1" lon="8.102"><ele>510</ele><time>2024-02-10T10:00:20Z</time></trkpt>
    </trkseg>
  </trk>
</gpx>
`

func TestDecodeGPX(t *testing.T) {
	points, err := Decode(bytes.NewReader([]byte("\n" + gpx1)))
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 3 {
		t.Fatalf("have %d want 3", len(points))
	}
	if points[0].Elevation != 500 || points[1].Elevation != 0 || points[2].Lng != 8.102 {
		t.Errorf("have %+v", points)
	}
	if !points[1].Time.Equal(time.Date(2024, 2, 10, 10, 0, 10, 0, time.UTC)) {
		t.Errorf("have %v", points[1].Time)
	}

	empty := `<?xml version="1.0"?><gpx version="1.1" creator="test"></gpx>`
	if _, err := DecodeGPX([]byte(empty)); err != ErrNoTrackpoints {
		t.Errorf("have %v want %v", err, ErrNoTrackpoints)
	}
}

func TestPrepare(t *testing.T) {
	t0 := time.Date(2024, 2, 10, 10, 0, 0, 0, time.UTC)
	a := trackpoint.Trackpoint{Lat: 46, Lng: 8, Time: t0.Add(20 * time.Second)}
	b := trackpoint.Trackpoint{Lat: 46.001, Lng: 8, Time: t0}
	c := trackpoint.Trackpoint{Lat: 46.002, Lng: 8, Time: t0.Add(20 * time.Second)}
	out := Prepare(trackpoint.Trackpoints{a, b, a, c, b}, 10)
	want := trackpoint.Trackpoints{b, a, c}
	if len(out) != len(want) {
		t.Fatalf("have %v want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("%d: have %v want %v", i, out[i], want[i])
		}
	}
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	gz := filepath.Join(dir, "a.ndjson.gz")
	if err := catz.WriteFile(gz, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s\n%s\n", tp2, tp1)
		return err
	}); err != nil {
		t.Fatal(err)
	}
	gpxPath := filepath.Join(dir, "b.gpx.gz")
	if err := catz.WriteFile(gpxPath, func(w io.Writer) error {
		_, err := io.WriteString(w, gpx1)
		return err
	}); err != nil {
		t.Fatal(err)
	}

	points, err := ReadFiles([]string{gpxPath, gz, gz}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 5 {
		t.Fatalf("have %d want 5", len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].Time.Before(points[i-1].Time) {
			t.Errorf("out of order at %d", i)
		}
	}

	if _, err := ReadFiles([]string{filepath.Join(dir, "missing.gpx")}, 100); err == nil {
		t.Error("want error for missing file")
	}
}

func TestReadFile_BrokenGPX(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.gpx")
	if err := os.WriteFile(broken, []byte(`<gpx><trk><trkseg><trkpt lat=`), 0660); err != nil {
		t.Fatal(err)
	}
	points, err := ReadFile(broken)
	if err == nil {
		t.Fatalf("have %d points and no error, want error", len(points))
	}

	good := filepath.Join(dir, "good.gpx")
	if err := os.WriteFile(good, []byte(gpx1), 0660); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFiles([]string{good, broken}, 100); err == nil {
		t.Error("want error when one of several files is broken")
	}
}
