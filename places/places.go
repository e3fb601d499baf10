// Package places names positions after the nearest known placemark.
package places

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/rotblauer/catseg/common"
)

// Namer returns a human name for a position, or "" if it has none.
type Namer interface {
	Name(pt orb.Point) string
}

type Placemark struct {
	Name string  `json:"name"`
	Type string  `json:"type,omitempty"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Alt  float64 `json:"alt,omitempty"`

	// Dynamic placemarks are shown but never used for naming.
	Dynamic bool `json:"dynamic,omitempty"`
}

// Text is the display name. Mountains carry their altitude.
func (p Placemark) Text() string {
	if p.Type == "mountain" {
		return fmt.Sprintf("%s (%.0f m)", p.Name, p.Alt)
	}
	return p.Name
}

func (p Placemark) Point() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

func (p Placemark) DistanceKm(pt orb.Point) float64 {
	return common.HaversineKm(p.Lat, p.Lng, pt.Lat(), pt.Lon())
}

type Placemarks []Placemark

// Closest returns the nearest non-dynamic placemark and its distance.
// It is false if there is none.
func (ps Placemarks) Closest(pt orb.Point) (Placemark, float64, bool) {
	best, bestKm, ok := Placemark{}, math.Inf(1), false
	for _, p := range ps {
		if p.Dynamic {
			continue
		}
		if d := p.DistanceKm(pt); d < bestKm {
			best, bestKm, ok = p, d, true
		}
	}
	return best, bestKm, ok
}

// Name satisfies Namer.
func (ps Placemarks) Name(pt orb.Point) string {
	p, _, ok := ps.Closest(pt)
	if !ok {
		return ""
	}
	return p.Text()
}

var csvRequired = []string{"placemark", "lat", "lon"}

// LoadCSV reads placemarks from a CSV file with a header row naming at least
// placemark, lat and lon; placetype_id, alt and dynamic are optional.
// Blank rows and rows starting with '#' are skipped.
func LoadCSV(r io.Reader) (Placemarks, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(strings.ToLower(h))] = i
	}
	for _, req := range csvRequired {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("placemarks csv: missing column %q", req)
		}
	}
	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	out := Placemarks{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		p := Placemark{Name: field(rec, "placemark"), Type: field(rec, "placetype_id")}
		if p.Lat, err = strconv.ParseFloat(field(rec, "lat"), 64); err != nil {
			return nil, fmt.Errorf("placemarks csv line %d: lat: %w", line, err)
		}
		if p.Lng, err = strconv.ParseFloat(field(rec, "lon"), 64); err != nil {
			return nil, fmt.Errorf("placemarks csv line %d: lon: %w", line, err)
		}
		if alt := field(rec, "alt"); alt != "" {
			if p.Alt, err = strconv.ParseFloat(alt, 64); err != nil {
				return nil, fmt.Errorf("placemarks csv line %d: alt: %w", line, err)
			}
		}
		p.Dynamic, _ = strconv.ParseBool(field(rec, "dynamic"))
		out = append(out, p)
	}
	return out, nil
}

// Namers tries each namer in turn and returns the first name found.
type Namers []Namer

func (ns Namers) Name(pt orb.Point) string {
	for _, n := range ns {
		if name := n.Name(pt); name != "" {
			return name
		}
	}
	return ""
}
