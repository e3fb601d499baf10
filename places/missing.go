package places

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

const (
	// MissingStartKm is how far a segment start may lie from every known
	// placemark before a dynamic placemark is generated for it.
	MissingStartKm = 0.05
	// MissingExtremumKm is the same limit for peaks and bottoms.
	MissingExtremumKm = 0.1
)

// MissingFinder generates dynamic placemarks for places a track visits that
// no known placemark covers. A generated placemark also covers later
// positions of its type, so revisits yield one placemark.
type MissingFinder struct {
	Known Placemarks
	found Placemarks
}

func NewMissingFinder(known Placemarks) *MissingFinder {
	return &MissingFinder{Known: known}
}

// Start returns a placemark for a segment start at pt unless one is within MissingStartKm.
// label describes the segment.
func (f *MissingFinder) Start(pt orb.Point, alt float64, label string) (Placemark, bool) {
	return f.add("start", pt, alt, MissingStartKm, func(near string) string {
		return strings.TrimSpace(fmt.Sprintf("Start %s %s", label, near))
	})
}

// Extremum returns a placemark for a peak or bottom at pt unless one is within MissingExtremumKm.
func (f *MissingFinder) Extremum(typ string, pt orb.Point, alt float64) (Placemark, bool) {
	return f.add(typ, pt, alt, MissingExtremumKm, func(near string) string {
		return strings.TrimSpace(fmt.Sprintf("%s %s", typ, near))
	})
}

// Found returns the placemarks generated so far.
func (f *MissingFinder) Found() Placemarks {
	return f.found
}

func (f *MissingFinder) add(typ string, pt orb.Point, alt, limitKm float64, name func(near string) string) (Placemark, bool) {
	closest, km, ok := f.Known.Closest(pt)
	if ok && km < limitKm {
		return Placemark{}, false
	}
	for _, p := range f.found {
		if p.Type == typ && p.DistanceKm(pt) < limitKm {
			return Placemark{}, false
		}
	}
	near := ""
	if ok {
		near = fmt.Sprintf("%.0f m -> %s", km*1000, closest.Text())
	}
	p := Placemark{
		Name:    name(near),
		Type:    typ,
		Lat:     pt.Lat(),
		Lng:     pt.Lon(),
		Alt:     alt,
		Dynamic: true,
	}
	f.found = append(f.found, p)
	return p, true
}
