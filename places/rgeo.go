package places

import (
	"log/slog"

	"github.com/paulmach/orb"
	srgeo "github.com/sams96/rgeo"
)

var (
	Cities10      = srgeo.Cities10
	Countries10   = srgeo.Countries10
	Provinces10   = srgeo.Provinces10
	US_Counties10 = srgeo.US_Counties10
)

// RgeoNamer names positions after the area they lie in,
// using the embedded rgeo datasets. Loading them takes a few seconds.
type RgeoNamer struct {
	r *srgeo.Rgeo
}

// NewRgeoNamer loads the given datasets, or cities, provinces and countries if none.
func NewRgeoNamer(datasets ...func() []byte) (*RgeoNamer, error) {
	if len(datasets) == 0 {
		datasets = []func() []byte{Cities10, Provinces10, Countries10}
	}
	r, err := srgeo.New(datasets...)
	if err != nil {
		return nil, err
	}
	return &RgeoNamer{r: r}, nil
}

func (n *RgeoNamer) Location(pt orb.Point) (srgeo.Location, error) {
	return n.r.ReverseGeocode(pt)
}

// Name returns the most specific area name: city, then province, then country.
func (n *RgeoNamer) Name(pt orb.Point) string {
	loc, err := n.r.ReverseGeocode(pt)
	if err != nil {
		slog.Debug("Reverse geocode failed", "point", pt, "error", err)
		return ""
	}
	for _, name := range []string{loc.City, loc.Province, loc.Country} {
		if name != "" {
			return name
		}
	}
	return ""
}
