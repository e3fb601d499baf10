package places

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

var testCSV = `placemark,placetype_id,prominence,lat,lon,alt,dynamic
Zermatt,village,10,46.0207,7.7491,1608,
# Edited 2024-02-10

Matterhorn,mountain,1,45.9763,7.6586,4478,
Trockener Steg,lift,5,45.9890,7.7160,2939,true
`

func TestLoadCSV(t *testing.T) {
	ps, err := LoadCSV(strings.NewReader(testCSV))
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 3 {
		t.Fatalf("have %d want 3", len(ps))
	}
	if ps[1].Text() != "Matterhorn (4478 m)" {
		t.Errorf("have %q", ps[1].Text())
	}
	if ps[0].Text() != "Zermatt" || ps[0].Lng != 7.7491 {
		t.Errorf("have %+v", ps[0])
	}
	if !ps[2].Dynamic || ps[0].Dynamic {
		t.Errorf("dynamic: have %v %v", ps[2].Dynamic, ps[0].Dynamic)
	}

	if _, err := LoadCSV(strings.NewReader("name,lat\nx,1\n")); err == nil {
		t.Error("want error for missing columns")
	}
	if _, err := LoadCSV(strings.NewReader("placemark,lat,lon\nx,north,1\n")); err == nil {
		t.Error("want error for bad lat")
	}
}

func TestPlacemarks_Closest(t *testing.T) {
	ps, err := LoadCSV(strings.NewReader(testCSV))
	if err != nil {
		t.Fatal(err)
	}
	// Nearest to the dynamic lift station, which is skipped.
	p, km, ok := ps.Closest(orb.Point{7.70, 45.985})
	if !ok {
		t.Fatal("want a placemark")
	}
	if p.Name != "Matterhorn" {
		t.Errorf("have %s want Matterhorn", p.Name)
	}
	if km <= 0 {
		t.Errorf("have %v km", km)
	}
	if name := ps.Name(orb.Point{7.75, 46.02}); name != "Zermatt" {
		t.Errorf("have %s want Zermatt", name)
	}

	if _, _, ok := (Placemarks{}).Closest(orb.Point{7, 46}); ok {
		t.Error("want none")
	}
	if name := (Placemarks{}).Name(orb.Point{7, 46}); name != "" {
		t.Errorf("have %q", name)
	}
}

type countingNamer struct {
	calls int
}

func (c *countingNamer) Name(pt orb.Point) string {
	c.calls++
	if pt.Lat() > 46 {
		return "north"
	}
	return ""
}

func TestCachedNamer(t *testing.T) {
	inner := &countingNamer{}
	c, err := NewCachedNamer(inner, 2)
	if err != nil {
		t.Fatal(err)
	}
	pts := []orb.Point{{7, 46.5}, {7.0000001, 46.5000001}, {7, 45}, {7, 46.5}}
	want := []string{"north", "north", "", "north"}
	for i, pt := range pts {
		if have := c.Name(pt); have != want[i] {
			t.Errorf("%d: have %q want %q", i, have, want[i])
		}
	}
	if inner.calls != 2 {
		t.Errorf("calls: have %d want 2", inner.calls)
	}
	if c.Len() != 2 {
		t.Errorf("len: have %d want 2", c.Len())
	}

	if _, err := NewCachedNamer(inner, 0); err == nil {
		t.Error("want error for zero size")
	}
}

func TestNamers(t *testing.T) {
	ns := Namers{&countingNamer{}, Placemarks{{Name: "Fallback", Lat: 0, Lng: 0}}}
	if have := ns.Name(orb.Point{7, 46.5}); have != "north" {
		t.Errorf("have %q want north", have)
	}
	if have := ns.Name(orb.Point{7, 45}); have != "Fallback" {
		t.Errorf("have %q want Fallback", have)
	}
}

func TestRgeoNamer(t *testing.T) {
	if testing.Short() {
		t.Skip("loads rgeo datasets")
	}
	n, err := NewRgeoNamer(Countries10)
	if err != nil {
		t.Fatal(err)
	}
	if have := n.Name(orb.Point{8.5, 47.0}); have != "Switzerland" {
		t.Errorf("have %q want Switzerland", have)
	}
	// Open ocean has no country.
	if have := n.Name(orb.Point{-30, 0}); have != "" {
		t.Errorf("have %q want empty", have)
	}
}
