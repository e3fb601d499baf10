package clean

import (
	"github.com/rotblauer/catseg/types/trackpoint"
)

// EliminateStillPoints collapses every run of consecutive fixes sharing a
// position down to a single fix, returning a new slice.
// A leading run keeps its last fix, the moment movement begins.
// Every other run keeps its first fix, the moment movement stopped.
// A trace that never moves collapses to one point.
func EliminateStillPoints(points []trackpoint.Trackpoint) []trackpoint.Trackpoint {
	out := make([]trackpoint.Trackpoint, 0, len(points))
	for i := 0; i < len(points); {
		j := i
		for j+1 < len(points) && points[j+1].IsSameLatLng(points[i]) {
			j++
		}
		if i == 0 && j < len(points)-1 {
			out = append(out, points[j])
		} else {
			out = append(out, points[i])
		}
		i = j + 1
	}
	return out
}
