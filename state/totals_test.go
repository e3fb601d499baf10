package state

import (
	"testing"

	"github.com/rotblauer/catseg/types/activity"
)

func TestActivityTotals(t *testing.T) {
	summaries := []Summary{
		{Date: "2024-02-11", Activity: activity.Walk, DistanceKm: 1.5, GainM: 10, LossM: 5},
		{Date: "2024-02-10", Activity: activity.Walk, DistanceKm: 2.25, GainM: 100, LossM: 20},
		{Date: "2024-02-10", Activity: activity.Cycle, DistanceKm: 12, GainM: 50},
		{Date: "2024-02-10", Activity: activity.Walk, DistanceKm: 0.75, GainM: 5.5, LossM: 80},
	}
	want := []Totals{
		{Date: "2024-02-10", Activity: activity.Cycle, Count: 1, DistanceKm: 12, GainM: 50},
		{Date: "2024-02-10", Activity: activity.Walk, Count: 2, DistanceKm: 3, GainM: 105.5, LossM: 100},
		{Date: "2024-02-11", Activity: activity.Walk, Count: 1, DistanceKm: 1.5, GainM: 10, LossM: 5},
	}
	have := ActivityTotals(summaries)
	if len(have) != len(want) {
		t.Fatalf("have %v want %v", have, want)
	}
	for i := range want {
		if have[i] != want[i] {
			t.Errorf("%d: have %+v want %+v", i, have[i], want[i])
		}
	}
	if have := ActivityTotals(nil); len(have) != 0 {
		t.Errorf("have %v want none", have)
	}
}
