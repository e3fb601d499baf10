package state

import (
	"cmp"
	"slices"

	"github.com/rotblauer/catseg/common"
	"github.com/rotblauer/catseg/types/activity"
)

// Totals sum the summaries of one activity on one date.
type Totals struct {
	Date       string            `json:"date"`
	Activity   activity.Activity `json:"activity"`
	Count      int               `json:"count"`
	DistanceKm float64           `json:"distance_km"`
	GainM      float64           `json:"gain_m"`
	LossM      float64           `json:"loss_m"`
}

// ActivityTotals rolls summaries up per date and activity, ordered by date then activity.
// Count is the number of segments.
func ActivityTotals(summaries []Summary) []Totals {
	type key struct {
		date string
		act  activity.Activity
	}
	index := map[key]int{}
	var out []Totals
	for _, s := range summaries {
		k := key{s.Date, s.Activity}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Totals{Date: s.Date, Activity: s.Activity})
		}
		out[i].Count++
		out[i].DistanceKm += s.DistanceKm
		out[i].GainM += s.GainM
		out[i].LossM += s.LossM
	}
	for i := range out {
		out[i].DistanceKm = common.DecimalToFixed(out[i].DistanceKm, 3)
		out[i].GainM = common.DecimalToFixed(out[i].GainM, 1)
		out[i].LossM = common.DecimalToFixed(out[i].LossM, 1)
	}
	slices.SortFunc(out, func(a, b Totals) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Activity, b.Activity))
	})
	return out
}
