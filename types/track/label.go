package track

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

const csvFilenameLayout = "2006-01-02_150405"

// ClockDuration formats seconds as h:mm.
func ClockDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Minute)
	return fmt.Sprintf("%d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// Label describes segment i, eg.
// "10:02-11:07: Hörnli (12.3 km / 1:05 = 11.4 km/h)".
func (t *Track) Label(i int) string {
	s := t.Segments[i]
	name := s.StartName
	if s.EndName != "" && s.EndName != s.StartName {
		name = fmt.Sprintf("%s - %s", s.StartName, s.EndName)
	}
	return fmt.Sprintf("%s-%s: %s%s (%s km / %s = %s km/h)",
		t.Start(i).Time.Format("15:04"), t.End(i).Time.Format("15:04"),
		s.Activity.Emoji(), name,
		humanize.FtoaWithDigits(s.DistanceKm, 1), ClockDuration(s.DurationS),
		humanize.FtoaWithDigits(s.SpeedKmh(), 1))
}

// BreakLabel describes the rest following segment i.
// It is empty for the last segment.
func (t *Track) BreakLabel(i int) string {
	if t.Segments[i].Next == NoLink {
		return ""
	}
	name := t.Segments[i].EndName
	if name == "" {
		name = "break"
	}
	return fmt.Sprintf("%s-%s: %s (%s)",
		t.End(i).Time.Format("15:04"), t.Start(t.Segments[i].Next).Time.Format("15:04"),
		name, ClockDuration(t.BreakDuration(i)))
}

// CSVFilename names an export of segment i, eg. "2024-02-10_100200-110700.csv".
func (t *Track) CSVFilename(i int) string {
	return fmt.Sprintf("%s-%s.csv",
		t.Start(i).Time.Format(csvFilenameLayout), t.End(i).Time.Format("150405"))
}

// Summary returns one line per segment and break, then the net totals.
func (t *Track) Summary() []string {
	lines := make([]string, 0, 2*len(t.Segments)+1)
	for i := range t.Segments {
		lines = append(lines, t.Label(i))
		if b := t.BreakLabel(i); b != "" {
			lines = append(lines, "  "+b)
		}
	}
	lines = append(lines, fmt.Sprintf("%s points, %d segments, %s km in %s = %s km/h",
		humanize.Comma(int64(len(t.Points))), len(t.Segments),
		humanize.FtoaWithDigits(t.NetDistanceKm, 1), ClockDuration(t.NetDurationS),
		humanize.FtoaWithDigits(t.NetSpeedKmh(), 1)))
	return lines
}
