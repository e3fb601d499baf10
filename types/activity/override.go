package activity

import (
	"fmt"
	"strings"
	"time"
)

const (
	OverrideDateLayout = "2006-01-02"
	day                = 24 * time.Hour
)

// Override forces the activity of segments starting on Date.
// Time is either empty (the whole day), a clock time "15:04[:05]"
// which must fall within the segment, or a half-open range "from-to"
// containing the segment start, where either bound may be left empty.
type Override struct {
	Date     string   `json:"date" mapstructure:"date"`
	Time     string   `json:"time" mapstructure:"time"`
	Activity Activity `json:"activity" mapstructure:"activity"`
}

func (o Override) String() string {
	return fmt.Sprintf("%s %s %s", o.Date, o.Time, o.Activity)
}

// window parses the Time field into clock offsets since midnight.
func (o Override) window() (from, to time.Duration, exact bool, err error) {
	s := strings.TrimSpace(o.Time)
	if s == "" {
		return 0, day, false, nil
	}
	if !strings.Contains(s, "-") {
		c, err := parseClock(s)
		return c, c, true, err
	}
	parts := strings.SplitN(s, "-", 2)
	from, to = 0, day
	if f := strings.TrimSpace(parts[0]); f != "" {
		if from, err = parseClock(f); err != nil {
			return
		}
	}
	if t := strings.TrimSpace(parts[1]); t != "" {
		if to, err = parseClock(t); err != nil {
			return
		}
	}
	return from, to, false, nil
}

func parseClock(s string) (time.Duration, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if c, err := time.Parse(layout, s); err == nil {
			return time.Duration(c.Hour())*time.Hour +
				time.Duration(c.Minute())*time.Minute +
				time.Duration(c.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid clock time %q", s)
}

// Validate checks the row can be parsed.
func (o Override) Validate() error {
	if _, err := time.Parse(OverrideDateLayout, strings.TrimSpace(o.Date)); err != nil {
		return fmt.Errorf("override %q: invalid date: %w", o.String(), err)
	}
	if _, _, _, err := o.window(); err != nil {
		return fmt.Errorf("override %q: %w", o.String(), err)
	}
	if o.Activity == Unknown {
		return fmt.Errorf("override %q: missing activity", o.String())
	}
	return nil
}

// Matches reports whether the row applies to a segment spanning start..end.
// Malformed rows never match.
func (o Override) Matches(start, end time.Time) bool {
	if o.Validate() != nil {
		return false
	}
	if start.Format(OverrideDateLayout) != strings.TrimSpace(o.Date) {
		return false
	}
	from, to, exact, _ := o.window()
	midnight := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	if exact {
		at := midnight.Add(from)
		return !at.Before(start) && !at.After(end)
	}
	clock := start.Sub(midnight)
	return clock >= from && clock < to
}

// Overrides is an ordered table; the first matching row wins.
type Overrides []Override

func (os Overrides) Match(start, end time.Time) (Override, bool) {
	for _, o := range os {
		if o.Matches(start, end) {
			return o, true
		}
	}
	return Override{}, false
}

// Invalid returns an error for every malformed row.
func (os Overrides) Invalid() []error {
	var errs []error
	for _, o := range os {
		if err := o.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
