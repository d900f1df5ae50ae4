package daterange

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// DayLayout is the format accepted for explicit dates
const DayLayout = "2006-01-02"

// ErrInvalidDate is returned for a user-supplied date that cannot be parsed
var ErrInvalidDate = errors.New("invalid date")

// Interval is a half-open time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Filter selects a date range. At most one mode applies; when several are set the
// precedence is Today, Yesterday, Days, Since.
type Filter struct {
	Today     bool
	Yesterday bool
	Days      int    // last N days including today; <= 0 means unset
	Since     string // YYYY-MM-DD, through the end of today
}

// Active reports whether any mode is set
func (f Filter) Active() bool {
	return f.Today || f.Yesterday || f.Days > 0 || f.Since != ""
}

// Resolve turns the filter into an interval relative to now's calendar day.
// It returns a nil interval when no mode is set.
func (f Filter) Resolve(now time.Time) (*Interval, error) {
	today := StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	switch {
	case f.Today:
		return &Interval{Start: today, End: tomorrow}, nil
	case f.Yesterday:
		return &Interval{Start: today.AddDate(0, 0, -1), End: today}, nil
	case f.Days > 0:
		return &Interval{Start: today.AddDate(0, 0, -(f.Days - 1)), End: tomorrow}, nil
	case f.Since != "":
		start, err := time.ParseInLocation(DayLayout, f.Since, now.Location())
		if err != nil {
			return nil, fmt.Errorf("%w: %s. Use YYYY-MM-DD", ErrInvalidDate, f.Since)
		}
		return &Interval{Start: start, End: tomorrow}, nil
	}

	return nil, nil
}

// ForDay returns the interval covering day's calendar day
func ForDay(day time.Time) Interval {
	start := StartOfDay(day)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}

// StartOfDay truncates t to midnight in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Contains reports whether an ISO-8601 timestamp falls inside the interval.
// A nil interval admits everything. A timestamp that cannot be parsed is never
// inside an active interval.
func (iv *Interval) Contains(timestamp string) bool {
	if iv == nil {
		return true
	}
	t, ok := ParseTimestamp(timestamp, iv.Start.Location())
	if !ok {
		return false
	}
	return !t.Before(iv.Start) && t.Before(iv.End)
}

var zonelessLayouts = []string{
	"2006-01-02T15:04:05",
	DayLayout,
}

// ParseTimestamp parses the timestamp forms found in session logs. Timestamps that
// carry "Z" or a numeric offset are converted to loc; zone-less ones are read as
// wall-clock time in loc. Fractional seconds are optional.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), true
	}

	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}

	// "2025-01-05 10:00:00" and similar: only the date part is trusted
	if !strings.Contains(s, "T") && len(s) > len(DayLayout) {
		if t, err := time.ParseInLocation(DayLayout, s[:len(DayLayout)], loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseDay resolves a digest day selector: "today" (or empty), "yesterday",
// YYYY-MM-DD, or an English expression such as "last friday" or "3 days ago".
// The result is midnight of the selected day in now's location.
func ParseDay(arg string, now time.Time) (time.Time, error) {
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(arg) {
	case "", "today":
		return StartOfDay(now), nil
	case "yesterday":
		return StartOfDay(now).AddDate(0, 0, -1), nil
	}

	if t, err := time.ParseInLocation(DayLayout, arg, now.Location()); err == nil {
		return t, nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(arg, now)
	if err != nil || result == nil {
		return time.Time{}, fmt.Errorf("%w: %s. Use 'today', 'yesterday', or YYYY-MM-DD", ErrInvalidDate, arg)
	}

	return StartOfDay(result.Time.In(now.Location())), nil
}
