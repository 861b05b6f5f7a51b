package booking

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	minutesPerDay  = 24 * 60
	maxClockLength = len("HH:MM")
)

// Minute is a minute of the day, 0 through 1440 inclusive.
type Minute int

// ParseClock parses "HH:MM". "24:00" is accepted as the end of the day.
func ParseClock(value string) (Minute, error) {
	value = strings.TrimSpace(value)
	if len(value) != maxClockLength || value[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", value)
	}
	hours, err := strconv.Atoi(value[:2])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", value, err)
	}
	minutes, err := strconv.Atoi(value[3:])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", value, err)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || hours > 24 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("invalid time %q: out of range", value)
	}
	return Minute(hours*60 + minutes), nil
}

func (m Minute) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Interval is the half-open range [Start, End) within one day.
type Interval struct {
	Start Minute
	End   Minute
}

func NewInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: s, End: e}, nil
}

func (i Interval) Valid() bool {
	return i.Start >= 0 && i.End <= minutesPerDay && i.Start < i.End
}

func (i Interval) Minutes() int {
	return int(i.End - i.Start)
}

// Overlaps uses half-open semantics: a range ending at 10:00 does not touch
// one starting at 10:00.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Within reports whether i lies entirely inside outer.
func (i Interval) Within(outer Interval) bool {
	return outer.Start <= i.Start && i.End <= outer.End
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

// ParseDate parses a YYYY-MM-DD play date as a calendar day.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", value)
	}
	return date, nil
}

func formatDate(date time.Time) string {
	return date.Format(dateLayout)
}

// instant turns a play date and minute of day into a UTC instant using the
// branch timezone.
func instant(date time.Time, minute Minute, loc *time.Location) time.Time {
	local := time.Date(date.Year(), date.Month(), date.Day(), int(minute)/60, int(minute)%60, 0, 0, loc)
	return local.UTC().Truncate(time.Second)
}

// mergeRanges sorts and coalesces touching or overlapping open ranges.
func mergeRanges(ranges []Interval) []Interval {
	if len(ranges) == 0 {
		return nil
	}
	sorted := make([]Interval, 0, len(ranges))
	for _, r := range ranges {
		if r.Valid() {
			sorted = append(sorted, r)
		}
	}
	slices.SortFunc(sorted, compareIntervals)
	merged := make([]Interval, 0, len(sorted))
	for _, r := range sorted {
		if n := len(merged); n > 0 && r.Start <= merged[n-1].End {
			if r.End > merged[n-1].End {
				merged[n-1].End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

func compareIntervals(a, b Interval) int {
	if a.Start != b.Start {
		return cmp.Compare(a.Start, b.Start)
	}
	return cmp.Compare(a.End, b.End)
}
