package booking

import "time"

// Occurrence is one week of a recurring request. Week counts from 1.
type Occurrence struct {
	Week int
	Date string
}

// Expand turns an anchor date into weeks occurrences seven days apart. When
// day is set it must agree with the anchor's weekday.
func Expand(anchor string, day *time.Weekday, weeks int) ([]Occurrence, error) {
	start, err := ParseDate(anchor)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: err.Error()}
	}
	if weeks <= 0 {
		return nil, validationError("recurring_weeks", "must be positive, got %d", weeks)
	}
	if day != nil && *day != start.Weekday() {
		return nil, validationError("day_of_week", "%s does not match anchor date %s (%s)", *day, anchor, start.Weekday())
	}

	occurrences := make([]Occurrence, 0, weeks)
	for week := 0; week < weeks; week++ {
		occurrences = append(occurrences, Occurrence{
			Week: week + 1,
			Date: formatDate(start.AddDate(0, 0, 7*week)),
		})
	}
	return occurrences, nil
}
