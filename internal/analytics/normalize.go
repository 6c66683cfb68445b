package analytics

import (
	"strings"
	"time"
)

// Normalize cleans a batch of raw sets. Rows without a date, weight,
// exercise name or muscle group are dropped; missing reps are kept as
// nil. The muscle group field is split on commas and one Record is
// emitted per non-empty part.
func Normalize(raw []RawSet, weekStartDay int) []Record {
	records := make([]Record, 0, len(raw))
	for _, rs := range raw {
		if rs.Date == nil || rs.Weight == nil {
			continue
		}
		exercise := strings.TrimSpace(rs.Exercise)
		if exercise == "" {
			continue
		}

		var groups []string
		for _, g := range strings.Split(rs.MuscleGroups, ",") {
			if g = strings.TrimSpace(g); g != "" {
				groups = append(groups, g)
			}
		}
		if len(groups) == 0 {
			continue
		}

		date := *rs.Date
		week := weekStartOf(date, weekStartDay)
		for _, group := range groups {
			r := Record{
				Date:        date,
				MuscleGroup: group,
				Exercise:    exercise,
				Weight:      *rs.Weight,
				WeekStart:   week,
				Weekday:     mondayIndexed(date),
			}
			if rs.Reps != nil {
				reps := *rs.Reps
				r.Reps = &reps
			}
			records = append(records, r)
		}
	}
	return records
}

// weekStartOf maps a date onto the start of its calendar week, where
// weekStartDay 0 means Monday, truncated to UTC midnight. For every
// date d: weekStartOf(d) <= d < weekStartOf(d) + 7 days.
func weekStartOf(t time.Time, weekStartDay int) time.Time {
	delta := ((mondayIndexed(t)-weekStartDay)%7 + 7) % 7
	d := t.AddDate(0, 0, -delta)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// mondayIndexed converts Go's Sunday-first weekday to 0 = Monday.
func mondayIndexed(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
