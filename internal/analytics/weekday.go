package analytics

// SplitByWeekday totals set count, tonnage and volume per day of the
// week. The output always has exactly 7 rows, Monday first, days
// without any training included with zero values.
func SplitByWeekday(records []Record) []WeekdaySplit {
	split := make([]WeekdaySplit, daysPerWeek)
	for i := range split {
		split[i].Weekday = i
	}

	for _, r := range records {
		day := &split[r.Weekday]
		day.SetCount++
		day.Tonnage += r.Weight
		if r.Reps != nil {
			day.Volume += r.Weight * float64(*r.Reps)
		}
	}

	return split
}
