package analytics

import (
	"sort"
	"time"
)

type groupWeekKey struct {
	muscleGroup string
	weekStart   time.Time
}

// HypertrophyScores blends normalized training volume and intensity
// into a 0-100 score per muscle group per week. Only weeks within the
// trailing lookback window (counted from the newest week in the data)
// get a score; older rows are returned with a nil score so history can
// still be displayed. When all values in a muscle group's window are
// equal, the normalized value is pinned to a neutral 50.
func HypertrophyScores(weekly []WeeklyBucket, lookbackWeeks int) []HypertrophyScore {
	if len(weekly) == 0 {
		return []HypertrophyScore{}
	}

	type groupWeek struct {
		volumeLike   float64
		intensitySum float64
		bucketCount  int
		totalSets    int
	}

	aggregated := make(map[groupWeekKey]*groupWeek)
	var lastWeek time.Time
	for _, b := range weekly {
		volumeLike := b.Tonnage
		if b.Volume != nil {
			volumeLike = *b.Volume
		}

		key := groupWeekKey{b.MuscleGroup, b.WeekStart}
		gw, ok := aggregated[key]
		if !ok {
			gw = &groupWeek{}
			aggregated[key] = gw
		}
		gw.volumeLike += volumeLike
		gw.intensitySum += b.MeanWeight
		gw.bucketCount++
		gw.totalSets += b.SetCount

		if b.WeekStart.After(lastWeek) {
			lastWeek = b.WeekStart
		}
	}

	cutoff := lastWeek.AddDate(0, 0, -daysPerWeek*lookbackWeeks)

	rows := make([]HypertrophyScore, 0, len(aggregated))
	for key, gw := range aggregated {
		rows = append(rows, HypertrophyScore{
			MuscleGroup:   key.muscleGroup,
			WeekStart:     key.weekStart,
			VolumeLike:    gw.volumeLike,
			MeanIntensity: gw.intensitySum / float64(gw.bucketCount),
			TotalSets:     gw.totalSets,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].MuscleGroup != rows[j].MuscleGroup {
			return rows[i].MuscleGroup < rows[j].MuscleGroup
		}
		return rows[i].WeekStart.Before(rows[j].WeekStart)
	})

	// min-max ranges per muscle group, window rows only
	type minMax struct {
		minVol, maxVol float64
		minInt, maxInt float64
		seen           bool
	}
	ranges := make(map[string]*minMax)
	for i := range rows {
		if rows[i].WeekStart.Before(cutoff) {
			continue
		}
		mm, ok := ranges[rows[i].MuscleGroup]
		if !ok {
			mm = &minMax{}
			ranges[rows[i].MuscleGroup] = mm
		}
		if !mm.seen {
			mm.minVol, mm.maxVol = rows[i].VolumeLike, rows[i].VolumeLike
			mm.minInt, mm.maxInt = rows[i].MeanIntensity, rows[i].MeanIntensity
			mm.seen = true
			continue
		}
		mm.minVol = min(mm.minVol, rows[i].VolumeLike)
		mm.maxVol = max(mm.maxVol, rows[i].VolumeLike)
		mm.minInt = min(mm.minInt, rows[i].MeanIntensity)
		mm.maxInt = max(mm.maxInt, rows[i].MeanIntensity)
	}

	for i := range rows {
		if rows[i].WeekStart.Before(cutoff) {
			continue
		}
		mm := ranges[rows[i].MuscleGroup]
		normVol := minMaxNormalize(rows[i].VolumeLike, mm.minVol, mm.maxVol)
		normInt := minMaxNormalize(rows[i].MeanIntensity, mm.minInt, mm.maxInt)
		score := 0.5*normVol + 0.5*normInt
		rows[i].Score = &score
	}

	return rows
}

// minMaxNormalize scales v into [0, 100]; a degenerate range (all
// values equal) yields a neutral 50 instead of dividing by zero.
func minMaxNormalize(v, lo, hi float64) float64 {
	const epsilon = 1e-9
	if hi-lo < epsilon {
		return 50
	}
	return (v - lo) / (hi - lo) * 100
}
