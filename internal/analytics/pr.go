package analytics

import "sort"

type timelineKey struct {
	muscleGroup string
	exercise    string
}

// AddPRFlags walks each (muscle group, exercise) timeline in week
// order and flags new personal records. A bucket is eligible when its
// max reps reach minReps (missing reps count as 0); a new PR needs a
// strictly greater weight than every eligible bucket before it.
//
// Timelines are tracked per muscle group on purpose: the same exercise
// logged under two groups accrues two independent PR histories.
func AddPRFlags(weekly []WeeklyBucket, minReps int) []PRBucket {
	timelines := make(map[timelineKey][]WeeklyBucket)
	var keys []timelineKey
	for _, b := range weekly {
		key := timelineKey{b.MuscleGroup, b.Exercise}
		if _, ok := timelines[key]; !ok {
			keys = append(keys, key)
		}
		timelines[key] = append(timelines[key], b)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].muscleGroup != keys[j].muscleGroup {
			return keys[i].muscleGroup < keys[j].muscleGroup
		}
		return keys[i].exercise < keys[j].exercise
	})

	out := make([]PRBucket, 0, len(weekly))
	for _, key := range keys {
		timeline := timelines[key]
		sort.Slice(timeline, func(i, j int) bool {
			return timeline[i].WeekStart.Before(timeline[j].WeekStart)
		})

		var prevBest *float64
		for _, b := range timeline {
			maxReps := 0
			if b.MaxReps != nil {
				maxReps = *b.MaxReps
			}

			pr := PRBucket{WeeklyBucket: b}
			pr.PREligible = maxReps >= minReps
			if pr.PREligible {
				w := b.MaxWeight
				pr.EligibleWeight = &w
			}
			if prevBest != nil {
				pb := *prevBest
				pr.PrevBest = &pb
			}
			pr.IsNewPR = pr.PREligible && (prevBest == nil || b.MaxWeight > *prevBest)

			if pr.EligibleWeight != nil && (prevBest == nil || *pr.EligibleWeight > *prevBest) {
				w := *pr.EligibleWeight
				prevBest = &w
			}

			out = append(out, pr)
		}
	}

	return out
}
