package analytics

import (
	"sort"
	"time"
)

type bucketKey struct {
	muscleGroup string
	exercise    string
	weekStart   time.Time
}

// ComputeWeekly groups records by (muscle group, exercise, week) and
// computes per bucket stats. Buckets are fully recomputed on every
// call, there is no incremental path.
func ComputeWeekly(records []Record) []WeeklyBucket {
	buckets := make(map[bucketKey]*WeeklyBucket)
	for _, r := range records {
		key := bucketKey{r.MuscleGroup, r.Exercise, r.WeekStart}
		b, ok := buckets[key]
		if !ok {
			b = &WeeklyBucket{
				MuscleGroup: r.MuscleGroup,
				Exercise:    r.Exercise,
				WeekStart:   r.WeekStart,
			}
			buckets[key] = b
		}

		b.SetCount++
		b.Tonnage += r.Weight
		if r.Weight > b.MaxWeight || b.SetCount == 1 {
			b.MaxWeight = r.Weight
		}

		if r.Reps != nil {
			reps := *r.Reps
			b.TotalReps += reps
			if b.MaxReps == nil || reps > *b.MaxReps {
				maxReps := reps
				b.MaxReps = &maxReps
			}
			if b.Volume == nil {
				b.Volume = new(float64)
			}
			*b.Volume += r.Weight * float64(reps)
		}
	}

	out := make([]WeeklyBucket, 0, len(buckets))
	for _, b := range buckets {
		b.MeanWeight = b.Tonnage / float64(b.SetCount)
		out = append(out, *b)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].MuscleGroup != out[j].MuscleGroup {
			return out[i].MuscleGroup < out[j].MuscleGroup
		}
		if out[i].Exercise != out[j].Exercise {
			return out[i].Exercise < out[j].Exercise
		}
		return out[i].WeekStart.Before(out[j].WeekStart)
	})

	return out
}
