package analytics

import (
	"sort"
	"time"
)

const daysPerWeek = 7

// PlateauAlerts classifies every (muscle group, exercise) timeline as
// plateaued or not. The reference point is the newest week across ALL
// timelines, so a global training gap ages every exercise uniformly.
// Rows come back plateaus first, longest stale first; timelines that
// never had a PR sort after the dated ones.
func PlateauAlerts(prBuckets []PRBucket, plateauWeeks int, includeNeverPR bool) []PlateauStatus {
	if len(prBuckets) == 0 {
		return []PlateauStatus{}
	}

	var globalLastWeek time.Time
	timelines := make(map[timelineKey][]PRBucket)
	for _, b := range prBuckets {
		key := timelineKey{b.MuscleGroup, b.Exercise}
		timelines[key] = append(timelines[key], b)
		if b.WeekStart.After(globalLastWeek) {
			globalLastWeek = b.WeekStart
		}
	}

	out := make([]PlateauStatus, 0, len(timelines))
	for key, timeline := range timelines {
		sort.Slice(timeline, func(i, j int) bool {
			return timeline[i].WeekStart.Before(timeline[j].WeekStart)
		})

		last := timeline[len(timeline)-1]
		status := PlateauStatus{
			MuscleGroup:   key.muscleGroup,
			Exercise:      key.exercise,
			LastWeekSeen:  last.WeekStart,
			LastMaxWeight: last.MaxWeight,
		}

		for _, b := range timeline {
			if b.IsNewPR {
				week := b.WeekStart
				status.LastPRWeek = &week
			}
		}

		if status.LastPRWeek != nil {
			weeks := globalLastWeek.Sub(*status.LastPRWeek).Hours() / (24 * daysPerWeek)
			status.WeeksSincePR = &weeks
			status.IsPlateau = weeks >= float64(plateauWeeks)
		} else if includeNeverPR {
			status.IsPlateau = true
		}

		out = append(out, status)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPlateau != out[j].IsPlateau {
			return out[i].IsPlateau
		}
		wi, wj := out[i].WeeksSincePR, out[j].WeeksSincePR
		switch {
		case wi != nil && wj != nil && *wi != *wj:
			return *wi > *wj
		case wi != nil && wj == nil:
			return true
		case wi == nil && wj != nil:
			return false
		}
		if out[i].Exercise != out[j].Exercise {
			return out[i].Exercise < out[j].Exercise
		}
		return out[i].MuscleGroup < out[j].MuscleGroup
	})

	return out
}
