package analytics

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// csvHeader is the export column order clients rely on.
var csvHeader = []string{
	"muscle_group", "exercise_name", "week_start",
	"max_weight", "set_count", "mean_weight", "tonnage",
	"max_reps", "volume", "total_reps",
	"pr_eligible", "eligible_weight", "prev_best", "is_new_pr",
}

// WeeklyCSV renders the PR-flagged weekly buckets as CSV. Absent
// values (missing reps, no previous best) are written as empty cells.
func WeeklyCSV(buckets []PRBucket) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, b := range buckets {
		row := []string{
			b.MuscleGroup,
			b.Exercise,
			b.WeekStart.Format("2006-01-02"),
			formatFloat(b.MaxWeight),
			strconv.Itoa(b.SetCount),
			formatFloat(b.MeanWeight),
			formatFloat(b.Tonnage),
			formatIntPtr(b.MaxReps),
			formatFloatPtr(b.Volume),
			strconv.Itoa(b.TotalReps),
			strconv.FormatBool(b.PREligible),
			formatFloatPtr(b.EligibleWeight),
			formatFloatPtr(b.PrevBest),
			strconv.FormatBool(b.IsNewPR),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatFloatPtr(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func formatIntPtr(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
