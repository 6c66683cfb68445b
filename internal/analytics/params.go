package analytics

import "fmt"

// Params are the knobs of one pipeline run. They are caller supplied
// per invocation; cached results are keyed by every field, so two runs
// with different params never share output.
type Params struct {
	WeekStartDay   int  `json:"weekStartDay"`   // 0 = Monday .. 6 = Sunday
	MinRepsForPR   int  `json:"minRepsForPr"`   // a set needs at least this many reps to count for a PR
	PlateauWeeks   int  `json:"plateauWeeks"`   // weeks without a PR before an exercise counts as plateaued
	IncludeNeverPR bool `json:"includeNeverPr"` // treat exercises that never had a PR as plateaued
	LookbackWeeks  int  `json:"lookbackWeeks"`  // hypertrophy scoring window
}

func DefaultParams() Params {
	return Params{
		WeekStartDay:   0,
		MinRepsForPR:   8,
		PlateauWeeks:   3,
		IncludeNeverPR: true,
		LookbackWeeks:  12,
	}
}

// Validate fails fast on out of range values instead of clamping,
// since clamping would mask a caller bug.
func (p Params) Validate() error {
	if p.WeekStartDay < 0 || p.WeekStartDay > 6 {
		return fmt.Errorf("week start day must be in [0, 6], got %d", p.WeekStartDay)
	}
	if p.MinRepsForPR < 0 {
		return fmt.Errorf("min reps for PR must be >= 0, got %d", p.MinRepsForPR)
	}
	if p.PlateauWeeks < 1 {
		return fmt.Errorf("plateau weeks must be >= 1, got %d", p.PlateauWeeks)
	}
	if p.LookbackWeeks < 1 {
		return fmt.Errorf("lookback weeks must be >= 1, got %d", p.LookbackWeeks)
	}
	return nil
}

func (p Params) cacheKey() string {
	return fmt.Sprintf("w%d:r%d:p%d:n%t:l%d",
		p.WeekStartDay, p.MinRepsForPR, p.PlateauWeeks, p.IncludeNeverPR, p.LookbackWeeks)
}
