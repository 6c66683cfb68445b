package analytics

import "time"

// RawSet is one logged set as it comes out of the store or an import,
// before any cleaning. Pointer fields may be nil when the source row
// had no value.
type RawSet struct {
	Date         *time.Time `json:"date"`
	MuscleGroups string     `json:"muscleGroups"`
	Exercise     string     `json:"exercise"`
	Weight       *float64   `json:"weight"`
	Reps         *int       `json:"reps"`
}

// Record is a cleaned set: exactly one muscle group, a guaranteed date
// and weight, and the derived week bucket. A raw set tagged with N
// comma separated muscle groups yields N records.
type Record struct {
	Date        time.Time `json:"date"`
	MuscleGroup string    `json:"muscleGroup"`
	Exercise    string    `json:"exercise"`
	Weight      float64   `json:"weight"`
	Reps        *int      `json:"reps"`
	WeekStart   time.Time `json:"weekStart"`
	Weekday     int       `json:"weekday"` // 0 = Monday .. 6 = Sunday
}

// WeeklyBucket aggregates all records of one (muscle group, exercise)
// pair within one week. Volume is nil when no record in the bucket has
// reps; records with missing reps otherwise contribute 0 to the sum.
type WeeklyBucket struct {
	MuscleGroup string    `json:"muscleGroup"`
	Exercise    string    `json:"exercise"`
	WeekStart   time.Time `json:"weekStart"`
	MaxWeight   float64   `json:"maxWeight"`
	SetCount    int       `json:"setCount"`
	MeanWeight  float64   `json:"meanWeight"`
	Tonnage     float64   `json:"tonnage"`
	MaxReps     *int      `json:"maxReps"`
	TotalReps   int       `json:"totalReps"`
	Volume      *float64  `json:"volume"`
}

// PRBucket is a WeeklyBucket with personal record flags. PrevBest is
// the running max of eligible weights strictly before this bucket in
// its (muscle group, exercise) timeline.
type PRBucket struct {
	WeeklyBucket
	PREligible     bool     `json:"prEligible"`
	EligibleWeight *float64 `json:"eligibleWeight"`
	PrevBest       *float64 `json:"prevBest"`
	IsNewPR        bool     `json:"isNewPr"`
}

// PlateauStatus summarizes one (muscle group, exercise) timeline.
// LastPRWeek and WeeksSincePR are nil when the pair never had a PR.
type PlateauStatus struct {
	MuscleGroup   string     `json:"muscleGroup"`
	Exercise      string     `json:"exercise"`
	LastWeekSeen  time.Time  `json:"lastWeekSeen"`
	LastMaxWeight float64    `json:"lastMaxWeight"`
	LastPRWeek    *time.Time `json:"lastPrWeek"`
	WeeksSincePR  *float64   `json:"weeksSincePr"`
	IsPlateau     bool       `json:"isPlateau"`
}

// HypertrophyScore is the per muscle group, per week composite of
// normalized volume and intensity. Score is nil for weeks older than
// the lookback window.
type HypertrophyScore struct {
	MuscleGroup   string    `json:"muscleGroup"`
	WeekStart     time.Time `json:"weekStart"`
	VolumeLike    float64   `json:"volumeLike"`
	MeanIntensity float64   `json:"meanIntensity"`
	TotalSets     int       `json:"totalSets"`
	Score         *float64  `json:"score"`
}

// WeekdaySplit holds the totals for one day of the week, 0 = Monday.
type WeekdaySplit struct {
	Weekday  int     `json:"weekday"`
	SetCount int     `json:"setCount"`
	Tonnage  float64 `json:"tonnage"`
	Volume   float64 `json:"volume"`
}

// Report bundles the output of one full pipeline run.
type Report struct {
	Weekly      []PRBucket         `json:"weekly"`
	Plateaus    []PlateauStatus    `json:"plateaus"`
	Hypertrophy []HypertrophyScore `json:"hypertrophy"`
	Weekdays    []WeekdaySplit     `json:"weekdays"`
}
