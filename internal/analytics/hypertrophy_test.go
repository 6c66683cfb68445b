package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func volumeBucket(weekStart time.Time, group, exercise string, volume *float64, tonnage, meanWeight float64, sets int) WeeklyBucket {
	return WeeklyBucket{
		MuscleGroup: group,
		Exercise:    exercise,
		WeekStart:   weekStart,
		SetCount:    sets,
		MeanWeight:  meanWeight,
		Tonnage:     tonnage,
		Volume:      volume,
	}
}

func TestHypertrophyScores_BoundsAndAggregation(t *testing.T) {
	week1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	week2 := week1.AddDate(0, 0, 7)
	week3 := week1.AddDate(0, 0, 14)

	rows := HypertrophyScores([]WeeklyBucket{
		volumeBucket(week1, "Chest", "Bench Press", floatPtr(1000), 300, 100, 3),
		volumeBucket(week1, "Chest", "Flys", floatPtr(200), 40, 20, 2),
		volumeBucket(week2, "Chest", "Bench Press", floatPtr(1500), 300, 105, 3),
		volumeBucket(week3, "Chest", "Bench Press", floatPtr(2000), 300, 110, 3),
	}, 12)
	require.Len(t, rows, 3)

	// first week aggregates both exercises
	assert.Equal(t, 1200.0, rows[0].VolumeLike)
	assert.Equal(t, 60.0, rows[0].MeanIntensity)
	assert.Equal(t, 5, rows[0].TotalSets)

	for _, row := range rows {
		require.NotNil(t, row.Score, "week %s", row.WeekStart)
		assert.GreaterOrEqual(t, *row.Score, 0.0)
		assert.LessOrEqual(t, *row.Score, 100.0)
	}

	// week 3 has the max of both normalized parts
	assert.Equal(t, 100.0, *rows[2].Score)
}

func TestHypertrophyScores_TonnageFallback(t *testing.T) {
	week := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := HypertrophyScores([]WeeklyBucket{
		volumeBucket(week, "Back", "Deadlift", nil, 420, 140, 3),
	}, 12)
	require.Len(t, rows, 1)
	assert.Equal(t, 420.0, rows[0].VolumeLike, "volume absent falls back to tonnage")
}

func TestHypertrophyScores_DegenerateWindowIsNeutral(t *testing.T) {
	week1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	week2 := week1.AddDate(0, 0, 7)

	rows := HypertrophyScores([]WeeklyBucket{
		volumeBucket(week1, "Chest", "Bench Press", floatPtr(1000), 300, 100, 3),
		volumeBucket(week2, "Chest", "Bench Press", floatPtr(1000), 300, 100, 3),
	}, 12)
	require.Len(t, rows, 2)

	for _, row := range rows {
		require.NotNil(t, row.Score)
		assert.Equal(t, 50.0, *row.Score, "constant window pins both parts to 50")
	}
}

func TestHypertrophyScores_OutsideWindowUnscored(t *testing.T) {
	oldWeek := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	lastWeek := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := HypertrophyScores([]WeeklyBucket{
		volumeBucket(oldWeek, "Chest", "Bench Press", floatPtr(500), 300, 90, 3),
		volumeBucket(lastWeek, "Chest", "Bench Press", floatPtr(1000), 300, 100, 3),
	}, 4)
	require.Len(t, rows, 2)

	assert.Nil(t, rows[0].Score, "row outside the lookback window stays in the output, unscored")
	require.NotNil(t, rows[1].Score)
	assert.Equal(t, 50.0, *rows[1].Score, "single row window is degenerate")
}

func TestHypertrophyScores_GroupsNormalizedIndependently(t *testing.T) {
	week1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	week2 := week1.AddDate(0, 0, 7)

	rows := HypertrophyScores([]WeeklyBucket{
		volumeBucket(week1, "Chest", "Bench Press", floatPtr(100), 100, 50, 1),
		volumeBucket(week2, "Chest", "Bench Press", floatPtr(200), 100, 60, 1),
		volumeBucket(week1, "Legs", "Squat", floatPtr(10000), 100, 120, 1),
		volumeBucket(week2, "Legs", "Squat", floatPtr(20000), 100, 140, 1),
	}, 12)
	require.Len(t, rows, 4)

	// both groups span their own full 0-100 range despite the
	// absolute numbers differing by two orders of magnitude
	assert.Equal(t, 0.0, *rows[0].Score)
	assert.Equal(t, 100.0, *rows[1].Score)
	assert.Equal(t, 0.0, *rows[2].Score)
	assert.Equal(t, 100.0, *rows[3].Score)
}

func TestHypertrophyScores_EmptyInput(t *testing.T) {
	rows := HypertrophyScores(nil, 12)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}
