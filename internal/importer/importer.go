package importer

import (
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jdvries/liftlog/internal/telemetry/tracing"
	"github.com/jdvries/liftlog/internal/workouts"
)

//go:generate mockgen -source=$GOFILE -destination=importer_mocks_test.go -package=importer_test

const batchSize = 200

type setsRepo interface {
	UpsertBatch(ctx context.Context, sets []workouts.Set) (int64, error)
}

type exerciseCatalog interface {
	UpsertNames(ctx context.Context, muscleGroup string, names []string) error
}

// ImportResult reports what one import run did.
type ImportResult struct {
	RowsParsed   int `json:"rowsParsed"`
	RowsSkipped  int `json:"rowsSkipped"`
	RowsPrepared int `json:"rowsPrepared"`
	RowsInserted int `json:"rowsInserted"`
}

// Importer loads historical workout data from xlsx workbooks into the
// set store. Re-running an import is safe: every row carries a content
// hash and the store skips (user, hash) pairs it already has.
type Importer struct {
	repo    setsRepo
	catalog exerciseCatalog
	userID  uuid.UUID
}

func New(repo setsRepo, catalog exerciseCatalog, userID uuid.UUID) *Importer {
	return &Importer{
		repo:    repo,
		catalog: catalog,
		userID:  userID,
	}
}

// ImportWorkbook parses the workbook and upserts all usable rows in
// batches. Rows without a parseable date are skipped, matching how the
// sheets mix data rows with notes and spacing.
func (imp *Importer) ImportWorkbook(ctx context.Context, r io.Reader) (_ *ImportResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "importer.workbook")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := ParseWorkbook(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{RowsParsed: len(rows)}

	now := time.Now()
	seen := make(map[string]struct{})
	var sets []workouts.Set
	for _, row := range rows {
		if row.Date == nil || row.Exercise == "" {
			result.RowsSkipped++
			continue
		}

		set := workouts.Set{
			UserID:       imp.userID,
			WorkoutDate:  dateOnly(*row.Date),
			ExerciseName: row.Exercise,
			MuscleGroups: row.MuscleGroups,
			WeightKg:     row.Weight,
			Reps:         row.Reps,
			CreatedAt:    now,
		}
		set.ImportHash = importHash(set)

		// dedupe inside the batch, the sheets repeat rows
		if _, ok := seen[set.ImportHash]; ok {
			result.RowsSkipped++
			continue
		}
		seen[set.ImportHash] = struct{}{}

		sets = append(sets, set)
	}

	result.RowsPrepared = len(sets)
	log.Debugf("import: %d rows parsed, %d prepared", result.RowsParsed, result.RowsPrepared)

	for start := 0; start < len(sets); start += batchSize {
		end := start + batchSize
		if end > len(sets) {
			end = len(sets)
		}
		inserted, err := imp.repo.UpsertBatch(ctx, sets[start:end])
		if err != nil {
			return nil, fmt.Errorf("upsert batch [%d:%d]: %w", start, end, err)
		}
		result.RowsInserted += int(inserted)
	}

	log.Infof("import done: %d rows inserted (%d skipped)", result.RowsInserted, result.RowsSkipped)
	return result, nil
}

// SeedExercises extracts the distinct exercise names from the workbook
// and stores them in the catalog, grouped by the row's muscle group
// text; sheets without an exercise column contribute their sheet name.
func (imp *Importer) SeedExercises(ctx context.Context, r io.Reader) (seeded int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "importer.seedexercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := ParseWorkbook(r)
	if err != nil {
		return 0, err
	}

	byGroup := make(map[string]map[string]struct{})
	add := func(group, name string) {
		name = strings.TrimSpace(name)
		if name == "" || strings.EqualFold(name, "nan") {
			return
		}
		if byGroup[group] == nil {
			byGroup[group] = make(map[string]struct{})
		}
		byGroup[group][name] = struct{}{}
	}

	for _, row := range rows {
		if row.Exercise != "" {
			add(strings.TrimSpace(row.MuscleGroups), row.Exercise)
		} else {
			add("", row.Sheet)
		}
	}

	for group, nameSet := range byGroup {
		names := make([]string, 0, len(nameSet))
		for name := range nameSet {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			return strings.ToLower(names[i]) < strings.ToLower(names[j])
		})

		if err := imp.catalog.UpsertNames(ctx, group, names); err != nil {
			return seeded, fmt.Errorf("seed group %q: %w", group, err)
		}
		seeded += len(names)
	}

	return seeded, nil
}

// importHash identifies a row by its content so that re-imports of the
// same spreadsheet never duplicate data.
func importHash(set workouts.Set) string {
	weight := ""
	if set.WeightKg != nil {
		weight = strconv.FormatFloat(*set.WeightKg, 'f', -1, 64)
	}
	reps := ""
	if set.Reps != nil {
		reps = strconv.Itoa(*set.Reps)
	}
	base := fmt.Sprintf("%s|%s|%s|%s|%s",
		set.UserID, set.WorkoutDate.Format("2006-01-02"), set.ExerciseName, weight, reps)
	return fmt.Sprintf("%x", sha1.Sum([]byte(base)))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
