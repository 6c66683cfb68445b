package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jdvries/liftlog/internal/telemetry/metrics"
	"github.com/jdvries/liftlog/internal/telemetry/tracing"
	"github.com/jdvries/liftlog/internal/workouts"
)

//go:generate mockgen -source=$GOFILE -destination=analytics_mocks_test.go -package=analytics_test

const (
	oneMinute         = 60
	reportCacheExpire = oneMinute * 10
)

type setsRepo interface {
	ListAll(ctx context.Context, params workouts.SetParams) ([]workouts.Set, error)
}

// Analyzer runs the full pipeline over a user's current set collection
// and caches the resulting report. Cache keys carry a per-user version
// counter bumped on every write, plus every pipeline parameter, so
// stale or cross-parameter reuse cannot happen.
type Analyzer struct {
	repo     setsRepo
	cache    *freecache.Cache
	metrics  *metrics.Manager
	versions sync.Map // uuid.UUID -> *atomic.Uint64
}

func NewAnalyzer(repo setsRepo, metrics *metrics.Manager) *Analyzer {
	megabyte := 1024 * 1024
	cacheSize := 10 * megabyte

	return &Analyzer{
		repo:    repo,
		cache:   freecache.NewCache(cacheSize),
		metrics: metrics,
	}
}

// Invalidate marks the user's cached reports stale. Called by the
// write handlers and the importer after every change.
func (a *Analyzer) Invalidate(userID uuid.UUID) {
	a.userVersion(userID).Add(1)
}

func (a *Analyzer) userVersion(userID uuid.UUID) *atomic.Uint64 {
	v, _ := a.versions.LoadOrStore(userID, &atomic.Uint64{})
	return v.(*atomic.Uint64)
}

// Report fetches the user's sets and runs the whole pipeline:
// normalize, bucket by week, flag PRs, classify plateaus, score
// hypertrophy and split by weekday. An empty collection degrades to
// empty output tables.
func (a *Analyzer) Report(ctx context.Context, userID uuid.UUID, params Params) (_ *Report, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analytics.report")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID.String()))

	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	a.metrics.CounterDashboardReports.Inc()
	startedAt := time.Now()
	defer func() {
		a.metrics.HistReportDuration.Observe(time.Since(startedAt).Seconds())
	}()

	cacheKey := []byte(fmt.Sprintf("report::%s::%d::%s", userID, a.userVersion(userID).Load(), params.cacheKey()))
	if reportBytes, cacheErr := a.cache.Get(cacheKey); cacheErr == nil {
		report := &Report{}
		if err := json.Unmarshal(reportBytes, report); err == nil {
			a.metrics.CounterReportCacheHits.Inc()
			return report, nil
		}
		log.Errorf("failed to unmarshal cached report for %s: %s", userID, err)
	}

	sets, err := a.repo.ListAll(ctx, workouts.SetParams{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}

	report := ComputeReport(sets2raw(sets), params)
	span.SetAttributes(attribute.Int("sets", len(sets)))

	if reportBytes, err := json.Marshal(report); err != nil {
		log.Errorf("failed to marshal report for cache: %s", err)
	} else if err := a.cache.Set(cacheKey, reportBytes, reportCacheExpire); err != nil {
		log.Errorf("failed to write report cache for %s: %s", userID, err)
	}

	return report, nil
}

// ComputeReport is the pure pipeline: no I/O, no caching, safe to run
// concurrently for any number of users or parameter sets.
func ComputeReport(raw []RawSet, params Params) *Report {
	records := Normalize(raw, params.WeekStartDay)
	weekly := ComputeWeekly(records)
	prBuckets := AddPRFlags(weekly, params.MinRepsForPR)
	return &Report{
		Weekly:      prBuckets,
		Plateaus:    PlateauAlerts(prBuckets, params.PlateauWeeks, params.IncludeNeverPR),
		Hypertrophy: HypertrophyScores(weekly, params.LookbackWeeks),
		Weekdays:    SplitByWeekday(records),
	}
}

func sets2raw(sets []workouts.Set) []RawSet {
	raw := make([]RawSet, 0, len(sets))
	for _, s := range sets {
		date := s.WorkoutDate
		raw = append(raw, RawSet{
			Date:         &date,
			MuscleGroups: s.MuscleGroups,
			Exercise:     s.ExerciseName,
			Weight:       s.WeightKg,
			Reps:         s.Reps,
		})
	}
	return raw
}
