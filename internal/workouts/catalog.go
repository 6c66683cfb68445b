package workouts

import (
	"context"
	"fmt"
	"time"

	"github.com/jdvries/liftlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// CatalogRepo keeps the known exercise names, mostly so that clients can
// offer autocomplete and so that imports can seed the list up front.
type CatalogRepo struct {
	db *pgxpool.Pool
}

func NewCatalogRepo(db *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{
		db: db,
	}
}

func (r *CatalogRepo) UpsertNames(ctx context.Context, muscleGroup string, names []string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.upsertnames")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("names", len(names)))

	batch := &pgx.Batch{}
	now := time.Now()
	for _, name := range names {
		batch.Queue(
			`INSERT INTO exercise_catalog (name, muscle_group, created_at)
				VALUES ($1, $2, $3)
				ON CONFLICT (name, muscle_group) DO NOTHING;`,
			name, muscleGroup, now,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer func() {
		if closeErr := results.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for range names {
		if _, execErr := results.Exec(); execErr != nil {
			return fmt.Errorf("batch exec: %w", execErr)
		}
	}

	return nil
}

func (r *CatalogRepo) List(ctx context.Context, muscleGroup string) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("muscle_group", muscleGroup))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, muscle_group, created_at
			FROM exercise_catalog
			WHERE ($1::text = '' OR muscle_group = $1)
			ORDER BY name;`,
		muscleGroup,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var exercises []Exercise
	for rows.Next() {
		var e Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.CreatedAt); err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}

	if exercises == nil {
		exercises = make([]Exercise, 0)
	}

	return exercises, nil
}
