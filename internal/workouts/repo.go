package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jdvries/liftlog/internal/telemetry/tracing"
	"github.com/jdvries/liftlog/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrSetNotFound  = errors.New("workout set not found")
	ErrSetDuplicate = errors.New("workout set already exists")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, set Set) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO workout_set
				(user_id, workout_date, exercise_name, muscle_groups, weight_kg, reps, notes, import_hash, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id;`,
		set.UserID, set.WorkoutDate, set.ExerciseName, set.MuscleGroups,
		set.WeightKg, set.Reps, set.Notes, set.ImportHash, set.CreatedAt,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrSetDuplicate
		}
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrSetDuplicate
		}
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("set.id", id))

	set.ID = id
	return &set, nil
}

func (r *Repo) Update(ctx context.Context, set *Set) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", set.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout_set
			SET workout_date = $1, exercise_name = $2, muscle_groups = $3, weight_kg = $4, reps = $5, notes = $6
			WHERE id = $7 AND user_id = $8;`,
		set.WorkoutDate, set.ExerciseName, set.MuscleGroups, set.WeightKg, set.Reps, set.Notes,
		set.ID, set.UserID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrSetNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_set WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSetNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, workout_date, exercise_name, muscle_groups, weight_kg, reps, notes, created_at
			FROM workout_set
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sets, err := r.rows2sets(rows)
	if err != nil {
		return nil, err
	}

	if len(sets) != 1 {
		return nil, ErrSetNotFound
	}

	return &sets[0], nil
}

// ListAll returns all workout sets matching the given params, newest first.
// The analytics pipeline uses it to fetch the complete current collection
// of a user before each recomputation.
func (r *Repo) ListAll(ctx context.Context, params SetParams) (_ []Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", params.UserID.String()))
	span.SetAttributes(attribute.String("muscle_group", params.MuscleGroup))
	span.SetAttributes(attribute.String("exercise_name", params.ExerciseName))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, workout_date, exercise_name, muscle_groups, weight_kg, reps, notes, created_at
			FROM workout_set
				WHERE user_id = $1
				AND ($2::text = '' OR muscle_groups ILIKE '%' || $2 || '%')
				AND ($3::text = '' OR exercise_name = $3)
				AND ($4::date IS NULL OR workout_date >= $4)
				AND ($5::date IS NULL OR workout_date <= $5)
			ORDER BY workout_date DESC, id DESC;`,
		params.UserID, params.MuscleGroup, params.ExerciseName,
		params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	sets, err := r.rows2sets(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2sets: %w", err)
	}
	return sets, nil
}

// List is like ListAll, but returns the specific PAGE, i.e. is used for pagination.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Set, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	limit := params.Size
	offset := (params.Page - 1) * params.Size
	countAll, err := r.Count(ctx, params.SetParams)
	if err != nil {
		return nil, -1, err
	}

	if countAll <= limit {
		limit = countAll
		offset = 0
	}
	if countAll-offset < limit {
		offset = countAll - limit
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, workout_date, exercise_name, muscle_groups, weight_kg, reps, notes, created_at
			FROM workout_set
				WHERE user_id = $1
				AND ($2::text = '' OR muscle_groups ILIKE '%' || $2 || '%')
				AND ($3::text = '' OR exercise_name = $3)
			ORDER BY workout_date DESC, id DESC
			LIMIT $4
			OFFSET $5;`,
		params.UserID, params.MuscleGroup, params.ExerciseName,
		limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, -1, err
	}

	sets, err := r.rows2sets(rows)
	if err != nil {
		return nil, -1, err
	}
	return sets, countAll, nil
}

func (r *Repo) Count(ctx context.Context, params SetParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT COUNT(*) FROM workout_set
			WHERE user_id = $1
			AND ($2::text = '' OR muscle_groups ILIKE '%' || $2 || '%')
			AND ($3::text = '' OR exercise_name = $3)
			AND ($4::date IS NULL OR workout_date >= $4)
			AND ($5::date IS NULL OR workout_date <= $5);
	`,
		params.UserID, params.MuscleGroup, params.ExerciseName,
		params.From, params.To,
	)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get workout sets count")
}

// UpsertBatch inserts the given sets, skipping rows whose (user_id, import_hash)
// already exists. Used by the Excel importer; returns the number of rows written.
func (r *Repo) UpsertBatch(ctx context.Context, sets []Set) (inserted int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.upsertbatch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("batch_size", len(sets)))

	batch := &pgx.Batch{}
	for _, set := range sets {
		batch.Queue(
			`INSERT INTO workout_set
					(user_id, workout_date, exercise_name, muscle_groups, weight_kg, reps, notes, import_hash, created_at)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (user_id, import_hash) DO NOTHING;`,
			set.UserID, set.WorkoutDate, set.ExerciseName, set.MuscleGroups,
			set.WeightKg, set.Reps, set.Notes, set.ImportHash, set.CreatedAt,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer func() {
		if closeErr := results.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for range sets {
		tag, execErr := results.Exec()
		if execErr != nil {
			return inserted, fmt.Errorf("batch exec: %w", execErr)
		}
		inserted += tag.RowsAffected()
	}

	return inserted, nil
}

func (r *Repo) rows2sets(rows pgx.Rows) ([]Set, error) {
	var sets []Set
	for rows.Next() {
		var s Set
		var weight *float64
		var reps *int
		var notes *string
		var createdAt time.Time
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.WorkoutDate, &s.ExerciseName, &s.MuscleGroups,
			&weight, &reps, &notes, &createdAt,
		); err != nil {
			return nil, err
		}
		s.WeightKg = weight
		s.Reps = reps
		if notes != nil {
			s.Notes = *notes
		}
		s.CreatedAt = createdAt
		sets = append(sets, s)
	}

	if sets == nil {
		sets = make([]Set, 0)
	}

	return sets, nil
}
