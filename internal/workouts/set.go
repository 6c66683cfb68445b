package workouts

import (
	"time"

	"github.com/google/uuid"
)

// Set is one logged workout set. MuscleGroups is free text and may contain
// several comma-separated groups; the analytics pipeline splits it up.
// WeightKg and Reps are pointers: legacy imports miss either of them.
type Set struct {
	ID           int       `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	WorkoutDate  time.Time `json:"workoutDate"`
	ExerciseName string    `json:"exerciseName"`
	MuscleGroups string    `json:"muscleGroups"`
	WeightKg     *float64  `json:"weightKg,omitempty"`
	Reps         *int      `json:"reps,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	ImportHash   string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SetParams struct {
	UserID       uuid.UUID
	MuscleGroup  string
	ExerciseName string
	From         *time.Time
	To           *time.Time
}

type ListParams struct {
	SetParams
	Page int
	Size int
}

// Exercise is one entry of the per-user exercise catalog,
// seeded from imports and extended from the workout editor.
type Exercise struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	MuscleGroup string    `json:"muscleGroup,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
