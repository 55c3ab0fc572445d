package workout

import (
	"time"
)

// MuscleGroup is one of the fixed body regions an exercise targets.
type MuscleGroup string

const (
	MuscleChest     MuscleGroup = "Chest"
	MuscleBack      MuscleGroup = "Back"
	MuscleShoulders MuscleGroup = "Shoulders"
	MuscleArms      MuscleGroup = "Arms"
	MuscleLegs      MuscleGroup = "Legs"
	MuscleCore      MuscleGroup = "Core"
)

// AllMuscleGroups lists the muscle groups in canonical display order.
func AllMuscleGroups() []MuscleGroup {
	return []MuscleGroup{MuscleChest, MuscleBack, MuscleShoulders, MuscleArms, MuscleLegs, MuscleCore}
}

// Valid reports whether m is one of the known muscle groups.
func (m MuscleGroup) Valid() bool {
	switch m {
	case MuscleChest, MuscleBack, MuscleShoulders, MuscleArms, MuscleLegs, MuscleCore:
		return true
	}
	return false
}

// Category classifies the role an exercise plays in a workout.
type Category string

const (
	CategoryCompound  Category = "compound"
	CategoryIsolation Category = "isolation"
	CategoryFinisher  Category = "finisher"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryCompound, CategoryIsolation, CategoryFinisher:
		return true
	}
	return false
}

// Difficulty is the experience level an exercise is suited for.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Exercise represents a single catalog entry, e.g. Squat, Bench Press, etc.
//
// Difficulty is nil when the exercise fits any difficulty level. RestSeconds
// is nil when the exercise uses the workout's default rest.
type Exercise struct {
	ID                    string        `json:"id"`
	Name                  string        `json:"name"`
	Category              Category      `json:"category"`
	Difficulty            *Difficulty   `json:"difficulty,omitempty"`
	PrimaryMuscleGroup    MuscleGroup   `json:"primary_muscle_group"`
	SecondaryMuscleGroups []MuscleGroup `json:"secondary_muscle_groups,omitempty"`
	Equipment             []string      `json:"equipment,omitempty"`
	DefaultSets           int           `json:"default_sets"`
	RepRange              string        `json:"rep_range"`
	RestSeconds           *int          `json:"rest_seconds,omitempty"`
	DescriptionMarkdown   string        `json:"description_markdown"`
}

// GenerationPreferences describes a single auto-generation request.
type GenerationPreferences struct {
	MuscleGroups    []MuscleGroup `json:"muscle_groups"`
	DurationMinutes *int          `json:"duration_minutes,omitempty"`
	Difficulty      *Difficulty   `json:"difficulty,omitempty"`
	ExerciseCount   *int          `json:"exercise_count,omitempty"`
}

// Plan is an ordered workout: all compound exercises first, then isolations,
// then finishers. A generated plan is not persisted until the caller saves it.
type Plan struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	MuscleGroups       []MuscleGroup `json:"muscle_groups"`
	DefaultRestSeconds int           `json:"default_rest_seconds"`
	Exercises          []Exercise    `json:"exercises"`
	CreatedAt          time.Time     `json:"created_at"`
}

// SetResult records the completed reps for one set of one exercise in a session.
type SetResult struct {
	ExerciseID    string `json:"exercise_id"`
	SetNumber     int    `json:"set_number"`
	CompletedReps int    `json:"completed_reps"`
}

// Session is an execution record of a plan.
//
// DifficultyRating is the 1-5 feedback given after completion, nil until then.
type Session struct {
	ID               string      `json:"id"`
	PlanID           string      `json:"plan_id"`
	StartedAt        time.Time   `json:"started_at"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
	DifficultyRating *int        `json:"difficulty_rating,omitempty"`
	SetResults       []SetResult `json:"set_results"`
}

// Preferences stores per-device generation defaults.
type Preferences struct {
	TargetDurationMinutes int           `json:"target_duration_minutes"`
	Difficulty            *Difficulty   `json:"difficulty,omitempty"`
	MuscleGroups          []MuscleGroup `json:"muscle_groups"`
}
