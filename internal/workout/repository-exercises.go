package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"liftplan/internal/sqlite"
)

// sqliteExerciseRepository reads the exercise catalog.
type sqliteExerciseRepository struct {
	baseRepository
}

// newSQLiteExerciseRepository creates a new SQLite exercise repository.
func newSQLiteExerciseRepository(db *sqlite.Database, logger *slog.Logger) *sqliteExerciseRepository {
	return &sqliteExerciseRepository{
		baseRepository: newBaseRepository(db, logger),
	}
}

// Get retrieves a single exercise by ID.
func (r *sqliteExerciseRepository) Get(ctx context.Context, id string) (Exercise, error) {
	var (
		exercise    Exercise
		difficulty  sql.NullString
		restSeconds sql.NullInt32
	)

	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, name, category, difficulty, primary_muscle_group,
		       default_sets, rep_range, rest_seconds, description_markdown
		FROM exercises
		WHERE id = ?`, id).Scan(
		&exercise.ID,
		&exercise.Name,
		&exercise.Category,
		&difficulty,
		&exercise.PrimaryMuscleGroup,
		&exercise.DefaultSets,
		&exercise.RepRange,
		&restSeconds,
		&exercise.DescriptionMarkdown,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Exercise{}, ErrNotFound
	}
	if err != nil {
		return Exercise{}, fmt.Errorf("query exercise: %w", err)
	}

	if difficulty.Valid {
		d := Difficulty(difficulty.String)
		exercise.Difficulty = &d
	}
	if restSeconds.Valid {
		rest := int(restSeconds.Int32)
		exercise.RestSeconds = &rest
	}

	if exercise.SecondaryMuscleGroups, err = r.fetchSecondaryMuscles(ctx, exercise.ID); err != nil {
		return Exercise{}, fmt.Errorf("fetch secondary muscles for exercise %s: %w", exercise.ID, err)
	}
	if exercise.Equipment, err = r.fetchEquipment(ctx, exercise.ID); err != nil {
		return Exercise{}, fmt.Errorf("fetch equipment for exercise %s: %w", exercise.ID, err)
	}

	return exercise, nil
}

// List returns the full exercise catalog in stable catalog order.
func (r *sqliteExerciseRepository) List(ctx context.Context) (_ []Exercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, name, category, difficulty, primary_muscle_group,
		       default_sets, rep_range, rest_seconds, description_markdown
		FROM exercises
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []Exercise
	for rows.Next() {
		var (
			exercise    Exercise
			difficulty  sql.NullString
			restSeconds sql.NullInt32
		)
		if err = rows.Scan(
			&exercise.ID,
			&exercise.Name,
			&exercise.Category,
			&difficulty,
			&exercise.PrimaryMuscleGroup,
			&exercise.DefaultSets,
			&exercise.RepRange,
			&restSeconds,
			&exercise.DescriptionMarkdown,
		); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		if difficulty.Valid {
			d := Difficulty(difficulty.String)
			exercise.Difficulty = &d
		}
		if restSeconds.Valid {
			rest := int(restSeconds.Int32)
			exercise.RestSeconds = &rest
		}
		exercises = append(exercises, exercise)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i, exercise := range exercises {
		if exercises[i].SecondaryMuscleGroups, err = r.fetchSecondaryMuscles(ctx, exercise.ID); err != nil {
			return nil, fmt.Errorf("fetch secondary muscles for exercise %s: %w", exercise.ID, err)
		}
		if exercises[i].Equipment, err = r.fetchEquipment(ctx, exercise.ID); err != nil {
			return nil, fmt.Errorf("fetch equipment for exercise %s: %w", exercise.ID, err)
		}
	}

	return exercises, nil
}

// fetchSecondaryMuscles retrieves the secondary muscle groups for an exercise.
func (r *sqliteExerciseRepository) fetchSecondaryMuscles(
	ctx context.Context,
	exerciseID string,
) (_ []MuscleGroup, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
        SELECT muscle_group
        FROM exercise_secondary_muscles
        WHERE exercise_id = ?
        ORDER BY muscle_group`, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("query secondary muscles: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var muscleGroups []MuscleGroup
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan secondary muscle row: %w", err)
		}
		muscleGroups = append(muscleGroups, MuscleGroup(name))
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate secondary muscle rows: %w", err)
	}

	return muscleGroups, nil
}

// fetchEquipment retrieves the equipment tags for an exercise.
func (r *sqliteExerciseRepository) fetchEquipment(ctx context.Context, exerciseID string) (_ []string, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
        SELECT equipment
        FROM exercise_equipment
        WHERE exercise_id = ?
        ORDER BY equipment`, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("query equipment: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var equipment []string
	for rows.Next() {
		var tag string
		if err = rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan equipment row: %w", err)
		}
		equipment = append(equipment, tag)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equipment rows: %w", err)
	}

	return equipment, nil
}

// ListMuscleGroups retrieves all available muscle groups.
func (r *sqliteExerciseRepository) ListMuscleGroups(ctx context.Context) (_ []MuscleGroup, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT name
		FROM muscle_groups
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query muscle groups: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var muscleGroups []MuscleGroup
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan muscle group: %w", err)
		}
		muscleGroups = append(muscleGroups, MuscleGroup(name))
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return muscleGroups, nil
}
