package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"liftplan/internal/contexthelpers"
	"liftplan/internal/sqlite"
)

// sqlitePlanRepository persists workout plans per device.
type sqlitePlanRepository struct {
	baseRepository
	exerciseRepo *sqliteExerciseRepository
}

// newSQLitePlanRepository creates a new SQLite plan repository.
func newSQLitePlanRepository(
	db *sqlite.Database,
	logger *slog.Logger,
	exerciseRepo *sqliteExerciseRepository,
) *sqlitePlanRepository {
	return &sqlitePlanRepository{
		baseRepository: newBaseRepository(db, logger),
		exerciseRepo:   exerciseRepo,
	}
}

// Create persists a plan for the device in the context.
func (r *sqlitePlanRepository) Create(ctx context.Context, plan Plan) (err error) {
	deviceID := contexthelpers.DeviceID(ctx)
	createdAt := time.Now().UTC()

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback transaction: %w", rollbackErr))
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO workout_plans (id, device_id, name, default_rest_seconds, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		plan.ID, deviceID, plan.Name, plan.DefaultRestSeconds, createdAt.Format(timestampFormat))
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}

	for _, muscle := range plan.MuscleGroups {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO workout_plan_muscle_groups (plan_id, muscle_group)
			VALUES (?, ?)`,
			plan.ID, string(muscle)); err != nil {
			return fmt.Errorf("insert plan muscle group %s: %w", muscle, err)
		}
	}

	for i, ex := range plan.Exercises {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO workout_plan_exercises (plan_id, exercise_id, exercise_order)
			VALUES (?, ?, ?)`,
			plan.ID, ex.ID, i); err != nil {
			return fmt.Errorf("insert plan exercise %s: %w", ex.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Get retrieves a plan by ID for the device in the context.
func (r *sqlitePlanRepository) Get(ctx context.Context, id string) (Plan, error) {
	deviceID := contexthelpers.DeviceID(ctx)

	var (
		plan         Plan
		createdAtStr string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, name, default_rest_seconds, created_at
		FROM workout_plans
		WHERE id = ? AND device_id = ?`,
		id, deviceID).Scan(&plan.ID, &plan.Name, &plan.DefaultRestSeconds, &createdAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return Plan{}, ErrNotFound
	}
	if err != nil {
		return Plan{}, fmt.Errorf("query plan: %w", err)
	}

	if plan.CreatedAt, err = time.Parse(timestampFormat, createdAtStr); err != nil {
		return Plan{}, fmt.Errorf("parse created_at: %w", err)
	}

	if plan.MuscleGroups, err = r.fetchPlanMuscleGroups(ctx, plan.ID); err != nil {
		return Plan{}, fmt.Errorf("fetch plan muscle groups: %w", err)
	}
	if plan.Exercises, err = r.fetchPlanExercises(ctx, plan.ID); err != nil {
		return Plan{}, fmt.Errorf("fetch plan exercises: %w", err)
	}

	return plan, nil
}

// List retrieves all plans for the device in the context, newest first.
func (r *sqlitePlanRepository) List(ctx context.Context) (_ []Plan, err error) {
	deviceID := contexthelpers.DeviceID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id
		FROM workout_plans
		WHERE device_id = ?
		ORDER BY created_at DESC, id`,
		deviceID)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan plan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	var plans []Plan
	for _, id := range ids {
		var plan Plan
		if plan, err = r.Get(ctx, id); err != nil {
			return nil, fmt.Errorf("get plan %s: %w", id, err)
		}
		plans = append(plans, plan)
	}

	return plans, nil
}

// Delete removes a plan and its sessions for the device in the context.
func (r *sqlitePlanRepository) Delete(ctx context.Context, id string) error {
	deviceID := contexthelpers.DeviceID(ctx)

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM workout_plans
		WHERE id = ? AND device_id = ?`,
		id, deviceID)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// fetchPlanMuscleGroups retrieves the target muscle groups of a plan.
func (r *sqlitePlanRepository) fetchPlanMuscleGroups(ctx context.Context, planID string) (_ []MuscleGroup, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT muscle_group
		FROM workout_plan_muscle_groups
		WHERE plan_id = ?
		ORDER BY muscle_group`, planID)
	if err != nil {
		return nil, fmt.Errorf("query plan muscle groups: %w", err)
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
			return nil, fmt.Errorf("scan plan muscle group: %w", err)
		}
		muscleGroups = append(muscleGroups, MuscleGroup(name))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return muscleGroups, nil
}

// fetchPlanExercises retrieves the ordered exercises of a plan.
func (r *sqlitePlanRepository) fetchPlanExercises(ctx context.Context, planID string) (_ []Exercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT exercise_id
		FROM workout_plan_exercises
		WHERE plan_id = ?
		ORDER BY exercise_order`, planID)
	if err != nil {
		return nil, fmt.Errorf("query plan exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exerciseIDs []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan plan exercise id: %w", err)
		}
		exerciseIDs = append(exerciseIDs, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	var exercises []Exercise
	for _, id := range exerciseIDs {
		var exercise Exercise
		if exercise, err = r.exerciseRepo.Get(ctx, id); err != nil {
			return nil, fmt.Errorf("fetch exercise %s: %w", id, err)
		}
		exercises = append(exercises, exercise)
	}

	return exercises, nil
}
