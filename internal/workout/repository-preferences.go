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

// sqlitePreferencesRepository persists generation defaults per device.
type sqlitePreferencesRepository struct {
	baseRepository
}

// newSQLitePreferenceRepository creates a new SQLite preferences repository.
func newSQLitePreferenceRepository(db *sqlite.Database, logger *slog.Logger) *sqlitePreferencesRepository {
	return &sqlitePreferencesRepository{
		baseRepository: newBaseRepository(db, logger),
	}
}

// Get retrieves the preferences for the device in the context, falling back
// to defaults when the device has not saved any.
func (r *sqlitePreferencesRepository) Get(ctx context.Context) (Preferences, error) {
	deviceID := contexthelpers.DeviceID(ctx)

	var (
		prefs      Preferences
		difficulty sql.NullString
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT target_duration_minutes, difficulty
		FROM preferences
		WHERE device_id = ?`, deviceID).Scan(&prefs.TargetDurationMinutes, &difficulty)

	if errors.Is(err, sql.ErrNoRows) {
		return Preferences{
			TargetDurationMinutes: defaultDurationMinutes,
			Difficulty:            nil,
			MuscleGroups:          nil,
		}, nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("query preferences: %w", err)
	}

	if difficulty.Valid {
		d := Difficulty(difficulty.String)
		prefs.Difficulty = &d
	}

	if prefs.MuscleGroups, err = r.fetchPreferredMuscles(ctx, deviceID); err != nil {
		return Preferences{}, fmt.Errorf("fetch preferred muscles: %w", err)
	}

	return prefs, nil
}

// Set saves the preferences for the device in the context.
func (r *sqlitePreferencesRepository) Set(ctx context.Context, prefs Preferences) (err error) {
	deviceID := contexthelpers.DeviceID(ctx)
	now := time.Now().UTC().Format(timestampFormat)

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback transaction: %w", rollbackErr))
		}
	}()

	var difficulty any
	if prefs.Difficulty != nil {
		difficulty = string(*prefs.Difficulty)
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO preferences (device_id, target_duration_minutes, difficulty, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (device_id) DO UPDATE SET
			target_duration_minutes = excluded.target_duration_minutes,
			difficulty = excluded.difficulty,
			updated_at = excluded.updated_at`,
		deviceID, prefs.TargetDurationMinutes, difficulty, now, now); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}

	// Replace the preferred muscle groups wholesale.
	if _, err = tx.ExecContext(ctx, `
		DELETE FROM preference_muscle_groups
		WHERE device_id = ?`, deviceID); err != nil {
		return fmt.Errorf("delete preferred muscles: %w", err)
	}
	for _, muscle := range prefs.MuscleGroups {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO preference_muscle_groups (device_id, muscle_group)
			VALUES (?, ?)`,
			deviceID, string(muscle)); err != nil {
			return fmt.Errorf("insert preferred muscle %s: %w", muscle, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// fetchPreferredMuscles retrieves the preferred muscle groups for a device.
func (r *sqlitePreferencesRepository) fetchPreferredMuscles(
	ctx context.Context,
	deviceID string,
) (_ []MuscleGroup, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT muscle_group
		FROM preference_muscle_groups
		WHERE device_id = ?
		ORDER BY muscle_group`, deviceID)
	if err != nil {
		return nil, fmt.Errorf("query preferred muscles: %w", err)
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
			return nil, fmt.Errorf("scan preferred muscle: %w", err)
		}
		muscleGroups = append(muscleGroups, MuscleGroup(name))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return muscleGroups, nil
}
