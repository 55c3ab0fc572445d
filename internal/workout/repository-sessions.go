package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"liftplan/internal/contexthelpers"
	"liftplan/internal/sqlite"
)

// sqliteSessionRepository persists workout sessions per device.
type sqliteSessionRepository struct {
	baseRepository
}

// newSQLiteSessionRepository creates a new SQLite session repository.
func newSQLiteSessionRepository(db *sqlite.Database, logger *slog.Logger) *sqliteSessionRepository {
	return &sqliteSessionRepository{
		baseRepository: newBaseRepository(db, logger),
	}
}

// Create adds a new workout session.
func (r *sqliteSessionRepository) Create(ctx context.Context, sess Session) error {
	if err := r.set(ctx, sess, false); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID for the device in the context.
func (r *sqliteSessionRepository) Get(ctx context.Context, id string) (Session, error) {
	deviceID := contexthelpers.DeviceID(ctx)

	var (
		sess             Session
		startedAtStr     string
		completedAtStr   sql.NullString
		difficultyRating sql.NullInt32
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, plan_id, started_at, completed_at, difficulty_rating
		FROM workout_sessions
		WHERE id = ? AND device_id = ?`,
		id, deviceID).Scan(&sess.ID, &sess.PlanID, &startedAtStr, &completedAtStr, &difficultyRating)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("query session: %w", err)
	}

	sess, err = r.parseSessionRow(sess, startedAtStr, completedAtStr, difficultyRating)
	if err != nil {
		return Session{}, err
	}

	if sess.SetResults, err = r.loadSetResults(ctx, sess.ID); err != nil {
		return Session{}, fmt.Errorf("load set results: %w", err)
	}

	return sess, nil
}

// List retrieves all sessions for the device in the context, newest first.
func (r *sqliteSessionRepository) List(ctx context.Context) (_ []Session, err error) {
	deviceID := contexthelpers.DeviceID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, plan_id, started_at, completed_at, difficulty_rating
		FROM workout_sessions
		WHERE device_id = ?
		ORDER BY started_at DESC, id`,
		deviceID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var sessions []Session
	for rows.Next() {
		var (
			sess             Session
			startedAtStr     string
			completedAtStr   sql.NullString
			difficultyRating sql.NullInt32
		)
		if err = rows.Scan(&sess.ID, &sess.PlanID, &startedAtStr, &completedAtStr, &difficultyRating); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		if sess, err = r.parseSessionRow(sess, startedAtStr, completedAtStr, difficultyRating); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range sessions {
		if sessions[i].SetResults, err = r.loadSetResults(ctx, sessions[i].ID); err != nil {
			return nil, fmt.Errorf("load set results for session %s: %w", sessions[i].ID, err)
		}
	}

	return sessions, nil
}

// Update modifies an existing workout session through the update callback.
// The callback returns true when its changes should be persisted.
func (r *sqliteSessionRepository) Update(
	ctx context.Context,
	id string,
	updateFn func(sess *Session) (bool, error),
) error {
	session, err := r.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get session for update: %w", err)
	}

	updated, err := updateFn(&session)
	if err != nil {
		return fmt.Errorf("update function: %w", err)
	}

	if !updated {
		return nil
	}

	if err = r.set(ctx, session, true); err != nil {
		return fmt.Errorf("save updated session: %w", err)
	}

	return nil
}

// set creates a workout session with optional upsert.
func (r *sqliteSessionRepository) set(ctx context.Context, sess Session, upsert bool) (err error) {
	deviceID := contexthelpers.DeviceID(ctx)

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback transaction: %w", rollbackErr))
		}
	}()

	// Delete the session so that it can be reinserted with its set results.
	if upsert {
		if _, err = tx.ExecContext(ctx, `
			DELETE FROM workout_sessions
			WHERE id = ? AND device_id = ?`,
			sess.ID, deviceID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}

	startedAt := sess.StartedAt
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO workout_sessions (id, device_id, plan_id, started_at, completed_at, difficulty_rating)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, deviceID, sess.PlanID,
		startedAt.UTC().Format(timestampFormat), formatTimestamp(sess.CompletedAt), sess.DifficultyRating,
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for _, result := range sess.SetResults {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO workout_session_sets (session_id, exercise_id, set_number, completed_reps)
			VALUES (?, ?, ?, ?)`,
			sess.ID, result.ExerciseID, result.SetNumber, result.CompletedReps); err != nil {
			return fmt.Errorf("insert set result: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// parseSessionRow converts database values to a Session.
func (r *sqliteSessionRepository) parseSessionRow(
	sess Session,
	startedAtStr string,
	completedAtStr sql.NullString,
	difficultyRating sql.NullInt32,
) (Session, error) {
	startedAt, err := parseTimestamp(sql.NullString{String: startedAtStr, Valid: true})
	if err != nil {
		return Session{}, fmt.Errorf("parse started_at: %w", err)
	}
	sess.StartedAt = *startedAt

	if sess.CompletedAt, err = parseTimestamp(completedAtStr); err != nil {
		return Session{}, fmt.Errorf("parse completed_at: %w", err)
	}

	if difficultyRating.Valid {
		rating := int(difficultyRating.Int32)
		sess.DifficultyRating = &rating
	}

	return sess, nil
}

// loadSetResults fetches the recorded set results for a session.
func (r *sqliteSessionRepository) loadSetResults(ctx context.Context, sessionID string) (_ []SetResult, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT exercise_id, set_number, completed_reps
		FROM workout_session_sets
		WHERE session_id = ?
		ORDER BY exercise_id, set_number`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("query set results: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var results []SetResult
	for rows.Next() {
		var result SetResult
		if err = rows.Scan(&result.ExerciseID, &result.SetNumber, &result.CompletedReps); err != nil {
			return nil, fmt.Errorf("scan set result: %w", err)
		}
		results = append(results, result)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return results, nil
}
