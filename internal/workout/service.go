// Package workout implements the workout domain: the exercise catalog, the
// plan generation algorithm, and persistence of plans, sessions and
// preferences scoped to a device.
package workout

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"liftplan/internal/errors"
	"liftplan/internal/sqlite"
)

var (
	// ErrInvalidDifficultyRating is returned for feedback outside 1-5.
	ErrInvalidDifficultyRating = errors.NewSentinel("difficulty rating must be between 1 and 5")
	// ErrInvalidMuscleGroup is returned when a request names an unknown muscle group.
	ErrInvalidMuscleGroup = errors.NewSentinel("unknown muscle group")
	// ErrInvalidPreferences is returned when saved preferences fail validation.
	ErrInvalidPreferences = errors.NewSentinel("invalid preferences")
)

// Service handles the business logic for workout management.
type Service struct {
	repo   *repository
	logger *slog.Logger
	newID  func() string
	newRng func() *rand.Rand
}

// NewService creates a new workout service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	factory := newRepositoryFactory(db, logger)
	return &Service{
		repo:   factory.newRepository(),
		logger: logger,
		newID:  uuid.NewString,
		newRng: func() *rand.Rand {
			// A fresh generator per call keeps concurrent requests from
			// sharing an unsynchronised rand.Rand.
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
}

// GenerateWorkout assembles a workout plan from the generation preferences,
// filling gaps from the device's saved preferences. The returned plan is not
// persisted; callers save it explicitly with SavePlan.
func (s *Service) GenerateWorkout(ctx context.Context, prefs GenerationPreferences) (Plan, error) {
	saved, err := s.repo.prefs.Get(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("get preferences: %w", err)
	}

	if len(prefs.MuscleGroups) == 0 {
		prefs.MuscleGroups = saved.MuscleGroups
	}
	if len(prefs.MuscleGroups) == 0 {
		return Plan{}, ErrNoMuscleGroups
	}
	for _, muscle := range prefs.MuscleGroups {
		if !muscle.Valid() {
			return Plan{}, errors.Wrap(ErrInvalidMuscleGroup, "validate muscle groups",
				slog.String("muscleGroup", string(muscle)))
		}
	}
	if prefs.DurationMinutes == nil && saved.TargetDurationMinutes > 0 {
		prefs.DurationMinutes = &saved.TargetDurationMinutes
	}
	if prefs.Difficulty == nil {
		prefs.Difficulty = saved.Difficulty
	}

	catalog, err := s.repo.exercises.List(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("get exercise pool: %w", err)
	}

	gen := newGenerator(catalog, s.newRng(), s.newID)
	plan, err := gen.Generate(prefs)
	if err != nil {
		return Plan{}, fmt.Errorf("generate workout: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated workout",
		slog.String("name", plan.Name),
		slog.Int("exerciseCount", len(plan.Exercises)),
		slog.Int("defaultRestSeconds", plan.DefaultRestSeconds))

	return plan, nil
}

// RecommendedExercises returns up to count catalog entries whose primary
// muscle group and category match exactly.
func (s *Service) RecommendedExercises(
	ctx context.Context,
	muscle MuscleGroup,
	category Category,
	count int,
) ([]Exercise, error) {
	catalog, err := s.repo.exercises.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	var recommended []Exercise
	for _, ex := range catalog {
		if ex.PrimaryMuscleGroup != muscle || ex.Category != category {
			continue
		}
		recommended = append(recommended, ex)
		if len(recommended) == count {
			break
		}
	}
	return recommended, nil
}

// ListExercises returns all available exercises.
func (s *Service) ListExercises(ctx context.Context) ([]Exercise, error) {
	exercises, err := s.repo.exercises.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return exercises, nil
}

// GetExercise retrieves a specific exercise by ID.
func (s *Service) GetExercise(ctx context.Context, id string) (Exercise, error) {
	exercise, err := s.repo.exercises.Get(ctx, id)
	if err != nil {
		return Exercise{}, fmt.Errorf("get exercise: %w", err)
	}
	return exercise, nil
}

// ListMuscleGroups retrieves all available muscle groups.
func (s *Service) ListMuscleGroups(ctx context.Context) ([]MuscleGroup, error) {
	groups, err := s.repo.exercises.ListMuscleGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list muscle groups: %w", err)
	}
	return groups, nil
}

// SavePlan persists a plan for the current device, assigning an ID when the
// plan does not have one yet.
func (s *Service) SavePlan(ctx context.Context, plan Plan) (Plan, error) {
	if plan.ID == "" {
		plan.ID = s.newID()
	}
	if err := s.repo.plans.Create(ctx, plan); err != nil {
		return Plan{}, fmt.Errorf("save plan: %w", err)
	}

	saved, err := s.repo.plans.Get(ctx, plan.ID)
	if err != nil {
		return Plan{}, fmt.Errorf("reload saved plan: %w", err)
	}
	return saved, nil
}

// GetPlan retrieves a plan by ID for the current device.
func (s *Service) GetPlan(ctx context.Context, id string) (Plan, error) {
	plan, err := s.repo.plans.Get(ctx, id)
	if err != nil {
		return Plan{}, fmt.Errorf("get plan: %w", err)
	}
	return plan, nil
}

// ListPlans retrieves all plans for the current device, newest first.
func (s *Service) ListPlans(ctx context.Context) ([]Plan, error) {
	plans, err := s.repo.plans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// DeletePlan removes a plan and its sessions for the current device.
func (s *Service) DeletePlan(ctx context.Context, id string) error {
	if err := s.repo.plans.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// StartSession starts a new workout session for a plan.
func (s *Service) StartSession(ctx context.Context, planID string) (Session, error) {
	// The plan lookup doubles as the device ownership check.
	if _, err := s.repo.plans.Get(ctx, planID); err != nil {
		return Session{}, fmt.Errorf("get plan: %w", err)
	}

	sess := Session{
		ID:               s.newID(),
		PlanID:           planID,
		StartedAt:        time.Now(),
		CompletedAt:      nil,
		DifficultyRating: nil,
		SetResults:       nil,
	}
	if err := s.repo.sessions.Create(ctx, sess); err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}

	return sess, nil
}

// GetSession retrieves a session by ID for the current device.
func (s *Service) GetSession(ctx context.Context, id string) (Session, error) {
	sess, err := s.repo.sessions.Get(ctx, id)
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// ListSessions retrieves the workout history for the current device.
func (s *Service) ListSessions(ctx context.Context) ([]Session, error) {
	sessions, err := s.repo.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// CompleteSession marks a workout session as completed. Completing an
// already completed session is a no-op.
func (s *Service) CompleteSession(ctx context.Context, id string) error {
	if err := s.repo.sessions.Update(ctx, id, func(sess *Session) (bool, error) {
		if sess.CompletedAt != nil {
			return false, nil
		}
		now := time.Now()
		sess.CompletedAt = &now
		return true, nil
	}); err != nil {
		return fmt.Errorf("update session %s: %w", id, err)
	}

	return nil
}

// RecordSetResult records the completed reps for a set, replacing any earlier
// result for the same exercise and set number.
func (s *Service) RecordSetResult(ctx context.Context, sessionID string, result SetResult) error {
	if result.SetNumber < 1 {
		return errors.New("set number must be positive")
	}
	if result.CompletedReps < 0 {
		return errors.New("completed reps must not be negative")
	}

	if err := s.repo.sessions.Update(ctx, sessionID, func(sess *Session) (bool, error) {
		for i, existing := range sess.SetResults {
			if existing.ExerciseID == result.ExerciseID && existing.SetNumber == result.SetNumber {
				sess.SetResults[i] = result
				return true, nil
			}
		}
		sess.SetResults = append(sess.SetResults, result)
		return true, nil
	}); err != nil {
		return fmt.Errorf("update session %s: %w", sessionID, err)
	}

	return nil
}

// SaveFeedback saves the 1-5 difficulty rating for a workout session.
func (s *Service) SaveFeedback(ctx context.Context, sessionID string, difficulty int) error {
	if difficulty < 1 || difficulty > 5 {
		return errors.Wrap(ErrInvalidDifficultyRating, "validate feedback",
			slog.Int("difficulty", difficulty))
	}

	if err := s.repo.sessions.Update(ctx, sessionID, func(sess *Session) (bool, error) {
		sess.DifficultyRating = &difficulty
		return true, nil
	}); err != nil {
		return fmt.Errorf("update session %s: %w", sessionID, err)
	}

	return nil
}

// GetPreferences retrieves the generation defaults for the current device.
func (s *Service) GetPreferences(ctx context.Context) (Preferences, error) {
	prefs, err := s.repo.prefs.Get(ctx)
	if err != nil {
		return Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	return prefs, nil
}

// SavePreferences saves the generation defaults for the current device.
func (s *Service) SavePreferences(ctx context.Context, prefs Preferences) error {
	if prefs.TargetDurationMinutes < 1 {
		return errors.Wrap(ErrInvalidPreferences, "target duration must be positive",
			slog.Int("targetDurationMinutes", prefs.TargetDurationMinutes))
	}
	if prefs.Difficulty != nil && !prefs.Difficulty.Valid() {
		return errors.Wrap(ErrInvalidPreferences, "unknown difficulty",
			slog.String("difficulty", string(*prefs.Difficulty)))
	}
	for _, muscle := range prefs.MuscleGroups {
		if !muscle.Valid() {
			return errors.Wrap(ErrInvalidMuscleGroup, "validate preferences",
				slog.String("muscleGroup", string(muscle)))
		}
	}

	if err := s.repo.prefs.Set(ctx, prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
