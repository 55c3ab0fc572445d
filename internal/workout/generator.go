package workout

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"liftplan/internal/errors"
)

// ErrNoMuscleGroups is returned when generation is requested without any
// target muscle groups. Callers are expected to validate before calling.
var ErrNoMuscleGroups = errors.NewSentinel("no muscle groups selected")

const (
	// perSetSeconds is the assumed working time of a single set.
	perSetSeconds = 40
	// transitionSeconds is the assumed time to move between exercises.
	transitionSeconds = 60
	// averageSetsPerExercise sizes the duration budget when estimating how
	// many exercises fit in a workout.
	averageSetsPerExercise = 3

	// minExercisesPerWorkout and maxExercisesPerWorkout clamp the estimate:
	// fewer than 3 exercises is not a full session, more than 12 is
	// impractical regardless of the time budget.
	minExercisesPerWorkout = 3
	maxExercisesPerWorkout = 12

	defaultDurationMinutes = 60

	// Leg exercises need longer recovery between sets.
	legsRestSeconds     = 90
	standardRestSeconds = 60

	// fallbackExerciseCount is how many exercises are drawn from the
	// muscle-filtered pool when difficulty filtering empties the plan.
	fallbackExerciseCount = 5

	compoundShare  = 0.50
	isolationShare = 0.35
	finisherShare  = 0.15
)

// generator assembles workout plans from an exercise catalog.
//
// The catalog is read-only during generation and every call owns its working
// state exclusively, so a generator is safe to use for a single Generate call
// but the *rand.Rand must not be shared across goroutines.
type generator struct {
	catalog []Exercise
	rng     *rand.Rand
	newID   func() string
}

// newGenerator creates a generator over the given catalog. The rng and newID
// parameters are seams: tests inject a seeded source and fixed IDs.
func newGenerator(catalog []Exercise, rng *rand.Rand, newID func() string) *generator {
	return &generator{
		catalog: catalog,
		rng:     rng,
		newID:   newID,
	}
}

// Generate assembles a workout plan for the given preferences.
//
// Exercises are drawn per category in the order compound, isolation, finisher,
// with identifiers tracked cumulatively so no exercise repeats across
// categories. The category quotas deliberately sum above the target count:
// the headroom absorbs the difficulty filter removing entries.
func (g *generator) Generate(prefs GenerationPreferences) (Plan, error) {
	if len(prefs.MuscleGroups) == 0 {
		return Plan{}, ErrNoMuscleGroups
	}

	restSeconds := defaultRestSeconds(prefs.MuscleGroups)

	targetCount := 0
	if prefs.ExerciseCount != nil {
		targetCount = *prefs.ExerciseCount
	} else {
		durationMinutes := defaultDurationMinutes
		if prefs.DurationMinutes != nil {
			durationMinutes = *prefs.DurationMinutes
		}
		targetCount = estimateExerciseCount(durationMinutes, restSeconds)
	}

	quotas := []struct {
		category Category
		quota    int
	}{
		{CategoryCompound, int(math.Ceil(compoundShare * float64(targetCount)))},
		{CategoryIsolation, int(math.Ceil(isolationShare * float64(targetCount)))},
		{CategoryFinisher, max(1, int(math.Floor(finisherShare*float64(targetCount))))},
	}

	chosen := make(map[string]struct{})
	var exercises []Exercise
	for _, cq := range quotas {
		exercises = append(exercises, g.selectForCategory(prefs.MuscleGroups, cq.category, cq.quota, chosen)...)
	}

	if prefs.Difficulty != nil {
		exercises = filterByDifficulty(exercises, *prefs.Difficulty)
	}

	// The difficulty filter can empty the plan. Rather than returning
	// nothing, fall back to the muscle-filtered pool without category or
	// difficulty constraints.
	if len(exercises) == 0 {
		pool := filterByMuscles(g.catalog, prefs.MuscleGroups, nil)
		exercises = g.selectRandom(pool, fallbackExerciseCount, nil)
		// Restore the compound, isolation, finisher grouping that the
		// category-unfiltered draw loses.
		sort.SliceStable(exercises, func(i, j int) bool {
			return categoryRank(exercises[i].Category) < categoryRank(exercises[j].Category)
		})
	}

	return Plan{
		ID:                 g.newID(),
		Name:               nameFor(prefs.MuscleGroups),
		MuscleGroups:       prefs.MuscleGroups,
		DefaultRestSeconds: restSeconds,
		Exercises:          exercises,
		CreatedAt:          time.Time{},
	}, nil
}

// selectForCategory draws up to quota exercises of the given category,
// splitting the quota across the requested muscle groups with
// balanceAcrossMuscles and recording every pick in chosen.
func (g *generator) selectForCategory(
	muscles []MuscleGroup,
	category Category,
	quota int,
	chosen map[string]struct{},
) []Exercise {
	var picked []Exercise
	shares := balanceAcrossMuscles(muscles, quota)
	for _, muscle := range muscles {
		count := shares[muscle]
		if count == 0 {
			continue
		}
		pool := filterByMuscles(g.catalog, []MuscleGroup{muscle}, &category)
		selected := g.selectRandom(pool, count, chosen)
		for _, ex := range selected {
			chosen[ex.ID] = struct{}{}
		}
		picked = append(picked, selected...)
	}
	return picked
}

// selectRandom picks up to count exercises from pool, skipping identifiers in
// exclude. The pool is shuffled with an unweighted permutation so every subset
// is equally likely. Partial fulfilment is valid when the pool is small.
func (g *generator) selectRandom(pool []Exercise, count int, exclude map[string]struct{}) []Exercise {
	candidates := make([]Exercise, 0, len(pool))
	for _, ex := range pool {
		if _, excluded := exclude[ex.ID]; excluded {
			continue
		}
		candidates = append(candidates, ex)
	}
	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if count > len(candidates) {
		count = len(candidates)
	}
	return candidates[:count]
}

// filterByMuscles returns the catalog entries whose primary or any secondary
// muscle group is in muscles, preserving catalog order. A nil category matches
// all categories. An empty result is valid.
func filterByMuscles(pool []Exercise, muscles []MuscleGroup, category *Category) []Exercise {
	var matched []Exercise
	for _, ex := range pool {
		if category != nil && ex.Category != *category {
			continue
		}
		if !targetsAnyMuscle(ex, muscles) {
			continue
		}
		matched = append(matched, ex)
	}
	return matched
}

func targetsAnyMuscle(ex Exercise, muscles []MuscleGroup) bool {
	for _, m := range muscles {
		if ex.PrimaryMuscleGroup == m {
			return true
		}
		for _, secondary := range ex.SecondaryMuscleGroups {
			if secondary == m {
				return true
			}
		}
	}
	return false
}

// filterByDifficulty drops exercises recorded as stricter than the requested
// level: beginner keeps only beginner entries, intermediate keeps beginner and
// intermediate, advanced keeps everything. Exercises without a recorded
// difficulty are always kept.
func filterByDifficulty(exercises []Exercise, difficulty Difficulty) []Exercise {
	var kept []Exercise
	for _, ex := range exercises {
		if ex.Difficulty == nil || difficultyRank(*ex.Difficulty) <= difficultyRank(difficulty) {
			kept = append(kept, ex)
		}
	}
	return kept
}

func categoryRank(c Category) int {
	switch c {
	case CategoryCompound:
		return 0
	case CategoryIsolation:
		return 1
	case CategoryFinisher:
		return 2
	}
	return 2
}

func difficultyRank(d Difficulty) int {
	switch d {
	case DifficultyBeginner:
		return 0
	case DifficultyIntermediate:
		return 1
	case DifficultyAdvanced:
		return 2
	}
	return 2
}

// balanceAcrossMuscles splits totalCount across the requested muscle groups.
//
// Muscle groups are first classified into push (Chest, Shoulders, Arms), pull
// (Back), legs (Legs) and other buckets, and totalCount is divided evenly
// across the non-empty buckets before being divided across each bucket's
// members. Remainders go to earlier buckets and earlier members, in fixed
// bucket order and request order respectively. The two-level division keeps
// push/pull/legs balanced instead of skewing toward muscle groups with more
// catalog entries. A zero share for a muscle group is valid.
func balanceAcrossMuscles(muscles []MuscleGroup, totalCount int) map[MuscleGroup]int {
	counts := make(map[MuscleGroup]int, len(muscles))
	if len(muscles) == 1 {
		counts[muscles[0]] = totalCount
		return counts
	}

	buckets := make(map[string][]MuscleGroup)
	for _, m := range muscles {
		bucket := bucketFor(m)
		buckets[bucket] = append(buckets[bucket], m)
	}

	var nonEmpty []string
	for _, bucket := range []string{"push", "pull", "legs", "other"} {
		if len(buckets[bucket]) > 0 {
			nonEmpty = append(nonEmpty, bucket)
		}
	}

	bucketShare := totalCount / len(nonEmpty)
	bucketRemainder := totalCount % len(nonEmpty)
	for i, bucket := range nonEmpty {
		count := bucketShare
		if i < bucketRemainder {
			count++
		}
		members := buckets[bucket]
		memberShare := count / len(members)
		memberRemainder := count % len(members)
		for j, m := range members {
			counts[m] = memberShare
			if j < memberRemainder {
				counts[m]++
			}
		}
	}
	return counts
}

func bucketFor(m MuscleGroup) string {
	switch m {
	case MuscleChest, MuscleShoulders, MuscleArms:
		return "push"
	case MuscleBack:
		return "pull"
	case MuscleLegs:
		return "legs"
	}
	return "other"
}

// estimateExerciseDuration returns the estimated seconds to perform setCount
// sets with restSeconds rest between sets but not after the last one.
func estimateExerciseDuration(setCount, restSeconds int) int {
	return setCount*perSetSeconds + max(0, setCount-1)*restSeconds
}

// estimateExerciseCount inverts estimateExerciseDuration at the workout
// level: each exercise is assumed to average 3 sets with rests in between
// plus a transition to the next exercise. The result is clamped to [3, 12].
func estimateExerciseCount(durationMinutes, restSeconds int) int {
	perExerciseSeconds := averageSetsPerExercise*perSetSeconds +
		(averageSetsPerExercise-1)*restSeconds +
		transitionSeconds
	count := durationMinutes * 60 / perExerciseSeconds
	return min(max(count, minExercisesPerWorkout), maxExercisesPerWorkout)
}

// defaultRestSeconds is 90 when Legs is among the targets, else 60.
func defaultRestSeconds(muscles []MuscleGroup) int {
	for _, m := range muscles {
		if m == MuscleLegs {
			return legsRestSeconds
		}
	}
	return standardRestSeconds
}

// EstimatePlanDuration returns the estimated wall-clock time to complete the
// plan, using each exercise's own rest seconds when set and the plan default
// otherwise. Used to preview manually built workouts.
func EstimatePlanDuration(plan Plan) time.Duration {
	totalSeconds := 0
	for i, ex := range plan.Exercises {
		restSeconds := plan.DefaultRestSeconds
		if ex.RestSeconds != nil {
			restSeconds = *ex.RestSeconds
		}
		totalSeconds += estimateExerciseDuration(ex.DefaultSets, restSeconds)
		if i > 0 {
			totalSeconds += transitionSeconds
		}
	}
	return time.Duration(totalSeconds) * time.Second
}

// nameFor derives a plan name from the requested muscle groups.
func nameFor(muscles []MuscleGroup) string {
	switch len(muscles) {
	case 0:
		return "Full Body Workout"
	case 1:
		return fmt.Sprintf("%s Day", muscles[0])
	case 2: //nolint:mnd // two muscles get a "<A> & <B>" name.
		return fmt.Sprintf("%s & %s", muscles[0], muscles[1])
	}

	has := func(target MuscleGroup) bool {
		for _, m := range muscles {
			if m == target {
				return true
			}
		}
		return false
	}

	// Known combinations are checked in priority order.
	switch {
	case has(MuscleChest) && has(MuscleShoulders) && has(MuscleArms):
		return "Push Day"
	case has(MuscleBack) && has(MuscleArms):
		return "Pull Day"
	case has(MuscleLegs):
		return "Leg Day"
	case has(MuscleChest) && has(MuscleBack):
		return "Upper Body"
	}
	return fmt.Sprintf("%s, %s + More", muscles[0], muscles[1])
}
