package main

import (
	"net/http"

	"liftplan/internal/workout"
)

// planResponse is a plan with its estimated wall-clock duration.
type planResponse struct {
	workout.Plan
	EstimatedDurationSeconds int `json:"estimated_duration_seconds"`
}

func newPlanResponse(plan workout.Plan) planResponse {
	return planResponse{
		Plan:                     plan,
		EstimatedDurationSeconds: int(workout.EstimatePlanDuration(plan).Seconds()),
	}
}

// workoutGeneratePOST generates a workout plan from the submitted preferences
// without persisting it.
func (app *application) workoutGeneratePOST(w http.ResponseWriter, r *http.Request) {
	var prefs workout.GenerationPreferences
	if err := app.readJSON(w, r, &prefs); err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	plan, err := app.workoutService.GenerateWorkout(r.Context(), prefs)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, newPlanResponse(plan))
}
