package main

import (
	"net/http"

	"liftplan/internal/workout"
)

func (app *application) plansGET(w http.ResponseWriter, r *http.Request) {
	plans, err := app.workoutService.ListPlans(r.Context())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	responses := make([]planResponse, 0, len(plans))
	for _, plan := range plans {
		responses = append(responses, newPlanResponse(plan))
	}
	app.writeJSON(w, r, http.StatusOK, responses)
}

func (app *application) planSavePOST(w http.ResponseWriter, r *http.Request) {
	var plan workout.Plan
	if err := app.readJSON(w, r, &plan); err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	saved, err := app.workoutService.SavePlan(r.Context(), plan)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusCreated, newPlanResponse(saved))
}

func (app *application) planGET(w http.ResponseWriter, r *http.Request) {
	plan, err := app.workoutService.GetPlan(r.Context(), r.PathValue("id"))
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, newPlanResponse(plan))
}

func (app *application) planDELETE(w http.ResponseWriter, r *http.Request) {
	if err := app.workoutService.DeletePlan(r.Context(), r.PathValue("id")); err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// sessionStartPOST starts a workout session for the plan in the path.
func (app *application) sessionStartPOST(w http.ResponseWriter, r *http.Request) {
	sess, err := app.workoutService.StartSession(r.Context(), r.PathValue("id"))
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusCreated, sess)
}
