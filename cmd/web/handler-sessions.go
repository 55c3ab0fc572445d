package main

import (
	"net/http"
	"strconv"

	"liftplan/internal/workout"
)

func (app *application) sessionsGET(w http.ResponseWriter, r *http.Request) {
	sessions, err := app.workoutService.ListSessions(r.Context())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, sessions)
}

func (app *application) sessionGET(w http.ResponseWriter, r *http.Request) {
	sess, err := app.workoutService.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, sess)
}

func (app *application) sessionCompletePOST(w http.ResponseWriter, r *http.Request) {
	if err := app.workoutService.CompleteSession(r.Context(), r.PathValue("id")); err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	sess, err := app.workoutService.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, sess)
}

// sessionSetPOST records the completed reps for one set.
func (app *application) sessionSetPOST(w http.ResponseWriter, r *http.Request) {
	var result workout.SetResult
	if err := app.readJSON(w, r, &result); err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if result.ExerciseID == "" || result.SetNumber < 1 || result.CompletedReps < 0 {
		app.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: "invalid set result"})
		return
	}

	if err := app.workoutService.RecordSetResult(r.Context(), r.PathValue("id"), result); err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// sessionFeedbackPOST stores the 1-5 difficulty rating given after a workout.
func (app *application) sessionFeedbackPOST(w http.ResponseWriter, r *http.Request) {
	difficulty, err := strconv.Atoi(r.PathValue("difficulty"))
	if err != nil {
		app.writeJSON(w, r, http.StatusUnprocessableEntity,
			errorResponse{Error: "difficulty rating must be between 1 and 5"})
		return
	}

	if err = app.workoutService.SaveFeedback(r.Context(), r.PathValue("id"), difficulty); err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
