package main

import (
	"net/http"

	"liftplan/internal/workout"
)

func (app *application) preferencesGET(w http.ResponseWriter, r *http.Request) {
	prefs, err := app.workoutService.GetPreferences(r.Context())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, prefs)
}

func (app *application) preferencesPOST(w http.ResponseWriter, r *http.Request) {
	var prefs workout.Preferences
	if err := app.readJSON(w, r, &prefs); err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := app.workoutService.SavePreferences(r.Context(), prefs); err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, prefs)
}
