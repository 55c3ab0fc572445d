package main

import (
	"bytes"
	"net/http"
	"strconv"

	"liftplan/internal/workout"
)

const defaultRecommendationCount = 3

// exerciseResponse is an exercise with its description rendered to HTML.
type exerciseResponse struct {
	workout.Exercise
	DescriptionHTML string `json:"description_html"`
}

func (app *application) exercisesGET(w http.ResponseWriter, r *http.Request) {
	exercises, err := app.workoutService.ListExercises(r.Context())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, exercises)
}

func (app *application) exerciseGET(w http.ResponseWriter, r *http.Request) {
	exercise, err := app.workoutService.GetExercise(r.Context(), r.PathValue("id"))
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err = app.markdown.Convert([]byte(exercise.DescriptionMarkdown), &buf); err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, exerciseResponse{
		Exercise:        exercise,
		DescriptionHTML: buf.String(),
	})
}

func (app *application) exercisesRecommendedGET(w http.ResponseWriter, r *http.Request) {
	muscle := workout.MuscleGroup(r.URL.Query().Get("muscle"))
	if !muscle.Valid() {
		app.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: "unknown muscle group"})
		return
	}
	category := workout.Category(r.URL.Query().Get("category"))
	if !category.Valid() {
		app.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: "unknown category"})
		return
	}

	count := defaultRecommendationCount
	if countStr := r.URL.Query().Get("count"); countStr != "" {
		var err error
		if count, err = strconv.Atoi(countStr); err != nil || count < 1 {
			app.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: "count must be a positive integer"})
			return
		}
	}

	exercises, err := app.workoutService.RecommendedExercises(r.Context(), muscle, category, count)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, exercises)
}

func (app *application) muscleGroupsGET(w http.ResponseWriter, r *http.Request) {
	groups, err := app.workoutService.ListMuscleGroups(r.Context())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, groups)
}
