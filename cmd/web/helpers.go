package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"liftplan/internal/errors"
	"liftplan/internal/workout"
)

// maxRequestBodyBytes caps JSON request bodies. The largest legitimate payload
// is a saved plan, which stays well under a megabyte.
const maxRequestBodyBytes = 1 << 20

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "not found"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "marshal response", errors.SlogError(err))
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	// Unknown fields are tolerated so that clients can echo responses back,
	// e.g. saving a generated plan with its estimated duration attached.
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}

	return nil
}

// handleServiceError translates domain errors to HTTP responses. Unknown
// errors become opaque 500s.
func (app *application) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, workout.ErrNotFound):
		app.notFound(w, r)
	case errors.Is(err, workout.ErrNoMuscleGroups):
		app.writeJSON(w, r, http.StatusUnprocessableEntity,
			errorResponse{Error: "select at least one muscle group"})
	case errors.Is(err, workout.ErrInvalidMuscleGroup):
		app.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: "unknown muscle group"})
	case errors.Is(err, workout.ErrInvalidPreferences):
		app.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: "invalid preferences"})
	case errors.Is(err, workout.ErrInvalidDifficultyRating):
		app.writeJSON(w, r, http.StatusUnprocessableEntity,
			errorResponse{Error: "difficulty rating must be between 1 and 5"})
	default:
		app.serverError(w, r, err)
	}
}
