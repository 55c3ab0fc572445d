package main

import (
	"net/http"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var (
		base = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				commonContext(app.timeout(next)))))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(
				app.deviceIdentity(base(next)))))
		}
	)

	mux.Handle("POST /api/workouts/generate", session(http.HandlerFunc(app.workoutGeneratePOST)))

	mux.Handle("GET /api/exercises", session(http.HandlerFunc(app.exercisesGET)))
	mux.Handle("GET /api/exercises/recommended", session(http.HandlerFunc(app.exercisesRecommendedGET)))
	mux.Handle("GET /api/exercises/{id}", session(http.HandlerFunc(app.exerciseGET)))
	mux.Handle("GET /api/muscle-groups", session(http.HandlerFunc(app.muscleGroupsGET)))

	mux.Handle("GET /api/plans", session(http.HandlerFunc(app.plansGET)))
	mux.Handle("POST /api/plans", session(http.HandlerFunc(app.planSavePOST)))
	mux.Handle("GET /api/plans/{id}", session(http.HandlerFunc(app.planGET)))
	mux.Handle("DELETE /api/plans/{id}", session(http.HandlerFunc(app.planDELETE)))
	mux.Handle("POST /api/plans/{id}/sessions", session(http.HandlerFunc(app.sessionStartPOST)))

	mux.Handle("GET /api/sessions", session(http.HandlerFunc(app.sessionsGET)))
	mux.Handle("GET /api/sessions/{id}", session(http.HandlerFunc(app.sessionGET)))
	mux.Handle("POST /api/sessions/{id}/complete", session(http.HandlerFunc(app.sessionCompletePOST)))
	mux.Handle("POST /api/sessions/{id}/sets", session(http.HandlerFunc(app.sessionSetPOST)))
	mux.Handle("POST /api/sessions/{id}/feedback/{difficulty}", session(http.HandlerFunc(app.sessionFeedbackPOST)))

	mux.Handle("GET /api/preferences", session(http.HandlerFunc(app.preferencesGET)))
	mux.Handle("POST /api/preferences", session(http.HandlerFunc(app.preferencesPOST)))

	mux.Handle("GET /api/healthy", session(http.HandlerFunc(app.healthy)))

	mux.Handle("/", session(http.HandlerFunc(app.notFound)))

	return mux
}
