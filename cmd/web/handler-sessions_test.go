package main

import (
	"context"
	"net/http"
	"testing"

	"liftplan/internal/workout"
)

type sessionJSON struct {
	ID               string              `json:"id"`
	PlanID           string              `json:"plan_id"`
	StartedAt        string              `json:"started_at"`
	CompletedAt      *string             `json:"completed_at"`
	DifficultyRating *int                `json:"difficulty_rating"`
	SetResults       []workout.SetResult `json:"set_results"`
}

//nolint:gocognit // Walks the whole session lifecycle end to end.
func Test_application_sessionLifecycle(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t)
	client := server.Client()

	// Generate and save a plan to work against.
	var plan planJSON
	status, err := client.PostJSON(ctx, "/api/workouts/generate", map[string]any{
		"muscle_groups": []string{"Legs"},
	}, &plan)
	if err != nil || status != http.StatusOK {
		t.Fatalf("generate workout: status %d, err %v", status, err)
	}
	var saved planJSON
	if status, err = client.PostJSON(ctx, "/api/plans", plan, &saved); err != nil || status != http.StatusCreated {
		t.Fatalf("save plan: status %d, err %v", status, err)
	}

	var sess sessionJSON
	if status, err = client.PostJSON(ctx, "/api/plans/"+saved.ID+"/sessions", nil, &sess); err != nil {
		t.Fatalf("start session: %v", err)
	}
	if status != http.StatusCreated {
		t.Fatalf("want status 201, got %d", status)
	}
	if sess.CompletedAt != nil {
		t.Error("want new session to be incomplete")
	}

	exerciseID := saved.Exercises[0].ID
	if status, err = client.PostJSON(ctx, "/api/sessions/"+sess.ID+"/sets", workout.SetResult{
		ExerciseID:    exerciseID,
		SetNumber:     1,
		CompletedReps: 10,
	}, nil); err != nil || status != http.StatusNoContent {
		t.Fatalf("record set: status %d, err %v", status, err)
	}

	if status, err = client.PostJSON(ctx, "/api/sessions/"+sess.ID+"/complete", nil, nil); err != nil {
		t.Fatalf("complete session: %v", err)
	}
	if status != http.StatusOK {
		t.Fatalf("want status 200, got %d", status)
	}

	if status, err = client.PostJSON(ctx, "/api/sessions/"+sess.ID+"/feedback/4", nil, nil); err != nil {
		t.Fatalf("save feedback: %v", err)
	}
	if status != http.StatusNoContent {
		t.Fatalf("want status 204, got %d", status)
	}
	if status, err = client.PostJSON(ctx, "/api/sessions/"+sess.ID+"/feedback/9", nil, nil); err != nil {
		t.Fatalf("save invalid feedback: %v", err)
	}
	if status != http.StatusUnprocessableEntity {
		t.Errorf("want status 422 for rating 9, got %d", status)
	}

	var fetched sessionJSON
	if status, err = client.GetJSON(ctx, "/api/sessions/"+sess.ID, &fetched); err != nil || status != http.StatusOK {
		t.Fatalf("get session: status %d, err %v", status, err)
	}
	if fetched.CompletedAt == nil {
		t.Error("want completed session to have a completion timestamp")
	}
	if fetched.DifficultyRating == nil || *fetched.DifficultyRating != 4 {
		t.Errorf("want difficulty rating 4, got %v", fetched.DifficultyRating)
	}
	if len(fetched.SetResults) != 1 || fetched.SetResults[0].CompletedReps != 10 {
		t.Errorf("unexpected set results %+v", fetched.SetResults)
	}

	var sessions []sessionJSON
	if status, err = client.GetJSON(ctx, "/api/sessions", &sessions); err != nil || status != http.StatusOK {
		t.Fatalf("list sessions: status %d, err %v", status, err)
	}
	if len(sessions) != 1 {
		t.Errorf("want 1 session in history, got %d", len(sessions))
	}
}

func Test_application_sessionStartUnknownPlan(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t)
	client := server.Client()

	status, err := client.PostJSON(ctx, "/api/plans/no-such-plan/sessions", nil, nil)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if status != http.StatusNotFound {
		t.Errorf("want status 404, got %d", status)
	}
}
