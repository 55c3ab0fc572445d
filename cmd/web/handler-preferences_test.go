package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"liftplan/internal/workout"
)

func Test_application_preferences(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t)
	client := server.Client()

	t.Run("serves defaults before anything is saved", func(t *testing.T) {
		var prefs workout.Preferences
		status, err := client.GetJSON(ctx, "/api/preferences", &prefs)
		if err != nil || status != http.StatusOK {
			t.Fatalf("get preferences: status %d, err %v", status, err)
		}
		if prefs.TargetDurationMinutes != 60 {
			t.Errorf("want default target duration 60, got %d", prefs.TargetDurationMinutes)
		}
	})

	t.Run("round-trips saved preferences", func(t *testing.T) {
		difficulty := workout.DifficultyIntermediate
		saved := workout.Preferences{
			TargetDurationMinutes: 45,
			Difficulty:            &difficulty,
			MuscleGroups:          []workout.MuscleGroup{workout.MuscleBack, workout.MuscleChest},
		}
		status, err := client.PostJSON(ctx, "/api/preferences", saved, nil)
		if err != nil || status != http.StatusOK {
			t.Fatalf("save preferences: status %d, err %v", status, err)
		}

		var fetched workout.Preferences
		if status, err = client.GetJSON(ctx, "/api/preferences", &fetched); err != nil || status != http.StatusOK {
			t.Fatalf("get preferences: status %d, err %v", status, err)
		}
		if diff := cmp.Diff(saved, fetched); diff != "" {
			t.Errorf("preferences differ (-want +got):\n%s", diff)
		}
	})

	t.Run("rejects a non-positive target duration", func(t *testing.T) {
		status, err := client.PostJSON(ctx, "/api/preferences", workout.Preferences{
			TargetDurationMinutes: 0,
		}, nil)
		if err != nil {
			t.Fatalf("save preferences: %v", err)
		}
		if status != http.StatusUnprocessableEntity {
			t.Errorf("want status 422, got %d", status)
		}
	})
}
