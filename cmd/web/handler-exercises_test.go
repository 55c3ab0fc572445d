package main

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"liftplan/internal/workout"
)

func Test_application_exercises(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t)
	client := server.Client()

	var exercises []workout.Exercise
	status, err := client.GetJSON(ctx, "/api/exercises", &exercises)
	if err != nil || status != http.StatusOK {
		t.Fatalf("list exercises: status %d, err %v", status, err)
	}
	if len(exercises) == 0 {
		t.Fatal("want seeded exercise catalog")
	}

	t.Run("renders the description to HTML", func(t *testing.T) {
		var exercise struct {
			workout.Exercise
			DescriptionHTML string `json:"description_html"`
		}
		if status, err = client.GetJSON(ctx, "/api/exercises/"+exercises[0].ID, &exercise); err != nil {
			t.Fatalf("get exercise: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("want status 200, got %d", status)
		}
		if !strings.Contains(exercise.DescriptionHTML, "<") {
			t.Errorf("want HTML in description, got %q", exercise.DescriptionHTML)
		}
	})

	t.Run("unknown exercise is a 404", func(t *testing.T) {
		if status, err = client.GetJSON(ctx, "/api/exercises/no-such-exercise", nil); err != nil {
			t.Fatalf("get exercise: %v", err)
		}
		if status != http.StatusNotFound {
			t.Errorf("want status 404, got %d", status)
		}
	})

	t.Run("recommends exercises for a muscle and category", func(t *testing.T) {
		var recommended []workout.Exercise
		status, err = client.GetJSON(ctx, "/api/exercises/recommended?muscle=Chest&category=compound&count=2", &recommended)
		if err != nil || status != http.StatusOK {
			t.Fatalf("recommend exercises: status %d, err %v", status, err)
		}
		if len(recommended) == 0 || len(recommended) > 2 {
			t.Fatalf("want 1-2 recommendations, got %d", len(recommended))
		}
		for _, ex := range recommended {
			if ex.PrimaryMuscleGroup != workout.MuscleChest || ex.Category != workout.CategoryCompound {
				t.Errorf("exercise %s does not match the requested filters", ex.ID)
			}
		}
	})

	t.Run("rejects an unknown recommendation muscle", func(t *testing.T) {
		if status, err = client.GetJSON(ctx, "/api/exercises/recommended?muscle=Wings&category=compound", nil); err != nil {
			t.Fatalf("recommend exercises: %v", err)
		}
		if status != http.StatusUnprocessableEntity {
			t.Errorf("want status 422, got %d", status)
		}
	})

	t.Run("lists muscle groups", func(t *testing.T) {
		var groups []workout.MuscleGroup
		if status, err = client.GetJSON(ctx, "/api/muscle-groups", &groups); err != nil || status != http.StatusOK {
			t.Fatalf("list muscle groups: status %d, err %v", status, err)
		}
		if len(groups) != 6 {
			t.Errorf("want 6 muscle groups, got %d", len(groups))
		}
	})
}
