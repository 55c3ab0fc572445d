// Command stresstest drives the JSON API with many concurrent simulated
// devices, each running full workout scenarios, and reports the success rate.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"liftplan/internal/e2etest"
	"liftplan/internal/logging"
	"liftplan/internal/testhelpers"
)

const (
	scenarioTimeout        = 30 * time.Second
	maxConcurrentDevices   = 20
	devices                = 50
	scenariosPerDevice     = 5
	successRateThreshold   = 95.0
	expectedArgsCount      = 2
	percentageMultiplier   = 100
	baseReps               = 8
	repsRange              = 8
	maxRecordedSetsPerPlan = 3
)

var muscleSplits = [][]string{
	{"Chest", "Shoulders", "Arms"},
	{"Back", "Arms"},
	{"Legs"},
	{"Chest", "Back"},
	{"Core", "Legs"},
}

type planDocument struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Exercises []struct {
		ID          string `json:"id"`
		DefaultSets int    `json:"default_sets"`
	} `json:"exercises"`
}

type sessionDocument struct {
	ID string `json:"id"`
}

// runScenario walks one device through a full workout: generate, save, start
// a session, record a few sets, complete, give feedback.
func runScenario(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, scenarioTimeout)
	defer cancel()

	muscles := muscleSplits[rand.IntN(len(muscleSplits))]

	var generated planDocument
	status, err := client.PostJSON(ctx, "/api/workouts/generate", map[string]any{
		"muscle_groups": muscles,
	}, &generated)
	if err != nil {
		return fmt.Errorf("generate workout: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("generate workout: unexpected status %d", status)
	}

	var saved planDocument
	if status, err = client.PostJSON(ctx, "/api/plans", generated, &saved); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	if status != http.StatusCreated {
		return fmt.Errorf("save plan: unexpected status %d", status)
	}

	var sess sessionDocument
	if status, err = client.PostJSON(ctx, "/api/plans/"+saved.ID+"/sessions", nil, &sess); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	if status != http.StatusCreated {
		return fmt.Errorf("start session: unexpected status %d", status)
	}

	sets := min(maxRecordedSetsPerPlan, len(saved.Exercises))
	for i := range sets {
		exercise := saved.Exercises[i]
		if status, err = client.PostJSON(ctx, "/api/sessions/"+sess.ID+"/sets", map[string]any{
			"exercise_id":    exercise.ID,
			"set_number":     1,
			"completed_reps": baseReps + rand.IntN(repsRange),
		}, nil); err != nil {
			return fmt.Errorf("record set: %w", err)
		}
		if status != http.StatusNoContent {
			return fmt.Errorf("record set: unexpected status %d", status)
		}
	}

	if status, err = client.PostJSON(ctx, "/api/sessions/"+sess.ID+"/complete", nil, nil); err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("complete session: unexpected status %d", status)
	}

	rating := 1 + rand.IntN(5) //nolint:mnd // rating range 1-5
	feedbackPath := fmt.Sprintf("/api/sessions/%s/feedback/%d", sess.ID, rating)
	if status, err = client.PostJSON(ctx, feedbackPath, nil, nil); err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	if status != http.StatusNoContent {
		return fmt.Errorf("save feedback: unexpected status %d", status)
	}

	return nil
}

func runDevice(ctx context.Context, logger *slog.Logger, url string, succeeded, failed *atomic.Int64) error {
	// Each device gets its own cookie jar and with it its own identity.
	client, err := e2etest.NewClient(url)
	if err != nil {
		return fmt.Errorf("new client: %w", err)
	}

	for range scenariosPerDevice {
		if err = runScenario(ctx, client); err != nil {
			failed.Add(1)
			logger.LogAttrs(ctx, slog.LevelWarn, "scenario failed", slog.Any("error", err))
			continue
		}
		succeeded.Add(1)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
		os.Exit(1)
	}

	hostname := os.Args[1]
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	warmup, err := e2etest.NewClient(url)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", slog.Any("error", err))
		os.Exit(1)
	}
	if err = warmup.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}

	var (
		succeeded atomic.Int64
		failed    atomic.Int64
		start     = time.Now()
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentDevices)
	for range devices {
		group.Go(func() error {
			return runDevice(groupCtx, logger, url, &succeeded, &failed)
		})
	}
	if err = group.Wait(); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "stress test aborted", slog.Any("error", err))
		os.Exit(1)
	}

	total := succeeded.Load() + failed.Load()
	successRate := float64(succeeded.Load()) / float64(total) * percentageMultiplier
	logger.LogAttrs(ctx, slog.LevelInfo, "stress test finished",
		slog.Int64("scenarios", total),
		slog.Int64("failed", failed.Load()),
		slog.String("success_rate", fmt.Sprintf("%.1f%%", successRate)),
		slog.Duration("duration", time.Since(start)))

	if successRate < successRateThreshold {
		logger.LogAttrs(ctx, slog.LevelError, "success rate below threshold",
			slog.String("threshold", fmt.Sprintf("%.1f%%", successRateThreshold)))
		os.Exit(1)
	}
	os.Exit(0)
}
