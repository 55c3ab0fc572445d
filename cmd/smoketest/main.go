// Command smoketest exercises a deployed server end to end: it waits for the
// health endpoint and generates a workout through the JSON API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"liftplan/internal/e2etest"
	"liftplan/internal/logging"
	"liftplan/internal/testhelpers"
)

func testGenerate(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	var plan struct {
		Name      string `json:"name"`
		Exercises []struct {
			ID string `json:"id"`
		} `json:"exercises"`
	}
	status, err := client.PostJSON(ctx, "/api/workouts/generate", map[string]any{
		"muscle_groups": []string{"Chest", "Back"},
	}, &plan)
	if err != nil {
		return fmt.Errorf("generate workout: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("generate workout: unexpected status %d", status)
	}
	if len(plan.Exercises) == 0 {
		return fmt.Errorf("generate workout: plan %q has no exercises", plan.Name)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		client   *e2etest.Client
		err      error
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", slog.Any("error", err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}
	if err = testGenerate(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error generating workout", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
