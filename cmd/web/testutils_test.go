package main

import (
	"testing"

	"liftplan/internal/e2etest"
	"liftplan/internal/testhelpers"
)

// testLookupEnv configures the server for tests: a dynamically allocated
// port, an in-memory database and plain-HTTP session cookies.
func testLookupEnv(key string) (string, bool) {
	env := map[string]string{
		"LIFTPLAN_ADDR":           "localhost:0",
		"LIFTPLAN_SQLITE_URL":     ":memory:",
		"LIFTPLAN_SECURE_COOKIES": "false",
	}
	value, ok := env[key]
	return value, ok
}

func startTestServer(t *testing.T) *e2etest.Server {
	t.Helper()

	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	return server
}
