package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"liftplan/internal/envstruct"
	"liftplan/internal/errors"
	"liftplan/internal/flightrecorder"
	"liftplan/internal/logging"
	"liftplan/internal/sqlite"
	"liftplan/internal/workout"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	markdown       goldmark.Markdown
	flightRecorder *flightrecorder.Service
	workoutService *workout.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"LIFTPLAN_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"LIFTPLAN_SQLITE_URL" envDefault:"./liftplan.sqlite3"`
	// SecureCookies toggles the Secure attribute on session cookies. Disable only for plain-HTTP test servers.
	SecureCookies bool `env:"LIFTPLAN_SECURE_COOKIES" envDefault:"true"`
	// TracesDirectory is the optional directory for runtime trace captures on request timeouts.
	TracesDirectory string `env:"LIFTPLAN_TRACES_DIR" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	var recorder *flightrecorder.Service
	if cfg.TracesDirectory != "" {
		if recorder, err = flightrecorder.New(flightrecorder.Config{
			Logger:          logger,
			MinAge:          0,
			MaxBytes:        0,
			TracesDirectory: cfg.TracesDirectory,
		}); err != nil {
			return errors.Wrap(err, "new flight recorder")
		}
		if err = recorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer recorder.Stop(ctx)
	}

	app := application{
		logger:         logger,
		sessionManager: initializeSessionManager(db, cfg.SecureCookies),
		markdown:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		flightRecorder: recorder,
		workoutService: workout.NewService(db, logger),
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func initializeSessionManager(dbs *sqlite.Database, secureCookies bool) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite, 24*time.Hour) //nolint:mnd // day
	// Device identity lives in the session cookie, so keep it around for a year.
	sessionManager.Lifetime = 365 * 24 * time.Hour //nolint:mnd // year
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.Secure = secureCookies
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteStrictMode
	return sessionManager
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
