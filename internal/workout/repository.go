package workout

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"liftplan/internal/errors"
	"liftplan/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"

// ErrNotFound is returned when a requested entity does not exist or belongs
// to another device.
var ErrNotFound = errors.NewSentinel("not found")

// repository groups the SQLite-backed repositories the service works with.
type repository struct {
	exercises *sqliteExerciseRepository
	plans     *sqlitePlanRepository
	sessions  *sqliteSessionRepository
	prefs     *sqlitePreferencesRepository
}

// repositoryFactory wires repositories to a shared database handle.
type repositoryFactory struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRepositoryFactory(db *sqlite.Database, logger *slog.Logger) *repositoryFactory {
	return &repositoryFactory{
		db:     db,
		logger: logger,
	}
}

func (f *repositoryFactory) newRepository() *repository {
	exercises := newSQLiteExerciseRepository(f.db, f.logger)
	return &repository{
		exercises: exercises,
		plans:     newSQLitePlanRepository(f.db, f.logger, exercises),
		sessions:  newSQLiteSessionRepository(f.db, f.logger),
		prefs:     newSQLitePreferenceRepository(f.db, f.logger),
	}
}

// baseRepository carries the shared dependencies of all repositories.
type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newBaseRepository(db *sqlite.Database, logger *slog.Logger) baseRepository {
	return baseRepository{
		db:     db,
		logger: logger,
	}
}

// formatTimestamp formats a timestamp for storage, returning nil for zero
// times so that NULL lands in the database.
func formatTimestamp(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC().Format(timestampFormat)
}

// parseTimestamp parses a timestamp from a nullable database string.
func parseTimestamp(timestampStr sql.NullString) (*time.Time, error) {
	if !timestampStr.Valid {
		return nil, nil //nolint:nilnil // nil time is expected when the string is NULL.
	}
	parsedTime, err := time.Parse(timestampFormat, timestampStr.String)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp format: %w", err)
	}
	return &parsedTime, nil
}
