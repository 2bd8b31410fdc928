// Package testsupport holds helpers shared by package tests.
package testsupport

import (
	"path/filepath"
	"testing"
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/database"
)

// NewConfig returns a configuration pointing at a throwaway SQLite file.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()
	return &config.Config{
		Env:      "test",
		LogLevel: "debug",
		Database: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			Path:         filepath.Join(t.TempDir(), "catalog.db"),
			QueryTimeout: 5 * time.Second,
		},
		TMDB: config.TMDBConfig{
			APIKey:      "test-key",
			BaseURL:     "http://tmdb.invalid/3",
			Language:    "en-US",
			HTTPTimeout: 5 * time.Second,
		},
		Server: config.ServerConfig{
			StreamHeartbeat: time.Second,
			AllowOrigins:    "*",
		},
	}
}

// MustOpenDatabase connects to a fresh migrated database that is closed when
// the test ends.
func MustOpenDatabase(t testing.TB) *database.Database {
	t.Helper()
	db, err := database.Connect(NewConfig(t))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
