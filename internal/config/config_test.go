package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DB_PATH", "SERVER_PORT", "TMDB_BASE_URL", "TMDB_HTTP_TIMEOUT", "REFRESH_SCHEDULE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("expected sqlite driver, got %q", cfg.Database.Driver)
	}
	if cfg.Server.Port != "8010" {
		t.Errorf("expected port 8010, got %q", cfg.Server.Port)
	}
	if cfg.TMDB.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("unexpected base url %q", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.HTTPTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.TMDB.HTTPTimeout)
	}
	if cfg.Refresh.Schedule == "" {
		t.Error("expected a default refresh schedule")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("TMDB_HTTP_TIMEOUT", "5s")
	t.Setenv("ENABLE_SWAGGER", "false")
	t.Setenv("DB_MAX_IDLE_CONNS", "not-a-number")

	cfg := Load()
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("expected postgres driver, got %q", cfg.Database.Driver)
	}
	if cfg.Database.MaxOpenConns != 7 {
		t.Errorf("expected 7 open conns, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns != 5 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.Database.MaxIdleConns)
	}
	if cfg.TMDB.HTTPTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.TMDB.HTTPTimeout)
	}
	if cfg.Server.EnableSwagger {
		t.Error("expected swagger disabled")
	}
	if !strings.Contains(cfg.GetDSN(), "host=localhost") {
		t.Errorf("unexpected postgres dsn %q", cfg.GetDSN())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing api key", func(c *Config) { c.TMDB.APIKey = "" }, "TMDB_API_KEY"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "unsupported DB_DRIVER"},
		{"sqlite without path", func(c *Config) { c.Database.Path = "" }, "DB_PATH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Database: DatabaseConfig{Driver: DriverSQLite, Path: "catalog.db"},
				TMDB:     TMDBConfig{APIKey: "key", BaseURL: "http://tmdb"},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadEnvFilesPrefersEnvSpecificFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "envs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "envs", ".env.test"), []byte("CATALOG_TEST_VALUE=from-test\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GO_ENV", "test")
	t.Setenv("CATALOG_TEST_VALUE", "")
	os.Unsetenv("CATALOG_TEST_VALUE")

	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	loaded := LoadEnvFiles(dir, logger)
	if loaded != filepath.Join(dir, "envs", ".env.test") {
		t.Fatalf("unexpected file loaded: %q", loaded)
	}
	if got := os.Getenv("CATALOG_TEST_VALUE"); got != "from-test" {
		t.Fatalf("expected value from env file, got %q", got)
	}
}
