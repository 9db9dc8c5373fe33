package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.User == "" {
		t.Error("expected a default user")
	}
	if cfg.Schedule.SnapshotInterval.Duration != 30*time.Second {
		t.Errorf("expected snapshot_interval 30s, got %s", cfg.Schedule.SnapshotInterval)
	}
	if cfg.Schedule.EndOfDayCheck.Duration != time.Minute {
		t.Errorf("expected end_of_day_check 1m, got %s", cfg.Schedule.EndOfDayCheck)
	}
	if cfg.Schedule.EndOfDay != "23:59" {
		t.Errorf("expected end_of_day 23:59, got %s", cfg.Schedule.EndOfDay)
	}
	if cfg.Storage.SnapshotBackend != BackendSQLite || cfg.Storage.SessionLogBackend != BackendSQLite {
		t.Errorf("expected sqlite backends, got %s/%s", cfg.Storage.SnapshotBackend, cfg.Storage.SessionLogBackend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Schedule.EndOfDay != "23:59" {
		t.Errorf("expected default end_of_day, got %s", cfg.Schedule.EndOfDay)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
user = "ana"

[schedule]
snapshot_interval = "10s"
end_of_day = "22:30"

[storage]
db_path = "/tmp/test.db"
snapshot_backend = "redis"

[storage.redis]
addr = "cache:6379"
db = 2
ttl = "72h"

[ui]
theme = "mocha"
default_view = "schedule"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.User != "ana" {
		t.Errorf("expected user ana, got %s", cfg.User)
	}
	if cfg.Schedule.SnapshotInterval.Duration != 10*time.Second {
		t.Errorf("expected snapshot_interval 10s, got %s", cfg.Schedule.SnapshotInterval)
	}
	// Unset keys keep their defaults
	if cfg.Schedule.EndOfDayCheck.Duration != time.Minute {
		t.Errorf("expected default end_of_day_check, got %s", cfg.Schedule.EndOfDayCheck)
	}
	if cfg.Schedule.EndOfDay != "22:30" {
		t.Errorf("expected end_of_day 22:30, got %s", cfg.Schedule.EndOfDay)
	}
	if cfg.Storage.SnapshotBackend != BackendRedis {
		t.Errorf("expected redis snapshot backend, got %s", cfg.Storage.SnapshotBackend)
	}
	if cfg.Storage.Redis.Addr != "cache:6379" || cfg.Storage.Redis.DB != 2 {
		t.Errorf("unexpected redis config: %+v", cfg.Storage.Redis)
	}
	if cfg.Storage.Redis.TTL.Duration != 72*time.Hour {
		t.Errorf("expected redis ttl 72h, got %s", cfg.Storage.Redis.TTL)
	}
	if cfg.UI.DefaultView != "schedule" {
		t.Errorf("expected default_view schedule, got %s", cfg.UI.DefaultView)
	}
}

func TestLoadFrom_InvalidDuration(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := "[schedule]\nsnapshot_interval = \"soon\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
user = "ana"

[schedule]
end_of_day = "22:00"

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set env vars
	t.Setenv("DAYBOARD_USER", "bo")
	t.Setenv("DAYBOARD_SNAPSHOT_INTERVAL", "45s")
	t.Setenv("DAYBOARD_SESSION_LOG_BACKEND", "POSTGRES")
	t.Setenv("DAYBOARD_POSTGRES_PASSWORD", "s3cret")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.User != "bo" {
		t.Errorf("expected user bo from env, got %s", cfg.User)
	}
	// File value should be kept when no env override
	if cfg.Schedule.EndOfDay != "22:00" {
		t.Errorf("expected end_of_day 22:00 from file, got %s", cfg.Schedule.EndOfDay)
	}
	// Env should override default
	if cfg.Schedule.SnapshotInterval.Duration != 45*time.Second {
		t.Errorf("expected snapshot_interval 45s from env, got %s", cfg.Schedule.SnapshotInterval)
	}
	if cfg.Storage.SessionLogBackend != BackendPostgres {
		t.Errorf("expected postgres session log from env, got %s", cfg.Storage.SessionLogBackend)
	}
	if cfg.Storage.Postgres.Password != "s3cret" {
		t.Error("expected postgres password from env")
	}
}

func TestLoadFrom_InvalidEnvDuration(t *testing.T) {
	t.Setenv("DAYBOARD_END_OF_DAY_CHECK", "every minute")

	if _, err := LoadFrom("/nonexistent/path/config.toml"); err == nil {
		t.Error("expected error for invalid env duration")
	}
}

func TestLoadFrom_DotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	dotenv := "DAYBOARD_USER=from-dotenv\nDAYBOARD_LOG_LEVEL=debug\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(dotenv), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	// Register cleanup for the variables godotenv will set, then clear them.
	t.Setenv("DAYBOARD_USER", "")
	t.Setenv("DAYBOARD_LOG_LEVEL", "")
	_ = os.Unsetenv("DAYBOARD_USER")
	_ = os.Unsetenv("DAYBOARD_LOG_LEVEL")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.User != "from-dotenv" {
		t.Errorf("expected user from .env, got %s", cfg.User)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug from .env, got %s", cfg.Log.Level)
	}
}

func TestLoadFrom_DotEnvDoesNotOverrideEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("DAYBOARD_USER=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv("DAYBOARD_USER", "from-env")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.User != "from-env" {
		t.Errorf("expected process env to win, got %s", cfg.User)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty user",
			mutate:  func(c *Config) { c.User = "" },
			wantErr: "user must be set",
		},
		{
			name:    "end of day missing leading zero",
			mutate:  func(c *Config) { c.Schedule.EndOfDay = "9:00" },
			wantErr: "end_of_day must be in HH:MM format",
		},
		{
			name:    "end of day out of range",
			mutate:  func(c *Config) { c.Schedule.EndOfDay = "24:10" },
			wantErr: "not a valid time of day",
		},
		{
			name:    "snapshot interval too short",
			mutate:  func(c *Config) { c.Schedule.SnapshotInterval = Duration{100 * time.Millisecond} },
			wantErr: "snapshot_interval",
		},
		{
			name:    "end of day check longer than a minute",
			mutate:  func(c *Config) { c.Schedule.EndOfDayCheck = Duration{2 * time.Minute} },
			wantErr: "end_of_day_check",
		},
		{
			name:    "unknown snapshot backend",
			mutate:  func(c *Config) { c.Storage.SnapshotBackend = "memcached" },
			wantErr: "snapshot_backend must be one of",
		},
		{
			name:    "unknown session log backend",
			mutate:  func(c *Config) { c.Storage.SessionLogBackend = "redis" },
			wantErr: "session_log_backend must be one of",
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.UI.Theme = "solarized" },
			wantErr: "theme must be one of",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: "level must be one of",
		},
		{
			name: "redis without address",
			mutate: func(c *Config) {
				c.Storage.SnapshotBackend = BackendRedis
				c.Storage.Redis.Addr = ""
			},
			wantErr: "redis.addr",
		},
		{
			name: "postgres without database",
			mutate: func(c *Config) {
				c.Storage.SessionLogBackend = BackendPostgres
				c.Storage.Postgres.Database = ""
			},
			wantErr: "postgres.host and postgres.database",
		},
		{
			name:    "empty db path",
			mutate:  func(c *Config) { c.Storage.DBPath = "" },
			wantErr: "db_path must be set",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.User = "ana"
			tc.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := Default()
	cfg.Storage.Postgres = PostgresConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "ana",
		Database: "dayboard",
		SSLMode:  "require",
		Password: "it's secret",
	}

	want := `host=db.internal port=5433 dbname=dayboard user=ana password='it\'s secret' sslmode=require`
	if got := cfg.PostgresDSN(); got != want {
		t.Errorf("PostgresDSN() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.User = "ana"
	cfg.Schedule.SnapshotInterval = Duration{15 * time.Second}
	cfg.Schedule.EndOfDay = "21:00"
	cfg.Storage.Postgres.Password = "never-written"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if strings.Contains(string(data), "never-written") {
		t.Error("postgres password must not be written to the config file")
	}
	if !strings.Contains(string(data), `snapshot_interval = '15s'`) && !strings.Contains(string(data), `snapshot_interval = "15s"`) {
		t.Errorf("expected duration written as a string, got:\n%s", data)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Schedule.SnapshotInterval.Duration != 15*time.Second {
		t.Errorf("expected snapshot_interval 15s, got %s", loaded.Schedule.SnapshotInterval)
	}
	if loaded.Schedule.EndOfDay != "21:00" {
		t.Errorf("expected end_of_day 21:00, got %s", loaded.Schedule.EndOfDay)
	}
}
