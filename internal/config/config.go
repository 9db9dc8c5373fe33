// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Backend names.
const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	User     string         `toml:"user" validate:"required"`
	Schedule ScheduleConfig `toml:"schedule"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// ScheduleConfig holds the persistence timers of the day board.
type ScheduleConfig struct {
	SnapshotInterval Duration `toml:"snapshot_interval"` // e.g., "30s"
	EndOfDayCheck    Duration `toml:"end_of_day_check"`  // e.g., "1m"
	EndOfDay         string   `toml:"end_of_day"`        // e.g., "23:59"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath            string         `toml:"db_path" validate:"required"`
	SnapshotBackend   string         `toml:"snapshot_backend" validate:"oneof=sqlite redis"`
	SessionLogBackend string         `toml:"session_log_backend" validate:"oneof=sqlite postgres"`
	Redis             RedisConfig    `toml:"redis"`
	Postgres          PostgresConfig `toml:"postgres"`
}

// RedisConfig holds the snapshot cache connection.
type RedisConfig struct {
	Addr     string   `toml:"addr"`
	Password string   `toml:"password,omitempty"`
	DB       int      `toml:"db" validate:"gte=0"`
	TTL      Duration `toml:"ttl"` // zero keeps snapshots forever
}

// PostgresConfig holds the remote session log connection.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port" validate:"gte=0,lte=65535"`
	User     string `toml:"user"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	// Password is only read from the environment or the OS keyring.
	Password   string `toml:"-"`
	UseKeyring bool   `toml:"use_keyring"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme       string `toml:"theme" validate:"oneof=mocha macchiato frappe latte light"`
	DefaultView string `toml:"default_view" validate:"oneof=day schedule"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	File  string `toml:"file"`
}

// Duration is a time.Duration written as a string like "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		User: defaultUser(),
		Schedule: ScheduleConfig{
			SnapshotInterval: Duration{30 * time.Second},
			EndOfDayCheck:    Duration{time.Minute},
			EndOfDay:         "23:59",
		},
		Storage: StorageConfig{
			DBPath:            filepath.Join(DataDir(), "dayboard.db"),
			SnapshotBackend:   BackendSQLite,
			SessionLogBackend: BackendSQLite,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "dayboard",
				SSLMode:  "disable",
			},
		},
		UI: UIConfig{
			Theme:       "frappe",
			DefaultView: "day",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

func defaultUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if v := os.Getenv("USER"); v != "" {
		return v
	}
	return "me"
}

// DataDir returns the directory holding the database and logs.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "dayboard")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "dayboard", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, loads a .env
// file next to it, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	// Expand paths
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// loadDotEnv loads variables from a .env file without overriding the environment.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DAYBOARD_USER"); v != "" {
		cfg.User = v
	}

	// Schedule overrides
	if v := os.Getenv("DAYBOARD_SNAPSHOT_INTERVAL"); v != "" {
		if err := cfg.Schedule.SnapshotInterval.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("DAYBOARD_SNAPSHOT_INTERVAL: %w", err)
		}
	}
	if v := os.Getenv("DAYBOARD_END_OF_DAY_CHECK"); v != "" {
		if err := cfg.Schedule.EndOfDayCheck.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("DAYBOARD_END_OF_DAY_CHECK: %w", err)
		}
	}
	if v := os.Getenv("DAYBOARD_END_OF_DAY"); v != "" {
		cfg.Schedule.EndOfDay = v
	}

	// Storage overrides
	if v := os.Getenv("DAYBOARD_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("DAYBOARD_SNAPSHOT_BACKEND"); v != "" {
		cfg.Storage.SnapshotBackend = strings.ToLower(v)
	}
	if v := os.Getenv("DAYBOARD_SESSION_LOG_BACKEND"); v != "" {
		cfg.Storage.SessionLogBackend = strings.ToLower(v)
	}
	if v := os.Getenv("DAYBOARD_REDIS_ADDR"); v != "" {
		cfg.Storage.Redis.Addr = v
	}
	if v := os.Getenv("DAYBOARD_REDIS_PASSWORD"); v != "" {
		cfg.Storage.Redis.Password = v
	}
	if v := os.Getenv("DAYBOARD_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DAYBOARD_REDIS_DB: %w", err)
		}
		cfg.Storage.Redis.DB = db
	}
	if v := os.Getenv("DAYBOARD_POSTGRES_HOST"); v != "" {
		cfg.Storage.Postgres.Host = v
	}
	if v := os.Getenv("DAYBOARD_POSTGRES_USER"); v != "" {
		cfg.Storage.Postgres.User = v
	}
	if v := os.Getenv("DAYBOARD_POSTGRES_DATABASE"); v != "" {
		cfg.Storage.Postgres.Database = v
	}
	if v := os.Getenv("DAYBOARD_POSTGRES_PASSWORD"); v != "" {
		cfg.Storage.Postgres.Password = v
	}

	// UI overrides
	if v := os.Getenv("DAYBOARD_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}

	// Log overrides
	if v := os.Getenv("DAYBOARD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var validate = newValidator()

// newValidator reports fields by their TOML names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return err
	}

	if err := validateTime(c.Schedule.EndOfDay, "end_of_day"); err != nil {
		return err
	}
	if c.Schedule.SnapshotInterval.Duration < time.Second {
		return fmt.Errorf("snapshot_interval must be at least 1s, got %s", c.Schedule.SnapshotInterval)
	}
	if c.Schedule.EndOfDayCheck.Duration < time.Second || c.Schedule.EndOfDayCheck.Duration > time.Minute {
		return fmt.Errorf("end_of_day_check must be between 1s and 1m, got %s", c.Schedule.EndOfDayCheck)
	}
	if c.Storage.SnapshotBackend == BackendRedis && c.Storage.Redis.Addr == "" {
		return errors.New("redis.addr must be set when snapshot_backend is redis")
	}
	if c.Storage.SessionLogBackend == BackendPostgres {
		if c.Storage.Postgres.Host == "" || c.Storage.Postgres.Database == "" {
			return errors.New("postgres.host and postgres.database must be set when session_log_backend is postgres")
		}
	}
	return nil
}

// fieldError turns a validator error into a message naming the TOML field.
func fieldError(fe validator.FieldError) error {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s must be set", field)
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	default:
		return fmt.Errorf("%s is invalid (%s)", field, fe.Tag())
	}
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if len(t) != 5 || t[2] != ':' {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	hour := t[0:2]
	min := t[3:5]
	if !isDigits(hour) || !isDigits(min) {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	if hour > "23" || min > "59" {
		return fmt.Errorf("%s is not a valid time of day, got %q", field, t)
	}
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// PostgresDSN returns a lib/pq connection string for the session log.
func (c *Config) PostgresDSN() string {
	p := c.Storage.Postgres
	parts := []string{
		"host=" + p.Host,
		"port=" + strconv.Itoa(p.Port),
		"dbname=" + p.Database,
	}
	if p.User != "" {
		parts = append(parts, "user="+p.User)
	}
	if p.Password != "" {
		parts = append(parts, "password="+quoteDSN(p.Password))
	}
	if p.SSLMode != "" {
		parts = append(parts, "sslmode="+p.SSLMode)
	}
	return strings.Join(parts, " ")
}

func quoteDSN(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
