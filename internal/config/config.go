// Package config loads server settings from AHP_* environment variables.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DevJWTSecret signs admin tokens when AHP_JWT_SECRET is unset.
const DevJWTSecret = "ahp-dev-secret"

// Config holds every setting the server reads from the environment.
type Config struct {
	Addr          string   `env:"AHP_ADDR" envDefault:":8080"`
	DBPath        string   `env:"AHP_DB_PATH"`
	MigrationsDir string   `env:"AHP_MIGRATIONS_DIR"`
	SnapshotPath  string   `env:"AHP_SNAPSHOT_PATH"`
	SurveyPath    string   `env:"AHP_SURVEY_PATH"`
	StaticDir     string   `env:"AHP_STATIC_DIR"`
	DefaultLocale string   `env:"AHP_DEFAULT_LOCALE" envDefault:"fa"`
	CORSOrigins   []string `env:"AHP_CORS_ORIGINS" envSeparator:","`

	AdminEmail        string        `env:"AHP_ADMIN_EMAIL"`
	AdminPasswordHash string        `env:"AHP_ADMIN_PASSWORD_HASH"`
	JWTSecret         string        `env:"AHP_JWT_SECRET"`
	TokenTTL          time.Duration `env:"AHP_TOKEN_TTL" envDefault:"24h"`

	LogLevel  string `env:"AHP_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"AHP_LOG_FORMAT" envDefault:"json"`

	Commit    string `env:"AHP_COMMIT"`
	BuildTime string `env:"AHP_BUILD_TIME"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("config: AHP_ADDR must not be empty")
	}
	if (c.AdminEmail == "") != (c.AdminPasswordHash == "") {
		return fmt.Errorf("config: AHP_ADMIN_EMAIL and AHP_ADMIN_PASSWORD_HASH must be set together")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: AHP_TOKEN_TTL must be positive")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("config: AHP_LOG_FORMAT %q unknown: want json|text", c.LogFormat)
	}
	return nil
}

// Secret returns the JWT signing key, falling back to DevJWTSecret.
func (c *Config) Secret() []byte {
	if c.JWTSecret == "" {
		return []byte(DevJWTSecret)
	}
	return []byte(c.JWTSecret)
}

// AdminEnabled reports whether an admin account is configured.
func (c *Config) AdminEnabled() bool {
	return c.AdminEmail != "" && c.AdminPasswordHash != ""
}

// NewLogger builds the process logger described by LogLevel and LogFormat.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
