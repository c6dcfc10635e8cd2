// Package config loads application settings.
//
// Sources, lowest precedence first:
//  1. `default` struct tags
//  2. an optional YAML/JSON/TOML file (the --config flag)
//  3. environment variables named by the `env` tags, including any set by a
//     .env file in the working directory
//
// Durations are kept as strings ("30s", "168h") and parsed by Validate, so a
// typo fails at startup instead of silently becoming zero.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jinzhu/configor"
	"github.com/joho/godotenv"

	"github.com/sakif/affirmations/internal/calendar"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Log      LogConfig
	Media    MediaConfig

	// Timezone is the IANA zone that decides when "today" starts for mood
	// tracking. "Local" means the server's zone.
	Timezone string `default:"Local" env:"APP_TIMEZONE"`
}

type ServerConfig struct {
	Port            int    `default:"8080" env:"PORT"`
	CORSOrigins     string `default:"http://localhost:5173" env:"CORS_ORIGINS"` // comma separated
	ShutdownTimeout string `default:"30s" env:"SHUTDOWN_TIMEOUT"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type DatabaseConfig struct {
	Driver string `default:"sqlite" env:"DB_DRIVER"`
	Path   string `default:"data/affirmations.db" env:"DB_PATH"`
	URL    string `env:"DATABASE_URL"`
}

type AuthConfig struct {
	JWTSecret       string `env:"JWT_SECRET"`
	SessionTTL      string `default:"168h" env:"SESSION_TTL"`
	JanitorInterval string `default:"1h" env:"SESSION_JANITOR_INTERVAL"`
	SecureCookie    bool   `default:"false" env:"COOKIE_SECURE"`
}

type LogConfig struct {
	Level  string `default:"info" env:"LOG_LEVEL"`
	Format string `default:"text" env:"LOG_FORMAT"` // text or json
	File   string `env:"LOG_FILE"`                  // also log to this rotating file
}

// MediaConfig selects how audio and image paths become URLs. With an S3
// bucket, URLs are presigned; with a base URL, paths are joined onto it;
// with neither, clients get the stored paths only.
type MediaConfig struct {
	BaseURL     string `env:"MEDIA_BASE_URL"`
	S3Bucket    string `env:"MEDIA_S3_BUCKET"`
	S3Region    string `default:"us-east-1" env:"MEDIA_S3_REGION"`
	S3Endpoint  string `env:"MEDIA_S3_ENDPOINT"`
	S3AccessKey string `env:"MEDIA_S3_ACCESS_KEY"`
	S3SecretKey string `env:"MEDIA_S3_SECRET_KEY"`
	PresignTTL  string `default:"15m" env:"MEDIA_PRESIGN_TTL"`
}

// Load reads .env (if present), then file (if non-empty), then the
// environment, and validates the result.
func Load(file string) (*Config, error) {
	// A missing .env is normal in production.
	_ = godotenv.Load()

	var files []string
	if file != "" {
		files = append(files, file)
	}

	var cfg Config
	loader := configor.New(&configor.Config{ENVPrefix: "AFFIRM"})
	if err := loader.Load(&cfg, files...); err != nil {
		return nil, fmt.Errorf("config: loading: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Server.Port))
	}
	errs = appendDurationErr(errs, "SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q must be %q or %q", c.Database.Driver, DriverSQLite, DriverPostgres))
	}

	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	errs = appendDurationErr(errs, "SESSION_TTL", c.Auth.SessionTTL)
	errs = appendDurationErr(errs, "SESSION_JANITOR_INTERVAL", c.Auth.JanitorInterval)

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q must be text or json", c.Log.Format))
	}

	if _, err := calendar.Load(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("APP_TIMEZONE: %w", err))
	}

	if c.Media.S3Bucket != "" && c.Media.BaseURL != "" {
		errs = append(errs, errors.New("set only one of MEDIA_S3_BUCKET and MEDIA_BASE_URL"))
	}
	errs = appendDurationErr(errs, "MEDIA_PRESIGN_TTL", c.Media.PresignTTL)

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func appendDurationErr(errs []error, name, value string) []error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", name, err))
	}
	if d <= 0 {
		return append(errs, fmt.Errorf("%s must be positive", name))
	}
	return errs
}

// Origins splits CORSOrigins into a list, dropping blanks.
func (s ServerConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(s.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// The duration accessors below assume Validate has passed.

func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return mustDuration(s.ShutdownTimeout)
}

func (a AuthConfig) SessionTTLDuration() time.Duration {
	return mustDuration(a.SessionTTL)
}

func (a AuthConfig) JanitorIntervalDuration() time.Duration {
	return mustDuration(a.JanitorInterval)
}

func (m MediaConfig) PresignTTLDuration() time.Duration {
	return mustDuration(m.PresignTTL)
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL %q: %w", l.Level, err)
	}
	return level, nil
}
