package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"5000" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL    string `env:"DATABASE_URL,required" validate:"required"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"false"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret     string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	TokenTTL      time.Duration `env:"TOKEN_TTL"       envDefault:"1h"  validate:"min=1m"`
	OAuthTokenTTL time.Duration `env:"OAUTH_TOKEN_TTL" envDefault:"24h" validate:"min=1m"`
	OAuthStateTTL time.Duration `env:"OAUTH_STATE_TTL" envDefault:"10m" validate:"min=1m,max=1h"`
	BcryptCost    int           `env:"BCRYPT_COST"     envDefault:"10"  validate:"min=4,max=31"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"     validate:"required_unless=Env local"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET" validate:"required_unless=Env local"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"  envDefault:"http://localhost:5000/auth/google/callback" validate:"url"`
	GoogleJWKSURL      string `env:"GOOGLE_JWKS_URL"      envDefault:"https://www.googleapis.com/oauth2/v3/certs" validate:"url"`

	FrontendURL        string   `env:"FRONTEND_URL"         envDefault:"http://localhost:5173" validate:"url"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:"," validate:"min=1,dive,url"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`

	JanitorSchedule string `env:"JANITOR_SCHEDULE" envDefault:"@every 5m" validate:"required"`
}

// Load reads the process environment. A .env file in the working directory,
// if present, is merged in first; variables already set win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GoogleEnabled reports whether the Google sign-in routes can be served.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}
