// Package config reads portal and API settings from the environment.
//
// An optional .env file in the working directory is loaded first; variables
// already set in the environment win over the file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment names
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Portal holds the settings of cmd/server.
type Portal struct {
	Addr           string
	Env            string
	LogLevel       slog.Level
	BackendURL     string
	BackendTimeout time.Duration
	CSRFKeyHex     string
	TrustedOrigins []string
	FormTTL        time.Duration
	SlowRequestMs  int
}

// Production reports whether the portal runs in production.
func (p Portal) Production() bool {
	return p.Env == EnvProduction
}

// API holds the settings of cmd/api.
type API struct {
	Addr          string
	Env           string
	LogLevel      slog.Level
	DBDriver      string
	DBDSN         string
	JWTSecret     string
	TokenTTL      time.Duration
	CORSOrigins   []string
	ResendKey     string
	EmailFrom     string
	AdminEmail    string
	AdminPassword string
	SlowRequestMs int
}

// Production reports whether the API runs in production.
func (a API) Production() bool {
	return a.Env == EnvProduction
}

// loadDotEnv reads .env when present. A missing file is not an error.
func loadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		slog.Warn("config_event", "event", "env_file_unreadable", "error", err)
	}
}

// LoadPortal reads the portal settings.
// POST: every duration and number is positive; a malformed value falls back to its default
func LoadPortal(envFiles ...string) (Portal, error) {
	loadDotEnv(envFiles...)
	cfg := Portal{
		Addr:           envOrDefault("PORTAL_ADDR", ":8080"),
		Env:            envOrDefault("PORTAL_ENV", EnvDevelopment),
		LogLevel:       envLevel("PORTAL_LOG_LEVEL"),
		BackendURL:     strings.TrimRight(envOrDefault("PORTAL_BACKEND_URL", "http://localhost:8081"), "/"),
		BackendTimeout: envDuration("PORTAL_BACKEND_TIMEOUT", 10*time.Second),
		CSRFKeyHex:     os.Getenv("PORTAL_CSRF_KEY"),
		TrustedOrigins: envList("PORTAL_TRUSTED_ORIGINS"),
		FormTTL:        envDuration("PORTAL_FORM_TTL", 2*time.Hour),
		SlowRequestMs:  envInt("PORTAL_SLOW_REQUEST_MS", 0),
	}
	if cfg.Production() && cfg.CSRFKeyHex == "" {
		return Portal{}, fmt.Errorf("PORTAL_CSRF_KEY is required when PORTAL_ENV=%s", EnvProduction)
	}
	return cfg, nil
}

// LoadAPI reads the API settings.
// POST: a production config always carries a JWT secret
func LoadAPI(envFiles ...string) (API, error) {
	loadDotEnv(envFiles...)
	cfg := API{
		Addr:          envOrDefault("API_ADDR", ":8081"),
		Env:           envOrDefault("API_ENV", EnvDevelopment),
		LogLevel:      envLevel("API_LOG_LEVEL"),
		DBDriver:      envOrDefault("API_DB_DRIVER", "sqlite"),
		DBDSN:         envOrDefault("API_DB_DSN", "sportsschool.db"),
		JWTSecret:     os.Getenv("API_JWT_SECRET"),
		TokenTTL:      envDuration("API_TOKEN_TTL", 12*time.Hour),
		CORSOrigins:   envList("API_CORS_ORIGINS"),
		ResendKey:     os.Getenv("API_RESEND_KEY"),
		EmailFrom:     envOrDefault("API_EMAIL_FROM", "Sports School <noreply@sportsschool.test>"),
		AdminEmail:    envOrDefault("API_ADMIN_EMAIL", "admin@sportsschool.test"),
		AdminPassword: os.Getenv("API_ADMIN_PASSWORD"),
		SlowRequestMs: envInt("API_SLOW_REQUEST_MS", 0),
	}
	if cfg.JWTSecret == "" {
		if cfg.Production() {
			return API{}, fmt.Errorf("API_JWT_SECRET is required when API_ENV=%s", EnvProduction)
		}
		cfg.JWTSecret = "development-only-secret"
		slog.Warn("config_event", "event", "jwt_secret_defaulted", "detail", "tokens will not survive a secret change")
	}
	return cfg, nil
}

// NewLogger returns the slog logger for env: JSON in production, text otherwise.
func NewLogger(env string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if env == EnvProduction {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("config_event", "event", "invalid_duration", "key", key, "value", v)
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("config_event", "event", "invalid_number", "key", key, "value", v)
		return fallback
	}
	return n
}

// envList splits a comma-separated variable, dropping blanks.
func envList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envLevel(key string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(envOrDefault(key, "info"))); err != nil {
		return slog.LevelInfo
	}
	return level
}
