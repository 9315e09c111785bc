// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// JWTSecret signs session tokens. Required, at least 16 characters.
	JWTSecret string

	// GoogleClientID and GoogleClientSecret identify the OAuth client. Required.
	GoogleClientID     string
	GoogleClientSecret string

	// PublicBaseURL is the externally reachable origin of this server, used to
	// build the OAuth callback URL. Defaults to "http://localhost:8080".
	PublicBaseURL string

	// SessionTTL is the lifetime of a session token. Defaults to 7 days.
	SessionTTL time.Duration

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// AuthRatePerMinute limits POST /api/auth per client IP. 0 disables it.
	// Defaults to 10.
	AuthRatePerMinute int

	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP. Set it
	// only behind a reverse proxy that overwrites those headers. Defaults to false.
	TrustProxy bool
}

// CallbackURL returns the OAuth redirect URI registered with Google.
func (c Config) CallbackURL() string {
	return strings.TrimRight(c.PublicBaseURL, "/") + "/auth/callback"
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first variable that cannot be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
	}

	var missing []string
	required := func(key string, dst *string) {
		*dst = os.Getenv(key)
		if *dst == "" {
			missing = append(missing, key)
		}
	}
	required("DATABASE_URL", &cfg.DatabaseURL)
	required("JWT_SECRET", &cfg.JWTSecret)
	required("GOOGLE_CLIENT_ID", &cfg.GoogleClientID)
	required("GOOGLE_CLIENT_SECRET", &cfg.GoogleClientSecret)

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "168h")); err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64); err != nil {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES: %w", err)
	}
	if cfg.AuthRatePerMinute, err = strconv.Atoi(getEnv("AUTH_RATE_PER_MINUTE", "10")); err != nil {
		return Config{}, fmt.Errorf("AUTH_RATE_PER_MINUTE: %w", err)
	}
	if cfg.TrustProxy, err = strconv.ParseBool(getEnv("TRUST_PROXY", "false")); err != nil {
		return Config{}, fmt.Errorf("TRUST_PROXY: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv seeds the environment from the given .env files (".env" when
// none are named). Variables already set win, and missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config.LoadDotEnv: %s: %w", f, err)
		}
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
