package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the service.
type Config struct {
	Env               string
	HTTPAddr          string
	DatabaseURL       string
	JWTSecret         string
	TokenTTL          time.Duration
	Location          *time.Location
	TelegramToken     string
	DigestTime        string
	LogLevel          string
	AuthRatePerMinute int
	CORSOrigins       []string
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// DigestEnabled reports whether daily Telegram digests should be scheduled.
func (c Config) DigestEnabled() bool {
	return c.TelegramToken != ""
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:               env("APP_ENV", "development"),
		HTTPAddr:          env("HTTP_ADDR", ":8080"),
		DatabaseURL:       env("DATABASE_URL", "todo_list.db"),
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:          time.Duration(positiveInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		TelegramToken:     strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DigestTime:        env("DIGEST_TIME", "08:00"),
		LogLevel:          env("LOG_LEVEL", "info"),
		AuthRatePerMinute: positiveInt("AUTH_RATE_PER_MINUTE", 30),
		CORSOrigins:       splitList(os.Getenv("CORS_ORIGINS")),
	}

	loc, err := time.LoadLocation(env("TIMEZONE", "Local"))
	if err != nil {
		return cfg, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func positiveInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
