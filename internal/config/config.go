// Package config loads runtime settings from the environment, with .env
// support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings.
type Config struct {
	Environment     string
	HTTP            HTTPConfig
	Database        DatabaseConfig
	Log             LogConfig
	AllowedOrigins  string
	QuoteExpiryCron string // cron expression for the quote expiry sweep
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	URL          string
	MaxConns     int
	ConnLifetime time.Duration
}

type LogConfig struct {
	Level    string
	Encoding string // "json" or "console"
}

// Load reads configuration from the environment. A missing DATABASE_URL is
// the only fatal omission; everything else has a sensible default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		HTTP: HTTPConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:          dbURL,
			MaxConns:     getInt("DB_MAX_CONNS", 10),
			ConnLifetime: getDuration("DB_CONN_LIFETIME", 30*time.Minute),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		AllowedOrigins:  os.Getenv("ALLOWED_ORIGINS"),
		QuoteExpiryCron: getEnv("QUOTE_EXPIRY_CRON", "@hourly"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
