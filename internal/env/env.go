// Package env reads settings from the environment, loading a .env file
// from the working directory first.
package env

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Init loads <dir>/.env without overriding variables already set.
// A missing file is not an error.
func Init(dir string, logger *slog.Logger) {
	path := filepath.Join(dir, ".env")
	if err := godotenv.Load(path); err != nil {
		logger.Debug("no .env file loaded", "path", path, "error", err)
		return
	}
	logger.Debug("environment variables loaded", "path", path)
}

func GetString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			slog.Warn("env must be integer, using fallback", "key", key, "value", val, "fallback", fallback)
			return fallback
		}
		return i
	}
	return fallback
}

func GetBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			slog.Warn("env must be boolean, using fallback", "key", key, "value", val, "fallback", fallback)
			return fallback
		}
		return b
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			slog.Warn("env must be a duration, using fallback", "key", key, "value", val, "fallback", fallback)
			return fallback
		}
		return d
	}
	return fallback
}
