// ABOUTME: Configuration loader for the lostfound client
// ABOUTME: Loads settings from an optional .env file and environment variables with defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL      = "http://localhost:8080"
	DefaultHTTPTimeout = 30 // seconds
	appDirName         = "lostfound"
)

type Config struct {
	// Backend
	APIURL      string
	HTTPTimeout time.Duration // 0 disables the client timeout

	// Local state (session file, debug log)
	ConfigDir string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; variables already set win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:      strings.TrimRight(getEnv("LOSTFOUND_API_URL", DefaultAPIURL), "/"),
		HTTPTimeout: time.Duration(getEnvInt("LOSTFOUND_HTTP_TIMEOUT", DefaultHTTPTimeout)) * time.Second,
		ConfigDir:   getEnv("LOSTFOUND_CONFIG_DIR", DefaultConfigDir()),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}

	if cfg.HTTPTimeout < 0 {
		return nil, fmt.Errorf("LOSTFOUND_HTTP_TIMEOUT must not be negative, got %s", os.Getenv("LOSTFOUND_HTTP_TIMEOUT"))
	}
	if !strings.Contains(cfg.APIURL, "://") {
		return nil, fmt.Errorf("LOSTFOUND_API_URL must include a scheme, got %q", cfg.APIURL)
	}

	return cfg, nil
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
