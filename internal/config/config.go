// Package config loads bootstrap settings for binaries embedding the SDK.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the process bootstrap settings.
type Config struct {
	AppEnv      string
	LogLevel    string
	LogFormat   string
	StreamPort  int
	ServiceName string
	// StreamEnabled gates the stream server. Defaults to true outside
	// production so a forgotten env var cannot expose logs in production.
	StreamEnabled bool
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		ServiceName: getEnv("SLOGX_SERVICE", "go-service"),
	}

	port, err := strconv.Atoi(getEnv("SLOGX_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("SLOGX_PORT must be an integer: %w", err)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("SLOGX_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.StreamPort = port

	enabledDefault := "true"
	if cfg.AppEnv == "production" {
		enabledDefault = "false"
	}
	enabled, err := strconv.ParseBool(getEnv("SLOGX_ENABLED", enabledDefault))
	if err != nil {
		return nil, fmt.Errorf("SLOGX_ENABLED must be a boolean: %w", err)
	}
	cfg.StreamEnabled = enabled

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
