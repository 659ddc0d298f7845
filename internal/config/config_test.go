package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "LOG_LEVEL", "LOG_FORMAT", "SLOGX_PORT", "SLOGX_SERVICE", "SLOGX_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.StreamPort)
	assert.Equal(t, "go-service", cfg.ServiceName)
	assert.True(t, cfg.StreamEnabled)
}

func TestLoad_ProductionDisablesStream(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.StreamEnabled)
}

func TestLoad_ExplicitEnableWinsInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SLOGX_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.StreamEnabled)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("SLOGX_PORT", "19001")
	t.Setenv("SLOGX_SERVICE", "billing")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 19001, cfg.StreamPort)
	assert.Equal(t, "billing", cfg.ServiceName)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "SLOGX_PORT", "abc"},
		{"port too large", "SLOGX_PORT", "70000"},
		{"port zero", "SLOGX_PORT", "0"},
		{"bad enabled flag", "SLOGX_ENABLED", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
