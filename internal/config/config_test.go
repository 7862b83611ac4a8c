package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ALLOWED_ORIGINS", "LOG_LEVEL", "ENVIRONMENT", "ANNUAL_FEE_AMOUNT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 300.0, cfg.AnnualFeeAmount)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://hoa.example.com, https://admin.hoa.example.com")
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("ANNUAL_FEE_AMOUNT", "450.50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://hoa.example.com", "https://admin.hoa.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 450.50, cfg.AnnualFeeAmount)
}

func TestGetFloatEnv(t *testing.T) {
	t.Setenv("ANNUAL_FEE_AMOUNT", "not-a-number")
	assert.Equal(t, 300.0, getFloatEnv("ANNUAL_FEE_AMOUNT", 300))

	t.Setenv("ANNUAL_FEE_AMOUNT", "125.25")
	assert.Equal(t, 125.25, getFloatEnv("ANNUAL_FEE_AMOUNT", 300))
}

func TestParseOrigins(t *testing.T) {
	assert.Empty(t, parseOrigins(""))
	assert.Equal(t, []string{"a", "b"}, parseOrigins(" a ,, b "))
}
