package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{name: "go duration", value: "15m", expected: 15 * time.Minute},
		{name: "days suffix", value: "7d", expected: 7 * 24 * time.Hour},
		{name: "garbage falls back", value: "soon", expected: time.Hour},
		{name: "empty falls back", value: "", expected: time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.expected, getEnvAsDuration("TEST_DURATION", time.Hour))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FRONTEND_URL", "https://klub.example")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("JWT_ACCESS_EXPIRATION", "")

	cfg := Load()

	assert.Equal(t, "https://klub.example", cfg.App.FrontendURL)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
}
