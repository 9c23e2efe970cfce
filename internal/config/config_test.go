package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Second, cfg.GuardTimeout)
	assert.Equal(t, "./public", cfg.PublicDir)
	assert.False(t, cfg.PostgresEnabled)
	assert.False(t, cfg.Delegated(), "no guard URL means simulated mode")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("GUARD_BASE_URL", "https://guard.example")
	t.Setenv("GUARD_TIMEOUT", "3s")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("POSTGRES_ENABLED", "true")
	t.Setenv("HISTORY_LIMIT", "25")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://guard.example", cfg.GuardBaseURL)
	assert.Equal(t, 3*time.Second, cfg.GuardTimeout)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.PostgresEnabled)
	assert.Equal(t, 25, cfg.HistoryLimit)
	assert.True(t, cfg.Delegated())
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("GUARD_TIMEOUT", "soon")
	t.Setenv("HISTORY_LIMIT", "many")

	cfg := Load()

	assert.Equal(t, 10*time.Second, cfg.GuardTimeout)
	assert.Equal(t, 200, cfg.HistoryLimit)
}
