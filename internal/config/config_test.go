package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "API_BASE_URL", "API_TIMEOUT", "MESSAGE_TTL", "SESSION_DB_PATH", "JWT_EXPIRATION_HOURS", "SERVER_PORT")

	cfg := Load()

	assert.Equal(t, "http://127.0.0.1:5000", cfg.APIBaseURL)
	assert.Equal(t, time.Duration(0), cfg.APITimeout)
	assert.Equal(t, 3*time.Second, cfg.MessageTTL)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Empty(t, cfg.SessionDBPath)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpirationHours)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://parking.internal:9000")
	t.Setenv("API_TIMEOUT", "15s")
	t.Setenv("MESSAGE_TTL", "500ms")

	cfg := Load()

	assert.Equal(t, "http://parking.internal:9000", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.MessageTTL)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("MESSAGE_TTL", "three seconds")

	assert.Equal(t, 3*time.Second, Load().MessageTTL)
}
