package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SAVED_LIMIT", "5")
	t.Setenv("NOTIFICATION_TTL", "3s")

	require.NoError(t, LoadConfig())

	assert.Equal(t, "test-key", AppConfig.GeminiAPIKey)
	assert.Equal(t, 5, AppConfig.SavedLimit)
	assert.Equal(t, 3*time.Second, AppConfig.NotificationTTL)
	assert.Equal(t, "8080", AppConfig.HTTPPort)
	assert.Equal(t, 10, AppConfig.ChatHistoryLimit)
	assert.Equal(t, "sqlite", AppConfig.RemoteDriver)

	assert.EqualError(t, AppConfig.Require(), "JWT_SECRET environment variable is required")
	AppConfig.JWTSecret = "s3cret"
	assert.NoError(t, AppConfig.Require())
}
