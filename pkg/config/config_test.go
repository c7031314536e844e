package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 50, cfg.ChatHistoryLimit)
	assert.Equal(t, 24*time.Hour, cfg.StoryTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://greia.app, https://admin.greia.app ,")
	t.Setenv("STORY_TTL_HOURS", "12")
	t.Setenv("CHAT_HISTORY_LIMIT", "20")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://greia.app", "https://admin.greia.app"}, cfg.AllowedOrigins)
	assert.Equal(t, 12*time.Hour, cfg.StoryTTL)
	assert.Equal(t, 20, cfg.ChatHistoryLimit)
}
