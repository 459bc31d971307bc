package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("USE_SUPABASE", "")
	t.Setenv("SUPABASE_URL", "")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "admin@urbanhand.com", cfg.AdminEmail)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.SupabaseEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("USE_SUPABASE", "true")
	t.Setenv("SUPABASE_URL", "https://x.supabase.co")
	t.Setenv("ANALYTICS_WORKERS", "not-a-number")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.SupabaseEnabled())
	assert.Equal(t, 8, cfg.AnalyticsWorkers)
	assert.True(t, cfg.SecureCookie)
}

func TestLoadDotEnv_DoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\nREDIS_URL=redis://from-file:6379\n"), 0o600))

	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("REDIS_URL", "")
	os.Unsetenv("REDIS_URL")

	LoadDotEnv(path, filepath.Join(dir, "missing.env"))
	t.Cleanup(func() { os.Unsetenv("REDIS_URL") })

	assert.Equal(t, "warn", os.Getenv("LOG_LEVEL"))
	assert.Equal(t, "redis://from-file:6379", os.Getenv("REDIS_URL"))
}
