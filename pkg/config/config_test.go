package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, int64(20*1024*1024), cfg.Storage.MaxUploadBytes)
	assert.False(t, cfg.Policy.ContentRequiresExecutive)
	assert.False(t, cfg.Policy.PendingQueueRequiresExecutive)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("POLICY_PENDING_QUEUE_REQUIRES_EXECUTIVE", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://portal.example.edu, ,https://admin.example.edu")
	t.Setenv("CACHE_TTL", "not-a-duration")
	t.Setenv("PUBLIC_BASE_URL", "https://api.example.edu/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageDriverS3, cfg.Storage.Driver)
	assert.True(t, cfg.Policy.PendingQueueRequiresExecutive)
	assert.Equal(t, []string{"https://portal.example.edu", "https://admin.example.edu"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "https://api.example.edu", cfg.PublicBaseURL)
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
