package myconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.NoError(t, err)
		assert.Equal(t, time.Hour, cfg.SessionTTL)
		assert.Equal(t, "https://api.github.com", cfg.GithubAPIURL)
		assert.Equal(t, "public_repo", cfg.GithubScopes)
	})

	t.Run("Environment", func(t *testing.T) {
		t.Setenv("GITHUB_CLIENT_ID", "client")
		t.Setenv("GITHUB_CLIENT_SECRET", "secret")
		t.Setenv("SESSION_TTL", "30m")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.NoError(t, err)
		assert.Equal(t, "client", cfg.GithubClientID)
		assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
		assert.NoError(t, cfg.ValidateForServer())
	})

	t.Run("Env file", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		err := os.WriteFile(envFile, []byte("REDIS_URL=redis://localhost:6379/0\n"), 0600)
		assert.NoError(t, err)
		t.Cleanup(func() { os.Unsetenv("REDIS_URL") })

		cfg, err := Load(envFile)
		assert.NoError(t, err)
		assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	})

	t.Run("Server requires oauth credentials", func(t *testing.T) {
		cfg := Config{SessionTTL: time.Hour}
		assert.Error(t, cfg.ValidateForServer())
	})
}
