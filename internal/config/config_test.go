package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "asc", cfg.CreatedAtOrder)
	assert.Equal(t, "game-images", cfg.MediaBucket)
	assert.Equal(t, 24*time.Hour, cfg.SessionDuration)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database_type: postgres
database_url: postgres://game@localhost/game
created_at_order: desc
media_backend: s3
media_bucket: from-file
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MEDIA_BUCKET", "from-env")
	t.Setenv("SESSION_DURATION", "2h")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, "postgres://game@localhost/game", cfg.DatabaseURL)
	assert.Equal(t, "desc", cfg.CreatedAtOrder)
	assert.Equal(t, "s3", cfg.MediaBackend)
	assert.Equal(t, "from-env", cfg.MediaBucket)
	assert.Equal(t, 2*time.Hour, cfg.SessionDuration)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOCAL_BACKEND=memory\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LOCAL_BACKEND") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.LocalBackend)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "order", key: "CREATED_AT_ORDER", val: "sideways"},
		{name: "local backend", key: "LOCAL_BACKEND", val: "cookie"},
		{name: "media backend", key: "MEDIA_BACKEND", val: "ftp"},
		{name: "session duration", key: "SESSION_DURATION", val: "forever"},
		{name: "debug", key: "DEBUG", val: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadPublishAdmins(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PUBLISH_ADMINS", " ops@example.com,, Admin@Example.com ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"ops@example.com", "Admin@Example.com"}, cfg.PublishAdmins)
}
