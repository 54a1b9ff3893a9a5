package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("MONGODB_URI", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, DefaultAdminPassword, cfg.Admin.Password)
	require.Equal(t, cfg.Admin.Password, cfg.Admin.TokenSecret)
	require.Empty(t, cfg.MongoDB.URI)
	require.Equal(t, "assets/misc/content.json", cfg.Local.ContentFile)
	require.Equal(t, "js/projects-data.json", cfg.Local.ProjectsFile)
	require.Equal(t, 10, cfg.Sync.GalleryMaxFiles)
	require.Equal(t, 5, cfg.Sync.GalleryMaxFileMB)
	require.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	require.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("API_BASE_URL", "http://localhost:3000/")
	t.Setenv("SYNC_EMPTY_PROJECTS", "FallThrough")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	require.Equal(t, "s3cret", cfg.Admin.Password)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.Equal(t, "http://localhost:3000", cfg.API.BaseURL)
	require.Equal(t, "fallthrough", cfg.Sync.EmptyProjects)
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "site.env")
	require.NoError(t, os.WriteFile(envFile, []byte("MINIO_ENDPOINT=minio.local:9000\nMINIO_PUBLIC_URL=https://cdn.example.com/\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("MINIO_ENDPOINT")
		os.Unsetenv("MINIO_PUBLIC_URL")
	})

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)
	require.Equal(t, "minio.local:9000", cfg.Storage.Endpoint)
	require.Equal(t, "https://cdn.example.com", cfg.Storage.PublicURL)
}

func TestRedisAddrEmptyWhenUnset(t *testing.T) {
	require.Equal(t, "", RedisConfig{Port: "6379"}.Addr())
}
