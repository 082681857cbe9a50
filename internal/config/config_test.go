package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
logLevel: debug
limit: 12
format: tiff
scale: 4
store:
  kind: s3
  bucket: datasets
  prefix: ophthalmology/
  region: eu-central-1
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 12, cfg.Limit)
	assert.Equal(t, "tiff", cfg.Format)
	assert.Equal(t, 4, cfg.Scale)
	assert.Equal(t, "go-json", cfg.Codec)
	assert.Equal(t, Store{Kind: StoreS3, Root: ".", Bucket: "datasets", Prefix: "ophthalmology/", Region: "eu-central-1"}, cfg.Store)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "limit: 3\n")

	t.Setenv("PIXVEC_LIMIT", "9")
	t.Setenv("PIXVEC_LOG_LEVEL", "warn")
	t.Setenv("PIXVEC_STORE", "minio")
	t.Setenv("PIXVEC_BUCKET", "b")
	t.Setenv("PIXVEC_MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("PIXVEC_MINIO_SECURE", "true")
	t.Setenv("PIXVEC_MEMORY_LIMIT", "1048576")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Limit)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, StoreMinIO, cfg.Store.Kind)
	assert.True(t, cfg.Store.Secure)
	assert.Equal(t, int64(1<<20), cfg.MemoryLimitBytes)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "limit: [1"))
	assert.ErrorContains(t, err, "parse config")

	t.Run("BadEnv", func(t *testing.T) {
		t.Setenv("PIXVEC_WORKERS", "many")
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, "PIXVEC_WORKERS")
	})
}

func TestLoadConfig_DefersValidation(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "scale: 100\n"))
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "scale 100")

	cfg.Scale = 2
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	cfg.Format = "jpeg"
	cfg.Codec = "xml"
	cfg.Scale = 0
	cfg.Store.Kind = "ftp"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"loud", "jpeg", "xml", "scale", "ftp"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("PIXVEC_CONFIG", "/etc/pixvec.yaml")
	assert.Equal(t, "/etc/pixvec.yaml", DefaultConfigPath())
}
