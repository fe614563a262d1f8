package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Setup(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, "base.txt", cfg.BasePath)
	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, OnCorruptAbort, cfg.OnCorrupt)
	assert.Equal(t, "dot", cfg.DotBinary)
	assert.True(t, cfg.Seed)
}

func TestSetup_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "BASE_PATH=kb/animals.txt\nSTORAGE=Redis\nON_CORRUPT=fresh\nSEED=false\nLOCAL_CORS=true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Setup(path)
	require.NoError(t, err)

	assert.Equal(t, "kb/animals.txt", cfg.BasePath)
	assert.Equal(t, StorageRedis, cfg.Storage)
	assert.Equal(t, OnCorruptFresh, cfg.OnCorrupt)
	assert.False(t, cfg.Seed)
	assert.True(t, cfg.IsLocalCors)
}

func TestSetup_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BASE_PATH=from-file.txt\n"), 0o644))
	t.Setenv("BASE_PATH", "from-env.txt")

	cfg, err := Setup(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.txt", cfg.BasePath)
}

func TestSetup_RejectsUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE", "floppy")
	_, err := Setup("")
	assert.Error(t, err)
}

func TestNewLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.log")
	log, err := NewLogger("debug", path)
	require.NoError(t, err)

	log.Infow("base loaded", "nodes", 3)
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"base loaded"`)
	assert.Contains(t, string(data), `"nodes":3`)
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := NewLogger("loud", "")
	assert.Error(t, err)
}
