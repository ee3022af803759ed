package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FITSCROLL_CONFIG", "FITSCROLL_ADDR", "FITSCROLL_DATA_DIR",
		"FITSCROLL_SOURCE", "FITSCROLL_MIRROR_URL", "FITSCROLL_SKIP_DOWNLOAD",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadBridgeConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadBridgeConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "local_db", cfg.DataDir)
	assert.Equal(t, "pinterest", cfg.Source)
	assert.False(t, cfg.SkipDownload)
	assert.Equal(t, 20*time.Second, cfg.HTTPTimeout())
}

func TestLoadBridgeConfigTOML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "fitscroll.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr = ":9001"
data_dir = "/var/lib/fitscroll"
source = "mirror"
mirror_url = "http://localhost:9000/urls"
skip_download = true
download_timeout_seconds = 5
`), 0o644))
	t.Setenv("FITSCROLL_CONFIG", path)

	cfg, err := LoadBridgeConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9001", cfg.Addr)
	assert.Equal(t, "/var/lib/fitscroll", cfg.DataDir)
	assert.Equal(t, "mirror", cfg.Source)
	assert.True(t, cfg.SkipDownload)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout())
}

func TestLoadBridgeConfigEnvBeatsTOML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "fitscroll.toml")
	require.NoError(t, os.WriteFile(path, []byte("addr = \":9001\"\nsource = \"mirror\"\n"), 0o644))
	t.Setenv("FITSCROLL_CONFIG", path)
	t.Setenv("FITSCROLL_ADDR", ":7777")
	t.Setenv("FITSCROLL_SKIP_DOWNLOAD", "true")

	cfg, err := LoadBridgeConfig()
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.Addr)
	assert.Equal(t, "mirror", cfg.Source, "file value survives where env is unset")
	assert.True(t, cfg.SkipDownload)
}

func TestLoadBridgeConfigBadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("FITSCROLL_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	_, err := LoadBridgeConfig()
	require.Error(t, err)
}
