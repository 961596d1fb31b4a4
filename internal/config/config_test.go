package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAPIDefaults(t *testing.T) {
	t.Setenv("VIDTYCOON_STORE_BACKEND", "memory")
	t.Setenv("PORT", "")

	cfg, err := LoadAPI()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, 10, cfg.LeaderboardSize)
	assert.Equal(t, 5*time.Second, cfg.LeaderboardCacheTTL)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadAPIPortOverride(t *testing.T) {
	t.Setenv("VIDTYCOON_STORE_BACKEND", "memory")
	t.Setenv("VIDTYCOON_API_ADDR", ":9000")
	t.Setenv("PORT", "7070")

	cfg, err := LoadAPI()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
}

func TestLoadAPIRequiresDatabaseForPostgres(t *testing.T) {
	t.Setenv("VIDTYCOON_STORE_BACKEND", "postgres")
	t.Setenv("VIDTYCOON_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadAPI()
	require.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/vidtycoon")
	cfg, err := LoadAPI()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/vidtycoon", cfg.DatabaseURL)
}

func TestLoadAPIRejectsUnknownBackend(t *testing.T) {
	t.Setenv("VIDTYCOON_STORE_BACKEND", "sqlite")
	_, err := LoadAPI()
	assert.Error(t, err)
}

func TestLoadCLIDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("VIDTYCOON_HOME_DIR", "")

	cfg, err := LoadCLI()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, filepath.Join(home, ".vidtycoon"), cfg.HomeDir)
	assert.Equal(t, 100*time.Millisecond, cfg.TickEvery)
	assert.Equal(t, 10*time.Second, cfg.ViralCheckEvery)
	assert.Equal(t, time.Second, cfg.ViralCountdownEvery)
	assert.Equal(t, 30*time.Second, cfg.ScorePushEvery)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadCLIFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_base_url: https://studio.example.com/\ntick_every: 250ms\nseed: 7\nhome_dir: "+dir+"\n"), 0o600))
	t.Setenv("VIDTYCOON_CONFIG", path)

	cfg, err := LoadCLI()
	require.NoError(t, err)
	assert.Equal(t, "https://studio.example.com", cfg.APIBaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.TickEvery)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, dir, cfg.HomeDir)
}

func TestLoadCLIRejectsBadValues(t *testing.T) {
	t.Setenv("VIDTYCOON_HOME_DIR", t.TempDir())

	t.Setenv("VIDTYCOON_TICK_EVERY", "0s")
	_, err := LoadCLI()
	assert.Error(t, err)

	t.Setenv("VIDTYCOON_TICK_EVERY", "100ms")
	t.Setenv("VIDTYCOON_LOG_LEVEL", "loud")
	_, err = LoadCLI()
	assert.Error(t, err)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("VIDTYCOON_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := LoadCLI()
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}
