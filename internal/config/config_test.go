package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Nil(t, cfg.Slider.Max)
	require.Nil(t, cfg.Log.Level)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[slider]
min = 5
max = 90
step = 5

[stats]
limit = 100

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Slider.Min)
	require.Equal(t, 5.0, *cfg.Slider.Min)
	require.Equal(t, 90.0, *cfg.Slider.Max)
	require.Equal(t, 5.0, *cfg.Slider.Step)
	require.Nil(t, cfg.Slider.Initial)
	require.Equal(t, 100, *cfg.Stats.Limit)
	require.Nil(t, cfg.Stats.Days)
	require.Equal(t, "debug", *cfg.Log.Level)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[slider]\nwidth = 3\n"), 0o644))
	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "slider.width")
}

func TestLoadConfigBadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[slider\n"), 0o644))
	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "failed to decode config")
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	require.Equal(t, filepath.Join("/cfg", "flourish", "config.toml"), DefaultConfigPath())
	require.Equal(t, filepath.Join("/data", "flourish", "flourish.db"), DefaultDBPath())
	require.Equal(t, filepath.Join("/state", "flourish", "session.yaml"), DefaultSessionPath())
	require.Equal(t, filepath.Join("/state", "flourish", "flourish.log"), DefaultLogPath())
}

func TestStateHomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_STATE_HOME", "")
	require.Equal(t, filepath.Join(home, ".local", "state"), XDGStateHome())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, zapcore.WarnLevel, lvl)

	lvl, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	require.Equal(t, zapcore.DebugLevel, lvl)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("info", "")
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger("loud", "")
	require.Error(t, err)
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "flourish.log")
	logger, err := NewLogger("warn", path)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("skipped malformed completions")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "skipped malformed completions")
	require.NotContains(t, string(data), "hidden")
}
