package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/flourish/internal/config"
	"github.com/verte-zerg/flourish/internal/session"
)

func setupHome(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandsRequireSession(t *testing.T) {
	setupHome(t)
	for _, args := range [][]string{
		{"whoami"},
		{"log", "--category", "mind"},
		{"stats", "--plain"},
		{"calendar"},
		{"export"},
	} {
		_, err := run(t, args...)
		require.ErrorContains(t, err, "not signed in", "args %v", args)
		require.ErrorIs(t, err, session.ErrNoSession, "args %v", args)
	}
	_, err := run(t, "logout")
	require.Error(t, err)
}

func TestLoginLogAndReport(t *testing.T) {
	setupHome(t)

	out, err := run(t, "login", "ana")
	require.NoError(t, err)
	require.Equal(t, "Signed in as ana\n", out)

	out, err = run(t, "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "ana (since ")

	out, err = run(t, "log", "--category", " Kindness ", "--minutes", "22", "--date", "2026-10-17")
	require.NoError(t, err)
	require.Equal(t, "Logged Gratitude Journaling (Kindness, 20m)\n", out)

	_, err = run(t, "log", "--category", "mind", "--exercise", "Box Breathing", "--minutes", "500", "--date", "2026-10-16T12:00:00Z")
	require.NoError(t, err)

	out, err = run(t, "stats", "--plain")
	require.NoError(t, err)
	require.Contains(t, out, "Completions: 2")
	require.Contains(t, out, "Best streak: 2 days")
	require.Contains(t, out, "Time invested: 2.3h")
	require.Contains(t, out, "Domain Distribution")

	out, err = run(t, "calendar", "--month", "2026-10")
	require.NoError(t, err)
	require.Contains(t, out, "October 2026")
	require.Contains(t, out, "Active days: 2")

	out, err = run(t, "logout")
	require.NoError(t, err)
	require.Equal(t, "Signed out\n", out)
}

func TestExportImportBetweenUsers(t *testing.T) {
	root := setupHome(t)

	_, err := run(t, "login", "ana")
	require.NoError(t, err)
	_, err = run(t, "log", "--category", "social", "--minutes", "30")
	require.NoError(t, err)

	path := filepath.Join(root, "out", "ana.yaml")
	_, err = run(t, "export", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "category: social")
	require.Contains(t, string(data), "user: ana")

	_, err = run(t, "login", "ben")
	require.NoError(t, err)
	out, err := run(t, "import", path)
	require.NoError(t, err)
	require.Equal(t, "Imported 1 completions (0 already present, 0 skipped)\n", out)

	out, err = run(t, "import", path)
	require.NoError(t, err)
	require.Equal(t, "Imported 0 completions (1 already present, 0 skipped)\n", out)

	out, err = run(t, "export")
	require.NoError(t, err)
	require.Contains(t, out, "user: ben")
	require.Contains(t, out, "duration_seconds: 1800")
}

func TestDeleteCommand(t *testing.T) {
	setupHome(t)
	_, err := run(t, "login", "ana")
	require.NoError(t, err)
	_, err = run(t, "log", "--category", "body", "--minutes", "10")
	require.NoError(t, err)

	out, err := run(t, "export")
	require.NoError(t, err)
	match := regexp.MustCompile(`id: (\S+)`).FindStringSubmatch(out)
	require.Len(t, match, 2)

	out, err = run(t, "delete", match[1])
	require.NoError(t, err)
	require.Equal(t, "Deleted "+match[1]+"\n", out)

	_, err = run(t, "delete", match[1])
	require.ErrorContains(t, err, "no completion")
}

func TestFlagValidation(t *testing.T) {
	setupHome(t)
	_, err := run(t, "login", "ana")
	require.NoError(t, err)

	_, err = run(t, "log", "--category", "  ")
	require.ErrorContains(t, err, "--category must not be empty")
	_, err = run(t, "log", "--category", "mind", "--rating", "9")
	require.ErrorContains(t, err, "--rating")
	_, err = run(t, "log", "--category", "mind", "--date", "someday")
	require.ErrorContains(t, err, "invalid --date")
	_, err = run(t, "stats", "--plain", "--days", "0")
	require.ErrorContains(t, err, "--days must be > 0")
	_, err = run(t, "calendar", "--month", "October")
	require.ErrorContains(t, err, "invalid --month")
	_, err = run(t, "--min", "10", "--max", "5")
	require.ErrorContains(t, err, "--min must be less than max")
}

func TestConfigFileFeedsCommands(t *testing.T) {
	setupHome(t)
	path := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[slider]\nstep = 10\n"), 0o644))

	_, err := run(t, "login", "ana")
	require.NoError(t, err)
	out, err := run(t, "log", "--category", "time", "--minutes", "17")
	require.NoError(t, err)
	require.Contains(t, out, "20m")

	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"loud\"\n"), 0o644))
	_, err = run(t, "log", "--category", "time")
	require.ErrorContains(t, err, "invalid log level")
}

func TestFractionalStepKeepsWholeSeconds(t *testing.T) {
	setupHome(t)
	path := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[slider]\nstep = 0.3\n"), 0o644))

	_, err := run(t, "login", "ana")
	require.NoError(t, err)
	_, err = run(t, "log", "--category", "mind", "--minutes", "0.9")
	require.NoError(t, err)

	out, err := run(t, "export")
	require.NoError(t, err)
	require.Contains(t, out, "duration_seconds: 54\n")
}

func TestDefaultConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644))
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Nil(t, cfg.Slider.Max)
}

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	got, err := parseDate("", now)
	require.NoError(t, err)
	require.Equal(t, now, got)

	got, err = parseDate("2026-10-01", now)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC), got)

	got, err = parseDate("2026-10-01T06:00:00+02:00", now)
	require.NoError(t, err)
	require.True(t, got.Equal(time.Date(2026, 10, 1, 4, 0, 0, 0, time.UTC)))
}
