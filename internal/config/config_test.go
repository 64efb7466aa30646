package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Pomodoro.WorkMinutes)
	assert.Equal(t, time.Second, cfg.Pomodoro.TickInterval)
	assert.Equal(t, "Tags", cfg.Notion.TagsProperty)
	assert.Equal(t, 25*time.Minute, cfg.WorkDuration())
	assert.True(t, cfg.Journal.Enabled)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
notion:
  token: secret_abc
  database_id: db-42
  timeout: 5s
pomodoro:
  work_minutes: 50
  tick_interval: 2s
  auto_complete: false
user:
  name: Ada
log:
  level: debug
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "secret_abc", cfg.Notion.Token)
	assert.Equal(t, "db-42", cfg.Notion.DatabaseID)
	assert.Equal(t, 5*time.Second, cfg.Notion.Timeout)
	assert.Equal(t, 50, cfg.Pomodoro.WorkMinutes)
	assert.Equal(t, 2*time.Second, cfg.Pomodoro.TickInterval)
	assert.False(t, cfg.Pomodoro.AutoComplete)
	assert.Equal(t, "Ada", cfg.User.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "https://api.notion.com", cfg.Notion.BaseURL, "unset keys keep defaults")
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "notion:\n  token: from_file\n")
	t.Setenv("POMOTRACKR_NOTION_TOKEN", "from_env")
	t.Setenv("POMOTRACKR_POMODORO_WORK_MINUTES", "30")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.Notion.Token)
	assert.Equal(t, 30, cfg.Pomodoro.WorkMinutes)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"work minutes", "pomodoro:\n  work_minutes: 0\n", errWorkMinutes},
		{"tick interval", "pomodoro:\n  tick_interval: 100ms\n", errTickInterval},
		{"fractional tick interval", "pomodoro:\n  tick_interval: 1500ms\n", errTickInterval},
		{"timeout", "notion:\n  timeout: 0s\n", errTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "notion: [unterminated"))
	assert.Error(t, err)
}
