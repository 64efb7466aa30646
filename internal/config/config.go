package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const appName = "pomotrackr"

type NotionConfig struct {
	Token        string        `mapstructure:"token"`
	BaseURL      string        `mapstructure:"base_url"`
	Version      string        `mapstructure:"version"`
	DatabaseID   string        `mapstructure:"database_id"`
	TagsProperty string        `mapstructure:"tags_property"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type PomodoroConfig struct {
	WorkMinutes  int           `mapstructure:"work_minutes"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
	AutoComplete bool          `mapstructure:"auto_complete"`
}

type UserConfig struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LogConfig struct {
	Path       string `mapstructure:"path"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type Config struct {
	Notion   NotionConfig   `mapstructure:"notion"`
	Pomodoro PomodoroConfig `mapstructure:"pomodoro"`
	Notify   bool           `mapstructure:"notify"`
	User     UserConfig     `mapstructure:"user"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Log      LogConfig      `mapstructure:"log"`
}

var (
	errWorkMinutes  = errors.New("pomodoro.work_minutes must be positive")
	errTickInterval = errors.New("pomodoro.tick_interval must be a whole number of seconds, at least one")
	errTimeout      = errors.New("notion.timeout must be positive")
)

func Default() Config {
	return Config{
		Notion: NotionConfig{
			BaseURL:      "https://api.notion.com",
			Version:      "2022-06-28",
			TagsProperty: "Tags",
			Timeout:      15 * time.Second,
		},
		Pomodoro: PomodoroConfig{
			WorkMinutes:  25,
			TickInterval: time.Second,
			AutoComplete: true,
		},
		Notify: true,
		Journal: JournalConfig{
			Enabled: true,
			Path:    filepath.Join(xdg.DataHome, appName, "journal.db"),
		},
		Log: LogConfig{
			Path:       filepath.Join(xdg.StateHome, appName, appName+".log"),
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
}

// DefaultPath returns the config file location under the XDG config directory.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Load reads the YAML file at path (DefaultPath when empty) and applies
// POMOTRACKR_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("notion.token", cfg.Notion.Token)
	v.SetDefault("notion.base_url", cfg.Notion.BaseURL)
	v.SetDefault("notion.version", cfg.Notion.Version)
	v.SetDefault("notion.database_id", cfg.Notion.DatabaseID)
	v.SetDefault("notion.tags_property", cfg.Notion.TagsProperty)
	v.SetDefault("notion.timeout", cfg.Notion.Timeout)
	v.SetDefault("pomodoro.work_minutes", cfg.Pomodoro.WorkMinutes)
	v.SetDefault("pomodoro.tick_interval", cfg.Pomodoro.TickInterval)
	v.SetDefault("pomodoro.auto_complete", cfg.Pomodoro.AutoComplete)
	v.SetDefault("notify", cfg.Notify)
	v.SetDefault("user.name", cfg.User.Name)
	v.SetDefault("user.email", cfg.User.Email)
	v.SetDefault("journal.enabled", cfg.Journal.Enabled)
	v.SetDefault("journal.path", cfg.Journal.Path)
	v.SetDefault("log.path", cfg.Log.Path)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isNotExist(err) {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Pomodoro.WorkMinutes <= 0 {
		return errWorkMinutes
	}
	if c.Pomodoro.TickInterval < time.Second || c.Pomodoro.TickInterval%time.Second != 0 {
		return errTickInterval
	}
	if c.Notion.Timeout <= 0 {
		return errTimeout
	}
	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// WorkDuration is the length of one pomodoro.
func (c Config) WorkDuration() time.Duration {
	return time.Duration(c.Pomodoro.WorkMinutes) * time.Minute
}
