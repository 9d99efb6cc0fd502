// Package config handles the XDG configuration directory and the settings
// loaded from config.yaml and TASKNEST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"
)

const (
	// AppName is the application directory name.
	AppName = "tasknest"

	// ConfigFile is the settings filename inside the config directory.
	ConfigFile = "config.yaml"

	// LogFile is the log filename inside the config directory.
	LogFile = "tasknest.log"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "TASKNEST_"
)

// Defaults.
const (
	DefaultAPIURL          = "http://localhost:5000"
	DefaultAPITimeout      = 10 * time.Second
	DefaultStorageBackend  = "file"
	DefaultPomodoroMinutes = 25
	DefaultLogLevel        = "info"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `koanf:"-"`

	// Debug enables debug logging to stderr.
	Debug bool `koanf:"-"`

	// Quiet suppresses informational output.
	Quiet bool `koanf:"-"`

	API      APIConfig      `koanf:"api"`
	Storage  StorageConfig  `koanf:"storage"`
	Pomodoro PomodoroConfig `koanf:"pomodoro"`
	Log      LogConfig      `koanf:"log"`
}

// APIConfig locates the task store.
type APIConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// StorageConfig selects the local persistence backend.
type StorageConfig struct {
	Backend string `koanf:"backend"`
}

// PomodoroConfig sets the countdown length.
type PomodoroConfig struct {
	Minutes int `koanf:"minutes"`
}

// LogConfig sets the file log level.
type LogConfig struct {
	Level string `koanf:"level"`
}

// New creates a Config with defaults for the default or specified directory
// without reading any file.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	applyDefaults(cfg)
	return cfg, nil
}

// Load reads config.yaml from the directory (when present), applies
// TASKNEST_SECTION_FIELD environment overrides, fills defaults and validates.
//
// Precedence, highest first: environment, file, defaults.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")

	content, err := os.ReadFile(cfg.Path())
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", cfg.Path(), err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps TASKNEST_API_URL to api.url. Only the first underscore after
// the prefix separates section from field.
func envKey(s string) string {
	rest := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(rest, "_")
	if !ok || section == "" || field == "" {
		return ""
	}
	return section + "." + field
}

func applyDefaults(cfg *Config) {
	if cfg.API.URL == "" {
		cfg.API.URL = DefaultAPIURL
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = DefaultAPITimeout
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Pomodoro.Minutes == 0 {
		cfg.Pomodoro.Minutes = DefaultPomodoroMinutes
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	cfg.API.URL = strings.TrimRight(cfg.API.URL, "/")
}

// Validate checks the loaded settings.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.URL, "http://") && !strings.HasPrefix(c.API.URL, "https://") {
		return fmt.Errorf("api.url must be an http(s) URL, got %q", c.API.URL)
	}
	if c.API.Timeout < 0 {
		return errors.New("api.timeout must not be negative")
	}
	switch c.Storage.Backend {
	case "file", "memory", "sqlite":
	default:
		return fmt.Errorf("storage.backend must be file, memory or sqlite, got %q", c.Storage.Backend)
	}
	if c.Pomodoro.Minutes < 1 {
		return errors.New("pomodoro.minutes must be at least 1")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the path to config.yaml.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// LogPath returns the path to the log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// PomodoroDuration returns the configured countdown length.
func (c *Config) PomodoroDuration() time.Duration {
	return time.Duration(c.Pomodoro.Minutes) * time.Minute
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
