// Package config loads rounds configuration with viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/opencode-ai/rounds/internal/models"
)

// EnvPrefix is the prefix for environment overrides, e.g. ROUNDS_LOGGING_LEVEL.
const EnvPrefix = "ROUNDS"

// Config is the full application configuration.
type Config struct {
	Timer     TimerConfig     `mapstructure:"timer"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	TUI       TUIConfig       `mapstructure:"tui"`
	KeepAwake KeepAwakeConfig `mapstructure:"keep_awake"`
	Presets   PresetsConfig   `mapstructure:"presets"`
}

// TimerConfig holds engine defaults.
type TimerConfig struct {
	// PrepareSeconds is used when a workout does not set its own prepare time.
	PrepareSeconds int `mapstructure:"prepare_seconds"`

	// TickInterval is the upper bound between engine ticks.
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `mapstructure:"theme"`
}

// KeepAwakeConfig selects the keep-awake backend: auto, dbus or none.
type KeepAwakeConfig struct {
	Backend string `mapstructure:"backend"`
}

// PresetsConfig lists extra preset directories searched before the defaults.
type PresetsConfig struct {
	Dirs []string `mapstructure:"dirs"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			PrepareSeconds: models.DefaultPrepareSeconds,
			TickInterval:   100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		TUI: TUIConfig{
			Theme: "default",
		},
		KeepAwake: KeepAwakeConfig{
			Backend: "auto",
		},
	}
}

// DefaultPath returns ~/.config/rounds/config.yaml.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "rounds", "config.yaml")
	}
	return ""
}

// Load reads configuration from path (or the default location when empty),
// applies ROUNDS_* environment overrides and validates the result. A missing
// file at the default location is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("timer.prepare_seconds", cfg.Timer.PrepareSeconds)
	v.SetDefault("timer.tick_interval", cfg.Timer.TickInterval)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("tui.theme", cfg.TUI.Theme)
	v.SetDefault("keep_awake.backend", cfg.KeepAwake.Backend)
	v.SetDefault("presets.dirs", cfg.Presets.Dirs)
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	validation := &models.ValidationErrors{}
	if c.Timer.PrepareSeconds < 0 {
		validation.AddMessage("timer.prepare_seconds", "must be non-negative")
	}
	if c.Timer.TickInterval <= 0 {
		validation.AddMessage("timer.tick_interval", "must be positive")
	} else if c.Timer.TickInterval > time.Second {
		validation.AddMessage("timer.tick_interval", "must not exceed 1s")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		validation.AddMessage("logging.format", "must be console or json")
	}
	switch strings.ToLower(c.KeepAwake.Backend) {
	case "auto", "dbus", "none":
	default:
		validation.AddMessage("keep_awake.backend", "must be auto, dbus or none")
	}
	if err := validation.Err(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
