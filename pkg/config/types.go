// Package config provides configuration management for focus-timer.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Environment variables (highest priority)
// 2. Configuration file
// 3. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Presets: %v\n", cfg.Timer.Presets)
package config

import (
	"time"
)

// Config represents the complete application configuration.
//
// Invariants:
// - Timer.Presets has at least one positive, unique entry
// - Timer.DefaultPreset is one of Timer.Presets
// - Timer.TickInterval must be > 0
// - Storage.Timeout must be > 0.
type Config struct {
	// Timer settings
	Timer TimerConfig `yaml:"timer"`

	// Alarm settings
	Alarm AlarmConfig `yaml:"alarm"`

	// Display settings
	Display DisplayConfig `yaml:"display"`

	// Storage settings
	Storage StorageConfig `yaml:"storage"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// TimerConfig contains countdown settings.
type TimerConfig struct {
	// Selectable session lengths in minutes
	Presets []int `yaml:"presets"`

	// Preset selected when the timer opens
	DefaultPreset int `yaml:"default_preset"`

	// Countdown step; each tick removes one second
	TickInterval time.Duration `yaml:"tick_interval"`
}

// AlarmConfig contains completion alarm settings.
type AlarmConfig struct {
	// Play the alarm when a session runs out
	Enabled bool `yaml:"enabled"`

	// bell, command or none
	Mode string `yaml:"mode"`

	// Program run in command mode
	Command string `yaml:"command"`
}

// DisplayConfig contains display-related settings.
type DisplayConfig struct {
	// Default output format for history and stats (table, json, simple)
	DefaultFormat string `yaml:"default_format"`

	// Enable colored output
	ColorEnabled bool `yaml:"color_enabled"`
}

// StorageConfig contains storage-related settings.
type StorageConfig struct {
	// Path to BoltDB database file
	DBPath string `yaml:"db_path"`

	// Key holding the session history
	Key string `yaml:"key"`

	// How long to wait for the database lock
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Log output destination (stdout, stderr, discard, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format"`
}

// Validate checks if the configuration satisfies all invariants.
//
// Thread-safety: This method is read-only and thread-safe.
func (c *Config) Validate() error {
	if len(c.Timer.Presets) == 0 {
		return ErrNoPresets
	}
	seen := make(map[int]bool, len(c.Timer.Presets))
	for _, p := range c.Timer.Presets {
		if p <= 0 {
			return ErrInvalidPreset
		}
		if seen[p] {
			return ErrDuplicatePreset
		}
		seen[p] = true
	}
	if !seen[c.Timer.DefaultPreset] {
		return ErrInvalidDefaultPreset
	}
	if c.Timer.TickInterval <= 0 {
		return ErrInvalidTickInterval
	}

	validAlarmModes := map[string]bool{
		"bell":    true,
		"command": true,
		"none":    true,
	}
	if !validAlarmModes[c.Alarm.Mode] {
		return ErrInvalidAlarmMode
	}
	if c.Alarm.Enabled && c.Alarm.Mode == "command" && c.Alarm.Command == "" {
		return ErrMissingAlarmCommand
	}

	validFormats := map[string]bool{
		"table":  true,
		"json":   true,
		"simple": true,
	}
	if !validFormats[c.Display.DefaultFormat] {
		return ErrInvalidDisplayFormat
	}

	if c.Storage.DBPath == "" {
		return ErrEmptyDBPath
	}
	if c.Storage.Key == "" {
		return ErrEmptyStorageKey
	}
	if c.Storage.Timeout <= 0 {
		return ErrInvalidStorageTimeout
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// Default returns a configuration with the stock presets and paths
// under ~/.config/focus-timer.
func Default() *Config {
	return &Config{
		Timer: TimerConfig{
			Presets:       []int{20, 25, 30, 45, 60},
			DefaultPreset: 20,
			TickInterval:  1 * time.Second,
		},
		Alarm: AlarmConfig{
			Enabled: true,
			Mode:    "bell",
		},
		Display: DisplayConfig{
			DefaultFormat: "table",
			ColorEnabled:  true,
		},
		Storage: StorageConfig{
			DBPath:  defaultDBPath(),
			Key:     "pomodoro_sessions",
			Timeout: 1 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: defaultLogPath(),
			Format: "text",
		},
	}
}
