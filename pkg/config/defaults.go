package config

import (
	"os"
	"path/filepath"
)

const appDir = "focus-timer"

// configDir returns ~/.config/focus-timer, or "." without a home directory.
func configDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(homeDir, ".config", appDir)
}

// defaultDBPath returns ~/.config/focus-timer/sessions.db.
func defaultDBPath() string {
	return filepath.Join(configDir(), "sessions.db")
}

// defaultLogPath returns ~/.config/focus-timer/focus-timer.log.
func defaultLogPath() string {
	return filepath.Join(configDir(), "focus-timer.log")
}

// DefaultConfigPath returns ~/.config/focus-timer/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}
