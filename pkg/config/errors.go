package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrNoPresets is returned when no timer presets are configured.
	ErrNoPresets = errors.New("no timer presets specified")

	// ErrInvalidPreset is returned when a preset is <= 0.
	ErrInvalidPreset = errors.New("invalid preset: must be > 0 minutes")

	// ErrDuplicatePreset is returned when a preset is listed twice.
	ErrDuplicatePreset = errors.New("duplicate preset")

	// ErrInvalidDefaultPreset is returned when the default preset is not listed in presets.
	ErrInvalidDefaultPreset = errors.New("invalid default preset: must be one of presets")

	// ErrInvalidTickInterval is returned when tick interval is <= 0.
	ErrInvalidTickInterval = errors.New("invalid tick interval: must be > 0")

	// ErrInvalidAlarmMode is returned when alarm mode is not recognized.
	ErrInvalidAlarmMode = errors.New("invalid alarm mode: must be bell, command, or none")

	// ErrMissingAlarmCommand is returned when command mode has no command.
	ErrMissingAlarmCommand = errors.New("alarm mode command requires alarm.command")

	// ErrInvalidDisplayFormat is returned when display format is not recognized.
	ErrInvalidDisplayFormat = errors.New("invalid display format: must be table, json, or simple")

	// ErrEmptyDBPath is returned when no database path is configured.
	ErrEmptyDBPath = errors.New("storage db_path cannot be empty")

	// ErrEmptyStorageKey is returned when no storage key is configured.
	ErrEmptyStorageKey = errors.New("storage key cannot be empty")

	// ErrInvalidStorageTimeout is returned when storage timeout is <= 0.
	ErrInvalidStorageTimeout = errors.New("invalid storage timeout: must be > 0")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")

	// ErrInvalidEnv is returned when an environment override cannot be parsed.
	ErrInvalidEnv = errors.New("invalid environment override")
)
