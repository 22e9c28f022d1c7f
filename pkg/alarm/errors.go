package alarm

import "errors"

var (
	// ErrUnknownMode is returned for an unsupported alarm mode.
	ErrUnknownMode = errors.New("unknown alarm mode")

	// ErrEmptyCommand is returned when command mode has no command.
	ErrEmptyCommand = errors.New("alarm command is empty")
)
