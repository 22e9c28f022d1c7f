package timer

import (
	"errors"
	"fmt"
)

// Common errors returned by the controller.
var (
	// ErrValidation marks errors caused by user input.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyName is returned when a session is started without a name.
	ErrEmptyName = fmt.Errorf("%w: session name cannot be empty", ErrValidation)

	// ErrInvalidPreset is returned for a preset that is not configured.
	ErrInvalidPreset = fmt.Errorf("%w: preset is not available", ErrValidation)

	// ErrInvalidStatus is returned for a disposition other than Completed or Incomplete.
	ErrInvalidStatus = fmt.Errorf("%w: unknown session status", ErrValidation)

	// ErrInvalidTransition is returned when an operation is not allowed in the current state.
	ErrInvalidTransition = errors.New("operation not allowed in current state")

	// ErrControllerClosed is returned when a closed controller is used.
	ErrControllerClosed = errors.New("timer controller is closed")

	// ErrNilSink is returned when a controller is created without a sink.
	ErrNilSink = errors.New("timer controller requires a sink")
)
