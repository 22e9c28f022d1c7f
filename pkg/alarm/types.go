// Package alarm plays the end-of-session signal.
//
// Three modes are supported: "bell" writes the terminal bell to an output
// stream, "command" runs an external program (for example a sound player
// or desktop notifier) and "none" does nothing.
package alarm

import "time"

// Mode selects how the alarm is played.
type Mode string

const (
	ModeBell    Mode = "bell"
	ModeCommand Mode = "command"
	ModeNone    Mode = "none"
)

// Alarm plays the completion signal.
type Alarm interface {
	Play() error
}

// Config contains alarm configuration.
type Config struct {
	// Enabled turns the alarm on. A disabled alarm is a no-op whatever the mode.
	Enabled bool

	// Mode is bell, command or none (default: bell).
	Mode Mode

	// Command is the program and arguments run in command mode.
	Command string

	// Timeout bounds a command run (default: 10 seconds).
	Timeout time.Duration

	// Repeat is how many bells are written in bell mode (default: 3).
	Repeat int
}
