// Package watcher reports changes to individual files.
//
// It uses fsnotify on each file's parent directory, so editors that save
// by writing a temporary file and renaming it over the original are still
// seen. Rapid bursts of events for the same file are debounced into one.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//	    DebounceInterval: 200 * time.Millisecond,
//	}, log)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := w.Start(ctx, []string{"~/.config/focus-timer/config.yaml"}); err != nil {
//	    return err
//	}
//
//	for event := range w.Events() {
//	    reload(event.Path)
//	}
package watcher

import (
	"context"
	"time"
)

// Op describes a file operation type.
type Op uint32

// File operation types.
const (
	OpCreate Op = 1 << iota // File created
	OpWrite                 // File modified
	OpRemove                // File deleted
	OpRename                // File renamed/moved
	OpChmod                 // File permissions changed
)

// String returns a human-readable operation name.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	case OpChmod:
		return "CHMOD"
	default:
		return "UNKNOWN"
	}
}

// Event represents a change to a watched file.
type Event struct {
	// Path is the watched file path as given to Start, with ~ expanded.
	Path string

	// Op is the last operation seen within the debounce window.
	Op Op

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Watcher provides file change notification.
type Watcher interface {
	// Start begins watching the given files. Files need not exist yet;
	// their parent directories must. Start returns once watches are in
	// place; events are delivered until ctx is done, Stop or Close.
	Start(ctx context.Context, files []string) error

	// Stop ends event processing. The watcher cannot be restarted.
	Stop() error

	// Events returns the channel for debounced file events.
	// The channel is closed by Close.
	Events() <-chan Event

	// Errors returns the channel for non-fatal watcher errors.
	// The channel is closed by Close.
	Errors() <-chan error

	// Close stops the watcher and releases resources.
	Close() error
}

// Config contains watcher configuration.
type Config struct {
	// DebounceInterval is the time to wait before emitting an event.
	// Multiple events for the same file within this interval are coalesced.
	// Default: 100ms.
	DebounceInterval time.Duration

	// CircuitBreakerThreshold is the number of fsnotify errors after
	// which ErrCircuitBreakerOpen is reported and errors stop being
	// forwarded.
	// Default: 5.
	CircuitBreakerThreshold int
}
