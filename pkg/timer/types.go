// Package timer implements the focus session countdown.
//
// A Controller owns the single timer state and moves it between Idle,
// Running, Paused and AwaitingDisposition. While Running a recurring tick
// decrements the time left; the tick is a scheduled activity whose handle
// is cancelled on every transition out of Running. When a session ends,
// naturally or by a user disposition after Stop, the controller hands a
// ledger.Draft to its Sink and resets to Idle.
//
// Example usage:
//
//	ctrl, err := timer.New(timer.Config{
//	    Presets:       []int{20, 25, 30, 45, 60},
//	    DefaultPreset: 25,
//	}, led, log)
//	if err != nil {
//	    return err
//	}
//	defer ctrl.Close()
//
//	events := ctrl.Subscribe(16)
//	if err := ctrl.Start("Study"); err != nil {
//	    return err
//	}
package timer

import (
	"fmt"
	"time"

	"github.com/0xmhha/focus-timer/pkg/ledger"
)

// State is the controller mode.
type State string

const (
	StateIdle                State = "idle"
	StateRunning             State = "running"
	StatePaused              State = "paused"
	StateAwaitingDisposition State = "awaiting_disposition"
)

// EventType defines the type of controller event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventTick        EventType = "tick"
	EventFinished    EventType = "finished"
)

// Event is a controller update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot

	// Session and Record are set on EventFinished. Record is the zero
	// value when the sink failed; Err carries the failure.
	Session *ledger.Draft
	Record  ledger.Record
	Err     error

	At time.Time
}

// Snapshot is a read-only copy of the timer state.
type Snapshot struct {
	State     State
	Preset    int
	TotalTime int
	TimeLeft  int
	Name      string
}

// Running reports whether the countdown is ticking.
func (s Snapshot) Running() bool {
	return s.State == StateRunning
}

// Percent is the share of the session still left, 100 when nothing has
// elapsed.
func (s Snapshot) Percent() float64 {
	return Percent(s.TimeLeft, s.TotalTime)
}

// Clock formats the time left as M:SS.
func (s Snapshot) Clock() string {
	return FormatClock(s.TimeLeft)
}

// Percent returns 100 * timeLeft / totalTime, or 100 when totalTime is 0.
func Percent(timeLeft, totalTime int) float64 {
	if totalTime <= 0 {
		return 100
	}
	return 100 * float64(timeLeft) / float64(totalTime)
}

// FormatClock formats seconds as M:SS with unpadded minutes.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Sink receives finished sessions. ledger.Ledger satisfies it.
type Sink interface {
	Append(d ledger.Draft) (ledger.Record, error)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(d ledger.Draft) (ledger.Record, error)

// Append implements Sink.
func (f SinkFunc) Append(d ledger.Draft) (ledger.Record, error) {
	return f(d)
}

// Alarm is played when a session runs out.
type Alarm interface {
	Play() error
}

// Scheduler runs fn every interval until the returned handle is cancelled.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Handle
}

// Handle cancels a scheduled activity. Cancel must not block and may be
// called more than once.
type Handle interface {
	Cancel()
}

// Config contains controller configuration.
type Config struct {
	// Presets are the selectable session lengths in minutes.
	// Empty allows any positive length.
	Presets []int

	// DefaultPreset is the length selected at creation
	// (default: the first preset, or 20).
	DefaultPreset int

	// TickInterval is the countdown step (default: 1 second). One tick
	// always removes one second of time left.
	TickInterval time.Duration

	// Scheduler drives ticks (default: a time.Ticker based scheduler).
	Scheduler Scheduler

	// Alarm is played on natural completion (default: none).
	Alarm Alarm

	// Now returns the wall clock used for EndedAt (default: time.Now).
	Now func() time.Time
}
