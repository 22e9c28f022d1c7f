package timer

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/0xmhha/focus-timer/pkg/ledger"
	"github.com/0xmhha/focus-timer/pkg/logger"
)

const fallbackPreset = 20

// Controller is the session state machine.
type Controller struct {
	mu     sync.Mutex
	config Config
	sink   Sink
	logger logger.Logger

	state     State
	preset    int
	totalTime int
	timeLeft  int

	// Captured at Start and kept until the session terminates.
	name          string
	sessionPreset int

	tick       Handle
	generation uint64

	events []chan Event
	closed bool
}

// New creates a controller in Idle with the default preset selected.
func New(cfg Config, sink Sink, log logger.Logger) (*Controller, error) {
	if sink == nil {
		return nil, ErrNilSink
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = NewTickerScheduler()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.Presets = append([]int(nil), cfg.Presets...)

	for _, p := range cfg.Presets {
		if p <= 0 {
			return nil, fmt.Errorf("%w: %d minutes", ErrInvalidPreset, p)
		}
	}

	if cfg.DefaultPreset == 0 {
		cfg.DefaultPreset = fallbackPreset
		if len(cfg.Presets) > 0 {
			cfg.DefaultPreset = cfg.Presets[0]
		}
	}
	if !presetAllowed(cfg.Presets, cfg.DefaultPreset) {
		return nil, fmt.Errorf("%w: default %d minutes", ErrInvalidPreset, cfg.DefaultPreset)
	}

	c := &Controller{
		config: cfg,
		sink:   sink,
		logger: log.With("component", "timer"),
		state:  StateIdle,
	}
	c.setPresetLocked(cfg.DefaultPreset)

	c.logger.Info("timer created",
		"presets", cfg.Presets,
		"preset", cfg.DefaultPreset,
		"tick_interval", cfg.TickInterval)

	return c, nil
}

// Subscribe registers an observer channel. Sends never block; a full
// channel misses events.
func (c *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		close(ch)
		return ch
	}
	c.events = append(c.events, ch)
	return ch
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Presets returns the selectable preset lengths in minutes.
func (c *Controller) Presets() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.config.Presets...)
}

// SetPresets replaces the selectable presets. The current selection is
// kept even when it is no longer listed.
func (c *Controller) SetPresets(presets []int) error {
	for _, p := range presets {
		if p <= 0 {
			return fmt.Errorf("%w: %d minutes", ErrInvalidPreset, p)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.Presets = append([]int(nil), presets...)
	c.logger.Info("presets updated", "presets", presets)
	return nil
}

// SetAlarm replaces the completion alarm; nil disables it.
func (c *Controller) SetAlarm(alarm Alarm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.Alarm = alarm
}

// SelectPreset sets the session length. Only allowed in Idle.
func (c *Controller) SelectPreset(minutes int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireLocked("select preset", StateIdle); err != nil {
		return err
	}
	if minutes <= 0 || !presetAllowed(c.config.Presets, minutes) {
		return fmt.Errorf("%w: %d minutes", ErrInvalidPreset, minutes)
	}

	c.setPresetLocked(minutes)
	c.logger.Debug("preset selected", "minutes", minutes)
	c.emitLocked(EventStateChange)
	return nil
}

// Start begins a session named name. Only allowed in Idle. The trimmed
// name is captured for the record; a blank name returns ErrEmptyName and
// changes nothing.
func (c *Controller) Start(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireLocked("start", StateIdle); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	c.name = name
	c.sessionPreset = c.preset
	c.timeLeft = c.totalTime
	c.runLocked()

	c.logger.Info("session started", "name", name, "preset", c.preset)
	return nil
}

// Resume continues a paused session with its captured name.
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireLocked("resume", StatePaused); err != nil {
		return err
	}

	c.runLocked()
	c.logger.Info("session resumed", "name", c.name, "time_left", c.timeLeft)
	return nil
}

// Pause stops ticking and keeps the time left.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireLocked("pause", StateRunning); err != nil {
		return err
	}

	c.stopTickLocked()
	c.state = StatePaused
	c.logger.Info("session paused", "name", c.name, "time_left", c.timeLeft)
	c.emitLocked(EventStateChange)
	return nil
}

// RequestStop stops ticking and waits for a disposition.
func (c *Controller) RequestStop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireLocked("stop", StateRunning, StatePaused); err != nil {
		return err
	}

	c.stopTickLocked()
	c.state = StateAwaitingDisposition
	c.logger.Info("session stop requested", "name", c.name, "time_left", c.timeLeft)
	c.emitLocked(EventStateChange)
	return nil
}

// ResolveDisposition finishes a stopped session with status, hands the
// record to the sink and resets to Idle. The controller resets even when
// the sink fails; the sink error is returned.
func (c *Controller) ResolveDisposition(status ledger.Status) error {
	c.mu.Lock()

	if err := c.requireLocked("resolve disposition", StateAwaitingDisposition); err != nil {
		c.mu.Unlock()
		return err
	}
	if !status.Valid() {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	draft := c.finishLocked(status, c.totalTime-c.timeLeft)
	c.mu.Unlock()

	return c.record(draft)
}

// CancelDisposition returns a stopped session to Paused without
// recording anything.
func (c *Controller) CancelDisposition() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireLocked("cancel disposition", StateAwaitingDisposition); err != nil {
		return err
	}

	c.state = StatePaused
	c.logger.Debug("disposition cancelled", "name", c.name, "time_left", c.timeLeft)
	c.emitLocked(EventStateChange)
	return nil
}

// Reset abandons the current session without recording it. Allowed in
// every state.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}

	c.stopTickLocked()
	c.state = StateIdle
	c.timeLeft = c.totalTime
	c.name = ""
	c.logger.Debug("timer reset", "total_time", c.totalTime)
	c.emitLocked(EventStateChange)
	return nil
}

// Close cancels any tick and closes observer channels.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.stopTickLocked()
	c.closed = true
	for _, ch := range c.events {
		close(ch)
	}
	c.events = nil

	c.logger.Info("timer closed")
	return nil
}

// onTick handles one scheduled tick of generation gen.
func (c *Controller) onTick(gen uint64) {
	c.mu.Lock()

	// Ticks from a cancelled activity never touch state.
	if c.closed || gen != c.generation || c.state != StateRunning {
		c.mu.Unlock()
		return
	}

	c.timeLeft--
	if c.timeLeft > 0 {
		c.emitLocked(EventTick)
		c.mu.Unlock()
		return
	}

	draft := c.finishLocked(ledger.StatusCompleted, c.totalTime)
	alarm := c.config.Alarm
	c.mu.Unlock()

	// The session is persisted before the alarm, which may block.
	if err := c.record(draft); err != nil {
		c.logger.Error("failed to record completed session", "error", err)
	}

	if alarm != nil {
		if err := alarm.Play(); err != nil {
			c.logger.Warn("alarm failed", "error", err)
		}
	}
}

// runLocked schedules ticks and enters Running.
func (c *Controller) runLocked() {
	c.stopTickLocked()
	gen := c.generation
	c.tick = c.config.Scheduler.Every(c.config.TickInterval, func() {
		c.onTick(gen)
	})
	c.state = StateRunning
	c.emitLocked(EventStateChange)
}

// stopTickLocked cancels the tick and invalidates any tick in flight.
func (c *Controller) stopTickLocked() {
	if c.tick != nil {
		c.tick.Cancel()
		c.tick = nil
	}
	c.generation++
}

// finishLocked builds the finished session and resets to Idle.
func (c *Controller) finishLocked(status ledger.Status, actual int) ledger.Draft {
	c.stopTickLocked()

	draft := ledger.Draft{
		Name:           c.name,
		PlannedMinutes: c.sessionPreset,
		ActualSeconds:  actual,
		Status:         status,
		EndedAt:        c.config.Now(),
	}

	c.state = StateIdle
	c.timeLeft = c.totalTime
	c.name = ""

	c.logger.Info("session finished",
		"name", draft.Name,
		"status", status,
		"actual_seconds", actual)
	c.emitLocked(EventStateChange)
	return draft
}

// record hands draft to the sink and announces the outcome.
func (c *Controller) record(draft ledger.Draft) error {
	rec, err := c.sink.Append(draft)
	if err != nil {
		err = fmt.Errorf("failed to record session: %w", err)
	}

	c.mu.Lock()
	c.emitEventLocked(Event{
		Type:     EventFinished,
		Snapshot: c.snapshotLocked(),
		Session:  &draft,
		Record:   rec,
		Err:      err,
		At:       c.config.Now(),
	})
	c.mu.Unlock()

	return err
}

func (c *Controller) requireLocked(op string, allowed ...State) error {
	if c.closed {
		return ErrControllerClosed
	}
	for _, s := range allowed {
		if c.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, op, c.state)
}

func (c *Controller) setPresetLocked(minutes int) {
	c.preset = minutes
	c.totalTime = minutes * 60
	c.timeLeft = c.totalTime
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:     c.state,
		Preset:    c.preset,
		TotalTime: c.totalTime,
		TimeLeft:  c.timeLeft,
		Name:      c.name,
	}
}

func (c *Controller) emitLocked(t EventType) {
	c.emitEventLocked(Event{
		Type:     t,
		Snapshot: c.snapshotLocked(),
		At:       c.config.Now(),
	})
}

// emitEventLocked never blocks. A full channel drops ticks; other events
// evict the oldest queued event so state changes and finished sessions
// always reach the subscriber.
func (c *Controller) emitEventLocked(event Event) {
	for _, ch := range c.events {
		select {
		case ch <- event:
			continue
		default:
		}
		if event.Type == EventTick {
			continue
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- event:
		default:
		}
	}
}

func presetAllowed(presets []int, minutes int) bool {
	if len(presets) == 0 {
		return minutes > 0
	}
	for _, p := range presets {
		if p == minutes {
			return true
		}
	}
	return false
}
