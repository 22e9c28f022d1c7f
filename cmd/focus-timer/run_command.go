package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/0xmhha/focus-timer/pkg/alarm"
	"github.com/0xmhha/focus-timer/pkg/config"
	"github.com/0xmhha/focus-timer/pkg/display"
	"github.com/0xmhha/focus-timer/pkg/ledger"
	"github.com/0xmhha/focus-timer/pkg/logger"
	"github.com/0xmhha/focus-timer/pkg/timer"
	"github.com/0xmhha/focus-timer/pkg/watcher"
)

const (
	msgNameRequired = "Please enter a session name to start focusing."
	msgCompleted    = "Session Completed! Great job!"

	defaultWidth = 80

	keyCtrlC     = 3
	keyBackspace = 8
	keyEnter     = '\r'
	keyNewline   = '\n'
	keyEscape    = 27
	keyDelete    = 127

	clearScreen = "\033[H\033[2J"
)

// runCommand handles the interactive timer.
type runCommand struct {
	name       string
	preset     int
	configPath string
}

// Execute runs the timer until the user quits.
func (c *runCommand) Execute() error {
	a, err := openApp(c.configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	alm, err := newAlarm(a.cfg, a.log)
	if err != nil {
		return err
	}

	ctrl, err := timer.New(timer.Config{
		Presets:       a.cfg.Timer.Presets,
		DefaultPreset: a.cfg.Timer.DefaultPreset,
		TickInterval:  a.cfg.Timer.TickInterval,
		Alarm:         alm,
	}, a.ledger, a.log)
	if err != nil {
		return fmt.Errorf("failed to create timer: %w", err)
	}
	defer func() {
		if err := ctrl.Close(); err != nil {
			a.log.Error("failed to close timer", "error", err)
		}
	}()

	if c.preset != 0 {
		if err := ctrl.SelectPreset(c.preset); err != nil {
			return err
		}
	}

	r := newRunner(ctrl, a.ledger, os.Stdout, a.log)
	r.name = strings.TrimSpace(c.name)
	r.color = a.cfg.Display.ColorEnabled && isTerminal()
	r.width = terminalWidth()
	r.reload = func() error { return r.applyConfig(a.loader) }

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	w := c.startWatcher(ctx, a)
	if w != nil {
		defer func() {
			if err := w.Close(); err != nil {
				a.log.Error("failed to close watcher", "error", err)
			}
		}()
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer func() {
			if err := term.Restore(fd, oldState); err != nil {
				a.log.Error("failed to restore terminal", "error", err)
			}
			fmt.Println()
		}()
	}

	return r.loop(ctx, readKeys(os.Stdin), w)
}

// startWatcher watches the config file for hot reload. A watcher that
// cannot start is logged and the timer runs without it.
func (c *runCommand) startWatcher(ctx context.Context, a *app) watcher.Watcher {
	path := a.loader.Path()
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		a.log.Debug("config directory missing, hot reload disabled", "path", path)
		return nil
	}

	w, err := watcher.New(watcher.Config{}, a.log)
	if err != nil {
		a.log.Warn("failed to create config watcher", "error", err)
		return nil
	}
	if err := w.Start(ctx, []string{path}); err != nil {
		a.log.Warn("failed to watch config", "path", path, "error", err)
		if closeErr := w.Close(); closeErr != nil {
			a.log.Error("failed to close watcher", "error", closeErr)
		}
		return nil
	}

	a.log.Info("watching config", "path", path)
	return w
}

// newAlarm builds the completion alarm from configuration. The bell goes
// to stdout so it reaches the terminal.
func newAlarm(cfg *config.Config, log logger.Logger) (timer.Alarm, error) {
	alm, err := alarm.New(alarm.Config{
		Enabled: cfg.Alarm.Enabled,
		Mode:    alarm.Mode(cfg.Alarm.Mode),
		Command: cfg.Alarm.Command,
	}, os.Stdout, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create alarm: %w", err)
	}
	return alm, nil
}

// readKeys forwards stdin bytes until EOF or a read error.
func readKeys(in io.Reader) <-chan byte {
	keys := make(chan byte, 16)
	go func() {
		defer close(keys)
		buf := make([]byte, 64)
		for {
			n, err := in.Read(buf)
			for i := 0; i < n; i++ {
				keys <- buf[i]
			}
			if err != nil {
				return
			}
		}
	}()
	return keys
}

// runner drives the controller from key presses and renders its state.
// All fields are owned by the loop goroutine.
type runner struct {
	ctrl   *timer.Controller
	ledger ledger.Ledger
	out    io.Writer
	logger logger.Logger
	events <-chan timer.Event

	// reload re-reads configuration; nil disables it.
	reload func() error

	name    string
	message string
	color   bool
	width   int

	naming      bool
	nameBuf     []rune
	startOnName bool
}

func newRunner(ctrl *timer.Controller, led ledger.Ledger, out io.Writer, log logger.Logger) *runner {
	return &runner{
		ctrl:   ctrl,
		ledger: led,
		out:    out,
		logger: log.With("component", "runner"),
		events: ctrl.Subscribe(32),
		width:  defaultWidth,
	}
}

// loop processes keys, controller events and config changes until quit,
// end of input or ctx is done.
func (r *runner) loop(ctx context.Context, keys <-chan byte, w watcher.Watcher) error {
	var (
		changes <-chan watcher.Event
		errs    <-chan error
	)
	if w != nil {
		changes = w.Events()
		errs = w.Errors()
	}

	r.draw()

	for {
		select {
		case <-ctx.Done():
			r.abandon("signal")
			return nil

		case b, ok := <-keys:
			if !ok {
				r.abandon("end of input")
				return nil
			}
			if r.handleKey(b) {
				return nil
			}

		case ev, ok := <-r.events:
			if !ok {
				return nil
			}
			r.handleEvent(ev)

		case ev, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			r.logger.Info("config changed", "path", ev.Path, "op", ev.Op.String())
			r.onReload()

		case err, ok := <-errs:
			if ok {
				r.logger.Warn("config watcher error", "error", err)
			} else {
				errs = nil
			}
			continue
		}

		r.draw()
	}
}

// handleKey applies one key press. It reports whether the runner should
// exit.
func (r *runner) handleKey(b byte) bool {
	if b == keyCtrlC {
		r.abandon("interrupt")
		return true
	}
	if r.naming {
		r.editName(b)
		return false
	}

	state := r.ctrl.Snapshot().State

	switch b {
	case keyEnter, keyNewline:
		switch state {
		case timer.StatePaused:
			r.onResume()
		case timer.StateIdle:
			r.onStart()
		}
	case 'p':
		r.onPause()
	case 's':
		r.onStop()
	case 'r':
		r.onReset()
	case 'n':
		r.beginNaming(false)
	case 'c':
		r.onDisposition(ledger.StatusCompleted)
	case 'i':
		r.onDisposition(ledger.StatusIncomplete)
	case 'x':
		r.onCancelDisposition()
	case 'q':
		switch state {
		case timer.StateIdle:
			return true
		case timer.StateRunning, timer.StatePaused:
			r.onStop()
		}
	default:
		if b >= '1' && b <= '9' {
			r.onPresetChange(int(b - '1'))
		}
	}

	return false
}

func (r *runner) onStart() {
	err := r.ctrl.Start(r.name)
	switch {
	case err == nil:
		r.message = ""
	case errors.Is(err, timer.ErrEmptyName):
		r.message = msgNameRequired
		r.beginNaming(true)
	default:
		r.message = err.Error()
	}
}

func (r *runner) onResume() {
	r.setResult(r.ctrl.Resume(), "")
}

func (r *runner) onPause() {
	r.setResult(r.ctrl.Pause(), "Paused.")
}

func (r *runner) onStop() {
	r.setResult(r.ctrl.RequestStop(), "")
}

func (r *runner) onReset() {
	r.setResult(r.ctrl.Reset(), "Timer reset.")
}

// onPresetChange selects the preset at index.
func (r *runner) onPresetChange(index int) {
	presets := r.ctrl.Presets()
	if index >= len(presets) {
		return
	}
	r.setResult(r.ctrl.SelectPreset(presets[index]), "")
}

func (r *runner) onDisposition(status ledger.Status) {
	err := r.ctrl.ResolveDisposition(status)
	if errors.Is(err, timer.ErrInvalidTransition) {
		return
	}
	r.setResult(err, fmt.Sprintf("Session recorded as %s.", status))
}

func (r *runner) onCancelDisposition() {
	err := r.ctrl.CancelDisposition()
	if errors.Is(err, timer.ErrInvalidTransition) {
		return
	}
	r.setResult(err, "")
}

func (r *runner) onReload() {
	if r.reload == nil {
		return
	}
	if err := r.reload(); err != nil {
		r.logger.Warn("config reload failed", "error", err)
		r.message = fmt.Sprintf("Config reload failed: %v", err)
		return
	}
	r.message = "Configuration reloaded."
}

// applyConfig reloads presets and alarm from loader. The running session
// and the selected preset are untouched.
func (r *runner) applyConfig(loader config.Loader) error {
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	if err := r.ctrl.SetPresets(cfg.Timer.Presets); err != nil {
		return err
	}
	alm, err := newAlarm(cfg, r.logger)
	if err != nil {
		return err
	}
	r.ctrl.SetAlarm(alm)
	return nil
}

func (r *runner) setResult(err error, ok string) {
	if err != nil {
		r.message = err.Error()
		return
	}
	r.message = ok
}

func (r *runner) beginNaming(startAfter bool) {
	if r.ctrl.Snapshot().State != timer.StateIdle {
		return
	}
	r.naming = true
	r.startOnName = startAfter
	r.nameBuf = []rune(r.name)
}

// editName handles a key while the session name is being typed.
func (r *runner) editName(b byte) {
	switch {
	case b == keyEnter || b == keyNewline:
		r.naming = false
		r.name = strings.TrimSpace(string(r.nameBuf))
		if r.startOnName && r.name != "" {
			r.onStart()
		} else if r.name != "" {
			r.message = ""
		}
	case b == keyEscape:
		r.naming = false
		r.message = ""
	case b == keyDelete || b == keyBackspace:
		if len(r.nameBuf) > 0 {
			r.nameBuf = r.nameBuf[:len(r.nameBuf)-1]
		}
	case b >= ' ' && b < keyDelete:
		r.nameBuf = append(r.nameBuf, rune(b))
	}
}

// handleEvent reacts to controller events.
func (r *runner) handleEvent(ev timer.Event) {
	if ev.Type != timer.EventFinished || ev.Session == nil {
		return
	}

	if ev.Err != nil {
		r.message = fmt.Sprintf("Failed to save session: %v", ev.Err)
	} else if naturalCompletion(*ev.Session) {
		r.message = msgCompleted
	}
	r.name = ""
}

// naturalCompletion reports whether d ran the full preset. A stopped
// session always has time left.
func naturalCompletion(d ledger.Draft) bool {
	return d.Status == ledger.StatusCompleted && d.ActualSeconds == d.PlannedMinutes*60
}

// abandon logs a session left unrecorded on exit.
func (r *runner) abandon(reason string) {
	snap := r.ctrl.Snapshot()
	if snap.State != timer.StateIdle {
		r.logger.Info("session abandoned",
			"name", snap.Name,
			"reason", reason,
			"time_left", snap.TimeLeft)
	}
}

// screen renders the full timer view.
func (r *runner) screen() string {
	snap := r.ctrl.Snapshot()
	if snap.State == timer.StateIdle {
		snap.Name = r.name
	}

	lines := []string{
		"Focus Timer",
		"",
		display.Face(snap, display.FaceOptions{Width: r.width, Color: r.color}),
		"",
		"Presets: " + display.Presets(r.ctrl.Presets(), snap.Preset, r.color),
		"",
	}

	if r.naming {
		lines = append(lines, "Session name: "+string(r.nameBuf)+"_", "[enter] save  [esc] cancel")
	} else {
		lines = append(lines, display.Controls(snap.State))
	}

	if r.message != "" {
		lines = append(lines, "", r.message)
	}

	agg := r.ledger.Aggregate()
	lines = append(lines, "", fmt.Sprintf("Sessions: %d | Total: %s | Today: %d",
		agg.TotalSessions, display.FormatTotal(agg.TotalTimeSeconds), agg.TodayCount))

	return strings.ReplaceAll(strings.Join(lines, "\n"), "\n", "\r\n") + "\r\n"
}

func (r *runner) draw() {
	if _, err := io.WriteString(r.out, clearScreen+r.screen()); err != nil {
		r.logger.Debug("failed to draw", "error", err)
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
