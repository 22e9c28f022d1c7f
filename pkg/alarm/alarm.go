package alarm

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/0xmhha/focus-timer/pkg/logger"
)

const (
	defaultTimeout = 10 * time.Second
	defaultRepeat  = 3
	bell           = "\a"
)

// New returns the alarm described by cfg. Bell output goes to out.
func New(cfg Config, out io.Writer, log logger.Logger) (Alarm, error) {
	if !cfg.Enabled {
		return Noop(), nil
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeBell
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Repeat <= 0 {
		cfg.Repeat = defaultRepeat
	}

	switch cfg.Mode {
	case ModeBell:
		return &bellAlarm{out: out, repeat: cfg.Repeat}, nil
	case ModeCommand:
		args := strings.Fields(cfg.Command)
		if len(args) == 0 {
			return nil, ErrEmptyCommand
		}
		return &commandAlarm{
			name:    args[0],
			args:    args[1:],
			timeout: cfg.Timeout,
			logger:  log.With("component", "alarm"),
		}, nil
	case ModeNone:
		return Noop(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, cfg.Mode)
	}
}

// Noop returns an alarm that does nothing.
func Noop() Alarm {
	return noopAlarm{}
}

type noopAlarm struct{}

func (noopAlarm) Play() error { return nil }

// bellAlarm writes BEL characters.
type bellAlarm struct {
	out    io.Writer
	repeat int
}

// Play implements Alarm.Play.
func (b *bellAlarm) Play() error {
	if b.out == nil {
		return nil
	}
	if _, err := io.WriteString(b.out, strings.Repeat(bell, b.repeat)); err != nil {
		return fmt.Errorf("failed to ring bell: %w", err)
	}
	return nil
}

// commandAlarm runs an external program.
type commandAlarm struct {
	name    string
	args    []string
	timeout time.Duration
	logger  logger.Logger
}

// Play implements Alarm.Play. It waits for the command to exit.
func (c *commandAlarm) Play() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	// #nosec G204: command comes from the user's own config file
	cmd := exec.CommandContext(ctx, c.name, c.args...) // nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		c.logger.Warn("alarm command failed",
			"command", c.name,
			"output", strings.TrimSpace(string(output)),
			"error", err)
		return fmt.Errorf("alarm command %s failed: %w", c.name, err)
	}

	c.logger.Debug("alarm command finished", "command", c.name)
	return nil
}
