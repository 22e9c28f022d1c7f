package display

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/0xmhha/focus-timer/pkg/timer"
)

const (
	barFilled = "█"
	barEmpty  = "░"

	minBarWidth = 10
	maxBarWidth = 60
)

// FaceOptions controls timer face rendering.
type FaceOptions struct {
	// Width is the terminal width; the bar is sized to fit.
	Width int

	// Color enables styling.
	Color bool
}

// Bar renders a progress bar of width cells where percent of the bar is
// filled. The bar shrinks as time runs out.
func Bar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	percent = math.Max(0, math.Min(100, percent))

	filled := int(math.Round(percent / 100 * float64(width)))
	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, width-filled)
}

// Face renders the timer: name and state on the first line, clock, bar
// and percent on the second.
func Face(snap timer.Snapshot, opts FaceOptions) string {
	name := snap.Name
	if name == "" {
		name = fmt.Sprintf("%d minute session", snap.Preset)
	}

	header := render(titleStyle, name, opts.Color) + "  " +
		render(mutedStyle, "["+stateLabel(snap.State)+"]", opts.Color)

	clock := snap.Clock()
	percent := fmt.Sprintf("%3.0f%%", snap.Percent())

	// Clock, two spaces, bar, space, percent.
	width := opts.Width - lipgloss.Width(clock) - lipgloss.Width(percent) - 3
	if width > maxBarWidth {
		width = maxBarWidth
	}
	if width < minBarWidth {
		width = minBarWidth
	}

	line := render(clockStyle, clock, opts.Color) + "  " +
		render(barStyle, Bar(snap.Percent(), width), opts.Color) + " " + percent

	return header + "\n" + line
}

// Controls returns the key hint line for state.
func Controls(state timer.State) string {
	switch state {
	case timer.StateRunning:
		return "[p] pause  [s] stop  [r] reset  [q] quit"
	case timer.StatePaused:
		return "[enter] resume  [s] stop  [r] reset  [q] quit"
	case timer.StateAwaitingDisposition:
		return "Record this session as: [c] completed  [i] incomplete  [x] cancel"
	default:
		return "[enter] start  [n] name  [1-9] preset  [q] quit"
	}
}

// Presets renders the preset selector with the selected one marked.
func Presets(presets []int, selected int, color bool) string {
	parts := make([]string, len(presets))
	for i, p := range presets {
		label := fmt.Sprintf("%d:%dm", i+1, p)
		if p == selected {
			label = render(clockStyle, "["+label+"]", color)
		}
		parts[i] = label
	}
	return strings.Join(parts, " ")
}
