package display

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/0xmhha/focus-timer/pkg/ledger"
	"github.com/0xmhha/focus-timer/pkg/timer"
)

var (
	green    = lipgloss.Color("#a6e3a1")
	peach    = lipgloss.Color("#fab387")
	sapphire = lipgloss.Color("#74c7ec")
	lavender = lipgloss.Color("#b4befe")
	subtext  = lipgloss.Color("#a6adc8")

	completedStyle  = lipgloss.NewStyle().Foreground(green).Bold(true)
	incompleteStyle = lipgloss.NewStyle().Foreground(peach).Bold(true)
	titleStyle      = lipgloss.NewStyle().Foreground(sapphire).Bold(true)
	clockStyle      = lipgloss.NewStyle().Foreground(lavender).Bold(true)
	mutedStyle      = lipgloss.NewStyle().Foreground(subtext)
	barStyle        = lipgloss.NewStyle().Foreground(sapphire)
)

// Badge renders a session status, styled when color is true.
func Badge(status ledger.Status, color bool) string {
	if !color {
		return string(status)
	}

	switch status {
	case ledger.StatusCompleted:
		return completedStyle.Render(string(status))
	case ledger.StatusIncomplete:
		return incompleteStyle.Render(string(status))
	default:
		return string(status)
	}
}

// stateLabel names a timer state for the face.
func stateLabel(s timer.State) string {
	switch s {
	case timer.StateRunning:
		return "running"
	case timer.StatePaused:
		return "paused"
	case timer.StateAwaitingDisposition:
		return "stopped"
	default:
		return "ready"
	}
}

func render(style lipgloss.Style, s string, color bool) string {
	if !color {
		return s
	}
	return style.Render(s)
}
