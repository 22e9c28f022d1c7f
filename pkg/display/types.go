// Package display renders focus sessions and statistics for the terminal.
//
// It supports multiple output formats (table, JSON, simple text) for the
// history and stats commands, and draws the live timer face (clock,
// progress bar and state) for the interactive runner.
package display

import (
	"io"
	"time"

	"github.com/0xmhha/focus-timer/pkg/aggregator"
	"github.com/0xmhha/focus-timer/pkg/ledger"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays data in a formatted table.
	FormatTable Format = "table"

	// FormatJSON displays data as JSON.
	FormatJSON Format = "json"

	// FormatSimple displays data as one line per item.
	FormatSimple Format = "simple"
)

// EmptyHistory is shown when no session has been recorded.
const EmptyHistory = "No sessions yet. Start focusing!"

// Formatter formats session history and statistics.
type Formatter interface {
	// FormatHistory formats records in the order given.
	FormatHistory(w io.Writer, records []ledger.Record) error

	// FormatStats formats overall statistics.
	FormatStats(w io.Writer, stats aggregator.Statistics) error

	// FormatGroupedStats formats grouped statistics. dimensions name the
	// columns for each group's values.
	FormatGroupedStats(w io.Writer, groups []aggregator.Group, dimensions []string) error

	// FormatTopNames formats per-name statistics.
	FormatTopNames(w io.Writer, names []aggregator.NameStats) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// Color enables styled status badges in table output.
	Color bool

	// ShowTimestamps enables first/last seen in stats output.
	ShowTimestamps bool

	// Compact enables compact output (less whitespace).
	Compact bool

	// Location is used to show record dates (default: time.Local).
	Location *time.Location
}
