package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/0xmhha/focus-timer/pkg/aggregator"
	"github.com/0xmhha/focus-timer/pkg/ledger"
)

// simpleFormatter formats output as simple text.
type simpleFormatter struct {
	config Config
}

// FormatHistory implements Formatter.FormatHistory.
func (f *simpleFormatter) FormatHistory(w io.Writer, records []ledger.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, EmptyHistory)
		return err
	}

	for _, rec := range records {
		if _, err := fmt.Fprintf(w, "%s | %s | %s | %s\n",
			rec.Name,
			rec.Timestamp.In(f.config.Location).Format(DateLayout),
			rec.Status,
			FormatDuration(rec.ActualDuration)); err != nil {
			return err
		}
	}

	return nil
}

// FormatStats implements Formatter.FormatStats.
func (f *simpleFormatter) FormatStats(w io.Writer, stats aggregator.Statistics) error {
	_, err := fmt.Fprintf(w, "Sessions: %d | Total: %s | Today: %d | Completed: %s\n",
		stats.Count,
		FormatTotal(stats.TotalSeconds),
		stats.TodayCount,
		formatRate(stats.CompletionRate))
	return err
}

// FormatGroupedStats implements Formatter.FormatGroupedStats.
func (f *simpleFormatter) FormatGroupedStats(w io.Writer, groups []aggregator.Group, dimensions []string) error {
	if err := validateDimensions(dimensions); err != nil {
		return err
	}

	for _, g := range groups {
		if _, err := fmt.Fprintf(w, "%s: %d sessions, %s (completed: %s)\n",
			strings.Join(g.Values, " / "),
			g.Statistics.Count,
			FormatTotal(g.Statistics.TotalSeconds),
			formatRate(g.Statistics.CompletionRate)); err != nil {
			return err
		}
	}

	return nil
}

// FormatTopNames implements Formatter.FormatTopNames.
func (f *simpleFormatter) FormatTopNames(w io.Writer, names []aggregator.NameStats) error {
	for i, n := range names {
		if _, err := fmt.Fprintf(w, "#%d: %s - %s in %d sessions\n",
			i+1,
			n.Name,
			FormatTotal(n.Statistics.TotalSeconds),
			n.Statistics.Count); err != nil {
			return err
		}
	}

	return nil
}
