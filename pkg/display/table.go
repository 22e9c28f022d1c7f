package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/0xmhha/focus-timer/pkg/aggregator"
	"github.com/0xmhha/focus-timer/pkg/ledger"
)

// tableFormatter formats output as tables.
type tableFormatter struct {
	config Config
}

// FormatHistory implements Formatter.FormatHistory.
func (f *tableFormatter) FormatHistory(w io.Writer, records []ledger.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, EmptyHistory)
		return err
	}

	if err := writeHeader(w, "Session History", f.config.Compact); err != nil {
		return err
	}

	header := []string{"ID", "Name", "Date", "Status", "Duration"}
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = []string{
			fmt.Sprintf("%d", rec.ID),
			rec.Name,
			rec.Timestamp.In(f.config.Location).Format(DateLayout),
			Badge(rec.Status, f.config.Color),
			FormatDuration(rec.ActualDuration),
		}
	}

	return f.writeTable(w, header, rows)
}

// FormatStats implements Formatter.FormatStats.
func (f *tableFormatter) FormatStats(w io.Writer, stats aggregator.Statistics) error {
	if err := writeHeader(w, "Focus Statistics", f.config.Compact); err != nil {
		return err
	}

	rows := [][]string{
		{"Total Sessions", formatNumber(stats.Count)},
		{"Total Time", FormatTotal(stats.TotalSeconds)},
		{"Today", formatNumber(stats.TodayCount)},
		{"Completed", formatNumber(stats.Completed)},
		{"Incomplete", formatNumber(stats.Incomplete)},
		{"Completion Rate", formatRate(stats.CompletionRate)},
		{"Average", FormatDuration(int(stats.AvgSeconds))},
		{"Median", FormatDuration(stats.P50Seconds)},
		{"Shortest", FormatDuration(stats.MinSeconds)},
		{"Longest", FormatDuration(stats.MaxSeconds)},
	}

	if f.config.ShowTimestamps && !stats.FirstSeen.IsZero() {
		rows = append(rows,
			[]string{"First Session", stats.FirstSeen.In(f.config.Location).Format(DateLayout)},
			[]string{"Last Session", stats.LastSeen.In(f.config.Location).Format(DateLayout)},
		)
	}

	return f.writeTable(w, []string{"Metric", "Value"}, rows)
}

// FormatGroupedStats implements Formatter.FormatGroupedStats.
func (f *tableFormatter) FormatGroupedStats(w io.Writer, groups []aggregator.Group, dimensions []string) error {
	if err := validateDimensions(dimensions); err != nil {
		return err
	}

	if err := writeHeader(w, "Grouped Statistics", f.config.Compact); err != nil {
		return err
	}

	n := len(dimensions)
	header := make([]string, n+4)
	for i, d := range dimensions {
		if d != "" {
			d = strings.ToUpper(d[:1]) + d[1:]
		}
		header[i] = d
	}
	header[n] = "Sessions"
	header[n+1] = "Total"
	header[n+2] = "Completed"
	header[n+3] = "Rate"

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		row := make([]string, len(header))
		for i, v := range g.Values {
			if i < n {
				row[i] = v
			}
		}

		row[n] = formatNumber(g.Statistics.Count)
		row[n+1] = FormatTotal(g.Statistics.TotalSeconds)
		row[n+2] = formatNumber(g.Statistics.Completed)
		row[n+3] = formatRate(g.Statistics.CompletionRate)

		rows = append(rows, row)
	}

	return f.writeTable(w, header, rows)
}

// FormatTopNames implements Formatter.FormatTopNames.
func (f *tableFormatter) FormatTopNames(w io.Writer, names []aggregator.NameStats) error {
	if err := writeHeader(w, "Top Sessions by Focus Time", f.config.Compact); err != nil {
		return err
	}

	header := []string{"Rank", "Name", "Sessions", "Total", "Average"}

	rows := make([][]string, len(names))
	for i, n := range names {
		rows[i] = []string{
			fmt.Sprintf("#%d", i+1),
			n.Name,
			formatNumber(n.Statistics.Count),
			FormatTotal(n.Statistics.TotalSeconds),
			FormatDuration(int(n.Statistics.AvgSeconds)),
		}
	}

	return f.writeTable(w, header, rows)
}

// writeTable writes a formatted table. Widths are measured with
// lipgloss.Width so styled cells align.
func (f *tableFormatter) writeTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	if err := f.writeRow(w, header, widths); err != nil {
		return err
	}

	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := f.writeRow(w, separator, widths); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if err := f.writeRow(w, row, widths); err != nil {
			return err
		}
	}

	if !f.config.Compact {
		_, err := fmt.Fprintln(w)
		return err
	}

	return nil
}

// writeRow writes a single table row.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int) error {
	gap := "  "
	if f.config.Compact {
		gap = " "
	}

	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(gap)
		}
		b.WriteString(cell)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
		}
	}

	_, err := fmt.Fprintln(w, b.String())
	return err
}
