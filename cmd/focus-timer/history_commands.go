package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/0xmhha/focus-timer/pkg/aggregator"
	"github.com/0xmhha/focus-timer/pkg/display"
	"github.com/0xmhha/focus-timer/pkg/ledger"
	"github.com/0xmhha/focus-timer/pkg/logger"
)

// historyCommand lists recorded sessions.
type historyCommand struct {
	format     string
	limit      int
	compact    bool
	configPath string
	out        io.Writer
}

// Execute prints the history, newest first.
func (c *historyCommand) Execute() error {
	a, err := openApp(c.configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := a.formatter(c.format, c.compact)
	if err != nil {
		return err
	}

	records := a.ledger.Records()
	if c.limit > 0 && len(records) > c.limit {
		records = records[:c.limit]
	}

	return f.FormatHistory(stdout(c.out), records)
}

// statsCommand prints aggregate statistics.
type statsCommand struct {
	groupBy    string
	topN       int
	format     string
	compact    bool
	configPath string
	out        io.Writer
}

// Execute prints overall statistics, then groups and top names when
// requested.
func (c *statsCommand) Execute() error {
	dims, err := aggregator.ParseDimensions(c.groupBy)
	if err != nil {
		return err
	}

	a, err := openApp(c.configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := a.formatter(c.format, c.compact)
	if err != nil {
		return err
	}

	agg := aggregator.New(aggregator.Config{GroupBy: dims})
	for _, rec := range a.ledger.Records() {
		agg.Add(rec)
	}

	w := stdout(c.out)

	if err := f.FormatStats(w, agg.Stats()); err != nil {
		return err
	}

	if len(dims) > 0 {
		names := make([]string, len(dims))
		for i, d := range dims {
			names[i] = string(d)
		}
		if err := f.FormatGroupedStats(w, agg.Groups(), names); err != nil {
			return err
		}
	}

	if c.topN > 0 {
		if err := f.FormatTopNames(w, agg.TopNames(c.topN)); err != nil {
			return err
		}
	}

	return nil
}

// deleteCommand removes one recorded session.
type deleteCommand struct {
	id         string
	force      bool
	configPath string
	in         io.Reader
	out        io.Writer
}

// Execute deletes the session after confirmation. An unknown id changes
// nothing.
func (c *deleteCommand) Execute() error {
	id, err := strconv.ParseInt(c.id, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", c.id, err)
	}

	a, err := openApp(c.configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	w := stdout(c.out)

	rec, found := a.ledger.Get(id)
	if !found {
		fmt.Fprintf(w, "No session with id %d\n", id)
		return nil
	}

	if !c.force {
		fmt.Fprintf(w, "Are you sure you want to delete this session? '%s' (%s) [y/N]: ",
			rec.Name, rec.Timestamp.Local().Format(display.DateLayout))
		if !confirm(c.in) {
			fmt.Fprintln(w, "Cancelled")
			return nil
		}
	}

	if err := a.ledger.Delete(id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	fmt.Fprintf(w, "Deleted session '%s' (%d)\n", rec.Name, rec.ID)
	return nil
}

// confirm reads a y/yes answer from in.
func confirm(in io.Reader) bool {
	if in == nil {
		in = os.Stdin
	}

	var response string
	if _, err := fmt.Fscanln(in, &response); err != nil {
		return false
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// exportCommand writes the history as JSON or CSV.
type exportCommand struct {
	format     string
	output     string
	configPath string
	out        io.Writer
}

// Execute exports every record, newest first. JSON exports can be read
// back with import.
func (c *exportCommand) Execute() error {
	a, err := openApp(c.configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	records := a.ledger.Records()
	return writeExportOutput(c.format, c.output, stdout(c.out), records, a.log)
}

// writeExportOutput writes records to output, or to w when output is empty.
func writeExportOutput(format, output string, w io.Writer, records []ledger.Record, log logger.Logger) error {
	writer := w

	if output != "" {
		dir := filepath.Dir(output)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		// #nosec G304: output path comes from user CLI argument
		f, err := os.Create(output) //nolint:gosec
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				log.Error("failed to close output file", "error", closeErr)
			}
		}()
		writer = f
	}

	switch format {
	case "json":
		if err := writeJSON(writer, records); err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}
	case "csv":
		if err := writeCSV(writer, records); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
	default:
		return fmt.Errorf("invalid format '%s': must be 'json' or 'csv'", format)
	}

	if output != "" {
		fmt.Fprintf(w, "Exported %d sessions to %s\n", len(records), output)
	}

	return nil
}

// writeJSON writes records in the ledger's storage format.
func writeJSON(w io.Writer, records []ledger.Record) error {
	data, err := ledger.Encode(records)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// writeCSV writes records as CSV with a header row.
func writeCSV(w io.Writer, records []ledger.Record) error {
	writer := csv.NewWriter(w)

	header := []string{
		"id",
		"name",
		"planned_minutes",
		"actual_seconds",
		"status",
		"timestamp",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.Name,
			strconv.Itoa(rec.PlannedDuration),
			strconv.Itoa(rec.ActualDuration),
			string(rec.Status),
			rec.Timestamp.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// importCommand merges sessions from a JSON export.
type importCommand struct {
	path       string
	configPath string
	out        io.Writer
}

// Execute reads the file and merges records whose ids are not yet in the
// ledger. Undecodable records are skipped and reported.
func (c *importCommand) Execute() error {
	// #nosec G304: path comes from user CLI argument
	data, err := os.ReadFile(c.path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	records, skipped, err := ledger.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to parse import file: %w", err)
	}

	a, err := openApp(c.configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, skipErr := range skipped {
		a.log.Warn("skipping record", "file", c.path, "error", skipErr)
	}

	added, err := a.ledger.Import(records)
	if err != nil {
		return fmt.Errorf("failed to import sessions: %w", err)
	}

	fmt.Fprintf(stdout(c.out), "Imported %d sessions (%d already present, %d skipped)\n",
		added, len(records)-added, len(skipped))
	return nil
}

// presetsCommand lists the configured session lengths.
type presetsCommand struct {
	configPath string
	out        io.Writer
}

// Execute prints one preset per line, marking the default.
func (c *presetsCommand) Execute() error {
	_, cfg, _, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}

	w := stdout(c.out)
	for i, p := range cfg.Timer.Presets {
		mark := ""
		if p == cfg.Timer.DefaultPreset {
			mark = " (default)"
		}
		fmt.Fprintf(w, "%d. %d minutes%s\n", i+1, p, mark)
	}
	return nil
}

func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
