package display

import (
	"encoding/json"
	"io"

	"github.com/0xmhha/focus-timer/pkg/aggregator"
	"github.com/0xmhha/focus-timer/pkg/ledger"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

// FormatHistory implements Formatter.FormatHistory.
//
// Records use the persisted field names, so the output can be read back
// by the import command.
func (f *jsonFormatter) FormatHistory(w io.Writer, records []ledger.Record) error {
	if records == nil {
		records = []ledger.Record{}
	}
	return f.encode(w, records)
}

// FormatStats implements Formatter.FormatStats.
func (f *jsonFormatter) FormatStats(w io.Writer, stats aggregator.Statistics) error {
	return f.encode(w, stats)
}

// FormatGroupedStats implements Formatter.FormatGroupedStats.
func (f *jsonFormatter) FormatGroupedStats(w io.Writer, groups []aggregator.Group, dimensions []string) error {
	if err := validateDimensions(dimensions); err != nil {
		return err
	}

	return f.encode(w, struct {
		Dimensions []string           `json:"dimensions"`
		Groups     []aggregator.Group `json:"groups"`
	}{dimensions, groups})
}

// FormatTopNames implements Formatter.FormatTopNames.
func (f *jsonFormatter) FormatTopNames(w io.Writer, names []aggregator.NameStats) error {
	return f.encode(w, names)
}

func (f *jsonFormatter) encode(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(v)
}
