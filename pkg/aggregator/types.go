// Package aggregator computes statistics over recorded focus sessions.
//
// It extends the ledger's three headline counters with completion rate,
// averages, percentiles and grouping by date, name, status or preset.
//
// Example usage:
//
//	agg := aggregator.New(aggregator.Config{
//	    GroupBy: []aggregator.Dimension{aggregator.DimDate},
//	})
//
//	for _, rec := range led.Records() {
//	    agg.Add(rec)
//	}
//
//	stats := agg.Stats()
//	fmt.Printf("Sessions: %d\n", stats.Count)
//	fmt.Printf("Completion rate: %.0f%%\n", stats.CompletionRate)
package aggregator

import (
	"fmt"
	"strings"
	"time"

	"github.com/0xmhha/focus-timer/pkg/ledger"
)

// Dimension represents an aggregation dimension.
type Dimension string

const (
	// DimDate aggregates by local calendar date (YYYY-MM-DD).
	DimDate Dimension = "date"

	// DimName aggregates by session name.
	DimName Dimension = "name"

	// DimStatus aggregates by Completed / Incomplete.
	DimStatus Dimension = "status"

	// DimPreset aggregates by planned duration in minutes.
	DimPreset Dimension = "preset"
)

// KeySeparator joins dimension values in a group key.
const KeySeparator = "|"

// ParseDimensions parses a comma-separated dimension list such as
// "date,status".
func ParseDimensions(s string) ([]Dimension, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var dims []Dimension
	for _, part := range strings.Split(s, ",") {
		d := Dimension(strings.ToLower(strings.TrimSpace(part)))
		switch d {
		case DimDate, DimName, DimStatus, DimPreset:
			dims = append(dims, d)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, part)
		}
	}
	return dims, nil
}

// Aggregator computes session statistics.
type Aggregator interface {
	// Add adds a session record to the aggregator.
	Add(rec ledger.Record)

	// Stats returns statistics across all records.
	Stats() Statistics

	// GroupedStats returns statistics keyed by the configured dimensions,
	// values joined with KeySeparator. Empty without GroupBy.
	GroupedStats() map[string]Statistics

	// Groups returns GroupedStats as a slice sorted by key.
	Groups() []Group

	// TopNames returns the n names with the most focused time.
	TopNames(n int) []NameStats

	// Reset clears all aggregated data.
	Reset()
}

// Statistics contains aggregated session statistics.
type Statistics struct {
	// Count is the number of sessions.
	Count int

	// TotalSeconds is the sum of actual durations.
	TotalSeconds int

	// TodayCount is the number of sessions recorded on the current
	// local calendar date.
	TodayCount int

	// Completed and Incomplete count sessions by status.
	Completed  int
	Incomplete int

	// CompletionRate is Completed / Count as a percentage.
	CompletionRate float64

	// AvgSeconds is the average actual duration.
	AvgSeconds float64

	// MinSeconds and MaxSeconds bound the actual durations.
	MinSeconds int
	MaxSeconds int

	// P50Seconds is the median actual duration.
	P50Seconds int

	// PlannedSeconds is the sum of planned durations.
	PlannedSeconds int

	// FirstSeen is the timestamp of the oldest session.
	FirstSeen time.Time

	// LastSeen is the timestamp of the newest session.
	LastSeen time.Time
}

// Group is one entry of grouped statistics.
type Group struct {
	// Key is the joined dimension values.
	Key string

	// Values holds one value per configured dimension.
	Values []string

	Statistics Statistics
}

// NameStats contains statistics for one session name.
type NameStats struct {
	Name       string
	Statistics Statistics
}

// Config contains aggregator configuration.
type Config struct {
	// GroupBy specifies aggregation dimensions.
	//
	// Default: no grouping (overall stats only).
	GroupBy []Dimension

	// Location decides calendar dates for DimDate and TodayCount
	// (default: time.Local).
	Location *time.Location

	// Now is the clock used for TodayCount (default: time.Now).
	Now func() time.Time
}
