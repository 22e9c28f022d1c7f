package aggregator

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/0xmhha/focus-timer/pkg/ledger"
)

// aggregator implements the Aggregator interface.
type aggregator struct {
	config Config

	mu        sync.RWMutex
	durations []int
	stats     Statistics
	groups    map[string]*group
	names     map[string]*group
}

// group holds statistics for a specific dimension combination.
type group struct {
	values    []string
	durations []int
	stats     Statistics
}

// New creates a new aggregator.
func New(cfg Config) Aggregator {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &aggregator{
		config: cfg,
		groups: make(map[string]*group),
		names:  make(map[string]*group),
	}
}

// Summarize returns overall statistics for records.
func Summarize(records []ledger.Record, now time.Time, loc *time.Location) Statistics {
	agg := New(Config{Location: loc, Now: func() time.Time { return now }})
	for _, rec := range records {
		agg.Add(rec)
	}
	return agg.Stats()
}

// GroupRecords returns records grouped by dims, sorted by key.
func GroupRecords(records []ledger.Record, now time.Time, loc *time.Location, dims ...Dimension) []Group {
	agg := New(Config{GroupBy: dims, Location: loc, Now: func() time.Time { return now }})
	for _, rec := range records {
		agg.Add(rec)
	}
	return agg.Groups()
}

// Add implements Aggregator.Add.
func (a *aggregator) Add(rec ledger.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()

	today := ledger.SameDay(rec.Timestamp, a.config.Now(), a.config.Location)

	updateStats(&a.stats, rec, today)
	a.durations = append(a.durations, rec.ActualDuration)

	name := a.names[rec.Name]
	if name == nil {
		name = &group{values: []string{rec.Name}}
		a.names[rec.Name] = name
	}
	updateStats(&name.stats, rec, today)
	name.durations = append(name.durations, rec.ActualDuration)

	if len(a.config.GroupBy) == 0 {
		return
	}

	values := a.dimensionValues(rec)
	key := strings.Join(values, KeySeparator)
	g, exists := a.groups[key]
	if !exists {
		g = &group{values: values}
		a.groups[key] = g
	}
	updateStats(&g.stats, rec, today)
	g.durations = append(g.durations, rec.ActualDuration)
}

// Stats implements Aggregator.Stats.
func (a *aggregator) Stats() Statistics {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return finalize(a.stats, a.durations)
}

// GroupedStats implements Aggregator.GroupedStats.
func (a *aggregator) GroupedStats() map[string]Statistics {
	a.mu.RLock()
	defer a.mu.RUnlock()

	result := make(map[string]Statistics, len(a.groups))
	for key, g := range a.groups {
		result[key] = finalize(g.stats, g.durations)
	}
	return result
}

// Groups implements Aggregator.Groups.
func (a *aggregator) Groups() []Group {
	a.mu.RLock()
	defer a.mu.RUnlock()

	result := make([]Group, 0, len(a.groups))
	for key, g := range a.groups {
		result = append(result, Group{
			Key:        key,
			Values:     append([]string(nil), g.values...),
			Statistics: finalize(g.stats, g.durations),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}

// TopNames implements Aggregator.TopNames.
func (a *aggregator) TopNames(n int) []NameStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	result := make([]NameStats, 0, len(a.names))
	for name, g := range a.names {
		result = append(result, NameStats{
			Name:       name,
			Statistics: finalize(g.stats, g.durations),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Statistics.TotalSeconds != result[j].Statistics.TotalSeconds {
			return result[i].Statistics.TotalSeconds > result[j].Statistics.TotalSeconds
		}
		return result[i].Name < result[j].Name
	})

	if n > 0 && n < len(result) {
		result = result[:n]
	}
	return result
}

// Reset implements Aggregator.Reset.
func (a *aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.durations = nil
	a.stats = Statistics{}
	a.groups = make(map[string]*group)
	a.names = make(map[string]*group)
}

// updateStats folds one record into stats.
func updateStats(stats *Statistics, rec ledger.Record, today bool) {
	actual := rec.ActualDuration

	stats.Count++
	stats.TotalSeconds += actual
	stats.PlannedSeconds += rec.PlannedDuration * 60
	if today {
		stats.TodayCount++
	}

	switch rec.Status {
	case ledger.StatusCompleted:
		stats.Completed++
	case ledger.StatusIncomplete:
		stats.Incomplete++
	}

	if stats.Count == 1 {
		stats.MinSeconds = actual
		stats.MaxSeconds = actual
	} else {
		if actual < stats.MinSeconds {
			stats.MinSeconds = actual
		}
		if actual > stats.MaxSeconds {
			stats.MaxSeconds = actual
		}
	}

	if stats.FirstSeen.IsZero() || rec.Timestamp.Before(stats.FirstSeen) {
		stats.FirstSeen = rec.Timestamp
	}
	if stats.LastSeen.IsZero() || rec.Timestamp.After(stats.LastSeen) {
		stats.LastSeen = rec.Timestamp
	}
}

// finalize fills the derived fields of stats.
func finalize(stats Statistics, durations []int) Statistics {
	if stats.Count == 0 {
		return stats
	}

	stats.AvgSeconds = float64(stats.TotalSeconds) / float64(stats.Count)
	stats.CompletionRate = 100 * float64(stats.Completed) / float64(stats.Count)

	sorted := append([]int(nil), durations...)
	sort.Ints(sorted)
	stats.P50Seconds = percentile(sorted, 50)

	return stats
}

// dimensionValues returns the record's value for each configured dimension.
func (a *aggregator) dimensionValues(rec ledger.Record) []string {
	values := make([]string, 0, len(a.config.GroupBy))
	for _, dim := range a.config.GroupBy {
		switch dim {
		case DimDate:
			values = append(values, rec.Timestamp.In(a.config.Location).Format("2006-01-02"))
		case DimName:
			values = append(values, rec.Name)
		case DimStatus:
			values = append(values, string(rec.Status))
		case DimPreset:
			values = append(values, strconv.Itoa(rec.PlannedDuration))
		default:
			values = append(values, "")
		}
	}
	return values
}

// percentile calculates the pth percentile of a sorted slice.
func percentile(sorted []int, p int) int {
	if len(sorted) == 0 {
		return 0
	}

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	// Linear interpolation between closest ranks.
	rank := float64(p) / 100.0 * float64(len(sorted)-1)
	lower := int(rank)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[lower]
	}

	fraction := rank - float64(lower)
	return int(float64(sorted[lower])*(1-fraction) + float64(sorted[upper])*fraction)
}
