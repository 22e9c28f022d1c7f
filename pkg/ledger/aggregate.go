package ledger

import "time"

// Summarize computes the history counters for records.
//
// A record counts towards today when its timestamp falls on the same
// calendar date as now in loc.
func Summarize(records []Record, now time.Time, loc *time.Location) Aggregate {
	if loc == nil {
		loc = time.Local
	}

	agg := Aggregate{TotalSessions: len(records)}
	for _, rec := range records {
		agg.TotalTimeSeconds += rec.ActualDuration
		if SameDay(rec.Timestamp, now, loc) {
			agg.TodayCount++
		}
	}
	return agg
}

// SameDay reports whether a and b fall on the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
