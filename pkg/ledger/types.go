// Package ledger keeps the history of finished focus sessions.
//
// The ledger is an ordered, newest-first list of immutable records held in
// memory and mirrored to a storage.Store as one JSON array under a fixed
// key after every mutation. Aggregates are recomputed from the full list
// on every read.
//
// Example usage:
//
//	led, err := ledger.New(ledger.Config{}, store, log)
//	if err != nil {
//	    return err
//	}
//
//	rec, err := led.Append(ledger.Draft{
//	    Name:           "Study",
//	    PlannedMinutes: 25,
//	    ActualSeconds:  1500,
//	    Status:         ledger.StatusCompleted,
//	})
//	agg := led.Aggregate()
//	fmt.Println(agg.TotalSessions, agg.TotalTimeSeconds, agg.TodayCount)
package ledger

import "time"

// DefaultKey is the store key the ledger blob lives under.
const DefaultKey = "pomodoro_sessions"

// DefaultName replaces a blank session name.
const DefaultName = "Focus Session"

// Status is the disposition of a finished session.
type Status string

const (
	// StatusCompleted marks a session that ran out or was accepted as done.
	StatusCompleted Status = "Completed"

	// StatusIncomplete marks a session stopped early and not accepted.
	StatusIncomplete Status = "Incomplete"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusCompleted || s == StatusIncomplete
}

// Record is one finished session. Records are never edited.
type Record struct {
	// ID is the creation time in Unix milliseconds, unique within a ledger.
	ID int64 `json:"id"`

	// Name is the session name given at start.
	Name string `json:"name"`

	// PlannedDuration is the preset length in minutes.
	PlannedDuration int `json:"plannedDuration"`

	// ActualDuration is the focused time in seconds.
	ActualDuration int `json:"actualDuration"`

	// Status is Completed or Incomplete.
	Status Status `json:"status"`

	// Timestamp is when the session finished (UTC, millisecond precision).
	Timestamp time.Time `json:"timestamp"`
}

// Draft describes a finished session before the ledger assigns an ID.
type Draft struct {
	Name           string
	PlannedMinutes int
	ActualSeconds  int
	Status         Status
	EndedAt        time.Time
}

// Aggregate holds the derived history counters.
type Aggregate struct {
	TotalSessions    int `json:"totalSessions"`
	TotalTimeSeconds int `json:"totalTimeSeconds"`
	TodayCount       int `json:"todayCount"`
}

// Ledger stores session records.
type Ledger interface {
	// Append records a finished session at the head of the list and
	// persists the whole list.
	//
	// Returns ErrInvalidRecord for a non-positive planned duration or an
	// unknown status. If persisting fails the list is left unchanged.
	Append(d Draft) (Record, error)

	// Delete removes the record with the given id and persists.
	// An unknown id is a no-op and returns nil.
	Delete(id int64) error

	// Get returns the record with the given id.
	Get(id int64) (Record, bool)

	// Records returns a copy of all records, newest first.
	Records() []Record

	// Aggregate recomputes the counters from the full list.
	Aggregate() Aggregate

	// Import merges records whose ids are not yet present, re-sorts the
	// list newest first and persists. Records need a positive planned
	// duration and a known status; actual durations are clamped to the
	// planned length. Returns the number added.
	Import(records []Record) (int, error)

	// Reload replaces the in-memory list with the stored blob.
	Reload() error
}

// Config contains ledger configuration.
type Config struct {
	// Key is the store key (default: DefaultKey).
	Key string

	// Location decides which calendar day counts as today
	// (default: time.Local).
	Location *time.Location

	// Now returns the current time (default: time.Now).
	Now func() time.Time
}
