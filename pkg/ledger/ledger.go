package ledger

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/0xmhha/focus-timer/pkg/logger"
	"github.com/0xmhha/focus-timer/pkg/storage"
)

// ledger implements the Ledger interface on top of a storage.Store.
type ledger struct {
	store  storage.Store
	logger logger.Logger
	config Config

	mu      sync.RWMutex
	records []Record
}

// New creates a ledger and reads the stored history once.
//
// Returns an error wrapping ErrCorruptLedger if the stored blob is not a
// JSON array; the blob is left untouched in that case.
func New(cfg Config, store storage.Store, log logger.Logger) (Ledger, error) {
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	l := &ledger{
		store:  store,
		logger: log.With("component", "ledger"),
		config: cfg,
	}

	if err := l.Reload(); err != nil {
		return nil, err
	}

	l.logger.Info("ledger opened", "key", cfg.Key, "records", len(l.records))
	return l, nil
}

// Reload implements Ledger.Reload.
func (l *ledger) Reload() error {
	data, err := l.store.Get(l.config.Key)
	if err != nil {
		return fmt.Errorf("failed to read session history: %w", err)
	}

	records, skipped, err := Decode(data)
	if err != nil {
		return err
	}

	for _, skipErr := range skipped {
		l.logger.Warn("skipping unreadable session record", "error", skipErr)
	}

	l.mu.Lock()
	l.records = records
	l.mu.Unlock()

	return nil
}

// Append implements Ledger.Append.
func (l *ledger) Append(d Draft) (Record, error) {
	if d.PlannedMinutes <= 0 {
		return Record{}, fmt.Errorf("%w: planned duration must be > 0", ErrInvalidRecord)
	}
	if !d.Status.Valid() {
		return Record{}, fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, d.Status)
	}

	name := strings.TrimSpace(d.Name)
	if name == "" {
		name = DefaultName
	}

	ended := d.EndedAt
	if ended.IsZero() {
		ended = l.config.Now()
	}
	ended = ended.UTC().Truncate(time.Millisecond)

	l.mu.Lock()
	defer l.mu.Unlock()

	id := ended.UnixMilli()
	if maxID := l.maxIDLocked(); id <= maxID {
		id = maxID + 1
	}

	rec := Record{
		ID:              id,
		Name:            name,
		PlannedDuration: d.PlannedMinutes,
		ActualDuration:  clamp(d.ActualSeconds, 0, d.PlannedMinutes*60),
		Status:          d.Status,
		Timestamp:       ended,
	}

	next := make([]Record, 0, len(l.records)+1)
	next = append(next, rec)
	next = append(next, l.records...)

	if err := l.persistLocked(next); err != nil {
		return Record{}, err
	}

	l.logger.Info("session recorded",
		"id", rec.ID,
		"name", rec.Name,
		"status", rec.Status,
		"actual_seconds", rec.ActualDuration)

	return rec, nil
}

// Delete implements Ledger.Delete.
func (l *ledger) Delete(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexLocked(id)
	if idx < 0 {
		l.logger.Debug("delete of unknown session ignored", "id", id)
		return nil
	}

	next := make([]Record, 0, len(l.records)-1)
	next = append(next, l.records[:idx]...)
	next = append(next, l.records[idx+1:]...)

	if err := l.persistLocked(next); err != nil {
		return err
	}

	l.logger.Info("session deleted", "id", id)
	return nil
}

// Get implements Ledger.Get.
func (l *ledger) Get(id int64) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx := l.indexLocked(id)
	if idx < 0 {
		return Record{}, false
	}
	return l.records[idx], true
}

// Records implements Ledger.Records.
func (l *ledger) Records() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]Record(nil), l.records...)
}

// Aggregate implements Ledger.Aggregate.
func (l *ledger) Aggregate() Aggregate {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return Summarize(l.records, l.config.Now(), l.config.Location)
}

// Import implements Ledger.Import.
func (l *ledger) Import(records []Record) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[int64]bool, len(l.records)+len(records))
	for _, rec := range l.records {
		seen[rec.ID] = true
	}

	next := append([]Record(nil), l.records...)
	added := 0
	for _, rec := range records {
		if seen[rec.ID] {
			continue
		}
		if rec.PlannedDuration <= 0 {
			return 0, fmt.Errorf("%w: record %d has planned duration %d", ErrInvalidRecord, rec.ID, rec.PlannedDuration)
		}
		if !rec.Status.Valid() {
			return 0, fmt.Errorf("%w: record %d has unknown status %q", ErrInvalidRecord, rec.ID, rec.Status)
		}
		rec.ActualDuration = clamp(rec.ActualDuration, 0, rec.PlannedDuration*60)
		seen[rec.ID] = true
		next = append(next, rec)
		added++
	}

	if added == 0 {
		return 0, nil
	}

	sort.SliceStable(next, func(i, j int) bool {
		if next[i].Timestamp.Equal(next[j].Timestamp) {
			return next[i].ID > next[j].ID
		}
		return next[i].Timestamp.After(next[j].Timestamp)
	})

	if err := l.persistLocked(next); err != nil {
		return 0, err
	}

	l.logger.Info("sessions imported", "added", added, "total", len(next))
	return added, nil
}

// persistLocked writes next to the store and, only on success, makes it
// the in-memory list.
func (l *ledger) persistLocked(next []Record) error {
	data, err := Encode(next)
	if err != nil {
		return err
	}

	if err := l.store.Set(l.config.Key, data); err != nil {
		l.logger.Error("failed to persist session history", "error", err)
		return fmt.Errorf("failed to persist session history: %w", err)
	}

	l.records = next
	return nil
}

func (l *ledger) indexLocked(id int64) int {
	for i, rec := range l.records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

func (l *ledger) maxIDLocked() int64 {
	var maxID int64
	for _, rec := range l.records {
		if rec.ID > maxID {
			maxID = rec.ID
		}
	}
	return maxID
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
