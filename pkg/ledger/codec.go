package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// wireRecord is the stored shape of a record, including the legacy
// "duration" field (whole minutes) written by older versions.
type wireRecord struct {
	ID              *int64  `json:"id"`
	Name            string  `json:"name"`
	PlannedDuration *int    `json:"plannedDuration"`
	ActualDuration  *int    `json:"actualDuration"`
	Duration        *int    `json:"duration"`
	Status          *string `json:"status"`
	Timestamp       string  `json:"timestamp"`
}

// Encode serializes records as the stored JSON array.
func Encode(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal records: %w", err)
	}
	return data, nil
}

// Decode parses a stored JSON array of records.
//
// Records that cannot be normalized are skipped and reported in the
// second return value; only a blob that is not an array at all fails.
// An empty blob decodes to no records.
func Decode(data []byte) ([]Record, []error, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruptLedger, err)
	}

	records := make([]Record, 0, len(raw))
	var skipped []error

	for i, item := range raw {
		rec, err := decodeRecord(item)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

// decodeRecord normalizes one stored record.
func decodeRecord(data []byte) (Record, error) {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	if w.ID == nil {
		return Record{}, fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}

	rec := Record{
		ID:     *w.ID,
		Name:   strings.TrimSpace(w.Name),
		Status: StatusCompleted,
	}
	if rec.Name == "" {
		rec.Name = DefaultName
	}

	switch {
	case w.PlannedDuration != nil:
		rec.PlannedDuration = *w.PlannedDuration
	case w.Duration != nil:
		rec.PlannedDuration = *w.Duration
	}

	switch {
	case w.ActualDuration != nil:
		rec.ActualDuration = *w.ActualDuration
	case w.Duration != nil:
		rec.ActualDuration = *w.Duration * 60
	}

	if w.Status != nil && *w.Status != "" {
		rec.Status = Status(*w.Status)
		if !rec.Status.Valid() {
			return Record{}, fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, *w.Status)
		}
	}

	if w.Timestamp == "" {
		rec.Timestamp = time.UnixMilli(rec.ID).UTC()
	} else {
		ts, err := time.Parse(time.RFC3339Nano, w.Timestamp)
		if err != nil {
			return Record{}, fmt.Errorf("%w: bad timestamp %q", ErrInvalidRecord, w.Timestamp)
		}
		rec.Timestamp = ts.UTC()
	}

	if rec.PlannedDuration <= 0 {
		return Record{}, fmt.Errorf("%w: planned duration must be > 0", ErrInvalidRecord)
	}
	if rec.ActualDuration < 0 {
		return Record{}, fmt.Errorf("%w: negative duration", ErrInvalidRecord)
	}
	rec.ActualDuration = clamp(rec.ActualDuration, 0, rec.PlannedDuration*60)

	return rec, nil
}

// TimestampLayout is the stored timestamp form: UTC with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// MarshalJSON writes Timestamp in TimestampLayout.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	return json.Marshal(struct {
		plain
		Timestamp string `json:"timestamp"`
	}{plain(r), r.Timestamp.UTC().Format(TimestampLayout)})
}
