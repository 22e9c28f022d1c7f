package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLegacyRecords(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want Record
	}{
		{
			name: "legacy duration only",
			blob: `[{"id": 1700000000000, "name": "Deep work", "duration": 5, "timestamp": "2023-11-14T22:13:20.000Z"}]`,
			want: Record{
				ID:              1700000000000,
				Name:            "Deep work",
				PlannedDuration: 5,
				ActualDuration:  300,
				Status:          StatusCompleted,
				Timestamp:       time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC),
			},
		},
		{
			name: "actual duration wins over legacy duration",
			blob: `[{"id": 2, "name": "a", "plannedDuration": 25, "actualDuration": 42, "duration": 25, "status": "Incomplete", "timestamp": "2026-01-02T03:04:05Z"}]`,
			want: Record{
				ID:              2,
				Name:            "a",
				PlannedDuration: 25,
				ActualDuration:  42,
				Status:          StatusIncomplete,
				Timestamp:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			},
		},
		{
			name: "missing timestamp derives from id",
			blob: `[{"id": 1700000000000, "name": "", "plannedDuration": 20, "actualDuration": 1200, "status": ""}]`,
			want: Record{
				ID:              1700000000000,
				Name:            DefaultName,
				PlannedDuration: 20,
				ActualDuration:  1200,
				Status:          StatusCompleted,
				Timestamp:       time.UnixMilli(1700000000000).UTC(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, skipped, err := Decode([]byte(tt.blob))
			require.NoError(t, err)
			assert.Empty(t, skipped)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0])
		})
	}
}

func TestDecodeSkipsBadRecords(t *testing.T) {
	blob := `[
		{"id": 1, "name": "ok", "plannedDuration": 25, "actualDuration": 10, "status": "Completed", "timestamp": "2026-10-16T09:00:00Z"},
		{"name": "no id"},
		{"id": 3, "status": "Abandoned"},
		{"id": 4, "timestamp": "yesterday"},
		{"id": "five"},
		{"id": 6, "actualDuration": -1}
	]`

	records, skipped, err := Decode([]byte(blob))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].ID)
	assert.Len(t, skipped, 5)
	for _, skipErr := range skipped {
		assert.ErrorIs(t, skipErr, ErrInvalidRecord)
	}
}

func TestDecodeEmptyAndCorrupt(t *testing.T) {
	for _, blob := range []string{"", "  \n", "[]"} {
		records, skipped, err := Decode([]byte(blob))
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.Empty(t, skipped)
	}

	_, _, err := Decode([]byte(`"pomodoro"`))
	assert.ErrorIs(t, err, ErrCorruptLedger)
}

func TestEncodeFieldNames(t *testing.T) {
	data, err := Encode([]Record{{
		ID:              1760601600000,
		Name:            "Study",
		PlannedDuration: 25,
		ActualDuration:  1500,
		Status:          StatusCompleted,
		Timestamp:       time.Date(2025, 10, 16, 8, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)

	assert.JSONEq(t, `[{
		"id": 1760601600000,
		"name": "Study",
		"plannedDuration": 25,
		"actualDuration": 1500,
		"status": "Completed",
		"timestamp": "2025-10-16T08:00:00.000Z"
	}]`, string(data))

	empty, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestEncodeTimestampMilliseconds(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	data, err := Encode([]Record{{
		ID:              1,
		PlannedDuration: 25,
		Status:          StatusCompleted,
		Timestamp:       time.Date(2026, 10, 16, 17, 4, 5, 120_000_000, jst),
	}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timestamp":"2026-10-16T08:04:05.120Z"`)

	records, skipped, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, records, 1)
	assert.True(t, records[0].Timestamp.Equal(time.Date(2026, 10, 16, 8, 4, 5, 120_000_000, time.UTC)))
}

func TestDecodeEnforcesDurations(t *testing.T) {
	blob := `[
		{"id": 1, "name": "long", "plannedDuration": 25, "actualDuration": 999999, "status": "Completed", "timestamp": "2026-10-16T09:00:00.000Z"},
		{"id": 2, "name": "zero", "plannedDuration": 0, "actualDuration": 10, "status": "Completed", "timestamp": "2026-10-16T09:00:00.000Z"},
		{"id": 3, "name": "negative", "plannedDuration": -5, "actualDuration": 10, "status": "Incomplete", "timestamp": "2026-10-16T09:00:00.000Z"},
		{"id": 4, "name": "none", "actualDuration": 10, "timestamp": "2026-10-16T09:00:00.000Z"}
	]`

	records, skipped, err := Decode([]byte(blob))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, 1500, records[0].ActualDuration)

	assert.Len(t, skipped, 3)
	for _, skipErr := range skipped {
		assert.ErrorIs(t, skipErr, ErrInvalidRecord)
	}
}

func TestSummarizeToday(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, tokyo) // 2026-10-15 23:00 UTC

	records := []Record{
		{ActualDuration: 10, Timestamp: time.Date(2026, 10, 15, 16, 0, 0, 0, time.UTC)}, // 10-16 01:00 JST
		{ActualDuration: 20, Timestamp: time.Date(2026, 10, 15, 14, 0, 0, 0, time.UTC)}, // 10-15 23:00 JST
	}

	assert.Equal(t, Aggregate{TotalSessions: 2, TotalTimeSeconds: 30, TodayCount: 1}, Summarize(records, now, tokyo))
	assert.Equal(t, Aggregate{TotalSessions: 2, TotalTimeSeconds: 30, TodayCount: 2}, Summarize(records, now, time.UTC))
	assert.Equal(t, Aggregate{}, Summarize(nil, now, nil))
}
