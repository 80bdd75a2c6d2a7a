package runlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		RunID:     "7f1c0a2e-0000-4000-8000-000000000001",
		Command:   "split",
		Input:     "bulk.zip",
		Output:    "out/batch_1.zip",
		Outcome:   OutcomeOK,
		Details:   "3 batches",
	}
}

func TestAppend_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "runs.csv")
	require.NoError(t, Append(path, testEntry()))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "split", entries[0].Command)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), Header+"\n")
}

func TestAppend_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.csv")
	require.NoError(t, Append(path, testEntry()))

	e2 := testEntry()
	e2.Command = "validate"
	e2.Outcome = OutcomeFailed
	require.NoError(t, Append(path, e2))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "split", entries[0].Command)
	assert.Equal(t, OutcomeFailed, entries[1].Outcome)
}

func TestRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.csv")
	original := testEntry()
	original.Details = "has, comma and \"quotes\""
	require.NoError(t, Append(path, original))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, original.Timestamp.Equal(entries[0].Timestamp))
	entries[0].Timestamp = original.Timestamp
	assert.Equal(t, original, entries[0])
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "runs.csv"))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_BadFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expected 7 fields")
}

func TestNewEntry(t *testing.T) {
	e := NewEntry("subset", "in.zip", "out.zip")
	_, err := uuid.Parse(e.RunID)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now(), e.Timestamp, time.Minute)
	assert.Equal(t, "subset", e.Command)
	assert.Empty(t, e.Outcome)
}

func TestTimestampFormat(t *testing.T) {
	row := MarshalEntry(testEntry())
	assert.Equal(t, "2025-01-15T10:30:00Z", row[0])
}
