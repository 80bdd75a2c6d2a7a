package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bulkutil/internal/model"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")
	logger.Info("loaded archive", "properties", 3)
	logger.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loaded archive", entry["msg"])
	assert.Equal(t, float64(3), entry["properties"])
}

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := ProgressReporter{Logger: New(&buf, "debug", "text")}
	rep.RowsProcessed(model.TableHistory, 10, 20)

	out := buf.String()
	assert.Contains(t, out, "validation progress")
	assert.Contains(t, out, "table=historical")
	assert.Contains(t, out, "rows=10")

	buf.Reset()
	quiet := ProgressReporter{Logger: New(&buf, "info", "text")}
	quiet.RowsProcessed(model.TableHistory, 10, 20)
	assert.Zero(t, buf.Len())
}
