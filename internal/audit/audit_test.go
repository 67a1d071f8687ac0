package audit

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerEmit(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Emit(Event{
		Event:  EventScanCompleted,
		Fields: map[string]any{"score": 40, "level": "HIGH"},
	})

	line := strings.TrimSpace(buf.String())
	var event Event
	require.NoError(t, json.Unmarshal([]byte(line), &event))

	assert.Equal(t, EventScanCompleted, event.Event)
	assert.NotEmpty(t, event.Timestamp)
	assert.Equal(t, float64(40), event.Fields["score"])
	assert.Equal(t, "HIGH", event.Fields["level"])
}

func TestLoggerEmitPreservesTimestamp(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Emit(Event{
		Timestamp: "2025-09-01T00:00:00Z",
		Event:     EventHealthCheck,
	})

	var event Event
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &event))
	assert.Equal(t, "2025-09-01T00:00:00Z", event.Timestamp)
}

func TestLoggerEmitOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Emit(Event{Event: EventHealthCheck})
	logger.Emit(Event{Event: EventFailoverActivated})
	logger.Emit(Event{Event: EventPrimaryRestored})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		var event Event
		assert.NoError(t, json.Unmarshal([]byte(line), &event))
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	var logger *Logger

	assert.NotPanics(t, func() {
		logger.Emit(Event{Event: EventScanCompleted})
	})
	assert.NoError(t, logger.Close())
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	first, err := OpenFile(path)
	require.NoError(t, err)
	first.Emit(Event{Event: EventScanCompleted})
	require.NoError(t, first.Close())

	second, err := OpenFile(path)
	require.NoError(t, err)
	second.Emit(Event{Event: EventHealthCheck})
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
}
