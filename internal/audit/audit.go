// Package audit writes an append-only NDJSON trail of security-relevant
// events shared by both binaries.
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Audit event name constants.
const (
	EventScanCompleted     = "scan_completed"
	EventHealthCheck       = "health_check"
	EventFailoverActivated = "failover_activated"
	EventPrimaryRestored   = "primary_restored"
)

// Event is a single structured audit record emitted as one NDJSON line.
type Event struct {
	Timestamp string         `json:"ts"`
	Event     string         `json:"event"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Logger writes audit events to an io.Writer. A nil *Logger is a valid
// no-op, so callers without a configured audit log can emit unconditionally.
type Logger struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// NewLogger creates a Logger writing to w.
func NewLogger(w io.Writer) *Logger {
	return &Logger{w: w}
}

// OpenFile opens (or creates) an audit log file in append mode.
func OpenFile(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	return &Logger{w: f, closer: f}, nil
}

// Emit writes an event as a single NDJSON line. If Timestamp is empty it is
// set to the current time in RFC3339 UTC.
func (a *Logger) Emit(event Event) {
	if a == nil {
		return
	}
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	data = append(data, '\n')

	a.mu.Lock()
	a.w.Write(data) //nolint:errcheck
	a.mu.Unlock()
}

// Close closes the underlying file, if the logger owns one.
func (a *Logger) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
