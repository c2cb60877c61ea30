// Package diag emits structured JSON diagnostics for resolution runs.
package diag

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"time"
)

// StructuredLogger emits structured diagnostic entries.
type StructuredLogger interface {
	Emit(Entry) error
}

// Severity represents the diagnostic severity level.
type Severity string

const (
	// SeverityInfo captures normal operation messages.
	SeverityInfo Severity = "info"
	// SeverityWarn captures recoverable anomalies.
	SeverityWarn Severity = "warn"
	// SeverityError captures unrecoverable or failure states.
	SeverityError Severity = "error"
)

// Category captures the diagnostic category.
type Category string

const (
	// CategoryResolve marks merge-pipeline events.
	CategoryResolve Category = "resolve"
	// CategorySource marks tier loading and archive events.
	CategorySource Category = "source"
	// CategoryProfile marks profile discovery events.
	CategoryProfile Category = "profile"
)

// Entry describes a diagnostic entry prior to serialization.
type Entry struct {
	Category Category
	Message  string
	Severity Severity
	Source   string
	Key      string
	Metadata map[string]string
	Error    error
}

// Logger emits structured JSON diagnostics.
type Logger struct {
	enc   *json.Encoder
	scope string
	mu    sync.Mutex
}

// NewLogger constructs a logger scoped to one command invocation.
func NewLogger(w io.Writer, scope string) (*Logger, error) {
	if w == nil {
		return nil, errors.New("logger writer is required")
	}
	trimmed := strings.TrimSpace(scope)
	if trimmed == "" {
		return nil, errors.New("logger scope is required")
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Logger{enc: enc, scope: trimmed}, nil
}

// Emit writes the provided entry to the underlying writer.
func (l *Logger) Emit(entry Entry) error {
	if l == nil {
		return errors.New("logger is nil")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	severity := entry.Severity
	if severity == "" {
		severity = SeverityInfo
	}

	metadata := map[string]string{}
	if len(entry.Metadata) > 0 {
		metadata = make(map[string]string, len(entry.Metadata))
		for k, v := range entry.Metadata {
			metadata[k] = v
		}
	}

	if entry.Error != nil {
		severity = SeverityError
		metadata["error"] = entry.Error.Error()
	}

	payload := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"category":  string(entry.Category),
		"message":   entry.Message,
		"severity":  string(severity),
		"scope":     l.scope,
	}

	if entry.Source != "" {
		payload["source"] = entry.Source
	}
	if entry.Key != "" {
		payload["key"] = entry.Key
	}
	if len(metadata) > 0 {
		payload["metadata"] = metadata
	}

	return l.enc.Encode(payload)
}

// Discard is a StructuredLogger that drops every entry. It stands in
// when diagnostics are disabled so call sites need no nil checks.
type Discard struct{}

func (Discard) Emit(Entry) error { return nil }
