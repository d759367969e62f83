package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// LogCapture captures slog JSON output for testing.
type LogCapture struct {
	mu     sync.Mutex
	buffer bytes.Buffer
	logger *slog.Logger
}

// LogEntry represents a parsed log entry.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// NewLogCapture creates a new log capture at debug level.
func NewLogCapture() *LogCapture {
	lc := &LogCapture{}
	lc.logger = slog.New(slog.NewJSONHandler(lc, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return lc
}

// Logger returns the slog.Logger that writes to this capture.
func (lc *LogCapture) Logger() *slog.Logger {
	return lc.logger
}

// Write implements io.Writer; slog handlers may call it from several goroutines.
func (lc *LogCapture) Write(p []byte) (int, error) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.buffer.Write(p)
}

// Entries returns all captured log entries.
func (lc *LogCapture) Entries() []LogEntry {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	var entries []LogEntry
	for _, line := range bytes.Split(lc.buffer.Bytes(), []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}
		var raw map[string]interface{}
		if err := json.Unmarshal(line, &raw); err != nil {
			continue
		}
		entry := LogEntry{Fields: make(map[string]interface{})}
		for k, v := range raw {
			switch k {
			case "level":
				entry.Level, _ = v.(string)
			case "msg":
				entry.Message, _ = v.(string)
			case "time":
			default:
				entry.Fields[k] = v
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// Find returns entries matching the specified level and message substring.
func (lc *LogCapture) Find(level string, msgSubstring string) []LogEntry {
	var results []LogEntry
	for _, entry := range lc.Entries() {
		if (level == "" || strings.EqualFold(entry.Level, level)) &&
			(msgSubstring == "" || strings.Contains(entry.Message, msgSubstring)) {
			results = append(results, entry)
		}
	}
	return results
}

// FindByField returns entries containing the specified field value.
func (lc *LogCapture) FindByField(key string, value interface{}) []LogEntry {
	var results []LogEntry
	for _, entry := range lc.Entries() {
		if v, ok := entry.Fields[key]; ok && fmt.Sprint(v) == fmt.Sprint(value) {
			results = append(results, entry)
		}
	}
	return results
}

// HasError returns true if any ERROR level entries were captured.
func (lc *LogCapture) HasError() bool {
	return len(lc.Find("error", "")) > 0
}
