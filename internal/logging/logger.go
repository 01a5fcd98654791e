// Package logging provides leveled logging and search tracing for textsim.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A SearchTrace for structured JSONL search events (~/.textsim/trace.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug.
// At this level, per-candidate scores are logged.
const LevelTrace = slog.LevelDebug - 4

// TraceFileName is the name of the JSONL trace file.
const TraceFileName = "trace.jsonl"

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "warn", "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "warn":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether s is an accepted level name. Empty is accepted
// and means the default.
func ValidLevel(s string) bool {
	switch strings.ToLower(s) {
	case "", "warn", "info", "debug", "trace":
		return true
	}
	return false
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SearchTrace writes one JSON object per line describing each search.
// It is safe for concurrent use. A nil SearchTrace is safe to use;
// all methods are no-ops on nil receiver.
type SearchTrace struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	seq    int64
}

// NewSearchTrace creates a trace writing to dir/trace.jsonl.
// At "info" or "warn" level it returns nil and no file is created.
// Returns nil if the file cannot be opened.
func NewSearchTrace(dir string, level string) *SearchTrace {
	if ParseLevel(level) > slog.LevelDebug {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, TraceFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &SearchTrace{w: f, closer: f}
}

// NewSearchTraceWriter creates a trace writing to w. The caller owns w.
func NewSearchTraceWriter(w io.Writer) *SearchTrace {
	if w == nil {
		return nil
	}
	return &SearchTrace{w: w}
}

// Log writes an event as a single JSONL line.
// "time" and "seq" fields are added; the caller's map is not mutated.
func (st *SearchTrace) Log(event map[string]any) {
	if st == nil {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.w == nil {
		return
	}

	st.seq++
	entry := make(map[string]any, len(event)+2)
	for k, v := range event {
		entry[k] = v
	}
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["seq"] = st.seq

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = st.w.Write(data)
}

// Close closes the underlying file, if the trace owns one.
func (st *SearchTrace) Close() {
	if st == nil {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.closer != nil {
		st.closer.Close()
		st.closer = nil
	}
	st.w = nil
}
