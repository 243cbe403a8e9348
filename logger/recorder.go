package logger

import (
	"fmt"
	"sync"
)

// Entry is one recorded log call
type Entry struct {
	Level   string
	Message string
	Args    []any
}

// Recorder is a Logger that keeps every call in memory, for assertions in tests
//
//	rec := logger.NewRecorder()
//	ch := event.NewChannel("ping", event.WithLogger(rec))
//	assert.True(t, rec.HasEntry("WARN", "..."))
type Recorder struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Debug(args ...any) { r.record("DEBUG", args) }
func (r *Recorder) Error(args ...any) { r.record("ERROR", args) }
func (r *Recorder) Info(args ...any)  { r.record("INFO", args) }
func (r *Recorder) Log(args ...any)   { r.record("LOG", args) }
func (r *Recorder) Trace(args ...any) { r.record("TRACE", args) }
func (r *Recorder) Warn(args ...any)  { r.record("WARN", args) }

func (r *Recorder) record(level string, args []any) {
	msg, rest := splitArgs(args)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg, Args: rest})
}

// HasEntry checks whether a call with the given level and message was recorded
func (r *Recorder) HasEntry(level, message string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.Level == level && e.Message == message {
			return true
		}
	}
	return false
}

// Count returns the number of calls recorded at level
func (r *Recorder) Count(level string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, e := range r.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Value returns the value following key in the first entry with the given level and message
func (r *Recorder) Value(level, message, key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.Level != level || e.Message != message {
			continue
		}
		for i := 0; i+1 < len(e.Args); i += 2 {
			if k, ok := e.Args[i].(string); ok && k == key {
				return e.Args[i+1], true
			}
		}
	}
	return nil, false
}

// Entries returns a copy of all recorded entries
func (r *Recorder) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Clear drops all entries
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

// String renders the entries, handy in failure messages
func (r *Recorder) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fmt.Sprint(r.entries)
}
