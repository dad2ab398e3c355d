// Package logtest provides an in-memory logger for assertions in tests.
package logtest

import (
	"context"
	"strings"
	"sync"

	"github.com/namaewanam/notes/pkg/interfaces"
)

// Entry is one captured log call.
type Entry struct {
	Level   string
	Message string
	Fields  map[string]any
}

// Recorder captures entries from every logger derived from it.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{}
}

// Logger returns a logger writing into the recorder.
func (r *Recorder) Logger() interfaces.Logger {
	return &logger{rec: r}
}

// GetLogger satisfies interfaces.LoggerProvider.
func (r *Recorder) GetLogger(name string) interfaces.Logger {
	return &logger{rec: r, fields: map[string]any{"logger": name}}
}

// Entries returns a copy of everything captured so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Count returns how many entries were captured at level whose message
// contains substr.
func (r *Recorder) Count(level, substr string) int {
	n := 0
	for _, entry := range r.Entries() {
		if strings.EqualFold(entry.Level, level) && strings.Contains(entry.Message, substr) {
			n++
		}
	}
	return n
}

func (r *Recorder) add(entry Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
}

type logger struct {
	rec    *Recorder
	fields map[string]any
}

func (l *logger) Trace(msg string, args ...any) { l.log("trace", msg, args) }
func (l *logger) Debug(msg string, args ...any) { l.log("debug", msg, args) }
func (l *logger) Info(msg string, args ...any)  { l.log("info", msg, args) }
func (l *logger) Warn(msg string, args ...any)  { l.log("warn", msg, args) }
func (l *logger) Error(msg string, args ...any) { l.log("error", msg, args) }
func (l *logger) Fatal(msg string, args ...any) { l.log("fatal", msg, args) }

func (l *logger) WithContext(context.Context) interfaces.Logger { return l }

func (l *logger) WithFields(fields map[string]any) interfaces.Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &logger{rec: l.rec, fields: merged}
}

func (l *logger) log(level, msg string, args []any) {
	fields := make(map[string]any, len(l.fields)+len(args)/2)
	for k, v := range l.fields {
		fields[k] = v
	}
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	l.rec.add(Entry{Level: level, Message: msg, Fields: fields})
}
