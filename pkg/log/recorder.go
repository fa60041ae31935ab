package log

import (
	"strings"
	"sync"
)

var _ Logger = &Recorder{}

// Entry is a log line captured by a Recorder.
type Entry struct {
	Level         Level
	Name          string
	Message       string
	KeysAndValues []any
}

// Recorder keeps every entry in memory. Loggers derived through WithKV and
// WithName share the parent's entry list. Meant for tests.
type Recorder struct {
	mu      *sync.Mutex
	entries *[]Entry
	name    string
	kv      []any
}

func NewRecorder() *Recorder {
	return &Recorder{mu: &sync.Mutex{}, entries: &[]Entry{}}
}

func (r *Recorder) Debug(msg string, keysAndValues ...any) { r.record(LevelDebug, msg, keysAndValues) }
func (r *Recorder) Info(msg string, keysAndValues ...any) { r.record(LevelInfo, msg, keysAndValues) }
func (r *Recorder) Warn(msg string, keysAndValues ...any) { r.record(LevelWarn, msg, keysAndValues) }
func (r *Recorder) Error(msg string, keysAndValues ...any) { r.record(LevelError, msg, keysAndValues) }
func (r *Recorder) Fatal(msg string, keysAndValues ...any) { r.record(LevelFatal, msg, keysAndValues) }

func (r *Recorder) record(level Level, msg string, keysAndValues []any) {
	kv := make([]any, 0, len(r.kv)+len(keysAndValues))
	kv = append(kv, r.kv...)
	kv = append(kv, keysAndValues...)

	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, Entry{Level: level, Name: r.name, Message: msg, KeysAndValues: kv})
}

func (r *Recorder) WithKV(key string, value any) Logger {
	kv := make([]any, 0, len(r.kv)+2)
	kv = append(kv, r.kv...)
	kv = append(kv, key, value)
	return &Recorder{mu: r.mu, entries: r.entries, name: r.name, kv: kv}
}

func (r *Recorder) WithName(name string) Logger {
	full := name
	if r.name != "" {
		full = strings.Join([]string{r.name, name}, ".")
	}
	return &Recorder{mu: r.mu, entries: r.entries, name: full, kv: r.kv}
}

func (r *Recorder) Name() string { return r.name }

func (r *Recorder) Sync() error { return nil }

// Entries returns a snapshot of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), *r.entries...)
}

// Find returns the first entry at level whose message equals msg.
func (r *Recorder) Find(level Level, msg string) (Entry, bool) {
	for _, e := range r.Entries() {
		if e.Level == level && e.Message == msg {
			return e, true
		}
	}
	return Entry{}, false
}
