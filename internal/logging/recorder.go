package logging

import "sync"

// Entry is one line captured by a Recorder.
type Entry struct {
	Level   string
	Message string
	Fields  []Field
	Err     error
}

// Recorder is a Logger that keeps every entry in memory, for tests.
// Loggers derived with With* share the parent's entry list.
type Recorder struct {
	sink   *recorderSink
	fields []Field
	err    error
}

type recorderSink struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{sink: &recorderSink{}}
}

// Entries returns a copy of everything logged so far.
func (r *Recorder) Entries() []Entry {
	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()
	out := make([]Entry, len(r.sink.entries))
	copy(out, r.sink.entries)
	return out
}

// Has reports whether any entry has the given level and message.
func (r *Recorder) Has(level, msg string) bool {
	for _, e := range r.Entries() {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}

func (r *Recorder) log(level, msg string, fields []Field) {
	all := make([]Field, 0, len(r.fields)+len(fields))
	all = append(all, r.fields...)
	all = append(all, fields...)

	r.sink.mu.Lock()
	r.sink.entries = append(r.sink.entries, Entry{Level: level, Message: msg, Fields: all, Err: r.err})
	r.sink.mu.Unlock()
}

func (r *Recorder) Debug(msg string, fields ...Field) { r.log("debug", msg, fields) }
func (r *Recorder) Info(msg string, fields ...Field)  { r.log("info", msg, fields) }
func (r *Recorder) Warn(msg string, fields ...Field)  { r.log("warn", msg, fields) }
func (r *Recorder) Error(msg string, fields ...Field) { r.log("error", msg, fields) }

func (r *Recorder) WithError(err error) Logger {
	return &Recorder{sink: r.sink, fields: r.fields, err: err}
}

func (r *Recorder) WithField(key string, value any) Logger {
	return r.WithFields(Field{Key: key, Value: value})
}

func (r *Recorder) WithFields(fields ...Field) Logger {
	all := make([]Field, 0, len(r.fields)+len(fields))
	all = append(all, r.fields...)
	all = append(all, fields...)
	return &Recorder{sink: r.sink, fields: all, err: r.err}
}
