package caption

import "fmt"

// Trace accumulates one human-readable line per retrieval sub-attempt, in
// execution order, whether or not the attempt succeeds. It carries no
// control-flow meaning; it exists purely for diagnostics.
type Trace struct {
	entries []string
	sink    func(string)
}

// NewTrace returns an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

// NewTraceWithSink returns a trace that also forwards each entry to sink as
// it is recorded. Used by the websocket surface to stream attempts live.
func NewTraceWithSink(sink func(string)) *Trace {
	return &Trace{sink: sink}
}

// Add records a new attempt line.
func (t *Trace) Add(format string, args ...any) {
	entry := fmt.Sprintf(format, args...)
	t.entries = append(t.entries, entry)
	if t.sink != nil {
		t.sink(entry)
	}
}

// Entries returns the recorded lines in execution order.
func (t *Trace) Entries() []string {
	if t.entries == nil {
		return []string{}
	}
	return t.entries
}

// Len returns the number of recorded lines.
func (t *Trace) Len() int {
	return len(t.entries)
}
