package markup

import (
	"github.com/yuin/goldmark/text"
)

// Stream is a cursor over the events of one parsed document. It supports a
// single step of lookahead through Peek. A Stream is not safe for concurrent
// use; every parse owns its own.
type Stream struct {
	events []Event
	next   int
}

// NewStream parses src with goldmark and returns a stream positioned before
// the first event. Open and close events are always balanced and nested.
func NewStream(src []byte, opts Options) *Stream {
	engine := newEngine(opts)
	doc := engine.Parser().Parse(text.NewReader(src))

	conv := &converter{src: src}
	conv.document(doc)

	return &Stream{events: conv.events}
}

// NewStreamFromEvents wraps a precomputed event list. It is mostly useful for
// tests that need to feed hand-written (possibly malformed) sequences.
func NewStreamFromEvents(events []Event) *Stream {
	return &Stream{events: append([]Event(nil), events...)}
}

// Next consumes and returns the next event.
func (s *Stream) Next() (Event, bool) {
	if s == nil || s.next >= len(s.events) {
		return Event{}, false
	}
	ev := s.events[s.next]
	s.next++
	return ev, true
}

// Peek returns the next event without consuming it.
func (s *Stream) Peek() (Event, bool) {
	if s == nil || s.next >= len(s.events) {
		return Event{}, false
	}
	return s.events[s.next], true
}

// Remaining reports how many events have not been consumed yet.
func (s *Stream) Remaining() int {
	if s == nil {
		return 0
	}
	return len(s.events) - s.next
}

// Events returns a copy of every event in the stream, consumed or not.
func (s *Stream) Events() []Event {
	if s == nil {
		return nil
	}
	return append([]Event(nil), s.events...)
}
