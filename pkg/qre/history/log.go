package history

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Entry is one line of the session's history log.
type Entry struct {
	ID      ulid.ULID
	At      time.Time
	Message string
}

// Log is an append-only record of history events. Its Append method fits
// Callbacks.OnHistoryEvent.
type Log struct {
	entries []Entry
	now     func() time.Time
}

func NewLog() *Log { return &Log{now: time.Now} }

func (l *Log) Append(message string) {
	l.entries = append(l.entries, Entry{ID: ulid.Make(), At: l.now(), Message: message})
}

// Entries returns a copy of the log in append order.
func (l *Log) Entries() []Entry { return append([]Entry(nil), l.entries...) }

// Messages returns just the messages, in append order.
func (l *Log) Messages() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Message
	}
	return out
}

func (l *Log) Len() int { return len(l.entries) }

// Reset drops every entry.
func (l *Log) Reset() { l.entries = nil }
