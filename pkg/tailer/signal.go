package tailer

import (
	"time"
)

type SignalKind int

const (
	// Appended carries the bytes of [Offset, Offset+len(Bytes)).
	Appended SignalKind = iota
	// Truncated means the file shrank; the consumer should reset its view.
	Truncated
	// FileGone is terminal for the session.
	FileGone
)

func (k SignalKind) String() string {
	switch k {
	case Appended:
		return "appended"
	case Truncated:
		return "truncated"
	case FileGone:
		return "gone"
	default:
		return "unknown"
	}
}

// Signal is what a session sends to the consumer. Signals of one session
// are delivered in emission order.
type Signal struct {
	Kind      SignalKind
	SessionID string
	Path      string
	// Offset is the cursor before the signal was emitted.
	Offset int64
	Bytes  []byte
	// Err is set on FileGone: the stat or read error that ended the session.
	Err  error
	Time time.Time
}

// End returns the offset right after the emitted range.
func (s Signal) End() int64 {
	return s.Offset + int64(len(s.Bytes))
}
