package tailer

import (
	"errors"
	"fmt"
)

var (
	ErrWatchSetup  = errors.New("unable to set up watch")
	ErrIsDirectory = errors.New("is a directory")
	ErrShortRead   = errors.New("short read")
)

// WatchSetupError is returned by Start when the file cannot be watched.
type WatchSetupError struct {
	Path string
	Err  error
}

func (e *WatchSetupError) Error() string {
	return fmt.Sprintf("%s %s: %s", ErrWatchSetup, e.Path, e.Err)
}

func (e *WatchSetupError) Unwrap() []error {
	return []error{ErrWatchSetup, e.Err}
}

// StatError means the watched file could not be stat'ed during a session.
type StatError struct {
	Path string
	Err  error
}

func (e *StatError) Error() string {
	return fmt.Sprintf("could not stat %s: %s", e.Path, e.Err)
}

func (e *StatError) Unwrap() error {
	return e.Err
}

// ReadError means the range [Offset, Offset+Want) could not be read in full.
type ReadError struct {
	Path   string
	Offset int64
	Want   int64
	Got    int64
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read %d bytes at offset %d from %s (got %d): %s", e.Want, e.Offset, e.Path, e.Got, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
