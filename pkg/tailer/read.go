package tailer

import (
	"errors"
	"io"
	"os"
)

// defaultReadChunkSize bounds a single read, and so the size of a single
// Appended signal, when Config.ReadChunkSize is not set.
const defaultReadChunkSize = 1 << 20

type rangeReader func(path string, from, to int64) ([]byte, error)

// readRange reads exactly [from, to) from path. The file is opened and
// closed for each call, so a rotated file is never read through a stale
// descriptor. Callers bound to-from: the buffer is allocated up front.
func readRange(path string, from, to int64) ([]byte, error) {
	want := to - from

	fd, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Offset: from, Want: want, Err: err}
	}
	defer fd.Close()

	buf := make([]byte, want)

	n, err := fd.ReadAt(buf, from)
	if n == len(buf) {
		// ReadAt may report io.EOF along with a complete read at the end of the file
		return buf, nil
	}

	if err == nil || errors.Is(err, io.EOF) {
		// the file shrank between stat and read
		err = ErrShortRead
	}

	return nil, &ReadError{Path: path, Offset: from, Want: want, Got: int64(n), Err: err}
}
