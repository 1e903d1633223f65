package tailer

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"gopkg.in/tomb.v2"

	"github.com/crowdsecurity/go-cs-lib/trace"

	"github.com/crowdsecurity/debugstream/pkg/metrics"
)

type State int

const (
	StateIdle State = iota
	StateWatching
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWatching:
		return "watching"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// fingerprintSize is the number of bytes before the cursor kept to detect
// a file rewritten in place to the same or a larger size.
const fingerprintSize = 64

// Session follows one file. The cursor is only advanced by the session
// goroutine, after a range has been read in full and handed to the consumer.
type Session struct {
	id           string
	path         string
	out          chan<- Signal
	logger       *log.Entry
	metricsLevel metrics.TailerMetricsLevel
	read         rangeReader
	chunkSize    int64

	mu     sync.Mutex
	state  State
	cursor int64

	// owned by the session goroutine
	fingerprint []byte
	lastInfo    os.FileInfo

	handle  watcher
	release sync.Once
	t       tomb.Tomb
	started bool
	onClose func(*Session)
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Path() string {
	return s.path
}

func (s *Session) Cursor() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cursor
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Session) setCursor(cursor int64) {
	s.mu.Lock()
	s.cursor = cursor
	s.mu.Unlock()
}

func (s *Session) start() {
	s.mu.Lock()
	s.state = StateWatching
	s.started = true
	s.mu.Unlock()

	s.t.Go(s.run)
}

// Stop releases the watch handle and waits for the session goroutine.
// It can be called any number of times.
func (s *Session) Stop() {
	s.close()
	s.t.Kill(nil)

	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	if started {
		_ = s.t.Wait()
	}
}

// close moves the session to Closed and releases the handle exactly once.
// It does not wait for the goroutine, so it is safe from within run.
func (s *Session) close() {
	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()

	s.release.Do(func() {
		if s.handle != nil {
			if err := s.handle.Close(); err != nil {
				s.logger.Errorf("error releasing watch: %s", err)
			}
		}

		if s.onClose != nil {
			s.onClose(s)
		}

		s.logger.Debug("session closed")
	})
}

func (s *Session) run() error {
	defer trace.CatchPanic("debugstream/tailer/session")

	s.logger.Debugf("-> start tailing at offset %d", s.Cursor())

	for {
		select {
		case <-s.t.Dying():
			return nil
		case _, ok := <-s.handle.Changes():
			if !ok {
				return nil
			}

			s.handleEvent()
		case err, ok := <-s.handle.Errors():
			if !ok {
				return nil
			}

			// the event may have been lost: resync from a fresh stat
			s.logger.Warningf("watch error: %s", err)
			s.handleEvent()
		}

		if s.State() == StateClosed {
			return nil
		}
	}
}

// handleEvent compares the file with what the session last saw and emits
// the signals that bring the consumer up to date. It is only ever run by
// the session goroutine (or by tests that do not start it).
func (s *Session) handleEvent() {
	if s.State() != StateWatching {
		return
	}

	fi, err := os.Stat(s.path)
	if err != nil {
		s.gone(&StatError{Path: s.path, Err: err})
		return
	}

	prev := s.lastInfo
	s.lastInfo = fi

	size := fi.Size()
	cursor := s.Cursor()

	switch {
	case prev != nil && !os.SameFile(prev, fi):
		s.truncated(cursor, "file replaced")
	case size < cursor:
		s.truncated(cursor, fmt.Sprintf("file truncated (%d -> %d bytes)", cursor, size))
	case size == cursor:
		// mtime has the granularity of a kernel tick: a rewrite to the same
		// size can keep it, so the window is checked on every change
		s.verifyFingerprint(cursor)
	default:
		s.readAppended(cursor, size)
	}
}

// verifyFingerprint re-reads the bytes just before the cursor and reports
// a truncation if they changed.
func (s *Session) verifyFingerprint(cursor int64) {
	if len(s.fingerprint) == 0 {
		s.logger.Tracef("no new content at offset %d", cursor)
		return
	}

	buf, err := s.read(s.path, cursor-int64(len(s.fingerprint)), cursor)
	if err != nil {
		s.readFailed(err)
		return
	}

	if !bytes.Equal(buf, s.fingerprint) {
		s.truncated(cursor, "file rewritten in place")
		return
	}

	s.logger.Tracef("no new content at offset %d", cursor)
}

// readAppended emits [cursor, size) in chunks of at most chunkSize bytes.
// Each read starts with the fingerprint window, which must be unchanged
// for the new bytes to belong to the file the cursor points into.
func (s *Session) readAppended(cursor int64, size int64) {
	for cursor < size {
		end := min(size, cursor+s.chunkSize)
		k := int64(len(s.fingerprint))

		buf, err := s.read(s.path, cursor-k, end)
		if err != nil {
			s.readFailed(err)
			return
		}

		if !bytes.Equal(buf[:k], s.fingerprint) {
			s.truncated(cursor, "file rewritten in place")
			return
		}

		if !s.emit(Signal{Kind: Appended, Offset: cursor, Bytes: buf[k:]}) {
			return
		}

		s.fingerprint = bytes.Clone(buf[max(0, len(buf)-fingerprintSize):])
		cursor = end
		s.setCursor(cursor)
	}
}

// truncated resets the cursor to 0 without reading: the content is picked
// up on the next change.
func (s *Session) truncated(cursor int64, reason string) {
	s.logger.Infof("%s, resetting cursor", reason)
	s.setCursor(0)
	s.fingerprint = nil
	s.emit(Signal{Kind: Truncated, Offset: cursor})
}

func (s *Session) readFailed(err error) {
	if _, serr := os.Stat(s.path); errors.Is(serr, fs.ErrNotExist) {
		s.gone(err)
		return
	}

	if s.metricsLevel.Enabled() {
		metrics.TailerReadErrors.With(prometheus.Labels{"source": s.metricsLevel.Source(s.path)}).Inc()
	}

	s.logger.Warningf("%s, will retry on next change", err)
}

func (s *Session) gone(err error) {
	s.logger.Warningf("file is gone: %s", err)
	s.emit(Signal{Kind: FileGone, Offset: s.Cursor(), Err: err})
	s.close()
	s.t.Kill(nil)
}

// emit hands a signal to the consumer. It blocks while the consumer is
// busy, and gives up when the session is stopped: a result computed by a
// session that has been closed in the meantime is discarded.
func (s *Session) emit(sig Signal) bool {
	sig.SessionID = s.id
	sig.Path = s.path
	sig.Time = time.Now().UTC()

	if s.State() != StateWatching {
		s.logger.Debugf("session closed, discarding %s signal", sig.Kind)
		return false
	}

	select {
	case <-s.t.Dying():
		return false
	default:
	}

	select {
	case s.out <- sig:
	case <-s.t.Dying():
		s.logger.Debugf("session stopping, discarding %s signal", sig.Kind)
		return false
	}

	if s.metricsLevel.Enabled() {
		src := s.metricsLevel.Source(s.path)
		metrics.TailerSignals.With(prometheus.Labels{"source": src, "kind": sig.Kind.String()}).Inc()

		if sig.Kind == Appended {
			metrics.TailerBytes.With(prometheus.Labels{"source": src}).Add(float64(len(sig.Bytes)))
		}
	}

	return true
}
