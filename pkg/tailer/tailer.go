// Package tailer follows growing log files and emits the bytes appended to
// them, exactly once and in order, as Signals on a consumer channel.
//
// A file that shrinks or is rewritten in place (detected from the bytes
// just before the cursor and the file identity) is reported as Truncated
// and the cursor restarts at 0 on the next change. A file disappearing is
// reported as FileGone and ends the session. Each file has at most one live session per Tailer.
package tailer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/crowdsecurity/debugstream/pkg/metrics"
)

type Config struct {
	// Mode is one of auto, inotify, poll.
	Mode         string
	PollInterval time.Duration
	MetricsLevel metrics.TailerMetricsLevel
	// ReadChunkSize is the largest range read at once. Larger deltas are
	// emitted as several consecutive Appended signals.
	ReadChunkSize int64
}

type watcherFactory func(path string, mode string, pollInterval time.Duration, logger *log.Entry) (watcher, error)

// Tailer owns the tail sessions of a process and the registry that
// maps a path to its live session.
type Tailer struct {
	cfg    Config
	out    chan<- Signal
	logger *log.Entry

	startMu sync.Mutex
	mu      sync.Mutex
	byPath  map[string]*Session
	byID    map[string]*Session

	newWatcher watcherFactory
	readRange  rangeReader
}

// New returns a Tailer sending signals to out. The consumer must keep
// reading out: sessions block on it.
func New(cfg Config, out chan<- Signal, logger *log.Entry) *Tailer {
	if logger == nil {
		logger = log.WithField("component", "tailer")
	}

	return &Tailer{
		cfg:        cfg,
		out:        out,
		logger:     logger,
		byPath:     make(map[string]*Session),
		byID:       make(map[string]*Session),
		newWatcher: newWatcher,
		readRange:  readRange,
	}
}

// Start begins watching path with the cursor at initialSize. A negative
// initialSize, or one past the end of the file, starts at the current size.
// A live session on the same path is stopped first.
func (t *Tailer) Start(path string, initialSize int64) (*Session, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &WatchSetupError{Path: path, Err: err}
	}

	logger := t.logger.WithField("file", abs)

	fi, err := os.Stat(abs)
	if err != nil {
		return nil, &WatchSetupError{Path: abs, Err: err}
	}

	if fi.IsDir() {
		return nil, &WatchSetupError{Path: abs, Err: ErrIsDirectory}
	}

	if err := checkAccess(abs); err != nil {
		return nil, &WatchSetupError{Path: abs, Err: fmt.Errorf("unable to read: %w", err)}
	}

	mode, err := resolveMode(t.cfg.Mode, abs, logger)
	if err != nil {
		return nil, &WatchSetupError{Path: abs, Err: err}
	}

	if mode == ModeInotify {
		if filink, err := os.Lstat(abs); err == nil && filink.Mode()&os.ModeSymlink == os.ModeSymlink {
			logger.Warnf("File %s is a symlink, changes to the target are not seen by inotify. Consider using poll mode", abs)
		}
	}

	t.startMu.Lock()
	defer t.startMu.Unlock()

	if prior := t.detach(abs); prior != nil {
		logger.Debugf("replacing session %s", prior.ID())
		prior.Stop()
	}

	size := fi.Size()

	cursor := initialSize
	if cursor < 0 || cursor > size {
		cursor = size
	}

	id := uuid.NewString()
	sessionLogger := logger.WithField("session", id)

	var fingerprint []byte

	if cursor > 0 {
		fingerprint, err = t.readRange(abs, max(0, cursor-fingerprintSize), cursor)
		if err != nil {
			sessionLogger.Debugf("no fingerprint at offset %d: %s", cursor, err)
		}
	}

	chunkSize := t.cfg.ReadChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultReadChunkSize
	}

	handle, err := t.newWatcher(abs, mode, t.cfg.PollInterval, sessionLogger)
	if err != nil {
		return nil, &WatchSetupError{Path: abs, Err: err}
	}

	s := &Session{
		id:           id,
		path:         abs,
		out:          t.out,
		logger:       sessionLogger,
		metricsLevel: t.cfg.MetricsLevel,
		read:         t.readRange,
		chunkSize:    chunkSize,
		cursor:       cursor,
		fingerprint:  fingerprint,
		lastInfo:     fi,
		handle:       handle,
		onClose:      t.forget,
	}

	t.mu.Lock()
	t.byPath[abs] = s
	t.byID[id] = s
	t.mu.Unlock()

	if t.cfg.MetricsLevel.Enabled() {
		metrics.TailerSessions.Inc()
	}

	logger.Infof("Starting tail (offset: %d, mode: %s)", cursor, mode)

	s.start()

	return s, nil
}

// StartTailing starts a session at the current end of the file and returns its id.
func (t *Tailer) StartTailing(path string) (string, error) {
	s, err := t.Start(path, -1)
	if err != nil {
		return "", err
	}

	return s.ID(), nil
}

// Stop stops the session with the given id. Unknown or already closed
// sessions are ignored.
func (t *Tailer) Stop(id string) {
	t.mu.Lock()
	s, ok := t.byID[id]
	t.mu.Unlock()

	if !ok {
		return
	}

	s.Stop()
}

func (t *Tailer) Session(id string) (*Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.byID[id]

	return s, ok
}

// Sessions returns the live sessions, ordered by path.
func (t *Tailer) Sessions() []*Session {
	t.mu.Lock()
	ret := make([]*Session, 0, len(t.byPath))

	for _, s := range t.byPath {
		ret = append(ret, s)
	}
	t.mu.Unlock()

	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Path() < ret[j].Path()
	})

	return ret
}

// Close stops every session and returns when all of them are done.
func (t *Tailer) Close() {
	var eg errgroup.Group

	for _, s := range t.Sessions() {
		eg.Go(func() error {
			s.Stop()
			return nil
		})
	}

	_ = eg.Wait()
}

// detach removes the session registered for path, if any, and returns it.
func (t *Tailer) detach(path string) *Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.byPath[path]
	if !ok {
		return nil
	}

	delete(t.byPath, path)

	return s
}

func (t *Tailer) forget(s *Session) {
	t.mu.Lock()
	if t.byPath[s.path] == s {
		delete(t.byPath, s.path)
	}

	delete(t.byID, s.id)
	t.mu.Unlock()

	if t.cfg.MetricsLevel.Enabled() {
		metrics.TailerSessions.Dec()
	}
}
