package tailer

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/tomb.v2"

	"github.com/crowdsecurity/go-cs-lib/trace"
)

// pollWatcher stats the file on a ticker and reports a change whenever
// size, modification time or existence differ from the previous poll.
// It holds no descriptor on the file.
type pollWatcher struct {
	path     string
	interval time.Duration
	changes  chan struct{}
	errors   chan error
	t        tomb.Tomb
	logger   *log.Entry

	exists  bool
	size    int64
	modTime time.Time
}

func newPollWatcher(path string, interval time.Duration, logger *log.Entry) *pollWatcher {
	if interval <= 0 {
		interval = defaultPollInterval
	}

	w := &pollWatcher{
		path:     path,
		interval: interval,
		changes:  make(chan struct{}, 1),
		errors:   make(chan error),
		logger:   logger.WithField("watcher", ModePoll),
	}

	w.observe()
	w.t.Go(w.loop)

	return w
}

// observe records the current file state and reports whether it differs
// from the previous observation.
func (w *pollWatcher) observe() bool {
	fi, err := os.Stat(w.path)
	if err != nil {
		changed := w.exists
		w.exists = false

		return changed
	}

	changed := !w.exists || fi.Size() != w.size || !fi.ModTime().Equal(w.modTime)

	w.exists = true
	w.size = fi.Size()
	w.modTime = fi.ModTime()

	return changed
}

func (w *pollWatcher) loop() error {
	defer trace.CatchPanic("debugstream/tailer/poll")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.t.Dying():
			return nil
		case <-ticker.C:
			if w.observe() {
				w.logger.Tracef("change detected on %s", w.path)
				notify(w.changes)
			}
		}
	}
}

func (w *pollWatcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *pollWatcher) Errors() <-chan error {
	return w.errors
}

func (w *pollWatcher) Close() error {
	w.t.Kill(nil)
	return w.t.Wait()
}
