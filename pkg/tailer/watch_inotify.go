package tailer

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"gopkg.in/tomb.v2"

	"github.com/crowdsecurity/go-cs-lib/trace"
)

// inotifyWatcher subscribes to the parent directory and forwards every
// event about the watched name, whatever the op. Removal and rename
// are seen this way too, and the session finds out by stat'ing.
type inotifyWatcher struct {
	path    string
	fsw     *fsnotify.Watcher
	changes chan struct{}
	errors  chan error
	t       tomb.Tomb
	logger  *log.Entry
}

func newInotifyWatcher(path string, logger *log.Entry) (*inotifyWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(path)

	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("could not watch directory %s: %w", dir, err)
	}

	w := &inotifyWatcher{
		path:    filepath.Clean(path),
		fsw:     fsw,
		changes: make(chan struct{}, 1),
		errors:  make(chan error, 1),
		logger:  logger.WithField("watcher", ModeInotify),
	}

	w.t.Go(w.loop)

	return w, nil
}

func (w *inotifyWatcher) loop() error {
	defer trace.CatchPanic("debugstream/tailer/inotify")

	for {
		select {
		case <-w.t.Dying():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != w.path {
				continue
			}

			w.logger.Tracef("event: %s", event)
			notify(w.changes)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}

			select {
			case w.errors <- err:
			default:
				w.logger.Debugf("dropping watch error, one is already pending: %s", err)
			}
		}
	}
}

func (w *inotifyWatcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *inotifyWatcher) Errors() <-chan error {
	return w.errors
}

func (w *inotifyWatcher) Close() error {
	w.t.Kill(nil)

	err := w.fsw.Close()
	if werr := w.t.Wait(); werr != nil && err == nil {
		err = werr
	}

	if err != nil {
		return fmt.Errorf("could not remove inotify watch: %w", err)
	}

	return nil
}
