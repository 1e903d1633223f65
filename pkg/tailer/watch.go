package tailer

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/crowdsecurity/debugstream/pkg/fsutil"
)

const (
	ModeAuto    = "auto"
	ModeInotify = "inotify"
	ModePoll    = "poll"
)

const defaultPollInterval = 1 * time.Second

// watcher is the watch handle owned by a session. Changes has a single
// slot and is written without blocking, so any burst of notifications
// collapses into at most one pending change.
type watcher interface {
	Changes() <-chan struct{}
	Errors() <-chan error
	Close() error
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// resolveMode picks the watch implementation for a file. In auto mode,
// files on network shares are polled since inotify does not see remote writes.
func resolveMode(mode string, path string, logger *log.Entry) (string, error) {
	switch mode {
	case ModeInotify, ModePoll:
		return mode, nil
	case ModeAuto, "":
	default:
		return "", fmt.Errorf("unknown tail mode: %s (supported: auto, inotify, poll)", mode)
	}

	networkFS, fsType, err := fsutil.IsNetworkFS(path)
	if err != nil {
		logger.Warningf("Could not get fs type for %s : %s", path, err)
		return ModeInotify, nil
	}

	logger.Debugf("fs for %s is network: %t (%s)", path, networkFS, fsType)

	if networkFS {
		logger.Warnf("Using stat polling on %s as it is on a network share. Set mode to inotify to enforce inotify", path)
		return ModePoll, nil
	}

	return ModeInotify, nil
}

func newWatcher(path string, mode string, pollInterval time.Duration, logger *log.Entry) (watcher, error) {
	switch mode {
	case ModePoll:
		return newPollWatcher(path, pollInterval, logger), nil
	case ModeInotify:
		return newInotifyWatcher(path, logger)
	default:
		return nil, fmt.Errorf("unknown tail mode: %s", mode)
	}
}
