package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	log "github.com/sirupsen/logrus"
)

const recreateTimeout = 15 * time.Minute

type BackOffFactory func() backoff.BackOff

func newRecreateBackOffFactory() BackOffFactory {
	return func() backoff.BackOff {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = 200 * time.Millisecond
		exp.Multiplier = 2
		exp.MaxInterval = 5 * time.Second
		exp.RandomizationFactor = 0.2

		return exp
	}
}

// waitForFile returns once path exists as a regular file. It gives up
// when ctx is done or after recreateTimeout.
func waitForFile(ctx context.Context, path string, bo backoff.BackOff, logger *log.Entry) error {
	operation := func() (struct{}, error) {
		fi, err := os.Stat(path)

		switch {
		case errors.Is(err, fs.ErrNotExist):
			return struct{}{}, err
		case err != nil:
			return struct{}{}, backoff.Permanent(err)
		case fi.IsDir():
			return struct{}{}, backoff.Permanent(fmt.Errorf("%s is a directory", path))
		}

		return struct{}{}, nil
	}

	notify := func(err error, wait time.Duration) {
		logger.Debugf("%s not there yet (%s); retrying in %s", path, err, wait)
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithNotify(notify),
		backoff.WithMaxElapsedTime(recreateTimeout))

	return err
}
