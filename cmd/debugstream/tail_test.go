package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdsecurity/go-cs-lib/ptr"

	"github.com/crowdsecurity/debugstream/pkg/dsconfig"
	"github.com/crowdsecurity/debugstream/pkg/tailer"
)

// syncBuffer is written by runTail and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func testTailOptions() tailOptions {
	return tailOptions{
		tailer:     tailer.Config{Mode: tailer.ModePoll, PollInterval: 10 * time.Millisecond},
		bufferSize: 4,
		backoff: func() backoff.BackOff {
			return backoff.NewConstantBackOff(10 * time.Millisecond)
		},
	}
}

func appendLog(t *testing.T, path string, s string) {
	t.Helper()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString(s)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestRunTail(t *testing.T) {
	p := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, os.WriteFile(p, []byte("old line\n"), 0o600))

	var out, notices syncBuffer

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)

	go func() {
		done <- runTail(ctx, p, testTailOptions(), newDisplay(&out, &notices, false), log.WithField("test", t.Name()))
	}()

	// the existing content is skipped without --from-start
	time.Sleep(50 * time.Millisecond)
	appendLog(t, p, "new line\n")

	require.Eventually(t, func() bool {
		return out.String() == "new line\n"
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Truncate(p, 0))

	require.Eventually(t, func() bool {
		return notices.String() == "--- "+p+" truncated ---\n"
	}, 5*time.Second, 10*time.Millisecond)

	appendLog(t, p, "after truncate\n")

	require.Eventually(t, func() bool {
		return out.String() == "new line\nafter truncate\n"
	}, 5*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runTail did not return after cancel")
	}
}

func TestRunTailFromStartEndsWhenGone(t *testing.T) {
	p := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, os.WriteFile(p, []byte("old line\n"), 0o600))

	var out, notices syncBuffer

	opts := testTailOptions()
	opts.fromStart = true

	done := make(chan error, 1)

	go func() {
		done <- runTail(t.Context(), p, opts, newDisplay(&out, &notices, false), log.WithField("test", t.Name()))
	}()

	require.Eventually(t, func() bool {
		return out.String() == "old line\n"
	}, 5*time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.Remove(p))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runTail did not return when the file was removed")
	}

	assert.Equal(t, "old line\n", out.String())
	assert.Equal(t, "--- "+p+" removed ---\n", notices.String())
}

func TestRunTailFollowRecreate(t *testing.T) {
	p := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, os.WriteFile(p, nil, 0o600))

	var out, notices syncBuffer

	opts := testTailOptions()
	opts.followRecreate = true

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- runTail(ctx, p, opts, newDisplay(&out, &notices, false), log.WithField("test", t.Name()))
	}()

	time.Sleep(50 * time.Millisecond)
	appendLog(t, p, "first file\n")

	require.Eventually(t, func() bool {
		return out.String() == "first file\n"
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(p))

	require.Eventually(t, func() bool {
		return notices.String() == "--- "+p+" removed ---\n"
	}, 5*time.Second, 10*time.Millisecond)

	// the new file is shown from its first byte
	require.NoError(t, os.WriteFile(p, []byte("second file\n"), 0o600))

	require.Eventually(t, func() bool {
		return out.String() == "first file\nsecond file\n"
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestEnsureLogFile(t *testing.T) {
	logger := log.WithField("test", t.Name())
	p := filepath.Join(t.TempDir(), "debug.log")

	require.NoError(t, ensureLogFile(t.Context(), p, true, logger))

	fi, err := os.Stat(p)
	require.NoError(t, err)
	assert.Zero(t, fi.Size())

	// an existing file is left alone
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	require.NoError(t, ensureLogFile(t.Context(), p, true, logger))

	fi, err = os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fi.Size())

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	err = ensureLogFile(ctx, filepath.Join(t.TempDir(), "never.log"), false, logger)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTailLogger(t *testing.T) {
	level := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(level) })
	log.SetLevel(log.InfoLevel)

	cfg := dsconfig.NewDefaultTailCfg()

	logger := tailLogger(cfg)
	assert.Same(t, log.StandardLogger(), logger.Logger)
	assert.Equal(t, "tailer", logger.Data["component"])

	// tail.log_level only changes the tailer messages
	cfg.LogLevel = ptr.Of(log.TraceLevel)

	logger = tailLogger(cfg)
	assert.NotSame(t, log.StandardLogger(), logger.Logger)
	assert.Equal(t, log.TraceLevel, logger.Logger.GetLevel())
	assert.Equal(t, "tailer", logger.Data["component"])
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
