package main

import (
	"bytes"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdsecurity/go-cs-lib/cstest"

	"github.com/crowdsecurity/debugstream/pkg/dsconfig"
	"github.com/crowdsecurity/debugstream/pkg/dsversion"
	"github.com/crowdsecurity/debugstream/pkg/metrics"
)

const enabledConfig = `<?php
define('DB_NAME', 'wordpress');
define('WP_DEBUG', true);
define('WP_DEBUG_LOG', true);
define('WP_DEBUG_DISPLAY', false);
`

// newSite creates a WordPress tree and returns its root and a nested directory.
func newSite(t *testing.T, wpConfig string) (string, string) {
	t.Helper()

	root := t.TempDir()
	nested := filepath.Join(root, "wp-content", "themes", "twentytwentyfive")

	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "wp-config.php"), []byte(wpConfig), 0o600))

	return root, nested
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	std := log.StandardLogger()
	formatter, level, out := std.Formatter, std.GetLevel(), std.Out

	t.Cleanup(func() {
		log.SetFormatter(formatter)
		log.SetLevel(level)
		log.SetOutput(out)
	})

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("common:\n  log_level: error\n"), 0o600))

	var stdout, stderr bytes.Buffer

	cmd := newCliRoot().NewCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"-c", cfgPath, "--color", "no"}, args...))

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestLocateCommand(t *testing.T) {
	root, nested := newSite(t, enabledConfig)

	stdout, _, err := runCLI(t, "locate", nested)
	require.NoError(t, err)
	assert.Equal(t, root+"\n", stdout)

	_, _, err = runCLI(t, "locate", t.TempDir())
	cstest.RequireErrorContains(t, err, "wp-config.php not found in parent directories")
}

func TestCheckCommand(t *testing.T) {
	root, nested := newSite(t, enabledConfig)

	stdout, _, err := runCLI(t, "check", nested)
	require.NoError(t, err)
	assert.Contains(t, stdout, root)
	assert.Contains(t, stdout, filepath.Join(root, "wp-content", "debug.log"))
	assert.Contains(t, stdout, "missing, created on first error")

	_, nested = newSite(t, "<?php\ndefine('WP_DEBUG', true);\n")

	_, stderr, err := runCLI(t, "check", nested)
	require.ErrorIs(t, err, ErrLoggingDisabled)
	assert.Contains(t, stderr, "define('WP_DEBUG_LOG', true);")
}

func TestCheckCommandCustomLogPath(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "php-errors.log")
	require.NoError(t, os.WriteFile(custom, []byte("12345"), 0o600))

	_, nested := newSite(t, "<?php\ndefine('WP_DEBUG', true);\ndefine('WP_DEBUG_LOG', '"+custom+"');\n")

	stdout, _, err := runCLI(t, "check", nested)
	require.NoError(t, err)
	assert.Contains(t, stdout, custom)
	assert.Contains(t, stdout, "5 bytes")
}

func TestTailCommandRefusesDisabledLogging(t *testing.T) {
	_, nested := newSite(t, "<?php\n")

	_, stderr, err := runCLI(t, "tail", nested)
	require.ErrorIs(t, err, ErrLoggingDisabled)
	assert.Contains(t, stderr, "wp-config.php")

	_, _, err = runCLI(t, "tail", "--file", "/tmp/a.log", nested)
	cstest.RequireErrorContains(t, err, "mutually exclusive")
}

func TestTailCommandMissingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "typo.log")

	_, _, err := runCLI(t, "tail", "--file", p)
	require.ErrorIs(t, err, fs.ErrNotExist)

	// only the WordPress log is created on demand
	_, err = os.Stat(p)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "GoVersion:")
	assert.Contains(t, stdout, "Tail modes: auto, inotify, poll")

	stdout, _, err = runCLI(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, dsversion.VersionStrip()+"\n", stdout)
	assert.NotContains(t, stdout, "GoVersion")
}

func TestBadFlags(t *testing.T) {
	_, _, err := runCLI(t, "--color", "maybe", "locate")
	cstest.RequireErrorContains(t, err, "output color maybe unknown")

	_, _, err = runCLI(t, "--debug", "--trace", "locate")
	cstest.RequireErrorContains(t, err, "if any flags in the group")
}

func TestWantedLogLevel(t *testing.T) {
	cli := newCliRoot()
	assert.Equal(t, log.Level(0), cli.wantedLogLevel())

	cli.logWarn = true
	assert.Equal(t, log.WarnLevel, cli.wantedLogLevel())

	cli.logTrace = true
	assert.Equal(t, log.TraceLevel, cli.wantedLogLevel())
}

func TestMetricsServer(t *testing.T) {
	cfg := &dsconfig.PrometheusCfg{
		Enabled:    true,
		Level:      metrics.MetricsLevelFull,
		ListenAddr: "127.0.0.1",
		ListenPort: 0,
	}

	addr, err := startMetricsServer(t.Context(), cfg, log.WithField("test", t.Name()))
	require.NoError(t, err)
	require.NotNil(t, addr)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, "http://"+addr.String()+"/metrics", http.NoBody)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body.String(), "ds_tailer_sessions")

	addr, err = startMetricsServer(t.Context(), &dsconfig.PrometheusCfg{}, log.WithField("test", t.Name()))
	require.NoError(t, err)
	assert.Nil(t, addr)
}
