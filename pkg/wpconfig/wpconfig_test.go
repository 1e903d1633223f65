package wpconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdsecurity/go-cs-lib/cstest"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Settings
	}{
		{
			name:    "empty",
			content: "<?php\n",
			want:    Settings{DebugDisplay: true},
		},
		{
			name: "enabled",
			content: `<?php
define('WP_DEBUG', true);
define('WP_DEBUG_LOG', true);
define('WP_DEBUG_DISPLAY', false);
`,
			want: Settings{Debug: true, DebugLog: true},
		},
		{
			name: "double quotes and spacing",
			content: `<?php
define( "WP_DEBUG" , TRUE );
define(  "WP_DEBUG_LOG",True);
`,
			want: Settings{Debug: true, DebugLog: true, DebugDisplay: true},
		},
		{
			name: "debug without log",
			content: `<?php
define('WP_DEBUG', true);
define('WP_DEBUG_LOG', false);
`,
			want: Settings{Debug: true, DebugDisplay: true},
		},
		{
			name: "custom log path",
			content: `<?php
define('WP_DEBUG', true);
define('WP_DEBUG_LOG', '/var/log/wp/errors.log');
`,
			want: Settings{Debug: true, DebugLog: true, DebugDisplay: true, LogPath: "/var/log/wp/errors.log"},
		},
		{
			name: "commented out",
			content: `<?php
// define('WP_DEBUG', true);
# define('WP_DEBUG_LOG', true);
/*
define('WP_DEBUG_DISPLAY', false);
*/
`,
			want: Settings{DebugDisplay: true},
		},
		{
			name: "first definition wins",
			content: `<?php
define('WP_DEBUG', false);
define('WP_DEBUG', true);
`,
			want: Settings{DebugDisplay: true},
		},
		{
			name: "other constants are ignored",
			content: `<?php
define('WP_DEBUG_LOGGING', true);
define('SCRIPT_DEBUG', true);
`,
			want: Settings{DebugDisplay: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parse(tc.content))
		})
	}
}

func TestIsLoggingEnabled(t *testing.T) {
	dir := t.TempDir()

	enabled := filepath.Join(dir, "enabled.php")
	require.NoError(t, os.WriteFile(enabled, []byte("<?php\ndefine('WP_DEBUG', true);\ndefine('WP_DEBUG_LOG', true);\n"), 0o600))

	ok, err := IsLoggingEnabled(enabled)
	require.NoError(t, err)
	assert.True(t, ok)

	disabled := filepath.Join(dir, "disabled.php")
	require.NoError(t, os.WriteFile(disabled, []byte("<?php\ndefine('WP_DEBUG', true);\n"), 0o600))

	ok, err = IsLoggingEnabled(disabled)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = IsLoggingEnabled(filepath.Join(dir, "missing.php"))
	cstest.RequireErrorContains(t, err, "unable to read")
	require.ErrorIs(t, err, os.ErrNotExist)
}
