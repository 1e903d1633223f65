// Package wpconfig reads the debug constants of a wp-config.php file.
// The file is never modified.
package wpconfig

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

const Instructions = `Add the following lines above '/* That's all, stop editing! Happy publishing. */' in wp-config.php:

define('WP_DEBUG', true);
define('WP_DEBUG_LOG', true);
define('WP_DEBUG_DISPLAY', false);`

var (
	defineRe       = regexp.MustCompile(`(?i)define\s*\(\s*['"](WP_DEBUG|WP_DEBUG_LOG|WP_DEBUG_DISPLAY)['"]\s*,\s*(true|false|'[^']*'|"[^"]*")\s*\)`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRe  = regexp.MustCompile(`(?m)^\s*(//|#).*$`)
)

// Settings holds the debug constants found in wp-config.php.
// WordPress displays errors unless WP_DEBUG_DISPLAY is set to false,
// hence DebugDisplay defaults to true.
type Settings struct {
	Debug        bool
	DebugLog     bool
	DebugDisplay bool
	// LogPath is set when WP_DEBUG_LOG is a path instead of a boolean.
	LogPath string
}

func (s Settings) LoggingEnabled() bool {
	return s.Debug && s.DebugLog
}

func Inspect(configPath string) (Settings, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return Settings{}, fmt.Errorf("unable to read %s: %w", configPath, err)
	}

	return parse(string(content)), nil
}

func IsLoggingEnabled(configPath string) (bool, error) {
	s, err := Inspect(configPath)
	if err != nil {
		return false, err
	}

	return s.LoggingEnabled(), nil
}

func parse(content string) Settings {
	content = blockCommentRe.ReplaceAllString(content, "")
	content = lineCommentRe.ReplaceAllString(content, "")

	s := Settings{DebugDisplay: true}
	seen := map[string]bool{}

	for _, m := range defineRe.FindAllStringSubmatch(content, -1) {
		name := strings.ToUpper(m[1])

		// php keeps the first definition of a constant
		if seen[name] {
			continue
		}

		seen[name] = true

		value, isBool := parseValue(m[2])

		switch name {
		case "WP_DEBUG":
			s.Debug = isBool && value
		case "WP_DEBUG_DISPLAY":
			s.DebugDisplay = !isBool || value
		case "WP_DEBUG_LOG":
			if isBool {
				s.DebugLog = value
				continue
			}

			if path := unquote(m[2]); path != "" {
				s.DebugLog = true
				s.LogPath = path
			}
		}
	}

	return s
}

func parseValue(raw string) (value bool, isBool bool) {
	switch strings.ToLower(raw) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

func unquote(raw string) string {
	if len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}

	return raw
}
