// Package wproot finds the root directory of a WordPress installation.
package wproot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultMarker  = "wp-config.php"
	DefaultLogPath = "wp-content/debug.log"
)

var ErrNotFound = errors.New("wp-config.php not found in parent directories")

// Locate walks up from startDir and returns the first directory that
// contains marker. The search stops at the filesystem root.
func Locate(startDir string, marker string) (string, error) {
	if marker == "" {
		marker = DefaultMarker
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("while resolving %s: %w", startDir, err)
	}

	for {
		fi, err := os.Stat(filepath.Join(dir, marker))
		if err == nil && !fi.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}

		dir = parent
	}
}

func ConfigPath(root string) string {
	return filepath.Join(root, DefaultMarker)
}

// LogPath returns the debug log location for a root. A relative rel is
// taken from the root, an absolute one is returned as is.
func LogPath(root string, rel string) string {
	if rel == "" {
		rel = DefaultLogPath
	}

	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}

	return filepath.Join(root, filepath.FromSlash(rel))
}
