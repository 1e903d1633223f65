package logging

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// OutputConfig is what SetupStandardLogger needs to know about where and
// how to write: the common section of the configuration file implements it.
type OutputConfig interface {
	// GetMedia is "stdout" (written to stderr) or "file".
	GetMedia() string
	// GetFormat is "text" or "json".
	GetFormat() string
	// NewRotatingLogger returns the writer for the "file" media.
	NewRotatingLogger(filename string) *lumberjack.Logger
}
