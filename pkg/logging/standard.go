package logging

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defLogLevel    = logrus.InfoLevel
	defLogFilename = "debugstream.log"
)

// SetupStandardLogger configures the global logger according to the
// provided configuration. Console logs go to stderr: stdout belongs to
// the tailed content.
func SetupStandardLogger(cfg OutputConfig, level logrus.Level, forceColors bool) error {
	var logFormatter logrus.Formatter

	switch cfg.GetMedia() {
	case "file":
		logrus.SetOutput(cfg.NewRotatingLogger(defLogFilename))
	case "stdout", "":
		logrus.SetOutput(os.Stderr)
	default:
		return fmt.Errorf("unknown log_media %q", cfg.GetMedia())
	}

	logrus.SetLevel(cmp.Or(level, defLogLevel))

	switch cfg.GetFormat() {
	case "text", "":
		logFormatter = &logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
			ForceColors:     forceColors,
		}
	case "json":
		logFormatter = &logrus.JSONFormatter{TimestampFormat: time.RFC3339}
	default:
		return fmt.Errorf("unknown log_format %q", cfg.GetFormat())
	}

	logrus.SetFormatter(logFormatter)

	return nil
}
